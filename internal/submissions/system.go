package submissions

import (
	"context"

	"github.com/google/uuid"

	"github.com/JaimeStill/remit/pkg/pagination"
	"github.com/JaimeStill/remit/pkg/storage"
)

// System defines the contract for processing and browsing submissions.
type System interface {
	Handler(maxUploadSize int64) *Handler

	List(ctx context.Context, page pagination.PageRequest, filters Filters) (*pagination.PageResult[Submission], error)
	Find(ctx context.Context, id uuid.UUID) (*Submission, error)
	// Process stores the PDF, runs the approval workflow and returns the
	// recorded submission. A rejected invoice is not an error.
	Process(ctx context.Context, cmd ProcessCommand) (*Submission, error)
	// Document opens the stored PDF. The caller closes Body.
	Document(ctx context.Context, id uuid.UUID) (*storage.Blob, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
