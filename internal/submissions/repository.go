package submissions

import (
	"bytes"
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/url"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/JaimeStill/remit/internal/workflow"
	"github.com/JaimeStill/remit/pkg/pagination"
	"github.com/JaimeStill/remit/pkg/query"
	"github.com/JaimeStill/remit/pkg/repository"
	"github.com/JaimeStill/remit/pkg/storage"
)

const pdfContentType = "application/pdf"

type repo struct {
	db         *sql.DB
	storage    storage.System
	runtime    workflow.Runtime
	logger     *slog.Logger
	pagination pagination.Config
}

// New creates a submission repository implementing the System interface.
// The runtime's Ledger is replaced with the submissions table.
func New(
	db *sql.DB,
	store storage.System,
	rt workflow.Runtime,
	logger *slog.Logger,
	pagination pagination.Config,
) System {
	rt.Ledger = NewLedger(db, logger)

	return &repo{
		db:         db,
		storage:    store,
		runtime:    rt,
		logger:     logger.With("system", "submissions"),
		pagination: pagination,
	}
}

func (r *repo) Handler(maxUploadSize int64) *Handler {
	return NewHandler(r, r.logger, r.pagination, maxUploadSize)
}

func (r *repo) List(
	ctx context.Context,
	page pagination.PageRequest,
	filters Filters,
) (*pagination.PageResult[Submission], error) {
	page.Normalize(r.pagination)

	qb := query.
		NewBuilder(projection, defaultSort).
		WhereSearch(page.Search, "Filename", "VendorName", "InvoiceNumber")

	filters.Apply(qb)

	if len(page.Sort) > 0 {
		qb.OrderByFields(page.Sort)
	}

	countSQL, countArgs := qb.BuildCount()
	var total int
	if err := r.db.QueryRowContext(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, fmt.Errorf("count submissions: %w", err)
	}

	pageSQL, pageArgs := qb.BuildPage(page.Page, page.PageSize)
	subs, err := repository.QueryMany(ctx, r.db, pageSQL, pageArgs, scanSubmission)
	if err != nil {
		return nil, fmt.Errorf("query submissions: %w", err)
	}

	result := pagination.NewPageResult(subs, total, page.Page, page.PageSize)
	return &result, nil
}

func (r *repo) Find(ctx context.Context, id uuid.UUID) (*Submission, error) {
	q, args := query.NewBuilder(projection).BuildSingle("ID", id)

	s, err := repository.QueryOne(ctx, r.db, q, args, scanSubmission)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return &s, nil
}

func (r *repo) Process(ctx context.Context, cmd ProcessCommand) (*Submission, error) {
	if !isPDF(cmd.Data) {
		return nil, ErrInvalidFile
	}

	id := uuid.New()
	key := buildStorageKey(id, sanitizeFilename(cmd.Filename))

	if err := r.storage.Upload(ctx, key, bytes.NewReader(cmd.Data), pdfContentType); err != nil {
		return nil, fmt.Errorf("upload submission blob: %w", err)
	}

	result, err := workflow.Execute(ctx, &r.runtime, workflow.Input{
		ID:         id,
		Filename:   cmd.Filename,
		StorageKey: key,
		Data:       cmd.Data,
	})
	if err != nil {
		r.discard(ctx, id, key)
		return nil, fmt.Errorf("%w: %w", ErrProcessFailed, err)
	}

	r.logger.Info("submission processed",
		"id", result.ID,
		"filename", cmd.Filename,
		"status", result.Status,
	)

	return r.Find(ctx, result.ID)
}

func (r *repo) Document(ctx context.Context, id uuid.UUID) (*storage.Blob, error) {
	s, err := r.Find(ctx, id)
	if err != nil {
		return nil, err
	}

	blob, err := r.storage.Download(ctx, s.StorageKey)
	if err != nil {
		return nil, fmt.Errorf("download submission blob: %w", err)
	}
	return blob, nil
}

func (r *repo) Delete(ctx context.Context, id uuid.UUID) error {
	s, err := r.Find(ctx, id)
	if err != nil {
		return err
	}

	if err := repository.ExecExpectOne(
		ctx, r.db,
		"DELETE FROM submissions WHERE id = $1",
		id,
	); err != nil {
		return repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	if delErr := r.storage.Delete(ctx, s.StorageKey); delErr != nil {
		r.logger.Warn(
			"blob delete failed after DB delete",
			"key", s.StorageKey,
			"error", delErr,
		)
	}

	r.logger.Info("submission deleted", "id", id)
	return nil
}

// discard removes the blob of a submission the workflow never recorded.
func (r *repo) discard(ctx context.Context, id uuid.UUID, key string) {
	recorded, err := repository.Exists(ctx, r.db, "SELECT EXISTS(SELECT 1 FROM submissions WHERE id = $1)", id)
	if err != nil || recorded {
		return
	}
	if delErr := r.storage.Delete(ctx, key); delErr != nil {
		r.logger.Warn("compensating blob delete failed", "key", key, "error", delErr)
	}
}

func isPDF(data []byte) bool {
	return bytes.HasPrefix(data, []byte("%PDF-"))
}

func buildStorageKey(id uuid.UUID, filename string) string {
	return fmt.Sprintf("submissions/%s/%s", id, filename)
}

func sanitizeFilename(name string) string {
	name = filepath.Base(name)
	if name == "." || name == "/" || name == "" {
		name = "invoice.pdf"
	}
	return url.PathEscape(name)
}
