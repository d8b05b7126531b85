// Package submissions stores processed invoice PDFs and their approval
// outcome. Each submission owns one blob in storage and one row in the
// submissions table; the row doubles as the duplicate-invoice ledger.
package submissions

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/JaimeStill/remit/internal/invoice"
	"github.com/JaimeStill/remit/internal/workflow"
)

// Submission is a processed invoice PDF. Invoice is nil when ingestion or
// extraction failed; the flattened invoice columns exist for filtering.
type Submission struct {
	ID                  uuid.UUID           `json:"id"`
	Filename            string              `json:"filename"`
	StorageKey          string              `json:"storage_key"`
	SizeBytes           int64               `json:"size_bytes"`
	PageCount           int                 `json:"page_count"`
	Status              workflow.Status     `json:"status"`
	InvoiceNumber       *string             `json:"invoice_number"`
	VendorName          *string             `json:"vendor_name"`
	InvoiceDate         *string             `json:"invoice_date"`
	Currency            *string             `json:"currency"`
	Total               decimal.NullDecimal `json:"total"`
	Invoice             *invoice.Invoice    `json:"invoice"`
	Errors              []string            `json:"errors"`
	CalculationsValid   bool                `json:"calculations_valid"`
	RulesValid          bool                `json:"rules_valid"`
	NotificationSent    bool                `json:"notification_sent"`
	NotificationError   *string             `json:"notification_error"`
	NotificationSkipped bool                `json:"notification_skipped"`
	CreatedAt           time.Time           `json:"created_at"`
	UpdatedAt           time.Time           `json:"updated_at"`
}

// Approved reports whether the invoice was approved.
func (s Submission) Approved() bool {
	return s.Status == workflow.StatusApproved
}

// Result rebuilds the workflow result the submission was recorded from.
func (s Submission) Result() workflow.Result {
	n := workflow.Notification{
		Sent:    s.NotificationSent,
		Skipped: s.NotificationSkipped,
	}
	if s.NotificationError != nil {
		n.Error = *s.NotificationError
	}

	return workflow.Result{
		ID: s.ID,
		Source: workflow.Source{
			Filename:   s.Filename,
			StorageKey: s.StorageKey,
			SizeBytes:  s.SizeBytes,
			PageCount:  s.PageCount,
		},
		Invoice:           s.Invoice,
		Status:            s.Status,
		Errors:            s.Errors,
		CalculationsValid: s.CalculationsValid,
		RulesValid:        s.RulesValid,
		Notification:      n,
		CompletedAt:       s.UpdatedAt,
	}
}

// ProcessCommand carries an uploaded PDF into the approval workflow.
type ProcessCommand struct {
	Filename string
	Data     []byte
}
