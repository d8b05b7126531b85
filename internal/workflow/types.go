package workflow

import (
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/JaimeStill/remit/internal/invoice"
)

const (
	KeyInput  = "input"
	KeyText   = "text"
	KeyResult = "result"
)

var (
	ErrInvalidState     = errors.New("invalid workflow state")
	ErrDuplicateInvoice = errors.New("invoice already approved")
)

// Status is the approval decision.
type Status string

const (
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

// Input is one PDF submitted for processing.
type Input struct {
	ID         uuid.UUID
	Filename   string
	StorageKey string
	Data       []byte
}

// Source describes the processed document.
type Source struct {
	Filename   string `json:"filename"`
	StorageKey string `json:"storage_key,omitempty"`
	SizeBytes  int64  `json:"size_bytes"`
	PageCount  int    `json:"page_count"`
}

// Notification records the outcome of the decision email.
type Notification struct {
	Sent    bool   `json:"sent"`
	Error   string `json:"error,omitempty"`
	Skipped bool   `json:"skipped,omitempty"`
}

// Result is the outcome of processing one invoice. Errors accumulates
// every ingestion, extraction, calculation and rule issue in stage order;
// a rejected result lists them as its reasons.
type Result struct {
	ID                uuid.UUID        `json:"id"`
	Source            Source           `json:"source"`
	Invoice           *invoice.Invoice `json:"invoice"`
	Status            Status           `json:"status"`
	Errors            []string         `json:"errors"`
	CalculationsValid bool             `json:"calculations_valid"`
	RulesValid        bool             `json:"rules_valid"`
	Notification      Notification     `json:"notification"`
	CompletedAt       time.Time        `json:"completed_at"`
}

// Approved reports whether the invoice was approved.
func (r *Result) Approved() bool {
	return r.Status == StatusApproved
}
