package workflow

import (
	"context"
	"slices"
	"sync"

	"github.com/google/uuid"

	"github.com/JaimeStill/remit/internal/invoice"
	"github.com/JaimeStill/remit/internal/validation"
)

// Ledger stores processing results and answers duplicate lookups. Only
// approved results count as prior invoices. Record returns
// ErrDuplicateInvoice when an approved result collides with an earlier
// approval.
type Ledger interface {
	validation.Registry
	Record(ctx context.Context, r *Result) (uuid.UUID, error)
	MarkNotified(ctx context.Context, id uuid.UUID, n Notification) error
}

// MemoryLedger is an in-process Ledger for the CLI and tests.
type MemoryLedger struct {
	mu       sync.Mutex
	approved map[string]uuid.UUID
	results  map[uuid.UUID]Result
}

// NewMemoryLedger returns an empty MemoryLedger.
func NewMemoryLedger() *MemoryLedger {
	return &MemoryLedger{
		approved: make(map[string]uuid.UUID),
		results:  make(map[uuid.UUID]Result),
	}
}

// IsDuplicate reports whether an approved result with the same vendor and
// invoice number was recorded. The comparison ignores case.
func (l *MemoryLedger) IsDuplicate(_ context.Context, vendor, number string) (bool, error) {
	key, _ := invoiceKey(vendor, number)

	l.mu.Lock()
	defer l.mu.Unlock()
	_, ok := l.approved[key]
	return ok, nil
}

// Record stores a copy of r under r.ID, or a new id when r.ID is nil.
// Re-recording the same id replaces the earlier copy.
func (l *MemoryLedger) Record(_ context.Context, r *Result) (uuid.UUID, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	id := r.ID
	if id == uuid.Nil {
		id = uuid.New()
	}

	if r.Approved() && r.Invoice != nil {
		if key, ok := r.Invoice.Key(); ok {
			if prior, exists := l.approved[key]; exists && prior != id {
				return uuid.Nil, ErrDuplicateInvoice
			}
			l.approved[key] = id
		}
	}

	stored := *r
	stored.ID = id
	stored.Errors = slices.Clone(r.Errors)
	l.results[id] = stored
	return id, nil
}

// MarkNotified sets the notification outcome of the result with id. It
// returns ErrInvalidState for an unknown id.
func (l *MemoryLedger) MarkNotified(_ context.Context, id uuid.UUID, n Notification) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	r, ok := l.results[id]
	if !ok {
		return ErrInvalidState
	}
	r.Notification = n
	l.results[id] = r
	return nil
}

// Results returns the recorded results in no particular order.
func (l *MemoryLedger) Results() []Result {
	l.mu.Lock()
	defer l.mu.Unlock()

	out := make([]Result, 0, len(l.results))
	for _, r := range l.results {
		out = append(out, r)
	}
	return out
}

func invoiceKey(vendor, number string) (string, bool) {
	return invoice.Invoice{VendorName: &vendor, InvoiceNumber: &number}.Key()
}
