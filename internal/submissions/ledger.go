package submissions

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/JaimeStill/remit/internal/workflow"
	"github.com/JaimeStill/remit/pkg/repository"
)

// approvedKeyIndex enforces one approval per vendor and invoice number.
const approvedKeyIndex = "submissions_approved_invoice_key"

type ledger struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewLedger returns a workflow.Ledger backed by the submissions table.
func NewLedger(db *sql.DB, logger *slog.Logger) workflow.Ledger {
	return &ledger{
		db:     db,
		logger: logger.With("system", "ledger"),
	}
}

func (l *ledger) IsDuplicate(ctx context.Context, vendor, number string) (bool, error) {
	return repository.Exists(ctx, l.db, `
		SELECT EXISTS(
			SELECT 1 FROM submissions
			WHERE status = 'approved'
			AND lower(vendor_name) = lower($1)
			AND lower(invoice_number) = lower($2)
		)`,
		vendor, number,
	)
}

func (l *ledger) Record(ctx context.Context, r *workflow.Result) (uuid.UUID, error) {
	id := r.ID
	if id == uuid.Nil {
		id = uuid.New()
	}

	args, err := recordArgs(id, r)
	if err != nil {
		return uuid.Nil, err
	}

	q := `
		INSERT INTO submissions(
			id, filename, storage_key, size_bytes, page_count, status,
			invoice_number, vendor_name, invoice_date, currency, total,
			invoice, errors, calculations_valid, rules_valid
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		ON CONFLICT (id) DO UPDATE SET
			status = EXCLUDED.status,
			invoice_number = EXCLUDED.invoice_number,
			vendor_name = EXCLUDED.vendor_name,
			invoice_date = EXCLUDED.invoice_date,
			currency = EXCLUDED.currency,
			total = EXCLUDED.total,
			invoice = EXCLUDED.invoice,
			errors = EXCLUDED.errors,
			calculations_valid = EXCLUDED.calculations_valid,
			rules_valid = EXCLUDED.rules_valid,
			updated_at = now()`

	if _, err := l.db.ExecContext(ctx, q, args...); err != nil {
		if repository.IsUniqueViolation(err, approvedKeyIndex) {
			return uuid.Nil, workflow.ErrDuplicateInvoice
		}
		return uuid.Nil, fmt.Errorf("record submission: %w", err)
	}

	l.logger.Info("submission recorded", "id", id, "status", r.Status)
	return id, nil
}

func (l *ledger) MarkNotified(ctx context.Context, id uuid.UUID, n workflow.Notification) error {
	var notifyErr *string
	if n.Error != "" {
		notifyErr = &n.Error
	}

	err := repository.ExecExpectOne(ctx, l.db, `
		UPDATE submissions
		SET notification_sent = $2, notification_error = $3, notification_skipped = $4, updated_at = now()
		WHERE id = $1`,
		id, n.Sent, notifyErr, n.Skipped,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%w: submission %s not recorded", workflow.ErrInvalidState, id)
	}
	return err
}

func recordArgs(id uuid.UUID, r *workflow.Result) ([]any, error) {
	errList, err := json.Marshal(r.Errors)
	if err != nil {
		return nil, fmt.Errorf("encode errors: %w", err)
	}

	var (
		number, vendor, date, currency *string
		total                          any
		inv                            any
	)
	if r.Invoice != nil {
		data, err := json.Marshal(r.Invoice)
		if err != nil {
			return nil, fmt.Errorf("encode invoice: %w", err)
		}
		inv = string(data)
		number = r.Invoice.InvoiceNumber
		vendor = r.Invoice.VendorName
		date = r.Invoice.InvoiceDate
		currency = &r.Invoice.Currency
		if r.Invoice.Total.Valid {
			total = r.Invoice.Total.Decimal.String()
		}
	}

	return []any{
		id,
		r.Source.Filename,
		r.Source.StorageKey,
		r.Source.SizeBytes,
		r.Source.PageCount,
		string(r.Status),
		number,
		vendor,
		date,
		currency,
		total,
		inv,
		string(errList),
		r.CalculationsValid,
		r.RulesValid,
	}, nil
}
