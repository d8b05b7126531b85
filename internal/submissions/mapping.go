package submissions

import (
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/JaimeStill/remit/internal/invoice"
	"github.com/JaimeStill/remit/internal/workflow"
	"github.com/JaimeStill/remit/pkg/query"
	"github.com/JaimeStill/remit/pkg/repository"
)

var projection = query.
	NewProjectionMap("public", "submissions", "s").
	Project("id", "ID").
	Project("filename", "Filename").
	Project("storage_key", "StorageKey").
	Project("size_bytes", "SizeBytes").
	Project("page_count", "PageCount").
	Project("status", "Status").
	Project("invoice_number", "InvoiceNumber").
	Project("vendor_name", "VendorName").
	Project("invoice_date", "InvoiceDate").
	Project("currency", "Currency").
	Project("total", "Total").
	Project("invoice", "Invoice").
	Project("errors", "Errors").
	Project("calculations_valid", "CalculationsValid").
	Project("rules_valid", "RulesValid").
	Project("notification_sent", "NotificationSent").
	Project("notification_error", "NotificationError").
	Project("notification_skipped", "NotificationSkipped").
	Project("created_at", "CreatedAt").
	Project("updated_at", "UpdatedAt")

var defaultSort = query.SortField{
	Field:      "CreatedAt",
	Descending: true,
}

// Filters contains optional filtering criteria for submission queries.
// Nil fields are ignored. Status and Currency use exact matching; text
// fields use case-insensitive contains matching. MinTotal and MaxTotal
// bound the invoice total inclusively.
type Filters struct {
	Status           *string          `json:"status,omitempty"`
	Filename         *string          `json:"filename,omitempty"`
	VendorName       *string          `json:"vendor_name,omitempty"`
	InvoiceNumber    *string          `json:"invoice_number,omitempty"`
	Currency         *string          `json:"currency,omitempty"`
	MinTotal         *decimal.Decimal `json:"min_total,omitempty"`
	MaxTotal         *decimal.Decimal `json:"max_total,omitempty"`
	NotificationSent *bool            `json:"notification_sent,omitempty"`
}

// Apply adds filter conditions to a query builder.
func (f Filters) Apply(b *query.Builder) *query.Builder {
	return b.
		WhereEquals("Status", f.Status).
		WhereContains("Filename", f.Filename).
		WhereContains("VendorName", f.VendorName).
		WhereContains("InvoiceNumber", f.InvoiceNumber).
		WhereEquals("Currency", f.Currency).
		WhereAtLeast("Total", f.MinTotal).
		WhereAtMost("Total", f.MaxTotal).
		WhereEquals("NotificationSent", f.NotificationSent)
}

// FiltersFromQuery extracts filter values from URL query parameters.
// Malformed numbers and booleans are ignored.
func FiltersFromQuery(values url.Values) Filters {
	var f Filters

	if s := values.Get("status"); s != "" {
		f.Status = &s
	}

	if fn := values.Get("filename"); fn != "" {
		f.Filename = &fn
	}

	if v := values.Get("vendor_name"); v != "" {
		f.VendorName = &v
	}

	if n := values.Get("invoice_number"); n != "" {
		f.InvoiceNumber = &n
	}

	if c := values.Get("currency"); c != "" {
		f.Currency = &c
	}

	if v := values.Get("min_total"); v != "" {
		if d, err := decimal.NewFromString(v); err == nil {
			f.MinTotal = &d
		}
	}

	if v := values.Get("max_total"); v != "" {
		if d, err := decimal.NewFromString(v); err == nil {
			f.MaxTotal = &d
		}
	}

	if v := values.Get("notification_sent"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			f.NotificationSent = &b
		}
	}

	return f
}

func scanSubmission(s repository.Scanner) (Submission, error) {
	var (
		sub     Submission
		status  string
		inv     []byte
		errList []byte
	)
	err := s.Scan(
		&sub.ID,
		&sub.Filename,
		&sub.StorageKey,
		&sub.SizeBytes,
		&sub.PageCount,
		&status,
		&sub.InvoiceNumber,
		&sub.VendorName,
		&sub.InvoiceDate,
		&sub.Currency,
		&sub.Total,
		&inv,
		&errList,
		&sub.CalculationsValid,
		&sub.RulesValid,
		&sub.NotificationSent,
		&sub.NotificationError,
		&sub.NotificationSkipped,
		&sub.CreatedAt,
		&sub.UpdatedAt,
	)
	if err != nil {
		return Submission{}, err
	}

	sub.Status = workflow.Status(status)

	if len(inv) > 0 {
		sub.Invoice = &invoice.Invoice{}
		if err := json.Unmarshal(inv, sub.Invoice); err != nil {
			return Submission{}, fmt.Errorf("decode invoice: %w", err)
		}
	}

	sub.Errors = []string{}
	if len(errList) > 0 {
		if err := json.Unmarshal(errList, &sub.Errors); err != nil {
			return Submission{}, fmt.Errorf("decode errors: %w", err)
		}
	}

	return sub, nil
}
