// Package invoice defines the invoice record extracted from a PDF and the
// schema checks applied to it before any arithmetic or policy validation.
package invoice

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/JaimeStill/remit/pkg/formatting"
)

// DefaultCurrency applies when the document states no currency.
const DefaultCurrency = "USD"

// ErrMalformed is returned when model output holds no decodable invoice.
var ErrMalformed = errors.New("malformed invoice data")

// LineItem is one billed product or service.
type LineItem struct {
	Description string          `json:"description"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Total       decimal.Decimal `json:"total"`
}

// Invoice is the structured record extracted from a document. Absent
// values stay nil (or invalid, for money) so rules can tell "missing"
// apart from zero. TaxRate is a fraction: 0.10 means 10%.
type Invoice struct {
	InvoiceNumber   *string             `json:"invoice_number"`
	VendorName      *string             `json:"vendor_name"`
	VendorAddress   *string             `json:"vendor_address"`
	CustomerName    *string             `json:"customer_name"`
	CustomerAddress *string             `json:"customer_address"`
	InvoiceDate     *string             `json:"invoice_date"`
	DueDate         *string             `json:"due_date"`
	LineItems       []LineItem          `json:"line_items"`
	Subtotal        decimal.NullDecimal `json:"subtotal"`
	TaxRate         decimal.NullDecimal `json:"tax_rate"`
	TaxAmount       decimal.NullDecimal `json:"tax_amount"`
	Total           decimal.NullDecimal `json:"total"`
	Currency        string              `json:"currency"`
}

// Parse decodes an invoice from model output and normalizes it.
func Parse(content string) (Invoice, error) {
	inv, err := formatting.Parse[Invoice](content)
	if err != nil {
		return Invoice{}, fmt.Errorf("%w: %w", ErrMalformed, err)
	}
	inv.Normalize()
	return inv, nil
}

// Normalize trims text fields, drops empty ones and canonicalizes currency.
func (inv *Invoice) Normalize() {
	for _, f := range []**string{
		&inv.InvoiceNumber, &inv.VendorName, &inv.VendorAddress,
		&inv.CustomerName, &inv.CustomerAddress, &inv.InvoiceDate, &inv.DueDate,
	} {
		*f = trimmed(*f)
	}

	for i := range inv.LineItems {
		inv.LineItems[i].Description = strings.TrimSpace(inv.LineItems[i].Description)
	}
	if inv.LineItems == nil {
		inv.LineItems = []LineItem{}
	}

	inv.Currency = strings.ToUpper(strings.TrimSpace(inv.Currency))
	if inv.Currency == "" {
		inv.Currency = DefaultCurrency
	}
}

var currencyCode = regexp.MustCompile(`^[A-Z]{3}$`)

// SchemaIssues reports fields that do not conform to the record schema.
func (inv Invoice) SchemaIssues() []string {
	var issues []string
	if !currencyCode.MatchString(inv.Currency) {
		issues = append(issues, fmt.Sprintf("Invalid currency code: %s", inv.Currency))
	}
	for i, item := range inv.LineItems {
		n := i + 1
		if item.Description == "" {
			issues = append(issues, fmt.Sprintf("Line item %d: missing description", n))
		}
		if item.Quantity.IsNegative() {
			issues = append(issues, fmt.Sprintf("Line item %d: negative quantity %s", n, item.Quantity))
		}
	}
	return issues
}

// Key identifies the invoice for duplicate detection: "vendor:number",
// lower-cased. ok is false when either part is missing.
func (inv Invoice) Key() (string, bool) {
	if inv.VendorName == nil || inv.InvoiceNumber == nil {
		return "", false
	}
	return strings.ToLower(*inv.VendorName + ":" + *inv.InvoiceNumber), true
}

// Number returns the invoice number or "Unknown".
func (inv Invoice) Number() string {
	return orUnknown(inv.InvoiceNumber)
}

// Vendor returns the vendor name or "Unknown".
func (inv Invoice) Vendor() string {
	return orUnknown(inv.VendorName)
}

func orUnknown(s *string) string {
	if s == nil {
		return "Unknown"
	}
	return *s
}

func trimmed(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}
