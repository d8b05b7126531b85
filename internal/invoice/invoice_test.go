package invoice_test

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/shopspring/decimal"

	"github.com/JaimeStill/remit/internal/invoice"
)

const extraction = "```json\n" + `{
  "invoice_number": " INV-2024-001 ",
  "vendor_name": "Acme Supplies",
  "vendor_address": "",
  "customer_name": null,
  "invoice_date": "2024-03-01",
  "line_items": [
    {"description": " Widgets ", "quantity": 2, "unit_price": 50.00, "total": 100.00},
    {"description": "Consulting", "quantity": 1.5, "unit_price": "120.00", "total": 180}
  ],
  "subtotal": 280.00,
  "tax_rate": 0.10,
  "tax_amount": 28.00,
  "total": 308.00,
  "currency": "usd"
}` + "\n```"

func TestParse(t *testing.T) {
	inv, err := invoice.Parse(extraction)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	if inv.Number() != "INV-2024-001" {
		t.Errorf("Number = %q", inv.Number())
	}
	if inv.VendorAddress != nil {
		t.Errorf("empty vendor_address should be absent, got %q", *inv.VendorAddress)
	}
	if inv.CustomerName != nil || inv.DueDate != nil {
		t.Error("null and missing fields should be absent")
	}
	if inv.Currency != "USD" {
		t.Errorf("Currency = %q", inv.Currency)
	}
	if len(inv.LineItems) != 2 || inv.LineItems[0].Description != "Widgets" {
		t.Errorf("line items = %+v", inv.LineItems)
	}
	if !inv.LineItems[1].UnitPrice.Equal(decimal.RequireFromString("120")) {
		t.Errorf("string unit price not decoded: %s", inv.LineItems[1].UnitPrice)
	}
	if !inv.TaxRate.Valid || !inv.TaxRate.Decimal.Equal(decimal.RequireFromString("0.1")) {
		t.Errorf("TaxRate = %+v", inv.TaxRate)
	}
}

func TestParseAbsentMoney(t *testing.T) {
	inv, err := invoice.Parse(`{"invoice_number":"A1","subtotal":null}`)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if inv.Subtotal.Valid || inv.Total.Valid {
		t.Error("absent money should be invalid, not zero")
	}
	if inv.Currency != invoice.DefaultCurrency {
		t.Errorf("Currency = %q, want default", inv.Currency)
	}
	if inv.LineItems == nil {
		t.Error("LineItems should be empty, not nil")
	}
}

func TestParseMalformed(t *testing.T) {
	_, err := invoice.Parse("I could not find an invoice in this document.")
	if !errors.Is(err, invoice.ErrMalformed) {
		t.Errorf("err = %v, want ErrMalformed", err)
	}
}

func TestSchemaIssues(t *testing.T) {
	inv := invoice.Invoice{
		Currency: "DOLLARS",
		LineItems: []invoice.LineItem{
			{Description: "ok", Quantity: decimal.NewFromInt(1)},
			{Description: "", Quantity: decimal.NewFromInt(-2)},
		},
	}

	want := []string{
		"Invalid currency code: DOLLARS",
		"Line item 2: missing description",
		"Line item 2: negative quantity -2",
	}
	if diff := cmp.Diff(want, inv.SchemaIssues()); diff != "" {
		t.Errorf("issues mismatch (-want +got):\n%s", diff)
	}
}

func TestKey(t *testing.T) {
	vendor, number := "Acme Supplies", "INV-9"

	key, ok := invoice.Invoice{VendorName: &vendor, InvoiceNumber: &number}.Key()
	if !ok || key != "acme supplies:inv-9" {
		t.Errorf("Key = %q, %v", key, ok)
	}

	if _, ok := (invoice.Invoice{VendorName: &vendor}).Key(); ok {
		t.Error("Key without number should not be ok")
	}
}

func TestUnknownFallbacks(t *testing.T) {
	var inv invoice.Invoice
	if inv.Number() != "Unknown" || inv.Vendor() != "Unknown" {
		t.Errorf("fallbacks = %q, %q", inv.Number(), inv.Vendor())
	}
}

func TestFormatMoney(t *testing.T) {
	tests := []struct {
		currency string
		amount   decimal.NullDecimal
		want     string
	}{
		{"USD", decimal.NewNullDecimal(decimal.RequireFromString("1234.5")), "USD 1,234.50"},
		{"EUR", decimal.NewNullDecimal(decimal.RequireFromString("0.125")), "EUR 0.13"},
		{"", decimal.NewNullDecimal(decimal.NewFromInt(10000)), "USD 10,000.00"},
		{"USD", decimal.NullDecimal{}, "N/A"},
		{"USD", decimal.NewNullDecimal(decimal.RequireFromString("123456789012345678.91")), "USD 123,456,789,012,345,678.91"},
		{"USD", decimal.NewNullDecimal(decimal.RequireFromString("-1234567.005")), "USD -1,234,567.01"},
		{"USD", decimal.NewNullDecimal(decimal.RequireFromString("999.999")), "USD 1,000.00"},
		{"USD", decimal.NewNullDecimal(decimal.RequireFromString("-0.5")), "USD -0.50"},
	}

	for _, tt := range tests {
		if got := invoice.FormatMoney(tt.currency, tt.amount); got != tt.want {
			t.Errorf("FormatMoney(%q, %v) = %q, want %q", tt.currency, tt.amount, got, tt.want)
		}
	}
}
