// Package validation checks extracted invoices: arithmetic consistency
// between line items and totals, and the business policy that decides
// whether an invoice may be approved without manual review.
package validation

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/JaimeStill/remit/internal/invoice"
)

// DefaultTolerance is the largest absolute difference accepted between a
// stated amount and the amount computed from its parts.
var DefaultTolerance = decimal.RequireFromString("0.01")

var hundred = decimal.NewFromInt(100)

// CheckCalculations verifies line totals, subtotal, tax and grand total.
// A difference equal to tolerance passes. The calculations are valid when
// the returned slice is empty.
func CheckCalculations(inv invoice.Invoice, tolerance decimal.Decimal) []string {
	if len(inv.LineItems) == 0 {
		return []string{"Validation Error: No line items found in invoice"}
	}

	var issues []string
	sum := decimal.Zero

	for i, item := range inv.LineItems {
		expected := item.Quantity.Mul(item.UnitPrice)
		if exceeds(expected, item.Total, tolerance) {
			issues = append(issues, fmt.Sprintf(
				"Line item %d: Expected total %s (qty %s x $%s), but got %s",
				i+1, money(expected), item.Quantity, money(item.UnitPrice), money(item.Total),
			))
		}
		sum = sum.Add(item.Total)
	}

	if inv.Subtotal.Valid && exceeds(sum, inv.Subtotal.Decimal, tolerance) {
		issues = append(issues, fmt.Sprintf(
			"Subtotal mismatch: Sum of line items is %s, but subtotal shows %s",
			money(sum), money(inv.Subtotal.Decimal),
		))
	}

	if inv.TaxRate.Valid && inv.Subtotal.Valid && inv.TaxAmount.Valid {
		expected := inv.Subtotal.Decimal.Mul(inv.TaxRate.Decimal)
		if exceeds(expected, inv.TaxAmount.Decimal, tolerance) {
			issues = append(issues, fmt.Sprintf(
				"Tax calculation error: Expected %s (%s x %s%%), but got %s",
				money(expected), money(inv.Subtotal.Decimal),
				inv.TaxRate.Decimal.Mul(hundred).StringFixed(1), money(inv.TaxAmount.Decimal),
			))
		}
	}

	if inv.Subtotal.Valid && inv.TaxAmount.Valid && inv.Total.Valid {
		expected := inv.Subtotal.Decimal.Add(inv.TaxAmount.Decimal)
		if exceeds(expected, inv.Total.Decimal, tolerance) {
			issues = append(issues, fmt.Sprintf(
				"Total mismatch: Expected %s (subtotal %s + tax %s), but got %s",
				money(expected), money(inv.Subtotal.Decimal), money(inv.TaxAmount.Decimal), money(inv.Total.Decimal),
			))
		}
	}

	return issues
}

func exceeds(a, b, tolerance decimal.Decimal) bool {
	return a.Sub(b).Abs().GreaterThan(tolerance)
}

func money(d decimal.Decimal) string {
	return d.StringFixed(2)
}
