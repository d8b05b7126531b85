package validation

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/JaimeStill/remit/internal/invoice"
)

// DateLayout is the only accepted invoice date format.
const DateLayout = "2006-01-02"

// Policy holds the business limits an invoice must satisfy for
// automatic approval.
type Policy struct {
	MaxAutoApprove decimal.Decimal
	MinAmount      decimal.Decimal
	MaxFutureDays  int
	MaxPastDays    int
}

// DefaultPolicy returns the standard approval limits.
func DefaultPolicy() Policy {
	return Policy{
		MaxAutoApprove: decimal.NewFromInt(10000),
		MinAmount:      decimal.RequireFromString("0.01"),
		MaxFutureDays:  7,
		MaxPastDays:    365,
	}
}

// Check applies required-field, amount and date rules relative to now.
// Dates are compared by calendar day in now's location.
func (p Policy) Check(inv invoice.Invoice, now time.Time) []string {
	var issues []string

	if missing := missingFields(inv); len(missing) > 0 {
		issues = append(issues, "Missing required fields: "+strings.Join(missing, ", "))
	}

	if inv.Total.Valid {
		issues = append(issues, p.checkAmount(inv.Total.Decimal)...)
	}

	if inv.InvoiceDate != nil {
		issues = append(issues, p.checkDate(*inv.InvoiceDate, now)...)
	}

	return issues
}

func missingFields(inv invoice.Invoice) []string {
	var missing []string
	if inv.InvoiceNumber == nil {
		missing = append(missing, "invoice_number")
	}
	if inv.VendorName == nil {
		missing = append(missing, "vendor_name")
	}
	if inv.InvoiceDate == nil {
		missing = append(missing, "invoice_date")
	}
	if !inv.Total.Valid {
		missing = append(missing, "total")
	}
	return missing
}

func (p Policy) checkAmount(total decimal.Decimal) []string {
	var issues []string
	if total.LessThan(p.MinAmount) {
		issues = append(issues, fmt.Sprintf(
			"Invoice amount $%s is below minimum ($%s)",
			money(total), money(p.MinAmount),
		))
	}
	if total.GreaterThan(p.MaxAutoApprove) {
		issues = append(issues, fmt.Sprintf(
			"Invoice amount $%s exceeds auto-approval limit ($%s). Manual review required.",
			money(total), money(p.MaxAutoApprove),
		))
	}
	return issues
}

func (p Policy) checkDate(value string, now time.Time) []string {
	date, err := time.ParseInLocation(DateLayout, value, now.Location())
	if err != nil {
		return []string{fmt.Sprintf("Invalid date format: %s. Expected YYYY-MM-DD.", value)}
	}

	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	var issues []string
	if date.After(today.AddDate(0, 0, p.MaxFutureDays)) {
		issues = append(issues, fmt.Sprintf(
			"Invoice date %s is too far in the future (max %d days ahead)",
			value, p.MaxFutureDays,
		))
	}
	if date.Before(today.AddDate(0, 0, -p.MaxPastDays)) {
		issues = append(issues, fmt.Sprintf(
			"Invoice date %s is too old (max %d days in the past)",
			value, p.MaxPastDays,
		))
	}
	return issues
}
