package validation

import (
	"context"
	"fmt"

	"github.com/JaimeStill/remit/internal/invoice"
)

// Registry reports whether an invoice has already been approved.
type Registry interface {
	IsDuplicate(ctx context.Context, vendor, number string) (bool, error)
}

// CheckDuplicate returns the duplicate message when the registry already
// holds the invoice, or "" otherwise. Invoices without a vendor and number
// are never duplicates.
func CheckDuplicate(ctx context.Context, r Registry, inv invoice.Invoice) (string, error) {
	if inv.VendorName == nil || inv.InvoiceNumber == nil {
		return "", nil
	}

	dup, err := r.IsDuplicate(ctx, *inv.VendorName, *inv.InvoiceNumber)
	if err != nil {
		return "", fmt.Errorf("check duplicate: %w", err)
	}
	if !dup {
		return "", nil
	}
	return DuplicateMessage(inv), nil
}

// DuplicateMessage formats the rule issue for an already-approved invoice.
func DuplicateMessage(inv invoice.Invoice) string {
	return fmt.Sprintf("Duplicate invoice detected: %s from %s", inv.Number(), inv.Vendor())
}
