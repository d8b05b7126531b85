package app

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/JaimeStill/remit/internal/invoice"
)

func text(s *string) string {
	if s == nil || *s == "" {
		return "N/A"
	}
	return *s
}

func money(currency string, amount decimal.NullDecimal) string {
	return invoice.FormatMoney(currency, amount)
}

// percent renders a fractional rate: 0.0825 is "8.3%".
func percent(rate decimal.NullDecimal) string {
	if !rate.Valid {
		return "N/A"
	}
	return rate.Decimal.Shift(2).StringFixed(1) + "%"
}

func lineItem(i int, item invoice.LineItem) string {
	desc := item.Description
	if desc == "" {
		desc = "(no description)"
	}
	return fmt.Sprintf("%d. %s | Qty: %s | Unit: $%s | Total: $%s",
		i+1, desc, item.Quantity.String(),
		invoice.FormatAmount(item.UnitPrice), invoice.FormatAmount(item.Total),
	)
}
