package invoice

import (
	"strings"

	"github.com/shopspring/decimal"
)

// FormatMoney renders amount as "USD 1,234.50". Absent amounts render "N/A".
func FormatMoney(currency string, amount decimal.NullDecimal) string {
	if !amount.Valid {
		return "N/A"
	}
	if currency == "" {
		currency = DefaultCurrency
	}
	return currency + " " + FormatAmount(amount.Decimal)
}

// FormatAmount renders d with thousands grouping and two decimals. The
// digits come from the decimal itself, so amounts of any magnitude keep
// every cent.
func FormatAmount(d decimal.Decimal) string {
	s := d.StringFixed(2)

	sign := ""
	if strings.HasPrefix(s, "-") {
		sign, s = "-", s[1:]
	}
	whole, frac, _ := strings.Cut(s, ".")

	var b strings.Builder
	b.WriteString(sign)
	for i, c := range whole {
		if i > 0 && (len(whole)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(c)
	}
	b.WriteByte('.')
	b.WriteString(frac)
	return b.String()
}
