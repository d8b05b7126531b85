package notifications

import (
	"bytes"
	_ "embed"
	"fmt"
	"html/template"

	"github.com/JaimeStill/remit/internal/invoice"
)

// Decision is the outcome reported to the notification recipient.
type Decision struct {
	Invoice  invoice.Invoice
	Approved bool
	Reasons  []string
}

//go:embed email.html
var emailSource string

var emailTemplate = template.Must(template.New("email").Parse(emailSource))

type emailData struct {
	Approved bool
	Number   string
	Vendor   string
	Total    string
	Reasons  []string
}

// Subject returns the email subject line for d.
func Subject(d Decision) string {
	verb := "Rejected"
	if d.Approved {
		verb = "Approved"
	}
	return fmt.Sprintf("Invoice %s: %s from %s", verb, d.Invoice.Number(), d.Invoice.Vendor())
}

// Body renders the HTML email body for d. Reasons are escaped.
func Body(d Decision) (string, error) {
	var buf bytes.Buffer
	err := emailTemplate.Execute(&buf, emailData{
		Approved: d.Approved,
		Number:   d.Invoice.Number(),
		Vendor:   d.Invoice.Vendor(),
		Total:    invoice.FormatMoney(d.Invoice.Currency, d.Invoice.Total),
		Reasons:  d.Reasons,
	})
	if err != nil {
		return "", fmt.Errorf("render email: %w", err)
	}
	return buf.String(), nil
}
