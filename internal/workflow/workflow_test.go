package workflow_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/JaimeStill/remit/internal/notifications"
	"github.com/JaimeStill/remit/internal/prompts"
	"github.com/JaimeStill/remit/internal/validation"
	"github.com/JaimeStill/remit/internal/workflow"
	"github.com/JaimeStill/remit/pkg/pdftext"
)

type mockModel struct {
	chat   func(ctx context.Context, prompt string) (string, error)
	vision func(ctx context.Context, prompt string, images []string) (string, error)
}

func (m *mockModel) Chat(ctx context.Context, prompt string) (string, error) {
	return m.chat(ctx, prompt)
}

func (m *mockModel) Vision(ctx context.Context, prompt string, images []string) (string, error) {
	return m.vision(ctx, prompt, images)
}

type mockExtractor struct {
	extract func(ctx context.Context, data []byte) (*pdftext.Document, error)
}

func (m *mockExtractor) Extract(ctx context.Context, data []byte) (*pdftext.Document, error) {
	return m.extract(ctx, data)
}

type mockNotifier struct {
	notify func(ctx context.Context, d notifications.Decision) error
}

func (m *mockNotifier) Notify(ctx context.Context, d notifications.Decision) error {
	return m.notify(ctx, d)
}

const approvedJSON = "```json\n" + `{
  "invoice_number": "INV-1",
  "vendor_name": "Acme",
  "invoice_date": "2024-06-01",
  "line_items": [{"description": "Widgets", "quantity": 2, "unit_price": 50, "total": 100}],
  "subtotal": 100,
  "tax_rate": 0.1,
  "tax_amount": 10,
  "total": 110,
  "currency": "USD"
}` + "\n```"

var now = time.Date(2024, time.June, 15, 12, 0, 0, 0, time.UTC)

func textPDF(text string) *mockExtractor {
	return &mockExtractor{extract: func(_ context.Context, data []byte) (*pdftext.Document, error) {
		return &pdftext.Document{Text: text, PageCount: 1, SizeBytes: int64(len(data))}, nil
	}}
}

func chatting(content string) *mockModel {
	return &mockModel{chat: func(context.Context, string) (string, error) { return content, nil }}
}

type harness struct {
	rt        *workflow.Runtime
	ledger    *workflow.MemoryLedger
	decisions []notifications.Decision
}

func newHarness(model workflow.Model, pdf pdftext.Extractor) *harness {
	h := &harness{ledger: workflow.NewMemoryLedger()}
	h.rt = &workflow.Runtime{
		Model:   model,
		Prompts: prompts.Defaults(),
		PDF:     pdf,
		Ledger:  h.ledger,
		Notifier: &mockNotifier{notify: func(_ context.Context, d notifications.Decision) error {
			h.decisions = append(h.decisions, d)
			return nil
		}},
		Policy:    validation.DefaultPolicy(),
		Tolerance: validation.DefaultTolerance,
		Logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
		Clock:     func() time.Time { return now },
	}
	return h
}

func (h *harness) run(t *testing.T) *workflow.Result {
	t.Helper()
	r, err := workflow.Execute(context.Background(), h.rt, workflow.Input{
		ID:       uuid.New(),
		Filename: "invoice.pdf",
		Data:     []byte("%PDF-1.4"),
	})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	return r
}

func TestExecuteApproved(t *testing.T) {
	h := newHarness(chatting(approvedJSON), textPDF("INVOICE INV-1"))
	r := h.run(t)

	if r.Status != workflow.StatusApproved {
		t.Fatalf("status = %s, errors = %v", r.Status, r.Errors)
	}
	if !r.CalculationsValid || !r.RulesValid || len(r.Errors) != 0 {
		t.Errorf("result = %+v", r)
	}
	if r.Invoice == nil || r.Invoice.Number() != "INV-1" {
		t.Errorf("invoice = %+v", r.Invoice)
	}
	if r.Source.PageCount != 1 || r.Source.Filename != "invoice.pdf" {
		t.Errorf("source = %+v", r.Source)
	}
	if !r.Notification.Sent {
		t.Errorf("notification = %+v", r.Notification)
	}
	if len(h.decisions) != 1 || !h.decisions[0].Approved {
		t.Errorf("decisions = %+v", h.decisions)
	}
	if !r.CompletedAt.Equal(now) {
		t.Errorf("completed at = %v", r.CompletedAt)
	}

	stored := h.ledger.Results()
	if len(stored) != 1 || !stored[0].Notification.Sent {
		t.Errorf("ledger = %+v", stored)
	}
}

func TestExecuteRejectedCalculations(t *testing.T) {
	content := strings.Replace(approvedJSON, `"total": 110`, `"total": 120`, 1)
	h := newHarness(chatting(content), textPDF("INVOICE INV-1"))
	r := h.run(t)

	want := []string{"Total mismatch: Expected 110.00 (subtotal 100.00 + tax 10.00), but got 120.00"}
	if diff := cmp.Diff(want, r.Errors); diff != "" {
		t.Errorf("errors mismatch (-want +got):\n%s", diff)
	}
	if r.Status != workflow.StatusRejected || r.CalculationsValid || !r.RulesValid {
		t.Errorf("result = %+v", r)
	}
	if len(h.decisions) != 1 || h.decisions[0].Approved || len(h.decisions[0].Reasons) != 1 {
		t.Errorf("decisions = %+v", h.decisions)
	}
}

func TestExecuteIngestFailure(t *testing.T) {
	model := &mockModel{chat: func(context.Context, string) (string, error) {
		t.Error("model should not be called without text")
		return "", nil
	}}
	pdf := &mockExtractor{extract: func(context.Context, []byte) (*pdftext.Document, error) {
		return nil, pdftext.ErrCorrupt
	}}

	r := newHarness(model, pdf).run(t)

	if r.Status != workflow.StatusRejected || r.Invoice != nil {
		t.Errorf("result = %+v", r)
	}
	if len(r.Errors) != 2 || !strings.HasPrefix(r.Errors[0], "PDF Ingestion Error: ") {
		t.Fatalf("errors = %v", r.Errors)
	}
	if r.Errors[1] != "Extraction Error: No PDF text available. Ingestion may have failed." {
		t.Errorf("second error = %q", r.Errors[1])
	}
}

func TestExecuteNoTextWithoutFallback(t *testing.T) {
	pdf := &mockExtractor{extract: func(context.Context, []byte) (*pdftext.Document, error) {
		return nil, pdftext.ErrNoText
	}}

	h := newHarness(chatting(approvedJSON), pdf)
	r := h.run(t)

	if len(r.Errors) != 2 || !strings.Contains(r.Errors[0], "OCR") {
		t.Fatalf("errors = %v", r.Errors)
	}
	if r.Errors[1] != "Extraction Error: No PDF text available. Ingestion may have failed." {
		t.Errorf("second error = %q", r.Errors[1])
	}
	if r.Status != workflow.StatusRejected || r.Invoice != nil {
		t.Errorf("result = %+v", r)
	}
	if len(h.decisions) != 1 || h.decisions[0].Approved || len(h.decisions[0].Reasons) != 2 {
		t.Errorf("decisions = %+v", h.decisions)
	}
}

func TestExecuteExtractionFailure(t *testing.T) {
	tests := []struct {
		name  string
		model *mockModel
	}{
		{"model error", &mockModel{chat: func(context.Context, string) (string, error) {
			return "", errors.New("rate limited")
		}}},
		{"unparseable", chatting("Sorry, I cannot read this invoice.")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newHarness(tt.model, textPDF("INVOICE")).run(t)

			if r.Status != workflow.StatusRejected || r.Invoice != nil {
				t.Errorf("result = %+v", r)
			}
			if len(r.Errors) != 1 || !strings.HasPrefix(r.Errors[0], "LLM Extraction Error: ") {
				t.Errorf("errors = %v", r.Errors)
			}
		})
	}
}

func TestExecuteSchemaIssuesReject(t *testing.T) {
	content := strings.Replace(approvedJSON, `"currency": "USD"`, `"currency": "DOLLARS"`, 1)
	r := newHarness(chatting(content), textPDF("INVOICE")).run(t)

	if r.Status != workflow.StatusRejected {
		t.Errorf("status = %s", r.Status)
	}
	want := []string{"LLM Extraction Error: Invalid currency code: DOLLARS"}
	if diff := cmp.Diff(want, r.Errors); diff != "" {
		t.Errorf("errors mismatch (-want +got):\n%s", diff)
	}
	if !r.CalculationsValid || !r.RulesValid {
		t.Error("checks should still run on a parsed invoice")
	}
}

func TestExecuteDuplicate(t *testing.T) {
	h := newHarness(chatting(approvedJSON), textPDF("INVOICE INV-1"))

	first := h.run(t)
	second := h.run(t)

	if first.Status != workflow.StatusApproved {
		t.Fatalf("first status = %s: %v", first.Status, first.Errors)
	}
	if second.Status != workflow.StatusRejected {
		t.Fatalf("second status = %s", second.Status)
	}
	want := []string{"Duplicate invoice detected: INV-1 from Acme"}
	if diff := cmp.Diff(want, second.Errors); diff != "" {
		t.Errorf("errors mismatch (-want +got):\n%s", diff)
	}
}

// racingLedger reports a conflicting approval on the first approved
// Record, as when a concurrent run approves the same invoice between the
// duplicate lookup and the write.
type racingLedger struct {
	*workflow.MemoryLedger
	raced bool
}

func (l *racingLedger) Record(ctx context.Context, r *workflow.Result) (uuid.UUID, error) {
	if r.Approved() && !l.raced {
		l.raced = true
		return uuid.Nil, workflow.ErrDuplicateInvoice
	}
	return l.MemoryLedger.Record(ctx, r)
}

func TestExecuteDuplicateOnRecord(t *testing.T) {
	h := newHarness(chatting(approvedJSON), textPDF("INVOICE INV-1"))
	ledger := &racingLedger{MemoryLedger: h.ledger}
	h.rt.Ledger = ledger

	r := h.run(t)

	if !ledger.raced {
		t.Fatal("approved result was never recorded")
	}
	if r.Status != workflow.StatusRejected || r.RulesValid || !r.CalculationsValid {
		t.Errorf("result = %+v", r)
	}
	want := []string{"Duplicate invoice detected: INV-1 from Acme"}
	if diff := cmp.Diff(want, r.Errors); diff != "" {
		t.Errorf("errors mismatch (-want +got):\n%s", diff)
	}
	if len(h.decisions) != 1 || h.decisions[0].Approved {
		t.Fatalf("decisions = %+v", h.decisions)
	}
	if diff := cmp.Diff(want, h.decisions[0].Reasons); diff != "" {
		t.Errorf("reasons mismatch (-want +got):\n%s", diff)
	}

	stored := h.ledger.Results()
	if len(stored) != 1 || stored[0].Status != workflow.StatusRejected {
		t.Errorf("ledger = %+v", stored)
	}
}

func TestExecuteTolerance(t *testing.T) {
	content := strings.Replace(approvedJSON, `"total": 110`, `"total": 110.01`, 1)

	tests := []struct {
		name      string
		tolerance decimal.Decimal
		want      workflow.Status
	}{
		{"default accepts a cent", validation.DefaultTolerance, workflow.StatusApproved},
		{"zero demands exact sums", decimal.Zero, workflow.StatusRejected},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(chatting(content), textPDF("INVOICE INV-1"))
			h.rt.Tolerance = tt.tolerance
			r := h.run(t)

			if r.Status != tt.want {
				t.Errorf("status = %s, want %s: %v", r.Status, tt.want, r.Errors)
			}
			if r.CalculationsValid != (tt.want == workflow.StatusApproved) {
				t.Errorf("calculations_valid = %v", r.CalculationsValid)
			}
		})
	}
}

func TestExecuteNotification(t *testing.T) {
	t.Run("skipped without notifier", func(t *testing.T) {
		h := newHarness(chatting(approvedJSON), textPDF("INVOICE"))
		h.rt.Notifier = nil
		r := h.run(t)

		if !r.Notification.Skipped || r.Notification.Sent {
			t.Errorf("notification = %+v", r.Notification)
		}
	})

	t.Run("failure keeps decision", func(t *testing.T) {
		h := newHarness(chatting(approvedJSON), textPDF("INVOICE"))
		h.rt.Notifier = &mockNotifier{notify: func(context.Context, notifications.Decision) error {
			return errors.New("smtp unavailable")
		}}
		r := h.run(t)

		if r.Status != workflow.StatusApproved {
			t.Errorf("status = %s", r.Status)
		}
		if r.Notification.Sent || r.Notification.Error != "smtp unavailable" {
			t.Errorf("notification = %+v", r.Notification)
		}
	})
}

func TestComposePrompt(t *testing.T) {
	prompt, err := workflow.ComposePrompt(context.Background(), prompts.Defaults(), prompts.StageExtract, "INVOICE INV-9")
	if err != nil {
		t.Fatal(err)
	}

	if !strings.HasPrefix(prompt, "You are an expert invoice data extractor") {
		t.Errorf("prompt should start with instructions: %q", prompt[:40])
	}
	if !strings.Contains(prompt, "invoice_number") {
		t.Error("prompt missing output spec")
	}
	if !strings.HasSuffix(prompt, "---\nINVOICE INV-9\n---") {
		t.Errorf("prompt should end with wrapped text: %q", prompt[len(prompt)-40:])
	}

	if _, err := workflow.ComposePrompt(context.Background(), prompts.Defaults(), "finalize", ""); err == nil {
		t.Error("expected error for unknown stage")
	}
}

func TestMemoryLedger(t *testing.T) {
	ctx := context.Background()
	l := workflow.NewMemoryLedger()

	h := newHarness(chatting(approvedJSON), textPDF("INVOICE"))
	h.rt.Ledger = l
	approved := h.run(t)

	dup, _ := l.IsDuplicate(ctx, "ACME", "inv-1")
	if !dup {
		t.Error("lookup should be case-insensitive")
	}

	race := *approved
	race.ID = uuid.New()
	if _, err := l.Record(ctx, &race); !errors.Is(err, workflow.ErrDuplicateInvoice) {
		t.Errorf("err = %v, want ErrDuplicateInvoice", err)
	}

	if err := l.MarkNotified(ctx, uuid.New(), workflow.Notification{}); err == nil {
		t.Error("expected error for unknown id")
	}

	if dup, _ := l.IsDuplicate(ctx, "Globex", "INV-1"); dup {
		t.Error("other vendors should not collide")
	}
	if got := l.Results(); len(got) != 1 || got[0].ID != approved.ID {
		t.Errorf("results = %+v", got)
	}
}
