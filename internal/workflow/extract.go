package workflow

import (
	"context"
	"fmt"

	"github.com/JaimeStill/go-agents-orchestration/pkg/state"

	"github.com/JaimeStill/remit/internal/invoice"
	"github.com/JaimeStill/remit/internal/prompts"
)

const (
	extractPrefix = "LLM Extraction Error: "
	noTextError   = "Extraction Error: No PDF text available. Ingestion may have failed."
)

// ExtractNode returns a node that asks the model for the structured
// invoice record. Without ingested text the model is not called and the
// missing text is recorded as an extraction error. Model, parse and schema failures become extraction
// errors; an invoice that parsed but violates the schema is kept so the
// remaining checks still run.
func ExtractNode(rt *Runtime) state.StateNode {
	return state.NewFunctionNode(func(ctx context.Context, s state.State) (state.State, error) {
		r, err := resultFrom(s)
		if err != nil {
			return s, fmt.Errorf("extract: %w", err)
		}

		text, _ := s.Get(KeyText)
		content, _ := text.(string)
		if content == "" {
			r.Errors = append(r.Errors, noTextError)
			return s.Set(KeyResult, r), nil
		}

		inv, err := extract(ctx, rt, content)
		if err != nil {
			if ctx.Err() != nil {
				return s, fmt.Errorf("extract: %w", ctx.Err())
			}
			r.Errors = append(r.Errors, extractPrefix+err.Error())
			return s.Set(KeyResult, r), nil
		}

		for _, issue := range inv.SchemaIssues() {
			r.Errors = append(r.Errors, extractPrefix+issue)
		}
		r.Invoice = inv

		rt.Logger.InfoContext(ctx, "extract node complete",
			"id", r.ID,
			"invoice_number", inv.Number(),
			"vendor", inv.Vendor(),
			"line_items", len(inv.LineItems),
		)

		return s.Set(KeyResult, r), nil
	})
}

func extract(ctx context.Context, rt *Runtime, text string) (*invoice.Invoice, error) {
	prompt, err := ComposePrompt(ctx, rt.Prompts, prompts.StageExtract, text)
	if err != nil {
		return nil, err
	}

	content, err := rt.Model.Chat(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("failed to extract invoice data: %w", err)
	}

	inv, err := invoice.Parse(content)
	if err != nil {
		return nil, fmt.Errorf("failed to extract invoice data: %w", err)
	}
	return &inv, nil
}
