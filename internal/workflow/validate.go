package workflow

import (
	"context"
	"fmt"

	"github.com/JaimeStill/go-agents-orchestration/pkg/state"

	"github.com/JaimeStill/remit/internal/validation"
)

// ValidateNode returns a node checking the invoice arithmetic within
// rt.Tolerance. A zero tolerance demands exact sums.
func ValidateNode(rt *Runtime) state.StateNode {
	return state.NewFunctionNode(func(ctx context.Context, s state.State) (state.State, error) {
		r, err := resultFrom(s)
		if err != nil {
			return s, fmt.Errorf("validate: %w", err)
		}
		if r.Invoice == nil {
			return s, fmt.Errorf("validate: %w: no invoice", ErrInvalidState)
		}

		issues := validation.CheckCalculations(*r.Invoice, rt.Tolerance)
		r.CalculationsValid = len(issues) == 0
		r.Errors = append(r.Errors, issues...)

		rt.Logger.InfoContext(ctx, "validate node complete",
			"id", r.ID,
			"calculations_valid", r.CalculationsValid,
			"issues", len(issues),
		)

		return s.Set(KeyResult, r), nil
	})
}

// RulesNode returns a node applying the business policy and the
// duplicate check against previously approved invoices.
func RulesNode(rt *Runtime) state.StateNode {
	return state.NewFunctionNode(func(ctx context.Context, s state.State) (state.State, error) {
		r, err := resultFrom(s)
		if err != nil {
			return s, fmt.Errorf("rules: %w", err)
		}
		if r.Invoice == nil {
			return s, fmt.Errorf("rules: %w: no invoice", ErrInvalidState)
		}

		issues := rt.Policy.Check(*r.Invoice, rt.now())

		dup, err := validation.CheckDuplicate(ctx, rt.Ledger, *r.Invoice)
		if err != nil {
			return s, fmt.Errorf("rules: %w", err)
		}
		if dup != "" {
			issues = append(issues, dup)
		}

		r.RulesValid = len(issues) == 0
		r.Errors = append(r.Errors, issues...)

		rt.Logger.InfoContext(ctx, "rules node complete",
			"id", r.ID,
			"rules_valid", r.RulesValid,
			"issues", len(issues),
		)

		return s.Set(KeyResult, r), nil
	})
}
