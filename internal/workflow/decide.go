package workflow

import (
	"context"
	"errors"
	"fmt"

	"github.com/JaimeStill/go-agents-orchestration/pkg/state"

	"github.com/JaimeStill/remit/internal/notifications"
	"github.com/JaimeStill/remit/internal/validation"
)

// DecideNode returns a node that approves the invoice only when the
// calculations and rules passed and no error accumulated.
func DecideNode(rt *Runtime) state.StateNode {
	return state.NewFunctionNode(func(ctx context.Context, s state.State) (state.State, error) {
		r, err := resultFrom(s)
		if err != nil {
			return s, fmt.Errorf("decide: %w", err)
		}

		r.Status = StatusRejected
		if r.CalculationsValid && r.RulesValid && len(r.Errors) == 0 {
			r.Status = StatusApproved
		}
		r.CompletedAt = rt.now()

		rt.Logger.InfoContext(ctx, "decide node complete",
			"id", r.ID,
			"status", r.Status,
			"errors", len(r.Errors),
		)

		return s.Set(KeyResult, r), nil
	})
}

// RecordNode returns a node persisting the result to the ledger. An
// approval that lost a race with a concurrent approval of the same
// invoice is recorded as a duplicate rejection.
func RecordNode(rt *Runtime) state.StateNode {
	return state.NewFunctionNode(func(ctx context.Context, s state.State) (state.State, error) {
		r, err := resultFrom(s)
		if err != nil {
			return s, fmt.Errorf("record: %w", err)
		}

		id, err := rt.Ledger.Record(ctx, &r)
		if errors.Is(err, ErrDuplicateInvoice) && r.Invoice != nil {
			r.Status = StatusRejected
			r.RulesValid = false
			r.Errors = append(r.Errors, validation.DuplicateMessage(*r.Invoice))
			id, err = rt.Ledger.Record(ctx, &r)
		}
		if err != nil {
			return s, fmt.Errorf("record: %w", err)
		}
		r.ID = id

		return s.Set(KeyResult, r), nil
	})
}

// NotifyNode returns a node emailing the decision. Delivery failures are
// recorded on the result and never change the decision.
func NotifyNode(rt *Runtime) state.StateNode {
	return state.NewFunctionNode(func(ctx context.Context, s state.State) (state.State, error) {
		r, err := resultFrom(s)
		if err != nil {
			return s, fmt.Errorf("notify: %w", err)
		}

		r.Notification = notify(ctx, rt, r)

		if err := rt.Ledger.MarkNotified(ctx, r.ID, r.Notification); err != nil {
			return s, fmt.Errorf("notify: %w", err)
		}

		rt.Logger.InfoContext(ctx, "notify node complete",
			"id", r.ID,
			"sent", r.Notification.Sent,
			"skipped", r.Notification.Skipped,
		)

		return s.Set(KeyResult, r), nil
	})
}

func notify(ctx context.Context, rt *Runtime, r Result) Notification {
	if rt.Notifier == nil {
		return Notification{Skipped: true}
	}

	d := notifications.Decision{
		Approved: r.Approved(),
		Reasons:  r.Errors,
	}
	if r.Invoice != nil {
		d.Invoice = *r.Invoice
	}

	if err := rt.Notifier.Notify(ctx, d); err != nil {
		rt.Logger.WarnContext(ctx, "notification failed", "id", r.ID, "error", err)
		return Notification{Error: err.Error()}
	}
	return Notification{Sent: true}
}
