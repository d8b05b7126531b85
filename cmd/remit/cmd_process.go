package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/JaimeStill/remit/internal/config"
	"github.com/JaimeStill/remit/internal/infrastructure"
	"github.com/JaimeStill/remit/internal/notifications"
	"github.com/JaimeStill/remit/internal/prompts"
	"github.com/JaimeStill/remit/internal/workflow"
	"github.com/JaimeStill/remit/pkg/mailer"
	"github.com/JaimeStill/remit/pkg/pdftext"
)

var processFlags struct {
	concurrency int
	notify      bool
	json        bool
}

var processCmd = &cobra.Command{
	Use:   "process FILE...",
	Short: "Run the approval workflow on one or more PDF invoices",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runProcess,
}

func init() {
	f := processCmd.Flags()
	f.IntVar(&processFlags.concurrency, "concurrency", 1, "Invoices processed in parallel")
	f.BoolVar(&processFlags.notify, "notify", true, "Email each decision")
	f.BoolVar(&processFlags.json, "json", false, "Print results as JSON")
}

// outcome is the result of processing one file. Err is set only when the
// workflow could not produce a decision.
type outcome struct {
	Path   string           `json:"path"`
	Result *workflow.Result `json:"result,omitempty"`
	Err    error            `json:"-"`
}

func (o outcome) MarshalJSON() ([]byte, error) {
	type alias outcome
	out := struct {
		alias
		Error string `json:"error,omitempty"`
	}{alias: alias(o)}
	if o.Err != nil {
		out.Error = o.Err.Error()
	}
	return json.Marshal(out)
}

func runProcess(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadProcessing()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger := infrastructure.NewLogger()

	rt := &workflow.Runtime{
		Model:     workflow.NewAgentModel(cfg.Agent),
		Prompts:   prompts.Defaults(),
		PDF:       pdftext.New(cfg.Ingest.PDF()),
		Ledger:    workflow.NewMemoryLedger(),
		Policy:    cfg.Rules.Policy(),
		Tolerance: cfg.Rules.ToleranceDecimal(),
		Ingest:    workflow.IngestOptions{VisionFallback: cfg.Ingest.VisionFallback},
		Logger:    logger.With("system", "workflow"),
	}

	if processFlags.notify {
		rt.Notifier = newNotifier(cfg, logger)
	}

	outcomes := processFiles(cmd.Context(), rt, args, processFlags.concurrency)

	if err := report(cmd.OutOrStdout(), outcomes, processFlags.json); err != nil {
		return err
	}

	failed := 0
	for _, o := range outcomes {
		if o.Err != nil {
			failed++
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d invoices failed to process", failed, len(outcomes))
	}
	return nil
}

// processFiles runs every path through the workflow, at most concurrency
// at a time. Outcomes keep the order of paths.
func processFiles(ctx context.Context, rt *workflow.Runtime, paths []string, concurrency int) []outcome {
	outcomes := make([]outcome, len(paths))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(max(concurrency, 1))

	for i, path := range paths {
		g.Go(func() error {
			r, err := processFile(ctx, rt, path)
			outcomes[i] = outcome{Path: path, Result: r, Err: err}
			return nil
		})
	}
	g.Wait()

	return outcomes
}

// newNotifier builds the decision notifier. Missing mail credentials do
// not disable it: each send then fails and the failure is recorded on the
// result.
func newNotifier(cfg *config.Config, logger *slog.Logger) notifications.System {
	m := mailer.New(&cfg.Mail, logger)
	if !m.Configured() {
		logger.Warn("mail credentials missing; decision emails will fail")
	}
	return notifications.New(&cfg.Notifications, m, logger)
}

func processFile(ctx context.Context, rt *workflow.Runtime, path string) (*workflow.Result, error) {
	data, err := pdftext.ReadFile(path)
	if err != nil {
		return nil, err
	}

	return workflow.Execute(ctx, rt, workflow.Input{
		ID:       uuid.New(),
		Filename: filepath.Base(path),
		Data:     data,
	})
}

func report(w io.Writer, outcomes []outcome, asJSON bool) error {
	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(outcomes)
	}

	for _, o := range outcomes {
		fmt.Fprintf(w, "%s\n", o.Path)

		if o.Err != nil {
			fmt.Fprintf(w, "  ERROR: %v\n\n", o.Err)
			continue
		}

		r := o.Result
		fmt.Fprintf(w, "  Status: %s\n", strings.ToUpper(string(r.Status)))
		if r.Invoice != nil {
			fmt.Fprintf(w, "  Invoice: %s from %s\n", r.Invoice.Number(), r.Invoice.Vendor())
		}

		if len(r.Errors) == 0 {
			fmt.Fprintf(w, "  All Checks Passed\n")
		} else {
			fmt.Fprintf(w, "  Issues:\n")
			for _, e := range r.Errors {
				fmt.Fprintf(w, "    - %s\n", e)
			}
		}

		switch n := r.Notification; {
		case n.Sent:
			fmt.Fprintf(w, "  Email: sent\n")
		case n.Skipped:
			fmt.Fprintf(w, "  Email: skipped\n")
		default:
			fmt.Fprintf(w, "  Email: failed: %s\n", n.Error)
		}
		fmt.Fprintln(w)
	}
	return nil
}
