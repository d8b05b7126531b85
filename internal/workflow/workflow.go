// Package workflow runs the invoice approval pipeline as a state graph:
// ingest, extract, validate, rules, decide, record, notify. Domain
// failures accumulate as messages on the Result; Go errors are reserved
// for broken state and infrastructure failures.
package workflow

import (
	"context"
	"fmt"

	gaoconfig "github.com/JaimeStill/go-agents-orchestration/pkg/config"
	"github.com/JaimeStill/go-agents-orchestration/pkg/state"
)

// Execute processes one invoice PDF.
func Execute(ctx context.Context, rt *Runtime, in Input) (*Result, error) {
	graph, err := buildGraph(rt)
	if err != nil {
		return nil, fmt.Errorf("build graph: %w", err)
	}

	initial := state.New(nil).
		Set(KeyInput, in).
		Set(KeyResult, Result{
			ID:     in.ID,
			Source: Source{Filename: in.Filename, StorageKey: in.StorageKey, SizeBytes: int64(len(in.Data))},
			Errors: []string{},
		})

	final, err := graph.Execute(ctx, initial)
	if err != nil {
		return nil, fmt.Errorf("execute graph: %w", err)
	}

	r, err := resultFrom(final)
	if err != nil {
		return nil, err
	}
	return &r, nil
}

func buildGraph(rt *Runtime) (state.StateGraph, error) {
	cfg := gaoconfig.DefaultGraphConfig("remit-invoice")
	cfg.Observer = "noop"

	graph, err := state.NewGraph(cfg)
	if err != nil {
		return nil, err
	}

	nodes := []struct {
		name string
		node state.StateNode
	}{
		{"ingest", IngestNode(rt)},
		{"extract", ExtractNode(rt)},
		{"validate", ValidateNode(rt)},
		{"rules", RulesNode(rt)},
		{"decide", DecideNode(rt)},
		{"record", RecordNode(rt)},
		{"notify", NotifyNode(rt)},
	}
	for _, n := range nodes {
		if err := graph.AddNode(n.name, n.node); err != nil {
			return nil, err
		}
	}

	edges := []struct {
		from, to string
		when     func(state.State) bool
	}{
		{"ingest", "extract", nil},
		{"extract", "validate", hasInvoice},
		{"extract", "decide", state.Not(hasInvoice)},
		{"validate", "rules", nil},
		{"rules", "decide", nil},
		{"decide", "record", nil},
		{"record", "notify", nil},
	}
	for _, e := range edges {
		if err := graph.AddEdge(e.from, e.to, e.when); err != nil {
			return nil, err
		}
	}

	if err := graph.SetEntryPoint("ingest"); err != nil {
		return nil, err
	}
	if err := graph.SetExitPoint("notify"); err != nil {
		return nil, err
	}
	return graph, nil
}

func hasInvoice(s state.State) bool {
	r, err := resultFrom(s)
	return err == nil && r.Invoice != nil
}

func inputFrom(s state.State) (Input, error) {
	v, ok := s.Get(KeyInput)
	if !ok {
		return Input{}, fmt.Errorf("%w: missing %s", ErrInvalidState, KeyInput)
	}
	in, ok := v.(Input)
	if !ok {
		return Input{}, fmt.Errorf("%w: %s is not Input", ErrInvalidState, KeyInput)
	}
	return in, nil
}

func resultFrom(s state.State) (Result, error) {
	v, ok := s.Get(KeyResult)
	if !ok {
		return Result{}, fmt.Errorf("%w: missing %s", ErrInvalidState, KeyResult)
	}
	r, ok := v.(Result)
	if !ok {
		return Result{}, fmt.Errorf("%w: %s is not Result", ErrInvalidState, KeyResult)
	}
	return r, nil
}
