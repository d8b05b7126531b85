package workflow

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"github.com/JaimeStill/go-agents/pkg/agent"
	gaconfig "github.com/JaimeStill/go-agents/pkg/config"

	"github.com/JaimeStill/remit/internal/notifications"
	"github.com/JaimeStill/remit/internal/prompts"
	"github.com/JaimeStill/remit/internal/validation"
	"github.com/JaimeStill/remit/pkg/pdftext"
)

// Model is the language model behind extraction and transcription.
type Model interface {
	Chat(ctx context.Context, prompt string) (string, error)
	Vision(ctx context.Context, prompt string, images []string) (string, error)
}

type agentModel struct {
	cfg gaconfig.AgentConfig
}

// NewAgentModel returns a Model that creates a go-agents agent per call,
// so concurrent workflows never share a client.
func NewAgentModel(cfg gaconfig.AgentConfig) Model {
	return &agentModel{cfg: cfg}
}

func (m *agentModel) Chat(ctx context.Context, prompt string) (string, error) {
	a, err := agent.New(&m.cfg)
	if err != nil {
		return "", fmt.Errorf("create agent: %w", err)
	}

	resp, err := a.Chat(ctx, prompt)
	if err != nil {
		return "", err
	}
	return resp.Content(), nil
}

func (m *agentModel) Vision(ctx context.Context, prompt string, images []string) (string, error) {
	a, err := agent.New(&m.cfg)
	if err != nil {
		return "", fmt.Errorf("create agent: %w", err)
	}

	resp, err := a.Vision(ctx, prompt, images)
	if err != nil {
		return "", err
	}
	return resp.Content(), nil
}

// IngestOptions tune how PDF text is obtained.
type IngestOptions struct {
	// VisionFallback transcribes rendered page images when a PDF has no
	// text layer.
	VisionFallback bool
}

// Runtime bundles the dependencies workflow nodes require. Notifier may be
// nil, in which case notifications are skipped. Tolerance is used as given;
// callers supply validation.DefaultTolerance when nothing is configured.
type Runtime struct {
	Model     Model
	Prompts   prompts.Source
	PDF       pdftext.Extractor
	Ledger    Ledger
	Notifier  notifications.System
	Policy    validation.Policy
	Tolerance decimal.Decimal
	Ingest    IngestOptions
	Logger    *slog.Logger
	Clock     func() time.Time
}

func (rt *Runtime) now() time.Time {
	if rt.Clock != nil {
		return rt.Clock()
	}
	return time.Now()
}
