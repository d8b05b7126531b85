package api

import (
	"github.com/JaimeStill/remit/internal/notifications"
	"github.com/JaimeStill/remit/internal/prompts"
	"github.com/JaimeStill/remit/internal/submissions"
	"github.com/JaimeStill/remit/internal/workflow"
	"github.com/JaimeStill/remit/pkg/pdftext"
)

// Domain holds all domain systems that comprise the API.
type Domain struct {
	Prompts       prompts.System
	Submissions   submissions.System
	Notifications notifications.System
}

// NewDomain creates all domain systems from the API runtime.
func NewDomain(runtime *Runtime) *Domain {
	promptsSystem := prompts.New(
		runtime.Database.Connection(),
		runtime.Logger,
		runtime.Pagination,
	)

	notifier := notifications.New(
		&runtime.Notifications,
		runtime.Mailer,
		runtime.Logger,
	)

	wf := workflow.Runtime{
		Model:     workflow.NewAgentModel(runtime.Agent),
		Prompts:   promptsSystem,
		PDF:       pdftext.New(runtime.Ingest.PDF()),
		Notifier:  notifier,
		Policy:    runtime.Rules.Policy(),
		Tolerance: runtime.Rules.ToleranceDecimal(),
		Ingest:    workflow.IngestOptions{VisionFallback: runtime.Ingest.VisionFallback},
		Logger:    runtime.Logger.With("system", "workflow"),
	}

	submissionsSystem := submissions.New(
		runtime.Database.Connection(),
		runtime.Storage,
		wf,
		runtime.Logger,
		runtime.Pagination,
	)

	return &Domain{
		Prompts:       promptsSystem,
		Submissions:   submissionsSystem,
		Notifications: notifier,
	}
}
