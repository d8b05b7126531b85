package api

import (
	"github.com/JaimeStill/remit/internal/config"
	"github.com/JaimeStill/remit/internal/infrastructure"
	"github.com/JaimeStill/remit/internal/notifications"
	"github.com/JaimeStill/remit/pkg/pagination"
)

// Runtime extends Infrastructure with API-specific configuration.
type Runtime struct {
	*infrastructure.Infrastructure
	Pagination    pagination.Config
	Rules         config.RulesConfig
	Ingest        config.IngestConfig
	Notifications notifications.Config
	MaxListSize   int32
}

// NewRuntime creates an API runtime with a module-scoped logger.
func NewRuntime(cfg *config.Config, infra *infrastructure.Infrastructure) *Runtime {
	return &Runtime{
		Infrastructure: &infrastructure.Infrastructure{
			Agent:     cfg.Agent,
			Lifecycle: infra.Lifecycle,
			Logger:    infra.Logger.With("module", "api"),
			Database:  infra.Database,
			Storage:   infra.Storage,
			Mailer:    infra.Mailer,
		},
		Pagination:    cfg.API.Pagination,
		Rules:         cfg.Rules,
		Ingest:        cfg.Ingest,
		Notifications: cfg.Notifications,
		MaxListSize:   cfg.Storage.MaxListSize,
	}
}
