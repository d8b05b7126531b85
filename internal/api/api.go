// Package api assembles the API module with all domain systems and route registration.
package api

import (
	"fmt"
	"net/http"

	"github.com/JaimeStill/remit/internal/config"
	"github.com/JaimeStill/remit/pkg/middleware"
	"github.com/JaimeStill/remit/pkg/module"
	"github.com/JaimeStill/remit/pkg/openapi"
)

// NewModule creates the API module with all domain handlers and middleware.
func NewModule(cfg *config.Config, runtime *Runtime, domain *Domain) (*module.Module, error) {
	spec, err := openapi.MarshalJSON(NewSpec(cfg))
	if err != nil {
		return nil, fmt.Errorf("render openapi: %w", err)
	}

	mux := http.NewServeMux()
	patterns := registerRoutes(mux, domain, cfg, runtime, spec)
	runtime.Logger.Info("api routes registered", "count", len(patterns))

	m := module.New(cfg.API.BasePath, mux)
	m.Use(middleware.RequestIDs())
	m.Use(middleware.Recover(runtime.Logger))
	m.Use(middleware.CORS(&cfg.API.CORS))
	m.Use(middleware.Logger(runtime.Logger))

	return m, nil
}
