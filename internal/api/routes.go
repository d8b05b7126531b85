package api

import (
	"net/http"

	"github.com/JaimeStill/remit/internal/config"
	"github.com/JaimeStill/remit/pkg/openapi"
	"github.com/JaimeStill/remit/pkg/routes"
)

func registerRoutes(
	mux *http.ServeMux,
	domain *Domain,
	cfg *config.Config,
	runtime *Runtime,
	spec []byte,
) []string {
	storage := newStorageHandler(runtime.Storage, runtime.Logger, runtime.MaxListSize)

	return routes.Register(
		mux,
		domain.Submissions.Handler(cfg.API.MaxUploadSizeBytes()).Routes(),
		domain.Prompts.Handler().Routes(),
		storage.routes(),
		routes.Group{
			Routes: []routes.Route{
				{Method: "GET", Pattern: "/openapi.json", Handler: openapi.ServeSpec(spec)},
			},
		},
	)
}
