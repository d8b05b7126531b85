// Package app serves the browser upload form and result pages.
package app

import (
	"embed"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"

	"github.com/JaimeStill/remit/internal/submissions"
	"github.com/JaimeStill/remit/pkg/module"
	"github.com/JaimeStill/remit/pkg/web"
)

//go:embed templates static
var assets embed.FS

const layout = "app"

var (
	indexView    = web.ViewDef{Route: "/", Template: "index.html", Title: "Process Invoice"}
	resultView   = web.ViewDef{Route: "/process", Template: "index.html", Title: "Result"}
	notFoundView = web.ViewDef{Template: "not_found.html", Title: "Not Found"}
)

// NewModule builds the /app module over subs. basePath is the public
// mount path used to build links, e.g. "/app".
func NewModule(subs submissions.System, basePath string, maxUploadSize int64, logger *slog.Logger) (*module.Module, error) {
	views, err := web.NewTemplateSet(
		assets,
		"templates/layouts/*.html",
		"templates/views",
		basePath,
		funcs,
		[]web.ViewDef{indexView, notFoundView},
	)
	if err != nil {
		return nil, fmt.Errorf("app templates: %w", err)
	}

	h := &handler{
		subs:    subs,
		views:   views,
		maxSize: maxUploadSize,
		logger:  logger.With("module", "app"),
	}

	r := web.NewRouter()
	r.HandleFunc("GET /{$}", views.PageHandler(layout, indexView))
	r.HandleFunc("POST /process", h.process)
	r.HandleFunc("GET /submissions/{id}", h.show)
	r.Handle("GET /static/", web.DistServer(assets, "static", "/static"))
	r.SetFallback(views.StatusHandler(layout, notFoundView, http.StatusNotFound))

	return module.New("/app", r), nil
}

var funcs = template.FuncMap{
	"text":     text,
	"money":    money,
	"percent":  percent,
	"lineItem": lineItem,
}
