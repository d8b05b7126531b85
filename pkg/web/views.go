// Package web renders server-side pages from embedded templates and serves
// embedded static assets.
package web

import (
	"bytes"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
)

// ViewDef names a page template and its title.
type ViewDef struct {
	Route    string
	Template string
	Title    string
}

// ViewData is passed to every page template. BasePath lets templates build
// links that survive remounting, e.g. {{ .BasePath }}/process.
type ViewData struct {
	Title    string
	BasePath string
	Data     any
}

// TemplateSet holds one parsed template tree per view, each a clone of
// the shared layouts.
type TemplateSet struct {
	views    map[string]*template.Template
	basePath string
}

// NewTemplateSet parses layouts matching layoutGlob in fsys, then clones
// them once per view and parses the view from viewDir. funcs is made
// available to layouts and views alike.
func NewTemplateSet(fsys fs.FS, layoutGlob, viewDir, basePath string, funcs template.FuncMap, views []ViewDef) (*TemplateSet, error) {
	layouts, err := template.New("").Funcs(funcs).ParseFS(fsys, layoutGlob)
	if err != nil {
		return nil, fmt.Errorf("parse layouts: %w", err)
	}

	viewFS, err := fs.Sub(fsys, viewDir)
	if err != nil {
		return nil, err
	}

	set := &TemplateSet{
		views:    make(map[string]*template.Template, len(views)),
		basePath: basePath,
	}
	for _, v := range views {
		t, err := layouts.Clone()
		if err != nil {
			return nil, fmt.Errorf("clone layouts for %s: %w", v.Template, err)
		}
		if _, err := t.ParseFS(viewFS, v.Template); err != nil {
			return nil, fmt.Errorf("parse view %s: %w", v.Template, err)
		}
		set.views[v.Template] = t
	}
	return set, nil
}

// BasePath returns the prefix the set was built with.
func (ts *TemplateSet) BasePath() string {
	return ts.basePath
}

// Render executes layout for view with data and writes it with status.
// The page is rendered into a buffer first so a template error never
// produces a half-written response.
func (ts *TemplateSet) Render(w http.ResponseWriter, status int, layout string, view ViewDef, data any) error {
	t, ok := ts.views[view.Template]
	if !ok {
		return fmt.Errorf("template not found: %s", view.Template)
	}

	var buf bytes.Buffer
	err := t.ExecuteTemplate(&buf, layout, ViewData{
		Title:    view.Title,
		BasePath: ts.basePath,
		Data:     data,
	})
	if err != nil {
		return err
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, err = buf.WriteTo(w)
	return err
}

// PageHandler renders view with no data.
func (ts *TemplateSet) PageHandler(layout string, view ViewDef) http.HandlerFunc {
	return ts.StatusHandler(layout, view, http.StatusOK)
}

// StatusHandler renders view with no data and the given status.
func (ts *TemplateSet) StatusHandler(layout string, view ViewDef, status int) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := ts.Render(w, status, layout, view, nil); err != nil {
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		}
	}
}
