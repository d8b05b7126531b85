package app

import (
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/JaimeStill/remit/internal/submissions"
	"github.com/JaimeStill/remit/pkg/web"
)

type handler struct {
	subs    submissions.System
	views   *web.TemplateSet
	maxSize int64
	logger  *slog.Logger
}

// result is the page model for the index view. A nil result renders the
// bare upload form.
type result struct {
	Warning    string
	Error      string
	Submission *submissions.Submission
}

func (h *handler) process(w http.ResponseWriter, r *http.Request) {
	if r.ContentLength > h.maxSize {
		h.render(w, http.StatusRequestEntityTooLarge, &result{Warning: "File exceeds maximum upload size"})
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, h.maxSize)

	if err := r.ParseMultipartForm(h.maxSize); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			h.render(w, http.StatusRequestEntityTooLarge, &result{Warning: "File exceeds maximum upload size"})
			return
		}
		h.render(w, http.StatusBadRequest, &result{Warning: "Please upload a PDF invoice"})
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		h.render(w, http.StatusBadRequest, &result{Warning: "Please upload a PDF invoice"})
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		h.render(w, http.StatusBadRequest, &result{Warning: "Please upload a PDF invoice"})
		return
	}

	sub, err := h.subs.Process(r.Context(), submissions.ProcessCommand{
		Filename: header.Filename,
		Data:     data,
	})
	if err != nil {
		status := submissions.MapHTTPStatus(err)
		if errors.Is(err, submissions.ErrInvalidFile) {
			h.render(w, status, &result{Warning: "Please upload a PDF invoice"})
			return
		}
		h.logger.Error("process invoice failed", "filename", header.Filename, "error", err)
		h.render(w, status, &result{Error: err.Error()})
		return
	}

	h.render(w, http.StatusOK, &result{Submission: sub})
}

func (h *handler) show(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		h.notFound(w, r)
		return
	}

	sub, err := h.subs.Find(r.Context(), id)
	if err != nil {
		if errors.Is(err, submissions.ErrNotFound) {
			h.notFound(w, r)
			return
		}
		h.logger.Error("load submission failed", "id", id, "error", err)
		h.render(w, http.StatusInternalServerError, &result{Error: err.Error()})
		return
	}

	h.render(w, http.StatusOK, &result{Submission: sub})
}

func (h *handler) notFound(w http.ResponseWriter, r *http.Request) {
	h.views.StatusHandler(layout, notFoundView, http.StatusNotFound)(w, r)
}

func (h *handler) render(w http.ResponseWriter, status int, data *result) {
	if err := h.views.Render(w, status, layout, resultView, data); err != nil {
		h.logger.Error("render failed", "error", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
	}
}
