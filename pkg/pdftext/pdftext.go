// Package pdftext extracts plain text from PDF documents.
//
// Page structure is validated with pdfcpu before the text layer is read
// with ledongthuc/pdf, so malformed files fail fast with ErrCorrupt instead
// of surfacing parser internals.
package pdftext

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/pdfcpu/pdfcpu/pkg/api"
)

// Document is the text layer of a PDF.
type Document struct {
	Text      string `json:"text"`
	PageCount int    `json:"page_count"`
	SizeBytes int64  `json:"size_bytes"`
}

// Extractor reads the text layer of PDF bytes.
type Extractor interface {
	Extract(ctx context.Context, data []byte) (*Document, error)
}

// Config bounds extraction. MaxPages of 0 means unlimited.
type Config struct {
	MaxPages int `toml:"max_pages"`
}

type extractor struct {
	maxPages int
}

// New returns an Extractor for cfg.
func New(cfg Config) Extractor {
	return &extractor{maxPages: cfg.MaxPages}
}

func (e *extractor) Extract(ctx context.Context, data []byte) (*Document, error) {
	pages, err := PageCount(data)
	if err != nil {
		return nil, err
	}
	if e.maxPages > 0 && pages > e.maxPages {
		return nil, fmt.Errorf("%w: %d pages, limit %d", ErrTooManyPages, pages, e.maxPages)
	}

	text, err := readText(ctx, data)
	if err != nil {
		return nil, err
	}

	text = Clean(text)
	if text == "" {
		return nil, ErrNoText
	}

	return &Document{
		Text:      text,
		PageCount: pages,
		SizeBytes: int64(len(data)),
	}, nil
}

// PageCount validates data as a PDF and returns its page count.
func PageCount(data []byte) (int, error) {
	if len(data) == 0 {
		return 0, fmt.Errorf("%w: empty document", ErrCorrupt)
	}

	pages, err := api.PageCount(bytes.NewReader(data), nil)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrCorrupt, err)
	}
	if pages == 0 {
		return 0, ErrNoPages
	}
	return pages, nil
}

// ReadFile reads the PDF at path. Paths without a .pdf extension fail
// with ErrNotPDF and missing files with ErrNotFound.
func ReadFile(path string) ([]byte, error) {
	if !strings.EqualFold(filepath.Ext(path), ".pdf") {
		return nil, fmt.Errorf("%w: %s", ErrNotPDF, filepath.Base(path))
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return data, nil
}

// readText walks every page of the text layer. The parser panics on some
// malformed content streams; those panics become ErrCorrupt.
func readText(ctx context.Context, data []byte) (text string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", ErrCorrupt, r)
		}
	}()

	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrCorrupt, err)
	}

	var pages []string
	for i := 1; i <= r.NumPage(); i++ {
		if err := ctx.Err(); err != nil {
			return "", err
		}

		p := r.Page(i)
		if p.V.IsNull() {
			continue
		}

		content, err := p.GetPlainText(nil)
		if err != nil {
			return "", fmt.Errorf("%w: page %d: %w", ErrCorrupt, i, err)
		}
		if content = strings.TrimSpace(content); content != "" {
			pages = append(pages, content)
		}
	}

	return strings.Join(pages, "\n\n"), nil
}

var (
	spaceRun   = regexp.MustCompile(` +`)
	newlineRun = regexp.MustCompile(`\n{3,}`)
)

// Clean collapses runs of spaces, limits blank lines to one, and trims.
func Clean(text string) string {
	text = spaceRun.ReplaceAllString(text, " ")
	text = newlineRun.ReplaceAllString(text, "\n\n")
	return strings.TrimSpace(text)
}
