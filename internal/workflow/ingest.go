package workflow

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/JaimeStill/document-context/pkg/config"
	"github.com/JaimeStill/document-context/pkg/document"
	"github.com/JaimeStill/document-context/pkg/encoding"
	"github.com/JaimeStill/document-context/pkg/image"
	"golang.org/x/sync/errgroup"

	"github.com/JaimeStill/go-agents-orchestration/pkg/state"

	"github.com/JaimeStill/remit/internal/prompts"
	"github.com/JaimeStill/remit/pkg/pdftext"
)

// IngestNode returns a node that reads the PDF text layer. Documents
// without one are transcribed from page images when the vision fallback
// is enabled; otherwise the failure is recorded as an ingestion error.
func IngestNode(rt *Runtime) state.StateNode {
	return state.NewFunctionNode(func(ctx context.Context, s state.State) (state.State, error) {
		in, err := inputFrom(s)
		if err != nil {
			return s, fmt.Errorf("ingest: %w", err)
		}
		r, err := resultFrom(s)
		if err != nil {
			return s, fmt.Errorf("ingest: %w", err)
		}

		text, pages, err := ingest(ctx, rt, in.Data)
		if err != nil {
			if ctx.Err() != nil {
				return s, fmt.Errorf("ingest: %w", ctx.Err())
			}
			r.Errors = append(r.Errors, "PDF Ingestion Error: "+err.Error())
		}
		r.Source.PageCount = pages

		rt.Logger.InfoContext(ctx, "ingest node complete",
			"id", r.ID,
			"filename", r.Source.Filename,
			"page_count", pages,
			"text_length", len(text),
		)

		return s.Set(KeyText, text).Set(KeyResult, r), nil
	})
}

func ingest(ctx context.Context, rt *Runtime, data []byte) (string, int, error) {
	doc, err := rt.PDF.Extract(ctx, data)
	if err == nil {
		return doc.Text, doc.PageCount, nil
	}

	pages, _ := pdftext.PageCount(data)
	if !errors.Is(err, pdftext.ErrNoText) || !rt.Ingest.VisionFallback {
		return "", pages, err
	}

	rt.Logger.InfoContext(ctx, "no text layer, transcribing page images", "page_count", pages)

	text, err := transcribe(ctx, rt, data)
	if err != nil {
		return "", pages, fmt.Errorf("transcription failed: %w", err)
	}
	if text == "" {
		return "", pages, pdftext.ErrNoText
	}
	return text, pages, nil
}

// transcribe renders every page and asks the vision model to read them.
func transcribe(ctx context.Context, rt *Runtime, data []byte) (string, error) {
	images, err := renderPages(ctx, data)
	if err != nil {
		return "", err
	}

	prompt, err := ComposePrompt(ctx, rt.Prompts, prompts.StageTranscribe, "")
	if err != nil {
		return "", err
	}

	content, err := rt.Model.Vision(ctx, prompt, images)
	if err != nil {
		return "", fmt.Errorf("vision call: %w", err)
	}
	return pdftext.Clean(content), nil
}

// renderPages rasterizes each page to a PNG data URI using bounded
// concurrency. The PDF is staged in a temp directory removed on return.
func renderPages(ctx context.Context, data []byte) ([]string, error) {
	tempDir, err := os.MkdirTemp("", "remit-render-*")
	if err != nil {
		return nil, fmt.Errorf("create temp directory: %w", err)
	}
	defer os.RemoveAll(tempDir)

	pdfPath := filepath.Join(tempDir, "source.pdf")
	if err := os.WriteFile(pdfPath, data, 0600); err != nil {
		return nil, fmt.Errorf("write temp pdf: %w", err)
	}

	doc, err := document.OpenPDF(pdfPath)
	if err != nil {
		return nil, fmt.Errorf("open pdf: %w", err)
	}
	defer doc.Close()

	renderer, err := image.NewImageMagickRenderer(config.DefaultImageConfig())
	if err != nil {
		return nil, fmt.Errorf("create renderer: %w", err)
	}

	pages, err := doc.ExtractAllPages()
	if err != nil {
		return nil, fmt.Errorf("extract pages: %w", err)
	}

	images := make([]string, len(pages))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workerCount(len(pages)))

	for i, page := range pages {
		g.Go(func() error {
			if gctx.Err() != nil {
				return gctx.Err()
			}

			png, err := page.ToImage(renderer, nil)
			if err != nil {
				return fmt.Errorf("render page %d: %w", i+1, err)
			}

			uri, err := encoding.EncodeImageDataURI(png, document.PNG)
			if err != nil {
				return fmt.Errorf("encode page %d: %w", i+1, err)
			}
			images[i] = uri
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return images, nil
}

func workerCount(pageCount int) int {
	return max(min(runtime.NumCPU(), pageCount), 1)
}
