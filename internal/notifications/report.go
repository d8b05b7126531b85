package notifications

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
)

// ReportName is the file name of the attached decision report.
const ReportName = "invoice-report.pdf"

// Renderer prints an HTML document to PDF.
type Renderer interface {
	Render(ctx context.Context, html string) ([]byte, error)
}

type chromeRenderer struct {
	execPath string
	timeout  time.Duration
}

// NewChromeRenderer returns a Renderer backed by headless Chromium. An
// empty execPath uses the browser found on PATH.
func NewChromeRenderer(execPath string, timeout time.Duration) Renderer {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &chromeRenderer{execPath: execPath, timeout: timeout}
}

func (r *chromeRenderer) Render(ctx context.Context, html string) ([]byte, error) {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
	)
	if r.execPath != "" {
		opts = append(opts, chromedp.ExecPath(r.execPath))
	}

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, opts...)
	defer cancelAlloc()

	runCtx, cancelRun := chromedp.NewContext(allocCtx)
	defer cancelRun()

	runCtx, cancelTimeout := context.WithTimeout(runCtx, r.timeout)
	defer cancelTimeout()

	var out []byte
	err := chromedp.Run(runCtx,
		chromedp.Navigate("data:text/html,"+url.PathEscape(html)),
		chromedp.ActionFunc(func(ctx context.Context) error {
			buf, _, err := page.PrintToPDF().WithPrintBackground(true).Do(ctx)
			if err != nil {
				return err
			}
			out = buf
			return nil
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("print report: %w", err)
	}
	return out, nil
}
