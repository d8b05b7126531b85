// Package notifications emails approval and rejection decisions.
package notifications

import (
	"context"
	"log/slog"

	"github.com/JaimeStill/remit/pkg/mailer"
)

// System delivers a decision to the configured recipient.
type System interface {
	Notify(ctx context.Context, d Decision) error
}

type notifier struct {
	recipient string
	mailer    mailer.System
	renderer  Renderer
	logger    *slog.Logger
}

// New returns a System sending through m. When cfg.AttachReport is set,
// each email carries a PDF rendering of its body.
func New(cfg *Config, m mailer.System, logger *slog.Logger) System {
	n := &notifier{
		recipient: cfg.Recipient,
		mailer:    m,
		logger:    logger.With("system", "notifications"),
	}
	if cfg.AttachReport {
		n.renderer = NewChromeRenderer(cfg.ChromiumPath, cfg.ReportTimeoutDuration())
	}
	return n
}

// WithRenderer returns a System that attaches reports printed by r.
func WithRenderer(cfg *Config, m mailer.System, r Renderer, logger *slog.Logger) System {
	return &notifier{
		recipient: cfg.Recipient,
		mailer:    m,
		renderer:  r,
		logger:    logger.With("system", "notifications"),
	}
}

func (n *notifier) Notify(ctx context.Context, d Decision) error {
	if n.recipient == "" {
		return mailer.ErrNoRecipient
	}

	body, err := Body(d)
	if err != nil {
		return err
	}

	msg := mailer.Message{
		To:      []string{n.recipient},
		Subject: Subject(d),
		HTML:    body,
	}

	if n.renderer != nil {
		report, err := n.renderer.Render(ctx, body)
		if err != nil {
			n.logger.WarnContext(ctx, "report render failed, sending without attachment", "error", err)
		} else {
			msg.Attachments = append(msg.Attachments, mailer.Attachment{
				Name:        ReportName,
				ContentType: "application/pdf",
				Data:        report,
			})
		}
	}

	return n.mailer.Send(ctx, msg)
}
