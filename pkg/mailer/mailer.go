// Package mailer sends HTML email with attachments over SMTP.
package mailer

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"

	"github.com/wneessen/go-mail"
)

// Attachment is a file attached to a Message.
type Attachment struct {
	Name        string
	ContentType string
	Data        []byte
}

// Message is one HTML email.
type Message struct {
	To          []string
	Subject     string
	HTML        string
	Attachments []Attachment
}

// System sends messages.
type System interface {
	Send(ctx context.Context, msg Message) error
	// Configured reports whether credentials are present.
	Configured() bool
}

type smtpMailer struct {
	cfg    Config
	logger *slog.Logger
}

// New returns an SMTP-backed System. Credentials are checked on Send.
func New(cfg *Config, logger *slog.Logger) System {
	return &smtpMailer{
		cfg:    *cfg,
		logger: logger.With("system", "mailer", "host", cfg.Host),
	}
}

func (m *smtpMailer) Configured() bool {
	return m.cfg.Check() == nil
}

func (m *smtpMailer) Send(ctx context.Context, msg Message) error {
	if err := m.cfg.Check(); err != nil {
		return err
	}

	out, err := Build(m.cfg.Sender(), msg)
	if err != nil {
		return err
	}

	client, err := mail.NewClient(m.cfg.Host, m.options()...)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrSendFailed, err)
	}

	if err := client.DialAndSendWithContext(ctx, out); err != nil {
		return fmt.Errorf("%w: %w", ErrSendFailed, err)
	}

	m.logger.InfoContext(ctx, "email sent", "to", msg.To, "subject", msg.Subject, "attachments", len(msg.Attachments))
	return nil
}

func (m *smtpMailer) options() []mail.Option {
	opts := []mail.Option{
		mail.WithPort(m.cfg.Port),
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(m.cfg.Username),
		mail.WithPassword(m.cfg.Password),
		mail.WithTimeout(m.cfg.TimeoutDuration()),
	}

	switch m.cfg.TLS {
	case TLSImplicit:
		opts = append(opts, mail.WithSSL())
	case TLSStart:
		opts = append(opts, mail.WithTLSPolicy(mail.TLSMandatory))
	case TLSNone:
		opts = append(opts, mail.WithTLSPolicy(mail.NoTLS))
	}
	return opts
}

// Build assembles msg into a go-mail message from sender.
func Build(sender string, msg Message) (*mail.Msg, error) {
	if len(msg.To) == 0 {
		return nil, ErrNoRecipient
	}

	out := mail.NewMsg()
	if err := out.From(sender); err != nil {
		return nil, fmt.Errorf("%w: from: %w", ErrSendFailed, err)
	}
	if err := out.To(msg.To...); err != nil {
		return nil, fmt.Errorf("%w: to: %w", ErrSendFailed, err)
	}
	out.Subject(msg.Subject)
	out.SetDate()
	out.SetMessageID()
	out.SetBodyString(mail.TypeTextHTML, msg.HTML)

	for _, a := range msg.Attachments {
		opts := []mail.FileOption{}
		if a.ContentType != "" {
			opts = append(opts, mail.WithFileContentType(mail.ContentType(a.ContentType)))
		}
		if err := out.AttachReader(a.Name, bytes.NewReader(a.Data), opts...); err != nil {
			return nil, fmt.Errorf("%w: attach %s: %w", ErrSendFailed, a.Name, err)
		}
	}

	return out, nil
}
