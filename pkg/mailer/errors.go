package mailer

import "errors"

var (
	ErrNotConfigured = errors.New("mail not configured")
	ErrNoRecipient   = errors.New("no recipient")
	ErrSendFailed    = errors.New("failed to send email")
)
