package mail

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/resend/resend-go/v2"
)

// Message is a rendered mail ready for delivery
type Message struct {
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	HTML    string   `json:"html"`
	ReplyTo string   `json:"reply_to,omitempty"`
}

// Sender delivers rendered messages
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// ResendSender delivers mail through the Resend API
type ResendSender struct {
	client *resend.Client
	from   string
}

// NewResendSender creates a sender for the given API key and from address
func NewResendSender(apiKey, from string) *ResendSender {
	return &ResendSender{
		client: resend.NewClient(apiKey),
		from:   from,
	}
}

// Send sends the message through Resend
func (s *ResendSender) Send(ctx context.Context, msg Message) error {
	params := &resend.SendEmailRequest{
		From:    s.from,
		To:      msg.To,
		Subject: msg.Subject,
		Html:    msg.HTML,
		ReplyTo: msg.ReplyTo,
	}

	if _, err := s.client.Emails.SendWithContext(ctx, params); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}

// LogSender writes recipient and subject to the log instead of sending the
// message. Used in development when no API key is configured. Bodies carry
// passwords and codes, so they are only logged at debug level.
type LogSender struct {
	// Logger defaults to slog.Default()
	Logger *slog.Logger
}

// Send logs the message
func (s LogSender) Send(ctx context.Context, msg Message) error {
	logger := s.Logger
	if logger == nil {
		logger = slog.Default()
	}

	logger.InfoContext(ctx, "mail not sent, no api key configured",
		slog.Any("to", msg.To),
		slog.String("subject", msg.Subject),
	)
	logger.DebugContext(ctx, "unsent mail body",
		slog.String("subject", msg.Subject),
		slog.String("html", msg.HTML),
	)
	return nil
}
