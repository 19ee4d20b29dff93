// Package resend implements the Resend delivery backend.
package resend

import (
	"context"

	"github.com/resend/resend-go/v2"

	"github.com/lattiq/mailrouter/internal/core"
)

// Backend sends mail through the Resend API.
type Backend struct {
	core.Draft
	name   string
	client *resend.Client
}

// New creates a new Resend backend instance.
func New(name string, settings core.Settings) (core.Backend, error) {
	apiKey := settings.Get("api_key")
	if apiKey == "" {
		return nil, core.NewValidationError("api_key", "Resend API key is required")
	}

	return &Backend{
		name:   name,
		client: resend.NewClient(apiKey),
	}, nil
}

// Identifier returns the configured backend name.
func (b *Backend) Identifier() string {
	return b.name
}

// Deliver sends the accumulated message to the single recipient.
func (b *Backend) Deliver(ctx context.Context) (int, error) {
	params := &resend.SendEmailRequest{
		From:    b.Sender().String(),
		To:      []string{b.Recipient().String()},
		Subject: b.Subject,
		Html:    b.HTML,
	}
	if b.Text != "" {
		params.Text = b.Text
	}
	if b.ReplyTo != "" {
		params.ReplyTo = b.ReplyTo
	}
	if len(b.Headers) > 0 {
		params.Headers = make(map[string]string, len(b.Headers))
		for _, h := range b.Headers {
			params.Headers[h.Name] = h.Value
		}
	}

	if _, err := b.client.Emails.SendWithContext(ctx, params); err != nil {
		return 0, core.WrapBackendError(b.name, "send_failed", err)
	}
	return 1, nil
}
