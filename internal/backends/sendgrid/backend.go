// Package sendgrid implements the SendGrid delivery backend.
package sendgrid

import (
	"context"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"

	"github.com/lattiq/mailrouter/internal/core"
)

// Backend sends mail through the SendGrid API.
type Backend struct {
	core.Draft
	name   string
	client *sendgrid.Client
}

// New creates a new SendGrid backend instance.
func New(name string, settings core.Settings) (core.Backend, error) {
	apiKey := settings.Get("api_key")
	if apiKey == "" {
		return nil, core.NewValidationError("api_key", "SendGrid API key is required")
	}

	return &Backend{
		name:   name,
		client: sendgrid.NewSendClient(apiKey),
	}, nil
}

// Identifier returns the configured backend name.
func (b *Backend) Identifier() string {
	return b.name
}

// Deliver sends the accumulated message to the single recipient.
func (b *Backend) Deliver(ctx context.Context) (int, error) {
	from := mail.NewEmail(b.FromName, b.From)
	to := mail.NewEmail(b.ToName, b.To)
	message := mail.NewSingleEmail(from, b.Subject, to, b.Text, b.HTML)

	if b.ReplyTo != "" {
		message.SetReplyTo(mail.NewEmail("", b.ReplyTo))
	}

	if len(b.Headers) > 0 {
		if message.Headers == nil {
			message.Headers = make(map[string]string)
		}
		for _, h := range b.Headers {
			message.Headers[h.Name] = h.Value
		}
	}

	response, err := b.client.SendWithContext(ctx, message)
	if err != nil {
		return 0, core.WrapBackendError(b.name, "send_error", err)
	}
	if response.StatusCode >= 400 {
		return 0, core.NewBackendError(b.name, "api_error", response.Body)
	}
	return 1, nil
}
