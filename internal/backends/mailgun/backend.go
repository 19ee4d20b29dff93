// Package mailgun implements the Mailgun delivery backend.
package mailgun

import (
	"context"
	"os"
	"strings"

	"github.com/mailgun/mailgun-go/v4"

	"github.com/lattiq/mailrouter/internal/core"
)

// Backend sends mail through the Mailgun API.
type Backend struct {
	core.Draft
	name   string
	client mailgun.Mailgun
}

// New creates a new Mailgun backend instance.
func New(name string, settings core.Settings) (core.Backend, error) {
	apiKey := settings.Get("api_key")
	if apiKey == "" {
		return nil, core.NewValidationError("api_key", "Mailgun API key is required")
	}

	domain := settings.Get("domain")
	if domain == "" {
		return nil, core.NewValidationError("domain", "Mailgun domain is required")
	}

	client := mailgun.NewMailgun(domain, apiKey)

	// EU customers run against a different API base.
	if baseURL := settings.Get("base_url"); baseURL != "" {
		client.SetAPIBase(baseURL)
	}

	return &Backend{
		name:   name,
		client: client,
	}, nil
}

// Identifier returns the configured backend name.
func (b *Backend) Identifier() string {
	return b.name
}

// Deliver sends the accumulated message to the single recipient.
func (b *Backend) Deliver(ctx context.Context) (int, error) {
	message := b.client.NewMessage(b.Sender().String(), b.Subject, b.Text, b.Recipient().String())

	if b.HTML != "" {
		message.SetHtml(b.HTML)
	}

	if b.ReplyTo != "" {
		message.SetReplyTo(b.ReplyTo)
	}

	for _, h := range b.Headers {
		message.AddHeader(h.Name, h.Value)
	}

	// Parameters of the form "tag:<value>" become Mailgun tags; anything
	// else is meaningless to this transport and skipped.
	for _, param := range b.Params {
		if tag, ok := strings.CutPrefix(param, "tag:"); ok && tag != "" {
			if err := message.AddTag(tag); err != nil {
				return 0, core.WrapBackendError(b.name, "tag_error", err)
			}
		}
	}

	for _, attachment := range b.Attachments {
		data, err := os.ReadFile(attachment.Ref)
		if err != nil {
			return 0, core.WrapBackendError(b.name, "attachment_read_failed", err)
		}
		message.AddBufferAttachment(attachment.Filename, data)
	}

	if _, _, err := b.client.Send(ctx, message); err != nil {
		return 0, core.WrapBackendError(b.name, "send_failed", err)
	}
	return 1, nil
}
