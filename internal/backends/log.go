package backends

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/lattiq/mailrouter/internal/core"
)

// LogBackend logs messages instead of sending them. Useful for development
// and as a sink for routed-away traffic.
type LogBackend struct {
	core.Draft
	name   string
	logger *slog.Logger
}

// NewLogBackend creates a new log-only backend.
func NewLogBackend(name string, logger *slog.Logger) *LogBackend {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogBackend{name: name, logger: logger}
}

// Identifier returns the configured backend name.
func (b *LogBackend) Identifier() string {
	return b.name
}

// Deliver logs the message and reports success with a fake message id.
func (b *LogBackend) Deliver(ctx context.Context) (int, error) {
	fakeID := uuid.New().String()
	b.logger.InfoContext(ctx, "email logged (not sent)",
		"backend", b.name,
		"from", b.Sender().String(),
		"to", b.Recipient().String(),
		"subject", b.Subject,
		"text_length", len(b.Text),
		"html_length", len(b.HTML),
		"attachments", len(b.Attachments),
		"fake_message_id", fakeID,
	)
	return 1, nil
}
