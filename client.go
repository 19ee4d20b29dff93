package mailrouter

import (
	"context"
	"log/slog"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/lattiq/mailrouter/internal/backends"
	"github.com/lattiq/mailrouter/internal/core"
	"github.com/lattiq/mailrouter/internal/rules"
)

// Client implements the Router interface. It routes each recipient of an
// envelope through the configured rule sets and dispatches via the selected
// backend with automatic fallback. All methods are safe for concurrent use.
type Client struct {
	config     Config
	factory    core.BackendFactory
	audit      AuditSink
	logger     *slog.Logger
	selector   *rules.Selector
	dispatcher *dispatcher
	tracer     trace.Tracer
	mu         sync.RWMutex
	closed     bool
}

// New creates a new mail router with the given configuration.
func New(config Config, opts ...Option) (*Client, error) {
	// Apply functional options
	for _, opt := range opts {
		opt(&config)
	}

	// Validate configuration (also resolves the primary/secondary conflict)
	if err := config.Validate(); err != nil {
		return nil, err
	}

	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}

	factory := config.Factory
	if factory == nil {
		defaultName := config.DefaultBackend
		if defaultName == "" {
			defaultName = config.Primary
		}
		factory = backends.NewRegistry(config.Backends, defaultName, logger)
	}

	audit := config.AuditSink
	if audit == nil {
		audit = NewLogSink(logger)
	}

	return &Client{
		config:     config,
		factory:    factory,
		audit:      audit,
		logger:     logger,
		selector:   rules.NewSelector(rules.NewMatcher(logger)),
		dispatcher: newDispatcher(factory, logger),
		tracer:     otel.Tracer("github.com/lattiq/mailrouter"),
	}, nil
}

// Send routes and sends the envelope one recipient at a time and returns the
// total number of recipients successfully handled, including synthetic Skip
// successes. Per-recipient failures are soft: they are audited and counted
// as 0, and never abort the remaining recipients.
func (c *Client) Send(ctx context.Context, env *Envelope) (int, error) {
	ctx, span := c.tracer.Start(ctx, "mailrouter.Client.Send")
	defer span.End()

	// Check if client is closed
	c.mu.RLock()
	if c.closed {
		c.mu.RUnlock()
		span.RecordError(ErrClientClosed)
		span.SetStatus(codes.Error, ErrClientClosed.Error())
		return 0, ErrClientClosed
	}
	c.mu.RUnlock()

	if err := env.Validate(); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "validation failed")
		return 0, err
	}

	span.SetAttributes(
		attribute.String("mailrouter.from", env.From.Email),
		attribute.String("mailrouter.subject", env.Subject),
		attribute.Int("mailrouter.recipients", len(env.To)),
		attribute.String("mailrouter.primary", c.config.Primary),
	)

	snapshot := c.config.routing()
	total := 0

	for _, rcpt := range env.To {
		decision := c.selector.Select(env, rcpt.Email, snapshot)
		result := c.dispatcher.dispatchOne(ctx, env, rcpt, decision, snapshot)
		total += result.Sent

		if c.config.AuditEnabled && c.audit != nil {
			c.audit.Record(formatAuditLine(decision, result, rcpt.Email))
		}
	}

	span.SetAttributes(attribute.Int("mailrouter.sent", total))
	span.SetStatus(codes.Ok, "send completed")

	return total, nil
}

// Close closes the router and releases any resources.
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	return nil
}
