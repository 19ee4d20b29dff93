package mailrouter

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// captureSink collects audit lines for assertions.
type captureSink struct {
	lines []string
}

func (s *captureSink) Record(line string) {
	s.lines = append(s.lines, line)
}

func newTestClient(t *testing.T, factory *fakeFactory, sink *captureSink, opts ...Option) *Client {
	t.Helper()
	opts = append([]Option{
		WithBackendFactory(factory),
		WithAuditSink(sink),
		WithLogger(discardLogger()),
	}, opts...)
	c, err := New(DefaultConfig(), opts...)
	require.NoError(t, err)
	return c
}

func TestSendRoutesEachRecipient(t *testing.T) {
	f := newFakeFactory("ses", "bulk")
	sink := &captureSink{}
	c := newTestClient(t, f, sink,
		WithPrimary("ses"),
		WithRules("bulk", `@(yahoo|aol)\.com$`),
	)

	env := &Envelope{
		From:    Address{Email: "noreply@example.com"},
		Subject: "hello",
		To: []Address{
			{Email: "alice@example.com"},
			{Email: "bob@yahoo.com"},
			{Email: "carol@aol.com"},
		},
	}

	total, err := c.Send(context.Background(), env)
	require.NoError(t, err)
	assert.Equal(t, 3, total)
	assert.Equal(t, []string{"ses", "bulk", "bulk"}, f.deliveries)

	require.Len(t, sink.lines, 3)
	assert.Equal(t, "ses sent alice@example.com - no rule matched", sink.lines[0])
	assert.Equal(t, `bulk sent bob@yahoo.com - matched: @(yahoo|aol)\.com$`, sink.lines[1])
	assert.Equal(t, `bulk sent carol@aol.com - matched: @(yahoo|aol)\.com$`, sink.lines[2])
}

func TestSendFailuresDoNotAbortRemainingRecipients(t *testing.T) {
	f := newFakeFactory("ses")
	sink := &captureSink{}
	c := newTestClient(t, f, sink,
		WithPrimary("ses"),
		WithRules(TargetFail, "@blocked.example"),
	)

	env := &Envelope{
		From:    Address{Email: "noreply@example.com"},
		Subject: "hello",
		To: []Address{
			{Email: "eve@blocked.example"},
			{Email: "alice@example.com"},
		},
	}

	total, err := c.Send(context.Background(), env)
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	assert.Equal(t, []string{"ses"}, f.deliveries)

	require.Len(t, sink.lines, 2)
	assert.Equal(t, "Fail failed eve@blocked.example - matched: @blocked.example", sink.lines[0])
	assert.Equal(t, "ses sent alice@example.com - no rule matched", sink.lines[1])
}

func TestSendSkipCountsAsHandled(t *testing.T) {
	f := newFakeFactory("ses")
	sink := &captureSink{}
	c := newTestClient(t, f, sink,
		WithPrimary("ses"),
		WithRules(TargetSkip, "@internal.example"),
	)

	env := &Envelope{
		From:    Address{Email: "noreply@example.com"},
		Subject: "hello",
		To:      []Address{{Email: "dev@internal.example"}},
	}

	total, err := c.Send(context.Background(), env)
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	assert.Empty(t, f.deliveries)
	require.Len(t, sink.lines, 1)
	assert.Equal(t, "Skip sent dev@internal.example - matched: @internal.example", sink.lines[0])
}

func TestSendAuditsFallback(t *testing.T) {
	f := newFakeFactory("bulk", "ses")
	f.failing["bulk"] = true
	sink := &captureSink{}
	c := newTestClient(t, f, sink,
		WithPrimary("ses"),
		WithRules("bulk", "@yahoo.com"),
	)

	env := &Envelope{
		From:    Address{Email: "noreply@example.com"},
		Subject: "hello",
		To:      []Address{{Email: "bob@yahoo.com"}},
	}

	total, err := c.Send(context.Background(), env)
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, sink.lines, 1)
	assert.Equal(t, "ses (fallback from bulk) sent bob@yahoo.com - matched: @yahoo.com", sink.lines[0])
}

func TestSendAuditDisabled(t *testing.T) {
	f := newFakeFactory("ses")
	sink := &captureSink{}
	c := newTestClient(t, f, sink,
		WithPrimary("ses"),
		WithAudit(false),
	)

	env := &Envelope{
		From:    Address{Email: "noreply@example.com"},
		Subject: "hello",
		To:      []Address{{Email: "alice@example.com"}},
	}

	total, err := c.Send(context.Background(), env)
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	assert.Empty(t, sink.lines)
}

func TestSendValidatesEnvelope(t *testing.T) {
	f := newFakeFactory("ses")
	c := newTestClient(t, f, &captureSink{}, WithPrimary("ses"))

	var verr *ValidationError
	_, err := c.Send(context.Background(), &Envelope{})
	assert.ErrorAs(t, err, &verr)
	assert.Empty(t, f.deliveries)
}

func TestSendAfterClose(t *testing.T) {
	f := newFakeFactory("ses")
	c := newTestClient(t, f, &captureSink{}, WithPrimary("ses"))
	require.NoError(t, c.Close())

	env := &Envelope{
		From:    Address{Email: "noreply@example.com"},
		Subject: "hello",
		To:      []Address{{Email: "alice@example.com"}},
	}

	_, err := c.Send(context.Background(), env)
	assert.ErrorIs(t, err, ErrClientClosed)
}

func TestNewResolvesPrimarySecondaryConflict(t *testing.T) {
	f := newFakeFactory("ses")
	c := newTestClient(t, f, &captureSink{},
		WithPrimary("ses"),
		WithSecondary("ses"),
	)

	assert.Equal(t, "ses", c.config.Primary)
	assert.Empty(t, c.config.Secondary)
}

func TestNewRejectsInvalidConfig(t *testing.T) {
	_, err := New(DefaultConfig(),
		WithBackend("dup", "log", nil),
		WithBackend("dup", "log", nil),
	)
	assert.ErrorIs(t, err, ErrInvalidConfiguration)
}
