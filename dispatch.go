package mailrouter

import (
	"context"
	"log/slog"

	"github.com/lattiq/mailrouter/internal/core"
)

// dispatchState enumerates the send/fallback state machine per recipient.
type dispatchState int

const (
	// stateSelected: attempting the backend the selector chose.
	stateSelected dispatchState = iota

	// stateFallbackPrimary: the selected attempt failed, trying primary.
	stateFallbackPrimary

	// stateFallbackSecondary: still failed, trying secondary.
	stateFallbackSecondary

	// stateExhausted: no more backends to try.
	stateExhausted
)

// dispatcher executes routing decisions against backend instances, applying
// the fallback chain. No backend is attempted more than once per recipient.
type dispatcher struct {
	factory core.BackendFactory
	logger  *slog.Logger
}

func newDispatcher(factory core.BackendFactory, logger *slog.Logger) *dispatcher {
	return &dispatcher{factory: factory, logger: logger}
}

// dispatchOne attempts delivery to a single recipient according to the
// decision, falling back through the primary and secondary backends on
// failure. Exhausting the chain is a soft failure reported in the result,
// never an error.
func (d *dispatcher) dispatchOne(ctx context.Context, env *core.Envelope, rcpt core.Address, decision core.RoutingDecision, cfg core.RoutingConfig) core.DispatchResult {
	switch decision.Target {
	case core.TargetFail:
		return core.DispatchResult{}
	case core.TargetSkip:
		return core.DispatchResult{Sent: 1}
	}

	// Unavailability of the requested backend is resolved before the
	// first delivery attempt.
	backend := d.acquire(decision.Target, cfg)
	if backend == nil {
		return core.DispatchResult{}
	}

	attempted := make(map[string]bool)
	sent, used := d.attempt(ctx, backend, env, rcpt)
	attempted[used] = true

	state := stateSelected
	for sent == 0 && state != stateExhausted {
		switch state {
		case stateSelected:
			state = stateFallbackPrimary
		case stateFallbackPrimary:
			state = stateFallbackSecondary
			if cfg.Primary == "" || attempted[cfg.Primary] {
				continue
			}
			b := d.acquire(cfg.Primary, cfg)
			if b == nil || attempted[b.Identifier()] {
				continue
			}
			sent, used = d.attempt(ctx, b, env, rcpt)
			attempted[used] = true
		case stateFallbackSecondary:
			state = stateExhausted
			if cfg.Secondary == "" || decision.Target == cfg.Secondary || attempted[cfg.Secondary] {
				continue
			}
			b := d.acquire(cfg.Secondary, cfg)
			if b == nil || attempted[b.Identifier()] {
				continue
			}
			sent, used = d.attempt(ctx, b, env, rcpt)
			attempted[used] = true
		}
	}

	return core.DispatchResult{
		Sent:     sent,
		Backend:  used,
		Fallback: used != "" && used != decision.Target,
	}
}

// acquire resolves a backend name to a fresh instance, falling back to the
// primary and then the secondary backend when the requested one is
// unavailable. Returns nil when the chain is exhausted.
func (d *dispatcher) acquire(name string, cfg core.RoutingConfig) core.Backend {
	b, err := d.lookup(name)
	if err == nil {
		return b
	}

	if name != cfg.Primary {
		if b, perr := d.lookup(cfg.Primary); perr == nil {
			return b
		}
	}
	if cfg.Secondary != "" && name != cfg.Secondary {
		if b, serr := d.lookup(cfg.Secondary); serr == nil {
			return b
		}
	}

	d.logger.Warn("no backend available", "requested", name, "error", err)
	return nil
}

func (d *dispatcher) lookup(name string) (core.Backend, error) {
	if name == "" {
		return d.factory.LookupDefault()
	}
	return d.factory.Lookup(name)
}

// attempt copies the envelope onto the backend instance and delivers to the
// single recipient. Delivery errors are logged and reported as 0 sent.
func (d *dispatcher) attempt(ctx context.Context, b core.Backend, env *core.Envelope, rcpt core.Address) (int, string) {
	copyEnvelope(b, env)
	b.SetRecipient(rcpt.Email, rcpt.Name)

	sent, err := b.Deliver(ctx)
	if err != nil {
		d.logger.Warn("delivery failed",
			"backend", b.Identifier(), "recipient", rcpt.Email, "error", err)
		sent = 0
	}
	return sent, b.Identifier()
}

// copyEnvelope applies the envelope to a fresh backend instance: attributes
// verbatim, attachments and parameters re-applied individually so each
// backend keeps its own encapsulation of them. The recipient is set
// separately by the caller.
func copyEnvelope(b core.Backend, env *core.Envelope) {
	b.SetAttribute("from", env.From.Email)
	b.SetAttribute("fromName", env.From.Name)
	b.SetAttribute("replyTo", env.ReplyTo.Email)
	b.SetAttribute("subject", env.Subject)
	b.SetAttribute("body", env.Text)
	b.SetAttribute("bodyHTML", env.HTML)

	for name, values := range env.Headers {
		for _, v := range values {
			b.SetAttribute("header:"+name, v)
		}
	}
	for _, a := range env.Attachments {
		b.Attach(a.Ref, a.Filename)
	}
	for _, p := range env.Params {
		b.AddParameter(p)
	}
}
