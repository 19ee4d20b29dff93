package mailrouter

import (
	"context"

	"github.com/lattiq/mailrouter/internal/core"
)

// Public interfaces for the mail router library
type (
	// Router defines the core routing and sending interface.
	// All methods are safe for concurrent use.
	Router interface {
		// Send routes and sends the envelope, one recipient at a time,
		// and returns the number of recipients successfully handled.
		// A zero count with a nil error means every recipient failed
		// softly; per-recipient failures never abort the loop.
		Send(ctx context.Context, env *Envelope) (int, error)

		// TestRules runs candidate inputs through the configured rules
		// without dispatching. Each input is either an
		// "attribute=value" directive applied to a scratch envelope,
		// or a recipient address producing one result entry.
		TestRules(ctx context.Context, inputs []string) []RuleTestResult

		// Close closes the router and releases any resources.
		// After calling Close, the router should not be used.
		Close() error
	}

	// AuditSink receives one formatted audit line per dispatched
	// recipient. The router formats; the sink only persists or forwards.
	AuditSink interface {
		Record(line string)
	}
)

// Type aliases to re-export core types for the public API.
// This allows users to access types like mailrouter.Envelope instead of
// core.Envelope, maintaining a clean public interface while keeping
// implementation details internal.
type (
	Envelope        = core.Envelope
	Address         = core.Address
	Attachment      = core.Attachment
	Backend         = core.Backend
	BackendFactory  = core.BackendFactory
	BackendSpec     = core.BackendSpec
	Settings        = core.Settings
	RoutingDecision = core.RoutingDecision
	DispatchResult  = core.DispatchResult
	ValidationError = core.ValidationError
	BackendError    = core.BackendError
)

// Reserved pseudo-targets for rule sets.
const (
	// TargetFail forces delivery failure and records an error.
	TargetFail = core.TargetFail

	// TargetSkip skips delivery but pretends success.
	TargetSkip = core.TargetSkip
)

// Error constructor functions
var (
	NewValidationError = core.NewValidationError
	NewBackendError    = core.NewBackendError
	WrapBackendError   = core.WrapBackendError
)
