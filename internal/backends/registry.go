// Package backends provides the default BackendFactory implementation and
// the built-in delivery backends.
package backends

import (
	"fmt"
	"log/slog"

	"github.com/lattiq/mailrouter/internal/backends/mailgun"
	"github.com/lattiq/mailrouter/internal/backends/resend"
	"github.com/lattiq/mailrouter/internal/backends/sendgrid"
	"github.com/lattiq/mailrouter/internal/backends/ses"
	"github.com/lattiq/mailrouter/internal/backends/smtp"
	"github.com/lattiq/mailrouter/internal/core"
)

// Supported backend type identifiers.
const (
	TypeAWSSES   = "aws_ses"
	TypeSendGrid = "sendgrid"
	TypeMailgun  = "mailgun"
	TypeSMTP     = "smtp"
	TypeResend   = "resend"
	TypeLog      = "log"
)

// Registry is the default core.BackendFactory. It maps configured backend
// names to their specs and constructs a fresh instance on every lookup, so
// each send attempt gets its own accumulate-then-deliver state.
type Registry struct {
	specs       map[string]core.BackendSpec
	defaultName string
	logger      *slog.Logger
}

// NewRegistry creates a registry over the given specs. defaultName selects
// the backend returned by LookupDefault; when empty, the first spec is the
// default.
func NewRegistry(specs []core.BackendSpec, defaultName string, logger *slog.Logger) *Registry {
	if logger == nil {
		logger = slog.Default()
	}
	byName := make(map[string]core.BackendSpec, len(specs))
	for _, spec := range specs {
		byName[spec.Name] = spec
	}
	if defaultName == "" && len(specs) > 0 {
		defaultName = specs[0].Name
	}
	return &Registry{
		specs:       byName,
		defaultName: defaultName,
		logger:      logger,
	}
}

// Lookup returns a new instance of the named backend.
func (r *Registry) Lookup(name string) (core.Backend, error) {
	spec, ok := r.specs[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q is not configured", core.ErrBackendUnavailable, name)
	}
	return r.build(spec)
}

// LookupDefault returns a new instance of the default backend.
func (r *Registry) LookupDefault() (core.Backend, error) {
	if r.defaultName == "" {
		return nil, fmt.Errorf("%w: no default backend configured", core.ErrBackendUnavailable)
	}
	return r.Lookup(r.defaultName)
}

func (r *Registry) build(spec core.BackendSpec) (core.Backend, error) {
	switch spec.Type {
	case TypeAWSSES:
		return ses.New(spec.Name, spec.Settings)
	case TypeSendGrid:
		return sendgrid.New(spec.Name, spec.Settings)
	case TypeMailgun:
		return mailgun.New(spec.Name, spec.Settings)
	case TypeSMTP:
		return smtp.New(spec.Name, spec.Settings)
	case TypeResend:
		return resend.New(spec.Name, spec.Settings)
	case TypeLog:
		return NewLogBackend(spec.Name, r.logger), nil
	default:
		return nil, fmt.Errorf("%w: unsupported backend type %q", core.ErrBackendUnavailable, spec.Type)
	}
}
