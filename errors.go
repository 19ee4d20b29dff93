package mailrouter

import (
	"errors"

	"github.com/lattiq/mailrouter/internal/core"
)

// Predefined sentinel errors for common cases.
var (
	// ErrBackendUnavailable indicates a backend name could not be resolved.
	ErrBackendUnavailable = core.ErrBackendUnavailable

	// ErrInvalidConfiguration indicates invalid configuration.
	ErrInvalidConfiguration = errors.New("invalid configuration")

	// ErrClientClosed indicates the router has been closed.
	ErrClientClosed = errors.New("router closed")
)
