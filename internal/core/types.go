package core

import (
	"context"
	"errors"
	"fmt"
	"mime"
	"net/mail"
	"strconv"
)

// Backend is a pluggable delivery transport scoped to one send attempt.
// A fresh instance is obtained from a BackendFactory per recipient (and per
// fallback attempt); the dispatcher copies envelope attributes onto it before
// calling Deliver.
type Backend interface {
	// SetAttribute copies a single envelope attribute onto the backend.
	// Recognized names are "from", "fromName", "replyTo", "subject", "body"
	// and "bodyHTML"; header entries use the "header:<Name>" form. Unknown
	// attributes are ignored.
	SetAttribute(name, value string)

	// Attach adds a file attachment by content reference and filename.
	Attach(ref, filename string)

	// AddParameter adds a backend-specific parameter.
	AddParameter(param string)

	// SetRecipient sets the single recipient for this delivery attempt.
	SetRecipient(address, name string)

	// Deliver attempts delivery and reports how many recipients were
	// handled (0 or 1). A non-nil error always means 0 sent.
	Deliver(ctx context.Context) (int, error)

	// Identifier returns the configured backend name, used to detect
	// whether a fallback actually changed backend.
	Identifier() string
}

// BackendFactory resolves backend names to fresh Backend instances.
type BackendFactory interface {
	// Lookup returns a new instance of the named backend, or an error
	// wrapping ErrBackendUnavailable when the name is not configured.
	Lookup(name string) (Backend, error)

	// LookupDefault returns a new instance of the default backend, used
	// when no backend name is specified.
	LookupDefault() (Backend, error)
}

// Settings represents configuration settings for backends.
type Settings map[string]string

// Get retrieves a configuration value by key.
func (s Settings) Get(key string) string {
	return s[key]
}

// Set sets a configuration value.
func (s Settings) Set(key, value string) {
	s[key] = value
}

// BackendSpec describes one configured backend for the default factory.
type BackendSpec struct {
	// Name is the identifier rules and the primary/secondary settings
	// refer to.
	Name string `yaml:"name"`

	// Type selects the transport implementation ("aws_ses", "sendgrid",
	// "mailgun", "smtp", "resend", "log").
	Type string `yaml:"type"`

	// Settings holds transport-specific configuration.
	Settings Settings `yaml:"settings"`
}

// Reserved pseudo-targets. A rule set may route to these instead of a real
// backend name.
const (
	// TargetFail forces delivery failure for matching recipients.
	TargetFail = "Fail"

	// TargetSkip forces a no-op success for matching recipients.
	TargetSkip = "Skip"
)

// Address represents an email address with optional display name.
type Address struct {
	Name  string `json:"name"`  // Display name (optional)
	Email string `json:"email"` // Email address (required)
}

// String returns the formatted email address.
// If Name is provided, returns "Name <email@domain.com>"
// Otherwise returns just "email@domain.com"
func (a Address) String() string {
	if a.Name != "" {
		return mime.QEncoding.Encode("UTF-8", a.Name) + " <" + a.Email + ">"
	}
	return a.Email
}

// Valid checks if the address has a valid email format.
func (a Address) Valid() bool {
	if a.Email == "" {
		return false
	}
	_, err := mail.ParseAddress(a.String())
	return err == nil
}

// Attachment represents a file attachment referenced by the envelope.
type Attachment struct {
	// Filename is the name of the file as it will appear in the email.
	Filename string

	// Ref is the content reference, typically a local file path.
	Ref string
}

// Envelope is the full message plus routing metadata for one outbound send
// operation. It is read-only to the routing core; only the per-recipient
// recipient field is overridden on the backend copy when dispatching.
type Envelope struct {
	From        Address             `json:"from"`        // Sender address
	ReplyTo     Address             `json:"reply_to"`    // Reply-To address (optional)
	To          []Address           `json:"to"`          // Recipients, in order
	Subject     string              `json:"subject"`     // Message subject
	Text        string              `json:"text"`        // Plain text body
	HTML        string              `json:"html"`        // HTML body
	Headers     map[string][]string `json:"headers"`     // Custom headers, multiple values per name
	Attachments []Attachment        `json:"attachments"` // File attachments, in order
	Params      []string            `json:"params"`      // Backend-specific parameters, in order
}

// Validate checks that the envelope can be routed.
func (e *Envelope) Validate() error {
	if len(e.To) == 0 {
		return &ValidationError{Field: "to", Message: "at least one recipient required"}
	}

	for i, to := range e.To {
		if !to.Valid() {
			return &ValidationError{
				Field:   "to",
				Message: "invalid recipient address at index " + strconv.Itoa(i),
			}
		}
	}

	if e.From.Email != "" && !e.From.Valid() {
		return &ValidationError{Field: "from", Message: "invalid sender address"}
	}

	return nil
}

// RuleSet is the ordered list of rule lines routing to one backend target,
// which may be a real backend name or one of the reserved pseudo-targets.
type RuleSet struct {
	Target string
	Rules  []string
}

// RoutingConfig is the read-only routing snapshot for one send operation.
type RoutingConfig struct {
	// Primary is the backend used when no rule matches, and the first
	// fallback when a selected backend is unavailable or fails.
	Primary string

	// Secondary is the last-resort fallback backend. Never equal to
	// Primary; the configuration layer clears conflicting assignments.
	Secondary string

	// RuleSets are evaluated in order; the first matching rule wins.
	RuleSets []RuleSet
}

// RoutingDecision is the selector's output for one recipient.
type RoutingDecision struct {
	// Target is the chosen backend target name.
	Target string

	// Rule is the text of the rule that matched. Only meaningful when
	// Matched is true; an empty string is a valid rule placeholder in
	// audit output, so Matched carries the distinction.
	Rule string

	// Matched reports whether any rule matched.
	Matched bool
}

// DispatchResult is the dispatcher's outcome for one recipient.
type DispatchResult struct {
	// Sent is 0 or 1.
	Sent int

	// Backend is the identifier of the backend that performed the final
	// delivery attempt. Empty when no backend was invoked (Fail, Skip, or
	// no backend available).
	Backend string

	// Fallback reports whether the backend used differs from the one the
	// selector chose.
	Fallback bool
}

// ErrBackendUnavailable indicates a backend name could not be resolved.
var ErrBackendUnavailable = errors.New("backend unavailable")

// ValidationError represents a validation error with specific field information.
type ValidationError struct {
	// Field is the name of the field that failed validation.
	Field string

	// Message is the validation error message.
	Message string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error in %s: %s", e.Field, e.Message)
}

// Is implements error matching for errors.Is.
func (e *ValidationError) Is(target error) bool {
	_, ok := target.(*ValidationError)
	return ok
}

// BackendError represents an error from a delivery backend.
type BackendError struct {
	// Backend is the name of the backend that generated the error.
	Backend string

	// Code is the backend-specific error code.
	Code string

	// Message is the error message from the backend.
	Message string

	// Cause is the underlying error, if any.
	Cause error
}

// Error implements the error interface.
func (e *BackendError) Error() string {
	return fmt.Sprintf("backend %s error [%s]: %s", e.Backend, e.Code, e.Message)
}

// Unwrap returns the underlying error.
func (e *BackendError) Unwrap() error {
	return e.Cause
}

// Is implements error matching for errors.Is.
func (e *BackendError) Is(target error) bool {
	be, ok := target.(*BackendError)
	if !ok {
		return false
	}
	return e.Backend == be.Backend && e.Code == be.Code
}

// NewValidationError creates a new validation error.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{
		Field:   field,
		Message: message,
	}
}

// NewBackendError creates a new backend error.
func NewBackendError(backend, code, message string) *BackendError {
	return &BackendError{
		Backend: backend,
		Code:    code,
		Message: message,
	}
}

// WrapBackendError creates a backend error wrapping an underlying cause.
func WrapBackendError(backend, code string, cause error) *BackendError {
	return &BackendError{
		Backend: backend,
		Code:    code,
		Message: cause.Error(),
		Cause:   cause,
	}
}
