package core

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAddressString(t *testing.T) {
	assert.Equal(t, "alice@example.com", Address{Email: "alice@example.com"}.String())
	assert.Equal(t, "Alice <alice@example.com>",
		Address{Name: "Alice", Email: "alice@example.com"}.String())
}

func TestAddressValid(t *testing.T) {
	assert.True(t, Address{Email: "alice@example.com"}.Valid())
	assert.True(t, Address{Name: "Alice", Email: "alice@example.com"}.Valid())
	assert.False(t, Address{}.Valid())
	assert.False(t, Address{Email: "not-an-address"}.Valid())
}

func TestEnvelopeValidate(t *testing.T) {
	env := &Envelope{
		From:    Address{Email: "noreply@example.com"},
		To:      []Address{{Email: "alice@example.com"}},
		Subject: "hi",
	}
	assert.NoError(t, env.Validate())

	var verr *ValidationError

	err := (&Envelope{}).Validate()
	assert.ErrorAs(t, err, &verr)
	assert.Equal(t, "to", verr.Field)

	err = (&Envelope{To: []Address{{Email: "bad"}}}).Validate()
	assert.ErrorAs(t, err, &verr)
	assert.Equal(t, "to", verr.Field)

	err = (&Envelope{
		From: Address{Email: "bad"},
		To:   []Address{{Email: "alice@example.com"}},
	}).Validate()
	assert.ErrorAs(t, err, &verr)
	assert.Equal(t, "from", verr.Field)
}

func TestBackendErrorMatching(t *testing.T) {
	cause := errors.New("connection refused")
	err := WrapBackendError("smtp-local", "send_failed", cause)

	assert.ErrorIs(t, err, cause)
	assert.ErrorIs(t, err, &BackendError{Backend: "smtp-local", Code: "send_failed"})
	assert.NotErrorIs(t, err, &BackendError{Backend: "other", Code: "send_failed"})
	assert.Contains(t, err.Error(), "smtp-local")
	assert.Contains(t, err.Error(), "connection refused")
}
