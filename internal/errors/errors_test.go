package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorMessage(t *testing.T) {
	err := New(ErrorTypeValidation, "bad reference")
	assert.Equal(t, "bad reference", err.Error())

	wrapped := Wrap(fmt.Errorf("disk full"), ErrorTypeStore, "upsert profile")
	assert.Equal(t, "upsert profile: disk full", wrapped.Error())
}

func TestWrapNil(t *testing.T) {
	assert.Nil(t, Wrap(nil, ErrorTypeStore, "noop"))
}

func TestIsMatchesByType(t *testing.T) {
	err := StoreErrorf(fmt.Errorf("locked"), "upsert friendship %d-%d", 1, 2)

	assert.True(t, errors.Is(err, &Error{Type: ErrorTypeStore}))
	assert.False(t, errors.Is(err, &Error{Type: ErrorTypeValidation}))
	assert.True(t, IsStore(err))
	assert.False(t, IsStore(fmt.Errorf("plain")))
}

func TestUnwrapExposesCause(t *testing.T) {
	cause := fmt.Errorf("no such table")
	err := StoreError(cause, "load profiles")
	assert.Equal(t, cause, errors.Unwrap(err))
}
