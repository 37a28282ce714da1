package apperrors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindOf(t *testing.T) {
	err := NotFound("purchase order with id %d not found", 42)
	assert.Equal(t, KindNotFound, KindOf(err))
	assert.Equal(t, "purchase order with id 42 not found", err.Error())

	wrapped := fmt.Errorf("loading order: %w", err)
	assert.Equal(t, KindNotFound, KindOf(wrapped))
	assert.True(t, IsKind(wrapped, KindNotFound))
	assert.False(t, IsKind(wrapped, KindValidation))
}

func TestKindOfPlainError(t *testing.T) {
	assert.Equal(t, KindInternal, KindOf(errors.New("boom")))
}

func TestInternalWrapsCause(t *testing.T) {
	cause := errors.New("connection reset")
	err := Internal(cause, "failed to save transaction")
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "failed to save transaction: connection reset", err.Error())
}

func TestKindStrings(t *testing.T) {
	assert.Equal(t, "not_found", KindNotFound.String())
	assert.Equal(t, "invalid_transition", KindInvalidTransition.String())
	assert.Equal(t, "internal", KindInternal.String())
}
