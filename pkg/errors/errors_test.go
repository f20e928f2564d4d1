package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppError(t *testing.T) {
	t.Run("renders the type and message", func(t *testing.T) {
		err := NewConflictError("slot already reserved")
		assert.Equal(t, "CONFLICT: slot already reserved", err.Error())
	})

	t.Run("renders the wrapped cause", func(t *testing.T) {
		cause := errors.New("connection refused")
		err := NewInternalError("failed to create reservation", cause)
		assert.Contains(t, err.Error(), "connection refused")
		assert.Equal(t, cause, errors.Unwrap(err))
	})
}

func TestTypePredicates(t *testing.T) {
	t.Run("match their own type only", func(t *testing.T) {
		assert.True(t, IsConflict(NewConflictError("taken")))
		assert.False(t, IsConflict(NewValidationError("bad input")))

		assert.True(t, IsNotFound(NewNotFoundError("missing")))
		assert.True(t, IsValidation(NewValidationError("bad input")))
	})

	t.Run("see through wrapping", func(t *testing.T) {
		wrapped := fmt.Errorf("booking failed: %w", NewConflictError("taken"))
		assert.True(t, IsConflict(wrapped))
	})

	t.Run("reject non app errors", func(t *testing.T) {
		assert.False(t, IsConflict(errors.New("plain error")))
		assert.Equal(t, ErrorTypeInternal, TypeOf(errors.New("plain error")))
	})
}

func TestTypeOf(t *testing.T) {
	assert.Equal(t, ErrorTypeConflict, TypeOf(NewConflictError("taken")))
	assert.Equal(t, ErrorTypeExternal, TypeOf(NewExternalError("upstream", nil)))
}
