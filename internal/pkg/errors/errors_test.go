package errors

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWithMessage_DoesNotMutateOriginal(t *testing.T) {
	custom := ErrBadRequest.WithMessage("Invalid request body")

	assert.Equal(t, "Invalid request body", custom.Message)
	assert.Equal(t, http.StatusBadRequest, custom.StatusCode)
	assert.Equal(t, "Invalid request", ErrBadRequest.Message)
}

func TestAsAPIError(t *testing.T) {
	t.Run("passes through API errors, wrapped or not", func(t *testing.T) {
		assert.Equal(t, ErrNotFound, AsAPIError(ErrNotFound))

		wrapped := fmt.Errorf("handler: %w", ErrNotFound)
		assert.Equal(t, ErrNotFound, AsAPIError(wrapped))
	})

	t.Run("masks unknown errors as internal", func(t *testing.T) {
		got := AsAPIError(assert.AnError)
		assert.Equal(t, ErrInternal, got)
	})
}

func TestNewValidationError(t *testing.T) {
	err := NewValidationError("nickname", "nickname is required")

	assert.Equal(t, http.StatusBadRequest, err.StatusCode)
	assert.Equal(t, "validation_error", err.Code)
	assert.Contains(t, err.Message, "nickname is required")
}
