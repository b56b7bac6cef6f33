package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCodeOf(t *testing.T) {
	sentinel := Conflict("session already open")

	tests := []struct {
		name    string
		err     error
		code    string
		message string
	}{
		{"direct", sentinel, ErrCodeConflict, "session already open"},
		{"wrapped", fmt.Errorf("open session: %w", sentinel), ErrCodeConflict, "session already open"},
		{"not found", NotFound("wallet"), ErrCodeNotFound, "wallet not found"},
		{"plain error", errors.New("boom"), ErrCodeInternal, "internal server error"},
		{"internal keeps cause hidden", Internal("failed to save", errors.New("disk full")), ErrCodeInternal, "failed to save"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.code, CodeOf(tt.err))
			assert.Equal(t, tt.message, MessageOf(tt.err))
		})
	}
}

func TestAppError_Unwrap(t *testing.T) {
	cause := errors.New("unique violation")
	err := Wrap(cause, ErrCodeConflict, "duplicate")

	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "duplicate: unique violation", err.Error())
	assert.True(t, IsAppError(fmt.Errorf("ctx: %w", err)))
	assert.False(t, IsAppError(cause))
}
