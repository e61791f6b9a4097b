package engine

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestError_Is(t *testing.T) {
	tests := []struct {
		code   ErrorCode
		target error
		want   bool
	}{
		{ErrorInvalidIndex, ErrInvalidIndex, true},
		{ErrorInvalidCall, ErrNotExecuted, true},
		{ErrorInvalidCall, ErrInvalidIndex, false},
		{ErrorIPC, ErrPatternRejected, false},
		{ErrorInvalidRequest, ErrUnavailable, false},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("%s/%v", tt.code, tt.target), func(t *testing.T) {
			err := fmt.Errorf("wrapped: %w", &Error{Op: "path", Code: tt.code})
			assert.Equal(t, tt.want, errors.Is(err, tt.target))
		})
	}
}

func TestError_Message(t *testing.T) {
	assert.Equal(t, "engine query: search client is not running", (&Error{Op: "query", Code: ErrorIPC}).Error())
	assert.Equal(t, "error code 42", ErrorCode(42).String())
}
