package telguarder

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorKinds(t *testing.T) {
	tests := []struct {
		name      string
		err       *Error
		kind      ErrorKind
		retryable bool
	}{
		{
			name:      "invalid input",
			err:       NewInvalidInputError("bad number"),
			kind:      KindInvalidInput,
			retryable: false,
		},
		{
			name:      "network timeout",
			err:       NewNetworkError(CodeTimeout, "timed out"),
			kind:      KindNetwork,
			retryable: true,
		},
		{
			name:      "remote client error",
			err:       NewRemoteError(CodeClientError, "rejected", 400),
			kind:      KindRemote,
			retryable: false,
		},
		{
			name:      "remote rate limited",
			err:       NewRateLimitError("slow down", 429, time.Second),
			kind:      KindRemote,
			retryable: true,
		},
		{
			name:      "decode",
			err:       NewDecodeError("bad payload"),
			kind:      KindDecode,
			retryable: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.kind, KindOf(tt.err))
			assert.Equal(t, tt.retryable, IsRetryable(tt.err))
		})
	}
}

func TestError_Unwrap(t *testing.T) {
	cause := errors.New("socket closed")
	err := NewNetworkError(CodeIOFailure, "request failed").WithCause(cause)

	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "IO_FAILURE")
	assert.Contains(t, err.Error(), "socket closed")
}

func TestAsError_ThroughWrapping(t *testing.T) {
	inner := NewRateLimitError("slow down", 429, 2*time.Second)
	wrapped := fmt.Errorf("lookup: %w", inner)

	te, ok := AsError(wrapped)
	require.True(t, ok)
	assert.Equal(t, CodeRateLimited, te.Code)
	assert.Equal(t, 2*time.Second, te.RetryAfter)

	assert.True(t, IsRateLimited(wrapped))
	assert.True(t, IsRemoteError(wrapped))
	assert.False(t, IsNetworkError(wrapped))
}

func TestKindPredicates_NonClientErrors(t *testing.T) {
	plain := errors.New("some other failure")

	assert.Equal(t, ErrorKind(""), KindOf(plain))
	assert.False(t, IsRetryable(plain))
	assert.False(t, IsUnauthorized(plain))
	assert.False(t, IsNotFound(plain))
}

func TestRemoteErrorSubKinds(t *testing.T) {
	unauthorized := NewRemoteError(CodeUnauthorized, "bad key", 401)
	assert.True(t, IsUnauthorized(unauthorized))
	assert.False(t, IsNotFound(unauthorized))

	notFound := NewRemoteError(CodeNotFound, "nothing", 404)
	assert.True(t, IsNotFound(notFound))
	assert.False(t, IsRateLimited(notFound))
}
