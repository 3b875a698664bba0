package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWrappedErrorMatchesSentinel(t *testing.T) {
	cause := errors.New("dial tcp: connection refused")
	err := fmt.Errorf("load account: %w", ErrStoreUnavailable.Wrap(cause))

	assert.ErrorIs(t, err, ErrStoreUnavailable)
	assert.ErrorIs(t, err, cause)
	assert.NotErrorIs(t, err, ErrAccountGone)

	de, ok := As(err)
	require.True(t, ok)
	assert.Equal(t, "store_unavailable", de.Code)
	assert.True(t, de.Retryable())
}

func TestOnlyStoreUnavailableIsRetryable(t *testing.T) {
	for _, e := range []*Error{ErrMissingToken, ErrInvalidToken, ErrMalformedSubject, ErrAccountGone} {
		assert.False(t, e.Retryable(), e.Code)
	}
}

func TestWrapDoesNotMutateSentinel(t *testing.T) {
	_ = ErrExchangeFailed.Wrap(errors.New("boom"))
	assert.Nil(t, ErrExchangeFailed.Unwrap())
	assert.Equal(t, "failed to exchange authorization code", ErrExchangeFailed.Error())
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "conflict", ErrDuplicatePending.Kind.String())
	assert.Equal(t, "upstream_failure", ErrProfileFetchFailed.Kind.String())
}
