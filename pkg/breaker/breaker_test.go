package breaker

import (
	"errors"
	"testing"
	"time"

	"github.com/sony/gobreaker/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBreaker_TripsAfterThreshold(t *testing.T) {
	t.Parallel()

	b := New(Config{Name: "t", MaxRequests: 1, Interval: time.Minute, Timeout: time.Hour, FailureThreshold: 2}, nil)
	boom := errors.New("boom")

	require.ErrorIs(t, b.Do(func() error { return boom }), boom)
	require.ErrorIs(t, b.Do(func() error { return boom }), boom)
	assert.Equal(t, gobreaker.StateOpen, b.State())

	called := false
	err := b.Do(func() error { called = true; return nil })
	assert.ErrorIs(t, err, gobreaker.ErrOpenState)
	assert.False(t, called)
}

func TestBreaker_PassesThroughSuccess(t *testing.T) {
	t.Parallel()

	b := New(DefaultConfig("ok"), nil)
	require.NoError(t, b.Do(func() error { return nil }))
	assert.Equal(t, gobreaker.StateClosed, b.State())
}
