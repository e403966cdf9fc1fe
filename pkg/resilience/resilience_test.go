package resilience

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errBroker = errors.New("broker unavailable")

func fastRetry(attempts int) RetryConfig {
	return RetryConfig{MaxAttempts: attempts, InitialDelay: time.Millisecond, MaxDelay: 2 * time.Millisecond}
}

func TestRetrySucceedsAfterFailures(t *testing.T) {
	calls := 0
	err := Retry(context.Background(), "publish", fastRetry(3), func() error {
		calls++
		if calls < 3 {
			return errBroker
		}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 3, calls)
}

func TestRetryGivesUp(t *testing.T) {
	calls := 0
	err := Retry(context.Background(), "publish", fastRetry(2), func() error {
		calls++
		return errBroker
	})
	assert.ErrorIs(t, err, errBroker)
	assert.Equal(t, 2, calls)
}

func TestRetryStopsOnPermanent(t *testing.T) {
	calls := 0
	err := Retry(context.Background(), "publish", fastRetry(5), func() error {
		calls++
		return Permanent(errBroker)
	})
	assert.Equal(t, errBroker, err)
	assert.Equal(t, 1, calls)
	assert.NoError(t, Permanent(nil))
}

func TestRetryHonoursContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	cfg := RetryConfig{MaxAttempts: 3, InitialDelay: time.Hour, MaxDelay: time.Hour}
	err := Retry(ctx, "publish", cfg, func() error { return errBroker })
	assert.ErrorIs(t, err, context.Canceled)
}

func TestBackoffGrowsAndCaps(t *testing.T) {
	cfg := RetryConfig{InitialDelay: 10 * time.Millisecond, MaxDelay: 50 * time.Millisecond, Multiplier: 2}.withDefaults()
	assert.Equal(t, 10*time.Millisecond, cfg.Backoff(1))
	assert.Equal(t, 20*time.Millisecond, cfg.Backoff(2))
	assert.Equal(t, 50*time.Millisecond, cfg.Backoff(5))
}

func TestCircuitBreakerLifecycle(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	var states []State
	cb := NewCircuitBreaker("analytics", CircuitBreakerConfig{
		FailureThreshold: 2,
		ResetTimeout:     time.Minute,
		OnStateChange:    func(s State) { states = append(states, s) },
	})
	cb.SetClock(func() time.Time { return now })
	fail := func() error { return errBroker }
	ok := func() error { return nil }

	assert.ErrorIs(t, cb.Execute(fail), errBroker)
	assert.Equal(t, StateClosed, cb.State())
	assert.ErrorIs(t, cb.Execute(fail), errBroker)
	assert.Equal(t, StateOpen, cb.State())

	called := false
	err := cb.Execute(func() error { called = true; return nil })
	assert.ErrorIs(t, err, ErrCircuitOpen)
	assert.False(t, called)

	now = now.Add(time.Minute)
	assert.ErrorIs(t, cb.Execute(fail), errBroker)
	assert.Equal(t, StateOpen, cb.State())

	now = now.Add(2 * time.Minute)
	require.NoError(t, cb.Execute(ok))
	assert.Equal(t, StateClosed, cb.State())

	assert.Equal(t, []State{StateOpen, StateHalfOpen, StateOpen, StateHalfOpen, StateClosed}, states)
}

func TestCircuitBreakerHalfOpenProbeLimit(t *testing.T) {
	now := time.Now()
	cb := NewCircuitBreaker("analytics", CircuitBreakerConfig{FailureThreshold: 1, ResetTimeout: time.Second})
	cb.SetClock(func() time.Time { return now })
	_ = cb.Execute(func() error { return errBroker })

	now = now.Add(time.Second)
	err := cb.Execute(func() error {
		// a second caller while the probe is in flight
		return cb.Execute(func() error { return nil })
	})
	assert.ErrorIs(t, err, ErrCircuitOpen)
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "closed", StateClosed.String())
	assert.Equal(t, "open", StateOpen.String())
	assert.Equal(t, "half-open", StateHalfOpen.String())
	assert.Equal(t, "unknown", State(9).String())
}
