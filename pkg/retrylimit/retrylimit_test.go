package retrylimit

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type statusErr struct {
	code  int
	after time.Duration
}

func (e *statusErr) Error() string             { return http.StatusText(e.code) }
func (e *statusErr) StatusCode() int           { return e.code }
func (e *statusErr) RetryAfter() time.Duration { return e.after }

func fastConfig() Config {
	cfg := DefaultConfig()
	cfg.InitialDelay = time.Millisecond
	cfg.MaxDelay = 5 * time.Millisecond
	cfg.MaxRetryAfter = 5 * time.Millisecond
	return cfg
}

func TestWithRetrySucceedsAfterServerErrors(t *testing.T) {
	calls := 0
	err := WithRetry(context.Background(), nil, fastConfig(), func() error {
		calls++
		if calls < 3 {
			return &statusErr{code: http.StatusBadGateway}
		}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 3, calls)
}

func TestWithRetryDoesNotRetryClientErrors(t *testing.T) {
	calls := 0
	err := WithRetry(context.Background(), nil, fastConfig(), func() error {
		calls++
		return &statusErr{code: http.StatusNotFound}
	})
	var se *statusErr
	require.ErrorAs(t, err, &se)
	assert.Equal(t, http.StatusNotFound, se.code)
	assert.Equal(t, 1, calls)
}

func TestWithRetryStopsOnFatal(t *testing.T) {
	calls := 0
	inner := errors.New("bad credentials")
	err := WithRetry(context.Background(), nil, fastConfig(), func() error {
		calls++
		return &FatalError{Err: inner}
	})
	assert.ErrorIs(t, err, inner)
	assert.Equal(t, 1, calls)
}

func TestWithRetryGivesUp(t *testing.T) {
	calls := 0
	err := WithRetry(context.Background(), nil, fastConfig(), func() error {
		calls++
		return &statusErr{code: http.StatusServiceUnavailable}
	})
	assert.ErrorContains(t, err, "max attempts (4) exceeded")
	assert.Equal(t, 4, calls)
}

func TestWithRetryHonoursRetryAfterCap(t *testing.T) {
	lim := NewAdaptiveLimiter(10, 1, 20, 1, 0.5)
	calls := 0
	start := time.Now()

	err := WithRetry(context.Background(), lim, fastConfig(), func() error {
		calls++
		if calls == 1 {
			return &statusErr{code: http.StatusTooManyRequests, after: time.Hour}
		}
		return nil
	})
	require.NoError(t, err)
	assert.Less(t, time.Since(start), time.Second)
	assert.InDelta(t, 5, lim.CurrentLimit(), 0.001)
}

func TestWithRetryContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := WithRetry(ctx, nil, fastConfig(), func() error { return nil })
	assert.ErrorIs(t, err, context.Canceled)
}

func TestAdaptiveLimiterBounds(t *testing.T) {
	lim := NewAdaptiveLimiter(4, 2, 6, 1, 0.5)

	lim.RateLimited()
	assert.InDelta(t, 2, lim.CurrentLimit(), 0.001)
	lim.RateLimited()
	assert.InDelta(t, 2, lim.CurrentLimit(), 0.001)

	// recent error suppresses increases
	lim.Success()
	assert.InDelta(t, 2, lim.CurrentLimit(), 0.001)

	fresh := NewAdaptiveLimiter(5, 1, 6, 1, 0.5)
	fresh.Success()
	fresh.Success()
	assert.InDelta(t, 6, fresh.CurrentLimit(), 0.001)
}

func TestDefaultRetryable(t *testing.T) {
	assert.True(t, DefaultRetryable(&statusErr{code: 429}))
	assert.True(t, DefaultRetryable(&statusErr{code: 500}))
	assert.False(t, DefaultRetryable(&statusErr{code: 401}))
	assert.True(t, DefaultRetryable(errors.New("connection reset")))
	assert.False(t, DefaultRetryable(context.DeadlineExceeded))
}
