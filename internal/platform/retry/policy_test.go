package retry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestPolicy_Do_SucceedsAfterFailures(t *testing.T) {
	calls := 0
	err := NoDelay(3).Do(context.Background(), func(_ context.Context, attempt int) error {
		calls++
		if attempt < 3 {
			return errors.New("flaky")
		}
		return nil
	})

	require.NoError(t, err)
	require.Equal(t, 3, calls)
}

func TestPolicy_Do_ReturnsLastError(t *testing.T) {
	calls := 0
	err := NoDelay(3).Do(context.Background(), func(_ context.Context, attempt int) error {
		calls++
		return errors.New("attempt " + string(rune('0'+attempt)))
	})

	require.EqualError(t, err, "attempt 3")
	require.Equal(t, 3, calls)
}

func TestPolicy_Do_PermanentStopsImmediately(t *testing.T) {
	wantErr := errors.New("bad request")
	calls := 0
	err := NoDelay(5).Do(context.Background(), func(context.Context, int) error {
		calls++
		return Permanent(wantErr)
	})

	require.ErrorIs(t, err, wantErr)
	require.Equal(t, wantErr, err)
	require.Equal(t, 1, calls)
}

func TestPolicy_Do_ZeroAttemptsRunsOnce(t *testing.T) {
	calls := 0
	_ = Policy{}.Do(context.Background(), func(context.Context, int) error {
		calls++
		return errors.New("nope")
	})
	require.Equal(t, 1, calls)
}

func TestPolicy_Do_StopsWhenContextCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	calls := 0
	err := Linear(3, time.Hour).Do(ctx, func(context.Context, int) error {
		calls++
		cancel()
		return errors.New("down")
	})

	require.EqualError(t, err, "down")
	require.Equal(t, 1, calls)
}

func TestLinear_BackoffGrowsWithAttempt(t *testing.T) {
	p := Linear(3, 500*time.Millisecond)
	require.Equal(t, 500*time.Millisecond, p.Backoff(1))
	require.Equal(t, time.Second, p.Backoff(2))
	require.Equal(t, 1500*time.Millisecond, p.Backoff(3))
}
