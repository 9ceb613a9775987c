package rate

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"ratesync/internal/domain"

	"github.com/stretchr/testify/require"
)

type countingRunner struct {
	calls atomic.Int32
}

func (r *countingRunner) Run(context.Context) (domain.Report, error) {
	r.calls.Add(1)
	return domain.Report{}, nil
}

func TestScheduler_RunsImmediatelyAndOnDemand(t *testing.T) {
	r := &countingRunner{}
	s := NewScheduler(r, time.Hour)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	require.NoError(t, s.Start(ctx))
	t.Cleanup(func() { _ = s.Shutdown() })

	require.Eventually(t, func() bool { return r.calls.Load() == 1 }, 2*time.Second, 10*time.Millisecond)

	require.NoError(t, s.RunNow())
	require.Eventually(t, func() bool { return r.calls.Load() == 2 }, 2*time.Second, 10*time.Millisecond)
}

func TestScheduler_RunNowBeforeStart(t *testing.T) {
	s := NewScheduler(&countingRunner{}, time.Hour)
	require.ErrorIs(t, s.RunNow(), ErrSchedulerNotStarted)
}

func TestScheduler_ShutdownIsIdempotent(t *testing.T) {
	s := NewScheduler(&countingRunner{}, time.Hour)
	require.NoError(t, s.Start(context.Background()))
	require.NoError(t, s.Shutdown())
	require.NoError(t, s.Shutdown())
}
