package retry

import (
	"context"
	"errors"
	"time"
)

// Policy is a bounded retry policy: at most MaxAttempts calls, sleeping Backoff(attempt)
// between a failed attempt and the next one.
type Policy struct {
	MaxAttempts int
	Backoff     func(attempt int) time.Duration
}

// Linear waits step × attempt after each failed attempt.
func Linear(maxAttempts int, step time.Duration) Policy {
	return Policy{
		MaxAttempts: maxAttempts,
		Backoff: func(attempt int) time.Duration {
			return step * time.Duration(attempt)
		},
	}
}

// NoDelay retries immediately, used in tests.
func NoDelay(maxAttempts int) Policy {
	return Policy{MaxAttempts: maxAttempts}
}

type permanentError struct{ err error }

func (p *permanentError) Error() string { return p.err.Error() }
func (p *permanentError) Unwrap() error { return p.err }

// Permanent marks err as not worth retrying; Do returns the wrapped error right away.
func Permanent(err error) error {
	if err == nil {
		return nil
	}
	return &permanentError{err: err}
}

// Do calls fn until it succeeds, returns a Permanent error, the attempts are exhausted
// or ctx is done. The last error from fn is returned.
func (p Policy) Do(ctx context.Context, fn func(ctx context.Context, attempt int) error) error {
	attempts := p.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		err := fn(ctx, attempt)
		if err == nil {
			return nil
		}
		var perm *permanentError
		if errors.As(err, &perm) {
			return perm.err
		}
		lastErr = err

		if attempt == attempts {
			break
		}
		if err = p.wait(ctx, attempt); err != nil {
			return lastErr
		}
	}
	return lastErr
}

func (p Policy) wait(ctx context.Context, attempt int) error {
	var d time.Duration
	if p.Backoff != nil {
		d = p.Backoff(attempt)
	}
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
