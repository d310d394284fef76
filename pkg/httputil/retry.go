package httputil

import (
	"context"
	"errors"
	"time"
)

// RetryableError marks a failure that [Backoff.Do] should try again.
type RetryableError struct{ Err error }

func (e *RetryableError) Error() string { return e.Err.Error() }
func (e *RetryableError) Unwrap() error { return e.Err }

// Backoff retries an operation with exponentially growing delays.
type Backoff struct {
	Attempts int           // total attempts, at least 1
	Delay    time.Duration // delay before the second attempt
	MaxDelay time.Duration // upper bound per delay; 0 means unbounded
}

// DefaultBackoff is used by [NewClient] when no backoff is configured.
var DefaultBackoff = Backoff{Attempts: 3, Delay: 250 * time.Millisecond, MaxDelay: 2 * time.Second}

// Do calls fn until it succeeds, returns a non-retryable error, or the
// attempts are exhausted. The returned error is unwrapped from
// [RetryableError]. Cancellation of ctx between attempts returns ctx.Err().
func (b Backoff) Do(ctx context.Context, fn func() error) error {
	attempts := max(b.Attempts, 1)
	delay := b.Delay

	var lastErr error
	for i := range attempts {
		err := fn()
		if err == nil {
			return nil
		}
		var re *RetryableError
		if !errors.As(err, &re) {
			return err
		}
		lastErr = re.Err

		if i == attempts-1 {
			break
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}
		delay *= 2
		if b.MaxDelay > 0 && delay > b.MaxDelay {
			delay = b.MaxDelay
		}
	}
	return lastErr
}

// IsRetryable reports whether err is marked as retryable.
func IsRetryable(err error) bool {
	return errors.As(err, new(*RetryableError))
}
