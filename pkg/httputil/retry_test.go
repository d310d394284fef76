package httputil

import (
	"context"
	"errors"
	"testing"
	"time"
)

var fastBackoff = Backoff{Attempts: 3, Delay: time.Millisecond}

func TestBackoff_Do(t *testing.T) {
	transient := errors.New("transient")
	permanent := errors.New("permanent")

	tests := []struct {
		name      string
		failures  int
		err       error
		wantCalls int
		wantErr   error
	}{
		{"success", 0, nil, 1, nil},
		{"recovers", 2, &RetryableError{Err: transient}, 3, nil},
		{"exhausted", 5, &RetryableError{Err: transient}, 3, transient},
		{"permanent", 5, permanent, 1, permanent},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calls := 0
			err := fastBackoff.Do(context.Background(), func() error {
				calls++
				if calls <= tt.failures {
					return tt.err
				}
				return nil
			})
			if calls != tt.wantCalls {
				t.Errorf("calls = %d, want %d", calls, tt.wantCalls)
			}
			if !errors.Is(err, tt.wantErr) || (tt.wantErr == nil && err != nil) {
				t.Errorf("err = %v, want %v", err, tt.wantErr)
			}
			if IsRetryable(err) {
				t.Error("returned error should be unwrapped from RetryableError")
			}
		})
	}
}

func TestBackoff_ZeroAttempts(t *testing.T) {
	calls := 0
	_ = Backoff{}.Do(context.Background(), func() error {
		calls++
		return &RetryableError{Err: errors.New("x")}
	})
	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
}

func TestBackoff_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	b := Backoff{Attempts: 5, Delay: time.Hour}

	err := b.Do(ctx, func() error {
		cancel()
		return &RetryableError{Err: errors.New("x")}
	})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}
