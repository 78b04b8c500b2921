package cache

import (
	"context"
	"errors"
	"time"
)

// ErrNetwork marks failures to reach a remote backend.
var ErrNetwork = errors.New("cache backend unreachable")

// retryAttempts bounds the calls made by RetryWithBackoff.
const retryAttempts = 3

// retryDelay is the wait after the first failed attempt; it doubles after
// each further one.
var retryDelay = 200 * time.Millisecond

// RetryableError marks a transient failure worth another attempt.
type RetryableError struct{ Err error }

// Retryable wraps err as a RetryableError. It returns nil for nil.
func Retryable(err error) error {
	if err == nil {
		return nil
	}
	return &RetryableError{Err: err}
}

func (e *RetryableError) Error() string { return e.Err.Error() }

func (e *RetryableError) Unwrap() error { return e.Err }

// IsRetryable reports whether err was wrapped with Retryable.
func IsRetryable(err error) bool {
	var re *RetryableError
	return errors.As(err, &re)
}

// RetryWithBackoff calls fn until it succeeds, returns an error that is not
// retryable, or has been called retryAttempts times. Waiting between
// attempts stops early when ctx is done.
func RetryWithBackoff(ctx context.Context, fn func() error) error {
	delay := retryDelay
	for attempt := 1; ; attempt++ {
		err := fn()
		if err == nil || !IsRetryable(err) || attempt == retryAttempts {
			return err
		}

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
		delay *= 2
	}
}
