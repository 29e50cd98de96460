package cache

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrNotFound reports a missing cache directory.
	ErrNotFound = errors.New("not found")

	// ErrNetwork reports that the Redis server could not be reached.
	ErrNetwork = errors.New("network error")
)

// RetryableError marks a store failure worth another attempt. [RedisCache]
// wraps connection errors in it; anything else fails at once.
type RetryableError struct{ Err error }

// Retryable wraps err; nil stays nil.
func Retryable(err error) error {
	if err == nil {
		return nil
	}
	return &RetryableError{Err: err}
}

func (e *RetryableError) Error() string { return e.Err.Error() }
func (e *RetryableError) Unwrap() error { return e.Err }

// IsRetryable reports whether err carries a RetryableError.
func IsRetryable(err error) bool {
	var re *RetryableError
	return errors.As(err, &re)
}

// Redis operations are attempted this many times, the wait doubling after
// each failure. A CLI run should give up quickly rather than hang, so the
// total wait stays under a second.
const redisAttempts = 3

var retryDelay = 200 * time.Millisecond

// RetryWithBackoff runs fn until it succeeds, returns a non-retryable error,
// the attempts run out or ctx is done.
func RetryWithBackoff(ctx context.Context, fn func() error) error {
	delay := retryDelay
	var err error
	for attempt := 1; ; attempt++ {
		if err = fn(); err == nil || !IsRetryable(err) || attempt == redisAttempts {
			return err
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
			delay *= 2
		}
	}
}
