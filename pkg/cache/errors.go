package cache

import (
	"context"
	"errors"
	"time"
)

// ErrBackend is returned when a cache backend cannot be reached.
var ErrBackend = errors.New("cache backend unavailable")

// TransientError marks a backend failure that may succeed on another
// attempt, such as a dropped Redis connection.
type TransientError struct{ Err error }

func (e *TransientError) Error() string { return e.Err.Error() }
func (e *TransientError) Unwrap() error { return e.Err }

// Transient marks err as worth retrying. A nil err stays nil.
func Transient(err error) error {
	if err == nil {
		return nil
	}
	return &TransientError{Err: err}
}

// IsTransient reports whether err or anything it wraps is a TransientError.
func IsTransient(err error) bool {
	var te *TransientError
	return errors.As(err, &te)
}

// backoff holds the waits before each retry of a backend call.
var backoff = []time.Duration{50 * time.Millisecond, 100 * time.Millisecond}

// withRetry calls fn until it succeeds, returns a permanent error, or the
// backoff schedule is used up.
func withRetry(ctx context.Context, fn func() error) error {
	err := fn()
	for _, wait := range backoff {
		if !IsTransient(err) {
			return err
		}
		t := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			t.Stop()
			return ctx.Err()
		case <-t.C:
		}
		err = fn()
	}
	return err
}
