package httputil

import (
	"context"
	"errors"
	"time"
)

// maxDelay caps the backoff between two attempts.
const maxDelay = 10 * time.Second

// RetryableError marks a transient failure (connection error, 5xx, short
// read) that [Retry] may attempt again.
type RetryableError struct{ Err error }

func (e *RetryableError) Error() string { return e.Err.Error() }
func (e *RetryableError) Unwrap() error { return e.Err }

// Retry runs fn up to attempts times, doubling delay after each retryable
// failure up to maxDelay. Errors not wrapped in [RetryableError] end the
// loop at once. A cancelled ctx returns ctx.Err().
func Retry(ctx context.Context, attempts int, delay time.Duration, fn func() error) error {
	var err error
	for i := 0; i < max(attempts, 1); i++ {
		if i > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
			delay = min(delay*2, maxDelay)
		}
		if err = fn(); err == nil || !errors.As(err, new(*RetryableError)) {
			return err
		}
	}
	return err
}
