package resilience

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"
)

// PermanentError marks a failure that a retry cannot fix.
type PermanentError struct {
	Err error
}

func (e *PermanentError) Error() string { return e.Err.Error() }
func (e *PermanentError) Unwrap() error { return e.Err }

func Permanent(err error) error {
	if err == nil {
		return nil
	}
	return &PermanentError{Err: err}
}

// Retry calls fn up to attempts times, sleeping delay between calls. It stops
// early on success, on a Permanent error and when ctx is done.
func Retry(ctx context.Context, attempts int, delay time.Duration, fn func() error) error {
	var err error
	for i := 0; i < attempts; i++ {
		if i > 0 {
			slog.Info("Retrying request...", "attempt", i+1, "error", err)
			select {
			case <-ctx.Done():
				return fmt.Errorf("retry aborted after %d attempts: %w", i, ctx.Err())
			case <-time.After(delay):
			}
		}

		err = fn()
		if err == nil {
			return nil
		}

		var perm *PermanentError
		if errors.As(err, &perm) {
			return err
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return err
		}
	}
	return fmt.Errorf("after %d attempts, last error: %w", attempts, err)
}
