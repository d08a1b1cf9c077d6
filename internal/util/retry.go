package util

import (
	"context"
	"time"
)

// Retry runs fn until it succeeds, making up to maxAttempts calls. The pause
// between attempts starts at baseDelay and doubles after every failure.
// Cancelling ctx during a backoff pause aborts with ctx.Err(); if every call
// fails, the error of the final attempt is returned.
func Retry(ctx context.Context, maxAttempts int, baseDelay time.Duration, fn func() error) error {
	backoff := baseDelay
	var lastErr error

	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if lastErr = fn(); lastErr == nil {
			return nil
		}
		if attempt == maxAttempts {
			break
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(backoff):
		}
		backoff *= 2
	}
	return lastErr
}
