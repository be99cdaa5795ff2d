// Package crawl schedules requests against the remote sources: retries with
// backoff, per-domain rate limits and concurrent document searches.
package crawl

import (
	"context"
	"time"

	"github.com/fwojciec/munifin"
)

// FetchFunc is the signature for a fetch function.
type FetchFunc func(ctx context.Context, url string) (string, error)

// LogFunc is the signature for a logging function.
type LogFunc func(format string, args ...any)

// DefaultRetryDelays returns the backoff delays for fetch retries: 1s, 2s, 4s.
func DefaultRetryDelays() []time.Duration {
	return []time.Duration{1 * time.Second, 2 * time.Second, 4 * time.Second}
}

// FetchWithRetry attempts to fetch a URL with exponential backoff retry logic.
// It retries up to 3 times (4 total attempts) with delays of 1s, 2s, 4s.
// The logger function, if provided, is called for each retry attempt.
func FetchWithRetry(ctx context.Context, url string, fetch FetchFunc, logger LogFunc) (string, error) {
	return FetchWithRetryDelays(ctx, url, fetch, logger, DefaultRetryDelays())
}

// FetchWithRetryDelays is like FetchWithRetry but allows configurable delays.
// This is useful for testing without waiting for real delays.
func FetchWithRetryDelays(ctx context.Context, url string, fetch FetchFunc, logger LogFunc, delays []time.Duration) (string, error) {
	var html string
	err := Retry(ctx, url, delays, logger, func(ctx context.Context) error {
		var err error
		html, err = fetch(ctx, url)
		return err
	})
	if err != nil {
		return "", err
	}
	return html, nil
}

// Retry calls op until it succeeds, waiting delays[i] before retry i+1.
// Errors with the codes EINVALID and ENOTFOUND are final and not retried.
// The label identifies the operation in log lines.
func Retry(ctx context.Context, label string, delays []time.Duration, logger LogFunc, op func(ctx context.Context) error) error {
	maxAttempts := len(delays) + 1

	var lastErr error
	for attempt := 0; attempt < maxAttempts; attempt++ {
		err := op(ctx)
		if err == nil {
			return nil
		}
		lastErr = err

		if attempt >= maxAttempts-1 || !retryable(err) {
			break
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if logger != nil {
			logger("  retry %s (attempt %d): %v", label, attempt+2, err)
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delays[attempt]):
		}
	}

	return lastErr
}

func retryable(err error) bool {
	switch munifin.ErrorCode(err) {
	case munifin.EINVALID, munifin.ENOTFOUND:
		return false
	}
	return true
}
