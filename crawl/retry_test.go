package crawl_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/fwojciec/munifin"
	"github.com/fwojciec/munifin/crawl"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// noDelays is used for fast unit tests.
var noDelays = []time.Duration{0, 0, 0}

func TestFetchWithRetry(t *testing.T) {
	t.Parallel()

	t.Run("succeeds on first attempt", func(t *testing.T) {
		t.Parallel()

		var attempts int
		fetch := func(ctx context.Context, url string) (string, error) {
			attempts++
			return "<table></table>", nil
		}

		html, err := crawl.FetchWithRetryDelays(context.Background(), "https://example.com", fetch, nil, noDelays)

		require.NoError(t, err)
		assert.Equal(t, "<table></table>", html)
		assert.Equal(t, 1, attempts)
	})

	t.Run("retries on failure and succeeds", func(t *testing.T) {
		t.Parallel()

		var attempts int
		fetch := func(ctx context.Context, url string) (string, error) {
			attempts++
			if attempts < 4 {
				return "", errors.New("transient error")
			}
			return "<table>ok</table>", nil
		}

		html, err := crawl.FetchWithRetryDelays(context.Background(), "https://example.com", fetch, nil, noDelays)

		require.NoError(t, err)
		assert.Equal(t, "<table>ok</table>", html)
		assert.Equal(t, 4, attempts)
	})

	t.Run("returns error after max retries", func(t *testing.T) {
		t.Parallel()

		var attempts int
		fetch := func(ctx context.Context, url string) (string, error) {
			attempts++
			return "", errors.New("persistent error")
		}

		_, err := crawl.FetchWithRetryDelays(context.Background(), "https://example.com", fetch, nil, noDelays)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "persistent error")
		assert.Equal(t, 4, attempts)
	})

	t.Run("does not retry final errors", func(t *testing.T) {
		t.Parallel()

		var attempts int
		fetch := func(ctx context.Context, url string) (string, error) {
			attempts++
			return "", munifin.Errorf(munifin.ENOTFOUND, "no such table")
		}

		_, err := crawl.FetchWithRetryDelays(context.Background(), "https://example.com", fetch, nil, noDelays)

		assert.Equal(t, munifin.ENOTFOUND, munifin.ErrorCode(err))
		assert.Equal(t, 1, attempts)
	})

	t.Run("respects context cancellation", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())

		var attempts int
		fetch := func(ctx context.Context, url string) (string, error) {
			attempts++
			if attempts == 1 {
				cancel()
			}
			return "", errors.New("transient error")
		}

		_, err := crawl.FetchWithRetryDelays(ctx, "https://example.com", fetch, nil, noDelays)

		require.Error(t, err)
		assert.ErrorIs(t, err, context.Canceled)
		assert.Equal(t, 1, attempts)
	})

	t.Run("logs retry attempts", func(t *testing.T) {
		t.Parallel()

		var attempts int
		fetch := func(ctx context.Context, url string) (string, error) {
			attempts++
			if attempts < 4 {
				return "", errors.New("transient error")
			}
			return "<table>ok</table>", nil
		}

		var logs []string
		logger := func(format string, args ...any) {
			logs = append(logs, format)
		}

		_, err := crawl.FetchWithRetryDelays(context.Background(), "https://example.com/page", fetch, logger, noDelays)

		require.NoError(t, err)
		assert.Len(t, logs, 3, "should log 3 retries")
	})

	t.Run("number of retries matches delay count", func(t *testing.T) {
		t.Parallel()

		var attempts int
		fetch := func(ctx context.Context, url string) (string, error) {
			attempts++
			return "", errors.New("always fail")
		}

		twoDelays := []time.Duration{0, 0}
		_, err := crawl.FetchWithRetryDelays(context.Background(), "https://example.com", fetch, nil, twoDelays)

		require.Error(t, err)
		assert.Equal(t, 3, attempts)
	})
}
