package crawl_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/fwojciec/munifin/crawl"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// timeWait measures one Wait call.
func timeWait(t *testing.T, l *crawl.DomainLimiter, domain string) time.Duration {
	t.Helper()
	start := time.Now()
	require.NoError(t, l.Wait(context.Background(), domain))
	return time.Since(start)
}

func TestDomainLimiter_Wait(t *testing.T) {
	t.Parallel()

	t.Run("spaces requests to one host", func(t *testing.T) {
		t.Parallel()

		l := crawl.NewDomainLimiter(10)

		assert.Less(t, timeWait(t, l, "nordstemmen.de"), 50*time.Millisecond)
		assert.GreaterOrEqual(t, timeWait(t, l, "nordstemmen.de"), 80*time.Millisecond)
	})

	t.Run("hosts do not share a bucket", func(t *testing.T) {
		t.Parallel()

		l := crawl.NewDomainLimiter(1)

		timeWait(t, l, "nordstemmen.de")
		assert.Less(t, timeWait(t, l, "nls.niedersachsen.de"), 50*time.Millisecond)
	})

	t.Run("normalizes case and www prefix", func(t *testing.T) {
		t.Parallel()

		l := crawl.NewDomainLimiter(10)

		timeWait(t, l, "www.Nordstemmen.de")
		assert.GreaterOrEqual(t, timeWait(t, l, "nordstemmen.de"), 80*time.Millisecond)
	})

	t.Run("per-domain rate overrides default", func(t *testing.T) {
		t.Parallel()

		l := crawl.NewDomainLimiter(0.1, crawl.WithDomainRate("fast.example", 50))

		timeWait(t, l, "fast.example")
		assert.Less(t, timeWait(t, l, "FAST.example"), 200*time.Millisecond)
	})

	t.Run("returns context error while waiting", func(t *testing.T) {
		t.Parallel()

		l := crawl.NewDomainLimiter(1)
		timeWait(t, l, "nordstemmen.de")

		ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
		defer cancel()

		assert.Error(t, l.Wait(ctx, "nordstemmen.de"))
	})

	t.Run("concurrent waiters all get through", func(t *testing.T) {
		t.Parallel()

		l := crawl.NewDomainLimiter(200)

		var wg sync.WaitGroup
		errs := make(chan error, 8)
		for range 8 {
			wg.Add(1)
			go func() {
				defer wg.Done()
				errs <- l.Wait(context.Background(), "nordstemmen.de")
			}()
		}
		wg.Wait()
		close(errs)

		for err := range errs {
			assert.NoError(t, err)
		}
	})
}
