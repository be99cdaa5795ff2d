package crawl

import (
	"context"
	"net/url"
	"time"

	"github.com/fwojciec/munifin"
)

// Ensure Fetcher implements munifin.Fetcher at compile time.
var _ munifin.Fetcher = (*Fetcher)(nil)

// Fetcher wraps a munifin.Fetcher with a per-domain rate limit and retries.
// Every attempt, including retries, waits for the limiter.
type Fetcher struct {
	Next        munifin.Fetcher
	RateLimiter munifin.DomainLimiter
	RetryDelays []time.Duration
	Logger      LogFunc
}

// Fetch retrieves the URL through the wrapped fetcher.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) (string, error) {
	host := ""
	if u, err := url.Parse(rawURL); err == nil {
		host = u.Hostname()
	}

	return FetchWithRetryDelays(ctx, rawURL, func(ctx context.Context, u string) (string, error) {
		if f.RateLimiter != nil {
			if err := f.RateLimiter.Wait(ctx, host); err != nil {
				return "", err
			}
		}
		return f.Next.Fetch(ctx, u)
	}, f.Logger, f.RetryDelays)
}

// Close closes the wrapped fetcher.
func (f *Fetcher) Close() error {
	return f.Next.Close()
}

// Ensure Session implements munifin.StatisticsSession at compile time.
var _ munifin.StatisticsSession = (*Session)(nil)

// Session wraps a munifin.StatisticsSession with retries.
type Session struct {
	Next        munifin.StatisticsSession
	RetryDelays []time.Duration
	Logger      LogFunc
}

// FetchTable requests the table through the wrapped session.
func (s *Session) FetchTable(ctx context.Context, req munifin.TableRequest) (string, error) {
	var html string
	err := Retry(ctx, req.TableID+"/"+req.RegionKey, s.RetryDelays, s.Logger, func(ctx context.Context) error {
		var err error
		html, err = s.Next.FetchTable(ctx, req)
		return err
	})
	if err != nil {
		return "", err
	}
	return html, nil
}

// Close closes the wrapped session.
func (s *Session) Close() error {
	return s.Next.Close()
}
