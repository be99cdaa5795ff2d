package mock

import (
	"context"

	"github.com/fwojciec/munifin"
)

var _ munifin.Fetcher = (*Fetcher)(nil)

// Fetcher is a mock implementation of munifin.Fetcher.
type Fetcher struct {
	FetchFn func(ctx context.Context, url string) (string, error)
	CloseFn func() error
}

func (f *Fetcher) Fetch(ctx context.Context, url string) (string, error) {
	return f.FetchFn(ctx, url)
}

func (f *Fetcher) Close() error {
	return f.CloseFn()
}

var _ munifin.DomainLimiter = (*DomainLimiter)(nil)

// DomainLimiter is a mock implementation of munifin.DomainLimiter.
type DomainLimiter struct {
	WaitFn func(ctx context.Context, domain string) error
}

func (l *DomainLimiter) Wait(ctx context.Context, domain string) error {
	return l.WaitFn(ctx, domain)
}
