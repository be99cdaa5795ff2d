package crawl

import (
	"context"
	"strings"
	"sync"

	"github.com/fwojciec/munifin"
	"golang.org/x/time/rate"
)

var _ munifin.DomainLimiter = (*DomainLimiter)(nil)

// DomainLimiter keeps one token bucket per host. Host names are compared
// case-insensitively and without a leading "www.".
type DomainLimiter struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	rates    map[string]float64
	rps      float64
}

// LimiterOption configures a DomainLimiter.
type LimiterOption func(*DomainLimiter)

// WithDomainRate sets a rate for one host that overrides the default.
func WithDomainRate(domain string, rps float64) LimiterOption {
	return func(d *DomainLimiter) {
		d.rates[normalizeDomain(domain)] = rps
	}
}

// NewDomainLimiter creates a DomainLimiter allowing rps requests per second
// per host, without bursts.
func NewDomainLimiter(rps float64, opts ...LimiterOption) *DomainLimiter {
	d := &DomainLimiter{
		limiters: make(map[string]*rate.Limiter),
		rates:    make(map[string]float64),
		rps:      rps,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Wait blocks until the host's bucket has a token or ctx is done.
func (d *DomainLimiter) Wait(ctx context.Context, domain string) error {
	return d.limiter(domain).Wait(ctx)
}

func (d *DomainLimiter) limiter(domain string) *rate.Limiter {
	key := normalizeDomain(domain)

	d.mu.Lock()
	defer d.mu.Unlock()
	if l, ok := d.limiters[key]; ok {
		return l
	}
	rps, ok := d.rates[key]
	if !ok {
		rps = d.rps
	}
	l := rate.NewLimiter(rate.Limit(rps), 1)
	d.limiters[key] = l
	return l
}

func normalizeDomain(domain string) string {
	return strings.TrimPrefix(strings.ToLower(domain), "www.")
}
