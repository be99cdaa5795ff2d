package munifin

import "context"

// Fetcher retrieves a complete HTML document from a URL.
// Implementations may use browser automation to handle frames and scripts.
type Fetcher interface {
	// Fetch returns the document as UTF-8 HTML. A failed fetch returns an
	// error and no partial document.
	// The context controls timeout and cancellation.
	Fetch(ctx context.Context, url string) (html string, err error)

	// Close releases resources held by the fetcher.
	// Must be called when the Fetcher is no longer needed.
	Close() error
}

// DomainLimiter provides per-domain rate limiting.
type DomainLimiter interface {
	// Wait blocks until the rate limit allows a request to the domain.
	// Returns an error if the context is canceled.
	Wait(ctx context.Context, domain string) error
}
