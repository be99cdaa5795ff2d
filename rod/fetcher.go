// Package rod implements munifin.Fetcher with a headless Chrome browser.
// It is used for statistics pages whose tables live inside frames or are
// written by scripts.
package rod

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/fwojciec/munifin"
	munihttp "github.com/fwojciec/munifin/http"
	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
)

// DefaultFetchTimeout bounds a single Fetch including frame loading.
const DefaultFetchTimeout = 60 * time.Second

// maxFrameDepth limits how deep nested framesets are followed.
const maxFrameDepth = 3

// Ensure Fetcher implements munifin.Fetcher at compile time.
var _ munifin.Fetcher = (*Fetcher)(nil)

// Fetcher retrieves rendered HTML from URLs using Chrome browser automation.
// The HTML of every frame and iframe is appended to the returned document so
// that tables inside frames reach the table parser.
// Fetcher is safe for concurrent use by multiple goroutines.
type Fetcher struct {
	browser  *rod.Browser
	launcher *launcher.Launcher
	timeout  time.Duration

	mu     sync.Mutex
	closed bool
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithFetchTimeout overrides DefaultFetchTimeout.
func WithFetchTimeout(d time.Duration) Option {
	return func(f *Fetcher) {
		f.timeout = d
	}
}

// NewFetcher creates a new Fetcher that launches a headless Chrome browser.
// Close must be called when the Fetcher is no longer needed.
//
// Returns an error if Chrome/Chromium cannot be found or launched.
func NewFetcher(opts ...Option) (*Fetcher, error) {
	f := &Fetcher{timeout: DefaultFetchTimeout}
	for _, opt := range opts {
		opt(f)
	}

	l := launcher.New().Headless(true)
	u, err := l.Launch()
	if err != nil {
		return nil, fmt.Errorf("launching browser: %w", err)
	}

	browser := rod.New().ControlURL(u)
	if err := browser.Connect(); err != nil {
		l.Kill()
		return nil, fmt.Errorf("connecting to browser: %w", err)
	}

	f.browser = browser
	f.launcher = l
	return f, nil
}

// Fetch navigates to the URL and returns the rendered HTML with the content
// of its frames appended.
func (f *Fetcher) Fetch(ctx context.Context, url string) (string, error) {
	f.mu.Lock()
	closed := f.closed
	f.mu.Unlock()
	if closed {
		return "", munifin.Errorf(munifin.EINVALID, "fetcher is closed")
	}

	if err := ctx.Err(); err != nil {
		return "", err
	}

	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	page, err := f.browser.Page(proto.TargetCreateTarget{})
	if err != nil {
		return "", err
	}
	defer page.Close()

	page = page.Context(ctx)

	restore, err := page.SetExtraHeaders([]string{"Accept-Language", munihttp.DefaultAcceptLanguage})
	if err != nil {
		return "", err
	}
	defer restore()

	if err := page.Navigate(url); err != nil {
		return "", wrapContextErr(ctx, err)
	}
	if err := page.WaitLoad(); err != nil {
		return "", wrapContextErr(ctx, err)
	}

	var b strings.Builder
	if err := writePage(&b, page, 0); err != nil {
		return "", wrapContextErr(ctx, err)
	}
	return b.String(), nil
}

// writePage writes the page HTML followed by the HTML of each of its frames.
func writePage(b *strings.Builder, page *rod.Page, depth int) error {
	html, err := page.HTML()
	if err != nil {
		return err
	}
	b.WriteString(html)

	if depth >= maxFrameDepth {
		return nil
	}

	frames, err := page.Elements("frame, iframe")
	if err != nil {
		return err
	}
	for _, el := range frames {
		src, _ := el.Attribute("src")
		frame, err := el.Frame()
		if err != nil {
			// Cross-origin or detached frames are skipped.
			continue
		}
		if err := frame.WaitLoad(); err != nil {
			return err
		}
		name := ""
		if src != nil {
			name = *src
		}
		fmt.Fprintf(b, "\n<!-- frame %s -->\n", name)
		if err := writePage(b, frame, depth+1); err != nil {
			return err
		}
	}
	return nil
}

// wrapContextErr prefers the context error so callers can match on
// context.Canceled and context.DeadlineExceeded.
func wrapContextErr(ctx context.Context, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return fmt.Errorf("%w: %v", ctxErr, err)
	}
	return err
}

// LauncherPID returns the process ID of the launched browser.
func (f *Fetcher) LauncherPID() int {
	return f.launcher.PID()
}

// Close releases browser resources. Close is safe to call multiple times.
func (f *Fetcher) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return nil
	}
	f.closed = true

	err := f.browser.Close()
	f.launcher.Kill()
	return err
}
