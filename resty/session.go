// Package resty implements a session with the LSN-Online statistics database
// of Lower Saxony on top of the resty HTTP client.
//
// The database is a legacy ASP application. A session is started by posting
// the welcome form, a table is requested by posting its parameter form, and
// the result is delivered on a separate page announced by a meta refresh.
package resty

import (
	"bytes"
	"context"
	"fmt"
	"math/rand/v2"
	"net/http/cookiejar"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/fwojciec/munifin"
	"github.com/fwojciec/munifin/goquery"
	munihttp "github.com/fwojciec/munifin/http"
	"github.com/go-resty/resty/v2"
)

// DefaultBaseURL is the root of the LSN-Online application.
const DefaultBaseURL = "https://www1.nls.niedersachsen.de/statistik"

// DefaultRedirectDelay is how long the server needs to render a result page
// after it announced the redirect.
const DefaultRedirectDelay = 2 * time.Second

// DefaultTimeout is the timeout for a single request.
const DefaultTimeout = 30 * time.Second

// Region levels understood by the table form.
const (
	LevelLand         = 1
	LevelRegion       = 2
	LevelKreis        = 3
	LevelSamtgemeinde = 4
	LevelGemeinde     = 5
)

// Known tables.
const (
	TableTaxRevenueSeries  = "Z9200001"
	TableTaxRevenueYear    = "K9200001"
	TableTaxCapacitySeries = "Z9200002"
	TableTaxCapacityYear   = "K9200002"
)

// Known regional keys.
const (
	RegionNiedersachsen   = "000000000"
	RegionNordstemmen     = "254026000"
	RegionHildesheimKreis = "254000000"
)

var levels = map[string]int{
	"land":         LevelLand,
	"region":       LevelRegion,
	"kreis":        LevelKreis,
	"samtgemeinde": LevelSamtgemeinde,
	"gemeinde":     LevelGemeinde,
}

// ParseLevel converts a level name such as "gemeinde" or a number between 1
// and 5 into a form level.
func ParseLevel(s string) (int, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if n, ok := levels[s]; ok {
		return n, nil
	}
	if n, err := strconv.Atoi(s); err == nil && n >= LevelLand && n <= LevelGemeinde {
		return n, nil
	}
	return 0, munifin.Errorf(munifin.EINVALID, "unknown region level %q", s)
}

// ShortKey returns the range key the table form expects: the regional key
// without trailing zeros, cut to six digits.
func ShortKey(key string) string {
	short := strings.TrimRight(key, "0")
	if len(short) > 6 {
		short = short[:6]
	}
	return short
}

// Ensure Session implements munifin.StatisticsSession at compile time.
var _ munifin.StatisticsSession = (*Session)(nil)

// Session holds the cookies of one LSN-Online session.
// Session is safe for concurrent use, but requests are serialized because the
// server keeps one pending result per session.
type Session struct {
	client  *resty.Client
	baseURL string
	delay   time.Duration
	timeout time.Duration

	mu     sync.Mutex
	opened bool
}

// Option configures a Session.
type Option func(*Session)

// WithBaseURL overrides DefaultBaseURL.
func WithBaseURL(u string) Option {
	return func(s *Session) {
		s.baseURL = strings.TrimRight(u, "/")
	}
}

// WithRedirectDelay overrides DefaultRedirectDelay.
func WithRedirectDelay(d time.Duration) Option {
	return func(s *Session) {
		s.delay = d
	}
}

// WithTimeout overrides DefaultTimeout.
func WithTimeout(d time.Duration) Option {
	return func(s *Session) {
		s.timeout = d
	}
}

// NewSession creates a Session. No request is made until Open or FetchTable.
func NewSession(opts ...Option) (*Session, error) {
	s := &Session{
		baseURL: DefaultBaseURL,
		delay:   DefaultRedirectDelay,
		timeout: DefaultTimeout,
	}
	for _, opt := range opts {
		opt(s)
	}

	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("creating cookie jar: %w", err)
	}

	s.client = resty.New().
		SetBaseURL(s.baseURL).
		SetCookieJar(jar).
		SetTimeout(s.timeout).
		SetHeader("User-Agent", munihttp.DefaultUserAgent).
		SetHeader("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9").
		SetHeader("Accept-Language", munihttp.DefaultAcceptLanguage)

	return s, nil
}

// Open starts the server-side session by loading the welcome page and
// submitting its form. FetchTable calls Open if it has not been called.
func (s *Session) Open(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.open(ctx)
}

func (s *Session) open(ctx context.Context) error {
	if s.opened {
		return nil
	}

	res, err := s.client.R().SetContext(ctx).Get("/default.asp")
	if err != nil {
		return fmt.Errorf("loading welcome page: %w", err)
	}
	if res.IsError() {
		return munifin.Errorf(munifin.EUNAVAILABLE, "LSN welcome page returned HTTP %d", res.StatusCode())
	}

	res, err = s.client.R().
		SetContext(ctx).
		SetFormData(map[string]string{"LOGIN1": "WEITER"}).
		Post("/default.asp")
	if err != nil {
		return fmt.Errorf("starting session: %w", err)
	}
	if res.IsError() {
		return munifin.Errorf(munifin.EUNAVAILABLE, "LSN session start returned HTTP %d", res.StatusCode())
	}

	s.opened = true
	return nil
}

// FetchTable requests a table and returns the HTML of its result page,
// decoded to UTF-8.
func (s *Session) FetchTable(ctx context.Context, req munifin.TableRequest) (string, error) {
	if err := req.Validate(); err != nil {
		return "", err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.open(ctx); err != nil {
		return "", err
	}

	short := ShortKey(req.RegionKey)
	res, err := s.client.R().
		SetContext(ctx).
		SetHeader("Referer", s.baseURL+"/html/param_haupt.asp?DT="+req.TableID).
		SetFormData(map[string]string{
			"DT":       req.TableID,
			"ZUFALL":   strconv.FormatFloat(rand.Float64(), 'f', 6, 64),
			"UG":       req.RegionKey,
			"LN":       strconv.Itoa(req.Level),
			"LN2":      "9",
			"RANGE0":   short,
			"RANGE1":   short,
			"TEXTSORT": "",
		}).
		Post("/html/mustertabelle.asp")
	if err != nil {
		return "", fmt.Errorf("requesting table %s: %w", req.TableID, err)
	}
	if res.IsError() {
		return "", munifin.Errorf(munifin.EUNAVAILABLE, "LSN table request returned HTTP %d", res.StatusCode())
	}

	page, err := decode(res)
	if err != nil {
		return "", err
	}
	target, ok := goquery.ParseRefresh(page, s.baseURL+"/html/mustertabelle.asp")
	if !ok {
		return "", munifin.Errorf(munifin.EUNAVAILABLE, "LSN did not announce a result page for table %s", req.TableID)
	}

	if err := sleep(ctx, s.delay); err != nil {
		return "", err
	}

	res, err = s.client.R().SetContext(ctx).Get(target)
	if err != nil {
		return "", fmt.Errorf("loading result page: %w", err)
	}
	if res.IsError() {
		return "", munifin.Errorf(munifin.EUNAVAILABLE, "LSN result page returned HTTP %d", res.StatusCode())
	}
	return decode(res)
}

// Close releases idle connections. The server-side session simply expires.
func (s *Session) Close() error {
	s.client.GetClient().CloseIdleConnections()
	return nil
}

func decode(res *resty.Response) (string, error) {
	return munihttp.ReadHTML(bytes.NewReader(res.Body()), res.Header().Get("Content-Type"))
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
