package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/alecthomas/kong"
	"github.com/fwojciec/munifin"
	"github.com/fwojciec/munifin/crawl"
	"github.com/fwojciec/munifin/goquery"
	munihttp "github.com/fwojciec/munifin/http"
	munimcp "github.com/fwojciec/munifin/mcp"
	"github.com/fwojciec/munifin/resty"
	"github.com/fwojciec/munifin/rod"
	munislog "github.com/fwojciec/munifin/slog"
	"github.com/fwojciec/munifin/sqlite"
	"github.com/fwojciec/munifin/trafilatura"
)

func main() {
	ctx := context.Background()

	m := NewMain()

	if err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct {
	// Database path. Set before calling Run().
	DBPath string

	// Input for commands reading from standard input.
	Stdin io.Reader

	// SQLite database used by SQLite service implementations.
	DB *sqlite.DB

	// Services for end-to-end testing.
	ExtractionService munifin.ExtractionService
	SummaryService    munifin.SummaryService
}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{
		DBPath: defaultDBPath(),
		Stdin:  os.Stdin,
	}
}

// Close gracefully stops the program.
func (m *Main) Close() error {
	if m.DB != nil {
		return m.DB.Close()
	}
	return nil
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	deps := &Dependencies{
		Ctx:    ctx,
		Stdin:  m.Stdin,
		Stdout: stdout,
		Stderr: stderr,
		Now:    time.Now,
	}

	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("munifin"),
		kong.Description("Retrieve municipal financial tables and documents"),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}), // Don't exit on help
		kong.Bind(deps),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no command specified. Run 'munifin --help' to see available commands")
	}

	if args[0] == "help" || args[0] == "--help" || args[0] == "-h" {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	kongCtx, err := parser.Parse(args)
	if err != nil {
		return err
	}
	cmd := kongCtx.Selected().Name

	level := slog.LevelInfo
	if cli.Verbose {
		level = slog.LevelDebug
	}
	deps.Logger = slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))
	retryLog := func(format string, args ...any) {
		deps.Logger.Warn(fmt.Sprintf(format, args...))
	}

	if cmd != "numbers" {
		m.DB = sqlite.NewDB(m.DBPath)
		if err := m.DB.Open(); err != nil {
			fmt.Fprintf(stderr, "Hint: Set MUNIFIN_DB to use a different database path\n")
			return fmt.Errorf("failed to open database at %q: %w", m.DBPath, err)
		}
		defer m.Close()

		m.ExtractionService = sqlite.NewExtractionService(m.DB)
		m.SummaryService = sqlite.NewSummaryService(m.DB)
		deps.Extractions = m.ExtractionService
		deps.Summaries = m.SummaryService
	}

	deps.Parser = munislog.NewLoggingTableParser(goquery.NewTableParser(), deps.Logger)
	deps.Extractor = trafilatura.NewExtractor()

	switch cmd {
	case "tables":
		var next munifin.Fetcher
		if cli.Tables.Browser {
			fetcher, err := rod.NewFetcher(rod.WithFetchTimeout(cli.Tables.Timeout))
			if err != nil {
				fmt.Fprintln(stderr, "Hint: Chrome or Chromium must be installed")
				return fmt.Errorf("failed to start browser: %w", err)
			}
			next = fetcher
		} else {
			next = munihttp.NewFetcher(munihttp.WithTimeout(cli.Tables.Timeout))
		}
		deps.Fetcher = munislog.NewLoggingFetcher(&crawl.Fetcher{
			Next:        next,
			RateLimiter: crawl.NewDomainLimiter(1.0),
			RetryDelays: crawl.DefaultRetryDelays(),
			Logger:      retryLog,
		}, deps.Logger)
		defer deps.Fetcher.Close()

	case "lsn":
		session, err := resty.NewSession(
			resty.WithBaseURL(cli.Lsn.BaseURL),
			resty.WithRedirectDelay(cli.Lsn.Delay),
		)
		if err != nil {
			return fmt.Errorf("failed to create session: %w", err)
		}
		deps.Session = munislog.NewLoggingStatisticsSession(&crawl.Session{
			Next:        session,
			RetryDelays: crawl.DefaultRetryDelays(),
			Logger:      retryLog,
		}, deps.Logger)
		defer deps.Session.Close()

	case "documents":
		client := munimcp.NewClient(cli.Documents.Endpoint)
		client.DeriveFingerprints = cli.Documents.DeriveFingerprints
		if err := client.Open(ctx); err != nil {
			fmt.Fprintln(stderr, "Hint: Set MUNIFIN_MCP_URL to use a different document server")
			return fmt.Errorf("failed to connect to document server: %w", err)
		}
		deps.Searcher = munislog.NewLoggingDocumentSearcher(client, deps.Logger)
		defer deps.Searcher.Close()
	}

	return kongCtx.Run(deps)
}

func defaultDBPath() string {
	if path := os.Getenv("MUNIFIN_DB"); path != "" {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "munifin.db"
	}
	dir := filepath.Join(home, ".munifin")
	_ = os.MkdirAll(dir, 0755)
	return filepath.Join(dir, "munifin.db")
}
