package main

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/fwojciec/munifin"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx    context.Context
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
	Logger *slog.Logger
	Now    func() time.Time

	Extractions munifin.ExtractionService
	Summaries   munifin.SummaryService
	Fetcher     munifin.Fetcher
	Session     munifin.StatisticsSession
	Searcher    munifin.DocumentSearcher
	Parser      munifin.TableParser
	Extractor   munifin.TextExtractor
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Verbose bool `short:"v" help:"Log debug output"`

	Tables    TablesCmd    `cmd:"" help:"Extract year tables from a web page"`
	Lsn       LsnCmd       `cmd:"" name:"lsn" help:"Fetch a table from the LSN-Online statistics database"`
	Documents DocumentsCmd `cmd:"" help:"Search council documents and export a catalog"`
	Numbers   NumbersCmd   `cmd:"" help:"Print the numbers found in a text or HTML file"`
	List      ListCmd      `cmd:"" help:"List stored extractions"`
	Show      ShowCmd      `cmd:"" help:"Print the records of a stored extraction as CSV"`
	Delete    DeleteCmd    `cmd:"" help:"Delete a stored extraction"`
}

// TablesCmd is the "tables" subcommand.
type TablesCmd struct {
	URL     string        `arg:"" help:"Page URL"`
	Browser bool          `short:"b" help:"Render the page in a headless browser (needed for frames and scripts)"`
	Marker  []string      `short:"m" default:"Jahr" help:"Header marker substring (repeatable)"`
	First   bool          `help:"Keep only the first table with a header and records"`
	Out     string        `short:"o" type:"path" help:"Write records to this CSV file instead of stdout"`
	Preview bool          `short:"p" help:"Render records as a table without storing them"`
	Timeout time.Duration `default:"30s" help:"Fetch timeout"`
}

// LsnCmd is the "lsn" subcommand.
type LsnCmd struct {
	Region  string        `arg:"" optional:"" default:"254026000" help:"Regional key (AGS)"`
	Table   string        `short:"t" default:"Z9200001" help:"Table ID"`
	Level   string        `short:"l" default:"gemeinde" help:"Region level: land, region, kreis, samtgemeinde, gemeinde or 1-5"`
	Marker  []string      `short:"m" default:"Jahr" help:"Header marker substring (repeatable)"`
	Delay   time.Duration `default:"2s" help:"Wait before following the result redirect"`
	BaseURL string        `name:"base-url" env:"MUNIFIN_LSN_URL" default:"https://www1.nls.niedersachsen.de/statistik" help:"LSN-Online base URL"`
	Out     string        `short:"o" type:"path" help:"Write records to this CSV file instead of stdout"`
	Preview bool          `short:"p" help:"Render records as a table without storing them"`
}

// DocumentsCmd is the "documents" subcommand.
type DocumentsCmd struct {
	Queries            string   `short:"q" type:"existingfile" help:"YAML file with queries and paper references (default: built-in budget queries)"`
	Paper              []string `help:"Paper reference to look up, replaces the configured papers (repeatable)"`
	Limit              int      `help:"Override the result limit of every query"`
	Concurrency        int      `short:"c" default:"3" help:"Concurrent searches"`
	Out                string   `short:"o" type:"path" help:"Write the catalog to this YAML file instead of stdout"`
	DeriveFingerprints bool     `name:"derive-fingerprints" help:"Fingerprint results without a file hash by their URL"`
	Endpoint           string   `env:"MUNIFIN_MCP_URL" default:"https://nordstemmen-mcp.levinkeller.de/mcp" help:"Document server MCP endpoint"`
}

// NumbersCmd is the "numbers" subcommand.
type NumbersCmd struct {
	File string `arg:"" optional:"" type:"existingfile" help:"Input file (default: stdin)"`
	HTML bool   `name:"html" help:"Extract the main text of an HTML page first"`
}

// ListCmd is the "list" subcommand.
type ListCmd struct{}

// ShowCmd is the "show" subcommand.
type ShowCmd struct {
	ID string `arg:"" help:"Extraction ID"`
}

// DeleteCmd is the "delete" subcommand.
type DeleteCmd struct {
	ID    string `arg:"" help:"Extraction ID"`
	Force bool   `help:"Confirm deletion"`
}
