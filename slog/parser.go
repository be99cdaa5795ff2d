package slog

import (
	"log/slog"
	"time"

	"github.com/fwojciec/munifin"
)

// Ensure LoggingTableParser implements munifin.TableParser.
var _ munifin.TableParser = (*LoggingTableParser)(nil)

// LoggingTableParser wraps a TableParser with debug logging.
type LoggingTableParser struct {
	next   munifin.TableParser
	logger *slog.Logger
}

// NewLoggingTableParser creates a new LoggingTableParser.
func NewLoggingTableParser(next munifin.TableParser, logger *slog.Logger) *LoggingTableParser {
	return &LoggingTableParser{next: next, logger: logger}
}

// ParseTables delegates to the wrapped parser and logs the table count.
func (p *LoggingTableParser) ParseTables(html string) (tables []munifin.RawTable, err error) {
	defer func(begin time.Time) {
		rows := 0
		for _, t := range tables {
			rows += len(t)
		}
		p.logger.Debug("parse tables",
			"bytes", len(html),
			"count", len(tables),
			"rows", rows,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return p.next.ParseTables(html)
}
