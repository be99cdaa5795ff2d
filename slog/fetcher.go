// Package slog provides logging decorators for munifin collaborators. Each
// decorator logs one line per call with its outcome and duration.
package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/munifin"
)

// Ensure LoggingFetcher implements munifin.Fetcher.
var _ munifin.Fetcher = (*LoggingFetcher)(nil)

// LoggingFetcher wraps a Fetcher with logging.
type LoggingFetcher struct {
	next   munifin.Fetcher
	logger *slog.Logger
}

// NewLoggingFetcher creates a new LoggingFetcher.
func NewLoggingFetcher(next munifin.Fetcher, logger *slog.Logger) *LoggingFetcher {
	return &LoggingFetcher{next: next, logger: logger}
}

// Fetch logs the URL being fetched and delegates to the wrapped fetcher.
func (f *LoggingFetcher) Fetch(ctx context.Context, url string) (html string, err error) {
	defer func(begin time.Time) {
		f.logger.Info("fetch",
			"url", url,
			"bytes", len(html),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return f.next.Fetch(ctx, url)
}

// Close delegates to the wrapped fetcher.
func (f *LoggingFetcher) Close() error {
	return f.next.Close()
}

// Ensure LoggingStatisticsSession implements munifin.StatisticsSession.
var _ munifin.StatisticsSession = (*LoggingStatisticsSession)(nil)

// LoggingStatisticsSession wraps a StatisticsSession with logging.
type LoggingStatisticsSession struct {
	next   munifin.StatisticsSession
	logger *slog.Logger
}

// NewLoggingStatisticsSession creates a new LoggingStatisticsSession.
func NewLoggingStatisticsSession(next munifin.StatisticsSession, logger *slog.Logger) *LoggingStatisticsSession {
	return &LoggingStatisticsSession{next: next, logger: logger}
}

// FetchTable logs the requested table and delegates to the wrapped session.
func (s *LoggingStatisticsSession) FetchTable(ctx context.Context, req munifin.TableRequest) (html string, err error) {
	defer func(begin time.Time) {
		s.logger.Info("fetch table",
			"table", req.TableID,
			"region", req.RegionKey,
			"level", req.Level,
			"bytes", len(html),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.FetchTable(ctx, req)
}

// Close delegates to the wrapped session.
func (s *LoggingStatisticsSession) Close() error {
	return s.next.Close()
}
