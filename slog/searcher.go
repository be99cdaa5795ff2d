package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/munifin"
)

// Ensure LoggingDocumentSearcher implements munifin.DocumentSearcher.
var _ munifin.DocumentSearcher = (*LoggingDocumentSearcher)(nil)

// LoggingDocumentSearcher wraps a DocumentSearcher with logging.
type LoggingDocumentSearcher struct {
	next   munifin.DocumentSearcher
	logger *slog.Logger
}

// NewLoggingDocumentSearcher creates a new LoggingDocumentSearcher.
func NewLoggingDocumentSearcher(next munifin.DocumentSearcher, logger *slog.Logger) *LoggingDocumentSearcher {
	return &LoggingDocumentSearcher{next: next, logger: logger}
}

// SearchDocuments delegates to the wrapped searcher and logs the query.
func (s *LoggingDocumentSearcher) SearchDocuments(ctx context.Context, q munifin.DocumentQuery) (summaries []*munifin.DocumentSummary, err error) {
	defer func(begin time.Time) {
		s.logger.Info("search documents",
			"query", q.Query,
			"date_from", q.DateFrom,
			"count", len(summaries),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.SearchDocuments(ctx, q)
}

// GetPaper delegates to the wrapped searcher and logs the reference.
func (s *LoggingDocumentSearcher) GetPaper(ctx context.Context, reference string) (summary *munifin.DocumentSummary, err error) {
	defer func(begin time.Time) {
		s.logger.Info("get paper",
			"reference", reference,
			"found", summary != nil,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.GetPaper(ctx, reference)
}

// Close delegates to the wrapped searcher.
func (s *LoggingDocumentSearcher) Close() error {
	return s.next.Close()
}
