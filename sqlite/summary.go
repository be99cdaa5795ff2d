package sqlite

import (
	"context"
	"strings"
	"time"

	"github.com/fwojciec/munifin"
	"github.com/google/uuid"
)

// Compile-time interface verification.
var _ munifin.SummaryService = (*SummaryService)(nil)

// SummaryService implements munifin.SummaryService using SQLite.
type SummaryService struct {
	db *DB
}

// NewSummaryService creates a new SummaryService.
func NewSummaryService(db *DB) *SummaryService {
	return &SummaryService{db: db}
}

// CreateSummary stores a summary. ID is set on s, and FetchedAt if unset.
func (s *SummaryService) CreateSummary(ctx context.Context, summary *munifin.DocumentSummary) error {
	if err := summary.Validate(); err != nil {
		return err
	}

	id := uuid.New().String()
	fetchedAt := summary.FetchedAt
	if fetchedAt.IsZero() {
		fetchedAt = time.Now().UTC()
	}

	// The partial unique index on fingerprint turns a repeated document into
	// an ignored insert.
	result, err := s.db.ExecContext(ctx, `
		INSERT OR IGNORE INTO summaries (id, fingerprint, title, reference, date, source_url, oparl_id, excerpt, fetched_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, id, summary.Fingerprint, summary.Title, summary.Reference, summary.Date, summary.SourceURL,
		summary.OParlID, munifin.TruncateExcerpt(summary.Excerpt), formatTime(fetchedAt))
	if err != nil {
		return err
	}

	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return munifin.Errorf(munifin.ECONFLICT, "document %q already stored", summary.Fingerprint)
	}

	summary.ID = id
	summary.FetchedAt = fetchedAt
	return nil
}

// FindSummaries retrieves summaries matching the filter in insertion order.
func (s *SummaryService) FindSummaries(ctx context.Context, filter munifin.SummaryFilter) ([]*munifin.DocumentSummary, error) {
	var query strings.Builder
	var args []any

	query.WriteString("SELECT id, fingerprint, title, reference, date, source_url, oparl_id, excerpt, fetched_at FROM summaries WHERE 1=1")

	if filter.Fingerprint != nil {
		query.WriteString(" AND fingerprint = ?")
		args = append(args, *filter.Fingerprint)
	}
	if filter.Reference != nil {
		query.WriteString(" AND reference = ?")
		args = append(args, *filter.Reference)
	}

	query.WriteString(" ORDER BY rowid ASC")
	appendPagination(&query, &args, filter.Limit, filter.Offset)

	rows, err := s.db.QueryContext(ctx, query.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var summaries []*munifin.DocumentSummary
	for rows.Next() {
		var sum munifin.DocumentSummary
		var fetchedAt string

		if err := rows.Scan(&sum.ID, &sum.Fingerprint, &sum.Title, &sum.Reference, &sum.Date,
			&sum.SourceURL, &sum.OParlID, &sum.Excerpt, &fetchedAt); err != nil {
			return nil, err
		}
		if sum.FetchedAt, err = parseRFC3339(fetchedAt, "fetched_at"); err != nil {
			return nil, err
		}
		summaries = append(summaries, &sum)
	}
	return summaries, rows.Err()
}
