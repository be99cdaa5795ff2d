package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/fwojciec/munifin"
	"github.com/google/uuid"
)

// Compile-time interface verification.
var _ munifin.ExtractionService = (*ExtractionService)(nil)

// ExtractionService implements munifin.ExtractionService using SQLite.
type ExtractionService struct {
	db *DB
}

// NewExtractionService creates a new ExtractionService.
func NewExtractionService(db *DB) *ExtractionService {
	return &ExtractionService{db: db}
}

// hashExtraction computes the content hash of an extraction's header and
// record values.
func hashExtraction(e *munifin.Extraction) string {
	parts := make([][]string, 0, len(e.Records)+1)
	parts = append(parts, e.Header)
	for _, r := range e.Records {
		parts = append(parts, r.Values)
	}
	return hashParts(parts...)
}

// CreateExtraction stores an extraction and its records in one transaction.
// ID, SourceHash and CreatedAt are set on e. If the same table from the same
// source is already stored, e gets the stored ID and CreatedAt and ECONFLICT
// is returned.
func (s *ExtractionService) CreateExtraction(ctx context.Context, e *munifin.Extraction) error {
	if err := e.Validate(); err != nil {
		return err
	}

	header, err := json.Marshal(e.Header)
	if err != nil {
		return fmt.Errorf("failed to encode header: %w", err)
	}

	tx, err := s.db.BeginTx(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	hash := hashExtraction(e)

	var existingID, existingAt string
	err = tx.QueryRowContext(ctx, `
		SELECT id, created_at FROM extractions WHERE source_url = ? AND source_hash = ? LIMIT 1
	`, e.SourceURL, hash).Scan(&existingID, &existingAt)
	switch {
	case err == nil:
		createdAt, err := parseRFC3339(existingAt, "created_at")
		if err != nil {
			return err
		}
		e.ID = existingID
		e.SourceHash = hash
		e.CreatedAt = createdAt
		return munifin.Errorf(munifin.ECONFLICT, "extraction already stored")
	case !errors.Is(err, sql.ErrNoRows):
		return err
	}

	id := uuid.New().String()
	createdAt := time.Now().UTC()

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO extractions (id, source_url, source_hash, table_index, header, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, id, e.SourceURL, hash, e.TableIndex, string(header), formatTime(createdAt)); err != nil {
		return err
	}

	for i, r := range e.Records {
		cells, err := json.Marshal(r.Values)
		if err != nil {
			return fmt.Errorf("failed to encode record %d: %w", i, err)
		}
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO records (extraction_id, position, cells) VALUES (?, ?, ?)
		`, id, i, string(cells)); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return err
	}

	e.ID = id
	e.SourceHash = hash
	e.CreatedAt = createdAt
	return nil
}

// FindExtractionByID retrieves an extraction with its records.
func (s *ExtractionService) FindExtractionByID(ctx context.Context, id string) (*munifin.Extraction, error) {
	extractions, err := s.FindExtractions(ctx, munifin.ExtractionFilter{ID: &id, Limit: 1})
	if err != nil {
		return nil, err
	}
	if len(extractions) == 0 {
		return nil, munifin.Errorf(munifin.ENOTFOUND, "extraction not found")
	}
	return extractions[0], nil
}

// FindExtractions retrieves extractions matching the filter, newest first,
// each with its records.
func (s *ExtractionService) FindExtractions(ctx context.Context, filter munifin.ExtractionFilter) ([]*munifin.Extraction, error) {
	var query strings.Builder
	var args []any

	query.WriteString("SELECT id, source_url, source_hash, table_index, header, created_at FROM extractions WHERE 1=1")

	if filter.ID != nil {
		query.WriteString(" AND id = ?")
		args = append(args, *filter.ID)
	}
	if filter.SourceURL != nil {
		query.WriteString(" AND source_url = ?")
		args = append(args, *filter.SourceURL)
	}
	if filter.SourceHash != nil {
		query.WriteString(" AND source_hash = ?")
		args = append(args, *filter.SourceHash)
	}

	query.WriteString(" ORDER BY created_at DESC, rowid DESC")
	appendPagination(&query, &args, filter.Limit, filter.Offset)

	rows, err := s.db.QueryContext(ctx, query.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var extractions []*munifin.Extraction
	for rows.Next() {
		var e munifin.Extraction
		var header, createdAt string

		if err := rows.Scan(&e.ID, &e.SourceURL, &e.SourceHash, &e.TableIndex, &header, &createdAt); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(header), &e.Header); err != nil {
			return nil, fmt.Errorf("failed to decode header: %w", err)
		}
		if e.CreatedAt, err = parseRFC3339(createdAt, "created_at"); err != nil {
			return nil, err
		}
		extractions = append(extractions, &e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	rows.Close()

	for _, e := range extractions {
		if e.Records, err = s.findRecords(ctx, e); err != nil {
			return nil, err
		}
	}

	return extractions, nil
}

// findRecords loads the records of e in their original order.
func (s *ExtractionService) findRecords(ctx context.Context, e *munifin.Extraction) ([]munifin.Record, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT cells FROM records WHERE extraction_id = ? ORDER BY position ASC
	`, e.ID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []munifin.Record
	for rows.Next() {
		var cells string
		if err := rows.Scan(&cells); err != nil {
			return nil, err
		}
		var values []string
		if err := json.Unmarshal([]byte(cells), &values); err != nil {
			return nil, fmt.Errorf("failed to decode record: %w", err)
		}
		records = append(records, munifin.Record{
			Labels: append([]string(nil), e.Header...),
			Values: values,
		})
	}
	return records, rows.Err()
}

// DeleteExtraction removes an extraction. Its records are removed by the
// foreign key cascade.
func (s *ExtractionService) DeleteExtraction(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, "DELETE FROM extractions WHERE id = ?", id)
	if err != nil {
		return err
	}

	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return munifin.Errorf(munifin.ENOTFOUND, "extraction not found")
	}
	return nil
}

