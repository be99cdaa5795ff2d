package munifin

import (
	"context"
	"regexp"
	"strings"
	"time"
)

// DefaultHeaderMarkers identify a header row when no markers are configured.
var DefaultHeaderMarkers = []string{"Jahr"}

// RawTable holds the text of one HTML table as rows of trimmed cells.
type RawTable [][]string

// TableParser turns an HTML document into its tables.
type TableParser interface {
	// ParseTables returns every table in document order. Rows without
	// cells are omitted; cell text is trimmed.
	ParseTables(html string) ([]RawTable, error)
}

// Extraction is one table accepted by the pipeline. SourceHash is a content
// hash of the header and records, set when the extraction is stored. Storing
// the same table from the same source twice is rejected with ECONFLICT.
type Extraction struct {
	ID         string    `json:"id"`
	SourceURL  string    `json:"sourceUrl"`
	SourceHash string    `json:"sourceHash"`
	TableIndex int       `json:"tableIndex"`
	Header     []string  `json:"header"`
	Records    []Record  `json:"records"`
	CreatedAt  time.Time `json:"createdAt"`
}

// Validate returns an error if the extraction contains invalid fields.
func (e *Extraction) Validate() error {
	if e.SourceURL == "" {
		return Errorf(EINVALID, "extraction source URL required")
	}
	if len(e.Header) == 0 {
		return Errorf(EINVALID, "extraction header required")
	}
	return nil
}

// ExtractionService represents a service for managing stored extractions.
type ExtractionService interface {
	// CreateExtraction stores an extraction and its records. Returns
	// ECONFLICT, with e.ID set to the stored extraction, if an identical
	// table from the same source URL is already stored.
	CreateExtraction(ctx context.Context, e *Extraction) error

	// FindExtractionByID retrieves an extraction with its records.
	// Returns ENOTFOUND if the extraction does not exist.
	FindExtractionByID(ctx context.Context, id string) (*Extraction, error)

	// FindExtractions retrieves extractions matching the filter, newest first.
	FindExtractions(ctx context.Context, filter ExtractionFilter) ([]*Extraction, error)

	// DeleteExtraction removes an extraction and its records.
	// Returns ENOTFOUND if the extraction does not exist.
	DeleteExtraction(ctx context.Context, id string) error
}

// ExtractionFilter represents a filter for FindExtractions.
type ExtractionFilter struct {
	ID         *string `json:"id"`
	SourceURL  *string `json:"sourceUrl"`
	SourceHash *string `json:"sourceHash"`

	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}

var yearRe = regexp.MustCompile(`^\d{4}$`)

// DetectHeader finds the first row of table containing a cell that includes
// one of markers. The rows after the header are returned as rest. When no
// row qualifies, ok is false and the table should be skipped.
// A nil markers slice means DefaultHeaderMarkers.
func DetectHeader(table RawTable, markers []string) (header []string, rest RawTable, ok bool) {
	if markers == nil {
		markers = DefaultHeaderMarkers
	}
	for i, row := range table {
		if hasMarker(row, markers) {
			return row, table[i+1:], true
		}
	}
	return nil, nil, false
}

func hasMarker(row []string, markers []string) bool {
	for _, cell := range row {
		for _, m := range markers {
			if m != "" && strings.Contains(cell, m) {
				return true
			}
		}
	}
	return false
}

// IsDataRow reports whether row has a cell that is a four-digit year.
func IsDataRow(row []string) bool {
	for _, cell := range row {
		if yearRe.MatchString(strings.TrimSpace(cell)) {
			return true
		}
	}
	return false
}

// ClassifyRows returns the data rows of rows in their original order.
// Dividers, totals and spacer rows carry no year and are dropped.
func ClassifyRows(rows RawTable) RawTable {
	var data RawTable
	for _, row := range rows {
		if IsDataRow(row) {
			data = append(data, row)
		}
	}
	return data
}

// AssembleRecords zips each row against header. Rows whose cell count
// differs from the header's are dropped, never truncated or padded.
func AssembleRecords(header []string, rows RawTable) []Record {
	var records []Record
	for _, row := range rows {
		if len(row) != len(header) {
			continue
		}
		records = append(records, Record{
			Labels: header,
			Values: append([]string(nil), row...),
		})
	}
	return records
}

// Extract runs header detection, row classification and record assembly
// over every table. Tables without a header or without records are skipped.
func Extract(tables []RawTable, markers []string) []*Extraction {
	var out []*Extraction
	for i, table := range tables {
		if e := extractTable(i, table, markers); e != nil {
			out = append(out, e)
		}
	}
	return out
}

// ExtractFirst returns the first table yielding a header and at least one
// record. Returns false if no table qualifies.
func ExtractFirst(tables []RawTable, markers []string) (*Extraction, bool) {
	for i, table := range tables {
		if e := extractTable(i, table, markers); e != nil {
			return e, true
		}
	}
	return nil, false
}

func extractTable(index int, table RawTable, markers []string) *Extraction {
	header, rest, ok := DetectHeader(table, markers)
	if !ok {
		return nil
	}
	header = append([]string(nil), header...)
	records := AssembleRecords(header, ClassifyRows(rest))
	if len(records) == 0 {
		return nil
	}
	return &Extraction{
		TableIndex: index,
		Header:     header,
		Records:    records,
	}
}

// Records flattens extractions into a single ordered record sequence.
func Records(extractions []*Extraction) []Record {
	var records []Record
	for _, e := range extractions {
		records = append(records, e.Records...)
	}
	return records
}
