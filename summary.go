package munifin

import (
	"context"
	"time"
	"unicode/utf8"
)

// MaxExcerptLength is the number of runes of a search excerpt that are kept.
const MaxExcerptLength = 500

// DocumentSummary describes one document returned by the document server.
// Its identity is Fingerprint, a hash of the document's source bytes.
type DocumentSummary struct {
	ID          string    `json:"id" yaml:"-"`
	Fingerprint string    `json:"fingerprint" yaml:"fingerprint,omitempty"`
	Title       string    `json:"title" yaml:"title"`
	Reference   string    `json:"reference" yaml:"reference,omitempty"`
	Date        string    `json:"date" yaml:"date,omitempty"`
	SourceURL   string    `json:"sourceUrl" yaml:"source_url,omitempty"`
	OParlID     string    `json:"oparlId" yaml:"oparl_id,omitempty"`
	Excerpt     string    `json:"excerpt" yaml:"excerpt,omitempty"`
	FetchedAt   time.Time `json:"fetchedAt" yaml:"-"`
}

// Validate returns an error if the summary contains invalid fields.
func (s *DocumentSummary) Validate() error {
	if s.Title == "" && s.Reference == "" {
		return Errorf(EINVALID, "document title or reference required")
	}
	return nil
}

// TruncateExcerpt cuts s to at most MaxExcerptLength runes.
func TruncateExcerpt(s string) string {
	if utf8.RuneCountInString(s) <= MaxExcerptLength {
		return s
	}
	return string([]rune(s)[:MaxExcerptLength])
}

// FingerprintSet records fingerprints that have been seen.
type FingerprintSet interface {
	// Add records fp and reports whether it was not yet in the set.
	Add(fp string) bool
}

type fingerprintMap map[string]struct{}

func (m fingerprintMap) Add(fp string) bool {
	if _, ok := m[fp]; ok {
		return false
	}
	m[fp] = struct{}{}
	return true
}

// Dedupe returns the first-seen summary for every fingerprint, in order of
// first appearance. Summaries without a fingerprint are always kept.
func Dedupe(summaries []*DocumentSummary) []*DocumentSummary {
	return DedupeWith(make(fingerprintMap), summaries)
}

// DedupeWith is like Dedupe but records fingerprints in set, so repeated
// calls sharing a set also drop duplicates across calls.
func DedupeWith(set FingerprintSet, summaries []*DocumentSummary) []*DocumentSummary {
	out := make([]*DocumentSummary, 0, len(summaries))
	for _, s := range summaries {
		if s == nil {
			continue
		}
		if s.Fingerprint != "" && !set.Add(s.Fingerprint) {
			continue
		}
		out = append(out, s)
	}
	return out
}

// SummaryService represents a service for managing stored document summaries.
type SummaryService interface {
	// CreateSummary stores a summary.
	// Returns ECONFLICT if a summary with the same non-empty fingerprint exists.
	CreateSummary(ctx context.Context, s *DocumentSummary) error

	// FindSummaries retrieves summaries matching the filter in insertion order.
	FindSummaries(ctx context.Context, filter SummaryFilter) ([]*DocumentSummary, error)
}

// SummaryFilter represents a filter for FindSummaries.
type SummaryFilter struct {
	Fingerprint *string `json:"fingerprint"`
	Reference   *string `json:"reference"`

	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}
