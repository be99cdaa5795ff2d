package munifin

import "context"

// DocumentQuery is one full-text search against the document server.
type DocumentQuery struct {
	Query    string `json:"query" yaml:"query"`
	Limit    int    `json:"limit,omitempty" yaml:"limit,omitempty"`
	DateFrom string `json:"dateFrom,omitempty" yaml:"date_from,omitempty"`
}

// Validate returns an error if the query contains invalid fields.
func (q *DocumentQuery) Validate() error {
	if q.Query == "" {
		return Errorf(EINVALID, "search query required")
	}
	if q.Limit < 0 {
		return Errorf(EINVALID, "search limit must not be negative")
	}
	return nil
}

// QuerySet is a batch of searches and paper lookups run together.
type QuerySet struct {
	Queries []DocumentQuery `json:"queries" yaml:"queries"`
	Papers  []string        `json:"papers" yaml:"papers"`
}

// DocumentSearcher looks up documents on the document server.
type DocumentSearcher interface {
	// SearchDocuments returns the server's results for q in ranking order.
	// Results may repeat documents returned by other queries.
	SearchDocuments(ctx context.Context, q DocumentQuery) ([]*DocumentSummary, error)

	// GetPaper retrieves a single paper by its reference code.
	// Returns ENOTFOUND if the server has no such paper.
	GetPaper(ctx context.Context, reference string) (*DocumentSummary, error)

	// Close ends the session with the server.
	Close() error
}
