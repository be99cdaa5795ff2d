package crawl

import (
	"context"

	"github.com/fwojciec/munifin"
	"golang.org/x/sync/errgroup"
)

// DefaultConcurrency is the number of document searches run in parallel.
const DefaultConcurrency = 3

// SearchResult is the outcome of one query of a batch.
type SearchResult struct {
	Query     munifin.DocumentQuery
	Summaries []*munifin.DocumentSummary
	Err       error
}

// PaperResult is the outcome of one paper lookup of a batch.
type PaperResult struct {
	Reference string
	Summary   *munifin.DocumentSummary
	Err       error
}

// SearchAll runs the queries with at most concurrency searches in flight.
// Results are returned in query order regardless of completion order. A
// failed query is reported in its result and does not stop the others; only
// context cancellation aborts the batch.
func SearchAll(ctx context.Context, searcher munifin.DocumentSearcher, queries []munifin.DocumentQuery, concurrency int) ([]SearchResult, error) {
	results := make([]SearchResult, len(queries))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit(concurrency))
	for i, q := range queries {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			summaries, err := searcher.SearchDocuments(gctx, q)
			results[i] = SearchResult{Query: q, Summaries: summaries, Err: err}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return results, nil
}

// GetPapers looks up paper references the same way SearchAll runs queries.
func GetPapers(ctx context.Context, searcher munifin.DocumentSearcher, references []string, concurrency int) ([]PaperResult, error) {
	results := make([]PaperResult, len(references))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit(concurrency))
	for i, ref := range references {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			s, err := searcher.GetPaper(gctx, ref)
			results[i] = PaperResult{Reference: ref, Summary: s, Err: err}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return results, nil
}

// Summaries concatenates the summaries of successful searches and paper
// lookups in batch order, searches first.
func Summaries(searches []SearchResult, papers []PaperResult) []*munifin.DocumentSummary {
	var out []*munifin.DocumentSummary
	for _, r := range searches {
		if r.Err == nil {
			out = append(out, r.Summaries...)
		}
	}
	for _, r := range papers {
		if r.Err == nil && r.Summary != nil {
			out = append(out, r.Summary)
		}
	}
	return out
}

func limit(concurrency int) int {
	if concurrency < 1 {
		return DefaultConcurrency
	}
	return concurrency
}
