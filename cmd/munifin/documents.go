package main

import (
	_ "embed"
	"fmt"
	"strings"

	"github.com/fwojciec/munifin"
	"github.com/fwojciec/munifin/bloom"
	"github.com/fwojciec/munifin/crawl"
	"github.com/fwojciec/munifin/fs"
)

// defaultQueries searches for budget plans and annual accounts.
//
//go:embed queries.yaml
var defaultQueries string

// Run executes the documents command.
func (c *DocumentsCmd) Run(deps *Dependencies) error {
	set, err := c.querySet()
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", munifin.ErrorMessage(err))
		return err
	}

	queries := set.Queries
	if c.Limit > 0 {
		for i := range queries {
			queries[i].Limit = c.Limit
		}
	}
	papers := set.Papers
	if len(c.Paper) > 0 {
		papers = c.Paper
	}

	searches, err := crawl.SearchAll(deps.Ctx, deps.Searcher, queries, c.Concurrency)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", munifin.ErrorMessage(err))
		return err
	}
	failed := 0
	for _, r := range searches {
		if r.Err != nil {
			failed++
			fmt.Fprintf(deps.Stderr, "warning: search %q failed: %s\n", r.Query.Query, munifin.ErrorMessage(r.Err))
		}
	}

	lookups, err := crawl.GetPapers(deps.Ctx, deps.Searcher, papers, c.Concurrency)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", munifin.ErrorMessage(err))
		return err
	}
	for _, r := range lookups {
		switch {
		case r.Err == nil:
		case munifin.ErrorCode(r.Err) == munifin.ENOTFOUND:
			fmt.Fprintf(deps.Stderr, "warning: paper %q not found\n", r.Reference)
		default:
			fmt.Fprintf(deps.Stderr, "warning: paper %q failed: %s\n", r.Reference, munifin.ErrorMessage(r.Err))
		}
	}

	if len(queries) > 0 && failed == len(queries) {
		fmt.Fprintln(deps.Stderr, "error: every search failed")
		return munifin.Errorf(munifin.EUNAVAILABLE, "every search failed")
	}

	all := crawl.Summaries(searches, lookups)
	summaries := munifin.Dedupe(all)

	seen, err := storedFingerprints(deps, len(summaries))
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", munifin.ErrorMessage(err))
		return err
	}
	fresh := munifin.DedupeWith(seen, summaries)
	if deps.Logger != nil {
		deps.Logger.Debug("dedupe documents", "found", len(summaries), "fresh", len(fresh), "known", len(summaries)-len(fresh), "false_positives", seen.FalsePositives())
	}

	stored := 0
	for _, s := range fresh {
		err := deps.Summaries.CreateSummary(deps.Ctx, s)
		switch munifin.ErrorCode(err) {
		case "":
			stored++
		case munifin.ECONFLICT:
		case munifin.EINVALID:
			fmt.Fprintf(deps.Stderr, "warning: skipping document: %s\n", munifin.ErrorMessage(err))
		default:
			fmt.Fprintf(deps.Stderr, "error: %s\n", munifin.ErrorMessage(err))
			return err
		}
	}
	fmt.Fprintf(deps.Stderr, "Found %d documents (%d new)\n", len(summaries), stored)

	catalog := munifin.NewCatalog(c.Endpoint, deps.Now(), summaries, munifin.YearKey)
	if c.Out == "" {
		return fs.EncodeCatalogYAML(deps.Stdout, catalog)
	}
	if err := fs.WriteCatalogYAML(c.Out, catalog); err != nil {
		fmt.Fprintf(deps.Stderr, "error: failed to write %s: %s\n", c.Out, err)
		return err
	}
	fmt.Fprintf(deps.Stdout, "Wrote %d documents to %s\n", len(summaries), c.Out)
	return nil
}

// storedFingerprints returns a set preloaded with the fingerprints of every
// stored summary, sized for n more.
func storedFingerprints(deps *Dependencies, n int) (*bloom.Set, error) {
	existing, err := deps.Summaries.FindSummaries(deps.Ctx, munifin.SummaryFilter{})
	if err != nil {
		return nil, err
	}
	fps := make([]string, 0, len(existing))
	for _, s := range existing {
		if s.Fingerprint != "" {
			fps = append(fps, s.Fingerprint)
		}
	}
	set := bloom.NewSet(uint(len(fps) + n))
	set.Preload(fps)
	return set, nil
}

func (c *DocumentsCmd) querySet() (*munifin.QuerySet, error) {
	if c.Queries != "" {
		return fs.LoadQueries(c.Queries)
	}
	return fs.ParseQueries(strings.NewReader(defaultQueries))
}
