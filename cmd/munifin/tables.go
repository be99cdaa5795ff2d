package main

import (
	"fmt"

	"github.com/fwojciec/munifin"
	"github.com/fwojciec/munifin/fs"
	"github.com/fwojciec/munifin/goquery"
	"github.com/fwojciec/munifin/resty"
)

// Run executes the tables command.
func (c *TablesCmd) Run(deps *Dependencies) error {
	html, err := deps.Fetcher.Fetch(deps.Ctx, c.URL)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: failed to fetch %s: %v\n", c.URL, err)
		return err
	}

	tables, err := deps.Parser.ParseTables(html)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", munifin.ErrorMessage(err))
		return err
	}

	var extractions []*munifin.Extraction
	if c.First {
		if e, ok := munifin.ExtractFirst(tables, c.Marker); ok {
			extractions = append(extractions, e)
		}
	} else {
		extractions = munifin.Extract(tables, c.Marker)
	}
	if len(extractions) == 0 {
		fmt.Fprintf(deps.Stderr, "error: no year table found at %s (%d tables on page)\n", c.URL, len(tables))
		return munifin.Errorf(munifin.ENOTFOUND, "no year table found at %s", c.URL)
	}

	for _, e := range extractions {
		e.SourceURL = c.URL
	}
	return emitExtractions(deps, extractions, c.Out, c.Preview)
}

// Run executes the lsn command.
func (c *LsnCmd) Run(deps *Dependencies) error {
	level, err := resty.ParseLevel(c.Level)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", munifin.ErrorMessage(err))
		return err
	}

	req := munifin.TableRequest{TableID: c.Table, RegionKey: c.Region, Level: level}
	html, err := deps.Session.FetchTable(deps.Ctx, req)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: failed to fetch table %s: %v\n", c.Table, err)
		return err
	}

	if region, ok := goquery.ParseRegion(html); ok {
		fmt.Fprintf(deps.Stderr, "Region: %s %s\n", region.Key, region.Name)
	}

	tables, err := deps.Parser.ParseTables(html)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", munifin.ErrorMessage(err))
		return err
	}

	extractions := munifin.Extract(tables, c.Marker)
	if len(extractions) == 0 {
		fmt.Fprintf(deps.Stderr, "error: table %s has no year rows for region %s\n", c.Table, c.Region)
		return munifin.Errorf(munifin.ENOTFOUND, "table %s has no year rows for region %s", c.Table, c.Region)
	}

	source := fmt.Sprintf("%s/html/mustertabelle.asp?DT=%s&UG=%d&RANGE0=%s",
		c.BaseURL, c.Table, level, resty.ShortKey(c.Region))
	for _, e := range extractions {
		e.SourceURL = source
	}
	return emitExtractions(deps, extractions, c.Out, c.Preview)
}

// emitExtractions stores the extractions and writes their records as CSV to
// out, or to stdout when out is empty. Preview only renders the records.
func emitExtractions(deps *Dependencies, extractions []*munifin.Extraction, out string, preview bool) error {
	records := munifin.Records(extractions)

	if preview {
		renderRecords(deps.Stdout, records)
		return nil
	}

	for _, e := range extractions {
		err := deps.Extractions.CreateExtraction(deps.Ctx, e)
		if munifin.ErrorCode(err) == munifin.ECONFLICT {
			fmt.Fprintf(deps.Stderr, "Extraction %s already stored (table %d)\n", e.ID, e.TableIndex)
			continue
		}
		if err != nil {
			fmt.Fprintf(deps.Stderr, "error: %s\n", munifin.ErrorMessage(err))
			return err
		}
		fmt.Fprintf(deps.Stderr, "Stored extraction %s (table %d, %d records)\n", e.ID, e.TableIndex, len(e.Records))
	}

	if out == "" {
		return fs.EncodeRecordsCSV(deps.Stdout, records)
	}
	if err := fs.WriteRecordsCSV(out, records); err != nil {
		fmt.Fprintf(deps.Stderr, "error: failed to write %s: %s\n", out, err)
		return err
	}
	fmt.Fprintf(deps.Stdout, "Wrote %d records to %s\n", len(records), out)
	return nil
}
