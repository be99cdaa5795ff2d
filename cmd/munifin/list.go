package main

import (
	"fmt"

	"github.com/fwojciec/munifin"
)

// Run executes the list command.
func (c *ListCmd) Run(deps *Dependencies) error {
	extractions, err := deps.Extractions.FindExtractions(deps.Ctx, munifin.ExtractionFilter{})
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", munifin.ErrorMessage(err))
		return err
	}

	summaries, err := deps.Summaries.FindSummaries(deps.Ctx, munifin.SummaryFilter{})
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", munifin.ErrorMessage(err))
		return err
	}

	if len(extractions) == 0 {
		fmt.Fprintln(deps.Stdout, "No extractions found. Use 'munifin tables' or 'munifin lsn' to fetch some.")
	}

	for _, e := range extractions {
		fmt.Fprintf(deps.Stdout, "%s  %s  table %d  %d records  %s\n",
			e.ID, e.CreatedAt.Format("2006-01-02 15:04"), e.TableIndex, len(e.Records), e.SourceURL)
	}

	fmt.Fprintf(deps.Stdout, "%d documents stored\n", len(summaries))
	return nil
}
