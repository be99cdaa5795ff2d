package main

import (
	"fmt"

	"github.com/fwojciec/munifin"
	"github.com/fwojciec/munifin/fs"
)

// Run executes the show command.
func (c *ShowCmd) Run(deps *Dependencies) error {
	e, err := deps.Extractions.FindExtractionByID(deps.Ctx, c.ID)
	if munifin.ErrorCode(err) == munifin.ENOTFOUND {
		fmt.Fprintf(deps.Stderr, "error: extraction %q not found. Use 'munifin list' to see stored extractions.\n", c.ID)
		return err
	} else if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", munifin.ErrorMessage(err))
		return err
	}

	return fs.EncodeRecordsCSV(deps.Stdout, e.Records)
}
