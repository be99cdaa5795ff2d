package main

import (
	"fmt"

	"github.com/fwojciec/munifin"
)

// Run executes the delete command.
func (c *DeleteCmd) Run(deps *Dependencies) error {
	if !c.Force {
		fmt.Fprintf(deps.Stderr, "error: use --force to confirm deletion\n")
		return munifin.Errorf(munifin.EINVALID, "use --force to confirm deletion")
	}

	err := deps.Extractions.DeleteExtraction(deps.Ctx, c.ID)
	if munifin.ErrorCode(err) == munifin.ENOTFOUND {
		fmt.Fprintf(deps.Stderr, "error: extraction %q not found. Use 'munifin list' to see stored extractions.\n", c.ID)
		return err
	} else if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", munifin.ErrorMessage(err))
		return err
	}

	fmt.Fprintf(deps.Stdout, "Deleted extraction %s\n", c.ID)
	return nil
}
