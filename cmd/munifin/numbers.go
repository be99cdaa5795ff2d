package main

import (
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/fwojciec/munifin"
)

// Run executes the numbers command.
func (c *NumbersCmd) Run(deps *Dependencies) error {
	var data []byte
	var err error
	if c.File != "" {
		data, err = os.ReadFile(c.File)
	} else {
		data, err = io.ReadAll(deps.Stdin)
	}
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: failed to read input: %v\n", err)
		return err
	}

	text := string(data)
	if c.HTML {
		result, err := deps.Extractor.Extract(text)
		if err != nil {
			fmt.Fprintf(deps.Stderr, "error: %s\n", munifin.ErrorMessage(err))
			return err
		}
		if result.Title != "" {
			fmt.Fprintf(deps.Stderr, "Title: %s\n", result.Title)
		}
		text = result.Text
	}

	numbers := munifin.ParseNumbers(text)
	if len(numbers) == 0 {
		fmt.Fprintln(deps.Stderr, "error: no numbers found")
		return munifin.Errorf(munifin.ENOTFOUND, "no numbers found")
	}

	for _, n := range numbers {
		fmt.Fprintln(deps.Stdout, strconv.FormatFloat(n, 'f', -1, 64))
	}
	return nil
}
