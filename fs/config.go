package fs

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/fwojciec/munifin"
	"gopkg.in/yaml.v3"
)

// ParseQueries decodes a query set from YAML of the form
//
//	queries:
//	  - query: Haushaltsplan 2025
//	    limit: 10
//	    date_from: "2024-01-01"
//	papers:
//	  - DS 89/2024
//
// Unknown keys are rejected. Every query is validated.
func ParseQueries(r io.Reader) (*munifin.QuerySet, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var set munifin.QuerySet
	if err := dec.Decode(&set); err != nil && !errors.Is(err, io.EOF) {
		return nil, munifin.Errorf(munifin.EINVALID, "invalid query file: %v", err)
	}
	for i := range set.Queries {
		if err := set.Queries[i].Validate(); err != nil {
			return nil, munifin.Errorf(munifin.EINVALID, "query %d: %s", i+1, munifin.ErrorMessage(err))
		}
	}
	return &set, nil
}

// LoadQueries reads a query set from a YAML file.
func LoadQueries(path string) (*munifin.QuerySet, error) {
	f, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, munifin.Errorf(munifin.ENOTFOUND, "query file %q not found", path)
	} else if err != nil {
		return nil, err
	}
	defer f.Close()

	set, err := ParseQueries(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return set, nil
}
