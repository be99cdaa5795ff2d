package munifin

import (
	"strconv"
	"strings"
)

// Record is one data row labelled by its table's header.
// Labels and Values always have the same length.
type Record struct {
	Labels []string `json:"labels"`
	Values []string `json:"values"`
}

// Get returns the raw text under label. The first matching column wins.
func (r Record) Get(label string) (string, bool) {
	for i, l := range r.Labels {
		if l == label {
			return r.Values[i], true
		}
	}
	return "", false
}

// Map returns the record as a label to value mapping. When a header repeats
// a label the first column wins.
func (r Record) Map() map[string]string {
	m := make(map[string]string, len(r.Labels))
	for i, l := range r.Labels {
		if _, ok := m[l]; !ok {
			m[l] = r.Values[i]
		}
	}
	return m
}

// Number parses the value under label as a locale-formatted number.
// Returns false if the column is missing or the cell is not numeric.
func (r Record) Number(label string) (float64, bool) {
	v, ok := r.Get(label)
	if !ok {
		return 0, false
	}
	return ParseNumber(v)
}

// Year returns the first four-digit year cell of the record.
func (r Record) Year() (int, bool) {
	for _, v := range r.Values {
		v = strings.TrimSpace(v)
		if yearRe.MatchString(v) {
			n, err := strconv.Atoi(v)
			return n, err == nil
		}
	}
	return 0, false
}

// Columns returns the union of record labels in first-appearance order,
// suitable as an export header.
func Columns(records []Record) []string {
	seen := make(map[string]bool)
	var cols []string
	for _, r := range records {
		for _, l := range r.Labels {
			if !seen[l] {
				seen[l] = true
				cols = append(cols, l)
			}
		}
	}
	return cols
}
