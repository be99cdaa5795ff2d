package munifin

import (
	"regexp"
	"time"
)

// Catalog is the export shape of a document search run: the deduplicated
// summaries plus their grouping by a caller-chosen key.
type Catalog struct {
	Source    string             `yaml:"source"`
	FetchedAt time.Time          `yaml:"fetched_at"`
	Documents []*DocumentSummary `yaml:"documents"`
	Groups    []CatalogGroup     `yaml:"groups"`
}

// CatalogGroup lists the documents sharing a key, by reference or title.
type CatalogGroup struct {
	Key       string   `yaml:"key"`
	Documents []string `yaml:"documents"`
}

// SummaryGroup is a set of summaries sharing a key.
type SummaryGroup struct {
	Key       string
	Summaries []*DocumentSummary
}

// GroupSummaries groups summaries by key. Groups appear in order of their
// first member and members keep their relative order.
func GroupSummaries(summaries []*DocumentSummary, key func(*DocumentSummary) string) []SummaryGroup {
	index := make(map[string]int)
	var groups []SummaryGroup
	for _, s := range summaries {
		k := key(s)
		i, ok := index[k]
		if !ok {
			i = len(groups)
			index[k] = i
			groups = append(groups, SummaryGroup{Key: k})
		}
		groups[i].Summaries = append(groups[i].Summaries, s)
	}
	return groups
}

var titleYearRe = regexp.MustCompile(`\b(19|20)\d{2}\b`)

// YearKey groups summaries by year: the year of Date if it starts with one,
// otherwise the first year mentioned in the title, otherwise "".
func YearKey(s *DocumentSummary) string {
	if len(s.Date) >= 4 && yearRe.MatchString(s.Date[:4]) {
		return s.Date[:4]
	}
	return titleYearRe.FindString(s.Title)
}

// NewCatalog builds a catalog from already deduplicated summaries.
func NewCatalog(source string, fetchedAt time.Time, summaries []*DocumentSummary, key func(*DocumentSummary) string) *Catalog {
	c := &Catalog{
		Source:    source,
		FetchedAt: fetchedAt,
		Documents: summaries,
	}
	for _, g := range GroupSummaries(summaries, key) {
		group := CatalogGroup{Key: g.Key}
		for _, s := range g.Summaries {
			label := s.Reference
			if label == "" {
				label = s.Title
			}
			group.Documents = append(group.Documents, label)
		}
		c.Groups = append(c.Groups, group)
	}
	return c
}
