// Package goquery implements HTML parsing for munifin using goquery.
package goquery

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/munifin"
)

// Ensure TableParser implements munifin.TableParser at compile time.
var _ munifin.TableParser = (*TableParser)(nil)

// TableParser extracts the text of every <table> element.
// Rows of nested tables belong to the nested table only, so layout tables
// on frame-based pages do not swallow the data tables they contain.
type TableParser struct{}

// NewTableParser creates a new TableParser.
func NewTableParser() *TableParser {
	return &TableParser{}
}

// ParseTables returns every non-empty table in document order.
func (p *TableParser) ParseTables(html string) ([]munifin.RawTable, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, munifin.Errorf(munifin.EINVALID, "failed to parse HTML: %v", err)
	}

	var tables []munifin.RawTable
	doc.Find("table").Each(func(_ int, tbl *goquery.Selection) {
		var table munifin.RawTable
		tbl.Find("tr").Each(func(_ int, tr *goquery.Selection) {
			if !tr.Closest("table").IsSelection(tbl) {
				return
			}
			var row []string
			tr.ChildrenFiltered("td, th").Each(func(_ int, cell *goquery.Selection) {
				row = append(row, cellText(cell))
			})
			if len(row) > 0 {
				table = append(table, row)
			}
		})
		if len(table) > 0 {
			tables = append(tables, table)
		}
	})

	return tables, nil
}

// cellText collapses all whitespace, including &nbsp;, to single spaces.
func cellText(cell *goquery.Selection) string {
	return strings.Join(strings.Fields(cell.Text()), " ")
}
