package main

import (
	"io"

	"github.com/fwojciec/munifin"
	"github.com/jedib0t/go-pretty/v6/table"
)

// renderRecords prints records as a terminal table with one column per label.
func renderRecords(w io.Writer, records []munifin.Record) {
	columns := munifin.Columns(records)

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleRounded)

	header := make(table.Row, len(columns))
	for i, col := range columns {
		header[i] = col
	}
	t.AppendHeader(header)

	for _, r := range records {
		row := make(table.Row, len(columns))
		for i, col := range columns {
			v, _ := r.Get(col)
			row[i] = v
		}
		t.AppendRow(row)
	}
	t.Render()
}
