// Copyright 2026 The vlsplot Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package report formats comparison tables of benchmark summaries.
//
// A Report holds one or more Tables followed by free-form lines. Its
// text form lays every table out in right-aligned columns of
// ColumnWidth characters, preceded by a blank line. A cell wider than
// ColumnWidth widens its column rather than being cut.
package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/cockroachdb/errors"

	"github.com/chronosdb/vlsplot/aggregate"
	"github.com/chronosdb/vlsplot/aggstat"
	"github.com/chronosdb/vlsplot/internal/texttab"
)

// ColumnWidth is the minimum width of every text table column.
const ColumnWidth = 24

// InsufficientData is the cell text for a configuration with no valid
// trial.
const InsufficientData = "insufficient data"

// A Report is the textual output of one figure.
type Report struct {
	Title string
	// Header lines are written before the tables, one per line.
	Header []string
	Tables []*Table
	// Lines are written after the tables, one per line.
	Lines []string
}

// A Table is a comparison table.
type Table struct {
	// Caption, if non-empty, is written above the table.
	Caption string
	// Columns labels the columns after the row label column.
	Columns []string
	Rows    []*Row
	// Notes are written below the table, one per line.
	Notes []string
}

// A Row is one configuration's line of a table.
type Row struct {
	Label string
	Cells []string
}

// NewTable returns an empty table with the given column labels.
func NewTable(columns ...string) *Table {
	return &Table{Columns: columns}
}

// AddRow appends a row to t.
func (t *Table) AddRow(label string, cells ...string) *Row {
	r := &Row{Label: label, Cells: cells}
	t.Rows = append(t.Rows, r)
	return r
}

// AddComparison appends a row holding the baseline summary, the
// variant summary and their percent change. A zero-baseline warning
// becomes a note below the table.
func (t *Table) AddComparison(label string, cmp *aggregate.Comparison) *Row {
	r := t.AddRow(label, SummaryCell(cmp.Baseline), SummaryCell(cmp.Variant), DeltaCell(cmp))
	for _, w := range cmp.Warnings {
		if errors.Is(w, aggstat.ErrZeroBaseline) {
			t.Notes = append(t.Notes, fmt.Sprintf("%s: P is 0.00%%: baseline mean is zero", label))
		}
	}
	return r
}

// SummaryCell formats s as "mean ± std", or InsufficientData if s is
// nil.
func SummaryCell(s *aggstat.Summary) string {
	if s == nil {
		return InsufficientData
	}
	return s.String()
}

// DeltaCell formats the percent change of cmp, or InsufficientData if
// either side has no valid trial.
func DeltaCell(cmp *aggregate.Comparison) string {
	if !cmp.HaveDelta {
		return InsufficientData
	}
	return aggstat.FormatDelta(cmp.Delta)
}

// WriteText writes t as fixed-width text: a header row with a blank
// corner, then one line per row, then the notes.
func (t *Table) WriteText(w io.Writer) error {
	var tab texttab.Table
	for col := 0; col <= len(t.Columns); col++ {
		tab.SetMinWidth(col, ColumnWidth)
	}
	tab.Row().Cell("", texttab.Right)
	for _, c := range t.Columns {
		tab.Cell(c, texttab.Right)
	}
	for _, r := range t.Rows {
		tab.Row().Cell(r.Label, texttab.Right)
		for _, c := range r.Cells {
			tab.Cell(c, texttab.Right)
		}
	}
	if t.Caption != "" {
		if _, err := fmt.Fprintln(w, t.Caption); err != nil {
			return err
		}
	}
	if err := tab.Format(w); err != nil {
		return err
	}
	for _, n := range t.Notes {
		if _, err := fmt.Fprintf(w, "note: %s\n", n); err != nil {
			return err
		}
	}
	return nil
}

// WriteText writes r's header, then every table of r, each preceded
// by a blank line, then r's lines.
func (r *Report) WriteText(w io.Writer) error {
	for _, l := range r.Header {
		if _, err := io.WriteString(w, l+"\n"); err != nil {
			return err
		}
	}
	for _, t := range r.Tables {
		if _, err := io.WriteString(w, "\n"); err != nil {
			return err
		}
		if err := t.WriteText(w); err != nil {
			return err
		}
	}
	for _, l := range r.Lines {
		if _, err := io.WriteString(w, l+"\n"); err != nil {
			return err
		}
	}
	return nil
}

// String returns the text form of r.
func (r *Report) String() string {
	var b strings.Builder
	r.WriteText(&b)
	return b.String()
}
