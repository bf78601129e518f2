// Copyright 2026 The vlsplot Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package texttab lays out plain-text tables.
//
// Columns are as wide as their widest cell, or as their configured
// minimum width if that is larger. Cells are never truncated: a cell
// wider than its column's minimum widens the whole column.
package texttab

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"unicode/utf8"
)

// Table does layout of text-based tables.
//
// Its building methods return the Table so callers can chain them to
// add a whole row at once.
type Table struct {
	// Margin is the separator placed before every column but the
	// first. The zero value is no separator at all, which suits
	// tables whose columns have minimum widths.
	Margin string

	cells    []cell
	cols     int
	minWidth []int

	curRow, curCol int
}

type cell struct {
	row, col, span int
	value          string
	align          Align
}

// Align is a cell's alignment within its column.
type Align int

const (
	Left Align = iota
	Center
	Right
)

func (a Align) pad(s string, w int) string {
	n := w - utf8.RuneCountInString(s)
	if n <= 0 {
		return s
	}
	switch a {
	case Center:
		return strings.Repeat(" ", n/2) + s
	case Right:
		return strings.Repeat(" ", n) + s
	}
	return s
}

// Row starts a new row in table t.
func (t *Table) Row() *Table {
	if len(t.cells) > 0 {
		t.curRow++
	}
	t.curCol = 0
	return t
}

// Col skips to column col of the current row. Columns are numbered
// from 0.
func (t *Table) Col(col int) *Table {
	if col < t.curCol {
		panic(fmt.Sprintf("cannot move from column %d to earlier column %d", t.curCol, col))
	}
	t.curCol = col
	return t
}

// Cell adds a single-column cell at the current row and column.
func (t *Table) Cell(value string, align Align) *Table {
	return t.Span(1, value, align)
}

// Span adds a cell covering cols columns at the current row and
// column.
func (t *Table) Span(cols int, value string, align Align) *Table {
	t.cells = append(t.cells, cell{t.curRow, t.curCol, cols, value, align})
	t.curCol += cols
	if t.curCol > t.cols {
		t.cols = t.curCol
	}
	return t
}

// SetMinWidth sets the minimum width of column col, excluding its
// margin.
func (t *Table) SetMinWidth(col, width int) {
	for len(t.minWidth) <= col {
		t.minWidth = append(t.minWidth, 0)
	}
	t.minWidth[col] = width
}

func (t *Table) margin(col int) int {
	if col == 0 {
		return 0
	}
	return utf8.RuneCountInString(t.Margin)
}

// widths returns the width of each column, excluding margins.
func (t *Table) widths() []int {
	ncols := t.cols
	if len(t.minWidth) > ncols {
		ncols = len(t.minWidth)
	}
	ws := make([]int, ncols)
	copy(ws, t.minWidth)

	cells := append([]cell(nil), t.cells...)
	sort.SliceStable(cells, func(i, j int) bool {
		return cells[i].span < cells[j].span
	})
	for _, c := range cells {
		w := utf8.RuneCountInString(c.value)
		if c.span == 1 {
			if w > ws[c.col] {
				ws[c.col] = w
			}
			continue
		}
		// A spanning cell that does not fit grows its last
		// column.
		tw := 0
		for col := c.col; col < c.col+c.span; col++ {
			tw += ws[col]
			if col > c.col {
				tw += t.margin(col)
			}
		}
		if tw < w {
			ws[c.col+c.span-1] += w - tw
		}
	}
	return ws
}

// Format lays out table t and writes it to w. Trailing blank cells
// are not printed.
func (t *Table) Format(w io.Writer) error {
	ws := t.widths()

	// offs[i] is where column i's margin begins.
	offs := make([]int, len(ws)+1)
	for i, cw := range ws {
		offs[i+1] = offs[i] + t.margin(i) + cw
	}

	cells := append([]cell(nil), t.cells...)
	sort.SliceStable(cells, func(i, j int) bool {
		if cells[i].row != cells[j].row {
			return cells[i].row < cells[j].row
		}
		return cells[i].col < cells[j].col
	})

	var b strings.Builder
	row, off := 0, 0
	for _, c := range cells {
		if strings.TrimSpace(c.value) == "" {
			continue
		}
		for c.row > row {
			b.WriteByte('\n')
			row++
			off = 0
		}
		b.WriteString(strings.Repeat(" ", offs[c.col]-off))
		if c.col > 0 {
			b.WriteString(t.Margin)
		}
		start := offs[c.col] + t.margin(c.col)
		tw := offs[c.col+c.span] - start
		s := c.align.pad(c.value, tw)
		b.WriteString(s)
		off = start + utf8.RuneCountInString(s)
	}
	if len(cells) > 0 {
		b.WriteByte('\n')
	}
	_, err := io.WriteString(w, b.String())
	return err
}
