// Copyright 2026 The vlsplot Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package texttab

import (
	"strings"
	"testing"
)

func TestAlign(t *testing.T) {
	check := func(s string, a Align, w int, want string) {
		t.Helper()
		got := a.pad(s, w)
		if got != want {
			t.Errorf("want %q, got %q", want, got)
		}
	}

	check("abc", Left, 10, "abc")
	check("abc", Center, 10, "   abc")
	check("abc", Right, 10, "       abc")
	check("abcdef", Right, 3, "abcdef")
	check("±", Right, 4, "   ±")
}

func TestTable(t *testing.T) {
	var tab Table
	check := func(want string) {
		t.Helper()
		var gotBuf strings.Builder
		if err := tab.Format(&gotBuf); err != nil {
			t.Fatal(err)
		}
		got := gotBuf.String()
		if want != got {
			t.Errorf("want:\n%sgot:\n%s", want, got)
		}
		tab = Table{}
	}

	// Measured widths with a margin.
	tab.Margin = " "
	tab.Row().Cell("a", Left).Cell("b", Left).Cell("c", Left)
	tab.Row().Cell("long", Left).Cell("e", Left).Cell("long", Left)
	check("a    b c\nlong e long\n")

	// No margin.
	tab.Row().Cell("a", Left).Cell("b", Right)
	tab.Row().Cell("cc", Left).Cell("dd", Right)
	check("a  b\nccdd\n")

	// Fixed-width right-aligned columns with a blank corner.
	for col := 0; col < 3; col++ {
		tab.SetMinWidth(col, 6)
	}
	tab.Row().Cell("", Right).Cell("x", Right).Cell("y", Right)
	tab.Row().Cell("r1", Right).Cell("1", Right).Cell("22", Right)
	check("           x     y\n    r1     1    22\n")

	// A cell wider than the minimum widens its column.
	tab.SetMinWidth(0, 3)
	tab.SetMinWidth(1, 3)
	tab.Row().Cell("a", Right).Cell("b", Right)
	tab.Row().Cell("a", Right).Cell("wide", Right)
	check("  a   b\n  awide\n")

	// Missing cell in the middle.
	tab.Margin = " "
	tab.Row().Cell("a", Left).Col(2).Cell("c", Left)
	tab.Row().Cell("d", Left).Cell("e", Left).Cell("f", Left)
	check("a   c\nd e f\n")

	// Blank rows.
	tab.Row().Cell("a", Left)
	tab.Row()
	tab.Row()
	tab.Row().Cell("b", Left)
	check("a\n\n\nb\n")

	// Spans widen their last column.
	tab.Margin = " "
	tab.Row().Cell("a", Left).Cell("b", Left)
	tab.Row().Span(2, "abcdefg", Left)
	check("a b\nabcdefg\n")

	tab.Margin = " "
	tab.Row().Cell("abc", Left).Cell("def", Left)
	tab.Row().Span(2, "a", Right)
	check("abc def\n      a\n")

	// Empty table.
	check("")
}
