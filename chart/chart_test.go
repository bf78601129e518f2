// Copyright 2026 The vlsplot Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package chart

import (
	"bytes"
	"math"
	"os"
	"path/filepath"
	"testing"

	"gonum.org/v1/plot/plotter"
)

var pngMagic = []byte("\x89PNG\r\n\x1a\n")

func TestErrorBarsDataRange(t *testing.T) {
	check := func(e *errorBars, ymin, ymax float64) {
		t.Helper()
		xmin, xmax, gotMin, gotMax := e.DataRange()
		if xmin != 0 || xmax != float64(len(e.values)-1) {
			t.Errorf("x range [%v, %v], want [0, %d]", xmin, xmax, len(e.values)-1)
		}
		if gotMin != ymin || gotMax != ymax {
			t.Errorf("y range [%v, %v], want [%v, %v]", gotMin, gotMax, ymin, ymax)
		}
	}
	check(newErrorBars([]float64{2, 5}, []float64{1, 2}, []float64{1, 3}, 0), 1, 8)
	// Unbounded below: the bar's value bounds the range.
	check(newErrorBars([]float64{2, 5}, []float64{math.Inf(1), 1}, []float64{1, 1}, 0), 2, 6)
	// NaN extents are skipped.
	check(newErrorBars([]float64{0, 5}, []float64{math.NaN(), 1}, []float64{math.NaN(), 1}, 0), 4, 6)
	check(newErrorBars([]float64{0}, []float64{math.NaN()}, []float64{math.NaN()}, 0), 0, 0)
}

func TestBars(t *testing.T) {
	b := &Bars{
		Title:      "Index Rate: 25%",
		XLabel:     "Concurrent Analytics",
		YLabel:     "Latency (ms)",
		Categories: []string{"0", "1", "8"},
		Series: []Series{
			{Label: "MongoDB", Values: []float64{1, 2, 3}, Low: []float64{0.1, 0.2, 0.3}, High: []float64{0.1, 0.2, 0.3}},
			{Label: "MongoDB-VLS", Values: []float64{1.5, 0, 2}, Low: []float64{math.Inf(1), math.NaN(), 0.1}, High: []float64{0.5, math.NaN(), 0.1}},
		},
		YTicks: LogTicks,
		YMin:   0,
		YMax:   4,
	}
	p, err := b.Plot()
	if err != nil {
		t.Fatal(err)
	}
	if p.Y.Max != 4 {
		t.Errorf("Y.Max = %v, want 4", p.Y.Max)
	}
	var buf bytes.Buffer
	if err := WritePNG(&buf, p, Size{}); err != nil {
		t.Fatal(err)
	}
	if !bytes.HasPrefix(buf.Bytes(), pngMagic) {
		t.Errorf("output is not a PNG")
	}

	b.Series[0].Values = b.Series[0].Values[:2]
	if _, err := b.Plot(); err == nil {
		t.Errorf("mismatched series length: want error")
	}
	if _, err := (&Bars{}).Plot(); err == nil {
		t.Errorf("no categories: want error")
	}
}

func TestLines(t *testing.T) {
	x := []float64{1, 2, 3, 4}
	l := &Lines{
		Title: "testdb_100m",
		Lines: []Line{
			{Label: "shared", X: x, Y: []float64{1, 2, 2, 1}},
			{Label: "unreclaimed", X: x, Y: []float64{1, 3, 3, 3}, Dashed: true},
			{Label: "per analytic", X: x, Y: []float64{2, 3, 3.5, 3}},
		},
		Fill:   &Fill{Lower: 0, Upper: 1, From: 1, Label: "saved"},
		YTicks: LogTicks,
	}
	poly, err := l.fillPolygon(l.Fill)
	if err != nil {
		t.Fatal(err)
	}
	want := plotter.XYs{{X: 2, Y: 3}, {X: 3, Y: 3}, {X: 4, Y: 3}, {X: 4, Y: 1}, {X: 3, Y: 2}, {X: 2, Y: 2}}
	if got := poly.XYs[0]; len(got) != len(want) {
		t.Errorf("fill ring = %v, want %v", got, want)
	} else {
		for i := range want {
			if got[i] != want[i] {
				t.Errorf("fill ring = %v, want %v", got, want)
				break
			}
		}
	}

	path := filepath.Join(t.TempDir(), "remset", "size.png")
	p, err := l.Plot()
	if err != nil {
		t.Fatal(err)
	}
	if err := SavePNG(path, p, Size{}); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.HasPrefix(data, pngMagic) {
		t.Errorf("%s is not a PNG", path)
	}

	// An empty fill region is not an error.
	l.Fill.From = -1
	if poly, err := l.fillPolygon(l.Fill); err != nil || poly != nil {
		t.Errorf("empty fill: got %v, %v", poly, err)
	}
	l.Fill.Upper = 7
	if _, err := l.Plot(); err == nil {
		t.Errorf("bad fill line: want error")
	}
}
