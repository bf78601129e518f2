// Copyright 2026 The vlsplot Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package chart

import (
	"image/color"

	"github.com/cockroachdb/errors"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

// A Series is one bar per category.
type Series struct {
	Label  string
	Values []float64

	// Low and High give the extent of each bar's error bar below
	// and above its value. If both are nil the series has no error
	// bars. A NaN entry draws no error bar for that bar; an
	// infinite Low entry draws it down past the bottom of the plot.
	Low, High []float64

	// Color fills the bars. If nil, a palette color is used.
	Color color.Color
}

// Bars is a grouped bar chart: one group per category, one bar per
// series within each group.
type Bars struct {
	Title, XLabel, YLabel string

	Categories []string
	Series     []Series

	// YTicks, if non-empty, replaces the default Y axis ticks.
	YTicks []Tick
	// YMin and YMax, if not both zero, fix the Y axis range.
	YMin, YMax float64

	// BarWidth is the width of each bar. Zero means 14 points.
	BarWidth vg.Length
}

// Plot builds the plot for b.
func (b *Bars) Plot() (*plot.Plot, error) {
	if len(b.Categories) == 0 {
		return nil, errors.New("bar chart has no categories")
	}
	for _, s := range b.Series {
		if len(s.Values) != len(b.Categories) {
			return nil, errors.Newf("series %q has %d values for %d categories", s.Label, len(s.Values), len(b.Categories))
		}
	}

	p := plot.New()
	p.Title.Text = b.Title
	p.X.Label.Text = b.XLabel
	p.Y.Label.Text = b.YLabel

	grid := plotter.NewGrid()
	grid.Vertical.Color = nil
	p.Add(grid)

	width := b.BarWidth
	if width == 0 {
		width = vg.Points(14)
	}
	spacing := vg.Points(2)
	// Total width of a group, center to center.
	groupWidth := (width + spacing) * vg.Length(len(b.Series)-1)

	palette := colors(len(b.Series))
	for i, s := range b.Series {
		bc, err := plotter.NewBarChart(plotter.Values(s.Values), width)
		if err != nil {
			return nil, errors.Wrapf(err, "series %q", s.Label)
		}
		bc.Offset = (width+spacing)*vg.Length(i) - groupWidth/2
		bc.Color = s.Color
		if bc.Color == nil {
			bc.Color = palette[i]
		}
		bc.LineStyle.Width = vg.Points(0.5)
		p.Add(bc)
		p.Legend.Add(s.Label, bc)

		if s.Low != nil || s.High != nil {
			p.Add(newErrorBars(s.Values, s.Low, s.High, bc.Offset))
		}
	}
	p.NominalX(b.Categories...)
	p.Legend.Top = true
	p.Legend.Left = true

	if len(b.YTicks) > 0 {
		p.Y.Tick.Marker = constantTicks(b.YTicks)
	}
	if b.YMin != 0 || b.YMax != 0 {
		p.Y.Min, p.Y.Max = b.YMin, b.YMax
	}
	return p, nil
}
