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

// A Line is one series of a line chart.
type Line struct {
	Label string
	X, Y  []float64
	// Dashed draws the line dashed.
	Dashed bool
	// Color is the line color. If nil, a palette color is used.
	Color color.Color
}

// A Fill shades the region between two lines of a chart.
type Fill struct {
	// Lower and Upper index the bounding lines. They must have
	// the same X values.
	Lower, Upper int
	// From is the first point index of the shaded region.
	From  int
	Label string
	Color color.Color
}

// Lines is a line chart.
type Lines struct {
	Title, XLabel, YLabel string

	Lines []Line
	// Fill, if non-nil, shades a region between two lines.
	Fill *Fill

	YTicks     []Tick
	YMin, YMax float64
}

// Plot builds the plot for l.
func (l *Lines) Plot() (*plot.Plot, error) {
	if len(l.Lines) == 0 {
		return nil, errors.New("line chart has no lines")
	}
	p := plot.New()
	p.Title.Text = l.Title
	p.X.Label.Text = l.XLabel
	p.Y.Label.Text = l.YLabel
	p.Add(plotter.NewGrid())

	if f := l.Fill; f != nil {
		poly, err := l.fillPolygon(f)
		if err != nil {
			return nil, err
		}
		if poly != nil {
			p.Add(poly)
			if f.Label != "" {
				p.Legend.Add(f.Label, poly)
			}
		}
	}

	palette := colors(len(l.Lines))
	for i, s := range l.Lines {
		if len(s.X) != len(s.Y) {
			return nil, errors.Newf("line %q has %d X and %d Y values", s.Label, len(s.X), len(s.Y))
		}
		xys := make(plotter.XYs, len(s.X))
		for j := range xys {
			xys[j].X, xys[j].Y = s.X[j], s.Y[j]
		}
		ln, err := plotter.NewLine(xys)
		if err != nil {
			return nil, errors.Wrapf(err, "line %q", s.Label)
		}
		ln.Width = vg.Points(1.5)
		ln.Color = s.Color
		if ln.Color == nil {
			ln.Color = palette[i]
		}
		if s.Dashed {
			ln.Dashes = []vg.Length{vg.Points(6), vg.Points(3)}
		}
		p.Add(ln)
		p.Legend.Add(s.Label, ln)
	}
	p.Legend.Top = true
	p.Legend.Left = true

	if len(l.YTicks) > 0 {
		p.Y.Tick.Marker = constantTicks(l.YTicks)
	}
	if l.YMin != 0 || l.YMax != 0 {
		p.Y.Min, p.Y.Max = l.YMin, l.YMax
	}
	return p, nil
}

// fillPolygon returns the polygon between f's lines from point f.From
// on, or nil if that region is empty.
func (l *Lines) fillPolygon(f *Fill) (*plotter.Polygon, error) {
	if f.Lower < 0 || f.Lower >= len(l.Lines) || f.Upper < 0 || f.Upper >= len(l.Lines) {
		return nil, errors.Newf("fill between lines %d and %d of %d", f.Lower, f.Upper, len(l.Lines))
	}
	lo, hi := l.Lines[f.Lower], l.Lines[f.Upper]
	if len(lo.X) != len(hi.X) {
		return nil, errors.Newf("fill between lines of %d and %d points", len(lo.X), len(hi.X))
	}
	if f.From < 0 || f.From >= len(lo.X)-1 {
		return nil, nil
	}
	// Upper edge forward, lower edge back.
	var ring plotter.XYs
	for i := f.From; i < len(hi.X); i++ {
		ring = append(ring, plotter.XY{X: hi.X[i], Y: hi.Y[i]})
	}
	for i := len(lo.X) - 1; i >= f.From; i-- {
		ring = append(ring, plotter.XY{X: lo.X[i], Y: lo.Y[i]})
	}
	poly, err := plotter.NewPolygon(ring)
	if err != nil {
		return nil, err
	}
	poly.Color = f.Color
	if poly.Color == nil {
		poly.Color = color.NRGBA{R: 0x99, G: 0x99, B: 0x99, A: 0x60}
	}
	poly.LineStyle.Width = 0
	return poly, nil
}
