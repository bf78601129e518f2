// Copyright 2026 The vlsplot Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package chart

import (
	"image/color"
	"math"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

// errorBars draws asymmetric vertical error bars over the bars of a
// grouped bar chart. Unlike plotter.YErrorBars, it honors the bar
// chart's horizontal offset.
type errorBars struct {
	values, low, high []float64
	offset            vg.Length

	lineStyle draw.LineStyle
	capWidth  vg.Length
}

func newErrorBars(values, low, high []float64, offset vg.Length) *errorBars {
	return &errorBars{
		values:    values,
		low:       low,
		high:      high,
		offset:    offset,
		lineStyle: draw.LineStyle{Color: color.Black, Width: vg.Points(1.5)},
		capWidth:  vg.Points(6),
	}
}

// extent returns the error bar of point i. ok is false if it has
// none.
func (e *errorBars) extent(i int) (lo, hi float64, ok bool) {
	if i < len(e.low) {
		lo = e.low[i]
	}
	if i < len(e.high) {
		hi = e.high[i]
	}
	if math.IsNaN(lo) || math.IsNaN(hi) {
		return 0, 0, false
	}
	return lo, hi, true
}

// Plot implements plot.Plotter.
func (e *errorBars) Plot(c draw.Canvas, plt *plot.Plot) {
	trX, trY := plt.Transforms(&c)
	cap := e.capWidth / 2
	for i, v := range e.values {
		lo, hi, ok := e.extent(i)
		if !ok {
			continue
		}
		x := trX(float64(i)) + e.offset
		if !c.ContainsX(x) {
			continue
		}
		top := trY(v + hi)
		lines := [][]vg.Point{
			{{X: x - cap, Y: top}, {X: x + cap, Y: top}},
		}
		if math.IsInf(lo, 1) {
			// No lower bound: run off the bottom.
			lines = append(lines, []vg.Point{{X: x, Y: c.Min.Y}, {X: x, Y: top}})
		} else {
			bot := trY(v - lo)
			lines = append(lines,
				[]vg.Point{{X: x, Y: bot}, {X: x, Y: top}},
				[]vg.Point{{X: x - cap, Y: bot}, {X: x + cap, Y: bot}},
			)
		}
		c.StrokeLines(e.lineStyle, c.ClipLinesY(lines...)...)
	}
}

// DataRange implements plot.DataRanger.
func (e *errorBars) DataRange() (xmin, xmax, ymin, ymax float64) {
	xmin, xmax = 0, float64(len(e.values)-1)
	ymin, ymax = math.Inf(1), math.Inf(-1)
	for i, v := range e.values {
		lo, hi, ok := e.extent(i)
		if !ok {
			continue
		}
		ymax = math.Max(ymax, v+hi)
		if math.IsInf(lo, 1) {
			ymin = math.Min(ymin, v)
		} else {
			ymin = math.Min(ymin, v-lo)
		}
	}
	if ymin > ymax {
		ymin, ymax = 0, 0
	}
	return xmin, xmax, ymin, ymax
}

// GlyphBoxes implements plot.GlyphBoxer.
func (e *errorBars) GlyphBoxes(plt *plot.Plot) []plot.GlyphBox {
	cap := e.capWidth / 2
	var boxes []plot.GlyphBox
	for i, v := range e.values {
		_, hi, ok := e.extent(i)
		if !ok {
			continue
		}
		boxes = append(boxes, plot.GlyphBox{
			X: plt.X.Norm(float64(i)),
			Y: plt.Y.Norm(v + hi),
			Rectangle: vg.Rectangle{
				Min: vg.Point{X: e.offset - cap},
				Max: vg.Point{X: e.offset + cap},
			},
		})
	}
	return boxes
}
