// Copyright 2026 The vlsplot Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package chart renders benchmark comparisons as PNG images.
//
// It provides two chart kinds: grouped bar charts with asymmetric
// error bars (Bars) and multi-series line charts with an optional
// shaded region between two series (Lines). Both build a gonum
// plot.Plot, which WritePNG and SavePNG render.
package chart

import (
	"image/color"
	"io"
	"os"
	"path/filepath"

	"github.com/cockroachdb/errors"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette/brewer"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"
)

// A Tick is a labelled position on an axis.
type Tick struct {
	Value float64
	Label string
}

func constantTicks(ts []Tick) plot.Ticker {
	pts := make([]plot.Tick, len(ts))
	for i, t := range ts {
		pts[i] = plot.Tick{Value: t.Value, Label: t.Label}
	}
	return plot.ConstantTicks(pts)
}

// LogTicks labels the log-mapped axis on which 0, 1, 2, 3 stand for
// 0.1, 1, 10, 100 units.
var LogTicks = []Tick{{0, "0.1"}, {1, "1"}, {2, "10"}, {3, "100"}}

// Size is the size of a rendered chart.
type Size struct {
	Width, Height vg.Length
	DPI           int
}

// DefaultSize is used when a chart is rendered with a zero Size.
var DefaultSize = Size{Width: 16 * vg.Centimeter, Height: 10 * vg.Centimeter, DPI: 150}

// Sizes of the experiment figures.
var (
	// FigureSize is 8 by 6 inches at 80 dpi.
	FigureSize = Size{Width: 8 * vg.Inch, Height: 6 * vg.Inch, DPI: 80}

	// CompactSize is 6.4 by 4.8 inches at 100 dpi.
	CompactSize = Size{Width: 6.4 * vg.Inch, Height: 4.8 * vg.Inch, DPI: 100}
)

// WritePNG renders p to w as a PNG image on a white background.
func WritePNG(w io.Writer, p *plot.Plot, size Size) error {
	if size.Width == 0 || size.Height == 0 {
		size = DefaultSize
	}
	if size.DPI == 0 {
		size.DPI = DefaultSize.DPI
	}
	can := vgimg.PngCanvas{Canvas: vgimg.NewWith(
		vgimg.UseWH(size.Width, size.Height),
		vgimg.UseDPI(size.DPI),
		vgimg.UseBackgroundColor(color.White),
	)}
	p.Draw(draw.New(can))
	_, err := can.WriteTo(w)
	return err
}

// SavePNG renders p to the file at path, creating its directory if
// needed.
func SavePNG(path string, p *plot.Plot, size Size) (err error) {
	if err := os.MkdirAll(filepath.Dir(path), 0777); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()
	return errors.Wrap(WritePNG(f, p, size), path)
}

// colors returns n distinct fill colors.
func colors(n int) []color.Color {
	m := n
	if m < 3 {
		// Brewer palettes start at three colors.
		m = 3
	}
	pal, err := brewer.GetPalette(brewer.TypeQualitative, "Paired", m)
	if err != nil {
		// Paired has at most 12 colors; cycle them.
		pal, _ = brewer.GetPalette(brewer.TypeQualitative, "Paired", 12)
		cs := pal.Colors()
		out := make([]color.Color, n)
		for i := range out {
			out[i] = cs[i%len(cs)]
		}
		return out
	}
	return pal.Colors()[:n]
}
