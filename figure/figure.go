// Copyright 2026 The vlsplot Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package figure builds the charts and reports of an experiment.
//
// Each manifest figure kind is one analysis. Build runs the analysis
// for one manifest.Figure and returns its Outputs: a chart, a text
// report and the comparisons the report was made from. Build does no
// writing; the caller renders and publishes the outputs.
package figure

import (
	"fmt"
	"math"
	"strconv"

	"github.com/cockroachdb/errors"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"gonum.org/v1/plot"

	"github.com/chronosdb/vlsplot/aggregate"
	"github.com/chronosdb/vlsplot/aggstat"
	"github.com/chronosdb/vlsplot/chart"
	"github.com/chronosdb/vlsplot/manifest"
	"github.com/chronosdb/vlsplot/metric"
	"github.com/chronosdb/vlsplot/report"
	"github.com/chronosdb/vlsplot/trialfile"
)

// A Chart can be turned into a plot.
type Chart interface {
	Plot() (*plot.Plot, error)
}

// An Output is one chart of a figure and its report.
type Output struct {
	// Name is the output's path relative to the output directory,
	// without an extension.
	Name  string
	Chart Chart

	// Size is the rendered size of Chart.
	Size   chart.Size
	Report *report.Report

	// Comparisons are the comparisons shown in Report, in order.
	Comparisons []*aggregate.Comparison
}

// An Env is the state shared by the figures of one run.
type Env struct {
	Manifest *manifest.Manifest
	Agg      *aggregate.Aggregator

	// Warn, if non-nil, is called for every comparison warning.
	Warn func(format string, args ...interface{})
}

// NewEnv returns an Env reading m's data root.
func NewEnv(m *manifest.Manifest, warn func(format string, args ...interface{})) *Env {
	return &Env{
		Manifest: m,
		Agg:      &aggregate.Aggregator{Root: m.Data, Trials: m.Trials, Warn: warn},
		Warn:     warn,
	}
}

func (e *Env) warnf(format string, args ...interface{}) {
	if e.Warn != nil {
		e.Warn(format, args...)
	}
}

// Build runs the analysis of f.
func Build(e *Env, f manifest.Figure) ([]*Output, error) {
	datasets := make([]manifest.Dataset, len(f.Datasets))
	for i, name := range f.Datasets {
		d, err := e.Manifest.Dataset(name)
		if err != nil {
			return nil, err
		}
		datasets[i] = d
	}
	var outs []*Output
	var err error
	switch f.Kind {
	case manifest.FullScanLatency:
		outs, err = fullScanLatency(e, f, datasets)
	case manifest.FullScanThroughput:
		outs, err = fullScanThroughput(e, f, datasets)
	case manifest.IndexScanLatency:
		outs, err = indexScanLatency(e, f, datasets)
	case manifest.QueryTime:
		outs, err = queryTime(e, f, datasets)
	case manifest.RemsetSize:
		outs, err = remsetSize(e, f, datasets)
	default:
		return nil, errors.Newf("unknown figure kind %q", f.Kind)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "figure %s", f.Name)
	}
	return outs, nil
}

// compare runs Aggregator.Compare and passes its errors and warnings
// on to e.Warn.
func (e *Env) compare(c trialfile.Config, loc metric.Locator, logTransform bool) *aggregate.Comparison {
	cmp := e.Agg.Compare(c, loc, logTransform)
	for _, err := range []error{cmp.BaselineErr, cmp.VariantErr} {
		if err != nil {
			e.warnf("%v", err)
		}
	}
	for _, w := range cmp.Warnings {
		e.warnf("%s: %v", aggregate.Label(cmp.Config), w)
	}
	return cmp
}

// labels returns the display names of the baseline and the variant.
func (e *Env) labels() [2]string {
	return [2]string{e.Manifest.Labels.Baseline, e.Manifest.Labels.Variant}
}

// sides returns the baseline and variant summaries of cmp.
func sides(cmp *aggregate.Comparison) [2]*aggstat.Summary {
	return [2]*aggstat.Summary{cmp.Baseline, cmp.Variant}
}

// linearBar returns the bar value and symmetric error extent of s. A
// missing summary draws an empty bar with no error bar.
func linearBar(s *aggstat.Summary) (v, low, high float64) {
	if s == nil {
		return 0, math.NaN(), math.NaN()
	}
	return s.Mean, s.StdDev, s.StdDev
}

// logBar is like linearBar, but on the log-mapped axis.
func logBar(s *aggstat.Summary) (v, low, high float64) {
	if s == nil || s.Log == nil {
		return 0, math.NaN(), math.NaN()
	}
	return s.Log.Center, s.Log.Lower, s.Log.Upper
}

// appendBar appends the bar of s to series.
func appendBar(series *chart.Series, s *aggstat.Summary, log bool) {
	bar := linearBar
	if log {
		bar = logBar
	}
	v, lo, hi := bar(s)
	series.Values = append(series.Values, v)
	series.Low = append(series.Low, lo)
	series.High = append(series.High, hi)
}

var printer = message.NewPrinter(language.English)

// group formats n with thousands separators.
func group(n float64) string {
	return printer.Sprintf("%d", int64(math.Round(n)))
}

// recordsLabel names a dataset by its size, as in "10 Million
// Records".
func recordsLabel(d manifest.Dataset) string {
	switch {
	case d.Records >= 1e6:
		return fmt.Sprintf("%s Million Records", strconv.FormatFloat(d.Records/1e6, 'f', -1, 64))
	case d.Records >= 1e3:
		return fmt.Sprintf("%s Thousand Records", strconv.FormatFloat(d.Records/1e3, 'f', -1, 64))
	}
	return fmt.Sprintf("%s Records", group(d.Records))
}

// suffix returns "_<v>" if a figure has n > 1 outputs varying over v,
// so each output gets its own name.
func suffix(n int, v interface{}) string {
	if n <= 1 {
		return ""
	}
	return fmt.Sprintf("_%v", v)
}

// baseName returns def for a figure that keeps its kind's name, and
// the figure's own name otherwise.
func baseName(f manifest.Figure, def string) string {
	if f.Name == "" || f.Name == f.Kind {
		return def
	}
	return f.Name
}
