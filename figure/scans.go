// Copyright 2026 The vlsplot Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package figure

import (
	"fmt"
	"math"
	"strconv"

	"github.com/chronosdb/vlsplot/aggregate"
	"github.com/chronosdb/vlsplot/chart"
	"github.com/chronosdb/vlsplot/manifest"
	"github.com/chronosdb/vlsplot/metric"
	"github.com/chronosdb/vlsplot/report"
	"github.com/chronosdb/vlsplot/trialfile"
)

// A grid is the comparison of every dataset at every concurrency.
type grid struct {
	datasets    []manifest.Dataset
	concurrency []int
	log         bool
	cmps        [][]*aggregate.Comparison // [dataset][concurrency]
}

func (e *Env) compareGrid(datasets []manifest.Dataset, concurrency []int, loc metric.Locator, log bool, config func(d manifest.Dataset, c int) trialfile.Config) *grid {
	g := &grid{datasets: datasets, concurrency: concurrency, log: log}
	for _, d := range datasets {
		row := make([]*aggregate.Comparison, len(concurrency))
		for j, c := range concurrency {
			row[j] = e.compare(config(d, c), loc, log)
		}
		g.cmps = append(g.cmps, row)
	}
	return g
}

// bars returns a chart with one group per concurrency and one bar per
// dataset and variant.
func (g *grid) bars(labels [2]string) *chart.Bars {
	b := &chart.Bars{}
	for _, c := range g.concurrency {
		b.Categories = append(b.Categories, strconv.Itoa(c))
	}
	for i, d := range g.datasets {
		for side, label := range labels {
			s := chart.Series{Label: fmt.Sprintf("%s - %s", label, recordsLabel(d))}
			for _, cmp := range g.cmps[i] {
				appendBar(&s, sides(cmp)[side], g.log)
			}
			b.Series = append(b.Series, s)
		}
	}
	return b
}

// tables returns one comparison table per dataset, with a row per
// concurrency.
func (g *grid) tables(labels [2]string) []*report.Table {
	var tabs []*report.Table
	for i, d := range g.datasets {
		t := report.NewTable(labels[0], labels[1], "P")
		t.Caption = recordsLabel(d)
		for j, c := range g.concurrency {
			t.AddComparison(strconv.Itoa(c), g.cmps[i][j])
		}
		tabs = append(tabs, t)
	}
	return tabs
}

func (g *grid) comparisons() []*aggregate.Comparison {
	var all []*aggregate.Comparison
	for _, row := range g.cmps {
		all = append(all, row...)
	}
	return all
}

// maxTop returns the largest mean+std of the grid, and at least 1.
func (g *grid) maxTop() float64 {
	top := 1.0
	for _, cmp := range g.comparisons() {
		for _, s := range sides(cmp) {
			if s != nil {
				top = math.Max(top, s.Mean+s.StdDev)
			}
		}
	}
	return top
}

func scanUpdates(rate int) func(d manifest.Dataset, c int) trialfile.Config {
	return func(d manifest.Dataset, c int) trialfile.Config {
		return trialfile.Config{Dataset: d.Name, Workload: trialfile.ScanUpdates, Rate: rate, Concurrency: c}
	}
}

const fullScanXLabel = "Number of Concurrent Analytics (Full Scan)"

// fullScanLatency charts the 95th percentile update latency under
// concurrent full scans on a log axis.
func fullScanLatency(e *Env, f manifest.Figure, datasets []manifest.Dataset) ([]*Output, error) {
	labels := e.labels()
	var outs []*Output
	for _, rate := range f.Rates {
		g := e.compareGrid(datasets, f.Concurrency, metric.UpdateLatencyP95, true, scanUpdates(rate))
		b := g.bars(labels)
		b.XLabel = fullScanXLabel
		b.YLabel = "95th Percentile Latency (ms)"
		b.YTicks = chart.LogTicks
		b.YMax = 3.6
		if f.YMax != 0 {
			b.YMax = f.YMax
		}
		name := baseName(f, "latency/tbb_scan_updates_95_percentile_mongodb_log") + suffix(len(f.Rates), rate)
		outs = append(outs, &Output{
			Name:        name,
			Chart:       b,
			Size:        chart.FigureSize,
			Report:      &report.Report{Title: name, Tables: g.tables(labels)},
			Comparisons: g.comparisons(),
		})
	}
	return outs, nil
}

// fullScanThroughput charts the update throughput under concurrent
// full scans.
func fullScanThroughput(e *Env, f manifest.Figure, datasets []manifest.Dataset) ([]*Output, error) {
	labels := e.labels()
	var outs []*Output
	for _, rate := range f.Rates {
		g := e.compareGrid(datasets, f.Concurrency, metric.UpdateThroughput, false, scanUpdates(rate))
		b := g.bars(labels)
		b.XLabel = fullScanXLabel
		b.YLabel = "Throughput (op/s)"
		b.YMax = f.YMax
		if b.YMax == 0 && len(datasets) > 0 {
			// The headroom of the last dataset leaves space for the
			// legend above the tallest bar.
			b.YMax = g.maxTop() * datasets[len(datasets)-1].Headroom
		}
		name := baseName(f, "throughput/tbb_scan_updates_throughput_mongodb") + suffix(len(f.Rates), rate)
		outs = append(outs, &Output{
			Name:        name,
			Chart:       b,
			Size:        chart.FigureSize,
			Report:      &report.Report{Title: name, Tables: g.tables(labels)},
			Comparisons: g.comparisons(),
		})
	}
	return outs, nil
}

// indexScanLatency charts the 95th percentile update latency under
// concurrent index scans, one chart per index bound.
func indexScanLatency(e *Env, f manifest.Figure, datasets []manifest.Dataset) ([]*Output, error) {
	labels := e.labels()
	var outs []*Output
	for _, bound := range f.IndexBounds {
		var indexRate float64
		g := e.compareGrid(datasets, f.Concurrency, metric.UpdateLatencyP95, false, func(d manifest.Dataset, c int) trialfile.Config {
			rate := int(math.Round(d.Records * bound / 100))
			indexRate = d.Trialfile().IndexRate(rate)
			return trialfile.Config{Dataset: d.Name, Workload: trialfile.IndexScanUpdates, Rate: rate, Concurrency: c}
		})
		b := g.bars(labels)
		b.Title = fmt.Sprintf("Index Rate: %.0f%%", indexRate)
		b.XLabel = "Number of Concurrent Analytics (Index Scan)"
		b.YLabel = "95th Percentile Latency (ms)"
		b.YMax = f.YMax
		name := fmt.Sprintf("%s_%.0f", baseName(f, "latency/tbb_index_scan_updates_95_percentile_mongodb"), indexRate)
		outs = append(outs, &Output{
			Name:  name,
			Chart: b,
			Size:  chart.FigureSize,
			Report: &report.Report{
				Title:  b.Title,
				Header: []string{fmt.Sprintf("Index Rate = %.1f%%", indexRate)},
				Tables: g.tables(labels),
			},
			Comparisons: g.comparisons(),
		})
	}
	return outs, nil
}
