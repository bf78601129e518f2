// Copyright 2026 The vlsplot Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package figure

import (
	"fmt"

	"github.com/cockroachdb/errors"

	"github.com/chronosdb/vlsplot/aggregate"
	"github.com/chronosdb/vlsplot/aggstat"
	"github.com/chronosdb/vlsplot/chart"
	"github.com/chronosdb/vlsplot/manifest"
	"github.com/chronosdb/vlsplot/metric"
	"github.com/chronosdb/vlsplot/report"
	"github.com/chronosdb/vlsplot/trialfile"
)

// queryConfig returns the configuration of a query visiting sel
// percent of d. A bound of 0 is a full scan. If updates is false the
// query runs alone, otherwise it runs alongside updates at
// updateRate.
func queryConfig(d manifest.Dataset, sel float64, updates bool, updateRate int) trialfile.Config {
	c := trialfile.Config{Dataset: d.Name, Rate: d.Trialfile().ScanBound(sel)}
	switch {
	case !updates && c.Rate == 0:
		c.Workload = trialfile.SingleScan
	case !updates:
		c.Workload = trialfile.SingleIndexScan
	case c.Rate == 0:
		c.Workload, c.Rate, c.Concurrency = trialfile.ScanUpdates, updateRate, 1
	default:
		c.Workload, c.Concurrency = trialfile.IndexScanUpdates, 1
	}
	return c
}

// selectivityLabel names the query visiting sel percent of the
// records.
func selectivityLabel(sel float64) string {
	if sel >= 100 {
		return "Full Scan"
	}
	return fmt.Sprintf("Index Scan - %g%%", sel)
}

// queryTime charts the duration of one analytic query by dataset and
// selectivity, alone and alongside updates.
func queryTime(e *Env, f manifest.Figure, datasets []manifest.Dataset) ([]*Output, error) {
	if len(f.Selectivity) == 0 {
		return nil, errors.New("no selectivity")
	}
	outs := []*Output{e.queryTimeOutput(f, datasets, false, 0, baseName(f, "scan_duration/scan_duration"))}
	for _, rate := range f.Rates {
		name := baseName(f, "scan_duration/scan_duration") + "_updates" + suffix(len(f.Rates), rate)
		outs = append(outs, e.queryTimeOutput(f, datasets, true, rate, name))
	}
	return outs, nil
}

func (e *Env) queryTimeOutput(f manifest.Figure, datasets []manifest.Dataset, updates bool, updateRate int, name string) *Output {
	labels := e.labels()
	cmps := make([][]*aggregate.Comparison, len(datasets)) // [dataset][selectivity]
	var all []*aggregate.Comparison
	for i, d := range datasets {
		for _, sel := range f.Selectivity {
			cmp := e.compare(queryConfig(d, sel, updates, updateRate), metric.QueryLatency, true)
			cmps[i] = append(cmps[i], cmp)
			all = append(all, cmp)
		}
	}

	b := &chart.Bars{
		XLabel: "Number of Records",
		YLabel: "Duration of an Analytic Query (s)",
		YTicks: chart.LogTicks,
		YMax:   4,
	}
	if updates {
		b.YMax = 4.8
	}
	if f.YMax != 0 {
		b.YMax = f.YMax
	}
	for _, d := range datasets {
		b.Categories = append(b.Categories, group(d.Records))
	}
	for j, sel := range f.Selectivity {
		for side, label := range labels {
			s := chart.Series{Label: fmt.Sprintf("%s (%s)", selectivityLabel(sel), label)}
			for i := range datasets {
				appendBar(&s, sides(cmps[i][j])[side], true)
			}
			b.Series = append(b.Series, s)
		}
	}

	var cols []string
	for _, sel := range f.Selectivity {
		cols = append(cols, fmt.Sprintf("%s (%g%%)", labels[0], sel), fmt.Sprintf("%s (%g%%)", labels[1], sel))
	}
	for _, sel := range f.Selectivity {
		cols = append(cols, fmt.Sprintf("P (%g%%)", sel))
	}
	t := report.NewTable(cols...)
	for i, d := range datasets {
		var cells, deltas []string
		for j, sel := range f.Selectivity {
			cmp := cmps[i][j]
			cells = append(cells, report.SummaryCell(cmp.Baseline), report.SummaryCell(cmp.Variant))
			deltas = append(deltas, report.DeltaCell(cmp))
			for _, w := range cmp.Warnings {
				if errors.Is(w, aggstat.ErrZeroBaseline) {
					t.Notes = append(t.Notes, fmt.Sprintf("%s (%g%%): P is 0.00%%: baseline mean is zero", group(d.Records), sel))
				}
			}
		}
		t.AddRow(group(d.Records), append(cells, deltas...)...)
	}

	title := "Analytic Query Duration"
	if updates {
		title = fmt.Sprintf("Analytic Query Duration, Update Rate = %s op/s", group(float64(updateRate)))
	}
	return &Output{
		Name:  name,
		Chart: b,
		Size:  chart.CompactSize,
		Report: &report.Report{
			Title:  title,
			Tables: []*report.Table{t},
			// The report ends with a blank line.
			Lines: []string{""},
		},
		Comparisons: all,
	}
}
