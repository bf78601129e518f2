// Copyright 2026 The vlsplot Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package figure

import (
	"fmt"

	"github.com/chronosdb/vlsplot/chart"
	"github.com/chronosdb/vlsplot/manifest"
	"github.com/chronosdb/vlsplot/metric"
	"github.com/chronosdb/vlsplot/report"
	"github.com/chronosdb/vlsplot/trialfile"
)

// Queue-size trace times are in nanoseconds.
const nsPerSecond = 1e9

// remsetSize charts the remembered-set sizes of the VLS variant over
// one run, per dataset, update rate and concurrency. A run with no
// readable trace is skipped with a warning.
func remsetSize(e *Env, f manifest.Figure, datasets []manifest.Dataset) ([]*Output, error) {
	var outs []*Output
	for _, d := range datasets {
		for _, rate := range f.Rates {
			for _, c := range f.Concurrency {
				cfg := trialfile.Config{Dataset: d.Name, Variant: trialfile.Chronos, Workload: trialfile.QueueSize, Rate: rate, Concurrency: c}
				path := trialfile.Path(e.Manifest.Data, cfg)
				q, err := metric.ReadQueueSeries(path)
				if err != nil {
					e.warnf("check file: %s: %v", path, err)
					continue
				}
				name := fmt.Sprintf("%s_%s_%d_%d", baseName(f, "queue_size/queue_size"), d.Name, rate, c)
				if f.Name == "" || f.Name == f.Kind {
					name += "_mongodb_log"
				}
				outs = append(outs, e.remsetOutput(f, q, rate, c, name))
			}
		}
	}
	return outs, nil
}

func (e *Env) remsetOutput(f manifest.Figure, q *metric.QueueSeries, rate, concurrency int, name string) *Output {
	lq := q.Log()
	x := make([]float64, len(q.Points))
	var shared, unreclaimed, worst []float64
	for i, p := range lq.Points {
		x[i] = p.Time / nsPerSecond
		shared = append(shared, p.Shared)
		unreclaimed = append(unreclaimed, p.Unreclaimed)
		worst = append(worst, p.Worst)
	}
	title := fmt.Sprintf("%d Analytics, Attempted Update Rate = %s op/s", concurrency, group(float64(rate)))
	l := &chart.Lines{
		Title:  title,
		XLabel: "Time (s)",
		YLabel: "Remset Size (million records)",
		Lines: []chart.Line{
			{Label: "Shared Remset with Immediate Reclamation", X: x, Y: shared},
			{Label: "Shared Remset without Immediate Reclamation", X: x, Y: unreclaimed, Dashed: true},
			{Label: fmt.Sprintf("%d Remsets", concurrency), X: x, Y: worst, Dashed: true},
		},
		Fill:   &chart.Fill{Lower: 0, Upper: 1, From: q.FillStart()},
		YTicks: chart.LogTicks,
		YMax:   3.5,
	}
	if f.YMax != 0 {
		l.YMax = f.YMax
	}

	label := e.labels()[1]
	maxShared, maxWorst := q.Max()
	lines := []string{
		fmt.Sprintf("%s - Max Remset Size = %s", label, group(maxShared)),
		fmt.Sprintf("%s - Worst Case Max Remset Size = %s", label, group(maxWorst)),
	}
	if peak := q.PeakWorst(); peak >= 0 {
		p := q.Points[peak]
		if p.Shared > 0 {
			lines = append(lines, fmt.Sprintf("%s - Worst Case Increase at Peak = %.1fx", label, p.Worst/p.Shared))
		}
		lines = append(lines, fmt.Sprintf("%s - Time from Worst Case Peak to End = %.1f s", label, (q.End()-p.Time)/nsPerSecond))
	}
	return &Output{
		Name:   name,
		Chart:  l,
		Size:   chart.FigureSize,
		Report: &report.Report{Title: title, Lines: lines},
	}
}
