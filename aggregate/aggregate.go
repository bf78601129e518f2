// Copyright 2026 The vlsplot Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package aggregate reduces the trials of benchmark configurations to
// summary statistics and baseline comparisons.
//
// An Aggregator locates every trial file of a configuration under a
// data root, extracts one metric from each, and summarizes the valid
// ones. Trials whose metric is missing are reported through the Warn
// callback and skipped. Every trial the Aggregator reads is recorded so
// it can later be dumped with DumpTrials.
package aggregate

import (
	"fmt"

	"github.com/cockroachdb/errors"

	"github.com/chronosdb/vlsplot/aggstat"
	"github.com/chronosdb/vlsplot/metric"
	"github.com/chronosdb/vlsplot/trialfile"
)

// An Aggregator summarizes configurations read from a data root.
type Aggregator struct {
	// Root is the directory holding one subdirectory per dataset.
	Root string

	// Trials is the number of trials per configuration. If zero,
	// it defaults to trialfile.MaxTrials.
	Trials int

	// Warn, if non-nil, is called for every trial file that does
	// not yield a value.
	Warn func(format string, args ...interface{})

	trials []Trial
}

// A Trial is one trial read by an Aggregator. Its fields are exported
// so a []Trial can be converted to a table.
type Trial struct {
	Dataset     string
	Variant     string
	Workload    string
	Rate        int
	Concurrency int
	Trial       int
	Value       float64
	Valid       bool
}

func (a *Aggregator) n() int {
	if a.Trials <= 0 {
		return trialfile.MaxTrials
	}
	return a.Trials
}

func (a *Aggregator) warnf(format string, args ...interface{}) {
	if a.Warn != nil {
		a.Warn(format, args...)
	}
}

// Collect extracts loc from every trial of c. The Trial field of c is
// ignored. A result is returned for each trial, missing or not.
func (a *Aggregator) Collect(c trialfile.Config, loc metric.Locator) []metric.Result {
	paths := trialfile.Trials(a.Root, c, a.n())
	results := make([]metric.Result, len(paths))
	for i, path := range paths {
		r := metric.Extract(path, loc)
		if !r.OK() {
			a.warnf("check file: %s: %v", path, r.Err)
		}
		results[i] = r
		a.trials = append(a.trials, Trial{
			Dataset:     c.Dataset,
			Variant:     c.Variant.Dir(),
			Workload:    c.Workload.String(),
			Rate:        c.Rate,
			Concurrency: c.Concurrency,
			Trial:       i,
			Value:       r.Value,
			Valid:       r.OK(),
		})
	}
	return results
}

// Summary collects the trials of c and summarizes them. The returned
// error wraps an *aggstat.InsufficientDataError if no trial of c is
// valid.
func (a *Aggregator) Summary(c trialfile.Config, loc metric.Locator, logTransform bool) (*aggstat.Summary, error) {
	s, err := aggstat.Summarize(a.Collect(c, loc), logTransform)
	if err != nil {
		return nil, errors.Wrapf(err, "%s", Label(c))
	}
	return s, nil
}

// A Comparison is the summary of one configuration under both
// variants.
type Comparison struct {
	// Config is the compared configuration. Its Variant is
	// trialfile.Original.
	Config trialfile.Config

	// Baseline and Variant summarize the two variants. Either is
	// nil if its configuration had no valid trial, in which case
	// the matching Err field says why.
	Baseline, Variant       *aggstat.Summary
	BaselineErr, VariantErr error

	// Delta is the percent change of Variant's mean relative to
	// Baseline's. It is meaningful only if HaveDelta is set.
	Delta     float64
	HaveDelta bool

	// Warnings is a list of warnings about this comparison.
	Warnings []error
}

// Compare summarizes c under the baseline and the VLS variant and
// computes the percent change between them.
func (a *Aggregator) Compare(c trialfile.Config, loc metric.Locator, logTransform bool) *Comparison {
	c.Variant = trialfile.Original
	cmp := &Comparison{Config: c}
	cmp.Baseline, cmp.BaselineErr = a.Summary(c, loc, logTransform)
	vc := c
	vc.Variant = trialfile.Chronos
	cmp.Variant, cmp.VariantErr = a.Summary(vc, loc, logTransform)

	for _, s := range []*aggstat.Summary{cmp.Baseline, cmp.Variant} {
		if s != nil {
			cmp.Warnings = append(cmp.Warnings, s.Warnings...)
		}
	}
	if cmp.Baseline == nil || cmp.Variant == nil {
		return cmp
	}
	var warn error
	cmp.Delta, warn = aggstat.PercentDelta(cmp.Baseline, cmp.Variant)
	cmp.HaveDelta = true
	if warn != nil {
		cmp.Warnings = append(cmp.Warnings, errors.Wrapf(warn, "%s", Label(c)))
	}
	return cmp
}

// ReadTrials returns every trial a has read, in reading order.
func (a *Aggregator) ReadTrials() []Trial {
	return a.trials
}

// Label returns a short human-readable name for the configuration c,
// ignoring its trial index.
func Label(c trialfile.Config) string {
	switch c.Workload {
	case trialfile.SingleScan:
		return fmt.Sprintf("%s/%s/%s", c.Dataset, c.Variant, c.Workload)
	case trialfile.SingleIndexScan:
		return fmt.Sprintf("%s/%s/%s/rate=%d", c.Dataset, c.Variant, c.Workload, c.Rate)
	}
	return fmt.Sprintf("%s/%s/%s/rate=%d/concurrency=%d", c.Dataset, c.Variant, c.Workload, c.Rate, c.Concurrency)
}

// A Record is the summary of one configuration under one variant,
// flattened for archiving.
type Record struct {
	Dataset     string
	Variant     string
	Workload    string
	Rate        int
	Concurrency int

	Mean, StdDev float64
	N, Missing   int
}

// Records returns a Record for each side of cmp that has a summary.
func (cmp *Comparison) Records() []Record {
	var recs []Record
	for _, side := range []struct {
		v trialfile.Variant
		s *aggstat.Summary
	}{{trialfile.Original, cmp.Baseline}, {trialfile.Chronos, cmp.Variant}} {
		if side.s == nil {
			continue
		}
		recs = append(recs, Record{
			Dataset:     cmp.Config.Dataset,
			Variant:     side.v.Dir(),
			Workload:    cmp.Config.Workload.String(),
			Rate:        cmp.Config.Rate,
			Concurrency: cmp.Config.Concurrency,
			Mean:        side.s.Mean,
			StdDev:      side.s.StdDev,
			N:           side.s.N,
			Missing:     side.s.Missing,
		})
	}
	return recs
}
