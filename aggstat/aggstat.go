// Copyright 2026 The vlsplot Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package aggstat computes summary statistics over repeated trials of
// a benchmark configuration.
//
// Trials whose metric could not be extracted are dropped before
// summarizing. The number dropped is recorded in the Summary and
// reported as a warning; a Summary is never computed from zero
// trials.
//
// All results carry a list of warnings, captured as an []error value.
// These do not prevent analysis, but should be presented to the user
// along with the results.
package aggstat

import (
	"fmt"
	"math"

	"github.com/aclements/go-moremath/stats"
	"github.com/cockroachdb/errors"
	"gonum.org/v1/gonum/stat"

	"github.com/chronosdb/vlsplot/metric"
)

// An InsufficientDataError is returned by Summarize when no trial
// produced a value.
type InsufficientDataError struct {
	// Trials is the number of trials considered, all missing.
	Trials int
}

func (e *InsufficientDataError) Error() string {
	return fmt.Sprintf("insufficient data: 0 of %d trials valid", e.Trials)
}

// IsInsufficientData reports whether err is or wraps an
// InsufficientDataError.
func IsInsufficientData(err error) bool {
	var ide *InsufficientDataError
	return errors.As(err, &ide)
}

// ErrNonPositiveMean is the warning attached to a Summary when a log
// transform is requested for a sample whose mean is not positive. The
// Summary is still returned, with a nil Log.
var ErrNonPositiveMean = errors.New("log transform of non-positive mean")

// A Summary summarizes the valid trials of one configuration.
type Summary struct {
	// Mean is the arithmetic mean of the valid trials.
	Mean float64
	// StdDev is the population standard deviation (divisor N) of
	// the valid trials.
	StdDev float64
	// Min and Max bound the valid trials.
	Min, Max float64

	// N is the number of valid trials. It is always >= 1.
	N int
	// Missing is the number of trials that produced no value.
	Missing int

	// Log is the log10 transform of the summary, if it was
	// requested.
	Log *LogBounds

	// Warnings is a list of warnings about this summary.
	Warnings []error
}

// LogBounds is a Summary mapped onto a log10 axis on which 0, 1, 2, 3
// correspond to 0.1, 1, 10, 100 units.
type LogBounds struct {
	// Center is log10(mean*10).
	Center float64
	// Lower is the distance from Center down to log10((mean-std)*10).
	// It is +Inf if LowerUnbounded.
	Lower float64
	// Upper is the distance from Center up to log10((mean+std)*10).
	Upper float64
	// LowerUnbounded is set when mean-std <= 0, which has no image
	// on a log axis.
	LowerUnbounded bool
}

// Summarize computes the summary of results, ignoring missing ones.
// If no result is valid, it returns an *InsufficientDataError. If
// logTransform is set, the returned Summary's Log field holds its log
// bounds, or is nil with an ErrNonPositiveMean warning if the mean has
// no logarithm.
func Summarize(results []metric.Result, logTransform bool) (*Summary, error) {
	values := make([]float64, 0, len(results))
	for _, r := range results {
		if r.OK() {
			values = append(values, r.Value)
		}
	}
	s, err := SummarizeValues(values, logTransform)
	if err != nil {
		var ide *InsufficientDataError
		if errors.As(err, &ide) {
			ide.Trials = len(results)
		}
		return nil, err
	}
	s.Missing = len(results) - len(values)
	if s.Missing > 0 {
		s.Warnings = append(s.Warnings, errors.Newf("%d of %d trials missing", s.Missing, len(results)))
	}
	return s, nil
}

// SummarizeValues is like Summarize, but for values that are all
// valid.
func SummarizeValues(values []float64, logTransform bool) (*Summary, error) {
	if len(values) == 0 {
		return nil, &InsufficientDataError{}
	}
	s := &Summary{N: len(values)}
	s.Mean, s.StdDev = stat.PopMeanStdDev(values, nil)
	s.Min, s.Max = stats.Bounds(values)
	// Rounding can put the mean of equal values one ulp outside them.
	s.Mean = math.Max(s.Min, math.Min(s.Mean, s.Max))
	if len(values) == 1 {
		s.Warnings = append(s.Warnings, errors.New("single trial; deviation is zero"))
	}
	if logTransform {
		lb, err := logBounds(s.Mean, s.StdDev)
		if err != nil {
			s.Warnings = append(s.Warnings, err)
		}
		s.Log = lb
	}
	return s, nil
}

func logBounds(mean, std float64) (*LogBounds, error) {
	if !(mean > 0) {
		return nil, errors.Wrapf(ErrNonPositiveMean, "mean %g", mean)
	}
	lb := &LogBounds{Center: math.Log10(mean * 10)}
	lb.Upper = math.Log10((mean+std)*10) - lb.Center
	if mean-std <= 0 {
		lb.LowerUnbounded = true
		lb.Lower = math.Inf(1)
	} else {
		lb.Lower = lb.Center - math.Log10((mean-std)*10)
	}
	return lb, nil
}

// String formats s as "mean ± std" with two decimal places.
func (s *Summary) String() string {
	return fmt.Sprintf("%.2f ± %.2f", s.Mean, s.StdDev)
}

// ErrZeroBaseline is the warning returned by PercentDelta when the
// baseline mean is zero.
var ErrZeroBaseline = errors.New("baseline mean is zero")

// PercentDelta returns the change of variant's mean relative to
// baseline's, in percent: (variant/baseline)*100 - 100.
//
// If baseline's mean is zero, PercentDelta returns 0 and
// ErrZeroBaseline. The error is a warning to show alongside the 0,
// not a reason to discard it.
func PercentDelta(baseline, variant *Summary) (float64, error) {
	if baseline.Mean == 0 {
		return 0, ErrZeroBaseline
	}
	return variant.Mean*100/baseline.Mean - 100, nil
}

// FormatDelta formats a percentage as returned by PercentDelta.
func FormatDelta(pct float64) string {
	return fmt.Sprintf("%.2f%%", pct)
}
