// Copyright 2026 The vlsplot Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package metric extracts numeric measurements from load-testing
// harness output.
//
// Harness output is line oriented. Summary lines start with a bracketed
// operation name followed by a label and a value:
//
//	[UPDATE], Throughput(ops/sec), 1234.5
//	[UPDATE], 95thPercentileLatency(ms), 17
//
// A Locator names the label to look for and which whitespace-separated
// field on that line holds the value.
package metric

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"
)

// A Locator describes where a metric lives in a trial file.
type Locator struct {
	// Markers are substrings identifying the line holding the
	// metric. The first line containing any marker matches.
	Markers []string

	// Field is the index of the value among the whitespace
	// separated fields of the matching line. Negative values
	// count from the end, so -1 is the last field.
	Field int

	// Scale divides the parsed value. Zero means 1.
	Scale float64
}

// Common locators.
var (
	// UpdateLatencyP95 is the 95th percentile update latency.
	// The harness reports it in hundredths of the charted unit.
	UpdateLatencyP95 = Locator{Markers: []string{"[UPDATE], 95thPercentileLatency(ms)"}, Field: -1, Scale: 100}

	// UpdateThroughput is the update throughput in operations per
	// second.
	UpdateThroughput = Locator{Markers: []string{"[UPDATE], Throughput"}, Field: -1, Scale: 1}

	// QueryLatency is the average latency of one analytic query,
	// in seconds.
	QueryLatency = Locator{Markers: []string{"[INDEX], AverageLatency(us)", "[AGGREGATE], AverageLatency(us)"}, Field: -1, Scale: 1e6}
)

func (l Locator) scale() float64 {
	if l.Scale == 0 {
		return 1
	}
	return l.Scale
}

func (l Locator) match(line string) bool {
	for _, m := range l.Markers {
		if strings.Contains(line, m) {
			return true
		}
	}
	return false
}

func (l Locator) String() string {
	return fmt.Sprintf("%q[%d]/%g", strings.Join(l.Markers, "|"), l.Field, l.scale())
}

// ErrNoMarker is the reason for a Missing result when the input ends
// before any line matches the locator.
var ErrNoMarker = errors.New("marker not found")

// A Result is the value extracted from one trial, or the reason
// there is none.
type Result struct {
	Value float64
	// Err is non-nil if the result is missing.
	Err error
}

// Found returns a Result holding v.
func Found(v float64) Result {
	return Result{Value: v}
}

// Missing returns a missing Result with the given reason.
func Missing(reason error) Result {
	if reason == nil {
		reason = ErrNoMarker
	}
	return Result{Err: reason}
}

// OK reports whether r holds a value.
func (r Result) OK() bool {
	return r.Err == nil
}

func (r Result) String() string {
	if r.Err != nil {
		return "missing (" + r.Err.Error() + ")"
	}
	return strconv.FormatFloat(r.Value, 'g', -1, 64)
}

// A FieldError reports a matching line whose value could not be
// extracted.
type FieldError struct {
	FileName string
	Line     int
	Msg      string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s:%d: %s", e.FileName, e.Line, e.Msg)
}

// Extract opens the file at path and extracts the metric described by
// loc. It never fails: an unreadable file, a file with no matching
// line, or an unparsable value all yield a missing Result whose Err
// says why.
func Extract(path string, loc Locator) Result {
	f, err := os.Open(path)
	if err != nil {
		return Missing(err)
	}
	defer f.Close()
	return ExtractReader(f, path, loc)
}

// ExtractReader is like Extract, but reads from r. fileName is used
// in error messages only.
func ExtractReader(r io.Reader, fileName string, loc Locator) Result {
	s := bufio.NewScanner(r)
	s.Buffer(nil, 1<<20)
	line := 0
	for s.Scan() {
		line++
		text := s.Text()
		if !loc.match(text) {
			continue
		}
		fields := strings.Fields(text)
		i := loc.Field
		if i < 0 {
			i += len(fields)
		}
		if i < 0 || i >= len(fields) {
			return Missing(&FieldError{fileName, line, fmt.Sprintf("no field %d in %q", loc.Field, text)})
		}
		v, err := strconv.ParseFloat(strings.TrimSuffix(fields[i], ","), 64)
		if err != nil {
			return Missing(&FieldError{fileName, line, fmt.Sprintf("bad value %q", fields[i])})
		}
		return Found(v / loc.scale())
	}
	if err := s.Err(); err != nil {
		return Missing(errors.Wrapf(err, "%s:%d", fileName, line))
	}
	return Missing(errors.Wrap(ErrNoMarker, fileName))
}
