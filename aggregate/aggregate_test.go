// Copyright 2026 The vlsplot Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package aggregate

import (
	"bytes"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/cockroachdb/errors"

	"github.com/chronosdb/vlsplot/aggstat"
	"github.com/chronosdb/vlsplot/metric"
	"github.com/chronosdb/vlsplot/trialfile"
)

// writeTrials writes a throughput file for each value in vals as
// trials 0, 1, ... of c. A NaN value leaves that trial's file out.
func writeTrials(t *testing.T, root string, c trialfile.Config, vals ...float64) {
	t.Helper()
	for i, v := range vals {
		if math.IsNaN(v) {
			continue
		}
		c.Trial = i
		path := trialfile.Path(root, c)
		if err := os.MkdirAll(filepath.Dir(path), 0777); err != nil {
			t.Fatal(err)
		}
		data := fmt.Sprintf("[OVERALL], RunTime(ms), 100\n[UPDATE], Throughput(ops/sec), %g\n", v)
		if err := os.WriteFile(path, []byte(data), 0666); err != nil {
			t.Fatal(err)
		}
	}
}

func TestSummary(t *testing.T) {
	root := t.TempDir()
	c := trialfile.Config{Dataset: "testdb_10m", Variant: trialfile.Original, Workload: trialfile.ScanUpdates, Rate: 10000, Concurrency: 8}
	nan := math.NaN()
	writeTrials(t, root, c, 10, 11, 9, 10, nan, 10, 11, 9, 10, nan)

	var warnings []string
	a := &Aggregator{Root: root, Warn: func(format string, args ...interface{}) {
		warnings = append(warnings, fmt.Sprintf(format, args...))
	}}
	s, err := a.Summary(c, metric.UpdateThroughput, false)
	if err != nil {
		t.Fatal(err)
	}
	if s.N != 8 || s.Missing != 2 {
		t.Errorf("N, Missing = %d, %d; want 8, 2", s.N, s.Missing)
	}
	if math.Abs(s.Mean-10) > 1e-9 {
		t.Errorf("Mean = %v, want 10", s.Mean)
	}
	if len(warnings) != 2 {
		t.Fatalf("got %d warnings, want 2: %q", len(warnings), warnings)
	}
	for _, w := range warnings {
		if !strings.HasPrefix(w, "check file: ") {
			t.Errorf("warning %q lacks check file prefix", w)
		}
	}
	if got := len(a.ReadTrials()); got != 10 {
		t.Errorf("recorded %d trials, want 10", got)
	}
}

func TestSummaryInsufficient(t *testing.T) {
	a := &Aggregator{Root: t.TempDir(), Trials: 3}
	c := trialfile.Config{Dataset: "testdb_10m", Variant: trialfile.Chronos, Workload: trialfile.ScanUpdates, Rate: 10000, Concurrency: 1}
	_, err := a.Summary(c, metric.UpdateThroughput, false)
	if !aggstat.IsInsufficientData(err) {
		t.Fatalf("got %v, want insufficient data", err)
	}
	var ide *aggstat.InsufficientDataError
	if errors.As(err, &ide) && ide.Trials != 3 {
		t.Errorf("Trials = %d, want 3", ide.Trials)
	}
	if !strings.Contains(err.Error(), "concurrency=1") {
		t.Errorf("error %q does not name the configuration", err)
	}
}

func TestSummaryLogZeroMean(t *testing.T) {
	root := t.TempDir()
	c := trialfile.Config{Dataset: "testdb_10m", Variant: trialfile.Original, Workload: trialfile.ScanUpdates, Rate: 10000, Concurrency: 16}
	writeTrials(t, root, c, 0, 0, 0)

	a := &Aggregator{Root: root, Trials: 3}
	s, err := a.Summary(c, metric.UpdateThroughput, true)
	if err != nil {
		t.Fatal(err)
	}
	if s.N != 3 || s.Log != nil {
		t.Errorf("N = %d, Log = %+v; want 3, nil", s.N, s.Log)
	}
	cmp := a.Compare(c, metric.UpdateThroughput, true)
	if cmp.Baseline == nil {
		t.Fatalf("baseline dropped: %v", cmp.BaselineErr)
	}
	var sawWarning bool
	for _, w := range cmp.Warnings {
		sawWarning = sawWarning || errors.Is(w, aggstat.ErrNonPositiveMean)
	}
	if !sawWarning {
		t.Errorf("Warnings = %v, want ErrNonPositiveMean", cmp.Warnings)
	}
}

func TestCompare(t *testing.T) {
	root := t.TempDir()
	c := trialfile.Config{Dataset: "testdb_10m", Workload: trialfile.ScanUpdates, Rate: 10000, Concurrency: 0}
	c.Variant = trialfile.Original
	writeTrials(t, root, c, 100, 100)
	c.Variant = trialfile.Chronos
	writeTrials(t, root, c, 140, 160)

	a := &Aggregator{Root: root, Trials: 2}
	cmp := a.Compare(c, metric.UpdateThroughput, false)
	if cmp.Config.Variant != trialfile.Original {
		t.Errorf("Config.Variant = %v, want baseline", cmp.Config.Variant)
	}
	if !cmp.HaveDelta || math.Abs(cmp.Delta-50) > 1e-9 {
		t.Errorf("Delta = %v (have %v), want 50", cmp.Delta, cmp.HaveDelta)
	}
	if math.Abs(cmp.Variant.StdDev-10) > 1e-9 {
		t.Errorf("variant StdDev = %v, want 10", cmp.Variant.StdDev)
	}

	// Baseline of zero: delta 0 with a warning.
	c.Concurrency = 1
	c.Variant = trialfile.Original
	writeTrials(t, root, c, 0, 0)
	c.Variant = trialfile.Chronos
	writeTrials(t, root, c, 5, 5)
	cmp = a.Compare(c, metric.UpdateThroughput, false)
	if !cmp.HaveDelta || cmp.Delta != 0 {
		t.Errorf("zero baseline: Delta = %v (have %v), want 0", cmp.Delta, cmp.HaveDelta)
	}
	found := false
	for _, w := range cmp.Warnings {
		found = found || errors.Is(w, aggstat.ErrZeroBaseline)
	}
	if !found {
		t.Errorf("zero baseline: warnings %v lack ErrZeroBaseline", cmp.Warnings)
	}

	// Missing variant: no delta.
	c.Concurrency = 8
	c.Variant = trialfile.Original
	writeTrials(t, root, c, 1, 2)
	cmp = a.Compare(c, metric.UpdateThroughput, false)
	if cmp.HaveDelta || cmp.Variant != nil || !aggstat.IsInsufficientData(cmp.VariantErr) {
		t.Errorf("missing variant: got %+v", cmp)
	}
}

func TestDump(t *testing.T) {
	root := t.TempDir()
	c := trialfile.Config{Dataset: "testdb_10m", Variant: trialfile.Original, Workload: trialfile.ScanUpdates, Rate: 10000, Concurrency: 16}
	writeTrials(t, root, c, 3, math.NaN(), 5)
	a := &Aggregator{Root: root, Trials: 3}
	a.Collect(c, metric.UpdateThroughput)

	var buf bytes.Buffer
	if err := DumpTrials(&buf, a.ReadTrials()); err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 4 {
		t.Fatalf("DumpTrials: got %d lines, want header + 3:\n%s", len(lines), buf.String())
	}
	if !strings.Contains(lines[0], "Concurrency") || !strings.Contains(lines[0], "Valid") {
		t.Errorf("DumpTrials header %q", lines[0])
	}

	buf.Reset()
	if err := DumpMeans(&buf, a.ReadTrials()); err != nil {
		t.Fatal(err)
	}
	lines = strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("DumpMeans: got %d lines, want header + 1:\n%s", len(lines), buf.String())
	}
	f := strings.Fields(lines[1])
	want := []string{"testdb_10m", "mongodb-original", "scan_updates", "10000", "16", "2", "4.0000", "3.0000", "5.0000"}
	if strings.Join(f, " ") != strings.Join(want, " ") {
		t.Errorf("DumpMeans row = %q, want %q", f, want)
	}

	buf.Reset()
	if err := DumpMeans(&buf, nil); err != nil || buf.Len() != 0 {
		t.Errorf("DumpMeans(nil) = %q, %v", buf.String(), err)
	}
}

func TestDumpMeansConstant(t *testing.T) {
	root := t.TempDir()
	c := trialfile.Config{Dataset: "testdb_10m", Variant: trialfile.Chronos, Workload: trialfile.ScanUpdates, Rate: 10000, Concurrency: 1}
	writeTrials(t, root, c, 7, 7)
	a := &Aggregator{Root: root, Trials: 2}
	a.Collect(c, metric.UpdateThroughput)

	var buf bytes.Buffer
	if err := DumpMeans(&buf, a.ReadTrials()); err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("got %d lines, want header + 1:\n%s", len(lines), buf.String())
	}
	// Only the mean, min and max columns name Value.
	if n := strings.Count(lines[0], "Value"); n != 3 {
		t.Errorf("header keeps the raw Value column: %q", lines[0])
	}
	f := strings.Fields(lines[1])
	want := []string{"testdb_10m", "mongodb-chronos", "scan_updates", "10000", "1", "2", "7.0000", "7.0000", "7.0000"}
	if strings.Join(f, " ") != strings.Join(want, " ") {
		t.Errorf("DumpMeans row = %q, want %q", f, want)
	}
}

func TestLabel(t *testing.T) {
	check := func(c trialfile.Config, want string) {
		t.Helper()
		if got := Label(c); got != want {
			t.Errorf("Label(%+v) = %q, want %q", c, got, want)
		}
	}
	check(trialfile.Config{Dataset: "d", Variant: trialfile.Chronos, Workload: trialfile.SingleScan}, "d/mongodb-chronos/single_scan")
	check(trialfile.Config{Dataset: "d", Workload: trialfile.SingleIndexScan, Rate: 5}, "d/mongodb-original/single_index_scan/rate=5")
	check(trialfile.Config{Dataset: "d", Workload: trialfile.IndexScanUpdates, Rate: 5, Concurrency: 8}, "d/mongodb-original/index_scan_updates/rate=5/concurrency=8")
}

func TestRecords(t *testing.T) {
	cmp := &Comparison{
		Config:   trialfile.Config{Dataset: "testdb_10m", Workload: trialfile.ScanUpdates, Rate: 10000, Concurrency: 8},
		Baseline: &aggstat.Summary{Mean: 2, StdDev: 1, N: 9, Missing: 1},
	}
	recs := cmp.Records()
	if len(recs) != 1 {
		t.Fatalf("got %d records, want 1", len(recs))
	}
	want := Record{Dataset: "testdb_10m", Variant: "mongodb-original", Workload: "scan_updates", Rate: 10000, Concurrency: 8, Mean: 2, StdDev: 1, N: 9, Missing: 1}
	if recs[0] != want {
		t.Errorf("got %+v, want %+v", recs[0], want)
	}
	cmp.Variant = &aggstat.Summary{Mean: 3, N: 10}
	if recs := cmp.Records(); len(recs) != 2 || recs[1].Variant != "mongodb-chronos" {
		t.Errorf("got %+v", recs)
	}
}
