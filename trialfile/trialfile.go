// Copyright 2026 The vlsplot Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package trialfile builds the paths of benchmark harness output
// files.
//
// The harness writes one file per trial, named after the database
// variant, the workload, the target rate, the number of concurrent
// analytics and the trial index:
//
//	<root>/<dataset>/<variant dir>/<prefix>stat_<workload>_<rate>_<concurrency>_<trial>.out
//
// The baseline variant has no prefix; the VLS variant uses "tbb_".
// A workload with no concurrent analytics (concurrency 0) is a plain
// update run and is always stored as "stat_updates".
package trialfile

import (
	"fmt"
	"path/filepath"
	"strconv"

	"github.com/cockroachdb/errors"
)

// MaxTrials is the exclusive upper bound on trial indexes.
const MaxTrials = 10

// Concurrencies lists the numbers of concurrent analytics the harness
// runs.
var Concurrencies = []int{0, 1, 8, 16, 64}

// A Variant is one of the two database builds being compared.
type Variant int

const (
	// Original is the unmodified database.
	Original Variant = iota
	// Chronos is the database with version-list storage (VLS).
	Chronos
)

// Variants lists all variants, baseline first.
var Variants = []Variant{Original, Chronos}

// Dir returns the directory that holds v's result files within a
// dataset directory.
func (v Variant) Dir() string {
	switch v {
	case Original:
		return "mongodb-original"
	case Chronos:
		return "mongodb-chronos"
	}
	panic(fmt.Sprintf("unknown variant %d", int(v)))
}

// Prefix returns the file name prefix the harness uses for v.
func (v Variant) Prefix() string {
	switch v {
	case Original:
		return ""
	case Chronos:
		return "tbb_"
	}
	panic(fmt.Sprintf("unknown variant %d", int(v)))
}

// Label returns the display name of v.
func (v Variant) Label() string {
	switch v {
	case Original:
		return "MongoDB"
	case Chronos:
		return "MongoDB-VLS"
	}
	panic(fmt.Sprintf("unknown variant %d", int(v)))
}

// mustKnown panics if v is not one of the defined variants.
func (v Variant) mustKnown() {
	if v != Original && v != Chronos {
		panic(fmt.Sprintf("unknown variant %d", int(v)))
	}
}

func (v Variant) String() string {
	switch v {
	case Original, Chronos:
		return v.Dir()
	}
	return fmt.Sprintf("Variant(%d)", int(v))
}

// ParseVariant returns the Variant whose directory name is s.
func ParseVariant(s string) (Variant, error) {
	for _, v := range Variants {
		if v.Dir() == s {
			return v, nil
		}
	}
	return 0, errors.Newf("unknown variant %q", s)
}

// A Workload selects a family of result files.
type Workload int

const (
	// ScanUpdates is a full collection scan running alongside
	// updates.
	ScanUpdates Workload = iota
	// IndexScanUpdates is an index scan running alongside updates.
	IndexScanUpdates
	// SingleScan is a single full scan with no updates.
	SingleScan
	// SingleIndexScan is a single index scan with no updates.
	SingleIndexScan
	// QueueSize is a remset queue-size trace of a scan+updates run.
	// It has no trial index and no variant prefix.
	QueueSize
)

var workloadNames = [...]string{
	ScanUpdates:      "scan_updates",
	IndexScanUpdates: "index_scan_updates",
	SingleScan:       "single_scan",
	SingleIndexScan:  "single_index_scan",
	QueueSize:        "scan_update_queue_size",
}

func (w Workload) String() string {
	if w < 0 || int(w) >= len(workloadNames) {
		return fmt.Sprintf("Workload(%d)", int(w))
	}
	return workloadNames[w]
}

// A Config identifies a single trial file.
type Config struct {
	Dataset     string // dataset directory, e.g. "testdb_10m"
	Variant     Variant
	Workload    Workload
	Rate        int // target update rate, or index-scan record bound
	Concurrency int // concurrent analytics
	Trial       int // trial index in [0, MaxTrials)
}

// Validate reports whether c names a file the harness can produce.
func (c Config) Validate() error {
	if c.Dataset == "" {
		return errors.New("empty dataset")
	}
	if c.Variant != Original && c.Variant != Chronos {
		return errors.Newf("unknown variant %d", int(c.Variant))
	}
	if c.Workload < 0 || int(c.Workload) >= len(workloadNames) {
		return errors.Newf("unknown workload %d", int(c.Workload))
	}
	if c.Workload != QueueSize && (c.Trial < 0 || c.Trial >= MaxTrials) {
		return errors.Newf("trial %d out of range [0, %d)", c.Trial, MaxTrials)
	}
	switch c.Workload {
	case ScanUpdates, IndexScanUpdates, QueueSize:
		if !validConcurrency(c.Concurrency) {
			return errors.Newf("unsupported concurrency %d (want one of %v)", c.Concurrency, Concurrencies)
		}
	}
	if c.Rate < 0 {
		return errors.Newf("negative rate %d", c.Rate)
	}
	return nil
}

func validConcurrency(n int) bool {
	for _, c := range Concurrencies {
		if c == n {
			return true
		}
	}
	return false
}

// Name returns the file name of c, without any directory.
func (c Config) Name() string {
	c.Variant.mustKnown()
	rate := strconv.Itoa(c.Rate)
	trial := strconv.Itoa(c.Trial)
	switch c.Workload {
	case ScanUpdates, IndexScanUpdates:
		family := c.Workload.String()
		if c.Concurrency == 0 {
			family = "updates"
		}
		return c.Variant.Prefix() + "stat_" + family + "_" + rate + "_" + strconv.Itoa(c.Concurrency) + "_" + trial + ".out"
	case SingleScan:
		return c.Variant.Prefix() + "stat_single_scan_" + trial + ".out"
	case SingleIndexScan:
		return c.Variant.Prefix() + "stat_single_index_scan_" + rate + "_" + trial + ".out"
	case QueueSize:
		return "stat_scan_update_queue_size_" + rate + "_" + strconv.Itoa(c.Concurrency) + ".out"
	}
	panic(fmt.Sprintf("unknown workload %d", int(c.Workload)))
}

// Path returns the location of the trial file c under root. It does
// no I/O. Path panics if c.Variant or c.Workload is not one of the
// defined constants.
func Path(root string, c Config) string {
	return filepath.Join(root, c.Dataset, c.Variant.Dir(), c.Name())
}

// Trials returns the paths of trials [0, n) of c.
func Trials(root string, c Config, n int) []string {
	paths := make([]string, n)
	for i := range paths {
		c.Trial = i
		paths[i] = Path(root, c)
	}
	return paths
}
