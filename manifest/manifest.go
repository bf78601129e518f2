// Copyright 2026 The vlsplot Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package manifest describes an experiment: where its trial files
// live, which datasets it covers, and which figures to draw from it.
//
// A manifest is a YAML document:
//
//	data: ../results
//	out: plots
//	trials: 10
//	datasets:
//	  - name: testdb_10m
//	    headroom: 1.05
//	figures:
//	  - kind: full-scan-throughput
//	    datasets: [testdb_10m]
//	    rates: [10000]
//	    concurrency: [0, 1, 8, 16, 64]
//
// Fields left out take the values of Default.
package manifest

import (
	"os"

	"github.com/cockroachdb/errors"
	"gopkg.in/yaml.v3"

	"github.com/chronosdb/vlsplot/trialfile"
)

// Figure kinds.
const (
	FullScanLatency    = "full-scan-latency"
	FullScanThroughput = "full-scan-throughput"
	IndexScanLatency   = "index-scan-latency"
	QueryTime          = "query-time"
	RemsetSize         = "remset-size"
)

// Kinds lists the figure kinds in their default order.
var Kinds = []string{FullScanLatency, FullScanThroughput, IndexScanLatency, QueryTime, RemsetSize}

// A Manifest describes an experiment.
type Manifest struct {
	// Data is the directory holding one subdirectory per dataset.
	Data string `yaml:"data"`
	// Out is the directory figures are written to.
	Out string `yaml:"out"`
	// Trials is the number of trials per configuration.
	Trials int `yaml:"trials"`

	Datasets []Dataset `yaml:"datasets"`
	Labels   Labels    `yaml:"labels"`
	Figures  []Figure  `yaml:"figures"`
}

// A Dataset is a loaded collection.
type Dataset struct {
	Name string `yaml:"name"`
	// Records is the number of records. If zero, it is derived
	// from Name.
	Records float64 `yaml:"records"`
	// Headroom scales the largest bar of a linear chart to give
	// the chart's Y range.
	Headroom float64 `yaml:"headroom"`
}

// Labels are the display names of the two variants.
type Labels struct {
	Baseline string `yaml:"baseline"`
	Variant  string `yaml:"variant"`
}

// A Figure selects one analysis and its parameters. Which parameters
// apply depends on Kind.
type Figure struct {
	Kind string `yaml:"kind"`
	// Name is the base name of the figure's files. If empty, it
	// is derived from Kind.
	Name     string   `yaml:"name"`
	Datasets []string `yaml:"datasets"`
	// Rates are the target update rates, in operations per second.
	Rates       []int `yaml:"rates"`
	Concurrency []int `yaml:"concurrency"`
	// IndexBounds are index-scan record bounds, in percent of the
	// dataset's records. An index scan bounded at 75% visits the
	// remaining 25%.
	IndexBounds []float64 `yaml:"index_bounds"`
	// Selectivity is the percentage of records a query visits.
	// 100 is a full scan.
	Selectivity []float64 `yaml:"selectivity"`
	// YMax, if non-zero, fixes the top of the chart's Y axis.
	YMax float64 `yaml:"ymax"`
}

// Load reads the manifest at path.
func Load(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read manifest")
	}
	m, err := Parse(data)
	if err != nil {
		return nil, errors.Wrapf(err, "%s", path)
	}
	return m, nil
}

// Parse parses and validates a manifest, filling in defaults.
func Parse(data []byte) (*Manifest, error) {
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, errors.Wrap(err, "parse manifest YAML")
	}
	if err := m.validate(); err != nil {
		return nil, err
	}
	return &m, nil
}

// Default returns the manifest of the published experiment.
func Default() *Manifest {
	both := []string{"testdb_10m", "testdb_100m"}
	return &Manifest{
		Data:   "..",
		Out:    ".",
		Trials: trialfile.MaxTrials,
		Datasets: []Dataset{
			{Name: "testdb_1m", Records: 1e6, Headroom: 1.4},
			{Name: "testdb_10m", Records: 1e7, Headroom: 1.05},
			{Name: "testdb_100m", Records: 1e8, Headroom: 1.05},
		},
		Labels: Labels{Baseline: trialfile.Original.Label(), Variant: trialfile.Chronos.Label()},
		Figures: []Figure{
			{Kind: FullScanLatency, Datasets: both, Rates: []int{10000}, Concurrency: []int{0, 1, 8, 16, 64}},
			{Kind: FullScanThroughput, Datasets: both, Rates: []int{10000}, Concurrency: []int{0, 1, 8, 16, 64}},
			{Kind: IndexScanLatency, Datasets: both, Concurrency: []int{1, 8, 16, 64}, IndexBounds: []float64{75, 90, 95}, YMax: 240},
			{Kind: QueryTime, Datasets: both, Rates: []int{10000}, Selectivity: []float64{5, 10, 25, 100}},
			{Kind: RemsetSize, Datasets: []string{"testdb_100m"}, Rates: []int{10000, 100000}, Concurrency: []int{8, 16}},
		},
	}
}

func (m *Manifest) validate() error {
	def := Default()
	if m.Data == "" {
		m.Data = def.Data
	}
	if m.Out == "" {
		m.Out = def.Out
	}
	if m.Trials == 0 {
		m.Trials = def.Trials
	}
	if m.Trials < 0 || m.Trials > trialfile.MaxTrials {
		return errors.Newf("trials %d out of range [1, %d]", m.Trials, trialfile.MaxTrials)
	}
	if m.Labels.Baseline == "" {
		m.Labels.Baseline = def.Labels.Baseline
	}
	if m.Labels.Variant == "" {
		m.Labels.Variant = def.Labels.Variant
	}
	if len(m.Datasets) == 0 {
		m.Datasets = def.Datasets
	}
	seen := make(map[string]bool)
	for i := range m.Datasets {
		d := &m.Datasets[i]
		if d.Name == "" {
			return errors.Newf("dataset at index %d has no name", i)
		}
		if seen[d.Name] {
			return errors.Newf("dataset %q listed twice", d.Name)
		}
		seen[d.Name] = true
		if d.Records == 0 {
			pd, err := trialfile.ParseDataset(d.Name)
			if err != nil {
				return errors.Wrap(err, "no records given")
			}
			d.Records = pd.Records
		}
		if d.Records < 0 {
			return errors.Newf("dataset %q has negative records", d.Name)
		}
		if d.Headroom == 0 {
			d.Headroom = 1.05
		}
	}
	if len(m.Figures) == 0 {
		m.Figures = def.Figures
	}
	for i := range m.Figures {
		if err := m.validateFigure(&m.Figures[i]); err != nil {
			return errors.Wrapf(err, "figure at index %d", i)
		}
	}
	return nil
}

func (m *Manifest) validateFigure(f *Figure) error {
	var def *Figure
	for _, d := range Default().Figures {
		if d.Kind == f.Kind {
			d := d
			def = &d
		}
	}
	if def == nil {
		return errors.Newf("unknown figure kind %q", f.Kind)
	}
	if f.Name == "" {
		f.Name = f.Kind
	}
	if len(f.Datasets) == 0 {
		f.Datasets = def.Datasets
	}
	for _, name := range f.Datasets {
		if _, err := m.Dataset(name); err != nil {
			return err
		}
	}
	if len(f.Rates) == 0 {
		f.Rates = def.Rates
	}
	if len(f.Concurrency) == 0 {
		f.Concurrency = def.Concurrency
	}
	for _, c := range f.Concurrency {
		cfg := trialfile.Config{Dataset: "d", Workload: trialfile.ScanUpdates, Concurrency: c}
		if err := cfg.Validate(); err != nil {
			return err
		}
	}
	if len(f.IndexBounds) == 0 {
		f.IndexBounds = def.IndexBounds
	}
	for _, b := range f.IndexBounds {
		if b <= 0 || b >= 100 {
			return errors.Newf("index bound %g%% out of range (0, 100)", b)
		}
	}
	if len(f.Selectivity) == 0 {
		f.Selectivity = def.Selectivity
	}
	for _, s := range f.Selectivity {
		if s <= 0 || s > 100 {
			return errors.Newf("selectivity %g%% out of range (0, 100]", s)
		}
	}
	if f.YMax == 0 {
		f.YMax = def.YMax
	}
	switch f.Kind {
	case FullScanLatency, FullScanThroughput, QueryTime, RemsetSize:
		if len(f.Rates) == 0 {
			return errors.Newf("%s figure has no rates", f.Kind)
		}
	}
	return nil
}

// Dataset returns the dataset called name.
func (m *Manifest) Dataset(name string) (Dataset, error) {
	for _, d := range m.Datasets {
		if d.Name == name {
			return d, nil
		}
	}
	return Dataset{}, errors.Newf("unknown dataset %q", name)
}

// Select returns the figures of m whose kind or name is in names, in
// manifest order. It returns all figures if names is empty.
func (m *Manifest) Select(names []string) ([]Figure, error) {
	if len(names) == 0 {
		return m.Figures, nil
	}
	want := make(map[string]bool)
	for _, n := range names {
		want[n] = true
	}
	matched := make(map[string]bool)
	var figs []Figure
	for _, f := range m.Figures {
		if want[f.Kind] || want[f.Name] {
			figs = append(figs, f)
			matched[f.Kind] = true
			matched[f.Name] = true
		}
	}
	for _, n := range names {
		if !matched[n] {
			return nil, errors.Newf("no figure %q in manifest", n)
		}
	}
	return figs, nil
}

// Trialfile returns d as a trialfile.Dataset.
func (d Dataset) Trialfile() trialfile.Dataset {
	return trialfile.Dataset{Name: d.Name, Records: d.Records}
}
