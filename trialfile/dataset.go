// Copyright 2026 The vlsplot Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package trialfile

import (
	"math"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"
)

// A Dataset is a loaded collection and its record count.
type Dataset struct {
	Name    string  // directory name, e.g. "testdb_100m"
	Records float64 // number of records loaded
}

// ParseDataset derives a Dataset from a directory name of the form
// "testdb_<n><suffix>", where suffix is "k" or "m".
func ParseDataset(name string) (Dataset, error) {
	i := strings.LastIndexByte(name, '_')
	if i < 0 || i == len(name)-1 {
		return Dataset{}, errors.Newf("dataset %q: no size suffix", name)
	}
	size := name[i+1:]
	mult := 1.0
	switch size[len(size)-1] {
	case 'k':
		mult = 1e3
		size = size[:len(size)-1]
	case 'm':
		mult = 1e6
		size = size[:len(size)-1]
	}
	n, err := strconv.ParseFloat(size, 64)
	if err != nil || n <= 0 {
		return Dataset{}, errors.Newf("dataset %q: bad size %q", name, name[i+1:])
	}
	return Dataset{Name: name, Records: n * mult}, nil
}

// IndexRate returns the percentage of records an index scan bounded
// at rate visits, as reported in chart titles: 100 - rate*100/records.
func (d Dataset) IndexRate(rate int) float64 {
	return 100 - float64(rate)*100/d.Records
}

// ScanBound returns the index-scan record bound that visits pct
// percent of d. A bound of 0 means a full scan.
func (d Dataset) ScanBound(pct float64) int {
	return int(math.Trunc(d.Records - pct/100*d.Records))
}
