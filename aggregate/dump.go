// Copyright 2026 The vlsplot Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package aggregate

import (
	"io"

	"github.com/aclements/go-gg/ggstat"
	"github.com/aclements/go-gg/table"
)

// DumpTrials writes every trial in trials to w as a long-form table,
// one row per trial.
func DumpTrials(w io.Writer, trials []Trial) error {
	if len(trials) == 0 {
		return nil
	}
	t := table.TableFromStructs(trials)
	return table.Fprint(w, t, "%s", "%s", "%s", "%d", "%d", "%d", "%.4f", "%v")
}

// DumpMeans writes one row per configuration in trials to w, giving
// the number of valid trials and their mean, minimum and maximum.
// Missing trials are left out.
func DumpMeans(w io.Writer, trials []Trial) error {
	var valid []Trial
	for _, t := range trials {
		if t.Valid {
			valid = append(valid, t)
		}
	}
	if len(valid) == 0 {
		return nil
	}
	var g table.Grouping = table.TableFromStructs(valid)
	g = table.Remove(g, "Valid")
	g = table.Remove(g, "Trial")
	g = ggstat.Agg("Dataset", "Variant", "Workload", "Rate", "Concurrency")(
		ggstat.AggCount("trials"),
		ggstat.AggMean("Value"),
		ggstat.AggMin("Value"),
		ggstat.AggMax("Value"),
	).F(g)
	// Agg keeps Value when it is constant within every configuration.
	for _, col := range g.Columns() {
		if col == "Value" {
			g = table.Remove(g, "Value")
			break
		}
	}
	return table.Fprint(w, g, "%s", "%s", "%s", "%d", "%d", "%d", "%.4f", "%.4f", "%.4f")
}
