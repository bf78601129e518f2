// Copyright 2026 The vlsplot Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Vlsplot charts and tabulates the results of the version-list
// storage experiments.
//
// Usage:
//
//	vlsplot [-manifest file] [-data dir] [-out dir] [-trials n]
//	        [-html] [-dump] [-db driver:dsn] [-gcs bucket/prefix]
//	        [-influx url] [figure ...]
//
// Vlsplot reads the trial files of every configuration an experiment
// manifest names, summarizes them, and writes a PNG chart and a text
// report per figure under the output directory. With no -manifest, it
// runs the published experiment. The figure arguments restrict the run
// to figures with those kinds or names.
//
// Settings can also come from the environment or a .env file:
// VLSPLOT_DATA, VLSPLOT_OUT, VLSPLOT_DB, VLSPLOT_GCS and the
// VLSPLOT_INFLUX_URL, _TOKEN, _ORG and _BUCKET variables. Flags take
// precedence over the environment, which takes precedence over the
// manifest.
//
// Missing trial files are reported on standard error and skipped.
package main

import (
	"bytes"
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"strings"
	"time"

	_ "github.com/GoogleCloudPlatform/cloudsql-proxy/proxy/dialers/mysql"
	"github.com/cockroachdb/errors"
	_ "github.com/go-sql-driver/mysql"
	"github.com/google/uuid"

	"github.com/chronosdb/vlsplot/aggregate"
	"github.com/chronosdb/vlsplot/chart"
	"github.com/chronosdb/vlsplot/figure"
	"github.com/chronosdb/vlsplot/internal/env"
	"github.com/chronosdb/vlsplot/manifest"
	"github.com/chronosdb/vlsplot/publish"
	"github.com/chronosdb/vlsplot/store"
	_ "github.com/chronosdb/vlsplot/store/sqlite3"
	"github.com/chronosdb/vlsplot/trialfile"
)

func main() {
	log.SetPrefix("vlsplot: ")
	log.SetFlags(0)
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if err := vlsplot(ctx, os.Stdout, os.Stderr, os.Args[1:]); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(2)
		}
		log.Print(err)
		stop()
		os.Exit(1)
	}
}

const usage = `usage: vlsplot [options] [figure ...]

Each figure is a figure kind or name from the manifest:
%s

options:
`

// first returns the first non-empty string of ss.
func first(ss ...string) string {
	for _, s := range ss {
		if s != "" {
			return s
		}
	}
	return ""
}

func vlsplot(ctx context.Context, w, wErr io.Writer, args []string) error {
	flags := flag.NewFlagSet("vlsplot", flag.ContinueOnError)
	flags.SetOutput(wErr)
	flags.Usage = func() {
		fmt.Fprintf(wErr, usage, strings.Join(manifest.Kinds, ", "))
		flags.PrintDefaults()
	}
	flagManifest := flags.String("manifest", "", "read the experiment from YAML `file` instead of using the published one")
	flagData := flags.String("data", "", "read trial files under `dir`")
	flagOut := flags.String("out", "", "write figures under `dir`")
	flagTrials := flags.Int("trials", 0, "summarize the first `n` trials of each configuration")
	flagHTML := flags.Bool("html", false, "also write each report as HTML")
	flagDump := flags.Bool("dump", false, "also write every trial value and the per-configuration means")
	flagDB := flags.String("db", "", "archive summaries in database `driver:dsn`")
	flagGCS := flags.String("gcs", "", "also publish figures to Cloud Storage `bucket/prefix`")
	flagInflux := flags.String("influx", "", "write summaries to the InfluxDB server at `url`")
	flagEnv := flags.String("env", ".env", "load environment variables from `file` if it exists")
	if err := flags.Parse(args); err != nil {
		return err
	}

	logger := log.New(wErr, "vlsplot: ", 0)

	settings, err := env.Load(*flagEnv)
	if err != nil {
		return err
	}
	m := manifest.Default()
	if *flagManifest != "" {
		if m, err = manifest.Load(*flagManifest); err != nil {
			return err
		}
	}
	m.Data = first(*flagData, settings.Data, m.Data)
	m.Out = first(*flagOut, settings.Out, m.Out)
	if *flagTrials != 0 {
		if *flagTrials < 0 || *flagTrials > trialfile.MaxTrials {
			return errors.Newf("-trials %d out of range [1, %d]", *flagTrials, trialfile.MaxTrials)
		}
		m.Trials = *flagTrials
	}
	figs, err := m.Select(flags.Args())
	if err != nil {
		return err
	}

	var pub publish.Publisher = publish.Dir(m.Out)
	if loc := first(*flagGCS, settings.GCS); loc != "" {
		g, err := publish.NewGCS(ctx, loc)
		if err != nil {
			return err
		}
		defer g.Close()
		pub = publish.Multi{pub, g}
	}

	runID := uuid.NewString()
	start := time.Now()
	var run *store.Run
	if dbFlag := first(*flagDB, settings.DB); dbFlag != "" {
		driver, dsn, ok := strings.Cut(dbFlag, ":")
		if !ok {
			return errors.Newf("-db %q: want driver:dsn", dbFlag)
		}
		db, err := store.OpenSQL(driver, dsn)
		if err != nil {
			return errors.Wrapf(err, "open %s database", driver)
		}
		defer db.Close()
		if run, err = db.NewRun(ctx); err != nil {
			return err
		}
		runID, start = run.ID, run.Created
	}
	var influx *publish.Influx
	if url := first(*flagInflux, settings.InfluxURL); url != "" {
		if influx, err = publish.NewInflux(url, settings.InfluxToken, settings.InfluxOrg, settings.InfluxBucket); err != nil {
			return err
		}
		defer influx.Close()
	}

	e := figure.NewEnv(m, logger.Printf)
	for _, f := range figs {
		outs, err := figure.Build(e, f)
		if err != nil {
			return err
		}
		for _, out := range outs {
			if err := emit(ctx, pub, out, *flagHTML); err != nil {
				return errors.Wrap(err, out.Name)
			}
			if run != nil {
				if err := run.InsertComparisons(ctx, out.Name, out.Comparisons); err != nil {
					return err
				}
			}
			if influx != nil {
				if err := influx.WriteComparisons(ctx, runID, out.Name, out.Comparisons, start); err != nil {
					return err
				}
			}
			fmt.Fprintln(w, out.Name)
		}
	}

	if *flagDump {
		if err := dump(ctx, pub, e.Agg.ReadTrials()); err != nil {
			return err
		}
	}
	if run != nil {
		fmt.Fprintf(w, "archived run %s\n", run.ID)
	}
	return nil
}

// emit renders out and publishes its chart and reports.
func emit(ctx context.Context, pub publish.Publisher, out *figure.Output, html bool) error {
	p, err := out.Chart.Plot()
	if err != nil {
		return err
	}
	var buf bytes.Buffer
	if err := chart.WritePNG(&buf, p, out.Size); err != nil {
		return err
	}
	if err := pub.Publish(ctx, out.Name+".png", "image/png", &buf); err != nil {
		return err
	}
	buf.Reset()
	if err := out.Report.WriteText(&buf); err != nil {
		return err
	}
	if err := pub.Publish(ctx, out.Name+".out", "text/plain; charset=utf-8", &buf); err != nil {
		return err
	}
	if !html {
		return nil
	}
	buf.Reset()
	if err := out.Report.WriteHTML(&buf); err != nil {
		return err
	}
	return pub.Publish(ctx, out.Name+".html", "text/html; charset=utf-8", &buf)
}

// dump publishes every trial read and the per-configuration means.
func dump(ctx context.Context, pub publish.Publisher, trials []aggregate.Trial) error {
	var buf bytes.Buffer
	if err := aggregate.DumpTrials(&buf, trials); err != nil {
		return err
	}
	if err := pub.Publish(ctx, "trials.txt", "text/plain; charset=utf-8", &buf); err != nil {
		return err
	}
	buf.Reset()
	if err := aggregate.DumpMeans(&buf, trials); err != nil {
		return err
	}
	return pub.Publish(ctx, "means.txt", "text/plain; charset=utf-8", &buf)
}
