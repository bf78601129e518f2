// Copyright 2026 The vlsplot Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package publish

import (
	"context"
	"strconv"
	"time"

	"github.com/cockroachdb/errors"
	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api"
	"github.com/influxdata/influxdb-client-go/v2/api/write"

	"github.com/chronosdb/vlsplot/aggregate"
)

// Measurement is the InfluxDB measurement summaries are written to.
const Measurement = "vlsplot"

// Influx writes summaries to an InfluxDB bucket.
type Influx struct {
	client influxdb2.Client
	writer api.WriteAPIBlocking
}

// NewInflux returns an Influx writing to bucket of org on the server
// at url.
func NewInflux(url, token, org, bucket string) (*Influx, error) {
	if url == "" || org == "" || bucket == "" {
		return nil, errors.Newf("influx: need URL, org and bucket, have %q, %q, %q", url, org, bucket)
	}
	client := influxdb2.NewClient(url, token)
	return &Influx{client: client, writer: client.WriteAPIBlocking(org, bucket)}, nil
}

// Point returns the point of rec, shown in figure during run at time
// ts.
func Point(run, figure string, rec aggregate.Record, ts time.Time) *write.Point {
	tags := map[string]string{
		"run":         run,
		"figure":      figure,
		"dataset":     rec.Dataset,
		"variant":     rec.Variant,
		"workload":    rec.Workload,
		"rate":        strconv.Itoa(rec.Rate),
		"concurrency": strconv.Itoa(rec.Concurrency),
	}
	fields := map[string]interface{}{
		"mean":    rec.Mean,
		"stddev":  rec.StdDev,
		"n":       rec.N,
		"missing": rec.Missing,
	}
	return influxdb2.NewPoint(Measurement, tags, fields, ts)
}

// WriteComparisons writes a point for each side of every comparison
// in cmps.
func (i *Influx) WriteComparisons(ctx context.Context, run, figure string, cmps []*aggregate.Comparison, ts time.Time) error {
	var points []*write.Point
	for _, cmp := range cmps {
		for _, rec := range cmp.Records() {
			points = append(points, Point(run, figure, rec, ts))
		}
	}
	if len(points) == 0 {
		return nil
	}
	if err := i.writer.WritePoint(ctx, points...); err != nil {
		return errors.Wrapf(err, "influx: writing %d points", len(points))
	}
	return nil
}

// Close closes the client.
func (i *Influx) Close() {
	i.client.Close()
}
