// Copyright 2026 The vlsplot Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package publish

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/option"

	"github.com/chronosdb/vlsplot/aggregate"
	"github.com/chronosdb/vlsplot/aggstat"
	"github.com/chronosdb/vlsplot/trialfile"
)

func TestDir(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	d := Dir(dir)

	require.NoError(t, d.Publish(ctx, "latency/a.out", "text/plain", strings.NewReader("first version\n")))
	require.NoError(t, d.Publish(ctx, "latency/a.out", "text/plain", strings.NewReader("second\n")))

	data, err := os.ReadFile(filepath.Join(dir, "latency", "a.out"))
	require.NoError(t, err)
	assert.Equal(t, "second\n", string(data), "existing file not truncated")
}

func TestMem(t *testing.T) {
	m := NewMem()
	require.NoError(t, m.Publish(context.Background(), "b.png", "image/png", strings.NewReader("png")))
	require.NoError(t, m.Publish(context.Background(), "a.out", "text/plain", strings.NewReader("out")))

	assert.Equal(t, []string{"a.out", "b.png"}, m.Names())
	obj := m.Object("b.png")
	require.NotNil(t, obj)
	assert.Equal(t, "image/png", obj.ContentType)
	assert.Equal(t, "png", string(obj.Data))
	assert.Nil(t, m.Object("c"))
}

type failing struct{}

func (failing) Publish(context.Context, string, string, io.Reader) error {
	return io.ErrClosedPipe
}

func TestMulti(t *testing.T) {
	a, b := NewMem(), NewMem()
	require.NoError(t, Multi{a, b}.Publish(context.Background(), "x", "text/plain", strings.NewReader("data")))
	assert.Equal(t, "data", string(a.Object("x").Data))
	assert.Equal(t, "data", string(b.Object("x").Data))

	c := NewMem()
	err := Multi{failing{}, c}.Publish(context.Background(), "x", "text/plain", strings.NewReader("data"))
	assert.ErrorIs(t, err, io.ErrClosedPipe)
	assert.Empty(t, c.Names())
}

func TestParseBucket(t *testing.T) {
	for _, test := range []struct {
		loc, bucket, prefix string
	}{
		{"figs", "figs", ""},
		{"figs/", "figs", ""},
		{"figs/runs/2026", "figs", "runs/2026"},
		{"gs://figs/runs/", "figs", "runs"},
	} {
		bucket, prefix, err := ParseBucket(test.loc)
		if assert.NoError(t, err, test.loc) {
			assert.Equal(t, test.bucket, bucket, test.loc)
			assert.Equal(t, test.prefix, prefix, test.loc)
		}
	}
	_, _, err := ParseBucket("/prefix")
	assert.Error(t, err)
}

func TestGCS(t *testing.T) {
	var mu sync.Mutex
	var paths, bodies []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		mu.Lock()
		paths = append(paths, r.URL.Path)
		bodies = append(bodies, string(body))
		mu.Unlock()
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"bucket": "figs", "name": "runs/latency/a.out"}`)
	}))
	defer srv.Close()

	ctx := context.Background()
	g, err := NewGCS(ctx, "figs/runs", option.WithEndpoint(srv.URL+"/storage/v1/"), option.WithoutAuthentication(), option.WithHTTPClient(srv.Client()))
	require.NoError(t, err)
	defer g.Close()

	assert.Equal(t, "runs/latency/a.out", g.ObjectName("latency/a.out"))
	require.NoError(t, g.Publish(ctx, "latency/a.out", "text/plain", strings.NewReader("report body")))

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, paths, 1)
	assert.Contains(t, paths[0], "/b/figs/o")
	assert.Contains(t, bodies[0], "report body")
	assert.Contains(t, bodies[0], "runs/latency/a.out")
}

func TestInflux(t *testing.T) {
	var mu sync.Mutex
	var queries, bodies []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		mu.Lock()
		queries = append(queries, r.URL.Path+"?"+r.URL.RawQuery)
		bodies = append(bodies, string(body))
		mu.Unlock()
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	i, err := NewInflux(srv.URL, "token", "perf", "vls")
	require.NoError(t, err)
	defer i.Close()

	cmp := &aggregate.Comparison{
		Config:   trialfile.Config{Dataset: "testdb_10m", Workload: trialfile.ScanUpdates, Rate: 10000, Concurrency: 8},
		Baseline: &aggstat.Summary{Mean: 12.5, StdDev: 1, N: 10},
		Variant:  &aggstat.Summary{Mean: 10, StdDev: 0.5, N: 9, Missing: 1},
	}
	ts := time.Unix(1700000000, 0)
	ctx := context.Background()
	require.NoError(t, i.WriteComparisons(ctx, "run-1", "latency/fig", []*aggregate.Comparison{cmp}, ts))
	// Nothing to write is not a request.
	require.NoError(t, i.WriteComparisons(ctx, "run-1", "latency/fig", []*aggregate.Comparison{{}}, ts))

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, queries, 1)
	assert.Contains(t, queries[0], "/api/v2/write")
	assert.Contains(t, queries[0], "org=perf")
	assert.Contains(t, queries[0], "bucket=vls")
	lines := strings.Split(strings.TrimSpace(bodies[0]), "\n")
	require.Len(t, lines, 2)
	assert.True(t, strings.HasPrefix(lines[0], Measurement+","), lines[0])
	assert.Contains(t, lines[0], "variant=mongodb-original")
	assert.Contains(t, lines[1], "variant=mongodb-chronos")
	assert.Contains(t, lines[1], "missing=1i")
	assert.Contains(t, lines[0], "mean=12.5")
}

func TestInfluxConfig(t *testing.T) {
	_, err := NewInflux("http://localhost:8086", "", "", "bucket")
	assert.Error(t, err)
}

func TestPoint(t *testing.T) {
	rec := aggregate.Record{Dataset: "testdb_100m", Variant: "mongodb-chronos", Workload: "single_scan", Mean: 3}
	p := Point("r", "f", rec, time.Unix(0, 0))
	assert.Equal(t, Measurement, p.Name())
	tags := make(map[string]string)
	for _, tag := range p.TagList() {
		tags[tag.Key] = tag.Value
	}
	assert.Equal(t, "single_scan", tags["workload"])
	assert.Equal(t, "0", tags["rate"])
	assert.Len(t, p.FieldList(), 4)
}
