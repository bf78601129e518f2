// Copyright 2026 The vlsplot Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package store_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chronosdb/vlsplot/aggregate"
	"github.com/chronosdb/vlsplot/aggstat"
	. "github.com/chronosdb/vlsplot/store"
	"github.com/chronosdb/vlsplot/store/storetest"
	"github.com/chronosdb/vlsplot/trialfile"
)

func TestNewRun(t *testing.T) {
	ctx := context.Background()
	db := storetest.NewDB(t)

	defer SetNow(time.Time{})
	SetNow(time.Unix(86400, 500))

	r1, err := db.NewRun(ctx)
	require.NoError(t, err)
	r2, err := db.NewRun(ctx)
	require.NoError(t, err)

	_, err = uuid.Parse(r1.ID)
	assert.NoError(t, err, "run ID is not a UUID")
	assert.NotEqual(t, r1.ID, r2.ID)
	assert.Equal(t, time.Unix(86400, 0).UTC(), r1.Created)

	n, err := db.CountRuns()
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestSummaries(t *testing.T) {
	ctx := context.Background()
	db := storetest.NewDB(t)

	run, err := db.NewRun(ctx)
	require.NoError(t, err)

	first := Summary{
		Figure: "throughput/tbb_scan_updates_throughput_mongodb",
		Record: aggregate.Record{Dataset: "testdb_10m", Variant: "mongodb-original", Workload: "scan_updates", Rate: 10000, Concurrency: 8, Mean: 1200.5, StdDev: 3.25, N: 9, Missing: 1},
	}
	require.NoError(t, run.InsertSummary(ctx, first))

	cmp := &aggregate.Comparison{
		Config:   trialfile.Config{Dataset: "testdb_100m", Workload: trialfile.SingleScan},
		Baseline: &aggstat.Summary{Mean: 4, StdDev: 0.5, N: 10},
		Variant:  &aggstat.Summary{Mean: 3, StdDev: 0.25, N: 10},
	}
	missing := &aggregate.Comparison{Config: trialfile.Config{Dataset: "testdb_100m", Workload: trialfile.SingleIndexScan, Rate: 95000000}}
	require.NoError(t, run.InsertComparisons(ctx, "scan_duration/scan_duration", []*aggregate.Comparison{cmp, missing}))

	got, err := db.Summaries(ctx, run.ID)
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, first, got[0])
	assert.Equal(t, "mongodb-original", got[1].Variant)
	assert.Equal(t, "mongodb-chronos", got[2].Variant)
	assert.Equal(t, "single_scan", got[2].Workload)
	assert.Equal(t, 3.0, got[2].Mean)

	// Other runs see none of them.
	other, err := db.NewRun(ctx)
	require.NoError(t, err)
	got, err = db.Summaries(ctx, other.ID)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestDeleteRun(t *testing.T) {
	ctx := context.Background()
	db := storetest.NewDB(t)

	run := storetest.Seed(t, db, "f",
		aggregate.Record{Dataset: "testdb_10m", Variant: "mongodb-original", N: 10},
		aggregate.Record{Dataset: "testdb_10m", Variant: "mongodb-chronos", N: 9, Missing: 1})

	require.NoError(t, db.DeleteRun(ctx, run.ID))
	assert.Error(t, db.DeleteRun(ctx, run.ID))

	// The summaries went with the run.
	var n int
	require.NoError(t, DBSQL(db).QueryRow("SELECT COUNT(*) FROM Summaries").Scan(&n))
	assert.Zero(t, n)

	ids, err := db.Runs(ctx)
	require.NoError(t, err)
	assert.Empty(t, ids)
}

func TestInsertSummaryUnknownRun(t *testing.T) {
	ctx := context.Background()
	db := storetest.NewDB(t)

	run, err := db.NewRun(ctx)
	require.NoError(t, err)
	require.NoError(t, db.DeleteRun(ctx, run.ID))

	// Foreign keys are enforced.
	assert.Error(t, run.InsertSummary(ctx, Summary{Figure: "f"}))
}

func TestRuns(t *testing.T) {
	ctx := context.Background()
	db := storetest.NewDB(t)
	defer SetNow(time.Time{})

	var want []string
	for _, sec := range []int64{300, 100, 200} {
		SetNow(time.Unix(sec, 0))
		r, err := db.NewRun(ctx)
		require.NoError(t, err)
		want = append(want, r.ID)
	}
	ids, err := db.Runs(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{want[1], want[2], want[0]}, ids)
}
