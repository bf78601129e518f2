// Copyright 2026 The vlsplot Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package storetest opens scratch archive databases for tests.
//
// By default every database is an in-memory sqlite3 database. If the
// VLSPLOT_TEST_DB environment variable holds "mysql:<server dsn>",
// each test instead gets a freshly created database on that MySQL
// server, dropped again when the test ends. The server DSN ends in
// "/" and may use the Cloud SQL dialer, as in
// "root:@cloudsql(project:region:instance)/".
package storetest

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"strings"
	"testing"

	_ "github.com/GoogleCloudPlatform/cloudsql-proxy/proxy/dialers/mysql"
	_ "github.com/go-sql-driver/mysql"
	"github.com/google/uuid"

	"github.com/chronosdb/vlsplot/aggregate"
	"github.com/chronosdb/vlsplot/store"
	_ "github.com/chronosdb/vlsplot/store/sqlite3"
)

// EnvVar names the variable selecting the test database server.
const EnvVar = "VLSPLOT_TEST_DB"

// scratchMySQL creates an empty database on the MySQL server at
// server and returns its DSN. The database is dropped at the end of
// the test.
func scratchMySQL(t testing.TB, server string) string {
	t.Helper()
	admin, err := sql.Open("mysql", server)
	if err != nil {
		t.Fatal(err)
	}
	name := "vlsplot_test_" + strings.ReplaceAll(uuid.NewString(), "-", "")[:12]
	if _, err := admin.Exec(fmt.Sprintf("CREATE DATABASE `%s`", name)); err != nil {
		admin.Close()
		t.Fatalf("create %s: %v", name, err)
	}
	t.Logf("using MySQL database %q", name)
	t.Cleanup(func() {
		if _, err := admin.Exec(fmt.Sprintf("DROP DATABASE `%s`", name)); err != nil {
			t.Errorf("drop %s: %v", name, err)
		}
		admin.Close()
	})
	return server + name
}

// NewDB opens an empty archive for t and closes it when t ends.
func NewDB(t testing.TB) *store.DB {
	t.Helper()
	driver, dsn := "sqlite3", ":memory:"
	if v := os.Getenv(EnvVar); v != "" {
		var server string
		var ok bool
		driver, server, ok = strings.Cut(v, ":")
		if !ok || driver != "mysql" {
			t.Fatalf("%s=%q: want mysql:<server dsn>", EnvVar, v)
		}
		dsn = scratchMySQL(t, server)
	}
	db, err := store.OpenSQL(driver, dsn)
	if err != nil {
		t.Fatalf("open %s archive: %v", driver, err)
	}
	// Registered after scratchMySQL, so this runs before the drop.
	t.Cleanup(func() { db.Close() })

	ids, err := db.Runs(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(ids) != 0 {
		t.Fatalf("new archive holds %d run(s), want 0", len(ids))
	}
	return db
}

// Seed archives recs under figure in a new run of db and returns the
// run. It fails t unless the summaries read back unchanged.
func Seed(t testing.TB, db *store.DB, figure string, recs ...aggregate.Record) *store.Run {
	t.Helper()
	ctx := context.Background()
	run, err := db.NewRun(ctx)
	if err != nil {
		t.Fatal(err)
	}
	for _, rec := range recs {
		if err := run.InsertSummary(ctx, store.Summary{Figure: figure, Record: rec}); err != nil {
			t.Fatal(err)
		}
	}
	got, err := db.Summaries(ctx, run.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != len(recs) {
		t.Fatalf("run %s: read back %d summaries, want %d", run.ID, len(got), len(recs))
	}
	for i, s := range got {
		if s.Figure != figure || s.Record != recs[i] {
			t.Fatalf("run %s: summary %d = %+v, want %s %+v", run.ID, i, s, figure, recs[i])
		}
	}
	return run
}
