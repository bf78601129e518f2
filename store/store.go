// Copyright 2026 The vlsplot Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package store archives the summaries of vlsplot runs in a SQL
// database.
//
// Every invocation of vlsplot that archives its results creates one
// Run, identified by a random UUID, and inserts one row per summarized
// configuration and variant.
package store

import (
	"bytes"
	"context"
	"database/sql"
	"strings"
	"text/template"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"

	"github.com/chronosdb/vlsplot/aggregate"
)

// DB is an archive database. It's safe for concurrent use by multiple
// goroutines.
type DB struct {
	sql *sql.DB // underlying database connection
	// prepared statements
	insertRun     *sql.Stmt
	insertSummary *sql.Stmt
}

// OpenSQL creates a DB backed by a SQL database. The parameters are
// the same as the parameters for sql.Open. Only mysql and sqlite3 are
// explicitly supported; other database engines will receive MySQL
// query syntax which may or may not be compatible.
func OpenSQL(driverName, dataSourceName string) (*DB, error) {
	db, err := sql.Open(driverName, dataSourceName)
	if err != nil {
		return nil, err
	}
	if hook := openHooks[driverName]; hook != nil {
		if err := hook(db); err != nil {
			db.Close()
			return nil, err
		}
	}
	d := &DB{sql: db}
	if err := d.createTables(driverName); err != nil {
		db.Close()
		return nil, err
	}
	if err := d.prepareStatements(); err != nil {
		db.Close()
		return nil, err
	}
	return d, nil
}

var openHooks = make(map[string]func(*sql.DB) error)

// RegisterOpenHook registers a hook to be called after opening a
// connection to driverName. It must be called from an init function.
func RegisterOpenHook(driverName string, hook func(*sql.DB) error) {
	openHooks[driverName] = hook
}

// createTmpl is the template used to prepare the CREATE statements
// for the database. It is evaluated with . as a map containing one
// entry whose key is the driver name.
var createTmpl = template.Must(template.New("create").Parse(`
CREATE TABLE IF NOT EXISTS Runs (
	RunID VARCHAR(36) PRIMARY KEY,
	Created BIGINT NOT NULL
);
CREATE TABLE IF NOT EXISTS Summaries (
	RunID VARCHAR(36),
	SummaryID BIGINT UNSIGNED,
	Figure VARCHAR(255),
	Dataset VARCHAR(255),
	Variant VARCHAR(255),
	Workload VARCHAR(255),
	Rate BIGINT,
	Concurrency INT,
	Mean DOUBLE,
	StdDev DOUBLE,
	N INT,
	Missing INT,
	PRIMARY KEY (RunID, SummaryID),
{{if not .sqlite3}}
	Index (Dataset(100), Workload(100)),
{{end}}
	FOREIGN KEY (RunID) REFERENCES Runs(RunID) ON UPDATE CASCADE ON DELETE CASCADE
);
{{if .sqlite3}}
CREATE INDEX IF NOT EXISTS SummariesDatasetWorkload ON Summaries(Dataset, Workload);
{{end}}
`))

// createTables creates any missing tables on the connection in
// db.sql. driverName is the same driver name passed to sql.Open and
// is used to select the correct syntax.
func (db *DB) createTables(driverName string) error {
	var buf bytes.Buffer
	if err := createTmpl.Execute(&buf, map[string]bool{driverName: true}); err != nil {
		return err
	}
	for _, q := range strings.Split(buf.String(), ";") {
		if strings.TrimSpace(q) == "" {
			continue
		}
		if _, err := db.sql.Exec(q); err != nil {
			return errors.Wrap(err, "create table")
		}
	}
	return nil
}

// prepareStatements calls db.sql.Prepare on reusable SQL statements.
func (db *DB) prepareStatements() error {
	var err error
	db.insertRun, err = db.sql.Prepare("INSERT INTO Runs(RunID, Created) VALUES (?, ?)")
	if err != nil {
		return err
	}
	db.insertSummary, err = db.sql.Prepare("INSERT INTO Summaries(RunID, SummaryID, Figure, Dataset, Variant, Workload, Rate, Concurrency, Mean, StdDev, N, Missing) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)")
	return err
}

// now is a hook for testing
var now = time.Now

// A Run is one invocation's set of summaries.
type Run struct {
	// ID is the run's UUID.
	ID string
	// Created is when the run was started, to the second.
	Created time.Time

	// summaryid is the index of the next summary to insert.
	summaryid int64
	// db is the underlying database that this run is going to.
	db *DB
}

// NewRun returns a new, empty run.
func (db *DB) NewRun(ctx context.Context) (*Run, error) {
	r := &Run{
		ID:      uuid.NewString(),
		Created: now().UTC().Truncate(time.Second),
		db:      db,
	}
	if _, err := db.insertRun.ExecContext(ctx, r.ID, r.Created.Unix()); err != nil {
		return nil, errors.Wrap(err, "insert run")
	}
	return r, nil
}

// A Summary is one archived row.
type Summary struct {
	// Figure is the name of the output the summary was shown in.
	Figure string
	aggregate.Record
}

// InsertSummary inserts a summary into r.
func (r *Run) InsertSummary(ctx context.Context, s Summary) error {
	_, err := r.db.insertSummary.ExecContext(ctx, r.ID, r.summaryid, s.Figure,
		s.Dataset, s.Variant, s.Workload, s.Rate, s.Concurrency,
		s.Mean, s.StdDev, s.N, s.Missing)
	if err != nil {
		return errors.Wrapf(err, "insert summary %d of run %s", r.summaryid, r.ID)
	}
	r.summaryid++
	return nil
}

// InsertComparisons inserts both sides of every comparison in cmps,
// all shown in figure, in a single transaction.
func (r *Run) InsertComparisons(ctx context.Context, figure string, cmps []*aggregate.Comparison) (err error) {
	tx, err := r.db.sql.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		} else {
			err = tx.Commit()
		}
	}()
	stmt := tx.StmtContext(ctx, r.db.insertSummary)
	id := r.summaryid
	for _, cmp := range cmps {
		for _, rec := range cmp.Records() {
			if _, err := stmt.ExecContext(ctx, r.ID, id, figure,
				rec.Dataset, rec.Variant, rec.Workload, rec.Rate, rec.Concurrency,
				rec.Mean, rec.StdDev, rec.N, rec.Missing); err != nil {
				return errors.Wrapf(err, "insert summary %d of run %s", id, r.ID)
			}
			id++
		}
	}
	r.summaryid = id
	return nil
}

// Summaries returns the summaries of the run with the given ID, in
// insertion order.
func (db *DB) Summaries(ctx context.Context, runID string) ([]Summary, error) {
	rows, err := db.sql.QueryContext(ctx, "SELECT Figure, Dataset, Variant, Workload, Rate, Concurrency, Mean, StdDev, N, Missing FROM Summaries WHERE RunID = ? ORDER BY SummaryID", runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Summary
	for rows.Next() {
		var s Summary
		if err := rows.Scan(&s.Figure, &s.Dataset, &s.Variant, &s.Workload, &s.Rate, &s.Concurrency, &s.Mean, &s.StdDev, &s.N, &s.Missing); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// Runs returns the IDs of all runs, oldest first.
func (db *DB) Runs(ctx context.Context) ([]string, error) {
	rows, err := db.sql.QueryContext(ctx, "SELECT RunID FROM Runs ORDER BY Created, RunID")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// DeleteRun deletes the run with the given ID and its summaries.
func (db *DB) DeleteRun(ctx context.Context, runID string) error {
	res, err := db.sql.ExecContext(ctx, "DELETE FROM Runs WHERE RunID = ?", runID)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return errors.Newf("no run %q", runID)
	}
	return nil
}

// CountRuns returns the number of runs in the database.
func (db *DB) CountRuns() (int, error) {
	var uploads int
	err := db.sql.QueryRow("SELECT COUNT(*) FROM Runs").Scan(&uploads)
	return uploads, err
}

// Close closes the database connections, releasing any open resources.
func (db *DB) Close() error {
	if err := db.insertRun.Close(); err != nil {
		return err
	}
	if err := db.insertSummary.Close(); err != nil {
		return err
	}
	return db.sql.Close()
}
