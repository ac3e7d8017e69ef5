// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package db provides the database interface of the run store: stored
// runs searchable by label, and named view configurations.
package db

import (
	"bytes"
	"context"
	"database/sql"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"text/template"

	"golang.org/x/runviz/runfmt"
	"golang.org/x/runviz/runkey"
)

// DB is a high-level interface to a database for the run store. It's
// safe for concurrent use by multiple goroutines.
type DB struct {
	sql    *sql.DB // underlying database connection
	driver string

	// prepared statements
	getConfig *sql.Stmt
	putConfig *sql.Stmt
	insertRun *sql.Stmt
}

// OpenSQL creates a DB backed by a SQL database. The parameters are
// the same as the parameters for sql.Open. The mysql, postgres and
// sqlite3 drivers are supported; other database engines will receive
// MySQL query syntax which may or may not be compatible.
func OpenSQL(driverName, dataSourceName string) (*DB, error) {
	db, err := sql.Open(driverName, dataSourceName)
	if err != nil {
		return nil, err
	}
	if hook := openHooks[driverName]; hook != nil {
		if err := hook(db); err != nil {
			return nil, err
		}
	}
	d := &DB{sql: db, driver: driverName}
	if err := d.createTables(); err != nil {
		return nil, err
	}
	if err := d.prepareStatements(); err != nil {
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
CREATE TABLE IF NOT EXISTS Configs (
	Name VARCHAR(255) PRIMARY KEY,
	Value TEXT
);
CREATE TABLE IF NOT EXISTS Runs (
	Seq {{if .sqlite3}}INTEGER PRIMARY KEY AUTOINCREMENT{{else if .postgres}}SERIAL PRIMARY KEY{{else}}SERIAL PRIMARY KEY AUTO_INCREMENT{{end}},
	Hash VARCHAR(255) UNIQUE,
	Content {{if .postgres}}BYTEA{{else}}BLOB{{end}}
);
CREATE TABLE IF NOT EXISTS RunLabels (
	Seq BIGINT,
	Name VARCHAR(255),
	Value VARCHAR(8192){{if .mysql}},
	Index (Name(100), Value(100)){{end}}
);
{{if not .mysql}}
CREATE INDEX IF NOT EXISTS RunLabelsNameValue ON RunLabels(Name, Value);
{{end}}
`))

// createTables creates any missing tables on the connection in
// db.sql.
func (db *DB) createTables() error {
	var buf bytes.Buffer
	if err := createTmpl.Execute(&buf, map[string]bool{db.driver: true}); err != nil {
		return err
	}
	for _, q := range strings.Split(buf.String(), ";") {
		if strings.TrimSpace(q) == "" {
			continue
		}
		if _, err := db.sql.Exec(q); err != nil {
			return fmt.Errorf("create table: %v", err)
		}
	}
	return nil
}

// rebind rewrites the ? placeholders of q for the driver of db.
func (db *DB) rebind(q string) string {
	if db.driver != "postgres" {
		return q
	}
	var b strings.Builder
	n := 0
	for _, c := range q {
		if c == '?' {
			n++
			b.WriteString("$" + strconv.Itoa(n))
			continue
		}
		b.WriteRune(c)
	}
	return b.String()
}

// prepareStatements calls db.sql.Prepare on reusable SQL statements.
func (db *DB) prepareStatements() error {
	var err error
	db.getConfig, err = db.sql.Prepare(db.rebind("SELECT Value FROM Configs WHERE Name = ?"))
	if err != nil {
		return err
	}
	q := "REPLACE INTO Configs(Name, Value) VALUES (?, ?)"
	if db.driver == "postgres" {
		q = "INSERT INTO Configs(Name, Value) VALUES (?, ?) ON CONFLICT (Name) DO UPDATE SET Value = EXCLUDED.Value"
	}
	db.putConfig, err = db.sql.Prepare(db.rebind(q))
	if err != nil {
		return err
	}
	db.insertRun, err = db.sql.Prepare(db.rebind("INSERT INTO Runs(Hash, Content) VALUES (?, ?)"))
	if err != nil {
		return err
	}
	return nil
}

// Get returns the configuration value stored under key, and whether
// there is one.
func (db *DB) Get(ctx context.Context, key string) (string, bool, error) {
	var value string
	err := db.getConfig.QueryRowContext(ctx, key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return value, true, nil
}

// Put stores value under key, replacing any previous value.
func (db *DB) Put(ctx context.Context, key, value string) error {
	_, err := db.putConfig.ExecContext(ctx, key, value)
	return err
}

// Keys returns the keys of all stored configurations, sorted.
func (db *DB) Keys(ctx context.Context) ([]string, error) {
	rows, err := db.sql.QueryContext(ctx, "SELECT Name FROM Configs ORDER BY Name")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var keys []string
	for rows.Next() {
		var k string
		if err := rows.Scan(&k); err != nil {
			return nil, err
		}
		keys = append(keys, k)
	}
	return keys, rows.Err()
}

// Labels returns the searchable labels of run, sorted by name. A run
// is labeled with its hash, its name and experiment, every parameter
// path as "run.params.<path>", every metric name as "metric", and
// every trace context key as "context.<key>". Label values are the
// display text of the value: strings as is, anything else as JSON.
func Labels(run *runfmt.Run) [][2]string {
	var labels [][2]string
	add := func(name string, v interface{}) {
		s, ok := v.(string)
		if !ok {
			s = runkey.JSON(v)
		}
		labels = append(labels, [2]string{name, s})
	}
	add("hash", run.Hash)
	if run.Props.Name != "" {
		add("run.name", run.Props.Name)
	}
	if run.Props.Experiment != "" {
		add("run.experiment", run.Props.Experiment)
	}
	for _, p := range runfmt.ParamPaths(run.Params) {
		v, _ := runfmt.Get(run.Params, p)
		add("run.params."+p, v)
	}
	seen := make(map[[2]string]bool)
	for _, tr := range run.Traces {
		add("metric", tr.MetricName)
		for k, v := range tr.Context {
			add("context."+k, v)
		}
	}
	// Traces repeat metric names and contexts.
	out := labels[:0]
	for _, l := range labels {
		if !seen[l] {
			seen[l] = true
			out = append(out, l)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i][0] < out[j][0] })
	return out
}

// InsertRun stores run, replacing any stored run with the same hash.
// The run is searchable by its Labels and by the extra labels.
func (db *DB) InsertRun(ctx context.Context, run *runfmt.Run, extra ...[2]string) (err error) {
	var buf bytes.Buffer
	if err := runfmt.NewWriter(&buf).Write(run); err != nil {
		return err
	}

	tx, err := db.sql.BeginTx(ctx, nil)
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

	if _, err = tx.ExecContext(ctx, db.rebind("DELETE FROM RunLabels WHERE Seq IN (SELECT Seq FROM Runs WHERE Hash = ?)"), run.Hash); err != nil {
		return err
	}
	if _, err = tx.ExecContext(ctx, db.rebind("DELETE FROM Runs WHERE Hash = ?"), run.Hash); err != nil {
		return err
	}
	if _, err = tx.StmtContext(ctx, db.insertRun).ExecContext(ctx, run.Hash, buf.Bytes()); err != nil {
		return err
	}
	var seq int64
	if err = tx.QueryRowContext(ctx, db.rebind("SELECT Seq FROM Runs WHERE Hash = ?"), run.Hash).Scan(&seq); err != nil {
		return err
	}

	labels := append(Labels(run), extra...)
	var args []interface{}
	for _, l := range labels {
		args = append(args, seq, l[0], l[1])
	}
	if len(args) > 0 {
		query := "INSERT INTO RunLabels(Seq, Name, Value) VALUES " + strings.Repeat("(?, ?, ?), ", len(labels))
		query = strings.TrimSuffix(query, ", ")
		if _, err = tx.ExecContext(ctx, db.rebind(query), args...); err != nil {
			return err
		}
	}
	return nil
}

// CountRuns returns the number of stored runs.
func (db *DB) CountRuns(ctx context.Context) (int, error) {
	var n int
	err := db.sql.QueryRowContext(ctx, "SELECT COUNT(*) FROM Runs").Scan(&n)
	return n, err
}

// Close closes the database connections, releasing any open resources.
func (db *DB) Close() error {
	for _, stmt := range []*sql.Stmt{db.getConfig, db.putConfig, db.insertRun} {
		if err := stmt.Close(); err != nil {
			return err
		}
	}
	return db.sql.Close()
}
