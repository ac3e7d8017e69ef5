// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package dbtest opens run store databases for tests.
package dbtest

import (
	"context"
	"crypto/rand"
	"database/sql"
	"encoding/base64"
	"flag"
	"fmt"
	"testing"

	_ "github.com/GoogleCloudPlatform/cloudsql-proxy/proxy/dialers/mysql"
	_ "github.com/lib/pq"
	"golang.org/x/runviz/storage/db"
	_ "golang.org/x/runviz/storage/db/sqlite3"
)

var (
	cloudsql = flag.String("cloudsql", "", "run store tests against the Cloud SQL `instance` instead of in-memory SQLite")
	postgres = flag.String("postgres", "", "run store tests against the PostgreSQL database `dsn` instead of in-memory SQLite")
)

// cloudDatabase creates a scratch database with a random name on the
// Cloud SQL instance and returns its DSN. drop removes the database.
func cloudDatabase(t *testing.T, instance string) (dsn string, drop func()) {
	suffix := make([]byte, 6)
	if _, err := rand.Read(suffix); err != nil {
		t.Fatal(err)
	}
	name := "runviz-test-" + base64.RawURLEncoding.EncodeToString(suffix)
	server := fmt.Sprintf("root:@cloudsql(%s)/", instance)

	admin, err := sql.Open("mysql", server)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := admin.Exec("CREATE DATABASE `" + name + "`"); err != nil {
		admin.Close()
		t.Fatal(err)
	}
	t.Logf("scratch database %q on %s", name, instance)

	return server + name, func() {
		if _, err := admin.Exec("DROP DATABASE `" + name + "`"); err != nil {
			t.Error(err)
		}
		admin.Close()
	}
}

// NewDB opens an empty run store for t. The store is in-memory SQLite
// unless -cloudsql or -postgres names another database. The returned
// cleanup closes the store and drops any scratch database; call it
// instead of Close.
func NewDB(t *testing.T) (*db.DB, func()) {
	t.Helper()
	driver, dsn := "sqlite3", ":memory:"
	drop := func() {}
	switch {
	case *cloudsql != "":
		driver = "mysql"
		dsn, drop = cloudDatabase(t, *cloudsql)
	case *postgres != "":
		driver, dsn = "postgres", *postgres
	}
	d, err := db.OpenSQL(driver, dsn)
	if err != nil {
		drop()
		t.Fatalf("OpenSQL(%q): %v", driver, err)
	}
	cleanup := func() {
		d.Close()
		drop()
	}

	n, err := d.CountRuns(context.Background())
	if err != nil {
		cleanup()
		t.Fatal(err)
	}
	if n != 0 {
		cleanup()
		t.Fatalf("new %s store holds %d runs, want 0", driver, n)
	}
	return d, cleanup
}
