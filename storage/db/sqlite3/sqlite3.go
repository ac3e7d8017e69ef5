// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package sqlite3 provides the sqlite3 driver for
// golang.org/x/runviz/storage/db. It must be imported instead of
// go-sqlite3 to ensure all run store connections are configured the
// same way.
package sqlite3

import (
	"database/sql"

	"github.com/mattn/go-sqlite3"
	"golang.org/x/runviz/storage/db"
)

func init() {
	db.RegisterOpenHook("sqlite3", func(db *sql.DB) error {
		// Each connection to ":memory:" is a separate database.
		db.SetMaxOpenConns(1)
		db.SetMaxIdleConns(1)
		db.SetConnMaxLifetime(0)
		return nil
	})
}

// Version returns the version of the linked SQLite library.
func Version() string {
	v, _, _ := sqlite3.Version()
	return v
}
