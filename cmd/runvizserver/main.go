// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Runvizserver runs an HTTP server for run storage and views.
//
// Usage:
//
//	runvizserver [-addr address] [-view_url_base url] [-driver name] [-dsn dsn] [-dir directory] [-runs url]
//
// By default runs and view configurations are kept in an in-memory
// SQLite database and uploaded files are archived in memory. With
// -driver postgres or -driver mysql, -dsn names the database to
// connect to. With -dir, uploaded files are archived under that
// directory. With -runs, views read runs from another server instead
// of the local database.
package main

import (
	"flag"
	"log"
	"net/http"
	"strings"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/lib/pq"
	"golang.org/x/runviz/storage"
	"golang.org/x/runviz/storage/app"
	"golang.org/x/runviz/storage/db"
	_ "golang.org/x/runviz/storage/db/sqlite3"
	"golang.org/x/runviz/storage/fs"
	"golang.org/x/runviz/storage/fs/local"
)

var (
	addr        = flag.String("addr", ":8080", "serve HTTP on `address`")
	viewURLBase = flag.String("view_url_base", "", "/upload response with `URL` for viewing")
	driver      = flag.String("driver", "sqlite3", "database `driver`: sqlite3, postgres or mysql")
	dsn         = flag.String("dsn", ":memory:", "database `dsn`")
	dir         = flag.String("dir", "", "archive uploaded files under `directory` instead of in memory")
	runsURL     = flag.String("runs", "", "read runs for views from the server at `url`")
)

func main() {
	log.SetPrefix("runvizserver: ")
	log.SetFlags(0)
	flag.Parse()

	db, err := db.OpenSQL(*driver, *dsn)
	if err != nil {
		log.Fatalf("open database: %v", err)
	}

	var files fs.FS = fs.NewMemFS()
	if *dir != "" {
		files = local.NewFS(*dir)
	}

	app := &app.App{
		DB:          db,
		FS:          files,
		ViewURLBase: *viewURLBase,
		Auth:        func(http.ResponseWriter, *http.Request) (string, error) { return "", nil },
	}
	if *runsURL != "" {
		app.Runs = &storage.Client{BaseURL: strings.TrimSuffix(*runsURL, "/")}
	}
	app.RegisterOnMux(http.DefaultServeMux)

	log.Printf("Listening on %s", *addr)

	log.Fatal(http.ListenAndServe(*addr, nil))
}
