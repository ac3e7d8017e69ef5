// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package appengine serves the run store on App Engine, with runs in
// Cloud SQL and uploaded files archived in Cloud Storage.
package appengine

import (
	"fmt"
	"log"
	"net/http"
	"os"

	_ "github.com/go-sql-driver/mysql"
	"golang.org/x/runviz/storage/app"
	"golang.org/x/runviz/storage/db"
	"golang.org/x/runviz/storage/fs/gcs"
	"google.golang.org/appengine"
	aelog "google.golang.org/appengine/log"
	"google.golang.org/appengine/user"
)

// openStore opens the run store on the Cloud SQL instance named by
// CLOUDSQL_CONNECTION_NAME, as CLOUDSQL_USER with the optional
// CLOUDSQL_PASSWORD, using database CLOUDSQL_DATABASE.
func openStore() (*db.DB, error) {
	dsn := fmt.Sprintf("%s:%s@cloudsql(%s)/%s",
		requireEnv("CLOUDSQL_USER"),
		os.Getenv("CLOUDSQL_PASSWORD"),
		requireEnv("CLOUDSQL_CONNECTION_NAME"),
		requireEnv("CLOUDSQL_DATABASE"))
	return db.OpenSQL("mysql", dsn)
}

func requireEnv(k string) string {
	v := os.Getenv(k)
	if v == "" {
		log.Panicf("runviz: $%s is not set", k)
	}
	return v
}

// auth identifies uploaders by their Google account. Anonymous
// requests are sent to sign in first.
func auth(w http.ResponseWriter, r *http.Request) (string, error) {
	ctx := appengine.NewContext(r)
	if u := user.Current(ctx); u != nil {
		return u.Email, nil
	}
	login, err := user.LoginURL(ctx, r.URL.String())
	if err != nil {
		return "", err
	}
	http.Redirect(w, r, login, http.StatusFound)
	return "", app.ErrResponseWritten
}

// serve handles every request with an App bound to the request. The
// upload archive is the bucket $GCS_BUCKET. Upload responses link to
// $VIEW_URL_BASE, if set.
func serve(w http.ResponseWriter, r *http.Request) {
	ctx := appengine.NewContext(r)
	store, err := openStore()
	if err != nil {
		aelog.Errorf(ctx, "opening run store: %v", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	defer store.Close()

	archive, err := gcs.NewFS(ctx, requireEnv("GCS_BUCKET"))
	if err != nil {
		aelog.Errorf(ctx, "opening upload archive: %v", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	a := &app.App{
		DB:          store,
		FS:          archive,
		Auth:        auth,
		ViewURLBase: os.Getenv("VIEW_URL_BASE"),
	}
	mux := http.NewServeMux()
	a.RegisterOnMux(mux)
	mux.ServeHTTP(w, r)
}

func init() {
	http.HandleFunc("/", serve)
}
