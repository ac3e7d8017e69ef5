// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package app implements the run store server. Combine an App with a
// database and filesystem to get an HTTP server that stores uploaded
// runs and serves grouped views of them.
package app

import (
	"errors"
	"net/http"

	"golang.org/x/runviz/storage/db"
	"golang.org/x/runviz/storage/fs"
	"golang.org/x/runviz/view"
)

// App manages the server logic. Construct an App instance using a
// literal with DB and FS objects and call RegisterOnMux to connect it
// with an HTTP server.
type App struct {
	DB *db.DB
	FS fs.FS

	// Runs is the source of runs for views. If nil, runs are
	// read from DB.
	Runs view.Source

	// Auth obtains the username for the request.
	// If necessary, it can write its own response (e.g. a
	// redirect) and return ErrResponseWritten.
	Auth func(http.ResponseWriter, *http.Request) (string, error)

	// ViewURLBase will be used to construct a URL to return as
	// "viewurl" in the response from /upload. If it is non-empty,
	// the upload's query will be appended.
	ViewURLBase string
}

// ErrResponseWritten can be returned by App.Auth to abort the normal
// handling of the request.
var ErrResponseWritten = errors.New("response written")

// RegisterOnMux registers the app's URLs on mux.
func (a *App) RegisterOnMux(mux *http.ServeMux) {
	mux.HandleFunc("/upload", a.upload)
	mux.HandleFunc("/search", a.search)
	mux.HandleFunc("/view", a.view)
	mux.HandleFunc("/table.html", a.table)
	mux.HandleFunc("/export.csv", a.export)
	mux.HandleFunc("/chart.png", a.chart)
	mux.HandleFunc("/config", a.config)
}

// source returns the source of runs for views.
func (a *App) source() view.Source {
	if a.Runs != nil {
		return a.Runs
	}
	return a.DB
}

// auth returns the user making r. If it returns an error, a response
// has already been written.
func (a *App) auth(w http.ResponseWriter, r *http.Request) (string, error) {
	if a.Auth == nil {
		return "", nil
	}
	user, err := a.Auth(w, r)
	switch {
	case err == ErrResponseWritten:
		return "", err
	case err != nil:
		errorf(requestContext(r), "%v", err)
		http.Error(w, err.Error(), 500)
		return "", err
	}
	return user, nil
}
