// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package app

import (
	"encoding/json"
	"errors"
	"net/http"

	"golang.org/x/runviz/runfmt"
	"golang.org/x/runviz/storage/db"
)

// search is the handler for the /search endpoint. It writes the runs
// matching the query q as JSON lines. An empty query matches every
// run.
func (a *App) search(w http.ResponseWriter, r *http.Request) {
	ctx := requestContext(r)

	if err := r.ParseForm(); err != nil {
		http.Error(w, err.Error(), 500)
		return
	}

	q := r.Form.Get("q")
	if _, err := db.ParseQuery(q); err != nil {
		writeError(w, err)
		return
	}

	query := a.DB.Query(ctx, q)
	defer query.Close()

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	rw := runfmt.NewWriter(w)
	for query.Next() {
		if err := rw.Write(query.Run()); err != nil {
			errorf(ctx, "%v", err)
			http.Error(w, err.Error(), 500)
			return
		}
	}
	if err := query.Err(); err != nil {
		errorf(ctx, "%v", err)
		http.Error(w, err.Error(), 500)
		return
	}
}

// writeError writes err as the response. A *runfmt.QueryError is a
// client error and is written as JSON so clients can locate it.
func writeError(w http.ResponseWriter, err error) {
	var qe *runfmt.QueryError
	if !errors.As(err, &qe) {
		http.Error(w, err.Error(), 500)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(http.StatusBadRequest)
	json.NewEncoder(w).Encode(qe)
}
