// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package app

import (
	"bytes"
	"context"
	"encoding/json"
	"mime"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"golang.org/x/runviz/runproc"
	"golang.org/x/runviz/runseries"
	"golang.org/x/runviz/runtab"
	"golang.org/x/runviz/view"
)

// formStore is a view.Store that reads configuration parts from a
// request form before falling back to base. Writes go to base.
type formStore struct {
	form url.Values
	base view.Store
}

func (s formStore) Get(ctx context.Context, key string) (string, bool, error) {
	if v := s.form.Get(key); v != "" {
		return v, true, nil
	}
	return s.base.Get(ctx, key)
}

func (s formStore) Put(ctx context.Context, key, value string) error {
	return s.base.Put(ctx, key, value)
}

// viewState returns the view of the runs requested by r.
//
// The configuration is the stored one, with any encoded part given
// in the form ("grouping", "chart", "select", "table") replacing the
// stored part. The form values "q", "group.<axis>" and "sort" then
// override the query, the fields of an axis and the sort order. List
// values may be repeated or comma-separated.
//
// If viewState returns nil, it has written an error response.
func (a *App) viewState(w http.ResponseWriter, r *http.Request) *view.State {
	ctx := requestContext(r)

	if err := r.ParseForm(); err != nil {
		http.Error(w, err.Error(), 400)
		return nil
	}

	warn := func(format string, args ...interface{}) {
		errorf(ctx, format, args...)
	}
	cfg, err := view.LoadConfig(ctx, formStore{r.Form, a.DB}, warn)
	if err != nil {
		errorf(ctx, "%v", err)
		http.Error(w, err.Error(), 500)
		return nil
	}

	if q, ok := r.Form["q"]; ok {
		cfg.Select.Query = q[0]
	}
	for _, ax := range runproc.Axes {
		if fields, ok := r.Form["group."+string(ax)]; ok {
			cfg.Grouping.Axis(ax).Fields = splitList(fields)
		}
	}
	if sorts, ok := r.Form["sort"]; ok {
		cfg.Table.SortFields = []runtab.SortField{}
		for _, s := range splitList(sorts) {
			f, err := runtab.ParseSortField(s)
			if err != nil {
				http.Error(w, err.Error(), 400)
				return nil
			}
			cfg.Table.SortFields = append(cfg.Table.SortFields, f)
		}
	}

	return view.New(cfg).Fetch(ctx, view.NewLoader(a.source()))
}

// splitList splits each of vals at commas and returns the non-empty
// elements.
func splitList(vals []string) []string {
	out := []string{}
	for _, v := range vals {
		for _, e := range strings.Split(v, ",") {
			if e = strings.TrimSpace(e); e != "" {
				out = append(out, e)
			}
		}
	}
	return out
}

// view is the handler for the /view endpoint. It serves the complete
// view state as JSON. A failed fetch is reported in the state's
// notifications.
func (a *App) view(w http.ResponseWriter, r *http.Request) {
	s := a.viewState(w, r)
	if s == nil {
		return
	}
	writeJSON(w, r, s)
}

// table is the handler for the /table.html endpoint.
func (a *App) table(w http.ResponseWriter, r *http.Request) {
	s := a.viewState(w, r)
	if s == nil {
		return
	}
	var buf bytes.Buffer
	if err := runtab.WriteHTML(&buf, s.Rows, s.Columns); err != nil {
		errorf(requestContext(r), "%v", err)
		http.Error(w, err.Error(), 500)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(buf.Bytes())
}

// export is the handler for the /export.csv endpoint. It serves the
// table as a CSV attachment.
func (a *App) export(w http.ResponseWriter, r *http.Request) {
	s := a.viewState(w, r)
	if s == nil {
		return
	}
	header, records, fileName := s.Export()
	var buf bytes.Buffer
	if err := runtab.WriteCSV(&buf, header, records); err != nil {
		errorf(requestContext(r), "%v", err)
		http.Error(w, err.Error(), 500)
		return
	}
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": fileName}))
	w.Write(buf.Bytes())
}

// chart is the handler for the /chart.png endpoint. It draws the
// chart whose index is the form value "index", default 0.
func (a *App) chart(w http.ResponseWriter, r *http.Request) {
	s := a.viewState(w, r)
	if s == nil {
		return
	}
	index := 0
	if v := r.Form.Get("index"); v != "" {
		var err error
		if index, err = strconv.Atoi(v); err != nil {
			http.Error(w, "bad chart index: "+err.Error(), 400)
			return
		}
	}
	var c *runseries.Chart
	for _, c1 := range s.Charts {
		if c1.Index == index {
			c = c1
		}
	}
	if c == nil {
		http.Error(w, "no such chart", 404)
		return
	}

	opts := runseries.DefaultRenderOptions()
	opts.Title = runproc.FormatTitle(s.ChartTitles[index])
	var buf bytes.Buffer
	if err := runseries.WritePNG(&buf, c, opts); err != nil {
		errorf(requestContext(r), "%v", err)
		http.Error(w, err.Error(), 500)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Write(buf.Bytes())
}

// config is the handler for the /config endpoint. GET serves the
// stored configuration. POST stores the configuration in the request
// body; parts missing from the body are stored as their defaults.
func (a *App) config(w http.ResponseWriter, r *http.Request) {
	ctx := requestContext(r)
	warn := func(format string, args ...interface{}) {
		errorf(ctx, format, args...)
	}

	switch r.Method {
	case http.MethodGet:
		cfg, err := view.LoadConfig(ctx, a.DB, warn)
		if err != nil {
			errorf(ctx, "%v", err)
			http.Error(w, err.Error(), 500)
			return
		}
		writeJSON(w, r, cfg)

	case http.MethodPost:
		if _, err := a.auth(w, r); err != nil {
			return
		}
		cfg := view.DefaultConfig()
		if err := json.NewDecoder(r.Body).Decode(&cfg); err != nil {
			http.Error(w, "malformed config: "+err.Error(), 400)
			return
		}
		if err := view.SaveConfig(ctx, a.DB, cfg); err != nil {
			errorf(ctx, "%v", err)
			http.Error(w, err.Error(), 500)
			return
		}
		writeJSON(w, r, cfg)

	default:
		http.Error(w, "/config must be called as a GET or POST request", http.StatusMethodNotAllowed)
	}
}

// writeJSON writes v as the JSON response to r.
func writeJSON(w http.ResponseWriter, r *http.Request, v interface{}) {
	data, err := json.Marshal(v)
	if err != nil {
		errorf(requestContext(r), "%v", err)
		http.Error(w, err.Error(), 500)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Write(data)
}
