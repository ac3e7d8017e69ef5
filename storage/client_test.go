// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"golang.org/x/runviz/runfmt"
	"golang.org/x/runviz/view"
)

var _ view.Source = (*Client)(nil)

func TestQuery(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if have, want := r.URL.RequestURI(), "/search?q=key1%3Avalue+key2%3Avalue"; have != want {
			t.Errorf("RequestURI = %q, want %q", have, want)
		}
		fmt.Fprintf(w, "{\"hash\":\"a\",\"params\":{\"lr\":0.1}}\n\n{\"hash\":\"b\"}\n")
	}))
	defer ts.Close()

	c := &Client{BaseURL: ts.URL}

	q := c.Query(context.Background(), "key1:value key2:value")
	defer q.Close()

	var hashes []string
	for q.Next() {
		hashes = append(hashes, q.Run().Hash)
	}
	if err := q.Err(); err != nil {
		t.Fatalf("Err: %v", err)
	}
	if got := strings.Join(hashes, " "); got != "a b" {
		t.Errorf("got runs %q, want %q", got, "a b")
	}
}

func TestQueryErrors(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Query().Get("q") {
		case "bad":
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusBadRequest)
			fmt.Fprintf(w, `{"line":1,"offset":3,"message":"missing operator"}`)
		case "broken":
			http.Error(w, "database on fire", http.StatusInternalServerError)
		case "garbage":
			fmt.Fprintf(w, "{\"hash\":\"a\"}\nnot json\n")
		}
	}))
	defer ts.Close()
	c := &Client{BaseURL: ts.URL}
	ctx := context.Background()

	_, err := c.Runs(ctx, "bad")
	var qe *runfmt.QueryError
	if !errors.As(err, &qe) || qe.Offset != 3 || qe.Msg != "missing operator" {
		t.Errorf("bad query: error %v, want query error", err)
	}

	if _, err := c.Runs(ctx, "broken"); err == nil || !strings.Contains(err.Error(), "database on fire") {
		t.Errorf("server error: %v", err)
	}

	runs, err := c.Runs(ctx, "garbage")
	var se *runfmt.SyntaxError
	if len(runs) != 1 || !errors.As(err, &se) || se.Line != 2 {
		t.Errorf("malformed stream: %d runs, %v", len(runs), err)
	}

	cctx, cancel := context.WithCancel(ctx)
	cancel()
	if _, err := c.Runs(cctx, "x"); !errors.Is(err, context.Canceled) {
		t.Errorf("cancelled query: %v", err)
	}
}

func TestUpload(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/upload" || r.Method != "POST" {
			t.Errorf("%s %s", r.Method, r.URL.Path)
		}
		mr, err := r.MultipartReader()
		if err != nil {
			t.Error(err)
			return
		}
		var names []string
		for {
			p, err := mr.NextPart()
			if err == io.EOF {
				break
			}
			if err != nil {
				t.Error(err)
				return
			}
			data, _ := io.ReadAll(p)
			names = append(names, p.FileName()+"="+string(data))
		}
		if got, want := strings.Join(names, ","), "one=1,two=2"; got != want {
			t.Errorf("uploaded %q, want %q", got, want)
		}
		fmt.Fprintf(w, `{"hashes":["a","b"],"viewurl":"http://x/view"}`)
	}))
	defer ts.Close()

	c := &Client{BaseURL: ts.URL}
	open := func(name string) (io.ReadCloser, error) {
		return io.NopCloser(strings.NewReader(map[string]string{"one": "1", "two": "2"}[name])), nil
	}
	status, err := c.Upload(context.Background(), []string{"one", "two"}, open)
	if err != nil {
		t.Fatal(err)
	}
	if len(status.Hashes) != 2 || status.ViewURL != "http://x/view" {
		t.Errorf("status = %+v", status)
	}
}
