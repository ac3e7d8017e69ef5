// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package app

import (
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"golang.org/x/runviz/storage/db"
	"golang.org/x/runviz/storage/db/dbtest"
	"golang.org/x/runviz/storage/fs"
)

const testFile1 = `{"hash": "a", "props": {"name": "base", "experiment": "mnist"}, "params": {"lr": 0.1, "opt": "sgd"}, "traces": [{"metric_name": "loss", "context": {"subset": "train"}, "last_value": {"last": 0.5}}]}
{"hash": "b", "props": {"experiment": "mnist"}, "params": {"lr": 0.2, "opt": "sgd"}}
`

const testFile2 = `# comment
{"hash": "c", "params": {"lr": 0.1, "opt": "adam"}}
`

type testApp struct {
	db        *db.DB
	dbCleanup func()
	fs        *fs.MemFS
	app       *App
	srv       *httptest.Server
}

func (app *testApp) Close() {
	app.dbCleanup()
	app.srv.Close()
}

// createTestApp returns a testApp corresponding to a new app
// serving from an in-memory database and file system on an
// isolated test HTTP server.
//
// When finished with app, the caller must call app.Close().
func createTestApp(t *testing.T) *testApp {
	db, cleanup := dbtest.NewDB(t)

	fs := fs.NewMemFS()

	app := &App{
		DB:          db,
		FS:          fs,
		Auth:        func(http.ResponseWriter, *http.Request) (string, error) { return "user", nil },
		ViewURLBase: "view:",
	}

	mux := http.NewServeMux()
	app.RegisterOnMux(mux)

	srv := httptest.NewServer(mux)

	return &testApp{db, cleanup, fs, app, srv}
}

// postFiles posts files, keyed by name, to /upload.
func (app *testApp) postFiles(t *testing.T, files ...string) *http.Response {
	t.Helper()
	pr, pw := io.Pipe()
	mpw := multipart.NewWriter(pw)
	go func() {
		defer pw.Close()
		defer mpw.Close()
		for i, content := range files {
			w, err := mpw.CreateFormFile("file", fmt.Sprintf("%d.jsonl", i))
			if err != nil {
				t.Errorf("CreateFormFile: %v", err)
				return
			}
			io.WriteString(w, content)
		}
	}()
	resp, err := http.Post(app.srv.URL+"/upload", mpw.FormDataContentType(), pr)
	if err != nil {
		t.Fatalf("post /upload: %v", err)
	}
	return resp
}

// uploadFiles uploads files and returns the upload status.
func (app *testApp) uploadFiles(t *testing.T, files ...string) *uploadStatus {
	t.Helper()
	resp := app.postFiles(t, files...)
	defer resp.Body.Close()
	if resp.StatusCode != 200 {
		body, _ := io.ReadAll(resp.Body)
		t.Fatalf("post /upload: %v\n%s", resp.Status, body)
	}
	status := new(uploadStatus)
	if err := json.NewDecoder(resp.Body).Decode(status); err != nil {
		t.Fatalf("decoding /upload response: %v", err)
	}
	return status
}

// get fetches path from app and returns the response body. It fails
// the test unless the response has status code.
func (app *testApp) get(t *testing.T, path string, code int) (*http.Response, []byte) {
	t.Helper()
	resp, err := http.Get(app.srv.URL + path)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != code {
		t.Fatalf("get %s: %v, want %d\n%s", path, resp.Status, code, body)
	}
	return resp, body
}
