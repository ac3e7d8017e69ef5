// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package storage contains a client for the run store server.
package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"path/filepath"
	"strings"

	"golang.org/x/net/context/ctxhttp"
	"golang.org/x/runviz/runfmt"
)

// A Client issues queries to a run store server.
// It is safe to use from multiple goroutines simultaneously.
type Client struct {
	// BaseURL is the base URL of the storage server.
	BaseURL string
	// HTTPClient is the HTTP client for sending requests. If nil,
	// http.DefaultClient will be used.
	HTTPClient *http.Client
}

// httpClient returns the http.Client to use for requests.
func (c *Client) httpClient() *http.Client {
	if c.HTTPClient != nil {
		return c.HTTPClient
	}
	return http.DefaultClient
}

// Query searches for runs matching q. The query string is parsed by
// the server; see storage/db.ParseQuery.
func (c *Client) Query(ctx context.Context, q string) *Query {
	hc := c.httpClient()

	resp, err := ctxhttp.Get(ctx, hc, c.BaseURL+"/search?"+url.Values{"q": []string{q}}.Encode())
	if err != nil {
		return &Query{err: err}
	}
	if resp.StatusCode != 200 {
		defer resp.Body.Close()
		return &Query{err: responseError(resp)}
	}

	rd := runfmt.NewReader(resp.Body, "search")
	return &Query{body: resp.Body, rd: rd}
}

// responseError returns the error described by a failed response. A
// malformed query is reported as a *runfmt.QueryError.
func responseError(resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if resp.StatusCode == http.StatusBadRequest && strings.HasPrefix(resp.Header.Get("Content-Type"), "application/json") {
		qe := new(runfmt.QueryError)
		if err := json.Unmarshal(body, qe); err == nil && qe.Line > 0 {
			return qe
		}
	}
	return fmt.Errorf("%s", strings.TrimSpace(resp.Status+" "+string(body)))
}

// A Query allows iteration over the runs matching a query.
// Use Next to advance through the results, making sure to call Close
// when done:
//
//	q := client.Query(ctx, "key:value")
//	defer q.Close()
//	for q.Next() {
//		run := q.Run()
//		...
//	}
//	if err := q.Err(); err != nil {
//		// handle error encountered during query
//	}
type Query struct {
	body io.Closer
	rd   *runfmt.Reader
	run  *runfmt.Run
	err  error
}

// Next prepares the next result for reading with the Run method. It
// returns false when there are no more results, either by reaching
// the end of the input or an error.
func (q *Query) Next() bool {
	if q.err != nil || q.rd == nil {
		return false
	}
	if !q.rd.Scan() {
		q.err = q.rd.Err()
		return false
	}
	switch rec := q.rd.Result().(type) {
	case *runfmt.Run:
		q.run = rec
		return true
	case *runfmt.SyntaxError:
		q.err = rec
	}
	return false
}

// Run returns the most recent run generated by a call to Next.
func (q *Query) Run() *runfmt.Run {
	return q.run
}

// Err returns the error state of the query.
func (q *Query) Err() error {
	return q.err
}

// Close frees resources associated with the query.
func (q *Query) Close() error {
	if q.body != nil {
		q.body.Close()
		q.body = nil
	}
	return q.err
}

// Runs returns all runs matching q.
func (c *Client) Runs(ctx context.Context, q string) ([]*runfmt.Run, error) {
	query := c.Query(ctx, q)
	defer query.Close()
	var runs []*runfmt.Run
	for query.Next() {
		runs = append(runs, query.Run())
	}
	return runs, query.Err()
}

// UploadStatus is the response to an upload.
type UploadStatus struct {
	// UploadID is the upload ID assigned to the upload. The
	// uploaded runs match the query "upload:<UploadID>".
	UploadID string `json:"uploadid"`
	// Hashes lists the hashes of the stored runs, in upload order.
	Hashes []string `json:"hashes"`
	// ViewURL is a server-supplied URL to view the results.
	ViewURL string `json:"viewurl"`
}

// Upload sends the run files names, opened with open, to the server
// and returns the server's response. The files are streamed and
// closed as soon as they are sent.
func (c *Client) Upload(ctx context.Context, names []string, open func(name string) (io.ReadCloser, error)) (*UploadStatus, error) {
	pr, pw := io.Pipe()
	mpw := multipart.NewWriter(pw)

	go func() {
		defer pw.Close()
		defer mpw.Close()

		for _, name := range names {
			if err := writeOneFile(mpw, name, open); err != nil {
				pw.CloseWithError(err)
				return
			}
		}
	}()

	resp, err := ctxhttp.Post(ctx, c.httpClient(), c.BaseURL+"/upload", mpw.FormDataContentType(), pr)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != 200 {
		return nil, fmt.Errorf("upload failed: %v", responseError(resp))
	}

	status := new(UploadStatus)
	if err := json.NewDecoder(resp.Body).Decode(status); err != nil {
		return nil, fmt.Errorf("cannot parse upload response: %v", err)
	}
	return status, nil
}

// writeOneFile copies the file name to mpw under its base name.
func writeOneFile(mpw *multipart.Writer, name string, open func(string) (io.ReadCloser, error)) error {
	w, err := mpw.CreateFormFile("file", filepath.Base(name))
	if err != nil {
		return err
	}
	f, err := open(name)
	if err != nil {
		return err
	}
	defer f.Close()
	_, err = io.Copy(w, f)
	return err
}
