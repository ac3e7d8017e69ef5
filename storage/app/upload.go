// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package app

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"sort"
	"time"

	"github.com/google/uuid"
	"golang.org/x/runviz/runfmt"
)

// upload is the handler for the /upload endpoint. It processes run
// files in a multipart/form-data POST request.
func (a *App) upload(w http.ResponseWriter, r *http.Request) {
	ctx := requestContext(r)

	user, err := a.auth(w, r)
	if err != nil {
		return
	}

	if r.Method != http.MethodPost {
		http.Error(w, "/upload must be called as a POST request", http.StatusMethodNotAllowed)
		return
	}

	// We use r.MultipartReader instead of r.ParseForm to avoid
	// storing uploaded data in memory.
	mr, err := r.MultipartReader()
	if err != nil {
		errorf(ctx, "%v", err)
		http.Error(w, err.Error(), 400)
		return
	}

	result, err := a.processUpload(ctx, user, mr)
	if err != nil {
		errorf(ctx, "%v", err)
		code := 500
		var se *runfmt.SyntaxError
		if errors.As(err, &se) || errors.Is(err, errNoRuns) {
			code = 400
		}
		http.Error(w, err.Error(), code)
		return
	}
	infof(ctx, "upload %s: %d runs", result.UploadID, len(result.Hashes))

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(result); err != nil {
		errorf(ctx, "%v", err)
		http.Error(w, err.Error(), 500)
		return
	}
}

// uploadStatus is the response to an /upload POST served as JSON.
type uploadStatus struct {
	// UploadID is the upload ID assigned to the upload. Every
	// uploaded run carries it as its "upload" label.
	UploadID string `json:"uploadid"`
	// Hashes lists the hashes of the stored runs, in upload order.
	Hashes []string `json:"hashes"`
	// ViewURL is a URL that can be used to view the uploaded runs.
	ViewURL string `json:"viewurl,omitempty"`
}

var errNoRuns = errors.New("no runs in file")

// processUpload takes one or more files from a multipart.Reader,
// writes them to the filesystem, and stores their runs.
func (a *App) processUpload(ctx context.Context, user string, mr *multipart.Reader) (*uploadStatus, error) {
	status := &uploadStatus{UploadID: uuid.New().String()}

	for i := 0; ; i++ {
		p, err := mr.NextPart()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}

		name := p.FormName()
		if name != "file" {
			return nil, fmt.Errorf("unexpected field %q", name)
		}

		meta := fileMetadata(status.UploadID, i, user, p.FileName())
		hashes, err := a.processFile(ctx, p, meta)
		if err != nil {
			return nil, err
		}
		status.Hashes = append(status.Hashes, hashes...)
	}

	if a.ViewURLBase != "" {
		status.ViewURL = a.ViewURLBase + url.QueryEscape("upload:"+status.UploadID)
	}
	return status, nil
}

// processFile archives one uploaded file under its file ID and stores
// every run in it. A file with a malformed line or with no runs is
// rejected and its archive copy aborted.
func (a *App) processFile(ctx context.Context, p *multipart.Part, meta map[string]string) ([]string, error) {
	if a.FS == nil {
		return a.storeRuns(ctx, p, meta)
	}
	w, err := a.FS.NewWriter(ctx, fmt.Sprintf("uploads/%s.jsonl", meta["fileid"]), meta)
	if err != nil {
		return nil, err
	}
	abort := func(err error) ([]string, error) {
		w.CloseWithError(err)
		return nil, err
	}
	if err := writeMetadata(w, meta); err != nil {
		return abort(err)
	}
	hashes, err := a.storeRuns(ctx, io.TeeReader(p, w), meta)
	if err != nil {
		return abort(err)
	}
	return hashes, w.Close()
}

// storeRuns inserts every run read from r into the database, labeled
// with the upload and uploader of meta.
func (a *App) storeRuns(ctx context.Context, r io.Reader, meta map[string]string) ([]string, error) {
	labels := [][2]string{{"upload", meta["uploadid"]}}
	if by := meta["by"]; by != "" {
		labels = append(labels, [2]string{"by", by})
	}

	var hashes []string
	rd := runfmt.NewReader(r, meta["name"])
	for rd.Scan() {
		switch rec := rd.Result().(type) {
		case *runfmt.SyntaxError:
			return nil, rec
		case *runfmt.Run:
			if err := a.DB.InsertRun(ctx, rec, labels...); err != nil {
				return nil, fmt.Errorf("storing run %s: %v", rec.Hash, err)
			}
			hashes = append(hashes, rec.Hash)
		}
	}
	if err := rd.Err(); err != nil {
		return nil, err
	}
	if len(hashes) == 0 {
		return nil, fmt.Errorf("%s: %w", meta["name"], errNoRuns)
	}
	return hashes, nil
}

// writeMetadata writes meta to w as comment lines, which run readers
// ignore.
func writeMetadata(w io.Writer, meta map[string]string) error {
	var keys []string
	for k := range meta {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if _, err := fmt.Fprintf(w, "# %s: %s\n", k, meta[k]); err != nil {
			return err
		}
	}
	return nil
}

// now is the clock used to stamp uploads.
var now = time.Now

// fileMetadata returns the extra metadata fields associated with an
// uploaded file.
func fileMetadata(uploadid string, filenum int, user, name string) map[string]string {
	meta := map[string]string{
		"uploadid":    uploadid,
		"fileid":      fmt.Sprintf("%s/%d", uploadid, filenum),
		"name":        name,
		"upload-time": now().UTC().Format(time.RFC3339),
	}
	if user != "" {
		meta["by"] = user
	}
	return meta
}
