// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package app

import (
	"context"
	"errors"
	"testing"

	"golang.org/x/runviz/runfmt"
	"golang.org/x/runviz/storage"
)

func TestSearch(t *testing.T) {
	ctx := context.Background()
	app := createTestApp(t)
	defer app.Close()

	app.uploadFiles(t, testFile1, testFile2)
	client := &storage.Client{BaseURL: app.srv.URL}

	tests := []struct {
		q    string
		want []string
	}{
		{"", []string{"a", "b", "c"}},
		{"run.params.lr:0.1", []string{"a", "c"}},
		{"run.params.opt:sgd run.name:base", []string{"a"}},
		{`"run.params.opt:none"`, nil},
	}
	for _, test := range tests {
		t.Run("query="+test.q, func(t *testing.T) {
			runs, err := client.Runs(ctx, test.q)
			if err != nil {
				t.Fatal(err)
			}
			var got []string
			for _, r := range runs {
				got = append(got, r.Hash)
			}
			if len(got) != len(test.want) {
				t.Fatalf("runs = %v, want %v", got, test.want)
			}
			for i := range got {
				if got[i] != test.want[i] {
					t.Errorf("runs = %v, want %v", got, test.want)
					break
				}
			}
		})
	}

	_, err := client.Runs(ctx, "lr:0.1 bogus")
	var qe *runfmt.QueryError
	if !errors.As(err, &qe) || qe.Line != 1 || qe.Offset != 7 {
		t.Errorf("bad query: error %v, want query error at 1:7", err)
	}
}
