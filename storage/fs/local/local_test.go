// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package local

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"
)

func TestNewWriter(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	fs := NewFS(dir)

	w, err := fs.NewWriter(ctx, "exports/table.csv", nil)
	if err != nil {
		t.Fatal(err)
	}
	fmt.Fprintf(w, "run,lr\n")
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(filepath.Join(dir, "exports", "table.csv"))
	if err != nil || string(data) != "run,lr\n" {
		t.Errorf("file = %q, %v", data, err)
	}

	w, err = fs.NewWriter(ctx, "exports/partial.csv", nil)
	if err != nil {
		t.Fatal(err)
	}
	fmt.Fprintf(w, "run")
	if err := w.CloseWithError(fmt.Errorf("abort")); err != nil {
		t.Errorf("CloseWithError: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "exports", "partial.csv")); !os.IsNotExist(err) {
		t.Errorf("aborted file still exists: %v", err)
	}
}
