// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package runtab

import (
	"bytes"
	"strings"
	"testing"

	"golang.org/x/runviz/runfmt"
	"golang.org/x/runviz/runproc"
)

func TestWriteHTML(t *testing.T) {
	runs := []*runfmt.Run{
		{Hash: "a", Params: map[string]interface{}{"note": "<b>bold</b>", "g": 1.0}},
		{Hash: "b", Params: map[string]interface{}{"note": "plain", "g": 2.0}},
	}
	prep := runproc.Prepare(runs, []string{"b"}, 0)
	cfg := runproc.DefaultConfig()
	cfg.Chart.Fields = []string{"run.params.g"}
	rows := Build(runproc.Group(prep.Entries, cfg), prep.Metrics, prep.Params, DefaultBuildOptions())
	cols := Columns(prep.Metrics, prep.Params, ColumnsOrder{}, nil)

	var buf bytes.Buffer
	if err := WriteHTML(&buf, rows, cols); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	for _, want := range []string{
		"<th>Experiment",
		"<th>note",
		"&lt;b&gt;bold&lt;/b&gt;",
		"<tr class='group'>",
		"chart 2",
		"<tr class='hidden'>",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "<b>bold") {
		t.Errorf("cell value not escaped:\n%s", out)
	}
	if got := strings.Count(out, "<tbody>"); got != 2 {
		t.Errorf("got %d tbody elements, want 2", got)
	}
}
