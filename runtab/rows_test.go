// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package runtab

import (
	"reflect"
	"testing"

	"golang.org/x/runviz/runfmt"
	"golang.org/x/runviz/runproc"
)

func testRuns() []*runfmt.Run {
	return []*runfmt.Run{
		{
			Hash:   "a",
			Props:  runfmt.Props{Name: "base", Experiment: "mnist"},
			Params: map[string]interface{}{"lr": 0.1, "opt": "sgd"},
			Traces: []runfmt.Trace{{
				MetricName: "loss",
				Context:    map[string]interface{}{"subset": "train"},
				LastValue:  runfmt.LastValue{Last: 0.5},
			}},
		},
		{
			Hash:   "b",
			Props:  runfmt.Props{Experiment: "mnist"},
			Params: map[string]interface{}{"lr": 0.2, "opt": "sgd"},
		},
		{
			Hash:   "c",
			Params: map[string]interface{}{"lr": 0.1, "opt": "adam", "layers": []interface{}{1.0, 2.0}},
		},
	}
}

// build prepares runs and groups them with cfg.
func build(t *testing.T, cfg runproc.Config, opts BuildOptions) (*Rows, *runproc.Prepared) {
	t.Helper()
	prep := runproc.Prepare(testRuns(), []string{"c"}, 0)
	cfg.SelectOptions = runproc.GroupingOptions(prep.Params)
	groups := runproc.Group(prep.Entries, cfg)
	return Build(groups, prep.Metrics, prep.Params, opts), prep
}

func TestBuildFlat(t *testing.T) {
	rows, _ := build(t, runproc.DefaultConfig(), DefaultBuildOptions())
	if rows.Grouped() {
		t.Fatalf("ungrouped table is grouped")
	}
	if len(rows.Flat) != 3 {
		t.Fatalf("got %d rows, want 3", len(rows.Flat))
	}

	want := []map[string]interface{}{
		{
			"experiment": "mnist", "run": "base", `loss_subset="train"`: 0.5,
			"params.lr": "0.1", "params.opt": "sgd", "params.layers": Missing,
		},
		{
			"experiment": "mnist", "run": Missing, `loss_subset="train"`: Missing,
			"params.lr": "0.2", "params.opt": "sgd", "params.layers": Missing,
		},
		{
			"experiment": "default", "run": Missing, `loss_subset="train"`: Missing,
			"params.lr": "0.1", "params.opt": "adam", "params.layers": "[1,2]",
		},
	}
	for i, r := range rows.Flat {
		if r.Index != i || r.Key != testRuns()[i].Hash || r.RunHash != r.Key {
			t.Errorf("row %d: index %d key %s hash %s", i, r.Index, r.Key, r.RunHash)
		}
		if !reflect.DeepEqual(r.Cells, want[i]) {
			t.Errorf("row %d cells = %v, want %v", i, r.Cells, want[i])
		}
		if r.Color != runproc.Palettes[0][i] {
			t.Errorf("row %d color = %s", i, r.Color)
		}
	}
	if !rows.Flat[2].Hidden || rows.Flat[0].Hidden {
		t.Errorf("hidden flags not carried")
	}
}

func TestBuildGrouped(t *testing.T) {
	cfg := runproc.DefaultConfig()
	cfg.Color.Fields = []string{"run.params.opt"}
	rows, _ := build(t, cfg, DefaultBuildOptions())
	if !rows.Grouped() || len(rows.Groups) != 2 {
		t.Fatalf("got %+v, want 2 groups", rows)
	}

	sgd := rows.Groups[0]
	h := sgd.Header
	if !h.IsGroup || !reflect.DeepEqual(h.GroupRowKeys, []string{"a", "b"}) {
		t.Errorf("header = %+v", h)
	}
	if h.Color != runproc.Palettes[0][0] {
		t.Errorf("header color = %s", h.Color)
	}
	// Uniform columns collapse to a scalar; varying ones to a list.
	check := func(col string, want interface{}) {
		t.Helper()
		got, ok := h.Cells[col]
		if want == nil {
			if ok {
				t.Errorf("header %s = %v, want absent", col, got)
			}
			return
		}
		if !reflect.DeepEqual(got, want) {
			t.Errorf("header %s = %#v, want %#v", col, got, want)
		}
	}
	check("experiment", "mnist")
	check("run", []interface{}{"base", Missing})
	check("params.opt", "sgd")
	check("params.lr", []interface{}{0.1, 0.2})
	check("params.layers", Missing)
	check("metric", nil)

	// Row indexes continue across groups, and group colors win.
	items := append(append([]*Row{}, rows.Groups[0].Items...), rows.Groups[1].Items...)
	for i, r := range items {
		if r.Index != i {
			t.Errorf("row %s index = %d, want %d", r.Key, r.Index, i)
		}
	}
	if c := rows.Groups[1].Items[0]; c.Color != runproc.Palettes[0][1] {
		t.Errorf("row c color = %s, want group color", c.Color)
	}

	wantSame := []string{"experiment", "metric", "context", "step", "epoch", "time", "params.opt", "params.layers", "run", "params.lr"}
	if !reflect.DeepEqual(rows.SameValueColumns, wantSame) {
		t.Errorf("SameValueColumns = %v, want %v", rows.SameValueColumns, wantSame)
	}
}

func TestBuildRender(t *testing.T) {
	cfg := runproc.DefaultConfig()
	cfg.Stroke.Fields = []string{"run.params.lr"}
	var headers, children int
	opts := BuildOptions{Render: func(r *Row) *Row {
		if r.IsGroup {
			headers++
		} else {
			children++
		}
		r2 := *r
		r2.Cells = map[string]interface{}{"rendered": true}
		return &r2
	}}
	rows, _ := build(t, cfg, opts)
	if headers != 2 || children != 3 {
		t.Errorf("Render called for %d headers and %d rows, want 2 and 3", headers, children)
	}
	for _, g := range rows.Groups {
		if g.Header.Cells["rendered"] != true {
			t.Errorf("header not replaced by Render")
		}
		for _, r := range g.Items {
			if r.Cells["rendered"] != true {
				t.Errorf("row not replaced by Render")
			}
		}
	}
}

func TestBuildEmpty(t *testing.T) {
	rows := Build(nil, nil, nil, DefaultBuildOptions())
	if rows.Grouped() || len(rows.Flat) != 0 || len(rows.SameValueColumns) != 0 {
		t.Errorf("Build(nil) = %+v", rows)
	}
}
