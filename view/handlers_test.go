// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package view

import (
	"reflect"
	"testing"

	"golang.org/x/runviz/runproc"
	"golang.org/x/runviz/runseries"
	"golang.org/x/runviz/runtab"
)

func groupKeys(s *State) [][]string {
	var out [][]string
	for _, g := range s.Rows.Groups {
		var keys []string
		for _, r := range g.Items {
			keys = append(keys, r.Key)
		}
		out = append(out, keys)
	}
	return out
}

func TestGroupingHandlers(t *testing.T) {
	s := New(DefaultConfig()).WithRuns(testRuns())
	check := func(s *State, want [][]string) {
		t.Helper()
		if got := groupKeys(s); !reflect.DeepEqual(got, want) {
			t.Errorf("groups = %v, want %v", got, want)
		}
	}

	byOpt := s.OnGroupingSelectChange(runproc.Color, []string{"run.params.opt"})
	check(byOpt, [][]string{{"a", "b"}, {"c"}})
	if got := byOpt.Rows.Groups[1].Header.Color; got != runproc.Palettes[0][1] {
		t.Errorf("second group color = %s", got)
	}
	if s.Rows.Grouped() {
		t.Errorf("handler modified its receiver")
	}

	// The complement of opt among the options includes lr and the
	// experiment name, which tell every run apart.
	check(byOpt.OnGroupingModeChange(runproc.Color, true), [][]string{{"a"}, {"b"}, {"c"}})

	off := byOpt.OnGroupingApplyChange(runproc.Color)
	if off.Rows.Grouped() || off.Config.Grouping.Color.Applied {
		t.Errorf("unapplied axis still groups")
	}
	check(off.OnGroupingApplyChange(runproc.Color), [][]string{{"a", "b"}, {"c"}})

	pal := byOpt.OnGroupingPaletteChange(1)
	if got := pal.Rows.Groups[0].Header.Color; got != runproc.Palettes[1][0] {
		t.Errorf("color with palette 1 = %s, want %s", got, runproc.Palettes[1][0])
	}

	persist := pal.OnGroupingPersistenceChange(runproc.Color)
	if !persist.Config.Grouping.Color.Persistent {
		t.Errorf("persistence not toggled on")
	}
	if got := pal.OnGroupingPersistenceChange(runproc.Chart); got != pal {
		t.Errorf("chart persistence toggle changed state")
	}

	reset := persist.OnGroupingModeChange(runproc.Color, true).OnGroupingReset(runproc.Color)
	ac := reset.Config.Grouping.Color
	if len(ac.Fields) != 0 || ac.Reverse || ac.Persistent || !ac.Applied || ac.Seed != runproc.DefaultSeed {
		t.Errorf("reset color axis = %+v", ac)
	}
	if reset.Config.Grouping.PaletteIndex != 0 {
		t.Errorf("color reset kept palette %d", reset.Config.Grouping.PaletteIndex)
	}
	if reset.Rows.Grouped() {
		t.Errorf("reset axis still groups")
	}

	stroke := pal.OnGroupingSelectChange(runproc.Stroke, []string{"run.params.lr"}).OnGroupingReset(runproc.Stroke)
	if stroke.Config.Grouping.PaletteIndex != 1 {
		t.Errorf("stroke reset changed palette")
	}
}

func TestSelectHandlers(t *testing.T) {
	s := New(DefaultConfig()).WithRuns(testRuns())

	q := s.OnSelectRunQueryChange("run.params.opt:sgd")
	if q.Config.Select.Query != "run.params.opt:sgd" || s.Config.Select.Query != "" {
		t.Errorf("query = %q", q.Config.Select.Query)
	}

	dims := []runseries.DimensionSpec{
		runseries.ParamDimension("lr"),
		runseries.MetricDimension("loss", map[string]interface{}{"subset": "train"}),
	}
	c := s.OnParamsSelectChange(dims)
	if len(c.Charts) != 1 {
		t.Fatalf("got %d charts, want 1", len(c.Charts))
	}
	if got := len(c.Charts[0].Data); got != 3 {
		t.Errorf("chart has %d lines, want 3", got)
	}
	if got := len(c.Charts[0].Order); got != 2 {
		t.Errorf("chart has %d dimensions, want 2", got)
	}

	hidden := c.OnParamVisibilityChange([]string{"b"})
	if got := len(hidden.Charts[0].Data); got != 2 {
		t.Errorf("chart with hidden run has %d lines, want 2", got)
	}
	if !hidden.Rows.Flat[1].Hidden || hidden.Rows.Flat[0].Hidden {
		t.Errorf("hidden flags wrong")
	}
	all := c.OnParamVisibilityChange([]string{runproc.HideAll})
	if got := len(all.Charts[0].Data); got != 0 {
		t.Errorf("all hidden: chart has %d lines", got)
	}
}

func TestTableHandlers(t *testing.T) {
	s := New(DefaultConfig()).WithRuns(testRuns())

	sorted := s.OnSortFieldsChange([]runtab.SortField{{Field: "params.lr", Order: "desc"}})
	if got, want := flatKeys(sorted), []string{"b", "a", "c"}; !reflect.DeepEqual(got, want) {
		t.Errorf("sorted rows = %v, want %v", got, want)
	}

	if got := s.OnRowHeightChange(RowHeightLarge).Config.Table.RowHeight; got != RowHeightLarge {
		t.Errorf("row height = %d", got)
	}
	if got := s.OnTableResizeModeChange(ResizeFullWidth).Config.Table.ResizeMode; got != ResizeFullWidth {
		t.Errorf("resize mode = %q", got)
	}

	all := s.OnColumnsVisibilityChange([]string{runtab.HideAll})
	if len(all.Config.Table.HiddenColumns) != len(s.Columns) {
		t.Errorf("hidden columns = %v", all.Config.Table.HiddenColumns)
	}
	for _, c := range all.Columns {
		if c.Key == runtab.IndexColumn || c.Key == runtab.ActionsColumn {
			continue
		}
		if !c.Hidden {
			t.Errorf("column %s not hidden", c.Key)
		}
	}
	one := s.OnColumnsVisibilityChange([]string{"run"})
	for _, c := range one.Columns {
		if c.Hidden != (c.Key == "run") {
			t.Errorf("column %s hidden = %v", c.Key, c.Hidden)
		}
	}

	ordered := s.OnColumnsOrderChange(runtab.ColumnsOrder{Left: []string{"params.opt"}})
	if got := ordered.Columns[1]; got.Key != "params.opt" || got.Pin != runtab.PinLeft {
		t.Errorf("second column = %+v, want params.opt pinned left", got)
	}
}

func TestChartHandlers(t *testing.T) {
	s := New(DefaultConfig()).WithRuns(testRuns())

	if !s.OnColorIndicatorChange().Config.Chart.ColorIndicator {
		t.Errorf("color indicator not toggled")
	}
	curve := s.OnCurveInterpolationChange()
	if curve.Config.Chart.CurveInterpolation != CurveMonotoneX {
		t.Errorf("curve = %q", curve.Config.Chart.CurveInterpolation)
	}
	if got := curve.OnCurveInterpolationChange().Config.Chart.CurveInterpolation; got != CurveLinear {
		t.Errorf("curve = %q", got)
	}

	tip := s.OnChangeTooltip(true, []string{"lr"}).OnTableRowClick("b")
	fs := tip.Config.Chart.FocusedState
	if fs.Key != "b" || !fs.Active {
		t.Errorf("focused state = %+v", fs)
	}
	content := tip.Config.Chart.Tooltip.Content
	if content == nil || !reflect.DeepEqual(content.Params, map[string]string{"lr": "0.2"}) {
		t.Errorf("tooltip content = %+v", content)
	}

	// Clicking the pinned row again unpins it.
	if tip.OnTableRowClick("b").Config.Chart.FocusedState.Active {
		t.Errorf("second click did not unpin")
	}

	hover := tip.OnActivePointChange(FocusedState{Key: "c", XValue: "lr", YValue: 0.1}, false)
	if fs := hover.Config.Chart.FocusedState; fs.Key != "c" || fs.Active {
		t.Errorf("hover focused state = %+v", fs)
	}
	if got := hover.Config.Chart.Tooltip.Content.Params["lr"]; got != "0.1" {
		t.Errorf("hover tooltip lr = %q", got)
	}
}

func TestResetConfig(t *testing.T) {
	s := New(DefaultConfig()).WithRuns(testRuns()).
		OnGroupingSelectChange(runproc.Chart, []string{"run.params.opt"}).
		OnRowHeightChange(RowHeightSmall)
	r := s.ResetConfig()
	if r.Rows.Grouped() || r.Config.Table.RowHeight != RowHeightMedium {
		t.Errorf("configuration not reset")
	}
	if len(r.Rows.Flat) != 3 {
		t.Errorf("ResetConfig dropped runs")
	}
}
