// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package view

import (
	"golang.org/x/runviz/runproc"
	"golang.org/x/runviz/runseries"
	"golang.org/x/runviz/runtab"
)

// OnGroupingSelectChange sets the fields axis a groups by.
func (s *State) OnGroupingSelectChange(a runproc.Axis, fields []string) *State {
	return s.with(func(cfg *Config) {
		cfg.Grouping.Axis(a).Fields = append([]string{}, fields...)
	})
}

// OnGroupingModeChange sets whether axis a groups by the complement
// of its fields.
func (s *State) OnGroupingModeChange(a runproc.Axis, reverse bool) *State {
	return s.with(func(cfg *Config) {
		cfg.Grouping.Axis(a).Reverse = reverse
	})
}

// OnGroupingPaletteChange selects palette index.
func (s *State) OnGroupingPaletteChange(index int) *State {
	return s.with(func(cfg *Config) {
		cfg.Grouping.PaletteIndex = index
	})
}

// OnGroupingReset clears axis a: no fields, normal mode, applied and
// not persistent. Resetting the color axis also selects the first
// palette. The seed is kept.
func (s *State) OnGroupingReset(a runproc.Axis) *State {
	return s.with(func(cfg *Config) {
		ac := cfg.Grouping.Axis(a)
		ac.Fields = []string{}
		ac.Reverse = false
		ac.Applied = true
		ac.Persistent = false
		if a == runproc.Color {
			cfg.Grouping.PaletteIndex = 0
		}
	})
}

// OnGroupingApplyChange toggles whether axis a groups at all.
func (s *State) OnGroupingApplyChange(a runproc.Axis) *State {
	return s.with(func(cfg *Config) {
		ac := cfg.Grouping.Axis(a)
		ac.Applied = !ac.Applied
	})
}

// OnGroupingPersistenceChange toggles persistent slot assignment on
// axis a. Only the color and stroke axes have slots; for the chart
// axis it returns s.
func (s *State) OnGroupingPersistenceChange(a runproc.Axis) *State {
	if a == runproc.Chart {
		return s
	}
	return s.with(func(cfg *Config) {
		ac := cfg.Grouping.Axis(a)
		ac.Persistent = !ac.Persistent
	})
}

// OnParamsSelectChange sets the chart dimensions.
func (s *State) OnParamsSelectChange(dims []runseries.DimensionSpec) *State {
	return s.with(func(cfg *Config) {
		cfg.Select.Params = append([]runseries.DimensionSpec{}, dims...)
	})
}

// OnSelectRunQueryChange sets the run query. It does not fetch.
func (s *State) OnSelectRunQueryChange(query string) *State {
	return s.with(func(cfg *Config) {
		cfg.Select.Query = query
	})
}

// OnParamVisibilityChange sets the hidden runs. keys may be
// [runproc.HideAll] to hide every run.
func (s *State) OnParamVisibilityChange(keys []string) *State {
	return s.with(func(cfg *Config) {
		cfg.Table.HiddenMetrics = append([]string{}, keys...)
	})
}

// OnColumnsVisibilityChange sets the hidden table columns. If hidden
// is [runtab.HideAll], every current column is hidden.
func (s *State) OnColumnsVisibilityChange(hidden []string) *State {
	if len(hidden) > 0 && hidden[0] == runtab.HideAll {
		hidden = make([]string, 0, len(s.Columns))
		for _, c := range s.Columns {
			hidden = append(hidden, c.Key)
		}
	}
	return s.with(func(cfg *Config) {
		cfg.Table.HiddenColumns = append([]string{}, hidden...)
	})
}

// OnColumnsOrderChange sets the pinned column order.
func (s *State) OnColumnsOrderChange(order runtab.ColumnsOrder) *State {
	return s.with(func(cfg *Config) {
		cfg.Table.ColumnsOrder = order
	})
}

// OnSortFieldsChange sets the row sort order.
func (s *State) OnSortFieldsChange(fields []runtab.SortField) *State {
	return s.with(func(cfg *Config) {
		cfg.Table.SortFields = append([]runtab.SortField{}, fields...)
	})
}

// OnRowHeightChange sets the table row height.
func (s *State) OnRowHeightChange(height int) *State {
	return s.with(func(cfg *Config) {
		cfg.Table.RowHeight = height
	})
}

// OnTableResizeModeChange sets the table resize mode.
func (s *State) OnTableResizeModeChange(mode string) *State {
	return s.with(func(cfg *Config) {
		cfg.Table.ResizeMode = mode
	})
}

// OnColorIndicatorChange toggles the chart color indicator.
func (s *State) OnColorIndicatorChange() *State {
	return s.with(func(cfg *Config) {
		cfg.Chart.ColorIndicator = !cfg.Chart.ColorIndicator
	})
}

// OnCurveInterpolationChange switches between linear and monotone
// curves.
func (s *State) OnCurveInterpolationChange() *State {
	return s.with(func(cfg *Config) {
		if cfg.Chart.CurveInterpolation == CurveLinear {
			cfg.Chart.CurveInterpolation = CurveMonotoneX
		} else {
			cfg.Chart.CurveInterpolation = CurveLinear
		}
	})
}

// OnActivePointChange focuses the chart on p. If active, the focus
// is pinned.
func (s *State) OnActivePointChange(p FocusedState, active bool) *State {
	return s.with(func(cfg *Config) {
		p.Active = active
		cfg.Chart.FocusedState = p
	})
}

// OnTableRowClick pins the focus to the line of row key, or unpins
// it if that line is already pinned.
func (s *State) OnTableRowClick(key string) *State {
	fs := s.Config.Chart.FocusedState
	active := key != ""
	if fs.Active && fs.Key == key {
		active = false
	}
	return s.OnActivePointChange(FocusedState{Key: key, ChartIndex: fs.ChartIndex}, active)
}

// OnChangeTooltip sets whether the tooltip is displayed and which
// parameters it shows.
func (s *State) OnChangeTooltip(display bool, selected []string) *State {
	return s.with(func(cfg *Config) {
		cfg.Chart.Tooltip.Display = display
		cfg.Chart.Tooltip.SelectedParams = append([]string{}, selected...)
	})
}

// ResetConfig returns the State of the runs of s under the default
// configuration.
func (s *State) ResetConfig() *State {
	return s.WithConfig(DefaultConfig())
}
