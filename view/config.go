// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package view

import (
	"golang.org/x/runviz/runproc"
	"golang.org/x/runviz/runseries"
	"golang.org/x/runviz/runtab"
)

// Curve interpolation modes of the parallel-coordinates chart.
const (
	CurveLinear    = "linear"
	CurveMonotoneX = "monotoneX"
)

// Table resize modes.
const (
	ResizeResizable = "resizable"
	ResizeFullWidth = "fullWidth"
	ResizeHidden    = "hide"
)

// Table row heights, in pixels.
const (
	RowHeightSmall  = 28
	RowHeightMedium = 32
	RowHeightLarge  = 40
)

// FocusedState is the point of the chart the user is pointing at or
// has pinned.
type FocusedState struct {
	Key        string      `json:"key"`
	XValue     interface{} `json:"xValue"`
	YValue     interface{} `json:"yValue"`
	Active     bool        `json:"active"`
	ChartIndex int         `json:"chartIndex"`
}

// TooltipConfig configures the chart tooltip.
type TooltipConfig struct {
	// Content is the tooltip of the focused entry, restricted to
	// SelectedParams.
	Content *runproc.Tooltip `json:"content"`

	Display        bool     `json:"display"`
	SelectedParams []string `json:"selectedParams"`
}

// ChartConfig is the presentation state of the chart.
type ChartConfig struct {
	CurveInterpolation string        `json:"curveInterpolation"`
	ColorIndicator     bool          `json:"isVisibleColorIndicator"`
	FocusedState       FocusedState  `json:"focusedState"`
	Tooltip            TooltipConfig `json:"tooltip"`
}

// SelectConfig selects the runs to fetch and the chart dimensions.
type SelectConfig struct {
	Params []runseries.DimensionSpec `json:"params"`
	Query  string                    `json:"query"`
}

// TableConfig is the presentation state of the table.
type TableConfig struct {
	ResizeMode string             `json:"resizeMode"`
	RowHeight  int                `json:"rowHeight"`
	SortFields []runtab.SortField `json:"sortFields"`

	// HiddenMetrics lists the keys of hidden runs, or is ["all"].
	HiddenMetrics []string `json:"hiddenMetrics"`

	HiddenColumns []string            `json:"hiddenColumns"`
	ColumnsOrder  runtab.ColumnsOrder `json:"columnsOrder"`
}

// Config is the complete view configuration. Each of its four parts
// is stored separately.
type Config struct {
	Grouping runproc.Config `json:"grouping"`
	Chart    ChartConfig    `json:"chart"`
	Select   SelectConfig   `json:"select"`
	Table    TableConfig    `json:"table"`
}

// DefaultChartConfig returns the initial chart configuration.
func DefaultChartConfig() ChartConfig {
	return ChartConfig{
		CurveInterpolation: CurveLinear,
		Tooltip: TooltipConfig{
			Display:        true,
			SelectedParams: []string{},
		},
	}
}

// DefaultSelectConfig returns the initial select configuration.
func DefaultSelectConfig() SelectConfig {
	return SelectConfig{Params: []runseries.DimensionSpec{}}
}

// DefaultTableConfig returns the initial table configuration.
func DefaultTableConfig() TableConfig {
	return TableConfig{
		ResizeMode:    ResizeResizable,
		RowHeight:     RowHeightMedium,
		SortFields:    []runtab.SortField{},
		HiddenMetrics: []string{},
		HiddenColumns: []string{},
		ColumnsOrder: runtab.ColumnsOrder{
			Left:   []string{},
			Middle: []string{},
			Right:  []string{},
		},
	}
}

// DefaultConfig returns the initial view configuration.
func DefaultConfig() Config {
	return Config{
		Grouping: runproc.DefaultConfig(),
		Chart:    DefaultChartConfig(),
		Select:   DefaultSelectConfig(),
		Table:    DefaultTableConfig(),
	}
}

// Clone returns a copy of c that shares no slices with c.
func (c Config) Clone() Config {
	c.Grouping = c.Grouping.Clone()
	c.Chart.Tooltip.SelectedParams = cloneStrings(c.Chart.Tooltip.SelectedParams)
	if c.Select.Params != nil {
		c.Select.Params = append([]runseries.DimensionSpec{}, c.Select.Params...)
	}
	if c.Table.SortFields != nil {
		c.Table.SortFields = append([]runtab.SortField{}, c.Table.SortFields...)
	}
	c.Table.HiddenMetrics = cloneStrings(c.Table.HiddenMetrics)
	c.Table.HiddenColumns = cloneStrings(c.Table.HiddenColumns)
	o := &c.Table.ColumnsOrder
	o.Left, o.Middle, o.Right = cloneStrings(o.Left), cloneStrings(o.Middle), cloneStrings(o.Right)
	return c
}

func cloneStrings(s []string) []string {
	if s == nil {
		return nil
	}
	return append([]string{}, s...)
}
