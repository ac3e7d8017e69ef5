// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package runseries builds parallel-coordinates chart data from
// grouped runs.
//
// Each selected dimension becomes a vertical axis. Each visible run
// becomes a Point: a polyline crossing every axis at the run's value
// for that dimension. Groups assigned to different chart indexes are
// drawn in separate charts, each with its own axis scales.
package runseries

import (
	"sort"

	"golang.org/x/runviz/runfmt"
	"golang.org/x/runviz/runproc"
)

// A Chart is the data for one sub-chart.
type Chart struct {
	Index int `json:"index"`

	// Dimensions maps each dimension key to its scale.
	Dimensions map[string]*DimensionMeta `json:"dimensions"`

	// Order lists the keys of Dimensions in the order they were
	// first observed.
	Order []string `json:"order"`

	Data []*Point `json:"data"`
}

// A Point is one run's line through the dimensions of a chart.
type Point struct {
	Key string `json:"key"`

	// Values maps dimension keys to the run's value. A nil value
	// means the run has no value for that dimension.
	Values map[string]interface{} `json:"values"`

	Color      string `json:"color"`
	Dasharray  string `json:"dasharray"`
	ChartIndex int    `json:"chartIndex"`
}

// Build returns one Chart per distinct chart index in groups, in
// ascending index order. It returns nil if dims is empty.
//
// Hidden entries are skipped entirely and contribute nothing to the
// dimension domains. A Param dimension appears in every chart that has
// a visible entry; a Metric dimension appears only where some entry
// has a matching trace.
func Build(groups []*runproc.Collection, dims []DimensionSpec) []*Chart {
	if len(dims) == 0 {
		return nil
	}
	charts := make(map[int]*Chart)
	for _, g := range groups {
		c := charts[g.ChartIndex]
		if c == nil {
			c = &Chart{Index: g.ChartIndex, Dimensions: make(map[string]*DimensionMeta), Data: []*Point{}}
			charts[g.ChartIndex] = c
		}
		for _, e := range g.Data {
			if e.Hidden {
				continue
			}
			pt := &Point{
				Key:        e.Key,
				Values:     make(map[string]interface{}),
				Color:      e.Color,
				Dasharray:  e.Dasharray,
				ChartIndex: g.ChartIndex,
			}
			if g.Color != "" {
				pt.Color = g.Color
			}
			if g.Dasharray != "" {
				pt.Dasharray = g.Dasharray
			}
			for _, d := range dims {
				c.addValue(pt, d, e.Run)
			}
			c.Data = append(c.Data, pt)
		}
	}

	out := make([]*Chart, 0, len(charts))
	for _, c := range charts {
		for _, m := range c.Dimensions {
			m.finish()
		}
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Index < out[j].Index })
	return out
}

// dimension returns the metadata of d in c, creating it if needed.
func (c *Chart) dimension(d DimensionSpec) *DimensionMeta {
	key := d.Key()
	m := c.Dimensions[key]
	if m == nil {
		m = newDimensionMeta(d)
		c.Dimensions[key] = m
		c.Order = append(c.Order, key)
	}
	return m
}

func (c *Chart) addValue(pt *Point, d DimensionSpec, run *runfmt.Run) {
	if run == nil {
		return
	}
	key := d.Key()
	switch d.Type {
	case Metric:
		for _, tr := range run.Traces {
			if tr.MetricName != d.MetricName || !runfmt.SameContext(tr.Context, d.Context) {
				continue
			}
			pt.Values[key] = tr.LastValue.Last
			c.dimension(d).observe(tr.LastValue.Last)
		}
	default:
		m := c.dimension(d)
		raw, ok := runfmt.Get(run.Params, d.Label)
		var v interface{}
		switch {
		case !ok:
			v = nil
		case raw == nil:
			v = "None"
		default:
			if s, isString := raw.(string); isString {
				v = `"` + s + `"`
			} else {
				v = raw
			}
		}
		pt.Values[key] = v
		m.observe(v)
	}
}
