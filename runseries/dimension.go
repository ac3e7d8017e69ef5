// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package runseries

import (
	"encoding/json"
	"fmt"

	"github.com/aclements/go-moremath/stats"
	"golang.org/x/runviz/runfmt"
	"golang.org/x/runviz/runkey"
)

// A DimensionType says where a dimension's values come from.
type DimensionType string

const (
	Param  DimensionType = "param"
	Metric DimensionType = "metric"
)

// A ScaleType is the kind of axis a dimension is drawn on.
type ScaleType string

const (
	// LinearScale dimensions are continuous numeric axes.
	LinearScale ScaleType = "linear"
	// PointScale dimensions are categorical axes.
	PointScale ScaleType = "point"
)

// A DimensionSpec selects one chart dimension.
type DimensionSpec struct {
	Type DimensionType `json:"type"`

	// Label is the parameter path of a Param dimension.
	Label string `json:"label,omitempty"`

	// MetricName and Context select the traces of a Metric
	// dimension.
	MetricName string                 `json:"metricName,omitempty"`
	Context    map[string]interface{} `json:"context,omitempty"`
}

// ParamDimension returns the dimension of the parameter at path.
func ParamDimension(path string) DimensionSpec {
	return DimensionSpec{Type: Param, Label: path}
}

// MetricDimension returns the dimension of the metric name in context ctx.
func MetricDimension(name string, ctx map[string]interface{}) DimensionSpec {
	return DimensionSpec{Type: Metric, MetricName: name, Context: ctx}
}

// Key returns the key of the dimension in Chart.Dimensions and
// Point.Values.
func (d DimensionSpec) Key() string {
	if d.Type == Metric {
		return d.MetricName + "-" + runfmt.ContextString(d.Context)
	}
	return d.Label
}

func (d DimensionSpec) displayName() string {
	if d.Type == Metric {
		if ctx := runfmt.ContextString(d.Context); ctx != "" {
			return d.MetricName + " " + ctx
		}
		return d.MetricName
	}
	return d.Label
}

// DimensionMeta describes the scale of one dimension of a chart.
type DimensionMeta struct {
	ScaleType ScaleType `json:"scaleType"`

	// Domain is [min, max] for a Linear dimension and the distinct
	// observed values in first-seen order for a Point dimension.
	// It is empty if no value was observed.
	Domain []interface{} `json:"domain"`

	DisplayName   string        `json:"displayName"`
	DimensionType DimensionType `json:"dimensionType"`

	// values are the distinct observed values, in first-seen order.
	values []interface{}
	seen   map[string]bool
}

func newDimensionMeta(d DimensionSpec) *DimensionMeta {
	return &DimensionMeta{
		ScaleType:     LinearScale,
		DisplayName:   d.displayName(),
		DimensionType: d.Type,
		seen:          make(map[string]bool),
	}
}

// Promote makes m a Point dimension. A Point dimension never becomes
// Linear again.
func (m *DimensionMeta) Promote() {
	m.ScaleType = PointScale
}

// observe records v. nil is not a value. Any other non-numeric
// value, booleans included, makes m a PointScale dimension.
func (m *DimensionMeta) observe(v interface{}) {
	if v == nil {
		return
	}
	if _, ok := toFloat(v); !ok {
		m.Promote()
	}
	k := runkey.Encode(v)
	if m.seen[k] {
		return
	}
	m.seen[k] = true
	m.values = append(m.values, v)
}

// finish computes m.Domain from the observed values.
func (m *DimensionMeta) finish() {
	if m.ScaleType == PointScale {
		m.Domain = append([]interface{}{}, m.values...)
		return
	}
	xs := make([]float64, 0, len(m.values))
	for _, v := range m.values {
		x, _ := toFloat(v)
		xs = append(xs, x)
	}
	if len(xs) == 0 {
		m.Domain = []interface{}{}
		return
	}
	lo, hi := stats.Bounds(xs)
	m.Domain = []interface{}{lo, hi}
}

// Bounds returns the numeric domain of a Linear dimension.
func (m *DimensionMeta) Bounds() (lo, hi float64, ok bool) {
	if m.ScaleType != LinearScale || len(m.Domain) != 2 {
		return 0, 0, false
	}
	lo, _ = toFloat(m.Domain[0])
	hi, _ = toFloat(m.Domain[1])
	return lo, hi, true
}

// Position returns where v falls on m's axis, from 0 to 1. It
// returns false if v is nil or not in the domain.
func (m *DimensionMeta) Position(v interface{}) (float64, bool) {
	if v == nil {
		return 0, false
	}
	if lo, hi, ok := m.Bounds(); ok {
		x, ok := toFloat(v)
		if !ok {
			return 0, false
		}
		if hi == lo {
			return 0.5, true
		}
		return (x - lo) / (hi - lo), true
	}
	k := runkey.Encode(v)
	for i, d := range m.Domain {
		if runkey.Encode(d) == k {
			if len(m.Domain) == 1 {
				return 0.5, true
			}
			return float64(i) / float64(len(m.Domain)-1), true
		}
	}
	return 0, false
}

// Label formats a domain value for display.
func Label(v interface{}) string {
	switch v := v.(type) {
	case string:
		return v
	case float64:
		return fmt.Sprintf("%.4g", v)
	}
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprint(v)
	}
	return string(b)
}

func toFloat(v interface{}) (float64, bool) {
	switch v := v.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	case json.Number:
		f, err := v.Float64()
		return f, err == nil
	}
	return 0, false
}
