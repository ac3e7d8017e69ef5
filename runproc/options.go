// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package runproc

import (
	"math"
	"sort"
	"strings"

	"golang.org/x/runviz/runfmt"
	"golang.org/x/runviz/runkey"
)

// GroupingOptions returns the fields an axis may group by, given the
// parameter paths present in the data. Every parameter path p yields
// the option "run.params.<p>"; a fixed set of run-level fields
// follows.
func GroupingOptions(params []string) []Option {
	opts := make([]Option, 0, len(params)+4)
	for _, p := range params {
		opts = append(opts, Option{Value: paramsPrefix + p, Group: "params", Label: p})
	}
	return append(opts,
		Option{Value: "run.experiment_name", Group: "Other", Label: "experiment_name"},
		Option{Value: "run.params.status.hash", Group: "Other", Label: "run.hash"},
		Option{Value: "metric_name", Group: "Other", Label: "metric_name"},
		Option{Value: "context.subset", Group: "context", Label: "subset"},
	)
}

// fieldLabel strips the parameter prefix from a grouping field.
func fieldLabel(field string) string {
	return strings.TrimPrefix(field, paramsPrefix)
}

// ChartTitles returns, for each chart index, the chart axis fields of
// the first collection drawn in that chart mapped to the JSON text of
// their values. Falsy values are shown as "None".
func ChartTitles(groups []*Collection, cfg Config) map[int]map[string]string {
	fields := cfg.EffectiveFields(Chart)
	titles := make(map[int]map[string]string)
	for _, g := range groups {
		if _, ok := titles[g.ChartIndex]; ok {
			continue
		}
		title := make(map[string]string)
		for _, f := range fields {
			v, ok := g.Config[f]
			if !ok {
				continue
			}
			if !Truthy(v) {
				v = "None"
			}
			title[fieldLabel(f)] = runkey.JSON(v)
		}
		titles[g.ChartIndex] = title
	}
	return titles
}

// A Tooltip describes one entry for display next to its line.
type Tooltip struct {
	// GroupConfig maps each grouping axis to the JSON text of the
	// entry's group values on that axis.
	GroupConfig map[Axis]map[string]string `json:"groupConfig"`

	// Params maps each parameter path to the JSON text of the
	// entry's value, or of "-" if the entry lacks it.
	Params map[string]string `json:"params"`
}

// Tooltips returns the tooltip of every entry in groups, keyed by
// Entry.Key.
func Tooltips(groups []*Collection, cfg Config, params []string) map[string]*Tooltip {
	tips := make(map[string]*Tooltip)
	for _, g := range groups {
		gc := make(map[Axis]map[string]string)
		for _, a := range Axes {
			fields := cfg.EffectiveFields(a)
			if len(fields) == 0 {
				continue
			}
			m := make(map[string]string, len(fields))
			for _, f := range fields {
				v, ok := g.Config[f]
				if !ok || runkey.IsUndefined(v) {
					v = "-"
				}
				m[fieldLabel(f)] = runkey.JSON(v)
			}
			gc[a] = m
		}
		for _, e := range g.Data {
			ps := make(map[string]string, len(params))
			for _, p := range params {
				var v interface{} = "-"
				if e.Run != nil {
					if x, ok := runfmt.Get(e.Run.Params, p); ok {
						v = x
					}
				}
				ps[p] = runkey.JSON(v)
			}
			tips[e.Key] = &Tooltip{GroupConfig: gc, Params: ps}
		}
	}
	return tips
}

// Truthy reports whether v counts as true when shown to users: it is
// not nil, Undefined, false, zero, NaN, or the empty string.
func Truthy(v interface{}) bool {
	switch v := v.(type) {
	case nil:
		return false
	case bool:
		return v
	case float64:
		return v != 0 && !math.IsNaN(v)
	case int:
		return v != 0
	case string:
		return v != ""
	}
	return !runkey.IsUndefined(v)
}

// FormatTitle returns title as "field=value" pairs sorted by field
// and joined by ", ".
func FormatTitle(title map[string]string) string {
	fields := make([]string, 0, len(title))
	for f := range title {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	for i, f := range fields {
		fields[i] = f + "=" + title[f]
	}
	return strings.Join(fields, ", ")
}
