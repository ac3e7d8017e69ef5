// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package runtab builds table rows from grouped runs and flattens
// them for export.
//
// Rows of a grouped table are arranged under a header row per group.
// A header cell holds the single value shared by every row of its
// group, or the list of distinct values if the rows differ. Renderers
// can show a shared value once in the header and omit it from the
// rows.
package runtab

import (
	"golang.org/x/runviz/runfmt"
	"golang.org/x/runviz/runkey"
	"golang.org/x/runviz/runproc"
)

// A Row is one table row.
type Row struct {
	// Key identifies the row. For a run row it is the entry key;
	// for a group header it is the group key.
	Key string

	RunHash string
	Index   int
	Hidden  bool

	Color     string
	Dasharray string

	// Cells maps column keys to values. Parameter columns are keyed
	// "params.<path>". Columns without a value are absent.
	Cells map[string]interface{}

	// The following are set only on group header rows.

	IsGroup bool

	// ChartIndex is the sub-chart the group is drawn in.
	ChartIndex int

	// GroupRowKeys lists the keys of the group's rows.
	GroupRowKeys []string

	// Columns lists the columns aggregated into the header's cells.
	Columns []string
}

// A Group is a header row followed by the rows of one group.
type Group struct {
	Header *Row
	Items  []*Row
}

// Rows is the result of Build.
type Rows struct {
	// Flat holds the rows of an ungrouped table.
	Flat []*Row

	// Groups holds the groups of a grouped table, in group order.
	Groups []*Group

	// SameValueColumns lists the columns that have a single value
	// within at least one group.
	SameValueColumns []string
}

// Grouped reports whether r is a grouped table.
func (r *Rows) Grouped() bool {
	return r.Groups != nil
}

// BuildOptions are options to Build.
type BuildOptions struct {
	// Render, if non-nil, transforms every row, header or not,
	// before it is stored.
	Render func(*Row) *Row
}

// DefaultBuildOptions returns the default options to Build.
func DefaultBuildOptions() BuildOptions {
	return BuildOptions{}
}

// trackedColumns are aggregated into group headers in addition to the
// parameter columns.
var trackedColumns = []string{"experiment", "run", "metric", "context", "step", "epoch", "time"}

// ParamColumn returns the column key of parameter path p.
func ParamColumn(p string) string {
	return "params." + p
}

// Missing is the cell value of a run with no value for a column.
const Missing = "-"

// Build arranges the entries of groups into table rows. metrics and
// params select the metric and parameter columns.
//
// If groups is the single ungrouped collection, the result is flat.
func Build(groups []*runproc.Collection, metrics []runproc.Metric, params []string, opts BuildOptions) *Rows {
	render := opts.Render
	if render == nil {
		render = func(r *Row) *Row { return r }
	}
	rows := new(Rows)
	if len(groups) == 0 {
		return rows
	}
	grouped := groups[0].Config != nil
	if grouped {
		rows.Groups = []*Group{}
	}

	sameSeen := make(map[string]bool)
	index := 0
	for _, g := range groups {
		var grp *Group
		if grouped {
			header := &Row{
				Key:        g.Key,
				Color:      g.Color,
				Dasharray:  g.Dasharray,
				IsGroup:    true,
				ChartIndex: g.ChartIndex,
				Cells: map[string]interface{}{
					"experiment": "",
					"run":        "",
					"metric":     "",
					"context":    []interface{}{},
				},
			}
			for _, e := range g.Data {
				header.GroupRowKeys = append(header.GroupRowKeys, e.Key)
			}
			grp = &Group{Header: header, Items: []*Row{}}
			rows.Groups = append(rows.Groups, grp)
		}

		var vals columnValues
		for _, e := range g.Data {
			row := newRow(e, g, index, metrics)
			index++
			for _, col := range trackedColumns {
				v, ok := row.Cells[col]
				if !ok {
					v = runkey.Undefined
				}
				vals.add(col, v)
			}
			for _, p := range params {
				raw, ok := runfmt.Get(runParams(e), p)
				if !ok {
					raw = Missing
				}
				if s, isString := raw.(string); isString {
					row.Cells[ParamColumn(p)] = s
				} else {
					row.Cells[ParamColumn(p)] = runkey.JSON(raw)
				}
				vals.add(ParamColumn(p), raw)
			}
			if grouped {
				grp.Items = append(grp.Items, render(row))
			} else {
				rows.Flat = append(rows.Flat, render(row))
			}
		}

		for _, col := range vals.order {
			distinct := vals.values[col]
			if len(distinct) == 1 && !sameSeen[col] {
				sameSeen[col] = true
				rows.SameValueColumns = append(rows.SameValueColumns, col)
			}
			if !grouped {
				continue
			}
			switch {
			case len(distinct) != 1:
				grp.Header.Cells[col] = distinct
			case runkey.IsUndefined(distinct[0]):
				delete(grp.Header.Cells, col)
			default:
				grp.Header.Cells[col] = distinct[0]
			}
		}
		if grouped {
			grp.Header.Columns = vals.order
			grp.Header = render(grp.Header)
		}
	}
	return rows
}

func newRow(e *runproc.Entry, g *runproc.Collection, index int, metrics []runproc.Metric) *Row {
	row := &Row{
		Key:       e.Key,
		Index:     index,
		Hidden:    e.Hidden,
		Color:     e.Color,
		Dasharray: e.Dasharray,
		Cells:     make(map[string]interface{}),
	}
	if g.Color != "" {
		row.Color = g.Color
	}
	if g.Dasharray != "" {
		row.Dasharray = g.Dasharray
	}
	for _, m := range metrics {
		row.Cells[m.Column()] = Missing
	}
	row.Cells["experiment"] = "default"
	row.Cells["run"] = Missing
	if run := e.Run; run != nil {
		row.RunHash = run.Hash
		if run.Props.Experiment != "" {
			row.Cells["experiment"] = run.Props.Experiment
		}
		if run.Props.Name != "" {
			row.Cells["run"] = run.Props.Name
		}
		for _, tr := range run.Traces {
			m := runproc.Metric{Name: tr.MetricName, Context: runfmt.ContextString(tr.Context)}
			row.Cells[m.Column()] = tr.LastValue.Last
		}
	}
	return row
}

func runParams(e *runproc.Entry) map[string]interface{} {
	if e.Run == nil {
		return nil
	}
	return e.Run.Params
}

// columnValues collects the distinct values of each column in
// first-seen order.
type columnValues struct {
	order  []string
	values map[string][]interface{}
	seen   map[string]map[string]bool
}

func (c *columnValues) add(col string, v interface{}) {
	if c.values == nil {
		c.values = make(map[string][]interface{})
		c.seen = make(map[string]map[string]bool)
	}
	seen, ok := c.seen[col]
	if !ok {
		seen = make(map[string]bool)
		c.seen[col] = seen
		c.order = append(c.order, col)
	}
	k := "u"
	if !runkey.IsUndefined(v) {
		k = "v" + runkey.Encode(v)
	}
	if seen[k] {
		return
	}
	seen[k] = true
	c.values[col] = append(c.values[col], v)
}
