// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package runtab

import (
	"github.com/aclements/go-gg/generic/slice"
	"golang.org/x/runviz/runproc"
)

// Pin positions of columns.
const (
	PinLeft   = "left"
	PinMiddle = "middle"
	PinRight  = "right"
)

// Keys of the columns that exist only for interactive tables.
const (
	IndexColumn   = "#"
	ActionsColumn = "actions"
)

// A Column describes one table column.
type Column struct {
	Key    string `json:"key"`
	Label  string `json:"label"`
	Pin    string `json:"pin"`
	Hidden bool   `json:"isHidden"`
}

// ColumnsOrder lists column keys explicitly placed in each pin
// position, in display order.
type ColumnsOrder struct {
	Left   []string `json:"left"`
	Middle []string `json:"middle"`
	Right  []string `json:"right"`
}

// HideAll, as the first element of a hidden column list, hides every
// column that holds data.
const HideAll = "all"

// Columns returns the table columns for the given metric and
// parameter columns.
//
// The index column comes first and the actions column last. Between
// them, columns listed in order.Left are pinned left, those in
// order.Right are pinned right, and the rest are in the middle. Within
// each position, listed columns come first in the listed order,
// followed by the others in their default order: experiment, run,
// metrics, parameters.
func Columns(metrics []runproc.Metric, params []string, order ColumnsOrder, hidden []string) []Column {
	var data []Column
	data = append(data,
		Column{Key: "experiment", Label: "Experiment"},
		Column{Key: "run", Label: "Run"},
	)
	for _, m := range metrics {
		label := m.Name
		if m.Context != "" {
			label += " " + m.Context
		}
		data = append(data, Column{Key: m.Column(), Label: label})
	}
	for _, p := range params {
		data = append(data, Column{Key: ParamColumn(p), Label: p})
	}

	hideAll := len(hidden) > 0 && hidden[0] == HideAll
	for i := range data {
		c := &data[i]
		c.Hidden = hideAll || slice.Contains(hidden, c.Key)
		switch {
		case slice.Contains(order.Left, c.Key):
			c.Pin = PinLeft
		case slice.Contains(order.Right, c.Key):
			c.Pin = PinRight
		default:
			c.Pin = PinMiddle
		}
	}

	out := []Column{{Key: IndexColumn, Label: "#", Pin: PinLeft}}
	out = append(out, place(data, PinLeft, order.Left)...)
	out = append(out, place(data, PinMiddle, order.Middle)...)
	out = append(out, place(data, PinRight, order.Right)...)
	return append(out, Column{Key: ActionsColumn, Label: "", Pin: PinRight})
}

// place returns the columns of data pinned at pin, those listed in
// listed first.
func place(data []Column, pin string, listed []string) []Column {
	var out []Column
	listed = slice.Nub(listed).([]string)
	for _, key := range listed {
		for _, c := range data {
			if c.Key == key && c.Pin == pin {
				out = append(out, c)
				break
			}
		}
	}
	for _, c := range data {
		if c.Pin == pin && !slice.Contains(listed, c.Key) {
			out = append(out, c)
		}
	}
	return out
}
