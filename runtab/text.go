// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package runtab

import (
	"fmt"
	"io"
	"strings"

	"github.com/aclements/go-gg/generic/slice"
	"golang.org/x/runviz/internal/texttab"
)

// WriteText writes rows as a fixed-width text table with the visible
// columns of columns. Each group is introduced by a line listing the
// values shared by all of its rows.
func WriteText(w io.Writer, rows *Rows, columns []Column) error {
	var tab texttab.Table
	keys := exported(columns)

	tab.Row().Cell("#", texttab.Right)
	for _, c := range columns {
		if slice.Contains(keys, c.Key) {
			tab.Cell(c.Label)
		}
	}
	tab.Rule()

	addRows := func(items []*Row) {
		for _, r := range items {
			idx := fmt.Sprint(r.Index + 1)
			if r.Hidden {
				idx += "*"
			}
			tab.Row().Cell(idx, texttab.Right)
			for _, k := range keys {
				tab.Cell(FormatCell(r.Cells[k]))
			}
		}
	}

	if !rows.Grouped() {
		addRows(rows.Flat)
		return tab.Format(w)
	}
	for i, g := range rows.Groups {
		if i > 0 {
			tab.Banner(" ")
		}
		tab.Banner(groupBanner(g.Header, keys, columns))
		addRows(g.Items)
	}
	return tab.Format(w)
}

// groupBanner describes a group header: its chart, style, and the
// columns whose value is shared by every row.
func groupBanner(h *Row, keys []string, columns []Column) string {
	var parts []string
	parts = append(parts, fmt.Sprintf("chart %d", h.ChartIndex+1))
	if h.Color != "" {
		parts = append(parts, "color "+h.Color)
	}
	if h.Dasharray != "" {
		parts = append(parts, "dash "+h.Dasharray)
	}
	parts = append(parts, fmt.Sprintf("%d runs", len(h.GroupRowKeys)))
	var shared []string
	for _, c := range columns {
		if !slice.Contains(keys, c.Key) {
			continue
		}
		v, ok := h.Cells[c.Key]
		if !ok {
			continue
		}
		if _, isList := v.([]interface{}); isList {
			continue
		}
		shared = append(shared, c.Label+"="+FormatCell(v))
	}
	s := "## " + strings.Join(parts, ", ")
	if len(shared) > 0 {
		s += ": " + strings.Join(shared, " ")
	}
	return s
}
