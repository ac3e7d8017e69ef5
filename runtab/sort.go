// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package runtab

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
)

// A SortField orders table rows by one column.
type SortField struct {
	Field string `json:"field"`
	// Order is "asc" or "desc". Anything other than "desc" sorts
	// ascending.
	Order string `json:"order"`
}

// ParseSortField parses "field" or "field:asc" or "field:desc".
func ParseSortField(s string) (SortField, error) {
	field, order, ok := strings.Cut(s, ":")
	if field == "" {
		return SortField{}, fmt.Errorf("empty sort field in %q", s)
	}
	if !ok {
		order = "asc"
	}
	if order != "asc" && order != "desc" {
		return SortField{}, fmt.Errorf("bad sort order %q: want asc or desc", order)
	}
	return SortField{Field: field, Order: order}, nil
}

// Sort stably reorders the rows of each block of rows by fields, in
// priority order. Group headers stay in group order; only the rows
// within a group move. Rows keep their Index.
//
// Numbers sort before strings and strings before missing values,
// whatever the direction.
func Sort(rows *Rows, fields []SortField) {
	if len(fields) == 0 {
		return
	}
	sortBlock := func(block []*Row) {
		sort.SliceStable(block, func(i, j int) bool {
			return lessRow(fields, block[i], block[j])
		})
	}
	if rows.Grouped() {
		for _, g := range rows.Groups {
			sortBlock(g.Items)
		}
		return
	}
	sortBlock(rows.Flat)
}

func lessRow(fields []SortField, a, b *Row) bool {
	for _, f := range fields {
		c := compareCells(a.Cells[f.Field], b.Cells[f.Field], f.Order == "desc")
		if c != 0 {
			return c < 0
		}
	}
	return false
}

// Cell classes, in sort order.
const (
	classNum = iota
	classString
	classMissing
)

func classify(v interface{}) (int, float64, string) {
	switch v := v.(type) {
	case nil:
		return classMissing, 0, ""
	case float64:
		if math.IsNaN(v) {
			return classMissing, 0, ""
		}
		return classNum, v, ""
	case int:
		return classNum, float64(v), ""
	case string:
		if v == Missing {
			return classMissing, 0, ""
		}
		// Parameter cells hold JSON text.
		if f, err := strconv.ParseFloat(v, 64); err == nil && !math.IsNaN(f) {
			return classNum, f, ""
		}
		return classString, 0, v
	}
	return classString, 0, FormatCell(v)
}

func compareCells(a, b interface{}, desc bool) int {
	ca, fa, sa := classify(a)
	cb, fb, sb := classify(b)
	if ca != cb {
		if ca < cb {
			return -1
		}
		return 1
	}
	c := 0
	switch ca {
	case classNum:
		switch {
		case fa < fb:
			c = -1
		case fa > fb:
			c = 1
		}
	case classString:
		c = strings.Compare(sa, sb)
	}
	if desc {
		c = -c
	}
	return c
}
