// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package texttab lays out fixed-width text tables.
package texttab

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"
)

// Table does layout of text-based tables.
//
// Many of its methods return the Table so callers can chain them to
// build up a row at once.
type Table struct {
	rows   []*row
	widths []int
}

type row struct {
	cells []cell

	// banner, if non-empty, is printed in place of cells without
	// affecting column widths.
	banner string

	// rule rows print a horizontal line across the table.
	rule bool
}

type cell struct {
	value     string
	alignment align
}

// A CellOption modifies a cell.
type CellOption func(c *cell)

var (
	Left   CellOption = func(c *cell) { c.alignment = alignLeft }
	Center CellOption = func(c *cell) { c.alignment = alignCenter }
	Right  CellOption = func(c *cell) { c.alignment = alignRight }
)

type align int

const (
	alignLeft align = iota
	alignCenter
	alignRight
)

// pad pads s to width w. Left-aligned cells are padded on the right.
func (a align) pad(s string, w int) string {
	n := w - utf8.RuneCountInString(s)
	if n <= 0 {
		return s
	}
	switch a {
	case alignCenter:
		l := n / 2
		return strings.Repeat(" ", l) + s + strings.Repeat(" ", n-l)
	case alignRight:
		return strings.Repeat(" ", n) + s
	}
	return s + strings.Repeat(" ", n)
}

// Row starts a new row in table t.
func (t *Table) Row() *Table {
	t.rows = append(t.rows, new(row))
	return t
}

func (t *Table) cur() *row {
	if len(t.rows) == 0 {
		t.Row()
	}
	return t.rows[len(t.rows)-1]
}

// Cell adds a cell to the end of the current row.
func (t *Table) Cell(value string, opts ...CellOption) *Table {
	r := t.cur()
	c := cell{value: value}
	for _, o := range opts {
		o(&c)
	}
	col := len(r.cells)
	r.cells = append(r.cells, c)
	for len(t.widths) <= col {
		t.widths = append(t.widths, 0)
	}
	if w := utf8.RuneCountInString(value); w > t.widths[col] {
		t.widths[col] = w
	}
	return t
}

// Banner adds a row holding a single line of text that does not
// participate in column layout.
func (t *Table) Banner(text string) *Table {
	t.rows = append(t.rows, &row{banner: text})
	return t
}

// Rule adds a horizontal line as wide as the table.
func (t *Table) Rule() *Table {
	t.rows = append(t.rows, &row{rule: true})
	return t
}

// Width returns the width of the widest formatted row of cells.
func (t *Table) Width() int {
	if len(t.widths) == 0 {
		return 0
	}
	w := len(t.widths) - 1 // separating spaces
	for _, cw := range t.widths {
		w += cw
	}
	return w
}

// Format lays out table t and writes it to w. Cells are separated by
// a single space. Trailing spaces are trimmed from every line.
func (t *Table) Format(w io.Writer) error {
	var line strings.Builder
	for _, r := range t.rows {
		line.Reset()
		switch {
		case r.rule:
			line.WriteString(strings.Repeat("-", t.Width()))
		case r.banner != "":
			line.WriteString(r.banner)
		default:
			for i, c := range r.cells {
				if i > 0 {
					line.WriteByte(' ')
				}
				line.WriteString(c.alignment.pad(c.value, t.widths[i]))
			}
		}
		if _, err := fmt.Fprintln(w, strings.TrimRight(line.String(), " ")); err != nil {
			return err
		}
	}
	return nil
}
