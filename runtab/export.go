// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package runtab

import (
	"encoding/csv"
	"encoding/json"
	"io"
	"strconv"
	"strings"
	"time"

	"golang.org/x/runviz/runkey"
	"golang.org/x/runviz/runproc"
)

// A Record is one flattened row, keyed by export header.
type Record map[string]string

// Separator is the value of every field of the record placed between
// groups.
const Separator = "--"

// exported returns the keys of the columns that are exported: every
// visible column except the index and actions columns.
func exported(columns []Column) []string {
	var keys []string
	for _, c := range columns {
		if c.Key == IndexColumn || c.Key == ActionsColumn || c.Hidden {
			continue
		}
		keys = append(keys, c.Key)
	}
	return keys
}

// exportKey strips the parameter prefix from a column key.
func exportKey(key string) string {
	return strings.TrimPrefix(key, "params.")
}

// ExportHeader returns the header of the records produced by Flatten
// for columns.
func ExportHeader(columns []Column) []string {
	keys := exported(columns)
	for i, k := range keys {
		keys[i] = exportKey(k)
	}
	return keys
}

// Flatten returns the rows of rows as flat string records for export.
// Group header rows are dropped. A separator record, with every field
// set to Separator, is placed between consecutive groups.
func Flatten(rows *Rows, columns []Column) []Record {
	keys := exported(columns)
	var blocks [][]*Row
	if rows.Grouped() {
		for _, g := range rows.Groups {
			blocks = append(blocks, g.Items)
		}
	} else {
		blocks = [][]*Row{rows.Flat}
	}

	empty := make(Record, len(keys))
	for _, k := range keys {
		empty[exportKey(k)] = Separator
	}

	var out []Record
	for i, block := range blocks {
		for _, row := range block {
			rec := make(Record, len(keys))
			for _, k := range keys {
				rec[exportKey(k)] = FormatCell(row.Cells[k])
			}
			out = append(out, rec)
		}
		if i < len(blocks)-1 {
			sep := make(Record, len(empty))
			for k, v := range empty {
				sep[k] = v
			}
			out = append(out, sep)
		}
	}
	return out
}

// FormatCell formats a cell value as text. Lists are joined with
// ", ", strings are unchanged, zero and other true values are JSON,
// and anything else, including a missing value, is Missing.
func FormatCell(v interface{}) string {
	switch v := v.(type) {
	case []interface{}:
		parts := make([]string, len(v))
		for i, x := range v {
			parts[i] = joinElem(x)
		}
		return strings.Join(parts, ", ")
	case string:
		return v
	}
	if runproc.Truthy(v) || isZero(v) {
		return runkey.JSON(v)
	}
	return Missing
}

// joinElem formats one element of a joined list. Absent and null
// elements are empty.
func joinElem(v interface{}) string {
	switch v := v.(type) {
	case nil:
		return ""
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'g', -1, 64)
	case bool:
		return strconv.FormatBool(v)
	case []interface{}:
		return FormatCell(v)
	}
	if runkey.IsUndefined(v) {
		return ""
	}
	b, err := json.Marshal(v)
	if err != nil {
		return ""
	}
	return string(b)
}

func isZero(v interface{}) bool {
	switch v := v.(type) {
	case float64:
		return v == 0
	case int:
		return v == 0
	}
	return false
}

// WriteCSV writes header and then records to w as CSV. Fields missing
// from a record are empty.
func WriteCSV(w io.Writer, header []string, records []Record) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return err
	}
	line := make([]string, len(header))
	for _, rec := range records {
		for i, h := range header {
			line[i] = rec[h]
		}
		if err := cw.Write(line); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// exportTimeLayout formats times like "15:04:05 · 2 Jan, 06".
const exportTimeLayout = "15:04:05 · 2 Jan, 06"

// ExportFileName returns the file name of a CSV export made at t.
func ExportFileName(t time.Time) string {
	return "params-" + t.Format(exportTimeLayout) + ".csv"
}
