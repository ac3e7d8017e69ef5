// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package runtab

import (
	"io"

	"github.com/google/safehtml/template"
)

var htmlTemplate = template.Must(template.New("").Parse(`
<table class='runs'>
<thead><tr><th>#{{range .Columns}}<th>{{.Label}}{{end}}</thead>
{{- range .Blocks}}
<tbody>
{{- if .Header}}
<tr class='group'><td>{{.Header.Size}}<td>{{.Header.Text}}
{{- end}}
{{- range .Rows}}
<tr{{if .Hidden}} class='hidden'{{end}}><td>{{.Index}}{{range .Cells}}<td>{{.}}{{end}}
{{- end}}
</tbody>
{{- end}}
</table>
`))

type htmlColumn struct {
	Label string
}

type htmlHeader struct {
	Size int
	Text string
}

type htmlRow struct {
	Index  int
	Hidden bool
	Cells  []string
}

type htmlBlock struct {
	Header *htmlHeader
	Rows   []htmlRow
}

// WriteHTML writes rows as an HTML table with the visible columns of
// columns.
func WriteHTML(w io.Writer, rows *Rows, columns []Column) error {
	keys := exported(columns)
	var data struct {
		Columns []htmlColumn
		Blocks  []htmlBlock
	}
	for _, c := range columns {
		for _, k := range keys {
			if c.Key == k {
				data.Columns = append(data.Columns, htmlColumn{c.Label})
			}
		}
	}

	block := func(items []*Row) htmlBlock {
		var b htmlBlock
		for _, r := range items {
			hr := htmlRow{Index: r.Index + 1, Hidden: r.Hidden}
			for _, k := range keys {
				hr.Cells = append(hr.Cells, FormatCell(r.Cells[k]))
			}
			b.Rows = append(b.Rows, hr)
		}
		return b
	}
	if rows.Grouped() {
		for _, g := range rows.Groups {
			b := block(g.Items)
			b.Header = &htmlHeader{
				Size: len(g.Items),
				Text: groupBanner(g.Header, keys, columns)[len("## "):],
			}
			data.Blocks = append(data.Blocks, b)
		}
	} else {
		data.Blocks = append(data.Blocks, block(rows.Flat))
	}
	return htmlTemplate.Execute(w, data)
}
