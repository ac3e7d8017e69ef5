// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package runseries

import (
	"bytes"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"golang.org/x/runviz/runproc"
	"gonum.org/v1/plot/vg"
)

func testCharts() []*Chart {
	es := entries(
		run("a", map[string]interface{}{"lr": 0.1, "opt": "sgd"}, trace("loss", "train", 0.5)),
		run("b", map[string]interface{}{"lr": 0.2, "opt": "adam"}),
		run("c", map[string]interface{}{"opt": "adam"}, trace("loss", "train", 0.1)),
	)
	cfg := runproc.DefaultConfig()
	cfg.Stroke.Fields = []string{"run.params.opt"}
	cfg.Chart.Fields = []string{"run.params.opt"}
	return Build(runproc.Group(es, cfg), []DimensionSpec{
		ParamDimension("lr"),
		ParamDimension("opt"),
		MetricDimension("loss", map[string]interface{}{"subset": "train"}),
	})
}

func TestWritePNG(t *testing.T) {
	for _, c := range testCharts() {
		var buf bytes.Buffer
		opts := DefaultRenderOptions()
		opts.Title = "opt"
		opts.Width, opts.Height = 8*vg.Centimeter, 6*vg.Centimeter
		if err := WritePNG(&buf, c, opts); err != nil {
			t.Fatalf("chart %d: %v", c.Index, err)
		}
		img, err := png.Decode(&buf)
		if err != nil {
			t.Fatalf("chart %d: decoding PNG: %v", c.Index, err)
		}
		if b := img.Bounds(); b.Dx() == 0 || b.Dy() == 0 {
			t.Errorf("chart %d: empty image %v", c.Index, b)
		}
	}
}

func TestWritePNGFiles(t *testing.T) {
	dir := t.TempDir()
	charts := testCharts()
	if err := WritePNGFiles(dir, charts, map[int]string{0: "sgd"}); err != nil {
		t.Fatal(err)
	}
	for _, name := range []string{"chart-0.png", "chart-1.png"} {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			t.Errorf("missing %s: %v", name, err)
		}
	}
}

func TestSegments(t *testing.T) {
	c := &Chart{
		Order: []string{"a", "b", "c", "d"},
		Dimensions: map[string]*DimensionMeta{
			"a": {ScaleType: LinearScale, Domain: []interface{}{0.0, 1.0}},
			"b": {ScaleType: LinearScale, Domain: []interface{}{0.0, 1.0}},
			"c": {ScaleType: LinearScale, Domain: []interface{}{0.0, 1.0}},
			"d": {ScaleType: LinearScale, Domain: []interface{}{0.0, 1.0}},
		},
	}
	pt := &Point{Values: map[string]interface{}{"a": 0.0, "b": 1.0, "c": nil, "d": 0.5}}
	segs := segments(c, pt)
	if len(segs) != 2 || len(segs[0]) != 2 || len(segs[1]) != 1 {
		t.Fatalf("segments = %v, want two segments of 2 and 1 points", segs)
	}
	if segs[1][0].X != 3 || segs[1][0].Y != 0.5 {
		t.Errorf("last segment = %v", segs[1])
	}
}

func TestParseStyle(t *testing.T) {
	if got := parseColor("#18AB6D"); got != (color.NRGBA{0x18, 0xab, 0x6d, 0xff}) {
		t.Errorf("parseColor = %v", got)
	}
	if got := parseColor("red"); got != color.Black {
		t.Errorf("parseColor(red) = %v, want black", got)
	}
	if got := parseDashes("none"); got != nil {
		t.Errorf("parseDashes(none) = %v", got)
	}
	if got, want := parseDashes("10 5 5 5"), []vg.Length{vg.Points(10), vg.Points(5), vg.Points(5), vg.Points(5)}; !reflect.DeepEqual(got, want) {
		t.Errorf("parseDashes = %v, want %v", got, want)
	}
	if got := parseDashes("5 x"); got != nil {
		t.Errorf("parseDashes(5 x) = %v, want nil", got)
	}
}
