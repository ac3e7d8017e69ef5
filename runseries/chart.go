// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package runseries

import (
	"fmt"
	"image/color"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"
)

// RenderOptions control chart rendering.
type RenderOptions struct {
	// Title is drawn above the chart.
	Title string

	// Width and Height are the image size. If zero, they are
	// derived from the number of dimensions.
	Width, Height vg.Length

	// DPI is the image resolution.
	DPI int
}

// DefaultRenderOptions returns the default rendering options.
func DefaultRenderOptions() RenderOptions {
	return RenderOptions{DPI: 96}
}

// WritePNG draws c as a parallel-coordinates PNG image to w.
func WritePNG(w io.Writer, c *Chart, opts RenderOptions) error {
	pl, err := newPlot(c, opts)
	if err != nil {
		return err
	}

	width, height := opts.Width, opts.Height
	if width == 0 {
		width = vg.Length(4+3*len(c.Order)) * vg.Centimeter
	}
	if height == 0 {
		height = 12 * vg.Centimeter
	}
	dpi := opts.DPI
	if dpi <= 0 {
		dpi = 96
	}

	can := vgimg.PngCanvas{Canvas: vgimg.NewWith(vgimg.UseWH(width, height),
		vgimg.UseDPI(dpi), vgimg.UseBackgroundColor(color.White))}
	pl.Draw(draw.New(can))
	_, err = can.WriteTo(w)
	return err
}

// WritePNGFiles writes each chart to dir as chart-<index>.png. titles,
// if non-nil, supplies the title of each chart index.
func WritePNGFiles(dir string, charts []*Chart, titles map[int]string) error {
	if err := os.MkdirAll(dir, 0777); err != nil {
		return err
	}
	for _, c := range charts {
		opts := DefaultRenderOptions()
		opts.Title = titles[c.Index]
		file := filepath.Join(dir, fmt.Sprintf("chart-%d.png", c.Index))
		f, err := os.Create(file)
		if err != nil {
			return err
		}
		err = WritePNG(f, c, opts)
		if err1 := f.Close(); err == nil {
			err = err1
		}
		if err != nil {
			return fmt.Errorf("writing %s: %v", file, err)
		}
	}
	return nil
}

// newPlot builds the plot of c. Every dimension is an axis at x = its
// position in c.Order, with values scaled to [0, 1].
func newPlot(c *Chart, opts RenderOptions) (*plot.Plot, error) {
	pl := plot.New()
	pl.Title.Text = opts.Title
	pl.Y.Min, pl.Y.Max = -0.05, 1.05
	pl.Y.Tick.Marker = plot.ConstantTicks(nil)
	pl.Y.Padding = 0

	grid := plotter.NewGrid()
	grid.Horizontal.Color = nil
	pl.Add(grid)

	var names []string
	for _, key := range c.Order {
		names = append(names, c.Dimensions[key].DisplayName)
	}
	if len(names) > 0 {
		pl.NominalX(names...)
	}

	for _, pt := range c.Data {
		for _, seg := range segments(c, pt) {
			line, err := plotter.NewLine(seg)
			if err != nil {
				return nil, err
			}
			line.LineStyle.Color = parseColor(pt.Color)
			line.LineStyle.Width = vg.Points(1.5)
			line.LineStyle.Dashes = parseDashes(pt.Dasharray)
			pl.Add(line)
		}
	}

	labels, err := domainLabels(c)
	if err != nil {
		return nil, err
	}
	if labels != nil {
		pl.Add(labels)
	}
	return pl, nil
}

// segments splits pt's polyline at dimensions where it has no value.
func segments(c *Chart, pt *Point) []plotter.XYs {
	var segs []plotter.XYs
	var cur plotter.XYs
	for i, key := range c.Order {
		y, ok := c.Dimensions[key].Position(pt.Values[key])
		if !ok {
			if len(cur) > 0 {
				segs = append(segs, cur)
			}
			cur = nil
			continue
		}
		cur = append(cur, plotter.XY{X: float64(i), Y: y})
	}
	if len(cur) > 0 {
		segs = append(segs, cur)
	}
	return segs
}

// domainLabels labels the ends of each axis with its domain.
func domainLabels(c *Chart) (*plotter.Labels, error) {
	var xy plotter.XYLabels
	for i, key := range c.Order {
		m := c.Dimensions[key]
		if len(m.Domain) == 0 {
			continue
		}
		first, last := m.Domain[0], m.Domain[len(m.Domain)-1]
		y0, _ := m.Position(first)
		y1, _ := m.Position(last)
		xy.XYs = append(xy.XYs, plotter.XY{X: float64(i), Y: y0})
		xy.Labels = append(xy.Labels, Label(first))
		if len(m.Domain) > 1 {
			xy.XYs = append(xy.XYs, plotter.XY{X: float64(i), Y: y1})
			xy.Labels = append(xy.Labels, Label(last))
		}
	}
	if len(xy.XYs) == 0 {
		return nil, nil
	}
	return plotter.NewLabels(xy)
}

// parseColor parses a "#rrggbb" color. Anything else is black.
func parseColor(s string) color.Color {
	if len(s) != 7 || s[0] != '#' {
		return color.Black
	}
	v, err := strconv.ParseUint(s[1:], 16, 32)
	if err != nil {
		return color.Black
	}
	return color.NRGBA{uint8(v >> 16), uint8(v >> 8), uint8(v), 0xff}
}

// parseDashes parses an SVG stroke-dasharray. "none" and malformed
// patterns are solid.
func parseDashes(s string) []vg.Length {
	if s == "" || s == "none" {
		return nil
	}
	var dashes []vg.Length
	for _, f := range strings.Fields(strings.ReplaceAll(s, ",", " ")) {
		x, err := strconv.ParseFloat(f, 64)
		if err != nil || x < 0 || math.IsInf(x, 0) {
			return nil
		}
		dashes = append(dashes, vg.Points(x))
	}
	return dashes
}
