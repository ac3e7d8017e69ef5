// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package runproc

// Palettes are the preset color palettes selectable by
// Config.PaletteIndex.
var Palettes = [][]string{
	{
		"#3E72E7", "#18AB6D", "#7A4CE0", "#E149A0", "#E43D3D",
		"#E8853D", "#0394B4", "#729B1B", "#605CE8", "#C04AE0",
		"#D7B51A", "#A6521C", "#2F9CE0", "#1C6E49", "#B23A76",
		"#5E6167", "#3BAEA5", "#9E56E6", "#D95C2A", "#54763F",
		"#C26F2B", "#4561B5", "#A2284E", "#208D8C",
	},
	{
		"#3E72E7", "#18AB6D", "#7A4CE0", "#E149A0", "#E43D3D",
		"#E8853D", "#0394B4", "#729B1B",
	},
}

// DashArrays are the SVG stroke-dasharray patterns assigned by the
// stroke axis. The first is a solid line.
var DashArrays = []string{
	"none",
	"5 5",
	"10 5 5 5",
	"10 5 5 5 5 5",
	"20 5",
	"20 5 5 5",
	"20 5 10 5",
	"20 5 10 5 5 5",
	"5 10",
	"10 10",
}

// Palette returns Palettes[i], or the first palette if i is out of
// range.
func Palette(i int) []string {
	if i < 0 || i >= len(Palettes) {
		return Palettes[0]
	}
	return Palettes[i]
}
