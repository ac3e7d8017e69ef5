// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package runproc

import (
	"fmt"

	"github.com/aclements/go-gg/generic/slice"
)

// An Axis is one of the independent grouping dimensions.
type Axis string

const (
	Color  Axis = "color"
	Stroke Axis = "stroke"
	Chart  Axis = "chart"
)

// Axes lists every axis in the order their fields are combined into a
// group identity.
var Axes = []Axis{Color, Stroke, Chart}

// ParseAxis returns the Axis named by s.
func ParseAxis(s string) (Axis, error) {
	switch a := Axis(s); a {
	case Color, Stroke, Chart:
		return a, nil
	}
	return "", fmt.Errorf("unknown grouping axis %q", s)
}

// AxisConfig configures one grouping axis.
type AxisConfig struct {
	// Fields are the paths that distinguish groups on this axis.
	Fields []string `json:"fields"`

	// Reverse selects the complement of Fields among the available
	// select options.
	Reverse bool `json:"reverse"`

	// Applied enables the axis. An axis that is not applied never
	// groups, whatever its Fields.
	Applied bool `json:"applied"`

	// Persistent derives color and stroke slots from the group
	// identity instead of first-seen order. It has no effect on
	// the chart axis.
	Persistent bool `json:"persistent"`

	// Seed is the divisor used by persistent slot selection.
	Seed int `json:"seed"`
}

// An Option is a field that an axis may group by.
type Option struct {
	Value string `json:"value"`
	Group string `json:"group"`
	Label string `json:"label"`
}

// Config is the complete grouping configuration.
type Config struct {
	Color  AxisConfig `json:"color"`
	Stroke AxisConfig `json:"stroke"`
	Chart  AxisConfig `json:"chart"`

	// PaletteIndex selects one of Palettes.
	PaletteIndex int `json:"paletteIndex"`

	// SelectOptions are the fields available for grouping in the
	// current data. Reverse mode takes its complement from these.
	SelectOptions []Option `json:"selectOptions"`
}

// DefaultSeed is the persistent-index seed of a new axis.
const DefaultSeed = 10

// DefaultAxisConfig returns the configuration of an axis that selects
// nothing.
func DefaultAxisConfig() AxisConfig {
	return AxisConfig{Fields: []string{}, Applied: true, Seed: DefaultSeed}
}

// DefaultConfig returns a Config with no grouping on any axis.
func DefaultConfig() Config {
	return Config{
		Color:         DefaultAxisConfig(),
		Stroke:        DefaultAxisConfig(),
		Chart:         DefaultAxisConfig(),
		SelectOptions: []Option{},
	}
}

// Axis returns a pointer to the configuration of axis a. It panics if
// a is not a known axis.
func (c *Config) Axis(a Axis) *AxisConfig {
	switch a {
	case Color:
		return &c.Color
	case Stroke:
		return &c.Stroke
	case Chart:
		return &c.Chart
	}
	panic(fmt.Sprintf("unknown grouping axis %q", a))
}

// EffectiveFields returns the fields axis a actually groups by. This
// is nil if the axis is not applied, the complement of the configured
// fields among SelectOptions in reverse mode, and the configured
// fields otherwise.
func (c Config) EffectiveFields(a Axis) []string {
	ac := c.Axis(a)
	if !ac.Applied {
		return nil
	}
	if !ac.Reverse {
		return ac.Fields
	}
	var out []string
	for _, opt := range c.SelectOptions {
		if !slice.Contains(ac.Fields, opt.Value) {
			out = append(out, opt.Value)
		}
	}
	return out
}

// Clone returns a deep copy of c.
func (c Config) Clone() Config {
	for _, a := range Axes {
		ac := c.Axis(a)
		if ac.Fields != nil {
			ac.Fields = append([]string{}, ac.Fields...)
		}
	}
	if c.SelectOptions != nil {
		c.SelectOptions = append([]Option{}, c.SelectOptions...)
	}
	return c
}
