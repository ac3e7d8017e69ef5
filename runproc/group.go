// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package runproc

import (
	"github.com/aclements/go-gg/generic/slice"
	"golang.org/x/runviz/runkey"
)

// A Collection is a group of entries that agree on every grouping
// field.
type Collection struct {
	// Key is the canonical key of Config.
	Key string

	// Config maps each grouping field to the value shared by all
	// entries in the collection. Fields the entries lack map to
	// runkey.Undefined. Config is nil for the single collection
	// returned when no axis groups.
	Config map[string]interface{}

	// Color and Dasharray are assigned by the color and stroke
	// axes. They are "" if the axis does not group.
	Color     string
	Dasharray string

	// ChartIndex is the sub-chart the collection is drawn in.
	ChartIndex int

	Data []*Entry
}

// Group partitions entries into Collections according to cfg.
//
// If no axis has effective fields, Group returns a single Collection
// with a nil Config holding every entry. Otherwise entries are keyed
// by their values at the union of all axes' effective fields, and
// collections are returned in the order their first entry appears.
// Within a collection, entries keep their input order.
func Group(entries []*Entry, cfg Config) []*Collection {
	byColor := cfg.EffectiveFields(Color)
	byStroke := cfg.EffectiveFields(Stroke)
	byChart := cfg.EffectiveFields(Chart)
	if len(byColor) == 0 && len(byStroke) == 0 && len(byChart) == 0 {
		return []*Collection{{Data: entries}}
	}

	fields := slice.NubAppend(byColor, byStroke, byChart).([]string)
	var groups []*Collection
	index := make(map[string]*Collection)
	for _, e := range entries {
		ident := make(map[string]interface{}, len(fields))
		for _, f := range fields {
			ident[f] = e.Lookup(f)
		}
		key := runkey.Encode(ident)
		g := index[key]
		if g == nil {
			g = &Collection{Key: key, Config: ident}
			index[key] = g
			groups = append(groups, g)
		}
		g.Data = append(g.Data, e)
	}

	// Assign visual slots once every group exists.
	palette := Palette(cfg.PaletteIndex)
	var colors, dashes, charts firstSeen
	for _, g := range groups {
		if len(byColor) > 0 {
			var i int
			if cfg.Color.Persistent && cfg.Color.Applied {
				i = runkey.Slot(g.Key, cfg.Color.Seed, len(palette))
			} else {
				i = colors.index(g.Config, byColor)
			}
			g.Color = palette[i%len(palette)]
		}
		if len(byStroke) > 0 {
			var i int
			if cfg.Stroke.Persistent && cfg.Stroke.Applied {
				i = runkey.Slot(g.Key, cfg.Stroke.Seed, len(DashArrays))
			} else {
				i = dashes.index(g.Config, byStroke)
			}
			g.Dasharray = DashArrays[i%len(DashArrays)]
		}
		if len(byChart) > 0 {
			g.ChartIndex = charts.index(g.Config, byChart)
		}
	}
	return groups
}

// firstSeen numbers distinct projections of group identities in the
// order they are first requested.
type firstSeen struct {
	m map[string]int
}

// index returns the number of the projection of ident onto fields.
func (s *firstSeen) index(ident map[string]interface{}, fields []string) int {
	if s.m == nil {
		s.m = make(map[string]int)
	}
	sub := make(map[string]interface{}, len(fields))
	for _, f := range fields {
		sub[f] = ident[f]
	}
	key := runkey.Encode(sub)
	i, ok := s.m[key]
	if !ok {
		i = len(s.m)
		s.m[key] = i
	}
	return i
}
