// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package view

import (
	"context"
	"fmt"

	"golang.org/x/runviz/runkey"
)

// A Store is a string key/value store for configurations.
type Store interface {
	// Get returns the value of key, and whether key was set.
	Get(ctx context.Context, key string) (string, bool, error)
	Put(ctx context.Context, key, value string) error
}

// Store keys of the configuration parts.
const (
	GroupingKey = "grouping"
	ChartKey    = "chart"
	SelectKey   = "select"
	TableKey    = "table"
)

// parts returns pointers to the stored parts of cfg, keyed by store
// key, in a fixed order.
func parts(cfg *Config) []struct {
	key string
	ptr interface{}
} {
	return []struct {
		key string
		ptr interface{}
	}{
		{GroupingKey, &cfg.Grouping},
		{ChartKey, &cfg.Chart},
		{SelectKey, &cfg.Select},
		{TableKey, &cfg.Table},
	}
}

// LoadConfig reads the configuration stored in st. Each part is
// decoded over its default, so fields missing from a stored part keep
// their default values. A part that is absent keeps its default; a
// part that cannot be decoded is reported to warn, if non-nil, and
// also keeps its default. Only failures of st itself are returned.
func LoadConfig(ctx context.Context, st Store, warn func(format string, args ...interface{})) (Config, error) {
	cfg := DefaultConfig()
	for _, p := range parts(&cfg) {
		val, ok, err := st.Get(ctx, p.key)
		if err != nil {
			return DefaultConfig(), fmt.Errorf("loading %s config: %v", p.key, err)
		}
		if !ok {
			continue
		}
		if err := runkey.Decode(val, p.ptr); err != nil {
			// Decoding may have partly overwritten the part.
			restorePart(&cfg, p.key)
			if warn != nil {
				warn("%s config: %v; using default", p.key, err)
			}
		}
	}
	return cfg, nil
}

// restorePart resets the part of cfg stored under key to its default.
func restorePart(cfg *Config, key string) {
	def := DefaultConfig()
	switch key {
	case GroupingKey:
		cfg.Grouping = def.Grouping
	case ChartKey:
		cfg.Chart = def.Chart
	case SelectKey:
		cfg.Select = def.Select
	case TableKey:
		cfg.Table = def.Table
	}
}

// SaveConfig stores each part of cfg in st.
func SaveConfig(ctx context.Context, st Store, cfg Config) error {
	for _, p := range parts(&cfg) {
		if err := st.Put(ctx, p.key, runkey.Encode(p.ptr)); err != nil {
			return fmt.Errorf("saving %s config: %v", p.key, err)
		}
	}
	return nil
}
