// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package view

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"testing"

	"golang.org/x/runviz/runkey"
	"golang.org/x/runviz/runproc"
	"golang.org/x/runviz/runseries"
	"golang.org/x/runviz/runtab"
)

type memStore struct {
	m   map[string]string
	err error
}

func (s *memStore) Get(ctx context.Context, key string) (string, bool, error) {
	if s.err != nil {
		return "", false, s.err
	}
	v, ok := s.m[key]
	return v, ok, nil
}

func (s *memStore) Put(ctx context.Context, key, value string) error {
	if s.err != nil {
		return s.err
	}
	if s.m == nil {
		s.m = make(map[string]string)
	}
	s.m[key] = value
	return nil
}

func TestConfigRoundTrip(t *testing.T) {
	ctx := context.Background()
	cfg := DefaultConfig()
	cfg.Grouping.Color.Fields = []string{"run.params.opt"}
	cfg.Grouping.Stroke.Persistent = true
	cfg.Grouping.PaletteIndex = 1
	cfg.Chart.CurveInterpolation = CurveMonotoneX
	cfg.Select.Query = "run.params.opt:sgd"
	cfg.Select.Params = []runseries.DimensionSpec{runseries.ParamDimension("lr")}
	cfg.Table.SortFields = []runtab.SortField{{Field: "run", Order: "asc"}}
	cfg.Table.HiddenColumns = []string{"experiment"}

	var st memStore
	if err := SaveConfig(ctx, &st, cfg); err != nil {
		t.Fatal(err)
	}
	for _, k := range []string{GroupingKey, ChartKey, SelectKey, TableKey} {
		if !strings.HasPrefix(st.m[k], "O-") {
			t.Errorf("stored %s = %q, want an encoded key", k, st.m[k])
		}
	}
	got, err := LoadConfig(ctx, &st, nil)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(got, cfg) {
		t.Errorf("loaded %+v\nwant %+v", got, cfg)
	}
}

func TestLoadConfigDefaults(t *testing.T) {
	ctx := context.Background()
	var warnings []string
	warn := func(format string, args ...interface{}) {
		warnings = append(warnings, fmt.Sprintf(format, args...))
	}

	// Nothing stored.
	got, err := LoadConfig(ctx, &memStore{}, warn)
	if err != nil || !reflect.DeepEqual(got, DefaultConfig()) || len(warnings) != 0 {
		t.Errorf("empty store: %+v, %v, %v", got, err, warnings)
	}

	// A partial table config keeps the other table defaults, and a
	// malformed chart config falls back to the default chart.
	st := &memStore{m: map[string]string{
		TableKey: runkey.Encode(map[string]interface{}{"rowHeight": RowHeightLarge}),
		ChartKey: "O-zz",
		GroupingKey: runkey.Encode(map[string]interface{}{
			"color": map[string]interface{}{"fields": []interface{}{"run.params.lr"}},
		}),
	}}
	got, err = LoadConfig(ctx, st, warn)
	if err != nil {
		t.Fatal(err)
	}
	want := DefaultConfig()
	want.Table.RowHeight = RowHeightLarge
	want.Grouping.Color.Fields = []string{"run.params.lr"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("loaded %+v\nwant %+v", got, want)
	}
	if got.Grouping.Color.Seed != runproc.DefaultSeed || !got.Grouping.Color.Applied {
		t.Errorf("partial grouping lost defaults: %+v", got.Grouping.Color)
	}
	if len(warnings) != 1 || !strings.HasPrefix(warnings[0], "chart config: malformed key") {
		t.Errorf("warnings = %q", warnings)
	}

	// A chart config of the wrong shape is also malformed.
	warnings = nil
	st.m[ChartKey] = runkey.Encode([]interface{}{1.0})
	if got, _ := LoadConfig(ctx, st, warn); !reflect.DeepEqual(got.Chart, DefaultChartConfig()) || len(warnings) != 1 {
		t.Errorf("wrong-shape chart: %+v, %q", got.Chart, warnings)
	}
}

func TestLoadConfigStoreError(t *testing.T) {
	st := &memStore{err: errors.New("database is locked")}
	if _, err := LoadConfig(context.Background(), st, nil); err == nil || !strings.Contains(err.Error(), "database is locked") {
		t.Errorf("LoadConfig error = %v", err)
	}
	if err := SaveConfig(context.Background(), st, DefaultConfig()); err == nil {
		t.Errorf("SaveConfig succeeded on failing store")
	}
}
