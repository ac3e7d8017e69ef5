// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package runproc

import (
	"sort"
	"strings"

	"github.com/aclements/go-gg/generic/slice"
	"golang.org/x/runviz/runfmt"
	"golang.org/x/runviz/runkey"
)

// An Entry is a run prepared for grouping.
type Entry struct {
	Run *runfmt.Run

	// Key identifies the entry. It is the run's hash.
	Key string

	// Hidden entries are kept in groups and tables but are not
	// drawn.
	Hidden bool

	// Color and Dasharray are used when the entry's group does not
	// assign its own.
	Color     string
	Dasharray string
}

const paramsPrefix = "run.params."

// Lookup returns the value of the grouping field path for e, or
// runkey.Undefined if e has no such field.
//
// Recognized paths are "run.params.<param path>", "run.params",
// "run.hash", "run.props.name", "run.props.experiment",
// "run.experiment_name" (the same as "run.props.experiment"), "key",
// "isHidden", "color", and "dasharray".
func (e *Entry) Lookup(path string) interface{} {
	switch path {
	case "key":
		return e.Key
	case "isHidden":
		return e.Hidden
	case "color":
		return nullIfEmpty(e.Color)
	case "dasharray":
		return nullIfEmpty(e.Dasharray)
	}
	if e.Run == nil {
		return runkey.Undefined
	}
	switch path {
	case "run.hash":
		return e.Run.Hash
	case "run.props.name":
		return undefinedIfEmpty(e.Run.Props.Name)
	case "run.props.experiment", "run.experiment_name":
		return undefinedIfEmpty(e.Run.Props.Experiment)
	case "run.params":
		if e.Run.Params == nil {
			return runkey.Undefined
		}
		return e.Run.Params
	}
	if strings.HasPrefix(path, paramsPrefix) {
		if v, ok := runfmt.Get(e.Run.Params, path[len(paramsPrefix):]); ok {
			return v
		}
	}
	return runkey.Undefined
}

func nullIfEmpty(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}

func undefinedIfEmpty(s string) interface{} {
	if s == "" {
		return runkey.Undefined
	}
	return s
}

// A Metric identifies a metric column: a metric name together with
// the formatted context of one of its traces.
type Metric struct {
	Name    string
	Context string
}

// Column returns the table column key of m.
func (m Metric) Column() string {
	return m.Name + "_" + m.Context
}

// Prepared is the result of Prepare.
type Prepared struct {
	Entries []*Entry

	// Params lists the distinct parameter paths across all runs,
	// in first-seen order.
	Params []string

	// Metrics lists the distinct metric columns across all runs.
	// Metric names are in first-seen order, and the contexts of
	// each name follow it in first-seen order.
	Metrics []Metric
}

// HideAll, as the first element of the hidden list passed to Prepare,
// hides every run.
const HideAll = "all"

// Prepare wraps runs in Entries. Run i gets the fallback color
// palette[i % len(palette)] from the palette selected by
// paletteIndex, and the first dash pattern. A run is hidden if hidden
// contains its hash, or if hidden[0] is HideAll.
func Prepare(runs []*runfmt.Run, hidden []string, paletteIndex int) *Prepared {
	palette := Palette(paletteIndex)
	hideAll := len(hidden) > 0 && hidden[0] == HideAll
	hiddenSet := make(map[string]bool, len(hidden))
	for _, h := range hidden {
		hiddenSet[h] = true
	}

	p := &Prepared{Entries: make([]*Entry, 0, len(runs))}
	var params []string
	seenMetric := make(map[Metric]bool)
	nameOrder := make(map[string]int)
	for i, run := range runs {
		params = append(params, runfmt.ParamPaths(run.Params)...)
		for _, tr := range run.Traces {
			m := Metric{tr.MetricName, runfmt.ContextString(tr.Context)}
			if !seenMetric[m] {
				seenMetric[m] = true
				p.Metrics = append(p.Metrics, m)
			}
			if _, ok := nameOrder[m.Name]; !ok {
				nameOrder[m.Name] = len(nameOrder)
			}
		}
		p.Entries = append(p.Entries, &Entry{
			Run:       run,
			Key:       run.Hash,
			Hidden:    hideAll || hiddenSet[run.Hash],
			Color:     palette[i%len(palette)],
			Dasharray: DashArrays[0],
		})
	}
	sort.SliceStable(p.Metrics, func(i, j int) bool {
		return nameOrder[p.Metrics[i].Name] < nameOrder[p.Metrics[j].Name]
	})
	p.Params = slice.Nub(params).([]string)
	return p
}
