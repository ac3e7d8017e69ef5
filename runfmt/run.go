// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package runfmt reads and writes experiment run records.
//
// The format is a sequence of JSON objects, one per line. Each object
// describes one run:
//
//	{"hash": "3f2a...", "props": {"name": "baseline", "experiment": "mnist"},
//	 "params": {"hparams": {"lr": 0.01}},
//	 "traces": [{"metric_name": "loss", "context": {"subset": "train"}, "last_value": {"last": 0.25}}]}
//
// Blank lines and lines beginning with "#" are ignored.
package runfmt

import "fmt"

// A Run is a single experiment run.
type Run struct {
	// Hash uniquely identifies the run.
	Hash string `json:"hash"`

	Props Props `json:"props"`

	// Params is the run's parameter tree. Leaves are strings,
	// float64s, bools, or nil.
	Params map[string]interface{} `json:"params,omitempty"`

	Traces []Trace `json:"traces,omitempty"`

	// fileName and line record where this Run was read from.
	fileName string
	line     int
}

// Props holds descriptive properties of a run. An empty string means
// the property was not recorded.
type Props struct {
	Name       string `json:"name,omitempty"`
	Experiment string `json:"experiment,omitempty"`
}

// A Trace is the summary of one metric logged by a run. Context
// distinguishes metrics with the same name, such as a loss measured
// on training and validation data.
type Trace struct {
	MetricName string                 `json:"metric_name"`
	Context    map[string]interface{} `json:"context,omitempty"`
	LastValue  LastValue              `json:"last_value"`
}

// LastValue is the most recent value recorded for a trace.
type LastValue struct {
	Last interface{} `json:"last"`
}

// Pos returns the file name and line number of r.
func (r *Run) Pos() (fileName string, line int) {
	return r.fileName, r.line
}

// Clone makes a copy of r that shares no state with r.
func (r *Run) Clone() *Run {
	r2 := *r
	r2.Params = cloneMap(r.Params)
	r2.Traces = make([]Trace, len(r.Traces))
	for i, t := range r.Traces {
		t.Context = cloneMap(t.Context)
		r2.Traces[i] = t
	}
	return &r2
}

func cloneMap(m map[string]interface{}) map[string]interface{} {
	if m == nil {
		return nil
	}
	out := make(map[string]interface{}, len(m))
	for k, v := range m {
		out[k] = cloneValue(v)
	}
	return out
}

func cloneValue(v interface{}) interface{} {
	switch v := v.(type) {
	case map[string]interface{}:
		return cloneMap(v)
	case []interface{}:
		out := make([]interface{}, len(v))
		for i, x := range v {
			out[i] = cloneValue(x)
		}
		return out
	}
	return v
}

// A SyntaxError represents a malformed record on a particular line of
// a runs file.
type SyntaxError struct {
	FileName string
	Line     int
	Msg      string
}

func (e *SyntaxError) Pos() (fileName string, line int) {
	return e.FileName, e.Line
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("%s:%d: %s", e.FileName, e.Line, e.Msg)
}

// A Record is a single record read from a runs file. It may be a
// *Run or a *SyntaxError.
type Record interface {
	// Pos returns the position of this record as a file name and a
	// 1-based line number within that file.
	Pos() (fileName string, line int)
}

var _ Record = (*Run)(nil)
var _ Record = (*SyntaxError)(nil)
