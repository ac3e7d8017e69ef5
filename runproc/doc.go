// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package runproc partitions experiment runs into visual groups.
//
// Runs are grouped along three independent axes: color, stroke (line
// dash pattern), and chart (which sub-chart a run is drawn in). Each
// axis is configured with a list of field paths, such as
// "run.params.hp.lr". Runs that agree on every field requested by any
// active axis form one Collection.
//
// The typical steps are:
//
// 1. Read runs, usually with runfmt.Reader.
//
// 2. Call Prepare to wrap each run in an Entry with its fallback
// color, dash pattern, and visibility, and to collect the parameter
// paths and metric columns present in the data.
//
// 3. Call GroupingOptions with those parameter paths to obtain the
// fields an axis may select, and store them in Config.SelectOptions.
//
// 4. Call Group. The resulting Collections feed runseries for charts
// and runtab for tables.
//
// Every step is a pure function of its inputs. Any change to the
// configuration or the data should rerun the whole pipeline.
package runproc
