// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package view holds the state of a parameters explorer: the fetched
// runs, the view configuration, and everything derived from them.
//
// A State is immutable. Every transition returns a new State with all
// derived data recomputed from the runs and the new configuration.
// A fault while recomputing never escapes a transition; it produces
// an empty State carrying an error notification instead.
package view

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/runviz/runfmt"
	"golang.org/x/runviz/runproc"
	"golang.org/x/runviz/runseries"
	"golang.org/x/runviz/runtab"
)

// A Notification is a message for the user.
type Notification struct {
	ID       int64  `json:"id"`
	Severity string `json:"severity"`
	Message  string `json:"message"`
}

// State is the complete state of a view.
type State struct {
	Config Config `json:"config"`

	// Epoch identifies the fetch that produced Runs. It changes
	// every time runs are replaced.
	Epoch uuid.UUID `json:"epoch"`

	Runs []*runfmt.Run `json:"-"`

	// Derived from Runs and Config.
	Params      []string                    `json:"params"`
	Metrics     []runproc.Metric            `json:"metrics"`
	Groups      []*runproc.Collection       `json:"-"`
	Charts      []*runseries.Chart          `json:"charts"`
	ChartTitles map[int]map[string]string   `json:"chartTitles"`
	Tooltips    map[string]*runproc.Tooltip `json:"-"`
	Rows        *runtab.Rows                `json:"rows"`
	Columns     []runtab.Column             `json:"columns"`

	Notifications []Notification `json:"notifications"`
}

// now is the clock used to stamp notifications.
var now = time.Now

// New returns the State of cfg with no runs.
func New(cfg Config) *State {
	return new(State).next(func(s *State) {
		s.Config = cfg.Clone()
	})
}

// clone returns a shallow copy of s with its own Config and
// notification list. Derived data is shared until recomputed.
func (s *State) clone() *State {
	s2 := *s
	s2.Config = s.Config.Clone()
	s2.Notifications = append([]Notification(nil), s.Notifications...)
	return &s2
}

// next returns a copy of s changed by edit, with all derived data
// recomputed. If edit or recomputing panics, next returns s reset
// with an error notification.
func (s *State) next(edit func(s2 *State)) (out *State) {
	defer func() {
		if err := recover(); err != nil {
			out = s.Reset(fmt.Errorf("%v", err))
		}
	}()
	s2 := s.clone()
	edit(s2)
	s2.recompute()
	return s2
}

// with is next for edits of the configuration.
func (s *State) with(edit func(cfg *Config)) *State {
	return s.next(func(s2 *State) { edit(&s2.Config) })
}

// WithRuns returns the State of runs under the configuration of s.
func (s *State) WithRuns(runs []*runfmt.Run) *State {
	return s.next(func(s2 *State) {
		s2.Runs = runs
		s2.Epoch = uuid.New()
	})
}

// WithConfig returns the State of the runs of s under cfg.
func (s *State) WithConfig(cfg Config) *State {
	return s.next(func(s2 *State) {
		s2.Config = cfg.Clone()
	})
}

func (s *State) recompute() {
	cfg := &s.Config
	prep := runproc.Prepare(s.Runs, cfg.Table.HiddenMetrics, cfg.Grouping.PaletteIndex)
	s.Params, s.Metrics = prep.Params, prep.Metrics
	cfg.Grouping.SelectOptions = runproc.GroupingOptions(prep.Params)

	s.Groups = runproc.Group(prep.Entries, cfg.Grouping)
	s.Charts = runseries.Build(s.Groups, cfg.Select.Params)
	s.ChartTitles = runproc.ChartTitles(s.Groups, cfg.Grouping)
	s.Tooltips = runproc.Tooltips(s.Groups, cfg.Grouping, prep.Params)
	s.Rows = runtab.Build(s.Groups, prep.Metrics, prep.Params, runtab.DefaultBuildOptions())
	runtab.Sort(s.Rows, cfg.Table.SortFields)
	s.Columns = runtab.Columns(prep.Metrics, prep.Params, cfg.Table.ColumnsOrder, cfg.Table.HiddenColumns)

	cfg.Chart.Tooltip.Content = nil
	if key := cfg.Chart.FocusedState.Key; key != "" {
		cfg.Chart.Tooltip.Content = filterTooltip(s.Tooltips[key], cfg.Chart.Tooltip.SelectedParams)
	}
}

// Reset returns a State with the configuration of s and no runs or
// derived data. If err is non-nil, the State carries an error
// notification describing it.
func (s *State) Reset(err error) *State {
	s2 := &State{
		Config:        s.Config.Clone(),
		Epoch:         s.Epoch,
		Rows:          new(runtab.Rows),
		Notifications: append([]Notification(nil), s.Notifications...),
	}
	if err != nil {
		s2.Notifications = append(s2.Notifications, Notification{
			ID:       now().UnixNano(),
			Severity: "error",
			Message:  errorMessage(err),
		})
	}
	return s2
}

// errorMessage returns the user-facing description of err.
func errorMessage(err error) string {
	var qe *runfmt.QueryError
	if errors.As(err, &qe) {
		return fmt.Sprintf("Query syntax error at line (%d, %d)", qe.Line, qe.Offset)
	}
	return "Something went wrong"
}

// DismissNotification returns s without the notification id.
func (s *State) DismissNotification(id int64) *State {
	s2 := s.clone()
	s2.Notifications = s2.Notifications[:0]
	for _, n := range s.Notifications {
		if n.ID != id {
			s2.Notifications = append(s2.Notifications, n)
		}
	}
	return s2
}

// Export returns the table of s as flat records for CSV export,
// along with their header and a file name stamped with the current
// time.
func (s *State) Export() (header []string, records []runtab.Record, fileName string) {
	header = runtab.ExportHeader(s.Columns)
	records = runtab.Flatten(s.Rows, s.Columns)
	return header, records, runtab.ExportFileName(now())
}

// filterTooltip returns t restricted to the parameters in selected.
func filterTooltip(t *runproc.Tooltip, selected []string) *runproc.Tooltip {
	if t == nil {
		return nil
	}
	out := &runproc.Tooltip{GroupConfig: t.GroupConfig, Params: make(map[string]string)}
	for _, p := range selected {
		if v, ok := t.Params[p]; ok {
			out.Params[p] = v
		}
	}
	return out
}
