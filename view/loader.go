// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package view

import (
	"context"
	"errors"
	"sync"

	"golang.org/x/runviz/runfmt"
)

// A Source fetches the runs matching a query.
type Source interface {
	Runs(ctx context.Context, query string) ([]*runfmt.Run, error)
}

// ErrSuperseded is returned by Loader.Load when a later Load started
// before the fetch finished.
var ErrSuperseded = errors.New("fetch superseded by a newer query")

// A Loader fetches runs from a Source, at most one query at a time.
// Starting a new query cancels the one in flight.
type Loader struct {
	src Source

	mu     sync.Mutex
	gen    uint64
	cancel context.CancelFunc
}

// NewLoader returns a Loader that fetches from src.
func NewLoader(src Source) *Loader {
	return &Loader{src: src}
}

// Load fetches the runs matching query, cancelling any fetch still in
// flight from an earlier call. If another call to Load starts before
// this one returns, Load returns ErrSuperseded.
func (l *Loader) Load(ctx context.Context, query string) ([]*runfmt.Run, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	l.mu.Lock()
	if l.cancel != nil {
		l.cancel()
	}
	l.gen++
	gen := l.gen
	l.cancel = cancel
	l.mu.Unlock()

	runs, err := l.src.Runs(ctx, query)

	l.mu.Lock()
	superseded := l.gen != gen
	if !superseded {
		l.cancel = nil
	}
	l.mu.Unlock()

	if superseded {
		return nil, ErrSuperseded
	}
	return runs, err
}

// Fetch loads the runs of the query of s through l and returns the
// resulting State. A failed fetch resets the State. A superseded
// fetch returns s unchanged, since the newer fetch will replace it.
func (s *State) Fetch(ctx context.Context, l *Loader) *State {
	runs, err := l.Load(ctx, s.Config.Select.Query)
	switch {
	case errors.Is(err, ErrSuperseded):
		return s
	case err != nil:
		return s.Reset(err)
	}
	return s.WithRuns(runs)
}
