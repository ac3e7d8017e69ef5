// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package view

import (
	"context"
	"errors"
	"testing"

	"golang.org/x/runviz/runfmt"
)

// blockingSource blocks queries named "slow" until their context is
// cancelled.
type blockingSource struct {
	started chan string
}

func (s *blockingSource) Runs(ctx context.Context, q string) ([]*runfmt.Run, error) {
	if s.started != nil {
		s.started <- q
	}
	switch q {
	case "slow":
		<-ctx.Done()
		return nil, ctx.Err()
	case "bad":
		return nil, runfmt.NewQueryError(q, 3, "unexpected end of query")
	}
	return testRuns(), nil
}

func TestLoaderSupersede(t *testing.T) {
	src := &blockingSource{started: make(chan string, 2)}
	l := NewLoader(src)

	errc := make(chan error)
	go func() {
		_, err := l.Load(context.Background(), "slow")
		errc <- err
	}()
	<-src.started

	runs, err := l.Load(context.Background(), "fast")
	if err != nil || len(runs) != 3 {
		t.Fatalf("Load(fast) = %d runs, %v", len(runs), err)
	}
	if err := <-errc; !errors.Is(err, ErrSuperseded) {
		t.Errorf("superseded Load returned %v, want ErrSuperseded", err)
	}
}

func TestFetch(t *testing.T) {
	l := NewLoader(&blockingSource{})
	s := New(DefaultConfig())

	got := s.OnSelectRunQueryChange("ok").Fetch(context.Background(), l)
	if len(got.Runs) != 3 || len(got.Rows.Flat) != 3 {
		t.Errorf("Fetch got %d runs, %d rows", len(got.Runs), len(got.Rows.Flat))
	}

	bad := got.OnSelectRunQueryChange("bad").Fetch(context.Background(), l)
	if len(bad.Runs) != 0 || len(bad.Notifications) != 1 {
		t.Fatalf("failed Fetch: %d runs, notifications %v", len(bad.Runs), bad.Notifications)
	}
	if msg := bad.Notifications[0].Message; msg != "Query syntax error at line (1, 3)" {
		t.Errorf("notification = %q", msg)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if r := s.OnSelectRunQueryChange("slow").Fetch(ctx, l); len(r.Notifications) != 1 {
		t.Errorf("cancelled Fetch: notifications %v", r.Notifications)
	}
}
