// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package runfmt

import (
	"fmt"
	"strings"
)

// A QueryError reports a run query that could not be parsed. Line and
// Offset are 1-based and 0-based positions in the query text.
type QueryError struct {
	Line   int    `json:"line"`
	Offset int    `json:"offset"`
	Msg    string `json:"message"`
}

// NewQueryError returns a QueryError positioned at byte i of q.
func NewQueryError(q string, i int, msg string) *QueryError {
	if i > len(q) {
		i = len(q)
	}
	line := 1 + strings.Count(q[:i], "\n")
	off := i - (strings.LastIndexByte(q[:i], '\n') + 1)
	return &QueryError{Line: line, Offset: off, Msg: msg}
}

func (e *QueryError) Error() string {
	return fmt.Sprintf("query:%d:%d: %s", e.Line, e.Offset, e.Msg)
}
