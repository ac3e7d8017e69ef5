// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package runfmt

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
)

// A Reader reads runs files.
//
// Its API is modeled on bufio.Scanner. Unlike benchmark readers, each
// Run returned by Result is freshly allocated and may be retained by
// the caller.
//
// To construct a new Reader, either call NewReader, or call Reset on
// a zeroed Reader.
type Reader struct {
	s   *bufio.Scanner
	err error // current I/O error

	fileName string
	line     int
	rec      Record
}

// maxLine bounds the length of a single run record. Parameter trees
// can be large.
const maxLine = 16 << 20

var noResult = &SyntaxError{"", 0, "Reader.Scan has not been called"}

// NewReader constructs a reader to parse runs from r. fileName is
// used in error messages; it is purely diagnostic.
func NewReader(r io.Reader, fileName string) *Reader {
	reader := new(Reader)
	reader.Reset(r, fileName)
	return reader
}

// Reset resets the reader to begin reading from a new input.
func (r *Reader) Reset(ior io.Reader, fileName string) {
	r.s = bufio.NewScanner(ior)
	r.s.Buffer(nil, maxLine)
	if fileName == "" {
		fileName = "<unknown>"
	}
	r.fileName = fileName
	r.line = 0
	r.err = nil
	r.rec = noResult
}

// Scan advances the reader to the next record and reports whether a
// record was read. The caller should use the Result method to get the
// record. If Scan reaches EOF or an I/O error occurs, it returns
// false, in which case the caller should use the Err method to check
// for errors.
func (r *Reader) Scan() bool {
	if r.err != nil {
		return false
	}
	for r.s.Scan() {
		r.line++
		line := bytes.TrimSpace(r.s.Bytes())
		if len(line) == 0 || line[0] == '#' {
			continue
		}
		r.rec = r.parse(line)
		return true
	}
	if err := r.s.Err(); err != nil {
		r.err = fmt.Errorf("%s:%d: %w", r.fileName, r.line, err)
	}
	return false
}

func (r *Reader) parse(line []byte) Record {
	run := new(Run)
	if err := json.Unmarshal(line, run); err != nil {
		return &SyntaxError{r.fileName, r.line, err.Error()}
	}
	if run.Hash == "" {
		return &SyntaxError{r.fileName, r.line, "run has no hash"}
	}
	for i, t := range run.Traces {
		if t.MetricName == "" {
			return &SyntaxError{r.fileName, r.line, fmt.Sprintf("trace %d has no metric_name", i)}
		}
	}
	run.fileName, run.line = r.fileName, r.line
	return run
}

// Result returns the record that was just read by Scan. This is
// either a *Run or a *SyntaxError indicating a malformed line. If
// Scan has not been called or returned false, Result returns a
// *SyntaxError.
func (r *Reader) Result() Record {
	return r.rec
}

// Err returns the first non-EOF I/O error that was encountered by
// the Reader.
func (r *Reader) Err() error {
	return r.err
}

// ReadAll reads every run from r. Malformed lines are passed to warn,
// if non-nil, and otherwise skipped. It returns the runs and any I/O
// error.
func ReadAll(r *Reader, warn func(format string, args ...interface{})) ([]*Run, error) {
	var runs []*Run
	for r.Scan() {
		switch rec := r.Result().(type) {
		case *Run:
			runs = append(runs, rec)
		case *SyntaxError:
			if warn != nil {
				warn("%v", rec)
			}
		}
	}
	return runs, r.Err()
}
