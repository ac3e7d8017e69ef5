// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package runfmt

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
)

// A Writer writes runs files.
type Writer struct {
	w   io.Writer
	buf bytes.Buffer
	enc *json.Encoder
}

// NewWriter returns a writer that writes runs to w.
func NewWriter(w io.Writer) *Writer {
	wr := &Writer{w: w}
	wr.enc = json.NewEncoder(&wr.buf)
	wr.enc.SetEscapeHTML(false)
	return wr
}

// Write writes Record rec to w, one line per run. SyntaxErrors are
// ignored.
func (w *Writer) Write(rec Record) error {
	switch rec := rec.(type) {
	case *Run:
		if err := w.enc.Encode(rec); err != nil {
			w.buf.Reset()
			return fmt.Errorf("encoding run %s: %v", rec.Hash, err)
		}
	case *SyntaxError:
		// Ignore
		return nil
	default:
		return fmt.Errorf("unknown Record type %T", rec)
	}

	_, err := w.w.Write(w.buf.Bytes())
	w.buf.Reset()
	return err
}
