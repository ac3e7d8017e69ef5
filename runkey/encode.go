// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package runkey derives short reproducible text keys from plain
// values and stable palette indexes from those keys.
//
// A key identifies a group of runs: two groups whose identifying
// values are structurally equal always have the same key, regardless
// of the order in which maps were built or runs were observed.
package runkey

import (
	"bytes"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"math"
	"strings"
)

// Undefined marks a value that is absent, as opposed to present and
// null. It is omitted from encoded maps and encodes as null inside
// slices.
var Undefined = undefined{}

type undefined struct{}

func (undefined) String() string { return "undefined" }

// MarshalJSON encodes Undefined as null when it escapes into ordinary
// JSON output.
func (undefined) MarshalJSON() ([]byte, error) { return []byte("null"), nil }

// IsUndefined reports whether v is Undefined.
func IsUndefined(v interface{}) bool {
	_, ok := v.(undefined)
	return ok
}

// keyPrefix distinguishes encoded keys from arbitrary strings.
const keyPrefix = "O-"

// Encode returns the canonical key of v.
//
// v should be built from maps with string keys, slices, strings,
// numbers, booleans, nil, and Undefined. Map keys are emitted in
// sorted order. Values that have no JSON representation, such as NaN
// or channels, encode as null.
func Encode(v interface{}) string {
	return keyPrefix + hex.EncodeToString(canonical(v))
}

// Decode parses a key produced by Encode into v, which must be a
// pointer as for json.Unmarshal.
func Decode(key string, v interface{}) error {
	if !strings.HasPrefix(key, keyPrefix) {
		return fmt.Errorf("malformed key: missing %q prefix", keyPrefix)
	}
	data, err := hex.DecodeString(key[len(keyPrefix):])
	if err != nil {
		return fmt.Errorf("malformed key: %v", err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("malformed key: %v", err)
	}
	return nil
}

// JSON returns the canonical JSON text of v, with the same
// normalization as Encode. It is the plain-text form used for display
// values.
func JSON(v interface{}) string {
	return string(canonical(v))
}

// canonical returns the canonical JSON text of v.
func canonical(v interface{}) []byte {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(normalize(v)); err != nil {
		return []byte("null")
	}
	// Encoder always terminates with a newline.
	return bytes.TrimSuffix(buf.Bytes(), []byte{'\n'})
}

// normalize rewrites v into a form encoding/json encodes the way
// Encode requires. encoding/json already sorts map keys; normalize
// drops Undefined map entries and replaces non-finite numbers.
func normalize(v interface{}) interface{} {
	switch v := v.(type) {
	case undefined:
		return nil
	case float64:
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil
		}
		return v
	case float32:
		return normalize(float64(v))
	case map[string]interface{}:
		out := make(map[string]interface{}, len(v))
		for k, x := range v {
			if IsUndefined(x) {
				continue
			}
			out[k] = normalize(x)
		}
		return out
	case []interface{}:
		out := make([]interface{}, len(v))
		for i, x := range v {
			out[i] = normalize(x)
		}
		return out
	}
	return v
}
