// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package runfmt

import (
	"fmt"
	"reflect"
	"sort"
	"strconv"
	"strings"
)

// ParamPaths returns the dot-separated paths of every leaf in params.
// Keys at each level are visited in sorted order. An empty nested map
// is reported as a leaf.
func ParamPaths(params map[string]interface{}) []string {
	var paths []string
	var walk func(prefix string, m map[string]interface{})
	walk = func(prefix string, m map[string]interface{}) {
		keys := make([]string, 0, len(m))
		for k := range m {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			sub, ok := m[k].(map[string]interface{})
			if ok && len(sub) > 0 {
				walk(prefix+k+".", sub)
				continue
			}
			paths = append(paths, prefix+k)
		}
	}
	walk("", params)
	return paths
}

// Get returns the value at path in v and whether it exists.
//
// If path names a key of v directly, that entry is returned.
// Otherwise path is split on "." and each element selects a map key
// or a slice index.
func Get(v interface{}, path string) (interface{}, bool) {
	if m, ok := v.(map[string]interface{}); ok {
		if x, ok := m[path]; ok {
			return x, true
		}
	}
	if path == "" {
		return nil, false
	}
	for _, elem := range strings.Split(path, ".") {
		switch node := v.(type) {
		case map[string]interface{}:
			x, ok := node[elem]
			if !ok {
				return nil, false
			}
			v = x
		case []interface{}:
			i, err := strconv.Atoi(elem)
			if err != nil || i < 0 || i >= len(node) {
				return nil, false
			}
			v = node[i]
		default:
			return nil, false
		}
	}
	return v, true
}

// ContextString formats a trace context as a stable string, such as
// `subset="train", tag="a"`. Keys are sorted. An empty context
// formats as "".
func ContextString(ctx map[string]interface{}) string {
	if len(ctx) == 0 {
		return ""
	}
	keys := make([]string, 0, len(ctx))
	for k := range ctx {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	var b strings.Builder
	for i, k := range keys {
		if i > 0 {
			b.WriteString(", ")
		}
		v := "null"
		if x := ctx[k]; x != nil {
			v = fmt.Sprint(x)
		}
		fmt.Fprintf(&b, "%s=%q", k, v)
	}
	return b.String()
}

// SameContext reports whether two trace contexts are deeply equal. A
// nil context equals an empty one.
func SameContext(a, b map[string]interface{}) bool {
	if len(a) != len(b) {
		return false
	}
	return len(a) == 0 || reflect.DeepEqual(a, b)
}
