// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package diff describes differences between expected and actual test
// output.
package diff

import (
	"fmt"
	"os"
	"os/exec"
	"runtime"
	"strings"
)

// Diff returns a human-readable description of the differences
// between want and got, or "" if they are equal. It uses the system
// diff command when available and otherwise lists the first differing
// line.
func Diff(want, got string) string {
	if want == got {
		return ""
	}
	cmd := "diff"
	if runtime.GOOS == "plan9" {
		cmd = "/bin/ape/diff"
	}
	if _, err := exec.LookPath(cmd); err != nil {
		return firstDifference(want, got)
	}

	fw, err := writeTemp(want)
	if err != nil {
		return err.Error()
	}
	defer os.Remove(fw)
	fg, err := writeTemp(got)
	if err != nil {
		return err.Error()
	}
	defer os.Remove(fg)

	data, err := exec.Command(cmd, "-u", "--label", "want", "--label", "got", fw, fg).CombinedOutput()
	if len(data) > 0 {
		// diff exits non-zero when the inputs differ.
		return string(data)
	}
	if err != nil {
		return err.Error() + "\n" + firstDifference(want, got)
	}
	return firstDifference(want, got)
}

func writeTemp(s string) (string, error) {
	f, err := os.CreateTemp("", "runviz_test")
	if err != nil {
		return "", err
	}
	_, err = f.WriteString(s)
	if err1 := f.Close(); err == nil {
		err = err1
	}
	if err != nil {
		os.Remove(f.Name())
		return "", err
	}
	return f.Name(), nil
}

func firstDifference(want, got string) string {
	wl := strings.Split(want, "\n")
	gl := strings.Split(got, "\n")
	for i := 0; i < len(wl) || i < len(gl); i++ {
		var w, g string
		if i < len(wl) {
			w = wl[i]
		}
		if i < len(gl) {
			g = gl[i]
		}
		if w != g || i >= len(wl) || i >= len(gl) {
			return fmt.Sprintf("line %d:\nwant: %q\ngot:  %q", i+1, w, g)
		}
	}
	return ""
}
