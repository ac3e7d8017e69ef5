// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package runkey

import (
	"math/big"
	"strings"
	"testing"
)

func TestPersistentIndex(t *testing.T) {
	check := func(key string, seed int, want int64) {
		t.Helper()
		got := PersistentIndex(key, seed)
		if got.Cmp(big.NewInt(want)) != 0 {
			t.Errorf("PersistentIndex(%q, %d) = %v, want %d", key, seed, got, want)
		}
	}

	check("", 10, 0)
	check("xyz-XYZ", 10, 0) // Only lowercase hex digits count.
	check("a1", 10, 12)     // 10*ceil(1/10) + 1*ceil(16/10)
	check("O-ff", 1, 65280) // 15*256 + 15*4096
	check("O-ff", 10, 6540) // 15*26 + 15*410
	check("O-ff", 0, 65280) // Seed clamps to 1.
	check("0000", 3, 0)
}

func TestPersistentIndexExact(t *testing.T) {
	// Sum of 15*16^i for i < n is 16^n-1. A fixed-width or
	// floating-point computation cannot produce this.
	const n = 300
	got := PersistentIndex(strings.Repeat("f", n), 1)
	want := new(big.Int).Exp(big.NewInt(16), big.NewInt(n), nil)
	want.Sub(want, big.NewInt(1))
	if got.Cmp(want) != 0 {
		t.Errorf("PersistentIndex of %d f's is not 16^%d-1", n, n)
	}
}

func TestPersistentIndexStable(t *testing.T) {
	key := Encode(map[string]interface{}{"run.params.lr": 0.1})
	first := PersistentIndex(key, 10)
	for i := 0; i < 5; i++ {
		if got := PersistentIndex(key, 10); got.Cmp(first) != 0 {
			t.Fatalf("PersistentIndex changed between calls: %v then %v", first, got)
		}
	}
}

func TestSlot(t *testing.T) {
	if got := Slot("a1", 10, 5); got != 2 {
		t.Errorf("Slot(a1, 10, 5) = %d, want 2", got)
	}
	if got := Slot("a1", 10, 0); got != 0 {
		t.Errorf("Slot with n=0 = %d, want 0", got)
	}
	key := Encode(map[string]interface{}{"run.params.opt": "sgd"})
	for n := 1; n < 30; n++ {
		if s := Slot(key, 7, n); s < 0 || s >= n {
			t.Errorf("Slot(%q, 7, %d) = %d out of range", key, n, s)
		}
	}
}
