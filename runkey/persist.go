// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package runkey

import "math/big"

// PersistentIndex returns a non-negative integer derived only from the
// content of key. Each hex digit of key at position i contributes
// digit*ceil(16^i/seed); all other bytes contribute nothing. The
// computation is exact, so the result does not depend on the platform
// or on which other keys exist.
//
// The distribution of PersistentIndex over palette slots is not
// uniform. Seeds less than 1 are treated as 1.
func PersistentIndex(key string, seed int) *big.Int {
	if seed < 1 {
		seed = 1
	}
	var (
		index = new(big.Int)
		pow   = big.NewInt(1) // 16^i
		d     = big.NewInt(int64(seed))
		dm1   = big.NewInt(int64(seed - 1))
		sixt  = big.NewInt(16)
		term  = new(big.Int)
	)
	for i := 0; i < len(key); i++ {
		if i > 0 {
			pow.Mul(pow, sixt)
		}
		digit, ok := hexDigit(key[i])
		if !ok || digit == 0 {
			continue
		}
		// ceil(pow/seed) = (pow+seed-1)/seed for positive values.
		term.Add(pow, dm1)
		term.Quo(term, d)
		term.Mul(term, big.NewInt(digit))
		index.Add(index, term)
	}
	return index
}

// Slot returns PersistentIndex(key, seed) reduced modulo n, for
// selecting one of n palette or style entries. It returns 0 if n <= 0.
func Slot(key string, seed, n int) int {
	if n <= 0 {
		return 0
	}
	m := new(big.Int).Mod(PersistentIndex(key, seed), big.NewInt(int64(n)))
	return int(m.Int64())
}

func hexDigit(c byte) (int64, bool) {
	switch {
	case '0' <= c && c <= '9':
		return int64(c - '0'), true
	case 'a' <= c && c <= 'f':
		return int64(c-'a') + 10, true
	}
	return 0, false
}
