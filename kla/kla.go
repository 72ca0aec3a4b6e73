// Copyright 2022 The Gofes Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package kla implements keyed linear algebra: dense vectors and matrices whose
// entries are addressed by semantic keys instead of bare integer offsets. A key
// can be any comparable value; the finite element solver uses node/direction
// pairs. Algebra between keyed containers requires their key sequences to
// correspond positionally, so a mismatch fails loudly instead of silently
// misaligning equations.
package kla

import "github.com/cpmech/gosl/chk"

// hashMaxSample limits how many elements contribute to Hash. Equal containers
// always hash equal; containers differing only beyond the sample may hash
// equal too.
const hashMaxSample = 25

const (
	fnvOffset = 14695981039346656037
	fnvPrime  = 1099511628211
)

// keysEqual tells whether two key sequences correspond positionally
func keysEqual[K comparable](a, b []K) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// errDuplicateKey reports a repeated key in a key sequence
func errDuplicateKey[K comparable](key K, pos int) error {
	return chk.Err("duplicate key %v at position %d; keys must be unique", key, pos)
}

// indexKeys builds the key => position map, failing on duplicates
func indexKeys[K comparable](keys []K) (map[K]int, error) {
	index := make(map[K]int, len(keys))
	for i, key := range keys {
		if _, dup := index[key]; dup {
			return nil, errDuplicateKey(key, i)
		}
		index[key] = i
	}
	return index, nil
}
