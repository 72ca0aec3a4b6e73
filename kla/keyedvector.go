// Copyright 2022 The Gofes Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package kla

import (
	"math"
	"strings"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
)

// Vector is a dense float64 vector addressed by an ordered sequence of unique
// keys. The position of a key is fixed for the lifetime of the vector.
// Element setters are not thread-safe; concurrent mutation of the same
// instance must be synchronised by the caller.
type Vector[K comparable] struct {
	keys  []K
	index map[K]int
	data  []float64
}

// NewVector returns a new zeroed vector addressed by keys.
// Fails if keys is empty or contains duplicates.
func NewVector[K comparable](keys []K) (*Vector[K], error) {
	if len(keys) < 1 {
		return nil, chk.Err("cannot create vector with %d keys; at least one key is required", len(keys))
	}
	index, err := indexKeys(keys)
	if err != nil {
		return nil, err
	}
	o := new(Vector[K])
	o.keys = make([]K, len(keys))
	copy(o.keys, keys)
	o.index = index
	o.data = make([]float64, len(keys))
	return o, nil
}

// Len returns the number of elements == number of keys
func (o *Vector[K]) Len() int {
	return len(o.data)
}

// Keys returns the ordered key sequence. The returned slice is internal and
// must not be modified.
func (o *Vector[K]) Keys() []K {
	return o.keys
}

// Index returns the position of key
func (o *Vector[K]) Index(key K) (i int, found bool) {
	i, found = o.index[key]
	return
}

// At returns the element at position i. No range checking is performed; the
// caller must keep i within [0,Len).
func (o *Vector[K]) At(i int) float64 {
	return o.data[i]
}

// Set puts v at position i. No range checking is performed.
func (o *Vector[K]) Set(i int, v float64) {
	o.data[i] = v
}

// Value returns the element at position i, validating the index first
func (o *Vector[K]) Value(i int) (float64, error) {
	if i < 0 || i >= len(o.data) {
		return 0, chk.Err("index %d is out of range [0,%d)", i, len(o.data))
	}
	return o.data[i], nil
}

// SetValue puts v at position i, validating the index first
func (o *Vector[K]) SetValue(i int, v float64) error {
	if i < 0 || i >= len(o.data) {
		return chk.Err("index %d is out of range [0,%d)", i, len(o.data))
	}
	o.data[i] = v
	return nil
}

// KeyValue returns the element addressed by key
func (o *Vector[K]) KeyValue(key K) (float64, error) {
	i, found := o.index[key]
	if !found {
		return 0, chk.Err("key %v is not present in vector", key)
	}
	return o.data[i], nil
}

// SetKeyValue puts v at the position addressed by key
func (o *Vector[K]) SetKeyValue(key K, v float64) error {
	i, found := o.index[key]
	if !found {
		return chk.Err("key %v is not present in vector", key)
	}
	o.data[i] = v
	return nil
}

// Clear zeroes all elements
func (o *Vector[K]) Clear() {
	for i := range o.data {
		o.data[i] = 0
	}
}

// Clone returns a deep copy sharing no storage with o
func (o *Vector[K]) Clone() *Vector[K] {
	c, _ := NewVector(o.keys)
	copy(c.data, o.data)
	return c
}

// Equal tells whether other has the same keys in the same order and exactly
// equal elements
func (o *Vector[K]) Equal(other *Vector[K]) bool {
	if other == nil {
		return false
	}
	if o == other {
		return true
	}
	if !keysEqual(o.keys, other.keys) {
		return false
	}
	for i, v := range o.data {
		if v != other.data[i] {
			return false
		}
	}
	return true
}

// Hash returns a hash code sampling at most the first 25 elements. Equal
// vectors hash equal; vectors differing only beyond the sample may collide.
func (o *Vector[K]) Hash() uint64 {
	n := len(o.data)
	if n > hashMaxSample {
		n = hashMaxSample
	}
	h := uint64(fnvOffset)
	for i := 0; i < n; i++ {
		h ^= math.Float64bits(o.data[i])
		h *= fnvPrime
	}
	return h
}

// CopyTo copies all elements into target. Copying a vector onto itself is a
// no-op; otherwise the lengths must match.
func (o *Vector[K]) CopyTo(target *Vector[K]) error {
	if target == nil {
		return chk.Err("target vector cannot be nil")
	}
	if o == target {
		return nil
	}
	if len(o.data) != len(target.data) {
		return chk.Err("cannot copy vector with %d elements onto vector with %d elements", len(o.data), len(target.data))
	}
	copy(target.data, o.data)
	return nil
}

// CopySubVectorTo copies n elements starting at srcStart into target starting
// at dstStart. Source and target may be the same instance with overlapping
// ranges: the data is staged through a temporary buffer first.
func (o *Vector[K]) CopySubVectorTo(target *Vector[K], srcStart, dstStart, n int) error {
	if target == nil {
		return chk.Err("target vector cannot be nil")
	}
	if n < 0 {
		return chk.Err("number of elements to copy cannot be negative (%d)", n)
	}
	if srcStart < 0 || srcStart+n > len(o.data) {
		return chk.Err("source range [%d,%d) is out of range [0,%d)", srcStart, srcStart+n, len(o.data))
	}
	if dstStart < 0 || dstStart+n > len(target.data) {
		return chk.Err("target range [%d,%d) is out of range [0,%d)", dstStart, dstStart+n, len(target.data))
	}
	buf := make([]float64, n)
	copy(buf, o.data[srcStart:srcStart+n])
	copy(target.data[dstStart:dstStart+n], buf)
	return nil
}

// Add returns o + other as a new vector keyed like o. The key sequences must
// correspond positionally.
func (o *Vector[K]) Add(other *Vector[K]) (*Vector[K], error) {
	if other == nil {
		return nil, chk.Err("cannot add nil vector")
	}
	if !keysEqual(o.keys, other.keys) {
		return nil, chk.Err("cannot add vectors with mismatched keys (%d and %d elements)", len(o.data), len(other.data))
	}
	res := o.Clone()
	for i, v := range other.data {
		res.data[i] += v
	}
	return res, nil
}

// Sub returns o - other as a new vector keyed like o. The key sequences must
// correspond positionally.
func (o *Vector[K]) Sub(other *Vector[K]) (*Vector[K], error) {
	if other == nil {
		return nil, chk.Err("cannot subtract nil vector")
	}
	if !keysEqual(o.keys, other.keys) {
		return nil, chk.Err("cannot subtract vectors with mismatched keys (%d and %d elements)", len(o.data), len(other.data))
	}
	res := o.Clone()
	for i, v := range other.data {
		res.data[i] -= v
	}
	return res, nil
}

// Norm returns the Euclidean norm
func (o *Vector[K]) Norm() float64 {
	s := 0.0
	for _, v := range o.data {
		s += v * v
	}
	return math.Sqrt(s)
}

// String returns a one-line-per-entry representation for diagnostics
func (o *Vector[K]) String() string {
	var b strings.Builder
	for i, key := range o.keys {
		b.WriteString(io.Sf("%v: %23.15e\n", key, o.data[i]))
	}
	return b.String()
}
