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

// Matrix is a dense row-major float64 matrix addressed by a (row key, column
// key) pair. Row and column key sequences need not be equal. Element setters
// are not thread-safe; concurrent mutation of the same instance must be
// synchronised by the caller.
type Matrix[K comparable] struct {
	rowKeys  []K
	colKeys  []K
	rowIndex map[K]int
	colIndex map[K]int
	nrow     int
	ncol     int
	data     []float64 // nrow*ncol, row-major
}

// NewMatrix returns a new zeroed matrix addressed by rowKeys and colKeys.
// Fails if either key sequence is empty or contains duplicates.
func NewMatrix[K comparable](rowKeys, colKeys []K) (*Matrix[K], error) {
	if len(rowKeys) < 1 {
		return nil, chk.Err("cannot create matrix with %d row keys; at least one is required", len(rowKeys))
	}
	if len(colKeys) < 1 {
		return nil, chk.Err("cannot create matrix with %d column keys; at least one is required", len(colKeys))
	}
	rowIndex, err := indexKeys(rowKeys)
	if err != nil {
		return nil, err
	}
	colIndex, err := indexKeys(colKeys)
	if err != nil {
		return nil, err
	}
	o := new(Matrix[K])
	o.rowKeys = make([]K, len(rowKeys))
	copy(o.rowKeys, rowKeys)
	o.colKeys = make([]K, len(colKeys))
	copy(o.colKeys, colKeys)
	o.rowIndex = rowIndex
	o.colIndex = colIndex
	o.nrow = len(rowKeys)
	o.ncol = len(colKeys)
	o.data = make([]float64, o.nrow*o.ncol)
	return o, nil
}

// NewSquareMatrix returns a new zeroed matrix using keys for both rows and
// columns
func NewSquareMatrix[K comparable](keys []K) (*Matrix[K], error) {
	return NewMatrix(keys, keys)
}

// Nrow returns the number of rows
func (o *Matrix[K]) Nrow() int {
	return o.nrow
}

// Ncol returns the number of columns
func (o *Matrix[K]) Ncol() int {
	return o.ncol
}

// RowKeys returns the ordered row key sequence. The returned slice is internal
// and must not be modified.
func (o *Matrix[K]) RowKeys() []K {
	return o.rowKeys
}

// ColKeys returns the ordered column key sequence. The returned slice is
// internal and must not be modified.
func (o *Matrix[K]) ColKeys() []K {
	return o.colKeys
}

// At returns the element at row i, column j. No range checking is performed.
func (o *Matrix[K]) At(i, j int) float64 {
	return o.data[i*o.ncol+j]
}

// Set puts v at row i, column j. No range checking is performed.
func (o *Matrix[K]) Set(i, j int, v float64) {
	o.data[i*o.ncol+j] = v
}

// Value returns the element at row i, column j, validating the indices first
func (o *Matrix[K]) Value(i, j int) (float64, error) {
	if i < 0 || i >= o.nrow || j < 0 || j >= o.ncol {
		return 0, chk.Err("indices (%d,%d) are out of range [0,%d)x[0,%d)", i, j, o.nrow, o.ncol)
	}
	return o.data[i*o.ncol+j], nil
}

// SetValue puts v at row i, column j, validating the indices first
func (o *Matrix[K]) SetValue(i, j int, v float64) error {
	if i < 0 || i >= o.nrow || j < 0 || j >= o.ncol {
		return chk.Err("indices (%d,%d) are out of range [0,%d)x[0,%d)", i, j, o.nrow, o.ncol)
	}
	o.data[i*o.ncol+j] = v
	return nil
}

// KeyValue returns the element addressed by (rowKey, colKey)
func (o *Matrix[K]) KeyValue(rowKey, colKey K) (float64, error) {
	i, found := o.rowIndex[rowKey]
	if !found {
		return 0, chk.Err("row key %v is not present in matrix", rowKey)
	}
	j, found := o.colIndex[colKey]
	if !found {
		return 0, chk.Err("column key %v is not present in matrix", colKey)
	}
	return o.data[i*o.ncol+j], nil
}

// SetKeyValue puts v at the position addressed by (rowKey, colKey)
func (o *Matrix[K]) SetKeyValue(rowKey, colKey K, v float64) error {
	i, found := o.rowIndex[rowKey]
	if !found {
		return chk.Err("row key %v is not present in matrix", rowKey)
	}
	j, found := o.colIndex[colKey]
	if !found {
		return chk.Err("column key %v is not present in matrix", colKey)
	}
	o.data[i*o.ncol+j] = v
	return nil
}

// AddToKeyValue adds delta to the element addressed by (rowKey, colKey).
// This is the scatter-add operation used when assembling element
// contributions at shared keys.
func (o *Matrix[K]) AddToKeyValue(rowKey, colKey K, delta float64) error {
	i, found := o.rowIndex[rowKey]
	if !found {
		return chk.Err("row key %v is not present in matrix", rowKey)
	}
	j, found := o.colIndex[colKey]
	if !found {
		return chk.Err("column key %v is not present in matrix", colKey)
	}
	o.data[i*o.ncol+j] += delta
	return nil
}

// Clear zeroes all elements
func (o *Matrix[K]) Clear() {
	for i := range o.data {
		o.data[i] = 0
	}
}

// Clone returns a deep copy sharing no storage with o
func (o *Matrix[K]) Clone() *Matrix[K] {
	c, _ := NewMatrix(o.rowKeys, o.colKeys)
	copy(c.data, o.data)
	return c
}

// Equal tells whether other has the same keys in the same order and exactly
// equal elements
func (o *Matrix[K]) Equal(other *Matrix[K]) bool {
	if other == nil {
		return false
	}
	if o == other {
		return true
	}
	if !keysEqual(o.rowKeys, other.rowKeys) || !keysEqual(o.colKeys, other.colKeys) {
		return false
	}
	for i, v := range o.data {
		if v != other.data[i] {
			return false
		}
	}
	return true
}

// Hash returns a hash code sampling at most the first 25 elements of the
// backing store. Equal matrices hash equal; the converse is not guaranteed.
func (o *Matrix[K]) Hash() uint64 {
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

// Add returns o + other as a new matrix keyed like o. Row and column key
// sequences must correspond positionally.
func (o *Matrix[K]) Add(other *Matrix[K]) (*Matrix[K], error) {
	if other == nil {
		return nil, chk.Err("cannot add nil matrix")
	}
	if !keysEqual(o.rowKeys, other.rowKeys) || !keysEqual(o.colKeys, other.colKeys) {
		return nil, chk.Err("cannot add matrices with mismatched keys (%dx%d and %dx%d)", o.nrow, o.ncol, other.nrow, other.ncol)
	}
	res := o.Clone()
	for i, v := range other.data {
		res.data[i] += v
	}
	return res, nil
}

// MulVec returns o times v as a new vector keyed by the row keys of o. The
// column keys of o must correspond positionally to the keys of v.
func (o *Matrix[K]) MulVec(v *Vector[K]) (*Vector[K], error) {
	if v == nil {
		return nil, chk.Err("cannot multiply by nil vector")
	}
	if !keysEqual(o.colKeys, v.keys) {
		return nil, chk.Err("cannot multiply %dx%d matrix by vector with %d mismatched keys", o.nrow, o.ncol, v.Len())
	}
	res, err := NewVector(o.rowKeys)
	if err != nil {
		return nil, err
	}
	for i := 0; i < o.nrow; i++ {
		s := 0.0
		for j := 0; j < o.ncol; j++ {
			s += o.data[i*o.ncol+j] * v.data[j]
		}
		res.data[i] = s
	}
	return res, nil
}

// Mul returns o times other as a new matrix keyed by the row keys of o and the
// column keys of other. The column keys of o must correspond positionally to
// the row keys of other.
func (o *Matrix[K]) Mul(other *Matrix[K]) (*Matrix[K], error) {
	if other == nil {
		return nil, chk.Err("cannot multiply by nil matrix")
	}
	if !keysEqual(o.colKeys, other.rowKeys) {
		return nil, chk.Err("cannot multiply %dx%d matrix by %dx%d matrix with mismatched inner keys", o.nrow, o.ncol, other.nrow, other.ncol)
	}
	res, err := NewMatrix(o.rowKeys, other.colKeys)
	if err != nil {
		return nil, err
	}
	for i := 0; i < o.nrow; i++ {
		for k := 0; k < o.ncol; k++ {
			a := o.data[i*o.ncol+k]
			if a == 0 {
				continue
			}
			for j := 0; j < other.ncol; j++ {
				res.data[i*res.ncol+j] += a * other.data[k*other.ncol+j]
			}
		}
	}
	return res, nil
}

// Transpose returns a new matrix with rows and columns (and their keys)
// swapped
func (o *Matrix[K]) Transpose() *Matrix[K] {
	res, _ := NewMatrix(o.colKeys, o.rowKeys)
	for i := 0; i < o.nrow; i++ {
		for j := 0; j < o.ncol; j++ {
			res.data[j*res.ncol+i] = o.data[i*o.ncol+j]
		}
	}
	return res
}

// SubMatrix extracts the block addressed by the given key subsets, preserving
// key identity in the result. The requested keys may appear in any order; the
// result uses exactly the requested ordering.
func (o *Matrix[K]) SubMatrix(rowKeys, colKeys []K) (*Matrix[K], error) {
	res, err := NewMatrix(rowKeys, colKeys)
	if err != nil {
		return nil, err
	}
	for i, rkey := range res.rowKeys {
		ri, found := o.rowIndex[rkey]
		if !found {
			return nil, chk.Err("row key %v is not present in source matrix", rkey)
		}
		for j, ckey := range res.colKeys {
			cj, found := o.colIndex[ckey]
			if !found {
				return nil, chk.Err("column key %v is not present in source matrix", ckey)
			}
			res.data[i*res.ncol+j] = o.data[ri*o.ncol+cj]
		}
	}
	return res, nil
}

// Det returns the determinant, computed by LU factorisation with partial
// pivoting. This is an O(n³) operation; callers using it repeatedly (e.g. for
// singularity checks) pay that cost every time.
func (o *Matrix[K]) Det() (float64, error) {
	if o.nrow != o.ncol {
		return 0, chk.Err("determinant requires a square matrix; this one is %dx%d", o.nrow, o.ncol)
	}
	a := make([]float64, len(o.data))
	copy(a, o.data)
	piv := make([]int, o.nrow)
	sign, singular := luFactor(a, o.nrow, piv)
	if singular {
		return 0, nil
	}
	det := sign
	for i := 0; i < o.nrow; i++ {
		det *= a[i*o.nrow+i]
	}
	return det, nil
}

// Inverse returns the inverse as a new matrix with row and column keys
// swapped, so that Inverse().MulVec accepts vectors keyed like the rows of o.
// Fails if the matrix is singular.
func (o *Matrix[K]) Inverse() (*Matrix[K], error) {
	if o.nrow != o.ncol {
		return nil, chk.Err("inverse requires a square matrix; this one is %dx%d", o.nrow, o.ncol)
	}
	res, _ := NewMatrix(o.colKeys, o.rowKeys)
	if err := denInverse(res.data, o.data, o.nrow); err != nil {
		return nil, chk.Err("cannot invert matrix:\n%v", err)
	}
	return res, nil
}

// String returns a row-per-line representation for diagnostics, with the
// column keys on a header line
func (o *Matrix[K]) String() string {
	var b strings.Builder
	b.WriteString("columns:")
	for _, key := range o.colKeys {
		b.WriteString(io.Sf(" %v", key))
	}
	b.WriteString("\n")
	for i, key := range o.rowKeys {
		b.WriteString(io.Sf("%v:", key))
		for j := 0; j < o.ncol; j++ {
			b.WriteString(io.Sf(" %13.6e", o.data[i*o.ncol+j]))
		}
		b.WriteString("\n")
	}
	return b.String()
}
