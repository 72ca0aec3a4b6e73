// Copyright 2022 The Gofes Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package kla

import (
	"math"

	"github.com/cpmech/gosl/chk"
)

// luFactor factorises the n-by-n row-major matrix a in place into its L\U
// form with partial pivoting. piv receives the pivot row chosen at each step
// and sign the permutation sign (+1 or -1). singular is true when a pivot is
// exactly zero; the factorisation stops there and a is left partially reduced.
func luFactor(a []float64, n int, piv []int) (sign float64, singular bool) {
	sign = 1
	for k := 0; k < n; k++ {
		p := k
		big := math.Abs(a[k*n+k])
		for i := k + 1; i < n; i++ {
			if v := math.Abs(a[i*n+k]); v > big {
				big = v
				p = i
			}
		}
		piv[k] = p
		if big == 0 {
			return sign, true
		}
		if p != k {
			for j := 0; j < n; j++ {
				a[k*n+j], a[p*n+j] = a[p*n+j], a[k*n+j]
			}
			sign = -sign
		}
		pivot := a[k*n+k]
		for i := k + 1; i < n; i++ {
			m := a[i*n+k] / pivot
			a[i*n+k] = m
			for j := k + 1; j < n; j++ {
				a[i*n+j] -= m * a[k*n+j]
			}
		}
	}
	return sign, false
}

// luSolve solves L\U x = b for a factorisation produced by luFactor,
// overwriting x. b and x may be the same slice.
//
// The row interchanges must all be applied before substitution starts:
// luFactor swaps whole rows, multiplier columns included, so the stored
// multipliers reflect the final permutation while a partially swapped x
// would not.
func luSolve(lu []float64, n int, piv []int, b, x []float64) {
	if &x[0] != &b[0] {
		copy(x, b)
	}
	for k := 0; k < n; k++ {
		if piv[k] != k {
			x[k], x[piv[k]] = x[piv[k]], x[k]
		}
	}
	for k := 0; k < n; k++ {
		for i := k + 1; i < n; i++ {
			x[i] -= lu[i*n+k] * x[k]
		}
	}
	for i := n - 1; i >= 0; i-- {
		s := x[i]
		for j := i + 1; j < n; j++ {
			s -= lu[i*n+j] * x[j]
		}
		x[i] = s / lu[i*n+i]
	}
}

// denDet returns the determinant of the n-by-n row-major matrix a, leaving a
// untouched. Returns zero when a zero pivot is met.
func denDet(a []float64, n int) float64 {
	lu := make([]float64, len(a))
	copy(lu, a)
	piv := make([]int, n)
	sign, singular := luFactor(lu, n, piv)
	if singular {
		return 0
	}
	det := sign
	for i := 0; i < n; i++ {
		det *= lu[i*n+i]
	}
	return det
}

// denInverse computes ai = inverse(a) for n-by-n row-major matrices, leaving
// a untouched. Fails when a is singular (zero pivot).
func denInverse(ai, a []float64, n int) error {
	lu := make([]float64, len(a))
	copy(lu, a)
	piv := make([]int, n)
	if _, singular := luFactor(lu, n, piv); singular {
		return chk.Err("matrix is singular (zero pivot during LU factorisation)")
	}
	col := make([]float64, n)
	for j := 0; j < n; j++ {
		for i := range col {
			col[i] = 0
		}
		col[j] = 1
		luSolve(lu, n, piv, col, col)
		for i := 0; i < n; i++ {
			ai[i*n+j] = col[i]
		}
	}
	return nil
}
