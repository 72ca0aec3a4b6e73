// Copyright 2022 The Gofes Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package kla

import (
	"math"

	"github.com/cpmech/gosl/chk"
)

// SmallestSingularValue is the relative threshold below which a singular
// value is treated as zero: σ is negligible when σ <= σmax * SmallestSingularValue.
// Rank, Cond, Det and the pseudo-inverse solve all use this cutoff.
const SmallestSingularValue = 1e-12

// svdMaxSweeps bounds the number of Jacobi sweeps
const svdMaxSweeps = 60

// SVD holds the singular value decomposition A = U·Σ·Vᵀ of a keyed matrix
// with nrow >= ncol, computed by one-sided Jacobi rotations.
// Singular values are stored in DESCENDING order: W()[0] is the largest.
// When built with computeVectors == false only the singular values (and the
// quantities derived from them at factorisation time) are available; Solve
// then fails with an invalid-state error.
type SVD[K comparable] struct {
	rowKeys []K
	colKeys []K
	m, n    int
	s       []float64 // [n] singular values, descending
	u       []float64 // [m*n] column-orthonormal factor; nil if not retained
	v       []float64 // [n*n] orthogonal factor; nil if not retained
	rank    int
	detSign float64 // sign of det(U)*det(V) for square matrices; 0 otherwise
}

// SVD factorises the matrix. computeVectors controls whether the U and V
// factors are retained for later use by Solve; the singular values, Rank,
// Cond, Norm2 and Det are available either way.
// Fails when the matrix has more columns than rows.
func (o *Matrix[K]) SVD(computeVectors bool) (*SVD[K], error) {
	if o.nrow < o.ncol {
		return nil, chk.Err("SVD requires nrow >= ncol; this matrix is %dx%d", o.nrow, o.ncol)
	}
	m, n := o.nrow, o.ncol
	u := make([]float64, len(o.data))
	copy(u, o.data)
	v := make([]float64, n*n)
	for j := 0; j < n; j++ {
		v[j*n+j] = 1
	}
	jacobiOrthogonalise(u, v, m, n)

	// singular values = column norms of the rotated matrix
	s := make([]float64, n)
	for j := 0; j < n; j++ {
		sum := 0.0
		for i := 0; i < m; i++ {
			sum += u[i*n+j] * u[i*n+j]
		}
		s[j] = math.Sqrt(sum)
		if s[j] > 0 {
			for i := 0; i < m; i++ {
				u[i*n+j] /= s[j]
			}
		}
	}

	// order descending, swapping the corresponding columns of u and v
	for a := 0; a < n-1; a++ {
		p := a
		for b := a + 1; b < n; b++ {
			if s[b] > s[p] {
				p = b
			}
		}
		if p != a {
			s[a], s[p] = s[p], s[a]
			for i := 0; i < m; i++ {
				u[i*n+a], u[i*n+p] = u[i*n+p], u[i*n+a]
			}
			for i := 0; i < n; i++ {
				v[i*n+a], v[i*n+p] = v[i*n+p], v[i*n+a]
			}
		}
	}

	res := new(SVD[K])
	res.rowKeys = o.rowKeys
	res.colKeys = o.colKeys
	res.m, res.n = m, n
	res.s = s

	// rank with the relative cutoff
	cutoff := s[0] * SmallestSingularValue
	for _, w := range s {
		if w > cutoff {
			res.rank++
		}
	}

	// determinant sign while the factors are still at hand, so Det works
	// even when the vectors are discarded
	if m == n {
		du := denDet(u, n)
		dv := denDet(v, n)
		switch {
		case du*dv > 0:
			res.detSign = 1
		case du*dv < 0:
			res.detSign = -1
		}
	}

	if computeVectors {
		res.u = u
		res.v = v
	}
	return res, nil
}

// jacobiOrthogonalise applies one-sided Jacobi rotations to the columns of
// the m-by-n matrix u until all column pairs are numerically orthogonal,
// accumulating the rotations into v
func jacobiOrthogonalise(u, v []float64, m, n int) {
	eps := 1e-15
	for sweep := 0; sweep < svdMaxSweeps; sweep++ {
		converged := true
		for p := 0; p < n-1; p++ {
			for q := p + 1; q < n; q++ {
				alpha, beta, gamma := 0.0, 0.0, 0.0
				for i := 0; i < m; i++ {
					up := u[i*n+p]
					uq := u[i*n+q]
					alpha += up * up
					beta += uq * uq
					gamma += up * uq
				}
				if math.Abs(gamma) <= eps*math.Sqrt(alpha*beta) {
					continue
				}
				converged = false
				zeta := (beta - alpha) / (2 * gamma)
				t := 1 / (math.Abs(zeta) + math.Sqrt(1+zeta*zeta))
				if zeta < 0 {
					t = -t
				}
				c := 1 / math.Sqrt(1+t*t)
				sn := c * t
				for i := 0; i < m; i++ {
					up := u[i*n+p]
					uq := u[i*n+q]
					u[i*n+p] = c*up - sn*uq
					u[i*n+q] = sn*up + c*uq
				}
				for i := 0; i < n; i++ {
					vp := v[i*n+p]
					vq := v[i*n+q]
					v[i*n+p] = c*vp - sn*vq
					v[i*n+q] = sn*vp + c*vq
				}
			}
		}
		if converged {
			break
		}
	}
}

// W returns a copy of the singular values in descending order
func (o *SVD[K]) W() []float64 {
	w := make([]float64, len(o.s))
	copy(w, o.s)
	return w
}

// Norm2 returns the matrix 2-norm == largest singular value
func (o *SVD[K]) Norm2() float64 {
	return o.s[0]
}

// Cond returns the 2-norm condition number σmax/σmin, or +Inf when the
// smallest singular value is negligible
func (o *SVD[K]) Cond() float64 {
	min := o.s[o.n-1]
	if min <= o.s[0]*SmallestSingularValue {
		return math.Inf(1)
	}
	return o.s[0] / min
}

// Rank returns the number of non-negligible singular values
func (o *SVD[K]) Rank() int {
	return o.rank
}

// Det returns the determinant: the product of the singular values with the
// sign of det(U)·det(V). Fails for non-square matrices.
func (o *SVD[K]) Det() (float64, error) {
	if o.m != o.n {
		return 0, chk.Err("determinant requires a square matrix; this one is %dx%d", o.m, o.n)
	}
	if o.rank < o.n {
		return 0, nil
	}
	det := o.detSign
	for _, w := range o.s {
		det *= w
	}
	return det, nil
}

// Solve returns the least-squares solution x = V·Σ⁺·Uᵀ·b via the
// pseudo-inverse, with negligible singular values zeroed out. The keys of b
// must correspond positionally to the row keys of the factorised matrix; the
// result is keyed by its column keys.
// Fails with an invalid-state error when the factorisation was built with
// computeVectors == false.
func (o *SVD[K]) Solve(b *Vector[K]) (*Vector[K], error) {
	if b == nil {
		return nil, chk.Err("right-hand side vector cannot be nil")
	}
	if o.u == nil || o.v == nil {
		return nil, chk.Err("cannot solve: factorisation was built without retaining the singular vectors (computeVectors == false)")
	}
	if !keysEqual(o.rowKeys, b.keys) {
		return nil, chk.Err("cannot solve with right-hand side keyed differently from the factorised matrix rows")
	}
	cutoff := o.s[0] * SmallestSingularValue

	// y = Σ⁺·Uᵀ·b
	y := make([]float64, o.n)
	for j := 0; j < o.n; j++ {
		if o.s[j] <= cutoff {
			continue
		}
		sum := 0.0
		for i := 0; i < o.m; i++ {
			sum += o.u[i*o.n+j] * b.data[i]
		}
		y[j] = sum / o.s[j]
	}

	// x = V·y
	x, err := NewVector(o.colKeys)
	if err != nil {
		return nil, err
	}
	for i := 0; i < o.n; i++ {
		sum := 0.0
		for j := 0; j < o.n; j++ {
			sum += o.v[i*o.n+j] * y[j]
		}
		x.data[i] = sum
	}
	return x, nil
}
