// Copyright 2022 The Gofes Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fem

import (
	"math"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"

	"github.com/cpmech/gofes/kla"
)

// StabilityTolerance is the default threshold for the kinematic stability
// check: the model is rejected when |det(K11)| falls below it. Floating-point
// assembly accumulates rounding error, so the check is tolerance-based rather
// than an exact comparison with zero.
const StabilityTolerance = 1e-9

// Kernel solves the dense linear system given by a stiffness block and a
// force vector, returning the displacement vector keyed like the block's
// columns
type Kernel interface {
	SolveLinear(k *StiffnessMatrix, f *kla.Vector[Dof]) (*kla.Vector[Dof], error)
}

// DirectInversion solves by computing the matrix inverse and multiplying.
// Adequate for well-conditioned small-to-medium systems.
type DirectInversion struct{}

// SolveLinear returns inverse(k) times f
func (o DirectInversion) SolveLinear(k *StiffnessMatrix, f *kla.Vector[Dof]) (*kla.Vector[Dof], error) {
	if k == nil || f == nil {
		return nil, chk.Err("stiffness block and force vector cannot be nil")
	}
	ki, err := k.Inverse()
	if err != nil {
		return nil, chk.Err("direct inversion failed:\n%v", err)
	}
	return ki.MulVec(f)
}

// SvdKernel solves through the singular value decomposition pseudo-inverse.
// More robust than direct inversion for ill-conditioned blocks; negligible
// singular values are zeroed out (see kla.SmallestSingularValue).
type SvdKernel struct{}

// SolveLinear factorises k and returns the least-squares solution of k·x = f
func (o SvdKernel) SolveLinear(k *StiffnessMatrix, f *kla.Vector[Dof]) (*kla.Vector[Dof], error) {
	if k == nil || f == nil {
		return nil, chk.Err("stiffness block and force vector cannot be nil")
	}
	dec, err := k.SVD(true)
	if err != nil {
		return nil, chk.Err("SVD factorisation failed:\n%v", err)
	}
	return dec.Solve(f)
}

// LinearSolver orchestrates the partitioned solve of K·U = F for a bound
// model. It owns its references to the model and builder and never mutates
// the model; the numeric kernel is chosen at construction.
type LinearSolver struct {

	// configuration
	StabilityTol float64 // threshold for |det(K11)|; default StabilityTolerance
	Verbose      bool    // print progress using gosl/io

	// bound collaborators
	model   Model
	builder MatrixBuilder
	kernel  Kernel
}

// NewLinearSolver returns a solver bound to model and builder using the given
// kernel. A nil kernel selects DirectInversion.
func NewLinearSolver(model Model, builder MatrixBuilder, kernel Kernel) (*LinearSolver, error) {
	if model == nil {
		return nil, chk.Err("model cannot be nil")
	}
	if builder == nil {
		return nil, chk.Err("matrix builder cannot be nil")
	}
	if kernel == nil {
		kernel = DirectInversion{}
	}
	return &LinearSolver{
		StabilityTol: StabilityTolerance,
		model:        model,
		builder:      builder,
		kernel:       kernel,
	}, nil
}

// validate checks that the model is large enough to solve
func (o *LinearSolver) validate() error {
	if nn := o.model.NumNodes(); nn < 2 {
		return chk.Err("invalid model: at least 2 nodes are required (%d given)", nn)
	}
	if ne := o.model.NumElements(); ne < 1 {
		return chk.Err("invalid model: at least 1 element is required (%d given)", ne)
	}
	return nil
}

// Solve computes the unknown displacements and the total support reactions:
//
//	Uu = kernel(K11, Fk - K12·Uk)
//	Fu = K21·Uu + K22·Uk + externally applied forces at the constrained DOFs
//
// Fails with an invalid-state error when the model is too small or
// kinematically unstable (|det(K11)| below StabilityTol, meaning free
// rigid-body motion / missing constraints).
func (o *LinearSolver) Solve() (*Results, error) {

	// validate model size
	if err := o.validate(); err != nil {
		return nil, err
	}

	// stability check on K11
	k11, err := o.builder.BuildK11()
	if err != nil {
		return nil, chk.Err("cannot build K11:\n%v", err)
	}
	det, err := k11.Det()
	if err != nil {
		return nil, err
	}
	if math.Abs(det) < o.StabilityTol {
		return nil, chk.Err("model is kinematically unstable: det(K11) = %g is approximately zero, indicating free rigid-body motion or missing constraints\nK11 =\n%v", det, k11)
	}
	if o.Verbose {
		io.Pf("K11 is %dx%d with det = %g\n", k11.Nrow(), k11.Ncol(), det)
	}

	// known vectors
	fk, err := o.model.KnownForceVector()
	if err != nil {
		return nil, chk.Err("cannot get known forces:\n%v", err)
	}
	uk, err := o.model.KnownDisplacementVector()
	if err != nil {
		return nil, chk.Err("cannot get known displacements:\n%v", err)
	}

	// unknown displacements: Uu = kernel(K11, Fk - K12·Uk)
	k12, err := o.builder.BuildK12()
	if err != nil {
		return nil, chk.Err("cannot build K12:\n%v", err)
	}
	fp, err := k12.MulVec(uk)
	if err != nil {
		return nil, err
	}
	rhs, err := fk.Sub(fp)
	if err != nil {
		return nil, err
	}
	uu, err := o.kernel.SolveLinear(k11, rhs)
	if err != nil {
		return nil, chk.Err("cannot solve for unknown displacements:\n%v", err)
	}

	// unknown reactions: Fu = K21·Uu + K22·Uk
	k21, err := o.builder.BuildK21()
	if err != nil {
		return nil, chk.Err("cannot build K21:\n%v", err)
	}
	k22, err := o.builder.BuildK22()
	if err != nil {
		return nil, chk.Err("cannot build K22:\n%v", err)
	}
	fa, err := k21.MulVec(uu)
	if err != nil {
		return nil, err
	}
	fb, err := k22.MulVec(uk)
	if err != nil {
		return nil, err
	}
	fu, err := fa.Add(fb)
	if err != nil {
		return nil, err
	}

	// reconcile with externally applied forces at the constrained DOFs so
	// the reported reaction is the total force there
	ext, err := o.model.CombinedForcesAt(fu.Keys())
	if err != nil {
		return nil, chk.Err("cannot get external forces at reaction DOFs:\n%v", err)
	}
	fuTotal, err := fu.Add(ext)
	if err != nil {
		return nil, err
	}

	if o.Verbose {
		io.Pf("solved %d unknown displacements and %d reactions\n", uu.Len(), fuTotal.Len())
	}

	// package results. The nil checks are a defensive invariant: both
	// vectors must exist at this point.
	return NewResults(uu, fuTotal)
}
