// Copyright 2022 The Gofes Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fem

import (
	"github.com/cpmech/gosl/chk"

	"github.com/cpmech/gofes/kla"
)

// StiffnessMatrix is a keyed matrix whose row and column keys are DOF
// identifiers. The assembled global matrix is symmetric in the physical
// sense, although nothing enforces that structurally.
type StiffnessMatrix = kla.Matrix[Dof]

// MatrixBuilder provides the four stiffness sub-blocks of the partitioned
// system:
//
//	| K11  K12 | / Uu \   / Fk \
//	|          | |    | = |    |
//	| K21  K22 | \ Uk /   \ Fu /
//
// K11: free rows x free columns (forces known, displacements unknown)
// K12: free rows x constrained columns
// K21: constrained rows x free columns (forces unknown here)
// K22: constrained rows x constrained columns
//
// Row/column key order inside each block must match the order of the model's
// known-force and known-displacement vectors.
type MatrixBuilder interface {
	BuildK11() (*StiffnessMatrix, error)
	BuildK12() (*StiffnessMatrix, error)
	BuildK21() (*StiffnessMatrix, error)
	BuildK22() (*StiffnessMatrix, error)
}

// StiffnessBuilder implements MatrixBuilder for a Mesh. Each Build* call
// assembles the global matrix from the current mesh state and extracts the
// requested block, so blocks always reflect the latest model.
type StiffnessBuilder struct {
	mesh *Mesh
}

// NewStiffnessBuilder returns a builder bound to mesh
func NewStiffnessBuilder(mesh *Mesh) (*StiffnessBuilder, error) {
	if mesh == nil {
		return nil, chk.Err("mesh cannot be nil")
	}
	return &StiffnessBuilder{mesh: mesh}, nil
}

// Assemble builds the global stiffness matrix keyed by all referenced DOFs,
// summing element contributions at shared DOFs
func (o *StiffnessBuilder) Assemble() (*StiffnessMatrix, error) {
	all := o.mesh.AllDofs()
	if len(all) < 1 {
		return nil, chk.Err("cannot assemble stiffness matrix: model has no elements")
	}
	kg, err := kla.NewSquareMatrix(all)
	if err != nil {
		return nil, err
	}
	for _, e := range o.mesh.elems {
		for i, rdof := range e.dofs {
			for j, cdof := range e.dofs {
				if err := kg.AddToKeyValue(rdof, cdof, e.k[i][j]); err != nil {
					return nil, err
				}
			}
		}
	}
	return kg, nil
}

// block assembles the global matrix and extracts one partition block
func (o *StiffnessBuilder) block(rowsConstrained, colsConstrained bool) (*StiffnessMatrix, error) {
	kg, err := o.Assemble()
	if err != nil {
		return nil, err
	}
	free := o.mesh.UnknownDisplacementDofs()
	constrained, err := o.mesh.KnownDisplacementDofs()
	if err != nil {
		return nil, err
	}
	if len(free) < 1 {
		return nil, chk.Err("cannot partition stiffness matrix: model has no free DOFs")
	}
	if len(constrained) < 1 {
		return nil, chk.Err("cannot partition stiffness matrix: model has no prescribed displacements")
	}
	rows, cols := free, free
	if rowsConstrained {
		rows = constrained
	}
	if colsConstrained {
		cols = constrained
	}
	return kg.SubMatrix(rows, cols)
}

// BuildK11 returns the free x free block
func (o *StiffnessBuilder) BuildK11() (*StiffnessMatrix, error) {
	return o.block(false, false)
}

// BuildK12 returns the free x constrained block
func (o *StiffnessBuilder) BuildK12() (*StiffnessMatrix, error) {
	return o.block(false, true)
}

// BuildK21 returns the constrained x free block
func (o *StiffnessBuilder) BuildK21() (*StiffnessMatrix, error) {
	return o.block(true, false)
}

// BuildK22 returns the constrained x constrained block
func (o *StiffnessBuilder) BuildK22() (*StiffnessMatrix, error) {
	return o.block(true, true)
}
