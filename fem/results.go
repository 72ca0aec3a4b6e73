// Copyright 2022 The Gofes Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fem

import (
	"github.com/cpmech/gosl/chk"

	"github.com/cpmech/gofes/kla"
)

// Results holds the outcome of a solve: displacements at the free DOFs and
// total reactions at the constrained DOFs. Entries are written once at
// construction (key uniqueness is guaranteed by the keyed vectors) and read
// through the node/component queries.
type Results struct {
	displacements *kla.Vector[Dof]
	reactions     *kla.Vector[Dof]
}

// NewResults packages the two solution vectors. Both must be non-nil.
func NewResults(displacements, reactions *kla.Vector[Dof]) (*Results, error) {
	if displacements == nil {
		return nil, chk.Err("displacements vector cannot be nil")
	}
	if reactions == nil {
		return nil, chk.Err("reactions vector cannot be nil")
	}
	return &Results{displacements: displacements, reactions: reactions}, nil
}

// Displacements returns the displacement vector keyed by the free DOFs
func (o *Results) Displacements() *kla.Vector[Dof] {
	return o.displacements
}

// Reactions returns the total reaction vector keyed by the constrained DOFs
func (o *Results) Reactions() *kla.Vector[Dof] {
	return o.reactions
}

// Displacement returns the computed displacement at one DOF
func (o *Results) Displacement(nodeId int, key string) (float64, error) {
	return o.displacements.KeyValue(Dof{nodeId, key})
}

// Reaction returns the total reaction at one DOF, including any externally
// applied force at that DOF
func (o *Results) Reaction(nodeId int, key string) (float64, error) {
	return o.reactions.KeyValue(Dof{nodeId, key})
}
