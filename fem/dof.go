// Copyright 2022 The Gofes Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package fem implements a partitioned solver for static linear finite
// element problems. The global stiffness equation K·U = F is split into
// blocks according to which degrees of freedom have known forces and which
// have known (prescribed) displacements; the solver then computes the unknown
// displacements and the support reactions.
package fem

import (
	"sort"

	"github.com/cpmech/gosl/io"
)

// Dof identifies one degree of freedom: a scalar component of motion or force
// at a node. Equality is value-based, so Dof works directly as a key in the
// keyed linear algebra containers.
type Dof struct {
	Node int    // node id
	Key  string // component key: "ux", "uy", "uz", "rx", "ry" or "rz"
}

// dofKeyNum maps component keys to their display order
var dofKeyNum = map[string]int{"ux": 0, "uy": 1, "uz": 2, "rx": 3, "ry": 4, "rz": 5}

// KnownDofKey tells whether key is one of the recognised component keys
func KnownDofKey(key string) bool {
	_, ok := dofKeyNum[key]
	return ok
}

// String returns "node:key"; e.g. "3:ux"
func (o Dof) String() string {
	return io.Sf("%d:%s", o.Node, o.Key)
}

// DofLess defines the display ordering: by node id, then by component. The
// ordering carries no physical meaning but keeps partition blocks and their
// vectors consistently keyed.
func DofLess(a, b Dof) bool {
	if a.Node != b.Node {
		return a.Node < b.Node
	}
	return dofKeyNum[a.Key] < dofKeyNum[b.Key]
}

// SortDofs sorts dofs in place using the display ordering
func SortDofs(dofs []Dof) {
	sort.Slice(dofs, func(i, j int) bool { return DofLess(dofs[i], dofs[j]) })
}
