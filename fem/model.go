// Copyright 2022 The Gofes Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fem

import (
	"github.com/cpmech/gosl/chk"

	"github.com/cpmech/gofes/kla"
)

// Model is the solver-facing view of a finite element model. Every DOF
// referenced by the model is exactly one of known-force (free, possibly with
// an applied load) or known-displacement (constrained); the classification
// must be exhaustive and disjoint, and the key ordering of the returned
// vectors must match the ordering used by the matrix builder's blocks.
type Model interface {

	// NumNodes returns the number of nodes
	NumNodes() int

	// NumElements returns the number of elements
	NumElements() int

	// KnownForceVector returns the applied forces at all
	// unknown-displacement DOFs, in classification order
	KnownForceVector() (*kla.Vector[Dof], error)

	// KnownDisplacementVector returns the prescribed displacements at all
	// known-displacement DOFs, in classification order
	KnownDisplacementVector() (*kla.Vector[Dof], error)

	// CombinedForcesAt returns the sum of externally applied forces at each
	// of the given DOFs (zero where nothing is applied)
	CombinedForcesAt(keys []Dof) (*kla.Vector[Dof], error)
}

// Node holds one mesh vertex
type Node struct {
	Id int       // external id
	X  []float64 // coordinates [ndim]
}

// elemContrib is one element stiffness contribution: a square matrix keyed by
// the element's DOFs, ready to be scatter-added into the global matrix
type elemContrib struct {
	dofs []Dof
	k    [][]float64
}

// Mesh implements Model for models built in memory: nodes, element stiffness
// contributions, point loads and prescribed displacements. Element stiffness
// matrices are computed by the caller (per-element formulas stay outside this
// package); Mesh only records and assembles them.
type Mesh struct {
	Ndim    int
	nodes   []*Node
	id2node map[int]*Node
	elems   []elemContrib
	loads   map[Dof]float64
	presc   map[Dof]float64
	dofs    map[Dof]bool // all DOFs referenced by elements
}

// NewMesh returns a new empty mesh with the given space dimension (1, 2 or 3)
func NewMesh(ndim int) (*Mesh, error) {
	if ndim < 1 || ndim > 3 {
		return nil, chk.Err("space dimension must be 1, 2 or 3 (%d given)", ndim)
	}
	o := new(Mesh)
	o.Ndim = ndim
	o.id2node = make(map[int]*Node)
	o.loads = make(map[Dof]float64)
	o.presc = make(map[Dof]float64)
	o.dofs = make(map[Dof]bool)
	return o, nil
}

// AddNode adds a node with the given id and coordinates
func (o *Mesh) AddNode(id int, x ...float64) (*Node, error) {
	if _, dup := o.id2node[id]; dup {
		return nil, chk.Err("node with id %d already exists", id)
	}
	if len(x) != o.Ndim {
		return nil, chk.Err("node %d needs %d coordinates (%d given)", id, o.Ndim, len(x))
	}
	nod := &Node{Id: id, X: append([]float64{}, x...)}
	o.nodes = append(o.nodes, nod)
	o.id2node[id] = nod
	return nod, nil
}

// GetNode returns the node with the given id, or nil
func (o *Mesh) GetNode(id int) *Node {
	return o.id2node[id]
}

// AddElement records one element stiffness contribution: k is the element
// stiffness matrix keyed (rows and columns alike) by dofs. The referenced
// nodes must exist and the component keys must be valid.
func (o *Mesh) AddElement(dofs []Dof, k [][]float64) error {
	if len(dofs) < 1 {
		return chk.Err("element must reference at least one DOF")
	}
	if len(k) != len(dofs) {
		return chk.Err("element stiffness matrix has %d rows for %d DOFs", len(k), len(dofs))
	}
	seen := make(map[Dof]bool, len(dofs))
	for _, dof := range dofs {
		if o.id2node[dof.Node] == nil {
			return chk.Err("element references unknown node %d", dof.Node)
		}
		if !KnownDofKey(dof.Key) {
			return chk.Err("element references unknown DOF key %q", dof.Key)
		}
		if seen[dof] {
			return chk.Err("element references DOF %v twice", dof)
		}
		seen[dof] = true
	}
	for i, row := range k {
		if len(row) != len(dofs) {
			return chk.Err("element stiffness matrix row %d has %d columns for %d DOFs", i, len(row), len(dofs))
		}
	}
	kk := make([][]float64, len(k))
	for i, row := range k {
		kk[i] = append([]float64{}, row...)
	}
	dd := append([]Dof{}, dofs...)
	o.elems = append(o.elems, elemContrib{dofs: dd, k: kk})
	for _, dof := range dd {
		o.dofs[dof] = true
	}
	return nil
}

// SetLoad accumulates an externally applied point force at a DOF. Applying
// several loads to the same DOF sums them; loads at constrained DOFs are
// legal and are reported as part of the total reaction.
func (o *Mesh) SetLoad(nodeId int, key string, f float64) error {
	if o.id2node[nodeId] == nil {
		return chk.Err("cannot apply load: unknown node %d", nodeId)
	}
	if !KnownDofKey(key) {
		return chk.Err("cannot apply load: unknown DOF key %q", key)
	}
	o.loads[Dof{nodeId, key}] += f
	return nil
}

// SetSupport prescribes zero displacement at the given components of a node
func (o *Mesh) SetSupport(nodeId int, keys ...string) error {
	for _, key := range keys {
		if err := o.SetPrescribedDisplacement(nodeId, key, 0); err != nil {
			return err
		}
	}
	return nil
}

// SetPrescribedDisplacement prescribes the displacement at one DOF, making it
// a known-displacement (unknown-force) DOF
func (o *Mesh) SetPrescribedDisplacement(nodeId int, key string, u float64) error {
	if o.id2node[nodeId] == nil {
		return chk.Err("cannot prescribe displacement: unknown node %d", nodeId)
	}
	if !KnownDofKey(key) {
		return chk.Err("cannot prescribe displacement: unknown DOF key %q", key)
	}
	o.presc[Dof{nodeId, key}] = u
	return nil
}

// NumNodes returns the number of nodes
func (o *Mesh) NumNodes() int {
	return len(o.nodes)
}

// NumElements returns the number of element contributions
func (o *Mesh) NumElements() int {
	return len(o.elems)
}

// AllDofs returns all DOFs referenced by elements, in display order
func (o *Mesh) AllDofs() []Dof {
	all := make([]Dof, 0, len(o.dofs))
	for dof := range o.dofs {
		all = append(all, dof)
	}
	SortDofs(all)
	return all
}

// UnknownDisplacementDofs returns the free (known-force) DOFs in display order
func (o *Mesh) UnknownDisplacementDofs() []Dof {
	free := make([]Dof, 0, len(o.dofs))
	for dof := range o.dofs {
		if _, constrained := o.presc[dof]; !constrained {
			free = append(free, dof)
		}
	}
	SortDofs(free)
	return free
}

// KnownDisplacementDofs returns the constrained (unknown-force) DOFs in
// display order. Fails if a prescribed DOF is not referenced by any element,
// since such a DOF has no stiffness row to partition.
func (o *Mesh) KnownDisplacementDofs() ([]Dof, error) {
	constrained := make([]Dof, 0, len(o.presc))
	for dof := range o.presc {
		if !o.dofs[dof] {
			return nil, chk.Err("prescribed DOF %v is not connected to any element", dof)
		}
		constrained = append(constrained, dof)
	}
	SortDofs(constrained)
	return constrained, nil
}

// KnownForceVector returns the applied forces at the free DOFs
func (o *Mesh) KnownForceVector() (*kla.Vector[Dof], error) {
	free := o.UnknownDisplacementDofs()
	if len(free) < 1 {
		return nil, chk.Err("model has no free DOFs; every displacement is prescribed")
	}
	vec, err := kla.NewVector(free)
	if err != nil {
		return nil, err
	}
	for i, dof := range free {
		vec.Set(i, o.loads[dof])
	}
	return vec, nil
}

// KnownDisplacementVector returns the prescribed displacements at the
// constrained DOFs
func (o *Mesh) KnownDisplacementVector() (*kla.Vector[Dof], error) {
	constrained, err := o.KnownDisplacementDofs()
	if err != nil {
		return nil, err
	}
	if len(constrained) < 1 {
		return nil, chk.Err("model has no prescribed displacements; the structure is unconstrained")
	}
	vec, err := kla.NewVector(constrained)
	if err != nil {
		return nil, err
	}
	for i, dof := range constrained {
		vec.Set(i, o.presc[dof])
	}
	return vec, nil
}

// CombinedForcesAt returns the sum of externally applied forces at each of
// the given DOFs
func (o *Mesh) CombinedForcesAt(keys []Dof) (*kla.Vector[Dof], error) {
	vec, err := kla.NewVector(keys)
	if err != nil {
		return nil, chk.Err("cannot build combined forces vector:\n%v", err)
	}
	for i, dof := range keys {
		vec.Set(i, o.loads[dof])
	}
	return vec, nil
}
