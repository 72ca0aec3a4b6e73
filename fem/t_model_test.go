// Copyright 2022 The Gofes Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fem

import (
	"testing"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
)

func Test_dof01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("dof01. keys, ordering and formatting")

	if !KnownDofKey("ux") || !KnownDofKey("rz") {
		tst.Errorf("standard component keys must be recognised")
		return
	}
	if KnownDofKey("temperature") {
		tst.Errorf("unknown component keys must be rejected")
		return
	}

	d := Dof{3, "uy"}
	if d.String() != "3:uy" {
		tst.Errorf("Dof string %q is incorrect", d.String())
		return
	}

	// ordering: node id first, then component
	if !DofLess(Dof{1, "rz"}, Dof{2, "ux"}) {
		tst.Errorf("lower node id must order first")
		return
	}
	if !DofLess(Dof{1, "ux"}, Dof{1, "uz"}) {
		tst.Errorf("components must order ux, uy, uz, rx, ry, rz")
		return
	}

	dofs := []Dof{{2, "ux"}, {1, "uz"}, {1, "ux"}}
	SortDofs(dofs)
	chk.IntAssert(dofs[0].Node, 1)
	if dofs[0].Key != "ux" || dofs[1].Key != "uz" || dofs[2].Node != 2 {
		tst.Errorf("sorted order %v is incorrect", dofs)
		return
	}
	io.Pf("dofs = %v\n", dofs)
}

func Test_mesh01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("mesh01. construction and input validation")

	if _, err := NewMesh(0); err == nil {
		tst.Errorf("NewMesh should fail with invalid dimension")
		return
	}

	msh, err := NewMesh(1)
	if err != nil {
		tst.Errorf("NewMesh failed:\n%v", err)
		return
	}
	if _, err := msh.AddNode(0, 0.0); err != nil {
		tst.Errorf("AddNode failed:\n%v", err)
		return
	}
	if _, err := msh.AddNode(0, 1.0); err == nil {
		tst.Errorf("AddNode should fail with duplicate id")
		return
	}
	if _, err := msh.AddNode(1, 1.0, 2.0); err == nil {
		tst.Errorf("AddNode should fail with wrong number of coordinates")
		return
	}
	if msh.GetNode(0) == nil || msh.GetNode(9) != nil {
		tst.Errorf("GetNode lookup is incorrect")
		return
	}
	if _, err := msh.AddNode(1, 1.0); err != nil {
		tst.Errorf("AddNode failed:\n%v", err)
		return
	}

	// element validation
	bar := [][]float64{{1, -1}, {-1, 1}}
	if err := msh.AddElement([]Dof{{0, "ux"}, {9, "ux"}}, bar); err == nil {
		tst.Errorf("AddElement should fail with unknown node")
		return
	}
	if err := msh.AddElement([]Dof{{0, "ux"}, {1, "vorticity"}}, bar); err == nil {
		tst.Errorf("AddElement should fail with unknown DOF key")
		return
	}
	if err := msh.AddElement([]Dof{{0, "ux"}, {0, "ux"}}, bar); err == nil {
		tst.Errorf("AddElement should fail with a repeated DOF")
		return
	}
	if err := msh.AddElement([]Dof{{0, "ux"}, {1, "ux"}}, [][]float64{{1, -1}}); err == nil {
		tst.Errorf("AddElement should fail with a non-square matrix")
		return
	}
	if err := msh.AddElement([]Dof{{0, "ux"}, {1, "ux"}}, bar); err != nil {
		tst.Errorf("AddElement failed:\n%v", err)
		return
	}
	chk.IntAssert(msh.NumNodes(), 2)
	chk.IntAssert(msh.NumElements(), 1)

	// loads accumulate at the same DOF
	if err := msh.SetLoad(9, "ux", 1); err == nil {
		tst.Errorf("SetLoad should fail with unknown node")
		return
	}
	if err := msh.SetLoad(1, "ux", 10); err != nil {
		tst.Errorf("SetLoad failed:\n%v", err)
		return
	}
	if err := msh.SetLoad(1, "ux", 5); err != nil {
		tst.Errorf("SetLoad failed:\n%v", err)
		return
	}
	fk, err := msh.KnownForceVector()
	if err != nil {
		tst.Errorf("KnownForceVector failed:\n%v", err)
		return
	}
	v, err := fk.KeyValue(Dof{1, "ux"})
	if err != nil {
		tst.Errorf("KeyValue failed:\n%v", err)
		return
	}
	chk.Float64(tst, "accumulated load", 1e-17, v, 15)

	if err := msh.SetPrescribedDisplacement(9, "ux", 0); err == nil {
		tst.Errorf("SetPrescribedDisplacement should fail with unknown node")
		return
	}
}

func Test_mesh02(tst *testing.T) {

	//verbose()
	chk.PrintTitle("mesh02. DOF classification")

	// chain of two bars: node 0 supported, node 2 with prescribed motion
	msh, _ := NewMesh(1)
	msh.AddNode(0, 0.0)
	msh.AddNode(1, 1.0)
	msh.AddNode(2, 2.0)
	msh.AddElement([]Dof{{0, "ux"}, {1, "ux"}}, [][]float64{{100, -100}, {-100, 100}})
	msh.AddElement([]Dof{{1, "ux"}, {2, "ux"}}, [][]float64{{200, -200}, {-200, 200}})
	msh.SetSupport(0, "ux")
	msh.SetPrescribedDisplacement(2, "ux", 0.1)
	msh.SetLoad(1, "ux", 50)

	all := msh.AllDofs()
	chk.IntAssert(len(all), 3)
	free := msh.UnknownDisplacementDofs()
	chk.IntAssert(len(free), 1)
	if free[0] != (Dof{1, "ux"}) {
		tst.Errorf("free DOFs %v are incorrect", free)
		return
	}
	constrained, err := msh.KnownDisplacementDofs()
	if err != nil {
		tst.Errorf("KnownDisplacementDofs failed:\n%v", err)
		return
	}
	chk.IntAssert(len(constrained), 2)
	if constrained[0] != (Dof{0, "ux"}) || constrained[1] != (Dof{2, "ux"}) {
		tst.Errorf("constrained DOFs %v are incorrect", constrained)
		return
	}

	uk, err := msh.KnownDisplacementVector()
	if err != nil {
		tst.Errorf("KnownDisplacementVector failed:\n%v", err)
		return
	}
	chk.Array(tst, "uk", 1e-17, []float64{uk.At(0), uk.At(1)}, []float64{0, 0.1})

	// combined forces report zero where nothing is applied
	ext, err := msh.CombinedForcesAt(constrained)
	if err != nil {
		tst.Errorf("CombinedForcesAt failed:\n%v", err)
		return
	}
	chk.Array(tst, "ext at supports", 1e-17, []float64{ext.At(0), ext.At(1)}, []float64{0, 0})

	// a prescribed DOF with no element row cannot be partitioned
	msh.SetSupport(0, "uy")
	if _, err := msh.KnownDisplacementDofs(); err == nil {
		tst.Errorf("KnownDisplacementDofs should fail with an unconnected prescribed DOF")
		return
	}
}

func Test_mesh03(tst *testing.T) {

	//verbose()
	chk.PrintTitle("mesh03. assembly and partition blocks")

	msh, _ := NewMesh(1)
	msh.AddNode(0, 0.0)
	msh.AddNode(1, 1.0)
	msh.AddNode(2, 2.0)
	msh.AddElement([]Dof{{0, "ux"}, {1, "ux"}}, [][]float64{{100, -100}, {-100, 100}})
	msh.AddElement([]Dof{{1, "ux"}, {2, "ux"}}, [][]float64{{200, -200}, {-200, 200}})
	msh.SetSupport(0, "ux")
	msh.SetSupport(2, "ux")

	builder, err := NewStiffnessBuilder(msh)
	if err != nil {
		tst.Errorf("NewStiffnessBuilder failed:\n%v", err)
		return
	}
	if _, err := NewStiffnessBuilder(nil); err == nil {
		tst.Errorf("NewStiffnessBuilder should fail with nil mesh")
		return
	}

	// shared DOF 1:ux sums both element contributions
	kg, err := builder.Assemble()
	if err != nil {
		tst.Errorf("Assemble failed:\n%v", err)
		return
	}
	chk.IntAssert(kg.Nrow(), 3)
	v, _ := kg.KeyValue(Dof{1, "ux"}, Dof{1, "ux"})
	chk.Float64(tst, "K[1:ux][1:ux]", 1e-17, v, 300)
	v, _ = kg.KeyValue(Dof{0, "ux"}, Dof{2, "ux"})
	chk.Float64(tst, "K[0:ux][2:ux]", 1e-17, v, 0)

	// block shapes and key identities
	k11, err := builder.BuildK11()
	if err != nil {
		tst.Errorf("BuildK11 failed:\n%v", err)
		return
	}
	chk.IntAssert(k11.Nrow(), 1)
	chk.IntAssert(k11.Ncol(), 1)
	chk.Float64(tst, "K11", 1e-17, k11.At(0, 0), 300)

	k12, err := builder.BuildK12()
	if err != nil {
		tst.Errorf("BuildK12 failed:\n%v", err)
		return
	}
	chk.IntAssert(k12.Nrow(), 1)
	chk.IntAssert(k12.Ncol(), 2)
	chk.Array(tst, "K12", 1e-17, []float64{k12.At(0, 0), k12.At(0, 1)}, []float64{-100, -200})
	if k12.RowKeys()[0] != (Dof{1, "ux"}) || k12.ColKeys()[1] != (Dof{2, "ux"}) {
		tst.Errorf("K12 keys do not follow the free/constrained classification")
		return
	}

	k21, err := builder.BuildK21()
	if err != nil {
		tst.Errorf("BuildK21 failed:\n%v", err)
		return
	}
	chk.Array(tst, "K21", 1e-17, []float64{k21.At(0, 0), k21.At(1, 0)}, []float64{-100, -200})

	k22, err := builder.BuildK22()
	if err != nil {
		tst.Errorf("BuildK22 failed:\n%v", err)
		return
	}
	chk.Array(tst, "K22 diag", 1e-17, []float64{k22.At(0, 0), k22.At(1, 1)}, []float64{100, 200})
	chk.Float64(tst, "K22 off-diag", 1e-17, k22.At(0, 1), 0)

	// partitioning needs both classes to be non-empty
	bare, _ := NewMesh(1)
	bare.AddNode(0, 0.0)
	bare.AddNode(1, 1.0)
	bare.AddElement([]Dof{{0, "ux"}, {1, "ux"}}, [][]float64{{1, -1}, {-1, 1}})
	bb, _ := NewStiffnessBuilder(bare)
	if _, err := bb.BuildK11(); err == nil {
		tst.Errorf("BuildK11 should fail without prescribed displacements")
		return
	}
}
