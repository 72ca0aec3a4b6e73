// Copyright 2022 The Gofes Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package kla

import (
	"testing"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
	"github.com/cpmech/gosl/utl"
)

func Test_vector01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("vector01. construction and access")

	// empty keys are rejected
	if _, err := NewVector([]string{}); err == nil {
		tst.Errorf("NewVector should fail with no keys")
		return
	}

	// duplicate keys are rejected
	if _, err := NewVector([]string{"a", "b", "a"}); err == nil {
		tst.Errorf("NewVector should fail with duplicate keys")
		return
	}

	u, err := NewVector([]string{"a", "b", "c"})
	if err != nil {
		tst.Errorf("NewVector failed:\n%v", err)
		return
	}
	chk.IntAssert(u.Len(), 3)

	// unchecked access
	u.Set(0, 1)
	u.Set(1, 2)
	u.Set(2, 3)
	chk.Array(tst, "u", 1e-17, []float64{u.At(0), u.At(1), u.At(2)}, []float64{1, 2, 3})

	// checked access validates the index
	if _, err := u.Value(3); err == nil {
		tst.Errorf("Value should fail with out-of-range index")
		return
	}
	if err := u.SetValue(-1, 0); err == nil {
		tst.Errorf("SetValue should fail with out-of-range index")
		return
	}
	v, err := u.Value(1)
	if err != nil {
		tst.Errorf("Value failed:\n%v", err)
		return
	}
	chk.Float64(tst, "u[1]", 1e-17, v, 2)

	// access by key
	if err := u.SetKeyValue("c", 30); err != nil {
		tst.Errorf("SetKeyValue failed:\n%v", err)
		return
	}
	v, err = u.KeyValue("c")
	if err != nil {
		tst.Errorf("KeyValue failed:\n%v", err)
		return
	}
	chk.Float64(tst, "u[c]", 1e-17, v, 30)
	if _, err := u.KeyValue("z"); err == nil {
		tst.Errorf("KeyValue should fail with unknown key")
		return
	}

	// key index is stable
	i, found := u.Index("b")
	if !found || i != 1 {
		tst.Errorf("Index(b) = (%d,%v) is incorrect", i, found)
		return
	}

	// clear
	u.Clear()
	chk.Array(tst, "u after clear", 1e-17, []float64{u.At(0), u.At(1), u.At(2)}, []float64{0, 0, 0})
}

func Test_vector02(tst *testing.T) {

	//verbose()
	chk.PrintTitle("vector02. equality and hashing")

	a, _ := NewVector([]string{"x", "y"})
	b, _ := NewVector([]string{"x", "y"})
	c, _ := NewVector([]string{"y", "x"})
	a.Set(0, 1)
	a.Set(1, 2)
	b.Set(0, 1)
	b.Set(1, 2)
	c.Set(0, 1)
	c.Set(1, 2)

	if !a.Equal(a) {
		tst.Errorf("vector must equal itself")
		return
	}
	if !a.Equal(b) {
		tst.Errorf("vectors with same keys and elements must be equal")
		return
	}
	if a.Equal(c) {
		tst.Errorf("vectors with reordered keys must not be equal")
		return
	}
	if a.Equal(nil) {
		tst.Errorf("vector must not equal nil")
		return
	}
	if a.Hash() != b.Hash() {
		tst.Errorf("equal vectors must hash equal")
		return
	}

	// hashing samples the first 25 elements only: vectors differing beyond
	// the sample hash equal without being equal
	keys := utl.IntRange(30)
	big1, _ := NewVector(keys)
	big2, _ := NewVector(keys)
	big2.Set(29, 123)
	if big1.Hash() != big2.Hash() {
		tst.Errorf("vectors differing beyond the hash sample must hash equal")
		return
	}
	if big1.Equal(big2) {
		tst.Errorf("vectors differing beyond the hash sample are still unequal")
		return
	}
	io.Pf("hash(a) = %x\n", a.Hash())
}

func Test_vector03(tst *testing.T) {

	//verbose()
	chk.PrintTitle("vector03. copy and sub-range copy")

	src, _ := NewVector([]string{"a", "b", "c", "d"})
	for i := 0; i < 4; i++ {
		src.Set(i, float64(i+1))
	}

	// full copy requires matching lengths
	short, _ := NewVector([]string{"a", "b"})
	if err := src.CopyTo(short); err == nil {
		tst.Errorf("CopyTo should fail with mismatched lengths")
		return
	}

	// copy onto itself is a no-op
	if err := src.CopyTo(src); err != nil {
		tst.Errorf("CopyTo onto itself failed:\n%v", err)
		return
	}

	dst, _ := NewVector([]string{"w", "x", "y", "z"})
	if err := src.CopyTo(dst); err != nil {
		tst.Errorf("CopyTo failed:\n%v", err)
		return
	}
	chk.Array(tst, "dst", 1e-17, []float64{dst.At(0), dst.At(1), dst.At(2), dst.At(3)}, []float64{1, 2, 3, 4})

	// overlapping sub-range copy within the same instance must not corrupt
	// the data: shift {1,2,3} to positions {1,2,3}
	if err := src.CopySubVectorTo(src, 0, 1, 3); err != nil {
		tst.Errorf("CopySubVectorTo failed:\n%v", err)
		return
	}
	chk.Array(tst, "src after overlap", 1e-17, []float64{src.At(0), src.At(1), src.At(2), src.At(3)}, []float64{1, 1, 2, 3})

	// out-of-range sub-copy fails
	if err := src.CopySubVectorTo(dst, 2, 0, 3); err == nil {
		tst.Errorf("CopySubVectorTo should fail with out-of-range source")
		return
	}
}

func Test_vector04(tst *testing.T) {

	//verbose()
	chk.PrintTitle("vector04. key-matched algebra")

	a, _ := NewVector([]string{"p", "q"})
	b, _ := NewVector([]string{"p", "q"})
	a.Set(0, 1)
	a.Set(1, 2)
	b.Set(0, 10)
	b.Set(1, 20)

	sum, err := a.Add(b)
	if err != nil {
		tst.Errorf("Add failed:\n%v", err)
		return
	}
	chk.Array(tst, "a+b", 1e-17, []float64{sum.At(0), sum.At(1)}, []float64{11, 22})

	dif, err := b.Sub(a)
	if err != nil {
		tst.Errorf("Sub failed:\n%v", err)
		return
	}
	chk.Array(tst, "b-a", 1e-17, []float64{dif.At(0), dif.At(1)}, []float64{9, 18})

	// operands keep their values
	chk.Array(tst, "a unchanged", 1e-17, []float64{a.At(0), a.At(1)}, []float64{1, 2})

	// mismatched keys fail loudly
	c, _ := NewVector([]string{"q", "p"})
	if _, err := a.Add(c); err == nil {
		tst.Errorf("Add should fail with mismatched key order")
		return
	}
	if _, err := a.Add(nil); err == nil {
		tst.Errorf("Add should fail with nil operand")
		return
	}

	chk.Float64(tst, "norm", 1e-15, a.Norm(), 2.23606797749979)
}
