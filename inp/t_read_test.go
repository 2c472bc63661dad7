// Copyright 2020 The Gosd Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package inp

import (
	"testing"

	"github.com/cpmech/gosl/chk"
)

func verbose() {
	chk.Verbose = true
}

func Test_read01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("read01. JSON project")

	p, err := ReadProject("data/decay.json")
	if err != nil {
		tst.Errorf("ReadProject failed: %v\n", err)
		return
	}

	chk.StrAssert(p.Name, "decay")
	chk.Float64(tst, "start", 1e-15, p.SimSpecs.Start, 0)
	chk.Float64(tst, "stop", 1e-15, p.SimSpecs.Stop, 3)
	chk.Float64(tst, "dt", 1e-15, p.SimSpecs.DtFloat(), 1)
	chk.StrAssert(p.SimSpecs.Method, MethodEuler)
	chk.StrAssert(p.SimSpecs.TimeUnits, "years")

	m := p.GetModel("main")
	if m == nil {
		tst.Errorf("model 'main' not found\n")
		return
	}
	chk.IntAssert(len(m.Variables), 2)
	s := m.GetVariable("s")
	chk.StrAssert(s.Type, KindStock)
	chk.Strings(tst, "outflows", s.Outflows, []string{"drain"})
	chk.StrAssert(m.GetVariable("drain").Type, KindFlow)
}

func Test_read02(tst *testing.T) {

	//verbose()
	chk.PrintTitle("read02. YAML project with modules and dimensions")

	p, err := ReadProject("data/hares.yaml")
	if err != nil {
		tst.Errorf("ReadProject failed: %v\n", err)
		return
	}

	chk.StrAssert(p.SimSpecs.Method, MethodRK4)
	chk.Float64(tst, "dt", 1e-15, p.SimSpecs.DtFloat(), 0.25)
	chk.Float64(tst, "savestep", 1e-15, p.SimSpecs.SaveFloat(), 1)

	chk.IntAssert(len(p.Dimensions), 1)
	off, ok := p.Dimensions[0].GetOffset("south")
	if !ok {
		tst.Errorf("element 'south' not found\n")
		return
	}
	chk.IntAssert(off, 1)
	_, ok = p.Dimensions[0].GetOffset("east")
	if ok {
		tst.Errorf("element 'east' must not resolve\n")
		return
	}

	m := p.GetModel("main")
	mod := m.GetVariable("hares")
	chk.StrAssert(mod.Type, KindModule)
	chk.StrAssert(mod.Model, "hares")
	chk.IntAssert(len(mod.Refs), 1)
	chk.StrAssert(mod.Refs[0].Src, "area")
	chk.StrAssert(mod.Refs[0].Dst, "hares.area")

	sub := p.GetModel("hares")
	pop := sub.GetVariable("population")
	if !pop.NonNeg {
		tst.Errorf("population must be non-negative\n")
		return
	}
}

func Test_read03(tst *testing.T) {

	//verbose()
	chk.PrintTitle("read03. defaults")

	p := &Project{Models: []*Model{{Name: "main"}}}
	p.SetDefaults()
	chk.StrAssert(p.SimSpecs.Method, MethodEuler)
	chk.Float64(tst, "dt", 1e-15, p.SimSpecs.DtFloat(), 1)
	chk.Float64(tst, "savestep", 1e-15, p.SimSpecs.SaveFloat(), 1)

	// a missing file is an error, not a panic
	_, err := ReadProject("data/does-not-exist.json")
	if err == nil {
		tst.Errorf("expected error for missing file\n")
	}
}
