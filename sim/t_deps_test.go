// Copyright 2020 The Gosd Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package sim

import (
	"sort"
	"testing"

	"github.com/cpmech/gosl/chk"

	"github.com/cpmech/gosd/inp"
)

func verbose() {
	chk.Verbose = true
}

// declarative variable builders /////////////////////////////////////////////////////////////////

func xaux(name, eqn string) *inp.Variable {
	return &inp.Variable{Name: name, Type: inp.KindAux, Eqn: eqn}
}

func xflow(name, eqn string) *inp.Variable {
	return &inp.Variable{Name: name, Type: inp.KindFlow, Eqn: eqn}
}

func xstock(name, eqn string, inflows, outflows []string) *inp.Variable {
	return &inp.Variable{Name: name, Type: inp.KindStock, Eqn: eqn, Inflows: inflows, Outflows: outflows}
}

func xmodule(name, model string, refs ...*inp.ModuleReference) *inp.Variable {
	return &inp.Variable{Name: name, Type: inp.KindModule, Model: model, Refs: refs}
}

// pv parses one declarative variable, failing the test on errors
func pv(tst *testing.T, xv *inp.Variable) *Variable {
	v, err := ParseVar(xv, "main", nil)
	if err != nil {
		tst.Fatalf("ParseVar(%s) failed: %v\n", xv.Name, err)
	}
	if len(v.Errors) > 0 {
		tst.Fatalf("ParseVar(%s) has equation errors: %v\n", xv.Name, v.Errors)
	}
	return v
}

// checkDeps compares the dep-set of one variable against the expected idents
func checkDeps(tst *testing.T, deps map[string]map[string]bool, ident string, correct []string) {
	set, ok := deps[ident]
	if !ok {
		tst.Errorf("no dep-set for %q\n", ident)
		return
	}
	got := make([]string, 0, len(set))
	for d := range set {
		got = append(got, d)
	}
	sort.Strings(got)
	sort.Strings(correct)
	if correct == nil {
		correct = []string{}
	}
	chk.Strings(tst, "deps of "+ident, got, correct)
}

// depsEqual compares two dependency maps
func depsEqual(a, b map[string]map[string]bool) bool {
	if len(a) != len(b) {
		return false
	}
	for k, sa := range a {
		sb, ok := b[k]
		if !ok || len(sa) != len(sb) {
			return false
		}
		for d := range sa {
			if !sb[d] {
				return false
			}
		}
	}
	return true
}

// tests /////////////////////////////////////////////////////////////////////////////////////////

func Test_deps01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("deps01. module prefixes and transitive closure")

	mod1 := pv(tst, xmodule("mod_1", "mod_1", &inp.ModuleReference{Src: "aux_3", Dst: "mod_1.input"}))
	aux3 := pv(tst, xaux("aux_3", "6"))
	inflow := pv(tst, xflow("inflow", "mod_1.output"))
	vars := []*Variable{inflow, mod1, aux3}

	deps, err := allDeps(vars, false)
	if err != nil {
		tst.Errorf("allDeps failed: %v\n", err)
		return
	}
	checkDeps(tst, deps, "inflow", []string{"mod_1", "aux_3"})
	checkDeps(tst, deps, "mod_1", []string{"aux_3"})
	checkDeps(tst, deps, "aux_3", nil)
}

func Test_deps02(tst *testing.T) {

	//verbose()
	chk.PrintTitle("deps02. stock cuts at the dt pass, kept at the initial pass")

	auxInit := pv(tst, xaux("aux_used_in_initial", "7"))
	aux2 := pv(tst, xaux("aux_2", "aux_used_in_initial"))
	aux3 := pv(tst, xaux("aux_3", "aux_2"))
	aux4 := pv(tst, xaux("aux_4", "aux_2"))
	inflow := pv(tst, xflow("inflow", "aux_3 + aux_4"))
	outflow := pv(tst, xflow("outflow", "stock_1"))
	stock1 := pv(tst, xstock("stock_1", "aux_used_in_initial", []string{"inflow"}, []string{"outflow"}))
	vars := []*Variable{auxInit, aux2, aux3, aux4, inflow, outflow, stock1}

	// dt pass: the stock is a source and edges into it are removed
	deps, err := allDeps(vars, false)
	if err != nil {
		tst.Errorf("allDeps failed: %v\n", err)
		return
	}
	checkDeps(tst, deps, "aux_used_in_initial", nil)
	checkDeps(tst, deps, "aux_2", []string{"aux_used_in_initial"})
	checkDeps(tst, deps, "aux_3", []string{"aux_used_in_initial", "aux_2"})
	checkDeps(tst, deps, "aux_4", []string{"aux_used_in_initial", "aux_2"})
	checkDeps(tst, deps, "inflow", []string{"aux_used_in_initial", "aux_2", "aux_3", "aux_4"})
	checkDeps(tst, deps, "outflow", nil)
	checkDeps(tst, deps, "stock_1", nil)

	// initial pass: stocks are ordinary nodes
	ideps, err := allDeps(vars, true)
	if err != nil {
		tst.Errorf("allDeps failed: %v\n", err)
		return
	}
	checkDeps(tst, ideps, "outflow", []string{"stock_1", "aux_used_in_initial"})
	checkDeps(tst, ideps, "stock_1", []string{"aux_used_in_initial"})
}

func Test_deps03(tst *testing.T) {

	//verbose()
	chk.PrintTitle("deps03. determinism: any permutation gives the same map")

	vars := []*Variable{
		pv(tst, xaux("a", "b + c")),
		pv(tst, xaux("b", "c")),
		pv(tst, xaux("c", "5")),
		pv(tst, xflow("f", "a * b")),
		pv(tst, xstock("s", "a", []string{"f"}, nil)),
	}
	ref, err := allDeps(vars, false)
	if err != nil {
		tst.Errorf("allDeps failed: %v\n", err)
		return
	}

	// rotations and the reversal exercise different recursion orders
	n := len(vars)
	for shift := 1; shift < n; shift++ {
		perm := append(append([]*Variable{}, vars[shift:]...), vars[:shift]...)
		deps, err := allDeps(perm, false)
		if err != nil {
			tst.Errorf("allDeps failed: %v\n", err)
			return
		}
		if !depsEqual(ref, deps) {
			tst.Errorf("dep map changed under rotation by %d\n", shift)
			return
		}
	}
	rev := make([]*Variable, n)
	for i, v := range vars {
		rev[n-1-i] = v
	}
	deps, err := allDeps(rev, false)
	if err != nil {
		tst.Errorf("allDeps failed: %v\n", err)
		return
	}
	if !depsEqual(ref, deps) {
		tst.Errorf("dep map changed under reversal\n")
	}
}

func Test_deps04(tst *testing.T) {

	//verbose()
	chk.PrintTitle("deps04. cycles are rejected, not recursed into")

	// self-reference
	a := pv(tst, xaux("a", "a"))
	_, err := allDeps([]*Variable{a}, false)
	if err == nil {
		tst.Errorf("expected CircularDependency for a = a\n")
		return
	}
	chk.IntAssert(int(err.Code), int(CircularDependency))

	// mutual cycle
	a = pv(tst, xaux("a", "b"))
	b := pv(tst, xaux("b", "a"))
	_, err = allDeps([]*Variable{a, b}, false)
	if err == nil {
		tst.Errorf("expected CircularDependency for a = b, b = a\n")
		return
	}
	chk.IntAssert(int(err.Code), int(CircularDependency))

	// a cycle through a stock is fine at the dt pass...
	f := pv(tst, xflow("f", "s * 0.1"))
	s := pv(tst, xstock("s", "10", []string{"f"}, nil))
	_, err = allDeps([]*Variable{f, s}, false)
	if err != nil {
		tst.Errorf("stock cut should break the loop: %v\n", err)
		return
	}

	// ...and still fine at the initial pass, because the flow edge is not an
	// equation dependency of the stock
	_, err = allDeps([]*Variable{f, s}, true)
	if err != nil {
		tst.Errorf("initial pass should not loop here: %v\n", err)
	}
}

func Test_deps05(tst *testing.T) {

	//verbose()
	chk.PrintTitle("deps05. absolute references and unresolved names")

	// a dep starting with \. is rejected
	a := pv(tst, xaux("a", "\\.global.x"))
	_, err := allDeps([]*Variable{a}, false)
	if err == nil {
		tst.Errorf("expected NoAbsoluteReferences\n")
		return
	}
	chk.IntAssert(int(err.Code), int(NoAbsoluteReferences))

	// a ref not present in the model is silently ignored: it is assumed to
	// resolve in the enclosing scope
	b := pv(tst, xaux("b", "somewhere_else + 1"))
	deps, err := allDeps([]*Variable{b}, false)
	if err != nil {
		tst.Errorf("allDeps failed: %v\n", err)
		return
	}
	checkDeps(tst, deps, "b", nil)
}

func Test_deps06(tst *testing.T) {

	//verbose()
	chk.PrintTitle("deps06. a model with a bad equation is kept and tagged")

	m := &inp.Model{Name: "main", Variables: []*inp.Variable{
		xaux("good", "2 * bad"),
		xaux("bad", "1 + "),
	}}
	mdl := NewModel(m, nil)

	// the broken variable is retained with an empty dep-set
	if mdl.Variables["bad"] == nil {
		tst.Errorf("variable with bad equation was dropped\n")
		return
	}
	chk.IntAssert(len(mdl.Variables["bad"].DirectDeps), 0)

	// the model is tagged but still analysed
	found := false
	for _, e := range mdl.Errors {
		if e.Code == VariablesHaveErrors {
			found = true
		}
	}
	if !found {
		tst.Errorf("expected VariablesHaveErrors tag\n")
		return
	}
	if mdl.DtDeps == nil {
		tst.Errorf("model with variable errors must still be analysed\n")
		return
	}
	checkDeps(tst, mdl.DtDeps, "good", []string{"bad"})
}
