// Copyright 2020 The Gosd Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package sim

import (
	"sort"
	"strings"

	"github.com/cpmech/gosd/eqn"
)

// Instr is one run-list instruction: evaluate a compiled expression (or a
// stock update) and store the result at a slab offset
type Instr struct {
	Off      int    // slab offset written by this instruction
	Name     string // fully-qualified identifier; e.g. "hares.births"
	Node     node   // compiled expression; nil for stock updates
	NonNeg   bool   // clamp the stored value to ≥ 0
	Inflows  []int  // stock update: offsets of inflows
	Outflows []int  // stock update: offsets of outflows
}

// Plan is the compiled form of one project entry model: the flattened slab
// layout plus the three ordered run lists. A Plan is immutable after Build
// and may be shared by any number of Simulations.
type Plan struct {
	Model    string         // name of the entry model
	Start    float64        // initial time
	Stop     float64        // final time
	Dt       float64        // time-step size
	SaveStep float64        // interval between saved rows
	Method   string         // integration method
	NSlots   int            // slab width; slot 0 is time
	Names    []string       // slot -> fully-qualified identifier; Names[0] = "time"
	Offsets  map[string]int // fully-qualified identifier -> slot
	Initials []*Instr       // initial pass, in initial-graph topological order
	Flows    []*Instr       // within-step pass, in dt-graph topological order
	Stocks   []*Instr       // stock-update pass
}

// instance is one occurrence of a model in the flattened module tree
type instance struct {
	model    *Model               // the analysed model
	prefix   string               // qualified prefix; "" for the root, "hares." below it
	bound    map[string]string    // local ident -> fully-qualified parent alias target
	children map[string]*instance // submodule instances keyed by module ident
}

// builder carries the state of one Build call
type builder struct {
	prj     *Project
	plan    *Plan
	ctx     *evalCtx
	aliases map[string]string // fq ident -> fq alias target
	offmemo map[string]int    // resolved alias offsets
}

// Build flattens the module tree of the entry model into a single slab layout
// and produces the ordered run lists. It refuses to compile a project whose
// models still carry errors.
func Build(prj *Project, modelName string) (plan *Plan, err *Error) {

	// refuse to compile anything carrying errors
	if len(prj.Errors) > 0 {
		return nil, &Error{Code: NotSimulatable, Ident: modelName, Details: prj.Errors[0].Error()}
	}
	entry := prj.GetModel(modelName)
	if entry == nil {
		return nil, &Error{Code: UnknownModel, Ident: modelName}
	}
	for name, m := range prj.Models {
		if len(m.Errors) > 0 {
			return nil, &Error{Code: NotSimulatable, Ident: name, Details: m.Errors[0].Error()}
		}
		if m.DtDeps == nil || m.InitialDeps == nil {
			return nil, &Error{Code: NotSimulatable, Ident: name, Details: "dependency analysis failed"}
		}
	}

	o := new(builder)
	o.prj = prj
	o.plan = &Plan{
		Model:    modelName,
		Start:    prj.SimSpecs.Start,
		Stop:     prj.SimSpecs.Stop,
		Dt:       prj.SimSpecs.DtFloat(),
		SaveStep: prj.SimSpecs.SaveFloat(),
		Method:   prj.SimSpecs.Method,
		Offsets:  make(map[string]int),
	}
	o.ctx = &evalCtx{dt: o.plan.Dt, start: o.plan.Start, stop: o.plan.Stop}
	o.aliases = make(map[string]string)
	o.offmemo = make(map[string]int)

	// slot 0 is time
	o.plan.Names = append(o.plan.Names, "time")
	o.plan.Offsets["time"] = 0

	// instantiate the module tree, assign offsets, then compile the run lists
	root, err := o.instantiate(entry, "", make(map[string]string))
	if err != nil {
		return nil, err
	}
	o.plan.NSlots = len(o.plan.Names)

	if o.plan.Initials, err = o.runList(root, true); err != nil {
		return nil, err
	}
	if o.plan.Flows, err = o.runList(root, false); err != nil {
		return nil, err
	}
	if o.plan.Stocks, err = o.stockList(root); err != nil {
		return nil, err
	}
	return o.plan, nil
}

// instantiate recursively creates an instance of a model, assigning a fresh
// slab offset to every unbound non-module variable. Bound variables become
// aliases of a parent slot instead.
func (o *builder) instantiate(m *Model, prefix string, bound map[string]string) (inst *instance, err *Error) {

	inst = &instance{model: m, prefix: prefix, bound: bound}
	inst.children = make(map[string]*instance)

	for _, ident := range m.VarNames() {
		v := m.Variables[ident]
		if len(v.Dims) > 0 || len(v.Elements) > 0 {
			return nil, &Error{Code: NotSimulatable, Ident: prefix + ident, Details: "arrayed variables are not supported"}
		}
		fq := prefix + ident

		switch {
		case v.Kind == KdModule:
			sub := o.prj.GetModel(v.ModelName)
			childPrefix := fq + "."
			childBound := make(map[string]string)
			for _, ref := range v.Inputs {
				// "hares.area" names input "area" of module "hares"
				dst := ref.Dst
				if eqn.FirstSegment(dst) == ident && strings.Contains(dst, ".") {
					dst = dst[len(ident)+1:]
				}
				childBound[dst] = prefix + ref.Src
				o.aliases[childPrefix+dst] = prefix + ref.Src
			}
			child, err := o.instantiate(sub, childPrefix, childBound)
			if err != nil {
				return nil, err
			}
			inst.children[ident] = child

		case bound[ident] != "":
			// bound input: reads the parent's slot; no slot of its own

		default:
			o.plan.Offsets[fq] = len(o.plan.Names)
			o.plan.Names = append(o.plan.Names, fq)
		}
	}
	return
}

// offset resolves a fully-qualified identifier to its slab offset, following
// alias chains across module boundaries
func (o *builder) offset(fq string) (off int, err *Error) {
	if off, ok := o.plan.Offsets[fq]; ok {
		return off, nil
	}
	if off, ok := o.offmemo[fq]; ok {
		return off, nil
	}
	if target, ok := o.aliases[fq]; ok {
		off, err = o.offset(target)
		if err == nil {
			o.offmemo[fq] = off
		}
		return
	}
	return 0, &Error{Code: UnknownDependency, Ident: fq}
}

// resolver returns the offset-resolution function for one instance
func (o *builder) resolver(inst *instance) func(string) (int, *Error) {
	return func(ident string) (int, *Error) {
		return o.offset(inst.prefix + ident)
	}
}

// runList compiles the ordered instruction list of one pass for an instance
// and, recursively, its submodule instances. initial selects the pass: the
// initial pass orders by the initial graph and evaluates stock init-equations;
// the dt pass orders by the dt graph and skips stocks.
func (o *builder) runList(inst *instance, initial bool) (list []*Instr, err *Error) {

	deps := inst.model.DtDeps
	if initial {
		deps = inst.model.InitialDeps
	}
	order, err := topoOrder(inst.model, deps)
	if err != nil {
		return nil, err
	}

	for _, ident := range order {
		v := inst.model.Variables[ident]

		// submodule run lists are emitted at the module's position, after the
		// module's inputs have been computed
		if v.Kind == KdModule {
			sub, err := o.runList(inst.children[ident], initial)
			if err != nil {
				return nil, err
			}
			list = append(list, sub...)
			continue
		}

		// bound inputs alias a parent slot: nothing to evaluate
		if inst.bound[ident] != "" {
			continue
		}

		expr := v.Expr
		if v.IsStock() {
			if !initial {
				continue
			}
			expr = v.Init
		}

		fq := inst.prefix + ident
		n, err := compileExpr(expr, fq, o.ctx, o.resolver(inst))
		if err != nil {
			return nil, err
		}
		if v.Gf != nil {
			tbl, err := NewLookup(v.Gf, fq)
			if err != nil {
				return nil, err
			}
			n = &nlookup{tbl: tbl, x: n}
		}
		off, err := o.offset(fq)
		if err != nil {
			return nil, err
		}
		list = append(list, &Instr{Off: off, Name: fq, Node: n, NonNeg: v.NonNeg})
	}
	return
}

// stockList compiles the stock-update instructions of an instance and its
// submodule instances. Stocks are independent of each other within the update
// pass, so plain lexicographic order keeps runs reproducible.
func (o *builder) stockList(inst *instance) (list []*Instr, err *Error) {
	for _, ident := range inst.model.VarNames() {
		v := inst.model.Variables[ident]

		if v.Kind == KdModule {
			sub, err := o.stockList(inst.children[ident])
			if err != nil {
				return nil, err
			}
			list = append(list, sub...)
			continue
		}
		if !v.IsStock() || inst.bound[ident] != "" {
			continue
		}

		fq := inst.prefix + ident
		off, err := o.offset(fq)
		if err != nil {
			return nil, err
		}
		ins := &Instr{Off: off, Name: fq, NonNeg: v.NonNeg}
		for _, f := range v.Inflows {
			foff, err := o.offset(inst.prefix + f)
			if err != nil {
				return nil, err
			}
			ins.Inflows = append(ins.Inflows, foff)
		}
		for _, f := range v.Outflows {
			foff, err := o.offset(inst.prefix + f)
			if err != nil {
				return nil, err
			}
			ins.Outflows = append(ins.Outflows, foff)
		}
		list = append(list, ins)
	}
	return
}

// topoOrder returns the identifiers of a model in topological order of the
// given dependency map. Among the ready candidates the lexicographically
// smallest is always picked, so the order is reproducible for any input.
func topoOrder(m *Model, deps map[string]map[string]bool) (order []string, err *Error) {

	names := m.VarNames() // sorted
	done := make(map[string]bool, len(names))

	for len(order) < len(names) {
		picked := ""
		for _, n := range names {
			if done[n] {
				continue
			}
			ready := true
			for d := range deps[n] {
				if d != n && !done[d] {
					ready = false
					break
				}
			}
			if ready {
				picked = n
				break
			}
		}
		if picked == "" {
			remaining := make([]string, 0)
			for _, n := range names {
				if !done[n] {
					remaining = append(remaining, n)
				}
			}
			sort.Strings(remaining)
			return nil, &Error{Code: CircularDependency, Ident: m.Name, Details: strings.Join(remaining, ", ")}
		}
		done[picked] = true
		order = append(order, picked)
	}
	return
}
