// Copyright 2020 The Gosd Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package sim implements the core engine: dependency analysis, module
// flattening and numeric integration of system dynamics models
package sim

import (
	"github.com/cpmech/gosd/eqn"
	"github.com/cpmech/gosd/inp"
)

// VarKind enumerates the four variable kinds
type VarKind int

// variable kinds. the set is closed: arrayed variables are handled by extra
// fields on these kinds, not by new ones
const (
	KdStock VarKind = iota
	KdFlow
	KdAux
	KdModule
)

// String returns the name of a variable kind
func (o VarKind) String() string {
	switch o {
	case KdStock:
		return "stock"
	case KdFlow:
		return "flow"
	case KdAux:
		return "aux"
	case KdModule:
		return "module"
	}
	return "unknown"
}

// ModuleInput binds a variable reachable from the parent (Src) to an
// input of the referenced submodel (Dst)
type ModuleInput struct {
	Src string // canonical parent-scope identifier
	Dst string // canonical submodel input identifier
}

// Variable is one analysed model variable with its parsed equation and its
// direct dependencies. Kind selects the meaningful fields.
type Variable struct {

	// identity
	Ident string  // canonical identifier
	Kind  VarKind // stock, flow, aux or module

	// equations
	Init    eqn.Expr // stock: parsed initial-value equation
	Expr    eqn.Expr // flow/aux: parsed equation
	EqnText string   // original equation text, kept for diagnostics

	// stock flow edges; these participate only in the stock-update pass
	Inflows  []string // canonical flow identifiers adding to this stock
	Outflows []string // canonical flow identifiers draining this stock

	// behaviour
	NonNeg bool                   // clamp computed values to ≥ 0
	Gf     *inp.GraphicalFunction // optional lookup applied to the equation result

	// module fields
	ModelName string        // name of the referenced model
	Inputs    []ModuleInput // input bindings

	// analysis results
	DirectDeps map[string]bool // identifiers referenced by the equation; modules: src prefixes
	Errors     []eqn.Error     // parse errors; a variable with errors has an empty dep-set

	// arrayed fields (carried through; simulation of arrayed models is rejected at build time)
	Dims     []string          // apply-to-all dimensions
	Elements []*inp.ElementEqn // arrayed per-element equations
}

// IsStock returns whether the variable is a stock
func (o *Variable) IsStock() bool {
	return o.Kind == KdStock
}

// ParseVar builds one analysed variable from its declarative record.
// Parse errors are collected on the variable, never thrown; a variable that
// fails to parse is retained with an empty dependency set.
func ParseVar(v *inp.Variable, modelName string, models map[string]*inp.Model) (o *Variable, err *Error) {

	ident, ok := eqn.CanonicalIdent(v.Name)
	if !ok {
		return nil, NewError(BadIdentifier, v.Name)
	}

	o = new(Variable)
	o.Ident = ident
	o.NonNeg = v.NonNeg
	o.Gf = v.Gf
	o.Dims = v.Dims
	o.Elements = v.Elements
	o.DirectDeps = make(map[string]bool)

	// parse the equation of the variable, collecting diagnostics
	parse := func(text string) (tree eqn.Expr) {
		tree, errs := eqn.Parse(text)
		o.EqnText = text
		o.Errors = append(o.Errors, errs...)
		if len(errs) > 0 {
			return nil
		}
		return tree
	}

	switch v.Type {

	case inp.KindStock:
		o.Kind = KdStock
		o.Init = parse(v.Eqn)
		if o.Init != nil {
			for dep := range eqn.Idents(o.Init) {
				o.DirectDeps[dep] = true
			}
		}
		for _, f := range v.Inflows {
			if id, ok := eqn.CanonicalIdent(f); ok {
				o.Inflows = append(o.Inflows, id)
			}
		}
		for _, f := range v.Outflows {
			if id, ok := eqn.CanonicalIdent(f); ok {
				o.Outflows = append(o.Outflows, id)
			}
		}

	case inp.KindFlow, inp.KindAux:
		o.Kind = KdFlow
		if v.Type == inp.KindAux {
			o.Kind = KdAux
		}
		o.Expr = parse(v.Eqn)
		if o.Expr != nil {
			for dep := range eqn.Idents(o.Expr) {
				o.DirectDeps[dep] = true
			}
		}

	case inp.KindModule:
		// a module has no equation; its direct deps are the distinct
		// prefixes of its input bindings' src names
		o.Kind = KdModule
		o.ModelName = v.Model
		if o.ModelName == "" {
			o.ModelName = ident
		}
		for _, ref := range v.Refs {
			src, sok := eqn.CanonicalIdent(ref.Src)
			dst, dok := eqn.CanonicalIdent(ref.Dst)
			if !sok || !dok {
				return nil, NewError(BadIdentifier, v.Name)
			}
			o.Inputs = append(o.Inputs, ModuleInput{Src: src, Dst: dst})
			o.DirectDeps[eqn.FirstSegment(src)] = true
		}

	default:
		return nil, &Error{Code: BadIdentifier, Ident: ident, Details: "unknown variable type " + v.Type}
	}
	return
}
