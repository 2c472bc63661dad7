// Copyright 2020 The Gosd Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package sim

import (
	"sort"
	"strings"

	"github.com/cpmech/gosd/eqn"
	"github.com/cpmech/gosd/inp"
)

// Model holds the analysed variables of one model plus its two dependency
// maps. DtDeps and InitialDeps stay nil if the corresponding analysis failed.
type Model struct {
	Name        string                     // model name
	Variables   map[string]*Variable       // variables keyed by canonical identifier
	Errors      []*Error                   // collected model-level errors
	DtDeps      map[string]map[string]bool // within-step transitive deps (stocks cut)
	InitialDeps map[string]map[string]bool // initial-pass transitive deps (stocks kept)
}

// allDeps computes, for every variable, the transitive set of identifiers
// whose current-step values it needs. With isInitial false, stocks are cut:
// their dep-set is empty because their value comes from the previous step.
// The result is independent of the order of vars.
func allDeps(vars []*Variable, isInitial bool) (deps map[string]map[string]bool, fail *Error) {

	all := make(map[string]*Variable, len(vars))
	for _, v := range vars {
		all[v.Ident] = v
	}
	memo := make(map[string]map[string]bool, len(vars))
	processing := make(map[string]bool)

	var inner func(id string) *Error
	inner = func(id string) *Error {
		if _, done := memo[id]; done {
			return nil
		}
		v := all[id]

		// dependency chains break at stocks: within a step their value is the
		// previous step's value. at the initial pass stocks are ordinary nodes.
		if v.IsStock() && !isInitial {
			memo[id] = make(map[string]bool)
			return nil
		}

		processing[id] = true
		set := make(map[string]bool)

		for dep := range v.DirectDeps {
			if strings.HasPrefix(dep, "\\.") {
				return NewError(NoAbsoluteReferences, id)
			}

			// a dotted ref such as "submodel.output" depends on "submodel"
			dep = eqn.FirstSegment(dep)

			dv, ok := all[dep]
			if !ok {
				// not a sibling variable: assumed to resolve in the enclosing scope
				continue
			}
			if !dv.IsStock() || isInitial {
				set[dep] = true
			}
			if processing[dep] {
				return NewError(CircularDependency, id)
			}
			if _, done := memo[dep]; !done {
				if err := inner(dep); err != nil {
					return err
				}
			}
			for d := range memo[dep] {
				set[d] = true
			}
		}

		delete(processing, id)
		memo[id] = set
		return nil
	}

	for _, v := range vars {
		if err := inner(v.Ident); err != nil {
			return nil, err
		}
	}
	return memo, nil
}

// NewModel analyses one declarative model. Per-variable parse errors are
// collected, not thrown: a variable with a bad equation is retained (with an
// empty dep-set) so downstream errors can also be reported, and the model is
// tagged with VariablesHaveErrors.
func NewModel(m *inp.Model, models map[string]*inp.Model) (o *Model) {

	o = new(Model)
	o.Name = m.Name
	o.Variables = make(map[string]*Variable, len(m.Variables))

	vars := make([]*Variable, 0, len(m.Variables))
	haveVarErrors := false
	for _, xv := range m.Variables {
		v, err := ParseVar(xv, m.Name, models)
		if err != nil {
			o.Errors = append(o.Errors, err)
			continue
		}
		if len(v.Errors) > 0 {
			haveVarErrors = true
		}
		vars = append(vars, v)
		o.Variables[v.Ident] = v
	}
	if haveVarErrors {
		o.Errors = append(o.Errors, NewError(VariablesHaveErrors, m.Name))
	}

	// flow edges of every stock must name existing flows
	for _, v := range vars {
		if !v.IsStock() {
			continue
		}
		for _, f := range append(append([]string{}, v.Inflows...), v.Outflows...) {
			fv, ok := o.Variables[f]
			if !ok || fv.Kind != KdFlow {
				o.Errors = append(o.Errors, &Error{Code: MissingFlow, Ident: v.Ident, Details: f})
			}
		}
	}

	// a model with variable errors is still analysed
	if deps, err := allDeps(vars, false); err == nil {
		o.DtDeps = deps
	} else {
		o.Errors = append(o.Errors, err)
	}
	if deps, err := allDeps(vars, true); err == nil {
		o.InitialDeps = deps
	} else {
		o.Errors = append(o.Errors, err)
	}
	return
}

// VarNames returns the sorted identifiers of all variables
func (o *Model) VarNames() (names []string) {
	names = make([]string, 0, len(o.Variables))
	for n := range o.Variables {
		names = append(names, n)
	}
	sort.Strings(names)
	return
}
