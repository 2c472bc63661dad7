// Copyright 2020 The Gosd Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package sim

import (
	"math"
	"strings"

	"github.com/cpmech/gosd/eqn"
	"github.com/cpmech/gosd/inp"
)

// Project holds the analysed models plus the global simulation specifications
// and dimensions. Models form a DAG by module references; cycles among models
// are fatal.
type Project struct {
	Name       string            // project name
	SimSpecs   inp.SimSpecs      // global simulation specifications
	Dimensions []*inp.Dimension  // named dimensions
	Models     map[string]*Model // analysed models keyed by name
	Errors     []*Error          // project-level errors from validation
}

// NewProject analyses every model of a declarative project in isolation and
// then runs the cross-model validation pass
func NewProject(p *inp.Project) (o *Project) {
	o = new(Project)
	o.Name = p.Name
	o.SimSpecs = p.SimSpecs
	o.Dimensions = p.Dimensions
	o.Models = make(map[string]*Model, len(p.Models))

	table := make(map[string]*inp.Model, len(p.Models))
	for _, m := range p.Models {
		table[m.Name] = m
	}
	for _, m := range p.Models {
		o.Models[m.Name] = NewModel(m, table)
	}

	o.Errors = append(o.Errors, o.validateSimSpecs()...)
	o.Errors = append(o.Errors, o.validateModules()...)
	return
}

// GetModel returns an analysed model by name, or nil
func (o *Project) GetModel(name string) *Model {
	return o.Models[name]
}

// validateSimSpecs checks the global simulation specifications
func (o *Project) validateSimSpecs() (errs []*Error) {
	s := &o.SimSpecs
	bad := func(details string) {
		errs = append(errs, &Error{Code: BadSimSpecs, Ident: o.Name, Details: details})
	}
	if s.Stop < s.Start {
		bad("stop < start")
	}
	dt := s.DtFloat()
	if !(dt > 0) {
		bad("dt <= 0")
		return
	}
	if s.SaveStep != nil {
		save := s.SaveFloat()
		n := save / dt
		if n < 1-1e-9 || math.Abs(n-math.Floor(n+0.5)) > 1e-9 {
			bad("save_step is not a multiple of dt")
		}
	}
	if s.Method != inp.MethodEuler && s.Method != inp.MethodRK4 {
		bad("unknown method " + s.Method)
	}
	return
}

// validateModules checks that every module references an existing model, that
// each binding's dst names a declared variable of the submodel and that its
// src is reachable from the parent; it also rejects cycles among models
func (o *Project) validateModules() (errs []*Error) {

	for _, m := range o.Models {
		for _, v := range m.Variables {
			if v.Kind != KdModule {
				continue
			}
			sub, ok := o.Models[v.ModelName]
			if !ok {
				errs = append(errs, &Error{Code: UnknownModel, Ident: v.Ident, Details: v.ModelName})
				continue
			}
			for _, ref := range v.Inputs {

				// dst must name a top-level variable of the submodel; the
				// leading module qualifier, when present, must match
				dst := ref.Dst
				if eqn.FirstSegment(dst) == v.Ident && strings.Contains(dst, ".") {
					dst = dst[len(v.Ident)+1:]
				}
				if _, ok := sub.Variables[eqn.FirstSegment(dst)]; !ok {
					errs = append(errs, &Error{Code: BadModuleReference, Ident: v.Ident, Details: "dst " + ref.Dst})
				}

				// src must be reachable from the parent model
				if _, ok := m.Variables[eqn.FirstSegment(ref.Src)]; !ok {
					errs = append(errs, &Error{Code: BadModuleReference, Ident: v.Ident, Details: "src " + ref.Src})
				}
			}
		}
	}

	// models must form a DAG under module references
	const (
		white = 0
		grey  = 1
		black = 2
	)
	color := make(map[string]int, len(o.Models))
	var visit func(name string) bool
	visit = func(name string) bool {
		m, ok := o.Models[name]
		if !ok {
			return true
		}
		color[name] = grey
		for _, v := range m.Variables {
			if v.Kind != KdModule {
				continue
			}
			switch color[v.ModelName] {
			case grey:
				return false
			case white:
				if !visit(v.ModelName) {
					return false
				}
			}
		}
		color[name] = black
		return true
	}
	for name := range o.Models {
		if color[name] == white {
			if !visit(name) {
				errs = append(errs, &Error{Code: CircularDependency, Ident: name, Details: "cycle among models"})
				return
			}
		}
	}
	return
}
