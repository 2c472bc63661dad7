// Copyright 2020 The Gosd Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package inp implements the declarative project input read from (.json) or (.yaml) files
package inp

import (
	"encoding/json"
	"path/filepath"
	"strings"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
	"gopkg.in/yaml.v3"
)

// variable kinds
const (
	KindStock  = "stock"
	KindFlow   = "flow"
	KindAux    = "aux"
	KindModule = "module"
)

// integration methods
const (
	MethodEuler = "euler"
	MethodRK4   = "rk4"
)

// Dt holds a time-step size, either explicit or as the reciprocal of a value;
// e.g. {32, true} means dt = 1/32
type Dt struct {
	Value      float64 `json:"value" yaml:"value"`           // step size or its reciprocal
	Reciprocal bool    `json:"reciprocal" yaml:"reciprocal"` // value is 1/dt
}

// Float returns the effective step size
func (o *Dt) Float() float64 {
	if o.Reciprocal {
		return 1.0 / o.Value
	}
	return o.Value
}

// SimSpecs holds the global simulation specifications
type SimSpecs struct {
	Start     float64 `json:"start" yaml:"start"`         // initial time
	Stop      float64 `json:"stop" yaml:"stop"`           // final time
	Dt        *Dt     `json:"dt" yaml:"dt"`               // time step; nil => 1
	SaveStep  *Dt     `json:"savestep" yaml:"savestep"`   // interval between saved rows; nil => dt
	Method    string  `json:"method" yaml:"method"`       // integration method: euler or rk4
	TimeUnits string  `json:"timeunits" yaml:"timeunits"` // unit of time; informational
}

// DtFloat returns the effective time step
func (o *SimSpecs) DtFloat() float64 {
	if o.Dt == nil {
		return 1
	}
	return o.Dt.Float()
}

// SaveFloat returns the effective save interval
func (o *SimSpecs) SaveFloat() float64 {
	if o.SaveStep == nil {
		return o.DtFloat()
	}
	return o.SaveStep.Float()
}

// Dimension is a named, ordered list of element names
type Dimension struct {
	Name     string   `json:"name" yaml:"name"`         // dimension name
	Elements []string `json:"elements" yaml:"elements"` // element names in order
}

// GetOffset returns the position of an element within the dimension
func (o *Dimension) GetOffset(element string) (offset int, ok bool) {
	for i, e := range o.Elements {
		if e == element {
			return i, true
		}
	}
	return 0, false
}

// Scale holds the extent of one graphical-function axis
type Scale struct {
	Min float64 `json:"min" yaml:"min"` // lower bound
	Max float64 `json:"max" yaml:"max"` // upper bound
}

// graphical function kinds
const (
	GfContinuous  = "continuous"
	GfExtrapolate = "extrapolate"
	GfDiscrete    = "discrete"
)

// GraphicalFunction holds a lookup table attached to a flow or aux
type GraphicalFunction struct {
	Kind    string    `json:"kind" yaml:"kind"`       // continuous, extrapolate or discrete
	XPoints []float64 `json:"xpoints" yaml:"xpoints"` // abscissae; empty => evenly spaced over XScale
	YPoints []float64 `json:"ypoints" yaml:"ypoints"` // ordinates
	XScale  Scale     `json:"xscale" yaml:"xscale"`   // abscissa extent
	YScale  Scale     `json:"yscale" yaml:"yscale"`   // ordinate extent
}

// ModuleReference binds a parent variable (Src) to an input of a submodel (Dst)
type ModuleReference struct {
	Src string `json:"src" yaml:"src"` // variable reachable from the parent; e.g. "area" or "lynxes.lynxes"
	Dst string `json:"dst" yaml:"dst"` // qualified input of the submodel; e.g. "hares.area"
}

// ElementEqn holds the equation of one element of an arrayed variable
type ElementEqn struct {
	Element string `json:"element" yaml:"element"` // element name within the dimensions
	Eqn     string `json:"eqn" yaml:"eqn"`         // equation for this element
}

// Variable is one declarative model variable. Type selects which fields are
// meaningful: stocks use Eqn (initial value), Inflows and Outflows; flows and
// auxes use Eqn and Gf; modules use Model and Refs and have no equation.
type Variable struct {
	Name     string             `json:"name" yaml:"name"`         // variable name
	Type     string             `json:"type" yaml:"type"`         // stock, flow, aux or module
	Eqn      string             `json:"eqn" yaml:"eqn"`           // equation; for stocks the initial value
	Doc      string             `json:"doc" yaml:"doc"`           // documentation
	Units    string             `json:"units" yaml:"units"`       // unit string; informational
	Inflows  []string           `json:"inflows" yaml:"inflows"`   // stock: names of inflows
	Outflows []string           `json:"outflows" yaml:"outflows"` // stock: names of outflows
	NonNeg   bool               `json:"nonneg" yaml:"nonneg"`     // clamp values to ≥ 0
	Gf       *GraphicalFunction `json:"gf" yaml:"gf"`             // optional lookup table
	Model    string             `json:"model" yaml:"model"`       // module: name of referenced model
	Refs     []*ModuleReference `json:"refs" yaml:"refs"`         // module: input bindings
	Dims     []string           `json:"dims" yaml:"dims"`         // apply-to-all dimensions
	Elements []*ElementEqn      `json:"elements" yaml:"elements"` // arrayed per-element equations
}

// Model holds one model: a named set of variables
type Model struct {
	Name      string      `json:"name" yaml:"name"`           // model name; the entry model is "main"
	Variables []*Variable `json:"variables" yaml:"variables"` // all variables
}

// GetVariable returns a variable by name, or nil
func (o *Model) GetVariable(name string) *Variable {
	for _, v := range o.Variables {
		if v.Name == name {
			return v
		}
	}
	return nil
}

// Project holds a set of models plus the global simulation specifications
type Project struct {
	Name       string       `json:"name" yaml:"name"`             // project name
	SimSpecs   SimSpecs     `json:"simspecs" yaml:"simspecs"`     // global simulation specifications
	Dimensions []*Dimension `json:"dimensions" yaml:"dimensions"` // named dimensions
	Models     []*Model     `json:"models" yaml:"models"`         // all models
}

// GetModel returns a model by name, or nil
func (o *Project) GetModel(name string) *Model {
	for _, m := range o.Models {
		if m.Name == name {
			return m
		}
	}
	return nil
}

// ReadProject reads a project from a .json or .yaml/.yml file
func ReadProject(path string) (o *Project, err error) {
	b, err := io.ReadFile(path)
	if err != nil {
		return nil, chk.Err("cannot read project file %q", path)
	}
	o = new(Project)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(b, o)
	default:
		err = json.Unmarshal(b, o)
	}
	if err != nil {
		return nil, chk.Err("cannot decode project file %q:\n%v", path, err)
	}
	o.SetDefaults()
	return
}

// SetDefaults fills in the defaults: project name "project" when empty, dt = 1,
// Euler integration and per-variable type names lower-cased
func (o *Project) SetDefaults() {
	if o.Name == "" {
		o.Name = "project"
	}
	if o.SimSpecs.Method == "" {
		o.SimSpecs.Method = MethodEuler
	} else {
		o.SimSpecs.Method = strings.ToLower(o.SimSpecs.Method)
	}
	if o.SimSpecs.Dt == nil {
		o.SimSpecs.Dt = &Dt{Value: 1}
	}
	for _, m := range o.Models {
		for _, v := range m.Variables {
			v.Type = strings.ToLower(v.Type)
		}
	}
}
