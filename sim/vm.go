// Copyright 2020 The Gosd Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package sim

import (
	"github.com/cpmech/gosl/io"
	"github.com/cpmech/gosl/la"

	"github.com/cpmech/gosd/inp"
)

// Stepper advances the state by one time-step. Implementations are
// registered in the allocators map, keyed by integration method name.
type Stepper interface {
	Step(o *Simulation)
}

// allocators holds all available steppers
var allocators = make(map[string]func(o *Simulation) Stepper)

// Results holds the tabular output of one run: one column per slab variable
// plus time, one row per save point
type Results struct {
	Names []string    // column names in slab order; Names[0] = "time"
	Times []float64   // saved times
	Data  [][]float64 // [nrows][ncols] saved values
}

// Series returns the column of a fully-qualified variable, or nil
func (o *Results) Series(name string) (vals []float64) {
	for j, n := range o.Names {
		if n == name {
			vals = make([]float64, len(o.Data))
			for i, row := range o.Data {
				vals[i] = row[j]
			}
			return
		}
	}
	return
}

// Simulation owns the mutable state of one run: the slab, the scratch slabs
// used by multi-stage integrators and the save buffer. The Plan is shared and
// never modified; concurrent runs need one Simulation each.
type Simulation struct {

	// input
	Plan    *Plan // compiled plan (immutable, shareable)
	Verbose bool  // print progress messages

	// state
	Slab    la.Vector // current values; Slab[0] is time
	scratch la.Vector // stage evaluations (RK4)
	y0      []float64 // stock values at the start of a step
	k1      []float64 // stage derivatives, one per stock instruction
	k2      []float64
	k3      []float64
	k4      []float64
	ctx     evalCtx
	stepper Stepper
	stopreq bool // cooperative stop: finish at the next save point

	// output
	results *Results
}

// NewSimulation compiles the entry model of a project and allocates the state
// for one run
func NewSimulation(prj *Project, modelName string) (o *Simulation, err *Error) {
	plan, err := Build(prj, modelName)
	if err != nil {
		return nil, err
	}
	return NewSimulationPlan(plan)
}

// NewSimulationPlan allocates the state for one run of an existing plan.
// The plan may be shared by several simulations running in parallel.
func NewSimulationPlan(plan *Plan) (o *Simulation, err *Error) {
	o = new(Simulation)
	o.Plan = plan
	o.Slab = la.NewVector(plan.NSlots)
	o.scratch = la.NewVector(plan.NSlots)
	nstk := len(plan.Stocks)
	o.y0 = make([]float64, nstk)
	o.k1 = make([]float64, nstk)
	o.k2 = make([]float64, nstk)
	o.k3 = make([]float64, nstk)
	o.k4 = make([]float64, nstk)
	o.ctx = evalCtx{dt: plan.Dt, start: plan.Start, stop: plan.Stop}
	alloc, ok := allocators[plan.Method]
	if !ok {
		return nil, &Error{Code: BadSimSpecs, Ident: plan.Method, Details: "cannot find stepper"}
	}
	o.stepper = alloc(o)
	return
}

// RequestStop asks the run loop to stop at the next save point
func (o *Simulation) RequestStop() {
	o.stopreq = true
}

// evalList evaluates one run list against a slab, clamping non-negative
// variables after each evaluation
func (o *Simulation) evalList(list []*Instr, slab []float64) {
	for _, ins := range list {
		v := ins.Node.eval(slab, &o.ctx)
		if ins.NonNeg && v < 0 {
			v = 0
		}
		slab[ins.Off] = v
	}
}

// net returns the net flow of one stock instruction: Σ(inflows) − Σ(outflows)
func (o *Simulation) net(ins *Instr, slab []float64) (sum float64) {
	for _, off := range ins.Inflows {
		sum += slab[off]
	}
	for _, off := range ins.Outflows {
		sum -= slab[off]
	}
	return
}

// Run executes the time loop and returns the saved rows. The slab, scratch
// slab and stage vectors were allocated by NewSimulationPlan and are reused by
// every step; each save point allocates one new row and appends it to the
// results, so the loop is not allocation-free.
func (o *Simulation) Run() (res *Results, err *Error) {

	p := o.Plan
	dt := p.Dt
	eps := dt * 1e-6

	if o.Verbose {
		io.Pf("> Running %q from %g to %g with dt=%g (%s)\n", p.Model, p.Start, p.Stop, dt, p.Method)
	}

	// initial pass: time, stocks and every flow/aux at t = start
	t := p.Start
	o.Slab.Fill(0)
	o.Slab[0] = t
	o.evalList(p.Initials, o.Slab)

	o.results = &Results{Names: p.Names}
	o.save(t)
	lastSave := t

	// fixed-step loop
	for t+dt <= p.Stop+eps {
		o.stepper.Step(o)
		t = o.Slab[0]
		if t-lastSave >= p.SaveStep-eps {
			o.save(t)
			lastSave = t
			if o.stopreq {
				break
			}
		}
	}

	if o.Verbose {
		io.Pf("> Saved %d rows\n", len(o.results.Times))
	}
	return o.results, nil
}

// save appends one row to the save buffer
func (o *Simulation) save(t float64) {
	row := make([]float64, len(o.Slab))
	copy(row, o.Slab)
	o.results.Times = append(o.results.Times, t)
	o.results.Data = append(o.results.Data, row)
}

// Euler ///////////////////////////////////////////////////////////////////////////////////////////

// EulerStepper implements forward Euler integration
type EulerStepper struct{}

// Step advances the state by dt: stocks are updated from the flow values
// already computed at the current time, then every flow and aux is
// re-evaluated at the new time. No flow observes a partially updated stock.
func (s *EulerStepper) Step(o *Simulation) {
	p := o.Plan
	dt := p.Dt
	for i, ins := range p.Stocks {
		o.k1[i] = o.net(ins, o.Slab)
	}
	for i, ins := range p.Stocks {
		v := o.Slab[ins.Off] + dt*o.k1[i]
		if ins.NonNeg && v < 0 {
			v = 0
		}
		o.Slab[ins.Off] = v
	}
	o.Slab[0] += dt
	o.evalList(p.Flows, o.Slab)
}

// RK4 /////////////////////////////////////////////////////////////////////////////////////////////

// RK4Stepper implements classical 4th-order Runge-Kutta integration
type RK4Stepper struct{}

// Step advances the state by dt from four stage derivatives (at t, t+dt/2,
// t+dt/2 and t+dt) and forms the weighted sum for each stock. The stage at t
// reads the flows already held in the slab; the other three evaluate the flow
// run-list against the scratch slab, which is reused across steps.
func (s *RK4Stepper) Step(o *Simulation) {
	p := o.Plan
	dt := p.Dt
	t := o.Slab[0]

	// stage 1: the slab already holds flows evaluated at (t, y)
	for i, ins := range p.Stocks {
		o.y0[i] = o.Slab[ins.Off]
		o.k1[i] = o.net(ins, o.Slab)
	}

	// stage 2: flows at (t+dt/2, y + dt/2·k1)
	copy(o.scratch, o.Slab)
	o.scratch[0] = t + dt/2
	for i, ins := range p.Stocks {
		o.scratch[ins.Off] = o.y0[i] + dt/2*o.k1[i]
	}
	o.evalList(p.Flows, o.scratch)
	for i, ins := range p.Stocks {
		o.k2[i] = o.net(ins, o.scratch)
	}

	// stage 3: flows at (t+dt/2, y + dt/2·k2)
	for i, ins := range p.Stocks {
		o.scratch[ins.Off] = o.y0[i] + dt/2*o.k2[i]
	}
	o.evalList(p.Flows, o.scratch)
	for i, ins := range p.Stocks {
		o.k3[i] = o.net(ins, o.scratch)
	}

	// stage 4: flows at (t+dt, y + dt·k3)
	o.scratch[0] = t + dt
	for i, ins := range p.Stocks {
		o.scratch[ins.Off] = o.y0[i] + dt*o.k3[i]
	}
	o.evalList(p.Flows, o.scratch)
	for i, ins := range p.Stocks {
		o.k4[i] = o.net(ins, o.scratch)
	}

	// weighted sum
	for i, ins := range p.Stocks {
		v := o.y0[i] + dt/6*(o.k1[i]+2*o.k2[i]+2*o.k3[i]+o.k4[i])
		if ins.NonNeg && v < 0 {
			v = 0
		}
		o.Slab[ins.Off] = v
	}
	o.Slab[0] = t + dt
	o.evalList(p.Flows, o.Slab)
}

// register steppers
func init() {
	allocators[inp.MethodEuler] = func(o *Simulation) Stepper { return new(EulerStepper) }
	allocators[inp.MethodRK4] = func(o *Simulation) Stepper { return new(RK4Stepper) }
}
