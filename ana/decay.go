// Copyright 2020 The Gosd Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package ana implements analytical solutions of small reference models
package ana

import (
	"math"

	"github.com/cpmech/gosl/fun/dbf"
)

// ExpDecay computes the closed-form solution of a stock drained by a
// proportional outflow:
//
//	dS/dt = -k S   =>   S(t) = S0 exp(-k (t - t0))
type ExpDecay struct {
	S0 float64 // initial stock value
	K  float64 // decay rate
	T0 float64 // initial time
}

// Init initialises this structure
func (o *ExpDecay) Init(prms dbf.Params) {

	// default values
	o.S0 = 100.0
	o.K = 0.1
	o.T0 = 0.0

	// parameters
	for _, p := range prms {
		switch p.N {
		case "s0":
			o.S0 = p.V
		case "k":
			o.K = p.V
		case "t0":
			o.T0 = p.V
		}
	}
}

// Sval returns the stock value at time t
func (o ExpDecay) Sval(t float64) float64 {
	return o.S0 * math.Exp(-o.K*(t-o.T0))
}

// LinearGrowth computes the closed-form solution of a stock fed by a
// constant inflow: S(t) = S0 + r (t - t0)
type LinearGrowth struct {
	S0 float64 // initial stock value
	R  float64 // constant inflow rate
	T0 float64 // initial time
}

// Init initialises this structure
func (o *LinearGrowth) Init(prms dbf.Params) {
	o.S0 = 0.0
	o.R = 1.0
	o.T0 = 0.0
	for _, p := range prms {
		switch p.N {
		case "s0":
			o.S0 = p.V
		case "r":
			o.R = p.V
		case "t0":
			o.T0 = p.V
		}
	}
}

// Sval returns the stock value at time t
func (o LinearGrowth) Sval(t float64) float64 {
	return o.S0 + o.R*(t-o.T0)
}
