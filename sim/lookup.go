// Copyright 2020 The Gosd Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package sim

import (
	"github.com/cpmech/gosl/utl"

	"github.com/cpmech/gosd/inp"
)

// Lookup evaluates a graphical function: a table of (x, y) points applied to
// the result of a variable's equation
type Lookup struct {
	kind string    // continuous, extrapolate or discrete
	xs   []float64 // abscissae, ascending
	ys   []float64 // ordinates
}

// NewLookup builds a lookup from a declarative graphical function. When the
// x points are omitted they are spaced evenly over the x scale.
func NewLookup(gf *inp.GraphicalFunction, ident string) (o *Lookup, err *Error) {
	o = new(Lookup)
	o.kind = gf.Kind
	if o.kind == "" {
		o.kind = inp.GfContinuous
	}
	o.ys = gf.YPoints
	o.xs = gf.XPoints
	if len(o.xs) == 0 {
		o.xs = utl.LinSpace(gf.XScale.Min, gf.XScale.Max, len(o.ys))
	}
	if len(o.xs) != len(o.ys) || len(o.ys) == 0 {
		return nil, &Error{Code: NotSimulatable, Ident: ident, Details: "graphical function table is malformed"}
	}
	return
}

// Value interpolates the table at x
func (o *Lookup) Value(x float64) float64 {
	n := len(o.xs)
	if n == 1 {
		return o.ys[0]
	}

	// left of the table
	if x <= o.xs[0] {
		if o.kind == inp.GfExtrapolate && x < o.xs[0] {
			return extrap(o.xs[0], o.ys[0], o.xs[1], o.ys[1], x)
		}
		return o.ys[0]
	}

	// right of the table
	if x >= o.xs[n-1] {
		if o.kind == inp.GfExtrapolate && x > o.xs[n-1] {
			return extrap(o.xs[n-2], o.ys[n-2], o.xs[n-1], o.ys[n-1], x)
		}
		return o.ys[n-1]
	}

	// inside: find the segment holding x
	i := 1
	for i < n-1 && o.xs[i] < x {
		i++
	}
	if o.kind == inp.GfDiscrete {
		if o.xs[i] == x {
			return o.ys[i]
		}
		return o.ys[i-1]
	}
	return extrap(o.xs[i-1], o.ys[i-1], o.xs[i], o.ys[i], x)
}

// extrap returns the value at x of the line through (x0,y0) and (x1,y1)
func extrap(x0, y0, x1, y1, x float64) float64 {
	if x1 == x0 {
		return y0
	}
	return y0 + (y1-y0)*(x-x0)/(x1-x0)
}
