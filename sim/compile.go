// Copyright 2020 The Gosd Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package sim

import (
	"math"

	"github.com/cpmech/gosd/eqn"
)

// evalCtx holds the per-run constants every instruction may read
type evalCtx struct {
	dt    float64 // time-step size
	start float64 // initial time
	stop  float64 // final time
}

// node is one compiled expression node, evaluated against the slab.
// slab[0] always holds the current time.
type node interface {
	eval(slab []float64, c *evalCtx) float64
}

// nconst is a folded numeric constant
type nconst struct{ v float64 }

// nslot reads one slab offset
type nslot struct{ off int }

// ndt reads the time-step size
type ndt struct{}

type nop1 struct {
	op eqn.UnaryOp
	x  node
}

type nop2 struct {
	op   eqn.BinaryOp
	a, b node
}

type nif struct {
	cond, then, els node
}

type napp struct {
	fn   int
	args []node
}

// nlookup applies a graphical function to the value of its operand
type nlookup struct {
	tbl *Lookup
	x   node
}

func (o *nconst) eval(slab []float64, c *evalCtx) float64 { return o.v }
func (o *nslot) eval(slab []float64, c *evalCtx) float64  { return slab[o.off] }
func (o *ndt) eval(slab []float64, c *evalCtx) float64    { return c.dt }

func (o *nop1) eval(slab []float64, c *evalCtx) float64 {
	return eqn.EvalOp1(o.op, o.x.eval(slab, c))
}

// both operands are always evaluated: 'and' and 'or' do not short-circuit
func (o *nop2) eval(slab []float64, c *evalCtx) float64 {
	a := o.a.eval(slab, c)
	b := o.b.eval(slab, c)
	return eqn.EvalOp2(o.op, a, b)
}

func (o *nif) eval(slab []float64, c *evalCtx) float64 {
	if o.cond.eval(slab, c) != 0 {
		return o.then.eval(slab, c)
	}
	return o.els.eval(slab, c)
}

func (o *nlookup) eval(slab []float64, c *evalCtx) float64 {
	return o.tbl.Value(o.x.eval(slab, c))
}

// builtin function codes
const (
	bAbs = iota
	bArccos
	bArcsin
	bArctan
	bCos
	bExp
	bInf
	bInt
	bLn
	bLog10
	bMax
	bMin
	bPi
	bPulse
	bSafediv
	bSin
	bSqrt
	bTan
)

// builtins maps function names to their codes and arities
var builtins = map[string]struct {
	fn       int
	min, max int // accepted number of arguments
}{
	"abs":     {bAbs, 1, 1},
	"arccos":  {bArccos, 1, 1},
	"arcsin":  {bArcsin, 1, 1},
	"arctan":  {bArctan, 1, 1},
	"cos":     {bCos, 1, 1},
	"exp":     {bExp, 1, 1},
	"inf":     {bInf, 0, 0},
	"int":     {bInt, 1, 1},
	"ln":      {bLn, 1, 1},
	"log10":   {bLog10, 1, 1},
	"max":     {bMax, 2, 2},
	"min":     {bMin, 2, 2},
	"pi":      {bPi, 0, 0},
	"pulse":   {bPulse, 1, 3},
	"safediv": {bSafediv, 2, 3},
	"sin":     {bSin, 1, 1},
	"sqrt":    {bSqrt, 1, 1},
	"tan":     {bTan, 1, 1},
}

func (o *napp) eval(slab []float64, c *evalCtx) float64 {
	arg := func(i int) float64 { return o.args[i].eval(slab, c) }
	switch o.fn {
	case bAbs:
		return math.Abs(arg(0))
	case bArccos:
		return math.Acos(arg(0))
	case bArcsin:
		return math.Asin(arg(0))
	case bArctan:
		return math.Atan(arg(0))
	case bCos:
		return math.Cos(arg(0))
	case bExp:
		return math.Exp(arg(0))
	case bInf:
		return math.Inf(1)
	case bInt:
		return math.Trunc(arg(0))
	case bLn:
		return math.Log(arg(0))
	case bLog10:
		return math.Log10(arg(0))
	case bMax:
		return math.Max(arg(0), arg(1))
	case bMin:
		return math.Min(arg(0), arg(1))
	case bPi:
		return math.Pi
	case bPulse:
		return o.pulse(slab, c)
	case bSafediv:
		den := arg(1)
		if den == 0 {
			if len(o.args) > 2 {
				return arg(2)
			}
			return 0
		}
		return arg(0) / den
	case bSin:
		return math.Sin(arg(0))
	case bSqrt:
		return math.Sqrt(arg(0))
	case bTan:
		return math.Tan(arg(0))
	}
	return math.NaN()
}

// pulse returns volume/dt whenever the current time falls on a pulse:
// at first-pulse time and then every interval; interval ≤ 0 means one pulse
func (o *napp) pulse(slab []float64, c *evalCtx) float64 {
	vol := o.args[0].eval(slab, c)
	first := c.start
	if len(o.args) > 1 {
		first = o.args[1].eval(slab, c)
	}
	interval := 0.0
	if len(o.args) > 2 {
		interval = o.args[2].eval(slab, c)
	}
	t := slab[0]
	if t < first-c.dt/2 {
		return 0
	}
	if interval <= 0 {
		if math.Abs(t-first) < c.dt/2 {
			return vol / c.dt
		}
		return 0
	}
	off := math.Mod(t-first, interval)
	if off < c.dt/2 || interval-off < c.dt/2 {
		return vol / c.dt
	}
	return 0
}

// compileExpr turns a parsed equation into an evaluable node with every
// variable reference resolved to a slab offset. resolve returns the offset of
// a canonical identifier within the current module instance, or an error.
func compileExpr(e eqn.Expr, ident string, c *evalCtx, resolve func(string) (int, *Error)) (node, *Error) {
	if e == nil {
		return nil, &Error{Code: NotSimulatable, Ident: ident, Details: "variable has no equation"}
	}
	e = eqn.Fold(e)

	var comp func(e eqn.Expr) (node, *Error)
	comp = func(e eqn.Expr) (node, *Error) {
		switch x := e.(type) {

		case *eqn.Const:
			return &nconst{v: x.Value}, nil

		case *eqn.Var:
			switch x.Ident {
			case "time":
				return &nslot{off: 0}, nil
			case "dt", "time_step":
				return &ndt{}, nil
			case "initial_time":
				return &nconst{v: c.start}, nil
			case "final_time":
				return &nconst{v: c.stop}, nil
			}
			off, err := resolve(x.Ident)
			if err != nil {
				return nil, err
			}
			return &nslot{off: off}, nil

		case *eqn.App:
			b, ok := builtins[x.Name]
			if !ok {
				return nil, &Error{Code: UnknownBuiltin, Ident: ident, Details: x.Name}
			}
			if len(x.Args) < b.min || len(x.Args) > b.max {
				return nil, &Error{Code: ArityMismatch, Ident: ident, Details: x.Name}
			}
			app := &napp{fn: b.fn}
			for _, a := range x.Args {
				n, err := comp(a)
				if err != nil {
					return nil, err
				}
				app.args = append(app.args, n)
			}
			return app, nil

		case *eqn.Op1:
			n, err := comp(x.X)
			if err != nil {
				return nil, err
			}
			return &nop1{op: x.Op, x: n}, nil

		case *eqn.Op2:
			a, err := comp(x.A)
			if err != nil {
				return nil, err
			}
			b, err := comp(x.B)
			if err != nil {
				return nil, err
			}
			return &nop2{op: x.Op, a: a, b: b}, nil

		case *eqn.If:
			cond, err := comp(x.Cond)
			if err != nil {
				return nil, err
			}
			then, err := comp(x.Then)
			if err != nil {
				return nil, err
			}
			els, err := comp(x.Else)
			if err != nil {
				return nil, err
			}
			return &nif{cond: cond, then: then, els: els}, nil
		}
		return nil, &Error{Code: NotSimulatable, Ident: ident, Details: "unhandled expression node"}
	}
	return comp(e)
}
