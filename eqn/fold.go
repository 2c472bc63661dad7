// Copyright 2020 The Gosd Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package eqn

import "math"

// EvalOp1 computes a unary operation under IEEE-754 double semantics.
// 'not' treats any nonzero operand as true and returns 1 or 0.
func EvalOp1(op UnaryOp, x float64) float64 {
	switch op {
	case OpPositive:
		return x
	case OpNegative:
		return -x
	case OpNot:
		if x != 0 {
			return 0
		}
		return 1
	}
	return math.NaN()
}

// EvalOp2 computes a binary operation under IEEE-754 double semantics.
// Division by zero yields the IEEE result. 'mod' matches the sign of the
// divisor. Comparisons and logical operators return 1 or 0; 'and' and 'or'
// do not short-circuit (both operands have been evaluated by the caller).
func EvalOp2(op BinaryOp, a, b float64) float64 {
	switch op {
	case OpAdd:
		return a + b
	case OpSub:
		return a - b
	case OpMul:
		return a * b
	case OpDiv:
		return a / b
	case OpExp:
		return math.Pow(a, b)
	case OpMod:
		r := math.Mod(a, b)
		if r != 0 && (r < 0) != (b < 0) {
			r += b
		}
		return r
	case OpGt:
		return b2f(a > b)
	case OpGte:
		return b2f(a >= b)
	case OpLt:
		return b2f(a < b)
	case OpLte:
		return b2f(a <= b)
	case OpEq:
		return b2f(a == b)
	case OpNeq:
		return b2f(a != b)
	case OpAnd:
		return b2f(a != 0 && b != 0)
	case OpOr:
		return b2f(a != 0 || b != 0)
	}
	return math.NaN()
}

func b2f(v bool) float64 {
	if v {
		return 1
	}
	return 0
}

// Fold rewrites a tree replacing constant subexpressions by Const nodes.
// Conditionals with a constant condition collapse to the taken branch.
func Fold(e Expr) Expr {
	return Rewrite(e, func(x Expr) Expr {
		switch n := x.(type) {
		case *Op1:
			if c, ok := n.X.(*Const); ok {
				return &Const{Value: EvalOp1(n.Op, c.Value)}
			}
		case *Op2:
			a, aok := n.A.(*Const)
			b, bok := n.B.(*Const)
			if aok && bok {
				return &Const{Value: EvalOp2(n.Op, a.Value, b.Value)}
			}
		case *If:
			if c, ok := n.Cond.(*Const); ok {
				if c.Value != 0 {
					return n.Then
				}
				return n.Else
			}
		}
		return x
	})
}
