// Copyright 2020 The Gosd Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package eqn

import (
	"strings"

	"github.com/cpmech/gosl/io"
)

// UnaryOp enumerates unary operators
type UnaryOp int

// unary operators
const (
	OpPositive UnaryOp = iota
	OpNegative
	OpNot
)

// BinaryOp enumerates binary operators
type BinaryOp int

// binary operators
const (
	OpAdd BinaryOp = iota
	OpSub
	OpMul
	OpDiv
	OpMod
	OpExp
	OpGt
	OpGte
	OpLt
	OpLte
	OpEq
	OpNeq
	OpAnd
	OpOr
)

// String returns the source spelling of a binary operator
func (op BinaryOp) String() string {
	switch op {
	case OpAdd:
		return "+"
	case OpSub:
		return "-"
	case OpMul:
		return "*"
	case OpDiv:
		return "/"
	case OpMod:
		return "mod"
	case OpExp:
		return "^"
	case OpGt:
		return ">"
	case OpGte:
		return ">="
	case OpLt:
		return "<"
	case OpLte:
		return "<="
	case OpEq:
		return "="
	case OpNeq:
		return "<>"
	case OpAnd:
		return "and"
	case OpOr:
		return "or"
	}
	return "?"
}

// Expr is one node of an equation tree. The set of implementations is closed:
// Const, Var, App, Op1, Op2 and If. Children are uniquely owned by their parent;
// rewrites move subtrees instead of copying them.
type Expr interface {
	expr()
}

// Const is a numeric literal. Text keeps the original spelling.
type Const struct {
	Text  string  // literal as written; e.g. "0.1" or "1e-3"
	Value float64 // parsed value
}

// Var is a reference to a variable, possibly dotted; e.g. "hares.area"
type Var struct {
	Ident string // canonical identifier
}

// App is a function application
type App struct {
	Name string // function name, lower-cased
	Args []Expr // arguments in call order
}

// Op1 is a unary operation
type Op1 struct {
	Op UnaryOp // operator
	X  Expr    // operand
}

// Op2 is a binary operation
type Op2 struct {
	Op   BinaryOp // operator
	A, B Expr     // operands
}

// If is a conditional expression
type If struct {
	Cond, Then, Else Expr // condition and branches
}

func (o *Const) expr() {}
func (o *Var) expr()   {}
func (o *App) expr()   {}
func (o *Op1) expr()   {}
func (o *Op2) expr()   {}
func (o *If) expr()    {}

// Equal compares two trees structurally. Const nodes compare by value, not spelling.
func Equal(a, b Expr) bool {
	if a == nil || b == nil {
		return a == b
	}
	switch x := a.(type) {
	case *Const:
		y, ok := b.(*Const)
		return ok && x.Value == y.Value
	case *Var:
		y, ok := b.(*Var)
		return ok && x.Ident == y.Ident
	case *App:
		y, ok := b.(*App)
		if !ok || x.Name != y.Name || len(x.Args) != len(y.Args) {
			return false
		}
		for i := range x.Args {
			if !Equal(x.Args[i], y.Args[i]) {
				return false
			}
		}
		return true
	case *Op1:
		y, ok := b.(*Op1)
		return ok && x.Op == y.Op && Equal(x.X, y.X)
	case *Op2:
		y, ok := b.(*Op2)
		return ok && x.Op == y.Op && Equal(x.A, y.A) && Equal(x.B, y.B)
	case *If:
		y, ok := b.(*If)
		return ok && Equal(x.Cond, y.Cond) && Equal(x.Then, y.Then) && Equal(x.Else, y.Else)
	}
	return false
}

// Rewrite applies f to every node bottom-up and returns the new root.
// Subtrees returned by f are moved into place, not copied.
func Rewrite(e Expr, f func(Expr) Expr) Expr {
	if e == nil {
		return nil
	}
	switch x := e.(type) {
	case *App:
		for i, a := range x.Args {
			x.Args[i] = Rewrite(a, f)
		}
	case *Op1:
		x.X = Rewrite(x.X, f)
	case *Op2:
		x.A = Rewrite(x.A, f)
		x.B = Rewrite(x.B, f)
	case *If:
		x.Cond = Rewrite(x.Cond, f)
		x.Then = Rewrite(x.Then, f)
		x.Else = Rewrite(x.Else, f)
	}
	return f(e)
}

// Idents collects the distinct variable identifiers referenced by a tree,
// in no particular order.
func Idents(e Expr) (ids map[string]bool) {
	ids = make(map[string]bool)
	Rewrite(e, func(x Expr) Expr {
		if v, ok := x.(*Var); ok {
			ids[v.Ident] = true
		}
		return x
	})
	return
}

// operator precedence levels, low to high
const (
	precIf = iota + 1
	precOr
	precAnd
	precCmp
	precAdd
	precMul
	precExp
	precUnary
	precPrimary
)

// prec returns the precedence level of a node for printing
func prec(e Expr) int {
	switch x := e.(type) {
	case *If:
		return precIf
	case *Op2:
		switch x.Op {
		case OpOr:
			return precOr
		case OpAnd:
			return precAnd
		case OpEq, OpNeq, OpLt, OpLte, OpGt, OpGte:
			return precCmp
		case OpAdd, OpSub:
			return precAdd
		case OpMul, OpDiv, OpMod:
			return precMul
		case OpExp:
			return precExp
		}
	case *Op1:
		return precUnary
	}
	return precPrimary
}

// String returns the expression in source notation with minimal parentheses;
// parsing the result yields a structurally equal tree.
func String(e Expr) string {
	var sb strings.Builder
	printExpr(&sb, e, 0)
	return sb.String()
}

// printExpr writes e, parenthesising it whenever its precedence is below ctx
func printExpr(sb *strings.Builder, e Expr, ctx int) {
	if e == nil {
		return
	}
	p := prec(e)
	if p < ctx {
		sb.WriteByte('(')
	}
	switch x := e.(type) {
	case *Const:
		if x.Text != "" {
			sb.WriteString(x.Text)
		} else {
			sb.WriteString(io.Sf("%g", x.Value))
		}
	case *Var:
		sb.WriteString(x.Ident)
	case *App:
		sb.WriteString(x.Name)
		sb.WriteByte('(')
		for i, a := range x.Args {
			if i > 0 {
				sb.WriteString(", ")
			}
			printExpr(sb, a, 0)
		}
		sb.WriteByte(')')
	case *Op1:
		switch x.Op {
		case OpPositive:
			sb.WriteByte('+')
		case OpNegative:
			sb.WriteByte('-')
		case OpNot:
			sb.WriteString("not ")
		}
		printExpr(sb, x.X, precUnary)
	case *Op2:
		// left-associative chains keep the left child at the same level;
		// '^' is right-associative so the rule flips; comparisons do not
		// associate at all, so both operands drop a level
		left, right := p, p+1
		if x.Op == OpExp {
			left, right = p+1, p
		}
		if p == precCmp {
			left = p + 1
		}
		printExpr(sb, x.A, left)
		sb.WriteByte(' ')
		sb.WriteString(x.Op.String())
		sb.WriteByte(' ')
		printExpr(sb, x.B, right)
	case *If:
		sb.WriteString("if ")
		printExpr(sb, x.Cond, precIf)
		sb.WriteString(" then ")
		printExpr(sb, x.Then, precIf)
		sb.WriteString(" else ")
		printExpr(sb, x.Else, precIf)
	}
	if p < ctx {
		sb.WriteByte(')')
	}
}
