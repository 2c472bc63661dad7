// Copyright 2020 The Gosd Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package eqn

import "strconv"

// Parser builds expression trees from equation strings. It never panics on
// malformed input: diagnostics are collected and, where possible, a partial
// tree is still produced.
type Parser struct {
	scn    *Scanner // token source
	tok    Tok      // current token
	Errors []Error  // collected diagnostics
}

// Parse parses one equation string. On failure the returned tree may be nil
// or partial; errs holds the diagnostics with byte offsets into src.
func Parse(src string) (tree Expr, errs []Error) {
	o := new(Parser)
	o.scn = NewScanner(src)
	o.next()
	tree = o.parseExpr()
	if o.tok.Kind != TkEOF && len(o.Errors) == 0 {
		o.errorAt(o.tok, ErrExtraTokens)
	}
	errs = o.Errors
	return
}

// next advances to the next token, recording unrecognised characters
func (o *Parser) next() {
	for {
		o.tok = o.scn.Next()
		if o.tok.Kind != TkError {
			return
		}
		o.errorAt(o.tok, ErrUnrecognized)
	}
}

// errorAt records one diagnostic
func (o *Parser) errorAt(tok Tok, code ErrCode) {
	o.Errors = append(o.Errors, Error{Start: tok.Start, End: tok.End, Code: code})
}

// expect consumes a token of the given kind or records an error
func (o *Parser) expect(kind TokKind) (ok bool) {
	if o.tok.Kind != kind {
		o.errorAt(o.tok, ErrExpectedToken)
		return
	}
	o.next()
	return true
}

// parseExpr is the entry production: an if-expression or an or-chain
func (o *Parser) parseExpr() Expr {
	if o.tok.Kind == TkIf {
		return o.parseIf()
	}
	return o.parseOr()
}

// parseIf parses "if expr then expr else expr"
func (o *Parser) parseIf() Expr {
	o.next() // consume 'if'
	cond := o.parseExpr()
	if !o.expect(TkThen) {
		return cond
	}
	then := o.parseExpr()
	if !o.expect(TkElse) {
		return then
	}
	els := o.parseExpr()
	return &If{Cond: cond, Then: then, Else: els}
}

// parseOr parses left-associative 'or' chains
func (o *Parser) parseOr() Expr {
	e := o.parseAnd()
	for o.tok.Kind == TkOr {
		o.next()
		e = &Op2{Op: OpOr, A: e, B: o.parseAnd()}
	}
	return e
}

// parseAnd parses left-associative 'and' chains
func (o *Parser) parseAnd() Expr {
	e := o.parseCmp()
	for o.tok.Kind == TkAnd {
		o.next()
		e = &Op2{Op: OpAnd, A: e, B: o.parseCmp()}
	}
	return e
}

// parseCmp parses an optional single comparison
func (o *Parser) parseCmp() Expr {
	e := o.parseAdd()
	var op BinaryOp
	switch o.tok.Kind {
	case TkEq:
		op = OpEq
	case TkNeq:
		op = OpNeq
	case TkLt:
		op = OpLt
	case TkLte:
		op = OpLte
	case TkGt:
		op = OpGt
	case TkGte:
		op = OpGte
	default:
		return e
	}
	o.next()
	return &Op2{Op: op, A: e, B: o.parseAdd()}
}

// parseAdd parses left-associative '+' and '-' chains
func (o *Parser) parseAdd() Expr {
	e := o.parseMul()
	for {
		var op BinaryOp
		switch o.tok.Kind {
		case TkPlus:
			op = OpAdd
		case TkMinus:
			op = OpSub
		default:
			return e
		}
		o.next()
		e = &Op2{Op: op, A: e, B: o.parseMul()}
	}
}

// parseMul parses left-associative '*', '/' and 'mod' chains
func (o *Parser) parseMul() Expr {
	e := o.parsePow()
	for {
		var op BinaryOp
		switch o.tok.Kind {
		case TkStar:
			op = OpMul
		case TkSlash:
			op = OpDiv
		case TkMod:
			op = OpMod
		default:
			return e
		}
		o.next()
		e = &Op2{Op: op, A: e, B: o.parsePow()}
	}
}

// parsePow parses right-associative '^'
func (o *Parser) parsePow() Expr {
	e := o.parseUnary()
	if o.tok.Kind == TkCaret {
		o.next()
		return &Op2{Op: OpExp, A: e, B: o.parsePow()}
	}
	return e
}

// parseUnary parses prefix '+', '-' and 'not'
func (o *Parser) parseUnary() Expr {
	switch o.tok.Kind {
	case TkPlus:
		o.next()
		return &Op1{Op: OpPositive, X: o.parseUnary()}
	case TkMinus:
		o.next()
		return &Op1{Op: OpNegative, X: o.parseUnary()}
	case TkNot:
		o.next()
		return &Op1{Op: OpNot, X: o.parseUnary()}
	}
	return o.parsePrimary()
}

// parsePrimary parses numbers, variables, function calls and parenthesised expressions
func (o *Parser) parsePrimary() Expr {
	switch o.tok.Kind {

	case TkNum:
		tok := o.tok
		o.next()
		val, err := strconv.ParseFloat(tok.Text, 64)
		if err != nil {
			o.errorAt(tok, ErrBadNumber)
			return nil
		}
		return &Const{Text: tok.Text, Value: val}

	case TkIdent:
		tok := o.tok
		o.next()
		if o.tok.Kind != TkLparen {
			return &Var{Ident: tok.Text}
		}
		o.next() // consume '('
		app := &App{Name: tok.Text}
		if o.tok.Kind != TkRparen {
			for {
				app.Args = append(app.Args, o.parseExpr())
				if o.tok.Kind != TkComma {
					break
				}
				o.next()
			}
		}
		if o.tok.Kind != TkRparen {
			o.errorAt(o.tok, ErrUnbalanced)
			return app
		}
		o.next()
		return app

	case TkLparen:
		o.next()
		e := o.parseExpr()
		if o.tok.Kind != TkRparen {
			o.errorAt(o.tok, ErrUnbalanced)
			return e
		}
		o.next()
		return e
	}

	o.errorAt(o.tok, ErrExpectedPrimary)
	if o.tok.Kind != TkEOF {
		o.next() // skip the offending token so parsing can continue
	}
	return nil
}
