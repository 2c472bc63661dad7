// Copyright 2020 The Gosd Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package eqn

import "strings"

// TokKind enumerates token kinds
type TokKind int

// token kinds
const (
	TkEOF TokKind = iota
	TkError
	TkNum
	TkIdent
	TkIf
	TkThen
	TkElse
	TkAnd
	TkOr
	TkNot
	TkMod
	TkPlus
	TkMinus
	TkStar
	TkSlash
	TkCaret
	TkLparen
	TkRparen
	TkComma
	TkEq
	TkNeq
	TkLt
	TkLte
	TkGt
	TkGte
)

// reserved maps reserved words (already lower-cased) to their token kinds
var reserved = map[string]TokKind{
	"if":   TkIf,
	"then": TkThen,
	"else": TkElse,
	"and":  TkAnd,
	"or":   TkOr,
	"not":  TkNot,
	"mod":  TkMod,
}

// Tok is one lexical token with its byte span in the source equation
type Tok struct {
	Kind  TokKind // kind of token
	Text  string  // text; identifiers are lower-cased, numbers keep the original spelling
	Start int     // byte offset of first byte
	End   int     // byte offset one past last byte
}

// Scanner walks an equation string producing tokens
type Scanner struct {
	src string // source equation
	pos int    // current byte position
}

// NewScanner returns a scanner over an equation string
func NewScanner(src string) *Scanner {
	return &Scanner{src: src}
}

// Next returns the next token. At the end of input it keeps returning TkEOF.
func (o *Scanner) Next() (tok Tok) {

	// skip whitespace
	for o.pos < len(o.src) && isSpace(o.src[o.pos]) {
		o.pos++
	}
	tok.Start = o.pos
	if o.pos >= len(o.src) {
		tok.Kind = TkEOF
		tok.End = o.pos
		return
	}

	c := o.src[o.pos]
	switch {

	// number: digits or a leading dot as in ".1"
	case isDigit(c) || (c == '.' && o.pos+1 < len(o.src) && isDigit(o.src[o.pos+1])):
		return o.number()

	// identifier; a leading backslash is kept so absolute references
	// such as \.a.b survive to the dependency analysis where they are rejected
	case isIdentStart(c) || c == '\\':
		for o.pos < len(o.src) && isIdentPart(o.src[o.pos]) {
			o.pos++
		}
		tok.End = o.pos
		tok.Text = strings.ToLower(o.src[tok.Start:tok.End])
		if kind, ok := reserved[tok.Text]; ok {
			tok.Kind = kind
		} else {
			tok.Kind = TkIdent
		}
		return

	default:
		o.pos++
		tok.End = o.pos
		tok.Text = o.src[tok.Start:tok.End]
		switch c {
		case '+':
			tok.Kind = TkPlus
		case '-':
			tok.Kind = TkMinus
		case '*':
			tok.Kind = TkStar
		case '/':
			tok.Kind = TkSlash
		case '^':
			tok.Kind = TkCaret
		case '(':
			tok.Kind = TkLparen
		case ')':
			tok.Kind = TkRparen
		case ',':
			tok.Kind = TkComma
		case '=':
			tok.Kind = TkEq
		case '<':
			if o.peek() == '=' {
				o.pos++
			} else if o.peek() == '>' {
				o.pos++
				tok.Kind = TkNeq
				tok.End = o.pos
				tok.Text = o.src[tok.Start:tok.End]
				return
			}
			tok.End = o.pos
			tok.Text = o.src[tok.Start:tok.End]
			if tok.Text == "<=" {
				tok.Kind = TkLte
			} else {
				tok.Kind = TkLt
			}
		case '>':
			if o.peek() == '=' {
				o.pos++
				tok.Kind = TkGte
			} else {
				tok.Kind = TkGt
			}
			tok.End = o.pos
			tok.Text = o.src[tok.Start:tok.End]
		case '!':
			if o.peek() == '=' {
				o.pos++
				tok.Kind = TkNeq
				tok.End = o.pos
				tok.Text = o.src[tok.Start:tok.End]
				return
			}
			tok.Kind = TkNot
		default:
			tok.Kind = TkError
		}
		return
	}
}

// number scans a numeric literal: integer, decimal or scientific
func (o *Scanner) number() (tok Tok) {
	tok.Start = o.pos
	tok.Kind = TkNum
	for o.pos < len(o.src) && isDigit(o.src[o.pos]) {
		o.pos++
	}
	if o.pos < len(o.src) && o.src[o.pos] == '.' {
		o.pos++
		for o.pos < len(o.src) && isDigit(o.src[o.pos]) {
			o.pos++
		}
	}
	if o.pos < len(o.src) && (o.src[o.pos] == 'e' || o.src[o.pos] == 'E') {
		p := o.pos + 1
		if p < len(o.src) && (o.src[p] == '+' || o.src[p] == '-') {
			p++
		}
		if p < len(o.src) && isDigit(o.src[p]) {
			o.pos = p
			for o.pos < len(o.src) && isDigit(o.src[o.pos]) {
				o.pos++
			}
		}
	}
	tok.End = o.pos
	tok.Text = o.src[tok.Start:tok.End]
	return
}

// peek returns the next byte without consuming it, or 0 at the end of input
func (o *Scanner) peek() byte {
	if o.pos < len(o.src) {
		return o.src[o.pos]
	}
	return 0
}

// character class helpers
func isSpace(c byte) bool { return c == ' ' || c == '\t' || c == '\n' || c == '\r' }
func isDigit(c byte) bool { return c >= '0' && c <= '9' }
func isIdentStart(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || c == '_'
}
func isIdentPart(c byte) bool {
	return isIdentStart(c) || isDigit(c) || c == '.' || c == '\\'
}
