// Copyright 2020 The Gosd Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package eqn

import "github.com/cpmech/gosl/io"

// ErrCode distinguishes the kinds of equation errors
type ErrCode int

// equation error codes
const (
	ErrNone            ErrCode = iota
	ErrUnrecognized            // character or token not part of the language
	ErrBadNumber               // malformed numeric literal
	ErrExpectedPrimary         // operand expected (number, identifier or parenthesised expression)
	ErrExpectedToken           // a specific token was expected; e.g. 'then' after an if-condition
	ErrUnbalanced              // missing closing parenthesis
	ErrExtraTokens             // input continues after a complete expression
)

// String returns the name of an error code
func (o ErrCode) String() string {
	switch o {
	case ErrNone:
		return "no_error"
	case ErrUnrecognized:
		return "unrecognized_token"
	case ErrBadNumber:
		return "bad_number"
	case ErrExpectedPrimary:
		return "expected_operand"
	case ErrExpectedToken:
		return "expected_token"
	case ErrUnbalanced:
		return "unbalanced_parentheses"
	case ErrExtraTokens:
		return "extra_tokens"
	}
	return "unknown"
}

// Error is one diagnostic produced while scanning or parsing an equation.
// Start and End are byte offsets into the original equation string so callers
// can underline the offending substring.
type Error struct {
	Start int     // byte offset of the first offending byte
	End   int     // byte offset one past the last offending byte
	Code  ErrCode // what went wrong
}

// Error implements the error interface
func (o Error) Error() string {
	return io.Sf("%s at [%d:%d]", o.Code.String(), o.Start, o.End)
}
