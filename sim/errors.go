// Copyright 2020 The Gosd Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package sim

import "github.com/cpmech/gosl/io"

// ErrorCode enumerates the kinds of analysis and compilation errors
type ErrorCode int

// error codes
const (
	NoError ErrorCode = iota
	BadIdentifier
	NoAbsoluteReferences
	CircularDependency
	UnknownDependency
	BadSimSpecs
	VariablesHaveErrors
	NotSimulatable
	ArityMismatch
	UnknownBuiltin
	UnknownModel
	BadModuleReference
	MissingFlow
)

// String returns the name of an error code
func (o ErrorCode) String() string {
	switch o {
	case NoError:
		return "no_error"
	case BadIdentifier:
		return "bad_identifier"
	case NoAbsoluteReferences:
		return "no_absolute_references"
	case CircularDependency:
		return "circular_dependency"
	case UnknownDependency:
		return "unknown_dependency"
	case BadSimSpecs:
		return "bad_sim_specs"
	case VariablesHaveErrors:
		return "variables_have_errors"
	case NotSimulatable:
		return "not_simulatable"
	case ArityMismatch:
		return "arity_mismatch"
	case UnknownBuiltin:
		return "unknown_builtin"
	case UnknownModel:
		return "unknown_model"
	case BadModuleReference:
		return "bad_module_reference"
	case MissingFlow:
		return "missing_flow"
	}
	return "unknown"
}

// Error is one analysis or compilation error, attached to the identifier
// (variable or model name) it was raised for
type Error struct {
	Code    ErrorCode // kind of error
	Ident   string    // variable or model the error refers to
	Details string    // optional extra information
}

// NewError returns a new error record
func NewError(code ErrorCode, ident string) *Error {
	return &Error{Code: code, Ident: ident}
}

// Error implements the error interface
func (o *Error) Error() string {
	if o.Details != "" {
		return io.Sf("%s: %s (%s)", o.Code.String(), o.Ident, o.Details)
	}
	return io.Sf("%s: %s", o.Code.String(), o.Ident)
}
