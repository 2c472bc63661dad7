// Copyright 2020 The Gosd Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package eqn implements lexing and parsing of model equations into expression trees
package eqn

import (
	"strings"
	"unicode"
)

// CanonicalIdent returns the canonical form of a variable identifier: lower-case with
// whitespace runs collapsed to single underscores. An empty result means the input
// cannot name a variable.
func CanonicalIdent(name string) (ident string, ok bool) {
	name = strings.TrimSpace(name)
	var sb strings.Builder
	inspace := false
	for _, r := range name {
		if unicode.IsSpace(r) {
			inspace = true
			continue
		}
		if inspace {
			sb.WriteByte('_')
			inspace = false
		}
		sb.WriteRune(unicode.ToLower(r))
	}
	ident = sb.String()
	ok = len(ident) > 0
	return
}

// FirstSegment returns the part of a dotted identifier before the first '.',
// or the whole identifier if it has no dot.
func FirstSegment(ident string) string {
	if i := strings.IndexByte(ident, '.'); i >= 0 {
		return ident[:i]
	}
	return ident
}
