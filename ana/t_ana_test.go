// Copyright 2020 The Gosd Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ana

import (
	"math"
	"testing"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/fun/dbf"
)

func verbose() {
	chk.Verbose = true
}

func Test_decay01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("decay01. exponential decay")

	var sol ExpDecay
	sol.Init(dbf.Params{
		&dbf.P{N: "s0", V: 50},
		&dbf.P{N: "k", V: 0.2},
	})

	chk.Float64(tst, "S(0)", 1e-15, sol.Sval(0), 50)
	chk.Float64(tst, "S(5)", 1e-13, sol.Sval(5), 50*math.Exp(-1))

	// the solution satisfies dS/dt = -k S
	h := 1e-6
	t := 2.5
	dSdt := (sol.Sval(t+h) - sol.Sval(t-h)) / (2 * h)
	chk.Float64(tst, "dS/dt", 1e-6, dSdt, -0.2*sol.Sval(t))
}

func Test_growth01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("growth01. linear growth")

	var sol LinearGrowth
	sol.Init(dbf.Params{
		&dbf.P{N: "s0", V: 3},
		&dbf.P{N: "r", V: 2},
		&dbf.P{N: "t0", V: 1},
	})

	chk.Float64(tst, "S(1)", 1e-15, sol.Sval(1), 3)
	chk.Float64(tst, "S(4)", 1e-15, sol.Sval(4), 9)
}
