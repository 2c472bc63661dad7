// Copyright 2020 The Gosd Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package out

import (
	"testing"

	"github.com/cpmech/gosl/chk"

	"github.com/cpmech/gosd/sim"
)

func verbose() {
	chk.Verbose = true
}

func Test_out01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("out01. table rendering and series access")

	res := &sim.Results{
		Names: []string{"time", "s", "drain"},
		Times: []float64{0, 1, 2},
		Data: [][]float64{
			{0, 100, 10},
			{1, 90, 9},
			{2, 81, 8.1},
		},
	}
	tbl := NewTable(res)

	chk.IntAssert(tbl.Nrows(), 3)
	chk.Array(tst, "s", 1e-15, tbl.Series("s"), []float64{100, 90, 81})
	chk.Array(tst, "time", 1e-15, tbl.Series("time"), []float64{0, 1, 2})
	if tbl.Series("missing") != nil {
		tst.Errorf("unknown column must return nil\n")
		return
	}

	correct := "time\ts\tdrain\n" +
		"0\t100\t10\n" +
		"1\t90\t9\n" +
		"2\t81\t8.1\n"
	chk.String(tst, tbl.Tsv(), correct)
}

func Test_out02(tst *testing.T) {

	//verbose()
	chk.PrintTitle("out02. saving to file")

	res := &sim.Results{Names: []string{"time"}, Times: []float64{0}, Data: [][]float64{{0}}}
	tbl := NewTable(res)
	if chk.Verbose {
		tbl.Save("/tmp/gosd", "out02")
	}
	chk.IntAssert(tbl.Nrows(), 1)
}
