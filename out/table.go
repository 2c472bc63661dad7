// Copyright 2020 The Gosd Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package out implements simulation output handling: result tables, printing and saving
package out

import (
	"bytes"

	"github.com/cpmech/gosl/io"

	"github.com/cpmech/gosd/sim"
)

// Table is the tabular output of a simulation run: one column per saved
// variable plus time, one row per save point, in save order
type Table struct {
	Names []string    // column names; Names[0] = "time"
	Times []float64   // saved times
	Data  [][]float64 // [nrows][ncols] values
}

// NewTable wraps the results of a run
func NewTable(res *sim.Results) (o *Table) {
	return &Table{Names: res.Names, Times: res.Times, Data: res.Data}
}

// Series returns the column of a fully-qualified variable, or nil
func (o *Table) Series(name string) (vals []float64) {
	for j, n := range o.Names {
		if n == name {
			vals = make([]float64, len(o.Data))
			for i, row := range o.Data {
				vals[i] = row[j]
			}
			return
		}
	}
	return
}

// Nrows returns the number of saved rows
func (o *Table) Nrows() int {
	return len(o.Data)
}

// Tsv renders the table as tab-separated values with a header line
func (o *Table) Tsv() string {
	var buf bytes.Buffer
	for j, n := range o.Names {
		if j > 0 {
			io.Ff(&buf, "\t")
		}
		io.Ff(&buf, "%s", n)
	}
	io.Ff(&buf, "\n")
	for _, row := range o.Data {
		for j, v := range row {
			if j > 0 {
				io.Ff(&buf, "\t")
			}
			io.Ff(&buf, "%g", v)
		}
		io.Ff(&buf, "\n")
	}
	return buf.String()
}

// Print writes the table to standard output
func (o *Table) Print() {
	io.Pf("%s", o.Tsv())
}

// Save writes the table to dirout/fnkey.tsv
func (o *Table) Save(dirout, fnkey string) {
	var buf bytes.Buffer
	io.Ff(&buf, "%s", o.Tsv())
	io.WriteFileVD(dirout, fnkey+".tsv", &buf)
}
