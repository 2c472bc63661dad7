// Copyright 2020 The Gosd Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// mdl simulates system dynamics models and converts them between formats
package main

import (
	"encoding/json"
	"os"
	"strings"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
	"github.com/spf13/cobra"

	"github.com/cpmech/gosd/inp"
	"github.com/cpmech/gosd/out"
	"github.com/cpmech/gosd/sim"
)

// command-line options
var (
	optVensim    bool   // input is a Vensim .mdl file
	optModelOnly bool   // convert: output a single model instead of the project
	optOutput    string // path of output file
	optVerbose   bool   // print progress messages
)

func main() {
	root := &cobra.Command{
		Use:           "mdl",
		Short:         "mdl simulates system dynamics models",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().BoolVar(&optVensim, "vensim", false, "model is a Vensim .mdl file")
	root.PersistentFlags().BoolVar(&optModelOnly, "model-only", false, "for conversion, only output model instead of project")
	root.PersistentFlags().StringVar(&optOutput, "output", "", "path to write output file")
	root.PersistentFlags().BoolVar(&optVerbose, "verbose", false, "show progress messages")

	root.AddCommand(&cobra.Command{
		Use:   "simulate PATH",
		Short: "simulate a model and display output",
		Args:  cobra.ExactArgs(1),
		RunE:  func(cmd *cobra.Command, args []string) error { return simulate(args[0]) },
	})
	root.AddCommand(&cobra.Command{
		Use:   "convert PATH",
		Short: "convert a project to canonical JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  func(cmd *cobra.Command, args []string) error { return convert(args[0]) },
	})

	if err := root.Execute(); err != nil {
		io.PfRed("ERROR: %v\n", err)
		os.Exit(1)
	}
}

// readProject reads the declarative project from the input path
func readProject(path string) (*inp.Project, error) {
	if optVensim {
		return nil, chk.Err("the Vensim reader is not bundled with this build")
	}
	return inp.ReadProject(path)
}

// simulate reads, analyses, compiles and runs a project, printing the result
// table as TSV
func simulate(path string) error {

	p, err := readProject(path)
	if err != nil {
		return err
	}
	prj := sim.NewProject(p)

	// report collected analysis errors before giving up
	nerrors := reportErrors(prj)

	s, serr := sim.NewSimulation(prj, "main")
	if serr != nil {
		if !(serr.Code == sim.NotSimulatable && nerrors > 0) {
			io.PfRed("ERROR: %v\n", serr)
		}
		os.Exit(1)
	}
	s.Verbose = optVerbose

	res, rerr := s.Run()
	if rerr != nil {
		return rerr
	}

	tbl := out.NewTable(res)
	if optOutput != "" {
		return os.WriteFile(optOutput, []byte(tbl.Tsv()), 0644)
	}
	tbl.Print()
	return nil
}

// reportErrors prints every collected per-variable and per-model error,
// underlining the offending substring of the equation
func reportErrors(prj *sim.Project) (nerrors int) {
	for name, m := range prj.Models {
		for _, ident := range m.VarNames() {
			v := m.Variables[ident]
			for _, e := range v.Errors {
				nerrors++
				width := e.End - e.Start
				if width < 1 {
					width = 1
				}
				io.Pf("\n    %s\n", v.EqnText)
				io.Pfred("    %s%s\n", strings.Repeat(" ", e.Start), strings.Repeat("~", width))
				io.PfRed("error in model %q variable %q: %v\n", name, ident, e)
			}
		}
		for _, e := range m.Errors {
			if e.Code == sim.VariablesHaveErrors && nerrors > 0 {
				continue
			}
			nerrors++
			io.PfRed("error in model %q: %v\n", name, e)
		}
	}
	for _, e := range prj.Errors {
		nerrors++
		io.PfRed("error in project: %v\n", e)
	}
	return
}

// convert re-serialises a project as canonical JSON. With --model-only the
// project must contain exactly one model.
func convert(path string) error {

	p, err := readProject(path)
	if err != nil {
		return err
	}

	var obj interface{} = p
	if optModelOnly {
		if len(p.Models) != 1 {
			return chk.Err("--model-only specified, but %d models in this project", len(p.Models))
		}
		obj = p.Models[0]
	}
	b, err := json.MarshalIndent(obj, "", "  ")
	if err != nil {
		return err
	}
	b = append(b, '\n')

	if optOutput != "" {
		return os.WriteFile(optOutput, b, 0644)
	}
	io.Pf("%s", string(b))
	return nil
}
