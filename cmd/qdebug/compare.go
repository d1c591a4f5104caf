package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"qtermdebug/backend"
	"qtermdebug/circuit"
	"qtermdebug/debugger"
	"qtermdebug/estimator"
)

func readCircuit(path string) (*circuit.Circuit, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read circuit")
	}
	c, err := circuit.ParseQASM(string(raw))
	if err != nil {
		return nil, errors.Wrapf(err, "parse %s", path)
	}
	return c, nil
}

// parseSource accepts a simulation tag or the path of a result file.
func parseSource(arg string) (debugger.Source, error) {
	if arg == "" {
		return debugger.Source{}, nil
	}
	src, err := debugger.ParseSource(arg)
	if err == nil {
		return src, nil
	}
	f, openErr := os.Open(arg)
	if openErr != nil {
		return debugger.Source{}, err
	}
	defer f.Close()
	r, err := estimator.LoadResult(f)
	if err != nil {
		return debugger.Source{}, errors.Wrapf(err, "load %s", arg)
	}
	return debugger.Experimental(r), nil
}

func newCompareCmd(a *app) *cobra.Command {
	var (
		backendName string
		qasmPath    string
		observables []string
		params      []float64
		source1     string
		source2     string
		fomName     string
		precision   float64
		seed        uint64
	)

	cmd := &cobra.Command{
		Use:   "compare",
		Short: "Compare two sources of expectation values for a Clifford circuit",
		Long: `Runs a Clifford circuit through two sources and combines their
expectation values with a figure of merit.

A source is "noisy_sim", "ideal_sim" or the path of a YAML result file
holding expectation values measured elsewhere.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if backendName == "" {
				backendName = a.cfg.Backend
			}
			b, err := backend.Resolve(backendName)
			if err != nil {
				return err
			}
			c, err := readCircuit(qasmPath)
			if err != nil {
				return err
			}
			src1, err := parseSource(source1)
			if err != nil {
				return err
			}
			src2, err := parseSource(source2)
			if err != nil {
				return err
			}
			fom, err := debugger.LookupFOM(fomName)
			if err != nil {
				return err
			}

			opts := []debugger.CompareOption{debugger.WithFOM(fom), debugger.WithDefaultPrecision(a.cfg.DefaultPrecision)}
			if cmd.Flags().Changed("precision") {
				opts = append(opts, debugger.WithDefaultPrecision(precision))
			}
			switch {
			case cmd.Flags().Changed("seed"):
				opts = append(opts, debugger.WithSeed(seed))
			case a.cfg.Seed != nil:
				opts = append(opts, debugger.WithSeed(*a.cfg.Seed))
			}

			d, err := debugger.New(b, debugger.WithLogger(a.log))
			if err != nil {
				return err
			}
			pub := estimator.Tuple{Circuit: c, Observables: observables}
			if len(params) > 0 {
				pub.ParameterValues = params
			}
			values, err := d.Compare(cmd.Context(), []estimator.PubLike{pub}, src1, src2, opts...)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for i, binding := range values[0] {
				cells := make([]string, len(binding))
				for j, v := range binding {
					cells[j] = fmt.Sprintf("%s=%.6g", observables[j], v)
				}
				fmt.Fprintf(out, "binding %d: %s\n", i, strings.Join(cells, "  "))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&backendName, "backend", "", "fake backend name or backend YAML file (default $QDEBUG_BACKEND)")
	cmd.Flags().StringVar(&qasmPath, "qasm", "", "OpenQASM 2.0 circuit file")
	cmd.Flags().StringArrayVarP(&observables, "observable", "o", nil, `observable expression such as "ZZ" or "0.5*XI + ZZ", repeatable`)
	cmd.Flags().Float64SliceVar(&params, "params", nil, "parameter values for a single binding")
	cmd.Flags().StringVar(&source1, "source1", "noisy_sim", "first source")
	cmd.Flags().StringVar(&source2, "source2", "ideal_sim", "second source")
	cmd.Flags().StringVar(&fomName, "fom", "ratio", fmt.Sprintf("figure of merit, one of %v", debugger.FOMNames()))
	cmd.Flags().Float64Var(&precision, "precision", 0, "target precision for shot noise, 0 for exact values (default $QDEBUG_DEFAULT_PRECISION)")
	cmd.Flags().Uint64Var(&seed, "seed", 0, "seed for shot noise (default $QDEBUG_SEED)")
	_ = cmd.MarkFlagRequired("qasm")
	_ = cmd.MarkFlagRequired("observable")
	return cmd
}

func newCliffordCmd(a *app) *cobra.Command {
	var qasmPath string

	cmd := &cobra.Command{
		Use:   "clifford",
		Short: "Print the nearest Clifford circuit as OpenQASM",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := readCircuit(qasmPath)
			if err != nil {
				return err
			}
			b, err := backend.Resolve(a.cfg.Backend)
			if err != nil {
				return err
			}
			d, err := debugger.New(b, debugger.WithLogger(a.log))
			if err != nil {
				return err
			}
			pubs, err := d.ToClifford([]estimator.PubLike{estimator.Pub{Circuit: c}})
			if err != nil {
				return err
			}
			_, err = fmt.Fprint(cmd.OutOrStdout(), pubs[0].Circuit.ToQASM())
			return err
		},
	}
	cmd.Flags().StringVar(&qasmPath, "qasm", "", "OpenQASM 2.0 circuit file")
	_ = cmd.MarkFlagRequired("qasm")
	return cmd
}
