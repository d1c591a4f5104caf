// Package sim is the local estimator used for noise comparisons. The
// stabilizer method computes exact expectation values of Clifford circuits,
// with or without a noise model; the statevector method is a dense,
// noiseless cross-check for small circuits.
package sim

import (
	"context"
	"math/rand/v2"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"gonum.org/v1/gonum/stat/distuv"

	"qtermdebug/circuit"
	"qtermdebug/estimator"
	"qtermdebug/noise"
	"qtermdebug/pauli"
)

// Simulation methods.
const (
	MethodStabilizer  = "stabilizer"
	MethodStatevector = "statevector"
)

// Options configures a Simulator.
type Options struct {
	Method           string       // MethodStabilizer when empty
	Noise            *noise.Model // nil for an ideal simulation
	Seed             *uint64      // seeds the shot noise; random when nil
	DefaultPrecision float64      // used for pubs whose precision is 0
	Logger           *zerolog.Logger
}

// Simulator implements estimator.Estimator.
type Simulator struct {
	opts Options
	log  zerolog.Logger
}

var _ estimator.Estimator = (*Simulator)(nil)

// New validates opts and returns a simulator.
func New(opts Options) (*Simulator, error) {
	if opts.Method == "" {
		opts.Method = MethodStabilizer
	}
	switch opts.Method {
	case MethodStabilizer:
	case MethodStatevector:
		if opts.Noise != nil && !opts.Noise.IsIdeal() {
			return nil, errors.New("the statevector method only runs ideal simulations")
		}
	default:
		return nil, errors.Errorf("unknown simulation method %q (want %q or %q)", opts.Method, MethodStabilizer, MethodStatevector)
	}
	if opts.DefaultPrecision < 0 {
		return nil, errors.Errorf("default precision %g is negative", opts.DefaultPrecision)
	}

	log := zerolog.Nop()
	if opts.Logger != nil {
		log = *opts.Logger
	}
	return &Simulator{
		opts: opts,
		log:  log.With().Str("component", "sim").Str("method", opts.Method).Logger(),
	}, nil
}

// Method returns the simulation method.
func (s *Simulator) Method() string { return s.opts.Method }

// source returns the random source for one run. With a seed every run draws
// the same sequence.
func (s *Simulator) source() rand.Source {
	if s.opts.Seed != nil {
		return rand.NewPCG(*s.opts.Seed, *s.opts.Seed)
	}
	return rand.NewPCG(rand.Uint64(), rand.Uint64())
}

// Run estimates every observable of every pub for every binding. Results are
// returned in pub order.
func (s *Simulator) Run(ctx context.Context, pubs []estimator.Pub) (estimator.PrimitiveResult, error) {
	src := s.source()
	result := estimator.PrimitiveResult{
		Metadata: map[string]any{"simulator_method": s.opts.Method},
	}

	for i, pub := range pubs {
		if err := ctx.Err(); err != nil {
			return estimator.PrimitiveResult{}, errors.Wrapf(err, "pub %d", i)
		}
		start := time.Now()

		pr, err := s.runPub(pub, src)
		if err != nil {
			return estimator.PrimitiveResult{}, errors.Wrapf(err, "pub %d", i)
		}
		result.Pubs = append(result.Pubs, pr)

		s.log.Debug().
			Int("pub", i).
			Int("bindings", pub.NumBindings()).
			Int("observables", len(pub.Observables)).
			Dur("elapsed", time.Since(start)).
			Msg("pub simulated")
	}
	return result, nil
}

func (s *Simulator) runPub(pub estimator.Pub, src rand.Source) (estimator.PubResult, error) {
	if err := pub.Validate(); err != nil {
		return estimator.PubResult{}, err
	}
	circuits, err := pub.BoundCircuits()
	if err != nil {
		return estimator.PubResult{}, err
	}

	precision := pub.Precision
	if precision == 0 {
		precision = s.opts.DefaultPrecision
	}
	shot := distuv.Normal{Mu: 0, Sigma: precision, Src: src}

	evs := make([][]float64, len(circuits))
	stds := make([][]float64, len(circuits))
	for b, c := range circuits {
		expect, err := s.expectationFunc(c)
		if err != nil {
			return estimator.PubResult{}, errors.Wrapf(err, "binding %d", b)
		}
		evs[b] = make([]float64, len(pub.Observables))
		stds[b] = make([]float64, len(pub.Observables))
		for o, obs := range pub.Observables {
			var v float64
			for _, term := range obs.Terms() {
				e, err := expect(term.Pauli)
				if err != nil {
					return estimator.PubResult{}, errors.Wrapf(err, "binding %d", b)
				}
				v += term.Coeff * e
			}
			if precision > 0 {
				v += shot.Rand()
			}
			evs[b][o] = v
			stds[b][o] = precision
		}
	}

	return estimator.PubResult{
		Evs:  evs,
		Stds: stds,
		Metadata: map[string]any{
			"target_precision": precision,
			"simulator_method": s.opts.Method,
			"circuit_depth":    pub.Circuit.Depth(),
		},
	}, nil
}

// expectationFunc prepares c once and returns a function evaluating Pauli
// expectations on its output state.
func (s *Simulator) expectationFunc(c *circuit.Circuit) (func(pauli.Pauli) (float64, error), error) {
	if s.opts.Method == MethodStatevector {
		state, err := simulateStatevector(c)
		if err != nil {
			return nil, err
		}
		return func(p pauli.Pauli) (float64, error) {
			return state.expectation(p), nil
		}, nil
	}
	ops := c.Ops()
	return func(p pauli.Pauli) (float64, error) {
		return stabilizerExpectation(ops, p, s.opts.Noise)
	}, nil
}
