// Package debugger predicts how noise degrades expectation values. It runs
// the same Clifford pubs through two sources, typically a noisy and an ideal
// stabilizer simulation, and combines both results with a figure of merit.
package debugger

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"qtermdebug/backend"
	"qtermdebug/clifford"
	"qtermdebug/estimator"
	"qtermdebug/noise"
	"qtermdebug/sim"
)

// EstimatorFactory builds the estimator that runs one simulated source.
type EstimatorFactory func(opts sim.Options) (estimator.Estimator, error)

func newSimulator(opts sim.Options) (estimator.Estimator, error) {
	s, err := sim.New(opts)
	if err != nil {
		return nil, err
	}
	return s, nil
}

// Option configures a Debugger.
type Option func(*Debugger)

// WithNoiseModel uses m for noisy simulations instead of deriving one from
// the backend calibration.
func WithNoiseModel(m *noise.Model) Option {
	return func(d *Debugger) { d.noiseModel = m }
}

// WithLogger sets the logger.
func WithLogger(log zerolog.Logger) Option {
	return func(d *Debugger) { d.log = log }
}

// WithEstimatorFactory replaces the local simulator.
func WithEstimatorFactory(f EstimatorFactory) Option {
	return func(d *Debugger) { d.factory = f }
}

// Debugger compares simulated or measured expectation values for a backend.
// It is safe for concurrent use.
type Debugger struct {
	backend *backend.Backend
	factory EstimatorFactory
	log     zerolog.Logger

	noiseOnce  sync.Once
	noiseModel *noise.Model
	noiseErr   error
}

// New returns a debugger for b.
func New(b *backend.Backend, opts ...Option) (*Debugger, error) {
	if b == nil {
		return nil, errors.New("debugger needs a backend")
	}
	if err := b.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid backend")
	}
	d := &Debugger{
		backend: b,
		factory: newSimulator,
		log:     zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(d)
	}
	d.log = d.log.With().Str("component", "debugger").Str("backend", b.Name).Logger()
	return d, nil
}

// Backend returns the backend the debugger validates against.
func (d *Debugger) Backend() *backend.Backend { return d.backend }

// NoiseModel returns the model used by noisy simulations. Unless one was
// given to New, it is derived from the backend calibration on first use,
// without thermal relaxation, and kept for the debugger's lifetime.
func (d *Debugger) NoiseModel() (*noise.Model, error) {
	d.noiseOnce.Do(func() {
		if d.noiseModel != nil {
			return
		}
		d.noiseModel, d.noiseErr = noise.FromBackend(d.backend, noise.WithoutThermalRelaxation())
		if d.noiseErr != nil {
			d.noiseErr = errors.Wrap(d.noiseErr, "derive noise model")
			return
		}
		d.log.Debug().Str("noise_model", d.noiseModel.String()).Msg("noise model derived from calibration")
	})
	return d.noiseModel, d.noiseErr
}

func (d *Debugger) String() string {
	m, err := d.NoiseModel()
	if err != nil {
		return fmt.Sprintf("Debugger(backend=%s, noise_model=error: %v)", d.backend.Name, err)
	}
	return fmt.Sprintf("Debugger(backend=%s, noise_model=%s)", d.backend.Name, m)
}

type compareOptions struct {
	fom       FOM
	precision float64
	seed      *uint64
}

// CompareOption configures one comparison.
type CompareOption func(*compareOptions)

// WithFOM sets the figure of merit. Ratio is the default.
func WithFOM(f FOM) CompareOption {
	return func(o *compareOptions) { o.fom = f }
}

// WithDefaultPrecision sets the precision of pubs that carry none. Zero
// means exact expectation values.
func WithDefaultPrecision(p float64) CompareOption {
	return func(o *compareOptions) { o.precision = p }
}

// WithSeed seeds the shot noise of both simulations.
func WithSeed(seed uint64) CompareOption {
	return func(o *compareOptions) { o.seed = &seed }
}

// Compare resolves both sources for pubs and combines them with the figure
// of merit, pub by pub. Unset sources default to NoisySim and IdealSim.
// Every pub is checked against the backend target and the Clifford gate set
// before anything is simulated.
func (d *Debugger) Compare(ctx context.Context, pubs []estimator.PubLike, source1, source2 Source, opts ...CompareOption) (Values, error) {
	co := compareOptions{fom: Ratio{}}
	for _, opt := range opts {
		opt(&co)
	}
	if co.fom == nil {
		return nil, &ValidationError{Pub: -1, Err: errors.New("no figure of merit")}
	}
	if co.precision < 0 {
		return nil, &ValidationError{Pub: -1, Err: errors.Errorf("default precision %g is negative", co.precision)}
	}
	if source1.IsZero() {
		source1 = NoisySim()
	}
	if source2.IsZero() {
		source2 = IdealSim()
	}

	coerced, err := estimator.Coerce(pubs)
	if err != nil {
		return nil, &ValidationError{Pub: -1, Err: err}
	}
	if err := d.validate(coerced); err != nil {
		return nil, err
	}

	log := d.log.With().Str("run", uuid.NewString()).Logger()
	log.Debug().
		Int("pubs", len(coerced)).
		Stringer("source1", source1).
		Stringer("source2", source2).
		Str("fom", co.fom.Name()).
		Msg("comparison started")

	r1, err := d.resolve(ctx, source1, coerced, co, log)
	if err != nil {
		return nil, err
	}
	r2, err := d.resolve(ctx, source2, coerced, co, log)
	if err != nil {
		return nil, err
	}

	values, err := co.fom.Combine(r1, r2)
	if err != nil {
		return nil, errors.Wrapf(err, "combine with %s", co.fom.Name())
	}
	log.Debug().Msg("comparison finished")
	return values, nil
}

// validate checks every pub for consistency, the backend target and the
// Clifford gate set, stopping at the first failure.
func (d *Debugger) validate(pubs []estimator.Pub) error {
	for i, pub := range pubs {
		if err := pub.Validate(); err != nil {
			return &ValidationError{Pub: i, Err: err}
		}
		if err := d.backend.CheckISA(pub.Circuit); err != nil {
			return &ValidationError{Pub: i, Err: err}
		}
		circuits, err := pub.BoundCircuits()
		if err != nil {
			return &ValidationError{Pub: i, Err: err}
		}
		for _, c := range circuits {
			if err := clifford.Validate(c); err != nil {
				return &ValidationError{Pub: i, Err: errors.Wrap(err, "circuit is not Clifford, convert it with ToClifford first")}
			}
		}
	}
	return nil
}

func (d *Debugger) resolve(ctx context.Context, src Source, pubs []estimator.Pub, co compareOptions, log zerolog.Logger) (estimator.PrimitiveResult, error) {
	opts := sim.Options{
		Method:           sim.MethodStabilizer,
		Seed:             co.seed,
		DefaultPrecision: co.precision,
		Logger:           &log,
	}
	switch src.kind {
	case sourceExperimental:
		return src.result.Clone(), nil
	case sourceIdealSim:
	case sourceNoisySim:
		m, err := d.NoiseModel()
		if err != nil {
			return estimator.PrimitiveResult{}, err
		}
		opts.Noise = m
	default:
		return estimator.PrimitiveResult{}, &ValidationError{Pub: -1, Err: errors.Errorf("invalid source %s", src)}
	}

	est, err := d.factory(opts)
	if err != nil {
		return estimator.PrimitiveResult{}, errors.Wrapf(err, "build %s estimator", src)
	}
	res, err := est.Run(ctx, pubs)
	if err != nil {
		return estimator.PrimitiveResult{}, errors.Wrapf(err, "run %s", src)
	}
	return res, nil
}

// ToClifford returns copies of pubs whose circuits and parameter values are
// rounded to the nearest Clifford angles. Nothing is simulated, so pubs
// without observables are accepted; observables that are given must still
// match the circuit width.
func (d *Debugger) ToClifford(pubs []estimator.PubLike) ([]estimator.Pub, error) {
	coerced, err := estimator.Coerce(pubs)
	if err != nil {
		return nil, &ValidationError{Pub: -1, Err: err}
	}
	out := make([]estimator.Pub, len(coerced))
	for i, pub := range coerced {
		validate := pub.Validate
		if len(pub.Observables) == 0 {
			validate = pub.ValidateBindings
		}
		if err := validate(); err != nil {
			return nil, &ValidationError{Pub: i, Err: err}
		}
		c, err := clifford.ToNearest(pub.Circuit)
		if err != nil {
			return nil, &ValidationError{Pub: i, Err: err}
		}
		pub.Circuit = c
		if len(pub.ParameterValues) > 0 {
			pub.ParameterValues, err = clifford.ToNearestValues(c, pub.ParameterValues)
			if err != nil {
				return nil, &ValidationError{Pub: i, Err: err}
			}
		}
		out[i] = pub
	}
	return out, nil
}
