package noise

import (
	"math"

	"github.com/pkg/errors"

	"qtermdebug/backend"
)

// singleQubitDurations are pulse lengths in nanoseconds. RZ is a frame change
// and takes no time.
var singleQubitDurations = map[string]float64{
	"SX": 35.5,
	"X":  35.5,
	"I":  35.5,
}

type buildOptions struct {
	gateErrors        bool
	readoutErrors     bool
	thermalRelaxation bool
}

// Option configures FromBackend.
type Option func(*buildOptions)

// WithoutThermalRelaxation attributes each calibrated gate error entirely to
// depolarizing noise.
func WithoutThermalRelaxation() Option {
	return func(o *buildOptions) { o.thermalRelaxation = false }
}

// WithoutGateErrors drops the depolarizing part of the model.
func WithoutGateErrors() Option {
	return func(o *buildOptions) { o.gateErrors = false }
}

// WithoutReadoutErrors drops the readout part of the model.
func WithoutReadoutErrors() Option {
	return func(o *buildOptions) { o.readoutErrors = false }
}

// FromBackend derives a model from the backend calibration. The result is
// deterministic for a given backend.
func FromBackend(b *backend.Backend, opts ...Option) (*Model, error) {
	o := buildOptions{gateErrors: true, readoutErrors: true, thermalRelaxation: true}
	for _, opt := range opts {
		opt(&o)
	}

	m := New(b.NumQubits)
	cal := b.Calibration

	for q, props := range cal.Qubits {
		if o.readoutErrors {
			if err := m.SetReadoutError(q, props.ReadoutError); err != nil {
				return nil, errors.Wrapf(err, "readout of qubit %d", q)
			}
		}
		for gate, gateErr := range props.GateErrors {
			if _, native := b.Target[gate]; !native {
				continue
			}
			n := GateNoise{}
			if o.thermalRelaxation {
				ch := relaxation(singleQubitDurations[gate], props)
				if ch.Infidelity() > 0 {
					n.Relaxation = []PauliChannel{ch}
				}
				gateErr -= averageInfidelity([]PauliChannel{ch})
			}
			if o.gateErrors {
				n.Depolarizing = depolarizingParam(gateErr, 1)
			}
			if n.Depolarizing == 0 && n.Relaxation == nil {
				continue
			}
			if err := m.SetGateNoise(gate, []int{q}, n); err != nil {
				return nil, errors.Wrapf(err, "%s on qubit %d", gate, q)
			}
		}
	}

	for _, g := range cal.TwoQubitGates {
		if _, native := b.Target[g.Gate]; !native {
			continue
		}
		qubits := []int{g.Qubits[0], g.Qubits[1]}
		gateErr := g.Error
		n := GateNoise{}
		if o.thermalRelaxation && len(cal.Qubits) == b.NumQubits {
			chs := []PauliChannel{
				relaxation(g.Duration, cal.Qubits[qubits[0]]),
				relaxation(g.Duration, cal.Qubits[qubits[1]]),
			}
			n.Relaxation = chs
			gateErr -= averageInfidelity(chs)
		}
		if o.gateErrors {
			n.Depolarizing = depolarizingParam(gateErr, 2)
		}
		if err := m.SetGateNoise(g.Gate, qubits, n); err != nil {
			return nil, errors.Wrapf(err, "%s on %v", g.Gate, g.Qubits)
		}
	}

	return m, nil
}

// depolarizingParam converts an average gate infidelity into the parameter of
// the n-qubit depolarizing channel with that infidelity.
func depolarizingParam(gateErr float64, n int) float64 {
	if gateErr <= 0 {
		return 0
	}
	d := math.Exp2(float64(n))
	return math.Min(gateErr*d/(d-1), 1)
}

// relaxation returns the Pauli twirl of amplitude damping plus dephasing over
// a gate lasting duration nanoseconds.
func relaxation(duration float64, q backend.QubitProperties) PauliChannel {
	if duration <= 0 || q.T1 <= 0 {
		return PauliChannel{}
	}
	t := duration / 1000 // T1 and T2 are in microseconds
	t2 := q.T2
	if t2 <= 0 || t2 > 2*q.T1 {
		t2 = 2 * q.T1
	}
	reset := 1 - math.Exp(-t/q.T1)
	dephase := (1 - math.Exp(-t/t2)) / 2
	return PauliChannel{
		X: reset / 4,
		Y: reset / 4,
		Z: math.Max(dephase-reset/4, 0),
	}
}

// averageInfidelity sums the single-qubit average infidelities 2/3 * (1-F_pro).
func averageInfidelity(chs []PauliChannel) float64 {
	var total float64
	for _, ch := range chs {
		total += 2 * ch.Infidelity() / 3
	}
	return total
}
