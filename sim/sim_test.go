package sim

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"qtermdebug/circuit"
	"qtermdebug/estimator"
	"qtermdebug/noise"
	"qtermdebug/pauli"
)

func twoQubitClifford() *circuit.Circuit {
	c := circuit.New(2)
	c.Append("RZ", []int{0}, math.Pi/2)
	c.Append("SX", []int{0})
	c.Append("X", []int{1})
	c.Append("ECR", []int{0, 1})
	c.Append("RZ", []int{1}, -math.Pi)
	c.Append("CZ", []int{1, 0})
	c.Append("CX", []int{0, 1})
	return c
}

func threeQubitClifford() *circuit.Circuit {
	c := circuit.New(3)
	c.Append("SX", []int{0})
	c.Append("SX", []int{1})
	c.Append("RZ", []int{1}, math.Pi/2)
	c.Append("ECR", []int{1, 2})
	c.Append("CX", []int{0, 1})
	c.Append("SX", []int{2})
	c.Append("RZ", []int{0}, 3*math.Pi/2)
	c.Append("ECR", []int{2, 0})
	c.Append("SX", []int{1})
	c.Append("CZ", []int{0, 2})
	return c
}

// allPaulis enumerates every label on n qubits.
func allPaulis(n int) []string {
	labels := []string{""}
	for range n {
		var next []string
		for _, l := range labels {
			for _, letter := range "IXYZ" {
				next = append(next, l+string(letter))
			}
		}
		labels = next
	}
	return labels
}

func TestStabilizerMatchesStatevector(t *testing.T) {
	for name, c := range map[string]*circuit.Circuit{
		"two qubits":   twoQubitClifford(),
		"three qubits": threeQubitClifford(),
	} {
		t.Run(name, func(t *testing.T) {
			state, err := simulateStatevector(c)
			require.NoError(t, err)
			ops := c.Ops()
			for _, label := range allPaulis(c.NumQubits) {
				p := pauli.MustParse(label)
				want := state.expectation(p)
				got, err := stabilizerExpectation(ops, p, nil)
				require.NoError(t, err)
				assert.InDelta(t, want, got, 1e-9, label)
			}
		})
	}
}

func TestKnownExpectations(t *testing.T) {
	state, err := simulateStatevector(twoQubitClifford())
	require.NoError(t, err)
	assert.InDelta(t, -1, state.expectation(pauli.MustParse("XY")), 1e-9)
	assert.InDelta(t, 1, state.expectation(pauli.MustParse("YZ")), 1e-9)
	assert.InDelta(t, 0, state.expectation(pauli.MustParse("ZZ")), 1e-9)
}

func run(t *testing.T, opts Options, pubs ...estimator.PubLike) estimator.PrimitiveResult {
	t.Helper()
	s, err := New(opts)
	require.NoError(t, err)
	coerced, err := estimator.Coerce(pubs)
	require.NoError(t, err)
	res, err := s.Run(context.Background(), coerced)
	require.NoError(t, err)
	return res
}

func TestNoisyIsIdealTimesDamping(t *testing.T) {
	c := circuit.New(1)
	c.Append("SX", []int{0})

	m := noise.New(1)
	require.NoError(t, m.SetGateNoise("SX", []int{0}, noise.GateNoise{Depolarizing: 0.1}))
	require.NoError(t, m.SetReadoutError(0, 0.05))

	pub := estimator.Tuple{Circuit: c, Observables: []string{"Y", "Z"}}
	ideal := run(t, Options{}, pub)
	noisy := run(t, Options{Noise: m}, pub)

	assert.InDelta(t, -1, ideal.Pubs[0].Evs[0][0], 1e-12)
	assert.InDelta(t, -1*0.9*0.9, noisy.Pubs[0].Evs[0][0], 1e-12)
	assert.InDelta(t, 0, noisy.Pubs[0].Evs[0][1], 1e-12)
}

func TestRelaxationDamping(t *testing.T) {
	c := circuit.New(1)
	c.Append("X", []int{0})

	m := noise.New(1)
	ch := noise.PauliChannel{X: 0.01, Y: 0.02, Z: 0.03}
	require.NoError(t, m.SetGateNoise("X", []int{0}, noise.GateNoise{Relaxation: []noise.PauliChannel{ch}}))

	res := run(t, Options{Noise: m}, estimator.Tuple{Circuit: c, Observables: "Z"})
	// X|0> = |1>, and only X and Y errors flip a Z
	assert.InDelta(t, -(1 - 2*0.03), res.Pubs[0].Evs[0][0], 1e-12)
}

func TestParameterBindings(t *testing.T) {
	c := circuit.New(1)
	c.Append("SX", []int{0})
	c.AddSymbolicGate("RZ", 0, c.MaxSteps, "theta")

	res := run(t, Options{}, estimator.Tuple{
		Circuit:         c,
		Observables:     "X",
		ParameterValues: [][]float64{{0}, {math.Pi / 2}},
	})
	require.Len(t, res.Pubs[0].Evs, 2)
	assert.InDelta(t, 0, res.Pubs[0].Evs[0][0], 1e-12)
	assert.InDelta(t, 1, res.Pubs[0].Evs[1][0], 1e-12)
}

func TestWeightedObservables(t *testing.T) {
	res := run(t, Options{Method: MethodStatevector},
		estimator.Tuple{Circuit: twoQubitClifford(), Observables: "0.5*YZ - 2*XY + ZZ"})
	assert.InDelta(t, 0.5+2, res.Pubs[0].Evs[0][0], 1e-9)
}

func TestSeededPrecisionIsReproducible(t *testing.T) {
	seed := uint64(7)
	pub := estimator.Tuple{Circuit: twoQubitClifford(), Observables: []string{"YZ", "ZX"}}
	opts := Options{Seed: &seed, DefaultPrecision: 0.01}

	a := run(t, opts, pub, pub)
	b := run(t, opts, pub, pub)
	assert.Equal(t, a.Pubs[0].Evs, b.Pubs[0].Evs)
	assert.Equal(t, a.Pubs[1].Evs, b.Pubs[1].Evs)
	assert.NotEqual(t, 1.0, a.Pubs[0].Evs[0][0])
	assert.InDelta(t, 1, a.Pubs[0].Evs[0][0], 0.1)
	assert.Equal(t, 0.01, a.Pubs[0].Stds[0][0])
	assert.Equal(t, 0.01, a.Pubs[0].Metadata["target_precision"])

	// a per-pub precision overrides the default
	exact := run(t, Options{Seed: &seed}, pub)
	assert.Equal(t, 1.0, exact.Pubs[0].Evs[0][0])
}

func TestMetadata(t *testing.T) {
	res := run(t, Options{}, estimator.Tuple{Circuit: twoQubitClifford(), Observables: "ZZ"})
	md := res.Pubs[0].Metadata
	assert.Equal(t, MethodStabilizer, md["simulator_method"])
	assert.Equal(t, twoQubitClifford().Depth(), md["circuit_depth"])
}

func TestNewRejectsBadOptions(t *testing.T) {
	m := noise.New(1)
	require.NoError(t, m.SetReadoutError(0, 0.1))

	_, err := New(Options{Method: MethodStatevector, Noise: m})
	require.Error(t, err)
	_, err = New(Options{Method: "mps"})
	require.Error(t, err)
	_, err = New(Options{DefaultPrecision: -1})
	require.Error(t, err)
}

func TestRunErrors(t *testing.T) {
	s, err := New(Options{})
	require.NoError(t, err)

	c := circuit.New(1)
	c.Append("RZ", []int{0}, 0.3)
	pubs, err := estimator.Coerce([]estimator.PubLike{estimator.Tuple{Circuit: c, Observables: "X"}})
	require.NoError(t, err)
	_, err = s.Run(context.Background(), pubs)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "pub 0")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = s.Run(ctx, pubs)
	require.ErrorIs(t, err, context.Canceled)
}
