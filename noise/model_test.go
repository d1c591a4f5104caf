package noise

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"qtermdebug/backend"
)

func TestPauliChannelFactor(t *testing.T) {
	ch := PauliChannel{X: 0.1, Y: 0.02, Z: 0.03}
	assert.InDelta(t, 1-2*0.05, ch.Factor('X'), 1e-12)
	assert.InDelta(t, 1-2*0.13, ch.Factor('Y'), 1e-12)
	assert.InDelta(t, 1-2*0.12, ch.Factor('Z'), 1e-12)
	assert.Equal(t, 1.0, ch.Factor('I'))
}

func TestFromBackendWithoutThermalRelaxation(t *testing.T) {
	b, ok := backend.Fake("fake_vigo")
	require.True(t, ok)

	m, err := FromBackend(b, WithoutThermalRelaxation())
	require.NoError(t, err)
	assert.False(t, m.IsIdeal())
	assert.False(t, m.HasRelaxation())

	sx, ok := m.Gate("SX", []int{0})
	require.True(t, ok)
	assert.InDelta(t, 2*3e-4, sx.Depolarizing, 1e-12)
	assert.Nil(t, sx.Relaxation)

	cx, ok := m.Gate("CX", []int{0, 1})
	require.True(t, ok)
	assert.InDelta(t, 0.008*4/3, cx.Depolarizing, 1e-12)

	// virtual gates carry no error
	_, ok = m.Gate("RZ", []int{0})
	assert.False(t, ok)

	assert.InDelta(t, 0.02, m.ReadoutError(0), 1e-12)
	assert.Equal(t, 0.0, m.ReadoutError(42))
}

func TestFromBackendIsDeterministic(t *testing.T) {
	b, _ := backend.Fake("fake_line5")
	a, err := FromBackend(b, WithoutThermalRelaxation())
	require.NoError(t, err)
	c, err := FromBackend(b, WithoutThermalRelaxation())
	require.NoError(t, err)
	assert.Equal(t, a.Instructions(), c.Instructions())
	for _, q := range []int{0, 1, 2} {
		x, _ := a.Gate("SX", []int{q})
		y, _ := c.Gate("SX", []int{q})
		assert.Equal(t, x, y)
	}
}

func TestFromBackendWithThermalRelaxation(t *testing.T) {
	b, _ := backend.Fake("fake_line5")
	full, err := FromBackend(b)
	require.NoError(t, err)
	assert.True(t, full.HasRelaxation())
	assert.Contains(t, full.String(), "thermal relaxation")

	depolOnly, err := FromBackend(b, WithoutThermalRelaxation())
	require.NoError(t, err)

	withRelax, _ := full.Gate("ECR", []int{0, 1})
	without, _ := depolOnly.Gate("ECR", []int{0, 1})
	require.Len(t, withRelax.Relaxation, 2)
	// part of the calibrated error is attributed to relaxation instead
	assert.Less(t, withRelax.Depolarizing, without.Depolarizing)
}

func TestFromBackendOptions(t *testing.T) {
	b, _ := backend.Fake("fake_vigo")
	m, err := FromBackend(b, WithoutThermalRelaxation(), WithoutGateErrors(), WithoutReadoutErrors())
	require.NoError(t, err)
	assert.True(t, m.IsIdeal())
	assert.Contains(t, m.String(), "ideal")
}

func TestSetters(t *testing.T) {
	m := New(2)
	require.Error(t, m.SetReadoutError(2, 0.1))
	require.Error(t, m.SetReadoutError(0, 1.5))
	require.Error(t, m.SetGateNoise("CX", []int{0, 3}, GateNoise{Depolarizing: 0.1}))
	require.Error(t, m.SetGateNoise("CX", []int{0, 1}, GateNoise{Relaxation: []PauliChannel{{}}}))
	require.Error(t, m.SetGateNoise("CCX", []int{0, 1, 1}, GateNoise{}))

	require.NoError(t, m.SetGateNoise("CX", []int{0, 1}, GateNoise{Depolarizing: 0.1}))
	assert.Equal(t, []string{"CX(0,1)"}, m.Instructions())
	_, ok := m.Gate("CX", []int{1, 0})
	assert.False(t, ok)
}

func TestFromBackendSkipsNonNativeTwoQubitGates(t *testing.T) {
	b, _ := backend.Fake("fake_vigo")
	b.Calibration.TwoQubitGates = append(b.Calibration.TwoQubitGates, backend.GateProperties{
		Gate:     "CZ",
		Qubits:   backend.Edge{0, 1},
		Error:    0.01,
		Duration: 300,
	})

	m, err := FromBackend(b, WithoutThermalRelaxation())
	require.NoError(t, err)
	_, ok := m.Gate("CZ", []int{0, 1})
	assert.False(t, ok)
	_, ok = m.Gate("CX", []int{0, 1})
	assert.True(t, ok)
}
