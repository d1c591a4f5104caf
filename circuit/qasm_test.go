package circuit

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseQASMISACircuit(t *testing.T) {
	qasm := `OPENQASM 2.0;
include "qelib1.inc";

qreg q[3];
creg c[3];

rz(pi/2) q[0];
sx q[0];
ecr q[0], q[1];
cx q[1], q[2];
rz(theta) q[2];
barrier q[0], q[1], q[2];
x q[1];
measure q[0] -> c[0];`

	c, err := ParseQASM(qasm)
	require.NoError(t, err)

	assert.Equal(t, 3, c.NumQubits)
	require.Len(t, c.Gates, 8)

	ops := c.Ops()
	assert.Equal(t, "RZ", ops[0].Type)
	assert.InDelta(t, math.Pi/2, ops[0].Params[0], 1e-12)
	assert.Nil(t, ops[0].Symbols)

	assert.Equal(t, "ECR", ops[2].Type)
	assert.Equal(t, []int{0, 1}, ops[2].Qubits())

	assert.Equal(t, "RZ", ops[4].Type)
	assert.True(t, ops[4].IsSymbolic())
	assert.Equal(t, []string{"theta"}, c.Parameters())

	assert.Equal(t, "BARRIER", ops[5].Type)
	assert.Equal(t, "MEASURE", ops[7].Type)
}

func TestParseQASMRejectsUnknownStatements(t *testing.T) {
	_, err := ParseQASM("qreg q[2];\nccx q[0], q[1], q[2];")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "line 2")

	_, err = ParseQASM("qreg q[1];\nrz(1+) q[0];")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cannot parse parameter")
}

func TestQASMRoundTrip(t *testing.T) {
	c := New(2)
	c.Append("RZ", []int{0}, math.Pi/2)
	c.Append("SX", []int{1})
	c.Append("CZ", []int{0, 1})
	c.AddSymbolicGate("RZ", 1, c.MaxSteps, "phi")

	parsed, err := ParseQASM(c.ToQASM())
	require.NoError(t, err)
	assert.True(t, c.Equal(parsed), "round trip changed the circuit:\n%s", parsed.ToQASM())
}

func TestBind(t *testing.T) {
	c := New(1)
	c.AddSymbolicGate("RZ", 0, 0, "b")
	c.AddSymbolicGate("RZ", 0, 1, "a")

	_, err := c.Bind([]float64{1})
	require.Error(t, err)

	bound, err := c.Bind([]float64{0.5, 1.5})
	require.NoError(t, err)
	assert.Equal(t, 0, bound.NumParameters())

	ops := bound.Ops()
	// parameters bind in sorted-name order: a=0.5, b=1.5
	assert.Equal(t, 1.5, ops[0].Params[0])
	assert.Equal(t, 0.5, ops[1].Params[0])

	// the source circuit is untouched
	assert.Equal(t, 2, c.NumParameters())
}

func TestParseParamExpr(t *testing.T) {
	tests := []struct {
		in   string
		want float64
		ok   bool
	}{
		{"1.5", 1.5, true},
		{"pi", math.Pi, true},
		{"-pi/2", -math.Pi / 2, true},
		{"3*pi/4", 3 * math.Pi / 4, true},
		{"2pi", 2 * math.Pi, true},
		{"theta", 0, false},
		{"", 0, false},
	}
	for _, tc := range tests {
		t.Run(tc.in, func(t *testing.T) {
			got, ok := parseParamExpr(tc.in)
			assert.Equal(t, tc.ok, ok)
			assert.InDelta(t, tc.want, got, 1e-12)
		})
	}
}

func TestLayers(t *testing.T) {
	c := New(3)
	c.Append("SX", []int{0})
	c.Append("SX", []int{2})
	c.Append("CX", []int{0, 1})
	c.Append("RZ", []int{2}, math.Pi)
	c.Append("CZ", []int{1, 2})

	layers := c.Layers()
	require.Len(t, layers, 3)
	assert.Len(t, layers[0].Gates, 2) // both SX
	assert.Len(t, layers[1].Gates, 2) // CX and RZ
	assert.Len(t, layers[2].Gates, 1) // CZ
	assert.Equal(t, 3, c.Depth())

	assert.Len(t, c.TwoQubitLayers(), 2)
	assert.Equal(t, []int{0, 1, 2}, c.ActiveQubits())
}

func TestDiagramListsEveryWire(t *testing.T) {
	c := New(2)
	c.Append("SX", []int{0})
	c.Append("ECR", []int{0, 1})

	out := c.Diagram([]int{5, 7})
	assert.Contains(t, out, "q5")
	assert.Contains(t, out, "q7")
	assert.Contains(t, out, "SX")
}
