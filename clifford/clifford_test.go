package clifford

import (
	"math"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"qtermdebug/circuit"
	"qtermdebug/pauli"
)

func cliffordCircuit() *circuit.Circuit {
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

func TestValidateAcceptsCliffordCircuit(t *testing.T) {
	c := cliffordCircuit()
	require.NoError(t, Validate(c))

	converted, err := ToNearest(c)
	require.NoError(t, err)
	assert.True(t, c.Equal(converted), "a Clifford circuit must convert to itself")
}

func TestValidateNamesUnsupportedInstruction(t *testing.T) {
	c := cliffordCircuit()
	c.Append("H", []int{1})

	err := Validate(c)
	require.Error(t, err)

	var unsupportedErr *UnsupportedInstructionError
	require.True(t, errors.As(err, &unsupportedErr))
	assert.Equal(t, "H", unsupportedErr.Instruction)
	assert.ElementsMatch(t, SupportedGates, unsupportedErr.Supported)
	assert.Contains(t, err.Error(), `"H"`)
	assert.Contains(t, err.Error(), "ECR")
}

func TestToNearestNeverDropsUnsupportedGates(t *testing.T) {
	c := circuit.New(1)
	c.Append("RY", []int{0}, 0.1)

	_, err := ToNearest(c)
	var unsupportedErr *UnsupportedInstructionError
	require.True(t, errors.As(err, &unsupportedErr))
	assert.Equal(t, "RY", unsupportedErr.Instruction)
}

func TestNearestAngle(t *testing.T) {
	tests := []struct {
		name  string
		angle float64
		want  float64
	}{
		{"3pi/8 rounds up", 3 * math.Pi / 8, math.Pi / 2},
		{"pi/8 rounds down", math.Pi / 8, 0},
		{"pi/4 tie goes to even", math.Pi / 4, 0},
		{"3pi/4 tie goes to even", 3 * math.Pi / 4, math.Pi},
		{"-pi/4 tie goes to even", -math.Pi / 4, 0},
		{"already a multiple", -math.Pi / 2, -math.Pi / 2},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.InDelta(t, tc.want, NearestAngle(tc.angle), 1e-12)
		})
	}
}

func TestToNearestRewritesRotations(t *testing.T) {
	c := circuit.New(1)
	c.Append("RZ", []int{0}, 3*math.Pi/8)
	c.Append("SX", []int{0})

	err := Validate(c)
	var angleErr *NonCliffordAngleError
	require.True(t, errors.As(err, &angleErr))

	out, err := ToNearest(c)
	require.NoError(t, err)
	require.NoError(t, Validate(out))
	assert.InDelta(t, math.Pi/2, out.Ops()[0].Params[0], 1e-12)
	// the input is left untouched
	assert.InDelta(t, 3*math.Pi/8, c.Ops()[0].Params[0], 1e-12)
}

func TestSymbolicRotations(t *testing.T) {
	c := circuit.New(1)
	c.AddSymbolicGate("RZ", 0, 0, "theta")

	var symErr *SymbolicAngleError
	require.True(t, errors.As(Validate(c), &symErr))

	out, err := ToNearest(c)
	require.NoError(t, err)
	assert.True(t, out.Ops()[0].IsSymbolic())

	values, err := ToNearestValues(c, [][]float64{{0.3}, {1.4}})
	require.NoError(t, err)
	assert.Equal(t, [][]float64{{0}, {math.Pi / 2}}, values)

	_, err = ToNearestValues(c, [][]float64{{0.3, 0.1}})
	require.Error(t, err)
}

func heisenberg(t *testing.T, c *circuit.Circuit, label string) (string, bool) {
	t.Helper()
	f := pauli.NewFrame(pauli.MustParse(label))
	ops := c.Ops()
	for i := len(ops) - 1; i >= 0; i-- {
		require.NoError(t, Heisenberg(f, ops[i]))
	}
	return f.Pauli.Label(), f.Negative
}

func TestHeisenbergSingleGates(t *testing.T) {
	sx := circuit.New(1)
	sx.Append("SX", []int{0})
	got, neg := heisenberg(t, sx, "Z")
	assert.Equal(t, "Y", got)
	assert.False(t, neg)

	rz := circuit.New(1)
	rz.Append("RZ", []int{0}, math.Pi/2)
	got, neg = heisenberg(t, rz, "X")
	assert.Equal(t, "Y", got)
	assert.True(t, neg)

	ecr := circuit.New(2)
	ecr.Append("ECR", []int{0, 1})
	got, neg = heisenberg(t, ecr, "IZ")
	assert.Equal(t, "IZ", got)
	assert.True(t, neg)
	got, neg = heisenberg(t, ecr, "ZI")
	assert.Equal(t, "YZ", got)
	assert.False(t, neg)
}

func TestHeisenbergRejectsNonClifford(t *testing.T) {
	c := circuit.New(1)
	c.Append("RZ", []int{0}, 0.3)
	f := pauli.NewFrame(pauli.MustParse("X"))
	var angleErr *NonCliffordAngleError
	require.True(t, errors.As(Heisenberg(f, c.Ops()[0]), &angleErr))
}
