// Package clifford restricts circuits to the efficiently simulable gate set
// used for noise comparisons, and maps ISA circuits onto it.
package clifford

import (
	"fmt"
	"math"
	"slices"
	"strings"

	"github.com/pkg/errors"

	"qtermdebug/circuit"
)

// SupportedGates lists the instructions a Clifford circuit may contain.
// BARRIER is a scheduling directive and never changes the state.
var SupportedGates = []string{"CX", "CZ", "ECR", "RZ", "SX", "X", "I", "BARRIER"}

// quarterTurn is the rotation unit every RZ angle is rounded to.
const quarterTurn = math.Pi / 2

// angleTolerance absorbs the float error of angles such as 3*pi/2.
const angleTolerance = 1e-9

// UnsupportedInstructionError names a gate outside SupportedGates.
type UnsupportedInstructionError struct {
	Instruction string
	Step        int
	Supported   []string
}

func (e *UnsupportedInstructionError) Error() string {
	return fmt.Sprintf("found gate %q at step %d, but only gates %s are supported",
		e.Instruction, e.Step, strings.Join(e.Supported, ", "))
}

// NonCliffordAngleError reports an RZ whose angle is not a quarter-turn multiple.
type NonCliffordAngleError struct {
	Step  int
	Angle float64
}

func (e *NonCliffordAngleError) Error() string {
	return fmt.Sprintf("rz(%s) at step %d is not a multiple of pi/2", circuit.FormatAngle(e.Angle), e.Step)
}

// SymbolicAngleError reports an RZ whose angle is still an unbound parameter.
type SymbolicAngleError struct {
	Step   int
	Symbol string
}

func (e *SymbolicAngleError) Error() string {
	return fmt.Sprintf("rz(%s) at step %d is unbound; bind parameters before validating", e.Symbol, e.Step)
}

func isSupported(gateType string) bool {
	return slices.Contains(SupportedGates, gateType)
}

func unsupported(g circuit.Gate) error {
	return &UnsupportedInstructionError{
		Instruction: g.Type,
		Step:        g.Step,
		Supported:   slices.Clone(SupportedGates),
	}
}

// CheckGateSet fails on the first instruction outside SupportedGates, without
// looking at rotation angles.
func CheckGateSet(c *circuit.Circuit) error {
	for _, g := range c.Ops() {
		if !isSupported(g.Type) {
			return unsupported(g)
		}
	}
	return nil
}

// Validate reports whether c is already a Clifford circuit: every gate is
// supported and every RZ angle is a quarter-turn multiple.
func Validate(c *circuit.Circuit) error {
	for _, g := range c.Ops() {
		if !isSupported(g.Type) {
			return unsupported(g)
		}
		if g.Type != "RZ" {
			continue
		}
		if g.IsSymbolic() {
			return &SymbolicAngleError{Step: g.Step, Symbol: g.Symbols[0]}
		}
		if _, ok := QuarterTurns(g.Params[0]); !ok {
			return &NonCliffordAngleError{Step: g.Step, Angle: g.Params[0]}
		}
	}
	return nil
}

// IsClifford is Validate reduced to a boolean.
func IsClifford(c *circuit.Circuit) bool {
	return Validate(c) == nil
}

// NearestAngle rounds angle to the closest multiple of pi/2, breaking ties
// towards the even multiple.
func NearestAngle(angle float64) float64 {
	return math.RoundToEven(angle/quarterTurn) * quarterTurn
}

// QuarterTurns returns k such that angle == k*pi/2, and whether such a k exists.
func QuarterTurns(angle float64) (int, bool) {
	k := math.Round(angle / quarterTurn)
	if math.Abs(angle-k*quarterTurn) > angleTolerance {
		return 0, false
	}
	return int(k), true
}

// ToNearest returns a copy of c where every RZ angle has been replaced by the
// nearest multiple of pi/2. Other supported gates are copied unchanged,
// unsupported gates are an error, and unbound RZ parameters stay symbolic.
func ToNearest(c *circuit.Circuit) (*circuit.Circuit, error) {
	out := c.Clone()
	for i := range out.Gates {
		g := &out.Gates[i]
		if !isSupported(g.Type) {
			return nil, unsupported(*g)
		}
		if g.Type == "RZ" && !g.IsSymbolic() {
			g.Params[0] = NearestAngle(g.Params[0])
		}
	}
	return out, nil
}

// ToNearestValues rounds parameter bindings for a circuit whose only
// parameterized gates are RZ rotations. Each row follows c.Parameters().
func ToNearestValues(c *circuit.Circuit, values [][]float64) ([][]float64, error) {
	if err := CheckGateSet(c); err != nil {
		return nil, err
	}
	out := make([][]float64, len(values))
	for i, row := range values {
		if len(row) != c.NumParameters() {
			return nil, errors.Errorf("binding %d has %d values, circuit has %d parameters", i, len(row), c.NumParameters())
		}
		out[i] = make([]float64, len(row))
		for j, v := range row {
			out[i][j] = NearestAngle(v)
		}
	}
	return out, nil
}
