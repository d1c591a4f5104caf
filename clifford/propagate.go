package clifford

import (
	"qtermdebug/circuit"
	"qtermdebug/pauli"
)

// Heisenberg replaces the frame's operator P with G† P G for the gate g. Walking
// a circuit backwards with Heisenberg turns an observable into the operator
// whose expectation on |0...0> equals the observable's on the final state.
func Heisenberg(f *pauli.Frame, g circuit.Gate) error {
	switch g.Type {
	case "I", "BARRIER":
	case "X":
		f.X(g.Target)
	case "SX":
		// SX† = H S† H
		f.H(g.Target)
		f.Sdg(g.Target)
		f.H(g.Target)
	case "RZ":
		if g.IsSymbolic() {
			return &SymbolicAngleError{Step: g.Step, Symbol: g.Symbols[0]}
		}
		k, ok := QuarterTurns(g.Params[0])
		if !ok {
			return &NonCliffordAngleError{Step: g.Step, Angle: g.Params[0]}
		}
		// RZ(k*pi/2) = S^k up to phase, so RZ† conjugates like S† applied k times.
		for range ((k % 4) + 4) % 4 {
			f.Sdg(g.Target)
		}
	case "CX":
		f.CX(g.Control, g.Target)
	case "CZ":
		f.H(g.Target)
		f.CX(g.Control, g.Target)
		f.H(g.Target)
	case "ECR":
		// ECR = X_0 CX_{01} SX_1 S_0 up to phase, so ECR† = S†_0 SX†_1 CX_{01} X_0.
		a, b := g.Control, g.Target
		f.X(a)
		f.CX(a, b)
		f.H(b)
		f.Sdg(b)
		f.H(b)
		f.Sdg(a)
	default:
		return unsupported(g)
	}
	return nil
}
