package sim

import (
	"qtermdebug/circuit"
	"qtermdebug/clifford"
	"qtermdebug/noise"
	"qtermdebug/pauli"
)

// stabilizerExpectation returns the expectation of p on the state prepared by
// ops from |0...0>, with the Pauli channels of model applied after every gate
// and before readout.
//
// The observable is walked backwards through the circuit. Every channel
// found on the way multiplies the result by its damping factor for the
// current Pauli, and at the start of the circuit only diagonal Paulis have a
// non-zero expectation on |0...0>.
func stabilizerExpectation(ops []circuit.Gate, p pauli.Pauli, model *noise.Model) (float64, error) {
	frame := pauli.NewFrame(p)
	factor := 1.0

	if model != nil {
		for _, q := range p.Support() {
			factor *= 1 - 2*model.ReadoutError(q)
		}
	}

	for i := len(ops) - 1; i >= 0; i-- {
		g := ops[i]
		if model != nil && g.Type != "BARRIER" {
			factor *= gateFactor(frame, g, model)
			if factor == 0 {
				return 0, nil
			}
		}
		if err := clifford.Heisenberg(frame, g); err != nil {
			return 0, err
		}
	}

	return factor * frame.ExpectationOnZero(), nil
}

// gateFactor returns the damping of the frame's Pauli by the noise on g.
func gateFactor(frame *pauli.Frame, g circuit.Gate, model *noise.Model) float64 {
	qubits := g.Qubits()
	n, ok := model.Gate(g.Type, qubits)
	if !ok {
		return 1
	}
	factor := 1.0
	local := frame.Pauli.Restrict(qubits)
	if local.Weight() > 0 {
		factor *= 1 - n.Depolarizing
	}
	for i, ch := range n.Relaxation {
		factor *= ch.Factor(local.At(i))
	}
	return factor
}
