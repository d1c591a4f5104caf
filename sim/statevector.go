package sim

import (
	"math"
	"math/cmplx"

	"github.com/pkg/errors"

	"qtermdebug/circuit"
	"qtermdebug/pauli"
)

// maxStatevectorQubits bounds the dense method; 2^12 amplitudes.
const maxStatevectorQubits = 12

// stateVector is a dense little-endian state: bit q of an index is qubit q.
type stateVector struct {
	amps      []complex128
	numQubits int
}

func newStateVector(numQubits int) *stateVector {
	amps := make([]complex128, 1<<numQubits)
	amps[0] = 1
	return &stateVector{amps: amps, numQubits: numQubits}
}

func (s *stateVector) clone() *stateVector {
	amps := make([]complex128, len(s.amps))
	copy(amps, s.amps)
	return &stateVector{amps: amps, numQubits: s.numQubits}
}

func (s *stateVector) apply(g circuit.Gate) error {
	if g.IsSymbolic() {
		return errors.Errorf("%s at step %d has an unbound parameter", g.Type, g.Step)
	}
	theta := 0.0
	if len(g.Params) > 0 {
		theta = g.Params[0]
	}
	q := g.Target
	switch g.Type {
	case "I", "BARRIER":
	case "H":
		s.applyH(q)
	case "X":
		s.applyX(q)
	case "Y":
		s.applyY(q)
	case "Z":
		s.applyPhase(q, -1)
	case "S":
		s.applyPhase(q, 1i)
	case "SDG":
		s.applyPhase(q, -1i)
	case "T":
		s.applyPhase(q, cmplx.Exp(complex(0, math.Pi/4)))
	case "TDG":
		s.applyPhase(q, cmplx.Exp(complex(0, -math.Pi/4)))
	case "SX":
		s.applySX(q)
	case "RX":
		s.applyRX(q, theta)
	case "RY":
		s.applyRY(q, theta)
	case "RZ":
		s.applyRZ(q, theta)
	case "CX":
		s.applyCX(g.Control, q)
	case "CZ":
		s.applyCZ(g.Control, q)
	case "SWAP":
		s.applySWAP(g.Control, q)
	case "ECR":
		// ECR = X_a CX_ab SX_b S_a up to a global phase
		a := g.Control
		s.applyPhase(a, 1i)
		s.applySX(q)
		s.applyCX(a, q)
		s.applyX(a)
	default:
		return errors.Errorf("gate %s is not supported by the statevector method", g.Type)
	}
	return nil
}

// pair calls fn for every index pair (i, i|bit) with bit q of i clear.
func (s *stateVector) pair(q int, fn func(i, j int)) {
	bit := 1 << q
	for i := range s.amps {
		if i&bit == 0 {
			fn(i, i|bit)
		}
	}
}

func (s *stateVector) applyH(q int) {
	h := complex(1/math.Sqrt2, 0)
	s.pair(q, func(i, j int) {
		a, b := s.amps[i], s.amps[j]
		s.amps[i], s.amps[j] = h*(a+b), h*(a-b)
	})
}

func (s *stateVector) applyX(q int) {
	s.pair(q, func(i, j int) {
		s.amps[i], s.amps[j] = s.amps[j], s.amps[i]
	})
}

func (s *stateVector) applyY(q int) {
	s.pair(q, func(i, j int) {
		s.amps[i], s.amps[j] = -1i*s.amps[j], 1i*s.amps[i]
	})
}

func (s *stateVector) applyPhase(q int, phase complex128) {
	bit := 1 << q
	for i := range s.amps {
		if i&bit != 0 {
			s.amps[i] *= phase
		}
	}
}

func (s *stateVector) applySX(q int) {
	p, m := complex(0.5, 0.5), complex(0.5, -0.5)
	s.pair(q, func(i, j int) {
		a, b := s.amps[i], s.amps[j]
		s.amps[i], s.amps[j] = p*a+m*b, m*a+p*b
	})
}

func (s *stateVector) applyRX(q int, theta float64) {
	c := complex(math.Cos(theta/2), 0)
	js := complex(0, -math.Sin(theta/2))
	s.pair(q, func(i, j int) {
		a, b := s.amps[i], s.amps[j]
		s.amps[i], s.amps[j] = c*a+js*b, js*a+c*b
	})
}

func (s *stateVector) applyRY(q int, theta float64) {
	c := complex(math.Cos(theta/2), 0)
	sn := complex(math.Sin(theta/2), 0)
	s.pair(q, func(i, j int) {
		a, b := s.amps[i], s.amps[j]
		s.amps[i], s.amps[j] = c*a-sn*b, sn*a+c*b
	})
}

func (s *stateVector) applyRZ(q int, theta float64) {
	phase := cmplx.Exp(complex(0, theta/2))
	s.pair(q, func(i, j int) {
		s.amps[i] *= cmplx.Conj(phase)
		s.amps[j] *= phase
	})
}

func (s *stateVector) applyCX(control, target int) {
	cBit := 1 << control
	s.pair(target, func(i, j int) {
		if i&cBit != 0 {
			s.amps[i], s.amps[j] = s.amps[j], s.amps[i]
		}
	})
}

func (s *stateVector) applyCZ(control, target int) {
	both := 1<<control | 1<<target
	for i := range s.amps {
		if i&both == both {
			s.amps[i] *= -1
		}
	}
}

func (s *stateVector) applySWAP(q1, q2 int) {
	bit1, bit2 := 1<<q1, 1<<q2
	for i := range s.amps {
		if i&bit1 != 0 && i&bit2 == 0 {
			j := (i &^ bit1) | bit2
			s.amps[i], s.amps[j] = s.amps[j], s.amps[i]
		}
	}
}

// expectation returns <psi|P|psi>.
func (s *stateVector) expectation(p pauli.Pauli) float64 {
	applied := s.clone()
	for _, q := range p.Support() {
		switch p.At(q) {
		case 'X':
			applied.applyX(q)
		case 'Y':
			applied.applyY(q)
		case 'Z':
			applied.applyPhase(q, -1)
		}
	}
	var sum complex128
	for i, a := range s.amps {
		sum += cmplx.Conj(a) * applied.amps[i]
	}
	return real(sum)
}

// simulateStatevector evolves |0...0> through c.
func simulateStatevector(c *circuit.Circuit) (*stateVector, error) {
	if c.NumQubits > maxStatevectorQubits {
		return nil, errors.Errorf("statevector method supports at most %d qubits, circuit has %d", maxStatevectorQubits, c.NumQubits)
	}
	state := newStateVector(max(c.NumQubits, 1))
	for _, g := range c.Ops() {
		if err := state.apply(g); err != nil {
			return nil, err
		}
	}
	return state, nil
}
