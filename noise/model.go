// Package noise describes the gate and readout errors injected into noisy
// simulations. Every channel is a Pauli channel, so its effect on a Pauli
// observable is a multiplicative damping factor.
package noise

import (
	"fmt"
	"slices"
	"strings"

	"github.com/pkg/errors"
)

// PauliChannel applies X, Y or Z to one qubit with the given probabilities.
type PauliChannel struct {
	X, Y, Z float64
}

// Factor returns how much the channel damps the single-qubit Pauli letter.
func (c PauliChannel) Factor(letter byte) float64 {
	var flip float64
	switch letter {
	case 'X':
		flip = c.Y + c.Z
	case 'Y':
		flip = c.X + c.Z
	case 'Z':
		flip = c.X + c.Y
	default:
		return 1
	}
	return 1 - 2*flip
}

// Infidelity is the process infidelity of the channel.
func (c PauliChannel) Infidelity() float64 {
	return c.X + c.Y + c.Z
}

// GateNoise is the error attached to one instruction on specific qubits.
type GateNoise struct {
	// Depolarizing is the parameter p of rho -> (1-p) rho + p I/d on the
	// gate's qubits.
	Depolarizing float64
	// Relaxation holds a twirled thermal-relaxation channel per gate qubit,
	// in instruction order. Nil when relaxation is not modelled.
	Relaxation []PauliChannel
}

type instruction struct {
	gate   string
	qubits [2]int
}

func key(gate string, qubits []int) (instruction, error) {
	k := instruction{gate: gate, qubits: [2]int{-1, -1}}
	switch len(qubits) {
	case 1:
		k.qubits[0] = qubits[0]
	case 2:
		k.qubits = [2]int{qubits[0], qubits[1]}
	default:
		return k, errors.Errorf("noise on %d qubits is not supported", len(qubits))
	}
	return k, nil
}

// Model maps instructions to their errors. It is filled once, by FromBackend
// or by the Set methods, and only read afterwards.
type Model struct {
	numQubits int
	gates     map[instruction]GateNoise
	readout   []float64
}

// New returns a noiseless model over numQubits qubits.
func New(numQubits int) *Model {
	return &Model{
		numQubits: numQubits,
		gates:     make(map[instruction]GateNoise),
		readout:   make([]float64, numQubits),
	}
}

// NumQubits returns the number of qubits the model covers.
func (m *Model) NumQubits() int { return m.numQubits }

func (m *Model) checkQubits(qubits []int) error {
	for _, q := range qubits {
		if q < 0 || q >= m.numQubits {
			return errors.Errorf("qubit %d is outside the %d-qubit noise model", q, m.numQubits)
		}
	}
	return nil
}

func checkProbability(name string, p float64) error {
	if p < 0 || p > 1 {
		return errors.Errorf("%s %g is not a probability", name, p)
	}
	return nil
}

// SetGateNoise attaches n to gate on the given qubits.
func (m *Model) SetGateNoise(gate string, qubits []int, n GateNoise) error {
	if err := m.checkQubits(qubits); err != nil {
		return err
	}
	if err := checkProbability("depolarizing parameter", n.Depolarizing); err != nil {
		return err
	}
	if n.Relaxation != nil && len(n.Relaxation) != len(qubits) {
		return errors.Errorf("%s: %d relaxation channels for %d qubits", gate, len(n.Relaxation), len(qubits))
	}
	for _, ch := range n.Relaxation {
		if err := checkProbability("relaxation probability", ch.Infidelity()); err != nil {
			return err
		}
	}
	k, err := key(gate, qubits)
	if err != nil {
		return err
	}
	n.Relaxation = slices.Clone(n.Relaxation)
	m.gates[k] = n
	return nil
}

// SetReadoutError sets the probability of misreporting qubit q.
func (m *Model) SetReadoutError(q int, p float64) error {
	if err := m.checkQubits([]int{q}); err != nil {
		return err
	}
	if err := checkProbability("readout error", p); err != nil {
		return err
	}
	m.readout[q] = p
	return nil
}

// Gate returns the noise on gate acting on qubits, if any.
func (m *Model) Gate(gate string, qubits []int) (GateNoise, bool) {
	k, err := key(gate, qubits)
	if err != nil {
		return GateNoise{}, false
	}
	n, ok := m.gates[k]
	return n, ok
}

// ReadoutError returns the readout flip probability of qubit q.
func (m *Model) ReadoutError(q int) float64 {
	if q < 0 || q >= len(m.readout) {
		return 0
	}
	return m.readout[q]
}

// IsIdeal reports whether the model adds no noise at all.
func (m *Model) IsIdeal() bool {
	for _, n := range m.gates {
		if n.Depolarizing > 0 || len(n.Relaxation) > 0 {
			return false
		}
	}
	for _, r := range m.readout {
		if r > 0 {
			return false
		}
	}
	return true
}

// HasRelaxation reports whether any instruction carries a relaxation channel.
func (m *Model) HasRelaxation() bool {
	for _, n := range m.gates {
		if len(n.Relaxation) > 0 {
			return true
		}
	}
	return false
}

// Instructions lists the noisy instructions as "GATE(q0,q1)", sorted.
func (m *Model) Instructions() []string {
	out := make([]string, 0, len(m.gates))
	for k := range m.gates {
		out = append(out, k.String())
	}
	slices.Sort(out)
	return out
}

func (k instruction) String() string {
	if k.qubits[1] < 0 {
		return fmt.Sprintf("%s(%d)", k.gate, k.qubits[0])
	}
	return fmt.Sprintf("%s(%d,%d)", k.gate, k.qubits[0], k.qubits[1])
}

// String implements fmt.Stringer.
func (m *Model) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "NoiseModel(%d qubits", m.numQubits)
	if m.IsIdeal() {
		sb.WriteString(", ideal)")
		return sb.String()
	}
	fmt.Fprintf(&sb, ", %d noisy instructions", len(m.gates))
	if m.HasRelaxation() {
		sb.WriteString(", thermal relaxation")
	}
	sb.WriteString(")")
	return sb.String()
}
