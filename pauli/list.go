package pauli

import (
	"github.com/pkg/errors"
)

// List is an ordered collection of equal-width Paulis.
type List struct {
	paulis    []Pauli
	numQubits int
}

// NewList validates that every Pauli has the same width. An empty list has
// width numQubits.
func NewList(numQubits int, paulis ...Pauli) (List, error) {
	for i, p := range paulis {
		if p.NumQubits() != numQubits {
			return List{}, errors.Errorf("pauli %d acts on %d qubits, expected %d", i, p.NumQubits(), numQubits)
		}
	}
	out := make([]Pauli, len(paulis))
	for i, p := range paulis {
		out[i] = p.Clone()
	}
	return List{paulis: out, numQubits: numQubits}, nil
}

// ParseList parses labels into a list. All labels must share a width.
func ParseList(labels ...string) (List, error) {
	if len(labels) == 0 {
		return List{}, nil
	}
	paulis := make([]Pauli, len(labels))
	for i, l := range labels {
		p, err := Parse(l)
		if err != nil {
			return List{}, err
		}
		paulis[i] = p
	}
	return NewList(paulis[0].NumQubits(), paulis...)
}

// MustParseList is ParseList that panics on error.
func MustParseList(labels ...string) List {
	l, err := ParseList(labels...)
	if err != nil {
		panic(err)
	}
	return l
}

// Len returns the number of Paulis.
func (l List) Len() int { return len(l.paulis) }

// NumQubits returns the common width of the list.
func (l List) NumQubits() int { return l.numQubits }

// At returns the i-th Pauli.
func (l List) At(i int) Pauli { return l.paulis[i].Clone() }

// Labels returns the labels of every Pauli in order.
func (l List) Labels() []string {
	out := make([]string, len(l.paulis))
	for i, p := range l.paulis {
		out[i] = p.Label()
	}
	return out
}

// Select returns the Paulis at the given indices, in that order.
func (l List) Select(indices []int) List {
	out := List{numQubits: l.numQubits, paulis: make([]Pauli, len(indices))}
	for i, idx := range indices {
		out.paulis[i] = l.paulis[idx].Clone()
	}
	return out
}
