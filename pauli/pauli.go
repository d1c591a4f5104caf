// Package pauli implements Pauli strings in the symplectic (x, z) bit
// representation, lists of them, and weighted sums used as observables.
//
// Labels follow the little-endian convention: the rightmost character acts on
// qubit 0, so "XIZ" is Z on qubit 0 and X on qubit 2.
package pauli

import (
	"slices"
	"strings"

	"github.com/pkg/errors"
)

// Pauli is an unsigned tensor product of I, X, Y and Z.
type Pauli struct {
	x []bool
	z []bool
}

// Identity returns the identity on n qubits.
func Identity(n int) Pauli {
	return Pauli{x: make([]bool, n), z: make([]bool, n)}
}

// New builds a Pauli from its x and z bit vectors, indexed by qubit.
func New(x, z []bool) (Pauli, error) {
	if len(x) != len(z) {
		return Pauli{}, errors.Errorf("x has %d qubits but z has %d", len(x), len(z))
	}
	return Pauli{x: slices.Clone(x), z: slices.Clone(z)}, nil
}

// Parse reads a label such as "XIZY". A leading "+" is accepted.
func Parse(label string) (Pauli, error) {
	label = strings.TrimPrefix(strings.TrimSpace(label), "+")
	n := len(label)
	p := Identity(n)
	for i := 0; i < n; i++ {
		q := n - 1 - i
		switch label[i] {
		case 'I':
		case 'X':
			p.x[q] = true
		case 'Y':
			p.x[q], p.z[q] = true, true
		case 'Z':
			p.z[q] = true
		default:
			return Pauli{}, errors.Errorf("invalid Pauli label %q: unexpected %q", label, label[i])
		}
	}
	return p, nil
}

// MustParse is Parse that panics on malformed labels. Intended for literals.
func MustParse(label string) Pauli {
	p, err := Parse(label)
	if err != nil {
		panic(err)
	}
	return p
}

// Single returns the single-qubit Pauli letter on qubit q of an n-qubit register.
func Single(n, q int, letter byte) Pauli {
	p := Identity(n)
	p.set(q, letter)
	return p
}

func (p Pauli) set(q int, letter byte) {
	switch letter {
	case 'X':
		p.x[q], p.z[q] = true, false
	case 'Y':
		p.x[q], p.z[q] = true, true
	case 'Z':
		p.x[q], p.z[q] = false, true
	default:
		p.x[q], p.z[q] = false, false
	}
}

// NumQubits returns the width of the Pauli.
func (p Pauli) NumQubits() int {
	return len(p.x)
}

// At returns the letter acting on qubit q.
func (p Pauli) At(q int) byte {
	switch {
	case p.x[q] && p.z[q]:
		return 'Y'
	case p.x[q]:
		return 'X'
	case p.z[q]:
		return 'Z'
	default:
		return 'I'
	}
}

// X returns a copy of the x bits.
func (p Pauli) X() []bool { return slices.Clone(p.x) }

// Z returns a copy of the z bits.
func (p Pauli) Z() []bool { return slices.Clone(p.z) }

// Label renders the Pauli with qubit 0 as the rightmost character.
func (p Pauli) Label() string {
	n := p.NumQubits()
	b := make([]byte, n)
	for q := 0; q < n; q++ {
		b[n-1-q] = p.At(q)
	}
	return string(b)
}

// String implements fmt.Stringer.
func (p Pauli) String() string {
	return p.Label()
}

// Weight returns the number of qubits on which the Pauli is not the identity.
func (p Pauli) Weight() int {
	w := 0
	for q := range p.x {
		if p.x[q] || p.z[q] {
			w++
		}
	}
	return w
}

// Support returns the ascending qubits on which the Pauli acts non-trivially.
func (p Pauli) Support() []int {
	var out []int
	for q := range p.x {
		if p.x[q] || p.z[q] {
			out = append(out, q)
		}
	}
	return out
}

// Restrict returns the Pauli acting on the listed qubits only; qubits[i]
// becomes qubit i of the result.
func (p Pauli) Restrict(qubits []int) Pauli {
	out := Identity(len(qubits))
	for i, q := range qubits {
		out.x[i], out.z[i] = p.x[q], p.z[q]
	}
	return out
}

// Commutes reports whether p and other commute.
func (p Pauli) Commutes(other Pauli) bool {
	odd := false
	for q := range p.x {
		if (p.x[q] && other.z[q]) != (p.z[q] && other.x[q]) {
			odd = !odd
		}
	}
	return !odd
}

// IsDiagonal reports whether the Pauli contains only I and Z.
func (p Pauli) IsDiagonal() bool {
	return !slices.Contains(p.x, true)
}

// Equal reports whether both Paulis have the same width and letters.
func (p Pauli) Equal(other Pauli) bool {
	return slices.Equal(p.x, other.x) && slices.Equal(p.z, other.z)
}

// Clone returns a deep copy.
func (p Pauli) Clone() Pauli {
	return Pauli{x: slices.Clone(p.x), z: slices.Clone(p.z)}
}

// StripIdentity returns the label with every "I" removed, e.g. "XIZ" -> "XZ".
func StripIdentity(label string) string {
	return strings.ReplaceAll(label, "I", "")
}
