package pauli

import (
	"fmt"
	"slices"
	"strings"

	"github.com/pkg/errors"
)

// Term is a single weighted Pauli of an observable.
type Term struct {
	Pauli Pauli
	Coeff float64
}

// SparsePauliOp is a real-weighted sum of Pauli strings.
type SparsePauliOp struct {
	terms     []Term
	numQubits int
}

// NewSparsePauliOp builds an observable from terms of equal width.
func NewSparsePauliOp(terms ...Term) (SparsePauliOp, error) {
	if len(terms) == 0 {
		return SparsePauliOp{}, errors.New("observable has no terms")
	}
	n := terms[0].Pauli.NumQubits()
	out := make([]Term, len(terms))
	for i, t := range terms {
		if t.Pauli.NumQubits() != n {
			return SparsePauliOp{}, errors.Errorf("term %d acts on %d qubits, expected %d", i, t.Pauli.NumQubits(), n)
		}
		out[i] = Term{Pauli: t.Pauli.Clone(), Coeff: t.Coeff}
	}
	return SparsePauliOp{terms: out, numQubits: n}, nil
}

// ParseObservable accepts "ZZ", "0.5*XX + ZI" or "-ZZ" and returns the
// corresponding observable.
func ParseObservable(expr string) (SparsePauliOp, error) {
	expr = strings.ReplaceAll(strings.TrimSpace(expr), " ", "")
	if expr == "" {
		return SparsePauliOp{}, errors.New("empty observable")
	}
	var terms []Term
	for _, part := range splitTerms(expr) {
		coeff := 1.0
		label := part
		if idx := strings.Index(part, "*"); idx >= 0 {
			if _, err := fmt.Sscanf(part[:idx], "%g", &coeff); err != nil {
				return SparsePauliOp{}, errors.Wrapf(err, "parse coefficient %q", part[:idx])
			}
			label = part[idx+1:]
		} else if strings.HasPrefix(part, "-") {
			coeff = -1
			label = part[1:]
		}
		p, err := Parse(label)
		if err != nil {
			return SparsePauliOp{}, err
		}
		terms = append(terms, Term{Pauli: p, Coeff: coeff})
	}
	return NewSparsePauliOp(terms...)
}

// FromMap builds an observable from label -> coefficient pairs. Terms are
// ordered by label so the result is deterministic.
func FromMap(m map[string]float64) (SparsePauliOp, error) {
	labels := make([]string, 0, len(m))
	for l := range m {
		labels = append(labels, l)
	}
	slices.Sort(labels)
	terms := make([]Term, 0, len(labels))
	for _, l := range labels {
		p, err := Parse(l)
		if err != nil {
			return SparsePauliOp{}, err
		}
		terms = append(terms, Term{Pauli: p, Coeff: m[l]})
	}
	return NewSparsePauliOp(terms...)
}

// Terms returns a copy of the weighted Paulis.
func (o SparsePauliOp) Terms() []Term {
	out := make([]Term, len(o.terms))
	for i, t := range o.terms {
		out[i] = Term{Pauli: t.Pauli.Clone(), Coeff: t.Coeff}
	}
	return out
}

// NumQubits returns the width of the observable.
func (o SparsePauliOp) NumQubits() int { return o.numQubits }

// String renders the observable as "c1*P1 + c2*P2".
func (o SparsePauliOp) String() string {
	parts := make([]string, len(o.terms))
	for i, t := range o.terms {
		parts[i] = fmt.Sprintf("%g*%s", t.Coeff, t.Pauli.Label())
	}
	return strings.Join(parts, " + ")
}

// splitTerms splits "a*P+b*Q-R" at the signs that separate terms, keeping a
// leading "-" on the term it negates and leaving exponents such as 1e-3 intact.
func splitTerms(expr string) []string {
	var parts []string
	start := 0
	for i := 1; i < len(expr); i++ {
		if (expr[i] == '+' || expr[i] == '-') && expr[i-1] != 'e' && expr[i-1] != 'E' && expr[i-1] != '*' {
			parts = append(parts, expr[start:i])
			start = i
		}
	}
	parts = append(parts, expr[start:])
	out := parts[:0]
	for _, p := range parts {
		p = strings.TrimPrefix(p, "+")
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
