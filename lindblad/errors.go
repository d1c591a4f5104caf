// Package lindblad holds learned sparse Pauli-Lindblad noise: per layer, the
// Pauli generators of the noise channel and their decay rates.
//
// All containers validate their cross-field invariants in their constructor
// and are read-only afterwards.
package lindblad

import (
	"fmt"
	"math"
	"slices"
	"strings"

	"qtermdebug/pauli"
)

// IntegrityError reports a container whose parts disagree in size.
type IntegrityError struct {
	Container string
	Reason    string
}

func (e *IntegrityError) Error() string {
	return fmt.Sprintf("%s: %s", e.Container, e.Reason)
}

// Errors is the noise of one layer: generator i decays at rate Rates()[i].
type Errors struct {
	generators pauli.List
	rates      []float64
	stderr     []float64
}

// NewErrors checks that generators, rates and, when given, stderr have the
// same length. A nil or empty stderr means the standard errors are unknown.
func NewErrors(generators pauli.List, rates, stderr []float64) (Errors, error) {
	if generators.Len() != len(rates) {
		return Errors{}, &IntegrityError{
			Container: "LindbladErrors",
			Reason:    fmt.Sprintf("%d generators but %d rates", generators.Len(), len(rates)),
		}
	}
	if len(stderr) > 0 && len(stderr) != len(rates) {
		return Errors{}, &IntegrityError{
			Container: "LindbladErrors",
			Reason:    fmt.Sprintf("%d rate standard errors but %d rates", len(stderr), len(rates)),
		}
	}
	e := Errors{generators: generators, rates: slices.Clone(rates)}
	if len(stderr) > 0 {
		e.stderr = slices.Clone(stderr)
	}
	return e, nil
}

// Generators returns the Pauli generators.
func (e Errors) Generators() pauli.List { return e.generators }

// Rates returns a copy of the rates.
func (e Errors) Rates() []float64 { return slices.Clone(e.rates) }

// RatesStderr returns a copy of the standard errors, or nil when unknown.
func (e Errors) RatesStderr() []float64 { return slices.Clone(e.stderr) }

// HasStderr reports whether standard errors are known.
func (e Errors) HasStderr() bool { return e.stderr != nil }

// Len returns the number of generators.
func (e Errors) Len() int { return len(e.rates) }

// NumQubits returns the width of the generators.
func (e Errors) NumQubits() int { return e.generators.NumQubits() }

// Rate returns generator i and its rate.
func (e Errors) Rate(i int) (pauli.Pauli, float64) {
	return e.generators.At(i), e.rates[i]
}

// RestrictNumBodies keeps the generators acting on exactly k qubits, with
// their rates and standard errors.
func (e Errors) RestrictNumBodies(k int) Errors {
	var keep []int
	for i := range e.rates {
		if e.generators.At(i).Weight() == k {
			keep = append(keep, i)
		}
	}

	out := Errors{
		generators: e.generators.Select(keep),
		rates:      make([]float64, len(keep)),
	}
	if e.stderr != nil {
		out.stderr = make([]float64, len(keep))
	}
	for j, i := range keep {
		out.rates[j] = e.rates[i]
		if e.stderr != nil {
			out.stderr[j] = e.stderr[i]
		}
	}
	return out
}

// Fidelity returns the factor by which the channel damps the expectation of
// p: the product of exp(-2 rate) over the generators anticommuting with p.
func (e Errors) Fidelity(p pauli.Pauli) float64 {
	var total float64
	for i, rate := range e.rates {
		if !e.generators.At(i).Commutes(p) {
			total += rate
		}
	}
	return math.Exp(-2 * total)
}

// MaxRate returns the largest rate, or 0 for an empty set.
func (e Errors) MaxRate() float64 {
	if len(e.rates) == 0 {
		return 0
	}
	return slices.Max(e.rates)
}

func (e Errors) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "LindbladErrors(paulis=%v, rates=%v", e.generators.Labels(), e.rates)
	if e.stderr != nil {
		fmt.Fprintf(&sb, ", rates_stderr=%v", e.stderr)
	}
	sb.WriteString(")")
	return sb.String()
}
