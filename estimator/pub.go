// Package estimator defines the estimation queries (PUBs) handed to a
// simulator and the expectation-value results it returns.
package estimator

import (
	"slices"

	"github.com/pkg/errors"

	"qtermdebug/circuit"
	"qtermdebug/pauli"
)

// Pub is one estimation query: a circuit, the observables to estimate on its
// output state, parameter bindings and a target precision. Expectation
// values are indexed [binding][observable].
type Pub struct {
	Circuit         *circuit.Circuit
	Observables     []pauli.SparsePauliOp
	ParameterValues [][]float64 // one row per binding, ordered like Circuit.Parameters()
	Precision       float64     // 0 means the caller's default precision
}

// PubLike is anything that can be normalised into a Pub.
type PubLike interface {
	ToPub() (Pub, error)
}

// ToPub returns a deep copy of p.
func (p Pub) ToPub() (Pub, error) {
	out := Pub{
		Observables: slices.Clone(p.Observables),
		Precision:   p.Precision,
	}
	if p.Circuit != nil {
		out.Circuit = p.Circuit.Clone()
	}
	for _, row := range p.ParameterValues {
		out.ParameterValues = append(out.ParameterValues, slices.Clone(row))
	}
	return out, nil
}

// Tuple is the loosely typed form of a Pub.
//
// Observables may be a string expression ("0.5*ZZ + XI"), a []string of
// expressions, a pauli.Pauli, a pauli.SparsePauliOp, a []pauli.SparsePauliOp or
// a map[string]float64. ParameterValues may be nil, a []float64 holding a
// single binding, or a [][]float64.
type Tuple struct {
	Circuit         *circuit.Circuit
	Observables     any
	ParameterValues any
	Precision       float64
}

// ToPub implements PubLike.
func (t Tuple) ToPub() (Pub, error) {
	obs, err := coerceObservables(t.Observables)
	if err != nil {
		return Pub{}, err
	}
	var values [][]float64
	switch v := t.ParameterValues.(type) {
	case nil:
	case []float64:
		values = [][]float64{v}
	case [][]float64:
		values = v
	default:
		return Pub{}, errors.Errorf("unsupported parameter values of type %T", t.ParameterValues)
	}
	return Pub{
		Circuit:         t.Circuit,
		Observables:     obs,
		ParameterValues: values,
		Precision:       t.Precision,
	}.ToPub()
}

func coerceObservables(v any) ([]pauli.SparsePauliOp, error) {
	switch o := v.(type) {
	case nil:
		return nil, nil
	case string:
		op, err := pauli.ParseObservable(o)
		if err != nil {
			return nil, err
		}
		return []pauli.SparsePauliOp{op}, nil
	case []string:
		out := make([]pauli.SparsePauliOp, 0, len(o))
		for _, expr := range o {
			op, err := pauli.ParseObservable(expr)
			if err != nil {
				return nil, err
			}
			out = append(out, op)
		}
		return out, nil
	case pauli.Pauli:
		op, err := pauli.NewSparsePauliOp(pauli.Term{Pauli: o, Coeff: 1})
		if err != nil {
			return nil, err
		}
		return []pauli.SparsePauliOp{op}, nil
	case pauli.SparsePauliOp:
		return []pauli.SparsePauliOp{o}, nil
	case []pauli.SparsePauliOp:
		return o, nil
	case map[string]float64:
		op, err := pauli.FromMap(o)
		if err != nil {
			return nil, err
		}
		return []pauli.SparsePauliOp{op}, nil
	default:
		return nil, errors.Errorf("unsupported observables of type %T", v)
	}
}

// Coerce normalises every input into an independent Pub.
func Coerce(pubs []PubLike) ([]Pub, error) {
	out := make([]Pub, len(pubs))
	for i, p := range pubs {
		if p == nil {
			return nil, errors.Errorf("pub %d is nil", i)
		}
		pub, err := p.ToPub()
		if err != nil {
			return nil, errors.Wrapf(err, "pub %d", i)
		}
		out[i] = pub
	}
	return out, nil
}

// Validate checks that the pub is internally consistent.
func (p Pub) Validate() error {
	if err := p.ValidateBindings(); err != nil {
		return err
	}
	if len(p.Observables) == 0 {
		return errors.New("pub has no observables")
	}
	for i, o := range p.Observables {
		if o.NumQubits() != p.Circuit.NumQubits {
			return errors.Errorf("observable %d acts on %d qubits, circuit has %d", i, o.NumQubits(), p.Circuit.NumQubits)
		}
	}
	return nil
}

// ValidateBindings checks the circuit, parameter values and precision but
// not the observables.
func (p Pub) ValidateBindings() error {
	if p.Circuit == nil {
		return errors.New("pub has no circuit")
	}
	nparams := p.Circuit.NumParameters()
	if nparams > 0 && len(p.ParameterValues) == 0 {
		return errors.Errorf("circuit has %d parameters %v but no values were given", nparams, p.Circuit.Parameters())
	}
	for i, row := range p.ParameterValues {
		if len(row) != nparams {
			return errors.Errorf("binding %d has %d values, circuit has %d parameters", i, len(row), nparams)
		}
	}
	if p.Precision < 0 {
		return errors.Errorf("precision %g is negative", p.Precision)
	}
	return nil
}

// NumBindings returns how many parameter bindings the pub evaluates.
func (p Pub) NumBindings() int {
	return max(len(p.ParameterValues), 1)
}

// BoundCircuits returns one circuit per binding with all parameters assigned.
func (p Pub) BoundCircuits() ([]*circuit.Circuit, error) {
	if len(p.ParameterValues) == 0 {
		return []*circuit.Circuit{p.Circuit}, nil
	}
	out := make([]*circuit.Circuit, len(p.ParameterValues))
	for i, row := range p.ParameterValues {
		c, err := p.Circuit.Bind(row)
		if err != nil {
			return nil, errors.Wrapf(err, "binding %d", i)
		}
		out[i] = c
	}
	return out, nil
}
