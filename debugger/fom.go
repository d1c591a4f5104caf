package debugger

import (
	"math"
	"slices"
	"sync"

	"github.com/pkg/errors"

	"qtermdebug/estimator"
)

// Values is the output of a figure of merit: one [binding][observable]
// array per pub, in pub order.
type Values [][][]float64

// FOM combines two aligned result sets into one value per expectation value.
// Implementations must keep pub order and treat every pub independently.
type FOM interface {
	Name() string
	Combine(a, b estimator.PrimitiveResult) (Values, error)
}

// FOMFunc is an elementwise figure of merit built from a function value.
type FOMFunc struct {
	Label string
	Op    func(a, b float64) float64
}

// Name implements FOM.
func (f FOMFunc) Name() string { return f.Label }

// Combine implements FOM.
func (f FOMFunc) Combine(a, b estimator.PrimitiveResult) (Values, error) {
	return elementwise(a, b, f.Op)
}

// Ratio divides the first result by the second. Wherever the divisor is
// exactly zero the output is zero.
type Ratio struct{}

// Name implements FOM.
func (Ratio) Name() string { return "ratio" }

// Combine implements FOM.
func (Ratio) Combine(a, b estimator.PrimitiveResult) (Values, error) {
	return elementwise(a, b, func(x, y float64) float64 {
		if y == 0 {
			return 0
		}
		return x / y
	})
}

// Difference subtracts the second result from the first.
type Difference struct{}

// Name implements FOM.
func (Difference) Name() string { return "difference" }

// Combine implements FOM.
func (Difference) Combine(a, b estimator.PrimitiveResult) (Values, error) {
	return elementwise(a, b, func(x, y float64) float64 { return x - y })
}

// AbsoluteError is |a - b|.
type AbsoluteError struct{}

// Name implements FOM.
func (AbsoluteError) Name() string { return "absolute_error" }

// Combine implements FOM.
func (AbsoluteError) Combine(a, b estimator.PrimitiveResult) (Values, error) {
	return elementwise(a, b, func(x, y float64) float64 { return math.Abs(x - y) })
}

func elementwise(a, b estimator.PrimitiveResult, op func(x, y float64) float64) (Values, error) {
	if a.Len() != b.Len() {
		return nil, &ValidationError{Pub: -1, Err: errors.Errorf("results hold %d and %d pubs", a.Len(), b.Len())}
	}
	out := make(Values, a.Len())
	for i := range a.Pubs {
		ea, eb := a.Pubs[i].Evs, b.Pubs[i].Evs
		if len(ea) != len(eb) {
			return nil, &ValidationError{Pub: i, Err: errors.Errorf("%d bindings against %d", len(ea), len(eb))}
		}
		out[i] = make([][]float64, len(ea))
		for j := range ea {
			if len(ea[j]) != len(eb[j]) {
				return nil, &ValidationError{Pub: i, Err: errors.Errorf("binding %d has %d values against %d", j, len(ea[j]), len(eb[j]))}
			}
			out[i][j] = make([]float64, len(ea[j]))
			for k := range ea[j] {
				out[i][j][k] = op(ea[j][k], eb[j][k])
			}
		}
	}
	return out, nil
}

var (
	fomsMu sync.RWMutex
	foms   = map[string]FOM{
		"ratio":          Ratio{},
		"difference":     Difference{},
		"absolute_error": AbsoluteError{},
	}
)

// RegisterFOM makes f available to LookupFOM under f.Name().
func RegisterFOM(f FOM) {
	fomsMu.Lock()
	defer fomsMu.Unlock()
	foms[f.Name()] = f
}

// FOMNames returns the registered figure-of-merit names, sorted.
func FOMNames() []string {
	fomsMu.RLock()
	defer fomsMu.RUnlock()
	names := make([]string, 0, len(foms))
	for name := range foms {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// LookupFOM returns the figure of merit registered under name.
func LookupFOM(name string) (FOM, error) {
	fomsMu.RLock()
	f, ok := foms[name]
	fomsMu.RUnlock()
	if !ok {
		return nil, &ValidationError{Pub: -1, Err: errors.Errorf("unknown figure of merit %q, use one of %v", name, FOMNames())}
	}
	return f, nil
}
