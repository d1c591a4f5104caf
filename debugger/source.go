package debugger

import (
	"fmt"

	"github.com/pkg/errors"

	"qtermdebug/estimator"
)

// ValidationError reports input rejected before anything was simulated.
// Pub is the index of the offending pub, or -1.
type ValidationError struct {
	Pub int
	Err error
}

func (e *ValidationError) Error() string {
	if e.Pub < 0 {
		return e.Err.Error()
	}
	return fmt.Sprintf("pub %d: %v", e.Pub, e.Err)
}

func (e *ValidationError) Unwrap() error { return e.Err }

type sourceKind int

const (
	sourceUnset sourceKind = iota
	sourceIdealSim
	sourceNoisySim
	sourceExperimental
)

// Source says where one side of a comparison comes from.
type Source struct {
	kind   sourceKind
	result estimator.PrimitiveResult
}

// IdealSim is a noiseless stabilizer simulation.
func IdealSim() Source { return Source{kind: sourceIdealSim} }

// NoisySim is a stabilizer simulation with the debugger's noise model.
func NoisySim() Source { return Source{kind: sourceNoisySim} }

// Experimental uses results computed elsewhere, typically on hardware. They
// are assumed to belong to the compared pubs.
func Experimental(r estimator.PrimitiveResult) Source {
	return Source{kind: sourceExperimental, result: r.Clone()}
}

// ParseSource accepts the "ideal_sim" and "noisy_sim" tags.
func ParseSource(tag string) (Source, error) {
	switch tag {
	case "ideal_sim":
		return IdealSim(), nil
	case "noisy_sim":
		return NoisySim(), nil
	default:
		return Source{}, &ValidationError{Pub: -1, Err: errors.Errorf("invalid source %q, use one of [ideal_sim noisy_sim] or experimental results", tag)}
	}
}

// IsZero reports whether the source was left unset.
func (s Source) IsZero() bool { return s.kind == sourceUnset }

func (s Source) String() string {
	switch s.kind {
	case sourceIdealSim:
		return "ideal_sim"
	case sourceNoisySim:
		return "noisy_sim"
	case sourceExperimental:
		return "experimental"
	default:
		return "unset"
	}
}
