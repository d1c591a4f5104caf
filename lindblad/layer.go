package lindblad

import (
	"fmt"
	"iter"
	"maps"
	"slices"

	"qtermdebug/circuit"
)

// LayerNoise is the learned noise of one layer of instructions. Qubit i of
// the layer circuit and of every generator is physical qubit Qubits()[i].
type LayerNoise struct {
	circuit *circuit.Circuit
	qubits  []int
	errors  Errors
}

// NewLayerNoise fails unless the circuit width, the number of qubit labels
// and the generator width agree.
func NewLayerNoise(c *circuit.Circuit, qubits []int, errs Errors) (LayerNoise, error) {
	if c == nil {
		return LayerNoise{}, &IntegrityError{Container: "LayerNoise", Reason: "nil circuit"}
	}
	if c.NumQubits != len(qubits) || len(qubits) != errs.NumQubits() {
		return LayerNoise{}, &IntegrityError{
			Container: "LayerNoise",
			Reason: fmt.Sprintf("mismatching numbers of qubits: circuit %d, labels %d, generators %d",
				c.NumQubits, len(qubits), errs.NumQubits()),
		}
	}
	return LayerNoise{circuit: c.Clone(), qubits: slices.Clone(qubits), errors: errs}, nil
}

// Circuit returns a copy of the layer circuit.
func (l LayerNoise) Circuit() *circuit.Circuit { return l.circuit.Clone() }

// Qubits returns the physical qubit labels.
func (l LayerNoise) Qubits() []int { return slices.Clone(l.qubits) }

// Errors returns the Pauli-Lindblad errors of the layer.
func (l LayerNoise) Errors() Errors { return l.errors }

// NumQubits returns the shared qubit count.
func (l LayerNoise) NumQubits() int { return len(l.qubits) }

func (l LayerNoise) String() string {
	return fmt.Sprintf("LayerNoise(circuit=%d gates on %d qubits, qubits=%v, errors=%v)",
		len(l.circuit.Gates), l.circuit.NumQubits, l.qubits, l.errors)
}

// Result is the ordered output of a noise learning experiment.
type Result struct {
	layers   []LayerNoise
	metadata map[string]any
	options  *LearnerOptions
}

// ResultOption configures NewResult.
type ResultOption func(*Result) error

// WithLearnerOptions records the options the layers were learned with.
func WithLearnerOptions(o LearnerOptions) ResultOption {
	return func(r *Result) error {
		if err := o.Validate(); err != nil {
			return err
		}
		r.options = &o
		return nil
	}
}

// NewResult wraps learned layers. The metadata map is copied.
func NewResult(layers []LayerNoise, metadata map[string]any, opts ...ResultOption) (*Result, error) {
	r := &Result{layers: slices.Clone(layers), metadata: maps.Clone(metadata)}
	if r.metadata == nil {
		r.metadata = map[string]any{}
	}
	for _, opt := range opts {
		if err := opt(r); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// Len returns the number of layers.
func (r *Result) Len() int { return len(r.layers) }

// At returns layer i.
func (r *Result) At(i int) LayerNoise { return r.layers[i] }

// All iterates over the layers in order.
func (r *Result) All() iter.Seq2[int, LayerNoise] {
	return func(yield func(int, LayerNoise) bool) {
		for i, l := range r.layers {
			if !yield(i, l) {
				return
			}
		}
	}
}

// Layers returns a copy of the layer slice.
func (r *Result) Layers() []LayerNoise { return slices.Clone(r.layers) }

// Metadata returns a copy of the metadata.
func (r *Result) Metadata() map[string]any { return maps.Clone(r.metadata) }

// LearnerOptions returns the recorded learning options, if any.
func (r *Result) LearnerOptions() (LearnerOptions, bool) {
	if r.options == nil {
		return LearnerOptions{}, false
	}
	return r.options.clone(), true
}

func (r *Result) String() string {
	return fmt.Sprintf("NoiseLearnerResult(%d layers, metadata=%v)", len(r.layers), r.metadata)
}
