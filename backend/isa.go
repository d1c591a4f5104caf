package backend

import (
	"fmt"

	"github.com/pkg/errors"

	"qtermdebug/circuit"
)

// ISAError reports an instruction the device cannot execute as written.
type ISAError struct {
	Backend     string
	Instruction string
	Qubits      []int
	Step        int
}

func (e *ISAError) Error() string {
	return fmt.Sprintf("instruction %q on qubits %v at step %d is not native to %s", e.Instruction, e.Qubits, e.Step, e.Backend)
}

// CheckISA verifies that every instruction of c is in the target, acts on
// existing qubits, and that two-qubit gates follow the coupling map.
func (b *Backend) CheckISA(c *circuit.Circuit) error {
	if c.NumQubits > b.NumQubits {
		return errors.Errorf("circuit has %d qubits but %s only has %d", c.NumQubits, b.Name, b.NumQubits)
	}
	for _, g := range c.Ops() {
		if g.Type == "BARRIER" {
			continue
		}
		if !b.Supports(g.Type, g.Qubits()) {
			return &ISAError{Backend: b.Name, Instruction: g.Type, Qubits: g.Qubits(), Step: g.Step}
		}
	}
	return nil
}
