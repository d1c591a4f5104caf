// Package circuit holds the gate-level circuit model shared by the simulator,
// the Clifford tooling and the learned-noise containers.
package circuit

import (
	"fmt"
	"slices"
	"strings"

	"github.com/pkg/errors"
)

// Gate represents a quantum gate placed on the circuit.
type Gate struct {
	Type    string    // upper-case gate name: "CX", "RZ", "SX", ...
	Target  int       // target qubit
	Control int       // first qubit of a two-qubit gate, -1 otherwise
	Step    int       // position in circuit timeline
	Params  []float64 // numeric parameters
	Symbols []string  // parameter names, "" where Params holds a literal value
}

// Qubits returns the qubits the gate acts on, in instruction order.
func (g Gate) Qubits() []int {
	switch {
	case g.Type == "BARRIER":
		return nil
	case g.Control >= 0:
		return []int{g.Control, g.Target}
	default:
		return []int{g.Target}
	}
}

// IsSymbolic reports whether any parameter of the gate is unbound.
func (g Gate) IsSymbolic() bool {
	for _, s := range g.Symbols {
		if s != "" {
			return true
		}
	}
	return false
}

// references reports whether the gate references the given qubit.
func (g Gate) references(qubit int) bool {
	return g.Target == qubit || g.Control == qubit
}

func (g Gate) clone() Gate {
	g.Params = slices.Clone(g.Params)
	g.Symbols = slices.Clone(g.Symbols)
	return g
}

// String renders the gate as a single QASM statement.
func (g Gate) String() string {
	name := strings.ToLower(g.Type)
	if g.Type == "I" {
		name = "id"
	}
	var sb strings.Builder
	sb.WriteString(name)
	if len(g.Params) > 0 {
		parts := make([]string, len(g.Params))
		for i, p := range g.Params {
			if i < len(g.Symbols) && g.Symbols[i] != "" {
				parts[i] = g.Symbols[i]
			} else {
				parts[i] = formatParam(p)
			}
		}
		fmt.Fprintf(&sb, "(%s)", strings.Join(parts, ", "))
	}
	for i, q := range g.Qubits() {
		if i == 0 {
			sb.WriteString(" ")
		} else {
			sb.WriteString(", ")
		}
		fmt.Fprintf(&sb, "q[%d]", q)
	}
	return sb.String()
}

// Circuit holds the quantum circuit state.
type Circuit struct {
	NumQubits int
	Gates     []Gate
	MaxSteps  int
}

// New returns an empty circuit over numQubits qubits.
func New(numQubits int) *Circuit {
	return &Circuit{NumQubits: numQubits}
}

func (c *Circuit) place(g Gate) {
	c.Gates = append(c.Gates, g)
	if g.Step >= c.MaxSteps {
		c.MaxSteps = g.Step + 1
	}
	for _, q := range g.Qubits() {
		if q+1 > c.NumQubits {
			c.NumQubits = q + 1
		}
	}
}

// AddGate appends a gate to the circuit.
func (c *Circuit) AddGate(gateType string, target, step int, control ...int) {
	ctrl := -1
	if len(control) > 0 {
		ctrl = control[0]
	}
	c.place(Gate{Type: gateType, Target: target, Control: ctrl, Step: step})
}

// AddParameterizedGate appends a gate with literal parameters to the circuit.
func (c *Circuit) AddParameterizedGate(gateType string, target, step int, params []float64, control ...int) {
	ctrl := -1
	if len(control) > 0 {
		ctrl = control[0]
	}
	c.place(Gate{Type: gateType, Target: target, Control: ctrl, Step: step, Params: params})
}

// AddSymbolicGate appends a single-parameter gate whose angle is bound later
// through the named parameter.
func (c *Circuit) AddSymbolicGate(gateType string, target, step int, symbol string, control ...int) {
	ctrl := -1
	if len(control) > 0 {
		ctrl = control[0]
	}
	c.place(Gate{
		Type:    gateType,
		Target:  target,
		Control: ctrl,
		Step:    step,
		Params:  []float64{0},
		Symbols: []string{symbol},
	})
}

// AddBarrier appends a barrier spanning all qubits at the given step.
func (c *Circuit) AddBarrier(step int) {
	c.Gates = slices.DeleteFunc(c.Gates, func(g Gate) bool {
		return g.Step == step && g.Type == "BARRIER"
	})
	c.place(Gate{Type: "BARRIER", Target: -1, Control: -1, Step: step})
}

// Append places a gate in the next free step.
func (c *Circuit) Append(gateType string, qubits []int, params ...float64) {
	g := Gate{Type: gateType, Control: -1, Step: c.MaxSteps, Params: params}
	switch len(qubits) {
	case 0:
		g.Target = -1
	case 1:
		g.Target = qubits[0]
	default:
		g.Control, g.Target = qubits[0], qubits[1]
	}
	c.place(g)
}

// GetGateAt returns the gate at the given step and qubit, or nil.
func (c *Circuit) GetGateAt(step, qubit int) *Gate {
	for i := range c.Gates {
		g := &c.Gates[i]
		if g.Step == step && g.references(qubit) {
			return g
		}
	}
	return nil
}

// Ops returns the gates ordered by step. Gates sharing a step keep their
// insertion order.
func (c *Circuit) Ops() []Gate {
	ops := slices.Clone(c.Gates)
	slices.SortStableFunc(ops, func(a, b Gate) int {
		return a.Step - b.Step
	})
	return ops
}

// Clone returns a deep copy of the circuit.
func (c *Circuit) Clone() *Circuit {
	out := &Circuit{NumQubits: c.NumQubits, MaxSteps: c.MaxSteps, Gates: make([]Gate, len(c.Gates))}
	for i, g := range c.Gates {
		out.Gates[i] = g.clone()
	}
	return out
}

// Equal reports whether both circuits apply the same instructions in the same
// order on the same number of qubits.
func (c *Circuit) Equal(other *Circuit) bool {
	if c == nil || other == nil {
		return c == other
	}
	if c.NumQubits != other.NumQubits {
		return false
	}
	a, b := c.Ops(), other.Ops()
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].Type != b[i].Type || a[i].Target != b[i].Target || a[i].Control != b[i].Control {
			return false
		}
		if !slices.Equal(a[i].Params, b[i].Params) || !slices.Equal(a[i].Symbols, b[i].Symbols) {
			return false
		}
	}
	return true
}

// Parameters returns the sorted names of the unbound parameters. Bindings
// passed to Bind follow this order.
func (c *Circuit) Parameters() []string {
	seen := map[string]bool{}
	var names []string
	for _, g := range c.Gates {
		for _, s := range g.Symbols {
			if s != "" && !seen[s] {
				seen[s] = true
				names = append(names, s)
			}
		}
	}
	slices.Sort(names)
	return names
}

// NumParameters returns the number of distinct unbound parameters.
func (c *Circuit) NumParameters() int {
	return len(c.Parameters())
}

// Bind returns a copy of the circuit with every parameter replaced by the
// value at the same position in Parameters().
func (c *Circuit) Bind(values []float64) (*Circuit, error) {
	names := c.Parameters()
	if len(values) != len(names) {
		return nil, errors.Errorf("expected %d parameter values, got %d", len(names), len(values))
	}
	lookup := make(map[string]float64, len(names))
	for i, name := range names {
		lookup[name] = values[i]
	}
	out := c.Clone()
	for i := range out.Gates {
		g := &out.Gates[i]
		for j, s := range g.Symbols {
			if s == "" {
				continue
			}
			g.Params[j] = lookup[s]
			g.Symbols[j] = ""
		}
		if !g.IsSymbolic() {
			g.Symbols = nil
		}
	}
	return out, nil
}

// GateCounts returns how many times each gate type occurs.
func (c *Circuit) GateCounts() map[string]int {
	counts := make(map[string]int)
	for _, g := range c.Gates {
		counts[g.Type]++
	}
	return counts
}
