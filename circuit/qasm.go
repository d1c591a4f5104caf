package circuit

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// Pre-compiled regexps for QASM parsing.
var (
	gateRegex    = regexp.MustCompile(`^(\w+)\s*(?:\(([^)]*)\))?\s+(q\[\d+\](?:\s*,\s*q\[\d+\])*)\s*;?$`)
	qubitRegex   = regexp.MustCompile(`q\[(\d+)\]`)
	measureRegex = regexp.MustCompile(`^measure\s+q\[(\d+)\]\s*->\s*\w+\[\d+\]\s*;?$`)
	qregRegex    = regexp.MustCompile(`qreg\s+(\w+)\[(\d+)\]`)
)

// ToQASM generates QASM 2.0 output from the circuit.
func (c *Circuit) ToQASM() string {
	numQubits := max(c.NumQubits, 1)

	var sb strings.Builder
	sb.WriteString("OPENQASM 2.0;\n")
	sb.WriteString("include \"qelib1.inc\";\n\n")
	fmt.Fprintf(&sb, "qreg q[%d];\n", numQubits)
	if n := c.numMeasured(); n > 0 {
		fmt.Fprintf(&sb, "creg c[%d];\n", n)
	}
	sb.WriteString("\n")

	for _, gate := range c.Ops() {
		switch gate.Type {
		case "BARRIER":
			qubits := make([]string, numQubits)
			for q := range numQubits {
				qubits[q] = fmt.Sprintf("q[%d]", q)
			}
			fmt.Fprintf(&sb, "barrier %s;\n", strings.Join(qubits, ", "))
		case "MEASURE":
			fmt.Fprintf(&sb, "measure q[%d] -> c[%d];\n", gate.Target, gate.Target)
		default:
			sb.WriteString(gate.String())
			sb.WriteString(";\n")
		}
	}

	return sb.String()
}

func (c *Circuit) numMeasured() int {
	n := 0
	for _, g := range c.Gates {
		if g.Type == "MEASURE" {
			n = max(n, g.Target+1)
		}
	}
	return n
}

// ParseQASM parses QASM text into a new circuit. Unlike the permissive editor
// parser, any statement it does not understand is reported with its line number.
func ParseQASM(qasm string) (*Circuit, error) {
	c := &Circuit{}
	step := 0

	for lineNo, line := range strings.Split(qasm, "\n") {
		line = strings.TrimSpace(line)
		if idx := strings.Index(line, "//"); idx >= 0 {
			line = strings.TrimSpace(line[:idx])
		}
		if line == "" {
			continue
		}
		if strings.HasPrefix(line, "OPENQASM") || strings.HasPrefix(line, "include") || strings.HasPrefix(line, "creg") {
			continue
		}
		if strings.HasPrefix(line, "qreg") {
			matches := qregRegex.FindStringSubmatch(line)
			if matches == nil {
				return nil, errors.Errorf("line %d: malformed qreg %q", lineNo+1, line)
			}
			n, _ := strconv.Atoi(matches[2])
			c.NumQubits = max(c.NumQubits, n)
			continue
		}
		if strings.HasPrefix(line, "barrier") {
			c.AddBarrier(step)
			step++
			continue
		}

		// Measurement: "measure q[0] -> c[0];"
		if matches := measureRegex.FindStringSubmatch(line); matches != nil {
			source, _ := strconv.Atoi(matches[1])
			c.AddGate("MEASURE", source, step)
			step++
			continue
		}

		matches := gateRegex.FindStringSubmatch(line)
		if matches == nil {
			return nil, errors.Errorf("line %d: unsupported statement %q", lineNo+1, line)
		}
		gateType := strings.ToUpper(matches[1])
		if gateType == "ID" {
			gateType = "I"
		}

		var qubits []int
		for _, qm := range qubitRegex.FindAllStringSubmatch(matches[3], -1) {
			q, _ := strconv.Atoi(qm[1])
			qubits = append(qubits, q)
		}
		if len(qubits) > 2 {
			return nil, errors.Errorf("line %d: gates on %d qubits are not supported", lineNo+1, len(qubits))
		}

		g := Gate{Type: gateType, Control: -1, Step: step}
		if len(qubits) == 2 {
			g.Control, g.Target = qubits[0], qubits[1]
		} else {
			g.Target = qubits[0]
		}

		if matches[2] != "" {
			symbolic := false
			for _, pStr := range strings.Split(matches[2], ",") {
				pStr = strings.TrimSpace(pStr)
				if p, ok := parseParamExpr(pStr); ok {
					g.Params = append(g.Params, p)
					g.Symbols = append(g.Symbols, "")
					continue
				}
				if !isSymbol(pStr) {
					return nil, errors.Errorf("line %d: cannot parse parameter %q", lineNo+1, pStr)
				}
				g.Params = append(g.Params, 0)
				g.Symbols = append(g.Symbols, pStr)
				symbolic = true
			}
			if !symbolic {
				g.Symbols = nil
			}
		}

		c.place(g)
		step++
	}

	return c, nil
}
