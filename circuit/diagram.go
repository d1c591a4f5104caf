package circuit

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Layout constants
const (
	cellW     = 11 // width of each step column in characters
	gateNameW = 5  // width of gate name inside box
	gateBoxW  = 7  // ┤ + gateNameW + ├ = 1 + 5 + 1
)

var (
	qubitLabelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#7dcfff"))
	gateStyle       = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#73daca"))
	wireStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("#565f89"))
)

// padCenter centres a string within the given width.
func padCenter(s string, width int) string {
	if len(s) >= width {
		return s[:width]
	}
	total := width - len(s)
	left := total / 2
	return strings.Repeat(" ", left) + s + strings.Repeat(" ", total-left)
}

// gateDisplayName returns a short display name for a gate type.
func gateDisplayName(g Gate) string {
	switch {
	case g.Type == "MEASURE":
		return "M"
	case len(g.Symbols) > 0 && g.Symbols[0] != "":
		return g.Symbols[0]
	case len(g.Params) == 1 && g.Type == "RZ":
		return formatParam(g.Params[0])
	default:
		return g.Type
	}
}

// controlSymbol returns the wire symbol for the first qubit of a two-qubit gate.
func controlSymbol(gateType string) string {
	if gateType == "ECR" {
		return "E"
	}
	return "●"
}

// targetSymbol returns the wire symbol for the second qubit of a two-qubit gate.
func targetSymbol(gateType string) string {
	switch gateType {
	case "CZ":
		return "●"
	case "SWAP":
		return "×"
	case "ECR":
		return "R"
	default:
		return "⊕"
	}
}

// cellInfo describes what occupies a single cell in the diagram grid.
type cellInfo struct {
	gate        *Gate
	isControl   bool
	isTarget    bool
	vertAbove   bool
	vertBelow   bool
	passThrough bool
	isBarrier   bool
}

// cellInfo returns rendering information for the cell at (step, qubit).
func (c *Circuit) cellInfo(steps [][]Gate, step, qubit int) cellInfo {
	var info cellInfo
	for i := range steps[step] {
		g := &steps[step][i]
		if g.Type == "BARRIER" {
			info.isBarrier = true
			continue
		}
		if g.references(qubit) {
			info.gate = g
			info.isControl = g.Control == qubit
			info.isTarget = g.Control >= 0 && g.Target == qubit
		}
		if g.Control < 0 {
			continue
		}
		minQ, maxQ := min(g.Control, g.Target), max(g.Control, g.Target)
		if qubit >= minQ && qubit <= maxQ {
			info.vertAbove = info.vertAbove || qubit > minQ
			info.vertBelow = info.vertBelow || qubit < maxQ
			if qubit > minQ && qubit < maxQ && !g.references(qubit) {
				info.passThrough = true
			}
		}
	}
	return info
}

// renderCell returns 3 lines (top, mid, bot) for a single cell.
func renderCell(info cellInfo) (top, mid, bot string) {
	emptyRow := strings.Repeat(" ", cellW)
	halfW := cellW / 2
	vertRow := strings.Repeat(" ", halfW) + "│" + strings.Repeat(" ", cellW-halfW-1)
	dashL := (cellW - 1) / 2
	dashR := cellW - dashL - 1

	top, bot = emptyRow, emptyRow
	if info.vertAbove {
		top = vertRow
	}
	if info.vertBelow {
		bot = vertRow
	}

	switch {
	case info.gate != nil && (info.isControl || info.isTarget):
		sym := targetSymbol(info.gate.Type)
		if info.isControl {
			sym = controlSymbol(info.gate.Type)
		}
		mid = wireStyle.Render(strings.Repeat("─", dashL)) + gateStyle.Render(sym) + wireStyle.Render(strings.Repeat("─", dashR))
	case info.gate != nil:
		margin := (cellW - gateBoxW) / 2
		rightMargin := cellW - margin - gateBoxW
		name := padCenter(gateDisplayName(*info.gate), gateNameW)
		top = strings.Repeat(" ", margin) + gateStyle.Render("┌"+strings.Repeat("─", gateNameW)+"┐") + strings.Repeat(" ", rightMargin)
		mid = wireStyle.Render(strings.Repeat("─", margin)) + gateStyle.Render("┤"+name+"├") + wireStyle.Render(strings.Repeat("─", rightMargin))
		bot = strings.Repeat(" ", margin) + gateStyle.Render("└"+strings.Repeat("─", gateNameW)+"┘") + strings.Repeat(" ", rightMargin)
	case info.passThrough:
		mid = wireStyle.Render(strings.Repeat("─", dashL) + "┼" + strings.Repeat("─", dashR))
	case info.isBarrier:
		top, bot = vertRow, vertRow
		mid = wireStyle.Render(strings.Repeat("─", dashL) + "│" + strings.Repeat("─", dashR))
	default:
		mid = wireStyle.Render(strings.Repeat("─", cellW))
	}
	return top, mid, bot
}

// Diagram draws the circuit as a text grid, one wire per qubit. labels, when
// non-nil, replace the default q0, q1, ... wire names (e.g. physical qubits).
func (c *Circuit) Diagram(labels []int) string {
	numQubits := max(c.NumQubits, 1)
	steps := make([][]Gate, max(c.MaxSteps, 1))
	for _, g := range c.Gates {
		if g.Step >= 0 && g.Step < len(steps) {
			steps[g.Step] = append(steps[g.Step], g)
		}
	}

	var sb strings.Builder
	for q := range numQubits {
		name := fmt.Sprintf("q%d", q)
		if labels != nil && q < len(labels) {
			name = fmt.Sprintf("q%d", labels[q])
		}
		label := fmt.Sprintf("%-5s", name)
		lines := [3]string{"     ", qubitLabelStyle.Render(label), "     "}
		for s := range steps {
			top, mid, bot := renderCell(c.cellInfo(steps, s, q))
			lines[0] += top
			lines[1] += mid
			lines[2] += bot
		}
		for _, l := range lines {
			sb.WriteString(strings.TrimRight(l, " "))
			sb.WriteString("\n")
		}
	}
	return sb.String()
}
