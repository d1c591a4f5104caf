package viz

import (
	"fmt"
	"slices"

	"github.com/pkg/errors"

	"qtermdebug/backend"
	"qtermdebug/lindblad"
	"qtermdebug/pauli"
)

// Bar plot groupings.
const (
	GroupByQubit     = "qubit"
	GroupByEdge      = "edge"
	GroupByGenerator = "generator"
)

// BarOptions configures the one- and two-body bar plots. Qubits applies to
// the one-body plot and Edges to the two-body plot; both default to
// everything the layer has data for.
type BarOptions struct {
	Qubits     []int
	Edges      []backend.Edge
	Generators []string // keep only these stripped labels, e.g. "X" or "ZZ"
	Colors     []string // one per qubit or edge
	Grouping   string
	Height     int // 500
	Width      int // 800
}

func (o BarOptions) withDefaults(grouping string) BarOptions {
	if o.Grouping == "" {
		o.Grouping = grouping
	}
	if o.Height == 0 {
		o.Height = 500
	}
	if o.Width == 0 {
		o.Width = 800
	}
	return o
}

func checkGrouping(grouping string, allowed ...string) error {
	if !slices.Contains(allowed, grouping) {
		return errors.Errorf("grouping %q not supported, use one of %v", grouping, allowed)
	}
	return nil
}

func indexOf(qubits []int, q int) (int, error) {
	idx := slices.Index(qubits, q)
	if idx < 0 {
		return 0, errors.Errorf("qubit %d is not part of the layer (qubits %v)", q, qubits)
	}
	return idx, nil
}

func barFigure(opts BarOptions, traces []Trace) *Figure {
	fig := newFigure(opts.Width, opts.Height)
	fig.Traces = traces
	fig.Layout.XAxis.Title = "generator"
	fig.Layout.YAxis.Title = "rate"
	return fig
}

// DrawLayerError1QBarPlot plots the one-body rates of a layer, one bar
// series per qubit. With the "qubit" grouping every bar gets its own
// category; with "generator" the bars of equal generators share one.
func DrawLayerError1QBarPlot(layer lindblad.LayerNoise, opts BarOptions) (*Figure, error) {
	opts = opts.withDefaults(GroupByQubit)
	if err := checkGrouping(opts.Grouping, GroupByQubit, GroupByGenerator); err != nil {
		return nil, err
	}

	layerQubits := layer.Qubits()
	qubits := opts.Qubits
	if qubits == nil {
		qubits = layerQubits
	}
	if opts.Colors != nil && len(opts.Colors) != len(qubits) {
		return nil, errors.Errorf("expected %d colours, got %d", len(qubits), len(opts.Colors))
	}

	one := layer.Errors().RestrictNumBodies(1)
	traces := make([]Trace, 0, len(qubits))
	for i, q := range qubits {
		idx, err := indexOf(layerQubits, q)
		if err != nil {
			return nil, err
		}

		trace := Trace{Kind: KindBar, Name: fmt.Sprintf("qubit: %d", q), ShowLegend: true}
		if opts.Colors != nil {
			trace.Color = opts.Colors[i]
		}
		for j := range one.Len() {
			p, rate := one.Rate(j)
			if p.Support()[0] != idx {
				continue
			}
			gen := string(p.At(idx))
			if opts.Generators != nil && !slices.Contains(opts.Generators, gen) {
				continue
			}
			category := gen
			if opts.Grouping == GroupByQubit {
				category = fmt.Sprintf("%s_%d", gen, q)
			}
			trace.Categories = append(trace.Categories, category)
			trace.Y = append(trace.Y, rate)
			trace.Hover = append(trace.Hover, fmt.Sprintf("qubit: %d\ngen.: %s\nrate: %s", q, gen, formatFloat(rate)))
		}
		traces = append(traces, trace)
	}
	return barFigure(opts, traces), nil
}

// DrawLayerError2QBarPlot plots the two-body rates of a layer, one bar
// series per edge. Edges are undirected and given as physical qubits.
func DrawLayerError2QBarPlot(layer lindblad.LayerNoise, opts BarOptions) (*Figure, error) {
	opts = opts.withDefaults(GroupByEdge)
	if err := checkGrouping(opts.Grouping, GroupByEdge, GroupByGenerator); err != nil {
		return nil, err
	}

	layerQubits := layer.Qubits()
	two := layer.Errors().RestrictNumBodies(2)

	var edges []backend.Edge
	if opts.Edges != nil {
		for _, e := range opts.Edges {
			edges = append(edges, backend.Edge{min(e[0], e[1]), max(e[0], e[1])})
		}
	} else {
		for j := range two.Len() {
			p, _ := two.Rate(j)
			s := p.Support()
			a, b := layerQubits[s[0]], layerQubits[s[1]]
			edges = append(edges, backend.Edge{min(a, b), max(a, b)})
		}
		slices.SortFunc(edges, func(x, y backend.Edge) int {
			if x[0] != y[0] {
				return x[0] - y[0]
			}
			return x[1] - y[1]
		})
		edges = slices.Compact(edges)
	}
	if opts.Colors != nil && len(opts.Colors) != len(edges) {
		return nil, errors.Errorf("expected %d colours, got %d", len(edges), len(opts.Colors))
	}

	traces := make([]Trace, 0, len(edges))
	for i, e := range edges {
		i0, err := indexOf(layerQubits, e[0])
		if err != nil {
			return nil, err
		}
		i1, err := indexOf(layerQubits, e[1])
		if err != nil {
			return nil, err
		}

		trace := Trace{Kind: KindBar, Name: fmt.Sprintf("edge: (%d, %d)", e[0], e[1]), ShowLegend: true}
		if opts.Colors != nil {
			trace.Color = opts.Colors[i]
		}
		for j := range two.Len() {
			p, rate := two.Rate(j)
			if p.At(i0) == 'I' || p.At(i1) == 'I' {
				continue
			}
			gen := pauli.StripIdentity(p.Label())
			if opts.Generators != nil && !slices.Contains(opts.Generators, gen) {
				continue
			}
			category := gen
			if opts.Grouping == GroupByEdge {
				category = fmt.Sprintf("%s_%d,%d", gen, e[0], e[1])
			}
			trace.Categories = append(trace.Categories, category)
			trace.Y = append(trace.Y, rate)
			trace.Hover = append(trace.Hover, fmt.Sprintf("edge: (%d, %d)\ngen.: %s\nrate: %s", e[0], e[1], gen, formatFloat(rate)))
		}
		traces = append(traces, trace)
	}
	return barFigure(opts, traces), nil
}
