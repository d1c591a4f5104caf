package viz

import (
	"fmt"
	"slices"
	"strings"

	"github.com/pkg/errors"

	"qtermdebug/backend"
	"qtermdebug/embedding"
	"qtermdebug/lindblad"
)

// pieWedges are the Pauli letter and start angle (degrees) of the three
// 120-degree wedges drawn for every qubit.
var pieWedges = []struct {
	letter byte
	angle  float64
	legend string
}{
	{'Z', -30, "lightgreen"},
	{'X', 90, "dodgerblue"},
	{'Y', 210, "khaki"},
}

// MapOptions configures DrawLayerErrorMap. Zero fields take the defaults
// listed next to them.
type MapOptions struct {
	ColorScale      string   // "Bluered"
	ColorNoData     string   // ColorNoData
	ColorOutOfScale string   // ColorOutOfScale
	NumEdgeSegments int      // 16
	EdgeWidth       float64  // 4
	Height          int      // 500
	Width           int      // 800
	HighestRate     *float64 // normalisation ceiling; the largest rate in the layer when nil
	Background      string   // "white"
	Radius          float64  // 0.25
}

func (o MapOptions) withDefaults() MapOptions {
	if o.ColorScale == "" {
		o.ColorScale = "Bluered"
	}
	if o.ColorNoData == "" {
		o.ColorNoData = ColorNoData
	}
	if o.ColorOutOfScale == "" {
		o.ColorOutOfScale = ColorOutOfScale
	}
	if o.NumEdgeSegments == 0 {
		o.NumEdgeSegments = 16
	}
	if o.EdgeWidth == 0 {
		o.EdgeWidth = 4
	}
	if o.Height == 0 {
		o.Height = 500
	}
	if o.Width == 0 {
		o.Width = 800
	}
	if o.Background == "" {
		o.Background = "white"
	}
	if o.Radius == 0 {
		o.Radius = 0.25
	}
	return o
}

// edgeRates keeps the two-body rates of one edge in the order they were found.
type edgeRates struct {
	labels []string
	rates  map[string]float64
}

func (e *edgeRates) set(label string, rate float64) {
	if e.rates == nil {
		e.rates = make(map[string]float64)
	}
	if _, ok := e.rates[label]; !ok {
		e.labels = append(e.labels, label)
	}
	e.rates[label] = rate
}

// layerRates is the one- and two-body data of a layer keyed by physical
// qubit and by undirected edge.
type layerRates struct {
	oneBody map[int]map[byte]float64
	twoBody map[backend.Edge]*edgeRates
	highest float64
}

func collectRates(layer lindblad.LayerNoise) layerRates {
	qubits := layer.Qubits()
	out := layerRates{
		oneBody: make(map[int]map[byte]float64),
		twoBody: make(map[backend.Edge]*edgeRates),
	}

	one := layer.Errors().RestrictNumBodies(1)
	for i := range one.Len() {
		p, rate := one.Rate(i)
		idx := p.Support()[0]
		q := qubits[idx]
		if out.oneBody[q] == nil {
			out.oneBody[q] = make(map[byte]float64)
		}
		out.oneBody[q][p.At(idx)] = rate
		out.highest = max(out.highest, rate)
	}

	two := layer.Errors().RestrictNumBodies(2)
	for i := range two.Len() {
		p, rate := two.Rate(i)
		support := p.Support()
		a, b := qubits[support[0]], qubits[support[1]]
		edge := backend.Edge{min(a, b), max(a, b)}
		if out.twoBody[edge] == nil {
			out.twoBody[edge] = &edgeRates{}
		}
		out.twoBody[edge].set(p.Restrict(support).Label(), rate)
		out.highest = max(out.highest, rate)
	}
	return out
}

// DrawLayerErrorMap draws the layer on the device layout: every qubit is a
// pie whose Z, X and Y wedges are coloured by the one-body rates on that
// qubit, and every coupled pair is a line whose colour runs from the lowest
// to the highest two-body rate on that edge.
func DrawLayerErrorMap(layer lindblad.LayerNoise, src embedding.Source, opts MapOptions) (*Figure, error) {
	opts = opts.withDefaults()
	if opts.NumEdgeSegments < 1 {
		return nil, errors.Errorf("num edge segments must be positive, got %d", opts.NumEdgeSegments)
	}

	emb, err := embedding.Resolve(src)
	if err != nil {
		return nil, err
	}
	n := emb.NumQubits()
	if n == 0 {
		return nil, errors.New("embedding has no qubits")
	}
	for _, q := range layer.Qubits() {
		if q < 0 || q >= n {
			return nil, errors.Errorf("layer acts on qubit %d, but the embedding only places %d qubits", q, n)
		}
	}

	scale, err := SampleColorScale(opts.ColorScale, scaleHues)
	if err != nil {
		return nil, err
	}

	xs := make([]float64, n)
	ys := make([]float64, n)
	for q := range n {
		xs[q], ys[q] = emb.XY(q)
	}

	data := collectRates(layer)
	highest := data.highest
	if opts.HighestRate != nil {
		highest = *opts.HighestRate
	}
	color := func(rate float64) string {
		if highest <= 0 {
			return opts.ColorNoData
		}
		return pickColor(scale, rate/highest, opts.ColorNoData, opts.ColorOutOfScale)
	}

	fig := newFigure(opts.Width, opts.Height)

	for _, edge := range emb.Edges() {
		drawEdge(fig, edge, xs, ys, data.twoBody[edge], color, opts)
	}

	hover1q := make([]string, n)
	markerValues := make([]float64, n)
	for q := range n {
		var lines []string
		var qubitMax float64
		for _, w := range pieWedges {
			rate := data.oneBody[q][w.letter]
			fig.addShape(pieSlice(w.angle, w.angle+120, xs[q], ys[q], opts.Radius), color(rate))
			if rate != 0 {
				lines = append(lines, fmt.Sprintf("%c: %s", w.letter, formatFloat(rate)))
			}
			qubitMax = max(qubitMax, rate)
		}
		hover1q[q] = strings.Join(lines, "\n")
		if hover1q[q] == "" {
			hover1q[q] = "No data"
		}
		markerValues[q] = min(qubitMax, highest)
		fig.annotate(xs[q]+0.3, ys[q]+0.4, fmt.Sprint(q))
	}

	fig.addTrace(Trace{
		Kind:         KindScatter,
		Mode:         "markers",
		X:            xs,
		Y:            ys,
		MarkerValues: markerValues,
		ColorScale:   opts.ColorScale,
		Hover:        hover1q,
	})

	// legend pie explaining the wedges
	xLegend := slices.Max(xs) + 1
	yLegend := slices.Max(ys)
	for _, w := range pieWedges {
		fig.addShape(pieSlice(w.angle, w.angle+120, xLegend, yLegend, 0.5), w.legend)
	}
	for _, a := range []Annotation{
		{X: xLegend + 0.2, Y: yLegend, Text: "Z"},
		{X: xLegend - 0.2, Y: yLegend, Text: "X"},
		{X: xLegend, Y: yLegend - 0.45, Text: "Y"},
	} {
		a.Bold, a.YShift = true, 10
		fig.Annotations = append(fig.Annotations, a)
	}

	fig.Layout.Background = opts.Background
	fig.Layout.XAxis = Axis{Range: &[2]float64{slices.Min(xs) - 1, slices.Max(xs) + 2}, HideTicks: true}
	fig.Layout.YAxis = Axis{Range: &[2]float64{slices.Min(ys) - 1, slices.Max(ys) + 1}, HideTicks: true, EqualScale: true}
	return fig, nil
}

// drawEdge adds the segments of one edge. Edges without data are a single
// line in the no-data colour.
func drawEdge(fig *Figure, edge backend.Edge, xs, ys []float64, rates *edgeRates, color func(float64) string, opts MapOptions) {
	x0, x1 := xs[edge[0]], xs[edge[1]]
	y0, y1 := ys[edge[0]], ys[edge[1]]

	if rates == nil || len(rates.labels) == 0 {
		fig.addTrace(Trace{
			Kind:      KindScatter,
			Mode:      "lines",
			X:         []float64{x0, x1},
			Y:         []float64{y0, y1},
			Color:     opts.ColorNoData,
			LineWidth: opts.EdgeWidth,
			Hover:     []string{"No data", "No data"},
		})
		return
	}

	vals := make([]float64, len(rates.labels))
	lines := make([]string, len(rates.labels))
	for i, label := range rates.labels {
		vals[i] = rates.rates[label]
		lines[i] = fmt.Sprintf("%s: %s", label, formatFloat(vals[i]))
	}
	hover := strings.Join(lines, "\n")

	segments := opts.NumEdgeSegments
	minVal := slices.Min(vals)
	maxVal := min(slices.Max(vals), 1)
	step := float64(segments)
	for i := range segments {
		v := minVal + (maxVal-minVal)/step*float64(i)
		fi, fj := float64(i), float64(i+1)
		fig.addTrace(Trace{
			Kind:      KindScatter,
			Mode:      "lines",
			X:         []float64{x0 + (x1-x0)/step*fi, x0 + (x1-x0)/step*fj},
			Y:         []float64{y0 + (y1-y0)/step*fi, y0 + (y1-y0)/step*fj},
			Color:     color(v),
			LineWidth: opts.EdgeWidth,
			Hover:     []string{hover, hover},
		})
	}
}
