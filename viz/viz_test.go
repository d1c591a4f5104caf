package viz

import (
	"bytes"
	"io"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"qtermdebug/backend"
	"qtermdebug/circuit"
	"qtermdebug/embedding"
	"qtermdebug/lindblad"
	"qtermdebug/pauli"
)

func newLayer(t *testing.T, qubits []int, labels []string, rates []float64) lindblad.LayerNoise {
	t.Helper()
	c := circuit.New(len(qubits))
	c.AddGate("X", 0, 0)
	errs, err := lindblad.NewErrors(pauli.MustParseList(labels...), rates, nil)
	require.NoError(t, err)
	layer, err := lindblad.NewLayerNoise(c, qubits, errs)
	require.NoError(t, err)
	return layer
}

// vigoLayer acts on physical qubits 0, 1 and 2 of fake_vigo.
func vigoLayer(t *testing.T) lindblad.LayerNoise {
	return newLayer(t, []int{0, 1, 2},
		[]string{"IIX", "IZI", "IXX", "ZZI", "XYZ", "YII"},
		[]float64{0.01, 0.02, 0.03, 0.04, 0.05, 0.06})
}

func vigoSource(t *testing.T) embedding.Source {
	t.Helper()
	vigo, ok := backend.Fake("fake_vigo")
	require.True(t, ok)
	return embedding.FromBackendSource(vigo)
}

func TestSampleColorScale(t *testing.T) {
	scale, err := SampleColorScale("Bluered", 3)
	require.NoError(t, err)
	assert.Equal(t, []string{"#0000ff", "#800080", "#ff0000"}, scale)

	_, err = SampleColorScale("Rainbow", 3)
	require.Error(t, err)

	c, err := ParseColor("khaki")
	require.NoError(t, err)
	assert.Equal(t, "#f0e68c", c.Hex())
	_, err = ParseColor("not-a-colour")
	require.Error(t, err)
}

func TestPickColor(t *testing.T) {
	scale := []string{"a", "b", "c"}
	assert.Equal(t, "none", pickColor(scale, 0, "none", "over"))
	assert.Equal(t, "none", pickColor(scale, -1, "none", "over"))
	assert.Equal(t, "b", pickColor(scale, 0.5, "none", "over"))
	assert.Equal(t, "c", pickColor(scale, 1, "none", "over"))
	assert.Equal(t, "over", pickColor(scale, 1.01, "none", "over"))
}

func TestPieSlice(t *testing.T) {
	pts := pieSlice(0, 90, 1, 2, 0.5)
	require.Len(t, pts, arcPoints+1)
	assert.Equal(t, [2]float64{1, 2}, pts[0])
	assert.InDelta(t, 1.5, pts[1][0], 1e-12)
	assert.InDelta(t, 2.0, pts[1][1], 1e-12)
	assert.InDelta(t, 1.0, pts[arcPoints][0], 1e-12)
	assert.InDelta(t, 2.5, pts[arcPoints][1], 1e-12)

	assert.Equal(t, "M 0,0 L 1,0 L 0,1 Z", svgPath([][2]float64{{0, 0}, {1, 0}, {0, 1}}))
}

func TestDrawLayerErrorMap(t *testing.T) {
	fig, err := DrawLayerErrorMap(vigoLayer(t), vigoSource(t), MapOptions{})
	require.NoError(t, err)

	// five qubit pies and the legend
	require.Len(t, fig.Shapes, 5*3+3)
	for _, s := range fig.Shapes[9:15] {
		assert.Equal(t, ColorNoData, s.Fill, "qubits 3 and 4 have no data")
	}
	assert.Equal(t, "#ff0000", fig.Shapes[2*3+2].Fill, "Y on qubit 2 carries the highest rate")
	assert.Equal(t, "lightgreen", fig.Shapes[15].Fill)
	assert.Equal(t, "dodgerblue", fig.Shapes[16].Fill)
	assert.Equal(t, "khaki", fig.Shapes[17].Fill)

	// edges (0,1) and (1,2) have data, (1,3) and (3,4) do not
	require.Len(t, fig.Traces, 16+16+1+1+1)
	scale, err := SampleColorScale("Bluered", scaleHues)
	require.NoError(t, err)
	for _, tr := range fig.Traces[:16] {
		assert.Equal(t, scale[499], tr.Color)
		assert.Equal(t, "XX: 0.03", tr.Hover[0])
	}
	noData := fig.Traces[32]
	assert.Equal(t, ColorNoData, noData.Color)
	assert.Equal(t, []string{"No data", "No data"}, noData.Hover)

	nodes := fig.Traces[len(fig.Traces)-1]
	assert.Equal(t, "markers", nodes.Mode)
	assert.Equal(t, []float64{0.01, 0.02, 0.06, 0, 0}, nodes.MarkerValues)
	assert.Equal(t, "Z: 0.02", nodes.Hover[1])
	assert.Equal(t, "No data", nodes.Hover[3])

	require.Len(t, fig.Annotations, 5+3)
	assert.Equal(t, "0", fig.Annotations[0].Text)
	assert.True(t, fig.Annotations[5].Bold)
	assert.Equal(t, [2]float64{-1, 4}, *fig.Layout.XAxis.Range)
	assert.Equal(t, [2]float64{-3, 1}, *fig.Layout.YAxis.Range)
}

func TestDrawLayerErrorMapHighestRate(t *testing.T) {
	ceiling := 0.03
	fig, err := DrawLayerErrorMap(vigoLayer(t), vigoSource(t), MapOptions{HighestRate: &ceiling, ColorOutOfScale: "orange"})
	require.NoError(t, err)

	assert.Equal(t, "orange", fig.Shapes[2*3+2].Fill)
	assert.NotEqual(t, ColorNoData, fig.Shapes[1].Fill)
	assert.NotEqual(t, "orange", fig.Shapes[1].Fill)
	assert.Equal(t, ceiling, fig.Traces[len(fig.Traces)-1].MarkerValues[2])

	zero := 0.0
	fig, err = DrawLayerErrorMap(vigoLayer(t), vigoSource(t), MapOptions{HighestRate: &zero})
	require.NoError(t, err)
	for _, s := range fig.Shapes[:15] {
		assert.Equal(t, ColorNoData, s.Fill)
	}
}

func TestDrawLayerErrorMapErrors(t *testing.T) {
	outside := newLayer(t, []int{0, 7}, []string{"XI"}, []float64{0.1})
	_, err := DrawLayerErrorMap(outside, vigoSource(t), MapOptions{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "qubit 7")

	_, err = DrawLayerErrorMap(vigoLayer(t), vigoSource(t), MapOptions{ColorScale: "Rainbow"})
	require.Error(t, err)

	_, err = DrawLayerErrorMap(vigoLayer(t), embedding.FromBackendSource(&backend.Backend{Name: "bare", NumQubits: 3}), MapOptions{})
	require.Error(t, err)
}

func TestDrawLayerError1QBarPlot(t *testing.T) {
	fig, err := DrawLayerError1QBarPlot(vigoLayer(t), BarOptions{})
	require.NoError(t, err)
	require.Len(t, fig.Traces, 3)
	assert.Equal(t, "qubit: 0", fig.Traces[0].Name)
	assert.Equal(t, []string{"X_0"}, fig.Traces[0].Categories)
	assert.Equal(t, []float64{0.01}, fig.Traces[0].Y)
	assert.Equal(t, "qubit: 0\ngen.: X\nrate: 0.01", fig.Traces[0].Hover[0])
	assert.Equal(t, []string{"Y_2"}, fig.Traces[2].Categories)

	fig, err = DrawLayerError1QBarPlot(vigoLayer(t), BarOptions{Grouping: GroupByGenerator, Qubits: []int{2}, Colors: []string{"red"}})
	require.NoError(t, err)
	require.Len(t, fig.Traces, 1)
	assert.Equal(t, "qubit: 2", fig.Traces[0].Name)
	assert.Equal(t, []string{"Y"}, fig.Traces[0].Categories)
	assert.Equal(t, "red", fig.Traces[0].Color)

	fig, err = DrawLayerError1QBarPlot(vigoLayer(t), BarOptions{Generators: []string{"Z"}})
	require.NoError(t, err)
	assert.Empty(t, fig.Traces[0].Y)
	assert.Equal(t, []float64{0.02}, fig.Traces[1].Y)
}

func TestBarPlotErrors(t *testing.T) {
	layer := vigoLayer(t)

	_, err := DrawLayerError1QBarPlot(layer, BarOptions{Grouping: "edge"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not supported")

	_, err = DrawLayerError1QBarPlot(layer, BarOptions{Colors: []string{"red"}})
	require.Error(t, err)

	_, err = DrawLayerError1QBarPlot(layer, BarOptions{Qubits: []int{7}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "qubit 7")

	_, err = DrawLayerError2QBarPlot(layer, BarOptions{Grouping: GroupByQubit})
	require.Error(t, err)

	_, err = DrawLayerError2QBarPlot(layer, BarOptions{Colors: []string{"red"}})
	require.Error(t, err)

	_, err = DrawLayerError2QBarPlot(layer, BarOptions{Edges: []backend.Edge{{3, 4}}})
	require.Error(t, err)
}

func TestDrawLayerError2QBarPlot(t *testing.T) {
	fig, err := DrawLayerError2QBarPlot(vigoLayer(t), BarOptions{})
	require.NoError(t, err)
	require.Len(t, fig.Traces, 2)
	assert.Equal(t, "edge: (0, 1)", fig.Traces[0].Name)
	assert.Equal(t, []string{"XX_0,1"}, fig.Traces[0].Categories)
	assert.Equal(t, []float64{0.03}, fig.Traces[0].Y)
	assert.Equal(t, []string{"ZZ_1,2"}, fig.Traces[1].Categories)

	fig, err = DrawLayerError2QBarPlot(vigoLayer(t), BarOptions{Edges: []backend.Edge{{2, 1}}, Grouping: GroupByGenerator})
	require.NoError(t, err)
	require.Len(t, fig.Traces, 1)
	assert.Equal(t, "edge: (1, 2)", fig.Traces[0].Name)
	assert.Equal(t, []string{"ZZ"}, fig.Traces[0].Categories)
	assert.Equal(t, []float64{0.04}, fig.Traces[0].Y)
}

func TestDrawLayerErrorsSwarm(t *testing.T) {
	layers := []lindblad.LayerNoise{vigoLayer(t), vigoLayer(t)}

	fig, err := DrawLayerErrorsSwarm(layers, SwarmOptions{Connected: []string{"IIX"}})
	require.NoError(t, err)
	require.Len(t, fig.Traces, 3)
	assert.Equal(t, "layer #0", fig.Traces[0].Name)
	assert.Equal(t, 0.4, fig.Traces[0].Opacity)
	assert.Len(t, fig.Traces[0].Y, 6)

	line := fig.Traces[2]
	assert.Equal(t, "IIX", line.Name)
	assert.Equal(t, "lines+markers", line.Mode)
	assert.Equal(t, []float64{0.01, 0.01}, line.Y)
	assert.Equal(t, []string{"layer #0", "layer #1"}, fig.Layout.XAxis.TickText)
	assert.Equal(t, [2]float64{-1, 2}, *fig.Layout.XAxis.Range)

	again, err := DrawLayerErrorsSwarm(layers, SwarmOptions{Connected: []string{"IIX"}})
	require.NoError(t, err)
	assert.Equal(t, fig, again)
}

func TestSwarmFilters(t *testing.T) {
	minRate, maxRate := 0.025, 0.045
	fig, err := DrawLayerErrorsSwarm([]lindblad.LayerNoise{vigoLayer(t)}, SwarmOptions{
		MinRate:   &minRate,
		MaxRate:   &maxRate,
		Connected: []string{"YII"},
	})
	require.NoError(t, err)
	assert.ElementsMatch(t, []float64{0.03, 0.04, 0.06}, fig.Traces[0].Y)

	fig, err = DrawLayerErrorsSwarm([]lindblad.LayerNoise{vigoLayer(t)}, SwarmOptions{NumBodies: 2})
	require.NoError(t, err)
	assert.ElementsMatch(t, []float64{0.03, 0.04}, fig.Traces[0].Y)

	fig, err = DrawLayerErrorsSwarm([]lindblad.LayerNoise{vigoLayer(t)}, SwarmOptions{NumBodies: 4})
	require.NoError(t, err)
	assert.Empty(t, fig.Traces[0].Y)
}

func TestSwarmDegenerateRange(t *testing.T) {
	flat := newLayer(t, []int{0, 1}, []string{"XI", "IZ", "ZZ"}, []float64{0.1, 0.1, 0.1})
	fig, err := DrawLayerErrorsSwarm([]lindblad.LayerNoise{flat}, SwarmOptions{})
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float64{-1.0 / 3, 0, 1.0 / 3}, fig.Traces[0].X, 1e-12)
}

func TestSwarmValidation(t *testing.T) {
	layers := []lindblad.LayerNoise{vigoLayer(t), vigoLayer(t)}

	_, err := DrawLayerErrorsSwarm(layers, SwarmOptions{Colors: []string{"red"}})
	require.Error(t, err)
	_, err = DrawLayerErrorsSwarm(layers, SwarmOptions{Names: []string{"only one"}})
	require.Error(t, err)
	_, err = DrawLayerErrorsSwarm(layers, SwarmOptions{Opacities: []float64{1, 1, 1}})
	require.Error(t, err)
	_, err = DrawLayerErrorsSwarm(layers, SwarmOptions{NumBins: -2})
	require.Error(t, err)
}

func TestRender(t *testing.T) {
	fig, err := DrawLayerError1QBarPlot(vigoLayer(t), BarOptions{})
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, Render(&buf, fig, "yaml"))
	assert.Contains(t, buf.String(), "traces:")
	assert.Contains(t, buf.String(), "qubit: 0")

	err = Render(&buf, fig, "plotly")
	var missing *MissingDependencyError
	require.True(t, errors.As(err, &missing))
	assert.Equal(t, "plotly", missing.Name)
	assert.Contains(t, missing.Available, "yaml")

	Register("discard", RendererFunc(func(io.Writer, *Figure) error { return nil }))
	assert.Contains(t, Renderers(), "discard")
	require.NoError(t, Render(&buf, fig, "discard"))
}
