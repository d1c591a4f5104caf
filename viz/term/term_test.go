package term

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"qtermdebug/viz"
)

func TestRegistered(t *testing.T) {
	assert.Contains(t, viz.Renderers(), "terminal")
}

func TestRenderBars(t *testing.T) {
	fig := &viz.Figure{Traces: []viz.Trace{
		{Kind: viz.KindBar, Name: "qubit: 0", Categories: []string{"X_0", "Z_0"}, Y: []float64{0.02, 0.01}, Color: "red"},
	}}

	var buf bytes.Buffer
	require.NoError(t, viz.Render(&buf, fig, "terminal"))
	out := buf.String()
	assert.Contains(t, out, "qubit: 0")
	assert.Contains(t, out, "X_0")
	assert.Contains(t, out, strings.Repeat("█", barW))
	assert.Contains(t, out, strings.Repeat("█", barW/2)+" 0.01")
}

func TestRenderCanvas(t *testing.T) {
	fig := &viz.Figure{
		Layout: viz.Layout{
			XAxis: viz.Axis{Range: &[2]float64{0, 10}, Title: "layers", TickVals: []float64{0}, TickText: []string{"layer #0"}},
			YAxis: viz.Axis{Range: &[2]float64{0, 10}},
		},
		Traces: []viz.Trace{
			{Kind: viz.KindScatter, Mode: "lines", X: []float64{0, 10}, Y: []float64{5, 5}},
			{Kind: viz.KindScatter, Mode: "markers", Name: "layer #0", X: []float64{5}, Y: []float64{0}},
		},
		Shapes: []viz.Shape{
			{Points: [][2]float64{{2, 8}, {2, 9}, {3, 8}}, Fill: "khaki"},
		},
		Annotations: []viz.Annotation{{X: 8, Y: 8, Text: "q7"}},
	}

	var buf bytes.Buffer
	require.NoError(t, Renderer{Width: 11, Height: 11}.Render(&buf, fig))
	lines := strings.Split(buf.String(), "\n")
	require.GreaterOrEqual(t, len(lines), 11)

	assert.Equal(t, strings.Repeat("─", 11), lines[5])
	assert.Contains(t, lines[10], "•")
	assert.Contains(t, lines[2], "q7")
	assert.Contains(t, buf.String(), "●")
	assert.Contains(t, buf.String(), "layers: layer #0")
}

func TestRenderNil(t *testing.T) {
	require.Error(t, Renderer{}.Render(&bytes.Buffer{}, nil))
}
