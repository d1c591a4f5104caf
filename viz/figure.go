// Package viz projects learned layer noise onto a device layout and into
// aggregate plots. Drawing functions build a Figure; registered renderers
// turn a Figure into output.
package viz

import (
	"fmt"
	"io"
	"slices"
	"sync"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v2"
)

// Trace kinds.
const (
	KindScatter = "scatter"
	KindBar     = "bar"
)

// Figure is a renderer-neutral description of a plot.
type Figure struct {
	Layout      Layout       `yaml:"layout"`
	Traces      []Trace      `yaml:"traces"`
	Shapes      []Shape      `yaml:"shapes,omitempty"`
	Annotations []Annotation `yaml:"annotations,omitempty"`
}

// Layout holds figure-wide settings.
type Layout struct {
	Width      int    `yaml:"width"`
	Height     int    `yaml:"height"`
	Background string `yaml:"background,omitempty"`
	XAxis      Axis   `yaml:"xaxis"`
	YAxis      Axis   `yaml:"yaxis"`
}

// Axis describes one axis. Range is nil when it follows the data.
type Axis struct {
	Title      string      `yaml:"title,omitempty"`
	Range      *[2]float64 `yaml:"range,omitempty"`
	HideTicks  bool        `yaml:"hide_ticks,omitempty"`
	TickVals   []float64   `yaml:"tickvals,omitempty"`
	TickText   []string    `yaml:"ticktext,omitempty"`
	EqualScale bool        `yaml:"equal_scale,omitempty"`
}

// Trace is a scatter or bar series. Bars use Categories for x; scatters use X.
type Trace struct {
	Kind       string    `yaml:"kind"`
	Name       string    `yaml:"name,omitempty"`
	Mode       string    `yaml:"mode,omitempty"` // "lines", "markers" or "lines+markers"
	X          []float64 `yaml:"x,omitempty"`
	Categories []string  `yaml:"categories,omitempty"`
	Y          []float64 `yaml:"y"`
	Color      string    `yaml:"color,omitempty"`
	Opacity    float64   `yaml:"opacity,omitempty"`
	LineWidth  float64   `yaml:"line_width,omitempty"`
	// MarkerValues colour each marker through ColorScale.
	MarkerValues []float64 `yaml:"marker_values,omitempty"`
	ColorScale   string    `yaml:"colorscale,omitempty"`
	Hover        []string  `yaml:"hover,omitempty"`
	ShowLegend   bool      `yaml:"show_legend,omitempty"`
}

// Shape is a filled closed path.
type Shape struct {
	Path      string       `yaml:"path"`
	Points    [][2]float64 `yaml:"-"`
	Fill      string       `yaml:"fill"`
	LineColor string       `yaml:"line_color"`
	LineWidth float64      `yaml:"line_width"`
}

// Annotation is text placed at a data position.
type Annotation struct {
	X      float64 `yaml:"x"`
	Y      float64 `yaml:"y"`
	Text   string  `yaml:"text"`
	Bold   bool    `yaml:"bold,omitempty"`
	YShift float64 `yaml:"yshift,omitempty"`
}

func newFigure(width, height int) *Figure {
	return &Figure{Layout: Layout{Width: width, Height: height}}
}

func (f *Figure) addTrace(t Trace) { f.Traces = append(f.Traces, t) }

func (f *Figure) addShape(pts [][2]float64, fill string) {
	f.Shapes = append(f.Shapes, Shape{
		Path:      svgPath(pts),
		Points:    pts,
		Fill:      fill,
		LineColor: "black",
		LineWidth: 1,
	})
}

func (f *Figure) annotate(x, y float64, text string) {
	f.Annotations = append(f.Annotations, Annotation{X: x, Y: y, Text: text})
}

// MissingDependencyError is returned when a figure is rendered with a
// renderer that is not linked into the binary.
type MissingDependencyError struct {
	Name      string
	Available []string
}

func (e *MissingDependencyError) Error() string {
	return fmt.Sprintf("rendering dependency %q is not available (available: %v)", e.Name, e.Available)
}

// Renderer writes a figure.
type Renderer interface {
	Render(w io.Writer, fig *Figure) error
}

// RendererFunc adapts a function to Renderer.
type RendererFunc func(w io.Writer, fig *Figure) error

// Render implements Renderer.
func (fn RendererFunc) Render(w io.Writer, fig *Figure) error { return fn(w, fig) }

var (
	renderersMu sync.RWMutex
	renderers   = map[string]Renderer{
		"yaml": RendererFunc(renderYAML),
	}
)

// Register makes a renderer available under name, replacing any previous one.
func Register(name string, r Renderer) {
	renderersMu.Lock()
	defer renderersMu.Unlock()
	renderers[name] = r
}

// Renderers returns the registered renderer names, sorted.
func Renderers() []string {
	renderersMu.RLock()
	defer renderersMu.RUnlock()
	names := make([]string, 0, len(renderers))
	for name := range renderers {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Render writes fig with the named renderer.
func Render(w io.Writer, fig *Figure, name string) error {
	renderersMu.RLock()
	r, ok := renderers[name]
	renderersMu.RUnlock()
	if !ok {
		return &MissingDependencyError{Name: name, Available: Renderers()}
	}
	return r.Render(w, fig)
}

func renderYAML(w io.Writer, fig *Figure) error {
	raw, err := yaml.Marshal(fig)
	if err != nil {
		return errors.Wrap(err, "encode figure")
	}
	_, err = w.Write(raw)
	return errors.Wrap(err, "write figure")
}
