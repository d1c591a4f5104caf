// Package term renders viz figures as coloured text for a terminal. Importing
// it registers the "terminal" renderer.
package term

import (
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/pkg/errors"

	"qtermdebug/viz"
)

// Default canvas size in cells.
const (
	DefaultWidth  = 72
	DefaultHeight = 22
	barW          = 40 // width of the longest bar
)

func init() {
	viz.Register("terminal", Renderer{})
}

var (
	legendStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#c0caf5"))

	axisStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#565f89"))

	labelStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#7dcfff"))
)

// Renderer draws figures on a character canvas. Bar figures are drawn as
// horizontal bars instead.
type Renderer struct {
	Width  int
	Height int
}

// Render implements viz.Renderer.
func (r Renderer) Render(w io.Writer, fig *viz.Figure) error {
	if fig == nil {
		return errors.New("nil figure")
	}
	if r.Width <= 0 {
		r.Width = DefaultWidth
	}
	if r.Height <= 0 {
		r.Height = DefaultHeight
	}

	var out string
	if isBarFigure(fig) {
		out = renderBars(fig)
	} else {
		out = r.renderCanvas(fig)
	}
	_, err := io.WriteString(w, out)
	return errors.Wrap(err, "write terminal figure")
}

func isBarFigure(fig *viz.Figure) bool {
	if len(fig.Traces) == 0 {
		return false
	}
	for _, t := range fig.Traces {
		if t.Kind != viz.KindBar {
			return false
		}
	}
	return true
}

// colorStyle resolves a figure colour to a foreground style. Unknown colours
// render unstyled.
func colorStyle(color string) lipgloss.Style {
	if color == "" {
		return lipgloss.NewStyle()
	}
	c, err := viz.ParseColor(color)
	if err != nil {
		return lipgloss.NewStyle()
	}
	return lipgloss.NewStyle().Foreground(lipgloss.Color(c.Hex()))
}

// ──────────────────────────── Canvas ────────────────────────────

type cell struct {
	r     rune
	color string
}

type canvas struct {
	w, h   int
	cells  [][]cell
	x0, x1 float64
	y0, y1 float64
}

func newCanvas(w, h int, xr, yr [2]float64) *canvas {
	c := &canvas{w: w, h: h, x0: xr[0], x1: xr[1], y0: yr[0], y1: yr[1]}
	c.cells = make([][]cell, h)
	for i := range c.cells {
		c.cells[i] = make([]cell, w)
		for j := range c.cells[i] {
			c.cells[i][j] = cell{r: ' '}
		}
	}
	return c
}

func (c *canvas) pos(x, y float64) (col, row int) {
	col = int(math.Round((x - c.x0) / (c.x1 - c.x0) * float64(c.w-1)))
	row = int(math.Round((c.y1 - y) / (c.y1 - c.y0) * float64(c.h-1)))
	return col, row
}

func (c *canvas) set(col, row int, r rune, color string) {
	if col < 0 || col >= c.w || row < 0 || row >= c.h {
		return
	}
	c.cells[row][col] = cell{r: r, color: color}
}

func (c *canvas) text(x, y float64, s, color string) {
	col, row := c.pos(x, y)
	for i, r := range []rune(s) {
		c.set(col+i, row, r, color)
	}
}

// line rasterizes a segment with one glyph per cell step.
func (c *canvas) line(xa, ya, xb, yb float64, color string) {
	ca, ra := c.pos(xa, ya)
	cb, rb := c.pos(xb, yb)
	dc, dr := cb-ca, rb-ra
	steps := max(abs(dc), abs(dr))

	var glyph rune
	switch {
	case dr == 0:
		glyph = '─'
	case dc == 0:
		glyph = '│'
	case (dc > 0) == (dr > 0):
		glyph = '╲'
	default:
		glyph = '╱'
	}
	if steps == 0 {
		c.set(ca, ra, glyph, color)
		return
	}
	for i := 0; i <= steps; i++ {
		col := ca + int(math.Round(float64(dc*i)/float64(steps)))
		row := ra + int(math.Round(float64(dr*i)/float64(steps)))
		c.set(col, row, glyph, color)
	}
}

func (c *canvas) String() string {
	var sb strings.Builder
	for _, row := range c.cells {
		start := 0
		for start < len(row) {
			end := start
			for end < len(row) && row[end].color == row[start].color {
				end++
			}
			run := make([]rune, 0, end-start)
			for _, cl := range row[start:end] {
				run = append(run, cl.r)
			}
			sb.WriteString(colorStyle(row[start].color).Render(string(run)))
			start = end
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// bounds returns the axis range, or the data extent when the figure has none.
func bounds(axis viz.Axis, values []float64) [2]float64 {
	if axis.Range != nil {
		return *axis.Range
	}
	if len(values) == 0 {
		return [2]float64{0, 1}
	}
	lo, hi := values[0], values[0]
	for _, v := range values[1:] {
		lo, hi = min(lo, v), max(hi, v)
	}
	if lo == hi {
		lo, hi = lo-1, hi+1
	}
	pad := (hi - lo) * 0.05
	return [2]float64{lo - pad, hi + pad}
}

func (r Renderer) renderCanvas(fig *viz.Figure) string {
	var xs, ys []float64
	for _, t := range fig.Traces {
		xs = append(xs, t.X...)
		ys = append(ys, t.Y...)
	}
	for _, s := range fig.Shapes {
		for _, p := range s.Points {
			xs = append(xs, p[0])
			ys = append(ys, p[1])
		}
	}
	c := newCanvas(r.Width, r.Height, bounds(fig.Layout.XAxis, xs), bounds(fig.Layout.YAxis, ys))

	for _, t := range fig.Traces {
		if strings.Contains(t.Mode, "lines") {
			for i := 1; i < len(t.X) && i < len(t.Y); i++ {
				c.line(t.X[i-1], t.Y[i-1], t.X[i], t.Y[i], t.Color)
			}
		}
		// the qubit marker trace of a layer map sits under the pies
		if strings.Contains(t.Mode, "markers") && t.MarkerValues == nil {
			for i := 0; i < len(t.X) && i < len(t.Y); i++ {
				col, row := c.pos(t.X[i], t.Y[i])
				c.set(col, row, '•', t.Color)
			}
		}
	}

	// a wedge is drawn at its centroid
	for _, s := range fig.Shapes {
		if len(s.Points) == 0 {
			continue
		}
		var cx, cy float64
		for _, p := range s.Points {
			cx += p[0]
			cy += p[1]
		}
		n := float64(len(s.Points))
		col, row := c.pos(cx/n, cy/n)
		c.set(col, row, '●', s.Fill)
	}

	for _, a := range fig.Annotations {
		color := ""
		if a.Bold {
			color = "white"
		}
		c.text(a.X, a.Y, a.Text, color)
	}

	var sb strings.Builder
	sb.WriteString(c.String())
	if ticks := tickLine(fig.Layout.XAxis); ticks != "" {
		sb.WriteString(axisStyle.Render(ticks))
		sb.WriteByte('\n')
	}
	sb.WriteString(legend(fig))
	return sb.String()
}

func tickLine(axis viz.Axis) string {
	if axis.HideTicks || len(axis.TickText) == 0 {
		return ""
	}
	return axis.Title + ": " + strings.Join(axis.TickText, " | ")
}

func legend(fig *viz.Figure) string {
	var parts []string
	for _, t := range fig.Traces {
		if t.Name == "" {
			continue
		}
		parts = append(parts, colorStyle(t.Color).Render("■")+" "+legendStyle.Render(t.Name))
	}
	if len(parts) == 0 {
		return ""
	}
	return strings.Join(parts, "  ") + "\n"
}

// ──────────────────────────── Bars ────────────────────────────

func renderBars(fig *viz.Figure) string {
	var highest float64
	labelW := 0
	for _, t := range fig.Traces {
		for i, y := range t.Y {
			highest = max(highest, y)
			if i < len(t.Categories) {
				labelW = max(labelW, len(t.Categories[i]))
			}
		}
	}

	var sb strings.Builder
	for _, t := range fig.Traces {
		if t.Name != "" {
			sb.WriteString(labelStyle.Render(t.Name))
			sb.WriteByte('\n')
		}
		style := colorStyle(t.Color)
		for i, y := range t.Y {
			category := ""
			if i < len(t.Categories) {
				category = t.Categories[i]
			}
			n := 0
			if highest > 0 {
				n = int(math.Round(y / highest * barW))
			}
			fmt.Fprintf(&sb, "  %-*s %s %g\n", labelW, category, style.Render(strings.Repeat("█", n)), y)
		}
	}
	return sb.String()
}
