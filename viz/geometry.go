package viz

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/floats"
)

// arcPoints is the number of points used to approximate a pie arc.
const arcPoints = 25

// pieSlice returns the polygon of the wedge of a circle of the given radius
// centred on (x, y), between two angles in degrees measured counterclockwise
// from the x axis. The first point is the centre.
func pieSlice(startDeg, endDeg, x, y, radius float64) [][2]float64 {
	angles := floats.Span(make([]float64, arcPoints), startDeg*math.Pi/180, endDeg*math.Pi/180)
	pts := make([][2]float64, 0, arcPoints+1)
	pts = append(pts, [2]float64{x, y})
	for _, a := range angles {
		pts = append(pts, [2]float64{x + radius*math.Cos(a), y + radius*math.Sin(a)})
	}
	return pts
}

// svgPath renders a closed polygon as an SVG path.
func svgPath(pts [][2]float64) string {
	var sb strings.Builder
	for i, p := range pts {
		if i == 0 {
			sb.WriteString("M ")
		} else {
			sb.WriteString(" L ")
		}
		fmt.Fprintf(&sb, "%s,%s", formatFloat(p[0]), formatFloat(p[1]))
	}
	sb.WriteString(" Z")
	return sb.String()
}

// formatFloat prints the shortest representation that round-trips.
func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
