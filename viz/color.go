package viz

import (
	"strings"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/floats"
)

// Default colours of the layer error map.
const (
	ColorNoData     = "lightgray"
	ColorOutOfScale = "lightgreen"
)

// scaleHues is how many hues a colour scale is discretised into.
const scaleHues = 1000

// namedColors are the CSS colour names the drawing functions use by default.
var namedColors = map[string]string{
	"black":      "#000000",
	"white":      "#ffffff",
	"lightgray":  "#d3d3d3",
	"lightgrey":  "#d3d3d3",
	"gray":       "#808080",
	"lightgreen": "#90ee90",
	"dodgerblue": "#1e90ff",
	"khaki":      "#f0e68c",
	"blue":       "#0000ff",
	"red":        "#ff0000",
	"green":      "#008000",
	"orange":     "#ffa500",
	"purple":     "#800080",
}

// colorScales are continuous scales given by equally spaced stops.
var colorScales = map[string][]string{
	"Bluered": {"#0000ff", "#ff0000"},
	"Viridis": {"#440154", "#482878", "#3e4989", "#31688e", "#26828e", "#1f9e89", "#35b779", "#6ece58", "#b5de2b", "#fde725"},
	"Greys":   {"#000000", "#ffffff"},
	"Reds":    {"#dcdcdc", "#f5a582", "#dd3d2d", "#b2182b"},
}

// ParseColor accepts "#rrggbb" or one of the known colour names.
func ParseColor(s string) (colorful.Color, error) {
	if hex, ok := namedColors[strings.ToLower(s)]; ok {
		s = hex
	}
	c, err := colorful.Hex(s)
	if err != nil {
		return colorful.Color{}, errors.Wrapf(err, "parse colour %q", s)
	}
	return c, nil
}

// SampleColorScale returns n evenly spaced hex colours of the named scale,
// interpolated in RGB between its stops.
func SampleColorScale(name string, n int) ([]string, error) {
	stops, ok := colorScales[name]
	if !ok {
		return nil, errors.Errorf("unknown colour scale %q", name)
	}
	parsed := make([]colorful.Color, len(stops))
	for i, s := range stops {
		c, err := colorful.Hex(s)
		if err != nil {
			return nil, err
		}
		parsed[i] = c
	}
	if n <= 0 {
		return nil, nil
	}

	positions := make([]float64, n)
	if n == 1 {
		positions[0] = 0
	} else {
		floats.Span(positions, 0, 1)
	}

	out := make([]string, n)
	segments := float64(len(parsed) - 1)
	for i, p := range positions {
		if segments == 0 {
			out[i] = parsed[0].Hex()
			continue
		}
		seg := min(int(p*segments), len(parsed)-2)
		t := p*segments - float64(seg)
		out[i] = parsed[seg].BlendRgb(parsed[seg+1], t).Clamped().Hex()
	}
	return out, nil
}

// pickColor maps a normalised value onto a discrete scale. Values above 1
// are out of scale and values at or below 0 have no data.
func pickColor(scale []string, val float64, noData, outOfScale string) string {
	switch {
	case val > 1:
		return outOfScale
	case val > 0:
		return scale[int(val*float64(len(scale)-1))]
	default:
		return noData
	}
}
