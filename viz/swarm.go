package viz

import (
	"fmt"
	"math"
	"slices"

	"github.com/pkg/errors"

	"qtermdebug/lindblad"
)

// SwarmOptions configures DrawLayerErrorsSwarm.
type SwarmOptions struct {
	// NumBodies keeps only generators of that weight when positive.
	NumBodies int
	// MinRate and MaxRate drop generators outside the range. Connected
	// generators are always kept.
	MinRate *float64
	MaxRate *float64
	// Connected generator labels are joined across layers by a line.
	Connected []string
	Colors    []string  // one per layer
	NumBins   int       // 10
	Opacities []float64 // one per layer, 0.4 each when nil
	Names     []string  // one per layer, "layer #i" when nil
	Height    int       // 500
	Width     int       // 800
}

func (o SwarmOptions) withDefaults(numLayers int) (SwarmOptions, error) {
	if o.NumBins == 0 {
		o.NumBins = 10
	}
	if o.NumBins < 0 {
		return o, errors.Errorf("num bins must be positive, got %d", o.NumBins)
	}
	if o.Height == 0 {
		o.Height = 500
	}
	if o.Width == 0 {
		o.Width = 800
	}
	if o.Colors != nil && len(o.Colors) != numLayers {
		return o, errors.Errorf("expected %d colours, got %d", numLayers, len(o.Colors))
	}
	if o.Opacities == nil {
		o.Opacities = make([]float64, numLayers)
		for i := range o.Opacities {
			o.Opacities[i] = 0.4
		}
	} else if len(o.Opacities) != numLayers {
		return o, errors.Errorf("expected %d opacities, got %d", numLayers, len(o.Opacities))
	}
	if o.Names == nil {
		o.Names = make([]string, numLayers)
		for i := range o.Names {
			o.Names[i] = fmt.Sprintf("layer #%d", i)
		}
	} else if len(o.Names) != numLayers {
		return o, errors.Errorf("expected %d names, got %d", numLayers, len(o.Names))
	}
	return o, nil
}

type swarmPoint struct {
	label string
	rate  float64
}

// connectedPath accumulates the points of one connected generator.
type connectedPath struct {
	x, y  []float64
	hover []string
}

// DrawLayerErrorsSwarm places the rates of every layer in a vertical swarm
// at x = layer index. Rates are binned; points sharing a bin are spread
// horizontally around the layer's axis.
func DrawLayerErrorsSwarm(layers []lindblad.LayerNoise, opts SwarmOptions) (*Figure, error) {
	opts, err := opts.withDefaults(len(layers))
	if err != nil {
		return nil, err
	}

	paths := make(map[string]*connectedPath, len(opts.Connected))
	for _, g := range opts.Connected {
		paths[g] = &connectedPath{}
	}

	fig := newFigure(opts.Width, opts.Height)
	for l, layer := range layers {
		errs := layer.Errors()
		if opts.NumBodies > 0 {
			errs = errs.RestrictNumBodies(opts.NumBodies)
		}
		labels := errs.Generators().Labels()
		rates := errs.Rates()

		trace := Trace{
			Kind:    KindScatter,
			Mode:    "markers",
			Name:    opts.Names[l],
			Opacity: opts.Opacities[l],
		}
		if opts.Colors != nil {
			trace.Color = opts.Colors[l]
		}
		if len(rates) == 0 {
			fig.addTrace(trace)
			continue
		}

		bins := binRates(labels, rates, opts)
		for _, bin := range bins {
			for idx, pt := range bin {
				x := float64(l) + float64(idx-len(bin)/2)/float64(len(rates))
				trace.X = append(trace.X, x)
				trace.Y = append(trace.Y, pt.rate)
				trace.Hover = append(trace.Hover, fmt.Sprintf("Generator: %s\n  rate: %s", pt.label, formatFloat(pt.rate)))

				if path, ok := paths[pt.label]; ok {
					path.x = append(path.x, x)
					path.y = append(path.y, pt.rate)
					path.hover = append(path.hover, fmt.Sprintf("%s\n gen.: %s\n rate: %s", opts.Names[l], pt.label, formatFloat(pt.rate)))
				}
			}
		}
		fig.addTrace(trace)
	}

	for _, g := range opts.Connected {
		path := paths[g]
		fig.addTrace(Trace{
			Kind:       KindScatter,
			Mode:       "lines+markers",
			Name:       g,
			X:          path.x,
			Y:          path.y,
			Hover:      path.hover,
			ShowLegend: true,
		})
	}

	tickVals := make([]float64, len(layers))
	for i := range tickVals {
		tickVals[i] = float64(i)
	}
	fig.Layout.XAxis = Axis{
		Title:    "layers",
		Range:    &[2]float64{-1, float64(len(layers))},
		TickVals: tickVals,
		TickText: opts.Names,
	}
	fig.Layout.YAxis = Axis{Title: "rates"}
	return fig, nil
}

// binRates sorts the generators of one layer into NumBins+1 equal-width
// bins spanning the layer's rate range. A layer whose rates are all equal
// lands in bin 0.
func binRates(labels []string, rates []float64, opts SwarmOptions) [][]swarmPoint {
	smallest, highest := slices.Min(rates), slices.Max(rates)
	binSize := (highest - smallest) / float64(opts.NumBins)

	bins := make([][]swarmPoint, opts.NumBins+1)
	for i, rate := range rates {
		label := labels[i]
		if !slices.Contains(opts.Connected, label) {
			if opts.MinRate != nil && rate < *opts.MinRate {
				continue
			}
			if opts.MaxRate != nil && rate > *opts.MaxRate {
				continue
			}
		}

		bin := 0
		if binSize > 0 {
			bin = min(max(int(math.Floor((rate-smallest)/binSize)), 0), opts.NumBins)
		}
		bins[bin] = append(bins[bin], swarmPoint{label: label, rate: rate})
	}
	return bins
}
