package main

import (
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"qtermdebug/backend"
	"qtermdebug/embedding"
	"qtermdebug/internal/tui"
	"qtermdebug/lindblad"
	"qtermdebug/viz"
	_ "qtermdebug/viz/term"
)

func loadNoise(path string) (*lindblad.Result, error) {
	format, err := lindblad.FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "open noise result")
	}
	defer f.Close()
	return lindblad.LoadResult(f, format)
}

func newRenderCmd(a *app) *cobra.Command {
	var (
		resultPath  string
		backendName string
		kind        string
		layer       int
		numBodies   int
		renderer    string
	)

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Draw one figure of a learned noise result",
		Long: `Draws a layer error map, a bar plot or a swarm plot of a learned
noise result (YAML or msgpack) with the chosen renderer.

Kinds: map, bar1q, bar2q, swarm.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := loadNoise(resultPath)
			if err != nil {
				return err
			}
			if renderer == "" {
				renderer = a.cfg.Renderer
			}
			if kind != "swarm" && (layer < 0 || layer >= result.Len()) {
				return errors.Errorf("layer %d out of range, the result has %d layers", layer, result.Len())
			}

			var fig *viz.Figure
			switch kind {
			case "map":
				if backendName == "" {
					backendName = a.cfg.Backend
				}
				b, err := backend.Resolve(backendName)
				if err != nil {
					return err
				}
				fig, err = viz.DrawLayerErrorMap(result.At(layer), embedding.FromBackendSource(b), viz.MapOptions{})
				if err != nil {
					return err
				}
			case "bar1q":
				fig, err = viz.DrawLayerError1QBarPlot(result.At(layer), viz.BarOptions{})
			case "bar2q":
				fig, err = viz.DrawLayerError2QBarPlot(result.At(layer), viz.BarOptions{})
			case "swarm":
				fig, err = viz.DrawLayerErrorsSwarm(result.Layers(), viz.SwarmOptions{NumBodies: numBodies})
			default:
				return errors.Errorf("unknown figure kind %q, use one of [map bar1q bar2q swarm]", kind)
			}
			if err != nil {
				return err
			}
			a.log.Debug().Str("kind", kind).Str("renderer", renderer).Int("traces", len(fig.Traces)).Msg("rendering figure")
			return viz.Render(cmd.OutOrStdout(), fig, renderer)
		},
	}
	cmd.Flags().StringVar(&resultPath, "result", "", "learned noise result (.yaml or .msgpack)")
	cmd.Flags().StringVar(&backendName, "backend", "", "backend whose layout the map is drawn on (default $QDEBUG_BACKEND)")
	cmd.Flags().StringVar(&kind, "kind", "map", "figure kind")
	cmd.Flags().IntVar(&layer, "layer", 0, "layer index")
	cmd.Flags().IntVar(&numBodies, "num-bodies", 0, "swarm: keep only generators of this weight")
	cmd.Flags().StringVar(&renderer, "renderer", "", "output renderer (default $QDEBUG_RENDERER)")
	_ = cmd.MarkFlagRequired("result")
	return cmd
}

func newNoiseMapCmd(a *app) *cobra.Command {
	var (
		resultPath  string
		backendName string
	)

	cmd := &cobra.Command{
		Use:   "noisemap",
		Short: "Browse a learned noise result interactively",
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := loadNoise(resultPath)
			if err != nil {
				return err
			}
			if backendName == "" {
				backendName = a.cfg.Backend
			}
			b, err := backend.Resolve(backendName)
			if err != nil {
				return err
			}
			m, err := tui.New(result, embedding.FromBackendSource(b))
			if err != nil {
				return err
			}
			a.log.Info().Int("layers", result.Len()).Str("backend", b.Name).Msg("opening noise viewer")
			return tui.Run(m)
		},
	}
	cmd.Flags().StringVar(&resultPath, "result", "", "learned noise result (.yaml or .msgpack)")
	cmd.Flags().StringVar(&backendName, "backend", "", "backend whose layout the map is drawn on (default $QDEBUG_BACKEND)")
	_ = cmd.MarkFlagRequired("result")
	return cmd
}
