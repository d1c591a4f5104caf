// Command qdebug predicts how a backend's noise degrades Clifford
// expectation values and draws learned layer noise.
package main

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"qtermdebug/internal/config"
	"qtermdebug/internal/logger"
)

// app carries what every subcommand needs once the root has run.
type app struct {
	cfg *config.Config
	log zerolog.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{log: zerolog.Nop()}
	var envFile string

	root := &cobra.Command{
		Use:           "qdebug",
		Short:         "Noise debugging for Clifford circuits",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var files []string
			if envFile != "" {
				files = append(files, envFile)
			}
			cfg, err := config.Load(files...)
			if err != nil {
				return err
			}
			a.cfg = cfg
			a.log = logger.New(logger.Config{Level: cfg.LogLevel, Pretty: cfg.LogPretty, Output: cmd.ErrOrStderr()})
			logger.SetGlobalLogger(a.log)
			return nil
		},
	}
	root.PersistentFlags().StringVar(&envFile, "env-file", "", "read defaults from this .env file instead of ./.env")

	root.AddCommand(
		newCompareCmd(a),
		newCliffordCmd(a),
		newRenderCmd(a),
		newNoiseMapCmd(a),
	)
	return root
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
