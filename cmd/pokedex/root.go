package main

import (
	"github.com/spf13/cobra"

	"github.com/Sternrassler/pokeapi-explorer/internal/config"
	"github.com/Sternrassler/pokeapi-explorer/pkg/logging"
)

// app is shared by the subcommands; PersistentPreRunE fills it.
type app struct {
	config *config.Config
}

func newRootCmd() *cobra.Command {
	a := &app{}
	var logLevel string
	var pretty bool

	cmd := &cobra.Command{
		Use:          "pokedex",
		Short:        "Browse the PokeAPI catalog in the browser or the terminal",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("log-level") {
				cfg.LogLevel = logLevel
			}
			if cmd.Flags().Changed("pretty") {
				cfg.LogPretty = pretty
			}

			logging.Setup(logging.Config{
				Level:  cfg.LogLevel,
				Pretty: cfg.LogPretty,
				Output: cmd.ErrOrStderr(),
			})

			a.config = cfg
			return nil
		},
	}

	cmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "Log level: debug|info|warn|error (overrides LOG_LEVEL)")
	cmd.PersistentFlags().BoolVar(&pretty, "pretty", false, "Human-readable logs (overrides LOG_PRETTY)")

	cmd.AddCommand(
		serveCmd(a),
		listCmd(a),
		showCmd(a),
		browseCmd(a),
	)
	return cmd
}
