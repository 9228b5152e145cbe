package main

import (
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/Sternrassler/pokeapi-explorer/internal/web"
)

func serveCmd(a *app) *cobra.Command {
	var port int

	c := &cobra.Command{
		Use:   "serve",
		Short: "Serve the catalog as HTML",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Flags().Changed("port") {
				a.config.Port = port
				if err := a.config.Validate(); err != nil {
					return err
				}
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			d, err := newDeps(ctx, a.config)
			if err != nil {
				return err
			}
			defer d.Close()

			webCfg := web.DefaultConfig()
			webCfg.Addr = a.config.Addr()
			webCfg.PageSize = a.config.PageSize
			webCfg.TriggerPageSize = a.config.TriggerPageSize

			srv, err := web.NewServer(webCfg, d.catalog, d.redis)
			if err != nil {
				return err
			}

			log.Info().
				Str("addr", webCfg.Addr).
				Str("base_url", d.client.BaseURL()).
				Bool("cache", d.redis != nil).
				Int("rate_limit", a.config.RateLimit).
				Msg("Starting pokedex server")

			return srv.ListenAndServe(ctx)
		},
	}

	c.Flags().IntVarP(&port, "port", "p", 8080, "Listen port (overrides PORT)")
	return c
}
