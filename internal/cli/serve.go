// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/jeranaias/dailyai/internal/server"
	"github.com/jeranaias/dailyai/internal/session"
)

func newServeCommand(app *App) *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the assistants over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			cfg, err := app.loadConfig()
			if err != nil {
				return err
			}
			app.logToStderr()
			if addr == "" {
				addr = cfg.Server.Addr
			}

			completer, err := app.completer(ctx)
			if err != nil {
				return err
			}
			if _, source, err := app.keys.Resolve(ctx); err != nil {
				app.log.Warn().Msg("no API key configured; every turn will return the fallback message")
			} else {
				app.log.Info().Str("source", source).Msg("API key found")
			}

			mgr := session.NewManager(completer, session.ManagerConfig{
				IdleTTL:        cfg.IdleTTL(),
				Logger:         app.log,
				SessionOptions: []session.Option{session.WithResolveHook(app.metrics.ObserveTurn)},
			})

			srv := server.New(server.Config{
				Addr:    addr,
				Version: app.Info.Version,
				Logger:  app.log,
			}, mgr, app.metrics, app.reg)
			return srv.Start(ctx)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config, :8080)")
	return cmd
}
