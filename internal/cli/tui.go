// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/jeranaias/dailyai/internal/assistant"
	"github.com/jeranaias/dailyai/internal/config"
	"github.com/jeranaias/dailyai/internal/export"
	"github.com/jeranaias/dailyai/internal/gemini"
	"github.com/jeranaias/dailyai/internal/session"
	"github.com/jeranaias/dailyai/internal/ui/chat"
	"github.com/jeranaias/dailyai/internal/ui/shell"
)

func newTUICommand(app *App) *cobra.Command {
	var assistantFlag string
	cmd := &cobra.Command{
		Use:   "tui",
		Short: "Open the assistant shell",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI(cmd.Context(), app, assistantFlag)
		},
	}
	cmd.Flags().StringVarP(&assistantFlag, "assistant", "a", "", "open directly on an assistant")
	return cmd
}

// runTUI runs the full-screen shell until the user quits.
func runTUI(ctx context.Context, app *App, start string) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	cfg, err := app.loadConfig()
	if err != nil {
		return err
	}
	app.logToFile()

	completer, err := app.completer(ctx)
	if err != nil {
		return err
	}

	profiles := assistant.All()
	sessions := make([]*session.Session, len(profiles))
	for i, p := range profiles {
		sessions[i] = session.New(p, completer,
			session.WithLogger(app.log),
			session.WithResolveHook(app.metrics.ObserveTurn),
		)
	}

	m := shell.New(sessions,
		chat.WithContext(ctx),
		chat.WithCompact(cfg.UI.Compact),
		chat.WithModelName(gemini.ResolveModel(cfg.Gemini.Model)),
		chat.WithExportOptions(export.DefaultOptions()),
		chat.WithUsage(app.metrics.Usage()),
	)

	if start == "" {
		start = cfg.UI.DefaultAssistant
	}
	if start != "" {
		if err := m.Navigate(start); err != nil {
			return err
		}
	}

	app.watchConfig(ctx)

	app.log.Info().Str("path", m.Path()).Msg("tui started")
	if _, err := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx)).Run(); err != nil {
		return fmt.Errorf("running TUI: %w", err)
	}
	return nil
}

// watchConfig rebuilds the credential chain whenever the config file
// changes, so a key added to the file is used by the next turn. Other
// settings take effect on the next start.
func (a *App) watchConfig(ctx context.Context) {
	if err := config.EnsureConfigDir(); err != nil {
		a.log.Warn().Err(err).Msg("config watch disabled")
		return
	}
	path, err := config.ConfigPathTOML()
	if err != nil {
		a.log.Warn().Err(err).Msg("config watch disabled")
		return
	}

	err = config.Watch(ctx, path, config.DefaultWatchDebounce, func(cfg *config.Config, err error) {
		if err != nil {
			a.log.Warn().Err(err).Msg("config reload failed; keeping current settings")
			return
		}
		chain, stores, err := a.credentialChain(ctx, cfg)
		if err != nil {
			a.log.Warn().Err(err).Msg("credential order rejected on reload")
			return
		}
		if err := a.keys.set(chain, stores); err != nil {
			a.log.Warn().Err(err).Msg("closing previous key stores")
		}
		config.SetGlobal(cfg)
		a.log.Info().Strs("sources", chain.Sources()).Msg("config reloaded")
	})
	if err != nil {
		a.log.Warn().Err(err).Msg("config watch disabled")
	}
}
