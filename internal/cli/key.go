// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/peterh/liner"
	"github.com/spf13/cobra"

	"github.com/jeranaias/dailyai/internal/config"
	"github.com/jeranaias/dailyai/internal/credential"
)

func newKeyCommand(app *App) *cobra.Command {
	var useRedis bool

	cmd := &cobra.Command{
		Use:   "key",
		Short: "Manage the stored Gemini API key",
		Long: `Manage the Gemini API key kept in the local store (or Redis with --redis).

The key is looked up before every request in the order set by
credentials.order, so a key set here is used by running sessions too.`,
	}
	cmd.PersistentFlags().BoolVar(&useRedis, "redis", false, "use the Redis store from credentials.redis_url")

	set := &cobra.Command{
		Use:   "set [KEY]",
		Short: "Store the API key (prompted when omitted)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			var key string
			if len(args) == 1 {
				key = args[0]
			} else {
				var err error
				if key, err = app.readSecret("Gemini API key: "); err != nil {
					return err
				}
			}
			key = strings.TrimSpace(key)
			if key == "" {
				return ErrMissingArgument("KEY", "dailyai key set AIza...")
			}

			store, err := app.openStore(ctx, useRedis)
			if err != nil {
				return err
			}
			defer store.Close()

			if err := store.Set(ctx, credential.GeminiKey, key); err != nil {
				return err
			}
			fmt.Fprintln(app.Out, SuccessStyle.Render("Key stored")+" "+DimStyle.Render("("+credential.Fingerprint(key)+")"))
			return nil
		},
	}

	show := &cobra.Command{
		Use:   "show",
		Short: "Show which source supplies the key (never the key itself)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg, err := app.loadConfig()
			if err != nil {
				return err
			}
			chain, stores, err := app.credentialChain(ctx, cfg)
			if err != nil {
				return err
			}
			defer closeAll(stores)

			fmt.Fprintln(app.Out, RenderLabel("Lookup order", strings.Join(chain.Sources(), " → ")))
			key, source, err := chain.Resolve(ctx)
			if err != nil {
				fmt.Fprintln(app.Out, RenderLabel("Key", WarningStyle.Render("not configured")))
				return nil
			}
			fmt.Fprintln(app.Out, RenderLabel("Source", source))
			fmt.Fprintln(app.Out, RenderLabel("Key", credential.Masked(key)))
			return nil
		},
	}

	del := &cobra.Command{
		Use:   "delete",
		Short: "Remove the stored key",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			store, err := app.openStore(ctx, useRedis)
			if err != nil {
				return err
			}
			defer store.Close()

			if err := store.Delete(ctx, credential.GeminiKey); err != nil {
				if errors.Is(err, credential.ErrNotFound) {
					return fmt.Errorf("no stored key: %w", err)
				}
				return err
			}
			fmt.Fprintln(app.Out, SuccessStyle.Render("Key deleted"))
			return nil
		},
	}

	cmd.AddCommand(set, show, del)
	return cmd
}

// openStore opens the local store, or the Redis store when useRedis is set.
func (a *App) openStore(ctx context.Context, useRedis bool) (credential.Store, error) {
	cfg, err := a.loadConfig()
	if err != nil {
		return nil, err
	}
	if useRedis {
		if cfg.Credentials.RedisURL == "" {
			return nil, config.ValidationError{Field: "credentials.redis_url", Message: "not set"}
		}
		rctx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		return credential.OpenRedis(rctx, cfg.Credentials.RedisURL)
	}
	path, err := cfg.StorePath()
	if err != nil {
		return nil, err
	}
	return credential.OpenSQLite(path)
}

// readSecret prompts without echo on a terminal, and reads one line
// otherwise.
func (a *App) readSecret(prompt string) (string, error) {
	if isTerminalReader(a.In) {
		line := liner.NewLiner()
		defer line.Close()
		return line.PasswordPrompt(prompt)
	}
	s, err := bufio.NewReader(a.In).ReadString('\n')
	if err != nil && s == "" {
		return "", ErrMissingArgument("KEY", "echo $KEY | dailyai key set")
	}
	return s, nil
}
