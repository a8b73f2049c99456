// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/spf13/cobra"

	"github.com/jeranaias/dailyai/internal/config"
)

func newConfigCommand(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show and edit the configuration",
	}

	var asJSON bool
	show := &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration (secrets redacted)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := app.loadConfig()
			if err != nil {
				return err
			}
			if asJSON {
				fmt.Fprintln(app.Out, cfg.String())
				return nil
			}
			return toml.NewEncoder(app.Out).Encode(cfg.Redacted())
		},
	}
	show.Flags().BoolVar(&asJSON, "json", false, "print as JSON")

	path := &cobra.Command{
		Use:   "path",
		Short: "Print the config file path",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := config.ConfigPathTOML()
			if err != nil {
				return err
			}
			fmt.Fprintln(app.Out, p)
			return nil
		},
	}

	var force bool
	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Write a default config file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := config.ConfigPathTOML()
			if err != nil {
				return err
			}
			if _, err := os.Stat(p); err == nil && !force {
				return fmt.Errorf("%s already exists (use --force to overwrite)", p)
			} else if err != nil && !errors.Is(err, fs.ErrNotExist) {
				return err
			}
			if err := config.EnsureConfigDir(); err != nil {
				return err
			}
			if err := config.SaveTOML(config.Default(), p); err != nil {
				return err
			}
			fmt.Fprintln(app.Out, SuccessStyle.Render("Wrote "+p))
			return nil
		},
	}
	initCmd.Flags().BoolVar(&force, "force", false, "overwrite an existing file")

	get := &cobra.Command{
		Use:       "get KEY",
		Short:     "Print one setting (dot notation, e.g. gemini.model)",
		Args:      cobra.ExactArgs(1),
		ValidArgs: config.GetAllKeys(),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := app.loadConfig()
			if err != nil {
				return err
			}
			v, err := cfg.Get(args[0])
			if err != nil {
				return NewValidationError("key", args[0], err.Error())
			}
			if config.IsSecretKey(args[0]) {
				if s, _ := v.(string); s != "" {
					v = "[REDACTED]"
				}
			}
			if list, ok := v.([]string); ok {
				v = strings.Join(list, ",")
			}
			fmt.Fprintln(app.Out, v)
			return nil
		},
	}

	set := &cobra.Command{
		Use:   "set KEY VALUE",
		Short: "Change one setting and save the file",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := app.loadConfig()
			if err != nil {
				return err
			}
			updated := cfg.Clone()
			if err := updated.Set(args[0], args[1]); err != nil {
				return NewValidationError("key", args[0], err.Error())
			}
			if err := updated.Validate(); err != nil {
				return err
			}
			if err := config.EnsureConfigDir(); err != nil {
				return err
			}
			if err := config.Save(updated); err != nil {
				return err
			}
			app.cfg = updated
			config.SetGlobal(updated)

			shown := args[1]
			if config.IsSecretKey(args[0]) {
				shown = "[REDACTED]"
			}
			fmt.Fprintln(app.Out, SuccessStyle.Render("Set")+" "+args[0]+" = "+shown)
			return nil
		},
	}

	cmd.AddCommand(show, path, initCmd, get, set)
	return cmd
}
