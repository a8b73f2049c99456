// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"errors"

	"github.com/spf13/cobra"
)

// NewRootCommand builds the dailyai command tree over app.
func NewRootCommand(app *App) *cobra.Command {
	var assistantFlag string

	root := &cobra.Command{
		Use:   "dailyai",
		Short: "DailyAI: Your Smart Companion",
		Long: `DailyAI puts four small assistants in your terminal:

  ReDish              recipes from leftover ingredients
  QuickStudy          study notes on any topic
  OneClickMotivation  a quick motivational boost
  CodeDebugger        explanations for broken code

  dailyai                          Open the assistant shell
  dailyai ask quickstudy "osmosis" Ask once and print the answer
  dailyai chat redish              Line-mode chat
  dailyai serve                    Start the HTTP API`,
		Version:       app.Info.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI(cmd.Context(), app, assistantFlag)
		},
	}
	root.SetIn(app.In)
	root.SetOut(app.Out)
	root.SetErr(app.Err)

	root.PersistentFlags().BoolVarP(&app.Verbose, "verbose", "v", false, "debug logging")
	root.Flags().StringVarP(&assistantFlag, "assistant", "a", "", "open directly on an assistant")

	root.AddCommand(
		newTUICommand(app),
		newAskCommand(app),
		newChatCommand(app),
		newServeCommand(app),
		newKeyCommand(app),
		newConfigCommand(app),
		newVersionCommand(app),
	)
	return root
}

// Execute runs the command line and returns the process exit code.
func Execute(info BuildInfo, args []string) int {
	app := NewApp(info)
	defer app.Close()

	root := NewRootCommand(app)
	root.SetArgs(args)
	err := root.Execute()
	if err == nil {
		return ExitSuccess
	}

	// The fallback text has already been printed as the answer.
	var fallback *FallbackError
	if !errors.As(err, &fallback) {
		DisplayError(app.Err, err)
	}
	return GetExitCode(err)
}
