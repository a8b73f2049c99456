// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"
)

func newVersionCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(app.Out, TitleStyle.Render("dailyai "+app.Info.Version))
			fmt.Fprintln(app.Out, RenderLabel("Commit", app.Info.GitCommit))
			fmt.Fprintln(app.Out, RenderLabel("Built", app.Info.BuildDate))
			fmt.Fprintln(app.Out, RenderLabel("Go", runtime.Version()))
			fmt.Fprintln(app.Out, RenderLabel("Platform", runtime.GOOS+"/"+runtime.GOARCH))
		},
	}
}
