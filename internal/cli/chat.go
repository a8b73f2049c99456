// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/peterh/liner"
	"github.com/spf13/cobra"

	"github.com/jeranaias/dailyai/internal/assistant"
	"github.com/jeranaias/dailyai/internal/config"
	"github.com/jeranaias/dailyai/internal/export"
	"github.com/jeranaias/dailyai/internal/gemini"
	"github.com/jeranaias/dailyai/internal/session"
)

// historyFile is the chat input history under the data directory.
const historyFile = "chat_history"

func newChatCommand(app *App) *cobra.Command {
	var raw, markdown bool
	cmd := &cobra.Command{
		Use:       "chat ASSISTANT",
		Short:     "Chat with an assistant in line mode",
		Args:      cobra.ExactArgs(1),
		ValidArgs: assistant.Slugs(),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := assistant.Lookup(args[0])
			if err != nil {
				return err
			}
			return runChat(cmd.Context(), app, p, replyStyleFor(raw, markdown))
		},
	}
	cmd.Flags().BoolVar(&raw, "raw", false, "print answers exactly as received")
	cmd.Flags().BoolVar(&markdown, "markdown", false, "render answers as full markdown")
	cmd.MarkFlagsMutuallyExclusive("raw", "markdown")
	return cmd
}

// =============================================================================
// INPUT HISTORY
// =============================================================================

// prompter reads one line of input.
type prompter interface {
	Prompt(prompt string) (string, error)
}

// lineEditor provides input history and line editing.
// USABILITY: Supports arrow keys for history navigation and line editing.
type lineEditor struct {
	line *liner.State
	path string
}

func newLineEditor() *lineEditor {
	line := liner.NewLiner()
	line.SetCtrlCAborts(true)

	e := &lineEditor{line: line}
	if path, err := config.DataPath(historyFile); err == nil {
		e.path = path
		if f, err := os.Open(path); err == nil {
			_, _ = line.ReadHistory(f)
			f.Close()
		}
	}
	return e
}

// Prompt reads a line and records non-empty input in the history.
func (e *lineEditor) Prompt(prompt string) (string, error) {
	input, err := e.line.Prompt(prompt)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(input) != "" {
		e.line.AppendHistory(input)
	}
	return input, nil
}

// Close saves the history with 0600 permissions and restores the terminal.
func (e *lineEditor) Close() {
	if e.path != "" && config.EnsureConfigDir() == nil {
		if f, err := os.OpenFile(e.path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600); err == nil {
			_, _ = e.line.WriteHistory(f)
			f.Close()
		}
	}
	e.line.Close()
}

// =============================================================================
// REPL
// =============================================================================

func runChat(ctx context.Context, app *App, p assistant.Profile, style replyStyle) error {
	cfg, err := app.loadConfig()
	if err != nil {
		return err
	}
	app.logToStderr()

	completer, err := app.completer(ctx)
	if err != nil {
		return err
	}
	sess := session.New(p, completer,
		session.WithLogger(app.log),
		session.WithResolveHook(app.metrics.ObserveTurn),
	)

	editor := newLineEditor()
	defer editor.Close()

	r := &repl{
		out:       app.Out,
		session:   sess,
		style:     style,
		modelName: gemini.ResolveModel(cfg.Gemini.Model),
		exportOpt: export.DefaultOptions(),
	}
	return r.run(ctx, editor)
}

// repl drives one session from line input.
type repl struct {
	out       io.Writer
	session   *session.Session
	style     replyStyle
	modelName string
	exportOpt *export.Options
}

func (r *repl) run(ctx context.Context, in prompter) error {
	p := r.session.Profile()
	fmt.Fprintln(r.out, TitleStyle.Render(p.Name))
	fmt.Fprintln(r.out, DimStyle.Render(p.Subtitle))
	fmt.Fprintln(r.out, DimStyle.Render("/new starts over · /export [md|json|txt|html] saves · /quit exits"))
	fmt.Fprintln(r.out)

	for {
		fmt.Fprintln(r.out, DimStyle.Render(p.PlaceholderFor(len(r.session.Snapshot().Transcript))))
		input, err := in.Prompt(p.Slug + "> ")
		if err != nil {
			// Ctrl+C, Ctrl+D or closed input all end the chat.
			fmt.Fprintln(r.out)
			return nil
		}

		input = strings.TrimSpace(input)
		if strings.HasPrefix(input, "/") {
			if !r.command(input) {
				return nil
			}
			continue
		}

		res, err := r.session.Exchange(ctx, input)
		switch {
		case errors.Is(err, session.ErrEmptyInput):
			fmt.Fprintln(r.out, WarningStyle.Render(p.EmptyInputNotice))
			continue
		case errors.Is(err, session.ErrDiscarded):
			continue
		case err != nil:
			DisplayError(r.out, err)
			continue
		}

		fmt.Fprintln(r.out)
		printReply(r.out, res.Reply(), r.style)
		fmt.Fprintln(r.out)
		if ctx.Err() != nil {
			return ctx.Err()
		}
	}
}

// command handles a slash command and reports whether to keep going.
func (r *repl) command(input string) bool {
	fields := strings.Fields(input)
	switch strings.ToLower(fields[0]) {
	case "/quit", "/exit", "/q":
		return false

	case "/new", "/reset":
		r.session.Reset()
		fmt.Fprintln(r.out, SuccessStyle.Render("Started a new chat."))

	case "/export":
		format := ""
		if len(fields) > 1 {
			format = fields[1]
		}
		path, err := r.export(format)
		if err != nil {
			DisplayError(r.out, err)
			break
		}
		fmt.Fprintln(r.out, SuccessStyle.Render("Exported to "+path))

	case "/help":
		fmt.Fprintln(r.out, DimStyle.Render("/new · /export [md|json|txt|html] · /quit"))

	default:
		DisplayError(r.out, NewValidationError("command", fields[0], "unknown command"))
	}
	return true
}

func (r *repl) export(format string) (string, error) {
	exporter, err := export.ByFormat(format, r.exportOpt)
	if err != nil {
		return "", err
	}
	conv := export.FromState(r.session.Profile(), r.session.Snapshot(), r.modelName)
	return export.ExportToFile(conv, exporter, r.exportOpt)
}
