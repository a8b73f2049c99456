// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"

	"github.com/jeranaias/dailyai/internal/assistant"
	"github.com/jeranaias/dailyai/internal/logging"
	"github.com/jeranaias/dailyai/internal/markup"
	"github.com/jeranaias/dailyai/internal/session"
)

// maxStdinInput caps text piped into ask.
const maxStdinInput = 1 << 20

func newAskCommand(app *App) *cobra.Command {
	var (
		raw      bool
		markdown bool
		asJSON   bool
	)
	cmd := &cobra.Command{
		Use:   "ask ASSISTANT [TEXT...]",
		Short: "Ask an assistant once and print the answer",
		Long: `Run one turn against an assistant and print the answer.

With no TEXT, the input is read from stdin, which suits CodeDebugger:

  dailyai ask codedebugger < broken.py

On a terminal, **bold** markers are shown as bold and everything else is
printed as written. --markdown renders the answer as full markdown
(headings, lists, code) instead; --raw prints it untouched.`,
		Args:      cobra.MinimumNArgs(1),
		ValidArgs: assistant.Slugs(),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := assistant.Lookup(args[0])
			if err != nil {
				return err
			}
			text := strings.Join(args[1:], " ")
			if text == "" && !isTerminalReader(app.In) {
				data, err := io.ReadAll(io.LimitReader(app.In, maxStdinInput))
				if err != nil {
					return fmt.Errorf("reading stdin: %w", err)
				}
				text = string(data)
			}
			return runAsk(cmd.Context(), app, p, text, replyStyleFor(raw, markdown), asJSON)
		},
	}
	cmd.Flags().BoolVar(&raw, "raw", false, "print the answer exactly as received")
	cmd.Flags().BoolVar(&markdown, "markdown", false, "render the answer as full markdown")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the session state as JSON")
	cmd.MarkFlagsMutuallyExclusive("raw", "markdown")
	return cmd
}

// runAsk runs one templated turn.
func runAsk(ctx context.Context, app *App, p assistant.Profile, text string, style replyStyle, asJSON bool) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	if _, err := app.loadConfig(); err != nil {
		return err
	}
	app.logToStderr()
	defer logging.TraceDuration(app.log, "ask")()

	completer, err := app.completer(ctx)
	if err != nil {
		return err
	}
	sess := session.New(p, completer,
		session.WithLogger(app.log),
		session.WithResolveHook(app.metrics.ObserveTurn),
	)

	res, err := sess.Exchange(ctx, text)
	if errors.Is(err, session.ErrEmptyInput) {
		return NewValidationError("input", "", p.EmptyInputNotice)
	}
	if err != nil {
		return err
	}

	if asJSON {
		enc := json.NewEncoder(app.Out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(sess.Snapshot()); err != nil {
			return err
		}
	} else {
		printReply(app.Out, res.Reply(), style)
	}

	if !res.OK() {
		app.log.Debug().Err(res.Err).Msg("turn ended in fallback")
		return &FallbackError{Cause: res.Err}
	}
	return nil
}

// =============================================================================
// REPLY RENDERING
// =============================================================================

// replyStyle selects how an answer is printed on a terminal.
type replyStyle int

const (
	// replyBold shows **marked** spans as bold and leaves the rest literal,
	// the same rule the chat bubbles use.
	replyBold replyStyle = iota
	// replyMarkdown renders full markdown through glamour.
	replyMarkdown
	// replyRaw prints the answer untouched.
	replyRaw
)

func replyStyleFor(raw, markdown bool) replyStyle {
	switch {
	case raw:
		return replyRaw
	case markdown:
		return replyMarkdown
	default:
		return replyBold
	}
}

// printReply writes an answer. Piped output always gets the text unchanged.
// USABILITY: Only render when stdout is a TTY to avoid corrupting pipes.
func printReply(w io.Writer, reply string, style replyStyle) {
	if style == replyRaw || !isTerminalWriter(w) {
		fmt.Fprintln(w, reply)
		return
	}
	if style == replyMarkdown {
		fmt.Fprint(w, renderMarkdown(reply, GetTerminalWidth()))
		return
	}
	fmt.Fprintln(w, renderBold(reply, func(s string) string { return BoldStyle.Render(s) }))
}

// renderBold applies the bold-marker rule line by line. Unpaired markers
// and all other markdown stay literal.
func renderBold(reply string, bold func(string) string) string {
	lines := markup.Format(reply)
	out := make([]string, len(lines))
	for i, l := range lines {
		out[i] = l.Render(bold)
	}
	return strings.Join(out, "\n")
}

// renderMarkdown renders markdown for the terminal, returning the input
// unchanged if glamour fails.
func renderMarkdown(content string, width int) string {
	if width > 100 {
		width = 100
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width-4),
	)
	if err != nil {
		return content + "\n"
	}
	out, err := r.Render(content)
	if err != nil {
		return content + "\n"
	}
	return out
}
