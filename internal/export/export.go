// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package export

import (
	"errors"
	"fmt"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/jeranaias/dailyai/internal/assistant"
	"github.com/jeranaias/dailyai/internal/config"
	"github.com/jeranaias/dailyai/internal/model"
	"github.com/jeranaias/dailyai/internal/session"
	"github.com/jeranaias/dailyai/internal/ui/styles"
	"github.com/jeranaias/dailyai/internal/util"
)

// ErrEmpty indicates an export of a transcript with no messages.
var ErrEmpty = errors.New("conversation has no messages")

// =============================================================================
// CONVERSATION
// =============================================================================

// Conversation is what every exporter renders.
type Conversation struct {
	SessionID  string          `json:"session_id,omitempty"`
	Assistant  string          `json:"assistant"`
	Name       string          `json:"name"`
	Model      string          `json:"model,omitempty"`
	StartedAt  time.Time       `json:"started_at"`
	ExportedAt time.Time       `json:"exported_at"`
	Messages   []model.Message `json:"messages"`

	// Theme colors the HTML export like the assistant's own page.
	Theme styles.Tokens `json:"-"`
}

// FromState builds a Conversation from a session snapshot.
func FromState(p assistant.Profile, st session.State, modelName string) *Conversation {
	conv := &Conversation{
		SessionID:  st.ID,
		Assistant:  p.Slug,
		Name:       p.Name,
		Model:      modelName,
		ExportedAt: time.Now(),
		Messages:   st.Transcript,
		Theme:      p.Theme,
	}
	if len(st.Transcript) > 0 {
		conv.StartedAt = st.Transcript[0].Timestamp
	}
	if conv.StartedAt.IsZero() {
		conv.StartedAt = conv.ExportedAt
	}
	return conv
}

func (c *Conversation) validate() error {
	if c == nil {
		return fmt.Errorf("conversation is nil")
	}
	if len(c.Messages) == 0 {
		return ErrEmpty
	}
	return nil
}

// =============================================================================
// EXPORT INTERFACE
// =============================================================================

// Exporter defines the interface for conversation exporters.
type Exporter interface {
	// Export converts a conversation to the target format and returns the content.
	Export(conv *Conversation) ([]byte, error)

	// FileExtension returns the appropriate file extension (e.g., ".md", ".html").
	FileExtension() string

	// MimeType returns the MIME type for the exported format.
	MimeType() string
}

// Formats lists the names ByFormat accepts.
var Formats = []string{"markdown", "json", "text", "html"}

// ByFormat returns the exporter for a format name or extension.
func ByFormat(name string, opts *Options) (Exporter, error) {
	switch strings.TrimPrefix(strings.ToLower(strings.TrimSpace(name)), ".") {
	case "", "md", "markdown":
		return NewMarkdownExporter(opts), nil
	case "json":
		return NewJSONExporter(opts), nil
	case "txt", "text":
		return NewTextExporter(opts), nil
	case "html", "htm":
		return NewHTMLExporter(opts), nil
	default:
		return nil, fmt.Errorf("unknown export format %q (want one of %s)", name, strings.Join(Formats, ", "))
	}
}

// =============================================================================
// EXPORT OPTIONS
// =============================================================================

// Options configures export behavior.
type Options struct {
	// OutputDir is the directory where files will be saved.
	// Default: ~/.dailyai/exports
	OutputDir string

	// OpenAfterExport opens the file in the default application.
	OpenAfterExport bool

	// IncludeTimestamps includes per-message timestamps.
	IncludeTimestamps bool
}

// DefaultOptions returns default export options.
func DefaultOptions() *Options {
	dir, err := config.DataPath("exports")
	if err != nil {
		dir = "."
	}
	return &Options{
		OutputDir:         dir,
		IncludeTimestamps: true,
	}
}

// =============================================================================
// EXPORT FUNCTIONS
// =============================================================================

// ExportToFile exports a conversation to a file using the specified exporter.
// Returns the output file path or an error.
// SECURITY: Exports hold the user's prompts, so they are written 0600.
// RELIABILITY: Atomic write with fsync, so a crash never leaves half a file.
func ExportToFile(conv *Conversation, exporter Exporter, opts *Options) (string, error) {
	if opts == nil {
		opts = DefaultOptions()
	}
	if opts.OutputDir == "" {
		opts.OutputDir = DefaultOptions().OutputDir
	}

	content, err := exporter.Export(conv)
	if err != nil {
		return "", fmt.Errorf("export failed: %w", err)
	}

	filename := Filename(conv, exporter.FileExtension())
	outputPath := filepath.Join(opts.OutputDir, filename)
	if err := util.AtomicWriteFile(outputPath, content, 0600); err != nil {
		return "", fmt.Errorf("write file: %w", err)
	}

	if opts.OpenAfterExport {
		if err := openFile(outputPath); err != nil {
			// Non-fatal - file was still created successfully
			return outputPath, fmt.Errorf("exported to %s but could not open it: %w", outputPath, err)
		}
	}
	return outputPath, nil
}

// Filename returns "<slug>-<timestamp><ext>".
func Filename(conv *Conversation, ext string) string {
	return fmt.Sprintf("%s-%s%s",
		sanitizeFilename(conv.Assistant),
		conv.ExportedAt.Format("20060102-150405"),
		ext,
	)
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

// sanitizeFilename removes or replaces characters that are invalid in filenames.
func sanitizeFilename(s string) string {
	const maxLen = 50
	runes := []rune(s)
	if len(runes) > maxLen {
		runes = runes[:maxLen]
	}

	result := make([]rune, 0, len(runes))
	for _, r := range runes {
		switch {
		case strings.ContainsRune(`/\:*?"<>|`, r):
			result = append(result, '-')
		case r == ' ' || r == '\t' || r == '\n' || r == '\r':
			result = append(result, '_')
		case r < 32 || r == 127:
			result = append(result, '-')
		default:
			result = append(result, r)
		}
	}

	if len(result) == 0 {
		return "conversation"
	}
	return string(result)
}

// openFile opens a file in the default application for the OS.
func openFile(path string) error {
	var cmd *exec.Cmd

	switch runtime.GOOS {
	case "windows":
		cmd = exec.Command("cmd", "/c", "start", `""`, path)
	case "darwin":
		cmd = exec.Command("open", path)
	case "linux":
		cmd = exec.Command("xdg-open", path)
	default:
		return fmt.Errorf("unsupported platform: %s", runtime.GOOS)
	}
	return cmd.Start()
}

// formatTimestamp formats a timestamp for display.
func formatTimestamp(t time.Time) string {
	return t.Format("2006-01-02 15:04:05")
}

// formatShortTimestamp formats a timestamp for inline display.
func formatShortTimestamp(t time.Time) string {
	return t.Format("15:04:05")
}
