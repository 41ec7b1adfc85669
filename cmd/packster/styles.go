// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"io"

	"github.com/charmbracelet/lipgloss"
)

// Color palette shared by every command output.
const (
	// ColorPrimary is used for titles.
	ColorPrimary = lipgloss.Color("#7C3AED")
	// ColorMuted is used for secondary text.
	ColorMuted = lipgloss.Color("#6B7280")
	// ColorSuccess is used for completed operations.
	ColorSuccess = lipgloss.Color("#10B981")
	// ColorError is used for failures.
	ColorError = lipgloss.Color("#EF4444")
	// ColorHighlight is used for identifiers, checksums and paths.
	ColorHighlight = lipgloss.Color("#3B82F6")
)

var (
	// TitleStyle is for headers.
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorPrimary)

	// SubtitleStyle is for secondary text and empty states.
	SubtitleStyle = lipgloss.NewStyle().
			Foreground(ColorMuted)

	// SuccessStyle is for success messages.
	SuccessStyle = lipgloss.NewStyle().
			Foreground(ColorSuccess)

	// ErrorStyle is for the error label.
	ErrorStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorError)

	// ValueStyle is for identifiers, checksums and paths inside messages.
	ValueStyle = lipgloss.NewStyle().
			Foreground(ColorHighlight)
)

// outputStyles are the styles bound to one writer: colors are only emitted
// when that writer is a terminal.
type outputStyles struct {
	success  lipgloss.Style
	subtitle lipgloss.Style
	value    lipgloss.Style
	errLabel lipgloss.Style
}

func newOutputStyles(w io.Writer) outputStyles {
	r := lipgloss.NewRenderer(w)
	return outputStyles{
		success:  SuccessStyle.Renderer(r),
		subtitle: SubtitleStyle.Renderer(r),
		value:    ValueStyle.Renderer(r),
		errLabel: ErrorStyle.Renderer(r),
	}
}
