package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

// BgStyle renders segments on a shared background. lipgloss resets between
// styled segments, which otherwise leaves unpainted gaps at the spaces.
type BgStyle struct {
	bg    lipgloss.Color
	space string // cached styled space
}

// NewBgStyle creates a background helper for the given color.
func NewBgStyle(bgColor string) BgStyle {
	bg := lipgloss.Color(bgColor)
	return BgStyle{
		bg:    bg,
		space: lipgloss.NewStyle().Background(bg).Render(" "),
	}
}

// Render renders text with style, painting the background under every
// character including spaces.
func (b BgStyle) Render(text string, style lipgloss.Style) string {
	if text == "" {
		return ""
	}
	wordStyle := style.Background(b.bg)
	if !strings.Contains(text, " ") {
		return wordStyle.Render(text)
	}
	words := strings.Split(text, " ")
	for i, w := range words {
		if w != "" {
			words[i] = wordStyle.Render(w)
		}
	}
	return strings.Join(words, b.space)
}

// Space returns a single styled space.
func (b BgStyle) Space() string {
	return b.space
}

// Spaces returns n styled spaces.
func (b BgStyle) Spaces(n int) string {
	return lipgloss.NewStyle().Background(b.bg).Render(strings.Repeat(" ", n))
}

// Join joins parts with a styled separator.
func (b BgStyle) Join(parts []string, sep string) string {
	return strings.Join(parts, lipgloss.NewStyle().Background(b.bg).Render(sep))
}

// FillLine pads rendered content to width with the background color and
// keeps it to one line.
func (b BgStyle) FillLine(content string, width int) string {
	return lipgloss.NewStyle().Background(b.bg).Width(width).MaxHeight(1).Render(content)
}

// spliceOverlay draws overlay lines over view with the top-left corner at
// (x, y). Lines outside the view are dropped.
func spliceOverlay(view string, overlay []string, x, y int) string {
	if len(overlay) == 0 {
		return view
	}
	lines := strings.Split(view, "\n")
	width := ansi.StringWidth(overlay[0])

	for i, over := range overlay {
		row := y + i
		if row < 0 || row >= len(lines) {
			continue
		}
		line := lines[row]
		lineWidth := ansi.StringWidth(line)

		var out strings.Builder
		if x > 0 {
			prefix := ansi.Truncate(line, x, "")
			out.WriteString(prefix)
			if pad := x - ansi.StringWidth(prefix); pad > 0 {
				out.WriteString(strings.Repeat(" ", pad))
			}
		}
		out.WriteString("\x1b[0m")
		out.WriteString(over)
		out.WriteString("\x1b[0m")
		if end := x + width; end < lineWidth {
			out.WriteString(ansi.TruncateLeft(line, end, ""))
		}
		lines[row] = out.String()
	}
	return strings.Join(lines, "\n")
}
