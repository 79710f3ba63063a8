package ui

import (
	"strings"

	"github.com/charmbracelet/x/ansi"
)

// Widths here are terminal cells, not runes; CJK titles take two cells per
// character.

// truncate shortens value to limit cells, ending in "..." when cut.
func truncate(value string, limit int) string {
	value = strings.TrimSpace(value)
	if limit <= 0 || ansi.StringWidth(value) <= limit {
		return value
	}
	if limit <= 3 {
		return ansi.Truncate(value, limit, "")
	}
	return ansi.Truncate(value, limit, "...")
}

// truncateMiddle cuts from the middle so a filename keeps its extension.
func truncateMiddle(value string, limit int) string {
	value = strings.TrimSpace(value)
	width := ansi.StringWidth(value)
	if limit <= 0 || width <= limit {
		return value
	}
	if limit <= 3 {
		return ansi.Truncate(value, limit, "")
	}
	keep := limit - 1 // ellipsis
	head := ansi.Truncate(value, keep/2, "")
	tail := ansi.TruncateLeft(value, width-(keep-keep/2), "")
	return head + "…" + tail
}

// padRight pads s with spaces to width cells.
func padRight(s string, width int) string {
	if pad := width - ansi.StringWidth(s); pad > 0 {
		return s + strings.Repeat(" ", pad)
	}
	return s
}

// fit truncates then pads s to exactly width cells. A wide character that
// would straddle the edge is dropped and replaced by padding.
func fit(s string, width int) string {
	return padRight(truncate(s, width), width)
}
