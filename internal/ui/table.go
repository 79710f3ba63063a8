package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/five82/downlink/internal/daemon"
	"github.com/five82/downlink/internal/metrics"
	"github.com/five82/downlink/internal/state"
)

// Fixed column widths; the title column takes the rest.
const (
	colMarker   = 2
	colState    = 12
	colProgress = 30
	colRate     = 12
	colMinTitle = 16
)

// renderTable renders the column headings and one line per visible task.
// Line i of the list area is rows[offset+i], which rowAt relies on.
func (m Model) renderTable(rows []state.Record) string {
	styles := m.theme.Styles()
	titleWidth := m.width - colMarker - colState - colProgress - colRate - 4
	if titleWidth < colMinTitle {
		titleWidth = colMinTitle
	}

	var b strings.Builder
	heading := strings.Repeat(" ", colMarker) +
		fit("Title", titleWidth) + " " +
		fit("State", colState) + " " +
		fit("Progress", colProgress) + " " +
		fit("Speed", colRate)
	if m.width > 0 {
		heading = ansi.Truncate(heading, m.width, "")
	}
	b.WriteString(styles.MutedText.Bold(true).Render(heading))

	height := m.listHeight()
	if len(rows) == 0 {
		b.WriteString("\n")
		msg := "No download tasks"
		if m.activeQuery() != "" {
			msg = "No tasks match the filter"
		}
		b.WriteString(styles.FaintText.Render("  " + msg))
		height--
		for i := 0; i < height; i++ {
			b.WriteString("\n")
		}
		return b.String()
	}

	end := m.offset + height
	if end > len(rows) {
		end = len(rows)
	}
	for i := m.offset; i < end; i++ {
		b.WriteString("\n")
		b.WriteString(m.renderRow(rows[i], i, titleWidth, styles))
	}
	for i := end - m.offset; i < height; i++ {
		b.WriteString("\n")
	}
	return b.String()
}

func (m Model) renderRow(r state.Record, idx, titleWidth int, styles Styles) string {
	selected := m.selection.Contains(r.Key)

	marker := "  "
	if selected {
		marker = "▌ "
	}

	title := r.Title
	if title == "" {
		// Keep the extension visible on long filenames.
		title = truncateMiddle(r.Filename, titleWidth)
	}
	if r.Collection != "" && r.Collection != title {
		title = r.Collection + " / " + title
	}
	if title == "" {
		title = r.Key
	}

	prefix := marker + fit(title, titleWidth) + " "
	stateCell := fit(stateLabel(r), colState)
	suffix := " " + fit(progressLabel(r), colProgress) + " " + fit(rateLabel(r), colRate)

	var line string
	switch {
	case selected:
		line = styles.Selected.Render(padRight(prefix+stateCell+suffix, m.width))
	case idx == m.cursor:
		line = styles.Cursor.Render(padRight(prefix+stateCell+suffix, m.width))
	default:
		// Color only the state cell so the row stays readable.
		text := lipgloss.NewStyle().Foreground(lipgloss.Color(m.theme.Text))
		stateStyle := styles.StatusStyle(r.State)
		if idx%2 == 1 {
			bg := lipgloss.Color(m.theme.SurfaceAlt)
			text = text.Background(bg)
			stateStyle = stateStyle.Background(bg)
			if pad := m.width - ansi.StringWidth(prefix+stateCell+suffix); pad > 0 {
				suffix += strings.Repeat(" ", pad)
			}
		}
		line = text.Render(prefix) + stateStyle.Render(stateCell) + text.Render(suffix)
	}
	// A wrapped row would shift every row below it off its mouse target.
	if m.width > 0 {
		line = ansi.Truncate(line, m.width, "")
	}
	return line
}

// stateLabel refines the state with the daemon's transient sub-states.
func stateLabel(r state.Record) string {
	switch {
	case r.Preparing:
		return "Preparing"
	case r.SleepRemaining > 0:
		return fmt.Sprintf("Waiting %ds", r.SleepRemaining)
	}
	return string(r.State)
}

func progressLabel(r state.Record) string {
	if r.BytesTotal <= 0 {
		if r.BytesDone > 0 {
			return metrics.FormatSize(r.BytesDone)
		}
		return "-"
	}
	return metrics.FormatProgress(r.BytesDone, r.BytesTotal)
}

func rateLabel(r state.Record) string {
	if r.State != daemon.StateDownloading {
		return ""
	}
	return metrics.FormatRate(r.Rate)
}
