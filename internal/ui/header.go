package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/five82/downlink/internal/daemon"
	"github.com/five82/downlink/internal/metrics"
	"github.com/five82/downlink/internal/state"
)

// renderHeader renders the status bar: daemon reachability, active task
// count, aggregate speed and problem counts.
func (m Model) renderHeader(snap state.Snapshot) string {
	styles := m.theme.Styles().WithBackground(m.theme.Surface)
	bg := NewBgStyle(m.theme.Surface)
	compact := m.width < 100

	parts := []string{bg.Render("downlink", styles.Logo)}

	if snap.IsOffline() {
		parts = append(parts,
			bg.Render("● "+classifyConnectionError(snap.LastError), styles.DangerText),
			bg.Render("Retrying...", styles.WarningText.Bold(true)),
		)
	} else {
		parts = append(parts, bg.Render("● ON", styles.SuccessText))
	}

	active := metrics.CountNonTerminal(snap)
	activeStyle := styles.MutedText
	if active > 0 {
		activeStyle = styles.AccentText.Bold(true)
	}
	parts = append(parts,
		bg.Render("Active:", styles.MutedText)+bg.Space()+
			bg.Render(fmt.Sprintf("%d", active), activeStyle),
		bg.Render("Speed:", styles.MutedText)+bg.Space()+
			bg.Render(metrics.FormatRate(metrics.TotalRate(snap)), styles.Text),
	)

	counts := metrics.CountByState(snap)
	failedStyle := styles.MutedText
	if counts[daemon.StateFailed] > 0 {
		failedStyle = styles.DangerText
	}
	doneStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(m.theme.Success))
	if compact {
		parts = append(parts,
			bg.Render("F:", styles.MutedText)+bg.Space()+bg.Render(fmt.Sprintf("%d", counts[daemon.StateFailed]), failedStyle)+
				bg.Spaces(2)+bg.Render("D:", styles.MutedText)+bg.Space()+bg.Render(fmt.Sprintf("%d", counts[daemon.StateCompleted]), doneStyle),
		)
	} else {
		parts = append(parts,
			bg.Render("Failed:", styles.MutedText)+bg.Space()+bg.Render(fmt.Sprintf("%d", counts[daemon.StateFailed]), failedStyle)+
				bg.Spaces(2)+bg.Render("•", styles.FaintText)+bg.Spaces(2)+
				bg.Render("Done:", styles.MutedText)+bg.Space()+bg.Render(fmt.Sprintf("%d", counts[daemon.StateCompleted]), doneStyle),
		)
	}

	if n := m.selection.Len(); n > 0 {
		parts = append(parts,
			bg.Render("Selected:", styles.MutedText)+bg.Space()+
				bg.Render(fmt.Sprintf("%d", n), styles.WarningText))
	}

	if ts := formatTimestamp(snap.LastUpdated); ts != "" && !compact {
		parts = append(parts, bg.Render(ts, styles.MutedText))
	}

	if snap.LastError != nil && !snap.IsOffline() {
		maxErr := 60
		if compact {
			maxErr = 30
		}
		parts = append(parts,
			bg.Render("ERROR", styles.DangerText)+bg.Space()+
				bg.Render(truncate(snap.LastError.Error(), maxErr), styles.DangerText))
	}

	return styles.Header.Width(m.width).MaxHeight(1).Render(bg.Join(parts, "  "))
}

// formatTimestamp formats the last update time with a relative hint.
func formatTimestamp(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	if time.Since(t) < time.Minute {
		return t.Format("15:04:05") + " (now)"
	}
	return t.Format("15:04:05") + " (" + humanize.Time(t) + ")"
}

// classifyConnectionError returns a short description of the connection error.
func classifyConnectionError(err error) string {
	if err == nil {
		return "OFFLINE"
	}
	msg := err.Error()
	switch {
	case strings.Contains(msg, "connection refused"):
		return "OFFLINE"
	case strings.Contains(msg, "no such host"):
		return "HOST NOT FOUND"
	case strings.Contains(msg, "timeout"):
		return "TIMEOUT"
	case strings.Contains(msg, "closed by daemon"):
		return "DISCONNECTED"
	default:
		return "ERROR"
	}
}

// renderCommandBar shows the filter input while typing, otherwise the row
// count, active filter and the outcome of the last command.
func (m Model) renderCommandBar(shown, total int) string {
	styles := m.theme.Styles().WithBackground(m.theme.Surface)
	bg := NewBgStyle(m.theme.Surface)

	if m.filtering {
		return bg.FillLine(m.filterInput.View(), m.width)
	}

	parts := []string{
		bg.Render("Tasks:", styles.MutedText) + bg.Space() +
			bg.Render(fmt.Sprintf("%d/%d", shown, total), styles.Text),
	}
	if m.filter != "" {
		parts = append(parts,
			bg.Render("Filter:", styles.MutedText)+bg.Space()+
				bg.Render(truncate(m.filter, 30), styles.AccentText))
	}
	if m.hideCompleted {
		parts = append(parts, bg.Render("completed hidden", styles.FaintText))
	}
	if m.notice != "" {
		style := styles.SuccessText
		if m.noticeErr {
			style = styles.DangerText
		}
		parts = append(parts, bg.Render(truncate(m.notice, 60), style))
	}
	return bg.FillLine(" "+bg.Join(parts, "  "), m.width)
}

// renderFooter renders the short key help.
func (m Model) renderFooter() string {
	styles := m.theme.Styles()
	return styles.Footer.Width(m.width).MaxHeight(1).Render(m.help.ShortHelpView(m.keys.ShortHelp()))
}
