package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/five82/downlink/internal/logtail"
)

// openLog snapshots the tail of downlink's log file. The view is static
// until reopened.
func (m *Model) openLog() {
	m.showLog = true
	m.logLines, m.logErr = logtail.Tail(m.logPath, m.logHeight())
}

// logHeight leaves room for the title and the close hint.
func (m Model) logHeight() int {
	if h := m.height - 2; h > 0 {
		return h
	}
	return 1
}

func (m Model) renderLog() string {
	styles := m.theme.Styles()

	title := "Log"
	if m.logPath != "" {
		title += "  " + m.logPath
	}

	var b strings.Builder
	b.WriteString(styles.Header.Width(m.width).MaxHeight(1).Render(truncate(title, m.width)))
	b.WriteString("\n")

	var body []string
	switch {
	case m.logPath == "":
		body = []string{styles.FaintText.Render("Logging to stderr; no log file")}
	case m.logErr != nil:
		body = []string{styles.DangerText.Render(fmt.Sprintf("read log: %v", m.logErr))}
	case len(m.logLines) == 0:
		body = []string{styles.FaintText.Render("Log is empty")}
	default:
		body = make([]string, len(m.logLines))
		for i, line := range m.logLines {
			if m.width > 0 {
				line = ansi.Truncate(line, m.width, "")
			}
			body[i] = m.colorizeLogLine(line, styles)
		}
	}

	height := m.logHeight()
	for i := 0; i < height; i++ {
		if i < len(body) {
			b.WriteString(body[i])
		}
		b.WriteString("\n")
	}
	b.WriteString(styles.Footer.Width(m.width).MaxHeight(1).Render("any key to close"))
	return b.String()
}

// logLevels are the level tokens charmbracelet/log writes to files.
var logLevels = []string{"ERRO", "FATA", "WARN", "INFO", "DEBU"}

// colorizeLogLine highlights the level token and dims the timestamp in front
// of it. Lines without a level, such as wrapped values, stay plain.
func (m Model) colorizeLogLine(line string, styles Styles) string {
	for _, level := range logLevels {
		i := strings.Index(line, level+" ")
		if i < 0 || (i > 0 && line[i-1] != ' ') {
			continue
		}
		var style lipgloss.Style
		switch level {
		case "ERRO", "FATA":
			style = styles.DangerText.Bold(true)
		case "WARN":
			style = styles.WarningText.Bold(true)
		case "INFO":
			style = styles.SuccessText.Bold(true)
		default:
			style = styles.AccentText
		}
		return styles.MutedText.Render(line[:i]) + style.Render(level) + styles.Text.Render(line[i+len(level):])
	}
	return styles.Text.Render(line)
}
