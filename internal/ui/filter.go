package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/sahilm/fuzzy"

	"github.com/five82/downlink/internal/daemon"
	"github.com/five82/downlink/internal/state"
)

// visibleRecords returns the rows to display: all records in creation order,
// minus completed tasks when hidden, narrowed by a fuzzy title query. Query
// matches are ordered best first.
func visibleRecords(snap state.Snapshot, query string, hideCompleted bool) []state.Record {
	records := snap.Records()
	if hideCompleted {
		kept := records[:0]
		for _, r := range records {
			if r.State != daemon.StateCompleted {
				kept = append(kept, r)
			}
		}
		records = kept
	}

	query = strings.TrimSpace(query)
	if query == "" {
		return records
	}

	haystack := make([]string, len(records))
	for i, r := range records {
		haystack[i] = strings.ToLower(searchText(r))
	}
	matches := fuzzy.Find(strings.ToLower(query), haystack)

	out := make([]state.Record, len(matches))
	for i, match := range matches {
		out[i] = records[match.Index]
	}
	return out
}

func searchText(r state.Record) string {
	parts := []string{r.Title, r.Collection, r.Filename}
	return strings.Join(parts, " ")
}

func newFilterInput() textinput.Model {
	ti := textinput.New()
	ti.Prompt = "/"
	ti.Placeholder = "filter by title"
	ti.CharLimit = 80
	ti.Width = 40
	return ti
}

// startFilter focuses the filter input, seeded with the current query.
func (m *Model) startFilter() tea.Cmd {
	m.filtering = true
	m.filterInput.SetValue(m.filter)
	m.filterInput.CursorEnd()
	return m.filterInput.Focus()
}

// handleFilterKey routes keys to the filter input. The list narrows as the
// user types; enter keeps the query and esc restores the previous one.
func (m Model) handleFilterKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		m.filtering = false
		m.filter = strings.TrimSpace(m.filterInput.Value())
		m.filterInput.Blur()
		m.clampCursor()
		m.savePrefs()
		return m, nil
	case "esc":
		m.filtering = false
		m.filterInput.SetValue(m.filter)
		m.filterInput.Blur()
		m.clampCursor()
		return m, nil
	case "ctrl+c":
		return m, tea.Quit
	}

	var cmd tea.Cmd
	m.filterInput, cmd = m.filterInput.Update(msg)
	m.cursor, m.offset = 0, 0
	return m, cmd
}

// activeQuery is the query the list is currently narrowed by.
func (m Model) activeQuery() string {
	if m.filtering {
		return m.filterInput.Value()
	}
	return m.filter
}
