package ui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/downlink/internal/selection"
	"github.com/five82/downlink/internal/state"
)

// dragState is the visual selection region of an in-progress left drag.
// covered holds the keys currently inside the region; base holds keys that
// were selected before an additive (ctrl) drag began and must survive it.
type dragState struct {
	active  bool
	anchor  int
	covered []string
	base    map[string]bool
}

func (d *dragState) reset() {
	d.active = false
	d.anchor = 0
	d.covered = nil
	d.base = nil
}

// handleMouse turns terminal mouse events into selection changes and menu
// requests. Row geometry comes from the same published snapshot View draws.
func (m Model) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if m.showHelp || m.showLog || m.filtering {
		return m, nil
	}

	rows := m.rows()
	idx := m.rowAt(msg.Y, len(rows))

	if m.menu.Anchor().Visible {
		if consumed, cmd := m.handleMenuMouse(msg); consumed {
			return m, cmd
		}
	}

	switch msg.Button {
	case tea.MouseButtonWheelUp:
		m.cursor--
		m.clampCursor()
		return m, nil
	case tea.MouseButtonWheelDown:
		m.cursor++
		m.clampCursor()
		return m, nil
	}

	switch {
	case msg.Button == tea.MouseButtonLeft && msg.Action == tea.MouseActionPress:
		m.menu.Hide()
		if idx < 0 {
			m.selection.ApplyBackgroundClick(msg.Ctrl || msg.Alt || msg.Shift)
			return m, nil
		}
		m.cursor = idx
		m.beginDrag(rows, idx, msg.Ctrl)

	case msg.Action == tea.MouseActionMotion && m.drag.active:
		m.extendDrag(rows, msg.Y)

	case msg.Action == tea.MouseActionRelease && m.drag.active:
		m.drag.active = false

	case msg.Button == tea.MouseButtonRight && msg.Action == tea.MouseActionRelease:
		if idx >= 0 {
			m.cursor = idx
			m.selectIfUnselected(rows[idx].Key)
		}
		m.openMenu(msg.X, msg.Y)
	}

	m.clampCursor()
	return m, nil
}

// beginDrag starts a region at row idx. A plain press replaces the
// selection; an additive press keeps it.
func (m *Model) beginDrag(rows []state.Record, idx int, additive bool) {
	k := rows[idx].Key
	var removed []string
	base := make(map[string]bool)
	for _, sel := range m.selection.Selected() {
		if additive {
			base[sel] = true
		} else if sel != k {
			removed = append(removed, selection.ElementKey(sel))
		}
	}

	m.drag.active = true
	m.drag.anchor = idx
	m.drag.covered = []string{k}
	m.drag.base = base
	m.selection.ApplyChange([]string{selection.ElementKey(k)}, removed)
}

// extendDrag moves the far edge of the region to screen row y and reports
// the difference from the previous region as one change.
func (m *Model) extendDrag(rows []state.Record, y int) {
	if len(rows) == 0 {
		return
	}
	idx := m.offset + y - tableTop
	if idx < 0 {
		idx = 0
	}
	if idx >= len(rows) {
		idx = len(rows) - 1
	}
	anchor := m.drag.anchor
	if anchor >= len(rows) {
		anchor = len(rows) - 1
	}

	lo, hi := anchor, idx
	if lo > hi {
		lo, hi = hi, lo
	}
	next := make([]string, 0, hi-lo+1)
	inNext := make(map[string]bool, hi-lo+1)
	for _, r := range rows[lo : hi+1] {
		next = append(next, r.Key)
		inNext[r.Key] = true
	}

	inPrev := make(map[string]bool, len(m.drag.covered))
	var removed []string
	for _, k := range m.drag.covered {
		inPrev[k] = true
		if !inNext[k] && !m.drag.base[k] {
			removed = append(removed, selection.ElementKey(k))
		}
	}
	var added []string
	for _, k := range next {
		if !inPrev[k] {
			added = append(added, selection.ElementKey(k))
		}
	}

	m.drag.covered = next
	m.cursor = idx
	if len(added) > 0 || len(removed) > 0 {
		m.selection.ApplyChange(added, removed)
	}
}
