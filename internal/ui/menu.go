package ui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/five82/downlink/internal/daemon"
)

// menuItem is one context menu entry.
type menuItem struct {
	label  string
	hint   string
	action daemon.Action
}

var menuItems = []menuItem{
	{label: "Pause", hint: "p", action: daemon.ActionPause},
	{label: "Resume", hint: "r", action: daemon.ActionResume},
	{label: "Restart", hint: "R", action: daemon.ActionRestart},
	{label: "Delete", hint: "x", action: daemon.ActionDelete},
}

// openMenu requests the context menu at (x, y), clamped so it fits on
// screen. The controller hides it first and shows it on the next loop turn.
func (m *Model) openMenu(x, y int) {
	w, h := menuSize()
	if m.width > 0 && x+w > m.width {
		x = m.width - w
	}
	if m.height > 0 && y+h > m.height {
		y = m.height - h
	}
	if x < 0 {
		x = 0
	}
	if y < 0 {
		y = 0
	}
	m.menuCursor = 0
	m.menu.RequestShowAt(x, y)
}

func menuSize() (width, height int) {
	return 20, len(menuItems) + 2
}

// renderMenu produces the bordered menu lines for splicing over the view.
func (m Model) renderMenu() []string {
	styles := m.theme.Styles()
	w, _ := menuSize()
	inner := w - 2

	lines := make([]string, 0, len(menuItems))
	for i, item := range menuItems {
		label := " " + item.label
		gap := inner - ansi.StringWidth(label) - ansi.StringWidth(item.hint) - 1
		if gap < 1 {
			gap = 1
		}
		text := label + strings.Repeat(" ", gap) + item.hint + " "
		if i == m.menuCursor {
			lines = append(lines, styles.Selected.Render(text))
		} else {
			lines = append(lines, styles.Surface.Render(text))
		}
	}

	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(m.theme.Border)).
		BorderBackground(lipgloss.Color(m.theme.Surface)).
		Render(strings.Join(lines, "\n"))
	return strings.Split(box, "\n")
}

// handleMenuKey drives the open menu from the keyboard.
func (m Model) handleMenuKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.menu.Hide()
	case "up", "k":
		m.menuCursor = (m.menuCursor + len(menuItems) - 1) % len(menuItems)
	case "down", "j":
		m.menuCursor = (m.menuCursor + 1) % len(menuItems)
	case "enter":
		return m, m.chooseMenuItem(m.menuCursor)
	case "ctrl+c":
		return m, tea.Quit
	default:
		for i, item := range menuItems {
			if msg.String() == item.hint {
				return m, m.chooseMenuItem(i)
			}
		}
	}
	return m, nil
}

// handleMenuMouse reports whether msg landed on the open menu. Clicks on an
// entry run it; any press elsewhere closes the menu and falls through.
func (m *Model) handleMenuMouse(msg tea.MouseMsg) (bool, tea.Cmd) {
	anchor := m.menu.Anchor()
	w, h := menuSize()
	inside := msg.X >= anchor.X && msg.X < anchor.X+w && msg.Y >= anchor.Y && msg.Y < anchor.Y+h
	if !inside {
		if msg.Action == tea.MouseActionPress {
			m.menu.Hide()
		}
		return false, nil
	}

	item := msg.Y - anchor.Y - 1 // top border
	if item < 0 || item >= len(menuItems) {
		return true, nil
	}
	switch msg.Action {
	case tea.MouseActionMotion:
		m.menuCursor = item
		return true, nil
	case tea.MouseActionRelease:
		if msg.Button == tea.MouseButtonLeft {
			return true, m.chooseMenuItem(item)
		}
	}
	return true, nil
}

func (m *Model) chooseMenuItem(i int) tea.Cmd {
	m.menu.Hide()
	if i < 0 || i >= len(menuItems) {
		return nil
	}
	return m.runCommand(menuItems[i].action)
}
