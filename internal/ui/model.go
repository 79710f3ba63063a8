package ui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/five82/downlink/internal/daemon"
	"github.com/five82/downlink/internal/logging"
	"github.com/five82/downlink/internal/menu"
	"github.com/five82/downlink/internal/prefs"
	"github.com/five82/downlink/internal/selection"
	"github.com/five82/downlink/internal/state"
)

// Options configures the UI.
type Options struct {
	Context       context.Context
	Client        daemon.Service
	Store         *state.Store
	Driver        *Driver // frame driver the store publishes on
	Logger        *log.Logger
	ThemeName     string
	HideCompleted bool
	Filter        string // initial list filter
	PrefsPath     string
	LogPath       string // shown by the log view
}

// Rows above the task list: header, command bar, column headings.
const tableTop = 3

// Model is the root application state for Bubble Tea.
type Model struct {
	// Configuration
	ctx       context.Context
	client    daemon.Service
	store     *state.Store
	deferrer  *Driver
	logger    *log.Logger
	prefsPath string
	logPath   string

	// UI state
	theme    Theme
	keys     keyMap
	help     help.Model
	width    int
	height   int
	ready    bool
	showHelp bool
	showLog  bool
	logLines []string
	logErr   error

	// List state
	cursor        int // index into the visible rows
	offset        int // first visible row
	hideCompleted bool
	filtering     bool
	filter        string
	filterInput   textinput.Model

	// Selection and context menu
	selection  *selection.Reducer
	drag       *dragState
	menu       *menu.Controller
	menuCursor int

	// Outcome of the last task command
	notice    string
	noticeErr bool
}

// New creates a new Bubble Tea model.
func New(opts Options) Model {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}

	logger := opts.Logger
	if logger == nil {
		logger = logging.Discard()
	}

	themeName := opts.ThemeName
	if themeName == "" {
		themeName = "Dracula"
	}

	prefsPath := opts.PrefsPath
	if prefsPath == "" {
		prefsPath = prefs.DefaultPath()
	}

	drag := &dragState{}
	deferrer := newDeferDriver()

	return Model{
		ctx:           ctx,
		client:        opts.Client,
		store:         opts.Store,
		deferrer:      deferrer,
		logger:        logger,
		prefsPath:     prefsPath,
		logPath:       opts.LogPath,
		theme:         GetTheme(themeName),
		keys:          DefaultKeyMap(),
		help:          help.New(),
		hideCompleted: opts.HideCompleted,
		filter:        strings.TrimSpace(opts.Filter),
		filterInput:   newFilterInput(),
		selection:     selection.New(selection.ClearerFunc(drag.reset)),
		drag:          drag,
		menu:          menu.New(deferrer),
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tea.EnterAltScreen
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.ready = true
		m.clampCursor()
		return m, nil

	case runMsg:
		// Frame publishes and deferred menu shows both land here.
		msg.fn()
		m.pruneSelection()
		m.clampCursor()
		return m, nil

	case commandResultMsg:
		m.handleCommandResult(msg)
		return m, nil

	case tea.MouseMsg:
		return m.handleMouse(msg)

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	if m.showHelp {
		return m.renderHelp()
	}
	if m.showLog {
		return m.renderLog()
	}

	snap := m.snapshot()
	rows := visibleRecords(snap, m.activeQuery(), m.hideCompleted)

	var b strings.Builder
	b.WriteString(m.renderHeader(snap))
	b.WriteString("\n")
	b.WriteString(m.renderCommandBar(len(rows), snap.Len()))
	b.WriteString("\n")
	b.WriteString(m.renderTable(rows))
	b.WriteString("\n")
	b.WriteString(m.renderFooter())

	view := b.String()
	if anchor := m.menu.Anchor(); anchor.Visible {
		view = spliceOverlay(view, m.renderMenu(), anchor.X, anchor.Y)
	}
	return view
}

// snapshot returns the published generation, or an empty one without a store.
func (m Model) snapshot() state.Snapshot {
	if m.store == nil {
		return state.Snapshot{}
	}
	return m.store.Published()
}

// rows returns the currently displayed tasks.
func (m Model) rows() []state.Record {
	return visibleRecords(m.snapshot(), m.activeQuery(), m.hideCompleted)
}

// listHeight is the number of task rows that fit on screen.
func (m Model) listHeight() int {
	h := m.height - tableTop - 1 // footer
	if h < 1 {
		return 1
	}
	return h
}

// rowAt maps a screen row to an index into rows, or -1 for anything that is
// not a task row.
func (m Model) rowAt(y int, count int) int {
	if y < tableTop || y >= tableTop+m.listHeight() {
		return -1
	}
	idx := m.offset + y - tableTop
	if idx >= count {
		return -1
	}
	return idx
}

// clampCursor keeps the cursor on a row and the row on screen.
func (m *Model) clampCursor() {
	count := len(m.rows())
	if m.cursor >= count {
		m.cursor = count - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
	height := m.listHeight()
	if m.cursor < m.offset {
		m.offset = m.cursor
	}
	if m.cursor >= m.offset+height {
		m.offset = m.cursor - height + 1
	}
	if maxOffset := count - height; m.offset > maxOffset {
		m.offset = maxOffset
	}
	if m.offset < 0 {
		m.offset = 0
	}
}

// pruneSelection forgets selected tasks that the daemon deleted.
func (m *Model) pruneSelection() {
	items := m.snapshot().Items
	m.selection.Retain(func(key string) bool {
		_, ok := items[key]
		return ok
	})
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.showHelp {
		// Any key closes help
		m.showHelp = false
		return m, nil
	}
	if m.showLog {
		m.showLog = false
		m.logLines = nil
		return m, nil
	}
	if m.filtering {
		return m.handleFilterKey(msg)
	}
	if m.menu.Anchor().Visible {
		return m.handleMenuKey(msg)
	}

	rows := m.rows()

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.showHelp = true

	case key.Matches(msg, m.keys.ShowLog):
		m.openLog()

	case key.Matches(msg, m.keys.CycleTheme):
		m.theme = GetTheme(NextTheme(m.theme.Name))
		m.savePrefs()

	case key.Matches(msg, m.keys.Escape):
		switch {
		case m.filter != "":
			m.filter = ""
			m.filterInput.SetValue("")
			m.savePrefs()
		case m.selection.Len() > 0:
			m.selection.ApplyBackgroundClick(false)
		}

	case key.Matches(msg, m.keys.Up):
		m.cursor--
	case key.Matches(msg, m.keys.Down):
		m.cursor++
	case key.Matches(msg, m.keys.Top):
		m.cursor = 0
	case key.Matches(msg, m.keys.Bottom):
		m.cursor = len(rows) - 1

	case key.Matches(msg, m.keys.ToggleSelect):
		if m.cursor < len(rows) {
			k := selection.ElementKey(rows[m.cursor].Key)
			if m.selection.Contains(rows[m.cursor].Key) {
				m.selection.ApplyChange(nil, []string{k})
			} else {
				m.selection.ApplyChange([]string{k}, nil)
			}
		}

	case key.Matches(msg, m.keys.SelectAll):
		added := make([]string, len(rows))
		for i, r := range rows {
			added[i] = selection.ElementKey(r.Key)
		}
		m.selection.ApplyChange(added, nil)

	case key.Matches(msg, m.keys.Menu):
		if m.cursor < len(rows) {
			m.selectIfUnselected(rows[m.cursor].Key)
			m.openMenu(2, tableTop+m.cursor-m.offset+1)
		}

	case key.Matches(msg, m.keys.Pause):
		return m, m.runCommand(daemon.ActionPause)
	case key.Matches(msg, m.keys.Resume):
		return m, m.runCommand(daemon.ActionResume)
	case key.Matches(msg, m.keys.Delete):
		return m, m.runCommand(daemon.ActionDelete)
	case key.Matches(msg, m.keys.Restart):
		return m, m.runCommand(daemon.ActionRestart)

	case key.Matches(msg, m.keys.Filter):
		cmd := m.startFilter()
		return m, cmd

	case key.Matches(msg, m.keys.HideCompleted):
		m.hideCompleted = !m.hideCompleted
		m.savePrefs()
	}

	m.clampCursor()
	return m, nil
}

func (m Model) savePrefs() {
	if m.prefsPath == "" {
		return
	}
	p := prefs.Prefs{Theme: m.theme.Name, HideCompleted: m.hideCompleted, Filter: m.filter}
	if err := prefs.Save(m.prefsPath, p); err != nil {
		m.logger.Warn("save prefs", "error", err)
	}
}

// selectIfUnselected makes key the whole selection unless it is already part
// of it, so an action on an unselected row targets that row.
func (m *Model) selectIfUnselected(k string) {
	if m.selection.Contains(k) {
		return
	}
	removed := make([]string, 0, m.selection.Len())
	for _, sel := range m.selection.Selected() {
		removed = append(removed, selection.ElementKey(sel))
	}
	m.selection.ApplyChange([]string{selection.ElementKey(k)}, removed)
}

// targets returns the keys a command applies to: the selection, or the
// cursor row when nothing is selected.
func (m Model) targets() []string {
	if m.selection.Len() > 0 {
		return m.selection.Selected()
	}
	rows := m.rows()
	if m.cursor < len(rows) {
		return []string{rows[m.cursor].Key}
	}
	return nil
}

// commandResultMsg reports the outcome of a task command.
type commandResultMsg struct {
	action daemon.Action
	count  int
	err    error
}

// runCommand sends action for the current targets off the UI loop.
func (m Model) runCommand(action daemon.Action) tea.Cmd {
	ids := m.targets()
	if len(ids) == 0 || m.client == nil {
		return nil
	}
	client, ctx := m.client, m.ctx
	return func() tea.Msg {
		return commandResultMsg{
			action: action,
			count:  len(ids),
			err:    client.Command(ctx, action, ids),
		}
	}
}

func (m *Model) handleCommandResult(msg commandResultMsg) {
	if msg.err != nil {
		m.logger.Error("task command failed", "action", msg.action, "tasks", msg.count, "error", msg.err)
		m.notice = fmt.Sprintf("%s failed: %v", msg.action, msg.err)
		m.noticeErr = true
		return
	}
	m.logger.Info("task command sent", "action", msg.action, "tasks", msg.count)
	noun := "task"
	if msg.count != 1 {
		noun = "tasks"
	}
	m.notice = fmt.Sprintf("%s sent for %d %s", msg.action, msg.count, noun)
	m.noticeErr = false
}

// Run starts the Bubble Tea program.
func Run(opts Options) error {
	m := New(opts)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion(), tea.WithContext(m.ctx))
	if opts.Driver != nil {
		opts.Driver.Attach(p.Send)
	}
	m.deferrer.Attach(p.Send)
	_, err := p.Run()
	if err != nil && m.ctx.Err() != nil {
		// Cancelled from outside, e.g. SIGTERM.
		return nil
	}
	return err
}
