package ui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/daylog/internal/logclient"
	"github.com/five82/daylog/internal/logstore"
	"github.com/five82/daylog/internal/prefs"
	"github.com/five82/daylog/internal/state"
)

const (
	defaultRefreshInterval = 5 * time.Second
	logFetchTimeout        = 5 * time.Second
)

// Pauser suspends background polling while the viewer is hidden.
type Pauser interface {
	Pause()
	Resume()
}

// Options configures the UI.
type Options struct {
	Context     context.Context
	Client      logclient.Fetcher
	Store       *state.Store
	Poller      Pauser
	APIBind     string
	PollTick    time.Duration // how often the partition snapshot is re-read
	RefreshTick time.Duration // auto-refresh cadence for log content
	ReadLines   int           // zero lets the server choose
	ThemeName   string
	AutoRefresh bool
	PrefsPath   string
}

// Model is the root application state for Bubble Tea.
type Model struct {
	// Configuration
	ctx         context.Context
	client      logclient.Fetcher
	store       *state.Store
	poller      Pauser
	apiBind     string
	prefsPath   string
	pollTick    time.Duration
	refreshTick time.Duration
	readLines   int

	// UI state
	theme    Theme
	keys     keyMap
	width    int
	height   int
	ready    bool
	focused  bool
	showHelp bool
	notice   string

	// Data state
	snapshot state.Snapshot
	options  []string
	selected string

	// Auto-refresh; refreshGen invalidates ticks scheduled before the
	// last stop so at most one chain is ever live.
	autoRefresh bool
	refreshGen  int
	refreshLive bool

	// Log state
	logViewport viewport.Model
	logs        logState

	// Go-to-date input
	gotoActive bool
	gotoInput  textinput.Model
}

// New creates a new Bubble Tea model.
func New(opts Options) Model {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}

	pollTick := opts.PollTick
	if pollTick <= 0 {
		pollTick = time.Second
	}
	refreshTick := opts.RefreshTick
	if refreshTick <= 0 {
		refreshTick = defaultRefreshInterval
	}

	prefsPath := opts.PrefsPath
	if prefsPath == "" {
		prefsPath = prefs.DefaultPath()
	}

	ti := textinput.New()
	ti.Placeholder = "YYYY-MM-DD"
	ti.CharLimit = 10

	m := Model{
		ctx:         ctx,
		client:      opts.Client,
		store:       opts.Store,
		poller:      opts.Poller,
		apiBind:     opts.APIBind,
		prefsPath:   prefsPath,
		pollTick:    pollTick,
		refreshTick: refreshTick,
		readLines:   opts.ReadLines,
		theme:       GetTheme(opts.ThemeName),
		keys:        defaultKeyMap(),
		focused:     true,
		options:     partitionOptions(nil),
		selected:    logstore.TodayID,
		autoRefresh: opts.AutoRefresh,
		refreshLive: opts.AutoRefresh,
		logs:        logState{follow: true},
		gotoInput:   ti,
	}
	if m.store != nil {
		m.applySnapshot(m.store.Snapshot())
	}
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{tickCmd(m.pollTick)}
	if m.autoRefresh {
		cmds = append(cmds, refreshTickCmd(m.refreshTick, m.refreshGen))
	}
	return tea.Batch(cmds...)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		first := !m.ready
		if first {
			m.initLogViewport()
		}
		m.ready = true
		m.updateLogViewport()
		if first {
			return m, m.fetchLogs()
		}
		return m, nil

	case tea.FocusMsg:
		m.focused = true
		if m.poller != nil {
			m.poller.Resume()
		}
		return m, m.syncAutoRefresh(true)

	case tea.BlurMsg:
		m.focused = false
		if m.poller != nil {
			m.poller.Pause()
		}
		return m, m.syncAutoRefresh(false)

	case tickMsg:
		cmds := []tea.Cmd{tickCmd(m.pollTick)}
		if m.store != nil {
			cmds = append(cmds, fetchSnapshotCmd(m.store))
		}
		return m, tea.Batch(cmds...)

	case snapshotMsg:
		before := m.selected
		m.applySnapshot(state.Snapshot(msg))
		if m.selected != before {
			return m, m.fetchLogs()
		}
		return m, nil

	case refreshTickMsg:
		if msg.gen != m.refreshGen || !m.autoRefreshActive() {
			return m, nil
		}
		return m, tea.Batch(m.fetchLogs(), refreshTickCmd(m.refreshTick, m.refreshGen))

	case logBatchMsg:
		m.handleLogBatch(msg)
		return m, nil
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
	return m.renderMain()
}

// applySnapshot rebuilds the selector from the latest partition list,
// preserving the current selection when it still exists.
func (m *Model) applySnapshot(snap state.Snapshot) {
	m.snapshot = snap
	m.options = partitionOptions(snap.Partitions)
	m.selected = preserveSelection(m.options, m.selected)
}

// visible reports whether the log view is on screen.
func (m Model) visible() bool {
	return m.focused && !m.showHelp
}

func (m Model) autoRefreshActive() bool {
	return m.autoRefresh && m.visible()
}

// syncAutoRefresh starts a fresh tick chain when auto-refresh should run and
// none is live, or invalidates the live chain when it should stop. fetchNow
// also triggers an immediate read when the chain (re)starts.
func (m *Model) syncAutoRefresh(fetchNow bool) tea.Cmd {
	if !m.autoRefreshActive() {
		if m.refreshLive {
			m.refreshGen++
			m.refreshLive = false
		}
		return nil
	}
	if m.refreshLive {
		return nil
	}
	m.refreshGen++
	m.refreshLive = true
	cmds := []tea.Cmd{refreshTickCmd(m.refreshTick, m.refreshGen)}
	if fetchNow {
		cmds = append(cmds, m.fetchLogs())
	}
	return tea.Batch(cmds...)
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.showHelp {
		// Any key closes help
		m.showHelp = false
		return m, m.syncAutoRefresh(true)
	}
	if m.gotoActive {
		return m.handleGotoKey(msg)
	}

	m.notice = ""
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.showHelp = true
		return m, m.syncAutoRefresh(false)

	case key.Matches(msg, m.keys.CycleTheme):
		m.theme = GetTheme(NextTheme(m.theme.Name))
		m.logs.dirty = true
		m.updateLogViewport()
		m.savePrefs()
		return m, nil

	case key.Matches(msg, m.keys.Newer):
		return m.selectPartition(stepSelection(m.options, m.selected, -1))

	case key.Matches(msg, m.keys.Older):
		return m.selectPartition(stepSelection(m.options, m.selected, 1))

	case key.Matches(msg, m.keys.Today):
		return m.selectPartition(logstore.TodayID)

	case key.Matches(msg, m.keys.GoToDate):
		m.gotoActive = true
		m.gotoInput.SetValue("")
		m.gotoInput.Focus()
		return m, textinput.Blink

	case key.Matches(msg, m.keys.Refresh):
		return m, m.fetchLogs()

	case key.Matches(msg, m.keys.ToggleAutoRefresh):
		m.autoRefresh = !m.autoRefresh
		m.savePrefs()
		return m, m.syncAutoRefresh(true)

	case key.Matches(msg, m.keys.ToggleFollow):
		m.logs.follow = !m.logs.follow
		if m.logs.follow {
			m.logViewport.GotoBottom()
		}
		return m, nil
	}

	return m.handleScrollKey(msg)
}

func (m Model) handleScrollKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Up):
		m.logViewport.ScrollUp(1)
		m.logs.follow = false
	case key.Matches(msg, m.keys.Down):
		m.logViewport.ScrollDown(1)
		m.logs.follow = m.logViewport.AtBottom()
	case key.Matches(msg, m.keys.PageUp):
		m.logViewport.PageUp()
		m.logs.follow = false
	case key.Matches(msg, m.keys.PageDown):
		m.logViewport.PageDown()
		m.logs.follow = m.logViewport.AtBottom()
	case key.Matches(msg, m.keys.Top):
		m.logViewport.GotoTop()
		m.logs.follow = false
	case key.Matches(msg, m.keys.Bottom):
		m.logViewport.GotoBottom()
		m.logs.follow = true
	}
	return m, nil
}

func (m Model) handleGotoKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Cancel):
		m.gotoActive = false
		m.gotoInput.Blur()
		return m, nil
	case key.Matches(msg, m.keys.Confirm):
		value := strings.TrimSpace(m.gotoInput.Value())
		m.gotoActive = false
		m.gotoInput.Blur()
		id, ok := parseDateInput(value)
		if !ok {
			m.notice = fmt.Sprintf("not a date: %q", value)
			return m, nil
		}
		if indexOf(m.options, id) < 0 {
			m.notice = "no log partition for " + id
			return m, nil
		}
		return m.selectPartition(id)
	}

	var cmd tea.Cmd
	m.gotoInput, cmd = m.gotoInput.Update(msg)
	return m, cmd
}

func (m Model) selectPartition(id string) (tea.Model, tea.Cmd) {
	if id == m.selected {
		return m, nil
	}
	m.selected = id
	m.logs.follow = true
	return m, m.fetchLogs()
}

func (m Model) savePrefs() {
	if m.prefsPath == "" {
		return
	}
	_ = prefs.Save(m.prefsPath, prefs.Prefs{Theme: m.theme.Name, AutoRefresh: m.autoRefresh})
}

// Messages

type tickMsg time.Time

type snapshotMsg state.Snapshot

type refreshTickMsg struct {
	gen int
}

// Commands

func tickCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func refreshTickCmd(d time.Duration, gen int) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg {
		return refreshTickMsg{gen: gen}
	})
}

func fetchSnapshotCmd(store *state.Store) tea.Cmd {
	return func() tea.Msg {
		return snapshotMsg(store.Snapshot())
	}
}

// Run starts the Bubble Tea program and blocks until the user quits or the
// context is cancelled.
func Run(opts Options) error {
	m := New(opts)
	teaOpts := []tea.ProgramOption{tea.WithAltScreen(), tea.WithReportFocus()}
	if opts.Context != nil {
		teaOpts = append(teaOpts, tea.WithContext(opts.Context))
	}
	p := tea.NewProgram(m, teaOpts...)
	_, err := p.Run()
	if err != nil && opts.Context != nil && opts.Context.Err() != nil {
		return nil
	}
	return err
}
