package ui

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/five82/daylog/internal/logclient"
	"github.com/five82/daylog/internal/logstore"
)

// logState holds the content of the selected partition.
type logState struct {
	batch     logclient.Batch
	err       error
	fetchedAt time.Time
	loading   bool
	follow    bool

	// seq identifies the latest request; older responses are dropped.
	seq   int
	dirty bool
}

type logBatchMsg struct {
	seq   int
	batch logclient.Batch
	err   error
}

// fetchLogs issues a read for the selected partition.
func (m *Model) fetchLogs() tea.Cmd {
	if m.client == nil {
		return nil
	}
	m.logs.seq++
	m.logs.loading = true
	seq, id, lines := m.logs.seq, m.selected, m.readLines
	client, parent := m.client, m.ctx
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(parent, logFetchTimeout)
		defer cancel()
		batch, err := client.Read(ctx, id, lines)
		return logBatchMsg{seq: seq, batch: batch, err: err}
	}
}

// handleLogBatch applies a read result. Failures replace the content with an
// error panel but never stop auto-refresh.
func (m *Model) handleLogBatch(msg logBatchMsg) {
	if msg.seq != m.logs.seq {
		return
	}
	m.logs.loading = false
	m.logs.fetchedAt = time.Now()
	if msg.err != nil {
		m.logs.err = msg.err
	} else {
		m.logs.err = nil
		m.logs.batch = msg.batch
	}
	m.logs.dirty = true
	m.updateLogViewport()
}

// initLogViewport initializes the log viewport.
func (m *Model) initLogViewport() {
	m.logViewport = viewport.New(maxInt(m.width-2, 1), maxInt(m.height-5, 1))
	m.logViewport.Style = lipgloss.NewStyle()
}

// updateLogViewport resizes the viewport and re-renders content when it changed.
func (m *Model) updateLogViewport() {
	if !m.ready {
		return
	}
	// header, selector bar and status bar take one row each; the box
	// border takes two more.
	width := maxInt(m.width-2, 1)
	height := maxInt(m.height-5, 1)
	if m.logViewport.Width != width || m.logViewport.Height != height {
		m.logViewport.Width = width
		m.logViewport.Height = height
		m.logs.dirty = true
	}
	m.logViewport.Style = lipgloss.NewStyle().Background(lipgloss.Color(m.theme.FocusBg))

	if m.logs.dirty {
		m.logViewport.SetContent(m.renderLogContent())
		m.logs.dirty = false
	}
	if m.logs.follow {
		m.logViewport.GotoBottom()
	}
}

// renderLogs renders the bordered log box and its status bar.
func (m Model) renderLogs() string {
	styles := m.theme.Styles()
	box := styles.BorderFocus.
		Width(maxInt(m.width-2, 1)).
		Height(maxInt(m.height-5, 1)).
		Render(m.logViewport.View())
	return box + "\n" + m.renderLogStatus()
}

// renderLogContent renders the level-styled lines, the empty placeholder, or
// the error panel.
func (m Model) renderLogContent() string {
	bg := NewBgStyle(m.theme.FocusBg)
	styles := m.theme.Styles()
	width := m.logViewport.Width

	if m.logs.err != nil {
		return renderErrorPanel(bg, styles, m.logs.err, width)
	}

	lines := m.logs.batch.Lines
	if len(lines) == 0 {
		if m.logs.fetchedAt.IsZero() {
			return bg.FillLine(bg.Render("Loading...", styles.MutedText), width)
		}
		msg := m.logs.batch.Message
		if msg == "" {
			msg = "No log entries"
		}
		return bg.FillLine(bg.Render(msg, styles.MutedText), width)
	}

	var b strings.Builder
	for i, line := range lines {
		style := styles.LevelStyle(levelAt(m.logs.batch, i))
		b.WriteString(bg.FillLine(style.Background(bg.Color()).Render(sanitizeLine(line)), width))
		if i < len(lines)-1 {
			b.WriteString("\n")
		}
	}
	return b.String()
}

func renderErrorPanel(bg BgStyle, styles Styles, err error, width int) string {
	lines := []string{
		bg.Render("Failed to load logs", styles.DangerText),
		"",
		bg.Render(sanitizeLine(err.Error()), styles.Text),
		"",
		bg.Render("Retrying on the next refresh. Press r to retry now.", styles.MutedText),
	}
	for i, line := range lines {
		lines[i] = bg.FillLine(line, width)
	}
	return strings.Join(lines, "\n")
}

// renderLogStatus renders the status bar below the log box.
func (m Model) renderLogStatus() string {
	bg := NewBgStyle(m.theme.Background)
	styles := m.theme.Styles()

	if m.gotoActive {
		return bg.Render("go to date:", styles.AccentText) + bg.Space() + m.gotoInput.View()
	}

	var parts []string
	label := m.selected
	if p := m.logs.batch.Partition; p != "" && m.selected == logstore.TodayID && m.logs.err == nil {
		label = fmt.Sprintf("today (%s)", p)
	}
	parts = append(parts, bg.Render(label, styles.AccentText))
	parts = append(parts, bg.Render(fmt.Sprintf("%d lines", len(m.logs.batch.Lines)), styles.FaintText))

	auto := "auto-refresh off"
	if m.autoRefresh {
		auto = fmt.Sprintf("auto-refresh %s", m.refreshTick)
		if !m.visible() {
			auto += " (paused)"
		}
	}
	parts = append(parts, bg.Render(auto, styles.FaintText))
	parts = append(parts, bg.Render("follow "+ternary(m.logs.follow, "on", "off"), styles.FaintText))

	if m.logs.loading {
		parts = append(parts, bg.Render("loading", styles.WarningText))
	} else if !m.logs.fetchedAt.IsZero() {
		parts = append(parts, bg.Render("updated "+m.logs.fetchedAt.Format("15:04:05"), styles.MutedText))
	}
	if m.notice != "" {
		parts = append(parts, bg.Render(m.notice, styles.WarningText))
	}

	sep := bg.Space() + bg.Render("•", styles.FaintText) + bg.Space()
	return strings.Join(parts, sep)
}

// levelAt returns the wire level for line i, classifying locally only when
// the server sent no level for it.
func levelAt(batch logclient.Batch, i int) logstore.Level {
	if i < len(batch.Levels) {
		return batch.Levels[i]
	}
	return logstore.ClassifyLine(batch.Lines[i])
}

// sanitizeLine drops control characters so stored text cannot drive the
// terminal.
func sanitizeLine(s string) string {
	return strings.Map(func(r rune) rune {
		if r == '\t' {
			return ' '
		}
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, s)
}
