package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// selectorWindow is how many partition options the header shows at once.
const selectorWindow = 7

// renderMain renders the full UI.
func (m Model) renderMain() string {
	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteString("\n")
	b.WriteString(m.renderCommandBar())
	b.WriteString("\n")
	b.WriteString(m.renderLogs())
	return b.String()
}

// renderHeader renders the logo, the partition selector and the connection state.
func (m Model) renderHeader() string {
	styles := m.theme.Styles().WithBackground(m.theme.Surface)
	bg := NewBgStyle(m.theme.Surface)
	sep := bg.Spaces(2)

	parts := []string{
		bg.Render("daylog", styles.Logo),
		m.renderSelector(styles, bg),
	}

	snap := m.snapshot
	switch {
	case snap.IsOffline():
		last := "soon"
		if !snap.LastUpdated.IsZero() {
			last = snap.LastUpdated.Format("15:04:05")
		}
		parts = append(parts,
			bg.Render("DAEMON "+classifyConnectionError(snap.LastError), styles.DangerText),
			bg.Render("Retrying...", styles.WarningText.Bold(true)),
			bg.Render(last, styles.MutedText))
	case snap.LastError != nil:
		parts = append(parts, bg.Render("poll failed", styles.WarningText))
	case !snap.HasPartitions:
		parts = append(parts, bg.Render("Connecting to "+m.apiBind+"...", styles.WarningText.Bold(true)))
	default:
		parts = append(parts, bg.Render(fmt.Sprintf("%d partitions", len(snap.Partitions)), styles.MutedText))
	}

	return styles.Header.Width(m.width).Render(strings.Join(parts, sep))
}

// renderSelector shows a window of partition options around the selection.
func (m Model) renderSelector(styles Styles, bg BgStyle) string {
	start, end := selectorBounds(len(m.options), indexOf(m.options, m.selected), selectorWindow)
	segments := make([]string, 0, end-start+2)
	if start > 0 {
		segments = append(segments, bg.Render("‹", styles.FaintText))
	}
	for _, opt := range m.options[start:end] {
		if opt == m.selected {
			segments = append(segments, styles.Selected.Render(" "+opt+" "))
			continue
		}
		segments = append(segments, bg.Render(opt, styles.MutedText))
	}
	if end < len(m.options) {
		segments = append(segments, bg.Render("›", styles.FaintText))
	}
	return strings.Join(segments, bg.Space())
}

// selectorBounds returns the [start, end) slice of n options to display so
// that idx stays visible within a window of size w.
func selectorBounds(n, idx, w int) (int, int) {
	if n <= w {
		return 0, n
	}
	if idx < 0 {
		idx = 0
	}
	start := idx - w/2
	if start < 0 {
		start = 0
	}
	if start+w > n {
		start = n - w
	}
	return start, start + w
}

// renderCommandBar renders the key hints line.
func (m Model) renderCommandBar() string {
	styles := m.theme.Styles().WithBackground(m.theme.Surface)
	bg := NewBgStyle(m.theme.Surface)

	autoLabel := "Auto on"
	if m.autoRefresh {
		autoLabel = "Auto off"
	}
	followLabel := "Pause"
	if !m.logs.follow {
		followLabel = "Follow"
	}
	commands := []struct{ key, desc string }{
		{"[/]", "Partition"},
		{"t", "Today"},
		{"d", "Date"},
		{"r", "Refresh"},
		{"a", autoLabel},
		{"Space", followLabel},
		{"?", "More"},
	}

	colon := bg.Sep(":")
	segments := make([]string, 0, len(commands))
	for _, c := range commands {
		segments = append(segments,
			bg.Render(c.key, styles.AccentText)+colon+bg.Render(c.desc, styles.MutedText))
	}

	return lipgloss.NewStyle().
		Background(lipgloss.Color(m.theme.Surface)).
		Width(m.width).
		Render(strings.Join(segments, bg.Spaces(2)))
}

// classifyConnectionError maps a poll error to a short header label.
func classifyConnectionError(err error) string {
	if err == nil {
		return "UNREACHABLE"
	}
	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "connection refused"):
		return "OFFLINE"
	case strings.Contains(msg, "status 401"), strings.Contains(msg, "unauthorized"):
		return "UNAUTHORIZED"
	case strings.Contains(msg, "timeout"), strings.Contains(msg, "deadline exceeded"):
		return "TIMEOUT"
	case strings.Contains(msg, "no such host"):
		return "UNKNOWN HOST"
	default:
		return "UNREACHABLE"
	}
}
