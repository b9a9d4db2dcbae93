// Package ui provides the Bubble Tea viewer for daylog partitions.
//
// The viewer is a single screen:
//
//	daylog  ‹ today 2025-03-10 2025-03-09 … ›  3 partitions
//	[/]:Partition  t:Today  d:Date  r:Refresh  a:Auto on  ...
//	╭──────────────────────────────────────────────────────╮
//	│ [2025-03-10T08:00:00.000Z] [INFO] started            │
//	│ [2025-03-10T08:00:01.000Z] [ERROR] upstream failed   │
//	╰──────────────────────────────────────────────────────╯
//	today (2025-03-10) • 2 lines • auto-refresh 5s • follow on
//
// The selector always offers "today" first, then the daemon's partitions
// newest first. A re-poll keeps the current selection when it still exists
// and falls back to "today" otherwise.
//
// Lines are styled from the level enum the server sends alongside them; the
// viewer classifies text itself only when a level is missing.
//
// Auto-refresh re-reads the selected partition every five seconds while the
// terminal is focused and no overlay covers the logs. Each start of the
// refresh chain bumps a generation counter, so ticks scheduled before a stop
// are discarded and at most one chain is ever live. Focus changes also pause
// and resume the background partition poller.
//
// Failed reads replace the content with an inline error panel; refreshes
// continue and the panel clears on the next successful read.
package ui
