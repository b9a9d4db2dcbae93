package ui

import (
	"time"

	"github.com/five82/daylog/internal/logstore"
)

// partitionOptions builds the selector entries: the synthetic "today" option
// always comes first, followed by the daemon's partitions, newest first.
func partitionOptions(ids []string) []string {
	opts := make([]string, 0, len(ids)+1)
	opts = append(opts, logstore.TodayID)
	for _, id := range ids {
		if id == "" || id == logstore.TodayID {
			continue
		}
		opts = append(opts, id)
	}
	return opts
}

// preserveSelection keeps the current selection when it survives a re-poll
// and falls back to "today" otherwise.
func preserveSelection(opts []string, selected string) string {
	if indexOf(opts, selected) >= 0 {
		return selected
	}
	return logstore.TodayID
}

// stepSelection moves delta entries through opts, clamping at both ends.
// Negative deltas move toward "today".
func stepSelection(opts []string, selected string, delta int) string {
	if len(opts) == 0 {
		return logstore.TodayID
	}
	idx := indexOf(opts, selected)
	if idx < 0 {
		idx = 0
	}
	idx += delta
	if idx < 0 {
		idx = 0
	}
	if idx >= len(opts) {
		idx = len(opts) - 1
	}
	return opts[idx]
}

// parseDateInput validates a go-to-date entry. It accepts "today" or a
// calendar date in YYYY-MM-DD form.
func parseDateInput(value string) (string, bool) {
	if value == "" || value == logstore.TodayID {
		return logstore.TodayID, true
	}
	t, err := time.Parse("2006-01-02", value)
	if err != nil {
		return "", false
	}
	return logstore.PartitionID(t), true
}

func indexOf(opts []string, value string) int {
	for i, opt := range opts {
		if opt == value {
			return i
		}
	}
	return -1
}
