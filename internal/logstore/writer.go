package logstore

import (
	"fmt"
	"os"
	"strings"
	"sync"
	"time"
	"unicode/utf8"
)

const timestampLayout = "2006-01-02T15:04:05.000Z07:00"

// appender writes records to the current day's partition. Calls are
// serialized so records from one process land in call order.
type appender struct {
	paths        Resolver
	faults       *faults
	maxLineBytes int

	mu sync.Mutex
}

// append never reports failure to the caller; faults are counted instead.
func (a *appender) append(level Level, message string) {
	now := a.paths.Now()
	line := formatRecord(now, level, message, a.maxLineBytes)

	a.mu.Lock()
	defer a.mu.Unlock()
	if err := a.write(PartitionID(now), line); err != nil {
		a.faults.record(OpWrite, err)
	}
}

func (a *appender) write(id, line string) error {
	if err := os.MkdirAll(a.paths.Root(), 0o755); err != nil {
		return fmt.Errorf("create log dir: %w", err)
	}
	file, err := os.OpenFile(a.paths.PartitionPath(id), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open partition: %w", err)
	}
	if _, err := file.WriteString(line); err != nil {
		_ = file.Close()
		return fmt.Errorf("append record: %w", err)
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("close partition: %w", err)
	}
	return nil
}

var lineBreaks = strings.NewReplacer("\r\n", `\n`, "\n", `\n`, "\r", `\r`)

// formatRecord renders "[<timestamp>] [<LEVEL>] <message>\n". Embedded line
// breaks are escaped so one record is always one line.
func formatRecord(ts time.Time, level Level, message string, maxLineBytes int) string {
	line := fmt.Sprintf("[%s] [%s] %s", ts.UTC().Format(timestampLayout), level.Tag(), lineBreaks.Replace(message))
	if maxLineBytes > 0 && len(line) > maxLineBytes {
		line = truncateUTF8(line, maxLineBytes)
	}
	return line + "\n"
}

func truncateUTF8(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	cut := limit
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut]
}
