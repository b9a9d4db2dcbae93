package logstore

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Sweep deletes partitions whose last modification is older than the
// retention window and returns how many were removed. Today's partition is
// never removed, whatever its modification time says. Faults are counted,
// never returned.
func (s *Store) Sweep() int {
	root := s.paths.Root()
	entries, err := os.ReadDir(root)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			s.faults.record(OpSweep, fmt.Errorf("read log dir: %w", err))
		}
		return 0
	}

	now := s.paths.Now()
	today := PartitionID(now)
	removed := 0
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		id, ok := partitionIDFromName(entry.Name())
		if !ok || id == today {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			if !errors.Is(err, os.ErrNotExist) {
				s.faults.record(OpSweep, fmt.Errorf("stat %s: %w", entry.Name(), err))
			}
			continue
		}
		if now.Sub(info.ModTime()) <= s.retention {
			continue
		}
		if err := os.Remove(filepath.Join(root, entry.Name())); err != nil {
			if !errors.Is(err, os.ErrNotExist) {
				s.faults.record(OpSweep, fmt.Errorf("delete %s: %w", entry.Name(), err))
			}
			continue
		}
		removed++
		s.logger.Info("expired partition deleted", "partition", id, "age", now.Sub(info.ModTime()).Round(time.Second))
	}
	return removed
}
