package state

import (
	"fmt"
	"sync"
	"time"
)

// Snapshot represents the latest data available to the viewer.
type Snapshot struct {
	Partitions          []string // most recent first, as reported by the daemon
	HasPartitions       bool
	LastUpdated         time.Time
	LastError           error
	ConsecutiveFailures int // Number of consecutive poll failures
}

// IsOffline returns true when the API has been unreachable for multiple polls.
func (s Snapshot) IsOffline() bool {
	return s.ConsecutiveFailures >= 2
}

// Store coordinates concurrent updates to the snapshot.
type Store struct {
	mu       sync.RWMutex
	snapshot Snapshot
}

// Update replaces the stored partition list. When err is non-nil the previous
// list is kept but the error is recorded for visibility.
func (s *Store) Update(partitions []string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err != nil {
		s.snapshot.LastError = err
		s.snapshot.LastUpdated = time.Now()
		s.snapshot.ConsecutiveFailures++
		return
	}

	s.snapshot.Partitions = clonePartitions(partitions)
	s.snapshot.HasPartitions = true
	s.snapshot.LastError = nil
	s.snapshot.LastUpdated = time.Now()
	s.snapshot.ConsecutiveFailures = 0
}

// Snapshot returns a copy of the current snapshot.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := s.snapshot
	snap.Partitions = clonePartitions(s.snapshot.Partitions)
	if s.snapshot.LastError != nil {
		snap.LastError = fmt.Errorf("%w", s.snapshot.LastError)
	}
	return snap
}

func clonePartitions(ids []string) []string {
	if len(ids) == 0 {
		return nil
	}
	dup := make([]string, len(ids))
	copy(dup, ids)
	return dup
}
