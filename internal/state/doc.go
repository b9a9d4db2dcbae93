// Package state provides thread-safe state sharing for the daylog viewer.
//
// # Overview
//
// The background partition poller writes the latest partition list into a
// Store; the UI reads Snapshots on its own schedule. The Store is the only
// point where the two goroutines meet.
//
//	Producer (Poller):              Consumer (UI):
//	┌──────────────────┐            ┌──────────────────┐
//	│ ListPartitions() │            │                  │
//	│        ↓         │            │                  │
//	│  store.Update()  │───────────→│ store.Snapshot() │
//	│        ↓         │  (mutex)   │        ↓         │
//	│    repeat...     │            │  render selector │
//	└──────────────────┘            └──────────────────┘
//
// # Update Semantics
//
//	// Success: replace the list, clear the error, reset failures
//	store.Update(ids, nil)
//
//	// Failure: keep the last good list, record the error
//	store.Update(nil, err)
//
// The viewer therefore keeps showing the last known partitions while the
// daemon is unreachable. Snapshot.IsOffline reports two or more consecutive
// failures so the header can switch to a retrying state.
//
// Both Update and Snapshot copy the partition slice, and Snapshot wraps the
// stored error, so callers never share mutable state with the poller.
//
// The zero Store is ready to use.
package state
