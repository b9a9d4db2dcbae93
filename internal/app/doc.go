// Package app is the composition root of the daylog viewer.
//
// Run loads the shared config, builds the API client, and starts a Poller
// that keeps a state.Store filled with the daemon's partition list. It then
// hands everything to the bubbletea UI and blocks until the user quits.
//
//	┌──────────┐  ListPartitions  ┌─────────────┐  Snapshot  ┌──────┐
//	│  Poller  │ ───────────────→ │ state.Store │ ─────────→ │  UI  │
//	└──────────┘                  └─────────────┘            └──────┘
//	     ↑ Pause/Resume on terminal blur/focus                   │
//	     └───────────────────────────────────────────────────────┘
//
// The Poller is an explicit handle. Start launches one goroutine, Stop
// cancels it and waits, and Pause/Resume suspend polling while the viewer is
// not visible. Consecutive failures back off exponentially up to 30s.
//
// Log content itself is fetched by the UI for the selected partition, not by
// the Poller.
package app
