package logstore

import (
	"context"
	"sync"
	"time"
)

// DefaultSweepInterval is how often a Scheduler sweeps after the first run.
const DefaultSweepInterval = 24 * time.Hour

// Scheduler drives Store.Sweep on a fixed interval. It owns its goroutine:
// Stop cancels it and waits for it to exit.
type Scheduler struct {
	store    *Store
	interval time.Duration

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

// NewScheduler returns a stopped scheduler. A non-positive interval uses
// DefaultSweepInterval.
func NewScheduler(store *Store, interval time.Duration) *Scheduler {
	if interval <= 0 {
		interval = DefaultSweepInterval
	}
	return &Scheduler{store: store, interval: interval}
}

// Start sweeps once immediately, then every interval until ctx is cancelled
// or Stop is called. Starting a running scheduler is a no-op.
func (s *Scheduler) Start(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel != nil {
		return
	}
	ctx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	s.cancel = cancel
	s.done = done

	go func() {
		defer close(done)
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		for {
			s.store.Sweep()
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
			}
		}
	}()
}

// Stop cancels the sweep loop and blocks until it has exited. It is safe to
// call more than once.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	cancel, done := s.cancel, s.done
	s.cancel, s.done = nil, nil
	s.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-done
}

// Running reports whether the sweep loop is active.
func (s *Scheduler) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cancel != nil
}
