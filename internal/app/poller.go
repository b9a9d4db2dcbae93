package app

import (
	"context"
	"io"
	"sync"
	"sync/atomic"
	"time"

	charmLog "github.com/charmbracelet/log"

	"github.com/five82/daylog/internal/state"
)

const (
	defaultPollInterval = 2 * time.Second
	maxBackoff          = 30 * time.Second
)

// PartitionLister is the slice of the API client the poller needs.
type PartitionLister interface {
	ListPartitions(ctx context.Context) ([]string, error)
}

// Poller refreshes the partition list into a state.Store on a fixed cadence,
// backing off while the daemon is unreachable. It is an explicit handle:
// nothing runs until Start, and Stop waits for the goroutine to exit.
type Poller struct {
	store    *state.Store
	lister   PartitionLister
	interval time.Duration
	logger   *charmLog.Logger

	paused atomic.Bool
	wake   chan struct{}

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

// NewPoller builds a stopped poller. A non-positive interval uses the default.
func NewPoller(store *state.Store, lister PartitionLister, interval time.Duration, logger *charmLog.Logger) *Poller {
	if interval <= 0 {
		interval = defaultPollInterval
	}
	if logger == nil {
		logger = charmLog.New(io.Discard)
	}
	return &Poller{
		store:    store,
		lister:   lister,
		interval: interval,
		logger:   logger,
		wake:     make(chan struct{}, 1),
	}
}

// Start launches the polling goroutine. Calling Start on a running poller is
// a no-op.
func (p *Poller) Start(ctx context.Context) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.cancel != nil {
		return
	}
	ctx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	p.cancel = cancel
	p.done = done

	go func() {
		defer close(done)
		timer := time.NewTimer(0)
		defer timer.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-timer.C:
			case <-p.wake:
			}
			if !p.paused.Load() {
				_ = p.Refresh(ctx)
			}
			failures := p.store.Snapshot().ConsecutiveFailures
			timer.Reset(calculateBackoff(failures, p.interval))
		}
	}()
}

// Stop cancels the polling goroutine and waits for it to exit. It is safe to
// call more than once.
func (p *Poller) Stop() {
	p.mu.Lock()
	cancel, done := p.cancel, p.done
	p.cancel, p.done = nil, nil
	p.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-done
}

// Pause suspends polling without stopping the goroutine. The viewer pauses
// while its terminal is not focused.
func (p *Poller) Pause() {
	p.paused.Store(true)
}

// Resume re-enables polling and triggers an immediate refresh.
func (p *Poller) Resume() {
	if !p.paused.Swap(false) {
		return
	}
	select {
	case p.wake <- struct{}{}:
	default:
	}
}

// Paused reports whether polling is suspended.
func (p *Poller) Paused() bool {
	return p.paused.Load()
}

// Refresh fetches the partition list once and records the outcome.
func (p *Poller) Refresh(ctx context.Context) error {
	ids, err := p.lister.ListPartitions(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		p.store.Update(nil, err)
		p.logger.Warn("partition poll failed", "err", err)
		return err
	}
	p.store.Update(ids, nil)
	return nil
}

// calculateBackoff doubles the base interval per consecutive failure, capped
// at maxBackoff.
func calculateBackoff(failures int, base time.Duration) time.Duration {
	if failures <= 0 {
		return base
	}
	backoff := base
	for i := 0; i < failures; i++ {
		backoff *= 2
		if backoff >= maxBackoff {
			return maxBackoff
		}
	}
	return backoff
}
