package logstore

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestScheduler_SweepsOnStartAndStops(t *testing.T) {
	store := newTestStore(t, Options{})
	writePartition(t, store.Dir(), "2025-02-01", []string{"old"}, 30*24*time.Hour)
	expired := filepath.Join(store.Dir(), "2025-02-01.log")

	sched := NewScheduler(store, time.Hour)
	if sched.Running() {
		t.Fatalf("Running = true before Start")
	}
	sched.Start(context.Background())
	sched.Start(context.Background())
	if !sched.Running() {
		t.Fatalf("Running = false after Start")
	}

	deadline := time.Now().Add(2 * time.Second)
	for {
		if _, err := os.Stat(expired); os.IsNotExist(err) {
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("expired partition still present after initial sweep")
		}
		time.Sleep(10 * time.Millisecond)
	}

	sched.Stop()
	sched.Stop()
	if sched.Running() {
		t.Fatalf("Running = true after Stop")
	}
}

func TestScheduler_StopsWhenContextCancelled(t *testing.T) {
	store := newTestStore(t, Options{})
	sched := NewScheduler(store, 0)
	if sched.interval != DefaultSweepInterval {
		t.Fatalf("interval = %v, want %v", sched.interval, DefaultSweepInterval)
	}

	ctx, cancel := context.WithCancel(context.Background())
	sched.Start(ctx)
	cancel()

	done := make(chan struct{})
	go func() {
		sched.Stop()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatalf("Stop did not return after context cancellation")
	}
}
