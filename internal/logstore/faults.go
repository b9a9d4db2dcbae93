package logstore

import (
	"sync"
	"time"

	charmLog "github.com/charmbracelet/log"
)

// Op names the store operation a swallowed fault came from.
type Op string

const (
	OpWrite Op = "write"
	OpSweep Op = "sweep"
)

// FaultSnapshot is a point-in-time copy of the fault counters.
type FaultSnapshot struct {
	WriteFaults int64     `json:"write_faults"`
	SweepFaults int64     `json:"sweep_faults"`
	LastFault   string    `json:"last_fault,omitempty"`
	LastFaultAt time.Time `json:"last_fault_at,omitempty"`
}

// faults counts errors that the writer and sweeper never return to callers.
type faults struct {
	mu     sync.Mutex
	snap   FaultSnapshot
	logger *charmLog.Logger
	hook   func(Op, error)
	now    Clock
}

func (f *faults) record(op Op, err error) {
	if err == nil {
		return
	}
	f.mu.Lock()
	switch op {
	case OpWrite:
		f.snap.WriteFaults++
	case OpSweep:
		f.snap.SweepFaults++
	}
	f.snap.LastFault = string(op) + ": " + err.Error()
	f.snap.LastFaultAt = f.now()
	f.mu.Unlock()

	f.logger.Warn("log store fault", "op", op, "err", err)
	if f.hook != nil {
		f.hook(op, err)
	}
}

func (f *faults) snapshot() FaultSnapshot {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.snap
}
