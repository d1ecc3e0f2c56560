package web

import (
	"sync"
	"time"

	"github.com/cjeanneret/heliogo/internal/telemetry"
)

// State keeps the latest cycle outcome for the status endpoint.
type State struct {
	mu      sync.RWMutex
	started time.Time
	cycles  uint64
	last    *telemetry.Record
}

// NewState creates a state store; started is stamped now.
func NewState() *State {
	return &State{started: time.Now()}
}

// Update stores the latest record and bumps the cycle counter.
func (s *State) Update(rec telemetry.Record) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cycles++
	s.last = &rec
}

// Snapshot returns the current status for serialization.
func (s *State) Snapshot() Status {
	s.mu.RLock()
	defer s.mu.RUnlock()

	st := Status{
		Started: s.started,
		Cycles:  s.cycles,
	}
	if s.last != nil {
		rec := *s.last
		st.Last = &rec
	}
	return st
}

// Status is the JSON payload of GET /status.
type Status struct {
	Started time.Time         `json:"started"`
	Cycles  uint64            `json:"cycles"`
	Last    *telemetry.Record `json:"last,omitempty"`
}
