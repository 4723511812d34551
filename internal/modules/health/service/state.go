package service

import (
	"sync/atomic"
	"time"
)

// State — живость бота для /readyz и /healthz.
type State struct {
	ready     atomic.Bool
	startedAt time.Time

	activeJobs    atomic.Int64
	lastCycleUnix atomic.Int64 // unix seconds
	lastSignal    atomic.Int64 // unix seconds
}

func NewState() *State {
	s := &State{startedAt: time.Now()}
	s.ready.Store(false)
	return s
}

func (s *State) SetReady(v bool) { s.ready.Store(v) }
func (s *State) Ready() bool     { return s.ready.Load() }

func (s *State) SetActiveJobs(n int) { s.activeJobs.Store(int64(n)) }
func (s *State) ActiveJobs() int     { return int(s.activeJobs.Load()) }

func (s *State) TouchCycle(t time.Time)  { s.lastCycleUnix.Store(t.Unix()) }
func (s *State) LastCycle() time.Time    { return fromUnix(s.lastCycleUnix.Load()) }
func (s *State) TouchSignal(t time.Time) { s.lastSignal.Store(t.Unix()) }
func (s *State) LastSignal() time.Time   { return fromUnix(s.lastSignal.Load()) }

func (s *State) Uptime() time.Duration { return time.Since(s.startedAt) }

func fromUnix(u int64) time.Time {
	if u == 0 {
		return time.Time{}
	}
	return time.Unix(u, 0)
}
