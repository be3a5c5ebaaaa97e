// Package debounce delays an action until its input has been quiet for a
// configured interval.
package debounce

import (
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
)

// Delays used by the discovery session.
const (
	SearchDelay    = 300 * time.Millisecond
	CustomDelay    = 800 * time.Millisecond
	ReferenceDelay = 1000 * time.Millisecond
)

// Scheduler holds at most one pending action. Scheduling again before the
// delay elapses replaces the pending action and restarts the timer.
type Scheduler struct {
	mu      sync.Mutex
	clock   clockwork.Clock
	timer   clockwork.Timer
	gen     uint64
	stopped bool
}

// New creates a scheduler driven by clock (the real clock when nil).
func New(clock clockwork.Clock) *Scheduler {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Scheduler{clock: clock}
}

// Schedule arranges for action to run once after delay unless Schedule,
// Cancel or Stop is called first. It returns false after Stop.
func (s *Scheduler) Schedule(action func(), delay time.Duration) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.stopped {
		return false
	}
	s.stopLocked()

	gen := s.gen
	s.timer = s.clock.AfterFunc(delay, func() {
		s.fire(gen, action)
	})
	return true
}

// fire runs action only if no newer Schedule/Cancel happened since it was
// armed. Timer.Stop can lose the race with an expiring timer, so the
// generation check is what guarantees stale actions never run.
func (s *Scheduler) fire(gen uint64, action func()) {
	s.mu.Lock()
	if s.stopped || gen != s.gen {
		s.mu.Unlock()
		return
	}
	s.timer = nil
	s.gen++
	s.mu.Unlock()

	action()
}

// Cancel drops the pending action, if any, without running it.
func (s *Scheduler) Cancel() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopLocked()
}

// Stop cancels the pending action and refuses further scheduling. Safe to call
// more than once and from teardown paths.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopLocked()
	s.stopped = true
}

// Pending reports whether an action is waiting to run.
func (s *Scheduler) Pending() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.timer != nil
}

func (s *Scheduler) stopLocked() {
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	s.gen++
}
