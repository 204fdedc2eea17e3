package session

import "time"

// Clock schedules callbacks. The session only needs AfterFunc.
type Clock interface {
	AfterFunc(d time.Duration, f func()) Timer
}

// Timer is a pending callback created by Clock.AfterFunc.
type Timer interface {
	Stop() bool
}

type systemClock struct{}

func (systemClock) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

// schedule is a cancellable single-shot task. Arming replaces any pending task; each arming
// gets a new generation so a callback that raced with cancel can detect it is stale.
// The owner serializes access.
type schedule struct {
	clock Clock
	delay time.Duration
	timer Timer
	gen   uint64
}

func (s *schedule) arm(fire func(gen uint64)) {
	s.cancel()
	gen := s.gen
	s.timer = s.clock.AfterFunc(s.delay, func() { fire(gen) })
}

func (s *schedule) cancel() {
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	s.gen++
}

// take reports whether gen is the pending task and, if so, marks it fired.
func (s *schedule) take(gen uint64) bool {
	if s.timer == nil || gen != s.gen {
		return false
	}
	s.timer = nil
	s.gen++
	return true
}

func (s *schedule) pending() bool {
	return s.timer != nil
}
