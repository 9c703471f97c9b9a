package engine

// TimerID identifies a scheduled callback. Zero is never issued.
type TimerID uint64

type timer struct {
	id    TimerID
	at    float64
	every float64
	fn    func()
}

// Scheduler runs timeouts and intervals on game time. It only moves when
// Advance is called, so a paused session freezes every pending timer.
// Release cancels everything; a released scheduler ignores new work.
type Scheduler struct {
	now      float64
	nextID   TimerID
	timers   map[TimerID]*timer
	released bool
}

// NewScheduler creates an empty scheduler at game time zero.
func NewScheduler() *Scheduler {
	return &Scheduler{timers: make(map[TimerID]*timer)}
}

// After runs fn once, delay seconds of game time from now.
func (s *Scheduler) After(delay float64, fn func()) TimerID {
	return s.add(max(delay, 0), 0, fn)
}

// Every runs fn each interval seconds of game time. A non-positive
// interval schedules nothing.
func (s *Scheduler) Every(interval float64, fn func()) TimerID {
	if interval <= 0 {
		return 0
	}
	return s.add(interval, interval, fn)
}

func (s *Scheduler) add(delay, every float64, fn func()) TimerID {
	if s.released || fn == nil {
		return 0
	}
	s.nextID++
	s.timers[s.nextID] = &timer{id: s.nextID, at: s.now + delay, every: every, fn: fn}
	return s.nextID
}

// Cancel removes a pending timer. Unknown ids are ignored.
func (s *Scheduler) Cancel(id TimerID) {
	delete(s.timers, id)
}

// Advance moves game time forward and fires due timers in time order.
// Callbacks may schedule or cancel timers.
func (s *Scheduler) Advance(dt float64) {
	if s.released || dt < 0 {
		return
	}
	s.now += dt
	for !s.released {
		t := s.nextDue()
		if t == nil {
			return
		}
		if t.every > 0 {
			t.at += t.every
		} else {
			delete(s.timers, t.id)
		}
		t.fn()
	}
}

func (s *Scheduler) nextDue() *timer {
	var due *timer
	for _, t := range s.timers {
		if t.at > s.now {
			continue
		}
		if due == nil || t.at < due.at || (t.at == due.at && t.id < due.id) {
			due = t
		}
	}
	return due
}

// Now returns the accumulated game time in seconds.
func (s *Scheduler) Now() float64 { return s.now }

// Pending returns the number of live timers.
func (s *Scheduler) Pending() int { return len(s.timers) }

// Release cancels all timers and disables the scheduler.
func (s *Scheduler) Release() {
	s.released = true
	clear(s.timers)
}

// Released reports whether Release was called.
func (s *Scheduler) Released() bool { return s.released }
