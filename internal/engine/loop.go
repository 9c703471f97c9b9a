package engine

import (
	"context"
	"sync"
	"time"
)

// DefaultMaxDelta bounds a single frame's delta in seconds.
const DefaultMaxDelta = 0.25

// FrameFunc is called once per frame with the elapsed seconds since the
// previous frame and the frame's timestamp.
type FrameFunc func(dt float64, now time.Time)

// Loop drives a FrameFunc from host timestamps. While stopped it ignores
// frames; the first frame after (re)starting reports dt = 0.
type Loop struct {
	mu       sync.Mutex
	callback FrameFunc
	running  bool
	last     time.Time

	// MaxDelta clamps long gaps (a stalled terminal, a suspended laptop).
	MaxDelta float64
}

// NewLoop creates a stopped loop.
func NewLoop(fn FrameFunc) *Loop {
	return &Loop{callback: fn, MaxDelta: DefaultMaxDelta}
}

// SetCallback replaces the frame callback. The next frame uses it.
func (l *Loop) SetCallback(fn FrameFunc) {
	l.mu.Lock()
	l.callback = fn
	l.mu.Unlock()
}

// SetRunning starts or stops the loop. Stopping forgets the last
// timestamp so a later restart does not see the stopped interval.
func (l *Loop) SetRunning(on bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.running == on {
		return
	}
	l.running = on
	l.last = time.Time{}
}

// Running reports whether frames are delivered.
func (l *Loop) Running() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.running
}

// Frame delivers one frame at now. It returns false when the loop is stopped.
// The callback runs without the lock held, so it may stop the loop or
// replace itself.
func (l *Loop) Frame(now time.Time) bool {
	l.mu.Lock()
	if !l.running {
		l.mu.Unlock()
		return false
	}
	dt := 0.0
	if !l.last.IsZero() {
		dt = now.Sub(l.last).Seconds()
		if dt < 0 {
			dt = 0
		}
		if l.MaxDelta > 0 && dt > l.MaxDelta {
			dt = l.MaxDelta
		}
	}
	l.last = now
	fn := l.callback
	l.mu.Unlock()

	if fn != nil {
		fn(dt, now)
	}
	return true
}

// Run delivers frames every interval using clock until ctx is done.
// Frames are skipped (not queued) while the loop is stopped.
func (l *Loop) Run(ctx context.Context, interval time.Duration, clock Clock) error {
	if clock == nil {
		clock = SystemClock{}
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			l.Frame(clock.Now())
		}
	}
}
