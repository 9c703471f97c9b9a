package engine

import "math"

// Countdown counts down from a number of seconds while running and calls
// its completion function once when it reaches zero.
type Countdown struct {
	initial   float64
	remaining float64
	running   bool
	fired     bool
	onDone    func()
}

// NewCountdown creates a stopped countdown.
func NewCountdown(seconds float64, onDone func()) *Countdown {
	if seconds < 0 {
		seconds = 0
	}
	return &Countdown{initial: seconds, remaining: seconds, onDone: onDone}
}

// SetRunning starts or pauses the countdown. Toggling it never re-fires
// the completion.
func (c *Countdown) SetRunning(on bool) {
	c.running = on && !c.fired
}

// Running reports whether the countdown is ticking.
func (c *Countdown) Running() bool { return c.running }

// Advance subtracts dt seconds while running.
func (c *Countdown) Advance(dt float64) {
	if !c.running || c.fired || dt <= 0 {
		return
	}
	c.remaining -= dt
	if c.remaining > 0 {
		return
	}
	c.remaining = 0
	c.running = false
	c.fired = true
	if c.onDone != nil {
		c.onDone()
	}
}

// Remaining returns the seconds left, never below zero.
func (c *Countdown) Remaining() float64 { return c.remaining }

// Seconds returns the whole seconds to display (3, 2, 1, 0).
func (c *Countdown) Seconds() int {
	return int(math.Ceil(c.remaining))
}

// Done reports whether the countdown reached zero.
func (c *Countdown) Done() bool { return c.fired }

// Reset re-arms the countdown from its initial duration. It stays stopped.
func (c *Countdown) Reset() {
	c.remaining = c.initial
	c.fired = false
	c.running = false
}
