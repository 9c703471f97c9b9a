package input

// Debouncer accepts a discrete action at most once per Interval seconds.
type Debouncer struct {
	Interval float64
	last     float64
	seen     bool
}

// Allow reports whether an action at time now (seconds) is accepted.
func (d *Debouncer) Allow(now float64) bool {
	if d.seen && now-d.last < d.Interval {
		return false
	}
	d.last = now
	d.seen = true
	return true
}

// Reset forgets the last accepted action.
func (d *Debouncer) Reset() { d.seen = false }
