package scoring

import "math"

const (
	lockEpsilon    = 1e-9
	innerQuality   = 1.0
	outerQuality   = 0.6
	innerBandRatio = 3.0
)

// LockResult describes one lock-on update.
type LockResult struct {
	Aligned bool // within tolerance this tick
	Perfect bool // within the inner band this tick
	Locked  bool // progress reached 1.0 on this tick
}

// LockOn accumulates sustained alignment between a player position and a
// target. Alignment inside a third of the tolerance counts at full rate,
// the rest of the band at 0.6; progress decays while misaligned.
type LockOn struct {
	Tolerance float64 // base alignment band, in axis units
	LockTime  float64 // seconds of perfect alignment to lock
	DecayRate float64 // progress lost per second while misaligned

	Progress float64
	locked   bool
}

// Update advances the accumulator. scale multiplies the tolerance
// (companion Mind, interference). Locked is reported exactly once.
func (l *LockOn) Update(distance, scale, dt float64) LockResult {
	tol := l.Tolerance * scale
	d := math.Abs(distance)
	res := LockResult{
		Aligned: d <= tol,
		Perfect: d <= tol/innerBandRatio,
	}
	if l.locked || dt <= 0 || l.LockTime <= 0 {
		return res
	}

	if res.Aligned {
		quality := outerQuality
		if res.Perfect {
			quality = innerQuality
		}
		l.Progress += dt / l.LockTime * quality
	} else {
		l.Progress = math.Max(l.Progress-l.DecayRate*dt, 0)
	}

	if l.Progress >= 1-lockEpsilon {
		l.Progress = 1
		l.locked = true
		res.Locked = true
	}
	return res
}

// Locked reports whether the target has been locked.
func (l *LockOn) Locked() bool { return l.locked }

// Reset clears progress for a new target.
func (l *LockOn) Reset() {
	l.Progress = 0
	l.locked = false
}
