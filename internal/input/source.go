package input

import "github.com/vovakirdan/companion-arcade/internal/core"

// Source is the device that drives a continuous position.
type Source int

const (
	SourceUnset Source = iota
	SourceTouch
	SourceTilt
)

// String returns a lowercase name.
func (s Source) String() string {
	switch s {
	case SourceTouch:
		return "touch"
	case SourceTilt:
		return "tilt"
	default:
		return "unset"
	}
}

// ParseSource reads "touch" or "tilt"; anything else is touch.
func ParseSource(s string) Source {
	if s == "tilt" {
		return SourceTilt
	}
	return SourceTouch
}

// SourceSelector picks exactly one position source per session. The
// first Choose wins; later calls return the same source.
type SourceSelector struct {
	chosen Source
	Tilt   Tilt
}

// NewSourceSelector creates an undecided selector with default tilt tuning.
func NewSourceSelector() *SourceSelector {
	return &SourceSelector{Tilt: DefaultTilt()}
}

// Choose settles the source. Tilt is used only if the player permitted it
// and the device has a sensor; otherwise touch.
func (s *SourceSelector) Choose(tiltPermitted, sensorPresent bool) Source {
	if s.chosen != SourceUnset {
		return s.chosen
	}
	if tiltPermitted && sensorPresent {
		s.chosen = SourceTilt
	} else {
		s.chosen = SourceTouch
	}
	return s.chosen
}

// Chosen returns the settled source, or SourceUnset.
func (s *SourceSelector) Chosen() Source { return s.chosen }

// Position extracts the 0-100 position from a frame using only the chosen
// source. It reports false when that source gave no reading.
func (s *SourceSelector) Position(f core.InputFrame) (float64, bool) {
	switch s.chosen {
	case SourceTilt:
		if f.Tilt.Set {
			return s.Tilt.Map(f.Tilt.Value), true
		}
	case SourceTouch:
		if f.Pointer.Set {
			return f.Pointer.Value, true
		}
	}
	return 0, false
}
