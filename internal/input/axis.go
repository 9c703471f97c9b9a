package input

import (
	"math"

	"github.com/vovakirdan/companion-arcade/internal/core"
)

// PointerAxis maps a client coordinate onto the 0-100 axis of a play area
// starting at left with the given width. Points outside are clamped; an
// empty area maps to the centre.
func PointerAxis(clientX, left, width float64) float64 {
	if width <= 0 {
		return 50
	}
	return core.Percent((clientX - left) / width * 100)
}

// Tilt maps a device angle to the 0-100 axis, centred at 50.
type Tilt struct {
	Sensitivity float64 // multiplier applied past the deadzone
	Deadzone    float64 // degrees ignored around level
	MaxAngle    float64 // degrees that reach an edge at sensitivity 1
}

// DefaultTilt returns the tuning used when the profile has none.
func DefaultTilt() Tilt {
	return Tilt{Sensitivity: 1, Deadzone: 3, MaxAngle: 30}
}

// Map converts an angle in degrees.
func (t Tilt) Map(angle float64) float64 {
	if math.IsNaN(angle) || t.MaxAngle <= 0 {
		return 50
	}
	mag := math.Abs(angle) - t.Deadzone
	if mag <= 0 {
		return 50
	}
	offset := math.Copysign(mag*t.Sensitivity/t.MaxAngle*50, angle)
	return core.Percent(50 + offset)
}
