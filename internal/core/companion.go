package core

// CompanionStats are the companion creature's attributes supplied by the host.
// Games read them to soften difficulty and never modify them.
type CompanionStats struct {
	Mind int `toml:"mind"`
	Body int `toml:"body"`
	Soul int `toml:"soul"`
}

func (s CompanionStats) clamped() CompanionStats {
	return CompanionStats{
		Mind: Clamp(s.Mind, 0, 100),
		Body: Clamp(s.Body, 0, 100),
		Soul: Clamp(s.Soul, 0, 100),
	}
}

// ToleranceScale widens timing and alignment windows: 1.0 at Mind 0, 1.2 at Mind 100.
func (s CompanionStats) ToleranceScale() float64 {
	return 1 + float64(s.clamped().Mind)/500
}

// SpeedScale slows adversarial motion: 1.0 at Body 0, 0.8 at Body 100.
func (s CompanionStats) SpeedScale() float64 {
	return 1 - float64(s.clamped().Body)/500
}

// BonusCapacity is extra miss budget or lives granted by Soul (0-2).
func (s CompanionStats) BonusCapacity() int {
	return s.clamped().Soul / 34
}
