// Package scoring holds the judgement and scoring rules shared by the
// mini-games: combo multipliers, accuracy and result tiers, miss budgets,
// timing windows, intensity pulses and lock-on accumulation.
package scoring

// Multiplier returns the point multiplier for a combo count.
func Multiplier(combo int) int {
	switch {
	case combo >= 50:
		return 4
	case combo >= 25:
		return 3
	case combo >= 10:
		return 2
	default:
		return 1
	}
}

// Combo tracks consecutive successes. Max is the session peak and never
// decreases.
type Combo struct {
	Current int
	Max     int
}

// Hit extends the combo and returns base points scaled by the multiplier
// of the extended combo.
func (c *Combo) Hit(base int) int {
	c.Current++
	c.Max = max(c.Max, c.Current)
	return base * Multiplier(c.Current)
}

// Miss breaks the combo. Max is kept.
func (c *Combo) Miss() {
	c.Current = 0
}

// Multiplier returns the multiplier for the current combo.
func (c Combo) Multiplier() int {
	return Multiplier(c.Current)
}

// Mercy is a tolerance factor that tightens on every hit and resets to
// 1.0 on any miss.
type Mercy struct {
	Factor float64
	Rate   float64 // fraction removed per hit
	Floor  float64 // lowest factor reachable
}

// NewMercy creates a factor starting at 1.0.
func NewMercy(rate, floor float64) Mercy {
	return Mercy{Factor: 1, Rate: rate, Floor: floor}
}

// Hit tightens the factor.
func (m *Mercy) Hit() {
	m.Factor = max(m.Factor*(1-m.Rate), m.Floor)
}

// Miss restores the full tolerance.
func (m *Mercy) Miss() {
	m.Factor = 1
}
