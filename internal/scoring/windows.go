package scoring

import "math"

// Judgment is the quality of a single action.
type Judgment int

const (
	JudgeMiss Judgment = iota
	JudgeGood
	JudgeGreat
	JudgePerfect
)

// String returns a lowercase label.
func (j Judgment) String() string {
	switch j {
	case JudgePerfect:
		return "perfect"
	case JudgeGreat:
		return "great"
	case JudgeGood:
		return "good"
	default:
		return "miss"
	}
}

// Windows are nested distance limits around a hit zone: Perfect < Great < Good.
type Windows struct {
	Perfect float64 `yaml:"perfect"`
	Great   float64 `yaml:"great"`
	Good    float64 `yaml:"good"`
}

// Scale widens (or narrows) every window by s.
func (w Windows) Scale(s float64) Windows {
	return Windows{Perfect: w.Perfect * s, Great: w.Great * s, Good: w.Good * s}
}

// Judge classifies the absolute distance from the hit zone. Bounds are
// inclusive.
func (w Windows) Judge(distance float64) Judgment {
	d := math.Abs(distance)
	switch {
	case d <= w.Perfect:
		return JudgePerfect
	case d <= w.Great:
		return JudgeGreat
	case d <= w.Good:
		return JudgeGood
	default:
		return JudgeMiss
	}
}

// Passed reports whether progress has gone beyond the hit zone by more
// than the widest window.
func (w Windows) Passed(progress, hitZone float64) bool {
	return progress-hitZone > w.Good
}

// Intensity is a smooth 0-1 oscillation of phase.
func Intensity(phase float64) float64 {
	return (math.Sin(phase) + 1) / 2
}

// DefaultPulsePerfect is the intensity above which a tap is perfect.
const DefaultPulsePerfect = 0.92

// PulseJudge judges a tap on an oscillating target by its intensity.
type PulseJudge struct {
	Perfect   float64
	Threshold float64
}

// Judge returns perfect above Perfect, good above Threshold, else miss.
func (p PulseJudge) Judge(intensity float64) Judgment {
	switch {
	case intensity > p.Perfect:
		return JudgePerfect
	case intensity > p.Threshold:
		return JudgeGood
	default:
		return JudgeMiss
	}
}
