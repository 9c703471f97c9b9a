package scoring

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/vovakirdan/companion-arcade/internal/core"
)

func TestMultiplier(t *testing.T) {
	tests := []struct {
		combo, want int
	}{
		{0, 1}, {9, 1}, {10, 2}, {24, 2}, {25, 3}, {49, 3}, {50, 4}, {500, 4},
	}
	for _, tc := range tests {
		if got := Multiplier(tc.combo); got != tc.want {
			t.Errorf("Multiplier(%d) = %d, expected %d", tc.combo, got, tc.want)
		}
	}
}

func TestComboMaxMonotonic(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	var c Combo
	prevMax := 0
	for i := range 1000 {
		if rng.Intn(4) == 0 {
			c.Miss()
		} else {
			c.Hit(100)
		}
		if c.Max < prevMax {
			t.Fatalf("step %d: max decreased from %d to %d", i, prevMax, c.Max)
		}
		if c.Max < c.Current {
			t.Fatalf("step %d: max %d below current %d", i, c.Max, c.Current)
		}
		prevMax = c.Max
	}
}

func TestComboPoints(t *testing.T) {
	var c Combo
	for range 9 {
		c.Hit(150)
	}
	if got := c.Hit(150); got != 300 {
		t.Errorf("10th hit = %d, expected 300", got)
	}
	c.Miss()
	if c.Current != 0 || c.Max != 10 {
		t.Errorf("after miss current=%d max=%d, expected 0 and 10", c.Current, c.Max)
	}
}

func TestMercy(t *testing.T) {
	m := NewMercy(0.1, 0.5)
	m.Hit()
	m.Hit()
	if m.Factor != 0.81 {
		t.Errorf("Factor = %f, expected 0.81", m.Factor)
	}
	for range 20 {
		m.Hit()
	}
	if m.Factor != 0.5 {
		t.Errorf("Factor = %f, expected floor 0.5", m.Factor)
	}
	m.Miss()
	if m.Factor != 1 {
		t.Errorf("Factor = %f, expected reset to 1", m.Factor)
	}
}

func TestAccuracyBounds(t *testing.T) {
	tests := []struct {
		achieved, best, want float64
	}{
		{50, 100, 50},
		{150, 100, 100},
		{-10, 100, 0},
		{10, 0, 0},
	}
	for _, tc := range tests {
		if got := Accuracy(tc.achieved, tc.best); got != tc.want {
			t.Errorf("Accuracy(%v, %v) = %v, expected %v", tc.achieved, tc.best, got, tc.want)
		}
	}
}

func TestBreakpoints(t *testing.T) {
	b := Breakpoints{Perfect: 90, Good: 70, Partial: 40}
	if err := b.Validate(); err != nil {
		t.Fatalf("Validate() = %v", err)
	}
	tests := []struct {
		acc  float64
		want core.ResultTier
	}{
		{100, core.TierPerfect},
		{90, core.TierPerfect},
		{89.9, core.TierGood},
		{40, core.TierPartial},
		{39, core.TierFail},
	}
	for _, tc := range tests {
		if got := b.Classify(tc.acc); got != tc.want {
			t.Errorf("Classify(%v) = %v, expected %v", tc.acc, got, tc.want)
		}
	}

	bad := Breakpoints{Perfect: 70, Good: 90, Partial: 40}
	if err := bad.Validate(); !errors.Is(err, ErrBreakpoints) {
		t.Errorf("Validate() = %v, expected ErrBreakpoints", err)
	}
}

func TestMissBudgetExhaustsOnLimit(t *testing.T) {
	m := MissBudget{Limit: 3}
	if m.Record() || m.Record() {
		t.Fatal("budget exhausted too early")
	}
	if !m.Record() {
		t.Error("third miss should exhaust a budget of 3")
	}

	unlimited := MissBudget{}
	for range 100 {
		if unlimited.Record() {
			t.Fatal("zero limit should never exhaust")
		}
	}
}

func TestWindowsJudge(t *testing.T) {
	w := Windows{Perfect: 5, Great: 9, Good: 14}
	tests := []struct {
		distance float64
		want     Judgment
	}{
		{0, JudgePerfect},
		{5, JudgePerfect},
		{7, JudgeGreat},
		{-7, JudgeGreat},
		{9, JudgeGreat},
		{14, JudgeGood},
		{14.5, JudgeMiss},
	}
	for _, tc := range tests {
		if got := w.Judge(tc.distance); got != tc.want {
			t.Errorf("Judge(%v) = %v, expected %v", tc.distance, got, tc.want)
		}
	}

	if w.Passed(99, 85) != false || w.Passed(99.5, 85) != true {
		t.Error("Passed should trigger only beyond the good window")
	}
}

func TestPulseJudge(t *testing.T) {
	p := PulseJudge{Perfect: DefaultPulsePerfect, Threshold: 0.6}
	if p.Judge(Intensity(1.5707963267948966)) != JudgePerfect {
		t.Error("peak intensity should be perfect")
	}
	if p.Judge(0.7) != JudgeGood {
		t.Error("0.7 should be good")
	}
	if p.Judge(0.6) != JudgeMiss {
		t.Error("threshold itself should miss")
	}
}

func TestLockOnPerfectAlignment(t *testing.T) {
	l := LockOn{Tolerance: 10, LockTime: 1.5, DecayRate: 0.5}
	locks := 0
	var last LockResult
	for range 90 {
		res := l.Update(0, 1, 1.0/60)
		if res.Locked {
			locks++
			last = res
		}
	}
	if locks != 1 {
		t.Fatalf("locked %d times, expected exactly once", locks)
	}
	if !last.Perfect {
		t.Error("lock at distance 0 should be perfect")
	}
	if l.Progress != 1 {
		t.Errorf("Progress = %f, expected 1", l.Progress)
	}

	// Further ticks never lock again
	for range 60 {
		if l.Update(0, 1, 1.0/60).Locked {
			t.Fatal("locked twice")
		}
	}
}

func TestLockOnOuterBandAndDecay(t *testing.T) {
	l := LockOn{Tolerance: 9, LockTime: 1, DecayRate: 1}
	res := l.Update(6, 1, 0.5)
	if !res.Aligned || res.Perfect {
		t.Fatalf("distance 6 of 9 should be aligned, not perfect: %+v", res)
	}
	if l.Progress != 0.3 {
		t.Errorf("Progress = %f, expected 0.3", l.Progress)
	}

	l.Update(20, 1, 0.1)
	if l.Progress < 0.199 || l.Progress > 0.201 {
		t.Errorf("Progress = %f, expected decay to 0.2", l.Progress)
	}
	l.Update(20, 1, 5)
	if l.Progress != 0 {
		t.Errorf("Progress = %f, expected floor at 0", l.Progress)
	}

	// A wider scale aligns the same distance
	if !l.Update(12, 1.5, 0.1).Aligned {
		t.Error("scale 1.5 should align distance 12 with tolerance 9")
	}
}

func TestOutcome(t *testing.T) {
	b := Breakpoints{Perfect: 90, Good: 70, Partial: 50}

	r := Outcome(true, 75, b, map[string]int{"score": 900})
	if r.Result != core.TierGood || r.HighScoreValue != 900 || r.BonusXP != 30 {
		t.Errorf("Outcome() = %+v", r)
	}

	failed := Outcome(false, 95, b, map[string]int{"score": 10})
	if failed.Result != core.TierFail || failed.BonusXP != 0 || failed.Success {
		t.Errorf("failed Outcome() = %+v, expected fail tier", failed)
	}
	if failed.Accuracy != 95 {
		t.Errorf("Accuracy = %v, expected 95 kept", failed.Accuracy)
	}
}
