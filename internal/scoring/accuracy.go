package scoring

import (
	"errors"
	"fmt"

	"github.com/vovakirdan/companion-arcade/internal/core"
)

// ErrBreakpoints is returned for breakpoints that are not strictly ordered.
var ErrBreakpoints = errors.New("scoring: breakpoints must satisfy 100 >= perfect > good > partial > 0")

// Accuracy returns achieved as a percentage of best, clamped to [0, 100].
// A non-positive best yields 0.
func Accuracy(achieved, best float64) float64 {
	if best <= 0 {
		return 0
	}
	return core.ClampF(achieved/best*100, 0, 100)
}

// Breakpoints are a game's accuracy cutoffs for each result tier.
type Breakpoints struct {
	Perfect float64
	Good    float64
	Partial float64
}

// Classify maps an accuracy to a tier. Cutoffs are inclusive.
func (b Breakpoints) Classify(accuracy float64) core.ResultTier {
	switch {
	case accuracy >= b.Perfect:
		return core.TierPerfect
	case accuracy >= b.Good:
		return core.TierGood
	case accuracy >= b.Partial:
		return core.TierPartial
	default:
		return core.TierFail
	}
}

// Validate checks that the cutoffs are monotonic.
func (b Breakpoints) Validate() error {
	if b.Perfect > 100 || b.Perfect <= b.Good || b.Good <= b.Partial || b.Partial <= 0 {
		return fmt.Errorf("%w: got %v/%v/%v", ErrBreakpoints, b.Perfect, b.Good, b.Partial)
	}
	return nil
}

// MissBudget counts misses against a limit. A limit of zero or less
// means misses are never fatal.
type MissBudget struct {
	Limit int
	Used  int
}

// Record counts one miss and reports whether the budget is now exhausted.
func (m *MissBudget) Record() bool {
	m.Used++
	return m.Exhausted()
}

// Exhausted reports whether the limit has been reached.
func (m MissBudget) Exhausted() bool {
	return m.Limit > 0 && m.Used >= m.Limit
}

// Remaining returns misses left before the budget is exhausted.
func (m MissBudget) Remaining() int {
	if m.Limit <= 0 {
		return -1
	}
	return max(m.Limit-m.Used, 0)
}

// BonusXP is the experience awarded for a result tier.
func BonusXP(tier core.ResultTier) int {
	switch tier {
	case core.TierPerfect:
		return 50
	case core.TierGood:
		return 30
	case core.TierPartial:
		return 15
	default:
		return 0
	}
}

// Outcome builds a terminal result. A failed session is always TierFail;
// the score stat doubles as the high-score value.
func Outcome(success bool, accuracy float64, b Breakpoints, stats map[string]int) core.MiniGameResult {
	tier := core.TierFail
	if success {
		tier = b.Classify(accuracy)
	}
	r := core.NewResult(success, accuracy, tier, stats)
	r.HighScoreValue = stats["score"]
	r.BonusXP = BonusXP(tier)
	return r
}
