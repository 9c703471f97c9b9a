package core

import "maps"

// ResultTier classifies how well a session went.
type ResultTier string

const (
	TierPerfect ResultTier = "perfect"
	TierGood    ResultTier = "good"
	TierPartial ResultTier = "partial"
	TierFail    ResultTier = "fail"
)

// MiniGameResult is the single terminal outcome of a session. Build it with
// NewResult; the value is handed to the host exactly once.
type MiniGameResult struct {
	Success        bool
	Accuracy       float64 // 0-100
	Result         ResultTier
	GameStats      map[string]int
	HighScoreValue int
	BonusXP        int
}

// NewResult constructs a result, clamping accuracy and copying stats so the
// caller's map can keep changing without affecting the result.
func NewResult(success bool, accuracy float64, tier ResultTier, stats map[string]int) MiniGameResult {
	return MiniGameResult{
		Success:   success,
		Accuracy:  ClampF(accuracy, 0, 100),
		Result:    tier,
		GameStats: maps.Clone(stats),
	}
}

// Stat returns a named game statistic, or 0.
func (r MiniGameResult) Stat(name string) int {
	return r.GameStats[name]
}

// DamageTarget is who receives damage in a combat-integrated session.
type DamageTarget string

const (
	DamagePlayer    DamageTarget = "player"
	DamageAdversary DamageTarget = "adversary"
)

// DamageEvent is an informational notification to the host.
type DamageEvent struct {
	Target DamageTarget
	Amount int
	Source string
}
