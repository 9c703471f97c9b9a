package metrics

// Metric label keys.
const (
	LabelGame = "game"
	LabelTier = "tier"
)
