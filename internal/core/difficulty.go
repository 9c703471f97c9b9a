package core

import (
	"fmt"
	"strings"
)

// Difficulty is the tier a session is played at. It is fixed for the
// lifetime of a session and selects a record of tunables.
type Difficulty string

const (
	DifficultyBeginner Difficulty = "beginner"
	DifficultyEasy     Difficulty = "easy"
	DifficultyMedium   Difficulty = "medium"
	DifficultyHard     Difficulty = "hard"
	DifficultyMaster   Difficulty = "master"
)

// ThreeTier returns the tiers offered by three-tier games.
func ThreeTier() []Difficulty {
	return []Difficulty{DifficultyEasy, DifficultyMedium, DifficultyHard}
}

// FiveTier returns the tiers offered by five-tier games.
func FiveTier() []Difficulty {
	return []Difficulty{DifficultyBeginner, DifficultyEasy, DifficultyMedium, DifficultyHard, DifficultyMaster}
}

// ParseDifficulty converts a user-supplied string into a Difficulty.
// An empty string selects medium.
func ParseDifficulty(s string) (Difficulty, error) {
	switch d := Difficulty(strings.ToLower(strings.TrimSpace(s))); d {
	case "":
		return DifficultyMedium, nil
	case DifficultyBeginner, DifficultyEasy, DifficultyMedium, DifficultyHard, DifficultyMaster:
		return d, nil
	default:
		return "", fmt.Errorf("unknown difficulty %q", s)
	}
}

// Rank orders tiers from 0 (beginner) to 4 (master).
func (d Difficulty) Rank() int {
	switch d {
	case DifficultyBeginner:
		return 0
	case DifficultyEasy:
		return 1
	case DifficultyHard:
		return 3
	case DifficultyMaster:
		return 4
	default:
		return 2
	}
}

// Within returns d if it is one of tiers, otherwise the closest tier by rank.
func (d Difficulty) Within(tiers []Difficulty) Difficulty {
	if len(tiers) == 0 {
		return d
	}
	best := tiers[0]
	for _, t := range tiers {
		if t == d {
			return d
		}
		if Abs(t.Rank()-d.Rank()) < Abs(best.Rank()-d.Rank()) {
			best = t
		}
	}
	return best
}
