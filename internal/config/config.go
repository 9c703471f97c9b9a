// Package config holds the per-difficulty tunables of every game and the
// player profile. Tunables are YAML tables keyed by difficulty tier;
// defaults are embedded in the binary and can be overridden per user.
package config

import (
	"github.com/vovakirdan/companion-arcade/internal/scoring"
)

// RhythmTier tunes the note-lane game.
type RhythmTier struct {
	NoteSpeed     float64         `yaml:"note_speed"`     // progress units per second
	SpawnInterval float64         `yaml:"spawn_interval"` // seconds between chart notes
	NoteCount     int             `yaml:"note_count"`     // notes per song
	Windows       scoring.Windows `yaml:"windows"`
	MaxMisses     int             `yaml:"max_misses"`
	ChordChance   float64         `yaml:"chord_chance"` // chance of a two-lane note
}

// TuningTier tunes the frequency lock-on game.
type TuningTier struct {
	Tolerance        float64 `yaml:"tolerance"`
	LockTime         float64 `yaml:"lock_time"`
	DecayRate        float64 `yaml:"decay_rate"`
	TargetCount      int     `yaml:"target_count"`
	DriftSpeed       float64 `yaml:"drift_speed"`
	DecoyChance      float64 `yaml:"decoy_chance"`
	DecoyPenalty     int     `yaml:"decoy_penalty"`
	StunTime         float64 `yaml:"stun_time"`
	TimeLimit        float64 `yaml:"time_limit"`
	InterferenceEach float64 `yaml:"interference_every"`
	PhaseShiftEach   float64 `yaml:"phase_shift_every"`
	PlayerSpeed      float64 `yaml:"player_speed"` // axis units per second for keys
}

// SnakeTier tunes the grid serpent.
type SnakeTier struct {
	Width        int     `yaml:"width"`
	Height       int     `yaml:"height"`
	MoveInterval float64 `yaml:"move_interval"` // seconds per cell
	Target       int     `yaml:"target"`        // stardust to collect
	TimeLimit    float64 `yaml:"time_limit"`
}

// CometTier tunes the comet variant of the serpent.
type CometTier struct {
	Width        int     `yaml:"width"`
	Height       int     `yaml:"height"`
	MoveInterval float64 `yaml:"move_interval"`
	TargetScore  int     `yaml:"target_score"`
	TimeLimit    float64 `yaml:"time_limit"`
	Shards       int     `yaml:"shards"`
	ShardPenalty int     `yaml:"shard_penalty"`
	ComboWindow  float64 `yaml:"combo_window"` // seconds between pickups that chain
}

// RunesTier tunes the memorise-and-repeat game.
type RunesTier struct {
	Runes        int     `yaml:"runes"`        // distinct runes on the board
	StartLength  int     `yaml:"start_length"` // sequence length of round one
	Rounds       int     `yaml:"rounds"`
	ShowTime     float64 `yaml:"show_time"` // seconds each rune is revealed
	Decoys       int     `yaml:"decoys"`
	QuickTime    float64 `yaml:"quick_time"` // pick within this for the quick bonus
	DecoyPenalty int     `yaml:"decoy_penalty"`
	StunTime     float64 `yaml:"stun_time"`
	MaxMisses    int     `yaml:"max_misses"`
	TimeLimit    float64 `yaml:"time_limit"`
}

// DodgeTier tunes the falling-object game.
type DodgeTier struct {
	TimeLimit     float64 `yaml:"time_limit"`
	SpawnInterval float64 `yaml:"spawn_interval"`
	FallSpeed     float64 `yaml:"fall_speed"`
	CrystalChance float64 `yaml:"crystal_chance"`
	PlayerSpeed   float64 `yaml:"player_speed"`
	Lives         int     `yaml:"lives"`
	CatchWidth    float64 `yaml:"catch_width"`
}

// PulseTier tunes the oscillating constellation game.
type PulseTier struct {
	Nodes            int     `yaml:"nodes"`
	Rounds           int     `yaml:"rounds"`
	HitsPerRound     int     `yaml:"hits_per_round"`
	Threshold        float64 `yaml:"threshold"`
	ShrinkRate       float64 `yaml:"shrink_rate"`
	ShrinkFloor      float64 `yaml:"shrink_floor"`
	PhaseSpeed       float64 `yaml:"phase_speed"` // radians per second
	MaxMisses        int     `yaml:"max_misses"`
	TimeLimit        float64 `yaml:"time_limit"`
	InterferenceEach float64 `yaml:"interference_every"`
	Damage           int     `yaml:"damage"`
}

// PuzzleTier tunes the daily lights-out grid.
type PuzzleTier struct {
	Size      int     `yaml:"size"`
	Scramble  int     `yaml:"scramble"`
	TimeLimit float64 `yaml:"time_limit"`
}
