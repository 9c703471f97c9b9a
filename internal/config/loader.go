package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// load reads a game's table.
// Search order: customPath -> ~/.arcade/configs/<game>.yaml -> ./configs/<game>.yaml -> embedded default
func load[T any](game, customPath string) (Table[T], error) {
	var table Table[T]
	filename := game + ".yaml"

	// Try custom path first
	if customPath != "" {
		data, err := os.ReadFile(customPath)
		if err != nil {
			return table, fmt.Errorf("failed to read config %s: %w", customPath, err)
		}
		if err := yaml.Unmarshal(data, &table); err != nil {
			return table, fmt.Errorf("failed to parse config %s: %w", customPath, err)
		}
		return table, nil
	}

	// Try user config directory
	if userCfgPath := userConfigPath(filename); userCfgPath != "" {
		if data, err := os.ReadFile(userCfgPath); err == nil {
			if err := yaml.Unmarshal(data, &table); err == nil && len(table.Tiers) > 0 {
				return table, nil
			}
		}
	}

	// Try local configs directory
	if data, err := os.ReadFile(filepath.Join("configs", filename)); err == nil {
		if err := yaml.Unmarshal(data, &table); err == nil && len(table.Tiers) > 0 {
			return table, nil
		}
	}

	// Use embedded default YAML
	data := DefaultYAML(game)
	if data == nil {
		return table, fmt.Errorf("config: no defaults for game %q", game)
	}
	table = Table[T]{}
	if err := yaml.Unmarshal(data, &table); err != nil {
		return table, fmt.Errorf("config: embedded %s: %w", filename, err)
	}
	return table, nil
}

// userConfigPath returns the path to user config file, or empty if home is unavailable.
func userConfigPath(filename string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".arcade", "configs", filename)
}

// LoadRhythm loads the rhythm game's tunables.
func LoadRhythm(customPath string) (Table[RhythmTier], error) {
	return load[RhythmTier]("rhythm", customPath)
}

// LoadTuning loads the frequency tuner's tunables.
func LoadTuning(customPath string) (Table[TuningTier], error) {
	return load[TuningTier]("tuning", customPath)
}

// LoadSnake loads the serpent's tunables.
func LoadSnake(customPath string) (Table[SnakeTier], error) {
	return load[SnakeTier]("snake", customPath)
}

// LoadComet loads the comet trail's tunables.
func LoadComet(customPath string) (Table[CometTier], error) {
	return load[CometTier]("comet", customPath)
}

// LoadRunes loads the rune sequence's tunables.
func LoadRunes(customPath string) (Table[RunesTier], error) {
	return load[RunesTier]("runes", customPath)
}

// LoadDodge loads the meteor dodge's tunables.
func LoadDodge(customPath string) (Table[DodgeTier], error) {
	return load[DodgeTier]("dodge", customPath)
}

// LoadPulse loads the astral pulse's tunables.
func LoadPulse(customPath string) (Table[PulseTier], error) {
	return load[PulseTier]("pulse", customPath)
}

// LoadPuzzle loads the daily puzzle's tunables.
func LoadPuzzle(customPath string) (Table[PuzzleTier], error) {
	return load[PuzzleTier]("puzzle", customPath)
}
