package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/vovakirdan/companion-arcade/internal/core"
)

// Profile is the player's saved setup in ~/.arcade/profile.toml.
type Profile struct {
	Companion   core.CompanionStats `toml:"companion"`
	Preferences Preferences         `toml:"preferences"`
	Content     ContentConfig       `toml:"content"`
}

// Preferences are host-side choices.
type Preferences struct {
	Difficulty string `toml:"difficulty"`
	Haptics    bool   `toml:"haptics"`
	Audio      bool   `toml:"audio"`
	Input      string `toml:"input"` // "touch" or "tilt"
	FPS        int    `toml:"fps"`
}

// ContentConfig points at the generated-track service.
type ContentConfig struct {
	TrackURL  string `toml:"track_url"`
	TimeoutMS int    `toml:"timeout_ms"`
}

// DefaultProfile returns the profile used when none is saved.
func DefaultProfile() Profile {
	return Profile{
		Companion: core.CompanionStats{Mind: 10, Body: 10, Soul: 10},
		Preferences: Preferences{
			Difficulty: string(core.DifficultyMedium),
			Haptics:    true,
			Input:      "touch",
			FPS:        60,
		},
		Content: ContentConfig{TimeoutMS: 5000},
	}
}

// DefaultProfilePath returns ~/.arcade/profile.toml, or empty if home is unavailable.
func DefaultProfilePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".arcade", "profile.toml")
}

// LoadProfile reads a profile from path. A missing file is not an error;
// missing keys keep their defaults.
func LoadProfile(path string) (Profile, error) {
	p := DefaultProfile()
	if path == "" {
		return p, nil
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return p, nil
		}
		return p, fmt.Errorf("failed to stat profile: %w", err)
	}
	if _, err := toml.DecodeFile(path, &p); err != nil {
		return DefaultProfile(), fmt.Errorf("failed to decode profile: %w", err)
	}
	return p, nil
}

// SaveProfile writes p to path, creating the directory if needed.
func SaveProfile(path string, p Profile) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("config: create profile dir: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("config: create profile: %w", err)
	}
	defer f.Close()

	if err := toml.NewEncoder(f).Encode(p); err != nil {
		return fmt.Errorf("config: encode profile: %w", err)
	}
	return nil
}
