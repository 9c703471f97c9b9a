package config

import (
	"embed"
	"sort"
	"strings"
)

//go:embed defaults/*.yaml
var defaultsFS embed.FS

// DefaultYAML returns the embedded default table for a game, or nil.
func DefaultYAML(gameID string) []byte {
	data, err := defaultsFS.ReadFile("defaults/" + gameID + ".yaml")
	if err != nil {
		return nil
	}
	return data
}

// DefaultGames lists the games with embedded defaults.
func DefaultGames() []string {
	entries, err := defaultsFS.ReadDir("defaults")
	if err != nil {
		return nil
	}
	ids := make([]string, 0, len(entries))
	for _, e := range entries {
		ids = append(ids, strings.TrimSuffix(e.Name(), ".yaml"))
	}
	sort.Strings(ids)
	return ids
}
