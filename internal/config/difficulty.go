package config

import (
	"errors"
	"fmt"

	"github.com/vovakirdan/companion-arcade/internal/core"
)

// ErrUnknownTier is returned when a table has neither the requested tier
// nor a medium fallback.
var ErrUnknownTier = errors.New("config: unknown difficulty tier")

// Table is a game's tunables keyed by difficulty tier. Each tier is a
// fixed record; nothing is interpolated between tiers.
type Table[T any] struct {
	Tiers map[core.Difficulty]T `yaml:"tiers"`
}

// Tier returns the record for d, falling back to medium.
func (t Table[T]) Tier(d core.Difficulty) (T, error) {
	if v, ok := t.Tiers[d]; ok {
		return v, nil
	}
	if v, ok := t.Tiers[core.DifficultyMedium]; ok {
		return v, nil
	}
	var zero T
	return zero, fmt.Errorf("%w: %q", ErrUnknownTier, d)
}

// Has reports whether the table defines d.
func (t Table[T]) Has(d core.Difficulty) bool {
	_, ok := t.Tiers[d]
	return ok
}
