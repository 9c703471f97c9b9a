// Package registry provides a global registry for game factories.
// Games register themselves in init() functions, allowing the platform
// to discover and instantiate games without hardcoded dependencies.
package registry

import (
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/vovakirdan/companion-arcade/internal/audio"
	"github.com/vovakirdan/companion-arcade/internal/content"
	"github.com/vovakirdan/companion-arcade/internal/core"
	"github.com/vovakirdan/companion-arcade/internal/input"
	"github.com/vovakirdan/companion-arcade/internal/session"
)

// ErrUnknownGame is returned by Create for unregistered IDs.
var ErrUnknownGame = errors.New("registry: unknown game")

// Info describes a registered game.
type Info struct {
	ID    string
	Title string
	Blurb string
	Tiers []core.Difficulty
}

// Setup is everything a factory needs to build a game instance.
// Difficulty is fixed for the lifetime of the instance.
type Setup struct {
	Difficulty core.Difficulty
	Seed       int64
	ConfigPath string          // custom tunables file, empty for the search path
	Tracks     *content.Client // generated tracks, nil for procedural only
	Audio      audio.Output    // nil plays nothing
	Date       time.Time       // calendar day for daily content

	// Input is the position source the player asked for; TiltSensor
	// reports whether the device can honour a tilt request.
	Input      input.Source
	TiltSensor bool
}

// Factory creates a new instance of a game.
type Factory func(Setup) (session.Game, error)

var (
	factories = make(map[string]Factory)
	infos     = make(map[string]Info)
	mu        sync.RWMutex
)

// Register adds a game factory to the registry.
// Typically called from a game's init() function.
// Panics if a game with the same ID is already registered.
func Register(info Info, f Factory) {
	mu.Lock()
	defer mu.Unlock()

	if _, exists := factories[info.ID]; exists {
		panic(fmt.Sprintf("registry: game %q already registered", info.ID))
	}
	if len(info.Tiers) == 0 {
		info.Tiers = core.ThreeTier()
	}
	factories[info.ID] = f
	infos[info.ID] = info
}

// List returns information about all registered games, sorted by ID.
func List() []Info {
	mu.RLock()
	defer mu.RUnlock()

	result := make([]Info, 0, len(infos))
	for _, info := range infos {
		result = append(result, info)
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].ID < result[j].ID
	})

	return result
}

// Lookup returns a game's metadata.
func Lookup(id string) (Info, bool) {
	mu.RLock()
	defer mu.RUnlock()

	info, ok := infos[id]
	return info, ok
}

// Create instantiates a game by its ID. The requested difficulty is moved
// to the nearest tier the game offers.
func Create(id string, setup Setup) (session.Game, error) {
	mu.RLock()
	f, ok := factories[id]
	info := infos[id]
	mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("%w %q", ErrUnknownGame, id)
	}
	if setup.Difficulty == "" {
		setup.Difficulty = core.DifficultyMedium
	}
	setup.Difficulty = setup.Difficulty.Within(info.Tiers)
	if setup.Date.IsZero() {
		setup.Date = time.Now()
	}

	g, err := f(setup)
	if err != nil {
		return nil, fmt.Errorf("registry: create %s: %w", id, err)
	}
	return g, nil
}

// Exists checks if a game with the given ID is registered.
func Exists(id string) bool {
	mu.RLock()
	defer mu.RUnlock()

	_, ok := factories[id]
	return ok
}
