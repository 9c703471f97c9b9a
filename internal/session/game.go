// Package session runs one mini-game from loading to its single terminal
// result. Games supply the per-tick simulation; the session owns the
// lifecycle, timers, pause, audio and the completion callback.
package session

import (
	"context"

	"github.com/vovakirdan/companion-arcade/internal/audio"
	"github.com/vovakirdan/companion-arcade/internal/core"
)

// Game is the per-game strategy driven by a Session.
type Game interface {
	// ID returns the registry identifier.
	ID() string

	// Title returns the display name.
	Title() string

	// Begin is called once, when play first starts.
	Begin(env *Env)

	// Tick advances the simulation by dt seconds and applies in. It
	// returns true when the round is over.
	Tick(dt float64, in core.InputFrame) bool

	// Result computes the terminal result from the current state.
	Result() core.MiniGameResult

	// Render draws the game. It is called in every state.
	Render(dst *core.Screen)
}

// Loader is implemented by games that need an asset before play.
type Loader interface {
	// Load runs off the frame goroutine and must not touch game state.
	// On success it returns a function that installs the asset; the
	// session calls it on the frame goroutine.
	Load(ctx context.Context) (install func(), err error)

	// UseFallback installs a procedurally generated asset.
	UseFallback()
}

// Rounds is implemented by games that offer a rating and another round
// after a round ends.
type Rounds interface {
	// CanContinue reports whether a finished round may be followed by
	// the rating prompt. Returning false ends the session.
	CanContinue() bool

	// NextRound prepares the next round.
	NextRound()

	// RatingSubject names what the player is asked to rate.
	RatingSubject() string
}

// Audible is implemented by games with a backing track.
type Audible interface {
	Track() *audio.Track
}
