// Package input normalizes raw player input for the mini-games: cardinal
// directions for grid games, a 0-100 axis for continuous-position games,
// and the one-time choice between touch and tilt.
package input

import (
	"math"

	"github.com/vovakirdan/companion-arcade/internal/core"
)

// Direction is one of the four cardinal directions, or DirNone.
type Direction int

const (
	DirNone Direction = iota
	DirUp
	DirDown
	DirLeft
	DirRight
)

// String returns a lowercase name.
func (d Direction) String() string {
	switch d {
	case DirUp:
		return "up"
	case DirDown:
		return "down"
	case DirLeft:
		return "left"
	case DirRight:
		return "right"
	default:
		return "none"
	}
}

// Opposite returns the reverse direction.
func (d Direction) Opposite() Direction {
	switch d {
	case DirUp:
		return DirDown
	case DirDown:
		return DirUp
	case DirLeft:
		return DirRight
	case DirRight:
		return DirLeft
	default:
		return DirNone
	}
}

// Delta returns the grid step for one move. Y grows downward.
func (d Direction) Delta() core.Point {
	switch d {
	case DirUp:
		return core.Point{Y: -1}
	case DirDown:
		return core.Point{Y: 1}
	case DirLeft:
		return core.Point{X: -1}
	case DirRight:
		return core.Point{X: 1}
	default:
		return core.Point{}
	}
}

// FromAction maps a directional action.
func FromAction(a core.Action) Direction {
	switch a {
	case core.ActionUp:
		return DirUp
	case core.ActionDown:
		return DirDown
	case core.ActionLeft:
		return DirLeft
	case core.ActionRight:
		return DirRight
	default:
		return DirNone
	}
}

// FromFrame returns the directional actions of a frame in arrival order.
func FromFrame(f core.InputFrame) []Direction {
	var dirs []Direction
	for _, a := range f.Order {
		if d := FromAction(a); d != DirNone {
			dirs = append(dirs, d)
		}
	}
	return dirs
}

// FromSwipe classifies a swipe by its dominant axis. Swipes shorter than
// minDistance are ignored.
func FromSwipe(dx, dy, minDistance float64) Direction {
	if math.Max(math.Abs(dx), math.Abs(dy)) < minDistance || (dx == 0 && dy == 0) {
		return DirNone
	}
	if math.Abs(dx) >= math.Abs(dy) {
		if dx > 0 {
			return DirRight
		}
		return DirLeft
	}
	if dy > 0 {
		return DirDown
	}
	return DirUp
}

// FromRelative turns a click into a direction relative to the head.
func FromRelative(head, click core.Point) Direction {
	return FromSwipe(float64(click.X-head.X), float64(click.Y-head.Y), 1)
}
