package engine

import (
	"math/rand"

	"github.com/vovakirdan/companion-arcade/internal/core"
)

type star struct {
	x, y  float64
	speed float64
	glyph rune
}

// Starfield is a drifting background of stars in play-area space.
type Starfield struct {
	stars []star
	rng   *rand.Rand
}

// NewStarfield scatters count stars using seed.
func NewStarfield(count int, seed int64) *Starfield {
	sf := &Starfield{rng: rand.New(rand.NewSource(seed))}
	for range count {
		sf.stars = append(sf.stars, sf.spawn(sf.rng.Float64()*100))
	}
	return sf
}

func (sf *Starfield) spawn(y float64) star {
	s := star{x: sf.rng.Float64() * 100, y: y, speed: 2 + sf.rng.Float64()*6, glyph: '.'}
	if s.speed > 6 {
		s.glyph = '+'
	}
	return s
}

// Step drifts the stars downward, wrapping at the bottom.
func (sf *Starfield) Step(dt float64) {
	for i := range sf.stars {
		sf.stars[i].y += sf.stars[i].speed * dt
		if sf.stars[i].y > 100 {
			sf.stars[i] = sf.spawn(0)
		}
	}
}

// Len returns the number of stars.
func (sf *Starfield) Len() int { return len(sf.stars) }

// Render draws the stars into area without overwriting non-blank cells.
func (sf *Starfield) Render(dst *core.Screen, area core.Rect) {
	for _, s := range sf.stars {
		x, y := dst.MapX(area, s.x), dst.MapY(area, s.y)
		if dst.Get(x, y) == ' ' {
			dst.SetColor(x, y, s.glyph, core.ColorGray)
		}
	}
}
