package engine

import (
	"math/rand"

	"github.com/vovakirdan/companion-arcade/internal/core"
)

// Particle defaults, in play-area units (0-100) and seconds.
const (
	DefaultMaxParticles = 150
	DefaultGravity      = 40.0
)

// Particle is one cosmetic spark.
type Particle struct {
	X, Y    float64
	VX, VY  float64
	Life    float64
	MaxLife float64
	Color   core.Color
}

// Particles is a bounded pool of sparks. It is purely cosmetic: nothing in
// it affects scoring, and it keeps stepping while a game is paused.
type Particles struct {
	list    []Particle
	max     int
	gravity float64
	rng     *rand.Rand
}

// NewParticles creates a pool holding at most max particles.
func NewParticles(max int, seed int64) *Particles {
	if max <= 0 {
		max = DefaultMaxParticles
	}
	return &Particles{
		list:    make([]Particle, 0, max),
		max:     max,
		gravity: DefaultGravity,
		rng:     rand.New(rand.NewSource(seed)),
	}
}

// Emit spawns count particles at (x, y) with velocities in [-spread, spread].
// When the pool overflows the oldest particles are evicted.
func (p *Particles) Emit(x, y float64, color core.Color, count int, spread, lifespan float64) {
	if count <= 0 || lifespan <= 0 {
		return
	}
	count = min(count, p.max)
	for range count {
		p.list = append(p.list, Particle{
			X:       x,
			Y:       y,
			VX:      (p.rng.Float64()*2 - 1) * spread,
			VY:      (p.rng.Float64()*2 - 1) * spread,
			Life:    lifespan,
			MaxLife: lifespan,
			Color:   color,
		})
	}
	if over := len(p.list) - p.max; over > 0 {
		p.list = append(p.list[:0], p.list[over:]...)
	}
}

// Step integrates every particle by dt seconds and prunes the dead ones.
func (p *Particles) Step(dt float64) {
	if dt <= 0 {
		return
	}
	alive := p.list[:0]
	for _, pt := range p.list {
		pt.X += pt.VX * dt
		pt.Y += pt.VY * dt
		pt.VY += p.gravity * dt
		pt.Life -= dt
		if pt.Life > 0 {
			alive = append(alive, pt)
		}
	}
	p.list = alive
}

// Len returns the number of live particles.
func (p *Particles) Len() int { return len(p.list) }

// All returns the live particles. The slice is reused by the next Step.
func (p *Particles) All() []Particle { return p.list }

// Clear drops all particles.
func (p *Particles) Clear() { p.list = p.list[:0] }

// Render draws the particles into area, mapping play-area coordinates.
func (p *Particles) Render(dst *core.Screen, area core.Rect) {
	for _, pt := range p.list {
		if pt.X < 0 || pt.X > 100 || pt.Y < 0 || pt.Y > 100 {
			continue
		}
		glyph := '·'
		switch frac := pt.Life / pt.MaxLife; {
		case frac > 0.66:
			glyph = '*'
		case frac > 0.33:
			glyph = '+'
		}
		dst.SetColor(dst.MapX(area, pt.X), dst.MapY(area, pt.Y), glyph, pt.Color)
	}
}
