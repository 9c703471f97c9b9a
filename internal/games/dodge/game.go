// Package dodge implements Meteor Dodge: catch the falling crystals and
// keep clear of the debris until the timer runs out.
package dodge

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/vovakirdan/companion-arcade/internal/config"
	"github.com/vovakirdan/companion-arcade/internal/core"
	"github.com/vovakirdan/companion-arcade/internal/engine"
	"github.com/vovakirdan/companion-arcade/internal/input"
	"github.com/vovakirdan/companion-arcade/internal/registry"
	"github.com/vovakirdan/companion-arcade/internal/scoring"
	"github.com/vovakirdan/companion-arcade/internal/session"
)

const (
	crystalPoints = 100
	catchLine     = 90.0 // the player's row on the 0-100 vertical axis
	keyStep       = 0.1  // seconds of travel per key press
	edge          = 4.0
	debrisDamage  = 10
)

var breakpoints = scoring.Breakpoints{Perfect: 85, Good: 65, Partial: 40}

// Object is a falling crystal or piece of debris.
type Object struct {
	X, Y    float64
	Crystal bool
	crossed bool // has passed the catch line without being caught
}

// Game is one Meteor Dodge session.
type Game struct {
	tier   config.DodgeTier
	rng    *rand.Rand
	env    *session.Env
	source *input.SourceSelector

	player  float64
	objects []Object
	fall    float64
	width   float64

	timer  *engine.Countdown
	timeUp bool
	lives  int

	combo   scoring.Combo
	score   int
	caught  int
	fell    int // crystals that got past the player
	hits    int
	dodged  int
	spawned int
}

func init() {
	registry.Register(registry.Info{
		ID:    "dodge",
		Title: "Meteor Dodge",
		Blurb: "Catch the crystals, dodge the debris, outlast the shower.",
	}, func(s registry.Setup) (session.Game, error) {
		table, err := config.LoadDodge(s.ConfigPath)
		if err != nil {
			return nil, err
		}
		tier, err := table.Tier(s.Difficulty)
		if err != nil {
			return nil, err
		}
		g := New(tier, s.Seed)
		g.source.Choose(s.Input == input.SourceTilt, s.TiltSensor)
		return g, nil
	})
}

// New creates a dodge game. Position input defaults to touch unless the
// source is chosen before play.
func New(t config.DodgeTier, seed int64) *Game {
	g := &Game{
		tier:   t,
		rng:    rand.New(rand.NewSource(seed)),
		source: input.NewSourceSelector(),
		player: 50,
		lives:  max(t.Lives, 1),
		fall:   t.FallSpeed,
		width:  t.CatchWidth,
	}
	g.timer = engine.NewCountdown(t.TimeLimit, g.onTimeUp)
	return g
}

// Source exposes the position source selector.
func (g *Game) Source() *input.SourceSelector { return g.source }

// ID returns the game identifier.
func (g *Game) ID() string { return "dodge" }

// Title returns the display name.
func (g *Game) Title() string { return "Meteor Dodge" }

// Begin applies companion bonuses and starts the shower.
func (g *Game) Begin(env *session.Env) {
	g.env = env
	g.source.Choose(false, false)
	g.lives = max(g.tier.Lives, 1) + env.Stats.BonusCapacity()
	g.fall = g.tier.FallSpeed * env.Stats.SpeedScale()
	g.width = g.tier.CatchWidth * env.Stats.ToleranceScale()
	g.timer = engine.NewCountdown(env.TimeLimit(g.tier.TimeLimit), g.onTimeUp)
	g.timer.SetRunning(true)
	if g.tier.SpawnInterval > 0 {
		env.Scheduler.Every(g.tier.SpawnInterval, g.spawn)
	}
}

func (g *Game) onTimeUp() { g.timeUp = true }

// Lives returns the lives left.
func (g *Game) Lives() int { return g.lives }

func (g *Game) spawn() {
	g.objects = append(g.objects, Object{
		X:       edge + g.rng.Float64()*(100-2*edge),
		Crystal: g.rng.Float64() < g.tier.CrystalChance,
	})
	g.spawned++
}

// Tick drops everything, resolves what reached the player, checks for
// the end, then moves the player from this frame's input.
func (g *Game) Tick(dt float64, in core.InputFrame) bool {
	g.timer.Advance(dt)
	g.drop(dt)

	if g.over() {
		return true
	}
	g.steer(in)
	return false
}

func (g *Game) over() bool {
	return g.timeUp || g.lives <= 0
}

func (g *Game) drop(dt float64) {
	kept := g.objects[:0]
	for _, o := range g.objects {
		prev := o.Y
		o.Y += g.fall * dt
		if !o.crossed && prev < catchLine && o.Y >= catchLine {
			if math.Abs(o.X-g.player) <= g.width {
				g.collide(o)
				continue
			}
			o.crossed = true
		}
		if o.Y >= 100 {
			g.passed(o)
			continue
		}
		kept = append(kept, o)
	}
	g.objects = kept
}

// collide resolves an object meeting the player.
func (g *Game) collide(o Object) {
	if o.Crystal {
		g.caught++
		g.score += g.combo.Hit(crystalPoints)
		g.haptic(engine.HapticLight)
		g.burst(o.X, core.ColorBrightCyan, 10)
		return
	}
	if g.lives <= 0 {
		return
	}
	g.hits++
	g.lives--
	g.combo.Miss()
	g.haptic(engine.HapticHeavy)
	g.burst(o.X, core.ColorBrightRed, 14)
	if g.env != nil {
		g.env.Damage(core.DamagePlayer, debrisDamage, "debris")
	}
}

// passed resolves an object leaving the bottom of the field.
func (g *Game) passed(o Object) {
	if o.Crystal {
		g.fell++
		g.combo.Miss()
		return
	}
	g.dodged++
}

func (g *Game) steer(in core.InputFrame) {
	if pos, ok := g.source.Position(in); ok {
		g.player = pos
	}
	step := g.tier.PlayerSpeed * keyStep
	for _, a := range in.Order {
		switch a {
		case core.ActionLeft:
			g.player -= step
		case core.ActionRight:
			g.player += step
		}
	}
	g.player = core.Percent(g.player)
}

func (g *Game) haptic(p engine.Pattern) {
	if g.env != nil {
		g.env.Haptic(p)
	}
}

func (g *Game) burst(x float64, c core.Color, n int) {
	if g.env != nil {
		g.env.Particles.Emit(x, catchLine, c, n, 30, 0.6)
	}
}

// Accuracy is crystals caught over every crystal and debris that reached
// the player's row. A clean run with nothing to catch counts as perfect.
func (g *Game) Accuracy() float64 {
	seen := g.caught + g.fell + g.hits
	if seen == 0 {
		return 100
	}
	return scoring.Accuracy(float64(g.caught), float64(seen))
}

// Result scores the session. Running out of lives fails outright.
func (g *Game) Result() core.MiniGameResult {
	acc := g.Accuracy()
	success := g.lives > 0 && acc >= breakpoints.Partial
	return scoring.Outcome(success, acc, breakpoints, map[string]int{
		"score":     g.score,
		"max_combo": g.combo.Max,
		"hits":      g.caught,
		"misses":    g.fell,
		"damage":    g.hits,
		"dodged":    g.dodged,
		"lives":     max(g.lives, 0),
	})
}

// Render draws the falling objects and the player's catcher.
func (g *Game) Render(dst *core.Screen) {
	session.DrawHUD(dst,
		fmt.Sprintf("%s  Score %d  x%d", g.Title(), g.score, g.combo.Multiplier()),
		fmt.Sprintf("Lives %d  %ds", max(g.lives, 0), g.timer.Seconds()))

	area := session.PlayArea(dst.Width(), dst.Height())
	for _, o := range g.objects {
		glyph, color := '*', core.ColorBrightRed
		if o.Crystal {
			glyph, color = '◆', core.ColorBrightCyan
		}
		dst.SetColor(dst.MapX(area, o.X), dst.MapY(area, o.Y), glyph, color)
	}

	y := dst.MapY(area, catchLine)
	from, to := dst.MapX(area, g.player-g.width), dst.MapX(area, g.player+g.width)
	for x := from; x <= to; x++ {
		dst.SetColor(x, y, '═', core.ColorBrightWhite)
	}
	dst.SetColor(dst.MapX(area, g.player), y, '▲', core.ColorBrightYellow)
}
