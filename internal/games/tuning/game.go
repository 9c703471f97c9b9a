// Package tuning implements Frequency Tuner: hold the dial on a drifting
// signal until it locks, and let the decoys slip by.
package tuning

import (
	"fmt"
	"math/rand"
	"strings"

	"github.com/vovakirdan/companion-arcade/internal/config"
	"github.com/vovakirdan/companion-arcade/internal/core"
	"github.com/vovakirdan/companion-arcade/internal/engine"
	"github.com/vovakirdan/companion-arcade/internal/input"
	"github.com/vovakirdan/companion-arcade/internal/registry"
	"github.com/vovakirdan/companion-arcade/internal/scoring"
	"github.com/vovakirdan/companion-arcade/internal/session"
)

const (
	perfectPoints = 150
	goodPoints    = 100

	interferenceScale = 0.6
	interferenceTime  = 2.0
	keyStep           = 0.1  // seconds of dial travel per key press
	decoyLifetimes    = 3.0  // a decoy fades after this many lock times
	minShift          = 25.0 // a phase shift moves the signal at least this far
	edge              = 5.0
)

var breakpoints = scoring.Breakpoints{Perfect: 90, Good: 70, Partial: 40}

// Signal is the target currently on the band.
type Signal struct {
	Pos   float64
	Vel   float64
	Decoy bool
	Age   float64
}

// Game is one Frequency Tuner session.
type Game struct {
	tier   config.TuningTier
	rng    *rand.Rand
	env    *session.Env
	source *input.SourceSelector

	dial    float64
	signal  Signal
	lock    scoring.LockOn
	last    scoring.LockResult
	stats   core.CompanionStats
	tolMult float64

	timer        *engine.Countdown
	timeUp       bool
	stun         float64
	interference bool

	combo      scoring.Combo
	score      int
	baseEarned int
	locked     int
	perfect    int
	decoyHits  int
	dodged     int
}

func init() {
	registry.Register(registry.Info{
		ID:    "tuning",
		Title: "Frequency Tuner",
		Blurb: "Hold the dial on the signal until it locks. Decoys crackle.",
	}, func(s registry.Setup) (session.Game, error) {
		table, err := config.LoadTuning(s.ConfigPath)
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

// New creates a tuning game. Position input defaults to touch unless the
// source is chosen before play.
func New(t config.TuningTier, seed int64) *Game {
	g := &Game{
		tier:    t,
		rng:     rand.New(rand.NewSource(seed)),
		source:  input.NewSourceSelector(),
		dial:    50,
		tolMult: 1,
		lock:    scoring.LockOn{Tolerance: t.Tolerance, LockTime: t.LockTime, DecayRate: t.DecayRate},
	}
	g.timer = engine.NewCountdown(t.TimeLimit, g.onTimeUp)
	g.nextSignal()
	return g
}

// Source exposes the position source selector.
func (g *Game) Source() *input.SourceSelector { return g.source }

// ID returns the game identifier.
func (g *Game) ID() string { return "tuning" }

// Title returns the display name.
func (g *Game) Title() string { return "Frequency Tuner" }

// Begin starts the timer and the periodic interference and phase shifts.
func (g *Game) Begin(env *session.Env) {
	g.env = env
	g.stats = env.Stats
	g.source.Choose(false, false)
	g.signal.Vel *= env.Stats.SpeedScale()
	g.timer = engine.NewCountdown(env.TimeLimit(g.tier.TimeLimit), g.onTimeUp)
	g.timer.SetRunning(true)
	if g.tier.InterferenceEach > 0 {
		env.Scheduler.Every(env.Interval(g.tier.InterferenceEach), g.startInterference)
	}
	if g.tier.PhaseShiftEach > 0 {
		env.Scheduler.Every(env.Interval(g.tier.PhaseShiftEach), g.phaseShift)
	}
}

func (g *Game) onTimeUp() { g.timeUp = true }

func (g *Game) startInterference() {
	if g.interference {
		return
	}
	g.interference = true
	g.tolMult = interferenceScale
	g.env.Haptic(engine.HapticLight)
	g.env.Scheduler.After(interferenceTime, func() {
		g.interference = false
		g.tolMult = 1
	})
}

func (g *Game) phaseShift() {
	g.signal.Pos = g.awayFrom(g.signal.Pos)
}

// awayFrom picks a band position at least minShift from p.
func (g *Game) awayFrom(p float64) float64 {
	if p < 50 {
		return p + minShift + g.rng.Float64()*(100-edge-p-minShift)
	}
	return p - minShift - g.rng.Float64()*(p-minShift-edge)
}

// nextSignal puts a fresh signal on the band away from the dial.
func (g *Game) nextSignal() {
	pos := g.awayFrom(g.dial)
	vel := g.tier.DriftSpeed
	if g.rng.Intn(2) == 0 {
		vel = -vel
	}
	if g.env != nil {
		vel *= g.env.Stats.SpeedScale()
	}
	g.signal = Signal{Pos: pos, Vel: vel, Decoy: g.rng.Float64() < g.tier.DecoyChance}
	g.lock.Reset()
}

// Tick drifts the signal and accumulates lock-on, checks for the end,
// then moves the dial from this frame's input.
func (g *Game) Tick(dt float64, in core.InputFrame) bool {
	g.timer.Advance(dt)
	g.drift(dt)

	if g.stun > 0 {
		g.stun = max(g.stun-dt, 0)
		g.last = scoring.LockResult{}
	} else {
		g.last = g.lock.Update(g.dial-g.signal.Pos, g.stats.ToleranceScale()*g.tolMult, dt)
		if g.last.Locked {
			g.onLock(g.last.Perfect)
		}
	}
	if g.signal.Decoy && !g.lock.Locked() && g.signal.Age > g.tier.LockTime*decoyLifetimes {
		g.dodged++
		g.nextSignal()
	}

	if g.timeUp || g.locked >= g.tier.TargetCount {
		return true
	}

	if g.stun == 0 {
		g.steer(in)
	}
	return false
}

func (g *Game) drift(dt float64) {
	s := &g.signal
	s.Age += dt
	s.Pos += s.Vel * dt
	if s.Pos < edge {
		s.Pos = 2*edge - s.Pos
		s.Vel = -s.Vel
	} else if s.Pos > 100-edge {
		s.Pos = 2*(100-edge) - s.Pos
		s.Vel = -s.Vel
	}
}

func (g *Game) steer(in core.InputFrame) {
	if pos, ok := g.source.Position(in); ok {
		g.dial = pos
	}
	step := g.tier.PlayerSpeed * keyStep
	for _, a := range in.Order {
		switch a {
		case core.ActionLeft:
			g.dial -= step
		case core.ActionRight:
			g.dial += step
		}
	}
	g.dial = core.Percent(g.dial)
}

// onLock scores a completed lock and brings on the next signal.
func (g *Game) onLock(perfect bool) {
	if g.signal.Decoy {
		g.decoyHits++
		g.score = max(g.score-g.tier.DecoyPenalty, 0)
		g.combo.Miss()
		g.stun = g.tier.StunTime
		if g.env != nil {
			g.env.Haptic(engine.HapticError)
			g.env.Damage(core.DamagePlayer, max(g.tier.DecoyPenalty/10, 1), "decoy_signal")
			g.env.Particles.Emit(g.signal.Pos, 50, core.ColorViolet, 10, 30, 0.6)
		}
		g.nextSignal()
		return
	}

	pts := goodPoints
	if perfect {
		pts = perfectPoints
		g.perfect++
	}
	g.locked++
	g.baseEarned += pts
	g.score += g.combo.Hit(pts)
	if g.env != nil {
		g.env.Haptic(engine.HapticSuccess)
		g.env.Particles.Emit(g.signal.Pos, 50, core.ColorBrightGreen, 14, 30, 0.7)
	}
	g.nextSignal()
}

// Accuracy is lock quality over an all-perfect run.
func (g *Game) Accuracy() float64 {
	return scoring.Accuracy(float64(g.baseEarned), float64(g.tier.TargetCount*perfectPoints))
}

// Result scores the session. Locking every signal always succeeds.
func (g *Game) Result() core.MiniGameResult {
	acc := g.Accuracy()
	success := g.locked >= g.tier.TargetCount || acc >= breakpoints.Partial
	return scoring.Outcome(success, acc, breakpoints, map[string]int{
		"score":         g.score,
		"max_combo":     g.combo.Max,
		"hits":          g.locked,
		"misses":        g.decoyHits,
		"perfect":       g.perfect,
		"decoys_dodged": g.dodged,
	})
}

// Render draws the band with the signal above and the dial below.
func (g *Game) Render(dst *core.Screen) {
	status := fmt.Sprintf("Locked %d/%d", g.locked, g.tier.TargetCount)
	if g.interference {
		status += "  INTERFERENCE"
	}
	session.DrawHUD(dst, fmt.Sprintf("%s  Score %d  %s", g.Title(), g.score, status), fmt.Sprintf("%ds", g.timer.Seconds()))

	area := session.PlayArea(dst.Width(), dst.Height())
	mid := area.Y + area.H/2
	dst.DrawHLine(area.X, mid, area.W, '─')

	// tolerance band around the signal
	tol := g.tier.Tolerance * g.stats.ToleranceScale() * g.tolMult
	for x := dst.MapX(area, g.signal.Pos-tol); x <= dst.MapX(area, g.signal.Pos+tol); x++ {
		dst.SetColor(x, mid, '═', core.ColorCyan)
	}

	glyph, color := '▼', core.ColorBrightYellow
	if g.signal.Decoy && int(g.signal.Age*4)%4 == 0 {
		glyph = '▽' // decoys flicker
	}
	if g.last.Aligned {
		color = core.ColorBrightGreen
	}
	dst.SetColor(dst.MapX(area, g.signal.Pos), mid-1, glyph, color)
	dst.SetColor(dst.MapX(area, g.dial), mid+1, '▲', core.ColorBrightWhite)

	barW := max(area.W-4, 1)
	filled := int(g.lock.Progress * float64(barW))
	bar := strings.Repeat("█", filled) + strings.Repeat("░", barW-filled)
	dst.DrawTextColor(area.X+2, area.Bottom()-2, bar, core.ColorGreen)

	if g.stun > 0 {
		dst.DrawTextCenteredColor(mid-3, "STATIC! Dial jammed", core.ColorBrightRed)
	}
}
