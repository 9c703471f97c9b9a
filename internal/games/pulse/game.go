// Package pulse implements Astral Pulse: tap the constellation's stars
// while they shine brightest. Every hit tightens what counts as bright.
package pulse

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
	perfectPoints = 150
	hitPoints     = 100

	interferenceScale = 0.6
	interferenceTime  = 2.0
	tapRepeat         = 0.08 // seconds; faster repeats are key bounce
)

var breakpoints = scoring.Breakpoints{Perfect: 90, Good: 75, Partial: 50}

// Node is one star of the constellation.
type Node struct {
	Phase  float64
	Speed  float64 // radians per second
	Active bool    // already hit this cycle
}

// Intensity is the node's brightness in [0, 1].
func (n Node) Intensity() float64 { return scoring.Intensity(n.Phase) }

// Game is one Astral Pulse session.
type Game struct {
	tier config.PulseTier
	rng  *rand.Rand
	env  *session.Env

	nodes    []Node
	mercy    scoring.Mercy
	tolMult  float64
	stats    core.CompanionStats
	elapsed  float64
	debounce input.Debouncer

	timer        *engine.Countdown
	timeUp       bool
	budget       scoring.MissBudget
	failed       bool
	won          bool
	interference bool

	round      int
	roundHits  int
	combo      scoring.Combo
	score      int
	baseEarned int
	hits       int
	perfect    int
	misses     int
	last       scoring.Judgment
	lastNode   int
}

func init() {
	registry.Register(registry.Info{
		ID:    "pulse",
		Title: "Astral Pulse",
		Blurb: "Tap the stars at their brightest. The sky gets pickier.",
		Tiers: core.FiveTier(),
	}, func(s registry.Setup) (session.Game, error) {
		table, err := config.LoadPulse(s.ConfigPath)
		if err != nil {
			return nil, err
		}
		tier, err := table.Tier(s.Difficulty)
		if err != nil {
			return nil, err
		}
		return New(tier, s.Seed), nil
	})
}

// New creates a pulse game with a fresh constellation.
func New(t config.PulseTier, seed int64) *Game {
	t.Nodes = max(t.Nodes, 1)
	t.Rounds = max(t.Rounds, 1)
	t.HitsPerRound = max(t.HitsPerRound, 1)
	g := &Game{
		tier:     t,
		rng:      rand.New(rand.NewSource(seed)),
		mercy:    scoring.NewMercy(t.ShrinkRate, t.ShrinkFloor),
		tolMult:  1,
		budget:   scoring.MissBudget{Limit: t.MaxMisses},
		lastNode: -1,
		debounce: input.Debouncer{Interval: tapRepeat},
	}
	g.nodes = make([]Node, t.Nodes)
	g.timer = engine.NewCountdown(t.TimeLimit, g.onTimeUp)
	g.scatter(1)
	return g
}

// ID returns the game identifier.
func (g *Game) ID() string { return "pulse" }

// Title returns the display name.
func (g *Game) Title() string { return "Astral Pulse" }

// Begin applies companion bonuses and schedules interference.
func (g *Game) Begin(env *session.Env) {
	g.env = env
	g.stats = env.Stats
	g.budget = scoring.MissBudget{Limit: g.tier.MaxMisses + env.Stats.BonusCapacity()}
	g.scatter(env.Stats.SpeedScale())
	g.timer = engine.NewCountdown(env.TimeLimit(g.tier.TimeLimit), g.onTimeUp)
	g.timer.SetRunning(true)
	if g.tier.InterferenceEach > 0 {
		env.Scheduler.Every(env.Interval(g.tier.InterferenceEach), g.startInterference)
	}
}

func (g *Game) onTimeUp() { g.timeUp = true }

// scatter gives every node a random phase and a speed within 20% of the
// tier's.
func (g *Game) scatter(speedScale float64) {
	for i := range g.nodes {
		g.nodes[i] = Node{
			Phase: g.rng.Float64() * 2 * math.Pi,
			Speed: g.tier.PhaseSpeed * speedScale * (0.8 + 0.4*g.rng.Float64()),
		}
	}
}

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

// Nodes returns the constellation.
func (g *Game) Nodes() []Node { return g.nodes }

// Threshold is the intensity a tap must beat to hit. The band above the
// tier threshold narrows with the mercy factor and interference, and
// widens with the companion's Mind.
func (g *Game) Threshold() float64 {
	band := (1 - g.tier.Threshold) * g.mercy.Factor * g.tolMult * g.stats.ToleranceScale()
	return core.ClampF(1-band, 0, scoring.DefaultPulsePerfect)
}

// Target returns the unactivated node a bare tap would take: the single
// brightest, lowest index on a tie. It returns -1 when none is left.
func (g *Game) Target() int {
	best := -1
	for i, n := range g.nodes {
		if n.Active {
			continue
		}
		if best < 0 || n.Intensity() > g.nodes[best].Intensity() {
			best = i
		}
	}
	return best
}

// Tick advances the stars, checks for the end, then judges this frame's
// taps.
func (g *Game) Tick(dt float64, in core.InputFrame) bool {
	g.elapsed += dt
	g.timer.Advance(dt)
	for i := range g.nodes {
		g.nodes[i].Phase = math.Mod(g.nodes[i].Phase+g.nodes[i].Speed*dt, 2*math.Pi)
	}

	if g.over() {
		return true
	}

	if in.Has(core.ActionTap) || in.Has(core.ActionConfirm) {
		g.tap(g.Target())
	}
	for _, p := range in.Picks {
		g.tap(p)
	}
	return g.over()
}

func (g *Game) over() bool {
	return g.timeUp || g.failed || g.won
}

// tap judges one node. Taps on lit or unknown nodes, and repeats inside
// the bounce interval, are ignored.
func (g *Game) tap(i int) {
	if g.over() || i < 0 || i >= len(g.nodes) || g.nodes[i].Active {
		return
	}
	if !g.debounce.Allow(g.elapsed) {
		return
	}

	judge := scoring.PulseJudge{Perfect: scoring.DefaultPulsePerfect, Threshold: g.Threshold()}
	g.last = judge.Judge(g.nodes[i].Intensity())
	g.lastNode = i

	switch g.last {
	case scoring.JudgePerfect, scoring.JudgeGood:
		pts := hitPoints
		if g.last == scoring.JudgePerfect {
			pts = perfectPoints
			g.perfect++
			if g.env != nil {
				g.env.Damage(core.DamageAdversary, g.tier.Damage, "perfect_pulse")
			}
		}
		g.hits++
		g.roundHits++
		g.baseEarned += pts
		g.score += g.combo.Hit(pts)
		g.mercy.Hit()
		g.nodes[i].Active = true
		g.haptic(engine.HapticMedium)
		g.burst(i, core.ColorBrightYellow)
		g.advance()
	default:
		g.misses++
		g.combo.Miss()
		g.mercy.Miss()
		g.haptic(engine.HapticError)
		if g.budget.Record() {
			g.failed = true
		}
	}
}

// advance relights the sky once every node is lit and moves to the next
// round after enough hits.
func (g *Game) advance() {
	if g.roundHits >= g.tier.HitsPerRound {
		g.round++
		g.roundHits = 0
		if g.round >= g.tier.Rounds {
			g.won = true
			return
		}
		g.haptic(engine.HapticSuccess)
		g.scatter(g.stats.SpeedScale())
		return
	}
	if g.Target() < 0 {
		for i := range g.nodes {
			g.nodes[i].Active = false
		}
	}
}

func (g *Game) haptic(p engine.Pattern) {
	if g.env != nil {
		g.env.Haptic(p)
	}
}

func (g *Game) burst(i int, c core.Color) {
	if g.env != nil {
		x := (float64(i) + 0.5) / float64(len(g.nodes)) * 100
		g.env.Particles.Emit(x, 50, c, 10, 25, 0.6)
	}
}

// Accuracy is base points over an all-perfect run, with misses adding to
// what was possible.
func (g *Game) Accuracy() float64 {
	need := g.tier.Rounds*g.tier.HitsPerRound + g.misses
	return scoring.Accuracy(float64(g.baseEarned), float64(need*perfectPoints))
}

// Result scores the session. Exhausting the miss budget fails outright.
func (g *Game) Result() core.MiniGameResult {
	acc := g.Accuracy()
	success := g.won || (!g.failed && acc >= breakpoints.Partial)
	return scoring.Outcome(success, acc, breakpoints, map[string]int{
		"score":     g.score,
		"max_combo": g.combo.Max,
		"hits":      g.hits,
		"misses":    g.misses,
		"perfect":   g.perfect,
		"rounds":    g.round,
	})
}

var glyphs = []rune{'·', '+', '*', '✦', '★'}

// Render draws the constellation as a row of stars that swell with
// intensity.
func (g *Game) Render(dst *core.Screen) {
	status := fmt.Sprintf("Round %d/%d  %d/%d", min(g.round+1, g.tier.Rounds), g.tier.Rounds, g.roundHits, g.tier.HitsPerRound)
	if g.interference {
		status += "  INTERFERENCE"
	}
	session.DrawHUD(dst,
		fmt.Sprintf("%s  Score %d  x%d  %s", g.Title(), g.score, g.combo.Multiplier(), status),
		fmt.Sprintf("Misses left %d  %ds", g.budget.Remaining(), g.timer.Seconds()))

	area := session.PlayArea(dst.Width(), dst.Height())
	mid := area.Y + area.H/2
	target := g.Target()
	threshold := g.Threshold()
	for i, n := range g.nodes {
		x := dst.MapX(area, (float64(i)+0.5)/float64(len(g.nodes))*100)
		v := n.Intensity()
		glyph := glyphs[min(int(v*float64(len(glyphs))), len(glyphs)-1)]
		color := core.ColorGray
		switch {
		case n.Active:
			glyph, color = '✧', core.ColorGreen
		case v > scoring.DefaultPulsePerfect:
			color = core.ColorBrightYellow
		case v > threshold:
			color = core.ColorYellow
		}
		dst.SetColor(x, mid, glyph, color)
		dst.DrawTextColor(x, mid+2, fmt.Sprint(i+1), core.ColorGray)
		if i == target {
			dst.SetColor(x, mid-2, 'v', core.ColorBrightCyan)
		}
	}
	if g.lastNode >= 0 {
		dst.DrawTextCentered(area.Bottom()-2, g.last.String())
	}
}
