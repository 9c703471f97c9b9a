// Package runes implements Rune Sequence: watch the runes light up, then
// repeat the order. Decoy runes jam the board when touched.
package runes

import (
	"fmt"
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
	pickPoints  = 100
	quickPoints = 150
	gapRatio    = 0.25 // dark time between revealed runes, relative to ShowTime
	pickRepeat  = 0.08 // seconds; faster repeats of a pick are key bounce
)

var breakpoints = scoring.Breakpoints{Perfect: 90, Good: 70, Partial: 50}

var (
	runeGlyphs  = []rune("ᚠᚢᚦᚨᚱᚲᚷᚹᚺ")
	decoyGlyphs = []rune("ᚡᚣᚧᚩᚳ")
)

// Phase is the sub-state of a round.
type Phase int

const (
	PhaseShow Phase = iota
	PhaseInput
)

// Tile is one rune on the board.
type Tile struct {
	Glyph rune
	Decoy bool
}

// Game is one Rune Sequence session.
type Game struct {
	tier config.RunesTier
	rng  *rand.Rand
	env  *session.Env

	board    []Tile
	sequence []int // board indices
	round    int
	phase    Phase
	shown    int     // runes revealed so far in the show phase
	clock    float64 // seconds into the current phase step
	pos      int     // next sequence index to pick
	cursor   int
	lastPick float64
	debounce input.Debouncer
	elapsed  float64

	timer  *engine.Countdown
	timeUp bool
	stun   float64
	budget scoring.MissBudget
	failed bool
	won    bool

	combo     scoring.Combo
	score     int
	correct   int
	quick     int
	misses    int
	decoyHits int
}

func init() {
	registry.Register(registry.Info{
		ID:    "runes",
		Title: "Rune Sequence",
		Blurb: "Memorise the glowing runes and repeat them. Beware the look-alikes.",
		Tiers: core.FiveTier(),
	}, func(s registry.Setup) (session.Game, error) {
		table, err := config.LoadRunes(s.ConfigPath)
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

// New creates a rune game and lays out its board.
func New(t config.RunesTier, seed int64) *Game {
	t.Runes = core.Clamp(t.Runes, 2, len(runeGlyphs))
	t.Decoys = core.Clamp(t.Decoys, 0, len(decoyGlyphs))
	t.StartLength = max(t.StartLength, 1)
	t.Rounds = max(t.Rounds, 1)

	g := &Game{
		tier:     t,
		rng:      rand.New(rand.NewSource(seed)),
		budget:   scoring.MissBudget{Limit: t.MaxMisses},
		debounce: input.Debouncer{Interval: pickRepeat},
	}
	for i := 0; i < t.Runes; i++ {
		g.board = append(g.board, Tile{Glyph: runeGlyphs[i]})
	}
	for i := 0; i < t.Decoys; i++ {
		g.board = append(g.board, Tile{Glyph: decoyGlyphs[i], Decoy: true})
	}
	g.rng.Shuffle(len(g.board), func(i, j int) { g.board[i], g.board[j] = g.board[j], g.board[i] })
	g.timer = engine.NewCountdown(t.TimeLimit, g.onTimeUp)
	g.newSequence()
	return g
}

// ID returns the game identifier.
func (g *Game) ID() string { return "runes" }

// Title returns the display name.
func (g *Game) Title() string { return "Rune Sequence" }

// Begin starts the timer and applies the companion's extra misses.
func (g *Game) Begin(env *session.Env) {
	g.env = env
	g.budget = scoring.MissBudget{Limit: g.tier.MaxMisses + env.Stats.BonusCapacity()}
	g.timer = engine.NewCountdown(env.TimeLimit(g.tier.TimeLimit), g.onTimeUp)
	g.timer.SetRunning(true)
}

func (g *Game) onTimeUp() { g.timeUp = true }

// Phase returns the current sub-phase.
func (g *Game) Phase() Phase { return g.phase }

// Stunned reports whether picks are currently blocked.
func (g *Game) Stunned() bool { return g.stun > 0 }

// newSequence draws the sequence for the current round and shows it.
func (g *Game) newSequence() {
	var pool []int
	for i, t := range g.board {
		if !t.Decoy {
			pool = append(pool, i)
		}
	}
	n := g.tier.StartLength + g.round
	g.sequence = g.sequence[:0]
	for len(g.sequence) < n {
		next := pool[g.rng.Intn(len(pool))]
		// no immediate repeats, they are unreadable when shown
		if k := len(g.sequence); k > 0 && g.sequence[k-1] == next {
			continue
		}
		g.sequence = append(g.sequence, next)
	}
	g.pos = 0
	g.show()
}

// show replays the whole sequence. Picks already made stay made.
func (g *Game) show() {
	g.phase = PhaseShow
	g.shown = 0
	g.clock = 0
}

// lit returns the board index revealed right now, or -1.
func (g *Game) lit() int {
	if g.phase != PhaseShow || g.shown >= len(g.sequence) || g.clock >= g.tier.ShowTime {
		return -1
	}
	return g.sequence[g.shown]
}

// Tick runs the reveal and stun timers, checks for the end, then applies
// this frame's picks.
func (g *Game) Tick(dt float64, in core.InputFrame) bool {
	g.elapsed += dt
	g.timer.Advance(dt)
	g.stun = max(g.stun-dt, 0)

	if g.phase == PhaseShow {
		g.clock += dt
		step := g.tier.ShowTime * (1 + gapRatio)
		for g.clock >= step && g.shown < len(g.sequence) {
			g.clock -= step
			g.shown++
		}
		if g.shown >= len(g.sequence) {
			g.phase = PhaseInput
			g.lastPick = g.elapsed
		}
	}

	if g.over() {
		return true
	}

	for _, a := range in.Order {
		switch a {
		case core.ActionLeft:
			g.cursor = (g.cursor + len(g.board) - 1) % len(g.board)
		case core.ActionRight:
			g.cursor = (g.cursor + 1) % len(g.board)
		case core.ActionConfirm, core.ActionTap:
			g.pick(g.cursor)
		}
	}
	for _, p := range in.Picks {
		g.pick(p)
	}
	return g.over()
}

func (g *Game) over() bool {
	return g.timeUp || g.failed || g.won
}

// pick applies one selection. Picks outside the input phase, during a
// stun or after the run has ended are ignored.
func (g *Game) pick(i int) {
	if g.phase != PhaseInput || g.stun > 0 || g.over() || i < 0 || i >= len(g.board) {
		return
	}
	if !g.debounce.Allow(g.elapsed) {
		return
	}
	g.cursor = i

	switch {
	case g.board[i].Decoy:
		g.decoyHits++
		g.score = max(g.score-g.tier.DecoyPenalty, 0)
		g.combo.Miss()
		g.stun = g.tier.StunTime
		g.haptic(engine.HapticError)
		g.burst(i, core.ColorViolet)
	case i == g.sequence[g.pos]:
		pts := pickPoints
		if g.elapsed-g.lastPick <= g.tier.QuickTime {
			pts = quickPoints
			g.quick++
		}
		g.correct++
		g.score += g.combo.Hit(pts)
		g.lastPick = g.elapsed
		g.pos++
		g.haptic(engine.HapticLight)
		g.burst(i, core.ColorBrightYellow)
		if g.pos == len(g.sequence) {
			g.roundCleared()
		}
	default:
		g.misses++
		g.combo.Miss()
		g.haptic(engine.HapticHeavy)
		if g.budget.Record() {
			g.failed = true
			return
		}
		g.show() // watch it again
	}
}

func (g *Game) roundCleared() {
	g.round++
	if g.round >= g.tier.Rounds {
		g.won = true
		return
	}
	g.haptic(engine.HapticSuccess)
	g.newSequence()
}

func (g *Game) haptic(p engine.Pattern) {
	if g.env != nil {
		g.env.Haptic(p)
	}
}

func (g *Game) burst(i int, c core.Color) {
	if g.env == nil {
		return
	}
	x := (float64(i) + 0.5) / float64(len(g.board)) * 100
	g.env.Particles.Emit(x, 50, c, 8, 25, 0.5)
}

// total is the number of correct picks a clean run needs.
func (g *Game) total() int {
	n := 0
	for r := 0; r < g.tier.Rounds; r++ {
		n += g.tier.StartLength + r
	}
	return n
}

// Accuracy is correct picks over the picks needed, with every miss and
// decoy touch adding to the denominator.
func (g *Game) Accuracy() float64 {
	return scoring.Accuracy(float64(g.correct), float64(g.total()+g.misses+g.decoyHits))
}

// Result scores the session. Exhausting the miss budget fails outright.
func (g *Game) Result() core.MiniGameResult {
	acc := g.Accuracy()
	success := g.won || (!g.failed && acc >= breakpoints.Partial)
	return scoring.Outcome(success, acc, breakpoints, map[string]int{
		"score":     g.score,
		"max_combo": g.combo.Max,
		"hits":      g.correct,
		"misses":    g.misses,
		"quick":     g.quick,
		"decoys":    g.decoyHits,
		"rounds":    g.round,
	})
}

// Render draws the board, the reveal and the pick cursor.
func (g *Game) Render(dst *core.Screen) {
	session.DrawHUD(dst,
		fmt.Sprintf("%s  Round %d/%d  Score %d  x%d", g.Title(), min(g.round+1, g.tier.Rounds), g.tier.Rounds, g.score, g.combo.Multiplier()),
		fmt.Sprintf("Misses left %d  %ds", g.budget.Remaining(), g.timer.Seconds()))

	area := session.PlayArea(dst.Width(), dst.Height())
	cell := 6
	width := len(g.board) * cell
	x0 := area.X + max((area.W-width)/2, 0)
	y := area.Y + area.H/2
	lit := g.lit()

	for i, t := range g.board {
		x := x0 + i*cell
		color := core.ColorWhite
		switch {
		case i == lit:
			color = core.ColorBrightYellow
		case g.stun > 0:
			color = core.ColorGray
		}
		dst.SetColor(x+2, y, t.Glyph, color)
		dst.DrawTextColor(x+2, y+2, fmt.Sprint(i+1), core.ColorGray)
		if g.phase == PhaseInput && i == g.cursor {
			dst.SetColor(x, y, '[', core.ColorBrightCyan)
			dst.SetColor(x+4, y, ']', core.ColorBrightCyan)
		}
	}

	msg := "Watch..."
	switch {
	case g.stun > 0:
		msg = "Jammed!"
	case g.phase == PhaseInput:
		msg = fmt.Sprintf("Repeat %d/%d", g.pos, len(g.sequence))
	}
	dst.DrawTextCentered(y-3, msg)
}
