// Package puzzle implements Daily Constellation: a lights-out grid that is
// the same for everyone on a given calendar day.
package puzzle

import (
	"fmt"
	"time"

	"github.com/vovakirdan/companion-arcade/internal/config"
	"github.com/vovakirdan/companion-arcade/internal/core"
	"github.com/vovakirdan/companion-arcade/internal/engine"
	"github.com/vovakirdan/companion-arcade/internal/registry"
	"github.com/vovakirdan/companion-arcade/internal/scoring"
	"github.com/vovakirdan/companion-arcade/internal/session"
)

var breakpoints = scoring.Breakpoints{Perfect: 90, Good: 70, Partial: 40}

// Game is one Daily Constellation session.
type Game struct {
	tier  config.PuzzleTier
	date  time.Time
	env   *session.Env
	board Board
	start Board
	par   int

	cursor core.Point
	moves  int
	solved bool
	timer  *engine.Countdown
	timeUp bool
}

func init() {
	registry.Register(registry.Info{
		ID:    "puzzle",
		Title: "Daily Constellation",
		Blurb: "Light every star. Each star flips its neighbours. New sky daily.",
	}, func(s registry.Setup) (session.Game, error) {
		table, err := config.LoadPuzzle(s.ConfigPath)
		if err != nil {
			return nil, err
		}
		tier, err := table.Tier(s.Difficulty)
		if err != nil {
			return nil, err
		}
		return New(tier, s.Date), nil
	})
}

// New creates the puzzle for date's calendar day.
func New(t config.PuzzleTier, date time.Time) *Game {
	board, par := Daily(date, t.Size, t.Scramble)
	g := &Game{
		tier:  t,
		date:  date,
		board: board,
		start: board.Clone(),
		par:   par,
	}
	g.cursor = core.Point{X: board.Size / 2, Y: board.Size / 2}
	g.timer = engine.NewCountdown(t.TimeLimit, g.onTimeUp)
	return g
}

// ID returns the game identifier.
func (g *Game) ID() string { return "puzzle" }

// Title returns the display name.
func (g *Game) Title() string { return "Daily Constellation" }

// Board returns the current grid.
func (g *Game) Board() Board { return g.board }

// Par returns the toggles the generator used.
func (g *Game) Par() int { return g.par }

// Begin starts the timer.
func (g *Game) Begin(env *session.Env) {
	g.env = env
	g.timer = engine.NewCountdown(env.TimeLimit(g.tier.TimeLimit), g.onTimeUp)
	g.timer.SetRunning(true)
}

func (g *Game) onTimeUp() { g.timeUp = true }

// Tick runs the timer, checks for the end, then applies cursor moves and
// toggles in arrival order.
func (g *Game) Tick(dt float64, in core.InputFrame) bool {
	g.timer.Advance(dt)
	if g.over() {
		return true
	}

	for _, a := range in.Order {
		switch a {
		case core.ActionUp:
			g.move(0, -1)
		case core.ActionDown:
			g.move(0, 1)
		case core.ActionLeft:
			g.move(-1, 0)
		case core.ActionRight:
			g.move(1, 0)
		case core.ActionTap, core.ActionConfirm:
			g.toggle(g.cursor.X, g.cursor.Y)
		case core.ActionRestart:
			g.Reset()
		}
	}
	if in.Click.Set {
		n := float64(g.board.Size)
		x := min(int(in.Click.X/100*n), g.board.Size-1)
		y := min(int(in.Click.Y/100*n), g.board.Size-1)
		g.toggle(x, y)
	}
	for _, p := range in.Picks {
		if p >= 0 {
			g.toggle(p%g.board.Size, p/g.board.Size)
		}
	}
	return g.over()
}

func (g *Game) over() bool {
	return g.solved || g.timeUp
}

func (g *Game) move(dx, dy int) {
	g.cursor.X = core.Clamp(g.cursor.X+dx, 0, g.board.Size-1)
	g.cursor.Y = core.Clamp(g.cursor.Y+dy, 0, g.board.Size-1)
}

// toggle makes one move. Moves after the puzzle ends are ignored.
func (g *Game) toggle(x, y int) {
	if g.over() || !g.board.Toggle(x, y) {
		return
	}
	g.cursor = core.Point{X: x, Y: y}
	g.moves++
	if g.board.Solved() {
		g.solved = true
		if g.env != nil {
			g.env.Haptic(engine.HapticSuccess)
			g.env.Particles.Emit(50, 50, core.ColorBrightYellow, 30, 45, 1.2)
		}
		return
	}
	if g.env != nil {
		g.env.Haptic(engine.HapticLight)
	}
}

// Reset restores the day's starting grid. The move count carries on.
func (g *Game) Reset() {
	if g.over() {
		return
	}
	g.board = g.start.Clone()
}

// Accuracy is par over moves taken. An unsolved grid scores zero.
func (g *Game) Accuracy() float64 {
	if !g.solved {
		return 0
	}
	return scoring.Accuracy(float64(g.par), float64(g.moves))
}

// Result scores the session. Only a solved grid succeeds.
func (g *Game) Result() core.MiniGameResult {
	acc := g.Accuracy()
	score := 0
	if g.solved {
		score = int(acc)*10 + g.timer.Seconds()
	}
	return scoring.Outcome(g.solved, acc, breakpoints, map[string]int{
		"score":  score,
		"moves":  g.moves,
		"par":    g.par,
		"lit":    g.board.LitCount(),
		"solved": boolStat(g.solved),
	})
}

func boolStat(b bool) int {
	if b {
		return 1
	}
	return 0
}

// Render draws the grid with the cursor.
func (g *Game) Render(dst *core.Screen) {
	session.DrawHUD(dst,
		fmt.Sprintf("%s  %s  Moves %d  Par %d", g.Title(), g.date.Format("2006-01-02"), g.moves, g.par),
		fmt.Sprintf("%ds", g.timer.Seconds()))

	area := session.PlayArea(dst.Width(), dst.Height())
	const cellW, cellH = 4, 2
	w, h := g.board.Size*cellW, g.board.Size*cellH
	if w > area.W || h > area.H {
		dst.DrawTextCentered(area.Y+area.H/2, "Window too small")
		return
	}
	x0 := area.X + (area.W-w)/2
	y0 := area.Y + (area.H-h)/2

	for y := range g.board.Size {
		for x := range g.board.Size {
			px, py := x0+x*cellW+1, y0+y*cellH
			glyph, color := '·', core.ColorGray
			if g.board.Lit(x, y) {
				glyph, color = '★', core.ColorBrightYellow
			}
			if x == g.cursor.X && y == g.cursor.Y {
				dst.SetColor(px-1, py, '[', core.ColorBrightCyan)
				dst.SetColor(px+1, py, ']', core.ColorBrightCyan)
			}
			dst.SetColor(px, py, glyph, color)
		}
	}
	if g.solved {
		dst.DrawTextCenteredColor(area.Bottom()-1, "The constellation shines!", core.ColorBrightGreen)
	}
}
