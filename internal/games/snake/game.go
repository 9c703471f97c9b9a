package snake

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

// Mode selects the rule set.
type Mode string

const (
	ModeSerpent Mode = "serpent" // walls kill, collect a stardust count
	ModeComet   Mode = "comet"   // edges wrap, void shards, score target
)

const (
	startLength   = 3
	stardustValue = 100
	shardShuffle  = 8.0 // seconds between void shard relocations
)

var (
	serpentBreakpoints = scoring.Breakpoints{Perfect: 90, Good: 70, Partial: 40}
	cometBreakpoints   = scoring.Breakpoints{Perfect: 85, Good: 65, Partial: 40}
)

// rules is the tier record of either mode.
type rules struct {
	width, height int
	moveInterval  float64
	timeLimit     float64
	wrap          bool
	target        int // stardust to collect (serpent)
	targetScore   int // score to reach (comet)
	shards        int
	shardPenalty  int
	comboWindow   float64
}

func serpentRules(t config.SnakeTier) rules {
	return rules{
		width:        max(t.Width, 8),
		height:       max(t.Height, 6),
		moveInterval: t.MoveInterval,
		timeLimit:    t.TimeLimit,
		target:       max(t.Target, 1),
	}
}

func cometRules(t config.CometTier) rules {
	return rules{
		width:        max(t.Width, 8),
		height:       max(t.Height, 6),
		moveInterval: t.MoveInterval,
		timeLimit:    t.TimeLimit,
		wrap:         true,
		targetScore:  max(t.TargetScore, 1),
		shards:       t.Shards,
		shardPenalty: t.ShardPenalty,
		comboWindow:  t.ComboWindow,
	}
}

// Game implements both serpent modes on a fixed grid.
type Game struct {
	mode  Mode
	rules rules
	rng   *rand.Rand
	env   *session.Env
	tick  uint64

	// Snake state
	snake     []core.Point // Head at index 0
	direction input.Direction
	queue     input.DirQueue
	growing   int
	moveAcc   float64

	// Field state
	stardust core.Point
	shards   []core.Point

	timer   *engine.Countdown
	timeUp  bool
	elapsed float64

	combo      scoring.Combo
	score      int
	collected  int
	misses     int
	shields    int
	shieldUsed int
	lastPickup float64
	crashed    bool
	won        bool
}

func init() {
	registry.Register(registry.Info{
		ID:    "snake",
		Title: "Stardust Serpent",
		Blurb: "Gather stardust without biting the walls or yourself.",
	}, func(s registry.Setup) (session.Game, error) {
		table, err := config.LoadSnake(s.ConfigPath)
		if err != nil {
			return nil, err
		}
		tier, err := table.Tier(s.Difficulty)
		if err != nil {
			return nil, err
		}
		return New(tier, s.Seed), nil
	})
	registry.Register(registry.Info{
		ID:    "comet",
		Title: "Comet Trail",
		Blurb: "Chain stardust pickups through wrapping space; void shards bite back.",
	}, func(s registry.Setup) (session.Game, error) {
		table, err := config.LoadComet(s.ConfigPath)
		if err != nil {
			return nil, err
		}
		tier, err := table.Tier(s.Difficulty)
		if err != nil {
			return nil, err
		}
		return NewComet(tier, s.Seed), nil
	})
}

// New creates a Stardust Serpent game.
func New(t config.SnakeTier, seed int64) *Game {
	return newGame(ModeSerpent, serpentRules(t), seed)
}

// NewComet creates a Comet Trail game.
func NewComet(t config.CometTier, seed int64) *Game {
	return newGame(ModeComet, cometRules(t), seed)
}

func newGame(mode Mode, r rules, seed int64) *Game {
	g := &Game{
		mode:  mode,
		rules: r,
		rng:   rand.New(rand.NewSource(seed)),
	}
	g.timer = engine.NewCountdown(r.timeLimit, g.onTimeUp)
	g.initSnake()
	g.stardust = g.spawn()
	for i := 0; i < r.shards; i++ {
		g.shards = append(g.shards, g.spawn())
	}
	return g
}

// ID returns the game identifier.
func (g *Game) ID() string {
	if g.mode == ModeComet {
		return "comet"
	}
	return "snake"
}

// Title returns the display name.
func (g *Game) Title() string {
	if g.mode == ModeComet {
		return "Comet Trail"
	}
	return "Stardust Serpent"
}

// Begin applies the session's time limit and companion bonuses.
func (g *Game) Begin(env *session.Env) {
	g.env = env
	g.timer = engine.NewCountdown(env.TimeLimit(g.rules.timeLimit), g.onTimeUp)
	g.timer.SetRunning(true)
	if g.mode == ModeSerpent {
		g.shields = env.Stats.BonusCapacity()
	}
	if g.mode == ModeComet && g.rules.shards > 0 {
		env.Scheduler.Every(env.Interval(shardShuffle), g.shuffleShards)
	}
}

func (g *Game) onTimeUp() { g.timeUp = true }

// initSnake places a short snake in the middle heading right.
func (g *Game) initSnake() {
	cx, cy := g.rules.width/2, g.rules.height/2
	g.snake = g.snake[:0]
	for i := 0; i < startLength; i++ {
		g.snake = append(g.snake, core.Point{X: cx - i, Y: cy})
	}
	g.direction = input.DirRight
	g.queue.Clear()
	g.growing = 0
	g.moveAcc = 0
}

// Tick advances the snake by whole moves, then checks the end conditions,
// then queues this frame's turns for the following moves.
func (g *Game) Tick(dt float64, in core.InputFrame) bool {
	g.tick++
	g.elapsed += dt
	g.timer.Advance(dt)

	g.moveAcc += dt
	for g.rules.moveInterval > 0 && g.moveAcc >= g.rules.moveInterval && !g.over() {
		g.moveAcc -= g.rules.moveInterval
		g.moveSnake()
	}

	if g.over() {
		return true
	}

	for _, d := range input.FromFrame(in) {
		g.queue.Push(d, g.direction)
	}
	if in.Click.Set {
		g.queue.Push(input.FromRelative(g.snake[0], g.clickCell(in.Click)), g.direction)
	}
	return false
}

func (g *Game) over() bool {
	return g.crashed || g.won || g.timeUp
}

// clickCell converts a normalized play-area point to a grid cell.
func (g *Game) clickCell(p core.Point2) core.Point {
	return core.Point{
		X: int(core.Percent(p.X) / 100 * float64(g.rules.width-1)),
		Y: int(core.Percent(p.Y) / 100 * float64(g.rules.height-1)),
	}
}

// moveSnake performs one grid step.
func (g *Game) moveSnake() {
	g.direction = g.queue.Next(g.direction)
	head := g.snake[0].Add(g.direction.Delta())

	if g.rules.wrap {
		head.X = (head.X + g.rules.width) % g.rules.width
		head.Y = (head.Y + g.rules.height) % g.rules.height
	} else if head.X < 0 || head.X >= g.rules.width || head.Y < 0 || head.Y >= g.rules.height {
		g.crash()
		return
	}

	// The tail vacates its cell this move unless the snake is growing.
	body := g.snake
	if g.growing == 0 {
		body = body[:len(body)-1]
	}
	if i := indexOf(body, head); i >= 0 {
		if g.mode == ModeComet {
			g.sever(i)
		} else {
			g.crash()
			return
		}
	}

	g.snake = append([]core.Point{head}, g.snake...)
	if g.growing > 0 {
		g.growing--
	} else {
		g.snake = g.snake[:len(g.snake)-1]
	}

	if head == g.stardust {
		g.collect()
	}
	if g.mode == ModeComet {
		if i := indexOf(g.shards, head); i >= 0 {
			g.hitShard(i)
		}
	}
}

// crash consumes a shield or ends the run.
func (g *Game) crash() {
	g.combo.Miss()
	g.misses++
	g.haptic(engine.HapticHeavy)
	g.burst(g.snake[0], core.ColorBrightRed, 12)
	if g.shields > 0 {
		g.shields--
		g.shieldUsed++
		g.initSnake()
		if indexOf(g.snake, g.stardust) >= 0 {
			g.stardust = g.spawn()
		}
		return
	}
	g.crashed = true
}

// sever cuts a comet's trail where its head ran into it.
func (g *Game) sever(at int) {
	g.combo.Miss()
	g.misses++
	g.haptic(engine.HapticMedium)
	g.snake = g.snake[:at+1]
	g.growing = 0
}

func (g *Game) collect() {
	g.collected++
	if g.mode == ModeComet && g.combo.Current > 0 && g.elapsed-g.lastPickup > g.rules.comboWindow {
		g.combo.Miss()
	}
	g.lastPickup = g.elapsed
	g.score += g.combo.Hit(stardustValue)
	g.growing++
	g.haptic(engine.HapticLight)
	g.burst(g.stardust, core.ColorBrightYellow, 8)

	switch g.mode {
	case ModeSerpent:
		g.won = g.collected >= g.rules.target
	case ModeComet:
		g.won = g.score >= g.rules.targetScore
	}
	if !g.won {
		g.stardust = g.spawn()
	}
}

func (g *Game) hitShard(i int) {
	g.score = max(g.score-g.rules.shardPenalty, 0)
	g.combo.Miss()
	g.misses++
	g.snake = g.snake[:max(len(g.snake)-2, 2)]
	g.growing = 0
	g.haptic(engine.HapticError)
	g.burst(g.shards[i], core.ColorViolet, 10)
	if g.env != nil {
		g.env.Damage(core.DamagePlayer, 1, "void_shard")
	}
	g.shards[i] = g.spawn()
}

func (g *Game) shuffleShards() {
	for i := range g.shards {
		g.shards[i] = g.spawn()
	}
}

// spawn picks a random free cell.
func (g *Game) spawn() core.Point {
	var empty []core.Point
	for y := 0; y < g.rules.height; y++ {
		for x := 0; x < g.rules.width; x++ {
			p := core.Point{X: x, Y: y}
			if !g.occupied(p) {
				empty = append(empty, p)
			}
		}
	}
	if len(empty) == 0 {
		return core.Point{X: -1, Y: -1}
	}
	return empty[g.rng.Intn(len(empty))]
}

func (g *Game) occupied(p core.Point) bool {
	return indexOf(g.snake, p) >= 0 || p == g.stardust || indexOf(g.shards, p) >= 0
}

func indexOf(ps []core.Point, p core.Point) int {
	for i, q := range ps {
		if q == p {
			return i
		}
	}
	return -1
}

func (g *Game) haptic(p engine.Pattern) {
	if g.env != nil {
		g.env.Haptic(p)
	}
}

// burst emits particles at a cell, in play-area percent.
func (g *Game) burst(p core.Point, c core.Color, n int) {
	if g.env == nil {
		return
	}
	x := float64(p.X) / float64(g.rules.width-1) * 100
	y := float64(p.Y) / float64(g.rules.height-1) * 100
	g.env.Particles.Emit(x, y, c, n, 30, 0.6)
}

// Accuracy is progress toward the mode's goal.
func (g *Game) Accuracy() float64 {
	if g.mode == ModeComet {
		return scoring.Accuracy(float64(g.score), float64(g.rules.targetScore))
	}
	return scoring.Accuracy(float64(g.collected), float64(g.rules.target))
}

// Result scores the run. Reaching the goal wins; running out of time
// still succeeds if enough progress was made; a crash fails.
func (g *Game) Result() core.MiniGameResult {
	acc := g.Accuracy()
	b := serpentBreakpoints
	if g.mode == ModeComet {
		b = cometBreakpoints
	}
	success := g.won || (!g.crashed && acc >= b.Partial)
	return scoring.Outcome(success, acc, b, map[string]int{
		"score":        g.score,
		"max_combo":    g.combo.Max,
		"hits":         g.collected,
		"misses":       g.misses,
		"shields_used": g.shieldUsed,
		"length":       len(g.snake),
	})
}

// Render draws the grid centered in the play area.
func (g *Game) Render(dst *core.Screen) {
	left := fmt.Sprintf("%s  Score %d  x%d", g.Title(), g.score, g.combo.Multiplier())
	if g.mode == ModeSerpent {
		left = fmt.Sprintf("%s  Stardust %d/%d  Shields %d", g.Title(), g.collected, g.rules.target, g.shields)
	}
	session.DrawHUD(dst, left, fmt.Sprintf("%ds", g.timer.Seconds()))

	area := session.PlayArea(dst.Width(), dst.Height())
	if area.W < g.rules.width+2 || area.H < g.rules.height+2 {
		dst.DrawTextCentered(area.Y+area.H/2, "Window too small")
		return
	}
	offX := area.X + (area.W-g.rules.width)/2
	offY := area.Y + (area.H-g.rules.height)/2
	if !g.rules.wrap {
		dst.DrawBox(core.NewRect(offX-1, offY-1, g.rules.width+2, g.rules.height+2))
	}

	if g.stardust.X >= 0 {
		dst.SetColor(offX+g.stardust.X, offY+g.stardust.Y, '*', core.ColorBrightYellow)
	}
	for _, s := range g.shards {
		dst.SetColor(offX+s.X, offY+s.Y, 'x', core.ColorViolet)
	}
	for i := len(g.snake) - 1; i >= 0; i-- {
		p := g.snake[i]
		glyph, color := 'o', core.ColorGreen
		if g.mode == ModeComet {
			glyph, color = '·', core.ColorCyan
		}
		if i == 0 {
			glyph, color = '@', core.ColorBrightGreen
			if g.mode == ModeComet {
				color = core.ColorBrightCyan
			}
		}
		dst.SetColor(offX+p.X, offY+p.Y, glyph, color)
	}
}
