package snake

import "github.com/vovakirdan/companion-arcade/internal/input"

// GameStateType represents the current run state.
type GameStateType string

const (
	StatePlaying GameStateType = "playing"
	StateCrashed GameStateType = "crashed"
	StateWon     GameStateType = "won"
	StateTimeUp  GameStateType = "time_up"
)

// Snapshot captures the game state for determinism testing and replay.
type Snapshot struct {
	Tick      uint64
	Mode      Mode
	Score     int
	Collected int
	Combo     int
	MaxCombo  int
	SnakeLen  int
	HeadX     int
	HeadY     int
	Dir       input.Direction
	Queued    int
	StarX     int
	StarY     int
	Shields   int
	Remaining float64
	State     GameStateType
}

// Snapshot returns the current game snapshot.
func (g *Game) Snapshot() Snapshot {
	state := StatePlaying
	switch {
	case g.won:
		state = StateWon
	case g.crashed:
		state = StateCrashed
	case g.timeUp:
		state = StateTimeUp
	}

	return Snapshot{
		Tick:      g.tick,
		Mode:      g.mode,
		Score:     g.score,
		Collected: g.collected,
		Combo:     g.combo.Current,
		MaxCombo:  g.combo.Max,
		SnakeLen:  len(g.snake),
		HeadX:     g.snake[0].X,
		HeadY:     g.snake[0].Y,
		Dir:       g.direction,
		Queued:    g.queue.Len(),
		StarX:     g.stardust.X,
		StarY:     g.stardust.Y,
		Shields:   g.shields,
		Remaining: g.timer.Remaining(),
		State:     state,
	}
}
