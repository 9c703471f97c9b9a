package session

import (
	"io"
	"time"

	"github.com/charmbracelet/log"
	"github.com/vovakirdan/companion-arcade/internal/core"
	"github.com/vovakirdan/companion-arcade/internal/engine"
)

// Session timing defaults.
const (
	DefaultCountdown     = 3
	DefaultLoadFloor     = 1200 * time.Millisecond
	DefaultLoadTimeout   = 8 * time.Second
	DefaultCompleteDelay = 1200 * time.Millisecond

	// PracticeMinTime is the shortest time limit practice halving allows.
	PracticeMinTime = 10.0
)

// Feedback receives best-effort writes. Implementations must not block.
type Feedback interface {
	SaveResult(sessionID, gameID string, difficulty core.Difficulty, practice bool, r core.MiniGameResult)
	SaveRating(sessionID, gameID, subject string, stars int)
}

// Options configure a Session. The zero value is usable.
type Options struct {
	Difficulty core.Difficulty
	Stats      core.CompanionStats

	// OnComplete receives the terminal result exactly once.
	OnComplete func(core.MiniGameResult)

	// OnDamage, when set, is told about damage dealt during play.
	OnDamage func(core.DamageEvent)

	// QuestIntervalScale multiplies the interval of periodic random
	// events. Zero means 1.
	QuestIntervalScale float64

	// MaxTimer caps a game's time limit in seconds. Zero means no cap.
	MaxTimer float64

	// Practice halves time limits and grants no bonus XP.
	Practice bool

	Haptics engine.Haptics
	Logger  *log.Logger
	Seed    int64
	Clock   engine.Clock

	// Countdown, LoadFloor, LoadTimeout and CompleteDelay default when
	// zero. A negative LoadFloor or CompleteDelay disables it.
	Countdown     int
	LoadFloor     time.Duration
	LoadTimeout   time.Duration
	CompleteDelay time.Duration

	Feedback Feedback
}

func (o Options) withDefaults() Options {
	if o.Difficulty == "" {
		o.Difficulty = core.DifficultyMedium
	}
	if o.QuestIntervalScale <= 0 {
		o.QuestIntervalScale = 1
	}
	if o.Haptics == nil {
		o.Haptics = engine.NopHaptics{}
	}
	if o.Logger == nil {
		o.Logger = log.New(io.Discard)
	}
	if o.Clock == nil {
		o.Clock = engine.SystemClock{}
	}
	if o.Countdown <= 0 {
		o.Countdown = DefaultCountdown
	}
	if o.LoadFloor < 0 {
		o.LoadFloor = 0
	} else if o.LoadFloor == 0 {
		o.LoadFloor = DefaultLoadFloor
	}
	if o.LoadTimeout <= 0 {
		o.LoadTimeout = DefaultLoadTimeout
	}
	if o.CompleteDelay < 0 {
		o.CompleteDelay = 0
	} else if o.CompleteDelay == 0 {
		o.CompleteDelay = DefaultCompleteDelay
	}
	return o
}
