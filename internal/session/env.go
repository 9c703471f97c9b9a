package session

import (
	"math/rand"

	"github.com/charmbracelet/log"
	"github.com/vovakirdan/companion-arcade/internal/core"
	"github.com/vovakirdan/companion-arcade/internal/engine"
)

// Env is what a game sees of its session. Everything in it is owned by
// the session and released when the session ends.
type Env struct {
	Scheduler *engine.Scheduler
	Particles *engine.Particles
	Rand      *rand.Rand
	Logger    *log.Logger
	Stats     core.CompanionStats

	opts  Options
	state func() State
}

// Haptic fires a vibration pattern.
func (e *Env) Haptic(p engine.Pattern) {
	e.opts.Haptics.Fire(p)
}

// Damage notifies the host of damage. Events outside play are dropped.
func (e *Env) Damage(target core.DamageTarget, amount int, source string) {
	if e.state() != StatePlaying || amount <= 0 {
		return
	}
	e.Logger.Debug("damage", "target", target, "amount", amount, "source", source)
	if e.opts.OnDamage != nil {
		e.opts.OnDamage(core.DamageEvent{Target: target, Amount: amount, Source: source})
	}
}

// TimeLimit applies the host's timer cap and practice halving to a game's
// base time limit in seconds.
func (e *Env) TimeLimit(base float64) float64 {
	limit := base
	if e.opts.MaxTimer > 0 && e.opts.MaxTimer < limit {
		limit = e.opts.MaxTimer
	}
	if e.opts.Practice {
		limit = min(limit, max(limit/2, PracticeMinTime))
	}
	return limit
}

// Interval scales the period of a recurring random event.
func (e *Env) Interval(base float64) float64 {
	return base * e.opts.QuestIntervalScale
}

// Practice reports whether the session is a practice run.
func (e *Env) Practice() bool { return e.opts.Practice }

// Difficulty returns the session's difficulty.
func (e *Env) Difficulty() core.Difficulty { return e.opts.Difficulty }

// NewEnv builds an environment detached from any session, for driving a
// game directly. It always reports the playing state; callers advance
// Scheduler and Particles themselves.
func NewEnv(opts Options) *Env {
	opts = opts.withDefaults()
	return &Env{
		Scheduler: engine.NewScheduler(),
		Particles: engine.NewParticles(engine.DefaultMaxParticles, opts.Seed),
		Rand:      rand.New(rand.NewSource(opts.Seed)),
		Logger:    opts.Logger,
		Stats:     opts.Stats,
		opts:      opts,
		state:     func() State { return StatePlaying },
	}
}
