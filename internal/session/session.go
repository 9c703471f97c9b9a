package session

import (
	"context"
	"math/rand"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/vovakirdan/companion-arcade/internal/audio"
	"github.com/vovakirdan/companion-arcade/internal/core"
	"github.com/vovakirdan/companion-arcade/internal/engine"
)

// State is a session lifecycle state.
type State int

const (
	StateLoading State = iota
	StateCountdown
	StatePlaying
	StatePaused
	StateRating
	StateComplete
)

// String returns a lowercase name.
func (s State) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StateCountdown:
		return "countdown"
	case StatePlaying:
		return "playing"
	case StatePaused:
		return "paused"
	case StateRating:
		return "rating"
	case StateComplete:
		return "complete"
	default:
		return "unknown"
	}
}

type loadOutcome struct {
	install func()
	err     error
}

// Session drives one game through
// loading -> countdown -> playing <-> paused -> rating -> complete.
// It is not safe for concurrent use; the host calls it from one goroutine.
type Session struct {
	id     string
	game   Game
	opts   Options
	logger *log.Logger

	state   State
	started bool
	began   bool
	round   int
	closed  bool

	main      *engine.Loop // simulation, countdown and exit delay
	fx        *engine.Loop // cosmetic particles, never paused
	countdown *engine.Countdown
	exit      *engine.Countdown
	sched     *engine.Scheduler
	particles *engine.Particles
	stars     *engine.Starfield
	env       *Env

	now       time.Time
	playStart time.Time
	input     core.InputFrame

	loadStart  time.Time
	loadDone   chan loadOutcome
	loadResult *loadOutcome
	cancelLoad context.CancelFunc

	result    core.MiniGameResult
	hasResult bool
	emitted   bool
	rated     bool
}

// New creates a session for game. Nothing happens until the first Frame.
func New(game Game, opts Options) *Session {
	opts = opts.withDefaults()
	s := &Session{
		id:        uuid.NewString(),
		game:      game,
		opts:      opts,
		logger:    opts.Logger.With("game", game.ID()),
		sched:     engine.NewScheduler(),
		particles: engine.NewParticles(engine.DefaultMaxParticles, opts.Seed),
		stars:     engine.NewStarfield(backdropStars, opts.Seed),
		input:     core.NewInputFrame(),
	}
	s.main = engine.NewLoop(s.step)
	s.fx = engine.NewLoop(func(dt float64, _ time.Time) {
		s.particles.Step(dt)
		s.stars.Step(dt)
	})
	s.countdown = engine.NewCountdown(float64(opts.Countdown), s.startPlaying)
	s.exit = engine.NewCountdown(opts.CompleteDelay.Seconds(), s.emit)
	s.env = &Env{
		Scheduler: s.sched,
		Particles: s.particles,
		Rand:      rand.New(rand.NewSource(opts.Seed)),
		Logger:    s.logger,
		Stats:     opts.Stats,
		opts:      opts,
		state:     s.State,
	}
	return s
}

// ID returns the session's unique identifier.
func (s *Session) ID() string { return s.id }

// Game returns the game being played.
func (s *Session) Game() Game { return s.game }

// State returns the current lifecycle state.
func (s *Session) State() State { return s.state }

// Round returns the 1-based round number.
func (s *Session) Round() int { return s.round + 1 }

// Countdown returns the whole seconds left in the pre-play countdown.
func (s *Session) Countdown() int { return s.countdown.Seconds() }

// Closed reports whether Close was called.
func (s *Session) Closed() bool { return s.closed }

// Emitted reports whether the completion callback has run.
func (s *Session) Emitted() bool { return s.emitted }

// Result returns the terminal result once the session is complete.
func (s *Session) Result() (core.MiniGameResult, bool) {
	return s.result, s.hasResult
}

// PlayStarted returns when the current round entered play.
func (s *Session) PlayStarted() time.Time { return s.playStart }

// Frame advances the session to now, applying in if the game is playing.
func (s *Session) Frame(now time.Time, in core.InputFrame) {
	if s.closed {
		return
	}
	s.now = now
	if !s.started {
		s.started = true
		s.fx.SetRunning(true)
		s.enterRound()
	}

	s.fx.Frame(now)
	if s.state == StateLoading {
		s.pollLoad()
	}
	s.input = in
	s.main.Frame(now)
	s.input = core.NewInputFrame()
}

// step is the main loop callback.
func (s *Session) step(dt float64, _ time.Time) {
	switch s.state {
	case StateCountdown:
		s.countdown.Advance(dt)
	case StatePlaying:
		s.sched.Advance(dt)
		if s.state != StatePlaying {
			return
		}
		if s.game.Tick(dt, s.input) {
			s.endRound()
		}
	case StateComplete:
		s.exit.Advance(dt)
	}
}

func (s *Session) enterRound() {
	if l, ok := s.game.(Loader); ok {
		s.startLoad(l)
		return
	}
	s.enterCountdown()
}

func (s *Session) startLoad(l Loader) {
	s.setState(StateLoading)
	s.main.SetRunning(false)

	ctx, cancel := context.WithTimeout(context.Background(), s.opts.LoadTimeout)
	s.cancelLoad = cancel
	done := make(chan loadOutcome, 1)
	s.loadDone = done
	s.loadResult = nil
	s.loadStart = s.now

	go func() {
		install, err := l.Load(ctx)
		done <- loadOutcome{install: install, err: err}
	}()
}

// pollLoad leaves loading once the loader has answered (or timed out)
// and the minimum floor has elapsed. It never blocks.
func (s *Session) pollLoad() {
	if s.loadResult == nil {
		select {
		case out := <-s.loadDone:
			s.loadResult = &out
		default:
			if s.now.Sub(s.loadStart) < s.opts.LoadTimeout {
				return
			}
			s.loadResult = &loadOutcome{err: context.DeadlineExceeded}
		}
	}
	if s.now.Sub(s.loadStart) < s.opts.LoadFloor {
		return
	}

	s.cancelLoad()
	l := s.game.(Loader)
	if s.loadResult.err != nil || s.loadResult.install == nil {
		s.logger.Warn("asset load failed, using fallback", "error", s.loadResult.err)
		l.UseFallback()
	} else {
		s.loadResult.install()
	}
	s.enterCountdown()
}

func (s *Session) enterCountdown() {
	s.setState(StateCountdown)
	s.countdown.Reset()
	s.countdown.SetRunning(true)
	s.main.SetRunning(true)
}

// startPlaying runs when the countdown reaches zero.
func (s *Session) startPlaying() {
	s.playStart = s.now
	if !s.began {
		s.began = true
		s.game.Begin(s.env)
	}
	s.setState(StatePlaying)
	if track := s.track(); track != nil {
		track.Start()
	}
}

func (s *Session) endRound() {
	if r, ok := s.game.(Rounds); ok && r.CanContinue() {
		s.setState(StateRating)
		s.main.SetRunning(false)
		s.rated = false
		if track := s.track(); track != nil {
			track.Pause()
		}
		return
	}
	s.complete(false)
}

// Pause freezes play. It only applies while playing.
func (s *Session) Pause() bool {
	if s.state != StatePlaying || s.closed {
		return false
	}
	s.setState(StatePaused)
	s.main.SetRunning(false)
	if track := s.track(); track != nil {
		track.Pause()
	}
	return true
}

// Resume continues a paused session. The first frame after it has dt = 0.
func (s *Session) Resume() bool {
	if s.state != StatePaused || s.closed {
		return false
	}
	s.setState(StatePlaying)
	s.main.SetRunning(true)
	if track := s.track(); track != nil {
		track.Resume()
	}
	return true
}

// TogglePause pauses or resumes.
func (s *Session) TogglePause() {
	if !s.Pause() {
		s.Resume()
	}
}

// Rate records a 1-5 star rating for the finished round. Only the first
// rating per round is kept.
func (s *Session) Rate(stars int) bool {
	r, ok := s.game.(Rounds)
	if s.state != StateRating || !ok || s.rated {
		return false
	}
	stars = core.Clamp(stars, 1, 5)
	s.rated = true
	s.logger.Debug("round rated", "round", s.Round(), "stars", stars)
	if s.opts.Feedback != nil {
		s.opts.Feedback.SaveRating(s.id, s.game.ID(), r.RatingSubject(), stars)
	}
	return true
}

// Rated reports whether the current round has been rated.
func (s *Session) Rated() bool { return s.rated }

// Continue starts the next round from the rating prompt.
func (s *Session) Continue() bool {
	r, ok := s.game.(Rounds)
	if s.state != StateRating || !ok {
		return false
	}
	s.round++
	r.NextRound()
	s.enterRound()
	return true
}

// Finish ends the session from the rating prompt.
func (s *Session) Finish() bool {
	if s.state != StateRating {
		return false
	}
	s.complete(false)
	return true
}

// Forfeit ends an unfinished session as a failure. The result is still
// emitted once.
func (s *Session) Forfeit() bool {
	if s.closed || s.hasResult {
		return false
	}
	if s.cancelLoad != nil {
		s.cancelLoad()
	}
	s.complete(true)
	return true
}

func (s *Session) complete(forfeit bool) {
	if s.hasResult {
		return
	}
	r := s.game.Result()
	if forfeit {
		r.Success = false
		r.Result = core.TierFail
		r.BonusXP = 0
	}
	if s.opts.Practice {
		r.BonusXP = 0
	}
	r.Accuracy = core.ClampF(r.Accuracy, 0, 100)
	s.result = r
	s.hasResult = true

	s.sched.Release()
	if track := s.track(); track != nil {
		track.Stop()
	}
	if r.Success {
		s.env.Haptic(engine.HapticSuccess)
	} else {
		s.env.Haptic(engine.HapticError)
	}
	s.setState(StateComplete)
	s.logger.Info("session complete", "result", r.Result, "accuracy", r.Accuracy, "success", r.Success)

	if s.opts.CompleteDelay <= 0 {
		s.emit()
		return
	}
	s.exit.Reset()
	s.exit.SetRunning(true)
	s.main.SetRunning(true)
}

// emit hands the result to the host. It runs at most once.
func (s *Session) emit() {
	if s.emitted || !s.hasResult {
		return
	}
	s.emitted = true
	s.main.SetRunning(false)
	if s.opts.Feedback != nil {
		s.opts.Feedback.SaveResult(s.id, s.game.ID(), s.opts.Difficulty, s.opts.Practice, s.result)
	}
	if s.opts.OnComplete != nil {
		s.opts.OnComplete(s.result)
	}
}

// Close releases every resource. A closed session never emits.
func (s *Session) Close() {
	if s.closed {
		return
	}
	s.closed = true
	if s.cancelLoad != nil {
		s.cancelLoad()
	}
	s.main.SetRunning(false)
	s.fx.SetRunning(false)
	s.sched.Release()
	s.countdown.SetRunning(false)
	s.exit.SetRunning(false)
	if track := s.track(); track != nil {
		track.Stop()
	}
	s.logger.Debug("session closed", "state", s.state)
}

// Run drives the session headlessly at interval until it emits its
// result, is closed, or ctx is done. input supplies each frame's input.
func (s *Session) Run(ctx context.Context, interval time.Duration, input func() core.InputFrame) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	driver := engine.NewLoop(func(_ float64, now time.Time) {
		in := core.NewInputFrame()
		if input != nil {
			in = input()
		}
		s.Frame(now, in)
		if s.emitted || s.closed {
			cancel()
		}
	})
	driver.SetRunning(true)
	err := driver.Run(ctx, interval, s.opts.Clock)
	if s.emitted || s.closed {
		return nil
	}
	return err
}

func (s *Session) track() *audio.Track {
	if a, ok := s.game.(Audible); ok {
		return a.Track()
	}
	return nil
}

func (s *Session) setState(next State) {
	if s.state == next {
		return
	}
	s.logger.Debug("state", "from", s.state, "to", next)
	s.state = next
}
