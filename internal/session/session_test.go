package session

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/vovakirdan/companion-arcade/internal/core"
	"github.com/vovakirdan/companion-arcade/internal/engine"
)

var epoch = time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)

const frame = 100 * time.Millisecond

// timedGame counts taps until its timer runs out.
type timedGame struct {
	limit  float64
	timer  *engine.Countdown
	taps   int
	ticks  int
	lastDT float64
	began  int
	env    *Env
	over   bool
}

func newTimedGame(limit float64) *timedGame {
	g := &timedGame{limit: limit}
	g.timer = engine.NewCountdown(limit, func() { g.over = true })
	return g
}

func (g *timedGame) ID() string    { return "timed" }
func (g *timedGame) Title() string { return "Timed" }

func (g *timedGame) Begin(env *Env) {
	g.began++
	g.env = env
	g.timer = engine.NewCountdown(env.TimeLimit(g.limit), func() { g.over = true })
	g.timer.SetRunning(true)
}

func (g *timedGame) Tick(dt float64, in core.InputFrame) bool {
	g.ticks++
	g.lastDT = dt
	g.timer.Advance(dt)
	if g.over {
		return true
	}
	if in.Has(core.ActionTap) {
		g.taps++
	}
	return false
}

func (g *timedGame) Result() core.MiniGameResult {
	r := core.NewResult(true, 80, core.TierGood, map[string]int{"score": g.taps})
	r.BonusXP = 25
	return r
}

func (g *timedGame) Render(dst *core.Screen) {}

type harness struct {
	t       *testing.T
	s       *Session
	clock   *engine.ManualClock
	results []core.MiniGameResult
}

func newHarness(t *testing.T, g Game, opts Options) *harness {
	h := &harness{t: t, clock: engine.NewManualClock(epoch)}
	opts.OnComplete = func(r core.MiniGameResult) { h.results = append(h.results, r) }
	h.s = New(g, opts)
	return h
}

// frame delivers one frame, advancing the clock first unless it is the
// very first frame.
func (h *harness) frame(in core.InputFrame) {
	h.s.Frame(h.clock.Now(), in)
	h.clock.Advance(frame)
}

func (h *harness) frames(n int) {
	for range n {
		h.frame(core.NewInputFrame())
	}
}

// until runs frames until cond holds, failing after limit frames.
func (h *harness) until(cond func() bool, limit int) {
	h.t.Helper()
	for range limit {
		if cond() {
			return
		}
		h.frame(core.NewInputFrame())
	}
	if !cond() {
		h.t.Fatalf("condition not reached after %d frames (state %v)", limit, h.s.State())
	}
}

func (h *harness) untilState(st State) {
	h.t.Helper()
	h.until(func() bool { return h.s.State() == st }, 200)
}

func tap() core.InputFrame {
	f := core.NewInputFrame()
	f.Set(core.ActionTap)
	return f
}

func TestSessionLifecycle(t *testing.T) {
	g := newTimedGame(2)
	h := newHarness(t, g, Options{})

	h.frame(core.NewInputFrame())
	if h.s.State() != StateCountdown {
		t.Fatalf("state = %v, expected countdown", h.s.State())
	}
	if h.s.Countdown() != 3 {
		t.Errorf("Countdown() = %d, expected 3", h.s.Countdown())
	}

	h.untilState(StatePlaying)
	if g.began != 1 {
		t.Errorf("Begin called %d times, expected 1", g.began)
	}
	if g.ticks != 0 {
		t.Errorf("game ticked %d times during countdown", g.ticks)
	}

	h.frame(tap())
	h.frame(tap())
	h.untilState(StateComplete)

	if len(h.results) != 0 {
		t.Fatal("result emitted before the completion delay")
	}
	h.until(func() bool { return len(h.results) > 0 }, 30)
	h.frames(50)

	if len(h.results) != 1 {
		t.Fatalf("emitted %d results, expected exactly 1", len(h.results))
	}
	if h.results[0].Stat("score") != 2 {
		t.Errorf("score = %d, expected 2", h.results[0].Stat("score"))
	}
}

func TestSessionPauseFreezesTime(t *testing.T) {
	g := newTimedGame(30)
	h := newHarness(t, g, Options{})
	h.untilState(StatePlaying)
	h.frames(5)

	if !h.s.Pause() {
		t.Fatal("Pause() refused while playing")
	}
	remaining, ticks := g.timer.Remaining(), g.ticks

	// Five seconds of wall clock while paused
	h.frames(50)
	if g.timer.Remaining() != remaining || g.ticks != ticks {
		t.Fatalf("paused game advanced: remaining %f -> %f", remaining, g.timer.Remaining())
	}

	h.s.Resume()
	h.frame(core.NewInputFrame())
	if g.lastDT != 0 {
		t.Errorf("first delta after resume = %f, expected 0", g.lastDT)
	}
	if g.timer.Remaining() != remaining {
		t.Errorf("remaining after resume = %f, expected %f", g.timer.Remaining(), remaining)
	}

	h.frame(core.NewInputFrame())
	if g.lastDT != frame.Seconds() {
		t.Errorf("second delta after resume = %f, expected %f", g.lastDT, frame.Seconds())
	}
}

func TestSessionPauseResumeIsIdempotent(t *testing.T) {
	g := newTimedGame(30)
	h := newHarness(t, g, Options{})
	h.untilState(StatePlaying)
	h.frames(3)

	remaining, taps := g.timer.Remaining(), g.taps
	h.s.Pause()
	h.s.Resume()

	if g.timer.Remaining() != remaining || g.taps != taps {
		t.Error("pause+resume changed game state")
	}
	if h.s.Resume() {
		t.Error("Resume() should refuse while already playing")
	}
}

func TestSessionPracticeAndTimer(t *testing.T) {
	tests := []struct {
		name     string
		opts     Options
		base     float64
		expected float64
	}{
		{"no overrides", Options{}, 60, 60},
		{"max timer caps", Options{MaxTimer: 45}, 60, 45},
		{"max timer above base", Options{MaxTimer: 90}, 60, 60},
		{"practice halves", Options{Practice: true}, 60, 30},
		{"practice floor", Options{Practice: true}, 15, 10},
		{"practice never lengthens", Options{Practice: true}, 8, 8},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			s := New(newTimedGame(1), tc.opts)
			if got := s.env.TimeLimit(tc.base); got != tc.expected {
				t.Errorf("TimeLimit(%v) = %v, expected %v", tc.base, got, tc.expected)
			}
		})
	}

	g := newTimedGame(20)
	h := newHarness(t, g, Options{Practice: true, CompleteDelay: -1})
	h.until(func() bool { return len(h.results) > 0 }, 200)
	if h.results[0].BonusXP != 0 {
		t.Errorf("practice BonusXP = %d, expected 0", h.results[0].BonusXP)
	}
}

func TestSessionCloseNeverEmits(t *testing.T) {
	g := newTimedGame(1)
	h := newHarness(t, g, Options{})
	h.untilState(StatePlaying)

	h.s.Close()
	h.frames(100)
	if len(h.results) != 0 {
		t.Error("closed session emitted a result")
	}
	if h.s.sched.Pending() != 0 || !h.s.sched.Released() {
		t.Error("Close should release the scheduler")
	}
}

func TestSessionForfeit(t *testing.T) {
	g := newTimedGame(30)
	h := newHarness(t, g, Options{CompleteDelay: -1})
	h.untilState(StatePlaying)

	if !h.s.Forfeit() {
		t.Fatal("Forfeit() refused")
	}
	if h.s.Forfeit() {
		t.Error("second Forfeit() should be refused")
	}
	h.frames(10)

	if len(h.results) != 1 {
		t.Fatalf("emitted %d results, expected 1", len(h.results))
	}
	if h.results[0].Success || h.results[0].Result != core.TierFail {
		t.Errorf("forfeit result = %+v, expected failure", h.results[0])
	}
}

func TestSessionDamageOnlyWhilePlaying(t *testing.T) {
	var events []core.DamageEvent
	g := newTimedGame(30)
	h := newHarness(t, g, Options{OnDamage: func(e core.DamageEvent) { events = append(events, e) }})

	h.s.env.Damage(core.DamagePlayer, 5, "early")
	h.untilState(StatePlaying)
	g.env.Damage(core.DamageAdversary, 10, "pulse")
	h.s.Pause()
	g.env.Damage(core.DamagePlayer, 5, "paused")

	if len(events) != 1 || events[0].Source != "pulse" || events[0].Amount != 10 {
		t.Errorf("events = %+v, expected only the in-play event", events)
	}
}

func TestSessionSchedulerFrozenWhilePaused(t *testing.T) {
	g := newTimedGame(60)
	h := newHarness(t, g, Options{})
	h.untilState(StatePlaying)

	fired := 0
	g.env.Scheduler.Every(1, func() { fired++ })
	h.frames(11) // first frame after countdown may carry dt 0
	before := fired
	if before == 0 {
		t.Fatal("interval never fired while playing")
	}

	h.s.Pause()
	h.frames(50)
	if fired != before {
		t.Errorf("interval fired %d times while paused", fired-before)
	}
}

// loaderGame loads an asset before play.
type loaderGame struct {
	*timedGame
	load      func(ctx context.Context) error
	installed bool
	fallback  bool
}

func (g *loaderGame) Load(ctx context.Context) (func(), error) {
	if err := g.load(ctx); err != nil {
		return nil, err
	}
	return func() { g.installed = true }, nil
}

func (g *loaderGame) UseFallback() { g.fallback = true }

func TestSessionLoadingFloor(t *testing.T) {
	g := &loaderGame{timedGame: newTimedGame(5), load: func(context.Context) error { return nil }}
	h := newHarness(t, g, Options{LoadTimeout: time.Hour})

	h.frame(core.NewInputFrame())
	if h.s.State() != StateLoading {
		t.Fatalf("state = %v, expected loading", h.s.State())
	}

	// The asset resolves at once but the floor keeps the loading screen up
	h.frames(10)
	if h.s.State() != StateLoading {
		t.Fatalf("left loading after %v, before the floor", 10*frame)
	}

	for range 100 {
		if h.s.State() != StateLoading {
			break
		}
		time.Sleep(time.Millisecond)
		h.frame(core.NewInputFrame())
	}
	if h.s.State() != StateCountdown {
		t.Fatalf("state = %v, expected countdown", h.s.State())
	}
	if !g.installed || g.fallback {
		t.Errorf("installed=%v fallback=%v, expected install only", g.installed, g.fallback)
	}
}

func TestSessionLoadFailureFallsBack(t *testing.T) {
	g := &loaderGame{timedGame: newTimedGame(5), load: func(context.Context) error { return errors.New("offline") }}
	h := newHarness(t, g, Options{LoadTimeout: time.Hour, LoadFloor: -1})

	for range 100 {
		h.frame(core.NewInputFrame())
		if h.s.State() != StateLoading {
			break
		}
		time.Sleep(time.Millisecond)
	}
	if h.s.State() != StateCountdown {
		t.Fatalf("state = %v, expected countdown", h.s.State())
	}
	if g.installed || !g.fallback {
		t.Errorf("installed=%v fallback=%v, expected fallback only", g.installed, g.fallback)
	}
}

func TestSessionLoadTimeoutFallsBack(t *testing.T) {
	g := &loaderGame{timedGame: newTimedGame(5), load: func(ctx context.Context) error {
		<-ctx.Done()
		return ctx.Err()
	}}
	h := newHarness(t, g, Options{LoadTimeout: 2 * time.Second})

	h.frames(15)
	if h.s.State() != StateLoading {
		t.Fatalf("state = %v, expected still loading", h.s.State())
	}
	h.frames(10)
	if h.s.State() != StateCountdown || !g.fallback {
		t.Errorf("state = %v fallback = %v, expected countdown with fallback", h.s.State(), g.fallback)
	}
}

// roundsGame supports rating and replay.
type roundsGame struct {
	*timedGame
	rounds int
}

func (g *roundsGame) CanContinue() bool     { return true }
func (g *roundsGame) RatingSubject() string { return "song" }
func (g *roundsGame) NextRound() {
	g.rounds++
	g.over = false
	g.timer = engine.NewCountdown(g.limit, func() { g.over = true })
	g.timer.SetRunning(true)
}

type recordingFeedback struct {
	results []core.MiniGameResult
	ratings []int
}

func (f *recordingFeedback) SaveResult(_, _ string, _ core.Difficulty, _ bool, r core.MiniGameResult) {
	f.results = append(f.results, r)
}

func (f *recordingFeedback) SaveRating(_, _, subject string, stars int) {
	f.ratings = append(f.ratings, stars)
}

func TestSessionRatingLoop(t *testing.T) {
	fb := &recordingFeedback{}
	g := &roundsGame{timedGame: newTimedGame(1)}
	h := newHarness(t, g, Options{Feedback: fb, CompleteDelay: -1})

	h.untilState(StateRating)
	if !h.s.Rate(7) || h.s.Rate(3) {
		t.Fatal("expected exactly one accepted rating per round")
	}
	if !h.s.Continue() {
		t.Fatal("Continue() refused")
	}
	h.untilState(StatePlaying)
	if h.s.Round() != 2 || g.rounds != 1 {
		t.Errorf("round = %d, NextRound calls = %d", h.s.Round(), g.rounds)
	}
	if g.began != 1 {
		t.Errorf("Begin called %d times, expected 1", g.began)
	}

	h.untilState(StateRating)
	if !h.s.Finish() {
		t.Fatal("Finish() refused")
	}
	h.frames(10)

	if len(h.results) != 1 || len(fb.results) != 1 {
		t.Errorf("results = %d, feedback results = %d, expected 1 each", len(h.results), len(fb.results))
	}
	if len(fb.ratings) != 1 || fb.ratings[0] != 5 {
		t.Errorf("ratings = %v, expected [5]", fb.ratings)
	}
}

// steppingClock moves forward a fixed step on every read.
type steppingClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *steppingClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(frame)
	return c.now
}

func TestSessionRunHeadless(t *testing.T) {
	var got []core.MiniGameResult
	g := newTimedGame(2)
	s := New(g, Options{
		Clock:      &steppingClock{now: epoch},
		OnComplete: func(r core.MiniGameResult) { got = append(got, r) },
	})

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := s.Run(ctx, time.Millisecond, tap); err != nil {
		t.Fatalf("Run() = %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("emitted %d results, expected 1", len(got))
	}
	if got[0].Stat("score") == 0 {
		t.Error("headless input was not applied")
	}
}
