package tuning

import (
	"testing"

	"github.com/vovakirdan/companion-arcade/internal/config"
	"github.com/vovakirdan/companion-arcade/internal/core"
	"github.com/vovakirdan/companion-arcade/internal/input"
	"github.com/vovakirdan/companion-arcade/internal/session"
)

var testTier = config.TuningTier{
	Tolerance:    10,
	LockTime:     1.5,
	DecayRate:    0.5,
	TargetCount:  2,
	DecoyPenalty: 75,
	StunTime:     2,
	TimeLimit:    60,
	PlayerSpeed:  50,
}

func begin(t *testing.T, tier config.TuningTier, opts session.Options) (*Game, *session.Env) {
	t.Helper()
	g := New(tier, 1)
	env := session.NewEnv(opts)
	g.Begin(env)
	return g, env
}

func TestPerfectLockAtSixtyFPS(t *testing.T) {
	g, _ := begin(t, testTier, session.Options{})
	g.signal = Signal{Pos: 40}
	g.dial = 40

	locks := 0
	for i := 0; i < 90; i++ {
		before := g.locked
		g.Tick(1.0/60, core.NewInputFrame())
		if g.locked > before {
			locks++
			if i != 89 {
				t.Errorf("locked on tick %d, expected the 90th", i+1)
			}
		}
	}
	if locks != 1 {
		t.Fatalf("locked %d times, expected exactly once", locks)
	}
	if g.perfect != 1 || g.score != perfectPoints {
		t.Errorf("perfect=%d score=%d, expected one perfect worth %d", g.perfect, g.score, perfectPoints)
	}
}

func TestOuterBandLocksSlowerAndGood(t *testing.T) {
	g, _ := begin(t, testTier, session.Options{})
	g.signal = Signal{Pos: 40}
	g.dial = 47 // inside tolerance, outside the inner third

	ticks := 0
	for g.locked == 0 && ticks < 1000 {
		g.Tick(0.1, core.NewInputFrame())
		ticks++
	}
	// 0.6 quality: 1.5s / 0.6 = 2.5s
	if ticks != 25 {
		t.Errorf("locked after %d ticks, expected 25", ticks)
	}
	if g.score != goodPoints || g.perfect != 0 {
		t.Errorf("score=%d perfect=%d, expected a good lock", g.score, g.perfect)
	}
}

func TestDecoyLockPenalizesAndStuns(t *testing.T) {
	var events []core.DamageEvent
	g, _ := begin(t, testTier, session.Options{OnDamage: func(e core.DamageEvent) { events = append(events, e) }})
	g.score = 200
	g.combo.Current, g.combo.Max = 3, 3
	g.signal = Signal{Pos: 30, Decoy: true}
	g.dial = 30

	for i := 0; i < 20 && g.decoyHits == 0; i++ {
		g.Tick(0.1, core.NewInputFrame())
	}
	if g.decoyHits != 1 {
		t.Fatal("decoy never locked")
	}
	if g.score != 125 || g.combo.Current != 0 || g.combo.Max != 3 {
		t.Errorf("score=%d combo=%+v, expected 200-75 and a reset combo", g.score, g.combo)
	}
	if len(events) != 1 || events[0].Target != core.DamagePlayer {
		t.Errorf("damage events = %+v", events)
	}

	// The dial is jammed while stunned.
	right := core.NewInputFrame()
	right.Set(core.ActionRight)
	dial := g.dial
	g.Tick(0.1, right)
	if g.dial != dial {
		t.Error("dial moved while stunned")
	}
	for i := 0; i < 25; i++ {
		g.Tick(0.1, core.NewInputFrame())
	}
	g.Tick(0.1, right)
	if g.dial != dial+testTier.PlayerSpeed*keyStep {
		t.Errorf("dial = %v, expected a key step after the stun cleared", g.dial)
	}
}

func TestDecoyFadesIfIgnored(t *testing.T) {
	g, _ := begin(t, testTier, session.Options{})
	g.signal = Signal{Pos: 90, Decoy: true}
	g.dial = 10

	for i := 0; i < 50; i++ {
		g.Tick(0.1, core.NewInputFrame())
	}
	if g.dodged != 1 {
		t.Errorf("dodged = %d, expected the decoy to fade after %.1fs", g.dodged, testTier.LockTime*decoyLifetimes)
	}
	if g.decoyHits != 0 || g.score != 0 {
		t.Error("ignoring a decoy should cost nothing")
	}
}

func TestInterferenceNarrowsTolerance(t *testing.T) {
	tier := testTier
	tier.InterferenceEach = 10
	g, env := begin(t, tier, session.Options{QuestIntervalScale: 0.5})

	env.Scheduler.Advance(5)
	if !g.interference || g.tolMult != interferenceScale {
		t.Fatalf("interference should start after 10*0.5s")
	}
	env.Scheduler.Advance(interferenceTime)
	if g.interference || g.tolMult != 1 {
		t.Error("interference should clear after two seconds")
	}
}

func TestPhaseShiftJumps(t *testing.T) {
	tier := testTier
	tier.PhaseShiftEach = 4
	g, env := begin(t, tier, session.Options{})

	for _, pos := range []float64{10, 50, 51, 90} {
		g.signal.Pos = pos
		env.Scheduler.Advance(4)
		if d := g.signal.Pos - pos; d < minShift && -d < minShift {
			t.Errorf("shift from %v landed at %v", pos, g.signal.Pos)
		}
		if g.signal.Pos < edge || g.signal.Pos > 100-edge {
			t.Errorf("shift left the band: %v", g.signal.Pos)
		}
	}
}

func TestSignalDriftBounces(t *testing.T) {
	g, _ := begin(t, testTier, session.Options{})
	g.signal = Signal{Pos: 94, Vel: 20}
	g.drift(0.1)
	if g.signal.Pos != 94 || g.signal.Vel != -20 {
		t.Errorf("signal = %+v, expected a bounce off the top edge", g.signal)
	}
}

func TestSingleSource(t *testing.T) {
	t.Run("touch", func(t *testing.T) {
		g, _ := begin(t, testTier, session.Options{})
		in := core.NewInputFrame()
		in.SetPointer(30)
		in.SetTilt(25)
		g.steer(in)
		if g.dial != 30 {
			t.Errorf("dial = %v, expected the pointer to drive it", g.dial)
		}
	})
	t.Run("tilt", func(t *testing.T) {
		g := New(testTier, 1)
		g.Source().Choose(true, true)
		g.Begin(session.NewEnv(session.Options{}))
		in := core.NewInputFrame()
		in.SetPointer(30)
		in.SetTilt(0)
		g.steer(in)
		if g.dial != 50 || g.Source().Chosen() != input.SourceTilt {
			t.Errorf("dial = %v, expected level tilt to centre it", g.dial)
		}
	})
}

func TestWinAndResult(t *testing.T) {
	g, _ := begin(t, testTier, session.Options{})
	over := false
	for k := 0; k < testTier.TargetCount; k++ {
		g.signal = Signal{Pos: g.dial}
		for i := 0; i < 15; i++ {
			over = g.Tick(0.1, core.NewInputFrame())
		}
	}
	if !over {
		t.Fatal("locking the last signal should end the session")
	}
	r := g.Result()
	if !r.Success || r.Result != core.TierPerfect || r.Stat("hits") != 2 {
		t.Errorf("Result() = %+v", r)
	}
}

func TestTimeUpFails(t *testing.T) {
	tier := testTier
	tier.TimeLimit = 1
	g, _ := begin(t, tier, session.Options{})
	over := false
	for i := 0; i < 20 && !over; i++ {
		over = g.Tick(0.1, core.NewInputFrame())
	}
	if !over {
		t.Fatal("time limit should end the session")
	}
	if r := g.Result(); r.Success || r.Result != core.TierFail {
		t.Errorf("Result() = %+v, expected fail", r)
	}
}
