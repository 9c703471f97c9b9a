package dodge

import (
	"strings"
	"testing"

	"github.com/vovakirdan/companion-arcade/internal/config"
	"github.com/vovakirdan/companion-arcade/internal/core"
	"github.com/vovakirdan/companion-arcade/internal/input"
	"github.com/vovakirdan/companion-arcade/internal/registry"
	"github.com/vovakirdan/companion-arcade/internal/session"
)

var testTier = config.DodgeTier{
	TimeLimit:   30,
	FallSpeed:   20,
	PlayerSpeed: 50,
	Lives:       2,
	CatchWidth:  5,
}

func begin(t *testing.T, tier config.DodgeTier, opts session.Options) (*Game, *session.Env) {
	t.Helper()
	g := New(tier, 1)
	env := session.NewEnv(opts)
	g.Begin(env)
	return g, env
}

// fallTo ticks until the objects have passed y.
func fallTo(g *Game, y float64) {
	for i := 0; i < 1000 && len(g.objects) > 0 && g.objects[0].Y < y; i++ {
		g.Tick(0.05, core.NewInputFrame())
	}
}

func TestCatchCrystal(t *testing.T) {
	g, _ := begin(t, testTier, session.Options{})
	g.objects = []Object{{X: 52, Y: 80, Crystal: true}}

	fallTo(g, 100)
	if g.caught != 1 || g.score != crystalPoints {
		t.Errorf("caught=%d score=%d, expected one crystal worth %d", g.caught, g.score, crystalPoints)
	}
	if len(g.objects) != 0 {
		t.Error("a caught crystal should leave the field")
	}
}

func TestCrystalFallThroughBreaksCombo(t *testing.T) {
	g, _ := begin(t, testTier, session.Options{})
	g.combo.Current, g.combo.Max = 4, 4
	g.objects = []Object{{X: 20, Y: 85, Crystal: true}}

	fallTo(g, 100)
	fallTo(g, 200)
	if g.fell != 1 || g.combo.Current != 0 || g.combo.Max != 4 {
		t.Errorf("fell=%d combo=%+v, expected a reset combo with max kept", g.fell, g.combo)
	}
}

func TestDebrisCostsLife(t *testing.T) {
	var events []core.DamageEvent
	g, _ := begin(t, testTier, session.Options{OnDamage: func(e core.DamageEvent) { events = append(events, e) }})
	g.objects = []Object{{X: 48, Y: 85}}

	fallTo(g, 100)
	if g.Lives() != 1 || g.hits != 1 {
		t.Errorf("lives=%d hits=%d, expected one life lost", g.Lives(), g.hits)
	}
	if len(events) != 1 || events[0].Target != core.DamagePlayer || events[0].Source != "debris" {
		t.Errorf("damage events = %+v", events)
	}
}

func TestDebrisDodged(t *testing.T) {
	g, _ := begin(t, testTier, session.Options{})
	g.objects = []Object{{X: 10, Y: 85}}
	for i := 0; i < 20; i++ {
		g.Tick(0.05, core.NewInputFrame())
	}
	if g.dodged != 1 || g.Lives() != 2 {
		t.Errorf("dodged=%d lives=%d", g.dodged, g.Lives())
	}
}

func TestOutOfLivesFails(t *testing.T) {
	g, _ := begin(t, testTier, session.Options{})
	g.objects = []Object{{X: 50, Y: 85}, {X: 51, Y: 80}}

	over := false
	for i := 0; i < 40 && !over; i++ {
		over = g.Tick(0.05, core.NewInputFrame())
	}
	if !over {
		t.Fatal("losing the last life should end the session")
	}
	if r := g.Result(); r.Success || r.Result != core.TierFail || r.Stat("lives") != 0 {
		t.Errorf("Result() = %+v, expected fail", r)
	}
}

func TestBonusLives(t *testing.T) {
	g, _ := begin(t, testTier, session.Options{Stats: core.CompanionStats{Soul: 68}})
	if g.Lives() != 4 {
		t.Errorf("lives = %d, expected 2+2", g.Lives())
	}
}

func TestSurviveTimer(t *testing.T) {
	tier := testTier
	tier.TimeLimit = 2
	g, _ := begin(t, tier, session.Options{})
	over := false
	for i := 0; i < 100 && !over; i++ {
		over = g.Tick(0.1, core.NewInputFrame())
	}
	if !over {
		t.Fatal("timer should end the session")
	}
	r := g.Result()
	if !r.Success || r.Result != core.TierPerfect {
		t.Errorf("Result() = %+v, expected an untouched survivor to succeed", r)
	}
}

func TestSpawnOnSchedule(t *testing.T) {
	tier := testTier
	tier.SpawnInterval = 0.5
	tier.CrystalChance = 1
	g, env := begin(t, tier, session.Options{})
	for i := 0; i < 12; i++ {
		env.Scheduler.Advance(0.1)
		g.Tick(0.1, core.NewInputFrame())
	}
	if g.spawned != 2 {
		t.Fatalf("spawned %d, expected 2 in 1.2s", g.spawned)
	}
	for _, o := range g.objects {
		if !o.Crystal || o.X < edge || o.X > 100-edge {
			t.Errorf("unexpected spawn %+v", o)
		}
	}
}

func TestSteering(t *testing.T) {
	t.Run("keys", func(t *testing.T) {
		g, _ := begin(t, testTier, session.Options{})
		in := core.NewInputFrame()
		in.Set(core.ActionLeft)
		g.Tick(0.05, in)
		if g.player != 45 {
			t.Errorf("player = %v, expected one key step left", g.player)
		}
	})
	t.Run("pointer", func(t *testing.T) {
		g, _ := begin(t, testTier, session.Options{})
		in := core.NewInputFrame()
		in.SetPointer(120)
		in.SetTilt(-30)
		g.Tick(0.05, in)
		if g.player != 100 {
			t.Errorf("player = %v, expected the pointer clamped to 100", g.player)
		}
	})
	t.Run("tilt", func(t *testing.T) {
		g := New(testTier, 1)
		g.Source().Choose(true, true)
		g.Begin(session.NewEnv(session.Options{}))
		in := core.NewInputFrame()
		in.SetPointer(10)
		in.SetTilt(0)
		g.Tick(0.05, in)
		if g.player != 50 || g.Source().Chosen() != input.SourceTilt {
			t.Errorf("player = %v, expected level tilt to hold the centre", g.player)
		}
	})
}

func TestRegistered(t *testing.T) {
	g, err := registry.Create("dodge", registry.Setup{Difficulty: core.DifficultyMaster, Seed: 1, Input: input.SourceTilt})
	if err != nil {
		t.Fatalf("Create() error: %v", err)
	}
	d := g.(*Game)
	if d.tier.Lives != 3 {
		t.Errorf("master should map to hard, got %+v", d.tier)
	}
	if d.Source().Chosen() != input.SourceTouch {
		t.Error("tilt without a sensor should fall back to touch")
	}
}

func TestRender(t *testing.T) {
	g, _ := begin(t, testTier, session.Options{})
	g.objects = []Object{{X: 50, Y: 30, Crystal: true}}
	screen := core.NewScreen(80, 24)
	g.Render(screen)
	content := screen.String()
	if !strings.Contains(content, "Meteor Dodge") || !strings.Contains(content, "◆") {
		t.Errorf("unexpected render:\n%s", content)
	}
}
