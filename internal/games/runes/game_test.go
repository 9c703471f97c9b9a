package runes

import (
	"strings"
	"testing"

	"github.com/vovakirdan/companion-arcade/internal/config"
	"github.com/vovakirdan/companion-arcade/internal/core"
	"github.com/vovakirdan/companion-arcade/internal/registry"
	"github.com/vovakirdan/companion-arcade/internal/session"
)

var testTier = config.RunesTier{
	Runes:        4,
	StartLength:  2,
	Rounds:       2,
	ShowTime:     0.5,
	Decoys:       1,
	QuickTime:    1,
	DecoyPenalty: 50,
	StunTime:     1,
	MaxMisses:    2,
	TimeLimit:    60,
}

func begin(t *testing.T, tier config.RunesTier) *Game {
	t.Helper()
	g := New(tier, 7)
	g.Begin(session.NewEnv(session.Options{}))
	return g
}

// watch ticks through the reveal.
func watch(t *testing.T, g *Game) {
	t.Helper()
	for i := 0; i < 200 && g.Phase() != PhaseInput; i++ {
		g.Tick(0.1, core.NewInputFrame())
	}
	if g.Phase() != PhaseInput {
		t.Fatal("reveal never finished")
	}
}

func pick(g *Game, i int) bool {
	in := core.NewInputFrame()
	in.Pick(i)
	return g.Tick(0.1, in)
}

func decoyIndex(t *testing.T, g *Game) int {
	t.Helper()
	for i, tile := range g.board {
		if tile.Decoy {
			return i
		}
	}
	t.Fatal("board has no decoy")
	return -1
}

// wrongIndex returns a real rune that is not the next one expected.
func wrongIndex(g *Game) int {
	for i, tile := range g.board {
		if !tile.Decoy && i != g.sequence[g.pos] {
			return i
		}
	}
	return -1
}

func TestBoardLayout(t *testing.T) {
	g := New(testTier, 7)
	if len(g.board) != 5 {
		t.Fatalf("board has %d tiles, expected 4 runes and 1 decoy", len(g.board))
	}
	if len(g.sequence) != testTier.StartLength {
		t.Errorf("sequence length %d, expected %d", len(g.sequence), testTier.StartLength)
	}
	for k, i := range g.sequence {
		if g.board[i].Decoy {
			t.Error("a decoy should never be part of the sequence")
		}
		if k > 0 && g.sequence[k-1] == i {
			t.Error("sequence repeats a rune back to back")
		}
	}
}

func TestPicksIgnoredWhileShowing(t *testing.T) {
	g := begin(t, testTier)
	pick(g, g.sequence[0])
	if g.pos != 0 || g.misses != 0 || g.score != 0 {
		t.Error("a pick during the reveal should be ignored")
	}
}

func TestQuickPickBonus(t *testing.T) {
	g := begin(t, testTier)
	watch(t, g)

	pick(g, g.sequence[0])
	if g.score != quickPoints || g.quick != 1 {
		t.Fatalf("score = %d, expected a quick pick worth %d", g.score, quickPoints)
	}
	for i := 0; i < 15; i++ {
		g.Tick(0.1, core.NewInputFrame())
	}
	pick(g, g.sequence[1])
	if g.score != quickPoints+pickPoints {
		t.Errorf("score = %d, expected a slow pick worth %d", g.score, pickPoints)
	}
	if g.round != 1 || g.Phase() != PhaseShow {
		t.Errorf("round=%d phase=%v, expected the next round to be revealed", g.round, g.Phase())
	}
	if len(g.sequence) != testTier.StartLength+1 {
		t.Errorf("round two has %d runes, expected one more", len(g.sequence))
	}
}

func TestDecoyPickPenalizesAndStuns(t *testing.T) {
	g := begin(t, testTier)
	watch(t, g)
	pick(g, g.sequence[0])
	score := g.score
	decoy := decoyIndex(t, g)

	pick(g, decoy)
	if g.score != max(score-testTier.DecoyPenalty, 0) {
		t.Errorf("score = %d, expected %d less the penalty", g.score, score)
	}
	if g.combo.Current != 0 || g.combo.Max != 1 {
		t.Errorf("combo = %+v, expected reset with max kept", g.combo)
	}
	if !g.Stunned() {
		t.Fatal("touching a decoy should jam the board")
	}

	pick(g, g.sequence[1])
	if g.pos != 1 {
		t.Error("picks should be ignored while stunned")
	}
	for i := 0; i < 12; i++ {
		g.Tick(0.1, core.NewInputFrame())
	}
	if g.Stunned() {
		t.Fatal("stun should clear on its own")
	}
	pick(g, g.sequence[1])
	if g.round != 1 {
		t.Error("the sequence should resume after the stun")
	}
}

func TestDecoyPenaltyFloorsAtZero(t *testing.T) {
	g := begin(t, testTier)
	watch(t, g)
	pick(g, decoyIndex(t, g))
	if g.score != 0 || g.decoyHits != 1 {
		t.Errorf("score=%d decoys=%d, expected a zero floor", g.score, g.decoyHits)
	}
}

func TestWrongPickReplays(t *testing.T) {
	g := begin(t, testTier)
	watch(t, g)
	pick(g, g.sequence[0])

	pick(g, wrongIndex(g))
	if g.misses != 1 || g.combo.Current != 0 {
		t.Errorf("misses=%d combo=%d, expected one miss and a broken combo", g.misses, g.combo.Current)
	}
	if g.Phase() != PhaseShow || g.pos != 1 {
		t.Fatalf("phase=%v pos=%d, expected a replay that keeps progress", g.Phase(), g.pos)
	}
	watch(t, g)
	pick(g, g.sequence[1])
	if g.round != 1 {
		t.Error("finishing the sequence after a replay should clear the round")
	}
}

func TestMissBudgetFails(t *testing.T) {
	g := begin(t, testTier)
	watch(t, g)
	if pick(g, wrongIndex(g)) {
		t.Fatal("first miss should not end the game")
	}
	watch(t, g)
	if !pick(g, wrongIndex(g)) {
		t.Fatal("second miss should exhaust a budget of 2")
	}
	if r := g.Result(); r.Success || r.Result != core.TierFail {
		t.Errorf("Result() = %+v, expected fail", r)
	}
}

func TestWinAfterAllRounds(t *testing.T) {
	g := begin(t, testTier)
	over := false
	for r := 0; r < testTier.Rounds; r++ {
		watch(t, g)
		for _, i := range append([]int(nil), g.sequence...) {
			over = pick(g, i)
		}
	}
	if !over || !g.won {
		t.Fatal("clearing every round should end the game")
	}
	r := g.Result()
	if !r.Success || r.Accuracy != 100 || r.Result != core.TierPerfect {
		t.Errorf("Result() = %+v, expected perfect", r)
	}
	if r.Stat("hits") != 5 || r.Stat("rounds") != 2 || r.BonusXP != 50 {
		t.Errorf("stats = %v bonus = %d", r.GameStats, r.BonusXP)
	}
}

func TestTimeUpEnds(t *testing.T) {
	tier := testTier
	tier.TimeLimit = 1
	g := begin(t, tier)
	over := false
	for i := 0; i < 20 && !over; i++ {
		over = g.Tick(0.1, core.NewInputFrame())
	}
	if !over {
		t.Fatal("time limit should end the game")
	}
	if r := g.Result(); r.Success {
		t.Errorf("Result() = %+v, expected fail with nothing picked", r)
	}
}

func TestRegisteredFiveTier(t *testing.T) {
	info, ok := registry.Lookup("runes")
	if !ok || len(info.Tiers) != 5 {
		t.Fatalf("runes info = %+v", info)
	}
	g, err := registry.Create("runes", registry.Setup{Difficulty: core.DifficultyMaster, Seed: 1})
	if err != nil {
		t.Fatalf("Create() error: %v", err)
	}
	if len(g.(*Game).board) != 11 {
		t.Errorf("master board has %d tiles, expected 9 runes and 2 decoys", len(g.(*Game).board))
	}
}

func TestRender(t *testing.T) {
	g := begin(t, testTier)
	screen := core.NewScreen(80, 24)
	g.Render(screen)
	content := screen.String()
	if !strings.Contains(content, "Rune Sequence") || !strings.Contains(content, "Watch") {
		t.Errorf("unexpected render:\n%s", content)
	}
}
