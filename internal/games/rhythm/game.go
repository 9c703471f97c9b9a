// Package rhythm implements Starlight Rhythm, a four-lane note game with a
// generated backing track, a rating prompt and a next-song loop.
package rhythm

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/vovakirdan/companion-arcade/internal/audio"
	"github.com/vovakirdan/companion-arcade/internal/config"
	"github.com/vovakirdan/companion-arcade/internal/content"
	"github.com/vovakirdan/companion-arcade/internal/core"
	"github.com/vovakirdan/companion-arcade/internal/engine"
	"github.com/vovakirdan/companion-arcade/internal/registry"
	"github.com/vovakirdan/companion-arcade/internal/scoring"
	"github.com/vovakirdan/companion-arcade/internal/session"
)

const (
	// HitZone is the progress value at which a note should be tapped.
	HitZone = 85.0

	// leadIn is the silence before the first note of a generated chart.
	leadIn = 2.0
)

var breakpoints = scoring.Breakpoints{Perfect: 90, Good: 70, Partial: 50}

var points = map[scoring.Judgment]int{
	scoring.JudgePerfect: 150,
	scoring.JudgeGreat:   120,
	scoring.JudgeGood:    100,
}

// note is a chart entry in play.
type note struct {
	content.Note
	judged   bool
	judgment scoring.Judgment
}

// Game is one Starlight Rhythm session, possibly spanning several songs.
type Game struct {
	tier   config.RhythmTier
	diff   core.Difficulty
	seed   int64
	tracks *content.Client
	out    audio.Output
	env    *session.Env

	// Current song
	song      int
	installed bool
	chart     content.Track
	notes     []note
	songTime  float64
	backing   *audio.Track
	windows   scoring.Windows
	speed     float64
	budget    scoring.MissBudget
	failed    bool

	// Totals across songs
	combo      scoring.Combo
	score      int
	baseEarned int
	notesTotal int
	judged     map[scoring.Judgment]int
	songs      int
	lastCall   scoring.Judgment
	lastLane   int
}

func init() {
	registry.Register(registry.Info{
		ID:    "rhythm",
		Title: "Starlight Rhythm",
		Blurb: "Tap the lanes as notes cross the line. Rate each song, then play another.",
	}, func(s registry.Setup) (session.Game, error) {
		table, err := config.LoadRhythm(s.ConfigPath)
		if err != nil {
			return nil, err
		}
		tier, err := table.Tier(s.Difficulty)
		if err != nil {
			return nil, err
		}
		return New(tier, s.Difficulty, s.Seed, s.Tracks, s.Audio), nil
	})
}

// New creates a rhythm game. tracks and out may be nil.
func New(t config.RhythmTier, d core.Difficulty, seed int64, tracks *content.Client, out audio.Output) *Game {
	return &Game{
		tier:     t,
		diff:     d,
		seed:     seed,
		tracks:   tracks,
		out:      out,
		windows:  t.Windows,
		speed:    t.NoteSpeed,
		budget:   scoring.MissBudget{Limit: t.MaxMisses},
		judged:   make(map[scoring.Judgment]int),
		lastLane: -1,
	}
}

// ID returns the game identifier.
func (g *Game) ID() string { return "rhythm" }

// Title returns the display name.
func (g *Game) Title() string { return "Starlight Rhythm" }

// Load fetches a generated track for the current song.
func (g *Game) Load(ctx context.Context) (func(), error) {
	t, err := g.tracks.FetchTrack(ctx, g.diff, g.song)
	if err != nil {
		return nil, err
	}
	return func() { g.install(t) }, nil
}

// UseFallback installs a procedural chart derived from the seed and song.
func (g *Game) UseFallback() {
	g.install(Fallback(g.tier, g.seed, g.song))
}

// Fallback is the procedural chart for a song.
func Fallback(t config.RhythmTier, seed int64, song int) content.Track {
	return content.Generate(content.GenParams{
		Seed:        uint64(seed) + uint64(song)*7919,
		Count:       t.NoteCount,
		Interval:    t.SpawnInterval,
		Lead:        leadIn,
		ChordChance: t.ChordChance,
	})
}

func (g *Game) install(t content.Track) {
	g.chart = t
	g.installed = true
	g.notes = g.notes[:0]
	for _, n := range t.Sorted() {
		g.notes = append(g.notes, note{Note: n})
	}
	g.songTime = 0
	g.failed = false
	if g.out != nil {
		g.backing = audio.NewTrack(audio.NewMelody(Melody(t), audio.WaveTriangle, 0.15, false), g.out)
	}
}

// Track returns the song's backing track, nil when audio is off.
func (g *Game) Track() *audio.Track { return g.backing }

// Begin applies companion bonuses: wider windows from mind, slower notes
// from body, extra misses from soul.
func (g *Game) Begin(env *session.Env) {
	g.env = env
	g.windows = g.tier.Windows.Scale(env.Stats.ToleranceScale())
	g.speed = g.tier.NoteSpeed * env.Stats.SpeedScale()
	g.budget = scoring.MissBudget{Limit: g.tier.MaxMisses + env.Stats.BonusCapacity()}
}

// progress is how far a note has travelled; HitZone at its chart time.
func (g *Game) progress(n note) float64 {
	return HitZone + (g.songTime-n.Time)*g.speed
}

// Tick advances the song, misses notes that slipped past, then judges
// this frame's lane taps.
func (g *Game) Tick(dt float64, in core.InputFrame) bool {
	g.songTime += dt

	remaining := 0
	for i := range g.notes {
		n := &g.notes[i]
		if n.judged {
			continue
		}
		if g.windows.Passed(g.progress(*n), HitZone) {
			g.miss(n)
			if g.failed {
				return true
			}
			continue
		}
		remaining++
	}
	if remaining == 0 {
		return true
	}

	for _, lane := range lanesOf(in) {
		g.tap(lane)
	}
	return false
}

// lanesOf lists the lane taps of a frame in order, from keys then picks.
func lanesOf(in core.InputFrame) []int {
	var lanes []int
	for _, a := range in.Order {
		for lane, la := range core.LaneActions {
			if a == la {
				lanes = append(lanes, lane)
			}
		}
	}
	for _, p := range in.Picks {
		if p >= 0 && p < content.Lanes {
			lanes = append(lanes, p)
		}
	}
	return lanes
}

// tap judges the single unjudged note in lane nearest the hit zone. A tap
// with nothing in reach is ignored.
func (g *Game) tap(lane int) {
	var best *note
	bestDist := math.Inf(1)
	for i := range g.notes {
		n := &g.notes[i]
		if n.judged || n.Lane != lane {
			continue
		}
		if d := math.Abs(g.progress(*n) - HitZone); d < bestDist {
			best, bestDist = n, d
		}
	}
	if best == nil {
		return
	}
	j := g.windows.Judge(bestDist)
	if j == scoring.JudgeMiss {
		return
	}

	best.judged = true
	best.judgment = j
	g.judged[j]++
	g.baseEarned += points[j]
	g.score += g.combo.Hit(points[j])
	g.lastCall, g.lastLane = j, lane

	if g.env == nil {
		return
	}
	x := (float64(lane) + 0.5) / content.Lanes * 100
	switch j {
	case scoring.JudgePerfect:
		g.env.Haptic(engine.HapticMedium)
		g.env.Particles.Emit(x, HitZone, core.ColorBrightYellow, 10, 25, 0.5)
	default:
		g.env.Haptic(engine.HapticLight)
		g.env.Particles.Emit(x, HitZone, core.ColorBrightCyan, 5, 15, 0.4)
	}
}

func (g *Game) miss(n *note) {
	n.judged = true
	n.judgment = scoring.JudgeMiss
	g.judged[scoring.JudgeMiss]++
	g.combo.Miss()
	g.lastCall, g.lastLane = scoring.JudgeMiss, n.Lane
	if g.budget.Record() {
		g.failed = true
	}
}

// CanContinue offers another song unless the last one was failed.
func (g *Game) CanContinue() bool {
	g.closeSong()
	return !g.failed
}

// NextRound moves on to the next song. The session loads it.
func (g *Game) NextRound() {
	if g.backing != nil {
		g.backing.Stop()
		g.backing = nil
	}
	g.song++
	g.installed = false
	g.notes = g.notes[:0]
	g.combo.Current = 0
	g.budget = scoring.MissBudget{Limit: g.budget.Limit}
}

// RatingSubject names the song just played.
func (g *Game) RatingSubject() string {
	if g.chart.Title == "" {
		return "this song"
	}
	return fmt.Sprintf("%q", g.chart.Title)
}

// closeSong adds the current chart to the totals once. A song still
// loading has nothing to count.
func (g *Game) closeSong() {
	if g.songs > g.song || !g.installed {
		return
	}
	g.songs = g.song + 1
	g.notesTotal += len(g.notes)
}

// Accuracy is base points earned over the perfect-play maximum.
func (g *Game) Accuracy() float64 {
	g.closeSong()
	return scoring.Accuracy(float64(g.baseEarned), float64(g.notesTotal*points[scoring.JudgePerfect]))
}

// Result totals every song played. Running out of misses fails outright.
func (g *Game) Result() core.MiniGameResult {
	acc := g.Accuracy()
	success := !g.failed && acc >= breakpoints.Partial
	return scoring.Outcome(success, acc, breakpoints, map[string]int{
		"score":     g.score,
		"max_combo": g.combo.Max,
		"hits":      g.judged[scoring.JudgePerfect] + g.judged[scoring.JudgeGreat] + g.judged[scoring.JudgeGood],
		"misses":    g.judged[scoring.JudgeMiss],
		"perfect":   g.judged[scoring.JudgePerfect],
		"great":     g.judged[scoring.JudgeGreat],
		"good":      g.judged[scoring.JudgeGood],
		"songs":     g.songs,
	})
}

// Melody turns a chart into a tone sequence, one blip per beat with the
// pitch set by the lane.
func Melody(t content.Track) []audio.Tone {
	const blip = 150 * time.Millisecond
	scale := [content.Lanes]int{0, 4, 7, 12}

	var tones []audio.Tone
	cursor := 0.0
	for _, n := range t.Sorted() {
		if n.Time < cursor {
			continue // chord partner, already sounding
		}
		if gap := n.Time - cursor; gap > 0 {
			tones = append(tones, audio.Tone{Duration: time.Duration(gap * float64(time.Second))})
		}
		tones = append(tones, audio.Tone{Freq: audio.NoteFreq(scale[n.Lane]), Duration: blip})
		cursor = n.Time + blip.Seconds()
	}
	return tones
}

// Render draws the four lanes, the notes and the hit line.
func (g *Game) Render(dst *core.Screen) {
	title := g.chart.Title
	if title == "" {
		title = g.Title()
	}
	session.DrawHUD(dst,
		fmt.Sprintf("%s  Score %d  Combo %d x%d", title, g.score, g.combo.Current, g.combo.Multiplier()),
		fmt.Sprintf("Misses left %d", g.budget.Remaining()))

	area := session.PlayArea(dst.Width(), dst.Height())
	laneW := area.W / content.Lanes
	if laneW < 3 {
		dst.DrawTextCentered(area.Y+area.H/2, "Window too small")
		return
	}
	hitY := dst.MapY(area, HitZone)
	keys := []string{"D", "F", "J", "K"}
	for lane := 0; lane < content.Lanes; lane++ {
		x0 := area.X + lane*laneW
		if lane > 0 {
			dst.DrawVLine(x0, area.Y, area.H, '│')
		}
		dst.DrawHLine(x0+1, hitY, laneW-1, '─')
		dst.DrawTextColor(x0+laneW/2, area.Bottom()-1, keys[lane], core.ColorGray)
	}

	for _, n := range g.notes {
		if n.judged {
			continue
		}
		p := g.progress(n)
		if p < 0 || p > 100 {
			continue
		}
		x := area.X + n.Lane*laneW + laneW/2
		dst.SetColor(x, dst.MapY(area, p), '●', laneColor(n.Lane))
	}

	if g.lastLane >= 0 {
		x := area.X + g.lastLane*laneW + 1
		dst.DrawTextColor(x, hitY+1, g.lastCall.String(), judgmentColor(g.lastCall))
	}
}

func laneColor(lane int) core.Color {
	return []core.Color{core.ColorBrightMagenta, core.ColorBrightCyan, core.ColorBrightGreen, core.ColorBrightYellow}[lane%content.Lanes]
}

func judgmentColor(j scoring.Judgment) core.Color {
	switch j {
	case scoring.JudgePerfect:
		return core.ColorBrightYellow
	case scoring.JudgeGreat:
		return core.ColorBrightGreen
	case scoring.JudgeGood:
		return core.ColorCyan
	default:
		return core.ColorRed
	}
}
