// Package content fetches generated rhythm tracks from a remote service
// and builds the procedural track used when none is available.
package content

import (
	"errors"
	"fmt"
	"slices"

	"github.com/vovakirdan/companion-arcade/internal/engine"
)

// Lanes is the number of note lanes in a track.
const Lanes = 4

// ErrNoTrack means no usable track could be obtained.
var ErrNoTrack = errors.New("content: no track")

// Note is a single chart entry.
type Note struct {
	Time float64 `json:"time"` // seconds from song start when the note reaches the hit zone
	Lane int     `json:"lane"`
}

// Track is a playable chart.
type Track struct {
	Title  string  `json:"title"`
	Artist string  `json:"artist"`
	BPM    float64 `json:"bpm"`
	Notes  []Note  `json:"notes"`

	// Generated marks procedural tracks.
	Generated bool `json:"-"`
}

// Validate checks that a track can be played.
func (t Track) Validate() error {
	if len(t.Notes) == 0 {
		return fmt.Errorf("%w: empty chart", ErrNoTrack)
	}
	for i, n := range t.Notes {
		if n.Lane < 0 || n.Lane >= Lanes {
			return fmt.Errorf("%w: note %d in lane %d", ErrNoTrack, i, n.Lane)
		}
		if n.Time < 0 {
			return fmt.Errorf("%w: note %d at %.2fs", ErrNoTrack, i, n.Time)
		}
	}
	return nil
}

// Sorted returns a copy of the notes ordered by time, then lane.
func (t Track) Sorted() []Note {
	notes := slices.Clone(t.Notes)
	slices.SortStableFunc(notes, func(a, b Note) int {
		switch {
		case a.Time < b.Time:
			return -1
		case a.Time > b.Time:
			return 1
		default:
			return a.Lane - b.Lane
		}
	})
	return notes
}

// Duration returns the time of the last note.
func (t Track) Duration() float64 {
	last := 0.0
	for _, n := range t.Notes {
		last = max(last, n.Time)
	}
	return last
}

// GenParams shape a procedural chart.
type GenParams struct {
	Seed        uint64
	Count       int
	Interval    float64 // seconds between beats
	Lead        float64 // seconds before the first note
	ChordChance float64
}

var generatedTitles = []string{
	"Nebula Drift", "Moonlit Circuit", "Comet Waltz", "Aurora Steps", "Orbit Lullaby", "Starfall Run",
}

// Generate builds a deterministic chart: the same params always give the
// same track.
func Generate(p GenParams) Track {
	rng := engine.NewRNG(p.Seed)
	t := Track{
		Title:     generatedTitles[rng.Intn(len(generatedTitles))],
		Artist:    "Companion",
		Generated: true,
	}
	if p.Interval > 0 {
		t.BPM = 60 / p.Interval
	}

	at := p.Lead
	lane := rng.Intn(Lanes)
	for range max(p.Count, 0) {
		// Favour stepwise motion so charts feel like melodies
		switch r := rng.Intn(10); {
		case r < 4:
			lane = (lane + 1) % Lanes
		case r < 7:
			lane = (lane + Lanes - 1) % Lanes
		case r < 9:
			lane = rng.Intn(Lanes)
		}
		t.Notes = append(t.Notes, Note{Time: at, Lane: lane})
		if rng.Float() < p.ChordChance {
			t.Notes = append(t.Notes, Note{Time: at, Lane: (lane + 2) % Lanes})
		}
		step := p.Interval
		if rng.Intn(4) == 0 {
			step *= 1.5
		}
		at += step
	}
	return t
}
