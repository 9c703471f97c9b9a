// Package audio plays the backing track of a mini-game. A track is owned
// by exactly one session; pausing the session pauses the track.
package audio

import (
	"math"
	"time"

	"github.com/gopxl/beep"
)

// SampleRate is used for every generated stream.
const SampleRate = beep.SampleRate(44100)

// Wave is an oscillator shape.
type Wave int

const (
	WaveSine Wave = iota
	WaveSquare
	WaveTriangle
)

// Tone is one note of a melody. A zero frequency is a rest.
type Tone struct {
	Freq     float64
	Duration time.Duration
}

// melody renders tones one after another, optionally forever.
type melody struct {
	tones  []Tone
	wave   Wave
	loop   bool
	volume float64

	index int
	pos   int // sample within the current tone
	phase float64
}

// NewMelody returns a streamer for tones. With loop set it never ends.
func NewMelody(tones []Tone, wave Wave, volume float64, loop bool) beep.Streamer {
	return &melody{tones: tones, wave: wave, loop: loop, volume: volume}
}

func (m *melody) Stream(samples [][2]float64) (n int, ok bool) {
	for i := range samples {
		if m.index >= len(m.tones) {
			if !m.loop || len(m.tones) == 0 {
				return i, i > 0
			}
			m.index = 0
		}
		tone := m.tones[m.index]
		length := max(SampleRate.N(tone.Duration), 1)

		val := 0.0
		if tone.Freq > 0 {
			val = m.sample() * m.envelope(length) * m.volume
			m.phase += tone.Freq / float64(SampleRate)
			m.phase -= math.Floor(m.phase)
		}
		samples[i][0] = val
		samples[i][1] = val

		m.pos++
		if m.pos >= length {
			m.pos = 0
			m.phase = 0
			m.index++
		}
	}
	return len(samples), true
}

func (m *melody) Err() error { return nil }

func (m *melody) sample() float64 {
	switch m.wave {
	case WaveSquare:
		if m.phase < 0.5 {
			return 1
		}
		return -1
	case WaveTriangle:
		return 4*math.Abs(m.phase-0.5) - 1
	default:
		return math.Sin(2 * math.Pi * m.phase)
	}
}

// envelope fades the first and last 5ms of a tone to avoid clicks.
func (m *melody) envelope(length int) float64 {
	ramp := SampleRate.N(5 * time.Millisecond)
	switch {
	case m.pos < ramp:
		return float64(m.pos) / float64(ramp)
	case length-m.pos < ramp:
		return float64(length-m.pos) / float64(ramp)
	default:
		return 1
	}
}

// NoteFreq returns the frequency of a semitone offset from A4 (440 Hz).
func NoteFreq(semitones int) float64 {
	return 440 * math.Pow(2, float64(semitones)/12)
}
