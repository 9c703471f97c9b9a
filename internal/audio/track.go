package audio

import (
	"fmt"
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"
)

// Output receives streams to play. Lock and Unlock guard changes to a
// stream that is already playing.
type Output interface {
	Play(s beep.Streamer)
	Lock()
	Unlock()
}

// Speaker plays through the system audio device. The device is opened on
// first use.
type Speaker struct {
	once sync.Once
	err  error
}

// Open initializes the device. It is safe to call repeatedly.
func (sp *Speaker) Open() error {
	sp.once.Do(func() {
		if err := speaker.Init(SampleRate, SampleRate.N(100*time.Millisecond)); err != nil {
			sp.err = fmt.Errorf("audio: open speaker: %w", err)
		}
	})
	return sp.err
}

// Play starts s on the device. Nothing plays if the device failed to open.
func (sp *Speaker) Play(s beep.Streamer) {
	if sp.Open() != nil {
		return
	}
	speaker.Play(s)
}

// Lock locks the device's mixing goroutine.
func (sp *Speaker) Lock() {
	if sp.err == nil {
		speaker.Lock()
	}
}

// Unlock releases the device lock.
func (sp *Speaker) Unlock() {
	if sp.err == nil {
		speaker.Unlock()
	}
}

// Silent keeps the stream without playing it. Pull reads samples the way
// a device would, which lets tests observe pause behaviour.
type Silent struct {
	mu     sync.Mutex
	stream beep.Streamer
}

// Play stores s.
func (o *Silent) Play(s beep.Streamer) {
	o.mu.Lock()
	o.stream = s
	o.mu.Unlock()
}

// Lock locks the output.
func (o *Silent) Lock() { o.mu.Lock() }

// Unlock unlocks the output.
func (o *Silent) Unlock() { o.mu.Unlock() }

// Pull streams n samples and returns them.
func (o *Silent) Pull(n int) [][2]float64 {
	o.mu.Lock()
	defer o.mu.Unlock()
	buf := make([][2]float64, n)
	if o.stream != nil {
		o.stream.Stream(buf)
	}
	return buf
}

type trackState int

const (
	trackIdle trackState = iota
	trackPlaying
	trackPaused
	trackStopped
)

// Track is a backing track with pause control. It is started once,
// paused and resumed any number of times, and stopped for good.
type Track struct {
	mu    sync.Mutex
	out   Output
	ctrl  *beep.Ctrl
	state trackState
}

// NewTrack wraps s for playback on out.
func NewTrack(s beep.Streamer, out Output) *Track {
	return &Track{out: out, ctrl: &beep.Ctrl{Streamer: s, Paused: true}}
}

// Start begins playback from the start. Later calls resume instead.
func (t *Track) Start() {
	t.mu.Lock()
	defer t.mu.Unlock()
	switch t.state {
	case trackIdle:
		t.ctrl.Paused = false
		t.out.Play(t.ctrl)
		t.state = trackPlaying
	case trackPaused:
		t.setPaused(false)
		t.state = trackPlaying
	}
}

// Pause silences the track, keeping its position.
func (t *Track) Pause() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.state == trackPlaying {
		t.setPaused(true)
		t.state = trackPaused
	}
}

// Resume continues a paused track.
func (t *Track) Resume() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.state == trackPaused {
		t.setPaused(false)
		t.state = trackPlaying
	}
}

// Stop ends playback permanently.
func (t *Track) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.state == trackStopped {
		return
	}
	if t.state != trackIdle {
		t.out.Lock()
		t.ctrl.Streamer = nil
		t.ctrl.Paused = true
		t.out.Unlock()
	}
	t.state = trackStopped
}

// Playing reports whether the track is audible.
func (t *Track) Playing() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state == trackPlaying
}

func (t *Track) setPaused(p bool) {
	t.out.Lock()
	t.ctrl.Paused = p
	t.out.Unlock()
}
