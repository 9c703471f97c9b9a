package engine

import (
	"io"
	"sync"

	"github.com/charmbracelet/log"
)

// Pattern names a vibration pattern.
type Pattern string

const (
	HapticLight   Pattern = "light"
	HapticMedium  Pattern = "medium"
	HapticHeavy   Pattern = "heavy"
	HapticSuccess Pattern = "success"
	HapticError   Pattern = "error"
)

// Haptics is a fire-and-forget vibration dispatcher. Implementations must
// not block and may do nothing.
type Haptics interface {
	Fire(p Pattern)
}

// NopHaptics ignores every request.
type NopHaptics struct{}

// Fire does nothing.
func (NopHaptics) Fire(Pattern) {}

// HapticsFunc adapts a function to Haptics.
type HapticsFunc func(Pattern)

// Fire calls f.
func (f HapticsFunc) Fire(p Pattern) { f(p) }

// LogHaptics writes each pattern to a debug log.
type LogHaptics struct {
	Logger *log.Logger
}

// Fire logs the pattern.
func (h LogHaptics) Fire(p Pattern) {
	if h.Logger != nil {
		h.Logger.Debug("haptic", "pattern", p)
	}
}

// BellHaptics rings the terminal bell for heavy and error patterns, the
// only feedback a terminal can give.
type BellHaptics struct {
	mu sync.Mutex
	w  io.Writer
}

// NewBellHaptics rings the bell on w.
func NewBellHaptics(w io.Writer) *BellHaptics {
	return &BellHaptics{w: w}
}

// Fire writes BEL for strong patterns.
func (h *BellHaptics) Fire(p Pattern) {
	if p != HapticHeavy && p != HapticError {
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	h.w.Write([]byte{'\a'}) //nolint:errcheck
}
