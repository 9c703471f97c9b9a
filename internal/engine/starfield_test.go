package engine

import (
	"testing"

	"github.com/vovakirdan/companion-arcade/internal/core"
)

func TestStarfieldWrapsAndKeepsCount(t *testing.T) {
	sf := NewStarfield(12, 3)
	for range 100 {
		sf.Step(0.5)
	}
	if sf.Len() != 12 {
		t.Errorf("Len() = %d, expected 12", sf.Len())
	}
	for _, s := range sf.stars {
		if s.y < 0 || s.y > 100 {
			t.Errorf("star y = %f, expected within 0-100", s.y)
		}
	}
}

func TestStarfieldRenderKeepsForeground(t *testing.T) {
	scr := core.NewScreen(20, 10)
	scr.Fill('#')
	sf := NewStarfield(30, 5)
	sf.Render(scr, core.NewRect(0, 0, 20, 10))

	for y := range 10 {
		for x := range 20 {
			if scr.Get(x, y) != '#' {
				t.Fatalf("cell (%d,%d) = %q, expected foreground kept", x, y, scr.Get(x, y))
			}
		}
	}
}
