package session

import (
	"fmt"

	"github.com/mattn/go-runewidth"
	"github.com/vovakirdan/companion-arcade/internal/core"
)

const backdropStars = 24

// PlayArea is the region games draw their field in: inside a border and
// below the one-line HUD.
func PlayArea(w, h int) core.Rect {
	return core.NewRect(1, 2, max(w-2, 1), max(h-3, 1))
}

// Render draws the game, in-flight particles and the overlay for the
// current state.
func (s *Session) Render(dst *core.Screen) {
	dst.Clear()
	s.game.Render(dst)
	area := PlayArea(dst.Width(), dst.Height())
	s.stars.Render(dst, area)
	s.particles.Render(dst, area)

	switch s.state {
	case StateLoading:
		dst.DrawMessage("Loading...", s.game.Title())
	case StateCountdown:
		dst.DrawMessage(fmt.Sprintf("%d", max(s.Countdown(), 1)), "Get ready!")
	case StatePaused:
		dst.DrawMessage("PAUSED", "P to resume, Q to quit")
	case StateRating:
		subject := "this round"
		if r, ok := s.game.(Rounds); ok && r.RatingSubject() != "" {
			subject = r.RatingSubject()
		}
		if s.rated {
			dst.DrawMessage("Thanks!", "C to continue, F to finish")
		} else {
			dst.DrawMessage("Rate "+subject, "1-5 stars, C to continue, F to finish")
		}
	case StateComplete:
		dst.DrawMessage(TierBanner(s.result.Result),
			fmt.Sprintf("Accuracy %.0f%%  Score %d", s.result.Accuracy, s.result.Stat("score")))
	}
}

// TierBanner is the headline shown for a result tier.
func TierBanner(t core.ResultTier) string {
	switch t {
	case core.TierPerfect:
		return "PERFECT!"
	case core.TierGood:
		return "GREAT JOB!"
	case core.TierPartial:
		return "NOT BAD"
	default:
		return "TRY AGAIN"
	}
}

// DrawHUD draws a game's status line on the top row and the border
// around the play area.
func DrawHUD(dst *core.Screen, left, right string) {
	dst.DrawTextColor(1, 0, left, core.ColorBrightWhite)
	if right != "" {
		dst.DrawTextColor(max(dst.Width()-runewidth.StringWidth(right)-1, 0), 0, right, core.ColorBrightCyan)
	}
	dst.DrawBox(core.NewRect(0, 1, dst.Width(), dst.Height()-1))
}
