package puzzle

import (
	"strings"
	"time"

	"github.com/vovakirdan/companion-arcade/internal/engine"
)

// Board is a square lights-out grid. True cells are lit stars; the
// puzzle is solved when every star is lit.
type Board struct {
	Size  int
	Cells []bool
}

// NewBoard creates a fully lit board.
func NewBoard(size int) Board {
	b := Board{Size: size, Cells: make([]bool, size*size)}
	for i := range b.Cells {
		b.Cells[i] = true
	}
	return b
}

// In reports whether (x, y) is on the board.
func (b Board) In(x, y int) bool {
	return x >= 0 && y >= 0 && x < b.Size && y < b.Size
}

// Lit reports whether the star at (x, y) is lit.
func (b Board) Lit(x, y int) bool {
	return b.In(x, y) && b.Cells[y*b.Size+x]
}

// Toggle flips the star at (x, y) and its four neighbours. It reports
// false for a cell off the board.
func (b *Board) Toggle(x, y int) bool {
	if !b.In(x, y) {
		return false
	}
	for _, d := range [5][2]int{{0, 0}, {1, 0}, {-1, 0}, {0, 1}, {0, -1}} {
		nx, ny := x+d[0], y+d[1]
		if b.In(nx, ny) {
			b.Cells[ny*b.Size+nx] = !b.Cells[ny*b.Size+nx]
		}
	}
	return true
}

// Solved reports whether every star is lit.
func (b Board) Solved() bool {
	for _, c := range b.Cells {
		if !c {
			return false
		}
	}
	return true
}

// LitCount returns the number of lit stars.
func (b Board) LitCount() int {
	n := 0
	for _, c := range b.Cells {
		if c {
			n++
		}
	}
	return n
}

// Clone returns an independent copy.
func (b Board) Clone() Board {
	return Board{Size: b.Size, Cells: append([]bool(nil), b.Cells...)}
}

// String draws the board one row per line.
func (b Board) String() string {
	var sb strings.Builder
	for y := range b.Size {
		for x := range b.Size {
			if x > 0 {
				sb.WriteByte(' ')
			}
			if b.Lit(x, y) {
				sb.WriteRune('★')
			} else {
				sb.WriteRune('·')
			}
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}

// DailySeed turns a calendar day into a generator seed. Only the date
// counts, so every player gets the same number all day.
func DailySeed(date time.Time) uint64 {
	y, m, d := date.Date()
	return uint64(y)*10000 + uint64(m)*100 + uint64(d) //#nosec G115 -- calendar fields are positive
}

// Generate scrambles a lit board by toggling distinct cells chosen with
// the xorshift generator. It returns the board and its par, the number
// of toggles that undo the scramble.
func Generate(size, scramble int, seed uint64) (Board, int) {
	b, cells := generate(size, scramble, seed)
	return b, len(cells)
}

// generate also returns the toggled cells, which are their own solution.
func generate(size, scramble int, seed uint64) (Board, []int) {
	size = max(size, 2)
	b := NewBoard(size)
	rng := engine.NewRNG(seed)

	cells := make([]int, size*size)
	for i := range cells {
		cells[i] = i
	}
	n := min(max(scramble, 1), len(cells))
	used := 0
	// keep going past n while the toggles cancel out to a lit board
	for used < len(cells) && (used < n || b.Solved()) {
		j := used + rng.Intn(len(cells)-used)
		cells[used], cells[j] = cells[j], cells[used]
		b.Toggle(cells[used]%size, cells[used]/size)
		used++
	}
	return b, cells[:used]
}

// Daily returns the puzzle for a calendar day.
func Daily(date time.Time, size, scramble int) (Board, int) {
	return Generate(size, scramble, DailySeed(date))
}
