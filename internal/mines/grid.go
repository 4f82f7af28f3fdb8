package mines

import (
	"fmt"
	"strconv"
	"strings"
)

type CellState int8

const (
	Hidden        CellState = -2
	Flagged       CellState = -1
	CorrectFlag   CellState = 64 // post-game
	ExplodedMine  CellState = 65
	WrongFlag     CellState = 66
	UnflaggedMine CellState = 67
	// 0-8 for an opened cell with the given number of mined neighbors
)

// Revealed reports whether the cell has been opened by the player.
func (s CellState) Revealed() bool {
	return 0 <= s && s <= 8
}

// Count returns the neighbor mine count of an opened cell.
func (s CellState) Count() (int, bool) {
	if !s.Revealed() {
		return 0, false
	}
	return int(s), true
}

func (s CellState) String() string {
	switch s {
	case Hidden:
		return "_"
	case Flagged:
		return "F"
	case CorrectFlag:
		return "+"
	case ExplodedMine:
		return "X"
	case WrongFlag:
		return "x"
	case UnflaggedMine:
		return "*"
	case 0, 1, 2, 3, 4, 5, 6, 7, 8:
		return strconv.Itoa(int(s))
	default:
		return "!"
	}
}

// HasFlag reports whether the player placed a flag on the cell. Flags keep
// counting after the game ends and are marked right or wrong.
func (s CellState) HasFlag() bool {
	return s == Flagged || s == CorrectFlag || s == WrongFlag
}

// Legacy returns the cell in the display/flag encoding used by older
// clients: -1 for anything not opened, plus whether the cell carries a flag.
func (s CellState) Legacy() (display int, flag bool) {
	if n, ok := s.Count(); ok {
		return n, false
	}
	return -1, s.HasFlag()
}

type Grid []CellState

func (g Grid) ToString(width int) string {
	var b strings.Builder
	for y := range len(g) / width {
		for x := range width {
			if x > 0 {
				b.WriteByte(' ')
			}
			fmt.Fprint(&b, g[y*width+x].String())
		}
		b.WriteByte('\n')
	}
	return b.String()
}

func (g Grid) Rows(width int) [][]CellState {
	if width <= 0 {
		return nil
	}
	rows := make([][]CellState, 0, len(g)/width)
	for y := range len(g) / width {
		rows = append(rows, g[y*width:(y+1)*width])
	}
	return rows
}
