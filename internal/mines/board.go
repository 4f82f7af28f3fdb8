package mines

import (
	"fmt"
	"iter"
	"slices"
	"strings"
)

// Board is a square minefield together with what the player knows about it.
// Both slices are row-major with Size*Size entries.
type Board struct {
	Size  int
	Mines []bool /* real mine points */
	Cells Grid   /* player knowledge */
}

func NewBoard(size int, mines []bool) (*Board, error) {
	if size <= 0 {
		return nil, fmt.Errorf("%w (size = %d)", ErrInvalidSize, size)
	}
	if len(mines) != size*size {
		return nil, fmt.Errorf(
			"mine grid has %d cells, want %d", len(mines), size*size,
		)
	}
	cells := make(Grid, len(mines))
	for i := range cells {
		cells[i] = Hidden
	}
	return &Board{Size: size, Mines: slices.Clone(mines), Cells: cells}, nil
}

// ParseLayout reads a board from rows of '*' (mine) and '.' (empty),
// separated by newlines. Surrounding blank space is ignored.
func ParseLayout(layout string) (*Board, error) {
	rows := strings.Fields(layout)
	size := len(rows)
	if size == 0 {
		return nil, ErrBadLayout
	}
	grid := make([]bool, 0, size*size)
	for _, row := range rows {
		if len(row) != size {
			return nil, fmt.Errorf("%w (row %q)", ErrBadLayout, row)
		}
		for _, ch := range row {
			switch ch {
			case '*':
				grid = append(grid, true)
			case '.':
				grid = append(grid, false)
			default:
				return nil, fmt.Errorf("%w (char %q)", ErrBadLayout, ch)
			}
		}
	}
	return NewBoard(size, grid)
}

func (b *Board) InBounds(row, col int) bool {
	return 0 <= row && row < b.Size && 0 <= col && col < b.Size
}

func (b *Board) index(row, col int) int {
	return row*b.Size + col
}

// MineAt reports whether (row, col) is mined. Out of bounds is never mined.
func (b *Board) MineAt(row, col int) bool {
	return b.InBounds(row, col) && b.Mines[b.index(row, col)]
}

func (b *Board) CellAt(row, col int) (CellState, bool) {
	if !b.InBounds(row, col) {
		return Hidden, false
	}
	return b.Cells[b.index(row, col)], true
}

// neighbors yields the in-bounds cells around (row, col), excluding the
// cell itself.
func (b *Board) neighbors(row, col int) iter.Seq2[int, int] {
	return func(yield func(int, int) bool) {
		for dr := -1; dr <= 1; dr++ {
			for dc := -1; dc <= 1; dc++ {
				if dr == 0 && dc == 0 {
					continue
				}
				if !b.InBounds(row+dr, col+dc) {
					continue
				}
				if !yield(row+dr, col+dc) {
					return
				}
			}
		}
	}
}

// NeighborMines counts the mines around (row, col), not counting the cell
// itself.
func (b *Board) NeighborMines(row, col int) int {
	n := 0
	for r, c := range b.neighbors(row, col) {
		if b.Mines[b.index(r, c)] {
			n++
		}
	}
	return n
}

// Clone returns a deep copy that shares no memory with b.
func (b *Board) Clone() *Board {
	if b == nil {
		return nil
	}
	return &Board{
		Size:  b.Size,
		Mines: slices.Clone(b.Mines),
		Cells: slices.Clone(b.Cells),
	}
}

func (b *Board) MineCount() (count int) {
	for _, m := range b.Mines {
		if m {
			count++
		}
	}
	return
}

func (b *Board) FlagCount() (count int) {
	for _, s := range b.Cells {
		if s.HasFlag() {
			count++
		}
	}
	return
}

// Display returns the player view as rows of -1 (not opened) or 0..8.
func (b *Board) Display() [][]int {
	rows := make([][]int, b.Size)
	for r := range b.Size {
		rows[r] = make([]int, b.Size)
		for c := range b.Size {
			rows[r][c], _ = b.Cells[b.index(r, c)].Legacy()
		}
	}
	return rows
}

func (b *Board) Flags() [][]bool {
	rows := make([][]bool, b.Size)
	for r := range b.Size {
		rows[r] = make([]bool, b.Size)
		for c := range b.Size {
			_, rows[r][c] = b.Cells[b.index(r, c)].Legacy()
		}
	}
	return rows
}

func (b *Board) MineGrid() [][]bool {
	rows := make([][]bool, b.Size)
	for r := range b.Size {
		rows[r] = slices.Clone(b.Mines[r*b.Size : (r+1)*b.Size])
	}
	return rows
}

// Layout is the inverse of [ParseLayout].
func (b *Board) Layout() string {
	var sb strings.Builder
	for r := range b.Size {
		for c := range b.Size {
			if b.Mines[b.index(r, c)] {
				sb.WriteByte('*')
			} else {
				sb.WriteByte('.')
			}
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}

func (b *Board) String() string {
	return b.Cells.ToString(b.Size)
}
