package mines

// Reveal opens (row, col) and returns how many cells were opened. The
// target must not be a mine; callers check [Board.MineAt] first.
//
// When the opened cell has no mined neighbors, every hidden neighbor is
// opened as well, and so on outward. Flagged cells are never opened.
func (b *Board) Reveal(row, col int) (opened int) {
	if !b.InBounds(row, col) {
		return 0
	}
	start := b.index(row, col)
	if b.Cells[start] != Hidden || b.Mines[start] {
		return 0
	}

	todo := newCellTodo(len(b.Cells))
	b.Cells[start] = todoCell
	todo.add(start)

	for i := range todo.all() {
		r, c := i/b.Size, i%b.Size
		n := b.NeighborMines(r, c)
		b.Cells[i] = CellState(n)
		opened++
		if n != 0 {
			continue
		}
		for rr, cc := range b.neighbors(r, c) {
			j := b.index(rr, cc)
			if b.Cells[j] == Hidden {
				b.Cells[j] = todoCell
				todo.add(j)
			}
		}
	}

	return opened
}

// Detonate marks the mine at (row, col) as the one the player hit.
func (b *Board) Detonate(row, col int) {
	if b.MineAt(row, col) {
		b.Cells[b.index(row, col)] = ExplodedMine
	}
}

// ToggleFlag switches a hidden cell to flagged and back. Opened cells and
// out of range coordinates are left alone.
func (b *Board) ToggleFlag(row, col int) {
	if !b.InBounds(row, col) {
		return
	}
	i := b.index(row, col)
	switch b.Cells[i] {
	case Hidden:
		b.Cells[i] = Flagged
	case Flagged:
		b.Cells[i] = Hidden
	}
}

// FlagsMatchMines reports whether the flagged cells are exactly the mined
// cells.
func (b *Board) FlagsMatchMines() bool {
	for i, mine := range b.Mines {
		if (b.Cells[i] == Flagged) != mine {
			return false
		}
	}
	return true
}

// FlaggedNeighbors counts the flags placed around (row, col).
func (b *Board) FlaggedNeighbors(row, col int) int {
	n := 0
	for r, c := range b.neighbors(row, col) {
		if b.Cells[b.index(r, c)] == Flagged {
			n++
		}
	}
	return n
}

// CanChord reports whether (row, col) is an opened cell with exactly as many
// flags around it as mines.
func (b *Board) CanChord(row, col int) bool {
	s, ok := b.CellAt(row, col)
	if !ok {
		return false
	}
	n, ok := s.Count()
	return ok && n == b.FlaggedNeighbors(row, col)
}

// Chord opens every hidden neighbor of an opened cell whose count is
// satisfied by adjacent flags. It stops at the first mine and reports it.
func (b *Board) Chord(row, col int) (opened int, exploded bool) {
	if !b.CanChord(row, col) {
		return 0, false
	}
	for r, c := range b.neighbors(row, col) {
		if b.Cells[b.index(r, c)] != Hidden {
			continue
		}
		if b.Mines[b.index(r, c)] {
			b.Detonate(r, c)
			return opened, true
		}
		opened += b.Reveal(r, c)
	}
	return opened, false
}

// RevealMines exposes the minefield once the game is over: flags are marked
// right or wrong and unflagged mines are shown. Safe hidden cells stay
// hidden.
func (b *Board) RevealMines() {
	for i, mine := range b.Mines {
		switch b.Cells[i] {
		case Flagged:
			if mine {
				b.Cells[i] = CorrectFlag
			} else {
				b.Cells[i] = WrongFlag
			}
		case Hidden:
			if mine {
				b.Cells[i] = UnflaggedMine
			}
		}
	}
}

// Rehide forgets all player progress while keeping the mines.
func (b *Board) Rehide() {
	for i := range b.Cells {
		b.Cells[i] = Hidden
	}
}
