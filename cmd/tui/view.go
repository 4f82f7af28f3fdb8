package main

import (
	"fmt"
	"strings"

	"github.com/gdamore/tcell/v2"

	"github.com/vancomm/sweeper/internal/game"
	"github.com/vancomm/sweeper/internal/mines"
)

const (
	boardTop  = 2
	boardLeft = 1
	cellWidth = 2
)

const help = "arrows/mouse move  space reveal  f flag  c chord  s start  r restart  e concede  n seed  +/- size  p preserve  q quit"

var numberColors = [...]tcell.Color{
	tcell.ColorDefault,
	tcell.ColorBlue,
	tcell.ColorGreen,
	tcell.ColorRed,
	tcell.ColorNavy,
	tcell.ColorMaroon,
	tcell.ColorTeal,
	tcell.ColorWhite,
	tcell.ColorGray,
}

func cellOrigin(row, col int) (x, y int) {
	return boardLeft + col*cellWidth, boardTop + row
}

// cellAt maps a screen position back to a board cell.
func cellAt(size, x, y int) (row, col int, ok bool) {
	if x < boardLeft || y < boardTop {
		return 0, 0, false
	}
	row, col = y-boardTop, (x-boardLeft)/cellWidth
	if row >= size || col >= size {
		return 0, 0, false
	}
	return row, col, true
}

func glyph(s mines.CellState) (rune, tcell.Style) {
	style := tcell.StyleDefault
	switch s {
	case mines.Hidden:
		return '#', style.Foreground(tcell.ColorGray)
	case mines.Flagged:
		return 'F', style.Foreground(tcell.ColorYellow).Bold(true)
	case mines.CorrectFlag:
		return 'F', style.Foreground(tcell.ColorGreen).Bold(true)
	case mines.WrongFlag:
		return 'x', style.Foreground(tcell.ColorRed)
	case mines.ExplodedMine:
		return '*', style.Background(tcell.ColorRed).Foreground(tcell.ColorWhite)
	case mines.UnflaggedMine:
		return '*', style.Foreground(tcell.ColorRed)
	}
	if n, ok := s.Count(); ok {
		if n == 0 {
			return '.', style.Foreground(tcell.ColorDarkGray)
		}
		return rune('0' + n), style.Foreground(numberColors[n]).Bold(true)
	}
	return '?', style
}

func statusLine(st game.State) string {
	var b strings.Builder
	switch {
	case st.NeedsBoard():
		b.WriteString("generating")
	case st.Phase == game.PostGame && st.PlayerWin:
		b.WriteString("you won")
	case st.Phase == game.PostGame && st.Conceded:
		b.WriteString("conceded")
	case st.Phase == game.PostGame:
		b.WriteString("boom")
	default:
		b.WriteString(st.Phase.String())
	}
	fmt.Fprintf(&b, "  %s", game.FormatTime(st.TimerVal))
	if st.Board != nil {
		fmt.Fprintf(&b, "  mines %d  flags %d", st.Board.MineCount(), st.Board.FlagCount())
	}
	fmt.Fprintf(&b, "  seed %s  size %d", st.Settings.Seed, st.Settings.BoardSize)
	if st.Settings.PreserveProgress {
		b.WriteString("  preserve")
	}
	return b.String()
}

func drawText(screen tcell.Screen, x, y int, style tcell.Style, text string) {
	for _, r := range text {
		screen.SetContent(x, y, r, nil, style)
		x++
	}
}

func draw(screen tcell.Screen, st game.State, curRow, curCol int) {
	screen.Clear()
	drawText(screen, boardLeft, 0, tcell.StyleDefault.Bold(true), statusLine(st))

	if b := st.Board; b != nil {
		for row := range b.Size {
			for col := range b.Size {
				cell, _ := b.CellAt(row, col)
				r, style := glyph(cell)
				if row == curRow && col == curCol {
					style = style.Reverse(true)
				}
				x, y := cellOrigin(row, col)
				screen.SetContent(x, y, r, nil, style)
			}
		}
	}

	size := st.Settings.BoardSize
	if st.Board != nil {
		size = st.Board.Size
	}
	drawText(screen, boardLeft, boardTop+size+1, tcell.StyleDefault.Dim(true), help)
	screen.Show()
}
