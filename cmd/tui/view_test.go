package main

import (
	"strings"
	"testing"

	"github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vancomm/sweeper/internal/game"
	"github.com/vancomm/sweeper/internal/mines"
)

func playing(t *testing.T, layout string, cmds ...game.Command) game.State {
	t.Helper()
	board, err := mines.ParseLayout(layout)
	require.NoError(t, err)
	settings := game.DefaultSettings("42")
	settings.BoardSize = board.Size
	st := game.ReduceAll(game.NewState(settings), game.LoadBoard{Board: board}, game.StartGame{})
	return game.ReduceAll(st, cmds...)
}

func screenRow(screen tcell.SimulationScreen, y, width int) string {
	var b strings.Builder
	for x := range width {
		r, _, _, _ := screen.GetContent(x, y)
		b.WriteRune(r)
	}
	return b.String()
}

func TestCellAt(t *testing.T) {
	for row := range 3 {
		for col := range 3 {
			x, y := cellOrigin(row, col)
			r, c, ok := cellAt(3, x, y)
			require.True(t, ok)
			assert.Equal(t, [2]int{row, col}, [2]int{r, c})

			r, c, ok = cellAt(3, x+1, y)
			require.True(t, ok)
			assert.Equal(t, [2]int{row, col}, [2]int{r, c})
		}
	}

	_, _, ok := cellAt(3, 0, boardTop)
	assert.False(t, ok)
	_, _, ok = cellAt(3, boardLeft, boardTop-1)
	assert.False(t, ok)
	_, _, ok = cellAt(3, boardLeft+3*cellWidth, boardTop)
	assert.False(t, ok)
	_, _, ok = cellAt(3, boardLeft, boardTop+3)
	assert.False(t, ok)
}

func TestGlyph(t *testing.T) {
	tests := map[mines.CellState]rune{
		mines.Hidden:        '#',
		mines.Flagged:       'F',
		mines.CorrectFlag:   'F',
		mines.WrongFlag:     'x',
		mines.ExplodedMine:  '*',
		mines.UnflaggedMine: '*',
		0:                   '.',
		3:                   '3',
		8:                   '8',
	}
	for s, want := range tests {
		r, _ := glyph(s)
		assert.Equal(t, want, r, "state %d", s)
	}
}

func TestStatusLine(t *testing.T) {
	pending := game.NewState(game.DefaultSettings("7"))
	assert.True(t, strings.HasPrefix(statusLine(pending), "generating  00:00"))

	st := playing(t, "*.. ... ..*")
	assert.Equal(t, "in-game  00:00  mines 2  flags 0  seed 42  size 3", statusLine(st))

	won := game.ReduceAll(st, game.FlagTile{Row: 0, Col: 0}, game.FlagTile{Row: 2, Col: 2})
	assert.True(t, strings.HasPrefix(statusLine(won), "you won"))

	lost := game.Reduce(st, game.RevealTile{Row: 0, Col: 0})
	assert.True(t, strings.HasPrefix(statusLine(lost), "boom"))

	conceded := game.Reduce(st, game.EndGame{})
	assert.True(t, strings.HasPrefix(statusLine(conceded), "conceded"))
}

func TestDraw(t *testing.T) {
	screen := tcell.NewSimulationScreen("UTF-8")
	require.NoError(t, screen.Init())
	defer screen.Fini()
	screen.SetSize(40, 10)

	st := playing(t, "*.. ... ..*", game.RevealTile{Row: 0, Col: 1}, game.FlagTile{Row: 2, Col: 2})
	draw(screen, st, 1, 1)

	assert.True(t, strings.HasPrefix(screenRow(screen, 0, 40), " in-game"))
	assert.Equal(t, " # 1 # ", screenRow(screen, boardTop, 7))
	assert.Equal(t, " # # # ", screenRow(screen, boardTop+1, 7))
	assert.Equal(t, " # # F ", screenRow(screen, boardTop+2, 7))

	_, _, style, _ := screen.GetContent(cellOrigin(1, 1))
	_, _, attrs := style.Decompose()
	assert.NotZero(t, attrs&tcell.AttrReverse)
}
