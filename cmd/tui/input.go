package main

import (
	"math/rand/v2"

	"github.com/gdamore/tcell/v2"

	"github.com/vancomm/sweeper/internal/game"
)

// cursor tracks the highlighted cell and turns input events into commands.
type cursor struct {
	row, col int
	buttons  tcell.ButtonMask
	rnd      *rand.Rand
}

func (c *cursor) clamp(size int) {
	c.row = min(max(c.row, 0), size-1)
	c.col = min(max(c.col, 0), size-1)
}

// open reveals the cell under the cursor, starting the round first when a
// board is ready.
func (c *cursor) open(st game.State) []game.Command {
	reveal := game.RevealTile{Row: c.row, Col: c.col}
	if st.Phase == game.PreGame && st.Board != nil {
		return []game.Command{game.StartGame{}, reveal}
	}
	return []game.Command{reveal}
}

func (c *cursor) key(ev *tcell.EventKey, st game.State) (cmds []game.Command, quit bool) {
	size := st.Settings.BoardSize
	switch ev.Key() {
	case tcell.KeyUp:
		c.row--
	case tcell.KeyDown:
		c.row++
	case tcell.KeyLeft:
		c.col--
	case tcell.KeyRight:
		c.col++
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return nil, true
	case tcell.KeyEnter:
		cmds = c.open(st)
	case tcell.KeyRune:
		switch ev.Rune() {
		case 'q':
			return nil, true
		case ' ':
			cmds = c.open(st)
		case 'f':
			cmds = []game.Command{game.FlagTile{Row: c.row, Col: c.col}}
		case 'c':
			cmds = []game.Command{game.ChordTile{Row: c.row, Col: c.col}}
		case 's':
			cmds = []game.Command{game.StartGame{}}
		case 'r':
			cmds = []game.Command{game.RestartGame{}}
		case 'e':
			cmds = []game.Command{game.EndGame{}}
		case 'n':
			cmds = []game.Command{game.SetSeed{Seed: game.RandomSeed(c.rnd)}}
		case '+', '=':
			size++
			cmds = []game.Command{game.SetSize{Size: size}}
		case '-':
			size--
			cmds = []game.Command{game.SetSize{Size: size}}
		case 'p':
			cmds = []game.Command{game.SetPreserveProgress{
				PreserveProgress: !st.Settings.PreserveProgress,
			}}
		}
	}
	c.clamp(min(max(size, game.MinBoardSize), game.MaxBoardSize))
	return cmds, false
}

// mouse acts on button presses only, not on held buttons.
func (c *cursor) mouse(ev *tcell.EventMouse, st game.State) []game.Command {
	pressed := ev.Buttons() &^ c.buttons
	c.buttons = ev.Buttons()

	x, y := ev.Position()
	row, col, ok := cellAt(st.Settings.BoardSize, x, y)
	if !ok {
		return nil
	}
	c.row, c.col = row, col

	switch {
	case pressed&tcell.Button1 != 0:
		return c.open(st)
	case pressed&tcell.Button2 != 0:
		return []game.Command{game.FlagTile{Row: row, Col: col}}
	case pressed&tcell.Button3 != 0:
		return []game.Command{game.ChordTile{Row: row, Col: col}}
	}
	return nil
}
