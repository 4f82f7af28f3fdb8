package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vancomm/sweeper/internal/mines"
)

func layout(t *testing.T, l string) *mines.Board {
	t.Helper()
	b, err := mines.ParseLayout(l)
	require.NoError(t, err)
	return b
}

const twoMines = `
	*..
	...
	..*
`

func inGame(t *testing.T, l string) State {
	t.Helper()
	b := layout(t, l)
	s := NewState(DefaultSettings("1"))
	s.Settings.BoardSize = b.Size
	s = ReduceAll(s, LoadBoard{b}, StartGame{})
	require.Equal(t, InGame, s.Phase)
	return s
}

func TestStartGame(t *testing.T) {
	s := NewState(DefaultSettings("1"))
	assert.Equal(t, s, Reduce(s, StartGame{}), "start without board is a no-op")

	s = Reduce(s, LoadBoard{layout(t, twoMines)})
	assert.Equal(t, PreGame, s.Phase)

	s = Reduce(s, StartGame{})
	assert.Equal(t, InGame, s.Phase)
	assert.True(t, s.TimerOn)
	assert.Zero(t, s.TimerVal)

	assert.Equal(t, s, Reduce(s, StartGame{}), "start while in game is a no-op")
}

func TestLoadBoardAnyPhase(t *testing.T) {
	s := inGame(t, twoMines)
	other := layout(t, "..\n..")
	s = Reduce(s, LoadBoard{other})
	assert.Same(t, other, s.Board)

	assert.Equal(t, s, Reduce(s, LoadBoard{nil}))
}

func TestRevealSafeSingleCell(t *testing.T) {
	s := inGame(t, ".")
	s = Reduce(s, RevealTile{0, 0})

	assert.Equal(t, InGame, s.Phase)
	assert.Equal(t, [][]int{{0}}, s.Board.Display())
}

func TestRevealMineLoses(t *testing.T) {
	s := inGame(t, twoMines)
	s = Reduce(s, RevealTile{0, 0})

	assert.Equal(t, PostGame, s.Phase)
	assert.False(t, s.PlayerWin)
	assert.False(t, s.TimerOn)
	assert.False(t, s.Conceded)
	cell, _ := s.Board.CellAt(0, 0)
	assert.Equal(t, mines.ExplodedMine, cell)
	cell, _ = s.Board.CellAt(2, 2)
	assert.Equal(t, mines.UnflaggedMine, cell)
}

func TestFlagAllMinesWins(t *testing.T) {
	s := inGame(t, twoMines)
	s = Reduce(s, FlagTile{0, 0})
	assert.Equal(t, InGame, s.Phase)

	s = Reduce(s, FlagTile{2, 2})
	assert.Equal(t, PostGame, s.Phase)
	assert.True(t, s.PlayerWin)
	assert.False(t, s.TimerOn)
}

func TestWinKeepsFlagsVisible(t *testing.T) {
	s := inGame(t, twoMines)
	s = ReduceAll(s, FlagTile{0, 0}, FlagTile{2, 2})
	require.Equal(t, PostGame, s.Phase)
	require.True(t, s.PlayerWin)

	assert.Equal(t, s.Board.MineGrid(), s.Board.Flags())
	assert.Equal(t, 2, s.Board.FlagCount())
}

func TestFlagUnflagWinsMineFreeBoard(t *testing.T) {
	s := inGame(t, `
		..
		..
	`)
	s = Reduce(s, FlagTile{0, 0})
	require.Equal(t, InGame, s.Phase)
	assert.Equal(t, 1, s.Board.FlagCount())

	s = Reduce(s, FlagTile{0, 0})
	assert.Equal(t, PostGame, s.Phase)
	assert.True(t, s.PlayerWin)
	assert.Zero(t, s.Board.FlagCount())
}

func TestFlagWrongSetsDoNotWin(t *testing.T) {
	tests := []struct {
		name  string
		flags [][2]int
	}{
		{"subset", [][2]int{{0, 0}}},
		{"superset", [][2]int{{1, 1}, {0, 0}, {2, 2}}},
		{"disjoint equal count", [][2]int{{0, 1}, {1, 0}}},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			s := inGame(t, twoMines)
			for _, f := range test.flags {
				s = Reduce(s, FlagTile{f[0], f[1]})
			}
			assert.Equal(t, InGame, s.Phase)
			assert.Equal(t, len(test.flags), s.Board.FlagCount())
		})
	}
}

func TestUnflagToWin(t *testing.T) {
	s := inGame(t, twoMines)
	s = ReduceAll(s, FlagTile{0, 0}, FlagTile{1, 1}, FlagTile{2, 2})
	require.Equal(t, InGame, s.Phase)

	s = Reduce(s, FlagTile{1, 1})
	assert.Equal(t, PostGame, s.Phase)
	assert.True(t, s.PlayerWin)
}

func TestNoops(t *testing.T) {
	pre := NewState(DefaultSettings("1"))
	pre = Reduce(pre, LoadBoard{layout(t, twoMines)})

	running := inGame(t, twoMines)
	running = Reduce(running, FlagTile{0, 1})
	running = Reduce(running, RevealTile{1, 1})

	post := Reduce(inGame(t, twoMines), RevealTile{0, 0})

	tests := []struct {
		name  string
		state State
		cmd   Command
	}{
		{"reveal pre-game", pre, RevealTile{1, 1}},
		{"reveal post-game", post, RevealTile{1, 1}},
		{"reveal flagged", running, RevealTile{0, 1}},
		{"reveal opened", running, RevealTile{1, 1}},
		{"reveal out of bounds", running, RevealTile{3, 0}},
		{"reveal negative", running, RevealTile{0, -1}},
		{"flag pre-game", pre, FlagTile{0, 0}},
		{"flag post-game", post, FlagTile{2, 2}},
		{"flag opened", running, FlagTile{1, 1}},
		{"flag out of bounds", running, FlagTile{9, 9}},
		{"chord unsatisfied", running, ChordTile{1, 1}},
		{"chord hidden", running, ChordTile{2, 0}},
		{"chord pre-game", pre, ChordTile{1, 1}},
		{"size in game", running, SetSize{5}},
		{"density in game", running, SetDensity{0.5}},
		{"uptick pre-game", pre, UptickTimer{}},
		{"uptick post-game", post, UptickTimer{}},
		{"end pre-game", pre, EndGame{}},
		{"end post-game", post, EndGame{}},
		{"restart pre-game", pre, RestartGame{}},
		{"restart in game", running, RestartGame{}},
		{"same seed", pre, SetSeed{pre.Settings.Seed}},
		{"same size", pre, SetSize{pre.Settings.BoardSize}},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			before := test.state.Board.Clone()
			next := Reduce(test.state, test.cmd)
			assert.Equal(t, test.state, next)
			assert.Equal(t, before, test.state.Board)
		})
	}
}

func TestSnapshotsAreNotAliased(t *testing.T) {
	s0 := inGame(t, `
		....
		....
		....
		...*
	`)
	kept := s0.Board.Clone()

	s1 := Reduce(s0, RevealTile{0, 0})
	s2 := Reduce(s1, FlagTile{3, 3})

	assert.Equal(t, kept, s0.Board)
	assert.NotEqual(t, s1.Board, s0.Board)
	cell, _ := s1.Board.CellAt(3, 3)
	assert.Equal(t, mines.Hidden, cell)
	assert.Equal(t, PostGame, s2.Phase)
	assert.True(t, s2.PlayerWin)
}

func TestChordTile(t *testing.T) {
	s := inGame(t, twoMines)
	s = ReduceAll(s, RevealTile{1, 1}, FlagTile{0, 0})
	require.Equal(t, InGame, s.Phase)
	s = Reduce(s, FlagTile{2, 2})
	require.Equal(t, PostGame, s.Phase, "flagging both mines wins")

	s = inGame(t, twoMines)
	s = ReduceAll(s, RevealTile{0, 1}, FlagTile{0, 0}, ChordTile{0, 1})
	assert.Equal(t, InGame, s.Phase)
	for _, rc := range [][2]int{{0, 2}, {1, 0}, {1, 1}, {1, 2}} {
		cell, _ := s.Board.CellAt(rc[0], rc[1])
		assert.True(t, cell.Revealed(), "%v", rc)
	}
}

func TestChordTileExplodes(t *testing.T) {
	s := inGame(t, twoMines)
	s = ReduceAll(s, RevealTile{0, 1}, FlagTile{1, 1}, ChordTile{0, 1})

	assert.Equal(t, PostGame, s.Phase)
	assert.False(t, s.PlayerWin)
	cell, _ := s.Board.CellAt(1, 1)
	assert.Equal(t, mines.WrongFlag, cell)
}

func TestSetSizeClamps(t *testing.T) {
	s := NewState(DefaultSettings("1"))
	s = Reduce(s, SetSize{150})
	assert.Equal(t, MaxBoardSize, s.Settings.BoardSize)

	s = Reduce(s, SetSize{0})
	assert.Equal(t, MinBoardSize, s.Settings.BoardSize)

	s = Reduce(s, SetSize{-20})
	assert.Equal(t, MinBoardSize, s.Settings.BoardSize)
}

func TestSettingsDetachBoard(t *testing.T) {
	fresh := func() State {
		s := NewState(DefaultSettings("1"))
		return Reduce(s, LoadBoard{layout(t, twoMines)})
	}

	s := Reduce(fresh(), SetSeed{"2"})
	assert.Nil(t, s.Board)
	assert.Equal(t, mines.Seed("2"), s.Settings.Seed)
	assert.True(t, s.NeedsBoard())
	assert.Equal(t, s, Reduce(s, StartGame{}))

	s = Reduce(fresh(), SetSize{3})
	assert.Nil(t, s.Board)

	s = Reduce(fresh(), SetDensity{0.5})
	assert.Nil(t, s.Board)
	assert.Equal(t, 0.5, s.Settings.Density)

	s = Reduce(fresh(), SetDensity{2})
	assert.Equal(t, MaxDensity, s.Settings.Density)

	s = Reduce(fresh(), SetPreserveProgress{true})
	assert.NotNil(t, s.Board)
	assert.True(t, s.Settings.PreserveProgress)
}

func TestSetSeedInGameKeepsBoard(t *testing.T) {
	s := inGame(t, twoMines)
	board := s.Board
	s = Reduce(s, SetSeed{"777"})

	assert.Equal(t, InGame, s.Phase)
	assert.Same(t, board, s.Board)
	assert.Equal(t, mines.Seed("777"), s.Settings.Seed)
}

func TestUptickTimer(t *testing.T) {
	s := inGame(t, twoMines)
	for range 5 {
		s = Reduce(s, UptickTimer{})
	}
	assert.Equal(t, 5, s.TimerVal)

	s = Reduce(s, RevealTile{0, 0})
	s = Reduce(s, UptickTimer{})
	assert.Equal(t, 5, s.TimerVal)
}

func TestEndGame(t *testing.T) {
	s := inGame(t, twoMines)
	s = ReduceAll(s, UptickTimer{}, EndGame{})

	assert.Equal(t, PostGame, s.Phase)
	assert.True(t, s.Conceded)
	assert.False(t, s.PlayerWin)
	assert.False(t, s.TimerOn)
	assert.Equal(t, 1, s.TimerVal)
}

func TestRestartGame(t *testing.T) {
	s := inGame(t, twoMines)
	s = ReduceAll(s, UptickTimer{}, RevealTile{0, 0}, RestartGame{})

	assert.Equal(t, PreGame, s.Phase)
	assert.Nil(t, s.Board)
	assert.Zero(t, s.TimerVal)
	assert.False(t, s.PlayerWin)
}

func TestRestartPreservesBoard(t *testing.T) {
	s := inGame(t, twoMines)
	s = ReduceAll(s,
		SetPreserveProgress{true},
		RevealTile{1, 1},
		RevealTile{0, 0},
		RestartGame{},
	)

	require.NotNil(t, s.Board)
	assert.Equal(t, PreGame, s.Phase)
	assert.Equal(t, layout(t, twoMines), s.Board)

	s = Reduce(s, StartGame{})
	assert.Equal(t, InGame, s.Phase)
}

func TestRestartAfterSeedChangeDropsBoard(t *testing.T) {
	s := inGame(t, twoMines)
	s = ReduceAll(s,
		SetPreserveProgress{true},
		SetSeed{"99"},
		EndGame{},
		RestartGame{},
	)
	assert.Nil(t, s.Board)
	assert.True(t, s.NeedsBoard())
}

type bogus struct{ Command }

func TestUnknownCommandPanics(t *testing.T) {
	s := NewState(DefaultSettings("1"))
	assert.Panics(t, func() { Reduce(s, bogus{}) })
	assert.Panics(t, func() { Reduce(s, nil) })
}

func TestGeneratedGameScenario(t *testing.T) {
	seed := findSeed(t, func(b *mines.Board) bool { return !b.Mines[0] })

	board, err := mines.Generate(1, seed)
	require.NoError(t, err)

	s := NewState(DefaultSettings(seed))
	s = ReduceAll(s, SetSize{1}, LoadBoard{board}, StartGame{}, RevealTile{0, 0})

	assert.Equal(t, InGame, s.Phase)
	assert.Equal(t, [][]int{{0}}, s.Board.Display())
}

func findSeed(t *testing.T, ok func(*mines.Board) bool) mines.Seed {
	t.Helper()
	for n := range uint64(1000) {
		seed := mines.SeedFromInt(n)
		b, err := mines.Generate(1, seed)
		require.NoError(t, err)
		if ok(b) {
			return seed
		}
	}
	t.Fatal("no seed found")
	return ""
}
