package game

import (
	"fmt"
	"math"

	"github.com/vancomm/sweeper/internal/mines"
)

// Reduce maps a state and a command to the next state. Commands that do not
// apply in the current phase, or that point outside the board, return s
// unchanged. An unknown command is a programming error and panics.
func Reduce(s State, cmd Command) State {
	switch c := cmd.(type) {
	case StartGame:
		return s.startGame()
	case LoadBoard:
		if c.Board == nil {
			return s
		}
		s.Board = c.Board
		s.stale = false
		return s
	case RevealTile:
		return s.revealTile(c.Row, c.Col)
	case FlagTile:
		return s.flagTile(c.Row, c.Col)
	case ChordTile:
		return s.chordTile(c.Row, c.Col)
	case SetSeed:
		return s.setSeed(c.Seed)
	case SetSize:
		return s.setSize(c.Size)
	case SetDensity:
		return s.setDensity(c.Density)
	case SetPreserveProgress:
		s.Settings.PreserveProgress = c.PreserveProgress
		return s
	case UptickTimer:
		if s.Phase == InGame && s.TimerOn {
			s.TimerVal++
		}
		return s
	case EndGame:
		return s.endGame()
	case RestartGame:
		return s.restartGame()
	default:
		panic(fmt.Sprintf("game: unknown command %T", cmd))
	}
}

// ReduceAll folds cmds over s.
func ReduceAll(s State, cmds ...Command) State {
	for _, cmd := range cmds {
		s = Reduce(s, cmd)
	}
	return s
}

func (s State) startGame() State {
	if s.Phase != PreGame || s.Board == nil {
		return s
	}
	s.Phase = InGame
	s.TimerOn = true
	s.TimerVal = 0
	s.PlayerWin = false
	s.Conceded = false
	return s
}

// finish moves the game to PostGame with board as the final position.
func (s State) finish(board *mines.Board, won bool) State {
	board.RevealMines()
	s.Board = board
	s.Phase = PostGame
	s.TimerOn = false
	s.PlayerWin = won
	return s
}

func (s State) revealTile(row, col int) State {
	if s.Phase != InGame {
		return s
	}
	cell, ok := s.Board.CellAt(row, col)
	if !ok || cell != mines.Hidden {
		return s
	}

	board := s.Board.Clone()
	if board.MineAt(row, col) {
		board.Detonate(row, col)
		return s.finish(board, false)
	}
	board.Reveal(row, col)
	s.Board = board
	return s
}

func (s State) flagTile(row, col int) State {
	if s.Phase != InGame {
		return s
	}
	cell, ok := s.Board.CellAt(row, col)
	if !ok || (cell != mines.Hidden && cell != mines.Flagged) {
		return s
	}

	board := s.Board.Clone()
	board.ToggleFlag(row, col)
	if board.FlagsMatchMines() {
		return s.finish(board, true)
	}
	s.Board = board
	return s
}

func (s State) chordTile(row, col int) State {
	if s.Phase != InGame || !s.Board.CanChord(row, col) {
		return s
	}

	board := s.Board.Clone()
	opened, exploded := board.Chord(row, col)
	if exploded {
		return s.finish(board, false)
	}
	if opened == 0 {
		return s
	}
	s.Board = board
	return s
}

func (s State) setSeed(seed mines.Seed) State {
	if seed == s.Settings.Seed {
		return s
	}
	s.Settings.Seed = seed
	if s.Phase == InGame {
		s.stale = true
	} else {
		s.Board = nil
	}
	return s
}

func (s State) setSize(size int) State {
	if s.Phase == InGame {
		return s
	}
	size = min(max(size, MinBoardSize), MaxBoardSize)
	if size == s.Settings.BoardSize {
		return s
	}
	s.Settings.BoardSize = size
	s.Board = nil
	return s
}

func (s State) setDensity(density float64) State {
	if s.Phase == InGame || math.IsNaN(density) {
		return s
	}
	density = min(max(density, MinDensity), MaxDensity)
	if density == s.Settings.Density {
		return s
	}
	s.Settings.Density = density
	s.Board = nil
	return s
}

func (s State) endGame() State {
	if s.Phase != InGame {
		return s
	}
	s = s.finish(s.Board.Clone(), false)
	s.Conceded = true
	return s
}

func (s State) restartGame() State {
	if s.Phase != PostGame {
		return s
	}
	keep := s.Settings.PreserveProgress && !s.stale && s.Board != nil &&
		s.Board.Size == s.Settings.BoardSize
	if keep {
		board := s.Board.Clone()
		board.Rehide()
		s.Board = board
	} else {
		s.Board = nil
	}
	s.Phase = PreGame
	s.TimerVal = 0
	s.TimerOn = false
	s.PlayerWin = false
	s.Conceded = false
	s.stale = false
	return s
}
