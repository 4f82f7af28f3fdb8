package game

import (
	"github.com/vancomm/sweeper/internal/mines"
)

// Command is one input to [Reduce]. The set of commands is closed; each
// carries the tag it travels under on the wire.
type Command interface {
	Name() string
	command()
}

type (
	StartGame struct{}

	// LoadBoard hands a freshly generated board to the state. The board
	// becomes owned by the state and must not be touched afterwards.
	LoadBoard struct{ Board *mines.Board }

	RevealTile struct{ Row, Col int }
	FlagTile   struct{ Row, Col int }
	ChordTile  struct{ Row, Col int }

	SetSeed             struct{ Seed mines.Seed }
	SetSize             struct{ Size int }
	SetDensity          struct{ Density float64 }
	SetPreserveProgress struct{ PreserveProgress bool }

	UptickTimer struct{}
	EndGame     struct{}
	RestartGame struct{}
)

func (StartGame) Name() string           { return "start-game" }
func (LoadBoard) Name() string           { return "load-board" }
func (RevealTile) Name() string          { return "reveal-tile" }
func (FlagTile) Name() string            { return "flag-tile" }
func (ChordTile) Name() string           { return "chord-tile" }
func (SetSeed) Name() string             { return "set-seed" }
func (SetSize) Name() string             { return "set-size" }
func (SetDensity) Name() string          { return "set-density" }
func (SetPreserveProgress) Name() string { return "set-preserve-progress" }
func (UptickTimer) Name() string         { return "uptick-timer" }
func (EndGame) Name() string             { return "end-game" }
func (RestartGame) Name() string         { return "restart-game" }

func (StartGame) command()           {}
func (LoadBoard) command()           {}
func (RevealTile) command()          {}
func (FlagTile) command()            {}
func (ChordTile) command()           {}
func (SetSeed) command()             {}
func (SetSize) command()             {}
func (SetDensity) command()          {}
func (SetPreserveProgress) command() {}
func (UptickTimer) command()         {}
func (EndGame) command()             {}
func (RestartGame) command()         {}
