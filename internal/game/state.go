package game

import (
	"fmt"

	"github.com/vancomm/sweeper/internal/mines"
)

type Phase uint8

const (
	PreGame Phase = iota
	InGame
	PostGame
)

func (p Phase) String() string {
	switch p {
	case PreGame:
		return "pre-game"
	case InGame:
		return "in-game"
	case PostGame:
		return "post-game"
	default:
		return fmt.Sprintf("Phase(%d)", uint8(p))
	}
}

// [Phase] implements [encoding.TextMarshaler]
func (p Phase) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

const (
	MinBoardSize     = 1
	MaxBoardSize     = 100
	DefaultBoardSize = 10

	MinDensity = 0.05
	MaxDensity = 0.95
)

// Settings are the user adjustable knobs that shape the next board.
type Settings struct {
	Seed      mines.Seed
	BoardSize int
	Density   float64

	// PreserveProgress keeps the finished board for the next round on
	// restart, provided nothing that shaped it has changed since.
	PreserveProgress bool
}

func DefaultSettings(seed mines.Seed) Settings {
	return Settings{
		Seed:      seed,
		BoardSize: DefaultBoardSize,
		Density:   mines.BombFrequency,
	}
}

func (s Settings) Params() mines.BoardParams {
	return mines.BoardParams{
		Size:    s.BoardSize,
		Seed:    s.Seed,
		Density: s.Density,
	}
}

// State is an immutable snapshot of one game session. Fields that only make
// sense in some phases are zero elsewhere:
//
//   - PreGame: Board may be nil while a board is being generated.
//   - InGame: Board is set and TimerOn is true.
//   - PostGame: TimerOn is false, PlayerWin tells how it ended and Conceded
//     is set when the player gave up.
//
// Reduce never modifies a Board that a State already points to.
type State struct {
	Phase     Phase
	Board     *mines.Board
	Settings  Settings
	TimerVal  int
	TimerOn   bool
	PlayerWin bool
	Conceded  bool

	// stale is set when the seed changes mid-game; the board on screen no
	// longer matches the settings and must not be carried into a new round.
	stale bool
}

func NewState(settings Settings) State {
	return State{Phase: PreGame, Settings: settings}
}

// NeedsBoard reports whether the host should generate a board for the
// current settings.
func (s State) NeedsBoard() bool {
	return s.Phase == PreGame && s.Board == nil
}

func (s State) String() string {
	return fmt.Sprintf("%s(%s, %s)", s.Phase, s.Settings.Params().Key(), FormatTime(s.TimerVal))
}
