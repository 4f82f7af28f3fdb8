package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"math/rand/v2"
	"net/url"
	"strconv"

	"github.com/gorilla/schema"

	"github.com/vancomm/sweeper/internal/game"
	"github.com/vancomm/sweeper/internal/mines"
)

var ErrUnknownCommand = errors.New("unknown command")

var decoder = schema.NewDecoder()

func init() {
	decoder.IgnoreUnknownKeys(true)
}

// SettingsDTO carries the raw query values of a new session. Empty fields
// fall back to defaults.
type SettingsDTO struct {
	Size     string `schema:"size"`
	Seed     string `schema:"seed"`
	Density  string `schema:"density"`
	Preserve string `schema:"preserve"`
}

// ParseSettings validates the query of a new session request. A missing
// seed is drawn from rnd.
func ParseSettings(src url.Values, rnd *rand.Rand) (game.Settings, error) {
	var dto SettingsDTO
	if err := decoder.Decode(&dto, src); err != nil {
		return game.Settings{}, err
	}

	var settings game.Settings
	if dto.Seed != "" {
		seed, err := game.ParseSeed(dto.Seed)
		if err != nil {
			return settings, err
		}
		settings = game.DefaultSettings(seed)
	} else {
		settings = game.DefaultSettings(game.RandomSeed(rnd))
	}

	if dto.Size != "" {
		size, err := game.ParseSize(dto.Size)
		if err != nil {
			return settings, err
		}
		settings.BoardSize = size
	}
	if dto.Density != "" {
		density, err := game.ParseDensity(dto.Density)
		if err != nil {
			return settings, err
		}
		settings.Density = density
	}
	if dto.Preserve != "" {
		preserve, err := game.ParsePreserveProgress(dto.Preserve)
		if err != nil {
			return settings, err
		}
		settings.PreserveProgress = preserve
	}
	return settings, nil
}

// seedValue accepts both "123" and 123 on the wire.
type seedValue string

func (s *seedValue) UnmarshalJSON(data []byte) error {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	switch value := v.(type) {
	case string:
		*s = seedValue(value)
	case float64:
		*s = seedValue(strconv.FormatFloat(value, 'f', -1, 64))
	default:
		return fmt.Errorf("%w: seed must be a string or a number", game.ErrBadSeed)
	}
	return nil
}

// CommandDTO is a tagged command record, e.g.
// {"type":"reveal-tile","row":1,"col":2}. Only the fields of the given type
// are read.
type CommandDTO struct {
	Type             string    `json:"type" schema:"type,required"`
	Row              int       `json:"row" schema:"row"`
	Col              int       `json:"col" schema:"col"`
	Seed             seedValue `json:"seed" schema:"seed"`
	Size             int       `json:"size" schema:"size"`
	Density          float64   `json:"density" schema:"density"`
	PreserveProgress bool      `json:"preserve_progress" schema:"preserve_progress"`
}

func DecodeCommand(data []byte) (game.Command, error) {
	var dto CommandDTO
	if err := json.Unmarshal(data, &dto); err != nil {
		return nil, err
	}
	return dto.Command()
}

func DecodeCommandQuery(src url.Values) (game.Command, error) {
	var dto CommandDTO
	if err := decoder.Decode(&dto, src); err != nil {
		return nil, err
	}
	return dto.Command()
}

// Command converts the record into an engine command. Boards and timer
// ticks belong to the server and are not accepted from clients.
func (d CommandDTO) Command() (game.Command, error) {
	switch d.Type {
	case game.StartGame{}.Name():
		return game.StartGame{}, nil
	case game.RevealTile{}.Name():
		return game.RevealTile{Row: d.Row, Col: d.Col}, nil
	case game.FlagTile{}.Name():
		return game.FlagTile{Row: d.Row, Col: d.Col}, nil
	case game.ChordTile{}.Name():
		return game.ChordTile{Row: d.Row, Col: d.Col}, nil
	case game.SetSeed{}.Name():
		seed, err := game.ParseSeed(string(d.Seed))
		if err != nil {
			return nil, err
		}
		return game.SetSeed{Seed: seed}, nil
	case game.SetSize{}.Name():
		if err := game.ValidateSize(d.Size); err != nil {
			return nil, err
		}
		return game.SetSize{Size: d.Size}, nil
	case game.SetDensity{}.Name():
		if err := game.ValidateDensity(d.Density); err != nil {
			return nil, err
		}
		return game.SetDensity{Density: d.Density}, nil
	case game.SetPreserveProgress{}.Name():
		return game.SetPreserveProgress{PreserveProgress: d.PreserveProgress}, nil
	case game.EndGame{}.Name():
		return game.EndGame{}, nil
	case game.RestartGame{}.Name():
		return game.RestartGame{}, nil
	default:
		return nil, fmt.Errorf("%w %q", ErrUnknownCommand, d.Type)
	}
}

type SnapshotDTO struct {
	ID               string              `json:"id"`
	Phase            game.Phase          `json:"phase"`
	Loading          bool                `json:"loading"`
	Cells            [][]mines.CellState `json:"cells"`
	Display          [][]int             `json:"display"`
	Flags            [][]bool            `json:"flags"`
	MineCount        int                 `json:"mine_count"`
	FlagCount        int                 `json:"flag_count"`
	Seed             string              `json:"seed"`
	BoardSize        int                 `json:"board_size"`
	Density          float64             `json:"density"`
	Timer            int                 `json:"timer"`
	TimerText        string              `json:"timer_text"`
	TimerOn          bool                `json:"timer_on"`
	PlayerWin        bool                `json:"player_win"`
	Conceded         bool                `json:"conceded"`
	PreserveProgress bool                `json:"preserve_progress"`
}

func NewSnapshotDTO(id string, s game.State) *SnapshotDTO {
	dto := &SnapshotDTO{
		ID:               id,
		Phase:            s.Phase,
		Loading:          s.NeedsBoard(),
		Seed:             string(s.Settings.Seed),
		BoardSize:        s.Settings.BoardSize,
		Density:          s.Settings.Density,
		Timer:            s.TimerVal,
		TimerText:        game.FormatTime(s.TimerVal),
		TimerOn:          s.TimerOn,
		PlayerWin:        s.PlayerWin,
		Conceded:         s.Conceded,
		PreserveProgress: s.Settings.PreserveProgress,
	}
	if b := s.Board; b != nil {
		dto.Cells = b.Cells.Rows(b.Size)
		dto.Display = b.Display()
		dto.Flags = b.Flags()
		dto.MineCount = b.MineCount()
		dto.FlagCount = b.FlagCount()
	}
	return dto
}

type CreatedDTO struct {
	Token    string       `json:"token"`
	Snapshot *SnapshotDTO `json:"snapshot"`
}
