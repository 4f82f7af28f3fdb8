package mines

import "errors"

var (
	ErrInvalidSize    = errors.New("board size must be positive")
	ErrInvalidDensity = errors.New("mine density must be between 0 and 1")
	ErrBadLayout      = errors.New("layout must be a non-empty square of '*' and '.'")
	ErrBadParams      = errors.New("invalid board params")
)
