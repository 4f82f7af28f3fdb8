package game

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"strconv"
	"strings"

	"github.com/vancomm/sweeper/internal/mines"
)

const MaxSeedDigits = 6

var (
	ErrBadSeed     = fmt.Errorf("seed must be 1 to %d digits", MaxSeedDigits)
	ErrBadSize     = fmt.Errorf("board size must be an integer from %d to %d", MinBoardSize, MaxBoardSize)
	ErrBadDensity  = errors.New("density must be a number between 0 and 1")
	ErrBadPreserve = errors.New("preserve progress must be a boolean")
)

// The Parse functions guard the settings boundary: input they reject must
// not be turned into a command.

func ParseSeed(s string) (mines.Seed, error) {
	s = strings.TrimSpace(s)
	if len(s) == 0 || len(s) > MaxSeedDigits {
		return "", fmt.Errorf(`%w (seed = "%s")`, ErrBadSeed, s)
	}
	for _, ch := range s {
		if ch < '0' || ch > '9' {
			return "", fmt.Errorf(`%w (seed = "%s")`, ErrBadSeed, s)
		}
	}
	return mines.Seed(s), nil
}

func ParseSize(s string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf(`%w (size = "%s")`, ErrBadSize, s)
	}
	if err := ValidateSize(n); err != nil {
		return 0, err
	}
	return n, nil
}

func ValidateSize(n int) error {
	if n < MinBoardSize || n > MaxBoardSize {
		return fmt.Errorf("%w (size = %d)", ErrBadSize, n)
	}
	return nil
}

func ParseDensity(s string) (float64, error) {
	d, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, fmt.Errorf(`%w (density = "%s")`, ErrBadDensity, s)
	}
	if err := ValidateDensity(d); err != nil {
		return 0, err
	}
	return d, nil
}

func ValidateDensity(d float64) error {
	if !(d > 0 && d < 1) {
		return fmt.Errorf("%w (density = %g)", ErrBadDensity, d)
	}
	return nil
}

func ParsePreserveProgress(s string) (bool, error) {
	b, err := strconv.ParseBool(strings.TrimSpace(s))
	if err != nil {
		return false, fmt.Errorf(`%w (preserve = "%s")`, ErrBadPreserve, s)
	}
	return b, nil
}

// RandomSeed draws a seed that [ParseSeed] accepts.
func RandomSeed(r *rand.Rand) mines.Seed {
	return mines.Seed(strconv.Itoa(r.IntN(1_000_000)))
}
