package mines

import (
	"fmt"
	"hash/fnv"
	"math"
	"math/rand/v2"
	"strconv"
	"strings"
)

// Seed parameterizes mine placement. Numeric seeds feed the generator
// directly; anything else is hashed first.
type Seed string

func SeedFromInt(n uint64) Seed {
	return Seed(strconv.FormatUint(n, 10))
}

func (s Seed) source() *rand.PCG {
	if n, err := strconv.ParseUint(string(s), 10, 64); err == nil {
		return rand.NewPCG(n, n)
	}
	h := fnv.New64a()
	h.Write([]byte(s))
	sum := h.Sum64()
	return rand.NewPCG(sum, sum)
}

// Rand returns a generator reseeded from s. Two calls with the same seed
// produce identical streams.
func (s Seed) Rand() *rand.Rand {
	return rand.New(s.source())
}

type BoardParams struct {
	Size    int
	Seed    Seed
	Density float64
}

func (p BoardParams) Validate() error {
	if p.Size <= 0 {
		return fmt.Errorf("%w (size = %d)", ErrInvalidSize, p.Size)
	}
	if math.IsNaN(p.Density) || p.Density <= 0 || p.Density >= 1 {
		return fmt.Errorf("%w (density = %g)", ErrInvalidDensity, p.Density)
	}
	return nil
}

// Key encodes the params as "size:density:seed". The seed goes last so it
// may contain colons.
func (p BoardParams) Key() string {
	return fmt.Sprintf("%d:%s:%s",
		p.Size, strconv.FormatFloat(p.Density, 'g', -1, 64), p.Seed,
	)
}

func ParseBoardParams(key string) (*BoardParams, error) {
	parts := strings.SplitN(key, ":", 3)
	if len(parts) != 3 {
		return nil, fmt.Errorf(`%w (key = "%s")`, ErrBadParams, key)
	}
	size, err := strconv.Atoi(parts[0])
	if err != nil {
		return nil, fmt.Errorf(`%w (key = "%s", err = %w)`, ErrBadParams, key, err)
	}
	density, err := strconv.ParseFloat(parts[1], 64)
	if err != nil {
		return nil, fmt.Errorf(`%w (key = "%s", err = %w)`, ErrBadParams, key, err)
	}
	p := &BoardParams{Size: size, Density: density, Seed: Seed(parts[2])}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}
