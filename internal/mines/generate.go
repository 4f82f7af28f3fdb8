package mines

import (
	"github.com/sirupsen/logrus"
)

// BombFrequency is the probability that any single cell holds a mine.
const BombFrequency = 0.25

// Generate builds a size x size board whose cells are independently mined
// with probability [BombFrequency]. The layout depends only on size and seed.
func Generate(size int, seed Seed) (*Board, error) {
	return GenerateWithDensity(size, seed, BombFrequency)
}

func GenerateWithDensity(size int, seed Seed, density float64) (*Board, error) {
	return BoardParams{Size: size, Seed: seed, Density: density}.Generate()
}

func (p BoardParams) Generate() (*Board, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	r := p.Seed.Rand()
	grid := make([]bool, p.Size*p.Size)
	for i := range grid {
		grid[i] = r.Float64() < p.Density
	}

	board, err := NewBoard(p.Size, grid)
	if err != nil {
		return nil, err
	}

	Log.WithFields(logrus.Fields{
		"params": p.Key(),
		"mines":  board.MineCount(),
	}).Debug("generated board")

	return board, nil
}
