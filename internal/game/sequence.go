package game

import (
	"math/rand/v2"
	"time"
)

// Rand is the randomness source for sequences and targets.
type Rand interface {
	IntN(n int) int
}

type globalRand struct{}

func (globalRand) IntN(n int) int { return rand.IntN(n) }

// DefaultRand uses the goroutine-safe top-level math/rand/v2 source.
func DefaultRand() Rand { return globalRand{} }

// SequenceLength returns 2 + min(level, maxLevel).
func SequenceLength(level, maxLevel int) int {
	return 2 + EffectiveLevel(level, maxLevel)
}

// NewSequence builds a fresh recall target for the given level.
func NewSequence(rng Rand, level, maxLevel, gridSize int) []int {
	seq := make([]int, SequenceLength(level, maxLevel))
	for i := range seq {
		seq[i] = rng.IntN(gridSize)
	}
	return seq
}

// Target is a reaction cell shown during the motor phase.
type Target struct {
	ID       int64 `json:"id"`
	Position int   `json:"position"`
}

func NewTarget(rng Rand, now time.Time, gridSize int) *Target {
	return &Target{
		ID:       now.UnixMilli(),
		Position: rng.IntN(gridSize),
	}
}
