package rules

import (
	"math/rand"
	"time"
)

// RandomSource returns uniform values in [0,1).
// Each call counts as one draw, so a fixed sequence of values replays a game exactly.
type RandomSource func() float64

// NewRandomSource returns a source seeded with seed.
// The returned source is not safe for concurrent use.
func NewRandomSource(seed int64) RandomSource {
	r := rand.New(rand.NewSource(seed))
	return r.Float64
}

// DefaultRandomSource returns a source seeded from the current time.
func DefaultRandomSource() RandomSource {
	return NewRandomSource(time.Now().UnixNano())
}

// NewSequenceRandomSource cycles through values.
func NewSequenceRandomSource(values ...float64) RandomSource {
	if len(values) == 0 {
		values = []float64{0}
	}
	index := 0
	return func() float64 {
		value := values[index%len(values)]
		index++
		return value
	}
}
