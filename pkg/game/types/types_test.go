package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDirection(t *testing.T) {
	tests := []struct {
		direction Direction
		delta     Point
		opposite  Direction
	}{
		{direction: DirectionUp, delta: Point{X: 0, Y: -1}, opposite: DirectionDown},
		{direction: DirectionDown, delta: Point{X: 0, Y: 1}, opposite: DirectionUp},
		{direction: DirectionLeft, delta: Point{X: -1, Y: 0}, opposite: DirectionRight},
		{direction: DirectionRight, delta: Point{X: 1, Y: 0}, opposite: DirectionLeft},
	}
	for _, tt := range tests {
		t.Run(string(tt.direction), func(t *testing.T) {
			assert.Equal(t, tt.delta, tt.direction.Delta())
			assert.Equal(t, tt.opposite, tt.direction.Opposite())

			parsed, err := ParseDirection(string(tt.direction))
			require.NoError(t, err)
			assert.Equal(t, tt.direction, parsed)
		})
	}
}

func TestParseDirection_invalid(t *testing.T) {
	_, err := ParseDirection("sideways")
	assert.Error(t, err)
}

func TestGameState_Clone(t *testing.T) {
	original := GameState{
		GridSize:      5,
		Snake:         []Point{{X: 2, Y: 2}, {X: 1, Y: 2}},
		Direction:     DirectionRight,
		NextDirection: DirectionUp,
		Food:          &Point{X: 4, Y: 4},
		Score:         3,
	}

	clone := original.Clone()
	require.Equal(t, original, clone)

	clone.Snake[0] = Point{X: 0, Y: 0}
	clone.Food.X = 0
	assert.Equal(t, Point{X: 2, Y: 2}, original.Snake[0])
	assert.Equal(t, 4, original.Food.X)
}

func TestGameState_InBounds(t *testing.T) {
	state := GameState{GridSize: 3}
	assert.True(t, state.InBounds(Point{X: 0, Y: 0}))
	assert.True(t, state.InBounds(Point{X: 2, Y: 2}))
	assert.False(t, state.InBounds(Point{X: 3, Y: 1}))
	assert.False(t, state.InBounds(Point{X: 1, Y: -1}))
}
