package rules

import (
	"testing"

	"github.com/cbodonnell/snake/pkg/game/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFreeCells(t *testing.T) {
	free := FreeCells(3, []types.Point{pt(1, 0), pt(0, 1), pt(2, 2)})
	assert.Equal(t, []types.Point{pt(0, 0), pt(2, 0), pt(1, 1), pt(2, 1), pt(0, 2), pt(1, 2)}, free)
}

func TestPlaceFood(t *testing.T) {
	occupied := []types.Point{pt(0, 0), pt(1, 1)}
	tests := []struct {
		name  string
		value float64
		want  types.Point
	}{
		{name: "first free cell", value: 0, want: pt(1, 0)},
		{name: "middle of the free list", value: 0.5, want: pt(2, 1)},
		{name: "last free cell", value: 0.99, want: pt(2, 2)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for i := 0; i < 3; i++ {
				got := PlaceFood(3, occupied, NewSequenceRandomSource(tt.value))
				require.NotNil(t, got)
				assert.Equal(t, tt.want, *got)
			}
		})
	}
}

func TestPlaceFood_singleDraw(t *testing.T) {
	counter := newCountingSource(NewSequenceRandomSource(0.3))
	PlaceFood(4, nil, counter.Next)
	assert.Equal(t, 1, counter.Draws())
}

func TestPlaceFood_fullBoard(t *testing.T) {
	counter := newCountingSource(NewSequenceRandomSource(0))
	food := PlaceFood(2, []types.Point{pt(0, 0), pt(1, 0), pt(0, 1), pt(1, 1)}, counter.Next)
	assert.Nil(t, food)
	assert.Equal(t, 0, counter.Draws())
}

func TestPlaceFood_sourceReturningOne(t *testing.T) {
	food := PlaceFood(2, nil, NewSequenceRandomSource(1))
	require.NotNil(t, food)
	assert.Equal(t, pt(1, 1), *food)
}

func TestNewSequenceRandomSource(t *testing.T) {
	rng := NewSequenceRandomSource(0.1, 0.2)
	assert.Equal(t, []float64{0.1, 0.2, 0.1}, []float64{rng(), rng(), rng()})
}

func TestNewRandomSource(t *testing.T) {
	a := NewRandomSource(7)
	b := NewRandomSource(7)
	for i := 0; i < 10; i++ {
		value := a()
		assert.Equal(t, value, b())
		assert.GreaterOrEqual(t, value, 0.0)
		assert.Less(t, value, 1.0)
	}
}

func TestRender(t *testing.T) {
	state := types.GameState{
		GridSize: 4,
		Snake:    []types.Point{pt(2, 1), pt(1, 1), pt(1, 2)},
		Food:     ptr(pt(3, 3)),
	}
	want := "" +
		"....\n" +
		".SH.\n" +
		".S..\n" +
		"...F\n"
	assert.Equal(t, want, Render(state))
}

func TestRender_skipsCellsOffTheGrid(t *testing.T) {
	// a grid of one cannot hold the starting snake
	state := Initialize(1, NewSequenceRandomSource(0))
	assert.Equal(t, "H\n", Render(state))
	assert.Nil(t, state.Food)
}
