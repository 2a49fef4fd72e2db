// Package rules implements the snake rules as pure functions over
// types.GameState. Nothing in this package holds state between calls;
// every function returns a new snapshot and leaves its inputs untouched.
package rules

import (
	"github.com/cbodonnell/snake/pkg/game/constants"
	"github.com/cbodonnell/snake/pkg/game/types"
)

// Initialize returns the starting state for a grid of the given size.
// The snake is placed horizontally with its head on the center cell, facing right.
// Grids too small to hold the snake are not guarded against here.
func Initialize(gridSize int, rng RandomSource) types.GameState {
	center := gridSize / 2
	snake := make([]types.Point, 0, constants.InitialSnakeLength)
	for i := 0; i < constants.InitialSnakeLength; i++ {
		snake = append(snake, types.Point{X: center - i, Y: center})
	}

	return types.GameState{
		GridSize:      gridSize,
		Snake:         snake,
		Direction:     types.DirectionRight,
		NextDirection: types.DirectionRight,
		Food:          PlaceFood(gridSize, snake, rng),
		Score:         0,
		IsGameOver:    false,
		IsPaused:      false,
	}
}

// AdvanceTick moves the snake one cell in its pending direction.
//
// A paused or finished game is returned as is. Hitting a wall or any cell of
// the current snake, including the tail that would vacate this tick, ends the
// game without moving. Eating food grows the snake by one and re-places the
// food; rng is only consulted in that case.
func AdvanceTick(state types.GameState, rng RandomSource) types.GameState {
	if state.IsGameOver || state.IsPaused {
		return state
	}

	direction := state.NextDirection
	nextHead := state.Head().Add(direction.Delta())

	if !state.InBounds(nextHead) || occupancy(state.Snake).contains(nextHead) {
		next := state.Clone()
		next.Direction = direction
		next.IsGameOver = true
		return next
	}

	nextSnake := make([]types.Point, 0, len(state.Snake)+1)
	nextSnake = append(nextSnake, nextHead)
	nextSnake = append(nextSnake, state.Snake...)

	next := state.Clone()
	next.Direction = direction
	if state.Food != nil && *state.Food == nextHead {
		next.Score++
		next.Food = PlaceFood(state.GridSize, nextSnake, rng)
	} else {
		nextSnake = nextSnake[:len(nextSnake)-1]
	}
	next.Snake = nextSnake

	return next
}

// SetPendingDirection queues d for the next tick.
// Reversing onto the current direction is ignored.
func SetPendingDirection(state types.GameState, d types.Direction) types.GameState {
	if d.Opposite() == state.Direction {
		return state
	}
	next := state.Clone()
	next.NextDirection = d
	return next
}

// SetPaused suspends or resumes ticking.
func SetPaused(state types.GameState, paused bool) types.GameState {
	next := state.Clone()
	next.IsPaused = paused
	return next
}

// TickResult summarizes what a tick did.
type TickResult struct {
	Moved    bool
	AteFood  bool
	GameOver bool
}

// DescribeTick compares the states before and after AdvanceTick.
func DescribeTick(before, after types.GameState) TickResult {
	if after.IsGameOver {
		return TickResult{GameOver: true}
	}
	if before.IsPaused || len(after.Snake) == 0 || len(before.Snake) == 0 {
		return TickResult{}
	}
	moved := after.Head() != before.Head()
	return TickResult{
		Moved:   moved,
		AteFood: moved && after.Score > before.Score,
	}
}
