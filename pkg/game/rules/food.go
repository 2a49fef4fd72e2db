package rules

import "github.com/cbodonnell/snake/pkg/game/types"

type cellSet map[types.Point]struct{}

func occupancy(cells []types.Point) cellSet {
	set := make(cellSet, len(cells))
	for _, c := range cells {
		set[c] = struct{}{}
	}
	return set
}

func (s cellSet) contains(p types.Point) bool {
	_, ok := s[p]
	return ok
}

// FreeCells lists the cells not in occupied in row-major order (y outer, x inner).
func FreeCells(gridSize int, occupied []types.Point) []types.Point {
	set := occupancy(occupied)
	free := make([]types.Point, 0, gridSize*gridSize)
	for y := 0; y < gridSize; y++ {
		for x := 0; x < gridSize; x++ {
			p := types.Point{X: x, Y: y}
			if !set.contains(p) {
				free = append(free, p)
			}
		}
	}
	return free
}

// PlaceFood picks a free cell with a single draw from rng.
// It returns nil when the grid is full, in which case rng is not called.
func PlaceFood(gridSize int, occupied []types.Point, rng RandomSource) *types.Point {
	free := FreeCells(gridSize, occupied)
	if len(free) == 0 {
		return nil
	}
	index := int(rng() * float64(len(free)))
	// guard against sources returning exactly 1.0
	if index >= len(free) {
		index = len(free) - 1
	}
	food := free[index]
	return &food
}
