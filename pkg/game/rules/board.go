package rules

import (
	"strings"

	"github.com/cbodonnell/snake/pkg/game/types"
)

const (
	boardEmpty = '.'
	boardFood  = 'F'
	boardHead  = 'H'
	boardBody  = 'S'
)

// Render draws the state as text, one line per grid row.
func Render(state types.GameState) string {
	if state.GridSize <= 0 {
		return ""
	}
	grid := make([][]byte, state.GridSize)
	for y := range grid {
		grid[y] = []byte(strings.Repeat(string(boardEmpty), state.GridSize))
	}

	if state.Food != nil && state.InBounds(*state.Food) {
		grid[state.Food.Y][state.Food.X] = boardFood
	}
	for i, segment := range state.Snake {
		if !state.InBounds(segment) {
			continue
		}
		if i == 0 {
			grid[segment.Y][segment.X] = boardHead
		} else {
			grid[segment.Y][segment.X] = boardBody
		}
	}

	var b strings.Builder
	for _, row := range grid {
		b.Write(row)
		b.WriteByte('\n')
	}
	return b.String()
}
