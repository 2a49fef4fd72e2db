package types

import "fmt"

// Point is a cell coordinate on the grid. (0,0) is the top-left cell.
type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Add returns the sum of two points.
func (p Point) Add(other Point) Point {
	return Point{X: p.X + other.X, Y: p.Y + other.Y}
}

func (p Point) String() string {
	return fmt.Sprintf("(%d,%d)", p.X, p.Y)
}

type Direction string

const (
	DirectionUp    Direction = "up"
	DirectionDown  Direction = "down"
	DirectionLeft  Direction = "left"
	DirectionRight Direction = "right"
)

var directionDeltas = map[Direction]Point{
	DirectionUp:    {X: 0, Y: -1},
	DirectionDown:  {X: 0, Y: 1},
	DirectionLeft:  {X: -1, Y: 0},
	DirectionRight: {X: 1, Y: 0},
}

var directionOpposites = map[Direction]Direction{
	DirectionUp:    DirectionDown,
	DirectionDown:  DirectionUp,
	DirectionLeft:  DirectionRight,
	DirectionRight: DirectionLeft,
}

// Delta returns the unit vector a single step in the direction moves by.
func (d Direction) Delta() Point {
	return directionDeltas[d]
}

// Opposite returns the reverse direction.
func (d Direction) Opposite() Direction {
	return directionOpposites[d]
}

// ParseDirection parses user input into a Direction.
func ParseDirection(s string) (Direction, error) {
	d := Direction(s)
	if _, ok := directionDeltas[d]; !ok {
		return "", fmt.Errorf("unknown direction: %q", s)
	}
	return d, nil
}
