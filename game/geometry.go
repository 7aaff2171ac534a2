package game

import (
	"fmt"
	"math"
)

// Point is an integer grid cell.
type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

func (p Point) String() string {
	return fmt.Sprintf("(%d, %d)", p.X, p.Y)
}

// Position is a continuous board coordinate. Agents can sit between cells while moving
// at fractional speeds.
type Position struct {
	X float64
	Y float64
}

func (p Position) String() string {
	return fmt.Sprintf("(%g, %g)", p.X, p.Y)
}

// At returns the position of a grid cell.
func At(p Point) Position {
	return Position{X: float64(p.X), Y: float64(p.Y)}
}

// Add translates the position by a displacement vector.
func (p Position) Add(v Vector) Position {
	return Position{X: p.X + v.DX, Y: p.Y + v.DY}
}

// Nearest rounds the position to the closest grid cell, halves rounding up.
func (p Position) Nearest() Point {
	return Point{X: int(math.Floor(p.X + 0.5)), Y: int(math.Floor(p.Y + 0.5))}
}

// Vector is a displacement applied by a move.
type Vector struct {
	DX float64
	DY float64
}

func Manhattan(a, b Position) float64 {
	return math.Abs(a.X-b.X) + math.Abs(a.Y-b.Y)
}

func ManhattanPoints(a, b Point) int {
	return abs(a.X-b.X) + abs(a.Y-b.Y)
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
