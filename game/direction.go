package game

// Direction is a move an agent can take on its turn.
type Direction string

const (
	North Direction = "North"
	South Direction = "South"
	East  Direction = "East"
	West  Direction = "West"
	Stop  Direction = "Stop"
)

// Directions lists every move in the order legal moves are reported.
var Directions = []Direction{North, South, East, West, Stop}

// Maximum distance from a grid cell that still counts as standing on it.
const offGridTolerance = 0.001

var vectors = map[Direction]Vector{
	North: {DX: 0, DY: 1},
	South: {DX: 0, DY: -1},
	East:  {DX: 1, DY: 0},
	West:  {DX: -1, DY: 0},
	Stop:  {DX: 0, DY: 0},
}

var reverse = map[Direction]Direction{
	North: South,
	South: North,
	East:  West,
	West:  East,
	Stop:  Stop,
}

var left = map[Direction]Direction{
	North: West,
	South: East,
	East:  North,
	West:  South,
	Stop:  Stop,
}

var right = map[Direction]Direction{
	North: East,
	South: West,
	East:  South,
	West:  North,
	Stop:  Stop,
}

// IsValid reports whether d is one of the five known directions.
func (d Direction) IsValid() bool {
	_, ok := vectors[d]
	return ok
}

// Reverse returns the opposite cardinal direction. Stop stays Stop.
func (d Direction) Reverse() Direction {
	if r, ok := reverse[d]; ok {
		return r
	}
	return d
}

// Left returns the direction after a quarter turn counter-clockwise.
func (d Direction) Left() Direction {
	if l, ok := left[d]; ok {
		return l
	}
	return d
}

// Right returns the direction after a quarter turn clockwise.
func (d Direction) Right() Direction {
	if r, ok := right[d]; ok {
		return r
	}
	return d
}

// ToVector scales the unit displacement of d by speed.
func (d Direction) ToVector(speed float64) Vector {
	v := vectors[d]
	return Vector{DX: v.DX * speed, DY: v.DY * speed}
}

// VectorToDirection classifies a displacement by the sign of its components.
func VectorToDirection(v Vector) Direction {
	switch {
	case v.DY > 0:
		return North
	case v.DY < 0:
		return South
	case v.DX < 0:
		return West
	case v.DX > 0:
		return East
	default:
		return Stop
	}
}

// PossibleMoves returns the moves that keep an agent with configuration conf out of walls.
// An agent between grid cells can only keep going the way it faces.
func PossibleMoves(conf Configuration, walls *Grid) []Direction {
	x, y := conf.Pos.X, conf.Pos.Y
	cell := conf.Pos.Nearest()
	if abs64(x-float64(cell.X))+abs64(y-float64(cell.Y)) > offGridTolerance {
		return []Direction{conf.Dir}
	}

	possible := make([]Direction, 0, len(Directions))
	for _, dir := range Directions {
		v := vectors[dir]
		next := Point{X: cell.X + int(v.DX), Y: cell.Y + int(v.DY)}
		if !blocked(walls, next) {
			possible = append(possible, dir)
		}
	}
	return possible
}

// LegalNeighbors returns the open cells reachable in one step from p, p included.
func LegalNeighbors(p Position, walls *Grid) []Point {
	cell := p.Nearest()
	neighbors := make([]Point, 0, len(Directions))
	for _, dir := range Directions {
		v := vectors[dir]
		next := Point{X: cell.X + int(v.DX), Y: cell.Y + int(v.DY)}
		if !blocked(walls, next) {
			neighbors = append(neighbors, next)
		}
	}
	return neighbors
}

// Successor returns the position reached by one unit step in direction d.
func Successor(p Position, d Direction) Position {
	return p.Add(d.ToVector(1))
}

// Cells outside the board count as walls.
func blocked(walls *Grid, p Point) bool {
	return !walls.Contains(p) || walls.At(p)
}

func abs64(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
