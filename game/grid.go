package game

import (
	"fmt"
	"strings"
)

// CellsPerInt is the number of cells packed into each integer of a grid encoding.
const CellsPerInt = 30

// Modulus of the grid hash, the Mersenne prime 2^61 - 1.
const hashModulus = (1 << 61) - 1

// Grid is a fixed-size boolean matrix indexed by (x, y) with (0, 0) at the bottom left.
// Indexing outside the bounds panics; callers check Contains first.
type Grid struct {
	width  int
	height int
	cells  [][]bool // cells[x][y]
}

// NewGrid creates a width x height grid with every cell unset.
func NewGrid(width, height int) *Grid {
	cells := make([][]bool, width)
	for x := range cells {
		cells[x] = make([]bool, height)
	}
	return &Grid{width: width, height: height, cells: cells}
}

func (g *Grid) Width() int  { return g.width }
func (g *Grid) Height() int { return g.height }

func (g *Grid) Get(x, y int) bool {
	return g.cells[x][y]
}

func (g *Grid) Set(x, y int, value bool) {
	g.cells[x][y] = value
}

// At reads the cell at p.
func (g *Grid) At(p Point) bool {
	return g.cells[p.X][p.Y]
}

// Contains reports whether p lies inside the grid.
func (g *Grid) Contains(p Point) bool {
	return p.X >= 0 && p.X < g.width && p.Y >= 0 && p.Y < g.height
}

// Equal compares dimensions and cell contents.
func (g *Grid) Equal(other *Grid) bool {
	if other == nil || g.width != other.width || g.height != other.height {
		return false
	}
	for x := range g.cells {
		for y := range g.cells[x] {
			if g.cells[x][y] != other.cells[x][y] {
				return false
			}
		}
	}
	return true
}

// Hash sums 2^k over set cells, k counting cells column by column. Grids with equal
// contents always hash equally.
func (g *Grid) Hash() uint64 {
	var h, base uint64 = 0, 1
	for x := range g.cells {
		for y := range g.cells[x] {
			if g.cells[x][y] {
				h = (h + base) % hashModulus
			}
			base = (base * 2) % hashModulus
		}
	}
	return h
}

// Copy returns an independent grid with the same contents.
func (g *Grid) Copy() *Grid {
	c := NewGrid(g.width, g.height)
	for x := range g.cells {
		copy(c.cells[x], g.cells[x])
	}
	return c
}

// Count returns the number of cells equal to value.
func (g *Grid) Count(value bool) int {
	n := 0
	for x := range g.cells {
		for y := range g.cells[x] {
			if g.cells[x][y] == value {
				n++
			}
		}
	}
	return n
}

// AsList returns the set cells in column order.
func (g *Grid) AsList() []Point {
	points := []Point{}
	for x := range g.cells {
		for y := range g.cells[x] {
			if g.cells[x][y] {
				points = append(points, Point{X: x, Y: y})
			}
		}
	}
	return points
}

// PackBits encodes the grid as width, height and groups of CellsPerInt cells, most
// significant bit first. A trailing group is always written.
func (g *Grid) PackBits() []int {
	bits := []int{g.width, g.height}
	current := 0
	for i := 0; i < g.width*g.height; i++ {
		bit := CellsPerInt - (i % CellsPerInt) - 1
		p := g.cellIndexToPoint(i)
		if g.At(p) {
			current |= 1 << bit
		}
		if (i+1)%CellsPerInt == 0 {
			bits = append(bits, current)
			current = 0
		}
	}
	return append(bits, current)
}

// UnpackBits rebuilds a grid from the output of PackBits.
func UnpackBits(bits []int) (*Grid, error) {
	if len(bits) < 2 {
		return nil, fmt.Errorf("packed grid needs width and height, got %d values", len(bits))
	}
	width, height := bits[0], bits[1]
	if width < 0 || height < 0 {
		return nil, fmt.Errorf("packed grid has negative dimensions %dx%d", width, height)
	}
	g := NewGrid(width, height)
	size := width * height
	if need := size/CellsPerInt + 1; len(bits)-2 < need {
		return nil, fmt.Errorf("packed grid %dx%d needs %d groups, got %d", width, height, need, len(bits)-2)
	}

	cell := 0
	for _, packed := range bits[2:] {
		for bit := CellsPerInt - 1; bit >= 0 && cell < size; bit-- {
			p := g.cellIndexToPoint(cell)
			g.Set(p.X, p.Y, packed&(1<<bit) != 0)
			cell++
		}
	}
	return g, nil
}

func (g *Grid) cellIndexToPoint(i int) Point {
	return Point{X: i / g.height, Y: i % g.height}
}

// String renders the grid top row first, T for set cells and F otherwise.
func (g *Grid) String() string {
	rows := make([]string, 0, g.height)
	for y := g.height - 1; y >= 0; y-- {
		var b strings.Builder
		for x := 0; x < g.width; x++ {
			if g.cells[x][y] {
				b.WriteByte('T')
			} else {
				b.WriteByte('F')
			}
		}
		rows = append(rows, b.String())
	}
	return strings.Join(rows, "\n")
}
