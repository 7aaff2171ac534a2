package game

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"chase/layouts"

	"golang.org/x/exp/rand"
)

// StartPlacement is an agent's role and home cell as declared by the map.
type StartPlacement struct {
	Role Role
	Pos  Point
}

// Board represents the static part of a game: walls, initial collectibles and agent homes.
// It is never modified after construction and is shared by every state of a game.
type Board struct {
	Name        string
	Width       int
	Height      int
	Walls       *Grid
	Food        *Grid            // Initial collectibles
	Capsules    []Point          // Initial bonus items
	Starts      []StartPlacement // Primary first, then pursuers
	NumPursuers int
	text        []string
}

// ParseBoard builds a board from layout rows given top row first.
//
//	% wall   . food   o capsule   P primary   G or 1-4 pursuer
//
// Other characters are open floor.
func ParseBoard(name string, lines []string) (*Board, error) {
	rows := make([]string, 0, len(lines))
	for _, line := range lines {
		if line = strings.TrimSpace(line); line != "" {
			rows = append(rows, line)
		}
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: %q has no rows", ErrMalformedMap, name)
	}

	width, height := len(rows[0]), len(rows)
	for i, row := range rows {
		if len(row) != width {
			return nil, fmt.Errorf("%w: %q row %d has width %d, expected %d", ErrMalformedMap, name, i, len(row), width)
		}
	}

	b := &Board{
		Name:     name,
		Width:    width,
		Height:   height,
		Walls:    NewGrid(width, height),
		Food:     NewGrid(width, height),
		Capsules: []Point{},
		text:     rows,
	}

	type declared struct {
		priority int
		pos      Point
	}
	var agents []declared
	primaries := 0

	maxY := height - 1
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			switch c := rows[maxY-y][x]; c {
			case '%':
				b.Walls.Set(x, y, true)
			case '.':
				b.Food.Set(x, y, true)
			case 'o':
				b.Capsules = append(b.Capsules, Point{X: x, Y: y})
			case 'P':
				agents = append(agents, declared{priority: 0, pos: Point{X: x, Y: y}})
				primaries++
			case 'G':
				agents = append(agents, declared{priority: 1, pos: Point{X: x, Y: y}})
				b.NumPursuers++
			case '1', '2', '3', '4':
				agents = append(agents, declared{priority: int(c - '0'), pos: Point{X: x, Y: y}})
				b.NumPursuers++
			}
		}
	}
	if primaries != 1 {
		return nil, fmt.Errorf("%w: %q declares %d primary starts, expected 1", ErrMalformedMap, name, primaries)
	}

	sort.SliceStable(agents, func(i, j int) bool {
		return agents[i].priority < agents[j].priority
	})
	b.Starts = make([]StartPlacement, len(agents))
	for i, a := range agents {
		role := Pursuer
		if i == 0 {
			role = Primary
		}
		b.Starts[i] = StartPlacement{Role: role, Pos: a.pos}
	}
	return b, nil
}

// LoadBoard finds a layout by name. Each directory in dirs (the working directory when
// empty) is searched for layouts/<name>.lay and <name>.lay, then up to two of its parents.
// The bundled layouts are the last resort.
func LoadBoard(name string, dirs ...string) (*Board, error) {
	if len(dirs) == 0 {
		dirs = []string{"."}
	}
	file := name
	if !strings.HasSuffix(file, ".lay") {
		file += ".lay"
	}
	boardName := strings.TrimSuffix(filepath.Base(file), ".lay")

	for _, dir := range dirs {
		base := dir
		for back := 0; back <= 2; back++ {
			for _, candidate := range []string{filepath.Join(base, "layouts", file), filepath.Join(base, file)} {
				data, err := os.ReadFile(candidate)
				if errors.Is(err, fs.ErrNotExist) {
					continue
				}
				if err != nil {
					return nil, fmt.Errorf("failed to read layout %s: %w", candidate, err)
				}
				return ParseBoard(boardName, splitLines(data))
			}
			base = filepath.Join(base, "..")
		}
	}

	data, err := fs.ReadFile(layouts.FS, filepath.Base(file))
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrMapNotFound, name)
	}
	return ParseBoard(boardName, splitLines(data))
}

func splitLines(data []byte) []string {
	var lines []string
	scanner := bufio.NewScanner(bytes.NewReader(data))
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	return lines
}

// Clone returns an independent copy without re-parsing.
func (b *Board) Clone() *Board {
	starts := make([]StartPlacement, len(b.Starts))
	copy(starts, b.Starts)
	capsules := make([]Point, len(b.Capsules))
	copy(capsules, b.Capsules)
	text := make([]string, len(b.text))
	copy(text, b.text)
	return &Board{
		Name:        b.Name,
		Width:       b.Width,
		Height:      b.Height,
		Walls:       b.Walls.Copy(),
		Food:        b.Food.Copy(),
		Capsules:    capsules,
		Starts:      starts,
		NumPursuers: b.NumPursuers,
		text:        text,
	}
}

// Lines returns the layout rows top row first.
func (b *Board) Lines() []string {
	lines := make([]string, len(b.text))
	copy(lines, b.text)
	return lines
}

func (b *Board) String() string {
	return strings.Join(b.text, "\n")
}

func (b *Board) IsWall(p Point) bool {
	return blocked(b.Walls, p)
}

func (b *Board) corners() []Point {
	return []Point{
		{X: 1, Y: 1},
		{X: 1, Y: b.Height - 2},
		{X: b.Width - 2, Y: 1},
		{X: b.Width - 2, Y: b.Height - 2},
	}
}

// RandomCorner picks one of the four inner corners, skipping walled-in ones unless every
// corner is a wall.
func (b *Board) RandomCorner(rng *rand.Rand) Point {
	corners := b.corners()
	open := make([]Point, 0, len(corners))
	for _, c := range corners {
		if !b.IsWall(c) {
			open = append(open, c)
		}
	}
	if len(open) > 0 {
		corners = open
	}
	return corners[rng.Intn(len(corners))]
}

// FurthestCorner returns the inner corner furthest from p. Ties go to the larger x, then y.
func (b *Board) FurthestCorner(p Point) Point {
	corners := b.corners()
	best, bestDist := corners[0], ManhattanPoints(corners[0], p)
	for _, c := range corners[1:] {
		d := ManhattanPoints(c, p)
		if d > bestDist || (d == bestDist && (c.X > best.X || (c.X == best.X && c.Y > best.Y))) {
			best, bestDist = c, d
		}
	}
	return best
}
