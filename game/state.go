package game

import (
	"encoding/binary"
	"fmt"
	"hash/fnv"
	"math"
	"strings"
)

// GameState is a snapshot of a game between two moves. States are never modified once
// returned: every move produces a new state through Successor.
type GameState struct {
	board       *Board // Shared, never modified
	rules       Rules  // Shared, never modified
	food        *Grid  // Shared with the predecessor until a collectible is eaten
	capsules    []Point
	agents      []Placement
	score       int
	scoreChange int
	win         bool
	lose        bool

	// Bookkeeping about the move that produced this state
	foodEaten    *Point
	capsuleEaten *Point
	agentMoved   int // -1 for an initial state
	captured     []bool
}

// NewGameState creates the initial state of a game on board. At most maxPursuers of the
// board's pursuer starts receive a placement; a negative value keeps all of them.
func NewGameState(board *Board, rules Rules, maxPursuers int) *GameState {
	capsules := make([]Point, len(board.Capsules))
	copy(capsules, board.Capsules)

	gs := &GameState{
		board:      board,
		rules:      rules,
		food:       board.Food.Copy(),
		capsules:   capsules,
		agents:     []Placement{},
		agentMoved: -1,
	}

	pursuers := 0
	for _, start := range board.Starts {
		if start.Role == Pursuer {
			if maxPursuers >= 0 && pursuers == maxPursuers {
				continue
			}
			pursuers++
		}
		gs.agents = append(gs.agents, NewPlacement(start.Role, start.Pos))
	}
	gs.captured = make([]bool, len(gs.agents))
	return gs
}

// copy returns a successor skeleton: placements and capsules are copied, the food grid
// and board are shared, and per-move bookkeeping is cleared.
func (gs *GameState) copy() *GameState {
	agents := make([]Placement, len(gs.agents))
	copy(agents, gs.agents)
	capsules := make([]Point, len(gs.capsules))
	copy(capsules, gs.capsules)
	captured := make([]bool, len(gs.captured))
	copy(captured, gs.captured)

	return &GameState{
		board:      gs.board,
		rules:      gs.rules,
		food:       gs.food,
		capsules:   capsules,
		agents:     agents,
		score:      gs.score,
		agentMoved: -1,
		captured:   captured,
	}
}

func (gs *GameState) Board() *Board {
	return gs.board
}

func (gs *GameState) Rules() Rules {
	return gs.rules
}

func (gs *GameState) NumAgents() int {
	return len(gs.agents)
}

// Placement returns a copy of agent i's placement.
func (gs *GameState) Placement(i int) Placement {
	return gs.agents[i]
}

// PrimaryIndex returns the index of the primary agent, -1 if there is none.
func (gs *GameState) PrimaryIndex() int {
	for i, a := range gs.agents {
		if a.Role == Primary {
			return i
		}
	}
	return -1
}

func (gs *GameState) PrimaryPosition() Position {
	return gs.agents[gs.PrimaryIndex()].Conf.Pos
}

// Food returns the remaining collectibles. The grid must not be modified.
func (gs *GameState) Food() *Grid {
	return gs.food
}

func (gs *GameState) Capsules() []Point {
	capsules := make([]Point, len(gs.capsules))
	copy(capsules, gs.capsules)
	return capsules
}

// NumFood counts the remaining collectibles by scanning the grid.
func (gs *GameState) NumFood() int {
	return gs.food.Count(true)
}

func (gs *GameState) Score() int {
	return gs.score
}

// ScoreChange is the score delta applied by the move that produced this state.
func (gs *GameState) ScoreChange() int {
	return gs.scoreChange
}

func (gs *GameState) IsWin() bool {
	return gs.win
}

func (gs *GameState) IsLose() bool {
	return gs.lose
}

func (gs *GameState) IsTerminal() bool {
	return gs.win || gs.lose
}

// FoodEaten returns the cell whose collectible was eaten by the last move.
func (gs *GameState) FoodEaten() (Point, bool) {
	if gs.foodEaten == nil {
		return Point{}, false
	}
	return *gs.foodEaten, true
}

// CapsuleEaten returns the cell whose bonus item was eaten by the last move.
func (gs *GameState) CapsuleEaten() (Point, bool) {
	if gs.capsuleEaten == nil {
		return Point{}, false
	}
	return *gs.capsuleEaten, true
}

// AgentMoved is the agent whose move produced this state, -1 for an initial state.
func (gs *GameState) AgentMoved() int {
	return gs.agentMoved
}

// Captured reports whether pursuer i was captured since the primary agent last moved.
func (gs *GameState) Captured(i int) bool {
	return gs.captured[i]
}

// Equal compares placements, collectibles and score.
func (gs *GameState) Equal(other *GameState) bool {
	if other == nil || len(gs.agents) != len(other.agents) || len(gs.capsules) != len(other.capsules) {
		return false
	}
	for i := range gs.agents {
		if !gs.agents[i].Equal(other.agents[i]) {
			return false
		}
	}
	for i := range gs.capsules {
		if gs.capsules[i] != other.capsules[i] {
			return false
		}
	}
	return gs.score == other.score && gs.food.Equal(other.food)
}

func (gs *GameState) Hash() StateHash {
	hasher := fnv.New64a()

	// Hash placements
	for _, a := range gs.agents {
		binary.Write(hasher, binary.LittleEndian, math.Float64bits(a.Conf.Pos.X))
		binary.Write(hasher, binary.LittleEndian, math.Float64bits(a.Conf.Pos.Y))
		hasher.Write([]byte(a.Conf.Dir))
		binary.Write(hasher, binary.LittleEndian, int64(a.ScaredTimer))
	}

	// Hash collectibles
	binary.Write(hasher, binary.LittleEndian, gs.food.Hash())
	for _, c := range gs.capsules {
		binary.Write(hasher, binary.LittleEndian, int64(c.X))
		binary.Write(hasher, binary.LittleEndian, int64(c.Y))
	}

	binary.Write(hasher, binary.LittleEndian, int64(gs.score))

	return StateHash(hasher.Sum64())
}

// String draws the board top row first followed by the score.
func (gs *GameState) String() string {
	width, height := gs.board.Width, gs.board.Height
	cells := make([][]byte, width)
	for x := range cells {
		cells[x] = make([]byte, height)
		for y := range cells[x] {
			switch {
			case gs.food.Get(x, y):
				cells[x][y] = '.'
			case gs.board.Walls.Get(x, y):
				cells[x][y] = '%'
			default:
				cells[x][y] = ' '
			}
		}
	}

	for _, a := range gs.agents {
		p := a.Conf.Pos.Nearest()
		if !gs.food.Contains(p) {
			continue
		}
		if a.Role == Primary {
			cells[p.X][p.Y] = primaryGlyph(a.Conf.Dir)
		} else {
			cells[p.X][p.Y] = 'G'
		}
	}

	for _, c := range gs.capsules {
		cells[c.X][c.Y] = 'o'
	}

	var b strings.Builder
	for y := height - 1; y >= 0; y-- {
		for x := 0; x < width; x++ {
			b.WriteByte(cells[x][y])
		}
		b.WriteByte('\n')
	}
	fmt.Fprintf(&b, "Score: %d\n", gs.score)
	return b.String()
}

// The primary agent is drawn as a mouth opening against its heading.
func primaryGlyph(dir Direction) byte {
	switch dir {
	case North:
		return 'v'
	case South:
		return '^'
	case West:
		return '>'
	default:
		return '<'
	}
}
