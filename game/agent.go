package game

import "fmt"

// Role selects which rules apply to an agent.
type Role int

const (
	Primary Role = iota
	Pursuer
)

func (r Role) String() string {
	switch r {
	case Primary:
		return "primary"
	case Pursuer:
		return "pursuer"
	default:
		return fmt.Sprintf("role(%d)", int(r))
	}
}

// Configuration is where an agent stands and which way it faces.
type Configuration struct {
	Pos Position
	Dir Direction
}

// Next applies a displacement. Standing still keeps the current facing.
func (c Configuration) Next(v Vector) Configuration {
	dir := VectorToDirection(v)
	if dir == Stop {
		dir = c.Dir
	}
	return Configuration{Pos: c.Pos.Add(v), Dir: dir}
}

func (c Configuration) String() string {
	return fmt.Sprintf("(x,y)=%v, %s", c.Pos, c.Dir)
}

// Placement is the per-agent part of a game state. It is a value type: copying it copies
// everything, so successors never share placements.
type Placement struct {
	Role        Role
	Start       Configuration // home, restored on capture
	Conf        Configuration
	ScaredTimer int // >0 while a pursuer is vulnerable
}

// NewPlacement places an agent at its start facing Stop.
func NewPlacement(role Role, start Point) Placement {
	conf := Configuration{Pos: At(start), Dir: Stop}
	return Placement{Role: role, Start: conf, Conf: conf}
}

func (p Placement) Position() Position {
	return p.Conf.Pos
}

func (p Placement) Direction() Direction {
	return p.Conf.Dir
}

func (p Placement) IsScared() bool {
	return p.ScaredTimer > 0
}

// Equal ignores the start configuration.
func (p Placement) Equal(other Placement) bool {
	return p.Role == other.Role && p.Conf == other.Conf && p.ScaredTimer == other.ScaredTimer
}

func (p Placement) String() string {
	if p.Role == Primary {
		return fmt.Sprintf("Primary: %v", p.Conf)
	}
	return fmt.Sprintf("Pursuer: %v", p.Conf)
}
