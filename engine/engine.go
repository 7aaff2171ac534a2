package engine

import (
	"context"
	"fmt"

	"chase/experiments/metrics"
	"chase/game"
)

// Agent chooses a move for one agent index given the full game state.
type Agent interface {
	GetAction(ctx context.Context, state *game.GameState) (game.Direction, error)
}

// InitialObserver is implemented by agents that inspect the initial state before play.
type InitialObserver interface {
	RegisterInitialState(ctx context.Context, state *game.GameState) error
}

// Observer is implemented by agents that transform the state before choosing a move.
// The returned state is passed to GetAction.
type Observer interface {
	Observe(ctx context.Context, state *game.GameState) (*game.GameState, error)
}

// FinalObserver is implemented by agents that want to see the final state.
type FinalObserver interface {
	Final(ctx context.Context, state *game.GameState) error
}

// SearchReporter is implemented by agents that can describe their last search.
type SearchReporter interface {
	LastSearch() metrics.SearchMetric
}

// Display renders a game. Initialize is called once, Update after every move and Finish
// once the game is over.
type Display interface {
	Initialize(state *game.GameState)
	Update(state *game.GameState)
	Finish()
}

type nullDisplay struct{}

func (nullDisplay) Initialize(*game.GameState) {}
func (nullDisplay) Update(*game.GameState)     {}
func (nullDisplay) Finish()                    {}

// Status is the phase of a game's control loop.
type Status int

const (
	Setup Status = iota
	Running
	Won
	Lost
	Crashed
)

func (s Status) String() string {
	switch s {
	case Setup:
		return "setup"
	case Running:
		return "running"
	case Won:
		return "won"
	case Lost:
		return "lost"
	case Crashed:
		return "crashed"
	default:
		return fmt.Sprintf("status(%d)", int(s))
	}
}

// IsOver reports whether s is absorbing.
func (s Status) IsOver() bool {
	return s == Won || s == Lost || s == Crashed
}

// Step is one entry of a game's move history.
type Step struct {
	Agent int            `json:"agent"`
	Move  game.Direction `json:"move"`
}

// Result summarises a finished game. Score is taken from the last successful transition.
type Result struct {
	Status      Status
	Score       int
	Moves       int
	Crash       *AgentError
	Game        metrics.GameMetric
	MoveMetrics []metrics.MoveMetric
}
