package gamemaster

import (
	"errors"
	"fmt"
	"sync"

	"chase/engine"
	"chase/game"
)

var (
	ErrGameOver    = errors.New("game is over - no moves allowed")
	ErrNotYourTurn = errors.New("not this agent's turn")
)

// UpdateGetter returns the oldest unread move and the state it produced. ok is false when
// there is nothing new.
type UpdateGetter func() (step engine.Step, state *game.GameState, ok bool)

// Engine referees a game whose moves arrive one at a time.
type Engine interface {
	Init() (*game.GameState, UpdateGetter)
	Play(agent int, move game.Direction) error
	Next() int
}

type update struct {
	step  engine.Step
	state *game.GameState
}

type localEngine struct {
	sync.Mutex
	initial       *game.GameState
	startingIndex int
	state         *game.GameState
	next          int
	updates       []update
	gameOver      bool
}

// NewLocalEngine referees games starting from initial, with startingIndex moving first.
func NewLocalEngine(initial *game.GameState, startingIndex int) *localEngine {
	if startingIndex < 0 || startingIndex >= initial.NumAgents() {
		panic("starting index out of range")
	}
	return &localEngine{initial: initial, startingIndex: startingIndex}
}

// Init starts a new game and returns its initial state and a getter for the moves played.
func (e *localEngine) Init() (*game.GameState, UpdateGetter) {
	e.Lock()
	defer e.Unlock()

	e.state = e.initial
	e.next = e.startingIndex
	e.updates = nil
	e.gameOver = e.state.IsTerminal()

	return e.state, func() (engine.Step, *game.GameState, bool) {
		e.Lock()
		defer e.Unlock()

		if len(e.updates) == 0 {
			return engine.Step{}, nil, false
		}
		u := e.updates[0]
		e.updates = e.updates[1:]
		return u.step, u.state, true
	}
}

// Next is the agent expected to move.
func (e *localEngine) Next() int {
	e.Lock()
	defer e.Unlock()
	return e.next
}

// Play applies a move by agent. Moves must come in turn order and be legal.
func (e *localEngine) Play(agent int, move game.Direction) error {
	e.Lock()
	defer e.Unlock()

	if e.state == nil {
		return errors.New("game has not been initialised")
	}
	if e.gameOver {
		return ErrGameOver
	}
	if agent != e.next {
		return fmt.Errorf("%w: agent %d moved, agent %d expected", ErrNotYourTurn, agent, e.next)
	}

	next, err := e.state.Successor(agent, move)
	if err != nil {
		return err
	}
	e.state = next
	e.next = (agent + 1) % next.NumAgents()
	e.gameOver = next.IsTerminal()
	e.updates = append(e.updates, update{step: engine.Step{Agent: agent, Move: move}, state: next})
	return nil
}
