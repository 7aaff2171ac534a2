package game

import (
	"encoding/binary"
	"hash/fnv"
)

// Turn pairs a game state with the agent about to move. Agents act round-robin, so Play
// hands the turn to the next agent index.
type Turn struct {
	State *GameState
	Agent int
}

func NewTurn(state *GameState, agent int) *Turn {
	return &Turn{State: state, Agent: agent}
}

// Player is the role name of the agent to move. Pursuers share a side.
func (t *Turn) Player() string {
	return t.State.agents[t.Agent].Role.String()
}

func (t *Turn) LegalMoves() []Direction {
	return t.State.LegalMoves(t.Agent)
}

// Play panics on an illegal move.
func (t *Turn) Play(move Direction) State {
	next, err := t.State.Successor(t.Agent, move)
	if err != nil {
		panic(err)
	}
	return &Turn{State: next, Agent: (t.Agent + 1) % next.NumAgents()}
}

func (t *Turn) Hash() StateHash {
	hasher := fnv.New64a()
	binary.Write(hasher, binary.LittleEndian, uint64(t.State.Hash()))
	binary.Write(hasher, binary.LittleEndian, int64(t.Agent))
	return StateHash(hasher.Sum64())
}

// Winner is the winning role name, "" while the game is running.
func (t *Turn) Winner() string {
	switch {
	case t.State.IsWin():
		return Primary.String()
	case t.State.IsLose():
		return Pursuer.String()
	default:
		return ""
	}
}
