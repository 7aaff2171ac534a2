package agents

import (
	"context"

	"chase/engine"
	"chase/game"

	"golang.org/x/exp/rand"
)

// Random picks any legal move.
type Random struct {
	Index int
	rng   *rand.Rand
}

func newRandom(index int, _ Args, rng *rand.Rand) (engine.Agent, error) {
	return &Random{Index: index, rng: rng}, nil
}

func (a *Random) GetAction(_ context.Context, state *game.GameState) (game.Direction, error) {
	return choose(state.LegalMoves(a.Index), a.rng), nil
}

// Stop never moves.
type Stop struct{}

func newStop(int, Args, *rand.Rand) (engine.Agent, error) {
	return Stop{}, nil
}

func (Stop) GetAction(context.Context, *game.GameState) (game.Direction, error) {
	return game.Stop, nil
}

// LeftTurn follows the left-hand wall: left if it can, otherwise straight, right or back.
type LeftTurn struct {
	Index int
}

func newLeftTurn(index int, _ Args, _ *rand.Rand) (engine.Agent, error) {
	return &LeftTurn{Index: index}, nil
}

func (a *LeftTurn) GetAction(_ context.Context, state *game.GameState) (game.Direction, error) {
	legal := state.LegalMoves(a.Index)
	current := state.Placement(a.Index).Direction()
	if current == game.Stop {
		current = game.North
	}
	for _, d := range []game.Direction{current.Left(), current, current.Right(), current.Reverse()} {
		if contains(legal, d) {
			return d, nil
		}
	}
	return game.Stop, nil
}

// Greedy takes the move with the best immediate score, breaking ties at random. It never
// stops.
type Greedy struct {
	Index int
	rng   *rand.Rand
}

func newGreedy(index int, _ Args, rng *rand.Rand) (engine.Agent, error) {
	return &Greedy{Index: index, rng: rng}, nil
}

func (a *Greedy) GetAction(_ context.Context, state *game.GameState) (game.Direction, error) {
	var best []game.Direction
	bestScore := 0
	for _, move := range state.LegalMoves(a.Index) {
		if move == game.Stop {
			continue
		}
		next, err := state.Successor(a.Index, move)
		if err != nil {
			return "", err
		}
		switch score := next.Score(); {
		case len(best) == 0 || score > bestScore:
			best = []game.Direction{move}
			bestScore = score
		case score == bestScore:
			best = append(best, move)
		}
	}
	if len(best) == 0 {
		return game.Stop, nil
	}
	return choose(best, a.rng), nil
}

func choose(moves []game.Direction, rng *rand.Rand) game.Direction {
	if len(moves) == 0 {
		return game.Stop
	}
	return moves[rng.Intn(len(moves))]
}

func contains(moves []game.Direction, d game.Direction) bool {
	for _, m := range moves {
		if m == d {
			return true
		}
	}
	return false
}
