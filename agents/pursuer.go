package agents

import (
	"context"

	"chase/engine"
	"chase/game"

	"golang.org/x/exp/rand"
)

// RandomPursuer picks any legal move.
type RandomPursuer struct {
	Random
}

func newRandomPursuer(index int, _ Args, rng *rand.Rand) (engine.Agent, error) {
	return &RandomPursuer{Random{Index: index, rng: rng}}, nil
}

// Directional closes in on the primary agent with probability Attack, and runs from it
// with probability Flee while vulnerable. The rest of the time it moves at random.
type Directional struct {
	Index  int
	Attack float64
	Flee   float64
	rng    *rand.Rand
}

func newDirectional(index int, args Args, rng *rand.Rand) (engine.Agent, error) {
	attack, err := args.Float("prob_attack", 0.8)
	if err != nil {
		return nil, err
	}
	flee, err := args.Float("prob_scaredFlee", 0.8)
	if err != nil {
		return nil, err
	}
	return &Directional{Index: index, Attack: attack, Flee: flee, rng: rng}, nil
}

func (a *Directional) GetAction(_ context.Context, state *game.GameState) (game.Direction, error) {
	dist := a.Distribution(state)
	if len(dist) == 0 {
		return game.Stop, nil
	}

	sampled := a.rng.Float64()
	cumulative := 0.0
	var last game.Direction
	for _, move := range game.Directions {
		p, ok := dist[move]
		if !ok {
			continue
		}
		last = move
		cumulative += p
		if sampled < cumulative {
			return move, nil
		}
	}
	return last, nil
}

// Distribution returns the probability of each legal move.
func (a *Directional) Distribution(state *game.GameState) map[game.Direction]float64 {
	legal := state.LegalMoves(a.Index)
	if len(legal) == 0 {
		return nil
	}

	placement := state.Placement(a.Index)
	scared := placement.IsScared()
	speed := state.Rules().Speed(game.Pursuer, scared)
	target := state.PrimaryPosition()

	distances := make([]float64, len(legal))
	for i, move := range legal {
		next := placement.Position().Add(move.ToVector(speed))
		distances[i] = game.Manhattan(next, target)
	}

	bestScore, bestProb := distances[0], a.Attack
	for _, d := range distances[1:] {
		if (scared && d > bestScore) || (!scared && d < bestScore) {
			bestScore = d
		}
	}
	if scared {
		bestProb = a.Flee
	}

	var best []game.Direction
	for i, move := range legal {
		if distances[i] == bestScore {
			best = append(best, move)
		}
	}

	dist := make(map[game.Direction]float64, len(legal))
	for _, move := range best {
		dist[move] += bestProb / float64(len(best))
	}
	for _, move := range legal {
		dist[move] += (1 - bestProb) / float64(len(legal))
	}
	return dist
}

// Corner patrols a home corner picked at random, and heads for the corner furthest from
// the primary agent while vulnerable.
type Corner struct {
	Index int
	home  *game.Point
	rng   *rand.Rand
}

func newCorner(index int, _ Args, rng *rand.Rand) (engine.Agent, error) {
	return &Corner{Index: index, rng: rng}, nil
}

func (a *Corner) GetAction(_ context.Context, state *game.GameState) (game.Direction, error) {
	legal := state.LegalMoves(a.Index)
	if len(legal) == 0 {
		return game.Stop, nil
	}

	board := state.Board()
	if a.home == nil {
		home := board.RandomCorner(a.rng)
		a.home = &home
	}

	placement := state.Placement(a.Index)
	target := *a.home
	if placement.IsScared() {
		target = board.FurthestCorner(state.PrimaryPosition().Nearest())
	}

	var best []game.Direction
	bestDist := 0
	for _, move := range legal {
		d := game.ManhattanPoints(game.Successor(placement.Position(), move).Nearest(), target)
		switch {
		case len(best) == 0 || d < bestDist:
			best = []game.Direction{move}
			bestDist = d
		case d == bestDist:
			best = append(best, move)
		}
	}
	return choose(best, a.rng), nil
}
