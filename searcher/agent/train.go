package agent

import (
	"math"

	"chase/game"
	"chase/searcher"

	"golang.org/x/exp/rand"
)

type TrainingAgent struct {
	searchAgent
}

// NewTrainingAgent returns a new agent for self-play during training. It samples moves in
// proportion to visits sharpened by 1/temperature.
func NewTrainingAgent(index int, mcts *searcher.MCTS, temperature float64, rng *rand.Rand) *TrainingAgent {
	if temperature <= 0 {
		panic("temperature must be positive")
	}
	choose := func(policy map[game.Direction]float64) game.Direction {
		return sample(adjustTemperature(policy, temperature), rng.Float64())
	}
	return &TrainingAgent{searchAgent{index: index, mcts: mcts, choose: choose}}
}

func adjustTemperature(policy map[game.Direction]float64, temperature float64) map[game.Direction]float64 {
	// Compute temperature-adjusted move probabilities
	exponent := 1.0 / temperature
	sum := 0.0
	adjusted := make(map[game.Direction]float64, len(policy))
	for move, visit := range policy {
		prob := math.Pow(visit, exponent)
		sum += prob
		adjusted[move] = prob
	}
	if sum == 0 {
		for move := range adjusted {
			adjusted[move] = 1 / float64(len(adjusted))
		}
		return adjusted
	}
	// Normalize
	for move := range adjusted {
		adjusted[move] /= sum
	}
	return adjusted
}

// sample picks the move whose cumulative probability first exceeds sampled, walking the
// moves in a fixed order.
func sample(policy map[game.Direction]float64, sampled float64) game.Direction {
	cumulative := 0.0
	var lastMove game.Direction
	for _, move := range game.Directions {
		prob, ok := policy[move]
		if !ok {
			continue
		}
		lastMove = move
		cumulative += prob
		if sampled < cumulative {
			return move
		}
	}
	return lastMove // Fallback in case of rounding errors
}
