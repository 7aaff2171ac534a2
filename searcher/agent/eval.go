package agent

import (
	"chase/game"
	"chase/searcher"
)

type EvaluationAgent struct {
	searchAgent
}

// NewEvaluationAgent returns a new agent for actual game play during evaluation. It plays
// the most visited move.
func NewEvaluationAgent(index int, mcts *searcher.MCTS) *EvaluationAgent {
	return &EvaluationAgent{searchAgent{index: index, mcts: mcts, choose: findMax}}
}

func findMax(policy map[game.Direction]float64) game.Direction {
	var maxMove game.Direction
	maxVisit := -1.0
	for _, move := range game.Directions { // Fixed order breaks ties
		if visit, ok := policy[move]; ok && visit > maxVisit {
			maxVisit = visit
			maxMove = move
		}
	}
	return maxMove
}
