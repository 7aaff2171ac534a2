package game

import "math"

// EvaluateScore squashes the running score into (-1, 1) from the perspective of the agent
// to move.
func EvaluateScore(s State) float64 {
	t, ok := s.(*Turn)
	if !ok {
		panic("unexpected state type")
	}
	value := math.Tanh(float64(t.State.Score()) / float64(t.State.rules.ClearBonus()))
	return t.perspective(value)
}

// EvaluateDistance weighs collection progress against the distance to the closest
// dangerous pursuer, from the perspective of the agent to move.
func EvaluateDistance(s State) float64 {
	t, ok := s.(*Turn)
	if !ok {
		panic("unexpected state type")
	}
	gs := t.State
	progress := gs.progress()

	safety := 1.0
	primary := gs.PrimaryPosition()
	for _, a := range gs.agents {
		if a.Role != Pursuer || a.IsScared() {
			continue
		}
		d := Manhattan(a.Conf.Pos, primary)
		safety = math.Min(safety, 1-2/(1+d))
	}

	value := (2*progress-1)/2 + safety/2
	return t.perspective(value)
}

// progress is the share of the initial collectibles already eaten.
func (gs *GameState) progress() float64 {
	initial := gs.board.Food.Count(true)
	if initial == 0 {
		return 1
	}
	return 1 - float64(gs.NumFood())/float64(initial)
}

func (t *Turn) perspective(primaryValue float64) float64 {
	if t.State.agents[t.Agent].Role == Pursuer {
		return -primaryValue
	}
	return primaryValue
}
