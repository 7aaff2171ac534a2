package agent

import (
	"context"
	"errors"
	"sync"

	"chase/experiments/metrics"
	"chase/game"
	"chase/searcher"
)

var ErrNoMove = errors.New("search found no move")

// searchAgent plays one agent index by searching from the state it is given.
type searchAgent struct {
	index  int
	mcts   *searcher.MCTS
	choose func(policy map[game.Direction]float64) game.Direction

	mu   sync.Mutex
	last metrics.SearchMetric
}

// GetAction searches for a move. It fails if the search explored nothing, which happens
// when ctx ends before the first episode.
func (a *searchAgent) GetAction(ctx context.Context, state *game.GameState) (game.Direction, error) {
	policy, metric := a.mcts.Simulate(ctx, game.NewTurn(state, a.index))

	a.mu.Lock()
	a.last = metric
	a.mu.Unlock()

	if len(policy) == 0 {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		return "", ErrNoMove
	}
	return a.choose(policy), nil
}

// LastSearch reports the metrics of the most recent search.
func (a *searchAgent) LastSearch() metrics.SearchMetric {
	a.mu.Lock()
	defer a.mu.Unlock()

	return a.last
}
