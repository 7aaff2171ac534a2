package agents

import (
	"fmt"

	"chase/engine"
	"chase/game"
	"chase/meta"
	"chase/searcher"
	searchagent "chase/searcher/agent"

	"golang.org/x/exp/rand"
)

// newMCTS reads the search options: goroutines, episodes, duration, cutoff, eval
// (score or distance) and reuse.
func newMCTS(args Args) (*searcher.MCTS, error) {
	goroutines, err := args.Int("goroutines", meta.GO_ROUTINES)
	if err != nil {
		return nil, err
	}
	episodes, err := args.Int("episodes", 0)
	if err != nil {
		return nil, err
	}
	duration, err := args.Duration("duration", 0)
	if err != nil {
		return nil, err
	}
	if episodes <= 0 && duration <= 0 {
		episodes = meta.EPISODES
	}
	cutoff, err := args.Int("cutoff", meta.WITH_CUTOFF)
	if err != nil {
		return nil, err
	}
	reuse, err := args.Int("reuse", 0)
	if err != nil {
		return nil, err
	}

	var evaluate game.Evaluate
	switch name := args.String("eval", "score"); name {
	case "score":
		evaluate = game.EvaluateScore
	case "distance":
		evaluate = game.EvaluateDistance
	default:
		return nil, fmt.Errorf("%w: unknown evaluation %q", ErrBadArgs, name)
	}

	return searcher.NewMCTS(goroutines,
		searcher.WithEpisodes(episodes),
		searcher.WithDuration(duration),
		searcher.WithCutoff(cutoff),
		searcher.WithEvaluationFn(evaluate),
		searcher.WithTreeReuse(reuse),
		searcher.WithMetrics(),
	), nil
}

func newSearch(index int, args Args, _ *rand.Rand) (engine.Agent, error) {
	mcts, err := newMCTS(args)
	if err != nil {
		return nil, err
	}
	return searchagent.NewEvaluationAgent(index, mcts), nil
}

func newTrainingSearch(index int, args Args, rng *rand.Rand) (engine.Agent, error) {
	mcts, err := newMCTS(args)
	if err != nil {
		return nil, err
	}
	temperature, err := args.Float("temperature", 1)
	if err != nil {
		return nil, err
	}
	if temperature <= 0 {
		return nil, fmt.Errorf("%w: temperature must be positive", ErrBadArgs)
	}
	return searchagent.NewTrainingAgent(index, mcts, temperature, rng), nil
}
