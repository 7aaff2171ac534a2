package searcher

import (
	"context"
	"sync"
	"time"

	"chase/experiments/metrics"
	"chase/game"
	"chase/meta"

	"github.com/rs/zerolog/log"
	"golang.org/x/exp/rand"
)

type Option func(mcts *MCTS)

// MCTS is a tree-parallel UCT search. Goroutines share one tree and spread out through
// virtual losses.
type MCTS struct {
	goroutines int
	duration   time.Duration
	episodes   int
	cutoff     int
	evaluate   game.Evaluate
	reuse      int
	root       *decision
	metrics    metrics.Collector
}

func WithDuration(duration time.Duration) Option {
	return func(m *MCTS) {
		if duration > 0 {
			m.duration = duration
		}
	}
}

func WithEpisodes(episodes int) Option {
	return func(m *MCTS) {
		if episodes > 0 {
			m.episodes = episodes
		}
	}
}

func WithCutoff(depth int) Option {
	return func(m *MCTS) {
		if depth > 0 {
			m.cutoff = depth
		}
	}
}

func WithEvaluationFn(evaluate game.Evaluate) Option {
	return func(m *MCTS) {
		if evaluate != nil {
			m.evaluate = evaluate
		}
	}
}

// WithTreeReuse keeps the previous tree when the next searched state lies within depth
// moves of the previous root.
func WithTreeReuse(depth int) Option {
	return func(m *MCTS) {
		if depth > 0 {
			m.reuse = depth
		}
	}
}

func WithMetrics() Option {
	return func(m *MCTS) {
		m.metrics = metrics.NewCollector()
	}
}

func NewMCTS(goroutines int, options ...Option) *MCTS {
	m := &MCTS{ // Default values
		goroutines: max(goroutines, 1),
		cutoff:     meta.MAX_CUTOFF,
		evaluate:   game.EvaluateScore,
		metrics:    metrics.NewDummyCollector(),
	}
	for _, option := range options {
		option(m)
	}
	if m.episodes <= 0 && m.duration <= 0 {
		panic("Must specify search episodes or duration")
	}
	return m
}

// Simulate searches from state and returns the visit count of each root move. The search
// stops early when ctx is done.
func (m *MCTS) Simulate(ctx context.Context, state game.State) (map[game.Direction]float64, metrics.SearchMetric) {
	m.findRoot(state)

	// Run simulations to collect statistics
	m.metrics.Start(m.goroutines, m.cutoff, m.evaluate)
	if m.episodes > 0 {
		m.iterate(ctx, state)
	} else {
		m.countdown(ctx, state)
	}
	metric := m.metrics.Complete()

	// Output move policy and move finding metrics
	return m.root.Policy(), metric
}

func (m *MCTS) iterate(ctx context.Context, state game.State) {
	task := make(chan any, m.episodes)
	for i := 0; i < m.episodes; i++ {
		task <- nil
	}
	close(task)

	var wg sync.WaitGroup
	for i := 0; i < m.goroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			for range task {
				if ctx.Err() != nil {
					return
				}
				m.simulate(state)
				m.metrics.AddEpisode()
			}
		}()
	}

	wg.Wait()
}

func (m *MCTS) countdown(ctx context.Context, state game.State) {
	ctx, cancel := context.WithTimeout(ctx, m.duration)
	defer cancel()

	var wg sync.WaitGroup
	for i := 0; i < m.goroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			for {
				select {
				case <-ctx.Done():
					return
				default:
					m.simulate(state)
					m.metrics.AddEpisode()
				}
			}
		}()
	}

	wg.Wait()
}

func (m *MCTS) findRoot(state game.State) {
	var root *decision
	if m.root != nil && m.reuse > 0 {
		root = m.root.find(state.Hash(), m.reuse)
	}

	if root == nil {
		if m.root != nil && m.reuse > 0 {
			log.Debug().Msgf("state hash %d not found in the previous tree, starting afresh", state.Hash())
		}
		m.root = newDecision(nil, "", state)
		m.metrics.SetTreeReset(true)
		return
	}
	root.parent = nil
	m.root = root
	m.metrics.SetTreeReset(false)
}

func (m *MCTS) simulate(state game.State) {
	newNode, newState := selectThenExpand(m.root, state)
	player, score := rollout(newState, m.cutoff, m.evaluate, m.metrics)
	backup(newNode, player, score)
}

func selectThenExpand(root *decision, state game.State) (*decision, game.State) {
	parent := root
	child, state, selected := parent.SelectOrExpand(state)
	for selected && (child != parent) {
		parent = child
		child, state, selected = parent.SelectOrExpand(state)
	}
	return child, state
}

func rollout(state game.State, cutoff int, evaluate game.Evaluate, metrics metrics.Collector) (string, float64) {
	depth := 0
	moves := state.LegalMoves()
	// Rollout till game over or for cutoff number of moves
	for len(moves) > 0 && (depth < cutoff) {
		move := moves[rand.Intn(len(moves))] // Random rollout policy
		state = state.Play(move)
		moves = state.LegalMoves()
		depth++
	}

	if len(moves) == 0 { // Game over before cutoff
		metrics.AddFullPlayout()
		if winner := state.Winner(); winner != "" {
			return winner, Win
		}
		return state.Player(), 0
	}

	// At cutoff state, return an evaluation score from current player's perspective
	return state.Player(), evaluate(state)
}

func backup(newNode *decision, player string, score float64) {
	node := newNode
	for node != nil {
		node = node.Backup(player, score)
	}
}
