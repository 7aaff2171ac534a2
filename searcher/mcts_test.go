package searcher

import (
	"context"
	"testing"
	"time"

	"chase/game"

	"github.com/stretchr/testify/require"
)

func newTurn(t *testing.T, lines ...string) *game.Turn {
	t.Helper()
	board, err := game.ParseBoard("search", lines)
	require.NoError(t, err, "board should parse")
	return game.NewTurn(game.NewGameState(board, game.NewClassicRules(), -1), 0)
}

func TestNewMCTS(t *testing.T) {
	t.Run("panics without a budget", func(t *testing.T) {
		require.Panics(t, func() {
			NewMCTS(4)
		}, "Search needs episodes or a duration")
	})

	t.Run("defaults", func(t *testing.T) {
		m := NewMCTS(0, WithEpisodes(10), WithCutoff(-1), WithEvaluationFn(nil))

		require.Equal(t, 1, m.goroutines, "Search needs at least one goroutine")
		require.Positive(t, m.cutoff, "Invalid cutoff should be ignored")
		require.NotNil(t, m.evaluate, "Missing evaluation should be ignored")
	})
}

func TestSimulate(t *testing.T) {
	t.Run("prefers the winning move", func(t *testing.T) {
		state := newTurn(t,
			"%%%%%%%",
			"%.P   %",
			"%%%%%%%",
		)
		m := NewMCTS(4, WithEpisodes(300), WithCutoff(2), WithMetrics())

		policy, metric := m.Simulate(context.Background(), state)

		require.ElementsMatch(t, []game.Direction{game.East, game.West, game.Stop}, keys(policy), "Every legal move should be explored")
		best := game.Stop
		for move, visits := range policy {
			if visits > policy[best] {
				best = move
			}
		}
		require.Equal(t, game.West, best, "Eating the last pellet should be most visited")
		require.Equal(t, 300, metric.Episodes, "Metrics should count every episode")
		require.Equal(t, 4, metric.Goroutines, "Metrics should record the goroutines")
		require.Equal(t, 2, metric.Cutoff, "Metrics should record the cutoff")
		require.Positive(t, metric.FullPlayouts, "Some episodes should reach the end of the game")
		require.True(t, metric.IsTreeReset, "First search starts a new tree")
	})

	t.Run("reuses the tree for a following state", func(t *testing.T) {
		state := newTurn(t,
			"%%%%%%%%%",
			"%.. P ..%",
			"%%%%%%%%%",
		)
		m := NewMCTS(2, WithEpisodes(100), WithCutoff(5), WithTreeReuse(2), WithMetrics())
		m.Simulate(context.Background(), state)

		_, metric := m.Simulate(context.Background(), state.Play(game.East))
		require.False(t, metric.IsTreeReset, "Explored successor should be found in the previous tree")
		require.Nil(t, m.root.parent, "Reused root should be detached")

		other := newTurn(t,
			"%%%%%",
			"%.P.%",
			"%%%%%",
		)
		_, metric = m.Simulate(context.Background(), other)
		require.True(t, metric.IsTreeReset, "Unrelated state should start a new tree")
	})

	t.Run("stops when the context is done", func(t *testing.T) {
		state := newTurn(t,
			"%%%%%%%",
			"%.P  .%",
			"%%%%%%%",
		)
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		m := NewMCTS(2, WithEpisodes(1000), WithMetrics())

		policy, metric := m.Simulate(ctx, state)

		require.Empty(t, policy, "No episode should run")
		require.Zero(t, metric.Episodes, "No episode should run")
	})

	t.Run("searches for a duration", func(t *testing.T) {
		state := newTurn(t,
			"%%%%%%%",
			"%.P  .%",
			"%%%%%%%",
		)
		m := NewMCTS(2, WithDuration(20*time.Millisecond), WithCutoff(10), WithMetrics())

		start := time.Now()
		policy, metric := m.Simulate(context.Background(), state)

		require.Less(t, time.Since(start), time.Second, "Search should stop after its duration")
		require.NotEmpty(t, policy, "Search should explore some moves")
		require.Positive(t, metric.Episodes, "Search should run episodes")
	})
}

func keys(policy map[game.Direction]float64) []game.Direction {
	moves := make([]game.Direction, 0, len(policy))
	for move := range policy {
		moves = append(moves, move)
	}
	return moves
}
