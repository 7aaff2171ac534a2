package searcher

import (
	"sync"
	"testing"

	"chase/experiments/metrics"
	"chase/game"

	"github.com/stretchr/testify/require"
)

/**
Tests tree-parallel MCTS with virtual loss on decision nodes
sequential:
- expansion: expandable node -> new child + loss, child state
- selection: fully expanded node -> max UCT child + loss, child state
- terminal node -> same node, same state
- backup: reverse loss, visits++, rewards from the mover's perspective
concurrent:
- shared expansion, selection and backup keep visit counts consistent
*/

type mockState struct {
	player string
	moves  []game.Direction
	played []game.Direction
	hash   game.StateHash
}

func (m mockState) Player() string {
	return m.player
}

func (m mockState) LegalMoves() []game.Direction {
	return m.moves
}

func (m mockState) Play(move game.Direction) game.State {
	played := append(append([]game.Direction{}, m.played...), move)
	return mockState{player: m.player, played: played, hash: m.hash + 1}
}

func (m mockState) Hash() game.StateHash {
	return m.hash
}

func (m mockState) Winner() string {
	return ""
}

func TestDecisionSelectOrExpand(t *testing.T) {
	t.Run("expanding a node with unexplored moves", func(t *testing.T) {
		state := mockState{player: "primary", moves: []game.Direction{game.North, game.South}}
		node := newDecision(nil, "", state)

		gotChild, gotState, gotSelected := node.SelectOrExpand(state)

		require.False(t, gotSelected, "Node should perform expansion")
		require.Len(t, node.children, 1, "Node should add one child")
		require.Same(t, node.children[0], gotChild, "Expanded child should be returned")
		require.Equal(t, "primary", gotChild.mover, "Child should remember who moved into it")
		require.Equal(t, Loss, gotChild.rewards, "Child should apply a temporary loss")
		require.Equal(t, 1.0, gotChild.visits, "Child should apply a temporary loss")
		require.Equal(t, []game.Direction{node.moves[0]}, gotState.(mockState).played, "State should advance by the expanded move")
		require.Zero(t, node.visits, "Node stats should not change")
	})

	t.Run("selecting a fully expanded node", func(t *testing.T) {
		best := &decision{rewards: 1, visits: 1}
		other := &decision{rewards: 0, visits: 1}
		node := &decision{
			player:   "primary",
			moves:    []game.Direction{game.North, game.South},
			children: []*decision{other, best},
			rewards:  1,
			visits:   2,
		}

		gotChild, gotState, gotSelected := node.SelectOrExpand(mockState{})

		require.True(t, gotSelected, "Node should perform selection")
		require.Same(t, best, gotChild, "Node should select the child with the max UCT score")
		require.Equal(t, 1+Loss, gotChild.rewards, "Child should apply a temporary loss")
		require.Equal(t, 2.0, gotChild.visits, "Child should apply a temporary loss")
		require.Equal(t, []game.Direction{game.South}, gotState.(mockState).played, "State should advance by the selected move")
		require.Equal(t, 1.0, node.rewards, "Node stats should not change")
		require.Equal(t, 2.0, node.visits, "Node stats should not change")
	})

	t.Run("terminal node", func(t *testing.T) {
		node := &decision{moves: []game.Direction{}}
		state := mockState{hash: 7}

		gotChild, gotState, gotSelected := node.SelectOrExpand(state)

		require.Same(t, node, gotChild, "Terminal node should return itself")
		require.Equal(t, state, gotState, "Terminal node should not advance the state")
		require.False(t, gotSelected, "Terminal node ends the descent")
	})

	t.Run("legal moves are not reordered in place", func(t *testing.T) {
		moves := []game.Direction{game.North, game.South, game.East, game.West}
		newDecision(nil, "", mockState{moves: moves})

		require.Equal(t, []game.Direction{game.North, game.South, game.East, game.West}, moves,
			"Shuffling should work on a copy")
	})
}

func TestDecisionBackup(t *testing.T) {
	t.Run("backup from the mover's perspective", func(t *testing.T) {
		root := &decision{}
		child := &decision{parent: root, mover: "primary", rewards: Loss, visits: 1}

		parent := child.Backup("primary", 0.5)

		require.Same(t, root, parent, "Backup should continue with the parent")
		require.Equal(t, 0.5, child.rewards, "Child should reverse the loss and add the reward")
		require.Equal(t, 1.0, child.visits, "Child should count one real visit")

		require.Nil(t, root.Backup("primary", 0.5), "Root has no parent")
		require.Equal(t, 1.0, root.visits, "Root should count the visit")
	})

	t.Run("backup of an opponent's outcome", func(t *testing.T) {
		child := &decision{parent: &decision{}, mover: "pursuer", rewards: Loss, visits: 1}

		child.Backup("primary", Win)

		require.Equal(t, Loss, child.rewards, "Opponent's win is the mover's loss")
	})

	t.Run("policy counts child visits", func(t *testing.T) {
		node := &decision{
			moves:    []game.Direction{game.East, game.West, game.Stop},
			children: []*decision{{visits: 3}, {visits: 5}},
		}

		require.Equal(t, map[game.Direction]float64{game.East: 3, game.West: 5}, node.Policy(),
			"Policy should only cover explored moves")
	})

	t.Run("find locates a descendant by hash", func(t *testing.T) {
		grandChild := &decision{hash: 3}
		child := &decision{hash: 2, children: []*decision{grandChild}}
		root := &decision{hash: 1, children: []*decision{child}}

		require.Same(t, grandChild, root.find(3, 2), "Grandchild is within two levels")
		require.Nil(t, root.find(3, 1), "Grandchild is beyond one level")
		require.Nil(t, root.find(9, 2), "Unknown hash should not be found")
	})
}

func TestDecisionConcurrent(t *testing.T) {
	board, err := game.ParseBoard("concurrent", []string{
		"%%%%%%%",
		"%. P .%",
		"%.%%%.%",
		"%..G..%",
		"%%%%%%%",
	})
	require.NoError(t, err, "board should parse")
	state := game.NewTurn(game.NewGameState(board, game.NewClassicRules(), -1), 0)

	const episodes = 200
	root := newDecision(nil, "", state)
	var wg sync.WaitGroup
	for i := 0; i < episodes; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			node, leaf := selectThenExpand(root, state)
			player, score := rollout(leaf, 10, game.EvaluateScore, metrics.NewDummyCollector())
			backup(node, player, score)
		}()
	}
	wg.Wait()

	require.Equal(t, float64(episodes), root.Visits(), "Root should count every episode")
	total := 0.0
	for _, visits := range root.Policy() {
		total += visits
	}
	require.Equal(t, float64(episodes), total, "Every episode should pass through a root child")
}
