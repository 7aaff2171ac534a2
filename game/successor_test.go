package game

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func newState(t *testing.T, lines ...string) *GameState {
	t.Helper()
	return NewGameState(mustBoard(t, lines...), NewClassicRules(), -1)
}

func mustSucceed(t *testing.T, gs *GameState, agent int, move Direction) *GameState {
	t.Helper()
	next, err := gs.Successor(agent, move)
	require.NoError(t, err)
	return next
}

func TestNewGameState(t *testing.T) {
	t.Run("places agents at their starts facing stop", func(t *testing.T) {
		gs := newState(t,
			"%%%%%%",
			"%P.oG%",
			"%%%%%%",
		)

		require.Equal(t, 2, gs.NumAgents())
		require.Equal(t, Primary, gs.Placement(0).Role)
		require.Equal(t, Pursuer, gs.Placement(1).Role)
		require.Equal(t, Configuration{Pos: Position{X: 4, Y: 1}, Dir: Stop}, gs.Placement(1).Conf)
		require.Equal(t, 0, gs.Score())
		require.Equal(t, 1, gs.NumFood())
		require.Equal(t, []Point{{X: 3, Y: 1}}, gs.Capsules())
		require.Equal(t, -1, gs.AgentMoved())
		require.False(t, gs.IsTerminal())
	})

	t.Run("caps the number of pursuers", func(t *testing.T) {
		b := mustBoard(t,
			"%%%%%%",
			"%PGGG%",
			"%%%%%%",
		)

		gs := NewGameState(b, NewClassicRules(), 2)

		require.Equal(t, 3, gs.NumAgents())
	})
}

func TestLegalMoves(t *testing.T) {
	open := []string{
		"%%%%%%%",
		"%P    %",
		"%     %",
		"%   G %",
		"%%%%%%%",
	}

	t.Run("primary may stop", func(t *testing.T) {
		gs := newState(t, open...)

		require.Equal(t, []Direction{South, East, Stop}, gs.LegalMoves(0))
	})

	t.Run("pursuers never stop nor reverse at junctions", func(t *testing.T) {
		gs := newState(t, open...)
		gs.agents[1].Conf.Dir = East

		got := gs.LegalMoves(1)

		require.NotContains(t, got, Stop)
		require.NotContains(t, got, West, "Reverse of East should be removed")
		require.ElementsMatch(t, []Direction{North, East}, got)
	})

	t.Run("pursuers reverse at dead ends", func(t *testing.T) {
		gs := newState(t,
			"%%%%%",
			"%P G%",
			"%%%%%",
		)
		gs.agents[1].Conf.Dir = East

		require.Equal(t, []Direction{West}, gs.LegalMoves(1))
	})

	t.Run("agents between cells keep going", func(t *testing.T) {
		gs := newState(t, open...)
		gs.agents[1].Conf = Configuration{Pos: Position{X: 3.5, Y: 1}, Dir: West}

		require.Equal(t, []Direction{West}, gs.LegalMoves(1))
	})

	t.Run("unknown agents have no moves", func(t *testing.T) {
		gs := newState(t, open...)

		require.Empty(t, gs.LegalMoves(5))
	})
}

func TestSuccessor(t *testing.T) {
	t.Run("eating the last collectible wins", func(t *testing.T) {
		gs := newState(t,
			"%%%%%",
			"%P. %",
			"%%%%%",
		)

		next := mustSucceed(t, gs, 0, East)

		rules := NewClassicRules()
		require.Equal(t, rules.FoodReward()-rules.TimePenalty()+rules.ClearBonus(), next.Score())
		require.Equal(t, next.Score(), next.ScoreChange())
		require.Equal(t, 0, next.NumFood())
		require.True(t, next.IsWin())
		eaten, ok := next.FoodEaten()
		require.True(t, ok)
		require.Equal(t, Point{X: 2, Y: 1}, eaten)
		require.Equal(t, 0, next.AgentMoved())
	})

	t.Run("predecessor is never modified", func(t *testing.T) {
		gs := newState(t,
			"%%%%%%",
			"%P..G%",
			"%%%%%%",
		)
		before := gs.String()
		hash := gs.Hash()

		next := mustSucceed(t, gs, 0, East)

		require.Equal(t, before, gs.String())
		require.Equal(t, hash, gs.Hash())
		require.Equal(t, 2, gs.NumFood())
		require.Equal(t, 1, next.NumFood())
		require.Equal(t, Position{X: 1, Y: 1}, gs.Placement(0).Position())
	})

	t.Run("food grid is shared until something is eaten", func(t *testing.T) {
		gs := newState(t,
			"%%%%%%",
			"%P .G%",
			"%%%%%%",
		)

		moved := mustSucceed(t, gs, 0, East)
		require.Same(t, gs.Food(), moved.Food(), "Moving onto an empty cell should not copy the food grid")

		ate := mustSucceed(t, moved, 1, West)
		ate = mustSucceed(t, ate, 0, East)
		require.NotSame(t, moved.Food(), ate.Food(), "Eating should copy the food grid")
	})

	t.Run("score delta itemizes penalty and rewards", func(t *testing.T) {
		gs := newState(t,
			"%%%%%%%",
			"%P.. G%",
			"%%%%%%%",
		)
		rules := NewClassicRules()

		next := mustSucceed(t, gs, 0, East)

		require.Equal(t, rules.FoodReward()-rules.TimePenalty(), next.ScoreChange())
		require.Equal(t, gs.NumFood()-1, next.NumFood())
		require.False(t, next.IsTerminal())
	})

	t.Run("pursuer moves do not cost time", func(t *testing.T) {
		gs := newState(t,
			"%%%%%%%",
			"%P.. G%",
			"%%%%%%%",
		)

		next := mustSucceed(t, gs, 1, West)

		require.Equal(t, 0, next.ScoreChange())
		require.Equal(t, Configuration{Pos: Position{X: 4, Y: 1}, Dir: West}, next.Placement(1).Conf)
	})

	t.Run("meeting an active pursuer loses", func(t *testing.T) {
		gs := newState(t,
			"%%%%%",
			"%P G%",
			"%%%%%",
		)
		rules := NewClassicRules()

		next := mustSucceed(t, gs, 0, East)
		require.False(t, next.IsLose(), "Pursuer is one cell away")

		next = mustSucceed(t, next, 1, West)

		require.True(t, next.IsLose())
		require.Equal(t, -rules.DeathPenalty(), next.ScoreChange())
		require.Equal(t, -rules.TimePenalty()-rules.DeathPenalty(), next.Score())

		_, err := next.Successor(0, Stop)
		require.ErrorIs(t, err, ErrIllegalTransition, "Terminal states have no successors")
		require.Empty(t, next.LegalMoves(0))
	})

	t.Run("a bonus item makes pursuers vulnerable", func(t *testing.T) {
		gs := newState(t,
			"%%%%%%",
			"%Po G%",
			"%%%%%%",
		)
		rules := NewClassicRules()

		next := mustSucceed(t, gs, 0, East)

		require.Empty(t, next.Capsules())
		eaten, ok := next.CapsuleEaten()
		require.True(t, ok)
		require.Equal(t, Point{X: 2, Y: 1}, eaten)
		require.Equal(t, rules.ScaredTime(), next.Placement(1).ScaredTimer)
		require.Len(t, gs.Capsules(), 1, "Predecessor keeps its bonus item")
	})

	t.Run("vulnerable pursuers move at half speed and get captured", func(t *testing.T) {
		gs := newState(t,
			"%%%%%%",
			"%Po G%",
			"%%%%%%",
		)
		rules := NewClassicRules()

		s := mustSucceed(t, gs, 0, East)
		s = mustSucceed(t, s, 1, West)
		require.Equal(t, Position{X: 3.5, Y: 1}, s.Placement(1).Position())
		require.Equal(t, rules.ScaredTime()-1, s.Placement(1).ScaredTimer)

		s = mustSucceed(t, s, 0, East)
		require.False(t, s.Captured(1))

		s = mustSucceed(t, s, 1, West)

		require.False(t, s.IsLose())
		require.True(t, s.Captured(1))
		require.Equal(t, rules.CaptureBonus(), s.ScoreChange())
		require.Equal(t, s.Placement(1).Start, s.Placement(1).Conf, "Captured pursuer returns home")
		require.Equal(t, 0, s.Placement(1).ScaredTimer)
		require.Equal(t, -2*rules.TimePenalty()+rules.CaptureBonus(), s.Score())

		s = mustSucceed(t, s, 0, Stop)
		require.False(t, s.Captured(1), "Capture flags reset when the primary agent moves")
	})

	t.Run("moving onto a vulnerable pursuer captures it", func(t *testing.T) {
		gs := newState(t,
			"%%%%%",
			"%P G%",
			"%%%%%",
		)
		gs.agents[1].Conf.Pos = Position{X: 2, Y: 1}
		gs.agents[1].ScaredTimer = 10
		rules := NewClassicRules()

		next := mustSucceed(t, gs, 0, East)

		require.False(t, next.IsLose())
		require.True(t, next.Captured(1))
		require.Equal(t, rules.CaptureBonus()-rules.TimePenalty(), next.ScoreChange())
		require.Equal(t, next.Placement(1).Start, next.Placement(1).Conf, "Captured pursuer returns home")
		require.Equal(t, 0, next.Placement(1).ScaredTimer)
	})

	t.Run("collisions resolve in agent order", func(t *testing.T) {
		gs := newState(t,
			"%%%%%%",
			"%P GG%",
			"%%%%%%",
		)
		gs.agents[1].Conf.Pos = Position{X: 2, Y: 1}
		gs.agents[1].ScaredTimer = 10
		gs.agents[2].Conf.Pos = Position{X: 2, Y: 1}
		rules := NewClassicRules()

		next := mustSucceed(t, gs, 0, East)

		require.True(t, next.Captured(1), "Vulnerable pursuer is captured first")
		require.False(t, next.Captured(2))
		require.True(t, next.IsLose(), "Active pursuer still defeats the primary agent")
		require.Equal(t, -rules.TimePenalty()+rules.CaptureBonus()-rules.DeathPenalty(), next.ScoreChange())
		require.Equal(t, -301, next.ScoreChange())
	})

	t.Run("clearing the board beats a collision in the same step", func(t *testing.T) {
		gs := newState(t,
			"%%%%%",
			"%P.G%",
			"%%%%%",
		)
		gs.agents[1].Conf.Pos = Position{X: 2, Y: 1}
		rules := NewClassicRules()

		next := mustSucceed(t, gs, 0, East)

		require.True(t, next.IsWin())
		require.False(t, next.IsLose(), "Victory blocks the death penalty")
		require.Equal(t, rules.FoodReward()-rules.TimePenalty()+rules.ClearBonus(), next.ScoreChange())
		require.Equal(t, 509, next.ScoreChange())
	})

	t.Run("rejects moves outside the legal set", func(t *testing.T) {
		gs := newState(t,
			"%%%%%",
			"%P. %",
			"%%%%%",
		)

		_, err := gs.Successor(0, North)
		require.ErrorIs(t, err, ErrIllegalTransition)

		_, err = gs.Successor(3, East)
		require.ErrorIs(t, err, ErrIllegalTransition)
	})

	t.Run("recovering pursuers snap to the grid", func(t *testing.T) {
		gs := newState(t,
			"%%%%%%",
			"%P   %",
			"%%%%%%",
		)
		b := newBuilder(gs)
		b.next.agents[0].Conf.Pos = Position{X: 3.5, Y: 1}
		b.next.agents[0].ScaredTimer = 1

		b.decrementTimer(0)

		require.Equal(t, Position{X: 4, Y: 1}, b.next.agents[0].Conf.Pos)
		require.Equal(t, 0, b.next.agents[0].ScaredTimer)
	})
}

func TestStateIdentity(t *testing.T) {
	lines := []string{
		"%%%%%%",
		"%P. G%",
		"%%%%%%",
	}

	t.Run("equal states hash equally", func(t *testing.T) {
		a := newState(t, lines...)
		b := newState(t, lines...)

		require.True(t, a.Equal(b))
		require.Equal(t, a.Hash(), b.Hash())
	})

	t.Run("moves change identity", func(t *testing.T) {
		a := newState(t, lines...)
		b := mustSucceed(t, a, 1, West)

		require.False(t, a.Equal(b))
		require.NotEqual(t, a.Hash(), b.Hash())
	})

	t.Run("string draws agents and score", func(t *testing.T) {
		gs := newState(t, lines...)
		gs = mustSucceed(t, gs, 0, East)

		require.Equal(t, "%%%%%%\n% < G%\n%%%%%%\nScore: 9\n", gs.String())
	})
}
