package game

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTurn(t *testing.T) {
	lines := []string{
		"%%%%%%",
		"%P. G%",
		"%%%%%%",
	}

	t.Run("play hands the turn to the next agent", func(t *testing.T) {
		turn := NewTurn(newState(t, "%%%%%%", "%P..G%", "%%%%%%"), 0)

		next := turn.Play(East).(*Turn)

		require.Equal(t, 1, next.Agent)
		require.Equal(t, "pursuer", next.Player())
		require.Equal(t, 0, next.Play(West).(*Turn).Agent, "Turns wrap around")
	})

	t.Run("players are role names", func(t *testing.T) {
		turn := NewTurn(newState(t, lines...), 0)

		require.Equal(t, "primary", turn.Player())
		require.Equal(t, "", turn.Winner())
	})

	t.Run("winner follows the terminal flags", func(t *testing.T) {
		turn := NewTurn(newState(t, lines...), 0)

		won := turn.Play(East).(*Turn)

		require.Equal(t, "primary", won.Winner())
		require.Empty(t, won.LegalMoves())
	})

	t.Run("hash depends on the agent to move", func(t *testing.T) {
		gs := newState(t, lines...)

		require.NotEqual(t, NewTurn(gs, 0).Hash(), NewTurn(gs, 1).Hash())
		require.Equal(t, NewTurn(gs, 1).Hash(), NewTurn(gs, 1).Hash())
	})

	t.Run("illegal moves panic", func(t *testing.T) {
		turn := NewTurn(newState(t, lines...), 0)

		require.Panics(t, func() {
			turn.Play(North)
		})
	})
}

func TestEvaluate(t *testing.T) {
	lines := []string{
		"%%%%%%%",
		"%P.. G%",
		"%%%%%%%",
	}

	t.Run("score evaluation flips for pursuers", func(t *testing.T) {
		gs := mustSucceed(t, newState(t, lines...), 0, East)

		primary := EvaluateScore(NewTurn(gs, 0))
		pursuer := EvaluateScore(NewTurn(gs, 1))

		require.Greater(t, primary, 0.0)
		require.InDelta(t, -primary, pursuer, 1e-9)
	})

	t.Run("evaluations stay within bounds", func(t *testing.T) {
		var s State = NewTurn(newState(t, lines...), 0)
		for i := 0; i < 6 && s.Winner() == ""; i++ {
			for _, eval := range []Evaluate{EvaluateScore, EvaluateDistance} {
				v := eval(s)
				require.GreaterOrEqual(t, v, -1.0)
				require.LessOrEqual(t, v, 1.0)
			}
			s = s.Play(s.LegalMoves()[0])
		}
	})

	t.Run("closer pursuers are worse for the primary agent", func(t *testing.T) {
		far := newState(t, lines...)
		near := mustSucceed(t, far, 1, West)

		require.Greater(t, EvaluateDistance(NewTurn(far, 0)), EvaluateDistance(NewTurn(near, 0)))
	})

	t.Run("panics on foreign states", func(t *testing.T) {
		require.Panics(t, func() {
			EvaluateScore(nil)
		})
	})
}
