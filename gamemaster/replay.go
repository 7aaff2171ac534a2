package gamemaster

import (
	"context"
	"errors"
	"fmt"

	"chase/engine"
	"chase/game"
	"chase/record"

	"github.com/rs/zerolog/log"
)

var ErrDiverged = errors.New("recorded moves do not replay")

// Replay plays a recording's moves under the recorded rules through display and returns
// the final state. The move that crashed a crashed game is expected to fail and ends the
// replay. A replay that does not end with the recorded score and status has diverged.
func Replay(ctx context.Context, rec *record.Recording, display engine.Display) (*game.GameState, error) {
	initial, err := rec.InitialState()
	if err != nil {
		return nil, err
	}
	start := 0
	if len(rec.Moves) > 0 {
		start = rec.Moves[0].Agent
	}
	if start < 0 || start >= initial.NumAgents() {
		return nil, fmt.Errorf("%w: first move by unknown agent %d", ErrDiverged, start)
	}

	e := NewLocalEngine(initial, start)
	state, updates := e.Init()
	display.Initialize(state)
	defer display.Finish()

	log.Info().Msgf("replaying game %s on %s with %d moves", rec.ID, rec.Layout, len(rec.Moves))

	for i, step := range rec.Moves {
		if err := ctx.Err(); err != nil {
			return state, err
		}
		if err := e.Play(step.Agent, step.Move); err != nil {
			if i == len(rec.Moves)-1 && rec.Status == engine.Crashed.String() {
				log.Info().Err(err).Msgf("replay reached the move that crashed agent %d", step.Agent)
				break
			}
			return state, fmt.Errorf("%w: move %d: %w", ErrDiverged, i+1, err)
		}
		_, next, _ := updates()
		state = next
		display.Update(state)
	}

	if state.Score() != rec.Score {
		return state, fmt.Errorf("%w: replayed score %d, recorded %d", ErrDiverged, state.Score(), rec.Score)
	}
	if !endsAs(state, rec.Status) {
		return state, fmt.Errorf("%w: replay did not end as %s", ErrDiverged, rec.Status)
	}
	return state, nil
}

// endsAs reports whether a replayed final state agrees with the recorded status.
func endsAs(state *game.GameState, status string) bool {
	switch {
	case state.IsWin():
		return status == engine.Won.String()
	case state.IsLose():
		return status == engine.Lost.String()
	default:
		return status == engine.Crashed.String() || status == engine.Running.String()
	}
}
