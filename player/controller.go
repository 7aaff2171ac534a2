// Package player drives agents through a step-wise game master.
package player

import (
	"context"
	"fmt"

	"chase/engine"
	"chase/game"
	"chase/gamemaster"

	"github.com/rs/zerolog/log"
)

type Controller interface {
	Run(ctx context.Context) (*game.GameState, []engine.Step, error)
}

type localController struct {
	agents  []engine.Agent
	referee gamemaster.Engine
	display engine.Display
}

// NewLocalController plays agents, one per placement, against referee. Unlike the control
// loop it applies no time limits and an agent failure aborts the game.
func NewLocalController(agents []engine.Agent, referee gamemaster.Engine, display engine.Display) *localController {
	if display == nil {
		display = nullDisplay{}
	}
	return &localController{
		agents:  agents,
		referee: referee,
		display: display,
	}
}

// Run plays one game and returns the final state and the moves played.
func (c *localController) Run(ctx context.Context) (*game.GameState, []engine.Step, error) {
	state, getUpdate := c.referee.Init()
	if len(c.agents) != state.NumAgents() {
		return state, nil, fmt.Errorf("%d agents for %d placements", len(c.agents), state.NumAgents())
	}
	c.display.Initialize(state)
	defer c.display.Finish()

	steps := []engine.Step{}
	for !state.IsTerminal() {
		if err := ctx.Err(); err != nil {
			return state, steps, err
		}

		i := c.referee.Next()
		move, err := c.agents[i].GetAction(ctx, state)
		if err != nil {
			return state, steps, fmt.Errorf("agent %d failed to move: %w", i, err)
		}
		if err := c.referee.Play(i, move); err != nil {
			return state, steps, fmt.Errorf("agent %d played %s: %w", i, move, err)
		}

		for {
			step, next, ok := getUpdate()
			if !ok {
				break
			}
			steps = append(steps, step)
			state = next
			c.display.Update(state)
		}
	}

	log.Info().Int("score", state.Score()).Msgf("step-wise game over after %d moves", len(steps))
	return state, steps, nil
}

type nullDisplay struct{}

func (nullDisplay) Initialize(*game.GameState) {}
func (nullDisplay) Update(*game.GameState)     {}
func (nullDisplay) Finish()                    {}
