package engine

import (
	"context"
	"fmt"
	"time"

	"chase/experiments/metrics"
	"chase/game"

	"github.com/rs/zerolog/log"
)

// Timeouts bound the time agents may spend in their callbacks.
type Timeouts struct {
	Startup     time.Duration // RegisterInitialState
	Move        time.Duration // Observe plus GetAction
	Warning     time.Duration // A move slower than this earns a warning
	Total       time.Duration // Whole game per agent
	MaxWarnings int           // Warnings tolerated before the agent is timed out
}

// ClassicTimeouts uses one budget for every limit and tolerates no warnings.
func ClassicTimeouts(timeout time.Duration) Timeouts {
	return Timeouts{
		Startup: timeout,
		Move:    timeout,
		Warning: timeout,
		Total:   timeout,
	}
}

type Option func(e *Engine)

// WithTimeouts enforces time limits on agent callbacks.
func WithTimeouts(t Timeouts) Option {
	return func(e *Engine) {
		e.timeouts = t
		e.enforce = true
	}
}

// WithExplored records every state handed to an agent in x.
func WithExplored(x *Explored) Option {
	return func(e *Engine) {
		if x != nil {
			e.explored = x
		}
	}
}

// WithStartingIndex sets the agent that moves first.
func WithStartingIndex(i int) Option {
	return func(e *Engine) {
		e.startingIndex = i
	}
}

// Engine runs one game, soliciting moves from the agents in round-robin order.
type Engine struct {
	State   *game.GameState
	Agents  []Agent
	History []Step

	display       Display
	timeouts      Timeouts
	enforce       bool
	explored      *Explored
	startingIndex int
	initialFood   int

	status      Status
	interrupted bool // Caller cancelled the game, nobody is blamed
	crash       *AgentError
	warnings    []int
	totals      []time.Duration
	moveMetrics []metrics.MoveMetric
}

// LocalEngine prepares a game starting from state. There must be one agent per placement.
func LocalEngine(state *game.GameState, agents []Agent, display Display, options ...Option) *Engine {
	if len(agents) != state.NumAgents() {
		panic(fmt.Sprintf("number of agents %d does not match number of placements %d", len(agents), state.NumAgents()))
	}
	if display == nil {
		display = nullDisplay{}
	}

	e := &Engine{
		State:       state,
		Agents:      agents,
		History:     []Step{},
		display:     display,
		explored:    NewExplored(),
		initialFood: state.NumFood(),
		status:      Setup,
		warnings:    make([]int, len(agents)),
		totals:      make([]time.Duration, len(agents)),
	}
	for _, option := range options {
		option(e)
	}
	if e.startingIndex < 0 || e.startingIndex >= len(agents) {
		panic("starting index out of range")
	}
	return e
}

func (e *Engine) Status() Status {
	return e.status
}

// Progress is the share of collectibles still on the board, 1 once the game is over.
func (e *Engine) Progress() float64 {
	if e.status.IsOver() || e.initialFood == 0 {
		return 1
	}
	return float64(e.State.NumFood()) / float64(e.initialFood)
}

// Run plays the game to completion. Agent failures end the game as Crashed, they are
// reported in the result and never returned as errors. Cancelling ctx stops the game where
// it is: the result keeps the Running status and blames no agent.
func (e *Engine) Run(ctx context.Context) Result {
	startTime := time.Now()
	e.display.Initialize(e.State)

	log.Info().Msgf("game on %s starting with %d agents", e.State.Board().Name, len(e.Agents))

	for i, agent := range e.Agents {
		observer, ok := agent.(InitialObserver)
		if !ok {
			continue
		}
		_, elapsed, err := timed(ctx, e.timeouts.Startup, e.enforce, func(ctx context.Context) (struct{}, error) {
			return struct{}{}, observer.RegisterInitialState(ctx, e.State)
		})
		e.totals[i] += elapsed
		if err != nil {
			e.fail(ctx, i, err)
			break
		}
	}
	if e.status == Setup {
		e.status = Running
	}

	index := e.startingIndex
	for e.status == Running && !e.interrupted {
		if ctx.Err() != nil {
			e.interrupt(ctx)
			break
		}
		e.playTurn(ctx, index)
		index = (index + 1) % len(e.Agents)
	}

	if !e.interrupted {
		e.notifyFinal(ctx)
	}
	e.display.Finish()

	if e.interrupted {
		log.Info().Msgf("game interrupted with score %d after %d moves", e.State.Score(), len(e.History))
	} else {
		log.Info().Msgf("game over: %s with score %d after %d moves", e.status, e.State.Score(), len(e.History))
	}

	return e.result(startTime)
}

func (e *Engine) playTurn(ctx context.Context, i int) {
	agent := e.Agents[i]
	e.explored.Add(e.State)

	var spent time.Duration
	observation := e.State
	if observer, ok := agent.(Observer); ok {
		obs, elapsed, err := timed(ctx, e.timeouts.Move, e.enforce, func(ctx context.Context) (*game.GameState, error) {
			return observer.Observe(ctx, e.State)
		})
		spent += elapsed
		if err != nil {
			e.fail(ctx, i, err)
			return
		}
		observation = obs
	}

	move, elapsed, err := timed(ctx, e.timeouts.Move-spent, e.enforce, func(ctx context.Context) (game.Direction, error) {
		return agent.GetAction(ctx, observation)
	})
	spent += elapsed
	if err != nil {
		e.fail(ctx, i, err)
		return
	}

	if e.enforce {
		if spent > e.timeouts.Warning {
			e.warnings[i]++
			log.Warn().Int("agent", i).Msgf("agent %d took too long to make a move, this is warning %d", i, e.warnings[i])
			if e.warnings[i] > e.timeouts.MaxWarnings {
				e.crashAgent(i, fmt.Errorf("%w: exceeded the maximum number of warnings %d", ErrAgentTimeout, e.timeouts.MaxWarnings))
				return
			}
		}
		e.totals[i] += spent
		if e.totals[i] > e.timeouts.Total {
			e.crashAgent(i, fmt.Errorf("%w: ran out of time after %s", ErrAgentTimeout, e.totals[i]))
			return
		}
	}

	e.History = append(e.History, Step{Agent: i, Move: move})
	next, err := e.State.Successor(i, move)
	if err != nil {
		e.crashAgent(i, err)
		return
	}
	e.State = next

	mm := metrics.MoveMetric{Step: len(e.History), Agent: i, Move: move, Duration: spent}
	if reporter, ok := agent.(SearchReporter); ok {
		mm.SearchMetric = reporter.LastSearch()
	}
	e.moveMetrics = append(e.moveMetrics, mm)

	e.display.Update(next)
	e.process()
}

func (e *Engine) process() {
	switch {
	case e.State.IsWin():
		e.status = Won
	case e.State.IsLose():
		e.status = Lost
	}
}

// fail crashes agent i unless the failure comes from the caller cancelling ctx.
func (e *Engine) fail(ctx context.Context, i int, err error) {
	if ctx.Err() != nil {
		log.Debug().Err(err).Int("agent", i).Msg("agent stopped by cancellation")
		e.interrupt(ctx)
		return
	}
	e.crashAgent(i, err)
}

func (e *Engine) interrupt(ctx context.Context) {
	e.interrupted = true
	log.Warn().Err(ctx.Err()).Msg("game cancelled")
}

func (e *Engine) crashAgent(i int, err error) {
	e.status = Crashed
	e.crash = &AgentError{Agent: i, Err: err}

	role := "a pursuer"
	if e.State.Placement(i).Role == game.Primary {
		role = "the primary agent"
	}
	log.Error().Err(err).Int("agent", i).Msgf("%s crashed", role)
}

// notifyFinal shows the final state to every agent that asks for it. Failures are logged
// and do not change the outcome.
func (e *Engine) notifyFinal(ctx context.Context) {
	for i, agent := range e.Agents {
		observer, ok := agent.(FinalObserver)
		if !ok {
			continue
		}
		_, _, err := timed(ctx, e.timeouts.Startup, e.enforce, func(ctx context.Context) (struct{}, error) {
			return struct{}{}, observer.Final(ctx, e.State)
		})
		if err != nil {
			log.Warn().Err(err).Int("agent", i).Msg("final notification failed")
		}
	}
}

func (e *Engine) result(startTime time.Time) Result {
	endTime := time.Now()
	crashed := -1
	if e.crash != nil {
		crashed = e.crash.Agent
	}
	return Result{
		Status: e.status,
		Score:  e.State.Score(),
		Moves:  len(e.History),
		Crash:  e.crash,
		Game: metrics.GameMetric{
			Layout:        e.State.Board().Name,
			StartingAgent: e.startingIndex,
			Status:        e.status.String(),
			Score:         e.State.Score(),
			CrashedAgent:  crashed,
			StartTime:     startTime,
			EndTime:       endTime,
			Duration:      endTime.Sub(startTime),
			TotalMoves:    len(e.History),
		},
		MoveMetrics: e.moveMetrics,
	}
}
