package engine

import (
	"context"
	"errors"
	"fmt"
	"time"
)

var (
	// ErrAgentTimeout is returned when an agent runs out of time for a call, a game or
	// its allowed warnings.
	ErrAgentTimeout = errors.New("agent timeout")
	// ErrAgentFault is returned when an agent callback fails or panics.
	ErrAgentFault = errors.New("agent fault")
)

// AgentError attributes a crash to an agent.
type AgentError struct {
	Agent int
	Err   error
}

func (e *AgentError) Error() string {
	return fmt.Sprintf("agent %d crashed: %v", e.Agent, e.Err)
}

func (e *AgentError) Unwrap() error {
	return e.Err
}

// timed runs fn and measures it. When enforce is set fn runs on its own goroutine under
// a budget; a call that overruns is abandoned and reported as ErrAgentTimeout. Agents
// are expected to honour ctx.
func timed[T any](ctx context.Context, budget time.Duration, enforce bool, fn func(context.Context) (T, error)) (T, time.Duration, error) {
	start := time.Now()
	if !enforce {
		v, err := protect(ctx, fn)
		return v, time.Since(start), err
	}

	var zero T
	if budget <= 0 {
		return zero, 0, fmt.Errorf("%w: no time left", ErrAgentTimeout)
	}

	ctx, cancel := context.WithTimeout(ctx, budget)
	defer cancel()

	type outcome struct {
		v   T
		err error
	}
	done := make(chan outcome, 1)
	go func() {
		v, err := protect(ctx, fn)
		done <- outcome{v: v, err: err}
	}()

	select {
	case o := <-done:
		return o.v, time.Since(start), o.err
	case <-ctx.Done():
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return zero, time.Since(start), fmt.Errorf("%w: exceeded %s", ErrAgentTimeout, budget)
		}
		return zero, time.Since(start), ctx.Err()
	}
}

// protect converts panics and errors from agent code into ErrAgentFault.
func protect[T any](ctx context.Context, fn func(context.Context) (T, error)) (v T, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: panic: %v", ErrAgentFault, r)
		}
	}()

	v, err = fn(ctx)
	switch {
	case err == nil:
	case errors.Is(err, context.DeadlineExceeded):
		err = fmt.Errorf("%w: %w", ErrAgentTimeout, err)
	case errors.Is(err, context.Canceled):
	default:
		err = fmt.Errorf("%w: %w", ErrAgentFault, err)
	}
	return v, err
}
