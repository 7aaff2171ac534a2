package agents

import (
	"errors"
	"fmt"
	"slices"
	"sort"

	"chase/engine"
	"chase/game"

	"golang.org/x/exp/rand"
)

var (
	ErrUnknownAgent = errors.New("unknown agent")
	ErrWrongRole    = errors.New("agent cannot play this role")
	ErrBadArgs      = errors.New("bad agent arguments")
)

// Factory builds an agent that plays placement index. rng is private to the agent.
type Factory func(index int, args Args, rng *rand.Rand) (engine.Agent, error)

type entry struct {
	roles   []game.Role
	factory Factory
}

// Registry maps agent kinds to their factories.
type Registry struct {
	entries map[string]entry
	rng     *rand.Rand
}

// NewRegistry creates an empty registry. Agents it builds draw their seeds from seed.
func NewRegistry(seed uint64) *Registry {
	return &Registry{
		entries: map[string]entry{},
		rng:     rand.New(rand.NewSource(seed)),
	}
}

// Default returns a registry with every built-in agent.
func Default(seed uint64) *Registry {
	r := NewRegistry(seed)
	r.Register("random", newRandom, game.Primary)
	r.Register("stop", newStop, game.Primary)
	r.Register("leftturn", newLeftTurn, game.Primary)
	r.Register("greedy", newGreedy, game.Primary)
	r.Register("randompursuer", newRandomPursuer, game.Pursuer)
	r.Register("directional", newDirectional, game.Pursuer)
	r.Register("corner", newCorner, game.Pursuer)
	r.Register("mcts", newSearch, game.Primary, game.Pursuer)
	r.Register("mcts-train", newTrainingSearch, game.Primary, game.Pursuer)
	return r
}

// Register adds or replaces kind, playable in the given roles.
func (r *Registry) Register(kind string, factory Factory, roles ...game.Role) {
	r.entries[kind] = entry{roles: roles, factory: factory}
}

// Kinds lists the registered kinds in alphabetical order.
func (r *Registry) Kinds() []string {
	kinds := make([]string, 0, len(r.entries))
	for kind := range r.entries {
		kinds = append(kinds, kind)
	}
	sort.Strings(kinds)
	return kinds
}

// New builds an agent of kind for placement index, which plays role.
func (r *Registry) New(kind string, index int, role game.Role, args Args) (engine.Agent, error) {
	e, ok := r.entries[kind]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownAgent, kind)
	}
	if !slices.Contains(e.roles, role) {
		return nil, fmt.Errorf("%w: %q cannot play %s", ErrWrongRole, kind, role)
	}
	if args == nil {
		args = Args{}
	}
	return e.factory(index, args, rand.New(rand.NewSource(r.rng.Uint64())))
}

// ForState builds one agent per placement of state: primaryKind for the primary agent and
// pursuerKind for every pursuer. Both share args.
func (r *Registry) ForState(state *game.GameState, primaryKind, pursuerKind string, args Args) ([]engine.Agent, error) {
	agents := make([]engine.Agent, state.NumAgents())
	for i := range agents {
		kind := pursuerKind
		role := state.Placement(i).Role
		if role == game.Primary {
			kind = primaryKind
		}
		agent, err := r.New(kind, i, role, args)
		if err != nil {
			return nil, fmt.Errorf("failed to create agent %d: %w", i, err)
		}
		agents[i] = agent
	}
	return agents, nil
}
