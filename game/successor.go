package game

import (
	"fmt"
	"slices"

	"chase/utils"
)

// LegalMoves returns the moves agent i may take. Terminal states have none.
//
// Pursuers never stop and only reverse at dead ends.
func (gs *GameState) LegalMoves(i int) []Direction {
	if gs.IsTerminal() || i < 0 || i >= len(gs.agents) {
		return []Direction{}
	}

	agent := gs.agents[i]
	possible := PossibleMoves(agent.Conf, gs.board.Walls)
	switch agent.Role {
	case Pursuer:
		possible = slices.DeleteFunc(possible, func(d Direction) bool { return d == Stop })
		if back := agent.Conf.Dir.Reverse(); len(possible) > 1 {
			possible = utils.Without(possible, back)
		}
	}
	return possible
}

// Successor returns the state reached when agent i takes move. It fails with
// ErrIllegalTransition if gs is terminal or move is not legal for the agent.
func (gs *GameState) Successor(i int, move Direction) (*GameState, error) {
	if gs.IsTerminal() {
		return nil, fmt.Errorf("%w: can't generate a successor of a terminal state", ErrIllegalTransition)
	}
	if i < 0 || i >= len(gs.agents) {
		return nil, fmt.Errorf("%w: no agent %d", ErrIllegalTransition, i)
	}
	if !slices.Contains(gs.LegalMoves(i), move) {
		return nil, fmt.Errorf("%w: %s is not legal for agent %d", ErrIllegalTransition, move, i)
	}

	b := newBuilder(gs)
	switch gs.agents[i].Role {
	case Primary:
		b.movePrimary(i, move)
		b.penalize()
		b.checkCaptures(i, true)
	case Pursuer:
		b.movePursuer(i, move)
		b.decrementTimer(i)
		b.checkCaptures(i, false)
	}
	return b.finish(i), nil
}

// builder applies the effects of one move to a private copy of its predecessor.
type builder struct {
	next  *GameState
	rules Rules
}

func newBuilder(prev *GameState) *builder {
	return &builder{next: prev.copy(), rules: prev.rules}
}

func (b *builder) movePrimary(i int, move Direction) {
	s := b.next
	for j := range s.captured {
		s.captured[j] = false
	}

	agent := &s.agents[i]
	agent.Conf = agent.Conf.Next(move.ToVector(b.rules.Speed(Primary, false)))

	pos := agent.Conf.Pos
	nearest := pos.Nearest()
	if Manhattan(At(nearest), pos) <= 0.5 {
		b.consume(nearest)
	}
}

func (b *builder) movePursuer(i int, move Direction) {
	agent := &b.next.agents[i]
	speed := b.rules.Speed(Pursuer, agent.IsScared())
	agent.Conf = agent.Conf.Next(move.ToVector(speed))
}

// consume eats whatever lies at p.
func (b *builder) consume(p Point) {
	s := b.next
	if s.food.Contains(p) && s.food.At(p) {
		s.scoreChange += b.rules.FoodReward()
		s.food = s.food.Copy()
		s.food.Set(p.X, p.Y, false)
		eaten := p
		s.foodEaten = &eaten
		if s.NumFood() == 0 && !s.lose {
			s.scoreChange += b.rules.ClearBonus()
			s.win = true
		}
	}

	if utils.FindIndex(s.capsules, p) >= 0 {
		s.capsules = utils.Without(s.capsules, p)
		eaten := p
		s.capsuleEaten = &eaten
		for j := range s.agents {
			if s.agents[j].Role == Pursuer {
				s.agents[j].ScaredTimer = b.rules.ScaredTime()
			}
		}
	}
}

func (b *builder) penalize() {
	b.next.scoreChange -= b.rules.TimePenalty()
}

// decrementTimer counts down a pursuer's vulnerability. It snaps back onto the grid as
// it recovers.
func (b *builder) decrementTimer(i int) {
	agent := &b.next.agents[i]
	if agent.ScaredTimer == 1 {
		agent.Conf.Pos = At(agent.Conf.Pos.Nearest())
	}
	agent.ScaredTimer = max(0, agent.ScaredTimer-1)
}

// checkCaptures resolves collisions between the primary agent and pursuers: every
// pursuer after a primary move, only the mover otherwise.
func (b *builder) checkCaptures(mover int, primaryMoved bool) {
	s := b.next
	primary := s.PrimaryIndex()
	if primary < 0 {
		return
	}
	at := At(s.agents[primary].Conf.Pos.Nearest())

	for j := range s.agents {
		if s.agents[j].Role != Pursuer || (!primaryMoved && j != mover) {
			continue
		}
		if Manhattan(At(s.agents[j].Conf.Pos.Nearest()), at) <= b.rules.CollisionTolerance() {
			b.collide(j)
		}
	}
}

func (b *builder) collide(j int) {
	s := b.next
	agent := &s.agents[j]
	if agent.IsScared() {
		s.scoreChange += b.rules.CaptureBonus()
		agent.Conf = agent.Start
		agent.ScaredTimer = 0
		s.captured[j] = true
		return
	}
	if !s.win {
		s.scoreChange -= b.rules.DeathPenalty()
		s.lose = true
	}
}

func (b *builder) finish(mover int) *GameState {
	s := b.next
	s.agentMoved = mover
	s.score += s.scoreChange
	b.next = nil
	return s
}
