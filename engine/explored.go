package engine

import (
	"sync"

	"chase/game"
)

// Explored counts the states handed to agents. It belongs to the caller, who can share
// one across games or reset it between them.
type Explored struct {
	sync.Mutex
	seen   map[game.StateHash]struct{}
	visits int
}

func NewExplored() *Explored {
	return &Explored{seen: make(map[game.StateHash]struct{})}
}

// Add records a visit and reports whether the state is new.
func (x *Explored) Add(state *game.GameState) bool {
	x.Lock()
	defer x.Unlock()

	x.visits++
	h := state.Hash()
	if _, ok := x.seen[h]; ok {
		return false
	}
	x.seen[h] = struct{}{}
	return true
}

// Len is the number of distinct states seen.
func (x *Explored) Len() int {
	x.Lock()
	defer x.Unlock()

	return len(x.seen)
}

// Visits is the number of states seen, repeats included.
func (x *Explored) Visits() int {
	x.Lock()
	defer x.Unlock()

	return x.visits
}

// Reset clears the counter and returns the number of distinct states it held.
func (x *Explored) Reset() int {
	x.Lock()
	defer x.Unlock()

	n := len(x.seen)
	x.seen = make(map[game.StateHash]struct{})
	x.visits = 0
	return n
}
