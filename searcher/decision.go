package searcher

import (
	"chase/game"
	"slices"
	"sync"

	"golang.org/x/exp/rand"
)

// decision is a search tree node for one game state. Its statistics are kept from the
// perspective of mover, the player whose move led to it, so a parent always picks the
// child with the highest score.
type decision struct {
	sync.Mutex
	parent   *decision
	mover    string
	player   string // Player to move
	hash     game.StateHash
	moves    []game.Direction // Explored moves first, in the order of children
	children []*decision
	rewards  float64
	visits   float64
}

func newDecision(parent *decision, mover string, state game.State) *decision {
	moves := slices.Clone(state.LegalMoves())
	rand.Shuffle(len(moves), func(i, j int) {
		moves[i], moves[j] = moves[j], moves[i]
	})

	return &decision{
		parent:   parent,
		mover:    mover,
		player:   state.Player(),
		hash:     state.Hash(),
		moves:    moves,
		children: make([]*decision, 0, len(moves)),
	}
}

// SelectOrExpand descends one level. It expands the next unexplored move if there is one
// and otherwise selects the child with the best UCT score. Selected and expanded children
// carry a virtual loss until backup. Terminal nodes return themselves.
func (d *decision) SelectOrExpand(state game.State) (*decision, game.State, bool) {
	d.Lock()
	defer d.Unlock()

	if len(d.moves) == 0 { // Terminal node
		return d, state, false
	}

	if len(d.children) < len(d.moves) { // Expandable node
		move := d.moves[len(d.children)]
		next := state.Play(move)
		child := newDecision(d, d.player, next)
		child.applyLoss()
		d.children = append(d.children, child)
		return child, next, false
	}

	// Fully expanded node
	ith := d.pickChild()
	child := d.children[ith]
	child.applyLoss()
	return child, state.Play(d.moves[ith]), true
}

func (d *decision) pickChild() int {
	policy := newUCT(CSquared, max(d.visits, 1))

	maxIndex := 0
	maxScore := d.children[0].score(policy)
	for i, child := range d.children[1:] {
		if score := child.score(policy); score > maxScore {
			maxScore = score
			maxIndex = i + 1
		}
	}
	return maxIndex
}

func (d *decision) applyLoss() {
	d.Lock()
	defer d.Unlock()

	d.rewards += Loss
	d.visits++
}

func (d *decision) score(policy *uct) float64 {
	d.Lock()
	defer d.Unlock()

	return policy.evaluate(d.rewards, d.visits)
}

// Backup records the outcome of an episode, reversing the virtual loss, and returns the
// parent to continue with.
func (d *decision) Backup(player string, value float64) *decision {
	d.Lock()
	defer d.Unlock()

	if d.parent != nil { // Non-root node
		d.rewards -= Loss
		d.visits--
	}

	d.rewards += reward(d.mover, player, value)
	d.visits++

	return d.parent
}

func (d *decision) Visits() float64 {
	d.Lock()
	defer d.Unlock()

	return d.visits
}

// Policy returns the visit count of each explored move.
func (d *decision) Policy() map[game.Direction]float64 {
	d.Lock()
	defer d.Unlock()

	policy := make(map[game.Direction]float64, len(d.children))
	for i, child := range d.children {
		policy[d.moves[i]] = child.Visits()
	}
	return policy
}

// find returns the descendant within depth levels whose state hash is hash.
func (d *decision) find(hash game.StateHash, depth int) *decision {
	if d.hash == hash {
		return d
	}
	if depth == 0 {
		return nil
	}
	for _, child := range d.children {
		if found := child.find(hash, depth-1); found != nil {
			return found
		}
	}
	return nil
}
