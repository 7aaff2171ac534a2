package game

type StateHash uint64

// State is the search-facing view of a game: a snapshot plus whose turn it is.
// Operations on State always return a new copy.
type State interface {
	Player() string
	LegalMoves() []Direction
	Play(Direction) State
	Hash() StateHash
	Winner() string
}

// Evaluates the game state to a score between -1 and 1 indicating how
// favorable the position is for the player to move.
type Evaluate func(State) float64
