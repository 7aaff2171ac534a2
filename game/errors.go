package game

import "errors"

var (
	// ErrIllegalTransition is returned when a successor is requested from a terminal state
	// or for a move outside the agent's legal moves.
	ErrIllegalTransition = errors.New("illegal transition")
	// ErrMapNotFound is returned when no layout file matches a name.
	ErrMapNotFound = errors.New("map not found")
	// ErrMalformedMap is returned when layout text cannot form a board.
	ErrMalformedMap = errors.New("malformed map")
)
