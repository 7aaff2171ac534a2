// Package display renders games as they are played.
package display

import (
	"fmt"
	"io"
	"time"

	"chase/game"
)

// Null draws nothing. It is used for quiet and training games.
type Null struct{}

func (Null) Initialize(*game.GameState) {}
func (Null) Update(*game.GameState)     {}
func (Null) Finish()                    {}

// Text prints the board to a writer every few moves.
type Text struct {
	w         io.Writer
	every     int
	frameTime time.Duration
	moves     int
	last      *game.GameState
}

// NewText draws every n-th move to w and pauses frameTime after each frame.
func NewText(w io.Writer, every int, frameTime time.Duration) *Text {
	return &Text{w: w, every: max(every, 1), frameTime: frameTime}
}

func (t *Text) Initialize(state *game.GameState) {
	t.moves = 0
	t.last = state
	t.draw(state)
}

func (t *Text) Update(state *game.GameState) {
	t.moves++
	t.last = state
	if t.moves%t.every != 0 && !state.IsTerminal() {
		return
	}
	t.draw(state)
	if t.frameTime > 0 {
		time.Sleep(t.frameTime)
	}
}

func (t *Text) Finish() {
	if t.last == nil {
		return
	}
	fmt.Fprintf(t.w, "%s after %d moves. Final score: %d\n", outcome(t.last), t.moves, t.last.Score())
}

func (t *Text) draw(state *game.GameState) {
	fmt.Fprintln(t.w, state.String())
}

func outcome(state *game.GameState) string {
	switch {
	case state.IsWin():
		return "Primary agent wins"
	case state.IsLose():
		return "Pursuers win"
	default:
		return "Game stopped"
	}
}
