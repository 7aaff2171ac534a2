package display

import (
	"fmt"
	"strings"
	"time"

	"chase/game"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog/log"
)

type frameMsg struct {
	state   *game.GameState
	initial bool
}

type finishMsg struct{}

type model struct {
	state    *game.GameState
	moves    int
	finished bool
	updates  chan tea.Msg
}

func newModel(updates chan tea.Msg) model {
	return model{updates: updates}
}

func waitForUpdate(updates chan tea.Msg) tea.Cmd {
	return func() tea.Msg {
		return <-updates
	}
}

func (m model) Init() tea.Cmd {
	return waitForUpdate(m.updates)
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "q" || msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
	case frameMsg:
		m.state = msg.state
		if !msg.initial {
			m.moves++
		}
		return m, waitForUpdate(m.updates)
	case finishMsg:
		m.finished = true
		return m, tea.Quit
	}
	return m, nil
}

func (m model) View() string {
	if m.state == nil {
		return "Waiting for the game to start...\n"
	}

	var b strings.Builder
	b.WriteString(m.state.String())
	fmt.Fprintf(&b, "Moves: %d   Food left: %d\n", m.moves, m.state.NumFood())
	if m.finished {
		fmt.Fprintf(&b, "%s. Final score: %d\n", outcome(m.state), m.state.Score())
	} else {
		b.WriteString("\nPress q to quit.\n")
	}
	return b.String()
}

// TUI renders the game in the terminal with a bubbletea program. Quitting the program
// does not stop the game: later frames are dropped.
type TUI struct {
	frameTime time.Duration
	options   []tea.ProgramOption
	updates   chan tea.Msg
	quit      chan struct{}
}

func NewTUI(frameTime time.Duration, options ...tea.ProgramOption) *TUI {
	return &TUI{frameTime: frameTime, options: options}
}

func (d *TUI) Initialize(state *game.GameState) {
	d.updates = make(chan tea.Msg)
	d.quit = make(chan struct{})

	p := tea.NewProgram(newModel(d.updates), d.options...)
	go func() {
		defer close(d.quit)
		if _, err := p.Run(); err != nil {
			log.Error().Err(err).Msg("terminal display stopped")
		}
	}()

	d.send(frameMsg{state: state, initial: true})
}

func (d *TUI) Update(state *game.GameState) {
	if d.send(frameMsg{state: state}) && d.frameTime > 0 {
		time.Sleep(d.frameTime)
	}
}

// Finish shows the final frame and waits for the program to exit.
func (d *TUI) Finish() {
	if d.quit == nil {
		return
	}
	d.send(finishMsg{})
	<-d.quit
}

// send delivers msg unless the program has exited.
func (d *TUI) send(msg tea.Msg) bool {
	select {
	case d.updates <- msg:
		return true
	case <-d.quit:
		return false
	}
}
