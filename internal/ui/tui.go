// ABOUTME: TUI initialization and control
// ABOUTME: Wraps the bubbletea program and command channels
package ui

import (
	tea "github.com/charmbracelet/bubbletea"
)

// Command carries a user action from the TUI to the playback loop.
type Command struct {
	TogglePause bool
	SetVolume   *int
	SetMuted    *bool
}

// Controls holds the channels the playback loop listens on.
type Controls struct {
	Commands chan Command
	Quit     chan struct{}
}

// NewControls creates the TUI-to-player channel pair.
func NewControls() *Controls {
	return &Controls{
		Commands: make(chan Command, 10),
		Quit:     make(chan struct{}, 1),
	}
}

// send forwards a command without blocking the render loop.
func (c *Controls) send(cmd Command) {
	if c == nil {
		return
	}
	select {
	case c.Commands <- cmd:
	default:
	}
}

func (c *Controls) quit() {
	if c == nil {
		return
	}
	select {
	case c.Quit <- struct{}{}:
	default:
	}
}

// NewModel creates a new TUI model
func NewModel(controls *Controls) Model {
	return Model{
		volume:   100,
		controls: controls,
	}
}

// Run starts the TUI program
func Run(controls *Controls) (*tea.Program, error) {
	p := tea.NewProgram(NewModel(controls), tea.WithAltScreen())
	return p, nil
}
