// ABOUTME: TUI initialization and control
// ABOUTME: Wraps bubbletea program for the voice changer UI
package ui

import (
	tea "github.com/charmbracelet/bubbletea"
)

// ToggleMsg requests a start/stop of the audio session
type ToggleMsg struct{}

// QuitMsg requests application shutdown
type QuitMsg struct{}

// Control holds channels for keyboard-driven session control
type Control struct {
	Toggle chan ToggleMsg
	Quit   chan QuitMsg
}

// NewControl creates a new session control handler
func NewControl() *Control {
	return &Control{
		Toggle: make(chan ToggleMsg, 10),
		Quit:   make(chan QuitMsg, 1),
	}
}

// NewModel creates a new TUI model
func NewModel(ctrl *Control) Model {
	return Model{
		deviceMode: "duplex",
		control:    ctrl,
	}
}

// Run starts the TUI
func Run(ctrl *Control) (*tea.Program, error) {
	p := tea.NewProgram(NewModel(ctrl), tea.WithAltScreen())
	return p, nil
}
