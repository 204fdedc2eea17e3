package tui

import tea "github.com/charmbracelet/bubbletea"

// Init starts the spinner and subscribes to the session and the player lifetime.
func (b *statefulBubble) Init() tea.Cmd {
	return tea.Batch(b.spinnerC.Tick, b.waitForUpdate(), b.waitForDone())
}
