package tui

import (
	"github.com/kinogram/kino/session"
	bubblesKey "github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
)

func (b *statefulBubble) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	if uiCmd := b.notifier.Update(msg); uiCmd != nil {
		cmds = append(cmds, uiCmd)
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		b.resize(msg.Width, msg.Height)
	case snapshotMsg:
		b.setSnapshot(session.Snapshot(msg))
		cmds = append(cmds, b.waitForUpdate())
	case closedMsg, doneMsg:
		return b, tea.Quit
	case spinner.TickMsg:
		var cmd tea.Cmd
		b.spinnerC, cmd = b.spinnerC.Update(msg)
		cmds = append(cmds, cmd)
	case tea.KeyMsg:
		if bubblesKey.Matches(msg, b.keymap.forceQuit, b.keymap.quit) {
			return b, tea.Quit
		}
		cmds = append(cmds, b.updateKey(msg))
	}

	return b, tea.Batch(cmds...)
}

// updateKey applies a key press. Every key counts as a control interaction.
func (b *statefulBubble) updateKey(msg tea.KeyMsg) tea.Cmd {
	b.ctrl.OnControlInteraction()

	var cmd tea.Cmd

	switch {
	case bubblesKey.Matches(msg, b.keymap.playPause):
		b.ctrl.TogglePlay()
	case bubblesKey.Matches(msg, b.keymap.seekBack):
		b.ctrl.SeekBy(-b.options.SeekStep)
	case bubblesKey.Matches(msg, b.keymap.seekForward):
		b.ctrl.SeekBy(b.options.SeekStep)
	case bubblesKey.Matches(msg, b.keymap.volumeUp):
		b.ctrl.SetVolume(b.snapshot.Volume + b.options.VolumeStep)
	case bubblesKey.Matches(msg, b.keymap.volumeDown):
		b.ctrl.SetVolume(b.snapshot.Volume - b.options.VolumeStep)
	case bubblesKey.Matches(msg, b.keymap.mute):
		b.ctrl.ToggleMute()
	case bubblesKey.Matches(msg, b.keymap.fullscreen):
		b.ctrl.ToggleFullscreen()
	case bubblesKey.Matches(msg, b.keymap.slower):
		cmd = b.stepRate(-1)
	case bubblesKey.Matches(msg, b.keymap.faster):
		cmd = b.stepRate(1)
	case bubblesKey.Matches(msg, b.keymap.quality):
		cmd = b.switchQuality(int(msg.Runes[0] - '0'))
	case bubblesKey.Matches(msg, b.keymap.retry):
		cmd = b.retry()
	case bubblesKey.Matches(msg, b.keymap.showHelp):
		b.helpC.ShowAll = !b.helpC.ShowAll
	}

	// Render the effect right away instead of waiting for the update to arrive.
	b.setSnapshot(b.ctrl.Snapshot())
	return cmd
}
