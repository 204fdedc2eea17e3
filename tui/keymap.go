package tui

import (
	"github.com/kinogram/kino/color"
	"github.com/kinogram/kino/session"
	"github.com/kinogram/kino/style"
	"github.com/charmbracelet/bubbles/key"
)

// statefulKeymap defines the keyboard interactions available in each playback state.
type statefulKeymap struct {
	state session.State

	quit, forceQuit,
	playPause,
	seekBack, seekForward,
	volumeUp, volumeDown, mute,
	fullscreen,
	slower, faster,
	quality,
	retry,
	showHelp key.Binding
}

func (k *statefulKeymap) setState(newState session.State) {
	k.state = newState
}

func newStatefulKeymap() *statefulKeymap {
	return &statefulKeymap{
		quit: key.NewBinding(
			key.WithKeys("q", "esc"),
			key.WithHelp("q", "quit"),
		),
		forceQuit: key.NewBinding(
			key.WithKeys("ctrl+c", "ctrl+d"),
			key.WithHelp("ctrl+c", "quit"),
		),
		playPause: key.NewBinding(
			key.WithKeys(" ", "space"),
			key.WithHelp(style.Fg(color.Orange)("space"), style.Fg(color.Orange)("play/pause")),
		),
		seekBack: key.NewBinding(
			key.WithKeys("left", "h"),
			key.WithHelp("←", "-10s"),
		),
		seekForward: key.NewBinding(
			key.WithKeys("right", "l"),
			key.WithHelp("→", "+10s"),
		),
		volumeUp: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑", "volume up"),
		),
		volumeDown: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓", "volume down"),
		),
		mute: key.NewBinding(
			key.WithKeys("m"),
			key.WithHelp("m", "mute"),
		),
		fullscreen: key.NewBinding(
			key.WithKeys("f"),
			key.WithHelp("f", "fullscreen"),
		),
		slower: key.NewBinding(
			key.WithKeys("["),
			key.WithHelp("[", "slower"),
		),
		faster: key.NewBinding(
			key.WithKeys("]"),
			key.WithHelp("]", "faster"),
		),
		quality: key.NewBinding(
			key.WithKeys("1", "2", "3", "4", "5", "6", "7", "8", "9"),
			key.WithHelp("1-9", "quality"),
		),
		retry: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp(style.Fg(color.Orange)("r"), style.Fg(color.Orange)("retry")),
		),
		showHelp: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
	}
}

func (k *statefulKeymap) help() ([]key.Binding, []key.Binding) {
	h := func(bindings ...key.Binding) []key.Binding {
		return bindings
	}

	to2 := func(a []key.Binding) ([]key.Binding, []key.Binding) {
		return a, a
	}

	switch k.state {
	case session.Idle, session.Loading:
		return to2(h(k.quality, k.quit))
	case session.Errored:
		return to2(h(k.retry, k.quality, k.quit))
	case session.Ended:
		return to2(h(k.seekBack, k.quit))
	default:
		return h(k.playPause, k.seekBack, k.seekForward, k.quality, k.showHelp, k.quit),
			h(k.playPause, k.seekBack, k.seekForward, k.volumeUp, k.volumeDown, k.mute, k.fullscreen, k.slower, k.faster, k.quality, k.quit)
	}
}

func (k *statefulKeymap) ShortHelp() []key.Binding {
	short, _ := k.help()
	return short
}

func (k *statefulKeymap) FullHelp() [][]key.Binding {
	_, full := k.help()
	return [][]key.Binding{full}
}
