package tui

import (
	"github.com/kinogram/kino/internal/ui"
	"github.com/kinogram/kino/session"
	"github.com/kinogram/kino/util"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/lipgloss"
	"github.com/samber/lo"
)

const (
	defaultSeekStep   = 10
	defaultVolumeStep = 0.05
)

// statefulBubble is the overlay model. It mirrors the latest session snapshot and turns
// key presses into controller calls.
type statefulBubble struct {
	ctrl    Controller
	options *Options

	snapshot session.Snapshot
	keymap   *statefulKeymap

	// components
	spinnerC  spinner.Model
	progressC progress.Model
	helpC     help.Model
	notifier  *ui.Model

	width, height int
}

// setSnapshot replaces the mirrored snapshot and the keymap state with it.
func (b *statefulBubble) setSnapshot(s session.Snapshot) {
	b.snapshot = s
	b.keymap.setState(s.State)
}

// resize propagates terminal dimension changes to the child components.
func (b *statefulBubble) resize(width, height int) {
	x, y := paddingStyle.GetFrameSize()

	b.width = width - x
	b.height = height - y

	b.progressC.Width = lo.Max([]int{b.width - 16, 10})
	b.helpC.Width = b.width
}

func newBubble(ctrl Controller, options *Options) *statefulBubble {
	opts := Options{}
	if options != nil {
		opts = *options
	}
	if opts.SeekStep <= 0 {
		opts.SeekStep = defaultSeekStep
	}
	if opts.VolumeStep <= 0 {
		opts.VolumeStep = defaultVolumeStep
	}
	if len(opts.Rates) == 0 {
		opts.Rates = session.DefaultConfig().PlaybackRates
	}

	bubble := statefulBubble{
		ctrl:     ctrl,
		options:  &opts,
		keymap:   newStatefulKeymap(),
		notifier: &ui.Model{},
	}

	bubble.helpC = help.New()

	bubble.spinnerC = spinner.New()
	bubble.spinnerC.Spinner = spinner.Dot
	bubble.spinnerC.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	bubble.progressC = progress.New(progress.WithDefaultGradient(), progress.WithoutPercentage())

	bubble.setSnapshot(ctrl.Snapshot())

	if w, h, err := util.TerminalSize(); err == nil {
		bubble.resize(w, h)
	} else {
		bubble.resize(80, 24)
	}

	return &bubble
}
