package tui

import (
	"math"
	"sort"

	"github.com/kinogram/kino/internal/ui"
	"github.com/kinogram/kino/session"
	"github.com/kinogram/kino/util"
	tea "github.com/charmbracelet/bubbletea"
)

type (
	snapshotMsg session.Snapshot
	// closedMsg means the session stopped publishing.
	closedMsg struct{}
	// doneMsg means the player went away.
	doneMsg struct{}
)

func (b *statefulBubble) waitForUpdate() tea.Cmd {
	updates := b.ctrl.Updates()
	return func() tea.Msg {
		s, ok := <-updates
		if !ok {
			return closedMsg{}
		}
		return snapshotMsg(s)
	}
}

func (b *statefulBubble) waitForDone() tea.Cmd {
	done := b.options.Done
	if done == nil {
		return nil
	}
	return func() tea.Msg {
		<-done
		return doneMsg{}
	}
}

// switchQuality selects the n-th quality, counted from 1 in the displayed order.
func (b *statefulBubble) switchQuality(n int) tea.Cmd {
	labels := b.snapshot.Sources.Labels()
	if n < 1 || n > len(labels) {
		return ui.Notify("no quality #%d, %s available", n, util.Quantify(len(labels), "is", "are"))
	}

	label := labels[n-1]
	if err := b.ctrl.SwitchQuality(label); err != nil {
		return ui.Notify("quality %s: %v", label, err)
	}
	return ui.Notify("quality %s", label)
}

// stepRate moves the playback rate by one configured step in direction dir.
func (b *statefulBubble) stepRate(dir int) tea.Cmd {
	rate, ok := nextRate(b.options.Rates, b.snapshot.Rate, dir)
	if !ok {
		return nil
	}
	if err := b.ctrl.SetPlaybackRate(rate); err != nil {
		return ui.Notify("%v", err)
	}
	return ui.Notify("speed %gx", rate)
}

func (b *statefulBubble) retry() tea.Cmd {
	if b.snapshot.State != session.Errored {
		return nil
	}
	if err := b.ctrl.Retry(); err != nil {
		return ui.Notify("retry: %v", err)
	}
	return nil
}

// nextRate returns the rate one step from current. Current need not be one of rates.
func nextRate(rates []float64, current float64, dir int) (float64, bool) {
	if len(rates) == 0 {
		return 0, false
	}

	sorted := append([]float64(nil), rates...)
	sort.Float64s(sorted)

	closest := 0
	for i, r := range sorted {
		if math.Abs(r-current) < math.Abs(sorted[closest]-current) {
			closest = i
		}
	}

	next := util.Clamp(closest+dir, 0, len(sorted)-1)
	if sorted[next] == current {
		return 0, false
	}
	return sorted[next], true
}
