package tui

import (
	"fmt"
	"strings"

	"github.com/kinogram/kino/color"
	"github.com/kinogram/kino/icon"
	"github.com/kinogram/kino/session"
	"github.com/kinogram/kino/style"
	"github.com/kinogram/kino/util"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"
	"github.com/muesli/reflow/wrap"
)

var paddingStyle = lipgloss.NewStyle().Padding(1, 2)

func (b *statefulBubble) View() string {
	var output string

	switch s := b.snapshot; {
	case s.State == session.Errored:
		output = b.viewError()
	case s.State == session.Idle, s.State == session.Loading, s.Switching:
		output = b.viewLoading()
	case !s.ControlsVisible && s.State == session.Playing:
		output = b.viewHidden()
	default:
		output = b.viewControls()
	}

	return b.notifier.View(output)
}

func (b *statefulBubble) title() string {
	title := b.snapshot.Movie.String()
	if title == "" {
		title = b.snapshot.MediaID
	}
	return style.Title(title)
}

func (b *statefulBubble) viewLoading() string {
	status := "Loading"
	if b.snapshot.Switching {
		status = "Switching to"
	}
	if q := b.snapshot.Quality; q != "" {
		status += " " + style.Fg(color.Purple)(q)
	}

	return b.renderLines(
		true,
		[]string{
			b.title(),
			"",
			b.spinnerC.View() + " " + status,
		},
	)
}

// viewHidden keeps the screen quiet while playing without interaction.
func (b *statefulBubble) viewHidden() string {
	return paddingStyle.Render(style.Faint(b.timecode()))
}

func (b *statefulBubble) viewControls() string {
	s := b.snapshot

	lines := []string{b.title(), ""}
	if s.Movie.Description != "" && s.State != session.Playing {
		lines = append(lines, style.Faint(wordwrap.String(s.Movie.Description, b.width)), "")
	}

	lines = append(lines,
		style.Truncate(b.width)(fmt.Sprintf("%s %s  %s", b.stateIcon(), style.Bold(s.State.String()), b.timecode())),
		b.progressC.ViewAs(s.Progress()),
		"",
		style.Truncate(b.width)(b.status()),
	)

	return b.renderLines(true, lines)
}

func (b *statefulBubble) viewError() string {
	message := "unknown error"
	if b.snapshot.Error != "" {
		message = b.snapshot.Error
	}

	errorStyle := lipgloss.NewStyle().Foreground(color.Red).Bold(true)
	return b.renderLines(
		true,
		[]string{
			style.ErrorTitle("Error"),
			"",
			icon.Get(icon.Fail) + " Playback failed:",
			"",
			wrap.String(errorStyle.Render(message), b.width),
		},
	)
}

func (b *statefulBubble) stateIcon() string {
	switch b.snapshot.State {
	case session.Playing:
		return icon.Get(icon.Play)
	case session.Paused:
		return icon.Get(icon.Pause)
	case session.Ended:
		return icon.Get(icon.Ended)
	default:
		return icon.Get(icon.Loading)
	}
}

func (b *statefulBubble) timecode() string {
	return util.FormatTime(b.snapshot.Position) + " / " + util.FormatTime(b.snapshot.Duration)
}

// status renders the volume, quality, speed and fullscreen indicators.
func (b *statefulBubble) status() string {
	s := b.snapshot

	volume := fmt.Sprintf("%s %d%%", icon.Get(icon.Volume), int(s.Volume*100+0.5))
	if s.Muted {
		volume = icon.Get(icon.Muted) + " muted"
	}

	parts := []string{
		volume,
		fmt.Sprintf("%s %s", icon.Get(icon.Quality), style.Fg(color.Purple)(s.Quality)),
		fmt.Sprintf("%gx", s.Rate),
	}
	if s.Fullscreen {
		parts = append(parts, icon.Get(icon.Fullscreen))
	}
	return strings.Join(parts, "   ")
}

func (b *statefulBubble) renderLines(addHelp bool, lines []string) string {
	h := len(lines)
	l := strings.Join(lines, "\n")
	if addHelp {
		if b.height > h+1 {
			l += strings.Repeat("\n", b.height-h-1)
		}
		l += "\n" + b.helpC.View(b.keymap)
	}

	return paddingStyle.Render(l)
}
