package tui

import (
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/kinogram/kino/session"
	"github.com/kinogram/kino/source"
	tea "github.com/charmbracelet/bubbletea"
	. "github.com/smartystreets/goconvey/convey"
)

type fakeController struct {
	mu           sync.Mutex
	snapshot     session.Snapshot
	updates      chan session.Snapshot
	calls        []string
	interactions int
	qualityErr   error
}

func newFakeController() *fakeController {
	return &fakeController{
		updates: make(chan session.Snapshot, 1),
		snapshot: session.Snapshot{
			MediaID: "42",
			Movie:   source.Movie{ID: 42, Title: "Stalker", Year: 1979, Description: "A guide leads two men through the Zone."},
			Sources: source.Sources{
				"480p":  "https://cdn.test/480.m3u8",
				"720p":  "https://cdn.test/720.m3u8",
				"1080p": "https://cdn.test/1080.m3u8",
			},
			Quality:         "1080p",
			State:           session.Paused,
			Position:        90,
			Duration:        600,
			Volume:          0.5,
			Rate:            1,
			ControlsVisible: true,
		},
	}
}

func (f *fakeController) record(call string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, call)
}

func (f *fakeController) Snapshot() session.Snapshot {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.snapshot
}

func (f *fakeController) Updates() <-chan session.Snapshot { return f.updates }

func (f *fakeController) TogglePlay()       { f.record("toggle") }
func (f *fakeController) ToggleMute()       { f.record("mute") }
func (f *fakeController) ToggleFullscreen() { f.record("fullscreen") }

func (f *fakeController) SeekBy(delta float64) {
	f.record("seek")
	f.mu.Lock()
	defer f.mu.Unlock()
	f.snapshot.Position += delta
}

func (f *fakeController) SetVolume(v float64) {
	f.record("volume")
	f.mu.Lock()
	defer f.mu.Unlock()
	f.snapshot.Volume = v
}

func (f *fakeController) SetPlaybackRate(rate float64) error {
	f.record("rate")
	f.mu.Lock()
	defer f.mu.Unlock()
	f.snapshot.Rate = rate
	return nil
}

func (f *fakeController) SwitchQuality(label string) error {
	f.record("quality " + label)
	return f.qualityErr
}

func (f *fakeController) Retry() error {
	f.record("retry")
	return nil
}

func (f *fakeController) OnControlInteraction() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.interactions++
}

func (f *fakeController) recorded() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// notification runs cmd and returns the notification it produced, if any.
func notification(cmd tea.Cmd) string {
	if cmd == nil {
		return ""
	}
	msg, _ := cmd().(string)
	return msg
}

func TestKeys(t *testing.T) {
	Convey("Given an overlay on a paused session", t, func() {
		ctrl := newFakeController()
		b := newBubble(ctrl, &Options{})

		Convey("When keys are pressed", func() {
			b.Update(tea.KeyMsg{Type: tea.KeySpace})
			b.Update(tea.KeyMsg{Type: tea.KeyRight})
			b.Update(tea.KeyMsg{Type: tea.KeyLeft})
			b.Update(tea.KeyMsg{Type: tea.KeyUp})
			b.Update(runes("m"))
			b.Update(runes("f"))

			Convey("Then each should drive the controller", func() {
				So(ctrl.recorded(), ShouldResemble, []string{"toggle", "seek", "seek", "volume", "mute", "fullscreen"})
			})

			Convey("Then each should count as an interaction", func() {
				So(ctrl.interactions, ShouldEqual, 6)
			})

			Convey("Then the mirrored snapshot should follow", func() {
				So(b.snapshot.Position, ShouldEqual, 90)
				So(b.snapshot.Volume, ShouldAlmostEqual, 0.55)
			})
		})

		Convey("When a quality number is pressed", func() {
			_, cmd := b.Update(runes("2"))

			Convey("Then the quality in that position should be selected", func() {
				So(ctrl.recorded(), ShouldResemble, []string{"quality 720p"})
				So(notification(cmd), ShouldEqual, "quality 720p")
			})
		})

		Convey("When the quality number is out of range", func() {
			_, cmd := b.Update(runes("7"))

			Convey("Then nothing should be switched", func() {
				So(ctrl.recorded(), ShouldBeEmpty)
				So(notification(cmd), ShouldEqual, "no quality #7, 3 are available")
			})
		})

		Convey("When the switch is refused", func() {
			ctrl.qualityErr = errors.New("disposed")
			_, cmd := b.Update(runes("1"))
			So(notification(cmd), ShouldEqual, "quality 1080p: disposed")
		})

		Convey("When the speed keys are pressed", func() {
			b.Update(runes("]"))
			b.Update(runes("]"))
			So(b.snapshot.Rate, ShouldEqual, 1.5)

			b.Update(runes("["))
			So(b.snapshot.Rate, ShouldEqual, 1.25)
		})

		Convey("When retry is pressed outside of an error", func() {
			b.Update(runes("r"))
			So(ctrl.recorded(), ShouldBeEmpty)
		})

		Convey("When quit is pressed", func() {
			_, cmd := b.Update(runes("q"))

			Convey("Then the program should quit without an interaction", func() {
				So(cmd(), ShouldResemble, tea.Quit())
				So(ctrl.interactions, ShouldEqual, 0)
			})
		})
	})
}

func TestUpdates(t *testing.T) {
	Convey("Given an overlay", t, func() {
		ctrl := newFakeController()
		b := newBubble(ctrl, &Options{})

		Convey("When a snapshot arrives", func() {
			next := ctrl.Snapshot()
			next.State = session.Errored
			next.Error = "stream unavailable"
			_, cmd := b.Update(snapshotMsg(next))

			Convey("Then it should be mirrored and the subscription renewed", func() {
				So(b.snapshot.State, ShouldEqual, session.Errored)
				So(b.keymap.state, ShouldEqual, session.Errored)
				So(cmd, ShouldNotBeNil)
			})

			Convey("Then the error should be rendered", func() {
				So(b.View(), ShouldContainSubstring, "stream unavailable")
			})

			Convey("Then retry should be available", func() {
				b.Update(runes("r"))
				So(ctrl.recorded(), ShouldResemble, []string{"retry"})
			})
		})

		Convey("When the session stops publishing", func() {
			close(ctrl.updates)
			msg := b.waitForUpdate()()
			So(msg, ShouldResemble, closedMsg{})

			_, cmd := b.Update(msg)
			So(cmd(), ShouldResemble, tea.Quit())
		})

		Convey("When the player exits", func() {
			done := make(chan struct{})
			b = newBubble(ctrl, &Options{Done: done})
			close(done)

			So(b.waitForDone()(), ShouldResemble, doneMsg{})
		})
	})
}

func TestView(t *testing.T) {
	Convey("Given an overlay", t, func() {
		ctrl := newFakeController()
		b := newBubble(ctrl, &Options{})

		Convey("When paused", func() {
			view := b.View()

			Convey("Then it should show the title, time and indicators", func() {
				So(view, ShouldContainSubstring, "Stalker (1979)")
				So(view, ShouldContainSubstring, "1:30 / 10:00")
				So(view, ShouldContainSubstring, "50%")
				So(view, ShouldContainSubstring, "1080p")
				So(view, ShouldContainSubstring, "Zone")
			})
		})

		Convey("When playing with hidden controls", func() {
			s := ctrl.Snapshot()
			s.State = session.Playing
			s.ControlsVisible = false
			b.setSnapshot(s)

			Convey("Then only the time should remain", func() {
				view := b.View()
				So(view, ShouldContainSubstring, "1:30 / 10:00")
				So(view, ShouldNotContainSubstring, "Stalker")
			})
		})

		Convey("When switching quality", func() {
			s := ctrl.Snapshot()
			s.Switching = true
			s.Quality = "720p"
			b.setSnapshot(s)

			So(strings.Contains(b.View(), "Switching to"), ShouldBeTrue)
		})
	})
}

func TestNextRate(t *testing.T) {
	Convey("Given playback rates", t, func() {
		rates := []float64{2, 0.5, 1, 1.5, 1.25}

		r, ok := nextRate(rates, 1, 1)
		So(ok, ShouldBeTrue)
		So(r, ShouldEqual, 1.25)

		r, ok = nextRate(rates, 1, -1)
		So(ok, ShouldBeTrue)
		So(r, ShouldEqual, 0.5)

		_, ok = nextRate(rates, 2, 1)
		So(ok, ShouldBeFalse)

		_, ok = nextRate(nil, 1, 1)
		So(ok, ShouldBeFalse)
	})
}
