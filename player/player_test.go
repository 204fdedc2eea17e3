package player

import (
	"bufio"
	"encoding/json"
	"net"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/kinogram/kino/session"
	. "github.com/smartystreets/goconvey/convey"
)

func TestArgs(t *testing.T) {
	Convey("Given player options", t, func() {
		opts := Options{
			Title:   "Stalker\n(1979)",
			Headers: map[string]string{"Referer": "https://kino.test", "Cookie": "a=1,b=2"},
		}

		Convey("When building mpv arguments", func() {
			args := mpvArgs("/tmp/kino.sock", opts)

			Convey("Then the player should start idle and paused on the socket", func() {
				So(args, ShouldContain, "--input-ipc-server=/tmp/kino.sock")
				So(args, ShouldContain, "--idle=yes")
				So(args, ShouldContain, "--pause=yes")
				So(args, ShouldContain, "--keep-open=yes")
				So(args, ShouldContain, "--force-media-title=Stalker (1979)")
			})

			Convey("Then headers should be sorted and escaped", func() {
				So(args, ShouldContain, "--http-header-fields=Cookie: a=1%2Cb=2,Referer: https://kino.test")
			})
		})

		Convey("When building IINA arguments", func() {
			args := iinaArgs("/tmp/kino.sock", opts)

			Convey("Then mpv options should be forwarded", func() {
				So(args[0], ShouldEqual, "--keep-running")
				So(args, ShouldContain, "--mpv-input-ipc-server=/tmp/kino.sock")
			})
		})
	})

	Convey("Given a player name", t, func() {
		_, err := New("vlc", Options{})
		So(err, ShouldNotBeNil)

		m, err := New("IINA", Options{})
		So(err, ShouldBeNil)
		So(m.binary, ShouldEqual, "iina-cli")
	})
}

func TestSanitize(t *testing.T) {
	Convey("Media targets", t, func() {
		_, err := sanitizeMediaTarget("--script=evil.lua")
		So(err, ShouldNotBeNil)

		_, err = sanitizeMediaTarget("file:///etc/passwd")
		So(err, ShouldNotBeNil)

		_, err = sanitizeMediaTarget("https://cdn.test/a\n.m3u8")
		So(err, ShouldNotBeNil)

		target, err := sanitizeMediaTarget("  https://cdn.test/a.m3u8 ")
		So(err, ShouldBeNil)
		So(target, ShouldEqual, "https://cdn.test/a.m3u8")
	})
}

func TestTranslate(t *testing.T) {
	Convey("Given mpv event lines", t, func() {
		cases := []struct {
			line string
			want session.Event
		}{
			{`{"event":"property-change","id":1,"name":"time-pos","data":12.5}`, session.TimeUpdate{Position: 12.5}},
			{`{"event":"property-change","id":2,"name":"duration","data":600}`, session.DurationChange{Duration: 600}},
			{`{"event":"property-change","id":3,"name":"pause","data":true}`, session.Stopped{}},
			{`{"event":"property-change","id":3,"name":"pause","data":false}`, session.Started{}},
			{`{"event":"property-change","id":4,"name":"eof-reached","data":true}`, session.EndOfFile{}},
			{`{"event":"file-loaded"}`, session.Ready{}},
		}

		Convey("Then known events should be translated", func() {
			for _, c := range cases {
				ev, ok := translate([]byte(c.line))
				So(ok, ShouldBeTrue)
				So(ev, ShouldResemble, c.want)
			}
		})

		Convey("Then load errors should fail the session", func() {
			ev, ok := translate([]byte(`{"event":"end-file","reason":"error","file_error":"loading failed"}`))
			So(ok, ShouldBeTrue)
			failed, isFailed := ev.(session.Failed)
			So(isFailed, ShouldBeTrue)
			So(failed.Err.Error(), ShouldEqual, "loading failed")
		})

		Convey("Then everything else should be ignored", func() {
			for _, line := range []string{
				`{"event":"property-change","id":1,"name":"time-pos","data":null}`,
				`{"event":"property-change","id":4,"name":"eof-reached","data":false}`,
				`{"event":"end-file","reason":"stop"}`,
				`{"event":"seek"}`,
				`{"request_id":0,"error":"success"}`,
				`not json`,
			} {
				_, ok := translate([]byte(line))
				So(ok, ShouldBeFalse)
			}
		})
	})
}

// fakeMPV speaks enough of the JSON-IPC protocol to answer commands and push events.
type fakeMPV struct {
	listener net.Listener
	mu       sync.Mutex
	commands [][]any
	events   []string
}

func newFakeMPV(t *testing.T, events ...string) (*fakeMPV, string) {
	dir, err := os.MkdirTemp("", "kino")
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = os.RemoveAll(dir) })

	path := filepath.Join(dir, "mpv.sock")
	l, err := net.Listen("unix", path)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = l.Close() })

	f := &fakeMPV{listener: l, events: events}
	go f.serve()
	return f, path
}

func (f *fakeMPV) serve() {
	for {
		conn, err := f.listener.Accept()
		if err != nil {
			return
		}
		go f.handle(conn)
	}
}

func (f *fakeMPV) handle(conn net.Conn) {
	defer conn.Close()

	// Events are broadcast to every client, even ones only waiting for a reply.
	_, _ = conn.Write([]byte(`{"event":"seek"}` + "\n"))

	scanner := bufio.NewScanner(conn)
	for scanner.Scan() {
		var cmd ipcCommand
		if err := json.Unmarshal(scanner.Bytes(), &cmd); err != nil {
			return
		}

		f.mu.Lock()
		f.commands = append(f.commands, cmd.Command)
		f.mu.Unlock()

		reply := map[string]any{"request_id": cmd.RequestID, "error": "success"}
		switch cmd.Command[0] {
		case "get_property":
			reply["data"] = 42.0
		case "loadfile":
			if cmd.Command[1] == "https://cdn.test/missing.m3u8" {
				reply["error"] = "invalid parameter"
			}
		}
		line, _ := json.Marshal(reply)
		_, _ = conn.Write(append(line, '\n'))

		if cmd.Command[0] == "observe_property" && cmd.Command[2] == observed[len(observed)-1] {
			for _, ev := range f.events {
				_, _ = conn.Write([]byte(ev + "\n"))
			}
		}
	}
}

func (f *fakeMPV) sent() [][]any {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([][]any(nil), f.commands...)
}

func TestIPC(t *testing.T) {
	Convey("Given a running player", t, func() {
		fake, path := newFakeMPV(t)
		m := NewMPV(Options{})
		m.socketPath = path

		Convey("When a property is read", func() {
			data, err := m.sendCommand([]any{"get_property", "time-pos"})

			Convey("Then the reply should be matched past broadcast events", func() {
				So(err, ShouldBeNil)
				So(data, ShouldEqual, 42.0)
			})
		})

		Convey("When the session drives it", func() {
			So(m.Load("https://cdn.test/1080.m3u8"), ShouldBeNil)
			So(m.Seek(90), ShouldBeNil)
			So(m.SetVolume(0.5), ShouldBeNil)
			So(m.Play(), ShouldBeNil)

			Convey("Then the matching commands should be sent", func() {
				sent := fake.sent()
				So(len(sent), ShouldEqual, 4)
				So(sent[0], ShouldResemble, []any{"loadfile", "https://cdn.test/1080.m3u8", "replace"})
				So(sent[1], ShouldResemble, []any{"seek", 90.0, "absolute"})
				So(sent[2], ShouldResemble, []any{"set_property", "volume", 50.0})
				So(sent[3], ShouldResemble, []any{"set_property", "pause", false})
			})
		})

		Convey("When mpv rejects a command", func() {
			err := m.Load("https://cdn.test/missing.m3u8")

			Convey("Then it should not be retried", func() {
				So(err, ShouldNotBeNil)
				So(len(fake.sent()), ShouldEqual, 1)
			})
		})

		Convey("When a command is sent before start", func() {
			_, err := NewMPV(Options{}).sendCommand([]any{"quit"})
			So(err, ShouldEqual, ErrNotRunning)
		})
	})
}

func TestEventListener(t *testing.T) {
	Convey("Given a player that emits events", t, func() {
		_, path := newFakeMPV(t,
			`{"event":"file-loaded"}`,
			`{"event":"property-change","id":1,"name":"time-pos","data":3.5}`,
			`{"event":"property-change","id":1,"name":"time-pos","data":3.9}`,
			`{"event":"property-change","id":2,"name":"duration","data":600}`,
			`{"event":"property-change","id":1,"name":"time-pos","data":4.1}`,
		)

		out := make(chan session.Event, 8)
		listener := NewEventListener(path, out)
		So(listener.Start(), ShouldBeNil)
		Reset(listener.Stop)

		Convey("Then they should arrive as session events, one tick per second", func() {
			var got []session.Event
			timeout := time.After(2 * time.Second)
			for len(got) < 4 {
				select {
				case ev := <-out:
					got = append(got, ev)
				case <-timeout:
					So("timed out waiting for events", ShouldBeEmpty)
					return
				}
			}
			So(got, ShouldResemble, []session.Event{
				session.Ready{},
				session.TimeUpdate{Position: 3.5},
				session.DurationChange{Duration: 600},
				session.TimeUpdate{Position: 4.1},
			})
		})

		Convey("Then stopping should close the stream", func() {
			listener.Stop()
			for range out {
			}
			_, ok := <-out
			So(ok, ShouldBeFalse)
		})
	})
}

func TestPruneSockets(t *testing.T) {
	Convey("Given a sockets directory with a live and a stale socket", t, func() {
		_, live := newFakeMPV(t)
		dir := filepath.Dir(live)

		stale := filepath.Join(dir, "mpv-dead.sock")
		So(os.WriteFile(stale, nil, 0o600), ShouldBeNil)
		other := filepath.Join(dir, "notes.txt")
		So(os.WriteFile(other, nil, 0o600), ShouldBeNil)

		Convey("When pruning", func() {
			n, err := PruneSockets(dir)

			Convey("Then only the stale socket should be removed", func() {
				So(err, ShouldBeNil)
				So(n, ShouldEqual, 1)

				_, err = os.Stat(stale)
				So(os.IsNotExist(err), ShouldBeTrue)
				_, err = os.Stat(live)
				So(err, ShouldBeNil)
				_, err = os.Stat(other)
				So(err, ShouldBeNil)
			})
		})
	})
}
