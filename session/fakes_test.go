package session

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/kinogram/kino/source"
	"github.com/samber/mo"
)

type fakeClock struct {
	mu     sync.Mutex
	now    time.Duration
	timers []*fakeTimer
}

type fakeTimer struct {
	clock   *fakeClock
	at      time.Duration
	f       func()
	stopped bool
}

func (c *fakeClock) AfterFunc(d time.Duration, f func()) Timer {
	c.mu.Lock()
	defer c.mu.Unlock()

	t := &fakeTimer{clock: c, at: c.now + d, f: f}
	c.timers = append(c.timers, t)
	return t
}

func (t *fakeTimer) Stop() bool {
	t.clock.mu.Lock()
	defer t.clock.mu.Unlock()

	if t.stopped {
		return false
	}
	t.stopped = true
	return true
}

// Advance moves the clock forward and runs the callbacks that became due, in order.
func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now += d

	var due, rest []*fakeTimer
	for _, t := range c.timers {
		switch {
		case t.stopped:
		case t.at <= c.now:
			t.stopped = true
			due = append(due, t)
		default:
			rest = append(rest, t)
		}
	}
	c.timers = rest
	c.mu.Unlock()

	sort.SliceStable(due, func(i, j int) bool { return due[i].at < due[j].at })
	for _, t := range due {
		t.f()
	}
}

func (c *fakeClock) Pending() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	var n int
	for _, t := range c.timers {
		if !t.stopped {
			n++
		}
	}
	return n
}

type fakeElement struct {
	mu         sync.Mutex
	loaded     []string
	seeks      []float64
	plays      int
	pauses     int
	volume     float64
	fullscreen bool
	rate       float64
	closed     int
	loadErr    error
	events     chan Event
	// hold, when set, keeps Pause from returning until it is closed.
	hold chan struct{}
}

func (e *fakeElement) Load(url string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.loadErr != nil {
		return e.loadErr
	}
	e.loaded = append(e.loaded, url)
	return nil
}

func (e *fakeElement) Play() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.plays++
	return nil
}

func (e *fakeElement) Pause() error {
	e.mu.Lock()
	hold := e.hold
	e.mu.Unlock()

	if hold != nil {
		<-hold
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	e.pauses++
	return nil
}

func (e *fakeElement) holdPause() chan struct{} {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.hold = make(chan struct{})
	return e.hold
}

func (e *fakeElement) Seek(seconds float64) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.seeks = append(e.seeks, seconds)
	return nil
}

func (e *fakeElement) SetVolume(volume float64) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.volume = volume
	return nil
}

func (e *fakeElement) SetFullscreen(fullscreen bool) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.fullscreen = fullscreen
	return nil
}

func (e *fakeElement) SetRate(rate float64) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.rate = rate
	return nil
}

func (e *fakeElement) Events() <-chan Event {
	if e.events == nil {
		return nil
	}
	return e.events
}

func (e *fakeElement) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.closed++
	return nil
}

func (e *fakeElement) lastLoaded() string {
	e.mu.Lock()
	defer e.mu.Unlock()

	if len(e.loaded) == 0 {
		return ""
	}
	return e.loaded[len(e.loaded)-1]
}

func (e *fakeElement) lastSeek() mo.Option[float64] {
	e.mu.Lock()
	defer e.mu.Unlock()

	if len(e.seeks) == 0 {
		return mo.None[float64]()
	}
	return mo.Some(e.seeks[len(e.seeks)-1])
}

type fakeProvider struct {
	movie      source.Movie
	sources    source.Sources
	metaErr    error
	sourcesErr error
	// block, when set, holds both fetches until it is closed or the context ends.
	block chan struct{}
}

func (p *fakeProvider) wait(ctx context.Context) error {
	if p.block == nil {
		return nil
	}
	select {
	case <-p.block:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (p *fakeProvider) Metadata(ctx context.Context, _ string) (source.Movie, error) {
	if err := p.wait(ctx); err != nil {
		return source.Movie{}, err
	}
	return p.movie, p.metaErr
}

func (p *fakeProvider) Sources(ctx context.Context, _ string) (source.Sources, error) {
	if err := p.wait(ctx); err != nil {
		return nil, err
	}
	return p.sources, p.sourcesErr
}

type fakeStore struct {
	mu     sync.Mutex
	values map[string]float64
	writes int
}

func newFakeStore() *fakeStore {
	return &fakeStore{values: make(map[string]float64)}
}

func (s *fakeStore) Get(mediaID string) mo.Option[float64] {
	s.mu.Lock()
	defer s.mu.Unlock()

	v, ok := s.values[mediaID]
	if !ok {
		return mo.None[float64]()
	}
	return mo.Some(v)
}

func (s *fakeStore) Set(mediaID string, seconds float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[mediaID] = seconds
	s.writes++
}

var errBackend = errors.New("backend unavailable")

type fakeReporter struct {
	mu      sync.Mutex
	reports []Report
	fail    bool
}

func (r *fakeReporter) Report(_ context.Context, report Report) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.reports = append(r.reports, report)
	if r.fail {
		return errBackend
	}
	return nil
}

func (r *fakeReporter) positions() []float64 {
	r.mu.Lock()
	defer r.mu.Unlock()

	positions := make([]float64, len(r.reports))
	for i, report := range r.reports {
		positions[i] = report.Position
	}
	return positions
}

type fixture struct {
	clock    *fakeClock
	element  *fakeElement
	provider *fakeProvider
	store    *fakeStore
	reporter *fakeReporter
	session  *Controller
}

func testSources() source.Sources {
	return source.Sources{
		"480p":  "https://cdn.test/480.m3u8",
		"720p":  "https://cdn.test/720.m3u8",
		"1080p": "https://cdn.test/1080.m3u8",
	}
}

func newFixture(sources source.Sources) *fixture {
	f := &fixture{
		clock:   &fakeClock{},
		element: &fakeElement{},
		provider: &fakeProvider{
			movie:   source.Movie{ID: 42, Title: "Stalker", Year: 1979, Duration: 161},
			sources: sources,
		},
		store:    newFakeStore(),
		reporter: &fakeReporter{},
	}
	f.session = f.build(DefaultConfig())
	return f
}

func (f *fixture) build(cfg Config) *Controller {
	return New(cfg, Options{
		Provider: f.provider,
		Store:    f.store,
		Reporter: f.reporter,
		Element:  f.element,
		Clock:    f.clock,
	})
}

// start initializes the session and makes the element ready.
func (f *fixture) start() {
	if err := f.session.Initialize(context.Background(), "42"); err != nil {
		panic(err)
	}
	f.session.Dispatch(DurationChange{Duration: 600})
	f.session.Dispatch(Ready{})
	f.settle()
}

// settle waits until the element has received every command issued so far.
func (f *fixture) settle() {
	f.session.commands.drain()
}

func (f *fixture) close() {
	f.session.Dispose()
	f.session.Wait()
}
