package session

import (
	"context"
	"fmt"
	"maps"
	"math"
	"slices"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/kinogram/kino/log"
	"github.com/kinogram/kino/source"
	"github.com/kinogram/kino/util"
	"github.com/samber/mo"
	"golang.org/x/sync/errgroup"
)

const (
	// seekTolerance is how far a tick may land from a pending seek target and still count as
	// the seek having landed.
	seekTolerance = 2.0
	// maxDroppedTicks bounds how many off-target ticks are dropped while a seek is pending, so
	// a seek the element never applies does not freeze the position.
	maxDroppedTicks = 5
)

// qualitySwitch is the state captured when a source swap starts and restored once the new
// source is ready.
type qualitySwitch struct {
	previous string
	position float64
	state    State
}

// Controller owns the life cycle of one playback attempt for one media item.
// All methods are safe for concurrent use; only Initialize blocks on the network.
type Controller struct {
	cfg      Config
	provider source.Provider
	store    Store
	reporter Reporter
	element  Element
	commands *commandQueue

	id     string
	log    log.Entry
	ctx    context.Context
	cancel context.CancelFunc
	loop   sync.WaitGroup
	wg     sync.WaitGroup

	mu       sync.Mutex
	disposed bool

	mediaID  string
	movie    source.Movie
	sources  source.Sources
	quality  string
	state    State
	position float64
	duration float64

	volume     float64
	muted      bool
	fullscreen bool
	rate       float64

	controlsVisible bool
	hide            schedule

	ready        bool
	loadGen      uint64
	pending      *qualitySwitch
	seekTarget   mo.Option[float64]
	dropped      int
	err          error
	lastTick     float64
	rebased      bool
	lastReported int
	lastPersist  float64
	reportSeq    uint64
	persistSeq   uint64

	updates chan Snapshot
}

// New creates an idle session. The caller must Dispose it.
func New(cfg Config, opts Options) *Controller {
	if opts.Clock == nil {
		opts.Clock = systemClock{}
	}
	if opts.Store == nil {
		opts.Store = nopStore{}
	}
	if opts.Reporter == nil {
		opts.Reporter = nopReporter{}
	}
	defaults := DefaultConfig()
	if cfg.ReportInterval <= 0 {
		cfg.ReportInterval = defaults.ReportInterval
	}
	if cfg.HideDelay <= 0 {
		cfg.HideDelay = defaults.HideDelay
	}
	if cfg.FlushTimeout <= 0 {
		cfg.FlushTimeout = defaults.FlushTimeout
	}
	if len(cfg.PlaybackRates) == 0 {
		cfg.PlaybackRates = defaults.PlaybackRates
	}

	id := uuid.NewString()
	ctx, cancel := context.WithCancel(context.Background())
	c := &Controller{
		cfg:             cfg,
		provider:        opts.Provider,
		store:           opts.Store,
		reporter:        opts.Reporter,
		element:         opts.Element,
		id:              id,
		log:             log.WithField("session", id),
		ctx:             ctx,
		cancel:          cancel,
		volume:          util.Clamp(cfg.DefaultVolume, 0, 1),
		rate:            1,
		controlsVisible: true,
		hide:            schedule{clock: opts.Clock, delay: cfg.HideDelay},
		updates:         make(chan Snapshot, 1),
	}
	c.commands = newCommandQueue(c.element, func(name string, err error) {
		c.log.Warnf("%s: %v", name, err)
	})

	c.loop.Add(1)
	go func() {
		defer c.loop.Done()
		c.commands.run()
	}()

	if events := c.element.Events(); events != nil {
		c.loop.Add(1)
		go c.listen(events)
	}

	return c
}

// ID returns the session identifier attached to remote reports.
func (c *Controller) ID() string {
	return c.id
}

// Updates delivers the latest snapshot after every change. Only the most recent snapshot is
// kept; the channel is closed on Dispose.
func (c *Controller) Updates() <-chan Snapshot {
	return c.updates
}

// Snapshot returns the current read model.
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshot()
}

// Initialize fetches metadata and sources for mediaID, selects the default quality, restores
// the locally saved position and loads the source. The state stays Idle on failure. A source
// that fails to load surfaces later through the Errored state.
func (c *Controller) Initialize(ctx context.Context, mediaID string) error {
	c.mu.Lock()
	if c.disposed {
		c.mu.Unlock()
		return ErrDisposed
	}
	if c.state != Idle || c.mediaID != "" {
		c.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrInitialized, c.mediaID)
	}
	c.mediaID = mediaID
	c.mu.Unlock()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	stop := context.AfterFunc(c.ctx, cancel)
	defer stop()

	var (
		movie   source.Movie
		sources source.Sources
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		movie, err = c.provider.Metadata(gctx, mediaID)
		return err
	})
	g.Go(func() (err error) {
		sources, err = c.provider.Sources(gctx, mediaID)
		return err
	})
	err := g.Wait()

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.disposed {
		return ErrDisposed
	}
	if err != nil {
		c.mediaID = ""
		return fmt.Errorf("initialize %s: %w", mediaID, err)
	}

	quality, ok := sources.Preferred(c.cfg.QualityPreference)
	if !ok {
		c.mediaID = ""
		return fmt.Errorf("initialize %s: %w", mediaID, ErrNoSources)
	}

	c.movie = movie
	c.sources = maps.Clone(sources)
	c.quality = quality
	c.state = Loading
	if saved, ok := c.store.Get(mediaID).Get(); ok && saved > 0 && !math.IsNaN(saved) {
		c.position = saved
	}

	c.log.Infof("%s at %s from %s", mediaID, quality, util.FormatTime(c.position))

	c.load(quality)
	c.applyVolume()
	c.notify()

	return nil
}

// Play requests playback. It is a no-op when already playing and is ignored (logged) while
// the element is not ready.
func (c *Controller) Play() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.play() {
		c.notify()
	}
}

// Pause requests a pause. It is a no-op unless playing.
func (c *Controller) Pause() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.pause() {
		c.notify()
	}
}

// TogglePlay plays when paused and pauses when playing.
func (c *Controller) TogglePlay() {
	c.mu.Lock()
	defer c.mu.Unlock()

	var changed bool
	if c.state == Playing {
		changed = c.pause()
	} else {
		changed = c.play()
	}
	if changed {
		c.notify()
	}
}

// Seek moves the position to target clamped to [0, duration]. The state is unchanged.
func (c *Controller) Seek(target float64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.disposed || c.state == Idle || math.IsNaN(target) {
		return
	}

	pos := c.clampPosition(target)
	c.position = pos
	c.rebased = true

	switch {
	case c.pending != nil:
		c.pending.position = pos
	case c.ready:
		c.seekElement(pos)
	}
	c.notify()
}

// SeekBy moves the position relative to the current one.
func (c *Controller) SeekBy(delta float64) {
	c.mu.Lock()
	target := c.position + delta
	c.mu.Unlock()

	c.Seek(target)
}

// SetVolume stores v clamped to [0,1]. It never changes the muted flag.
func (c *Controller) SetVolume(v float64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.disposed || math.IsNaN(v) {
		return
	}

	c.volume = util.Clamp(v, 0, 1)
	c.applyVolume()
	c.notify()
}

// ToggleMute flips the muted flag; the stored volume is kept for unmuting.
func (c *Controller) ToggleMute() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.disposed {
		return
	}

	c.muted = !c.muted
	c.applyVolume()
	c.notify()
}

// ToggleFullscreen flips fullscreen on the element.
func (c *Controller) ToggleFullscreen() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.disposed {
		return
	}

	c.fullscreen = !c.fullscreen
	fullscreen := c.fullscreen
	c.commands.push("fullscreen", func(e Element) error { return e.SetFullscreen(fullscreen) })
	c.notify()
}

// SetPlaybackRate applies one of the configured playback rates.
func (c *Controller) SetPlaybackRate(rate float64) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.disposed {
		return ErrDisposed
	}
	if !slices.Contains(c.cfg.PlaybackRates, rate) {
		return fmt.Errorf("%w: %v", ErrUnsupportedRate, rate)
	}

	c.rate = rate
	c.commands.push("rate", func(e Element) error { return e.SetRate(rate) })
	c.notify()
	return nil
}

// SwitchQuality swaps the source to label. Position and state are captured now and restored
// when the new source is ready; until then observers keep seeing the captured position.
func (c *Controller) SwitchQuality(label string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.disposed {
		return ErrDisposed
	}
	if !c.sources.Has(label) {
		return fmt.Errorf("%w: %q (available: %s)", ErrUnknownQuality, label, strings.Join(c.sources.Labels(), ", "))
	}
	if label == c.quality && c.pending == nil && c.state != Errored {
		return nil
	}

	c.log.Infof("switching quality %s -> %s at %s", c.quality, label, util.FormatTime(c.position))

	switch c.state {
	case Loading, Errored:
		// Nothing good to return to: behave like a fresh load of the new variant.
		c.pending = nil
		c.err = nil
		c.quality = label
		c.setState(Loading)
	default:
		previous := c.quality
		if c.pending != nil {
			previous = c.pending.previous
		}
		c.pending = &qualitySwitch{previous: previous, position: c.position, state: c.state}
		c.quality = label
	}

	c.load(label)
	c.notify()
	return nil
}

// Retry reloads the current quality after a failure.
func (c *Controller) Retry() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.disposed {
		return ErrDisposed
	}
	if c.state != Errored {
		return nil
	}

	c.log.Infof("retrying %s", c.quality)
	c.err = nil
	c.pending = nil
	c.setState(Loading)
	c.load(c.quality)
	c.notify()
	return nil
}

// OnTimeUpdate feeds a progress tick, as the element would.
func (c *Controller) OnTimeUpdate(position float64) {
	c.Dispatch(TimeUpdate{Position: position})
}

// OnControlInteraction shows the controls and restarts the inactivity timer.
func (c *Controller) OnControlInteraction() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.disposed {
		return
	}

	changed := !c.controlsVisible
	c.controlsVisible = true
	c.armHide()
	if changed {
		c.notify()
	}
}

// Dispatch applies one element event. It is the single entry point for element callbacks.
func (c *Controller) Dispatch(ev Event) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.disposed || c.state == Idle {
		return
	}

	switch ev := ev.(type) {
	case TimeUpdate:
		c.onTimeUpdate(ev.Position)
	case DurationChange:
		c.onDuration(ev.Duration)
	case Ready:
		c.onReady()
	case Started:
		if c.ready && c.pending == nil && c.state != Errored {
			c.setState(Playing)
		}
	case Stopped:
		if c.ready && c.pending == nil && c.state == Playing {
			c.setState(Paused)
		}
	case EndOfFile:
		if c.pending == nil {
			c.onEnded()
		}
	case Failed:
		c.fail(fmt.Errorf("%w: %v", ErrMediaLoad, ev.Err))
	default:
		c.log.Warnf("unknown event %T", ev)
		return
	}

	c.notify()
}

// Dispose cancels timers and fetches, flushes a final report and releases the element.
// It is idempotent.
func (c *Controller) Dispose() {
	c.mu.Lock()
	if c.disposed {
		c.mu.Unlock()
		return
	}
	c.disposed = true
	c.hide.cancel()
	c.cancel()
	close(c.updates)

	flush := c.state != Idle && c.mediaID != ""
	report := Report{MediaID: c.mediaID, Position: c.position, SessionID: c.id}
	c.mu.Unlock()

	if flush {
		c.wg.Add(1)
		go func() {
			defer c.wg.Done()

			ctx, cancel := context.WithTimeout(context.WithoutCancel(c.ctx), c.cfg.FlushTimeout)
			defer cancel()

			if err := c.reporter.Report(ctx, report); err != nil {
				c.log.Warnf("final report: %v", fmt.Errorf("%w: %v", ErrPersistence, err))
			}
		}()
	}

	c.commands.close()
	c.loop.Wait()
	if err := c.element.Close(); err != nil {
		c.log.Warnf("release element: %v", err)
	}

	c.log.Infof("disposed")
}

// Wait blocks until in-flight progress reports, including the final one sent by Dispose,
// have finished.
func (c *Controller) Wait() {
	c.wg.Wait()
}

func (c *Controller) listen(events <-chan Event) {
	defer c.loop.Done()

	for {
		select {
		case <-c.ctx.Done():
			return
		case ev, ok := <-events:
			if !ok {
				return
			}
			c.Dispatch(ev)
		}
	}
}

func (c *Controller) play() bool {
	if c.disposed || c.state == Playing {
		return false
	}

	if c.pending != nil {
		c.pending.state = Playing
		c.setState(Playing)
		return true
	}

	if !c.ready || c.state == Errored || c.state == Idle {
		c.log.Warnf("play ignored, media not ready (%s)", c.state)
		return false
	}

	if c.state == Ended {
		c.position = 0
		c.rebased = true
		c.seekElement(0)
	}

	c.commands.push("play", Element.Play)
	c.setState(Playing)
	return true
}

func (c *Controller) pause() bool {
	if c.disposed || c.state != Playing {
		return false
	}

	if c.pending != nil {
		c.pending.state = Paused
		c.setState(Paused)
		return true
	}

	c.commands.push("pause", Element.Pause)
	c.setState(Paused)
	return true
}

// setState applies a transition and its effect on control visibility: a playing session arms
// the hide timer, any other state keeps the controls up.
func (c *Controller) setState(s State) {
	if c.state == s {
		return
	}

	c.log.Debugf("%s -> %s", c.state, s)
	c.state = s

	switch s {
	case Playing:
		if c.controlsVisible {
			c.armHide()
		}
	default:
		c.hide.cancel()
		c.controlsVisible = true
	}
}

func (c *Controller) armHide() {
	c.hide.arm(c.onHide)
}

func (c *Controller) onHide(gen uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.disposed || !c.hide.take(gen) {
		return
	}

	if c.state == Playing && c.controlsVisible {
		c.controlsVisible = false
		c.notify()
	}
}

// load swaps the element's source. A load the element rejects fails the session unless a
// newer load has been issued since.
func (c *Controller) load(label string) {
	c.ready = false
	c.rebased = true
	c.seekTarget = mo.None[float64]()
	c.loadGen++

	gen, url := c.loadGen, c.sources[label]
	c.commands.push("load", func(e Element) error {
		if err := e.Load(url); err != nil {
			c.loadFailed(gen, fmt.Errorf("%w: load %s: %v", ErrMediaLoad, label, err))
		}
		return nil
	})
}

func (c *Controller) loadFailed(gen uint64, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.disposed || gen != c.loadGen {
		return
	}
	c.fail(err)
	c.notify()
}

// seekElement moves the element and holds back ticks until one lands near pos.
func (c *Controller) seekElement(pos float64) {
	c.seekTarget = mo.Some(pos)
	c.dropped = 0
	c.commands.push("seek", func(e Element) error { return e.Seek(pos) })
}

func (c *Controller) onReady() {
	c.ready = true
	c.err = nil

	if p := c.pending; p != nil {
		c.pending = nil
		c.position = c.clampPosition(p.position)
		c.rebased = true
		if c.position > 0 {
			c.seekElement(c.position)
		}
		if p.state == Playing {
			c.commands.push("resume", Element.Play)
		}
		c.log.Infof("now at %s", c.quality)
		return
	}

	if c.state != Loading {
		return
	}

	if c.position > 0 {
		c.rebased = true
		c.seekElement(c.position)
	}
	if c.cfg.Autoplay && c.play() {
		return
	}
	c.setState(Paused)
}

func (c *Controller) onDuration(d float64) {
	if math.IsNaN(d) || d < 0 {
		return
	}

	c.duration = d
	if d > 0 && c.position > d {
		c.position = d
	}
}

func (c *Controller) onTimeUpdate(raw float64) {
	// Ticks from a source that is still loading would briefly rewind the observed position.
	if !c.ready || c.pending != nil || math.IsNaN(raw) {
		return
	}

	pos := c.clampPosition(raw)

	// A fresh source reports from the start until the restoring seek lands.
	if target, ok := c.seekTarget.Get(); ok {
		if math.Abs(pos-target) > seekTolerance && c.dropped < maxDroppedTicks {
			c.dropped++
			return
		}
		c.seekTarget = mo.None[float64]()
		c.dropped = 0
	}

	if pos < c.lastTick && !c.rebased {
		c.log.Debugf("tick went backwards %.2f -> %.2f", c.lastTick, pos)
	}
	c.rebased = false
	c.lastTick = pos
	c.position = pos

	c.store.Set(c.mediaID, pos)

	second := int(math.Floor(pos))
	if second > 0 && second%c.cfg.ReportInterval == 0 && second != c.lastReported {
		c.lastReported = second
		c.report(pos)
	}
}

func (c *Controller) onEnded() {
	c.setState(Ended)

	second := int(math.Floor(c.position))
	if second > 0 && second != c.lastReported {
		c.lastReported = second
		c.report(c.position)
	}
}

// fail moves the session to Errored unless a quality switch can fall back to the variant that
// was playing before it.
func (c *Controller) fail(err error) {
	c.err = err
	c.ready = false

	if p := c.pending; p != nil && p.previous != "" && p.previous != c.quality {
		c.log.Warnf("%s failed (%v), reverting to %s", c.quality, err, p.previous)
		c.quality = p.previous
		c.pending = &qualitySwitch{position: p.position, state: p.state}
		c.load(c.quality)
		return
	}

	c.log.Errorf("%v", c.err)
	c.pending = nil
	c.setState(Errored)
}

// report sends a best-effort checkpoint. Failures are logged and never retried.
func (c *Controller) report(pos float64) {
	r := Report{MediaID: c.mediaID, Position: pos, SessionID: c.id}
	c.reportSeq++
	seq := c.reportSeq

	c.wg.Add(1)
	go func() {
		defer c.wg.Done()

		err := c.reporter.Report(c.ctx, r)

		c.mu.Lock()
		defer c.mu.Unlock()

		if err != nil {
			c.log.Warnf("%v", fmt.Errorf("%w at %.0fs: %v", ErrPersistence, r.Position, err))
			return
		}
		// Reports may complete out of order; keep the most recently issued one.
		if c.disposed || seq < c.persistSeq {
			return
		}
		c.persistSeq = seq
		c.lastPersist = r.Position
		c.notify()
	}()
}

func (c *Controller) applyVolume() {
	audible := c.volume
	if c.muted {
		audible = 0
	}
	if c.state == Idle {
		return
	}
	c.commands.push("volume", func(e Element) error { return e.SetVolume(audible) })
}

func (c *Controller) clampPosition(pos float64) float64 {
	if pos < 0 {
		return 0
	}
	if c.duration > 0 && pos > c.duration {
		return c.duration
	}
	return pos
}

func (c *Controller) snapshot() Snapshot {
	s := Snapshot{
		SessionID:       c.id,
		MediaID:         c.mediaID,
		Movie:           c.movie,
		Sources:         maps.Clone(c.sources),
		Quality:         c.quality,
		State:           c.state,
		Position:        c.position,
		Duration:        c.duration,
		Volume:          c.volume,
		Muted:           c.muted,
		Fullscreen:      c.fullscreen,
		Rate:            c.rate,
		ControlsVisible: c.controlsVisible,
		LastPersisted:   c.lastPersist,
		Switching:       c.pending != nil,
		Err:             c.err,
	}
	if c.err != nil {
		s.Error = c.err.Error()
	}
	return s
}

// notify publishes the current snapshot, replacing one the reader has not consumed yet.
// Callers hold c.mu.
func (c *Controller) notify() {
	if c.disposed {
		return
	}

	s := c.snapshot()
	select {
	case c.updates <- s:
		return
	default:
	}

	select {
	case <-c.updates:
	default:
	}

	select {
	case c.updates <- s:
	default:
	}
}
