// SPDX-License-Identifier: EPL-2.0

package loader

import (
	"context"
	"log/slog"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/ik5/padsampler/bank"
	"github.com/ik5/padsampler/pad"
	"github.com/ik5/padsampler/params"
	"github.com/ik5/padsampler/preset"
)

// Status is the load phase of a pad.
type Status int

const (
	Idle Status = iota
	Loading
	Loaded
	Failed
)

func (s Status) String() string {
	switch s {
	case Idle:
		return "idle"
	case Loading:
		return "loading"
	case Loaded:
		return "loaded"
	case Failed:
		return "error"
	}
	return "unknown"
}

// State is the load state of one pad. Progress is meaningful while
// Loading, Name once Loaded and Err once Failed.
type State struct {
	Status   Status
	Progress float64
	Name     string
	Err      error
}

func (s State) terminal() bool {
	return s.Status == Loaded || s.Status == Failed
}

// Event reports the new state of a pad.
type Event struct {
	Generation uint64
	Pad        pad.ID
	State      State
}

// Options tune a Coordinator.
type Options struct {
	// Limit caps the number of sounds fetched at once. Zero means no cap.
	Limit int
	// ResetParams resets every pad's parameters when a preset load begins.
	ResetParams bool
	Logger      *slog.Logger
}

// Coordinator loads whole presets into a bank. Each LoadPreset call opens
// a new generation; results and progress of older generations are dropped
// without touching the bank or the pad states.
//
// Transitions are serialized by notifyMu, which is held while the bank,
// the parameters and the listeners are notified. Listeners see every
// transition in order and may read State, States and Generation, but must
// not start a LoadPreset themselves.
type Coordinator struct {
	loader *Loader
	bank   *bank.Bank
	params *params.Store
	opts   Options
	log    *slog.Logger

	notifyMu sync.Mutex

	mu        sync.Mutex
	gen       uint64
	states    [pad.Count]State
	listeners []func(Event)
}

func NewCoordinator(l *Loader, b *bank.Bank, p *params.Store, opts Options) *Coordinator {
	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}

	return &Coordinator{
		loader: l,
		bank:   b,
		params: p,
		opts:   opts,
		log:    log.With(slog.String("component", "loader")),
	}
}

// Subscribe adds fn to the listeners of state changes.
func (c *Coordinator) Subscribe(fn func(Event)) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.listeners = append(c.listeners, fn)
}

// Generation is the token of the most recent LoadPreset call.
func (c *Coordinator) Generation() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.gen
}

func (c *Coordinator) State(id pad.ID) State {
	if !id.Valid() {
		return State{}
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	return c.states[id.Index()]
}

// States returns the state of every pad, indexed by pad.ID.Index.
func (c *Coordinator) States() [pad.Count]State {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.states
}

// Run is one LoadPreset call in flight.
type Run struct {
	gen  uint64
	done chan struct{}
}

func (r *Run) Generation() uint64 { return r.gen }

// Done is closed once every sound of the run has finished or been dropped.
func (r *Run) Done() <-chan struct{} { return r.done }

// Wait blocks until Done is closed.
func (r *Run) Wait() { <-r.done }

// LoadPreset starts loading every sound of p and returns immediately. The
// bank is cleared and every referenced pad enters Loading. Failures stay
// confined to their pad. Canceling ctx aborts the fetches of this run.
func (c *Coordinator) LoadPreset(ctx context.Context, p preset.Preset) *Run {
	c.notifyMu.Lock()

	c.bank.Clear()
	if c.opts.ResetParams && c.params != nil {
		c.params.Reset()
	}

	var sounds []preset.Sound
	next := [pad.Count]State{}
	for _, s := range p.Sounds {
		if !s.Pad.Valid() {
			c.log.Warn("sound bound to unknown pad", slog.String("preset", p.Name), slog.String("sound", s.Name), slog.Int("pad", int(s.Pad)))
			continue
		}
		next[s.Pad.Index()] = State{Status: Loading}
		sounds = append(sounds, s)
	}

	c.mu.Lock()
	c.gen++
	gen := c.gen
	c.states = next
	c.mu.Unlock()

	for i, st := range next {
		id, _ := pad.FromIndex(i)
		c.emit(Event{Generation: gen, Pad: id, State: st})
	}
	c.notifyMu.Unlock()

	c.log.Info("loading preset",
		slog.Uint64("generation", gen),
		slog.String("preset", p.Name),
		slog.Int("sounds", len(sounds)),
	)

	run := &Run{gen: gen, done: make(chan struct{})}

	go func() {
		defer close(run.done)

		var g errgroup.Group
		if c.opts.Limit > 0 {
			g.SetLimit(c.opts.Limit)
		}
		for _, s := range sounds {
			g.Go(func() error {
				c.load(ctx, gen, s)
				return nil
			})
		}
		_ = g.Wait()
	}()

	return run
}

func (c *Coordinator) load(ctx context.Context, gen uint64, s preset.Sound) {
	if !c.current(gen) {
		c.log.Debug("skipping sound of stale generation", slog.Uint64("generation", gen), slog.String("pad", s.Pad.String()))
		return
	}

	for u := range c.loader.Load(ctx, s.Locator) {
		if !c.apply(gen, s, u) {
			return
		}
	}
}

func (c *Coordinator) current(gen uint64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.gen == gen
}

// apply records u for s if gen is still current. It returns false once the
// generation is stale, which stops the load. The first terminal outcome of
// a pad wins: a later result for the same pad, from a duplicate binding,
// is dropped so the state never leaves Loaded or Failed within a
// generation and always matches the bank.
func (c *Coordinator) apply(gen uint64, s preset.Sound, u Update) bool {
	c.notifyMu.Lock()
	defer c.notifyMu.Unlock()

	c.mu.Lock()
	if c.gen != gen {
		current := c.gen
		c.mu.Unlock()

		c.log.Debug("discarding stale load update",
			slog.Uint64("generation", gen),
			slog.Uint64("current", current),
			slog.String("pad", s.Pad.String()),
		)
		return false
	}

	i := s.Pad.Index()
	cur := c.states[i]

	if cur.terminal() {
		c.mu.Unlock()
		if u.Done() {
			c.log.Debug("dropping duplicate result for pad",
				slog.Uint64("generation", gen),
				slog.String("pad", s.Pad.String()),
				slog.String("sound", s.Name),
				slog.String("kept", cur.Status.String()),
			)
		}
		return true
	}

	var next State
	switch {
	case u.Err != nil:
		next = State{Status: Failed, Progress: u.Progress, Name: s.Name, Err: u.Err}
	case u.Buffer != nil:
		next = State{Status: Loaded, Progress: 1, Name: s.Name}
	default:
		if u.Progress <= cur.Progress {
			c.mu.Unlock()
			return true
		}
		next = State{Status: Loading, Progress: u.Progress}
	}
	c.mu.Unlock()

	// notifyMu keeps other transitions out, so the bank is filled before
	// readers can see Loaded.
	switch next.Status {
	case Failed:
		c.log.Warn("sound failed to load",
			slog.Uint64("generation", gen),
			slog.String("pad", s.Pad.String()),
			slog.String("sound", s.Name),
			slog.Any("error", u.Err),
		)
	case Loaded:
		c.bank.Put(s.Pad, u.Buffer)
	}

	c.mu.Lock()
	c.states[i] = next
	c.mu.Unlock()

	c.emit(Event{Generation: gen, Pad: s.Pad, State: next})

	return true
}

func (c *Coordinator) emit(ev Event) {
	c.mu.Lock()
	listeners := c.listeners
	c.mu.Unlock()

	for _, fn := range listeners {
		fn(ev)
	}
}
