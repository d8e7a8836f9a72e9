package game

import (
	"errors"
	"fmt"
	"io"
	"math/rand/v2"
	"slices"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/untangle/pkg/generator"
	"github.com/matzehuels/untangle/pkg/observability"
	"github.com/matzehuels/untangle/pkg/puzzle"
)

// MaxDegree bounds the degree of every generated vertex.
const MaxDegree = 4

// MinVertices returns the smallest vertex count of level n.
func MinVertices(n int) int { return 4 + 2*n }

// MaxVertices returns the largest vertex count of level n.
func MaxVertices(n int) int { return 6 + 2*n }

// LevelFactory builds the level for a level number.
type LevelFactory func(levelNumber int, rng *rand.Rand) (*puzzle.Level, error)

// EventKind identifies a session change.
type EventKind int

const (
	// EventSolved is emitted when the current level is solved, before the
	// next level replaces it.
	EventSolved EventKind = iota
	// EventLevelNumberChanged is emitted after the level number advanced.
	EventLevelNumberChanged
	// EventLevelChanged is emitted after a new level was installed.
	EventLevelChanged
)

func (k EventKind) String() string {
	switch k {
	case EventSolved:
		return "solved"
	case EventLevelNumberChanged:
		return "level_number_changed"
	case EventLevelChanged:
		return "level_changed"
	}
	return "unknown"
}

// Event describes a session change. LevelNumber is the number the event
// refers to: the solved level for EventSolved, the new one otherwise.
type Event struct {
	Kind        EventKind
	LevelNumber int
}

// Listener receives session events.
type Listener func(Event)

// Option configures a Session.
type Option func(*options)

type options struct {
	logger  *log.Logger
	rng     *rand.Rand
	factory LevelFactory
	density float64
}

// WithLogger sets the logger. The default discards output.
func WithLogger(l *log.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithRand sets the random source used for generation and layout.
func WithRand(r *rand.Rand) Option {
	return func(o *options) {
		if r != nil {
			o.rng = r
		}
	}
}

// WithSeed seeds a dedicated random source.
func WithSeed(seed uint64) Option {
	return func(o *options) {
		o.rng = rand.New(rand.NewPCG(seed, seed^0xdeadbeef))
	}
}

// WithDensity sets the generator's spare edge probability.
func WithDensity(d float64) Option {
	return func(o *options) { o.density = d }
}

// WithLevelFactory replaces level generation, mainly for tests.
func WithLevelFactory(f LevelFactory) Option {
	return func(o *options) {
		if f != nil {
			o.factory = f
		}
	}
}

func buildOptions(opts []Option) options {
	o := options{density: generator.DefaultDensity}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	if o.rng == nil {
		o.rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	if o.factory == nil {
		o.factory = GeneratedLevel(o.density)
	}
	return o
}

// GeneratedLevel returns the default factory: a generated graph sized for
// the level number, laid out on a circle.
func GeneratedLevel(density float64) LevelFactory {
	return func(n int, rng *rand.Rand) (*puzzle.Level, error) {
		g, err := generator.Generate(MinVertices(n), MaxVertices(n), MaxDegree,
			generator.WithRand(rng), generator.WithDensity(density))
		if err != nil {
			return nil, err
		}
		return puzzle.NewLevel(g, puzzle.WithRand(rng))
	}
}

// Session is a running game. Like the level it owns, it is not safe for
// concurrent use.
type Session struct {
	opts        options
	level       *puzzle.Level
	levelNumber int
	cancel      func()
	started     time.Time
	subs        []*subscription
}

type subscription struct {
	fn     Listener
	active bool
}

// New starts a session at startLevelNumber with a freshly generated level.
func New(startLevelNumber int, opts ...Option) (*Session, error) {
	if startLevelNumber < 0 {
		return nil, fmt.Errorf("negative level number %d", startLevelNumber)
	}
	s := &Session{opts: buildOptions(opts), levelNumber: startLevelNumber}
	lvl, err := s.generate(startLevelNumber)
	if err != nil {
		return nil, err
	}
	s.install(lvl)
	return s, nil
}

// Restore resumes a session from a level rebuilt from a save.
func Restore(level *puzzle.Level, levelNumber int, opts ...Option) (*Session, error) {
	if level == nil {
		return nil, errors.New("nil level")
	}
	if levelNumber < 0 {
		return nil, fmt.Errorf("negative level number %d", levelNumber)
	}
	s := &Session{opts: buildOptions(opts), levelNumber: levelNumber}
	s.install(level)
	observability.Game().OnLevelRestored(levelNumber, level.VertexCount(), level.IntersectionCount())
	s.opts.logger.Debug("level restored",
		"level", levelNumber,
		"vertices", level.VertexCount(),
		"intersections", level.IntersectionCount())
	return s, nil
}

// Level returns the current level. It changes after every solve.
func (s *Session) Level() *puzzle.Level { return s.level }

// LevelNumber returns the current level number.
func (s *Session) LevelNumber() int { return s.levelNumber }

// Subscribe registers fn for session events and returns a function that
// cancels the subscription.
func (s *Session) Subscribe(fn Listener) (cancel func()) {
	sub := &subscription{fn: fn, active: true}
	s.subs = append(s.subs, sub)
	return func() {
		if !sub.active {
			return
		}
		sub.active = false
		s.subs = slices.DeleteFunc(s.subs, func(x *subscription) bool { return x == sub })
	}
}

// Close detaches the session from its level. The level keeps working but
// solving it no longer advances the session.
func (s *Session) Close() {
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
}

func (s *Session) generate(n int) (*puzzle.Level, error) {
	start := time.Now()
	lvl, err := s.opts.factory(n, s.opts.rng)
	if err != nil {
		observability.Game().OnLevelGenerated(n, 0, 0, 0, time.Since(start), err)
		return nil, fmt.Errorf("generate level %d: %w", n, err)
	}
	observability.Game().OnLevelGenerated(n, lvl.VertexCount(), lvl.SegmentCount(), lvl.IntersectionCount(), time.Since(start), nil)
	s.opts.logger.Debug("level generated",
		"level", n,
		"vertices", lvl.VertexCount(),
		"segments", lvl.SegmentCount(),
		"intersections", lvl.IntersectionCount(),
		"duration", time.Since(start))
	return lvl, nil
}

// install makes lvl current. The previous level's subscription is
// cancelled before the new one is made, so a stale level can never
// advance the session.
func (s *Session) install(lvl *puzzle.Level) {
	if s.cancel != nil {
		s.cancel()
	}
	s.level = lvl
	s.started = time.Now()
	s.cancel = lvl.Subscribe(func(e puzzle.Event) {
		if e.Kind == puzzle.EventSolved {
			s.onSolved(lvl)
		}
	})
}

func (s *Session) onSolved(lvl *puzzle.Level) {
	if lvl != s.level {
		return
	}
	solved := s.levelNumber
	observability.Game().OnLevelSolved(solved, time.Since(s.started))
	s.opts.logger.Info("level solved", "level", solved, "played", time.Since(s.started).Round(time.Millisecond))
	s.emit(Event{Kind: EventSolved, LevelNumber: solved})

	next, err := s.generate(solved + 1)
	if err != nil {
		s.opts.logger.Error("cannot advance", "level", solved+1, "err", err)
		return
	}
	s.levelNumber = solved + 1
	s.emit(Event{Kind: EventLevelNumberChanged, LevelNumber: s.levelNumber})
	s.install(next)
	s.emit(Event{Kind: EventLevelChanged, LevelNumber: s.levelNumber})
}

func (s *Session) emit(e Event) {
	for _, sub := range slices.Clone(s.subs) {
		if sub.active {
			sub.fn(e)
		}
	}
}
