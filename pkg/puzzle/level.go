package puzzle

import (
	"errors"
	"fmt"
	"math"
	"math/rand/v2"
	"slices"

	"github.com/matzehuels/untangle/pkg/geom"
)

// DefaultRadius is the radius of the circle generated levels are laid out
// on.
const DefaultRadius = 300.0

// ErrNoCrossingPossible is returned by [NewLevel] when the topology has no
// two segments without a shared endpoint. Such a graph can never start in
// an intersected state, so it cannot be played.
var ErrNoCrossingPossible = errors.New("topology has no pair of independent segments")

// Topology is the adjacency-only view of a generated graph. Vertices are
// numbered 0..VertexCount()-1 and Neighbors must be symmetric: if u lists v
// then v lists u.
type Topology interface {
	VertexCount() int
	Neighbors(v int) []int
}

// Option configures level construction.
type Option func(*options)

type options struct {
	rng    *rand.Rand
	radius float64
}

// WithRand sets the random source used to shuffle the circular layout.
func WithRand(r *rand.Rand) Option {
	return func(o *options) {
		if r != nil {
			o.rng = r
		}
	}
}

// WithRadius sets the radius of the circular layout.
func WithRadius(radius float64) Option {
	return func(o *options) {
		if radius > 0 {
			o.radius = radius
		}
	}
}

// Level is the puzzle engine for one graph. It owns the vertices and
// segments and keeps the intersection index current while the hover/drag
// protocol moves things around.
//
// A Level is not safe for concurrent use. Every mutating call must come
// from a single owner; the incremental recompute in [Level.FinishDrag]
// assumes no position changes while it runs.
type Level struct {
	g         *Graph
	crossings []map[SegmentID]struct{}
	count     int
	dragged   VertexID
	hovered   VertexID
	obs       observers
}

func newLevel(g *Graph) *Level {
	g.sealed = true
	l := &Level{
		g:         g,
		crossings: make([]map[SegmentID]struct{}, len(g.segments)),
		dragged:   NoVertex,
		hovered:   NoVertex,
	}
	for i := range l.crossings {
		l.crossings[i] = make(map[SegmentID]struct{})
	}
	return l
}

// NewLevel builds a level from a generated topology.
//
// The vertices are placed on a circle (see [WithRadius]) in a random order,
// and the order is reshuffled until at least one pair of segments crosses,
// so a new level is never born solved. Topology violations are returned as
// the [Graph.Connect] errors; ErrNoCrossingPossible is returned when no
// layout could ever cross.
func NewLevel(topo Topology, opts ...Option) (*Level, error) {
	o := options{radius: DefaultRadius}
	for _, opt := range opts {
		opt(&o)
	}
	if o.rng == nil {
		o.rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}

	g := NewGraph()
	n := topo.VertexCount()
	for range n {
		g.AddVertex(geom.Point{})
	}
	for v := range n {
		for _, u := range topo.Neighbors(v) {
			if u < 0 || u >= n {
				return nil, fmt.Errorf("vertex %d: %w: %d", v, ErrUnknownVertex, u)
			}
			// Each undirected edge is listed from both sides; connect it
			// once, when the later vertex names the earlier one.
			if u > v {
				continue
			}
			if _, err := g.Connect(VertexID(v), VertexID(u)); err != nil {
				return nil, err
			}
		}
	}
	if !g.hasIndependentPair() {
		return nil, ErrNoCrossingPossible
	}

	l := newLevel(g)
	for l.count == 0 {
		l.shuffleOnCircle(o.rng, o.radius)
		l.recalculateAll()
	}
	return l, nil
}

// RestoreLevel builds a level from a graph whose vertices already carry
// their positions, e.g. a loaded save. Positions are kept exactly and the
// intersection index is computed from scratch. The level takes ownership of
// g, which is sealed against further changes.
func RestoreLevel(g *Graph) (*Level, error) {
	if g == nil {
		return nil, errors.New("nil graph")
	}
	if g.sealed {
		return nil, ErrGraphSealed
	}
	l := newLevel(g)
	l.recalculateAll()
	return l, nil
}

// shuffleOnCircle assigns the vertices to evenly spaced slots on a circle
// in a uniformly random order.
func (l *Level) shuffleOnCircle(rng *rand.Rand, radius float64) {
	n := len(l.g.vertices)
	for slot, idx := range rng.Perm(n) {
		angle := 2 * math.Pi * float64(slot) / float64(n)
		l.g.vertices[idx].pos = geom.OnCircle(angle, radius)
	}
}

// Subscribe registers fn to receive every committed change. Events raised
// by one operation are delivered synchronously after that operation
// finishes, never while it is still mutating state. The returned function
// cancels the subscription and is safe to call more than once.
func (l *Level) Subscribe(fn Listener) (cancel func()) {
	return l.obs.subscribe(fn)
}

// SubscriberCount returns the number of active subscriptions.
func (l *Level) SubscriberCount() int { return l.obs.count() }

// VertexCount returns the number of vertices.
func (l *Level) VertexCount() int { return len(l.g.vertices) }

// SegmentCount returns the number of segments.
func (l *Level) SegmentCount() int { return len(l.g.segments) }

// IntersectionCount returns the number of crossing segment pairs.
func (l *Level) IntersectionCount() int { return l.count }

// IsSolved reports whether no segments cross.
func (l *Level) IsSolved() bool { return l.count == 0 }

// IsDragging reports whether a drag is in progress.
func (l *Level) IsDragging() bool { return l.dragged != NoVertex }

// DraggedVertex returns the vertex being dragged, or NoVertex.
func (l *Level) DraggedVertex() VertexID { return l.dragged }

// HoveredVertex returns the vertex under the pointer, or NoVertex.
func (l *Level) HoveredVertex() VertexID { return l.hovered }

// Vertices returns all vertices in ID order. The vertices are read-only
// views; they change only through the level's operations.
func (l *Level) Vertices() []*Vertex { return slices.Clone(l.g.vertices) }

// Segments returns all segments in ID order.
func (l *Level) Segments() []*LineSegment { return slices.Clone(l.g.segments) }

// Vertex returns the vertex with the given ID, or nil.
func (l *Level) Vertex(id VertexID) *Vertex { return l.g.Vertex(id) }

// Segment returns the segment with the given ID, or nil.
func (l *Level) Segment(id SegmentID) *LineSegment { return l.g.Segment(id) }

// SegmentPoints returns the current endpoint positions of a segment.
func (l *Level) SegmentPoints(id SegmentID) (geom.Point, geom.Point) {
	s := l.mustSegment(id)
	return l.g.vertices[s.v1].pos, l.g.vertices[s.v2].pos
}

// Crossings returns the IDs of the segments currently recorded as crossing
// id, in ascending order.
func (l *Level) Crossings(id SegmentID) []SegmentID {
	l.mustSegment(id)
	out := make([]SegmentID, 0, len(l.crossings[id]))
	for t := range l.crossings[id] {
		out = append(out, t)
	}
	slices.Sort(out)
	return out
}

// CrossingPairs returns every recorded crossing once, as (lower, higher)
// segment ID pairs in ascending order.
func (l *Level) CrossingPairs() [][2]SegmentID {
	var pairs [][2]SegmentID
	for s, set := range l.crossings {
		for t := range set {
			if SegmentID(s) < t {
				pairs = append(pairs, [2]SegmentID{SegmentID(s), t})
			}
		}
	}
	slices.SortFunc(pairs, func(a, b [2]SegmentID) int {
		if a[0] != b[0] {
			return int(a[0] - b[0])
		}
		return int(a[1] - b[1])
	})
	return pairs
}

// Positions returns the current vertex positions indexed by VertexID.
func (l *Level) Positions() []geom.Point {
	out := make([]geom.Point, len(l.g.vertices))
	for i, v := range l.g.vertices {
		out[i] = v.pos
	}
	return out
}

// Edges returns the endpoints of every segment indexed by SegmentID.
func (l *Level) Edges() [][2]VertexID {
	out := make([][2]VertexID, len(l.g.segments))
	for i, s := range l.g.segments {
		out[i] = [2]VertexID{s.v1, s.v2}
	}
	return out
}

func (l *Level) mustVertex(id VertexID) *Vertex {
	v := l.g.Vertex(id)
	if v == nil {
		panic(fmt.Sprintf("puzzle: unknown vertex %d", id))
	}
	return v
}

func (l *Level) mustSegment(id SegmentID) *LineSegment {
	s := l.g.Segment(id)
	if s == nil {
		panic(fmt.Sprintf("puzzle: unknown segment %d", id))
	}
	return s
}
