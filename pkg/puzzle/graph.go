package puzzle

import (
	"errors"
	"fmt"

	"github.com/matzehuels/untangle/pkg/geom"
)

var (
	// ErrSelfLoop is returned by [Graph.Connect] when both endpoints are the
	// same vertex. A vertex never connects to itself.
	ErrSelfLoop = errors.New("vertex cannot be connected to itself")

	// ErrDuplicateSegment is returned by [Graph.Connect] when the two
	// vertices are already connected. At most one segment joins any
	// unordered pair; the existing segment is left intact.
	ErrDuplicateSegment = errors.New("segment between vertices already exists")

	// ErrUnknownVertex is returned by [Graph.Connect] when an endpoint does
	// not exist in the graph.
	ErrUnknownVertex = errors.New("unknown vertex")

	// ErrGraphSealed is returned when a graph is modified after a [Level]
	// took ownership of it. Level membership is immutable.
	ErrGraphSealed = errors.New("graph is owned by a level and cannot be modified")
)

// Graph is the arena holding the vertices and segments of one puzzle.
//
// Vertices and segments are addressed by dense IDs instead of pointers, so
// the symmetric vertex↔segment and vertex↔vertex references never form
// ownership cycles. A Graph is built with [Graph.AddVertex] and
// [Graph.Connect] and then handed to [RestoreLevel] (or built internally by
// [NewLevel]); from then on it is sealed.
//
// The zero value is not usable - use NewGraph.
type Graph struct {
	vertices []*Vertex
	segments []*LineSegment
	sealed   bool
}

// NewGraph creates an empty graph.
func NewGraph() *Graph {
	return &Graph{}
}

// AddVertex adds a vertex at pos and returns its ID. IDs are assigned
// sequentially from zero. AddVertex panics if the graph is sealed.
func (g *Graph) AddVertex(pos geom.Point) VertexID {
	if g.sealed {
		panic(ErrGraphSealed)
	}
	id := VertexID(len(g.vertices))
	g.vertices = append(g.vertices, newVertex(id, pos))
	return id
}

// Connect joins a and b with a new line segment and returns its ID.
//
// Returns ErrUnknownVertex if either vertex does not exist, ErrSelfLoop if
// a == b, ErrDuplicateSegment if the pair is already connected, or
// ErrGraphSealed after a level took ownership. On error the graph is
// unchanged. The adjacency maps of both vertices are updated together, so
// if a lists b then b lists a with the same segment.
func (g *Graph) Connect(a, b VertexID) (SegmentID, error) {
	if g.sealed {
		return 0, ErrGraphSealed
	}
	if !g.has(a) {
		return 0, fmt.Errorf("%w: %d", ErrUnknownVertex, a)
	}
	if !g.has(b) {
		return 0, fmt.Errorf("%w: %d", ErrUnknownVertex, b)
	}
	if a == b {
		return 0, fmt.Errorf("%w: %d", ErrSelfLoop, a)
	}
	va, vb := g.vertices[a], g.vertices[b]
	if _, exists := va.links[b]; exists {
		return 0, fmt.Errorf("%w: %d-%d", ErrDuplicateSegment, a, b)
	}

	id := SegmentID(len(g.segments))
	g.segments = append(g.segments, &LineSegment{id: id, v1: a, v2: b})

	va.links[b] = id
	va.neighbors = append(va.neighbors, b)
	va.segments = append(va.segments, id)
	vb.links[a] = id
	vb.neighbors = append(vb.neighbors, a)
	vb.segments = append(vb.segments, id)
	return id, nil
}

// VertexCount returns the number of vertices.
func (g *Graph) VertexCount() int { return len(g.vertices) }

// SegmentCount returns the number of segments.
func (g *Graph) SegmentCount() int { return len(g.segments) }

// Vertex returns the vertex with the given ID, or nil if it does not exist.
func (g *Graph) Vertex(id VertexID) *Vertex {
	if !g.has(id) {
		return nil
	}
	return g.vertices[id]
}

// Segment returns the segment with the given ID, or nil if it does not
// exist.
func (g *Graph) Segment(id SegmentID) *LineSegment {
	if id < 0 || int(id) >= len(g.segments) {
		return nil
	}
	return g.segments[id]
}

func (g *Graph) has(id VertexID) bool {
	return id >= 0 && int(id) < len(g.vertices)
}

// hasIndependentPair reports whether two segments without a shared endpoint
// exist. Without such a pair no layout can produce a crossing.
func (g *Graph) hasIndependentPair() bool {
	for i, s := range g.segments {
		for _, t := range g.segments[i+1:] {
			if !s.Adjacent(t) {
				return true
			}
		}
	}
	return false
}
