package puzzle

import (
	"fmt"
	"slices"

	"github.com/matzehuels/untangle/pkg/geom"
)

// VertexID identifies a vertex within one [Graph] or [Level]. IDs are
// dense from zero and never change once assigned.
type VertexID int

// NoVertex is the VertexID used for "no vertex", e.g. when nothing is
// hovered.
const NoVertex VertexID = -1

// VertexSize is the display diameter of every vertex.
const VertexSize = 15.0

// VertexState is the interaction state of a vertex.
type VertexState int

const (
	// VertexNormal is the resting state.
	VertexNormal VertexState = iota
	// VertexUnderMouse marks the hovered vertex.
	VertexUnderMouse
	// VertexDragged marks the vertex being dragged.
	VertexDragged
	// VertexConnectedToHighlighted marks a neighbour of a hovered or
	// dragged vertex. It is only ever set as a side effect.
	VertexConnectedToHighlighted
)

var vertexStateNames = [...]string{
	VertexNormal:                 "normal",
	VertexUnderMouse:             "under_mouse",
	VertexDragged:                "dragged",
	VertexConnectedToHighlighted: "connected_to_highlighted",
}

// String returns the snake_case name of the state.
func (s VertexState) String() string {
	if s < 0 || int(s) >= len(vertexStateNames) {
		return fmt.Sprintf("VertexState(%d)", int(s))
	}
	return vertexStateNames[s]
}

// spotlighted reports whether the state highlights the vertex's
// neighbourhood.
func (s VertexState) spotlighted() bool {
	return s == VertexUnderMouse || s == VertexDragged
}

// Vertex is a node of the puzzle graph.
//
// All fields are unexported: positions and states change only through the
// owning [Level]. Adjacency is kept twice, as ordered slices for stable
// iteration and as a map for O(1) lookups; both views always agree.
type Vertex struct {
	id        VertexID
	pos       geom.Point
	state     VertexState
	neighbors []VertexID
	segments  []SegmentID
	links     map[VertexID]SegmentID
}

func newVertex(id VertexID, pos geom.Point) *Vertex {
	return &Vertex{
		id:    id,
		pos:   pos,
		state: VertexNormal,
		links: make(map[VertexID]SegmentID),
	}
}

// ID returns the vertex identifier.
func (v *Vertex) ID() VertexID { return v.id }

// Position returns the current position.
func (v *Vertex) Position() geom.Point { return v.pos }

// X returns the current X coordinate.
func (v *Vertex) X() float64 { return v.pos.X }

// Y returns the current Y coordinate.
func (v *Vertex) Y() float64 { return v.pos.Y }

// Size returns the display diameter, which is the same for every vertex.
func (v *Vertex) Size() float64 { return VertexSize }

// State returns the interaction state.
func (v *Vertex) State() VertexState { return v.state }

// ZIndex returns the stacking order derived from the state: neighbours of a
// highlighted vertex draw above resting vertices, and the hovered or
// dragged vertex draws above everything.
func (v *Vertex) ZIndex() int {
	switch v.state {
	case VertexConnectedToHighlighted:
		return 1
	case VertexDragged, VertexUnderMouse:
		return 2
	default:
		return 0
	}
}

// Degree returns the number of segments attached to the vertex.
func (v *Vertex) Degree() int { return len(v.segments) }

// ConnectedVertices returns the IDs of directly connected vertices in
// connection order. The returned slice is a copy.
func (v *Vertex) ConnectedVertices() []VertexID { return slices.Clone(v.neighbors) }

// Segments returns the IDs of attached segments in connection order. The
// returned slice is a copy.
func (v *Vertex) Segments() []SegmentID { return slices.Clone(v.segments) }

// SegmentTo returns the segment connecting v to other, if any.
func (v *Vertex) SegmentTo(other VertexID) (SegmentID, bool) {
	s, ok := v.links[other]
	return s, ok
}

// IsConnectedTo reports whether a segment joins v and other.
func (v *Vertex) IsConnectedTo(other VertexID) bool {
	_, ok := v.links[other]
	return ok
}
