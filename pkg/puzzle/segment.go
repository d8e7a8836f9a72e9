package puzzle

import "fmt"

// SegmentID identifies a line segment within one [Graph] or [Level].
type SegmentID int

// SegmentState is the display state of a line segment.
type SegmentState int

const (
	// SegmentNormal marks a segment that crosses nothing.
	SegmentNormal SegmentState = iota
	// SegmentIntersected marks a segment with at least one crossing.
	SegmentIntersected
	// SegmentHighlighted marks a segment attached to the hovered or dragged
	// vertex. It takes precedence over the crossing-derived states.
	SegmentHighlighted
)

var segmentStateNames = [...]string{
	SegmentNormal:      "normal",
	SegmentIntersected: "intersected",
	SegmentHighlighted: "highlighted",
}

// String returns the snake_case name of the state.
func (s SegmentState) String() string {
	if s < 0 || int(s) >= len(segmentStateNames) {
		return fmt.Sprintf("SegmentState(%d)", int(s))
	}
	return segmentStateNames[s]
}

// LineSegment is an undirected connection between two distinct vertices.
// Its endpoints are fixed at creation; its geometry is always read live from
// the endpoint vertices and never cached.
type LineSegment struct {
	id     SegmentID
	v1, v2 VertexID
	state  SegmentState
}

// ID returns the segment identifier.
func (s *LineSegment) ID() SegmentID { return s.id }

// Endpoints returns the two endpoint vertex IDs in creation order.
func (s *LineSegment) Endpoints() (VertexID, VertexID) { return s.v1, s.v2 }

// State returns the display state.
func (s *LineSegment) State() SegmentState { return s.state }

// Has reports whether v is one of the segment's endpoints.
func (s *LineSegment) Has(v VertexID) bool { return s.v1 == v || s.v2 == v }

// Other returns the endpoint opposite v. It panics if v is not an endpoint.
func (s *LineSegment) Other(v VertexID) VertexID {
	switch v {
	case s.v1:
		return s.v2
	case s.v2:
		return s.v1
	}
	panic(fmt.Sprintf("puzzle: vertex %d is not an endpoint of segment %d", v, s.id))
}

// Adjacent reports whether s and other share an endpoint. A segment is
// adjacent to itself.
func (s *LineSegment) Adjacent(other *LineSegment) bool {
	return s.Has(other.v1) || s.Has(other.v2)
}
