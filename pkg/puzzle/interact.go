package puzzle

import (
	"fmt"

	"github.com/matzehuels/untangle/pkg/geom"
)

// SetHoveredVertex records v (or NoVertex) as the vertex under the pointer.
//
// It is a no-op when v is already hovered. While no drag is in progress the
// previous vertex leaves and v enters the UnderMouse state, moving the
// neighbourhood spotlight with it. During a drag only the pointer is
// recorded; the highlight follows once the drag finishes.
func (l *Level) SetHoveredVertex(v VertexID) {
	if v != NoVertex {
		l.mustVertex(v)
	}
	if l.hovered == v {
		return
	}
	defer l.obs.flush()

	if l.hovered != NoVertex && !l.IsDragging() {
		l.changeVertexState(l.hovered, VertexNormal)
	}
	l.hovered = v
	if l.hovered != NoVertex && !l.IsDragging() {
		l.changeVertexState(l.hovered, VertexUnderMouse)
	}
}

// StartDrag begins dragging v. Any hover highlight on another vertex is
// suppressed for the duration of the drag.
//
// StartDrag panics if a drag is already in progress or v does not exist.
func (l *Level) StartDrag(v VertexID) {
	l.mustVertex(v)
	if l.IsDragging() {
		panic(fmt.Sprintf("puzzle: StartDrag(%d) while vertex %d is being dragged", v, l.dragged))
	}
	defer l.obs.flush()

	if l.hovered != NoVertex && l.hovered != v {
		l.changeVertexState(l.hovered, VertexNormal)
	}
	l.dragged = v
	l.changeVertexState(v, VertexDragged)
}

// DragTo moves the dragged vertex to p.
//
// Segment geometry follows immediately because it is read from the
// endpoints, but the intersection index and the Intersected/Normal colouring
// are only refreshed by [Level.FinishDrag]. DragTo panics if no drag is in
// progress.
func (l *Level) DragTo(p geom.Point) {
	if !l.IsDragging() {
		panic("puzzle: DragTo without an active drag")
	}
	defer l.obs.flush()

	l.g.vertices[l.dragged].pos = p
	l.obs.emit(Event{
		Kind:              EventVertexMoved,
		Vertex:            l.dragged,
		Segment:           -1,
		IntersectionCount: l.count,
	})
}

// FinishDrag ends the drag: the vertex returns to Normal, the crossings of
// its segments are recomputed against every other segment, and the hover
// highlight is reapplied. If no crossings remain, an EventSolved is raised.
// FinishDrag panics if no drag is in progress.
func (l *Level) FinishDrag() {
	if !l.IsDragging() {
		panic("puzzle: FinishDrag without an active drag")
	}
	defer l.obs.flush()

	v := l.dragged
	l.changeVertexState(v, VertexNormal)
	l.recalculateFor(v)
	l.dragged = NoVertex

	if l.hovered != NoVertex {
		l.changeVertexState(l.hovered, VertexUnderMouse)
	}
	if l.count == 0 {
		l.obs.emit(Event{Kind: EventSolved, Vertex: v, Segment: -1})
	}
}

// changeVertexState moves v to state and applies the spotlight rules:
// entering UnderMouse or Dragged from a resting state highlights the
// neighbourhood, and returning to rest restores it.
func (l *Level) changeVertexState(v VertexID, state VertexState) {
	vx := l.g.vertices[v]
	old := vx.state
	if old == state {
		return
	}
	l.setVertexState(vx, state)

	switch {
	case state.spotlighted() && !old.spotlighted():
		for _, n := range vx.neighbors {
			if nv := l.g.vertices[n]; !nv.state.spotlighted() {
				l.setVertexState(nv, VertexConnectedToHighlighted)
			}
		}
		for _, sid := range vx.segments {
			l.setSegmentState(l.g.segments[sid], SegmentHighlighted)
		}
	case !state.spotlighted() && old.spotlighted():
		for _, n := range vx.neighbors {
			l.refreshNeighborState(l.g.vertices[n])
		}
		for _, sid := range vx.segments {
			l.refreshSegmentState(l.g.segments[sid])
		}
	}
}

// refreshNeighborState recomputes the state of a vertex whose spotlighted
// neighbour just went back to rest.
func (l *Level) refreshNeighborState(v *Vertex) {
	if v.state.spotlighted() {
		return
	}
	for _, n := range v.neighbors {
		if l.g.vertices[n].state.spotlighted() {
			l.setVertexState(v, VertexConnectedToHighlighted)
			return
		}
	}
	l.setVertexState(v, VertexNormal)
}

// refreshSegmentState derives the display state of s: Highlighted while an
// endpoint is spotlighted, otherwise Intersected or Normal from its crossing
// set.
func (l *Level) refreshSegmentState(s *LineSegment) {
	switch {
	case l.g.vertices[s.v1].state.spotlighted() || l.g.vertices[s.v2].state.spotlighted():
		l.setSegmentState(s, SegmentHighlighted)
	case len(l.crossings[s.id]) > 0:
		l.setSegmentState(s, SegmentIntersected)
	default:
		l.setSegmentState(s, SegmentNormal)
	}
}

func (l *Level) setVertexState(v *Vertex, state VertexState) {
	if v.state == state {
		return
	}
	v.state = state
	l.obs.emit(Event{
		Kind:              EventVertexStateChanged,
		Vertex:            v.id,
		Segment:           -1,
		IntersectionCount: l.count,
	})
}

func (l *Level) setSegmentState(s *LineSegment, state SegmentState) {
	if s.state == state {
		return
	}
	s.state = state
	l.obs.emit(Event{
		Kind:              EventSegmentStateChanged,
		Vertex:            NoVertex,
		Segment:           s.id,
		IntersectionCount: l.count,
	})
}
