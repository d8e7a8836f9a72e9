package puzzle

import "github.com/matzehuels/untangle/pkg/geom"

// recalculateAll rebuilds the intersection index from scratch. Every
// unordered pair of distinct, non-adjacent segments is tested once.
func (l *Level) recalculateAll() {
	before := l.count
	for _, set := range l.crossings {
		clear(set)
	}
	l.count = 0

	segs := l.g.segments
	for i, s := range segs {
		p1, p2 := l.points(s)
		for _, t := range segs[i+1:] {
			if s.Adjacent(t) {
				continue
			}
			q1, q2 := l.points(t)
			if geom.SegmentsIntersect(p1, p2, q1, q2) {
				l.crossings[s.id][t.id] = struct{}{}
				l.crossings[t.id][s.id] = struct{}{}
				l.count++
			}
		}
	}
	for _, s := range segs {
		l.refreshSegmentState(s)
	}
	l.countChanged(before)
}

// recalculateFor updates the index after v moved. Only segments attached to
// v can have gained or lost crossings, so each of them is retested against
// every other segment; pairs of untouched segments keep their entries.
func (l *Level) recalculateFor(v VertexID) {
	before := l.count
	for _, sid := range l.g.vertices[v].segments {
		s := l.g.segments[sid]
		p1, p2 := l.points(s)
		for _, t := range l.g.segments {
			if s.Adjacent(t) {
				continue
			}
			q1, q2 := l.points(t)
			crosses := geom.SegmentsIntersect(p1, p2, q1, q2)
			_, had := l.crossings[s.id][t.id]
			switch {
			case crosses && !had:
				l.addCrossing(s, t)
			case !crosses && had:
				l.removeCrossing(s, t)
			}
		}
	}
	l.countChanged(before)
}

func (l *Level) addCrossing(s, t *LineSegment) {
	l.crossings[s.id][t.id] = struct{}{}
	l.crossings[t.id][s.id] = struct{}{}
	l.count++
	l.refreshSegmentState(s)
	l.refreshSegmentState(t)
}

func (l *Level) removeCrossing(s, t *LineSegment) {
	delete(l.crossings[s.id], t.id)
	delete(l.crossings[t.id], s.id)
	l.count--
	l.refreshSegmentState(s)
	l.refreshSegmentState(t)
}

func (l *Level) countChanged(before int) {
	if l.count != before {
		l.obs.emit(Event{
			Kind:              EventIntersectionCountChanged,
			Vertex:            NoVertex,
			Segment:           -1,
			IntersectionCount: l.count,
		})
	}
}

func (l *Level) points(s *LineSegment) (geom.Point, geom.Point) {
	return l.g.vertices[s.v1].pos, l.g.vertices[s.v2].pos
}
