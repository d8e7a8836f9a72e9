package puzzle

import "slices"

// EventKind identifies what changed in a level.
type EventKind int

const (
	// EventVertexMoved is emitted when the dragged vertex moves.
	EventVertexMoved EventKind = iota
	// EventVertexStateChanged is emitted when a vertex changes state.
	EventVertexStateChanged
	// EventSegmentStateChanged is emitted when a segment changes display
	// state.
	EventSegmentStateChanged
	// EventIntersectionCountChanged is emitted when the global crossing
	// count changes.
	EventIntersectionCountChanged
	// EventSolved is emitted when a drag finishes with no crossings left.
	EventSolved
)

var eventKindNames = [...]string{
	EventVertexMoved:              "vertex_moved",
	EventVertexStateChanged:       "vertex_state_changed",
	EventSegmentStateChanged:      "segment_state_changed",
	EventIntersectionCountChanged: "intersection_count_changed",
	EventSolved:                   "solved",
}

func (k EventKind) String() string {
	if k < 0 || int(k) >= len(eventKindNames) {
		return "unknown"
	}
	return eventKindNames[k]
}

// Event describes one committed change. Vertex and Segment are set only for
// the kinds they apply to (NoVertex and -1 otherwise); IntersectionCount is
// always the count after the change.
type Event struct {
	Kind              EventKind
	Vertex            VertexID
	Segment           SegmentID
	IntersectionCount int
}

// Listener receives level events.
type Listener func(Event)

type subscription struct {
	fn     Listener
	active bool
}

// observers queues events raised while an operation runs and delivers them
// once the operation has committed. Listeners may cancel themselves or
// others during delivery; a cancelled listener receives nothing further.
type observers struct {
	subs     []*subscription
	pending  []Event
	flushing bool
}

func (o *observers) subscribe(fn Listener) (cancel func()) {
	sub := &subscription{fn: fn, active: true}
	o.subs = append(o.subs, sub)
	return func() {
		if !sub.active {
			return
		}
		sub.active = false
		o.subs = slices.DeleteFunc(o.subs, func(s *subscription) bool { return s == sub })
	}
}

func (o *observers) emit(e Event) {
	if len(o.subs) == 0 {
		return
	}
	o.pending = append(o.pending, e)
}

func (o *observers) flush() {
	if o.flushing {
		return
	}
	o.flushing = true
	defer func() { o.flushing = false }()

	for len(o.pending) > 0 {
		events := o.pending
		o.pending = nil
		subs := slices.Clone(o.subs)
		for _, e := range events {
			for _, s := range subs {
				if s.active {
					s.fn(e)
				}
			}
		}
	}
}

func (o *observers) count() int { return len(o.subs) }
