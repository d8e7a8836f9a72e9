package puzzle

import (
	"math"
	"math/rand/v2"
	"slices"
	"testing"

	"github.com/matzehuels/untangle/pkg/geom"
)

func vertexStates(l *Level) []VertexState {
	var out []VertexState
	for _, v := range l.Vertices() {
		out = append(out, v.State())
	}
	return out
}

func segmentStates(l *Level) []SegmentState {
	var out []SegmentState
	for _, s := range l.Segments() {
		out = append(out, s.State())
	}
	return out
}

func TestHoverSpotlight(t *testing.T) {
	l := bowtie(t)

	l.SetHoveredVertex(0)
	wantV := []VertexState{VertexUnderMouse, VertexConnectedToHighlighted, VertexNormal, VertexConnectedToHighlighted}
	wantS := []SegmentState{SegmentHighlighted, SegmentNormal, SegmentIntersected, SegmentHighlighted}
	if got := vertexStates(l); !slices.Equal(got, wantV) {
		t.Errorf("vertex states = %v, want %v", got, wantV)
	}
	if got := segmentStates(l); !slices.Equal(got, wantS) {
		t.Errorf("segment states = %v, want %v", got, wantS)
	}

	wantZ := []int{2, 1, 0, 1}
	for i, v := range l.Vertices() {
		if v.ZIndex() != wantZ[i] {
			t.Errorf("vertex %d ZIndex() = %d, want %d", i, v.ZIndex(), wantZ[i])
		}
	}

	l.SetHoveredVertex(NoVertex)
	wantV = []VertexState{VertexNormal, VertexNormal, VertexNormal, VertexNormal}
	wantS = []SegmentState{SegmentIntersected, SegmentNormal, SegmentIntersected, SegmentNormal}
	if got := vertexStates(l); !slices.Equal(got, wantV) {
		t.Errorf("after unhover vertex states = %v, want %v", got, wantV)
	}
	if got := segmentStates(l); !slices.Equal(got, wantS) {
		t.Errorf("after unhover segment states = %v, want %v", got, wantS)
	}
}

func TestHoverMovesToNeighbor(t *testing.T) {
	l := bowtie(t)
	l.SetHoveredVertex(0)
	l.SetHoveredVertex(1)

	wantV := []VertexState{VertexConnectedToHighlighted, VertexUnderMouse, VertexConnectedToHighlighted, VertexNormal}
	wantS := []SegmentState{SegmentHighlighted, SegmentHighlighted, SegmentIntersected, SegmentNormal}
	if got := vertexStates(l); !slices.Equal(got, wantV) {
		t.Errorf("vertex states = %v, want %v", got, wantV)
	}
	if got := segmentStates(l); !slices.Equal(got, wantS) {
		t.Errorf("segment states = %v, want %v", got, wantS)
	}
}

func TestHoverSameVertexIsNoop(t *testing.T) {
	l := bowtie(t)
	l.SetHoveredVertex(2)

	var events []Event
	l.Subscribe(func(e Event) { events = append(events, e) })
	l.SetHoveredVertex(2)
	if len(events) != 0 {
		t.Errorf("re-hovering emitted %d events", len(events))
	}
}

func TestDragSolvesBowtie(t *testing.T) {
	l := bowtie(t)

	var solved, counts []int
	l.Subscribe(func(e Event) {
		switch e.Kind {
		case EventSolved:
			if l.IsDragging() || !l.IsSolved() {
				t.Errorf("solved delivered before the drag committed")
			}
			solved = append(solved, int(e.Vertex))
		case EventIntersectionCountChanged:
			counts = append(counts, e.IntersectionCount)
		}
	})

	l.SetHoveredVertex(2)
	l.StartDrag(2)
	if l.Vertex(2).State() != VertexDragged {
		t.Fatalf("dragged vertex state = %v", l.Vertex(2).State())
	}
	l.DragTo(geom.Pt(20, 20))
	if l.IntersectionCount() != 1 {
		t.Errorf("count changed during drag: %d", l.IntersectionCount())
	}
	if p, _ := l.SegmentPoints(1); p != geom.Pt(10, 10) {
		t.Errorf("segment 1 start = %v", p)
	}
	if _, q := l.SegmentPoints(1); q != geom.Pt(20, 20) {
		t.Errorf("segment 1 end = %v, want moved vertex position", q)
	}
	l.FinishDrag()

	if !l.IsSolved() {
		t.Fatalf("IntersectionCount() = %d after solving drag", l.IntersectionCount())
	}
	if !slices.Equal(counts, []int{0}) {
		t.Errorf("count events = %v, want [0]", counts)
	}
	if !slices.Equal(solved, []int{2}) {
		t.Errorf("solved events = %v, want [2]", solved)
	}
	if l.Vertex(2).State() != VertexUnderMouse {
		t.Errorf("vertex 2 state = %v, want under_mouse", l.Vertex(2).State())
	}

	// A further drag that leaves the level solved reports it again.
	l.StartDrag(2)
	l.DragTo(geom.Pt(21, 21))
	l.FinishDrag()
	if len(solved) != 2 {
		t.Errorf("solved events = %v, want two", solved)
	}
	if len(counts) != 1 {
		t.Errorf("count events = %v, want no new ones", counts)
	}
}

// convexCycle reports whether the 4-cycle 0-1-2-3 visits the circle slots
// in order, given the vertex sitting on each slot.
func convexCycle(order []VertexID) bool {
	for k := range order {
		d := (order[k] - order[(k+1)%len(order)] + 4) % 4
		if d != 1 && d != 3 {
			return false
		}
	}
	return true
}

// TestDragShuffledCycleIntoOrder lays a 4-cycle on the circle in shuffled
// order, then swaps two neighbouring vertices through a parking spot on the
// circle so that only the last drag puts the cycle in convex order.
func TestDragShuffledCycleIntoOrder(t *testing.T) {
	const n = 4
	slot := func(k float64) geom.Point {
		return geom.OnCircle(2*math.Pi*k/float64(n), DefaultRadius)
	}
	for seed := range uint64(16) {
		l, err := NewLevel(cycle(n), WithRand(rand.New(rand.NewPCG(seed, 7))))
		if err != nil {
			t.Fatal(err)
		}
		if l.IntersectionCount() != 1 {
			t.Fatalf("seed %d: IntersectionCount() = %d, want 1", seed, l.IntersectionCount())
		}

		order := make([]VertexID, n)
		for k := range n {
			order[k] = NoVertex
			for _, v := range l.Vertices() {
				if v.Position() == slot(float64(k)) {
					order[k] = v.ID()
				}
			}
			if order[k] == NoVertex {
				t.Fatalf("seed %d: no vertex on slot %d", seed, k)
			}
		}
		if convexCycle(order) {
			t.Fatalf("seed %d: level born in convex order %v", seed, order)
		}

		i := -1
		for k := range n {
			swapped := slices.Clone(order)
			swapped[k], swapped[(k+1)%n] = swapped[(k+1)%n], swapped[k]
			if convexCycle(swapped) {
				i = k
				break
			}
		}
		if i < 0 {
			t.Fatalf("seed %d: no neighbour swap untangles %v", seed, order)
		}
		a, b := order[i], order[(i+1)%n]

		var solved int
		l.Subscribe(func(e Event) {
			if e.Kind == EventSolved {
				solved++
			}
		})
		drag := func(v VertexID, p geom.Point) {
			l.SetHoveredVertex(v)
			l.StartDrag(v)
			l.DragTo(p)
			l.FinishDrag()
			l.SetHoveredVertex(NoVertex)
		}

		drag(a, slot(float64(i)-0.5))
		drag(b, slot(float64(i)))
		if l.IntersectionCount() != 1 || solved != 0 {
			t.Fatalf("seed %d: after parking count = %d, solved = %d", seed, l.IntersectionCount(), solved)
		}
		drag(a, slot(float64((i+1)%n)))

		if l.IntersectionCount() != 0 {
			t.Errorf("seed %d: IntersectionCount() = %d, want 0", seed, l.IntersectionCount())
		}
		if solved != 1 {
			t.Errorf("seed %d: solved raised %d times, want once", seed, solved)
		}
	}
}

func TestStartDragSuppressesHover(t *testing.T) {
	l := bowtie(t)
	l.SetHoveredVertex(0)
	l.StartDrag(2)

	wantV := []VertexState{VertexNormal, VertexConnectedToHighlighted, VertexDragged, VertexConnectedToHighlighted}
	if got := vertexStates(l); !slices.Equal(got, wantV) {
		t.Errorf("vertex states = %v, want %v", got, wantV)
	}

	// Hovering during a drag is recorded but not shown.
	l.SetHoveredVertex(1)
	if l.HoveredVertex() != 1 {
		t.Errorf("HoveredVertex() = %d, want 1", l.HoveredVertex())
	}
	if got := vertexStates(l); !slices.Equal(got, wantV) {
		t.Errorf("vertex states changed during drag: %v", got)
	}

	l.FinishDrag()
	wantV = []VertexState{VertexConnectedToHighlighted, VertexUnderMouse, VertexConnectedToHighlighted, VertexNormal}
	if got := vertexStates(l); !slices.Equal(got, wantV) {
		t.Errorf("after drag vertex states = %v, want %v", got, wantV)
	}
	if l.DraggedVertex() != NoVertex {
		t.Errorf("DraggedVertex() = %d after finish", l.DraggedVertex())
	}
}

func TestInteractionPanics(t *testing.T) {
	tests := []struct {
		name string
		fn   func(l *Level)
	}{
		{"DragToWithoutDrag", func(l *Level) { l.DragTo(geom.Pt(1, 1)) }},
		{"FinishWithoutDrag", func(l *Level) { l.FinishDrag() }},
		{"StartDragTwice", func(l *Level) { l.StartDrag(0); l.StartDrag(1) }},
		{"StartDragUnknown", func(l *Level) { l.StartDrag(9) }},
		{"HoverUnknown", func(l *Level) { l.SetHoveredVertex(-4) }},
		{"CrossingsUnknown", func(l *Level) { l.Crossings(12) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := bowtie(t)
			mustPanic(t, tt.name, func() { tt.fn(l) })
		})
	}
}

// TestIncrementalMatchesFullRecompute drags random vertices to random
// positions and checks that the incrementally maintained index always
// equals one rebuilt from scratch.
func TestIncrementalMatchesFullRecompute(t *testing.T) {
	rng := rand.New(rand.NewPCG(3, 11))
	topo := cycle(12)
	for i := 0; i < 12; i += 3 {
		j := (i + 5) % 12
		topo[i] = append(topo[i], j)
		topo[j] = append(topo[j], i)
	}
	l, err := NewLevel(topo, WithRand(rng))
	if err != nil {
		t.Fatal(err)
	}

	for step := range 300 {
		v := VertexID(rng.IntN(l.VertexCount()))
		if step%4 == 0 {
			l.SetHoveredVertex(v)
		}
		l.StartDrag(v)
		l.DragTo(geom.Pt(rng.Float64()*600-300, rng.Float64()*600-300))
		l.FinishDrag()
		l.SetHoveredVertex(NoVertex)

		ref := rebuild(t, l)
		if got, want := l.CrossingPairs(), ref.CrossingPairs(); !slices.Equal(got, want) {
			t.Fatalf("step %d: crossings = %v, want %v", step, got, want)
		}
		if l.IntersectionCount() != ref.IntersectionCount() {
			t.Fatalf("step %d: count = %d, want %d", step, l.IntersectionCount(), ref.IntersectionCount())
		}
		if got, want := segmentStates(l), segmentStates(ref); !slices.Equal(got, want) {
			t.Fatalf("step %d: segment states = %v, want %v", step, got, want)
		}
		if got := bruteForceCount(l); got != l.IntersectionCount() {
			t.Fatalf("step %d: brute force count = %d, index = %d", step, got, l.IntersectionCount())
		}
	}
}

func rebuild(t *testing.T, l *Level) *Level {
	t.Helper()
	g := NewGraph()
	for _, p := range l.Positions() {
		g.AddVertex(p)
	}
	for _, e := range l.Edges() {
		if _, err := g.Connect(e[0], e[1]); err != nil {
			t.Fatal(err)
		}
	}
	ref, err := RestoreLevel(g)
	if err != nil {
		t.Fatal(err)
	}
	return ref
}

func bruteForceCount(l *Level) int {
	segs := l.Segments()
	n := 0
	for i, s := range segs {
		for _, u := range segs[i+1:] {
			if s.Adjacent(u) {
				continue
			}
			p1, p2 := l.SegmentPoints(s.ID())
			p3, p4 := l.SegmentPoints(u.ID())
			if geom.SegmentsIntersect(p1, p2, p3, p4) {
				n++
			}
		}
	}
	return n
}
