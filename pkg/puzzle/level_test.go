package puzzle

import (
	"errors"
	"math"
	"math/rand/v2"
	"slices"
	"testing"

	"github.com/matzehuels/untangle/pkg/geom"
)

// adjacency is a Topology backed by neighbour lists.
type adjacency [][]int

func (a adjacency) VertexCount() int      { return len(a) }
func (a adjacency) Neighbors(v int) []int { return a[v] }

func cycle(n int) adjacency {
	a := make(adjacency, n)
	for i := range n {
		j := (i + 1) % n
		a[i] = append(a[i], j)
		a[j] = append(a[j], i)
	}
	return a
}

// bowtie is a 4-cycle 0-1-2-3 drawn so that segments 0 (0-1) and 2 (2-3)
// cross once at (5,5).
func bowtie(t *testing.T) *Level {
	t.Helper()
	g := NewGraph()
	for _, p := range []geom.Point{geom.Pt(0, 0), geom.Pt(10, 10), geom.Pt(10, 0), geom.Pt(0, 10)} {
		g.AddVertex(p)
	}
	for _, e := range [][2]VertexID{{0, 1}, {1, 2}, {2, 3}, {3, 0}} {
		if _, err := g.Connect(e[0], e[1]); err != nil {
			t.Fatalf("Connect(%d, %d): %v", e[0], e[1], err)
		}
	}
	l, err := RestoreLevel(g)
	if err != nil {
		t.Fatal(err)
	}
	return l
}

func TestNewLevelErrors(t *testing.T) {
	tests := []struct {
		name    string
		topo    adjacency
		wantErr error
	}{
		{"Star", adjacency{{1, 2, 3}, {0}, {0}, {0}}, ErrNoCrossingPossible},
		{"Triangle", cycle(3), ErrNoCrossingPossible},
		{"Empty", adjacency{}, ErrNoCrossingPossible},
		{"OutOfRange", adjacency{{1}, {0, 5}}, ErrUnknownVertex},
		{"SelfLoop", adjacency{{0}}, ErrSelfLoop},
		{"Duplicate", adjacency{{1, 1}, {0, 0}}, ErrDuplicateSegment},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l, err := NewLevel(tt.topo)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("NewLevel() error = %v, want %v", err, tt.wantErr)
			}
			if l != nil {
				t.Error("NewLevel() returned a level alongside an error")
			}
		})
	}
}

func TestNewLevelIsNeverSolved(t *testing.T) {
	topos := map[string]adjacency{
		"Cycle4":  cycle(4),
		"Cycle8":  cycle(8),
		"TwoBars": {{1}, {0}, {3}, {2}},
	}
	for name, topo := range topos {
		t.Run(name, func(t *testing.T) {
			for seed := range uint64(50) {
				rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
				l, err := NewLevel(topo, WithRand(rng))
				if err != nil {
					t.Fatalf("seed %d: %v", seed, err)
				}
				if l.IsSolved() || l.IntersectionCount() == 0 {
					t.Fatalf("seed %d: level born solved", seed)
				}
			}
		})
	}
}

func TestNewLevelCircleLayout(t *testing.T) {
	topo := cycle(6)
	rng := rand.New(rand.NewPCG(1, 2))
	l, err := NewLevel(topo, WithRand(rng), WithRadius(100))
	if err != nil {
		t.Fatal(err)
	}

	var slots []float64
	for _, v := range l.Vertices() {
		if d := v.Position().Dist(geom.Point{}); math.Abs(d-100) > 1e-9 {
			t.Errorf("vertex %d at distance %v, want 100", v.ID(), d)
		}
		angle := math.Atan2(-v.Y(), v.X())
		if angle < 0 {
			angle += 2 * math.Pi
		}
		slots = append(slots, math.Round(angle/(2*math.Pi/6)))
		if v.State() != VertexNormal {
			t.Errorf("vertex %d state = %v, want normal", v.ID(), v.State())
		}
	}
	slices.Sort(slots)
	for i, s := range slots {
		if int(s)%6 != i {
			t.Fatalf("slots = %v, want one vertex per slot", slots)
		}
	}
	if l.SegmentCount() != 6 {
		t.Errorf("SegmentCount() = %d, want 6", l.SegmentCount())
	}
}

func TestNewLevelIsDeterministicPerSeed(t *testing.T) {
	build := func() []geom.Point {
		l, err := NewLevel(cycle(7), WithRand(rand.New(rand.NewPCG(42, 7))))
		if err != nil {
			t.Fatal(err)
		}
		return l.Positions()
	}
	if a, b := build(), build(); !slices.Equal(a, b) {
		t.Errorf("same seed gave different layouts:\n%v\n%v", a, b)
	}
}

func TestRestoreLevel(t *testing.T) {
	l := bowtie(t)

	if got := l.IntersectionCount(); got != 1 {
		t.Fatalf("IntersectionCount() = %d, want 1", got)
	}
	if got := l.CrossingPairs(); !slices.Equal(got, [][2]SegmentID{{0, 2}}) {
		t.Errorf("CrossingPairs() = %v, want [[0 2]]", got)
	}
	if got := l.Crossings(2); !slices.Equal(got, []SegmentID{0}) {
		t.Errorf("Crossings(2) = %v, want [0]", got)
	}
	want := []SegmentState{SegmentIntersected, SegmentNormal, SegmentIntersected, SegmentNormal}
	for i, s := range l.Segments() {
		if s.State() != want[i] {
			t.Errorf("segment %d state = %v, want %v", i, s.State(), want[i])
		}
	}
	if got := l.Positions()[1]; got != geom.Pt(10, 10) {
		t.Errorf("position of vertex 1 = %v, want (10,10)", got)
	}
	if _, err := RestoreLevel(nil); err == nil {
		t.Error("RestoreLevel(nil) succeeded")
	}
}

func TestRestoreLevelSolvedLayout(t *testing.T) {
	g := NewGraph()
	for _, p := range []geom.Point{geom.Pt(0, 0), geom.Pt(10, 0), geom.Pt(10, 10), geom.Pt(0, 10)} {
		g.AddVertex(p)
	}
	for _, e := range [][2]VertexID{{0, 1}, {1, 2}, {2, 3}, {3, 0}} {
		g.Connect(e[0], e[1])
	}
	l, err := RestoreLevel(g)
	if err != nil {
		t.Fatal(err)
	}
	if !l.IsSolved() {
		t.Errorf("square restored with %d crossings", l.IntersectionCount())
	}
}

func TestEdgesMatchSegments(t *testing.T) {
	l := bowtie(t)
	edges := l.Edges()
	for i, s := range l.Segments() {
		a, b := s.Endpoints()
		if edges[i] != [2]VertexID{a, b} {
			t.Errorf("edge %d = %v, want [%d %d]", i, edges[i], a, b)
		}
		p, q := l.SegmentPoints(s.ID())
		if p != l.Vertex(a).Position() || q != l.Vertex(b).Position() {
			t.Errorf("segment %d points do not follow its endpoints", i)
		}
	}
}
