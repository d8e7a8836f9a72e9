package geom

import (
	"math"
	"testing"
)

func TestSegmentsIntersect(t *testing.T) {
	tests := []struct {
		name           string
		p1, p2, p3, p4 Point
		want           bool
	}{
		{"X crossing", Pt(0, 0), Pt(10, 10), Pt(0, 10), Pt(10, 0), true},
		{"Plus crossing", Pt(-5, 0), Pt(5, 0), Pt(0, -5), Pt(0, 5), true},
		{"Disjoint", Pt(0, 0), Pt(1, 1), Pt(5, 5), Pt(6, 7), false},
		{"Parallel", Pt(0, 0), Pt(10, 0), Pt(0, 1), Pt(10, 1), false},
		{"SharedEndpoint", Pt(0, 0), Pt(10, 0), Pt(10, 0), Pt(10, 10), false},
		{"SharedEndpointOpposite", Pt(0, 0), Pt(10, 10), Pt(0, 0), Pt(-3, 7), false},
		{"TJunction", Pt(0, 0), Pt(10, 0), Pt(5, 0), Pt(5, 5), false},
		{"TouchInterior", Pt(5, -5), Pt(5, 0), Pt(0, 0), Pt(10, 0), false},
		{"CollinearOverlap", Pt(0, 0), Pt(10, 0), Pt(5, 0), Pt(15, 0), false},
		{"CollinearContained", Pt(0, 0), Pt(10, 0), Pt(2, 0), Pt(3, 0), false},
		{"CollinearDisjoint", Pt(0, 0), Pt(1, 0), Pt(2, 0), Pt(3, 0), false},
		{"Identical", Pt(0, 0), Pt(4, 4), Pt(0, 0), Pt(4, 4), false},
		{"CrossNearEnd", Pt(0, 0), Pt(10, 10), Pt(4, 5), Pt(20, 5), true},
		{"ShortOfCrossing", Pt(0, 0), Pt(4, 4), Pt(4, 5), Pt(20, 5), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SegmentsIntersect(tt.p1, tt.p2, tt.p3, tt.p4)
			if got != tt.want {
				t.Errorf("SegmentsIntersect = %v, want %v", got, tt.want)
			}
			// The predicate is symmetric in segment order and direction.
			if rev := SegmentsIntersect(tt.p4, tt.p3, tt.p2, tt.p1); rev != got {
				t.Errorf("reversed SegmentsIntersect = %v, want %v", rev, got)
			}
		})
	}
}

func TestOrientation(t *testing.T) {
	if got := Orientation(Pt(0, 0), Pt(1, 0), Pt(0, 1)); got != 1 {
		t.Errorf("Orientation ccw = %d, want 1", got)
	}
	if got := Orientation(Pt(0, 0), Pt(1, 0), Pt(0, -1)); got != -1 {
		t.Errorf("Orientation cw = %d, want -1", got)
	}
	if got := Orientation(Pt(0, 0), Pt(1, 1), Pt(3, 3)); got != 0 {
		t.Errorf("Orientation collinear = %d, want 0", got)
	}
}

func TestOnCircle(t *testing.T) {
	p := OnCircle(math.Pi/2, 300)
	if math.Abs(p.X) > 1e-9 || math.Abs(p.Y+300) > 1e-9 {
		t.Errorf("OnCircle(pi/2) = %v, want (0, -300)", p)
	}
	if d := OnCircle(1.234, 300).Dist(Point{}); math.Abs(d-300) > 1e-9 {
		t.Errorf("distance from origin = %v, want 300", d)
	}
}

func TestSegmentsIntersectAllocs(t *testing.T) {
	allocs := testing.AllocsPerRun(100, func() {
		SegmentsIntersect(Pt(0, 0), Pt(10, 10), Pt(0, 10), Pt(10, 0))
	})
	if allocs != 0 {
		t.Errorf("SegmentsIntersect allocated %v times, want 0", allocs)
	}
}
