package geom

import "math"

// Point is a position in the plane. The Y axis grows downward, matching
// screen coordinates, but nothing in this package depends on that.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Pt is shorthand for Point{X: x, Y: y}.
func Pt(x, y float64) Point { return Point{X: x, Y: y} }

// Sub returns p - q.
func (p Point) Sub(q Point) Point { return Point{p.X - q.X, p.Y - q.Y} }

// Add returns p + q.
func (p Point) Add(q Point) Point { return Point{p.X + q.X, p.Y + q.Y} }

// Cross returns the z component of the cross product of p and q
// treated as vectors.
func (p Point) Cross(q Point) float64 { return p.X*q.Y - p.Y*q.X }

// Dist returns the Euclidean distance between p and q.
func (p Point) Dist(q Point) float64 { return math.Hypot(p.X-q.X, p.Y-q.Y) }

// OnCircle returns the point at angle (radians) on a circle of the given
// radius centred at the origin. The Y coordinate is negated so increasing
// angles run counter-clockwise on screen.
func OnCircle(angle, radius float64) Point {
	return Point{X: math.Cos(angle) * radius, Y: -math.Sin(angle) * radius}
}

// Orientation reports on which side of the directed line a→b the point c
// lies: +1 for counter-clockwise, -1 for clockwise and 0 when the three
// points are collinear.
func Orientation(a, b, c Point) int {
	v := b.Sub(a).Cross(c.Sub(a))
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	default:
		return 0
	}
}

// SegmentsIntersect reports whether the open segments p1p2 and p3p4 cross
// transversally.
//
// Only a proper crossing counts: each segment must have the endpoints of the
// other strictly on opposite sides. Segments that merely touch at an
// endpoint, form a T-junction, or lie on a common line are never reported.
// The test uses orientation signs only, so no distance tolerance is
// involved. SegmentsIntersect does not allocate.
func SegmentsIntersect(p1, p2, p3, p4 Point) bool {
	o1 := Orientation(p1, p2, p3)
	o2 := Orientation(p1, p2, p4)
	if o1 == 0 || o2 == 0 || o1 == o2 {
		return false
	}
	o3 := Orientation(p3, p4, p1)
	o4 := Orientation(p3, p4, p2)
	return o3 != 0 && o4 != 0 && o3 != o4
}
