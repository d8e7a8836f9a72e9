// Package geom provides the small amount of planar geometry the puzzle
// engine needs: points and an exact segment-crossing predicate.
//
// [SegmentsIntersect] sits on the hot path of every intersection recompute
// (it runs once per pair of segments), so it is branch-only arithmetic with
// no allocation and no floating-point tolerance. Touching endpoints and
// collinear overlap are deliberately not crossings: in an untangle puzzle
// two segments that share a vertex always meet there, and that meeting must
// never count against the player.
package geom
