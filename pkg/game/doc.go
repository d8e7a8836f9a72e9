// Package game ties puzzle levels into a playable sequence.
//
// A [Session] owns the current [puzzle.Level] and a level number. When the
// level reports it is solved, the session generates the next, larger level
// and swaps it in; front ends observe the swap through [Session.Subscribe]
// and re-read [Session.Level].
//
// Level n has between [MinVertices](n) and [MaxVertices](n) vertices, each
// of degree at most [MaxDegree].
package game
