// Package puzzle implements the untangle puzzle engine: a planar graph drawn
// with straight segments whose vertices have been scrambled, which the
// player drags back until no two segments cross.
//
// # Building a Level
//
// [NewLevel] takes any [Topology] (typically a generator graph), lays the
// vertices out on a circle in random order, and reshuffles until the layout
// has at least one crossing. [RestoreLevel] takes a [Graph] assembled with
// [Graph.AddVertex] and [Graph.Connect] and keeps its positions exactly,
// which is how saved games come back.
//
//	lvl, err := puzzle.NewLevel(topo, puzzle.WithRand(rng))
//	if err != nil {
//		return err
//	}
//	fmt.Println(lvl.IntersectionCount())
//
// # Interaction
//
// A front end reports pointer activity through four calls:
//
//   - [Level.SetHoveredVertex] when the pointer enters or leaves a vertex
//   - [Level.StartDrag] on button press over a vertex
//   - [Level.DragTo] while the pointer moves
//   - [Level.FinishDrag] on release
//
// Hovering or dragging a vertex spotlights it: its neighbours switch to
// [VertexConnectedToHighlighted] and its segments to [SegmentHighlighted].
// Crossings are recomputed only when a drag finishes, and only for the
// segments of the moved vertex.
//
// # Events
//
// [Level.Subscribe] delivers an [Event] for every committed change. Events
// raised during one call are queued and delivered after the call's state
// is consistent, so a listener may read the level freely or cancel its own
// subscription.
package puzzle
