// Package generator produces the graphs untangle levels are built from:
// connected, degree-bounded and planar.
//
// Planarity is guaranteed by construction. Vertices occupy the cells of a
// grid in snake order, and every edge is drawn from a candidate set of grid
// neighbours plus one diagonal per grid square. No two candidates cross, so
// any subset of them has a crossing-free drawing: the grid itself, returned
// as [Graph.Embedding].
//
//	g, err := generator.Generate(6, 8, 4, generator.WithSeed(42))
//	if err != nil {
//		return err
//	}
//	lvl, err := puzzle.NewLevel(g)
package generator
