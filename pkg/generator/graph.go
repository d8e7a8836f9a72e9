package generator

import (
	"math/rand/v2"
	"slices"

	"github.com/matzehuels/untangle/pkg/geom"
)

// Graph is a generated topology. Vertices are numbered 0..VertexCount()-1;
// adjacency is symmetric with no self loops or duplicate edges. Graph
// satisfies puzzle.Topology.
type Graph struct {
	adj       [][]int
	pos       []geom.Point
	maxDegree int
}

// VertexCount returns the number of vertices.
func (g *Graph) VertexCount() int { return len(g.adj) }

// Neighbors returns the neighbours of v in insertion order. The returned
// slice is a copy.
func (g *Graph) Neighbors(v int) []int { return slices.Clone(g.adj[v]) }

// Degree returns the number of edges at v.
func (g *Graph) Degree(v int) int { return len(g.adj[v]) }

// MaxDegree returns the degree cap the graph was generated under.
func (g *Graph) MaxDegree() int { return g.maxDegree }

// EdgeCount returns the number of undirected edges.
func (g *Graph) EdgeCount() int {
	n := 0
	for _, nb := range g.adj {
		n += len(nb)
	}
	return n / 2
}

// Edges returns every edge once as a (lower, higher) pair, sorted.
func (g *Graph) Edges() [][2]int {
	var out [][2]int
	for u, nb := range g.adj {
		for _, v := range nb {
			if u < v {
				out = append(out, [2]int{u, v})
			}
		}
	}
	slices.SortFunc(out, func(a, b [2]int) int {
		if a[0] != b[0] {
			return a[0] - b[0]
		}
		return a[1] - b[1]
	})
	return out
}

// Embedding returns a crossing-free drawing of the graph: the grid
// positions the vertices were generated on.
func (g *Graph) Embedding() []geom.Point { return slices.Clone(g.pos) }

// IsConnected reports whether every vertex is reachable from vertex 0.
func (g *Graph) IsConnected() bool {
	if len(g.adj) == 0 {
		return true
	}
	seen := make([]bool, len(g.adj))
	stack := []int{0}
	seen[0] = true
	reached := 1
	for len(stack) > 0 {
		u := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for _, v := range g.adj[u] {
			if !seen[v] {
				seen[v] = true
				reached++
				stack = append(stack, v)
			}
		}
	}
	return reached == len(g.adj)
}

func (g *Graph) has(u, v int) bool { return slices.Contains(g.adj[u], v) }

func (g *Graph) connect(u, v int) {
	g.adj[u] = append(g.adj[u], v)
	g.adj[v] = append(g.adj[v], u)
}

func (g *Graph) fits(u, v int) bool {
	return len(g.adj[u]) < g.maxDegree && len(g.adj[v]) < g.maxDegree
}

// spanningTree grows a random spanning tree with Kruskal's algorithm over
// the shuffled candidates, skipping edges that would exceed the degree
// cap. It reports whether the tree spans every vertex.
func (g *Graph) spanningTree(rng *rand.Rand, cands [][2]int) bool {
	order := rng.Perm(len(cands))
	uf := newUnionFind(len(g.adj))
	joined := 1
	for _, i := range order {
		u, v := cands[i][0], cands[i][1]
		if !g.fits(u, v) || !uf.union(u, v) {
			continue
		}
		g.connect(u, v)
		joined++
	}
	return joined == len(g.adj)
}

// addSpare adds each unused candidate with probability density while both
// endpoints stay under the cap.
func (g *Graph) addSpare(rng *rand.Rand, cands [][2]int, density float64) {
	for _, i := range rng.Perm(len(cands)) {
		u, v := cands[i][0], cands[i][1]
		if g.has(u, v) || !g.fits(u, v) {
			continue
		}
		if rng.Float64() < density {
			g.connect(u, v)
		}
	}
}

func (g *Graph) hasIndependentPair() bool {
	edges := g.Edges()
	for i, e := range edges {
		for _, f := range edges[i+1:] {
			if e[0] != f[0] && e[0] != f[1] && e[1] != f[0] && e[1] != f[1] {
				return true
			}
		}
	}
	return false
}

type unionFind struct {
	parent []int
	rank   []int
}

func newUnionFind(n int) *unionFind {
	uf := &unionFind{parent: make([]int, n), rank: make([]int, n)}
	for i := range uf.parent {
		uf.parent[i] = i
	}
	return uf
}

func (uf *unionFind) find(x int) int {
	for uf.parent[x] != x {
		uf.parent[x] = uf.parent[uf.parent[x]]
		x = uf.parent[x]
	}
	return x
}

// union merges the sets of a and b and reports whether they were
// distinct.
func (uf *unionFind) union(a, b int) bool {
	ra, rb := uf.find(a), uf.find(b)
	if ra == rb {
		return false
	}
	switch {
	case uf.rank[ra] < uf.rank[rb]:
		uf.parent[ra] = rb
	case uf.rank[ra] > uf.rank[rb]:
		uf.parent[rb] = ra
	default:
		uf.parent[rb] = ra
		uf.rank[ra]++
	}
	return true
}
