package generator

import (
	"errors"
	"fmt"
	"math"
	"math/rand/v2"

	"github.com/matzehuels/untangle/pkg/geom"
)

const (
	// MinVertices is the smallest graph Generate accepts. Fewer vertices
	// cannot hold two independent edges, so no layout of them can cross.
	MinVertices = 4

	// DefaultDensity is the probability that a spare candidate edge is
	// added once the spanning tree is complete.
	DefaultDensity = 0.35

	// CellSize is the grid spacing of the embedding.
	CellSize = 100.0

	maxAttempts = 32
)

var (
	// ErrInvalidBounds is returned when the vertex count range is empty or
	// below MinVertices.
	ErrInvalidBounds = errors.New("invalid vertex count bounds")

	// ErrInvalidDegree is returned when the degree cap is below 2, which
	// leaves no connected graph on more than two vertices.
	ErrInvalidDegree = errors.New("invalid maximum degree")
)

// Option configures generation.
type Option func(*options)

type options struct {
	rng     *rand.Rand
	density float64
}

// WithRand sets the random source.
func WithRand(r *rand.Rand) Option {
	return func(o *options) {
		if r != nil {
			o.rng = r
		}
	}
}

// WithSeed seeds a dedicated random source, making generation
// reproducible.
func WithSeed(seed uint64) Option {
	return func(o *options) {
		o.rng = rand.New(rand.NewPCG(seed, seed^0xdeadbeef))
	}
}

// WithDensity sets the probability in [0, 1] of keeping each spare
// candidate edge. Zero yields trees; one keeps every edge the degree cap
// allows.
func WithDensity(d float64) Option {
	return func(o *options) {
		o.density = min(max(d, 0), 1)
	}
}

// Generate returns a connected planar graph with a vertex count drawn
// uniformly from [minVertexCount, maxVertexCount] and no vertex of degree
// above maxDegree. Every returned graph has at least two edges without a
// shared endpoint.
func Generate(minVertexCount, maxVertexCount, maxDegree int, opts ...Option) (*Graph, error) {
	if minVertexCount < MinVertices || maxVertexCount < minVertexCount {
		return nil, fmt.Errorf("%w: [%d, %d] (minimum %d)", ErrInvalidBounds, minVertexCount, maxVertexCount, MinVertices)
	}
	if maxDegree < 2 {
		return nil, fmt.Errorf("%w: %d (minimum 2)", ErrInvalidDegree, maxDegree)
	}

	o := options{density: DefaultDensity}
	for _, opt := range opts {
		opt(&o)
	}
	if o.rng == nil {
		o.rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}

	n := minVertexCount + o.rng.IntN(maxVertexCount-minVertexCount+1)
	lay := newLattice(n)
	cands := lay.candidates(o.rng)

	for range maxAttempts {
		g := lay.graph(maxDegree)
		if !g.spanningTree(o.rng, cands) {
			continue
		}
		g.addSpare(o.rng, cands, o.density)
		if g.hasIndependentPair() {
			return g, nil
		}
	}

	// The snake path always fits the cap and, with four or more vertices,
	// always has independent edges.
	g := lay.graph(maxDegree)
	for i := 1; i < n; i++ {
		g.connect(i-1, i)
	}
	return g, nil
}

// lattice places vertices on grid cells in boustrophedon order: left to
// right on even rows, right to left on odd rows, so consecutive vertices
// are always grid neighbours.
type lattice struct {
	n, cols, rows int
	cell          [][]int // [row][col] -> vertex, or -1
	pos           []geom.Point
}

func newLattice(n int) *lattice {
	cols := int(math.Ceil(math.Sqrt(float64(n))))
	rows := (n + cols - 1) / cols
	l := &lattice{n: n, cols: cols, rows: rows, pos: make([]geom.Point, n)}
	l.cell = make([][]int, rows)
	for r := range l.cell {
		l.cell[r] = make([]int, cols)
		for c := range l.cell[r] {
			l.cell[r][c] = -1
		}
	}
	for i := range n {
		r, c := i/cols, i%cols
		if r%2 == 1 {
			c = cols - 1 - c
		}
		l.cell[r][c] = i
		l.pos[i] = geom.Pt(float64(c)*CellSize, float64(r)*CellSize)
	}
	return l
}

func (l *lattice) at(r, c int) int {
	if r < 0 || r >= l.rows || c < 0 || c >= l.cols {
		return -1
	}
	return l.cell[r][c]
}

// candidates lists every edge a generated graph may use: right and down
// grid neighbours, and for each complete or partial square one diagonal
// whose direction is picked at random.
func (l *lattice) candidates(rng *rand.Rand) [][2]int {
	var out [][2]int
	add := func(a, b int) {
		if a >= 0 && b >= 0 {
			out = append(out, [2]int{a, b})
		}
	}
	for r := range l.rows {
		for c := range l.cols {
			v := l.at(r, c)
			add(v, l.at(r, c+1))
			add(v, l.at(r+1, c))
			if rng.IntN(2) == 0 {
				add(v, l.at(r+1, c+1))
			} else {
				add(l.at(r, c+1), l.at(r+1, c))
			}
		}
	}
	return out
}

func (l *lattice) graph(maxDegree int) *Graph {
	return &Graph{
		adj:       make([][]int, l.n),
		pos:       l.pos,
		maxDegree: maxDegree,
	}
}
