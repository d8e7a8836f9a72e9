package saves

import (
	"fmt"
	"time"

	errs "github.com/matzehuels/untangle/pkg/errors"
	"github.com/matzehuels/untangle/pkg/game"
	"github.com/matzehuels/untangle/pkg/geom"
	"github.com/matzehuels/untangle/pkg/puzzle"
)

// CurrentVersion is the save format version written by this package.
const CurrentVersion = 1

// SavedVertex is one vertex of a saved game.
type SavedVertex struct {
	ID                 int     `json:"id" yaml:"id"`
	X                  float64 `json:"x" yaml:"x"`
	Y                  float64 `json:"y" yaml:"y"`
	ConnectedVertexIDs []int   `json:"connected_vertex_ids" yaml:"connected_vertex_ids"`
}

// SavedGame is the serialisable state of a session.
type SavedGame struct {
	Version           int           `json:"version" yaml:"version"`
	CreatedAt         time.Time     `json:"created_at" yaml:"created_at"`
	LevelNumber       int           `json:"level_number" yaml:"level_number"`
	VertexCount       int           `json:"vertex_count" yaml:"vertex_count"`
	IntersectionCount int           `json:"intersection_count" yaml:"intersection_count"`
	Vertices          []SavedVertex `json:"vertices" yaml:"vertices"`
}

// Capture snapshots the current level of a session.
func Capture(s *game.Session) *SavedGame {
	return CaptureLevel(s.Level(), s.LevelNumber())
}

// CaptureLevel snapshots a level. Vertex IDs are arena indices and each
// vertex lists all of its neighbours.
func CaptureLevel(l *puzzle.Level, levelNumber int) *SavedGame {
	sg := &SavedGame{
		Version:           CurrentVersion,
		CreatedAt:         time.Now().UTC().Truncate(time.Millisecond),
		LevelNumber:       levelNumber,
		VertexCount:       l.VertexCount(),
		IntersectionCount: l.IntersectionCount(),
		Vertices:          make([]SavedVertex, 0, l.VertexCount()),
	}
	for _, v := range l.Vertices() {
		sv := SavedVertex{
			ID:                 int(v.ID()),
			X:                  v.X(),
			Y:                  v.Y(),
			ConnectedVertexIDs: []int{},
		}
		for _, n := range v.ConnectedVertices() {
			sv.ConnectedVertexIDs = append(sv.ConnectedVertexIDs, int(n))
		}
		sg.Vertices = append(sg.Vertices, sv)
	}
	return sg
}

// Level rebuilds the saved level. Positions are kept exactly and the
// intersection index is recomputed from them.
//
// Vertices are created in list order. A segment is created when a vertex
// lists one that appears earlier in the list, so every edge is created
// once. Unknown IDs, self references and repeated connections make the
// save corrupt.
func (sg *SavedGame) Level() (*puzzle.Level, error) {
	if sg.Vertices == nil {
		return nil, corrupt(ErrMissingVertices, "save has no vertex list")
	}
	if sg.LevelNumber < 0 {
		return nil, errs.New(errs.ErrCodeCorruptSave, "negative level number %d", sg.LevelNumber)
	}

	index := make(map[int]puzzle.VertexID, len(sg.Vertices))
	g := puzzle.NewGraph()
	for _, sv := range sg.Vertices {
		if _, dup := index[sv.ID]; dup {
			return nil, errs.New(errs.ErrCodeCorruptSave, "vertex id %d appears twice", sv.ID)
		}
		index[sv.ID] = g.AddVertex(geom.Pt(sv.X, sv.Y))
	}
	for _, sv := range sg.Vertices {
		self := index[sv.ID]
		for _, cid := range sv.ConnectedVertexIDs {
			other, ok := index[cid]
			if !ok {
				return nil, errs.New(errs.ErrCodeCorruptSave, "vertex %d is connected to unknown vertex %d", sv.ID, cid)
			}
			if other > self {
				continue
			}
			if _, err := g.Connect(self, other); err != nil {
				return nil, errs.Wrap(errs.ErrCodeCorruptSave, err, "vertex %d", sv.ID)
			}
		}
	}
	return puzzle.RestoreLevel(g)
}

// Restore rebuilds a session from the save. Nothing is returned unless the
// whole level could be rebuilt.
func (sg *SavedGame) Restore(opts ...game.Option) (*game.Session, error) {
	lvl, err := sg.Level()
	if err != nil {
		return nil, err
	}
	return game.Restore(lvl, sg.LevelNumber, opts...)
}

// Load decodes a compressed save and returns the session it holds.
func Load(data []byte, opts ...game.Option) (*game.Session, error) {
	sg, err := Decode(data)
	if err != nil {
		return nil, err
	}
	return sg.Restore(opts...)
}

// Summary describes a save in one line.
func (sg *SavedGame) Summary() string {
	return fmt.Sprintf("level %d, %d vertices, %d intersections, saved %s",
		sg.LevelNumber, len(sg.Vertices), sg.IntersectionCount, sg.CreatedAt.Format(time.RFC3339))
}
