package server

import (
	"context"
	"errors"
	"math"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/untangle/pkg/buildinfo"
	errs "github.com/matzehuels/untangle/pkg/errors"
	"github.com/matzehuels/untangle/pkg/game"
	"github.com/matzehuels/untangle/pkg/geom"
	"github.com/matzehuels/untangle/pkg/puzzle"
	"github.com/matzehuels/untangle/pkg/saves"
	"github.com/matzehuels/untangle/pkg/store"
)

// =============================================================================
// Response types
// =============================================================================

type vertexView struct {
	ID     int     `json:"id"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Size   float64 `json:"size"`
	State  string  `json:"state"`
	ZIndex int     `json:"z_index"`
}

type segmentView struct {
	ID        int    `json:"id"`
	From      int    `json:"from"`
	To        int    `json:"to"`
	State     string `json:"state"`
	Crossings []int  `json:"crossings"`
}

// snapshot is the full state of a game. Solved is set when the request
// solved a level; the snapshot then already shows the next level.
type snapshot struct {
	ID                string        `json:"id"`
	LevelNumber       int           `json:"level_number"`
	Solved            bool          `json:"solved"`
	IntersectionCount int           `json:"intersection_count"`
	Hovered           *int          `json:"hovered"`
	Dragged           *int          `json:"dragged"`
	Vertices          []vertexView  `json:"vertices"`
	Segments          []segmentView `json:"segments"`
}

func optionalID(v puzzle.VertexID) *int {
	if v == puzzle.NoVertex {
		return nil
	}
	id := int(v)
	return &id
}

func snapshotOf(e *entry, solved bool) snapshot {
	lvl := e.session.Level()
	snap := snapshot{
		ID:                e.id,
		LevelNumber:       e.session.LevelNumber(),
		Solved:            solved,
		IntersectionCount: lvl.IntersectionCount(),
		Hovered:           optionalID(lvl.HoveredVertex()),
		Dragged:           optionalID(lvl.DraggedVertex()),
		Vertices:          make([]vertexView, 0, lvl.VertexCount()),
		Segments:          make([]segmentView, 0, lvl.SegmentCount()),
	}
	for _, v := range lvl.Vertices() {
		snap.Vertices = append(snap.Vertices, vertexView{
			ID:     int(v.ID()),
			X:      v.X(),
			Y:      v.Y(),
			Size:   v.Size(),
			State:  v.State().String(),
			ZIndex: v.ZIndex(),
		})
	}
	for _, seg := range lvl.Segments() {
		a, b := seg.Endpoints()
		crossings := []int{}
		for _, c := range lvl.Crossings(seg.ID()) {
			crossings = append(crossings, int(c))
		}
		snap.Segments = append(snap.Segments, segmentView{
			ID:        int(seg.ID()),
			From:      int(a),
			To:        int(b),
			State:     seg.State().String(),
			Crossings: crossings,
		})
	}
	return snap
}

// =============================================================================
// Handlers
// =============================================================================

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"version": buildinfo.Version,
		"games":   s.sessions.len(),
	})
}

type createRequest struct {
	StartLevel int `json:"start_level"`
}

func (s *Server) createGame(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if err := decode(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := errs.ValidateLevelNumber(req.StartLevel); err != nil {
		s.writeError(w, r, err)
		return
	}
	sess, err := game.New(req.StartLevel, s.gameOpts...)
	if err != nil {
		s.writeError(w, r, errs.Wrap(errs.ErrCodeInternal, err, "cannot start game"))
		return
	}
	s.respondNew(w, sess)
}

func (s *Server) respondNew(w http.ResponseWriter, sess *game.Session) {
	e := s.sessions.add(sess)
	e.mu.Lock()
	defer e.mu.Unlock()
	s.logger.Info("game started", "id", e.id, "level", sess.LevelNumber())
	writeJSON(w, http.StatusCreated, snapshotOf(e, false))
}

// withGame runs fn with the game named in the URL locked.
func (s *Server) withGame(w http.ResponseWriter, r *http.Request, fn func(e *entry) error) {
	id := chi.URLParam(r, "id")
	e, ok := s.sessions.acquire(id)
	if !ok {
		s.writeError(w, r, errs.New(errs.ErrCodeGameNotFound, "game %q not found", id))
		return
	}
	defer s.sessions.release(e)
	if err := fn(e); err != nil {
		s.writeError(w, r, err)
	}
}

func (s *Server) getGame(w http.ResponseWriter, r *http.Request) {
	s.withGame(w, r, func(e *entry) error {
		writeJSON(w, http.StatusOK, snapshotOf(e, false))
		return nil
	})
}

func (s *Server) deleteGame(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if !s.sessions.remove(id) {
		s.writeError(w, r, errs.New(errs.ErrCodeGameNotFound, "game %q not found", id))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type vertexRequest struct {
	Vertex *int `json:"vertex"`
}

// vertexArg resolves a requested vertex ID against the current level.
func vertexArg(lvl *puzzle.Level, v *int) (puzzle.VertexID, error) {
	if v == nil {
		return puzzle.NoVertex, nil
	}
	if *v < 0 || *v >= lvl.VertexCount() {
		return puzzle.NoVertex, errs.New(errs.ErrCodeInvalidVertex, "unknown vertex %d", *v)
	}
	return puzzle.VertexID(*v), nil
}

func (s *Server) hover(w http.ResponseWriter, r *http.Request) {
	var req vertexRequest
	if err := decode(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.withGame(w, r, func(e *entry) error {
		lvl := e.session.Level()
		v, err := vertexArg(lvl, req.Vertex)
		if err != nil {
			return err
		}
		lvl.SetHoveredVertex(v)
		writeJSON(w, http.StatusOK, snapshotOf(e, false))
		return nil
	})
}

func (s *Server) dragStart(w http.ResponseWriter, r *http.Request) {
	var req vertexRequest
	if err := decode(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	if req.Vertex == nil {
		s.writeError(w, r, errs.New(errs.ErrCodeInvalidInput, "vertex is required"))
		return
	}
	s.withGame(w, r, func(e *entry) error {
		lvl := e.session.Level()
		v, err := vertexArg(lvl, req.Vertex)
		if err != nil {
			return err
		}
		if lvl.IsDragging() {
			return errs.New(errs.ErrCodeDragInProgress, "vertex %d is already being dragged", lvl.DraggedVertex())
		}
		lvl.StartDrag(v)
		writeJSON(w, http.StatusOK, snapshotOf(e, false))
		return nil
	})
}

type moveRequest struct {
	X *float64 `json:"x"`
	Y *float64 `json:"y"`
}

func (s *Server) dragMove(w http.ResponseWriter, r *http.Request) {
	var req moveRequest
	if err := decode(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	if req.X == nil || req.Y == nil {
		s.writeError(w, r, errs.New(errs.ErrCodeInvalidInput, "x and y are required"))
		return
	}
	p := geom.Pt(*req.X, *req.Y)
	if math.IsNaN(p.X) || math.IsNaN(p.Y) || math.IsInf(p.X, 0) || math.IsInf(p.Y, 0) {
		s.writeError(w, r, errs.New(errs.ErrCodeInvalidInput, "position must be finite"))
		return
	}
	s.withGame(w, r, func(e *entry) error {
		lvl := e.session.Level()
		if !lvl.IsDragging() {
			return errs.New(errs.ErrCodeNoActiveDrag, "no drag in progress")
		}
		lvl.DragTo(p)
		writeJSON(w, http.StatusOK, snapshotOf(e, false))
		return nil
	})
}

func (s *Server) dragFinish(w http.ResponseWriter, r *http.Request) {
	s.withGame(w, r, func(e *entry) error {
		lvl := e.session.Level()
		if !lvl.IsDragging() {
			return errs.New(errs.ErrCodeNoActiveDrag, "no drag in progress")
		}
		before := e.solves
		lvl.FinishDrag()
		writeJSON(w, http.StatusOK, snapshotOf(e, e.solves > before))
		return nil
	})
}

type saveRequest struct {
	Name string `json:"name"`
}

func (s *Server) saveGame(w http.ResponseWriter, r *http.Request) {
	var req saveRequest
	if err := decode(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.withGame(w, r, func(e *entry) error {
		data, err := saves.Encode(saves.Capture(e.session))
		if err != nil {
			return errs.Wrap(errs.ErrCodeInternal, err, "cannot encode save")
		}
		saved, err := s.store.Put(r.Context(), store.Entry{
			Name:        req.Name,
			LevelNumber: e.session.LevelNumber(),
		}, data)
		if err != nil {
			return storageError(err)
		}
		s.logger.Info("game saved", "id", e.id, "save", saved.ID, "level", saved.LevelNumber)
		writeJSON(w, http.StatusCreated, saved)
		return nil
	})
}

func (s *Server) listSaves(w http.ResponseWriter, r *http.Request) {
	entries, err := s.store.List(r.Context())
	if err != nil {
		s.writeError(w, r, storageError(err))
		return
	}
	writeJSON(w, http.StatusOK, entries)
}

func (s *Server) loadSave(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "saveID")
	data, _, err := s.store.Get(r.Context(), id)
	if err != nil {
		s.writeError(w, r, storageError(err))
		return
	}
	sess, err := saves.Load(data, s.gameOpts...)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.respondNew(w, sess)
}

func (s *Server) deleteSave(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "saveID")
	if err := s.store.Delete(r.Context(), id); err != nil {
		s.writeError(w, r, storageError(err))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// storageError gives uncoded store failures a code. Coded errors (such as
// an invalid save name) pass through.
func storageError(err error) error {
	if errs.GetCode(err) != "" {
		return err
	}
	switch {
	case errors.Is(err, store.ErrNotFound):
		return errs.Wrap(errs.ErrCodeSaveNotFound, err, "save not found")
	case errors.Is(err, context.DeadlineExceeded):
		return errs.Wrap(errs.ErrCodeTimeout, err, "storage timed out")
	default:
		return errs.Wrap(errs.ErrCodeStorage, err, "storage unavailable")
	}
}
