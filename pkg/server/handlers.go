package server

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/chartcore/pkg/cache"
	"github.com/matzehuels/chartcore/pkg/chart"
	"github.com/matzehuels/chartcore/pkg/geom"
	"github.com/matzehuels/chartcore/pkg/spec"
	"github.com/matzehuels/chartcore/pkg/store"
)

// errorResponse is the JSON body on every non-2xx response.
type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// createResponse is returned when a chart is created.
type createResponse struct {
	ID     string `json:"id"`
	SyncID string `json:"sync_id,omitempty"`
}

func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	var c spec.ChartSpec
	if err := json.NewDecoder(r.Body).Decode(&c); err != nil {
		writeError(w, http.StatusBadRequest, "invalid spec: "+err.Error())
		return
	}

	ch, err := chart.New(&c, chart.Options{
		Hub:    s.opts.Hub,
		Logger: s.opts.Logger,
	})
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	id := s.addChart(ch)
	s.opts.Logger.Info("chart created", "id", id, "sync_id", c.SyncID)
	writeJSON(w, http.StatusCreated, createResponse{ID: id, SyncID: c.SyncID})
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string][]string{"charts": s.chartIDs()})
}

func (s *Server) handleGetSpec(w http.ResponseWriter, r *http.Request) {
	ch, ok := s.chartByID(chi.URLParam(r, "id"))
	if !ok {
		writeError(w, http.StatusNotFound, "chart not found")
		return
	}
	writeJSON(w, http.StatusOK, ch.Spec())
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	if !s.removeChart(chi.URLParam(r, "id")) {
		writeError(w, http.StatusNotFound, "chart not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleLayout(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	ch, ok := s.chartByID(id)
	if !ok {
		writeError(w, http.StatusNotFound, "chart not found")
		return
	}

	c := ch.Spec()
	win := ch.Window()
	specHash := specHash(c)
	key := s.opts.Keyer.LayoutKey(specHash, cache.LayoutKeyOpts{
		Width:      c.Width,
		Height:     c.Height,
		StartIndex: win.StartIndex,
		EndIndex:   win.EndIndex,
	})

	if data, hit, err := s.opts.Cache.Get(r.Context(), key); err == nil && hit {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write(data)
		return
	}

	b := ch.Bundle()
	if b == nil {
		writeError(w, http.StatusUnprocessableEntity, "degenerate viewport")
		return
	}

	l := chart.Export(b)
	data, err := json.Marshal(l)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "encode layout: "+err.Error())
		return
	}

	if err := s.opts.Cache.Set(r.Context(), key, data, s.opts.CacheTTL); err != nil {
		s.opts.Logger.Warn("layout cache set failed", "id", id, "err", err)
	}
	s.archive(r, id, specHash, c, l)

	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write(data)
}

// archive persists the spec and layout when a store is configured.
func (s *Server) archive(r *http.Request, id, specHash string, c *spec.ChartSpec, l *chart.Layout) {
	if s.opts.Store == nil {
		return
	}
	doc := &store.Document{
		ID:       id + ":" + specHash[:12],
		ChartID:  id,
		SpecHash: specHash,
		Spec:     c,
		Layout:   l,
	}
	if err := s.opts.Store.Put(r.Context(), doc); err != nil {
		s.opts.Logger.Warn("layout archive failed", "id", id, "err", err)
	}
}

// pointerRequest is a pointer position in chart coordinates.
type pointerRequest struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

func (s *Server) handlePointer(w http.ResponseWriter, r *http.Request) {
	ch, ok := s.chartByID(chi.URLParam(r, "id"))
	if !ok {
		writeError(w, http.StatusNotFound, "chart not found")
		return
	}

	var req pointerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid pointer: "+err.Error())
		return
	}

	b := ch.Bundle()
	if b == nil || b.Resolver() == nil {
		writeError(w, http.StatusUnprocessableEntity, "chart has no resolvable layout")
		return
	}

	p := geom.Point{X: req.X, Y: req.Y}
	st := b.Resolver().Resolve(p)

	// Drive the live instance too so synced charts follow.
	ch.PointerMove(p)

	writeJSON(w, http.StatusOK, st)
}

func (s *Server) handleTooltip(w http.ResponseWriter, r *http.Request) {
	ch, ok := s.chartByID(chi.URLParam(r, "id"))
	if !ok {
		writeError(w, http.StatusNotFound, "chart not found")
		return
	}
	writeJSON(w, http.StatusOK, ch.Tooltip())
}

// brushRequest is a data-window selection.
type brushRequest struct {
	StartIndex int `json:"start_index"`
	EndIndex   int `json:"end_index"`
}

func (s *Server) handleBrush(w http.ResponseWriter, r *http.Request) {
	ch, ok := s.chartByID(chi.URLParam(r, "id"))
	if !ok {
		writeError(w, http.StatusNotFound, "chart not found")
		return
	}

	var req brushRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid brush: "+err.Error())
		return
	}

	ch.SetWindow(spec.Window{StartIndex: req.StartIndex, EndIndex: req.EndIndex})
	writeJSON(w, http.StatusOK, ch.Window())
}

// specHash fingerprints a spec and its data for cache keying.
func specHash(c *spec.ChartSpec) string {
	data, _ := json.Marshal(c)
	return cache.Hash(data)
}
