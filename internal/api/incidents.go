package api

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/MikeSquared-Agency/incidentlog/internal/incident"
	"github.com/MikeSquared-Agency/incidentlog/internal/store"
)

func incidentID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	return id, err == nil && id > 0
}

func (s *Server) listIncidents(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	list, err := s.store.List(r.Context(), store.ListFilter{
		Category: q.Get("category"),
		Student:  q.Get("student"),
	})
	if err != nil {
		s.writeStoreError(w, err, "Failed to fetch incidents")
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (s *Server) getIncident(w http.ResponseWriter, r *http.Request) {
	id, ok := incidentID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid incident id")
		return
	}
	inc, err := s.store.Get(r.Context(), id)
	if err != nil {
		s.writeStoreError(w, err, "Failed to fetch incident")
		return
	}
	writeJSON(w, http.StatusOK, inc)
}

func (s *Server) createIncident(w http.ResponseWriter, r *http.Request) {
	var in incident.Input
	if err := decodeJSON(w, r, &in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON: "+err.Error())
		return
	}
	inc, err := s.store.Create(r.Context(), in)
	if err != nil {
		s.writeStoreError(w, err, "Failed to create incident")
		return
	}
	s.events.Created(inc)
	writeJSON(w, http.StatusCreated, inc)
}

func (s *Server) updateIncident(w http.ResponseWriter, r *http.Request) {
	id, ok := incidentID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid incident id")
		return
	}
	var in incident.Input
	if err := decodeJSON(w, r, &in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON: "+err.Error())
		return
	}
	inc, err := s.store.Update(r.Context(), id, in)
	if err != nil {
		s.writeStoreError(w, err, "Failed to update incident")
		return
	}
	s.events.Updated(inc)
	writeJSON(w, http.StatusOK, inc)
}

func (s *Server) deleteIncident(w http.ResponseWriter, r *http.Request) {
	id, ok := incidentID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid incident id")
		return
	}
	if err := s.store.Delete(r.Context(), id); err != nil {
		s.writeStoreError(w, err, "Failed to delete incident")
		return
	}
	s.events.Deleted(id)
	w.WriteHeader(http.StatusNoContent)
}
