package api

import (
	"net/http"

	"github.com/MikeSquared-Agency/incidentlog/internal/store"
)

func (s *Server) dashboardStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.store.Stats(r.Context())
	if err != nil {
		s.writeStoreError(w, err, "Failed to fetch statistics")
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

func (s *Server) dashboardRecent(w http.ResponseWriter, r *http.Request) {
	list, err := s.store.Recent(r.Context(), store.DefaultRecentLimit)
	if err != nil {
		s.writeStoreError(w, err, "Failed to fetch recent incidents")
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (s *Server) reporters(w http.ResponseWriter, r *http.Request) {
	contacts, err := s.store.ReporterContacts(r.Context())
	if err != nil {
		s.writeStoreError(w, err, "Failed to fetch reporter names")
		return
	}
	writeJSON(w, http.StatusOK, contacts)
}
