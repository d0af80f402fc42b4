package api

import (
	"errors"
	"io"
	"net/http"

	"github.com/MikeSquared-Agency/incidentlog/internal/store"
)

type exportRequest struct {
	Title string `json:"title"`
}

// exportSheet mirrors every stored incident, newest first, into a new
// spreadsheet. The body is optional.
func (s *Server) exportSheet(w http.ResponseWriter, r *http.Request) {
	if s.exporter == nil {
		writeError(w, http.StatusServiceUnavailable, "spreadsheet export is not configured")
		return
	}

	var req exportRequest
	if err := decodeJSON(w, r, &req); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, "invalid JSON: "+err.Error())
		return
	}

	list, err := s.store.List(r.Context(), store.ListFilter{})
	if err != nil {
		s.writeStoreError(w, err, "Failed to fetch incidents")
		return
	}

	res, err := s.exporter.Export(r.Context(), req.Title, list)
	if err != nil {
		s.logger.Error("spreadsheet export failed", "error", err)
		writeError(w, http.StatusBadGateway, "Failed to create spreadsheet")
		return
	}
	writeJSON(w, http.StatusOK, res)
}
