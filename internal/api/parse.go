package api

import "net/http"

// HeaderParseSource names the extraction path in parse responses.
const HeaderParseSource = "X-Parse-Source"

type parseRequest struct {
	Transcript string `json:"transcript"`
}

// parseIncident never fails on content: an empty transcript still yields a
// draft.
func (s *Server) parseIncident(w http.ResponseWriter, r *http.Request) {
	var req parseRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON: "+err.Error())
		return
	}

	draft, source := s.parser.Parse(r.Context(), req.Transcript)
	s.logger.Info("parsed transcript", "source", source, "category", draft.Category, "transcript_len", len(req.Transcript))
	s.events.Parsed(draft, string(source))

	w.Header().Set(HeaderParseSource, string(source))
	writeJSON(w, http.StatusOK, draft)
}
