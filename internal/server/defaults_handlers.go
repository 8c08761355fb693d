package server

import (
	"net/http"

	"github.com/bcgov/notify/internal/tenant"
)

func (s *Server) handleGetDefaults(w http.ResponseWriter, r *http.Request) {
	defaults, err := s.defaults.GetDefaults(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, defaults)
}

func (s *Server) handleUpdateDefaults(w http.ResponseWriter, r *http.Request) {
	var partial tenant.Defaults
	if err := decodeJSON(r, &partial); err != nil {
		writeError(w, err)
		return
	}
	defaults, err := s.defaults.UpdateDefaults(r.Context(), partial)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, defaults)
}
