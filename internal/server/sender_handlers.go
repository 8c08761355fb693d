package server

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/bcgov/notify/internal/identity"
)

func (s *Server) handleGetSenders(w http.ResponseWriter, r *http.Request) {
	typ := identity.Type(r.URL.Query().Get("type"))
	senders, err := s.senders.GetSenders(r.Context(), typ)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"senders": senders})
}

func (s *Server) handleGetSender(w http.ResponseWriter, r *http.Request) {
	sender, err := s.senders.GetSender(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sender)
}

func (s *Server) handleCreateSender(w http.ResponseWriter, r *http.Request) {
	var req identity.CreateRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	sender, err := s.senders.CreateSender(r.Context(), &req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, sender)
}

func (s *Server) handleUpdateSender(w http.ResponseWriter, r *http.Request) {
	var req identity.UpdateRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	sender, err := s.senders.UpdateSender(r.Context(), mux.Vars(r)["id"], &req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sender)
}

func (s *Server) handleDeleteSender(w http.ResponseWriter, r *http.Request) {
	if err := s.senders.DeleteSender(r.Context(), mux.Vars(r)["id"]); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
