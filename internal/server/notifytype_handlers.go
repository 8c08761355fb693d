package server

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/bcgov/notify/internal/notifytype"
)

func (s *Server) handleGetNotifyTypes(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"notifyTypes": s.notifyTypes.GetNotifyTypes(r.Context()),
	})
}

func (s *Server) handleGetNotifyType(w http.ResponseWriter, r *http.Request) {
	nt, err := s.notifyTypes.GetNotifyType(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, nt)
}

func (s *Server) handleCreateNotifyType(w http.ResponseWriter, r *http.Request) {
	var req notifytype.CreateRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	nt, err := s.notifyTypes.CreateNotifyType(r.Context(), &req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, nt)
}

func (s *Server) handleUpdateNotifyType(w http.ResponseWriter, r *http.Request) {
	var req notifytype.UpdateRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	nt, err := s.notifyTypes.UpdateNotifyType(r.Context(), mux.Vars(r)["id"], &req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, nt)
}

func (s *Server) handleDeleteNotifyType(w http.ResponseWriter, r *http.Request) {
	if err := s.notifyTypes.DeleteNotifyType(r.Context(), mux.Vars(r)["id"]); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
