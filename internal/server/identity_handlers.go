package server

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/bcgov/notify/internal/identity"
)

// identityView is the camelCase projection of a sender. The identities
// surface and the senders surface share one store; only the casing and the
// hidden is_default flag differ.
type identityView struct {
	ID           string `json:"id"`
	Type         string `json:"type"`
	EmailAddress string `json:"emailAddress,omitempty"`
	SMSSender    string `json:"smsSender,omitempty"`
	CreatedAt    string `json:"createdAt"`
	UpdatedAt    string `json:"updatedAt"`
}

type createIdentityRequest struct {
	Type         identity.Type `json:"type"`
	EmailAddress string        `json:"emailAddress,omitempty"`
	SMSSender    string        `json:"smsSender,omitempty"`
	IsDefault    *bool         `json:"isDefault,omitempty"`
}

type updateIdentityRequest struct {
	EmailAddress *string `json:"emailAddress,omitempty"`
	SMSSender    *string `json:"smsSender,omitempty"`
	IsDefault    *bool   `json:"isDefault,omitempty"`
}

func toIdentityView(sender *identity.Sender) identityView {
	return identityView{
		ID:           sender.ID,
		Type:         string(sender.Type),
		EmailAddress: sender.EmailAddress,
		SMSSender:    sender.SMSSender,
		CreatedAt:    sender.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:    sender.UpdatedAt.UTC().Format(time.RFC3339),
	}
}

func (s *Server) handleGetIdentities(w http.ResponseWriter, r *http.Request) {
	typ := identity.Type(r.URL.Query().Get("type"))
	senders, err := s.senders.GetSenders(r.Context(), typ)
	if err != nil {
		writeError(w, err)
		return
	}
	identities := make([]identityView, 0, len(senders))
	for _, sender := range senders {
		identities = append(identities, toIdentityView(sender))
	}
	writeJSON(w, http.StatusOK, map[string]any{"identities": identities})
}

func (s *Server) handleGetIdentity(w http.ResponseWriter, r *http.Request) {
	sender, err := s.senders.GetSender(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toIdentityView(sender))
}

func (s *Server) handleCreateIdentity(w http.ResponseWriter, r *http.Request) {
	var req createIdentityRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	sender, err := s.senders.CreateSender(r.Context(), &identity.CreateRequest{
		Type:         req.Type,
		EmailAddress: req.EmailAddress,
		SMSSender:    req.SMSSender,
		IsDefault:    req.IsDefault,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toIdentityView(sender))
}

func (s *Server) handleUpdateIdentity(w http.ResponseWriter, r *http.Request) {
	var req updateIdentityRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	sender, err := s.senders.UpdateSender(r.Context(), mux.Vars(r)["id"], &identity.UpdateRequest{
		EmailAddress: req.EmailAddress,
		SMSSender:    req.SMSSender,
		IsDefault:    req.IsDefault,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toIdentityView(sender))
}

func (s *Server) handleDeleteIdentity(w http.ResponseWriter, r *http.Request) {
	if err := s.senders.DeleteSender(r.Context(), mux.Vars(r)["id"]); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
