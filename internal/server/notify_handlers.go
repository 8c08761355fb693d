package server

import (
	"net/http"

	"github.com/bcgov/notify/internal/apierr"
	"github.com/bcgov/notify/internal/notify"
)

func (s *Server) handleNotifySend(w http.ResponseWriter, r *http.Request) {
	var req notify.Request
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	resp, err := s.notify.Send(r.Context(), &req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleNotifyPreview(w http.ResponseWriter, r *http.Request) {
	writeError(w, apierr.Unsupported("notify preview is not implemented"))
}

func (s *Server) handleNotifyStatus(w http.ResponseWriter, r *http.Request) {
	writeError(w, apierr.Unsupported("notify status is not implemented"))
}

func (s *Server) handleNotifyCancel(w http.ResponseWriter, r *http.Request) {
	writeError(w, apierr.Unsupported("notify cancel is not implemented"))
}

func (s *Server) handleNotifyRegisterCallback(w http.ResponseWriter, r *http.Request) {
	writeError(w, apierr.Unsupported("notify callback registration is not implemented"))
}

// chesNotImplemented serves the CHES facade routes. The facade is exposed so
// callers get a stable 501 instead of a 404 while the flows remain unbuilt;
// direct CHES email delivery goes through the ches transport instead.
func (s *Server) chesNotImplemented(operation string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeError(w, apierr.Unsupported("CHES %s is not implemented", operation))
	}
}
