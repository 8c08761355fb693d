package server

import (
	"net/http"
	"strings"

	"github.com/bcgov/notify/internal/apierr"
	"github.com/bcgov/notify/pkg/apikey"
)

// requireAPIKey enforces the "ApiKey-v1 <key>" Authorization scheme on every
// API route. The passthrough credential travels separately in
// X-GC-Notify-Api-Key, so forwarding never reuses this header.
func (s *Server) requireAPIKey(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			writeError(w, apierr.Unauthorized("Authorization header is required"))
			return
		}

		scheme, token, ok := strings.Cut(authHeader, " ")
		if !ok || scheme != "ApiKey-v1" || token == "" {
			writeError(w, apierr.Unauthorized(
				"Invalid authorization format. Expected: ApiKey-v1 <your-api-key>"))
			return
		}

		if s.cfg.APIKey == "" || !apikey.Equal(token, s.cfg.APIKey) {
			writeError(w, apierr.Unauthorized("Invalid API key"))
			return
		}

		next.ServeHTTP(w, r)
	})
}

// gcNotifyAuthHeader builds the upstream credential from the request's
// X-GC-Notify-Api-Key header; empty when the caller supplied none.
func gcNotifyAuthHeader(r *http.Request) string {
	key := strings.TrimSpace(r.Header.Get("X-GC-Notify-Api-Key"))
	if key == "" {
		return ""
	}
	return "ApiKey-v1 " + key
}
