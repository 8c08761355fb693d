package server

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/bcgov/notify/internal/apierr"
	"github.com/bcgov/notify/pkg/jsonutil"
)

type errorBody struct {
	StatusCode int    `json:"statusCode"`
	Error      string `json:"error"`
	Message    string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	jsonutil.WriteJSON(w, status, v)
}

// writeError maps a taxonomy error to its stable status. Anything outside
// the taxonomy is a 500 with the detail kept out of the response.
func writeError(w http.ResponseWriter, err error) {
	var ae *apierr.Error
	if !errors.As(err, &ae) {
		log.Printf("unclassified error on request path: %v", err)
		writeJSON(w, http.StatusInternalServerError, errorBody{
			StatusCode: http.StatusInternalServerError,
			Error:      "internal",
			Message:    "Internal server error",
		})
		return
	}
	status := ae.HTTPStatus()
	if status >= http.StatusInternalServerError {
		log.Printf("request failed: %v", ae)
	}
	writeJSON(w, status, errorBody{
		StatusCode: status,
		Error:      string(ae.Code),
		Message:    ae.Message,
	})
}

func decodeJSON(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return apierr.BadRequest("Invalid request body")
	}
	return nil
}
