package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/sarawak-explorer/itinerary/internal/catalog"
	"github.com/sarawak-explorer/itinerary/internal/itinerary"
	"github.com/sarawak-explorer/itinerary/internal/log"
	"github.com/sarawak-explorer/itinerary/internal/schedule"
	"github.com/sarawak-explorer/itinerary/internal/session"
)

// errBadRequest marks a request body that is not the expected JSON object.
var errBadRequest = errors.New("malformed request body")

func respondWithJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Error("failed to encode response", err)
	}
}

func respondWithError(w http.ResponseWriter, status int, msg string) {
	respondWithJSON(w, status, map[string]string{"error": msg})
}

// respondWithErr maps an itinerary error onto a status code and a user
// message.
func respondWithErr(w http.ResponseWriter, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		log.Error("request failed", err)
	}
	respondWithError(w, status, userMessage(err))
}

func userMessage(err error) string {
	if errors.Is(err, errBadRequest) {
		return "Request body is not a valid JSON object for this route"
	}
	return itinerary.UserMessage(err)
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, itinerary.ErrValidation),
		errors.Is(err, schedule.ErrFormat),
		errors.Is(err, errBadRequest):
		return http.StatusBadRequest
	case errors.Is(err, itinerary.ErrNotFound),
		errors.Is(err, catalog.ErrUnknownRegion),
		errors.Is(err, catalog.ErrUnknownAttraction):
		return http.StatusNotFound
	case errors.Is(err, itinerary.ErrDuplicateID), errors.Is(err, session.ErrSessionBusy):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
