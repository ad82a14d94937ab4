package server

import (
	"encoding/json"
	"log/slog"
	"net/http"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("json encode failed", slog.String("error", err.Error()))
	}
}

type errResponse struct {
	Error string `json:"error" validate:"required"`
}

func badRequest(w http.ResponseWriter, msg string) {
	writeJSON(w, http.StatusBadRequest, errResponse{Error: msg})
}

func notFound(w http.ResponseWriter) {
	writeJSON(w, http.StatusNotFound, errResponse{Error: "not found"})
}

// searchDisabled answers for the endpoints that need the SQLite index when
// the config runs without one.
func searchDisabled(w http.ResponseWriter) {
	writeJSON(w, http.StatusServiceUnavailable, errResponse{Error: "search disabled"})
}

func internalError(w http.ResponseWriter) {
	writeJSON(w, http.StatusInternalServerError, errResponse{Error: "internal error"})
}
