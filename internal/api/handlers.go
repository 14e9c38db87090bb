// Package api exposes HTTP handlers for the fitness tracker service.
package api

import (
	"encoding/json"
	"net/http"

	"github.com/kacper2280/CapWSB-FitnessTracker-69241-MM/internal/auth"
	"github.com/kacper2280/CapWSB-FitnessTracker-69241-MM/internal/domain"
)

// dateLayout is the calendar-date format used in paths and query parameters.
const dateLayout = "2006-01-02"

// Handler coordinates HTTP requests with the domain services.
type Handler struct {
	users     *domain.UserService
	trainings *domain.TrainingService
	remover   *domain.UserRemover
}

// NewHandler builds a Handler.
func NewHandler(users *domain.UserService, trainings *domain.TrainingService, remover *domain.UserRemover) *Handler {
	return &Handler{users: users, trainings: trainings, remover: remover}
}

// RegisterRoutes wires endpoints to the mux.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/v1/users", h.usersCollection)
	mux.HandleFunc("/v1/users/", h.userSubtree)
	mux.HandleFunc("/v1/trainings", h.trainingsCollection)
	mux.HandleFunc("/v1/trainings/", h.trainingSubtree)
	mux.HandleFunc("/healthz", healthz)
}

// healthz reports a simple OK status for container health checks.
func healthz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

// authorizeRead admits callers holding the read scope or its write superset.
func authorizeRead(w http.ResponseWriter, r *http.Request, readScope, writeScope string) bool {
	claims, ok := auth.FromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "missing bearer token")
		return false
	}
	if !claims.HasScope(readScope) && !claims.HasScope(writeScope) {
		writeError(w, http.StatusForbidden, "forbidden", "scope "+readScope+" required")
		return false
	}
	return true
}

func authorizeWrite(w http.ResponseWriter, r *http.Request, writeScope string) bool {
	claims, ok := auth.FromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "missing bearer token")
		return false
	}
	if !claims.HasScope(writeScope) {
		writeError(w, http.StatusForbidden, "forbidden", "scope "+writeScope+" required")
		return false
	}
	return true
}

func writeError(w http.ResponseWriter, status int, code, detail string) {
	payload := map[string]string{
		"type":   code,
		"detail": detail,
	}
	writeJSON(w, status, payload)
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
