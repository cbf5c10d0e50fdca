package handlers

import (
	"net/http"
	"time"
)

// HealthHandler serves the liveness banner and the health check endpoint.
type HealthHandler struct{}

// NewHealthHandler creates a new HealthHandler.
func NewHealthHandler() *HealthHandler {
	return &HealthHandler{}
}

// Home serves the liveness banner at the root path.
func (h *HealthHandler) Home(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"message":   "User CRUD API is running!",
		"timestamp": time.Now().UTC(),
	})
}

// Health reports service health.
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":    "UP",
		"timestamp": time.Now().UTC(),
	})
}
