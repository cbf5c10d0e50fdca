package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/log"

	"github.com/gincol-ia/user-crud-hexagonal/internal/models"
)

// errorResponse is the JSON envelope every failed request gets.
type errorResponse struct {
	Timestamp time.Time         `json:"timestamp"`
	Status    int               `json:"status"`
	Message   string            `json:"message"`
	Path      string            `json:"path,omitempty"`
	Errors    map[string]string `json:"errors,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("Failed to encode response body")
	}
}

// writeError translates a failure from anywhere in the call chain into the
// matching HTTP status and error envelope. Unanticipated errors are logged
// and answered with a generic 500, leaking no internals.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	var (
		validation validator.ValidationErrors
		conflict   *models.ConflictError
		notFound   *models.NotFoundError
	)
	switch {
	case errors.As(err, &validation):
		writeErrorBody(w, r, http.StatusBadRequest, "Validation failed", fieldErrors(validation))
	case errors.As(err, &conflict):
		writeErrorBody(w, r, http.StatusBadRequest, conflict.Error(), nil)
	case errors.As(err, &notFound):
		writeErrorBody(w, r, http.StatusNotFound, notFound.Error(), nil)
	default:
		log.Error().Err(err).Str("path", r.URL.Path).Msg("Unhandled error")
		writeErrorBody(w, r, http.StatusInternalServerError, "Internal server error", nil)
	}
}

func writeErrorBody(w http.ResponseWriter, r *http.Request, status int, message string, fields map[string]string) {
	writeJSON(w, status, errorResponse{
		Timestamp: time.Now().UTC(),
		Status:    status,
		Message:   message,
		Path:      r.URL.Path,
		Errors:    fields,
	})
}

// fieldErrors flattens validator output into one message per failing field.
func fieldErrors(errs validator.ValidationErrors) map[string]string {
	out := make(map[string]string, len(errs))
	for _, fe := range errs {
		out[fe.Field()] = fieldMessage(fe)
	}
	return out
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "max":
		return fmt.Sprintf("must be at most %s characters", fe.Param())
	default:
		return "is invalid"
	}
}
