package handlers

import (
	"encoding/json"
	"net/http"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/gincol-ia/user-crud-hexagonal/internal/models"
	"github.com/gincol-ia/user-crud-hexagonal/internal/services"
)

// UserHandler handles HTTP requests for user management.
type UserHandler struct {
	service  services.UserServiceProvider
	validate *validator.Validate
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(service services.UserServiceProvider) *UserHandler {
	return &UserHandler{service: service, validate: newValidator()}
}

// newValidator builds a validator that reports fields by their json name,
// so validation errors match the request body keys.
func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// UserPayload defines the structure for create and update requests.
type UserPayload struct {
	Username  string `json:"username" validate:"required,max=50"`
	Email     string `json:"email" validate:"required,email"`
	FirstName string `json:"firstName" validate:"required"`
	LastName  string `json:"lastName" validate:"required"`
}

// UserResponse is the transport shape of a user.
type UserResponse struct {
	ID        uuid.UUID `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	FirstName string    `json:"firstName"`
	LastName  string    `json:"lastName"`
	FullName  string    `json:"fullName"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
	Active    bool      `json:"active"`
}

func toUserResponse(u *models.User) UserResponse {
	return UserResponse{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		FullName:  u.FullName(),
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
		Active:    u.Active,
	}
}

// Create handles new user creation.
func (h *UserHandler) Create(w http.ResponseWriter, r *http.Request) {
	payload, ok := h.decodePayload(w, r)
	if !ok {
		return
	}

	user, err := h.service.CreateUser(r.Context(), payload.Username, payload.Email, payload.FirstName, payload.LastName)
	if err != nil {
		log.Warn().Err(err).Str("username", payload.Username).Msg("Failed to create user")
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, toUserResponse(user))
}

// Get handles retrieving a user by their ID.
func (h *UserHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := h.parseID(w, r)
	if !ok {
		return
	}

	user, err := h.service.GetUserByID(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toUserResponse(user))
}

// GetByUsername handles retrieving a user by their username.
func (h *UserHandler) GetByUsername(w http.ResponseWriter, r *http.Request) {
	username := chi.URLParam(r, "username")
	user, err := h.service.GetUserByUsername(r.Context(), username)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toUserResponse(user))
}

// List handles listing users, optionally restricted to active ones via the
// activeOnly query parameter. An absent or unparseable value means false.
func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	activeOnly, _ := strconv.ParseBool(r.URL.Query().Get("activeOnly"))

	var (
		users []models.User
		err   error
	)
	if activeOnly {
		users, err = h.service.GetAllActiveUsers(r.Context())
	} else {
		users, err = h.service.GetAllUsers(r.Context())
	}
	if err != nil {
		writeError(w, r, err)
		return
	}

	responses := make([]UserResponse, 0, len(users))
	for i := range users {
		responses = append(responses, toUserResponse(&users[i]))
	}
	writeJSON(w, http.StatusOK, responses)
}

// Update handles replacing a user's profile information.
func (h *UserHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := h.parseID(w, r)
	if !ok {
		return
	}
	payload, ok := h.decodePayload(w, r)
	if !ok {
		return
	}

	user, err := h.service.UpdateUser(r.Context(), id, payload.Username, payload.Email, payload.FirstName, payload.LastName)
	if err != nil {
		log.Warn().Err(err).Str("user_id", id.String()).Msg("Failed to update user")
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toUserResponse(user))
}

// Deactivate handles marking a user inactive.
func (h *UserHandler) Deactivate(w http.ResponseWriter, r *http.Request) {
	h.setActive(w, r, false)
}

// Activate handles marking a user active again.
func (h *UserHandler) Activate(w http.ResponseWriter, r *http.Request) {
	h.setActive(w, r, true)
}

func (h *UserHandler) setActive(w http.ResponseWriter, r *http.Request, active bool) {
	id, ok := h.parseID(w, r)
	if !ok {
		return
	}

	var err error
	if active {
		err = h.service.ActivateUser(r.Context(), id)
	} else {
		err = h.service.DeactivateUser(r.Context(), id)
	}
	if err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Delete handles the permanent deletion of a user.
func (h *UserHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := h.parseID(w, r)
	if !ok {
		return
	}

	if err := h.service.DeleteUser(r.Context(), id); err != nil {
		log.Warn().Err(err).Str("user_id", id.String()).Msg("Failed to delete user")
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// decodePayload decodes and validates a create/update body. It writes the
// error response itself and reports success through the bool.
func (h *UserHandler) decodePayload(w http.ResponseWriter, r *http.Request) (UserPayload, bool) {
	var payload UserPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeErrorBody(w, r, http.StatusBadRequest, "Invalid request body", nil)
		return payload, false
	}
	if err := h.validate.Struct(payload); err != nil {
		writeError(w, r, err)
		return payload, false
	}
	return payload, true
}

func (h *UserHandler) parseID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeErrorBody(w, r, http.StatusBadRequest, "Invalid user ID", nil)
		return uuid.Nil, false
	}
	return id, true
}
