package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/shiftboard/backend/internal/auth"
	"github.com/shiftboard/backend/internal/types"
	"github.com/shiftboard/backend/internal/users"
)

// userView is a user without the password hash
type userView struct {
	ID       string     `json:"id"`
	Username string     `json:"username"`
	Role     types.Role `json:"role"`
}

func toView(u types.User) userView {
	return userView{ID: u.ID, Username: u.Username, Role: u.Role}
}

// UsersHandler serves login and user administration
type UsersHandler struct {
	users  *users.Service
	tokens *auth.TokenManager
	logger zerolog.Logger
}

// NewUsersHandler creates a new UsersHandler
func NewUsersHandler(userSvc *users.Service, tokens *auth.TokenManager, logger zerolog.Logger) *UsersHandler {
	return &UsersHandler{
		users:  userSvc,
		tokens: tokens,
		logger: logger.With().Str("component", "users_api").Logger(),
	}
}

// Routes mounts the user administration endpoints on a chi router
func (h *UsersHandler) Routes(r chi.Router) {
	r.Get("/", h.List)
	r.Post("/", h.Create)
	r.Delete("/{id}", h.Delete)
	r.Put("/{id}/password", h.ChangePassword)
}

// Login handles POST /api/login
func (h *UsersHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	user, err := h.users.Authenticate(req.Username, req.Password)
	if err != nil {
		if errors.Is(err, users.ErrInvalidCredentials) {
			h.logger.Warn().Str("username", req.Username).Msg("failed login attempt")
			writeError(w, http.StatusUnauthorized, err.Error())
			return
		}
		writeServiceError(w, err)
		return
	}

	token, err := h.tokens.Issue(user, time.Now())
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to issue token")
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	h.logger.Info().Str("username", user.Username).Msg("user logged in")
	writeJSON(w, http.StatusOK, map[string]any{
		"token": token,
		"user":  toView(user),
	})
}

// List handles GET /api/users
func (h *UsersHandler) List(w http.ResponseWriter, r *http.Request) {
	all, err := h.users.List()
	if err != nil {
		writeServiceError(w, err)
		return
	}
	views := make([]userView, 0, len(all))
	for _, u := range all {
		views = append(views, toView(u))
	}
	writeJSON(w, http.StatusOK, views)
}

// Create handles POST /api/users
func (h *UsersHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username string     `json:"username"`
		Password string     `json:"password"`
		Role     types.Role `json:"role"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	created, err := h.users.Add(req.Username, req.Password, req.Role)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toView(created))
}

// Delete handles DELETE /api/users/{id}
func (h *UsersHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.users.Remove(chi.URLParam(r, "id")); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ChangePassword handles PUT /api/users/{id}/password
func (h *UsersHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	if err := h.users.ChangePassword(chi.URLParam(r, "id"), req.Password); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
