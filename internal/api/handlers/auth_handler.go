package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/Vaishnavigophane/NestAway-backend/internal/auth"
	"github.com/Vaishnavigophane/NestAway-backend/internal/services"
)

// AuthHandler handles registration, login and account management.
type AuthHandler struct {
	users    services.UserServiceProvider
	sessions *auth.Manager
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(users services.UserServiceProvider, sessions *auth.Manager) *AuthHandler {
	return &AuthHandler{users: users, sessions: sessions}
}

// RegisterPayload defines the structure for registration requests.
type RegisterPayload struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

// LoginPayload defines the structure for login requests.
type LoginPayload struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Register handles new user registration.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var payload RegisterPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, "Registration failed", err)
		return
	}

	if _, err := h.users.Register(r.Context(), payload.Username, payload.Email, payload.Password, payload.Role); err != nil {
		log.Error().Err(err).Str("username", payload.Username).Msg("Registration error")
		writeError(w, http.StatusBadRequest, "Registration failed", err)
		return
	}

	writeMessage(w, http.StatusOK, "Registration successful!")
}

// Login authenticates a user and opens a cookie session.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var payload LoginPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, "Login failed", err)
		return
	}

	user, err := h.users.Authenticate(r.Context(), payload.Username, payload.Password)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			log.Warn().Str("username", payload.Username).Msg("Failed authentication attempt")
			writeMessage(w, http.StatusUnauthorized, "Invalid username or password")
			return
		}
		log.Error().Err(err).Str("username", payload.Username).Msg("Login error")
		writeError(w, http.StatusBadRequest, "Login failed", err)
		return
	}

	if err := h.sessions.Issue(r.Context(), w, user.Session()); err != nil {
		log.Error().Err(err).Int64("user_id", user.ID).Msg("Failed to open session")
		writeError(w, http.StatusInternalServerError, "Login failed", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"message": "Login successful!",
		"user": map[string]any{
			"id":       user.ID,
			"username": user.Username,
			"role":     user.Role,
		},
	})
}

// Logout closes the current session.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	h.sessions.Clear(r.Context(), w, r)
	writeMessage(w, http.StatusOK, "Logged out successfully")
}

// Profile returns the session's cached user fields.
func (h *AuthHandler) Profile(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFrom(r.Context())
	if !ok {
		writeMessage(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	// phone and address are not part of the user record yet; keep the
	// fields for frontend compatibility.
	writeJSON(w, http.StatusOK, map[string]any{
		"id":       user.ID,
		"username": user.Username,
		"email":    user.Email,
		"phone":    "",
		"address":  "",
		"role":     user.Role,
	})
}

// DeleteAccount removes the user, their flats and images, then ends the
// session.
func (h *AuthHandler) DeleteAccount(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFrom(r.Context())
	if !ok {
		writeMessage(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	if err := h.users.DeleteAccount(r.Context(), user); err != nil {
		log.Error().Err(err).Int64("user_id", user.ID).Msg("Failed to delete account")
		writeError(w, http.StatusInternalServerError, "Failed to delete account", err)
		return
	}

	h.sessions.Clear(r.Context(), w, r)
	writeMessage(w, http.StatusOK, "Your account has been deleted successfully.")
}
