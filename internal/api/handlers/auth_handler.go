package handlers

import (
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/taskforge/taskforge/internal/api/respond"
	"github.com/taskforge/taskforge/internal/apperr"
	"github.com/taskforge/taskforge/internal/auth"
	"github.com/taskforge/taskforge/internal/services"
	"github.com/taskforge/taskforge/internal/validation"
)

// AuthHandler handles HTTP requests for registration, login and identity.
type AuthHandler struct {
	users  services.UserServiceProvider
	tokens *auth.TokenService
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(users services.UserServiceProvider, tokens *auth.TokenService) *AuthHandler {
	return &AuthHandler{users: users, tokens: tokens}
}

// Register handles new user registration and issues the first token.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	raw, err := decodeBody(r)
	if err != nil {
		respond.Error(w, r, err)
		return
	}
	clean, fieldErrs := validation.Register.Validate(raw)
	if fieldErrs != nil {
		respond.Error(w, r, apperr.Validation(fieldErrs))
		return
	}

	user, err := h.users.Register(r.Context(),
		clean["username"].(string), clean["email"].(string), clean["password"].(string))
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	token, err := h.tokens.Issue(user.ID.Hex(), user.Username)
	if err != nil {
		log.Error().Err(err).Str("user_id", user.ID.Hex()).Msg("Failed to issue token")
		respond.Error(w, r, apperr.Internal(err))
		return
	}

	respond.JSON(w, http.StatusCreated, map[string]any{
		"user":  user,
		"token": token,
	})
}

// Login handles user authentication and token issuance.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	raw, err := decodeBody(r)
	if err != nil {
		respond.Error(w, r, err)
		return
	}
	clean, fieldErrs := validation.Login.Validate(raw)
	if fieldErrs != nil {
		respond.Error(w, r, apperr.Validation(fieldErrs))
		return
	}

	username := clean["username"].(string)
	user, err := h.users.Authenticate(r.Context(), username, clean["password"].(string))
	if err != nil {
		log.Warn().Str("username", username).Msg("Failed authentication attempt")
		respond.Error(w, r, err)
		return
	}

	token, err := h.tokens.Issue(user.ID.Hex(), user.Username)
	if err != nil {
		log.Error().Err(err).Str("user_id", user.ID.Hex()).Msg("Failed to issue token")
		respond.Error(w, r, apperr.Internal(err))
		return
	}

	respond.JSON(w, http.StatusOK, map[string]any{
		"user":  user,
		"token": token,
	})
}

// Profile retrieves the currently authenticated user.
func (h *AuthHandler) Profile(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.ClaimsFromContext(r.Context())
	if !ok {
		respond.Error(w, r, apperr.AuthRequired("Authentication required"))
		return
	}

	user, err := h.users.GetUserByID(r.Context(), claims.UserID)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, http.StatusOK, map[string]any{"user": user})
}

// Verify echoes the verified claims of the presented token.
func (h *AuthHandler) Verify(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.ClaimsFromContext(r.Context())
	if !ok {
		respond.Error(w, r, apperr.AuthRequired("Authentication required"))
		return
	}

	respond.JSON(w, http.StatusOK, map[string]any{
		"claims": map[string]any{
			"userId":    claims.UserID,
			"username":  claims.Username,
			"issuedAt":  claims.IssuedAt.Time,
			"expiresAt": claims.ExpiresAt.Time,
		},
	})
}
