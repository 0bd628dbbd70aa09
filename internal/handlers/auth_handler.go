package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"golang.org/x/crypto/bcrypt"

	"github.com/devconnector/backend/internal/middleware"
	"github.com/devconnector/backend/internal/models"
	"github.com/devconnector/backend/internal/services"
	"github.com/devconnector/backend/internal/token"
)

type AuthHandler struct {
	users  services.UserService
	tokens *token.Service
}

func NewAuthHandler(users services.UserService, tokens *token.Service) *AuthHandler {
	return &AuthHandler{users: users, tokens: tokens}
}

// Me returns the authenticated user's record, password hash excluded.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	ctx, cancel := context.WithTimeout(r.Context(), storeTimeout)
	defer cancel()

	user, err := h.users.GetByID(ctx, userID)
	if err != nil {
		log.Printf("[Me] user=%s error=%v", userID, err)
		writeServerError(w)
		return
	}

	writeJSON(w, http.StatusOK, user)
}

// Login authenticates credentials and issues a token. Unknown emails and
// wrong passwords produce the same generic response.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, models.NewValidationErrors(models.FieldError{Msg: "Invalid request body"}))
		return
	}

	if errs := req.Validate(); len(errs) > 0 {
		writeJSON(w, http.StatusBadRequest, models.NewValidationErrors(errs...))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), storeTimeout)
	defer cancel()

	user, err := h.users.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, services.ErrUserNotFound) {
			h.invalidCredentials(w)
			return
		}
		log.Printf("[Login] email=%s error=%v", req.Email, err)
		writeServerError(w)
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		h.invalidCredentials(w)
		return
	}

	tokenString, err := h.tokens.Issue(user.ID.Hex())
	if err != nil {
		log.Printf("[Login] user=%s error=%v", user.ID.Hex(), err)
		writeServerError(w)
		return
	}

	writeJSON(w, http.StatusOK, models.TokenResponse{Token: tokenString})
}

func (h *AuthHandler) invalidCredentials(w http.ResponseWriter) {
	writeJSON(w, http.StatusBadRequest, models.NewValidationErrors(models.FieldError{Msg: "Invalid credentials"}))
}
