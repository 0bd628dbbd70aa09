package handlers

import (
	"context"
	"crypto/md5"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/devconnector/backend/internal/models"
	"github.com/devconnector/backend/internal/services"
	"github.com/devconnector/backend/internal/token"
)

type UsersHandler struct {
	users  services.UserService
	tokens *token.Service
}

func NewUsersHandler(users services.UserService, tokens *token.Service) *UsersHandler {
	return &UsersHandler{users: users, tokens: tokens}
}

// Register creates a user with a bcrypt-hashed password and a gravatar
// avatar derived from the email, then issues a token.
func (h *UsersHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req models.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, models.NewValidationErrors(models.FieldError{Msg: "Invalid request body"}))
		return
	}

	if errs := req.Validate(); len(errs) > 0 {
		writeJSON(w, http.StatusBadRequest, models.NewValidationErrors(errs...))
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		writeServerError(w)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), storeTimeout)
	defer cancel()

	user, err := h.users.Create(ctx, &models.User{
		Name:     req.Name,
		Email:    req.Email,
		Password: string(hashed),
		Avatar:   gravatarURL(req.Email),
	})
	if err != nil {
		if errors.Is(err, services.ErrEmailExists) {
			writeJSON(w, http.StatusBadRequest, models.NewValidationErrors(models.FieldError{Msg: "User already exists"}))
			return
		}
		log.Printf("[Register] email=%s error=%v", req.Email, err)
		writeServerError(w)
		return
	}

	tokenString, err := h.tokens.Issue(user.ID.Hex())
	if err != nil {
		log.Printf("[Register] user=%s error=%v", user.ID.Hex(), err)
		writeServerError(w)
		return
	}

	writeJSON(w, http.StatusOK, models.TokenResponse{Token: tokenString})
}

func gravatarURL(email string) string {
	sum := md5.Sum([]byte(strings.ToLower(strings.TrimSpace(email))))
	return fmt.Sprintf("https://www.gravatar.com/avatar/%x?s=200&r=pg&d=mm", sum)
}
