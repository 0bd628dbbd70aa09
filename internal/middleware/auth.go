package middleware

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/devconnector/backend/internal/models"
	"github.com/devconnector/backend/internal/token"
)

type contextKey string

const UserIDKey contextKey = "userID"

// TokenAuth guards private routes. It reads the bearer token from the
// x-auth-token header and attaches the verified user id to the request
// context.
func TokenAuth(tokens *token.Service) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenString := r.Header.Get("x-auth-token")
			if tokenString == "" {
				writeJSON(w, http.StatusUnauthorized, models.NewMessage("No Token, Authorization denied"))
				return
			}

			userID, err := tokens.Verify(tokenString)
			if err != nil {
				writeJSON(w, http.StatusUnauthorized, models.NewMessage("Token is not valid"))
				return
			}

			ctx := context.WithValue(r.Context(), UserIDKey, userID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetUserID extracts the authenticated user id from context.
func GetUserID(ctx context.Context) string {
	userID, ok := ctx.Value(UserIDKey).(string)
	if !ok {
		return ""
	}
	return userID
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
