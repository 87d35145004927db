package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/Shoys/wd-lab/internal/auth"
	"github.com/Shoys/wd-lab/internal/models"
)

type contextKey string

const (
	userIDKey contextKey = "userID"
	roleKey   contextKey = "role"
)

// Authenticate validates the Authorization bearer token and stores the
// caller's identity in the request context.
func Authenticate(manager *auth.Manager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if !strings.HasPrefix(header, "Bearer ") {
				writeMessage(w, http.StatusUnauthorized, "Not authorized, no token")
				return
			}

			claims, err := manager.ValidateToken(strings.TrimPrefix(header, "Bearer "))
			if err != nil {
				writeMessage(w, http.StatusUnauthorized, "Not authorized, token failed")
				return
			}

			userID, err := primitive.ObjectIDFromHex(claims.UserID)
			if err != nil {
				writeMessage(w, http.StatusUnauthorized, "Not authorized, token failed")
				return
			}

			ctx := context.WithValue(r.Context(), userIDKey, userID)
			ctx = context.WithValue(ctx, roleKey, models.UserRole(claims.Role))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireRole rejects authenticated callers whose role does not match.
func RequireRole(role models.UserRole) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if CallerRole(r) != role {
				writeMessage(w, http.StatusForbidden, "Forbidden: "+string(role)+" access required")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// CallerID returns the authenticated user's id from the request context.
func CallerID(r *http.Request) primitive.ObjectID {
	id, _ := r.Context().Value(userIDKey).(primitive.ObjectID)
	return id
}

// CallerRole returns the authenticated user's role from the request context.
func CallerRole(r *http.Request) models.UserRole {
	role, _ := r.Context().Value(roleKey).(models.UserRole)
	return role
}

func writeMessage(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"message": message})
}
