package handlers

import (
	"errors"
	"net/http"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/Shoys/wd-lab/internal/store"
)

type UserHandler struct {
	users  store.UserStore
	logger *zap.Logger
}

func NewUserHandler(users store.UserStore, logger *zap.Logger) *UserHandler {
	return &UserHandler{users: users, logger: logger}
}

// GetProfile returns a public user record by the "user" query parameter.
// An absent, malformed or unresolved id is uniformly a 404; the password
// hash is never serialized.
func (h *UserHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	userID, err := primitive.ObjectIDFromHex(r.URL.Query().Get("user"))
	if err != nil {
		writeError(w, http.StatusNotFound, "User not found")
		return
	}

	user, err := h.users.FindByID(r.Context(), userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "User not found")
			return
		}
		h.logger.Error("failed to fetch user", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "Server error")
		return
	}
	writeJSON(w, http.StatusOK, user)
}
