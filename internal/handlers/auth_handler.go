package handlers

import (
	"errors"
	"net/http"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/Shoys/wd-lab/internal/auth"
	"github.com/Shoys/wd-lab/internal/models"
	"github.com/Shoys/wd-lab/internal/store"
)

type AuthHandler struct {
	users  store.UserStore
	tokens *auth.Manager
	logger *zap.Logger
}

func NewAuthHandler(users store.UserStore, tokens *auth.Manager, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{users: users, tokens: tokens, logger: logger}
}

type registerRequest struct {
	Username string `json:"username" validate:"required,min=1"`
	Password string `json:"password" validate:"required,min=6"`
	Role     string `json:"role" validate:"required,oneof=teacher student"`
	Name     string `json:"name"`
	Email    string `json:"email" validate:"omitempty,email"`
}

type loginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type authResponse struct {
	models.User
	Token string `json:"token"`
}

// Register creates a user account and returns it with a fresh token.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		h.logger.Error("failed to hash password", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "Server error")
		return
	}

	name := req.Name
	if name == "" {
		name = req.Username
	}
	user := models.User{
		Username: req.Username,
		Password: string(hashed),
		Name:     name,
		Email:    req.Email,
		Role:     models.UserRole(req.Role),
	}

	if err := h.users.Create(r.Context(), &user); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			writeError(w, http.StatusBadRequest, "Username already exists")
			return
		}
		h.logger.Error("failed to create user", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "Server error")
		return
	}

	token, err := h.tokens.GenerateToken(user.ID.Hex(), string(user.Role))
	if err != nil {
		h.logger.Error("failed to generate token", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "Server error")
		return
	}

	writeJSON(w, http.StatusCreated, authResponse{User: user, Token: token})
}

// Login checks credentials and returns the user with a fresh token.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	user, err := h.users.FindByUsername(r.Context(), req.Username)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusUnauthorized, "Invalid username or password")
			return
		}
		h.logger.Error("failed to look up user", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "Server error")
		return
	}

	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)) != nil {
		writeError(w, http.StatusUnauthorized, "Invalid username or password")
		return
	}

	token, err := h.tokens.GenerateToken(user.ID.Hex(), string(user.Role))
	if err != nil {
		h.logger.Error("failed to generate token", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "Server error")
		return
	}

	writeJSON(w, http.StatusOK, authResponse{User: *user, Token: token})
}
