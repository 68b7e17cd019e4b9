package server

import (
	"encoding/json"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/jonathan/jobconnect/internal/logger"
	"github.com/jonathan/jobconnect/internal/server/middleware"
	"github.com/jonathan/jobconnect/internal/types"
)

// AuthHandler handles authentication-related HTTP requests.
type AuthHandler struct {
	userService  *UserService
	jwtService   *JWTService
	cookieSecure bool
	logger       *zap.Logger
}

// NewAuthHandler creates a new AuthHandler with the given dependencies.
func NewAuthHandler(userService *UserService, jwtService *JWTService, cookieSecure bool, log *zap.Logger) *AuthHandler {
	return &AuthHandler{
		userService:  userService,
		jwtService:   jwtService,
		cookieSecure: cookieSecure,
		logger:       logger.OrNop(log),
	}
}

// Register handles user registration requests.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req types.CreateUserRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.error(w, err)
		return
	}

	user, err := h.userService.Register(r.Context(), &req)
	if err != nil {
		h.error(w, err)
		return
	}
	h.issueSession(w, http.StatusCreated, user)
}

// Login handles user login requests.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req types.LoginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.error(w, err)
		return
	}

	user, err := h.userService.Login(r.Context(), &req)
	if err != nil {
		h.error(w, err)
		return
	}
	h.issueSession(w, http.StatusOK, user)
}

// Logout clears the session cookie. Tokens are stateless, so a bearer token stays valid until it expires.
func (h *AuthHandler) Logout(w http.ResponseWriter, _ *http.Request) {
	http.SetCookie(w, h.cookie("", -1))
	h.json(w, http.StatusOK, map[string]string{"message": "Logged out"})
}

// Me returns the authenticated user.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	userID, err := callerID(r)
	if err != nil {
		h.error(w, err)
		return
	}
	user, err := h.userService.CurrentUser(r.Context(), userID)
	if err != nil {
		h.error(w, err)
		return
	}
	h.json(w, http.StatusOK, user)
}

// UpdatePassword handles password update requests for the authenticated user.
func (h *AuthHandler) UpdatePassword(w http.ResponseWriter, r *http.Request) {
	userID, err := callerID(r)
	if err != nil {
		h.error(w, err)
		return
	}

	var req types.UpdatePasswordRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.error(w, err)
		return
	}

	if err := h.userService.UpdatePassword(r.Context(), userID, req.CurrentPassword, req.NewPassword); err != nil {
		h.error(w, err)
		return
	}

	h.json(w, http.StatusOK, map[string]string{"message": "Password updated successfully"})
}

func (h *AuthHandler) issueSession(w http.ResponseWriter, status int, user *types.User) {
	token, err := h.jwtService.GenerateToken(user.ID)
	if err != nil {
		h.logger.Error("failed to generate token", zap.Error(err))
		h.json(w, http.StatusInternalServerError, map[string]string{"error": "Failed to generate token"})
		return
	}

	http.SetCookie(w, h.cookie(token, int(h.jwtService.config.TTL()/time.Second)))
	h.json(w, status, types.LoginResponse{User: user, Token: token})
}

func (h *AuthHandler) cookie(value string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     middleware.TokenCookieName,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   h.cookieSecure,
		SameSite: http.SameSiteLaxMode,
	}
}

func (h *AuthHandler) json(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func (h *AuthHandler) error(w http.ResponseWriter, err error) {
	status := HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		h.logger.Error("auth request failed", zap.Error(err))
	}
	h.json(w, status, map[string]string{"error": publicMessage(err, status)})
}
