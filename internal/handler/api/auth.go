package api

import (
	"net/http"
	"strings"

	"github.com/shubhamkarande/PantryGo/internal/domain"
	"github.com/shubhamkarande/PantryGo/internal/middleware"
)

// AuthHandler serves registration, login, and token management.
type AuthHandler struct {
	auth domain.AuthService
}

// NewAuthHandler creates an auth handler.
func NewAuthHandler(auth domain.AuthService) *AuthHandler {
	return &AuthHandler{auth: auth}
}

type registerRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	Name     string `json:"name" validate:"required"`
	Phone    string `json:"phone" validate:"omitempty,min=7,max=15"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken" validate:"required"`
}

type authResponse struct {
	User  *domain.User      `json:"user"`
	Token *domain.TokenPair `json:"auth"`
}

// Register handles POST /api/auth/register.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeAndValidate(r, &req); err != nil {
		ErrorResponse(w, r, err)
		return
	}

	user, pair, err := h.auth.Register(r.Context(), domain.RegisterParams{
		Email:    strings.TrimSpace(req.Email),
		Password: req.Password,
		Name:     strings.TrimSpace(req.Name),
		Phone:    strings.TrimSpace(req.Phone),
	})
	if err != nil {
		ErrorResponse(w, r, err)
		return
	}

	RespondJSON(w, http.StatusCreated, authResponse{User: user, Token: pair})
}

// Login handles POST /api/auth/login.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeAndValidate(r, &req); err != nil {
		ErrorResponse(w, r, err)
		return
	}

	user, pair, err := h.auth.Login(r.Context(), strings.TrimSpace(req.Email), req.Password)
	if err != nil {
		ErrorResponse(w, r, err)
		return
	}

	RespondJSON(w, http.StatusOK, authResponse{User: user, Token: pair})
}

// Refresh handles POST /api/auth/refresh.
func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	var req refreshRequest
	if err := decodeAndValidate(r, &req); err != nil {
		ErrorResponse(w, r, err)
		return
	}

	user, pair, err := h.auth.Refresh(r.Context(), req.RefreshToken)
	if err != nil {
		ErrorResponse(w, r, err)
		return
	}

	RespondJSON(w, http.StatusOK, authResponse{User: user, Token: pair})
}

// Logout handles POST /api/auth/logout. Requires auth.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	header := r.Header.Get("Authorization")
	token := strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))

	if err := h.auth.Logout(r.Context(), token); err != nil {
		ErrorResponse(w, r, err)
		return
	}
	RespondJSON(w, http.StatusNoContent, nil)
}

// Me handles GET /api/auth/me. Requires auth.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUserFromContext(r.Context())
	RespondJSON(w, http.StatusOK, user)
}
