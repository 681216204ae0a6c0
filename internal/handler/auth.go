package handler

import (
	"errors"
	"net/http"

	"github.com/MonkyMars/gecho"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/kiwari-pos/floor/internal/auth"
)

// StaffDirectory defines the roster lookups needed by auth handlers.
// Satisfied by *auth.Roster; narrow interface for testability.
type StaffDirectory interface {
	Authenticate(name, pin string) (auth.Staff, error)
	ByID(id uuid.UUID) (auth.Staff, error)
}

// AuthHandler handles authentication endpoints.
type AuthHandler struct {
	staff     StaffDirectory
	jwtSecret string
	logger    *gecho.Logger
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(staff StaffDirectory, jwtSecret string, logger *gecho.Logger) *AuthHandler {
	return &AuthHandler{staff: staff, jwtSecret: jwtSecret, logger: logger}
}

// RegisterRoutes registers auth endpoints on the given Chi router.
func (h *AuthHandler) RegisterRoutes(r chi.Router) {
	r.Post("/auth/login", h.Login)
	r.Post("/auth/refresh", h.Refresh)
}

// --- Request / Response types ---

type loginRequest struct {
	Name string `json:"name" validate:"required,max=64"`
	Pin  string `json:"pin" validate:"required,max=12"`
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

type tokenResponse struct {
	AccessToken  string        `json:"access_token"`
	RefreshToken string        `json:"refresh_token"`
	Staff        staffResponse `json:"staff"`
}

type staffResponse struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
	Role string    `json:"role"`
}

// --- Handlers ---

// Login handles name + PIN authentication from a floor device.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	req, err := decodeBody[loginRequest](r)
	if err != nil {
		writeBodyError(w, err)
		return
	}

	staff, err := h.staff.Authenticate(req.Name, req.Pin)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			h.logger.Warn("Failed login", gecho.Field("name", req.Name))
			writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "invalid credentials"})
			return
		}
		h.logger.Error("Login lookup failed", gecho.Field("error", err))
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	h.issueTokens(w, staff)
}

// Refresh exchanges a refresh token for a new token pair.
func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	req, err := decodeBody[refreshRequest](r)
	if err != nil {
		writeBodyError(w, err)
		return
	}

	staffID, err := auth.ValidateRefreshToken(h.jwtSecret, req.RefreshToken)
	if err != nil {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "invalid refresh token"})
		return
	}

	staff, err := h.staff.ByID(staffID)
	if err != nil {
		// Removed from the roster since the token was issued.
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "invalid refresh token"})
		return
	}

	h.issueTokens(w, staff)
}

func (h *AuthHandler) issueTokens(w http.ResponseWriter, staff auth.Staff) {
	accessToken, err := auth.GenerateToken(h.jwtSecret, staff.ID, staff.Name, staff.Role)
	if err != nil {
		h.logger.Error("Generating access token", gecho.Field("error", err))
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}
	refreshToken, err := auth.GenerateRefreshToken(h.jwtSecret, staff.ID)
	if err != nil {
		h.logger.Error("Generating refresh token", gecho.Field("error", err))
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	writeJSON(w, http.StatusOK, tokenResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		Staff: staffResponse{
			ID:   staff.ID,
			Name: staff.Name,
			Role: staff.Role,
		},
	})
}
