package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"LabKeeper/internal/config"
	"LabKeeper/internal/middleware"
	"LabKeeper/internal/model"
	"LabKeeper/internal/service"
)

// AuthHandler обрабатывает вход и выход.
type AuthHandler struct {
	AuthService *service.AuthService
	Logger      *zap.SugaredLogger
	Config      *config.Config
}

// NewAuthHandler создаёт хендлер аутентификации
func NewAuthHandler(authService *service.AuthService, logger *zap.SugaredLogger, cfg *config.Config) *AuthHandler {
	return &AuthHandler{AuthService: authService, Logger: logger, Config: cfg}
}

// LoginRequest — тело запроса входа.
type LoginRequest struct {
	NTID     string `json:"nt_id"`
	Password string `json:"password,omitempty"`
	IsAdmin  bool   `json:"is_admin,omitempty"`
}

// LoginResponse — успешный вход.
type LoginResponse struct {
	Success bool   `json:"success"`
	NTID    string `json:"nt_id"`
	Role    string `json:"role"`
	Message string `json:"message"`
}

// Login проверяет учётные данные и ставит auth cookie.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.Logger.Warnw("Login: invalid request body", "error", err)
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}

	ntID, role, err := h.AuthService.Login(req.NTID, req.Password, req.IsAdmin)
	switch {
	case errors.Is(err, service.ErrEmptyNTID):
		writeError(w, http.StatusBadRequest, "Please enter your NT ID.")
		return
	case errors.Is(err, service.ErrTooManyAttempts):
		h.Logger.Warnw("Login: admin attempts exceeded", "nt_id", req.NTID)
		writeError(w, http.StatusTooManyRequests, "Too many failed attempts. Try again later.")
		return
	case errors.Is(err, service.ErrBadAdminPassword):
		h.Logger.Warnw("Login: invalid admin password", "nt_id", req.NTID)
		writeError(w, http.StatusUnauthorized, "Invalid admin password.")
		return
	case err != nil:
		h.Logger.Errorw("Login: unexpected error", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	if err := middleware.SetLoginCookie(w, ntID, role, h.Config.AuthSecret); err != nil {
		h.Logger.Errorw("Login: failed to issue auth cookie", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	msg := fmt.Sprintf("Welcome %s!", ntID)
	if role == model.RoleAdmin {
		msg = fmt.Sprintf("Welcome Admin (%s)!", ntID)
	}
	h.Logger.Infow("Login: success", "nt_id", ntID, "role", role)
	writeJSON(w, http.StatusOK, LoginResponse{Success: true, NTID: ntID, Role: role, Message: msg})
}

// Logout гасит auth cookie.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	middleware.ClearLoginCookie(w)
	writeJSON(w, http.StatusOK, StatusResponse{Success: true, Message: "You have been logged out."})
}
