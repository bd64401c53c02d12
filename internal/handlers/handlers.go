package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"LabKeeper/internal/config"
	"LabKeeper/internal/middleware"
	"LabKeeper/internal/service"
)

type Handler struct {
	Router chi.Router
}

// NewHandler разводящий для хендлеров
func NewHandler(
	invService *service.InventoryService,
	authService *service.AuthService,
	logger *zap.SugaredLogger,
	config *config.Config,
) *Handler {
	r := chi.NewRouter()

	r.Use(middleware.WithGzip)
	r.Use(middleware.WithLogging)
	r.Use(middleware.WithAuth(config.AuthSecret))

	// Handlers
	authHandler := NewAuthHandler(authService, logger, config)
	invHandler := NewInventoryHandler(invService, logger)
	historyHandler := NewHistoryHandler(invService, logger)
	adminHandler := NewAdminHandler(invService, logger)

	// Auth routes
	r.Post("/api/login", authHandler.Login)
	r.Post("/api/logout", authHandler.Logout)

	// Inventory routes
	r.Get("/api/dashboard", invHandler.Dashboard)
	r.Post("/api/toggle-lock", invHandler.ToggleLock)

	// Admin routes
	r.Get("/api/history", historyHandler.List)
	r.Post("/api/admin/add-item", adminHandler.AddItem)
	r.Post("/api/admin/remove-item", adminHandler.RemoveItem)
	r.Post("/api/admin/add-cupboard", adminHandler.AddCupboard)
	r.Post("/api/admin/remove-cupboard", adminHandler.RemoveCupboard)

	return &Handler{Router: r}
}

// StatusResponse — единый формат простых ответов API: подтверждений и отказов.
type StatusResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, StatusResponse{Success: false, Message: message})
}

// requireAdmin достаёт пользователя из контекста и сам отвечает 401/403,
// если тот анонимен или не администратор.
func requireAdmin(w http.ResponseWriter, r *http.Request) (middleware.Identity, bool) {
	user, ok := middleware.GetIdentityFromContext(r.Context())
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return middleware.Identity{}, false
	}
	if !user.IsAdmin() {
		writeError(w, http.StatusForbidden, "Access denied. Admin privileges required.")
		return middleware.Identity{}, false
	}
	return user, true
}
