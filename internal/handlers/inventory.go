package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"LabKeeper/internal/middleware"
	"LabKeeper/internal/model"
	"LabKeeper/internal/service"
)

// InventoryHandler обрабатывает дашборд и переключение замков.
type InventoryHandler struct {
	InventoryService *service.InventoryService
	Logger           *zap.SugaredLogger
}

// NewInventoryHandler создаёт хендлер инвентаря
func NewInventoryHandler(invService *service.InventoryService, logger *zap.SugaredLogger) *InventoryHandler {
	return &InventoryHandler{InventoryService: invService, Logger: logger}
}

// DashboardResponse — все шкафы с позициями.
type DashboardResponse struct {
	Cupboards []model.Cupboard `json:"cupboards"`
}

// ToggleLockRequest — тело запроса переключения замка.
type ToggleLockRequest struct {
	CupboardID int    `json:"cupboard_id"`
	ItemID     string `json:"item_id"`
}

// ToggleLockResponse — успешное переключение.
type ToggleLockResponse struct {
	Success   bool   `json:"success"`
	Action    string `json:"action"`
	Message   string `json:"message"`
	EmailSent bool   `json:"email_sent"`
	NTID      string `json:"nt_id"`
}

// Dashboard отдаёт текущее состояние всех шкафов.
func (h *InventoryHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	if _, ok := middleware.GetIdentityFromContext(r.Context()); !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}
	writeJSON(w, http.StatusOK, DashboardResponse{Cupboards: h.InventoryService.Cupboards()})
}

// ToggleLock переключает замок позиции от имени пользователя из контекста.
func (h *InventoryHandler) ToggleLock(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetIdentityFromContext(r.Context())
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	var req ToggleLockRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.Logger.Warnw("ToggleLock: invalid request body", "error", err)
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}
	if req.CupboardID == 0 || req.ItemID == "" {
		writeError(w, http.StatusBadRequest, "Missing required fields")
		return
	}

	res, err := h.InventoryService.ToggleLock(r.Context(), req.CupboardID, req.ItemID, user.NTID, user.IsAdmin())
	switch {
	case errors.Is(err, service.ErrItemNotFound), errors.Is(err, service.ErrCupboardNotFound):
		writeError(w, http.StatusNotFound, "Item not found")
		return
	case errors.Is(err, service.ErrNotAuthorized):
		name := req.ItemID
		if it, _, gerr := h.InventoryService.GetItem(req.CupboardID, req.ItemID); gerr == nil {
			name = it.Name
		}
		writeError(w, http.StatusForbidden,
			fmt.Sprintf("You cannot return %q because it was borrowed by another user.", name))
		return
	case err != nil:
		h.Logger.Errorw("ToggleLock: service error",
			"cupboard_id", req.CupboardID,
			"item_id", req.ItemID,
			"error", err,
		)
		writeError(w, http.StatusInternalServerError, "Failed to save inventory state")
		return
	}

	writeJSON(w, http.StatusOK, ToggleLockResponse{
		Success:   true,
		Action:    res.Action,
		Message:   res.Message,
		EmailSent: res.EmailSent,
		NTID:      user.NTID,
	})
}
