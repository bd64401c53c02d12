package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"LabKeeper/internal/model"
	"LabKeeper/internal/repo"
	"LabKeeper/internal/service"
)

// HistoryHandler отдаёт журнал аудита. Доступ только администраторам.
type HistoryHandler struct {
	InventoryService *service.InventoryService
	Logger           *zap.SugaredLogger
}

// NewHistoryHandler создаёт хендлер журнала
func NewHistoryHandler(invService *service.InventoryService, logger *zap.SugaredLogger) *HistoryHandler {
	return &HistoryHandler{InventoryService: invService, Logger: logger}
}

// HistoryResponse — записи журнала от новых к старым.
type HistoryResponse struct {
	History []model.HistoryEntry `json:"history"`
}

// List отдаёт журнал с необязательными фильтрами nt_id и action.
func (h *HistoryHandler) List(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireAdmin(w, r); !ok {
		return
	}

	q := r.URL.Query()
	action := q.Get("action")
	if action != "" && action != model.ActionLocked && action != model.ActionUnlocked {
		writeError(w, http.StatusBadRequest, "Unknown action filter")
		return
	}

	entries, err := h.InventoryService.History(r.Context(), repo.HistoryFilter{
		NTID:   q.Get("nt_id"),
		Action: action,
	})
	if err != nil {
		h.Logger.Errorw("History: list failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to load history")
		return
	}
	if entries == nil {
		entries = []model.HistoryEntry{}
	}
	writeJSON(w, http.StatusOK, HistoryResponse{History: entries})
}
