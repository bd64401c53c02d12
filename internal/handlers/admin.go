package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"LabKeeper/internal/service"
)

// AdminHandler обрабатывает администраторские операции над инвентарём.
type AdminHandler struct {
	InventoryService *service.InventoryService
	Logger           *zap.SugaredLogger
}

// NewAdminHandler создаёт хендлер администрирования
func NewAdminHandler(invService *service.InventoryService, logger *zap.SugaredLogger) *AdminHandler {
	return &AdminHandler{InventoryService: invService, Logger: logger}
}

// AddItemRequest — тело запроса добавления позиции.
type AddItemRequest struct {
	CupboardID int    `json:"cupboard_id"`
	ItemName   string `json:"item_name"`
}

// RemoveItemRequest — тело запроса удаления позиции.
type RemoveItemRequest struct {
	CupboardID int    `json:"cupboard_id"`
	ItemID     string `json:"item_id"`
}

// AddCupboardRequest — тело запроса добавления шкафа.
type AddCupboardRequest struct {
	CupboardName string `json:"cupboard_name"`
}

// RemoveCupboardRequest — тело запроса удаления шкафа.
type RemoveCupboardRequest struct {
	CupboardID int `json:"cupboard_id"`
}

// AddItem добавляет запертую позицию в шкаф.
func (h *AdminHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	user, ok := requireAdmin(w, r)
	if !ok {
		return
	}
	var req AddItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}
	req.ItemName = strings.TrimSpace(req.ItemName)
	if req.CupboardID == 0 || req.ItemName == "" {
		writeError(w, http.StatusBadRequest, "Missing required fields")
		return
	}

	item, err := h.InventoryService.AddItem(req.CupboardID, req.ItemName)
	if h.handleStoreError(w, err, "AddItem") {
		return
	}
	h.Logger.Infow("admin: item added", "nt_id", user.NTID, "item_id", item.ID)
	writeJSON(w, http.StatusOK, StatusResponse{
		Success: true,
		Message: fmt.Sprintf("Item %q added as %s.", item.Name, item.ID),
	})
}

// RemoveItem удаляет позицию из шкафа.
func (h *AdminHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	user, ok := requireAdmin(w, r)
	if !ok {
		return
	}
	var req RemoveItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}
	if req.CupboardID == 0 || req.ItemID == "" {
		writeError(w, http.StatusBadRequest, "Missing required fields")
		return
	}

	if h.handleStoreError(w, h.InventoryService.RemoveItem(req.CupboardID, req.ItemID), "RemoveItem") {
		return
	}
	h.Logger.Infow("admin: item removed", "nt_id", user.NTID, "item_id", req.ItemID)
	writeJSON(w, http.StatusOK, StatusResponse{
		Success: true,
		Message: fmt.Sprintf("Item %s removed.", req.ItemID),
	})
}

// AddCupboard добавляет пустой шкаф.
func (h *AdminHandler) AddCupboard(w http.ResponseWriter, r *http.Request) {
	user, ok := requireAdmin(w, r)
	if !ok {
		return
	}
	var req AddCupboardRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}
	req.CupboardName = strings.TrimSpace(req.CupboardName)
	if req.CupboardName == "" {
		writeError(w, http.StatusBadRequest, "Missing required fields")
		return
	}

	c, err := h.InventoryService.AddCupboard(req.CupboardName)
	if h.handleStoreError(w, err, "AddCupboard") {
		return
	}
	h.Logger.Infow("admin: cupboard added", "nt_id", user.NTID, "cupboard_id", c.ID)
	writeJSON(w, http.StatusOK, StatusResponse{
		Success: true,
		Message: fmt.Sprintf("Cupboard %q added with id %d.", c.Name, c.ID),
	})
}

// RemoveCupboard удаляет шкаф вместе с позициями.
func (h *AdminHandler) RemoveCupboard(w http.ResponseWriter, r *http.Request) {
	user, ok := requireAdmin(w, r)
	if !ok {
		return
	}
	var req RemoveCupboardRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}
	if req.CupboardID == 0 {
		writeError(w, http.StatusBadRequest, "Missing required fields")
		return
	}

	if h.handleStoreError(w, h.InventoryService.RemoveCupboard(req.CupboardID), "RemoveCupboard") {
		return
	}
	h.Logger.Infow("admin: cupboard removed", "nt_id", user.NTID, "cupboard_id", req.CupboardID)
	writeJSON(w, http.StatusOK, StatusResponse{
		Success: true,
		Message: fmt.Sprintf("Cupboard %d removed.", req.CupboardID),
	})
}

// handleStoreError пишет ответ для ошибки хранилища и сообщает, был ли отказ.
func (h *AdminHandler) handleStoreError(w http.ResponseWriter, err error, op string) bool {
	switch {
	case err == nil:
		return false
	case errors.Is(err, service.ErrCupboardNotFound):
		writeError(w, http.StatusNotFound, "Cupboard not found")
	case errors.Is(err, service.ErrItemNotFound):
		writeError(w, http.StatusNotFound, "Item not found")
	default:
		h.Logger.Errorw(op+": store error", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to save inventory state")
	}
	return true
}
