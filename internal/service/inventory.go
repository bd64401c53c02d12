package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"LabKeeper/internal/model"
	"LabKeeper/internal/notify"
	"LabKeeper/internal/repo"
)

// Сентинельные ошибки инвентаря, по которым хендлеры выбирают HTTP-статус.
var (
	ErrItemNotFound     = repo.ErrItemNotFound
	ErrCupboardNotFound = repo.ErrCupboardNotFound
	ErrNotAuthorized    = repo.ErrNotAuthorized
)

// ToggleResult — итог переключения замка для API-слоя.
type ToggleResult struct {
	Action       string
	Message      string
	ItemName     string
	CupboardName string
	EmailSent    bool
}

// InventoryService инкапсулирует рабочий процесс переключения замка:
// хранилище, уведомление и журнал аудита.
type InventoryService struct {
	store    repo.Inventory
	history  repo.HistoryRepository
	notifier notify.Notifier
	logger   *zap.SugaredLogger
}

func NewInventoryService(store repo.Inventory, history repo.HistoryRepository, notifier notify.Notifier, logger *zap.SugaredLogger) *InventoryService {
	return &InventoryService{store: store, history: history, notifier: notifier, logger: logger}
}

// ToggleLock переключает замок позиции от имени пользователя ntID.
// Порядок фиксированный: переворот с записью файла под замком хранилища,
// затем уведомление с ограниченным таймаутом, затем единственная запись
// журнала с итоговым флагом email_sent. Недоставленное письмо отказом
// переключения не считается; отказ журнала откатывает переключение.
func (s *InventoryService) ToggleLock(ctx context.Context, cupboardID int, itemID, ntID string, isAdmin bool) (ToggleResult, error) {
	out, err := s.store.ToggleItem(cupboardID, itemID, ntID, isAdmin)
	if err != nil {
		return ToggleResult{}, err
	}

	now := time.Now().UTC()
	sent := s.notifier.Notify(ctx, notify.Event{
		Action:       out.Action,
		ItemName:     out.Item.Name,
		CupboardName: out.CupboardName,
		NTID:         ntID,
		At:           now,
	})

	entry := &model.HistoryEntry{
		ID:           uuid.NewString(),
		CupboardID:   out.CupboardID,
		ItemID:       out.Item.ID,
		Action:       out.Action,
		ItemName:     out.Item.Name,
		CupboardName: out.CupboardName,
		NTID:         ntID,
		EmailSent:    sent,
		CreatedAt:    now,
	}
	if err := s.history.Append(ctx, entry); err != nil {
		s.logger.Errorw("history append failed, reverting toggle",
			"cupboard_id", cupboardID,
			"item_id", itemID,
			"error", err,
		)
		if rerr := s.store.RestoreItem(cupboardID, out.Item.ID, out.Prev, out.Item); rerr != nil {
			s.logger.Errorw("toggle revert failed", "cupboard_id", cupboardID, "item_id", itemID, "error", rerr)
		}
		return ToggleResult{}, fmt.Errorf("append history: %w", err)
	}

	return ToggleResult{
		Action:       out.Action,
		Message:      toggleMessage(out.Action, out.Item.Name, ntID),
		ItemName:     out.Item.Name,
		CupboardName: out.CupboardName,
		EmailSent:    sent,
	}, nil
}

func toggleMessage(action, itemName, ntID string) string {
	if action == model.ActionLocked {
		return fmt.Sprintf("Item %q has been returned (locked) by %s.", itemName, ntID)
	}
	return fmt.Sprintf("Item %q has been borrowed (unlocked) by %s.", itemName, ntID)
}

// Cupboards отдаёт все шкафы с позициями.
func (s *InventoryService) Cupboards() []model.Cupboard {
	return s.store.Cupboards()
}

// GetItem отдаёт позицию и имя её шкафа.
func (s *InventoryService) GetItem(cupboardID int, itemID string) (model.Item, string, error) {
	return s.store.GetItem(cupboardID, itemID)
}

// History отдаёт записи журнала с учётом фильтров.
func (s *InventoryService) History(ctx context.Context, f repo.HistoryFilter) ([]model.HistoryEntry, error) {
	return s.history.List(ctx, f)
}

// AddItem добавляет запертую позицию в шкаф.
func (s *InventoryService) AddItem(cupboardID int, name string) (model.Item, error) {
	item, err := s.store.AddItem(cupboardID, name)
	if err != nil {
		return model.Item{}, err
	}
	s.logger.Infow("item added", "cupboard_id", cupboardID, "item_id", item.ID, "name", item.Name)
	return item, nil
}

// RemoveItem удаляет позицию из шкафа.
func (s *InventoryService) RemoveItem(cupboardID int, itemID string) error {
	if err := s.store.RemoveItem(cupboardID, itemID); err != nil {
		return err
	}
	s.logger.Infow("item removed", "cupboard_id", cupboardID, "item_id", itemID)
	return nil
}

// AddCupboard добавляет пустой шкаф.
func (s *InventoryService) AddCupboard(name string) (model.Cupboard, error) {
	c, err := s.store.AddCupboard(name)
	if err != nil {
		return model.Cupboard{}, err
	}
	s.logger.Infow("cupboard added", "cupboard_id", c.ID, "name", c.Name)
	return c, nil
}

// RemoveCupboard удаляет шкаф вместе с позициями.
func (s *InventoryService) RemoveCupboard(cupboardID int) error {
	if err := s.store.RemoveCupboard(cupboardID); err != nil {
		return err
	}
	s.logger.Infow("cupboard removed", "cupboard_id", cupboardID)
	return nil
}
