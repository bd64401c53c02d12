package repo

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"LabKeeper/internal/model"
)

// DefaultHistoryLimit — сколько записей журнала отдаётся, если лимит не задан.
const DefaultHistoryLimit = 200

// HistoryFilter — необязательные фильтры выборки журнала.
type HistoryFilter struct {
	NTID   string // сравнение без учёта регистра
	Action string // model.ActionLocked либо model.ActionUnlocked
	Limit  int    // 0 — DefaultHistoryLimit
}

// HistoryRepository определяет контракт журнала аудита для слоя сервиса:
// только добавление и выборка, записи не изменяются.
type HistoryRepository interface {
	// Append добавляет запись в журнал.
	Append(ctx context.Context, entry *model.HistoryEntry) error

	// List возвращает записи от новых к старым с учётом фильтров.
	List(ctx context.Context, f HistoryFilter) ([]model.HistoryEntry, error)
}

type historyRepo struct {
	db *gorm.DB
}

// NewHistoryRepository создаёт реализацию журнала поверх gorm.
func NewHistoryRepository(db *gorm.DB) HistoryRepository {
	return &historyRepo{db: db}
}

func (r *historyRepo) Append(ctx context.Context, entry *model.HistoryEntry) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

func (r *historyRepo) List(ctx context.Context, f HistoryFilter) ([]model.HistoryEntry, error) {
	limit := f.Limit
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}

	q := r.db.WithContext(ctx).Model(&model.HistoryEntry{})
	if f.NTID != "" {
		q = q.Where("upper(nt_id) = ?", strings.ToUpper(f.NTID))
	}
	if f.Action != "" {
		q = q.Where("action = ?", f.Action)
	}

	var entries []model.HistoryEntry
	err := q.Order("created_at DESC").Limit(limit).Find(&entries).Error
	return entries, err
}
