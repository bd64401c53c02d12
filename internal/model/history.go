package model

import "time"

// Действия, фиксируемые в журнале: unlocked — выдача, locked — возврат.
const (
	ActionLocked   = "locked"
	ActionUnlocked = "unlocked"
)

// HistoryEntry — запись журнала аудита. Журнал только пополняется:
// записи никогда не изменяются и не удаляются.
type HistoryEntry struct {
	ID string `gorm:"primaryKey;type:uuid" json:"id"`

	CupboardID int    `gorm:"not null;index" json:"cupboard_id"`
	ItemID     string `gorm:"not null;index" json:"item_id"`
	Action     string `gorm:"not null;index" json:"action"`

	// Имена дублируются в записи, чтобы журнал читался и после
	// переименования или удаления позиции.
	ItemName     string `gorm:"not null" json:"item_name"`
	CupboardName string `gorm:"not null" json:"cupboard_name"`

	NTID      string `gorm:"column:nt_id;not null;index" json:"nt_id"`
	EmailSent bool   `gorm:"not null;default:false" json:"email_sent"`

	CreatedAt time.Time `gorm:"autoCreateTime;index" json:"timestamp"`
}
