package repo

import (
	"path/filepath"
	"testing"

	"gorm.io/gorm"
)

// newTestDB инициализирует файловую SQLite (modernc.org/sqlite) в temp-каталоге
// теста через InitDB — тем же путём, каким базу открывает сервер.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := InitDB(filepath.Join(t.TempDir(), "history.db"))
	if err != nil {
		t.Fatalf("failed to init history db: %v", err)
	}
	return db
}
