package repo

import (
	"fmt"
	"strings"

	"gorm.io/driver/postgres"
	gormsqlite "gorm.io/driver/sqlite"
	"gorm.io/gorm"
	_ "modernc.org/sqlite"

	"LabKeeper/internal/model"
)

// InitDB открывает базу журнала и накатывает миграции. DSN с префиксом
// postgres:// (или в форме host=...) трактуется как Postgres, любая другая
// строка — как путь к файлу SQLite (чистый Go-драйвер modernc.org/sqlite).
func InitDB(dsn string) (*gorm.DB, error) {
	var dial gorm.Dialector
	switch {
	case strings.HasPrefix(dsn, "postgres://"),
		strings.HasPrefix(dsn, "postgresql://"),
		strings.Contains(dsn, "host="):
		dial = postgres.Open(dsn)
	default:
		dial = gormsqlite.Dialector{DriverName: "sqlite", DSN: dsn}
	}

	db, err := gorm.Open(dial, &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("open history db: %w", err)
	}
	if err := db.AutoMigrate(&model.HistoryEntry{}); err != nil {
		return nil, fmt.Errorf("migrate history db: %w", err)
	}
	return db, nil
}
