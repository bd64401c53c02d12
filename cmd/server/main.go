package main

import (
	"net/http"

	"go.uber.org/zap"

	"LabKeeper/internal/config"
	"LabKeeper/internal/handlers"
	"LabKeeper/internal/middleware"
	"LabKeeper/internal/notify"
	"LabKeeper/internal/repo"
	"LabKeeper/internal/service"
)

func main() {
	cfg := config.NewConfig()

	// создаём предустановленный регистратор zap
	logger, err := zap.NewDevelopment()
	if err != nil {
		panic(err)
	}

	// делаем регистратор SugaredLogger
	sugar := logger.Sugar()
	middleware.SetLogger(sugar) // передаём логгер в middleware
	//сброс буфера логгера
	defer func() {
		if err := logger.Sync(); err != nil {
			sugar.Errorw("Failed to sync logger", "error", err)
		}
	}()

	store, err := repo.NewInventoryStore(cfg.DataFile)
	if err != nil {
		sugar.Fatalw("failed to load inventory", "error", err)
	}

	gormDB, err := repo.InitDB(cfg.HistoryDSN)
	if err != nil {
		sugar.Fatalw("failed to initialize history database", "error", err)
	}
	historyRepo := repo.NewHistoryRepository(gormDB)

	notifier := notify.NewNotifier(cfg, sugar)

	invService := service.NewInventoryService(store, historyRepo, notifier, sugar)
	authService, err := service.NewAuthService(cfg.AdminPassword)
	if err != nil {
		sugar.Fatalw("failed to initialize auth service", "error", err)
	}

	h := handlers.NewHandler(invService, authService, sugar, cfg)

	addr := cfg.RunAddr

	sugar.Infow(
		"Starting server",
		"addr", addr,
	)

	sugar.Infow("Config",
		"RunAddr", cfg.RunAddr,
		"DataFile", cfg.DataFile,
		"HistoryDSN", cfg.HistoryDSN,
		"SMTPServer", cfg.SMTPServer,
	)

	if err := http.ListenAndServe(addr, h.Router); err != nil {
		sugar.Fatalw("Server failed", "error", err)
	}
}
