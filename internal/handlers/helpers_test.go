package handlers_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"

	"LabKeeper/internal/config"
	"LabKeeper/internal/handlers"
	"LabKeeper/internal/middleware"
	"LabKeeper/internal/model"
	"LabKeeper/internal/notify"
	"LabKeeper/internal/repo"
	"LabKeeper/internal/service"
)

// Local light mocks
type hMockHistory struct{ mock.Mock }

func (m *hMockHistory) Append(ctx context.Context, entry *model.HistoryEntry) error {
	return m.Called(ctx, entry).Error(0)
}
func (m *hMockHistory) List(ctx context.Context, f repo.HistoryFilter) ([]model.HistoryEntry, error) {
	args := m.Called(ctx, f)
	if v, ok := args.Get(0).([]model.HistoryEntry); ok {
		return v, args.Error(1)
	}
	return nil, args.Error(1)
}

var _ repo.HistoryRepository = (*hMockHistory)(nil)

// fakeNotifier отдаёт заранее заданный признак доставки.
type fakeNotifier struct{ sent bool }

func (f *fakeNotifier) Notify(context.Context, notify.Event) bool { return f.sent }

var _ notify.Notifier = (*fakeNotifier)(nil)

// newTestRouter собирает реальный роутер поверх файлового хранилища в temp,
// мок-журнала и фейкового нотификатора.
func newTestRouter(t *testing.T, hist repo.HistoryRepository, n notify.Notifier) (http.Handler, *config.Config, *repo.InventoryStore) {
	t.Helper()
	cfg := &config.Config{AuthSecret: "test-secret", AdminPassword: "Admin@123"}
	logger := zap.NewNop().Sugar()
	middleware.SetLogger(logger)

	store, err := repo.NewInventoryStore(filepath.Join(t.TempDir(), "inventory.json"))
	if err != nil {
		t.Fatalf("new store: %v", err)
	}

	invSvc := service.NewInventoryService(store, hist, n, logger)
	authSvc, err := service.NewAuthService(cfg.AdminPassword)
	if err != nil {
		t.Fatalf("new auth service: %v", err)
	}
	h := handlers.NewHandler(invSvc, authSvc, logger, cfg)
	return h.Router, cfg, store
}

func addAuthCookie(t *testing.T, req *http.Request, ntID, role, secret string) {
	t.Helper()
	rr := httptest.NewRecorder()
	_ = middleware.SetLoginCookie(rr, ntID, role, secret)
	for _, c := range rr.Result().Cookies() {
		req.AddCookie(c)
	}
}
