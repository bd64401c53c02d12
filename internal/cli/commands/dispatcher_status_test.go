package commands

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"LabKeeper/internal/cli/auth"
	"LabKeeper/internal/config"
)

// fakeCmd позволяет управлять возвратом ошибок из Run
type fakeCmd struct {
	name, usage, desc string
	run               func(ctx context.Context, cfg *config.Config, args []string) error
}

func (f fakeCmd) Name() string        { return f.name }
func (f fakeCmd) Description() string { return f.desc }
func (f fakeCmd) Usage() string       { return f.usage }
func (f fakeCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	return f.run(ctx, cfg, args)
}

func TestDispatcher_HelpAndUnknown(t *testing.T) {
	// зарегистрированы login/logout/status/cupboards/toggle/history из init()
	out := withStdoutCapture(t, func() { _ = Dispatch(context.Background(), &config.Config{}, []string{}) })
	if !strings.Contains(out, "LabKeeper CLI") {
		t.Fatalf("global help expected")
	}

	out = withStdoutCapture(t, func() { _ = Dispatch(context.Background(), &config.Config{}, []string{"help"}) })
	if !strings.Contains(out, "Usage:") {
		t.Fatalf("usage expected")
	}

	code := Dispatch(context.Background(), &config.Config{}, []string{"help", "login"})
	if code != 0 {
		t.Fatalf("expected 0 for help login, got %d", code)
	}

	out = withStdoutCapture(t, func() { _ = Dispatch(context.Background(), &config.Config{}, []string{"help", "nope"}) })
	if !strings.Contains(out, "Unknown command") {
		t.Fatalf("unknown command message expected")
	}

	code = Dispatch(context.Background(), &config.Config{}, []string{"no-such"})
	if code != 2 {
		t.Fatalf("expected 2 for unknown command, got %d", code)
	}
}

func TestDispatcher_RunPaths(t *testing.T) {
	// зарегистрируем временную команду
	cmdOK := fakeCmd{name: "x", usage: "x", desc: "", run: func(_ context.Context, _ *config.Config, _ []string) error { return nil }}
	RegisterCmd(cmdOK)
	if code := Dispatch(context.Background(), &config.Config{}, []string{"x"}); code != 0 {
		t.Fatalf("expected exit 0, got %d", code)
	}

	cmdUsage := fakeCmd{name: "u", usage: "u <arg>", desc: "", run: func(_ context.Context, _ *config.Config, _ []string) error { return ErrUsage }}
	RegisterCmd(cmdUsage)
	out := withStdoutCapture(t, func() { _ = Dispatch(context.Background(), &config.Config{}, []string{"u"}) })
	if !strings.Contains(out, "Usage: u <arg>") {
		t.Fatalf("usage text expected")
	}

	cmdErr := fakeCmd{name: "e", usage: "e", desc: "", run: func(_ context.Context, _ *config.Config, _ []string) error { return fmt.Errorf("boom") }}
	RegisterCmd(cmdErr)
	out = withStdoutCapture(t, func() { _ = Dispatch(context.Background(), &config.Config{}, []string{"e"}) })
	if !strings.Contains(out, "e error: boom") {
		t.Fatalf("error line expected, got: %s", out)
	}
}

const dashboardJSON = `{"cupboards":[
  {"id":1,"name":"Cupboard 1","items":[
    {"id":"C1_001","name":"Multimeter","is_locked":true,"borrowed_by":null,"borrowed_at":null},
    {"id":"C1_002","name":"Scope","is_locked":false,"borrowed_by":"MK1ABC","borrowed_at":"2026-08-01T10:00:00Z"}
  ]},
  {"id":2,"name":"Cupboard 2","items":[
    {"id":"C2_001","name":"Power Supply","is_locked":false,"borrowed_by":"ZZ9XYZ","borrowed_at":"2026-08-02T09:00:00Z"}
  ]}
]}`

func TestStatus_Run_Success_Errors_and_Usage(t *testing.T) {
	withTempConfig(t)
	if err := auth.SaveToken("tok-s"); err != nil {
		t.Fatalf("seed token: %v", err)
	}
	if err := auth.SaveLastLogin("MK1ABC"); err != nil {
		t.Fatalf("seed login: %v", err)
	}

	// успех: 200 и корректный JSON
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/api/dashboard") {
			t.Fatalf("path: %s", r.URL.Path)
		}
		if !strings.Contains(r.Header.Get("Cookie"), "auth_token=tok-s") {
			t.Fatalf("auth cookie expected")
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(dashboardJSON))
	}))
	defer ts.Close()
	cfg := &config.Config{ServerURL: ts.URL}
	out := withStdoutCapture(t, func() {
		if err := (statusCmd{}).Run(context.Background(), cfg, []string{}); err != nil {
			t.Fatalf("status ok failed: %v", err)
		}
	})
	if !strings.Contains(out, "Logged in as MK1ABC") {
		t.Fatalf("login line expected, got: %s", out)
	}
	if !strings.Contains(out, "Cupboards: 2, items: 3, borrowed: 2 (yours: 1)") {
		t.Fatalf("summary line wrong, got: %s", out)
	}

	// non-200
	ts500 := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer ts500.Close()
	if err := (statusCmd{}).Run(context.Background(), &config.Config{ServerURL: ts500.URL}, []string{}); err == nil {
		t.Fatalf("status should fail on non-200")
	}

	// битый JSON
	tsBad := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("{"))
	}))
	defer tsBad.Close()
	if err := (statusCmd{}).Run(context.Background(), &config.Config{ServerURL: tsBad.URL}, []string{}); err == nil {
		t.Fatalf("status must fail on bad json")
	}

	// ErrUsage при лишних аргументах
	if err := (statusCmd{}).Run(context.Background(), cfg, []string{"extra"}); err != ErrUsage {
		t.Fatalf("expected ErrUsage, got %v", err)
	}
}

func TestStatus_Run_NotLoggedIn(t *testing.T) {
	withTempConfig(t)
	out := withStdoutCapture(t, func() {
		if err := (statusCmd{}).Run(context.Background(), &config.Config{}, []string{}); err != nil {
			t.Fatalf("status without login should not fail: %v", err)
		}
	})
	if !strings.Contains(out, "Not logged in") {
		t.Fatalf("not-logged-in line expected, got: %s", out)
	}
}

func TestCupboards_Run_ListsItems(t *testing.T) {
	withTempConfig(t)
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(dashboardJSON))
	}))
	defer ts.Close()
	cfg := &config.Config{ServerURL: ts.URL}
	out := withStdoutCapture(t, func() {
		if err := (cupboardsCmd{}).Run(context.Background(), cfg, []string{}); err != nil {
			t.Fatalf("cupboards failed: %v", err)
		}
	})
	for _, want := range []string{"[1] Cupboard 1", "C1_001", "in cupboard", "borrowed by MK1ABC", "borrowed by ZZ9XYZ"} {
		if !strings.Contains(out, want) {
			t.Fatalf("output missing %q, got: %s", want, out)
		}
	}
	// 401 без сессии
	ts401 := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
	}))
	defer ts401.Close()
	if err := (cupboardsCmd{}).Run(context.Background(), &config.Config{ServerURL: ts401.URL}, []string{}); err == nil {
		t.Fatalf("expected error for 401")
	}
}
