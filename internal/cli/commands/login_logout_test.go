package commands

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"LabKeeper/internal/cli/auth"
	"LabKeeper/internal/config"
)

// --- login tests ---
func TestLogin_Run_SuccessAndErrors(t *testing.T) {
	withTempConfig(t)

	// HTTP сервер имитирует /api/login
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/api/login") {
			t.Fatalf("unexpected path: %s", r.URL.Path)
		}
		var req LoginRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("bad body: %v", err)
		}
		if req.NTID != "mk1abc" || req.IsAdmin {
			t.Fatalf("unexpected request: %#v", req)
		}
		// успех: 200 + Set-Cookie
		http.SetCookie(w, &http.Cookie{Name: "auth_token", Value: "tok-123"})
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"success":true,"nt_id":"MK1ABC","role":"user","message":"Welcome MK1ABC!"}`))
	}))
	defer ts.Close()

	cfg := &config.Config{ServerURL: ts.URL}
	cmd := loginCmd{}
	out := withStdoutCapture(t, func() {
		if err := cmd.Run(context.Background(), cfg, []string{"mk1abc"}); err != nil {
			t.Fatalf("login should succeed: %v", err)
		}
	})
	if !strings.Contains(out, "Logged in as MK1ABC (user)") {
		t.Fatalf("login confirmation expected, got: %s", out)
	}
	// проверим, что токен и логин сохранены
	// токен лежит в %CONFIG%/LabKeeper/auth_token
	var tokenPath string
	if p, err := os.UserConfigDir(); err == nil {
		tokenPath = filepath.Join(p, "LabKeeper", "auth_token")
	}
	b, err := os.ReadFile(tokenPath)
	if err != nil || string(b) != "tok-123" {
		t.Fatalf("auth token not saved: %q err=%v", b, err)
	}
	if login, err := auth.LoadLastLogin(); err != nil || login != "MK1ABC" {
		t.Fatalf("last login not saved: %q err=%v", login, err)
	}

	// 401 Unauthorized — неверный пароль админа
	ts401 := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
	}))
	defer ts401.Close()
	cfg401 := &config.Config{ServerURL: ts401.URL}
	if err := cmd.Run(context.Background(), cfg401, []string{"mk1abc", "badpass"}); err == nil {
		t.Fatalf("expected error for 401")
	}

	// 429 Too Many Requests — перебор попыток
	ts429 := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "too many", http.StatusTooManyRequests)
	}))
	defer ts429.Close()
	if err := cmd.Run(context.Background(), &config.Config{ServerURL: ts429.URL}, []string{"mk1abc", "pass"}); err == nil {
		t.Fatalf("expected error for 429")
	}

	// нет аргументов → ErrUsage
	if err := cmd.Run(context.Background(), cfg, []string{}); err != ErrUsage {
		t.Fatalf("expected ErrUsage for no args, got %v", err)
	}
	// слишком много аргументов → ErrUsage
	if err := cmd.Run(context.Background(), cfg, []string{"a", "b", "c"}); err != ErrUsage {
		t.Fatalf("expected ErrUsage for too many args, got %v", err)
	}
}

func TestLogin_Run_AdminSendsPassword(t *testing.T) {
	withTempConfig(t)
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req LoginRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("bad body: %v", err)
		}
		if !req.IsAdmin || req.Password != "Admin@123" {
			t.Fatalf("admin flag/password expected, got: %#v", req)
		}
		http.SetCookie(w, &http.Cookie{Name: "auth_token", Value: "tok-admin"})
		_, _ = w.Write([]byte(`{"success":true,"nt_id":"BOSS1","role":"admin","message":"Welcome Admin (BOSS1)!"}`))
	}))
	defer ts.Close()
	out := withStdoutCapture(t, func() {
		if err := (loginCmd{}).Run(context.Background(), &config.Config{ServerURL: ts.URL}, []string{"boss1", "Admin@123"}); err != nil {
			t.Fatalf("admin login failed: %v", err)
		}
	})
	if !strings.Contains(out, "Logged in as BOSS1 (admin)") {
		t.Fatalf("admin confirmation expected, got: %s", out)
	}
}

// --- logout tests ---
func TestLogout_Run_DropsLocalState(t *testing.T) {
	withTempConfig(t)
	if err := auth.SaveToken("tok-z"); err != nil {
		t.Fatalf("seed token: %v", err)
	}
	if err := auth.SaveLastLogin("MK1ABC"); err != nil {
		t.Fatalf("seed login: %v", err)
	}

	called := false
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasSuffix(r.URL.Path, "/api/logout") {
			called = true
		}
		_, _ = w.Write([]byte(`{"success":true,"message":"You have been logged out."}`))
	}))
	defer ts.Close()

	out := withStdoutCapture(t, func() {
		if err := (logoutCmd{}).Run(context.Background(), &config.Config{ServerURL: ts.URL}, []string{}); err != nil {
			t.Fatalf("logout failed: %v", err)
		}
	})
	if !called {
		t.Fatalf("server logout endpoint not called")
	}
	if !strings.Contains(out, "Logged out") {
		t.Fatalf("confirmation expected, got: %s", out)
	}
	if _, err := auth.LoadToken(); err == nil {
		t.Fatalf("token must be removed")
	}
	if _, err := auth.LoadLastLogin(); err == nil {
		t.Fatalf("last login must be removed")
	}
}

func TestLogout_Run_WithoutSession_StillSucceeds(t *testing.T) {
	withTempConfig(t)
	if err := (logoutCmd{}).Run(context.Background(), &config.Config{ServerURL: "http://127.0.0.1:1"}, []string{}); err != nil {
		t.Fatalf("logout without session failed: %v", err)
	}
}
