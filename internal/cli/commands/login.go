package commands

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"LabKeeper/internal/cli/api"
	"LabKeeper/internal/cli/auth"
	"LabKeeper/internal/config"
)

type LoginRequest struct {
	NTID     string `json:"nt_id"`
	Password string `json:"password,omitempty"`
	IsAdmin  bool   `json:"is_admin,omitempty"`
}

type LoginResponse struct {
	Success bool   `json:"success"`
	NTID    string `json:"nt_id"`
	Role    string `json:"role"`
	Message string `json:"message"`
}

type loginCmd struct{}

func (loginCmd) Name() string        { return "login" }
func (loginCmd) Description() string { return "Login and store auth cookie" }
func (loginCmd) Usage() string       { return "login <nt-id> [admin-password]" }

func (loginCmd) Run(_ context.Context, cfg *config.Config, args []string) error {
	if len(args) < 1 || len(args) > 2 {
		return ErrUsage
	}
	req := LoginRequest{NTID: args[0]}
	if len(args) == 2 {
		req.Password = args[1]
		req.IsAdmin = true
	}
	baseURL := cfg.ServerURL
	endpoint := strings.TrimRight(baseURL, "/") + "/api/login"
	resp, body, err := api.PostJSON(endpoint, req, "")
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	switch resp.StatusCode {
	case http.StatusOK:
		if err := api.PersistAuthFromResponse(resp); err != nil {
			return fmt.Errorf("saving auth: %w", err)
		}
		var lr LoginResponse
		if err := json.Unmarshal(body, &lr); err != nil {
			return fmt.Errorf("decode: %w", err)
		}
		if err := auth.SaveLastLogin(lr.NTID); err != nil {
			return fmt.Errorf("saving login: %w", err)
		}
		fmt.Fprintf(Out, "Logged in as %s (%s)\n", lr.NTID, lr.Role)
		return nil
	case http.StatusUnauthorized:
		return errors.New("invalid admin password")
	case http.StatusTooManyRequests:
		return errors.New("too many failed attempts, try again later")
	}
	return fmt.Errorf("server error: %s", strings.TrimSpace(string(body)))
}

func init() { RegisterCmd(loginCmd{}) }
