package commands

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"LabKeeper/internal/cli/api"
	"LabKeeper/internal/cli/auth"
	"LabKeeper/internal/config"
)

type ToggleLockRequest struct {
	CupboardID int    `json:"cupboard_id"`
	ItemID     string `json:"item_id"`
}

type ToggleLockResponse struct {
	Success   bool   `json:"success"`
	Action    string `json:"action"`
	Message   string `json:"message"`
	EmailSent bool   `json:"email_sent"`
	NTID      string `json:"nt_id"`
}

type toggleCmd struct{}

func (toggleCmd) Name() string        { return "toggle" }
func (toggleCmd) Description() string { return "Borrow or return an item (flip its lock)" }
func (toggleCmd) Usage() string       { return "toggle <cupboard-id> <item-id>" }

func (toggleCmd) Run(_ context.Context, cfg *config.Config, args []string) error {
	if len(args) != 2 {
		return ErrUsage
	}
	cupboardID, err := strconv.Atoi(args[0])
	if err != nil {
		return ErrUsage
	}
	token, err := auth.LoadToken()
	if err != nil {
		return errors.New("not logged in (run: labcli login <nt-id>)")
	}

	endpoint := strings.TrimRight(cfg.ServerURL, "/") + "/api/toggle-lock"
	req := ToggleLockRequest{CupboardID: cupboardID, ItemID: args[1]}
	resp, body, err := api.PostJSON(endpoint, req, token)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		var tr ToggleLockResponse
		if err := json.Unmarshal(body, &tr); err != nil {
			return fmt.Errorf("decode: %w", err)
		}
		fmt.Fprintln(Out, tr.Message)
		if !tr.EmailSent {
			fmt.Fprintln(Out, "(email notification was not sent)")
		}
		return nil
	case http.StatusUnauthorized:
		return errors.New("session expired, log in again")
	case http.StatusForbidden, http.StatusNotFound:
		var sr struct {
			Message string `json:"message"`
		}
		if err := json.Unmarshal(body, &sr); err == nil && sr.Message != "" {
			return errors.New(sr.Message)
		}
	}
	return fmt.Errorf("server error: %s", strings.TrimSpace(string(body)))
}

func init() { RegisterCmd(toggleCmd{}) }
