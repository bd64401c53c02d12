package commands

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"LabKeeper/internal/cli/api"
	"LabKeeper/internal/cli/auth"
	"LabKeeper/internal/config"
)

type historyEntryView struct {
	Action       string    `json:"action"`
	ItemName     string    `json:"item_name"`
	CupboardName string    `json:"cupboard_name"`
	NTID         string    `json:"nt_id"`
	EmailSent    bool      `json:"email_sent"`
	CreatedAt    time.Time `json:"timestamp"`
}

type historyResponse struct {
	History []historyEntryView `json:"history"`
}

type historyCmd struct{}

func (historyCmd) Name() string        { return "history" }
func (historyCmd) Description() string { return "Show audit log, admin only" }
func (historyCmd) Usage() string       { return "history [nt-id] [locked|unlocked]" }

func (historyCmd) Run(_ context.Context, cfg *config.Config, args []string) error {
	if len(args) > 2 {
		return ErrUsage
	}
	token, err := auth.LoadToken()
	if err != nil {
		return errors.New("not logged in (run: labcli login <nt-id>)")
	}

	q := url.Values{}
	for _, a := range args {
		if a == "locked" || a == "unlocked" {
			q.Set("action", a)
		} else {
			q.Set("nt_id", a)
		}
	}
	endpoint := strings.TrimRight(cfg.ServerURL, "/") + "/api/history"
	if len(q) > 0 {
		endpoint += "?" + q.Encode()
	}

	resp, body, err := api.GetJSON(endpoint, token)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusUnauthorized:
		return errors.New("session expired, log in again")
	case http.StatusForbidden:
		return errors.New("history is available to admins only")
	default:
		return fmt.Errorf("server status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var hr historyResponse
	if err := json.Unmarshal(body, &hr); err != nil {
		return fmt.Errorf("decode: %w", err)
	}
	if len(hr.History) == 0 {
		fmt.Fprintln(Out, "No history entries")
		return nil
	}
	for _, e := range hr.History {
		mail := ""
		if !e.EmailSent {
			mail = "  (no email)"
		}
		fmt.Fprintf(Out, "%s  %-8s  %-32s  %s  %s%s\n",
			e.CreatedAt.Local().Format("2006-01-02 15:04:05"),
			e.Action, e.ItemName, e.CupboardName, e.NTID, mail)
	}
	fmt.Fprintf(Out, "Total: %d\n", len(hr.History))
	return nil
}

func init() { RegisterCmd(historyCmd{}) }
