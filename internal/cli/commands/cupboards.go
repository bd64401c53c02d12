package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"LabKeeper/internal/cli/api"
	"LabKeeper/internal/cli/auth"
	"LabKeeper/internal/config"
)

// cupboardView и itemView повторяют JSON дашборда сервера.
type itemView struct {
	ID         string     `json:"id"`
	Name       string     `json:"name"`
	IsLocked   bool       `json:"is_locked"`
	BorrowedBy *string    `json:"borrowed_by"`
	BorrowedAt *time.Time `json:"borrowed_at"`
}

type cupboardView struct {
	ID    int        `json:"id"`
	Name  string     `json:"name"`
	Items []itemView `json:"items"`
}

type dashboardResponse struct {
	Cupboards []cupboardView `json:"cupboards"`
}

// fetchDashboard запрашивает /api/dashboard с сохранённым токеном.
func fetchDashboard(cfg *config.Config) (dashboardResponse, error) {
	endpoint := strings.TrimRight(cfg.ServerURL, "/") + "/api/dashboard"
	token, _ := auth.LoadToken()
	resp, body, err := api.GetJSON(endpoint, token)
	if err != nil {
		return dashboardResponse{}, err
	}
	defer resp.Body.Close()
	if resp.StatusCode == http.StatusUnauthorized {
		return dashboardResponse{}, fmt.Errorf("not logged in (run: labcli login <nt-id>)")
	}
	if resp.StatusCode != http.StatusOK {
		return dashboardResponse{}, fmt.Errorf("server status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	var dr dashboardResponse
	if err := json.Unmarshal(body, &dr); err != nil {
		return dashboardResponse{}, fmt.Errorf("decode: %w", err)
	}
	return dr, nil
}

type cupboardsCmd struct{}

func (cupboardsCmd) Name() string        { return "cupboards" }
func (cupboardsCmd) Description() string { return "List cupboards and their items" }
func (cupboardsCmd) Usage() string       { return "cupboards" }

func (cupboardsCmd) Run(_ context.Context, cfg *config.Config, args []string) error {
	if len(args) != 0 {
		return ErrUsage
	}
	dr, err := fetchDashboard(cfg)
	if err != nil {
		return err
	}
	for _, c := range dr.Cupboards {
		fmt.Fprintf(Out, "[%d] %s\n", c.ID, c.Name)
		for _, it := range c.Items {
			if it.IsLocked {
				fmt.Fprintf(Out, "  %-8s %-32s in cupboard\n", it.ID, it.Name)
				continue
			}
			by := "?"
			if it.BorrowedBy != nil {
				by = *it.BorrowedBy
			}
			fmt.Fprintf(Out, "  %-8s %-32s borrowed by %s\n", it.ID, it.Name, by)
		}
	}
	return nil
}

func init() { RegisterCmd(cupboardsCmd{}) }
