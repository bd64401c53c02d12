package commands

import (
	"context"
	"fmt"
	"strings"

	"LabKeeper/internal/cli/api"
	"LabKeeper/internal/cli/auth"
	"LabKeeper/internal/config"
)

type logoutCmd struct{}

func (logoutCmd) Name() string        { return "logout" }
func (logoutCmd) Description() string { return "Logout and drop stored auth cookie" }
func (logoutCmd) Usage() string       { return "logout" }

func (logoutCmd) Run(_ context.Context, cfg *config.Config, args []string) error {
	if len(args) != 0 {
		return ErrUsage
	}
	// сервер сессии не хранит, но дать ему погасить cookie всё равно вежливо;
	// недоступность сервера выходу не мешает
	if token, err := auth.LoadToken(); err == nil {
		endpoint := strings.TrimRight(cfg.ServerURL, "/") + "/api/logout"
		if resp, _, err := api.PostJSON(endpoint, struct{}{}, token); err == nil {
			_ = resp.Body.Close()
		}
	}
	if err := auth.ClearToken(); err != nil {
		return err
	}
	if err := auth.ClearLastLogin(); err != nil {
		return err
	}
	fmt.Fprintln(Out, "Logged out")
	return nil
}

func init() { RegisterCmd(logoutCmd{}) }
