package commands

import (
	"context"
	"fmt"

	"LabKeeper/internal/cli/auth"
	"LabKeeper/internal/config"
)

type statusCmd struct{}

func (statusCmd) Name() string        { return "status" }
func (statusCmd) Description() string { return "Show session and inventory summary" }
func (statusCmd) Usage() string       { return "status" }

func (statusCmd) Run(_ context.Context, cfg *config.Config, args []string) error {
	if len(args) != 0 {
		return ErrUsage
	}
	ntID, err := auth.LoadLastLogin()
	if err != nil {
		fmt.Fprintln(Out, "Not logged in")
		return nil
	}
	dr, err := fetchDashboard(cfg)
	if err != nil {
		return err
	}
	total, borrowed, mine := 0, 0, 0
	for _, c := range dr.Cupboards {
		for _, it := range c.Items {
			total++
			if !it.IsLocked {
				borrowed++
				if it.BorrowedBy != nil && *it.BorrowedBy == ntID {
					mine++
				}
			}
		}
	}
	fmt.Fprintf(Out, "Logged in as %s\n", ntID)
	fmt.Fprintf(Out, "Cupboards: %d, items: %d, borrowed: %d (yours: %d)\n",
		len(dr.Cupboards), total, borrowed, mine)
	return nil
}

func init() { RegisterCmd(statusCmd{}) }
