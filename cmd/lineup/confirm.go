package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bikeracer4487/fm26-lineup-optimizer-sub002/internal/domain"
	"github.com/bikeracer4487/fm26-lineup-optimizer-sub002/internal/ports"
)

var confirmCmd = &cobra.Command{
	Use:   "confirm <fixture>",
	Short: "Lock the saved lineup of a fixture",
	Long: `Lock the saved lineup of a fixture. A confirmed lineup is never
recomputed: later plans reuse it verbatim and its appearances still feed
readiness.

Example:
  lineup plan --save && lineup confirm league-01`,
	Args: cobra.ExactArgs(1),
	RunE: runConfirm,
}

func init() {
	rootCmd.AddCommand(confirmCmd)
}

func runConfirm(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	a, err := newApp(cfg, cfg.SchedulerConfig(), cmd.OutOrStdout(), false, false)
	if err != nil {
		return err
	}
	defer a.Close()

	l, err := a.planner.Confirm(cmd.Context(), domain.FixtureID(args[0]))
	if errors.Is(err, ports.ErrNotFound) {
		return fmt.Errorf("no saved lineup for fixture %q: run `lineup plan --save` first", args[0])
	}
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "confirmed %s (%d roles)\n", l.FixtureID, len(l.Assignments))
	return nil
}
