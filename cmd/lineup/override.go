package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bikeracer4487/fm26-lineup-optimizer-sub002/internal/domain"
)

var overrideClear bool

var overrideCmd = &cobra.Command{
	Use:   "override <fixture> <role> [agent]",
	Short: "Force an agent into a role for a fixture",
	Long: `Force an agent into a role for a fixture. The override is checked
against the roster file and applied by every later plan. An override whose
agent is unavailable on that date is ignored by the planner, with a reason.

Examples:
  lineup override derby ST st2
  lineup override derby ST --clear`,
	Args: cobra.RangeArgs(2, 3),
	RunE: runOverride,
}

func init() {
	overrideCmd.Flags().BoolVar(&overrideClear, "clear", false, "remove the override for the role")
	rootCmd.AddCommand(overrideCmd)
}

func runOverride(cmd *cobra.Command, args []string) error {
	if !overrideClear && len(args) != 3 {
		return fmt.Errorf("override needs <fixture> <role> <agent> (or --clear)")
	}
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	a, err := newApp(cfg, cfg.SchedulerConfig(), cmd.OutOrStdout(), false, false)
	if err != nil {
		return err
	}
	defer a.Close()

	fixture, role := domain.FixtureID(args[0]), domain.RoleID(args[1])
	if overrideClear {
		if err := a.planner.ClearOverride(cmd.Context(), fixture, role); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "override %s/%s cleared\n", fixture, role)
		return nil
	}

	o := domain.Override{FixtureID: fixture, Role: role, Agent: domain.AgentID(args[2])}
	if err := a.planner.SetOverride(cmd.Context(), o); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "override %s/%s → %s saved\n", fixture, role, o.Agent)
	return nil
}
