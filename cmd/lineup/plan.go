package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	planSave      bool
	planLookahead int
	planInertia   float64
	planTable     bool
	planExplain   bool
)

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Compute lineups for every fixture in the roster file",
	Long: `Compute one lineup per fixture, in date order.

Confirmed lineups and manual overrides saved in the database are applied;
the latest confirmed lineup before the horizon anchors continuity.

Examples:
  lineup plan --roster squad.yaml
  lineup plan --roster squad.yaml --table --explain
  lineup plan --roster squad.yaml --lookahead 0 --inertia 1 --save`,
	Args: cobra.NoArgs,
	RunE: runPlan,
}

func init() {
	planCmd.Flags().BoolVar(&planSave, "save", false, "persist the run and its non-confirmed lineups")
	planCmd.Flags().IntVar(&planLookahead, "lookahead", -1, "future fixtures for shadow pricing, 0..5 (default: config)")
	planCmd.Flags().Float64Var(&planInertia, "inertia", -1, "continuity weight in [0,1] (default: config)")
	planCmd.Flags().BoolVar(&planTable, "table", false, "print full tables (default: compact 1-line per fixture)")
	planCmd.Flags().BoolVar(&planExplain, "explain", false, "print the reason behind every assignment")
	rootCmd.AddCommand(planCmd)
}

func runPlan(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("lookahead") {
		cfg.Engine.Lookahead = planLookahead
	}
	if cmd.Flags().Changed("inertia") {
		cfg.Engine.InertiaWeight = planInertia
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	a, err := newApp(cfg, cfg.SchedulerConfig(), cmd.OutOrStdout(), planTable || planExplain, planExplain)
	if err != nil {
		return err
	}
	defer a.Close()

	plan, err := a.planner.Plan(cmd.Context(), planSave)
	if err != nil {
		return err
	}
	if planSave {
		fmt.Fprintf(cmd.OutOrStdout(), "saved run %s (%d fixtures)\n", plan.RunID, len(plan.Lineups))
	}
	return nil
}
