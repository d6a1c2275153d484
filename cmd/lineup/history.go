package main

import (
	"github.com/spf13/cobra"
)

var historyLimit int

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show saved runs and lineups",
	Args:  cobra.NoArgs,
	RunE:  runHistory,
}

func init() {
	historyCmd.Flags().IntVar(&historyLimit, "limit", 20, "number of runs to show")
	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	a, err := newApp(cfg, cfg.SchedulerConfig(), cmd.OutOrStdout(), true, false)
	if err != nil {
		return err
	}
	defer a.Close()

	runs, lineups, err := a.planner.History(cmd.Context(), historyLimit)
	if err != nil {
		return err
	}
	a.console.PrintHistory(runs, lineups)
	return nil
}
