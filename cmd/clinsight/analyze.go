package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/toptal0212/clinic-analysis-sub002/internal/cli"
	"github.com/toptal0212/clinic-analysis-sub002/internal/engine"
)

func analyzeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Compute the revenue report for a date range",
		Long: `Analyze stored visit records over an inclusive date range.

The report carries the three patient-type averages (same-day new, lifetime
new, lifetime existing), category revenue totals, and per-day breakdowns.
Averages are recomputed over the full period, never averaged across days.`,
		RunE: runAnalyze,
	}

	cmd.Flags().StringP("from", "f", "", "Start date (format: 2006-01-02)")
	cmd.Flags().StringP("to", "t", "", "End date (format: 2006-01-02)")
	cmd.Flags().IntP("days", "d", 30, "Number of days to analyze (used if from/to not specified)")
	cmd.Flags().Bool("json", false, "Emit the report as JSON")
	cmd.Flags().Bool("daily", false, "Include the per-day breakdown")

	_ = viper.BindPFlag("analyze.from", cmd.Flags().Lookup("from"))
	_ = viper.BindPFlag("analyze.to", cmd.Flags().Lookup("to"))
	_ = viper.BindPFlag("analyze.days", cmd.Flags().Lookup("days"))
	_ = viper.BindPFlag("analyze.json", cmd.Flags().Lookup("json"))
	_ = viper.BindPFlag("analyze.daily", cmd.Flags().Lookup("daily"))

	return cmd
}

func runAnalyze(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	rng, err := parseDateRange("analyze")
	if err != nil {
		return err
	}

	store, err := initStorage(ctx)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer func() { _ = store.Close() }()

	visits, accounting, err := loadClassifiedVisits(ctx, store, rng)
	if err != nil {
		return err
	}

	metrics := engine.ComputePeriodMetrics(visits, accounting, rng)

	if viper.GetBool("analyze.json") {
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		if !viper.GetBool("analyze.daily") {
			metrics.Days = nil
		}
		return encoder.Encode(metrics)
	}

	fmt.Println(cli.RenderPeriodReport(&metrics))

	if viper.GetBool("analyze.daily") {
		for _, day := range metrics.Days {
			slog.Info("Daily",
				"date", day.Date.Format("2006-01-02"),
				"revenue", day.TotalRevenue,
				"new", len(day.NewPatients),
				"existing", len(day.ExistingPatients))
		}
	}

	return nil
}
