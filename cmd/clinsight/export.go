package main

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/toptal0212/clinic-analysis-sub002/internal/cli"
	"github.com/toptal0212/clinic-analysis-sub002/internal/common"
	"github.com/toptal0212/clinic-analysis-sub002/internal/engine"
	"github.com/toptal0212/clinic-analysis-sub002/internal/sheets"
)

func exportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the period report to Google Sheets",
		Long: `Compute the period report and both cross-sell matrices for a date range
and write them to a Google Sheets spreadsheet.

Authentication uses either a service account key file or OAuth2 refresh
token credentials, read from GOOGLE_SHEETS_* environment variables.`,
		RunE: runExport,
	}

	cmd.Flags().StringP("from", "f", "", "Start date (format: 2006-01-02)")
	cmd.Flags().StringP("to", "t", "", "End date (format: 2006-01-02)")
	cmd.Flags().IntP("days", "d", 30, "Number of days to export (used if from/to not specified)")

	_ = viper.BindPFlag("export.from", cmd.Flags().Lookup("from"))
	_ = viper.BindPFlag("export.to", cmd.Flags().Lookup("to"))
	_ = viper.BindPFlag("export.days", cmd.Flags().Lookup("days"))

	return cmd
}

func runExport(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	rng, err := parseDateRange("export")
	if err != nil {
		return err
	}

	sheetsConfig := sheets.DefaultConfig()
	if err := sheetsConfig.LoadFromEnv(); err != nil {
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
	if len(visits) == 0 {
		return common.NewUserError("no visit records in the requested range", common.ErrNoRecords)
	}

	metrics := engine.ComputePeriodMetrics(visits, accounting, rng)
	transitions := engine.BuildTransitions(visits)

	writer, err := sheets.NewWriter(ctx, sheetsConfig, slog.Default())
	if err != nil {
		return fmt.Errorf("failed to create sheets writer: %w", err)
	}

	start := time.Now()
	if err := writer.Write(ctx, &metrics, &transitions); err != nil {
		return fmt.Errorf("failed to export report: %w", err)
	}

	slog.Info(cli.FormatSuccess(fmt.Sprintf("Exported report in %s", time.Since(start).Round(time.Millisecond))))
	return nil
}
