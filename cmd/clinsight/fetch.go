package main

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/toptal0212/clinic-analysis-sub002/internal/cli"
	"github.com/toptal0212/clinic-analysis-sub002/internal/clinicapi"
	"github.com/toptal0212/clinic-analysis-sub002/internal/common"
	"github.com/toptal0212/clinic-analysis-sub002/internal/model"
	"github.com/toptal0212/clinic-analysis-sub002/internal/normalize"
	"github.com/toptal0212/clinic-analysis-sub002/internal/service"
)

func fetchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fetch",
		Short: "Fetch visit records from the clinic API",
		Long: `Fetch visit records from the connected clinic API and store them in the
local database. Records are deduplicated automatically.`,
		RunE: runFetch,
	}

	cmd.Flags().StringP("from", "f", "", "Start date (format: 2006-01-02)")
	cmd.Flags().StringP("to", "t", "", "End date (format: 2006-01-02)")
	cmd.Flags().IntP("days", "d", 30, "Number of days to fetch (used if from/to not specified)")

	_ = viper.BindPFlag("fetch.from", cmd.Flags().Lookup("from"))
	_ = viper.BindPFlag("fetch.to", cmd.Flags().Lookup("to"))
	_ = viper.BindPFlag("fetch.days", cmd.Flags().Lookup("days"))

	return cmd
}

func runFetch(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	rng, err := parseDateRange("fetch")
	if err != nil {
		return err
	}

	apiConfig := clinicapi.Config{
		BaseURL:      viper.GetString("clinic_api.base_url"),
		TokenURL:     viper.GetString("clinic_api.token_url"),
		ClientID:     viper.GetString("clinic_api.client_id"),
		ClientSecret: viper.GetString("clinic_api.client_secret"),
		PageSize:     viper.GetInt("clinic_api.page_size"),
	}

	client, err := clinicapi.NewClient(ctx, apiConfig)
	if err != nil {
		return fmt.Errorf("failed to create clinic API client: %w", err)
	}

	slog.Info(cli.FormatTitle("Fetching records from clinic API"))
	slog.Info("Date range", "from", rng.Start.Format("2006-01-02"), "to", rng.End.Format("2006-01-02"))

	retryOpts := service.RetryOptions{
		MaxAttempts:  3,
		InitialDelay: time.Second,
		MaxDelay:     30 * time.Second,
		Multiplier:   2.0,
	}

	var fetched []model.RawRecord
	err = common.WithRetry(ctx, func() error {
		records, fetchErr := client.FetchRecords(ctx, rng)
		if fetchErr != nil {
			return fetchErr
		}
		fetched = records
		return nil
	}, retryOpts)
	if err != nil {
		return fmt.Errorf("failed to fetch records: %w", err)
	}

	slog.Info(cli.FormatSuccess(fmt.Sprintf("Fetched %d records", len(fetched))))
	if len(fetched) == 0 {
		return nil
	}

	normalized, dropped := normalize.Batch(fetched)
	if dropped > 0 {
		slog.Warn(cli.FormatWarning(fmt.Sprintf("Dropped %d records with unresolvable dates", dropped)))
	}
	if len(normalized) == 0 {
		slog.Info(cli.FormatWarning("No storable records after normalization"))
		return nil
	}

	store, err := initStorage(ctx)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer func() { _ = store.Close() }()

	if err := store.SaveVisitRecords(ctx, normalized); err != nil {
		return fmt.Errorf("failed to save records: %w", err)
	}

	slog.Info(cli.FormatSuccess(fmt.Sprintf("Stored %d records (%d dropped)", len(normalized), dropped)))
	return nil
}
