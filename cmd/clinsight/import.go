package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/toptal0212/clinic-analysis-sub002/internal/cli"
	"github.com/toptal0212/clinic-analysis-sub002/internal/csvimport"
	"github.com/toptal0212/clinic-analysis-sub002/internal/model"
	"github.com/toptal0212/clinic-analysis-sub002/internal/normalize"
)

func importCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import <file.csv> [file.csv...]",
		Short: "Import visit records from CSV files",
		Long: `Import clinic visit records from exported CSV files.

Headers may be Japanese or English; the normalizer resolves field aliases
and the record date by priority. Records are deduplicated automatically,
so re-importing the same export is safe.`,
		Args: cobra.MinimumNArgs(1),
		RunE: runImport,
	}

	cmd.Flags().Bool("dry-run", false, "Parse and report without saving")
	_ = viper.BindPFlag("import.dry_run", cmd.Flags().Lookup("dry-run"))

	return cmd
}

func runImport(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	var raws []model.RawRecord
	for _, path := range args {
		file, err := os.Open(path)
		if err != nil {
			return fmt.Errorf("failed to open %s: %w", path, err)
		}

		records, err := csvimport.ReadRecords(file)
		closeErr := file.Close()
		if err != nil {
			return fmt.Errorf("failed to parse %s: %w", path, err)
		}
		if closeErr != nil {
			return fmt.Errorf("failed to close %s: %w", path, closeErr)
		}

		slog.Info("Parsed CSV file", "path", path, "rows", len(records))
		raws = append(raws, records...)
	}

	normalized, dropped := normalize.Batch(raws)
	if dropped > 0 {
		slog.Warn(cli.FormatWarning(fmt.Sprintf("Dropped %d rows with unresolvable dates", dropped)))
	}
	if len(normalized) == 0 {
		slog.Info(cli.FormatWarning("No importable records found"))
		return nil
	}

	if viper.GetBool("import.dry_run") {
		slog.Info(cli.FormatInfo(fmt.Sprintf("Dry run: would import %d records", len(normalized))))
		return nil
	}

	store, err := initStorage(ctx)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer func() { _ = store.Close() }()

	// Save in chunks so the bar tracks real progress on large exports.
	bar := progressbar.NewOptions(len(normalized),
		progressbar.OptionSetDescription("Importing records..."),
		progressbar.OptionSetWidth(40),
		progressbar.OptionShowCount(),
	)

	const chunkSize = 500
	for i := 0; i < len(normalized); i += chunkSize {
		end := i + chunkSize
		if end > len(normalized) {
			end = len(normalized)
		}
		if err := store.SaveVisitRecords(ctx, normalized[i:end]); err != nil {
			return fmt.Errorf("failed to save records: %w", err)
		}
		_ = bar.Add(end - i)
	}
	_ = bar.Finish()
	fmt.Fprintln(os.Stderr)

	slog.Info(cli.FormatSuccess(fmt.Sprintf("Imported %d records (%d dropped)", len(normalized), dropped)))
	return nil
}
