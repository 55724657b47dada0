package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/toptal0212/clinic-analysis-sub002/internal/engine"
	"github.com/toptal0212/clinic-analysis-sub002/internal/model"
	"github.com/toptal0212/clinic-analysis-sub002/internal/service"
	"github.com/toptal0212/clinic-analysis-sub002/internal/storage"
	"github.com/toptal0212/clinic-analysis-sub002/internal/taxonomy"
)

// initStorage initializes the storage service with proper path expansion.
func initStorage(ctx context.Context) (service.Storage, error) {
	// Get database path from config
	dbPath := viper.GetString("database.path")
	if dbPath == "" {
		dbPath = "$HOME/.local/share/clinsight/clinsight.db"
	}

	dbPath = expandPath(dbPath)

	store, err := storage.NewSQLiteStorage(dbPath)
	if err != nil {
		return nil, err
	}

	// Run migrations
	if err := store.Migrate(ctx); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return store, nil
}

// expandPath expands ~ and environment variables in a filesystem path.
func expandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			path = filepath.Join(home, path[2:])
		}
	}
	return os.ExpandEnv(path)
}

// parseDateRange reads the from/to flags bound under the given viper prefix.
// When neither is set the range defaults to the trailing N days.
func parseDateRange(prefix string) (service.DateRange, error) {
	fromStr := viper.GetString(prefix + ".from")
	toStr := viper.GetString(prefix + ".to")

	if fromStr != "" && toStr != "" {
		from, err := time.Parse("2006-01-02", fromStr)
		if err != nil {
			return service.DateRange{}, fmt.Errorf("invalid from date format: %w", err)
		}

		to, err := time.Parse("2006-01-02", toStr)
		if err != nil {
			return service.DateRange{}, fmt.Errorf("invalid to date format: %w", err)
		}

		if from.After(to) {
			return service.DateRange{}, fmt.Errorf("from date %s is after to date %s", fromStr, toStr)
		}

		return service.DateRange{Start: from, End: to}, nil
	}

	days := viper.GetInt(prefix + ".days")
	if days <= 0 {
		days = 30
	}

	end := time.Now()
	return service.DateRange{Start: end.AddDate(0, 0, -days), End: end}, nil
}

// loadClassifiedVisits loads the stored records in range, drops cancelled
// appointments, and classifies each visit. The full accounting history is
// returned alongside so patient-type decisions see payments before the range.
func loadClassifiedVisits(ctx context.Context, store service.Storage, rng service.DateRange) ([]model.ClassifiedVisit, []model.AccountingRecord, error) {
	records, err := store.GetVisitRecords(ctx, rng)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load visit records: %w", err)
	}

	accounting, err := store.GetAccountingRecords(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load accounting history: %w", err)
	}

	classifier := taxonomy.NewClassifier(taxonomy.Default())
	visits := make([]model.ClassifiedVisit, 0, len(records))
	for _, rec := range records {
		if rec.Cancelled {
			continue
		}
		category := classifier.Classify(rec.TreatmentCategoryRaw, rec.TreatmentNameRaw)
		visits = append(visits, model.ClassifiedVisit{
			Record:      rec,
			Category:    category,
			PatientType: engine.ClassifyPatientType(rec, category, accounting),
		})
	}

	return visits, accounting, nil
}
