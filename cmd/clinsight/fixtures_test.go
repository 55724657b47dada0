package main

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/toptal0212/clinic-analysis-sub002/internal/model"
	"github.com/toptal0212/clinic-analysis-sub002/internal/service"
	"github.com/toptal0212/clinic-analysis-sub002/internal/storage"
)

func newCommandTestStorage(t *testing.T) *storage.SQLiteStorage {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "test.db")
	store, err := storage.NewSQLiteStorage(dbPath)
	require.NoError(t, err)
	t.Cleanup(func() {
		if closeErr := store.Close(); closeErr != nil {
			t.Logf("Failed to close database: %v", closeErr)
		}
	})

	require.NoError(t, store.Migrate(context.Background()))
	return store
}

// saveCommandFixtures stores two live visits and one cancelled visit inside
// January 2024 and returns the covering range.
func saveCommandFixtures(t *testing.T, store *storage.SQLiteStorage) service.DateRange {
	t.Helper()

	cancelled := model.CanonicalVisitRecord{
		PatientID:        "P3",
		Date:             time.Date(2024, 1, 12, 10, 0, 0, 0, time.UTC),
		TreatmentNameRaw: "全身脱毛",
		AmountWithTax:    9000,
		Cancelled:        true,
	}
	records := []model.CanonicalVisitRecord{
		{
			PatientID:        "P1",
			Date:             time.Date(2024, 1, 10, 10, 0, 0, 0, time.UTC),
			TreatmentNameRaw: "全身脱毛",
			AmountWithTax:    30000,
		},
		{
			PatientID:        "P2",
			Date:             time.Date(2024, 1, 11, 14, 0, 0, 0, time.UTC),
			TreatmentNameRaw: "ボトックス",
			AmountWithTax:    20000,
		},
		cancelled,
	}
	require.NoError(t, store.SaveVisitRecords(context.Background(), records))

	return service.DateRange{
		Start: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		End:   time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC),
	}
}
