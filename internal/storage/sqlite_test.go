package storage

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/toptal0212/clinic-analysis-sub002/internal/model"
	"github.com/toptal0212/clinic-analysis-sub002/internal/service"
)

func newTestStorage(t *testing.T) *SQLiteStorage {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "test.db")
	store, err := NewSQLiteStorage(dbPath)
	require.NoError(t, err)
	t.Cleanup(func() {
		if closeErr := store.Close(); closeErr != nil {
			t.Logf("Failed to close database: %v", closeErr)
		}
	})

	require.NoError(t, store.Migrate(context.Background()))
	return store
}

func testRecord(patientID string, date time.Time, amount float64) model.CanonicalVisitRecord {
	return model.CanonicalVisitRecord{
		PatientID:        patientID,
		Date:             date,
		ClinicName:       "新宿院",
		AmountWithTax:    amount,
		TreatmentNameRaw: "脱毛",
		ReferralSource:   "Instagram",
		FirstVisitFlag:   "初診",
	}
}

func TestMigrate_Idempotent(t *testing.T) {
	store := newTestStorage(t)
	// Running migrations again on an up-to-date database is a no-op.
	require.NoError(t, store.Migrate(context.Background()))
}

func TestSaveAndGetVisitRecords(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()

	records := []model.CanonicalVisitRecord{
		testRecord("P1", time.Date(2024, 1, 10, 10, 0, 0, 0, time.UTC), 30000),
		testRecord("P2", time.Date(2024, 1, 15, 14, 0, 0, 0, time.UTC), 20000),
		testRecord("P3", time.Date(2024, 2, 1, 9, 0, 0, 0, time.UTC), 10000),
	}
	require.NoError(t, store.SaveVisitRecords(ctx, records))

	got, err := store.GetVisitRecords(ctx, service.DateRange{
		Start: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		End:   time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "P1", got[0].PatientID)
	assert.Equal(t, "P2", got[1].PatientID)
	assert.InDelta(t, 30000, got[0].AmountWithTax, 0.001)
	assert.Equal(t, "新宿院", got[0].ClinicName)
}

func TestGetVisitRecords_EndDateInclusive(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()

	// A record late on the end date is still inside the range.
	rec := testRecord("P1", time.Date(2024, 1, 31, 23, 30, 0, 0, time.UTC), 5000)
	require.NoError(t, store.SaveVisitRecords(ctx, []model.CanonicalVisitRecord{rec}))

	got, err := store.GetVisitRecords(ctx, service.DateRange{
		Start: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		End:   time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	assert.Len(t, got, 1)
}

func TestSaveVisitRecords_DuplicatesIgnored(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()

	rec := testRecord("P1", time.Date(2024, 1, 10, 10, 0, 0, 0, time.UTC), 30000)
	require.NoError(t, store.SaveVisitRecords(ctx, []model.CanonicalVisitRecord{rec}))
	// Re-importing the same batch must not create duplicates.
	require.NoError(t, store.SaveVisitRecords(ctx, []model.CanonicalVisitRecord{rec}))

	got, err := store.GetAllVisitRecords(ctx)
	require.NoError(t, err)
	assert.Len(t, got, 1)
}

func TestSaveVisitRecords_PaymentLineItemsRoundTrip(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()

	rec := testRecord("P1", time.Date(2024, 1, 10, 10, 0, 0, 0, time.UTC), 33000)
	rec.PaymentLineItems = []model.PaymentLineItem{
		{Category: "施術", Name: "全身脱毛", PriceWithTax: 30000},
		{Category: "物販", Name: "ホームケア用品", PriceWithTax: 3000},
	}
	require.NoError(t, store.SaveVisitRecords(ctx, []model.CanonicalVisitRecord{rec}))

	got, err := store.GetAllVisitRecords(ctx)
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.Len(t, got[0].PaymentLineItems, 2)
	assert.Equal(t, "全身脱毛", got[0].PaymentLineItems[0].Name)
}

func TestGetAccountingRecords_ExcludesCancelledAndZeroAmount(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()

	paid := testRecord("P1", time.Date(2024, 1, 10, 10, 0, 0, 0, time.UTC), 30000)
	free := testRecord("P2", time.Date(2024, 1, 11, 10, 0, 0, 0, time.UTC), 0)
	cancelled := testRecord("P3", time.Date(2024, 1, 12, 10, 0, 0, 0, time.UTC), 9000)
	cancelled.Cancelled = true

	require.NoError(t, store.SaveVisitRecords(ctx, []model.CanonicalVisitRecord{paid, free, cancelled}))

	entries, err := store.GetAccountingRecords(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "P1", entries[0].PatientID)
	assert.InDelta(t, 30000, entries[0].Amount, 0.001)
}

func TestGetAccountingRecordsBefore_StrictCutoff(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()

	cutoff := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)
	before := testRecord("P1", cutoff.Add(-time.Hour), 10000)
	atCutoff := testRecord("P2", cutoff, 20000)
	after := testRecord("P3", cutoff.Add(time.Hour), 30000)

	require.NoError(t, store.SaveVisitRecords(ctx, []model.CanonicalVisitRecord{before, atCutoff, after}))

	entries, err := store.GetAccountingRecordsBefore(ctx, cutoff)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "P1", entries[0].PatientID)
}

func TestSaveVisitRecords_RejectsInvalidInput(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()

	assert.Error(t, store.SaveVisitRecords(ctx, nil))
	assert.Error(t, store.SaveVisitRecords(ctx, []model.CanonicalVisitRecord{}))
	assert.Error(t, store.SaveVisitRecords(ctx, []model.CanonicalVisitRecord{{PatientID: "P1"}}))
}

func TestGetVisitRecords_RejectsInvertedRange(t *testing.T) {
	store := newTestStorage(t)

	_, err := store.GetVisitRecords(context.Background(), service.DateRange{
		Start: time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC),
		End:   time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	})
	assert.Error(t, err)
}
