package engine

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/toptal0212/clinic-analysis-sub002/internal/model"
	"github.com/toptal0212/clinic-analysis-sub002/internal/service"
	"github.com/toptal0212/clinic-analysis-sub002/internal/taxonomy"
)

func newTestEngine() *AnalyticsEngine {
	return New(taxonomy.NewClassifier(taxonomy.Default()))
}

func TestProcess_EmptyBatch(t *testing.T) {
	e := newTestEngine()
	rng := service.DateRange{Start: day(2024, 1, 1), End: day(2024, 1, 31)}

	result, err := e.Process(context.Background(), nil, nil, rng)
	require.NoError(t, err)

	assert.Empty(t, result.Visits)
	assert.Zero(t, result.Period.TotalRevenue)
	assert.Zero(t, result.Period.NewAverage)
	assert.Empty(t, result.Holidays)
	assert.Zero(t, result.DroppedRecords)
}

func TestProcess_EndToEnd(t *testing.T) {
	e := newTestEngine()
	rng := service.DateRange{Start: day(2024, 1, 1), End: day(2024, 1, 31)}

	raws := []model.RawRecord{
		{
			"来院日":   "2024-01-10",
			"患者コード": "P1",
			"施術名":   "脱毛",
			"税込金額":  "30000",
			"紹介元":   "Instagram",
			"初診/再診": "初診",
		},
		{
			"来院日":   "2024-01-15",
			"患者コード": "P1",
			"施術名":   "ボトックス",
			"税込金額":  "20000",
			"紹介元":   "Instagram",
			"初診/再診": "再診",
		},
		// Date never resolves: dropped, not fatal.
		{"患者コード": "P9", "施術名": "脱毛"},
	}

	result, err := e.Process(context.Background(), raws, nil, rng)
	require.NoError(t, err)

	require.Len(t, result.Visits, 2)
	assert.Equal(t, 1, result.DroppedRecords)

	// First visit is New (no prior accounting), second is Existing because
	// the first visit's payment predates it.
	assert.Equal(t, model.PatientTypeNew, result.Visits[0].PatientType)
	assert.Equal(t, model.PatientTypeExisting, result.Visits[1].PatientType)

	assert.Equal(t, "美容/脱毛", result.Visits[0].Category.Key())
	assert.Equal(t, "美容/皮膚科", result.Visits[1].Category.Key())

	assert.InDelta(t, 50000, result.Period.TotalRevenue, 0.001)

	// Cross-sell: 脱毛 → 皮膚科 in both matrices.
	assert.Equal(t, 1, result.Transitions.ImmediateNext.Count("美容/脱毛", "美容/皮膚科"))
	assert.Equal(t, 1, result.Transitions.AnyLater.Count("美容/脱毛", "美容/皮膚科"))

	// Holiday calendar spans Jan 10 .. Jan 15 inclusive.
	assert.Len(t, result.Holidays, 6)
	assert.Equal(t, 4, result.Holidays.HolidayCount())
}

func TestProcess_ConsultationRecordWithoutAmount(t *testing.T) {
	e := newTestEngine()
	rng := service.DateRange{Start: day(2024, 1, 1), End: day(2024, 1, 31)}

	raws := []model.RawRecord{
		{"来院日": "2024-01-10", "患者コード": "P1", "施術名": "ボトックスのご相談"},
	}

	result, err := e.Process(context.Background(), raws, nil, rng)
	require.NoError(t, err)

	require.Len(t, result.Visits, 1)
	assert.Equal(t, model.MainBeauty, result.Visits[0].Category.Main)
	assert.Equal(t, "注入", result.Visits[0].Category.Sub)
	// No amount means no derived accounting entry and zero revenue.
	assert.Zero(t, result.Period.TotalRevenue)
}

func TestProcess_PriorAccountingMakesPatientExisting(t *testing.T) {
	e := newTestEngine()
	rng := service.DateRange{Start: day(2024, 2, 1), End: day(2024, 2, 28)}

	raws := []model.RawRecord{
		{"来院日": "2024-02-10", "患者コード": "P1", "施術名": "脱毛", "税込金額": "10000"},
	}
	prior := []model.AccountingRecord{
		{PatientID: "P1", PaymentDate: day(2023, 12, 1), Amount: 40000},
	}

	result, err := e.Process(context.Background(), raws, prior, rng)
	require.NoError(t, err)

	require.Len(t, result.Visits, 1)
	assert.Equal(t, model.PatientTypeExisting, result.Visits[0].PatientType)

	// Existing average uses the lifetime total including the prior entry.
	assert.InDelta(t, 50000, result.Period.ExistingAverage, 0.001)
}

func TestProcess_OtherCategoryIgnoresHistory(t *testing.T) {
	e := newTestEngine()
	rng := service.DateRange{Start: day(2024, 2, 1), End: day(2024, 2, 28)}

	raws := []model.RawRecord{
		{"来院日": "2024-02-10", "患者コード": "P1", "施術名": "ピアス", "税込金額": "5000"},
	}
	prior := []model.AccountingRecord{
		{PatientID: "P1", PaymentDate: day(2023, 12, 1), Amount: 40000},
	}

	result, err := e.Process(context.Background(), raws, prior, rng)
	require.NoError(t, err)

	require.Len(t, result.Visits, 1)
	assert.Equal(t, model.PatientTypeOther, result.Visits[0].PatientType)
	require.Len(t, result.Period.OtherPatients, 1)
	assert.Empty(t, result.Period.ExistingPatients)
}

func TestProcess_CancelledRecordsExcluded(t *testing.T) {
	e := newTestEngine()
	rng := service.DateRange{Start: day(2024, 2, 1), End: day(2024, 2, 28)}

	raws := []model.RawRecord{
		{"来院日": "2024-02-10", "患者コード": "P1", "施術名": "脱毛", "税込金額": "10000", "キャンセル": "1"},
	}

	result, err := e.Process(context.Background(), raws, nil, rng)
	require.NoError(t, err)

	assert.Empty(t, result.Visits)
	assert.Zero(t, result.Period.TotalRevenue)
}

func TestProcess_VisitsOutsideRangeClassifyHistoryOnly(t *testing.T) {
	e := newTestEngine()
	rng := service.DateRange{Start: day(2024, 3, 1), End: day(2024, 3, 31)}

	raws := []model.RawRecord{
		// January visit is outside the range but its payment still makes
		// the March visit an Existing one.
		{"来院日": "2024-01-10", "患者コード": "P1", "施術名": "脱毛", "税込金額": "30000"},
		{"来院日": "2024-03-05", "患者コード": "P1", "施術名": "ボトックス", "税込金額": "20000"},
	}

	result, err := e.Process(context.Background(), raws, nil, rng)
	require.NoError(t, err)

	require.Len(t, result.Visits, 1)
	assert.Equal(t, model.PatientTypeExisting, result.Visits[0].PatientType)
}

func TestProcess_CancelledContext(t *testing.T) {
	e := newTestEngine()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := e.Process(ctx, nil, nil, service.DateRange{Start: day(2024, 1, 1), End: day(2024, 1, 2)})
	assert.Error(t, err)
}
