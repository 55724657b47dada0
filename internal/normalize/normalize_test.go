package normalize

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/toptal0212/clinic-analysis-sub002/internal/model"
)

func TestRecord_JapaneseCSVFields(t *testing.T) {
	raw := model.RawRecord{
		"来院日":    "2024-01-10",
		"年齢":     "25",
		"患者コード":  "P1",
		"施術名":    "脱毛",
		"税込金額":   "33,000",
		"紹介元":    "Instagram",
		"初診/再診":  "初診",
		"キャンセル":  "0",
	}

	rec := Record(raw)
	require.NotNil(t, rec)

	assert.Equal(t, time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC), rec.Date)
	assert.Equal(t, "P1", rec.PatientID)
	assert.Equal(t, "脱毛", rec.TreatmentNameRaw)
	assert.Equal(t, 25, rec.PatientAge)
	assert.InDelta(t, 33000.0, rec.AmountWithTax, 0.001)
	assert.Equal(t, "Instagram", rec.ReferralSource)
	assert.False(t, rec.Cancelled)
}

func TestRecord_DatePriorityOrder(t *testing.T) {
	// Record date outranks visit date, which outranks treatment and
	// accounting dates.
	raw := model.RawRecord{
		"記録日": "2024-03-01",
		"来院日": "2024-03-02",
		"施術日": "2024-03-03",
		"会計日": "2024-03-04",
	}
	rec := Record(raw)
	require.NotNil(t, rec)
	assert.Equal(t, "2024-03-01", rec.Date.Format("2006-01-02"))

	// An unparseable higher-priority candidate falls through to the next.
	raw["記録日"] = "not-a-date"
	rec = Record(raw)
	require.NotNil(t, rec)
	assert.Equal(t, "2024-03-02", rec.Date.Format("2006-01-02"))
}

func TestRecord_DroppedWhenNoDateResolves(t *testing.T) {
	raw := model.RawRecord{
		"患者コード": "P9",
		"来院日":   "invalid",
	}
	assert.Nil(t, Record(raw))
}

func TestRecord_NumericFallbacks(t *testing.T) {
	tests := []struct {
		value any
		name  string
		want  float64
	}{
		{name: "plain string", value: "1500", want: 1500},
		{name: "comma separated", value: "12,500", want: 12500},
		{name: "yen prefix", value: "¥9800", want: 9800},
		{name: "already numeric", value: 4200.5, want: 4200.5},
		{name: "integer", value: 300, want: 300},
		{name: "garbage falls back to zero", value: "三千円", want: 0},
		{name: "empty string falls back to zero", value: "", want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw := model.RawRecord{"来院日": "2024-01-01", "税込金額": tt.value}
			rec := Record(raw)
			require.NotNil(t, rec)
			assert.InDelta(t, tt.want, rec.AmountWithTax, 0.001)
		})
	}
}

func TestRecord_NegativeAmountClampedToZero(t *testing.T) {
	raw := model.RawRecord{"来院日": "2024-01-01", "税込金額": "-500"}
	rec := Record(raw)
	require.NotNil(t, rec)
	assert.Zero(t, rec.AmountWithTax)
}

func TestRecord_BooleanLikeFields(t *testing.T) {
	tests := []struct {
		value any
		name  string
		want  bool
	}{
		{name: "string one", value: "1", want: true},
		{name: "string true", value: "true", want: true},
		{name: "real bool", value: true, want: true},
		{name: "string zero", value: "0", want: false},
		{name: "string yes is not accepted", value: "yes", want: false},
		{name: "numeric one is not accepted", value: 1, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw := model.RawRecord{"来院日": "2024-01-01", "キャンセル": tt.value}
			rec := Record(raw)
			require.NotNil(t, rec)
			assert.Equal(t, tt.want, rec.Cancelled)
		})
	}
}

func TestRecord_APIFieldAliases(t *testing.T) {
	raw := model.RawRecord{
		"visit_date":   "2024-02-15 13:30:00",
		"patient_code": "P42",
		"clinic_name":  "新宿院",
		"menu_name":    "ダーマペン",
		"amount":       28000.0,
	}

	rec := Record(raw)
	require.NotNil(t, rec)
	assert.Equal(t, "P42", rec.PatientID)
	assert.Equal(t, "新宿院", rec.ClinicName)
	assert.Equal(t, "ダーマペン", rec.TreatmentNameRaw)
	assert.Equal(t, 13, rec.Date.Hour())
}

func TestRecord_PaymentLineItems(t *testing.T) {
	raw := model.RawRecord{
		"来院日": "2024-01-05",
		"payment_items": []any{
			map[string]any{"category": "施術", "name": "全身脱毛", "price_with_tax": 55000.0},
			map[string]any{"カテゴリ": "物販", "名前": "ホームケア用品", "税込価格": "3,300"},
		},
	}

	rec := Record(raw)
	require.NotNil(t, rec)
	require.Len(t, rec.PaymentLineItems, 2)
	assert.Equal(t, "全身脱毛", rec.PaymentLineItems[0].Name)
	assert.InDelta(t, 3300.0, rec.PaymentLineItems[1].PriceWithTax, 0.001)
}

func TestBatch_CountsDroppedRecords(t *testing.T) {
	raws := []model.RawRecord{
		{"来院日": "2024-01-01", "患者コード": "P1"},
		{"患者コード": "P2"},
		{"来院日": "2024-01-02", "患者コード": "P3"},
	}

	records, dropped := Batch(raws)
	assert.Len(t, records, 2)
	assert.Equal(t, 1, dropped)
}
