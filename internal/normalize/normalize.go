// Package normalize maps raw clinic records onto the canonical visit record.
// Raw records arrive with field names that vary by source (API field names,
// Japanese CSV headers, legacy aliases), so every logical field is resolved
// through an explicit ordered list of candidate keys.
package normalize

import (
	"strconv"
	"strings"
	"time"

	"github.com/toptal0212/clinic-analysis-sub002/internal/model"
)

// Candidate keys per logical field, tried in declaration order.
var (
	patientIDKeys  = []string{"患者コード", "patient_code", "来院者ID", "visitor_id", "カルテ番号", "patient_id"}
	clinicIDKeys   = []string{"クリニックID", "clinic_id"}
	clinicNameKeys = []string{"クリニック名", "clinic_name", "院名"}
	amountKeys     = []string{"税込金額", "amount_with_tax", "合計金額", "total_amount", "金額", "amount"}
	categoryKeys   = []string{"施術カテゴリ", "treatment_category", "カテゴリ", "category"}
	nameKeys       = []string{"施術名", "treatment_name", "メニュー", "menu_name"}
	roomKeys       = []string{"部屋名", "room_name", "ルーム"}
	referralKeys   = []string{"紹介元", "referral_source", "流入元"}
	routeKeys      = []string{"予約経路", "appointment_route", "予約ルート"}
	staffKeys      = []string{"担当者", "staff", "スタッフ"}
	firstVisitKeys = []string{"初診/再診", "患者区分", "patient_type", "first_visit"}
	ageKeys        = []string{"年齢", "age", "patient_age"}
	cancelKeys     = []string{"キャンセル", "cancelled", "is_cancelled"}
	advanceKeys    = []string{"前受金", "advance_payment", "is_advance"}
	lineItemKeys   = []string{"支払明細", "payment_items", "明細"}
)

// Date candidates in fixed priority order: record date, visit date,
// treatment date, accounting date. The first candidate that parses wins.
var dateKeyGroups = [][]string{
	{"記録日", "record_date"},
	{"来院日", "visit_date"},
	{"施術日", "treatment_date"},
	{"会計日", "accounting_date"},
}

var dateLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	time.RFC3339,
	"2006-01-02",
	"2006/01/02 15:04:05",
	"2006/01/02",
	"2006/1/2",
}

// Record normalizes one raw record. It returns nil when no date candidate
// resolves to a valid date; such records are dropped from every time-based
// computation rather than reported as errors.
func Record(raw model.RawRecord) *model.CanonicalVisitRecord {
	date, ok := resolveDate(raw)
	if !ok {
		return nil
	}

	rec := &model.CanonicalVisitRecord{
		Date:                 date,
		PatientID:            stringField(raw, patientIDKeys),
		ClinicID:             stringField(raw, clinicIDKeys),
		ClinicName:           stringField(raw, clinicNameKeys),
		AmountWithTax:        floatField(raw, amountKeys),
		TreatmentCategoryRaw: stringField(raw, categoryKeys),
		TreatmentNameRaw:     stringField(raw, nameKeys),
		RoomName:             stringField(raw, roomKeys),
		ReferralSource:       stringField(raw, referralKeys),
		AppointmentRoute:     stringField(raw, routeKeys),
		Staff:                stringField(raw, staffKeys),
		FirstVisitFlag:       stringField(raw, firstVisitKeys),
		PatientAge:           intField(raw, ageKeys),
		Cancelled:            boolField(raw, cancelKeys),
		AdvancePayment:       boolField(raw, advanceKeys),
		PaymentLineItems:     lineItems(raw),
	}

	if rec.AmountWithTax < 0 {
		rec.AmountWithTax = 0
	}

	return rec
}

// Batch normalizes a raw batch, returning the surviving canonical records
// and the count of records dropped for an unresolvable date.
func Batch(raws []model.RawRecord) ([]model.CanonicalVisitRecord, int) {
	records := make([]model.CanonicalVisitRecord, 0, len(raws))
	dropped := 0
	for _, raw := range raws {
		rec := Record(raw)
		if rec == nil {
			dropped++
			continue
		}
		records = append(records, *rec)
	}
	return records, dropped
}

func resolveDate(raw model.RawRecord) (time.Time, bool) {
	for _, group := range dateKeyGroups {
		for _, key := range group {
			v, ok := raw[key]
			if !ok {
				continue
			}
			if t, parsed := parseDate(v); parsed {
				return t, true
			}
		}
	}
	return time.Time{}, false
}

func parseDate(v any) (time.Time, bool) {
	switch val := v.(type) {
	case time.Time:
		if val.IsZero() {
			return time.Time{}, false
		}
		return val, true
	case string:
		s := strings.TrimSpace(val)
		if s == "" {
			return time.Time{}, false
		}
		for _, layout := range dateLayouts {
			if t, err := time.Parse(layout, s); err == nil {
				return t, true
			}
		}
	}
	return time.Time{}, false
}

func stringField(raw model.RawRecord, keys []string) string {
	for _, key := range keys {
		v, ok := raw[key]
		if !ok {
			continue
		}
		if s, ok := v.(string); ok {
			if trimmed := strings.TrimSpace(s); trimmed != "" {
				return trimmed
			}
		}
	}
	return ""
}

// floatField resolves a numeric field, falling back to 0 on parse failure.
// Never panics and never reports an error: a malformed amount degrades the
// one record, not the batch.
func floatField(raw model.RawRecord, keys []string) float64 {
	for _, key := range keys {
		v, ok := raw[key]
		if !ok {
			continue
		}
		if f, parsed := parseFloat(v); parsed {
			return f
		}
	}
	return 0
}

func parseFloat(v any) (float64, bool) {
	switch val := v.(type) {
	case float64:
		return val, true
	case float32:
		return float64(val), true
	case int:
		return float64(val), true
	case int64:
		return float64(val), true
	case string:
		s := strings.TrimSpace(val)
		s = strings.ReplaceAll(s, ",", "")
		s = strings.TrimPrefix(s, "¥")
		if s == "" {
			return 0, false
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, false
		}
		return f, true
	}
	return 0, false
}

func intField(raw model.RawRecord, keys []string) int {
	f := floatField(raw, keys)
	return int(f)
}

// boolField accepts the literal strings "1" and "true" or an actual bool;
// anything else is false.
func boolField(raw model.RawRecord, keys []string) bool {
	for _, key := range keys {
		v, ok := raw[key]
		if !ok {
			continue
		}
		switch val := v.(type) {
		case bool:
			return val
		case string:
			return val == "1" || val == "true"
		}
	}
	return false
}

func lineItems(raw model.RawRecord) []model.PaymentLineItem {
	for _, key := range lineItemKeys {
		v, ok := raw[key]
		if !ok {
			continue
		}
		entries, ok := v.([]any)
		if !ok {
			continue
		}
		items := make([]model.PaymentLineItem, 0, len(entries))
		for _, entry := range entries {
			m, ok := entry.(map[string]any)
			if !ok {
				continue
			}
			item := model.PaymentLineItem{
				Category: stringField(model.RawRecord(m), []string{"カテゴリ", "category"}),
				Name:     stringField(model.RawRecord(m), []string{"名前", "name"}),
			}
			item.PriceWithTax = floatField(model.RawRecord(m), []string{"税込価格", "price_with_tax", "価格", "price"})
			items = append(items, item)
		}
		return items
	}
	return nil
}
