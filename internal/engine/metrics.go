package engine

import (
	"sort"
	"time"

	"github.com/toptal0212/clinic-analysis-sub002/internal/model"
	"github.com/toptal0212/clinic-analysis-sub002/internal/service"
)

// accountingIndex groups accounting entries by patient for repeated lookups
// during aggregation.
type accountingIndex map[string][]model.AccountingRecord

func indexAccounting(entries []model.AccountingRecord) accountingIndex {
	idx := make(accountingIndex)
	for _, e := range entries {
		idx[e.PatientID] = append(idx[e.PatientID], e)
	}
	return idx
}

// sameDayTotal sums a patient's accounting entries posted on the given
// calendar day.
func (idx accountingIndex) sameDayTotal(patientID string, day time.Time) float64 {
	total := 0.0
	for _, e := range idx[patientID] {
		if sameCalendarDay(e.PaymentDate, day) {
			total += e.Amount
		}
	}
	return total
}

// lifetimeTotal sums every accounting entry ever linked to a patient,
// including future advance and remaining payments.
func (idx accountingIndex) lifetimeTotal(patientID string) float64 {
	total := 0.0
	for _, e := range idx[patientID] {
		total += e.Amount
	}
	return total
}

func sameCalendarDay(a, b time.Time) bool {
	return a.Year() == b.Year() && a.Month() == b.Month() && a.Day() == b.Day()
}

// calendarDayAfter reports whether a falls on a later calendar date than b.
func calendarDayAfter(a, b time.Time) bool {
	if a.Year() != b.Year() {
		return a.Year() > b.Year()
	}
	if a.Month() != b.Month() {
		return a.Month() > b.Month()
	}
	return a.Day() > b.Day()
}

// ComputeDailyMetrics aggregates one calendar day of classified visits.
//
// The three averages must not be conflated:
//   - same-day new average: same-day postings of New patients / New count
//   - new average: lifetime postings of New patients / New count
//   - existing average: lifetime postings of Existing patients / Existing count
//
// A patient with no matching accounting entries contributes 0 to the
// numerator but still counts in the denominator. Averages default to 0 when
// the denominator is empty.
func ComputeDailyMetrics(visits []model.ClassifiedVisit, accounting []model.AccountingRecord, date time.Time) model.DailyMetrics {
	idx := indexAccounting(accounting)
	return computeDailyMetrics(visits, idx, date)
}

func computeDailyMetrics(visits []model.ClassifiedVisit, idx accountingIndex, date time.Time) model.DailyMetrics {
	metrics := model.DailyMetrics{
		Date:           date,
		CategoryTotals: make(map[string]float64),
	}

	dayVisits := make([]model.ClassifiedVisit, 0)
	for _, v := range visits {
		if sameCalendarDay(v.Record.Date, date) {
			dayVisits = append(dayVisits, v)
		}
	}
	sort.SliceStable(dayVisits, func(i, j int) bool {
		return dayVisits[i].Record.Date.Before(dayVisits[j].Record.Date)
	})

	// One entry per patient per day: multiple same-day line items for one
	// patient collapse into the first visit after sorting.
	seen := make(map[string]bool)
	for _, v := range dayVisits {
		if v.Record.PatientID != "" && seen[v.Record.PatientID] {
			continue
		}
		seen[v.Record.PatientID] = true

		entry := model.PatientVisitEntry{
			PatientID:     v.Record.PatientID,
			Category:      v.Category,
			SameDayAmount: idx.sameDayTotal(v.Record.PatientID, v.Record.Date),
			TotalAmount:   idx.lifetimeTotal(v.Record.PatientID),
		}

		switch v.PatientType {
		case model.PatientTypeNew:
			metrics.NewPatients = append(metrics.NewPatients, entry)
			metrics.CategoryTotals[v.Category.Key()] += entry.TotalAmount
		case model.PatientTypeExisting:
			metrics.ExistingPatients = append(metrics.ExistingPatients, entry)
			metrics.CategoryTotals[v.Category.Key()] += entry.TotalAmount
		case model.PatientTypeOther:
			metrics.OtherPatients = append(metrics.OtherPatients, entry)
			// Other patients have no lifetime concept; the breakdown uses
			// their same-day amount.
			metrics.CategoryTotals[v.Category.Key()] += entry.SameDayAmount
		}
	}

	for _, entries := range idx {
		for _, e := range entries {
			if sameCalendarDay(e.PaymentDate, date) {
				metrics.TotalRevenue += e.Amount
			}
		}
	}

	metrics.SameDayNewAverage = averageOf(metrics.NewPatients, func(e model.PatientVisitEntry) float64 { return e.SameDayAmount })
	metrics.NewAverage = averageOf(metrics.NewPatients, func(e model.PatientVisitEntry) float64 { return e.TotalAmount })
	metrics.ExistingAverage = averageOf(metrics.ExistingPatients, func(e model.PatientVisitEntry) float64 { return e.TotalAmount })

	return metrics
}

// ComputePeriodMetrics aggregates every calendar day in the inclusive range.
// Daily totals and patient lists are summed and concatenated, but the final
// averages are recomputed over the full period lists: averaging the daily
// averages would weight low-volume days too heavily.
func ComputePeriodMetrics(visits []model.ClassifiedVisit, accounting []model.AccountingRecord, rng service.DateRange) model.PeriodMetrics {
	idx := indexAccounting(accounting)

	period := model.PeriodMetrics{
		Start:          rng.Start,
		End:            rng.End,
		CategoryTotals: make(map[string]float64),
	}

	// The walk compares calendar dates, not instants, so a range whose ends
	// carry different zones still covers every day inclusively.
	start := time.Date(rng.Start.Year(), rng.Start.Month(), rng.Start.Day(), 0, 0, 0, 0, rng.Start.Location())
	end := time.Date(rng.End.Year(), rng.End.Month(), rng.End.Day(), 0, 0, 0, 0, rng.End.Location())

	for day := start; !calendarDayAfter(day, end); day = day.AddDate(0, 0, 1) {
		daily := computeDailyMetrics(visits, idx, day)
		period.Days = append(period.Days, daily)
		period.TotalRevenue += daily.TotalRevenue
		period.NewPatients = append(period.NewPatients, daily.NewPatients...)
		period.ExistingPatients = append(period.ExistingPatients, daily.ExistingPatients...)
		period.OtherPatients = append(period.OtherPatients, daily.OtherPatients...)
		for key, total := range daily.CategoryTotals {
			period.CategoryTotals[key] += total
		}
	}

	period.SameDayNewAverage = averageOf(period.NewPatients, func(e model.PatientVisitEntry) float64 { return e.SameDayAmount })
	period.NewAverage = averageOf(period.NewPatients, func(e model.PatientVisitEntry) float64 { return e.TotalAmount })
	period.ExistingAverage = averageOf(period.ExistingPatients, func(e model.PatientVisitEntry) float64 { return e.TotalAmount })

	return period
}

func averageOf(entries []model.PatientVisitEntry, amount func(model.PatientVisitEntry) float64) float64 {
	if len(entries) == 0 {
		return 0
	}
	total := 0.0
	for _, e := range entries {
		total += amount(e)
	}
	return total / float64(len(entries))
}
