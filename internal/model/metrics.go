package model

import "time"

// PatientVisitEntry is one patient's presence in a day or period, carrying
// the two amounts the averaging rules need: what was posted on the visit day
// itself and the patient's lifetime posted total.
type PatientVisitEntry struct {
	PatientID     string
	Category      Category
	SameDayAmount float64
	TotalAmount   float64
}

// DailyMetrics aggregates one calendar day.
type DailyMetrics struct {
	Date             time.Time
	NewPatients      []PatientVisitEntry
	ExistingPatients []PatientVisitEntry
	OtherPatients    []PatientVisitEntry
	CategoryTotals   map[string]float64
	TotalRevenue     float64
	// The three averages have distinct definitions; see the aggregator.
	SameDayNewAverage float64
	NewAverage        float64
	ExistingAverage   float64
}

// PeriodMetrics aggregates an inclusive [Start, End] date range. Averages are
// recomputed over the full-period patient lists, never averaged across days.
type PeriodMetrics struct {
	Start             time.Time
	End               time.Time
	Days              []DailyMetrics
	NewPatients       []PatientVisitEntry
	ExistingPatients  []PatientVisitEntry
	OtherPatients     []PatientVisitEntry
	CategoryTotals    map[string]float64
	TotalRevenue      float64
	SameDayNewAverage float64
	NewAverage        float64
	ExistingAverage   float64
}
