// Package engine implements the revenue and behavior analytics pipeline:
// normalization, classification, revenue aggregation, cross-sell transition
// analysis, holiday detection, and record validation.
package engine

import (
	"context"
	"log/slog"
	"sort"

	"github.com/toptal0212/clinic-analysis-sub002/internal/model"
	"github.com/toptal0212/clinic-analysis-sub002/internal/normalize"
	"github.com/toptal0212/clinic-analysis-sub002/internal/service"
	"github.com/toptal0212/clinic-analysis-sub002/internal/taxonomy"
)

// AnalyticsEngine orchestrates a single analytics pass over a raw record
// batch. All computation is synchronous and side-effect-free: each request
// owns its own result, nothing is cached between runs, and classified visits
// are recomputed on every query.
type AnalyticsEngine struct {
	classifier *taxonomy.Classifier
}

// New creates an analytics engine over the given classifier.
func New(classifier *taxonomy.Classifier) *AnalyticsEngine {
	return &AnalyticsEngine{classifier: classifier}
}

// Result is the complete output of one analytics request. All fields are
// plain, serializable, immutable values.
type Result struct {
	Visits         []model.ClassifiedVisit
	Period         model.PeriodMetrics
	Transitions    model.TransitionSet
	Holidays       model.HolidayCalendar
	Errors         []model.RecordError
	DroppedRecords int
}

// Process runs the full pipeline: normalize the raw batch, classify each
// record, then aggregate metrics, transitions, and the holiday calendar over
// the requested range.
//
// priorAccounting supplies payment history from outside the batch (typically
// entries stored before the range start) so patient-type classification sees
// the full history. Malformed records are dropped or flagged, never fatal:
// an empty or partially bad batch yields an empty result, not an error.
func (e *AnalyticsEngine) Process(ctx context.Context, raws []model.RawRecord, priorAccounting []model.AccountingRecord, rng service.DateRange) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	records, dropped := normalize.Batch(raws)
	if dropped > 0 {
		slog.Info("Dropped records with unresolvable dates", "dropped", dropped)
	}

	// Cancelled appointments are non-visits; they carry no revenue and no
	// patient behavior.
	active := make([]model.CanonicalVisitRecord, 0, len(records))
	for _, rec := range records {
		if rec.Cancelled {
			continue
		}
		active = append(active, rec)
	}

	accounting := make([]model.AccountingRecord, 0, len(priorAccounting)+len(active))
	accounting = append(accounting, priorAccounting...)
	for _, rec := range active {
		if rec.AmountWithTax > 0 {
			accounting = append(accounting, model.AccountingRecord{
				PatientID:   rec.PatientID,
				PaymentDate: rec.Date,
				Amount:      rec.AmountWithTax,
			})
		}
	}

	visits := make([]model.ClassifiedVisit, 0, len(active))
	for _, rec := range active {
		if !rng.Contains(rec.Date) {
			continue
		}
		category := e.classifier.Classify(rec.TreatmentCategoryRaw, rec.TreatmentNameRaw)
		visits = append(visits, model.ClassifiedVisit{
			Record:      rec,
			Category:    category,
			PatientType: ClassifyPatientType(rec, category, accounting),
		})
	}
	sort.SliceStable(visits, func(i, j int) bool {
		return visits[i].Record.Date.Before(visits[j].Record.Date)
	})

	result := &Result{
		Visits:         visits,
		Period:         ComputePeriodMetrics(visits, accounting, rng),
		Transitions:    BuildTransitions(visits),
		Holidays:       DetectHolidays(active),
		Errors:         ValidateRecords(active, e.classifier),
		DroppedRecords: dropped,
	}

	slog.Info("Analytics pass completed",
		"visits", len(visits),
		"new_patients", len(result.Period.NewPatients),
		"existing_patients", len(result.Period.ExistingPatients),
		"validation_errors", len(result.Errors),
		"dropped", dropped)

	return result, nil
}
