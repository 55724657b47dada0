// Package service defines the interfaces for all application services.
package service

import (
	"context"
	"time"

	"github.com/toptal0212/clinic-analysis-sub002/internal/model"
)

// DateRange is an inclusive [Start, End] pair supplied by the caller for all
// period-level queries.
type DateRange struct {
	Start time.Time
	End   time.Time
}

// Contains reports whether a timestamp falls on a calendar day inside the
// range, inclusive on both ends.
func (r DateRange) Contains(t time.Time) bool {
	day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	start := time.Date(r.Start.Year(), r.Start.Month(), r.Start.Day(), 0, 0, 0, 0, t.Location())
	end := time.Date(r.End.Year(), r.End.Month(), r.End.Day(), 0, 0, 0, 0, t.Location())
	return !day.Before(start) && !day.After(end)
}

// Storage defines the contract for the visit-history persistence layer.
type Storage interface {
	// Record operations
	SaveVisitRecords(ctx context.Context, records []model.CanonicalVisitRecord) error
	GetVisitRecords(ctx context.Context, rng DateRange) ([]model.CanonicalVisitRecord, error)
	GetAllVisitRecords(ctx context.Context) ([]model.CanonicalVisitRecord, error)

	// Accounting history for patient-type classification
	GetAccountingRecords(ctx context.Context) ([]model.AccountingRecord, error)
	GetAccountingRecordsBefore(ctx context.Context, cutoff time.Time) ([]model.AccountingRecord, error)

	// Database management
	Migrate(ctx context.Context) error
	Close() error
}

// RecordSource fetches raw record batches from an external system, such as
// the remote clinic API or an uploaded CSV file.
type RecordSource interface {
	FetchRecords(ctx context.Context, rng DateRange) ([]model.RawRecord, error)
}

// ReportWriter exports a period report to an external destination.
type ReportWriter interface {
	Write(ctx context.Context, metrics *model.PeriodMetrics, transitions *model.TransitionSet) error
}

// RetryOptions configures retry behavior for operations.
type RetryOptions struct {
	MaxAttempts  int
	InitialDelay time.Duration
	MaxDelay     time.Duration
	Multiplier   float64
}
