package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/toptal0212/clinic-analysis-sub002/internal/model"
	"github.com/toptal0212/clinic-analysis-sub002/internal/service"
)

// Validation errors.
var (
	ErrNilContext       = errors.New("context cannot be nil")
	ErrEmptyString      = errors.New("string parameter cannot be empty")
	ErrNilParameter     = errors.New("parameter cannot be nil")
	ErrEmptySlice       = errors.New("slice cannot be empty")
	ErrInvalidDateRange = errors.New("start date must not be after end date")
	ErrInvalidRecord    = errors.New("invalid visit record")
)

// validateContext ensures the context is not nil.
func validateContext(ctx context.Context) error {
	if ctx == nil {
		return ErrNilContext
	}
	return nil
}

// validateString ensures a string parameter is not empty.
func validateString(s string, paramName string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("%w: %s", ErrEmptyString, paramName)
	}
	return nil
}

// validateDateRange ensures the range is ordered.
func validateDateRange(rng service.DateRange) error {
	if rng.Start.After(rng.End) {
		return ErrInvalidDateRange
	}
	return nil
}

// validateRecords validates a slice of canonical records before persisting.
func validateRecords(records []model.CanonicalVisitRecord) error {
	if records == nil {
		return fmt.Errorf("%w: records", ErrNilParameter)
	}
	if len(records) == 0 {
		return fmt.Errorf("%w: records", ErrEmptySlice)
	}

	for i, rec := range records {
		if rec.Date.IsZero() {
			return fmt.Errorf("record at index %d: %w: missing date", i, ErrInvalidRecord)
		}
		if rec.AmountWithTax < 0 {
			return fmt.Errorf("record at index %d: %w: negative amount", i, ErrInvalidRecord)
		}
	}
	return nil
}
