package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/toptal0212/clinic-analysis-sub002/internal/model"
	"github.com/toptal0212/clinic-analysis-sub002/internal/service"
)

const visitRecordColumns = `patient_id, record_date, clinic_id, clinic_name,
	amount_with_tax, treatment_category, treatment_name, room_name,
	referral_source, appointment_route, staff, first_visit_flag,
	patient_age, cancelled, advance_payment, payment_items`

// SaveVisitRecords persists a batch of canonical records. Duplicate records
// (same content hash) are silently skipped so re-importing an overlapping
// CSV or API window is safe.
func (s *SQLiteStorage) SaveVisitRecords(ctx context.Context, records []model.CanonicalVisitRecord) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateRecords(records); err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, fmt.Sprintf(`
		INSERT OR IGNORE INTO visit_records (
			hash, %s
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, visitRecordColumns))
	if err != nil {
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for _, rec := range records {
		itemsJSON := ""
		if len(rec.PaymentLineItems) > 0 {
			itemsBytes, marshalErr := json.Marshal(rec.PaymentLineItems)
			if marshalErr == nil {
				itemsJSON = string(itemsBytes)
			}
		}

		_, err = stmt.ExecContext(ctx,
			rec.GenerateHash(),
			rec.PatientID,
			rec.Date,
			rec.ClinicID,
			rec.ClinicName,
			rec.AmountWithTax,
			rec.TreatmentCategoryRaw,
			rec.TreatmentNameRaw,
			rec.RoomName,
			rec.ReferralSource,
			rec.AppointmentRoute,
			rec.Staff,
			rec.FirstVisitFlag,
			rec.PatientAge,
			rec.Cancelled,
			rec.AdvancePayment,
			itemsJSON,
		)
		if err != nil {
			return fmt.Errorf("failed to insert record for patient %s: %w", rec.PatientID, err)
		}
	}

	return tx.Commit()
}

// GetVisitRecords retrieves canonical records whose date falls inside the
// inclusive range.
func (s *SQLiteStorage) GetVisitRecords(ctx context.Context, rng service.DateRange) ([]model.CanonicalVisitRecord, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateDateRange(rng); err != nil {
		return nil, err
	}

	end := time.Date(rng.End.Year(), rng.End.Month(), rng.End.Day(), 0, 0, 0, 0, rng.End.Location()).AddDate(0, 0, 1)
	query := fmt.Sprintf(`
		SELECT %s FROM visit_records
		WHERE record_date >= ? AND record_date < ?
		ORDER BY record_date, patient_id
	`, visitRecordColumns)

	rows, err := s.db.QueryContext(ctx, query, rng.Start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to query visit records: %w", err)
	}
	defer func() { _ = rows.Close() }()

	return scanVisitRecords(rows)
}

// GetAllVisitRecords retrieves every stored canonical record in date order.
func (s *SQLiteStorage) GetAllVisitRecords(ctx context.Context) ([]model.CanonicalVisitRecord, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	query := fmt.Sprintf(`
		SELECT %s FROM visit_records
		ORDER BY record_date, patient_id
	`, visitRecordColumns)

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query visit records: %w", err)
	}
	defer func() { _ = rows.Close() }()

	return scanVisitRecords(rows)
}

// GetAccountingRecords derives the payment history from stored records:
// every non-cancelled record with a positive amount is one posting.
func (s *SQLiteStorage) GetAccountingRecords(ctx context.Context) ([]model.AccountingRecord, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	return s.queryAccounting(ctx, `
		SELECT patient_id, record_date, amount_with_tax FROM visit_records
		WHERE amount_with_tax > 0 AND cancelled = 0
		ORDER BY record_date
	`)
}

// GetAccountingRecordsBefore retrieves payment history strictly before the
// cutoff timestamp. The analyze flow feeds this to the engine so
// patient-type classification sees history outside the query window.
func (s *SQLiteStorage) GetAccountingRecordsBefore(ctx context.Context, cutoff time.Time) ([]model.AccountingRecord, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	return s.queryAccounting(ctx, `
		SELECT patient_id, record_date, amount_with_tax FROM visit_records
		WHERE amount_with_tax > 0 AND cancelled = 0 AND record_date < ?
		ORDER BY record_date
	`, cutoff)
}

func (s *SQLiteStorage) queryAccounting(ctx context.Context, query string, args ...any) ([]model.AccountingRecord, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query accounting records: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var entries []model.AccountingRecord
	for rows.Next() {
		var e model.AccountingRecord
		if err := rows.Scan(&e.PatientID, &e.PaymentDate, &e.Amount); err != nil {
			return nil, fmt.Errorf("failed to scan accounting record: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate accounting records: %w", err)
	}

	return entries, nil
}

func scanVisitRecords(rows *sql.Rows) ([]model.CanonicalVisitRecord, error) {
	var records []model.CanonicalVisitRecord
	for rows.Next() {
		var rec model.CanonicalVisitRecord
		var itemsJSON string
		err := rows.Scan(
			&rec.PatientID,
			&rec.Date,
			&rec.ClinicID,
			&rec.ClinicName,
			&rec.AmountWithTax,
			&rec.TreatmentCategoryRaw,
			&rec.TreatmentNameRaw,
			&rec.RoomName,
			&rec.ReferralSource,
			&rec.AppointmentRoute,
			&rec.Staff,
			&rec.FirstVisitFlag,
			&rec.PatientAge,
			&rec.Cancelled,
			&rec.AdvancePayment,
			&itemsJSON,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan visit record: %w", err)
		}
		if itemsJSON != "" {
			// Malformed stored JSON degrades the line items, not the record.
			_ = json.Unmarshal([]byte(itemsJSON), &rec.PaymentLineItems)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate visit records: %w", err)
	}

	return records, nil
}
