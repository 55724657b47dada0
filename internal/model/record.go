// Package model defines the core domain models used throughout the application.
package model

import (
	"crypto/sha256"
	"fmt"
	"time"
)

// RawRecord is an untyped record as delivered by the clinic API or a CSV
// upload. Keys vary by source: API field names, Japanese CSV headers, or
// legacy aliases. It carries no invariants; the normalizer owns all
// interpretation.
type RawRecord map[string]any

// PaymentLineItem is a single line of a visit's payment breakdown.
type PaymentLineItem struct {
	Category     string
	Name         string
	PriceWithTax float64
}

// CanonicalVisitRecord is the normalized visit entity every downstream
// component consumes. Date is always valid; records whose date could not be
// resolved never become canonical records.
type CanonicalVisitRecord struct {
	Date                 time.Time
	PatientID            string
	ClinicID             string
	ClinicName           string
	TreatmentCategoryRaw string
	TreatmentNameRaw     string
	RoomName             string
	ReferralSource       string
	AppointmentRoute     string
	Staff                string
	FirstVisitFlag       string
	PaymentLineItems     []PaymentLineItem
	AmountWithTax        float64
	PatientAge           int
	Cancelled            bool
	AdvancePayment       bool
}

// GenerateHash creates a stable hash for duplicate detection on import.
func (r *CanonicalVisitRecord) GenerateHash() string {
	data := fmt.Sprintf("%s:%s:%.2f:%s",
		r.Date.Format("2006-01-02 15:04:05"),
		r.PatientID,
		r.AmountWithTax,
		r.TreatmentNameRaw)
	hash := sha256.Sum256([]byte(data))
	return fmt.Sprintf("%x", hash)
}

// AccountingRecord is one payment posting linked to a patient. PaymentDate
// keeps the full timestamp: the patient-type rule compares with strict
// timestamp ordering, not date-only.
type AccountingRecord struct {
	PaymentDate time.Time
	PatientID   string
	Amount      float64
}
