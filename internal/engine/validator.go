package engine

import (
	"github.com/toptal0212/clinic-analysis-sub002/internal/model"
	"github.com/toptal0212/clinic-analysis-sub002/internal/taxonomy"
)

// Validation messages. Fixed strings so downstream tooling can group findings.
const (
	msgMissingPatientID      = "patient identifier is missing"
	msgMissingFirstVisitFlag = "patient type (first/repeat visit) flag is missing"
	msgMissingReferralSource = "referral source is missing"
	msgUnmappedConsultation  = "consultation name matches no consultation mapping entry"
)

// ValidateRecord flags structurally invalid or unclassifiable records. Every
// check is evaluated independently; findings accumulate rather than
// short-circuit. An empty result means the record is valid. Validation never
// fails a batch: findings are returned alongside computed metrics.
func ValidateRecord(rec model.CanonicalVisitRecord, classifier *taxonomy.Classifier) []model.RecordError {
	var errs []model.RecordError

	add := func(field, message string) {
		errs = append(errs, model.RecordError{
			PatientID: rec.PatientID,
			Field:     field,
			Message:   message,
			Severity:  model.SeverityError,
		})
	}

	if rec.PatientID == "" {
		add("patientId", msgMissingPatientID)
	}
	if rec.FirstVisitFlag == "" {
		add("firstVisitFlag", msgMissingFirstVisitFlag)
	}
	if rec.ReferralSource == "" {
		add("referralSource", msgMissingReferralSource)
	}
	if taxonomy.LooksLikeConsultation(rec.TreatmentNameRaw) {
		if _, ok := classifier.LookupConsultation(rec.TreatmentNameRaw); !ok {
			add("treatmentName", msgUnmappedConsultation)
		}
	}

	return errs
}

// ValidateRecords runs ValidateRecord over a batch and concatenates the
// findings.
func ValidateRecords(records []model.CanonicalVisitRecord, classifier *taxonomy.Classifier) []model.RecordError {
	var errs []model.RecordError
	for _, rec := range records {
		errs = append(errs, ValidateRecord(rec, classifier)...)
	}
	return errs
}
