package engine

import (
	"github.com/toptal0212/clinic-analysis-sub002/internal/model"
)

// ClassifyPatientType determines whether a visit counts as a new patient, an
// existing patient, or neither.
//
// Visits in the その他 main category are Other unconditionally: advertising,
// product, and piercing interactions never count toward new/existing cohorts,
// even when the same patient has countable visits elsewhere. For countable
// visits, any accounting entry for the same patient posted strictly before
// the visit timestamp makes the patient Existing. The comparison uses full
// timestamps, not calendar days: a patient whose first-ever accounting entry
// lands on the visit day is still New.
func ClassifyPatientType(record model.CanonicalVisitRecord, category model.Category, prior []model.AccountingRecord) model.PatientType {
	if !category.IsCountable() {
		return model.PatientTypeOther
	}

	for _, entry := range prior {
		if entry.PatientID == record.PatientID && entry.PaymentDate.Before(record.Date) {
			return model.PatientTypeExisting
		}
	}

	return model.PatientTypeNew
}
