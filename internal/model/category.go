package model

// Main category constants. The taxonomy has exactly two top-level groupings.
const (
	// MainBeauty groups revenue-countable cosmetic treatments.
	MainBeauty = "美容"
	// MainOther groups piercing, product sales, anesthesia, and anything
	// unclassifiable. Records here never count toward new/existing cohorts.
	MainOther = "その他"
)

// Category is the canonical (main, sub, procedure) triple assigned to every
// visit. Classification is total: unmatched input falls back to
// その他/その他 rather than failing.
type Category struct {
	Main      string
	Sub       string
	Procedure string
}

// Key returns the "main/sub" axis key used by transition matrices and
// category breakdown maps.
func (c Category) Key() string {
	return c.Main + "/" + c.Sub
}

// IsCountable reports whether visits in this category participate in
// new/existing patient cohorts.
func (c Category) IsCountable() bool {
	return c.Main == MainBeauty
}

// PatientType indicates how a visit counts in cohort metrics.
type PatientType string

// Patient type constants.
const (
	PatientTypeNew      PatientType = "NEW"
	PatientTypeExisting PatientType = "EXISTING"
	// PatientTypeOther marks visits in the その他 main category; they are
	// excluded from new/existing cohorts regardless of visit history.
	PatientTypeOther PatientType = "OTHER"
)

// ClassifiedVisit is a canonical record plus its classification results.
// Created once per record during a classification pass and immutable after.
type ClassifiedVisit struct {
	Record      CanonicalVisitRecord
	Category    Category
	PatientType PatientType
}
