package model

// ErrorSeverity grades a validation finding.
type ErrorSeverity string

// SeverityError is the severity every check in the validator table emits.
const SeverityError ErrorSeverity = "error"

// RecordError is a non-fatal validation finding for one record. Validation
// findings are collected and returned alongside computed metrics, never
// instead of them.
type RecordError struct {
	PatientID string
	Field     string
	Message   string
	Severity  ErrorSeverity
}
