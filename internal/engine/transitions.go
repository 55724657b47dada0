package engine

import (
	"sort"

	"github.com/toptal0212/clinic-analysis-sub002/internal/model"
)

// BuildTransitions derives the cross-sell transition matrices from a set of
// classified visits.
//
// Per patient, same-calendar-day visits collapse into a single representative
// visit (the first encountered after a stable sort by timestamp) so that
// multiple same-day line items cannot inflate transition counts. Patients
// with fewer than two distinct-day visits contribute nothing. The matrix axis
// is the union of categories observed across all visits, not the full
// taxonomy: a category seen only on a collapsed duplicate still holds an axis
// position, its cells just stay zero.
func BuildTransitions(visits []model.ClassifiedVisit) model.TransitionSet {
	sequences := patientSequences(visits)

	axisSet := make(map[string]bool)
	for _, v := range visits {
		axisSet[v.Category.Key()] = true
	}
	axis := make([]string, 0, len(axisSet))
	for key := range axisSet {
		axis = append(axis, key)
	}

	immediateNext := model.NewTransitionMatrix(axis)
	anyLater := model.NewTransitionMatrix(axis)

	for _, seq := range sequences {
		if len(seq) < 2 {
			continue
		}
		first := seq[0].Category.Key()
		immediateNext.Increment(first, seq[1].Category.Key())
		for i := 1; i < len(seq); i++ {
			anyLater.Increment(first, seq[i].Category.Key())
		}
	}

	return model.TransitionSet{ImmediateNext: immediateNext, AnyLater: anyLater}
}

// patientSequences groups visits by patient, orders each group
// chronologically, and collapses same-calendar-day visits. Records without a
// patient identifier cannot join a history and are skipped.
func patientSequences(visits []model.ClassifiedVisit) [][]model.ClassifiedVisit {
	byPatient := make(map[string][]model.ClassifiedVisit)
	order := make([]string, 0)
	for _, v := range visits {
		if v.Record.PatientID == "" {
			continue
		}
		if _, ok := byPatient[v.Record.PatientID]; !ok {
			order = append(order, v.Record.PatientID)
		}
		byPatient[v.Record.PatientID] = append(byPatient[v.Record.PatientID], v)
	}

	sequences := make([][]model.ClassifiedVisit, 0, len(byPatient))
	for _, patientID := range order {
		seq := byPatient[patientID]
		sort.SliceStable(seq, func(i, j int) bool {
			return seq[i].Record.Date.Before(seq[j].Record.Date)
		})

		deduped := make([]model.ClassifiedVisit, 0, len(seq))
		for _, v := range seq {
			if len(deduped) > 0 && sameCalendarDay(deduped[len(deduped)-1].Record.Date, v.Record.Date) {
				continue
			}
			deduped = append(deduped, v)
		}
		sequences = append(sequences, deduped)
	}

	return sequences
}
