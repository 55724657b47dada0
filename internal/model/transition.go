package model

import "sort"

// TransitionMatrix counts patients moving from a first-visit category to a
// later-visit category. The axis is the set of category keys observed in the
// data, not the full taxonomy, so matrices built over different date windows
// may have different shapes.
type TransitionMatrix struct {
	Counts     map[string]map[string]int
	Categories []string
}

// NewTransitionMatrix creates a zeroed matrix over the given category keys.
// The axis is sorted so output is deterministic regardless of input order.
func NewTransitionMatrix(categories []string) *TransitionMatrix {
	axis := make([]string, len(categories))
	copy(axis, categories)
	sort.Strings(axis)

	counts := make(map[string]map[string]int, len(axis))
	for _, from := range axis {
		counts[from] = make(map[string]int, len(axis))
	}

	return &TransitionMatrix{Categories: axis, Counts: counts}
}

// Increment adds one observed transition from one category key to another.
// Keys outside the axis are ignored.
func (m *TransitionMatrix) Increment(from, to string) {
	row, ok := m.Counts[from]
	if !ok {
		return
	}
	row[to]++
}

// Count returns the cell value for a from/to pair.
func (m *TransitionMatrix) Count(from, to string) int {
	return m.Counts[from][to]
}

// RowTotal returns the sum of one row, i.e. how many counted patients
// started in the given category.
func (m *TransitionMatrix) RowTotal(from string) int {
	total := 0
	for _, n := range m.Counts[from] {
		total += n
	}
	return total
}

// Total returns the sum over every cell.
func (m *TransitionMatrix) Total() int {
	total := 0
	for from := range m.Counts {
		total += m.RowTotal(from)
	}
	return total
}

// TransitionSet holds the two matrices a cross-sell analysis produces.
type TransitionSet struct {
	// ImmediateNext counts first visit → second distinct-day visit.
	ImmediateNext *TransitionMatrix
	// AnyLater counts first visit → every subsequent distinct-day visit.
	AnyLater *TransitionMatrix
}
