package types

import "time"

// SelectionRange is the current date range pick. Both bounds are nil when
// nothing is selected.
type SelectionRange struct {
	StartDate *time.Time `json:"startDate"`
	EndDate   *time.Time `json:"endDate"`
}

func NewSelectionRange(start, end time.Time) SelectionRange {
	return SelectionRange{StartDate: &start, EndDate: &end}
}

func (s SelectionRange) IsEmpty() bool {
	return s.StartDate == nil && s.EndDate == nil
}

func (s SelectionRange) IsComplete() bool {
	return s.StartDate != nil && s.EndDate != nil
}

// FilterFragment is a single clause of the outgoing filter expression.
// The empty fragment means no constraint.
type FilterFragment string

func (f FilterFragment) IsEmpty() bool {
	return f == ""
}
