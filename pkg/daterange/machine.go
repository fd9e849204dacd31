package daterange

import (
	"time"

	"github.com/matst80/slask-filters/pkg/types"
)

type State uint8

const (
	Empty State = iota
	Selecting
	Complete
)

func (s State) String() string {
	switch s {
	case Selecting:
		return "selecting"
	case Complete:
		return "complete"
	default:
		return "empty"
	}
}

// NotifyFunc receives every transition. Both arguments are nil after a reset.
type NotifyFunc func(start, end *time.Time)

// Machine owns the date range selection. It is not safe for concurrent use,
// the owning session serializes access.
type Machine struct {
	selection types.SelectionRange
	onSelect  NotifyFunc
	maxDate   func() time.Time
}

type Option func(*Machine)

// WithMaxDate bounds day clicks. Days after the returned date are ignored.
func WithMaxDate(fn func() time.Time) Option {
	return func(m *Machine) {
		m.maxDate = fn
	}
}

func NewMachine(onSelect NotifyFunc, opts ...Option) *Machine {
	m := &Machine{onSelect: onSelect}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// OnSelect replaces the host callback.
func (m *Machine) OnSelect(fn NotifyFunc) {
	m.onSelect = fn
}

func (m *Machine) Selection() types.SelectionRange {
	return m.selection
}

func (m *Machine) State() State {
	switch {
	case m.selection.IsComplete():
		return Complete
	case m.selection.StartDate != nil:
		return Selecting
	default:
		return Empty
	}
}

// Select replaces the selection with r and notifies the host.
func (m *Machine) Select(r types.SelectionRange) {
	m.selection = types.SelectionRange{
		StartDate: copyTime(r.StartDate),
		EndDate:   copyTime(r.EndDate),
	}
	m.notify()
}

func (m *Machine) Reset() {
	m.selection = types.SelectionRange{}
	m.notify()
}

// Click advances the two click progression of the calendar. The first click
// starts a range, the second one completes it, a click on a complete range
// starts over.
func (m *Machine) Click(day time.Time) {
	// the bound is compared as a calendar day in the zone of the clicked day
	if m.maxDate != nil && truncateDay(day).After(truncateDay(m.maxDate().In(day.Location()))) {
		return
	}
	switch m.State() {
	case Selecting:
		start := *m.selection.StartDate
		if day.Before(start) {
			start, day = day, start
		}
		m.Select(types.NewSelectionRange(start, day))
	default:
		m.Select(types.SelectionRange{StartDate: &day})
	}
}

func (m *Machine) notify() {
	if m.onSelect == nil {
		return
	}
	m.onSelect(copyTime(m.selection.StartDate), copyTime(m.selection.EndDate))
}

func copyTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	c := *t
	return &c
}

func truncateDay(t time.Time) time.Time {
	y, mo, d := t.Date()
	return time.Date(y, mo, d, 0, 0, 0, 0, t.Location())
}
