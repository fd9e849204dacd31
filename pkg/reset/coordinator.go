// Package reset cascades a single clear action over filter widgets that
// share no state. The cascade is best effort: a widget with nothing to reset
// is skipped, nothing is retried and nothing is rolled back.
package reset

// DateResetter is the part of the date range state machine the coordinator
// drives directly.
type DateResetter interface {
	Reset()
}

// Refinements is the results collaborator's own clear refinements hook.
type Refinements interface {
	CanRefine() bool
	Refine()
}

type Coordinator struct {
	Dates       DateResetter
	Registry    *Registry
	Refinements Refinements
	// OnClear is called after a cascade with the names of the reset widgets.
	OnClear func(reset []string)
}

func NewCoordinator(dates DateResetter, registry *Registry) *Coordinator {
	return &Coordinator{Dates: dates, Registry: registry}
}

// CanClear is false when no widget reports a refinement. The clear affordance
// is rendered disabled in that case.
func (c *Coordinator) CanClear() bool {
	if c.Refinements != nil && c.Refinements.CanRefine() {
		return true
	}
	return c.Registry != nil && c.Registry.AnyActive()
}

// ClearAll resets the date range and every registered widget. It does nothing
// and returns false when CanClear is false.
func (c *Coordinator) ClearAll() bool {
	if !c.CanClear() {
		return false
	}
	if c.Refinements != nil {
		c.Refinements.Refine()
	}
	if c.Dates != nil {
		c.Dates.Reset()
	}
	var names []string
	if c.Registry != nil {
		names = c.Registry.ResetAll()
	}
	if c.OnClear != nil {
		c.OnClear(names)
	}
	return true
}
