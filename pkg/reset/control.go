package reset

import "github.com/matst80/slask-filters/pkg/types"

// ControlResetter resets a widget through its own reset controls, found by
// class in the page. Absent controls mean the widget has nothing to reset and
// are skipped silently.
type ControlResetter struct {
	Scope    types.Scope
	Selector string
}

func Control(scope types.Scope, selector string) *ControlResetter {
	return &ControlResetter{Scope: scope, Selector: selector}
}

func (c *ControlResetter) Active() bool {
	return c.Scope.Query(c.Selector) != nil
}

// Reset clicks every matching control. The list is taken once, controls
// rendered by the clicks themselves are left alone.
func (c *ControlResetter) Reset() {
	for _, el := range c.Scope.QueryAll(c.Selector) {
		el.Click()
	}
}
