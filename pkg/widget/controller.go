// Package widget keeps the chrome of the externally rendered date picker in
// sync with an open flag. The picker renders its header, calendar body and
// predefined ranges unconditionally, so showing and hiding them is done by
// toggling inline display on the nodes it injects.
package widget

import (
	"github.com/matst80/slask-filters/pkg/types"
)

const (
	keyEnter  = "Enter"
	keyEscape = "Escape"
)

type visibilityRule struct {
	selector string
	display  string
}

var rules = []visibilityRule{
	{types.SelectorMonthAndYear, "flex"},
	{types.SelectorMonthsVertical, "flex"},
	{types.SelectorDefinedRanges, "block"},
	{types.SelectorCloseDate, "block"},
}

// Controller is the show and hide behaviour of the date picker. It is driven
// from the page's task loop and is not safe for concurrent use.
type Controller struct {
	scope      types.Scope
	lifecycle  *Lifecycle
	listeners  map[types.Element][]func()
	offOutside func()
	open       bool

	// CloseLabel is the text of the synthesized close button.
	CloseLabel string
	// OnToggle is called whenever the open flag changes.
	OnToggle func(open bool)
}

func NewController(scope types.Scope) *Controller {
	return &Controller{
		scope:      scope,
		listeners:  make(map[types.Element][]func()),
		CloseLabel: "Close",
	}
}

// Activate starts watching the page. The picker is closed first, then
// listeners are attached to whatever is already mounted.
func (c *Controller) Activate() {
	if c.lifecycle != nil {
		return
	}
	l := NewLifecycle(c.scope)
	l.Track(types.SelectorDateInputs, c.mountInput, c.unmount)
	l.Track(types.SelectorCloseDate, c.mountCloseButton, c.unmount)
	l.Track(types.SelectorMonthsVertical, c.ensureCloseButton, nil)
	for _, r := range rules {
		l.Track(r.selector, c.applyTo(r), nil)
	}
	c.lifecycle = l
	c.offOutside = c.scope.On(types.EventMouseDown, c.handleOutside)
	c.Close()
	l.Start()
}

// Teardown detaches everything Activate attached. It can be called any
// number of times.
func (c *Controller) Teardown() {
	if c.lifecycle == nil {
		return
	}
	c.lifecycle.Stop()
	c.lifecycle = nil
	if c.offOutside != nil {
		c.offOutside()
		c.offOutside = nil
	}
	for el, offs := range c.listeners {
		for _, off := range offs {
			off()
		}
		delete(c.listeners, el)
	}
}

func (c *Controller) Active() bool {
	return c.lifecycle != nil
}

func (c *Controller) IsOpen() bool {
	return c.open
}

func (c *Controller) Open() {
	c.setOpen(true)
}

func (c *Controller) Close() {
	c.setOpen(false)
}

func (c *Controller) setOpen(open bool) {
	changed := c.open != open
	c.open = open
	for _, r := range rules {
		if el := c.scope.Query(r.selector); el != nil {
			c.applyTo(r)(el)
		}
	}
	if container := c.scope.Query(types.SelectorDateRangeFilter); container != nil {
		if open {
			container.AddClass(types.ClassOpen)
		} else {
			container.RemoveClass(types.ClassOpen)
		}
	}
	if changed && c.OnToggle != nil {
		c.OnToggle(open)
	}
}

func (c *Controller) applyTo(r visibilityRule) func(types.Element) {
	return func(el types.Element) {
		if c.open {
			el.SetStyle("display", r.display)
		} else {
			el.SetStyle("display", "none")
		}
	}
}

func (c *Controller) mountInput(el types.Element) {
	c.listeners[el] = append(c.listeners[el],
		el.On(types.EventFocus, func(*types.Event) {
			c.Open()
		}),
		el.On(types.EventKeyDown, func(ev *types.Event) {
			if ev.Key == keyEnter || ev.Key == keyEscape {
				c.Close()
			}
		}),
	)
}

func (c *Controller) mountCloseButton(el types.Element) {
	c.listeners[el] = append(c.listeners[el], el.On(types.EventClick, func(*types.Event) {
		c.Close()
	}))
}

func (c *Controller) unmount(el types.Element) {
	for _, off := range c.listeners[el] {
		off()
	}
	delete(c.listeners, el)
}

// ensureCloseButton adds the close affordance after the calendar body when
// the picker was mounted without one.
func (c *Controller) ensureCloseButton(months types.Element) {
	if c.scope.Query(types.SelectorCloseDate) != nil {
		return
	}
	btn := c.scope.Create("button", types.ClassCloseDate, "btn", "btn-outline-info", "btn-sm")
	btn.SetAttr("type", "button")
	btn.SetAttr("aria-label", c.CloseLabel)
	btn.SetText(c.CloseLabel)
	months.After(btn)
}

func (c *Controller) handleOutside(ev *types.Event) {
	container := c.scope.Query(types.SelectorDateRangeFilter)
	if container == nil || container.Contains(ev.Target) {
		return
	}
	c.Close()
}
