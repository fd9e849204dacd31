package reset

import (
	"slices"
	"sync"
)

// Resetter is a filter widget that can clear itself.
type Resetter interface {
	// Active reports whether the widget currently holds a refinement.
	Active() bool
	Reset()
}

// Func adapts plain functions to a Resetter.
type Func struct {
	IsActive func() bool
	OnReset  func()
}

func (f Func) Active() bool {
	return f.IsActive != nil && f.IsActive()
}

func (f Func) Reset() {
	if f.OnReset != nil {
		f.OnReset()
	}
}

type registration struct {
	name     string
	resetter Resetter
}

// Registry holds the reset handlers of independently owned filter widgets.
type Registry struct {
	mu      sync.Mutex
	entries []*registration
}

func NewRegistry() *Registry {
	return &Registry{}
}

// Register adds r under name and returns the function removing it.
func (r *Registry) Register(name string, resetter Resetter) (unregister func()) {
	entry := &registration{name: name, resetter: resetter}
	r.mu.Lock()
	r.entries = append(r.entries, entry)
	r.mu.Unlock()
	return func() {
		r.mu.Lock()
		defer r.mu.Unlock()
		r.entries = slices.DeleteFunc(r.entries, func(e *registration) bool {
			return e == entry
		})
	}
}

func (r *Registry) Names() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	names := make([]string, 0, len(r.entries))
	for _, e := range r.entries {
		names = append(names, e.name)
	}
	return names
}

func (r *Registry) snapshot() []*registration {
	r.mu.Lock()
	defer r.mu.Unlock()
	return slices.Clone(r.entries)
}

// AnyActive reports whether any registered widget holds a refinement.
func (r *Registry) AnyActive() bool {
	for _, e := range r.snapshot() {
		if e.resetter.Active() {
			return true
		}
	}
	return false
}

// ResetAll resets every registered widget in registration order and returns
// the names of the widgets that were reset. Handlers registered or removed
// while resetting take effect on the next call.
func (r *Registry) ResetAll() []string {
	entries := r.snapshot()
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		e.resetter.Reset()
		names = append(names, e.name)
	}
	return names
}
