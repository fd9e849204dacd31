package widget

import (
	"slices"

	"github.com/matst80/slask-filters/pkg/types"
)

// Lifecycle adapts an uncontrolled widget to mount and unmount callbacks.
// Every change batch in the scope triggers a rescan of the tracked selectors:
// elements that appeared are mounted, elements that went away are unmounted.
type Lifecycle struct {
	scope  types.Scope
	tracks []*track
	stop   func()
}

type track struct {
	selector  string
	onMount   func(types.Element)
	onUnmount func(types.Element)
	mounted   []types.Element
}

func NewLifecycle(scope types.Scope) *Lifecycle {
	return &Lifecycle{scope: scope}
}

// Track registers callbacks for every element matching selector. Either
// callback may be nil.
func (l *Lifecycle) Track(selector string, onMount, onUnmount func(types.Element)) {
	l.tracks = append(l.tracks, &track{
		selector:  selector,
		onMount:   onMount,
		onUnmount: onUnmount,
	})
}

// Start reconciles once and then on every change batch.
func (l *Lifecycle) Start() {
	if l.stop != nil {
		return
	}
	l.stop = l.scope.Watch(l.Reconcile)
	l.Reconcile()
}

func (l *Lifecycle) Reconcile() {
	for _, t := range l.tracks {
		current := l.scope.QueryAll(t.selector)
		for _, el := range t.mounted {
			if !slices.Contains(current, el) && t.onUnmount != nil {
				t.onUnmount(el)
			}
		}
		previous := t.mounted
		t.mounted = current
		for _, el := range current {
			if !slices.Contains(previous, el) && t.onMount != nil {
				t.onMount(el)
			}
		}
	}
}

// Stop disconnects the watcher and unmounts everything still mounted.
func (l *Lifecycle) Stop() {
	if l.stop == nil {
		return
	}
	l.stop()
	l.stop = nil
	for _, t := range l.tracks {
		for _, el := range t.mounted {
			if t.onUnmount != nil {
				t.onUnmount(el)
			}
		}
		t.mounted = nil
	}
}
