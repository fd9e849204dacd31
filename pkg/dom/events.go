package dom

import (
	"slices"

	"github.com/matst80/slask-filters/pkg/types"
	"golang.org/x/net/html"
)

type listener struct {
	kind types.EventKind
	fn   types.Listener
}

func (d *Document) addListener(n *html.Node, kind types.EventKind, fn types.Listener) func() {
	l := &listener{kind: kind, fn: fn}
	d.listeners[n] = append(d.listeners[n], l)
	removed := false
	return func() {
		if removed {
			return
		}
		removed = true
		ls := slices.DeleteFunc(d.listeners[n], func(other *listener) bool {
			return other == l
		})
		if len(ls) == 0 {
			delete(d.listeners, n)
			if !isAncestorOrSelf(d.root, n) {
				delete(d.elements, n)
			}
		} else {
			d.listeners[n] = ls
		}
	}
}

func bubbles(kind types.EventKind) bool {
	return kind != types.EventFocus
}

func (d *Document) dispatch(target *Element, ev *types.Event) {
	if target == nil || ev == nil {
		return
	}
	ev.Target = target
	path := []*html.Node{target.node}
	if bubbles(ev.Kind) {
		for p := target.node.Parent; p != nil; p = p.Parent {
			path = append(path, p)
		}
	}
	for _, n := range path {
		// listeners added during dispatch wait for the next event
		current := slices.Clone(d.listeners[n])
		for _, l := range current {
			if l.kind != ev.Kind || !d.isRegistered(n, l) {
				continue
			}
			l.fn(ev)
		}
		if ev.PropagationStopped() {
			return
		}
	}
}

func (d *Document) isRegistered(n *html.Node, l *listener) bool {
	return slices.Contains(d.listeners[n], l)
}
