package dom

import (
	"log"
	"slices"

	"golang.org/x/net/html"
)

// MutationRecord describes one child list change under Target.
type MutationRecord struct {
	Target  *Element
	Added   []*Element
	Removed []*Element
}

type Observer struct {
	doc     *Document
	target  *html.Node
	fn      func([]MutationRecord)
	pending []MutationRecord
}

// Observe watches the subtree of target for child list changes. Records are
// delivered in batches at the end of the current task.
func (d *Document) Observe(target *Element, fn func([]MutationRecord)) *Observer {
	return d.observe(target.node, fn)
}

func (d *Document) observe(target *html.Node, fn func([]MutationRecord)) *Observer {
	o := &Observer{doc: d, target: target, fn: fn}
	d.observers = append(d.observers, o)
	return o
}

// Disconnect stops delivery, pending records are dropped. Calling it more
// than once is fine.
func (o *Observer) Disconnect() {
	d := o.doc
	d.observers = slices.DeleteFunc(d.observers, func(other *Observer) bool {
		return other == o
	})
	o.pending = nil
}

func (d *Document) record(parent *html.Node, added, removed []*html.Node) {
	if len(d.observers) == 0 || (len(added) == 0 && len(removed) == 0) {
		return
	}
	rec := MutationRecord{Target: d.wrap(parent)}
	for _, n := range added {
		rec.Added = append(rec.Added, d.wrap(n))
	}
	for _, n := range removed {
		rec.Removed = append(rec.Removed, d.wrap(n))
	}
	for _, o := range d.observers {
		if isAncestorOrSelf(o.target, parent) {
			o.pending = append(o.pending, rec)
		}
	}
}

func (d *Document) deliver() {
	for range maxDeliveryRounds {
		ready := make([]*Observer, 0, len(d.observers))
		for _, o := range d.observers {
			if len(o.pending) > 0 {
				ready = append(ready, o)
			}
		}
		if len(ready) == 0 {
			return
		}
		for _, o := range ready {
			records := o.pending
			o.pending = nil
			if slices.Contains(d.observers, o) {
				o.fn(records)
			}
		}
	}
	log.Printf("dom: mutation delivery did not settle after %d rounds", maxDeliveryRounds)
}

func isAncestorOrSelf(ancestor, n *html.Node) bool {
	for p := n; p != nil; p = p.Parent {
		if p == ancestor {
			return true
		}
	}
	return false
}
