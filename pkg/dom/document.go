// Package dom is an in-memory page that implements the filter layer ports.
//
// Work on a Document happens in tasks. Run and Dispatch each execute one task
// under the document lock and then deliver the mutation records collected
// during that task to the observers, before the next task can start. Element
// and Document methods other than Run, Dispatch, DispatchTo, Settle and
// Render expect to be called from inside a task, or from a single goroutine.
package dom

import (
	"io"
	"log"
	"strings"
	"sync"

	"github.com/andybalholm/cascadia"
	"github.com/matst80/slask-filters/pkg/types"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

const maxDeliveryRounds = 32

const blankPage = "<!DOCTYPE html><html><head></head><body></body></html>"

type Scroll struct {
	Target *Element
	Smooth bool
}

type Document struct {
	mu        sync.Mutex
	root      *html.Node
	elements  map[*html.Node]*Element
	listeners map[*html.Node][]*listener
	observers []*Observer
	selectors map[string]cascadia.Selector
	scrolls   []Scroll
}

func New() *Document {
	doc, err := Parse(strings.NewReader(blankPage))
	if err != nil {
		// the blank page is static markup
		panic(err)
	}
	return doc
}

func Parse(r io.Reader) (*Document, error) {
	root, err := html.Parse(r)
	if err != nil {
		return nil, err
	}
	return &Document{
		root:      root,
		elements:  make(map[*html.Node]*Element),
		listeners: make(map[*html.Node][]*listener),
		selectors: make(map[string]cascadia.Selector),
	}, nil
}

// Run executes fn as one task.
func (d *Document) Run(fn func()) {
	d.mu.Lock()
	defer d.mu.Unlock()
	fn()
	d.deliver()
}

// Settle delivers pending mutation records.
func (d *Document) Settle() {
	d.Run(func() {})
}

// Dispatch fires ev at target as one task.
func (d *Document) Dispatch(target *Element, ev *types.Event) {
	d.Run(func() {
		d.dispatch(target, ev)
	})
}

// DispatchTo fires ev at the first element matching selector. It reports
// false when nothing matched.
func (d *Document) DispatchTo(selector string, ev *types.Event) bool {
	found := false
	d.Run(func() {
		if n := d.first(d.root, selector); n != nil {
			found = true
			d.dispatch(d.wrap(n), ev)
		}
	})
	return found
}

func (d *Document) Render(w io.Writer) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return html.Render(w, d.root)
}

func (d *Document) Body() *Element {
	if n := d.first(d.root, "body"); n != nil {
		return d.wrap(n)
	}
	return nil
}

func (d *Document) ByID(id string) *Element {
	if n := d.first(d.root, "#"+id); n != nil {
		return d.wrap(n)
	}
	return nil
}

func (d *Document) Query(selector string) types.Element {
	if n := d.first(d.root, selector); n != nil {
		return d.wrap(n)
	}
	return nil
}

func (d *Document) QueryAll(selector string) []types.Element {
	return d.wrapAll(d.all(d.root, selector))
}

// On registers a document level listener.
func (d *Document) On(kind types.EventKind, fn types.Listener) func() {
	return d.addListener(d.root, kind, fn)
}

// Watch calls fn after every batch of insertions or removals in the page.
func (d *Document) Watch(fn func()) func() {
	o := d.observe(d.root, func([]MutationRecord) {
		fn()
	})
	return o.Disconnect
}

func (d *Document) Create(tag string, classes ...string) types.Element {
	return d.CreateElement(tag, classes...)
}

func (d *Document) CreateElement(tag string, classes ...string) *Element {
	n := &html.Node{
		Type:     html.ElementNode,
		Data:     tag,
		DataAtom: atom.Lookup([]byte(tag)),
	}
	if len(classes) > 0 {
		n.Attr = append(n.Attr, html.Attribute{Key: "class", Val: strings.Join(classes, " ")})
	}
	return d.wrap(n)
}

// ListenerCount is the number of registered listeners that were not removed.
func (d *Document) ListenerCount() int {
	count := 0
	for _, ls := range d.listeners {
		count += len(ls)
	}
	return count
}

func (d *Document) Scrolls() []Scroll {
	return d.scrolls
}

// compile caches selectors. Invalid selectors are cached as nil and match
// nothing.
func (d *Document) compile(selector string) cascadia.Selector {
	if s, ok := d.selectors[selector]; ok {
		return s
	}
	s, err := cascadia.Compile(selector)
	if err != nil {
		log.Printf("dom: invalid selector %q: %v", selector, err)
		s = nil
	}
	d.selectors[selector] = s
	return s
}

func (d *Document) first(root *html.Node, selector string) *html.Node {
	s := d.compile(selector)
	if s == nil {
		return nil
	}
	return s.MatchFirst(root)
}

func (d *Document) all(root *html.Node, selector string) []*html.Node {
	s := d.compile(selector)
	if s == nil {
		return nil
	}
	return s.MatchAll(root)
}

func (d *Document) wrap(n *html.Node) *Element {
	if e, ok := d.elements[n]; ok {
		return e
	}
	e := &Element{doc: d, node: n}
	d.elements[n] = e
	return e
}

func (d *Document) wrapAll(nodes []*html.Node) []types.Element {
	ret := make([]types.Element, 0, len(nodes))
	for _, n := range nodes {
		ret = append(ret, d.wrap(n))
	}
	return ret
}

// forget drops cached wrappers for a detached subtree unless listeners still
// reference the nodes.
func (d *Document) forget(n *html.Node) {
	if _, ok := d.listeners[n]; !ok {
		delete(d.elements, n)
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		d.forget(c)
	}
}

var _ types.Scope = (*Document)(nil)
