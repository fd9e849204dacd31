package dom

import (
	"slices"
	"strings"

	"github.com/matst80/slask-filters/pkg/types"
	"golang.org/x/net/html"
)

type Element struct {
	doc  *Document
	node *html.Node
}

func (e *Element) Node() *html.Node {
	return e.node
}

func (e *Element) Tag() string {
	return e.node.Data
}

func (e *Element) Parent() *Element {
	if e.node.Parent == nil || e.node.Parent.Type != html.ElementNode {
		return nil
	}
	return e.doc.wrap(e.node.Parent)
}

func (e *Element) Children() []*Element {
	var ret []*Element
	for c := e.node.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode {
			ret = append(ret, e.doc.wrap(c))
		}
	}
	return ret
}

// Connected reports whether the element is attached to its document.
func (e *Element) Connected() bool {
	return isAncestorOrSelf(e.doc.root, e.node)
}

func (e *Element) Query(selector string) types.Element {
	for c := e.node.FirstChild; c != nil; c = c.NextSibling {
		if n := e.doc.first(c, selector); n != nil {
			return e.doc.wrap(n)
		}
	}
	return nil
}

func (e *Element) QueryAll(selector string) []types.Element {
	var nodes []*html.Node
	for c := e.node.FirstChild; c != nil; c = c.NextSibling {
		nodes = append(nodes, e.doc.all(c, selector)...)
	}
	return e.doc.wrapAll(nodes)
}

func (e *Element) classes() []string {
	return strings.Fields(e.Attr("class"))
}

func (e *Element) HasClass(name string) bool {
	return slices.Contains(e.classes(), name)
}

func (e *Element) AddClass(name string) {
	classes := e.classes()
	if slices.Contains(classes, name) {
		return
	}
	e.SetAttr("class", strings.Join(append(classes, name), " "))
}

func (e *Element) RemoveClass(name string) {
	classes := e.classes()
	if !slices.Contains(classes, name) {
		return
	}
	e.SetAttr("class", strings.Join(slices.DeleteFunc(classes, func(c string) bool {
		return c == name
	}), " "))
}

func (e *Element) Style(property string) string {
	for _, decl := range parseStyle(e.Attr("style")) {
		if decl.property == property {
			return decl.value
		}
	}
	return ""
}

// SetStyle sets one inline declaration, an empty value removes it.
func (e *Element) SetStyle(property, value string) {
	decls := parseStyle(e.Attr("style"))
	idx := slices.IndexFunc(decls, func(d declaration) bool {
		return d.property == property
	})
	switch {
	case idx >= 0 && value == "":
		decls = slices.Delete(decls, idx, idx+1)
	case idx >= 0:
		decls[idx].value = value
	case value != "":
		decls = append(decls, declaration{property: property, value: value})
	}
	if len(decls) == 0 {
		e.RemoveAttr("style")
		return
	}
	e.SetAttr("style", formatStyle(decls))
}

func (e *Element) Attr(name string) string {
	for _, a := range e.node.Attr {
		if a.Namespace == "" && a.Key == name {
			return a.Val
		}
	}
	return ""
}

func (e *Element) HasAttr(name string) bool {
	return slices.ContainsFunc(e.node.Attr, func(a html.Attribute) bool {
		return a.Namespace == "" && a.Key == name
	})
}

func (e *Element) SetAttr(name, value string) {
	for i, a := range e.node.Attr {
		if a.Namespace == "" && a.Key == name {
			e.node.Attr[i].Val = value
			return
		}
	}
	e.node.Attr = append(e.node.Attr, html.Attribute{Key: name, Val: value})
}

func (e *Element) RemoveAttr(name string) {
	e.node.Attr = slices.DeleteFunc(e.node.Attr, func(a html.Attribute) bool {
		return a.Namespace == "" && a.Key == name
	})
}

func (e *Element) Text() string {
	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(e.node)
	return sb.String()
}

func (e *Element) SetText(text string) {
	e.removeChildren()
	n := &html.Node{Type: html.TextNode, Data: text}
	e.node.AppendChild(n)
	e.doc.record(e.node, []*html.Node{n}, nil)
}

// SetInnerHTML replaces the children with parsed markup.
func (e *Element) SetInnerHTML(markup string) error {
	nodes, err := html.ParseFragment(strings.NewReader(markup), e.node)
	if err != nil {
		return err
	}
	e.removeChildren()
	for _, n := range nodes {
		e.node.AppendChild(n)
	}
	e.doc.record(e.node, nodes, nil)
	return nil
}

func (e *Element) removeChildren() {
	var removed []*html.Node
	for c := e.node.FirstChild; c != nil; {
		next := c.NextSibling
		e.node.RemoveChild(c)
		removed = append(removed, c)
		c = next
	}
	e.doc.record(e.node, nil, removed)
	for _, n := range removed {
		e.doc.forget(n)
	}
}

func (e *Element) Contains(other types.Element) bool {
	o, ok := other.(*Element)
	if !ok || o == nil {
		return false
	}
	return isAncestorOrSelf(e.node, o.node)
}

func (e *Element) On(kind types.EventKind, fn types.Listener) func() {
	return e.doc.addListener(e.node, kind, fn)
}

// Click dispatches a click inside the running task.
func (e *Element) Click() {
	e.Fire(&types.Event{Kind: types.EventClick})
}

// Fire dispatches ev at e inside the running task. Disabled elements get no
// clicks.
func (e *Element) Fire(ev *types.Event) {
	if ev.Kind == types.EventClick && e.HasAttr("disabled") {
		return
	}
	e.doc.dispatch(e, ev)
}

func (e *Element) Append(child types.Element) {
	c, ok := child.(*Element)
	if !ok || c == nil {
		return
	}
	c.detach()
	e.node.AppendChild(c.node)
	e.doc.record(e.node, []*html.Node{c.node}, nil)
}

// After inserts sibling directly after e. Detached elements ignore it.
func (e *Element) After(sibling types.Element) {
	s, ok := sibling.(*Element)
	if !ok || s == nil || e.node.Parent == nil {
		return
	}
	s.detach()
	parent := e.node.Parent
	parent.InsertBefore(s.node, e.node.NextSibling)
	e.doc.record(parent, []*html.Node{s.node}, nil)
}

func (e *Element) Remove() {
	parent := e.node.Parent
	if parent == nil {
		return
	}
	e.detach()
	e.doc.forget(e.node)
}

func (e *Element) detach() {
	parent := e.node.Parent
	if parent == nil {
		return
	}
	parent.RemoveChild(e.node)
	e.doc.record(parent, nil, []*html.Node{e.node})
}

func (e *Element) ScrollIntoView(smooth bool) {
	e.doc.scrolls = append(e.doc.scrolls, Scroll{Target: e, Smooth: smooth})
}

var _ types.Element = (*Element)(nil)
