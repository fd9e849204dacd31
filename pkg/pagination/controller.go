// Package pagination renders previous, page and next links for a result
// set and turns plain clicks into refine calls.
package pagination

import (
	"fmt"
	"strconv"

	"github.com/matst80/slask-filters/pkg/types"
)

// Connector is the results collaborator's pagination hook.
type Connector interface {
	State() types.PaginationState
	Refine(page int)
	CreateURL(page int) string
}

// Scroller brings the results into view after a page change.
type Scroller interface {
	ScrollToResults()
}

// ScopeScroller smoothly scrolls the element matching Selector.
type ScopeScroller struct {
	Scope    types.Scope
	Selector string
}

func (s ScopeScroller) ScrollToResults() {
	selector := s.Selector
	if selector == "" {
		selector = types.SelectorResultsRoot
	}
	if el := s.Scope.Query(selector); el != nil {
		el.ScrollIntoView(true)
	}
}

type ItemKind uint8

const (
	KindPage ItemKind = iota
	KindPrevious
	KindNext
)

type Item struct {
	Kind     ItemKind `json:"kind"`
	Label    string   `json:"label"`
	Page     int      `json:"page"`
	Href     string   `json:"href"`
	Disabled bool     `json:"disabled"`
	Selected bool     `json:"selected"`
}

func (i Item) AriaLabel() string {
	switch i.Kind {
	case KindPrevious:
		return "Previous page"
	case KindNext:
		return "Next Page"
	default:
		return "Page " + i.Label
	}
}

type Controller struct {
	conn   Connector
	scroll Scroller
	offs   []func()
}

func NewController(conn Connector, scroll Scroller) *Controller {
	return &Controller{conn: conn, scroll: scroll}
}

// Items is nil when there is at most one page.
func (c *Controller) Items() []Item {
	s := c.conn.State()
	if s.NbPages <= 1 {
		return nil
	}
	items := make([]Item, 0, len(s.Pages)+2)
	prev := s.CurrentRefinement - 1
	items = append(items, Item{
		Kind:     KindPrevious,
		Label:    "‹",
		Page:     prev,
		Href:     c.conn.CreateURL(prev),
		Disabled: s.IsFirstPage,
	})
	for _, p := range s.Pages {
		items = append(items, Item{
			Kind:     KindPage,
			Label:    strconv.Itoa(p + 1),
			Page:     p,
			Href:     c.conn.CreateURL(p),
			Selected: p == s.CurrentRefinement,
		})
	}
	next := s.CurrentRefinement + 1
	items = append(items, Item{
		Kind:     KindNext,
		Label:    "›",
		Page:     next,
		Href:     c.conn.CreateURL(next),
		Disabled: s.IsLastPage,
	})
	return items
}

// IsModifierClick is true for clicks that should keep the browser's own
// navigation, like opening the link in a new tab.
func IsModifierClick(ev *types.Event) bool {
	if ev == nil {
		return false
	}
	return ev.Button == types.ButtonAuxiliary || ev.AltKey || ev.CtrlKey || ev.MetaKey || ev.ShiftKey
}

// Click handles activation of item. Modifier clicks and disabled items are
// left alone and report false. Otherwise the default navigation is prevented,
// the page is refined and the results are scrolled into view.
func (c *Controller) Click(item Item, ev *types.Event) bool {
	if item.Disabled || IsModifierClick(ev) {
		return false
	}
	if ev != nil {
		ev.PreventDefault()
	}
	c.conn.Refine(item.Page)
	if c.scroll != nil {
		c.scroll.ScrollToResults()
	}
	return true
}

func itemClass(item Item) string {
	class := types.ClassPaginationItem + " page-item"
	if item.Disabled {
		class += " " + types.ClassPaginationDisabled
	} else {
		class += " " + types.ClassPaginationPage
	}
	switch item.Kind {
	case KindPrevious:
		class += " " + types.ClassPaginationPrevious
	case KindNext:
		class += " " + types.ClassPaginationNext
	}
	if item.Selected {
		class += " is-active active"
	}
	return class
}

// Render builds the pagination list into parent, replacing an earlier list.
// Nothing is rendered for a single page.
func (c *Controller) Render(scope types.Scope, parent types.Element) {
	for _, off := range c.offs {
		off()
	}
	c.offs = nil
	if old := scope.Query("." + types.ClassPaginationList); old != nil && parent.Contains(old) {
		old.Remove()
	}
	items := c.Items()
	if items == nil {
		return
	}
	ul := scope.Create("ul", types.ClassPaginationList, "pagination")
	for _, item := range items {
		li := scope.Create("li")
		li.SetAttr("class", itemClass(item))
		if item.Disabled {
			span := scope.Create("span", types.ClassPaginationLink, "page-link")
			span.SetAttr("aria-label", item.AriaLabel())
			span.SetText(item.Label)
			li.Append(span)
		} else {
			a := scope.Create("a", types.ClassPaginationLink, "page-link")
			a.SetAttr("href", item.Href)
			a.SetAttr("aria-label", item.AriaLabel())
			a.SetAttr("data-page", fmt.Sprint(item.Page))
			a.SetText(item.Label)
			it := item
			c.offs = append(c.offs, a.On(types.EventClick, func(ev *types.Event) {
				c.Click(it, ev)
			}))
			li.Append(a)
		}
		ul.Append(li)
	}
	parent.Append(ul)
}
