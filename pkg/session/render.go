package session

import (
	"fmt"
	"slices"
	"strconv"

	"github.com/matst80/slask-filters/pkg/dom"
	"github.com/matst80/slask-filters/pkg/query"
	"github.com/matst80/slask-filters/pkg/search"
	"github.com/matst80/slask-filters/pkg/types"
	"golang.org/x/net/html"
)

// region is a rendered part of the page together with its listeners.
type region struct {
	offs []func()
}

func (r *region) clear() {
	for _, off := range r.offs {
		off()
	}
	r.offs = nil
}

func (r *region) on(el types.Element, kind types.EventKind, fn types.Listener) {
	r.offs = append(r.offs, el.On(kind, fn))
}

func (s *Session) region(name string) *region {
	r, ok := s.regions[name]
	if !ok {
		r = &region{}
		s.regions[name] = r
	}
	r.clear()
	return r
}

func (s *Session) element(selector string) *dom.Element {
	if el := s.doc.Query(selector); el != nil {
		return el.(*dom.Element)
	}
	return nil
}

func (s *Session) render() {
	s.renderSearchBox()
	s.renderRefinements()
	s.renderFacets()
	s.renderClear()
	s.renderSort()
	s.renderResults()
	if parent := s.element(selectorPagination); parent != nil {
		s.pager.Render(s.doc, parent)
	}
}

// renderSearchBox shows the reset control only while there is a keyword.
func (s *Session) renderSearchBox() {
	r := s.region("searchbox")
	if input := s.element(selectorSearchInput); input != nil {
		input.SetAttr("value", s.keyword)
	}
	if old := s.element(types.SelectorSearchBoxReset); old != nil {
		old.Remove()
	}
	if s.keyword == "" {
		return
	}
	form := s.element(selectorSearchForm)
	if form == nil {
		return
	}
	btn := s.doc.CreateElement("button", types.ClassSearchBoxReset)
	btn.SetAttr("type", "reset")
	btn.SetAttr("title", "Clear the search query")
	btn.SetText("×")
	r.on(btn, types.EventClick, func(ev *types.Event) {
		ev.PreventDefault()
		if s.keyword != "" {
			s.keyword = ""
			s.page = 0
		}
	})
	form.Append(btn)
}

type Refinement struct {
	Attribute string `json:"attribute"`
	Label     string `json:"label"`
	Value     string `json:"value"`
}

func (s *Session) refinements() []Refinement {
	ret := make([]Refinement, 0, len(s.tags)+1)
	if s.keyword != "" {
		ret = append(ret, Refinement{Attribute: "query", Label: query.RefinementLabel("query"), Value: s.keyword})
	}
	for _, t := range s.tags {
		ret = append(ret, Refinement{Attribute: tagsAttribute, Label: query.RefinementLabel(tagsAttribute), Value: t})
	}
	return ret
}

func (s *Session) removeRefinement(ref Refinement) {
	switch ref.Attribute {
	case "query":
		if s.keyword == ref.Value {
			s.keyword = ""
			s.page = 0
		}
	case tagsAttribute:
		if slices.Contains(s.tags, ref.Value) {
			s.toggleTag(ref.Value)
		}
	}
}

func (s *Session) renderRefinements() {
	r := s.region("refinements")
	list := s.element(selectorChipList)
	if list == nil {
		return
	}
	for _, ref := range s.refinements() {
		item := s.doc.CreateElement("li", "ais-CurrentRefinements-item")
		if err := item.SetInnerHTML(fmt.Sprintf(
			`<span class="ais-CurrentRefinements-label">%s:</span><span class="ais-CurrentRefinements-category"><span class="ais-CurrentRefinements-categoryLabel">%s</span></span>`,
			html.EscapeString(ref.Label), html.EscapeString(ref.Value))); err != nil {
			continue
		}
		del := s.doc.CreateElement("button", types.ClassRefinementDelete)
		del.SetAttr("type", "button")
		del.SetText("✕")
		r.on(del, types.EventClick, func(*types.Event) {
			s.removeRefinement(ref)
		})
		item.Query(".ais-CurrentRefinements-category").Append(del)
		r.offs = append(r.offs, item.Remove)
		list.Append(item)
	}
}

func (s *Session) renderFacets() {
	r := s.region("facets")
	list := s.element(selectorFacetList)
	if list == nil {
		return
	}
	values := make([]search.FacetValue, 0)
	if s.result != nil {
		values = append(values, s.result.Tags...)
	}
	for _, t := range s.tags {
		if !slices.ContainsFunc(values, func(v search.FacetValue) bool { return v.Value == t }) {
			values = append(values, search.FacetValue{Value: t})
		}
	}
	if old := s.element(selectorFacetEmpty); old != nil {
		old.Remove()
	}
	if len(values) == 0 {
		empty := s.doc.CreateElement("div", "no-results-message")
		empty.SetText("No filters available")
		list.After(empty)
		return
	}
	for _, v := range values {
		item := s.doc.CreateElement("li", "facet-item")
		checked := ""
		if slices.Contains(s.tags, v.Value) {
			checked = ` checked="checked"`
			item.AddClass("is-active")
		}
		if err := item.SetInnerHTML(fmt.Sprintf(
			`<label class="facet-label"><input type="checkbox" class="facet-checkbox" data-tag="%s"%s/><span class="facet-value">%s</span> <span class="facet-count">%d</span></label>`,
			html.EscapeString(v.Value), checked, html.EscapeString(v.Value), v.Count)); err != nil {
			continue
		}
		tag := v.Value
		r.on(item.Query("input"), types.EventClick, func(*types.Event) {
			s.toggleTag(tag)
		})
		r.offs = append(r.offs, item.Remove)
		list.Append(item)
	}
}

// renderClear disables the clear affordance when nothing can be cleared.
func (s *Session) renderClear() {
	btn := s.element(selectorClear)
	if btn == nil {
		return
	}
	if s.coordinator.CanClear() {
		btn.RemoveAttr("disabled")
	} else {
		btn.SetAttr("disabled", "disabled")
	}
}

func (s *Session) renderSort() {
	sel := s.element(selectorSortSelect)
	if sel == nil {
		return
	}
	for _, opt := range sel.QueryAll("option") {
		el := opt.(*dom.Element)
		if el.Attr("value") == s.sort {
			el.SetAttr("selected", "selected")
		} else {
			el.RemoveAttr("selected")
		}
	}
	for _, el := range s.doc.QueryAll(selectorViewSwitch) {
		if el.Attr("data-view") == s.view {
			el.AddClass("active")
		} else {
			el.RemoveClass("active")
		}
	}
}

func (s *Session) renderResults() {
	r := s.region("results")
	stats := search.NewStats(s.result)
	if el := s.element(selectorStats); el != nil {
		_ = el.SetInnerHTML(fmt.Sprintf(`<b>%d</b> out of <span class="stats-total-hits">%d</span> results found`, stats.Shown, stats.NbHits))
	}
	empty := s.result != nil && s.result.NbHits == 0
	s.renderNoResults(r, empty)
	if hits := s.element(selectorHits); hits != nil {
		if empty {
			hits.SetStyle("display", "none")
		} else {
			hits.SetStyle("display", "")
		}
	}
	list := s.element(selectorHitList)
	if list == nil || s.result == nil {
		return
	}
	for i, hit := range s.result.Hits {
		item := s.doc.CreateElement("li", hitClasses(s.view)...)
		item.SetAttr("data-position", strconv.Itoa(s.result.Page*s.result.HitsPerPage+i+1))
		if err := item.SetInnerHTML(hitMarkup(hit, s.view)); err != nil {
			continue
		}
		r.offs = append(r.offs, item.Remove)
		list.Append(item)
	}
}

// renderNoResults fills the no results block. Its clear button runs the
// clear cascade and is disabled while nothing can be cleared.
func (s *Session) renderNoResults(r *region, empty bool) {
	el := s.element(selectorNoResults)
	if el == nil {
		return
	}
	if !empty {
		_ = el.SetInnerHTML("")
		return
	}
	kind := html.EscapeString(s.opts.ResultType)
	if err := el.SetInnerHTML(fmt.Sprintf(
		`<div class="no-results-img"></div><h3>No %s Found</h3><p>No %s have been found that match your search. Try searching with a different keyword.</p>`,
		kind, kind)); err != nil {
		return
	}
	btn := s.doc.CreateElement("button", "no-results-btn", "btn", "btn-primary")
	btn.SetAttr("type", "button")
	btn.SetAttr("aria-label", "clear filters")
	btn.SetText("Clear All Search Criteria")
	if !s.coordinator.CanClear() {
		btn.SetAttr("disabled", "disabled")
	}
	r.on(btn, types.EventClick, func(*types.Event) {
		s.coordinator.ClearAll()
	})
	el.Append(btn)
}

func hitClasses(view string) []string {
	if view == ViewTable {
		return []string{"ais-Hits-item", "col-12"}
	}
	return []string{"ais-Hits-item", "col-12", "col-md-6", "col-lg-4", "col-xl-4", "col-xxl-4", "mb-3"}
}

func hitMarkup(hit search.Hit, view string) string {
	image := ""
	if hit.ImageUrl != "" {
		image = fmt.Sprintf(`<img class="card-img-top" src="%s" alt="%s"/>`, html.EscapeString(hit.ImageUrl), html.EscapeString(hit.ImageAlt))
	}
	body := hit.Snippet
	if body == "" {
		body = hit.Body
	}
	content := fmt.Sprintf(`<h3 class="card-title"><a href="%s">%s</a></h3><time class="hit-date">%s</time><p class="card-text">%s</p>`,
		html.EscapeString(hit.Url), html.EscapeString(hit.Title), html.EscapeString(hit.Date), html.EscapeString(body))
	if view == ViewTable {
		return fmt.Sprintf(`<div class="row"><div class="col-12 views-row mb-30"><article class="card search-featured-card">%s<div class="featured-card-content card-body">%s</div></article></div></div>`, image, content)
	}
	return fmt.Sprintf(`<article class="card search-impressed-card">%s<div class="impressed-card-content card-body">%s</div></article>`, image, content)
}
